package sagas

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Step is a single unit of a multi-document write. Compensate, when set,
// undoes the effect of a successful Execute and runs only if a later step
// fails.
type Step struct {
	Name       string
	Execute    func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// State represents the progress of a saga execution
type State string

const (
	StatePending      State = "PENDING"
	StateRunning      State = "RUNNING"
	StateCompleted    State = "COMPLETED"
	StateCompensated  State = "COMPENSATED"
	StateCompensating State = "COMPENSATING"
)

// Saga sequences steps that together form one logical transaction over
// collections that offer no shared atomic commit. On failure, the
// compensations of already-completed steps run in reverse order. The
// compensation of a step is bound to that step's own success, never to
// incidental statement ordering, so the behavior is the same no matter how
// the caller consumes the result.
type Saga struct {
	name   string
	steps  []Step
	state  State
	logger *zap.Logger
}

// New creates a saga
func New(name string, logger *zap.Logger) *Saga {
	return &Saga{
		name:   name,
		state:  StatePending,
		logger: logger,
	}
}

// AddStep appends a step
func (s *Saga) AddStep(step Step) *Saga {
	s.steps = append(s.steps, step)
	return s
}

// State returns the saga's current state
func (s *Saga) State() State {
	return s.state
}

// Execute runs the steps in order. The returned error is always the error
// of the failing step; compensation failures are logged, never substituted
// for it.
func (s *Saga) Execute(ctx context.Context) error {
	s.state = StateRunning
	s.logger.Debug("Starting saga",
		zap.String("saga", s.name),
		zap.Int("steps", len(s.steps)),
	)

	for i, step := range s.steps {
		if err := step.Execute(ctx); err != nil {
			s.logger.Error("Saga step failed",
				zap.String("saga", s.name),
				zap.String("step", step.Name),
				zap.Error(err),
			)

			s.compensate(ctx, i)
			s.state = StateCompensated
			return fmt.Errorf("saga %s failed at step %s: %w", s.name, step.Name, err)
		}

		s.logger.Debug("Saga step completed",
			zap.String("saga", s.name),
			zap.String("step", step.Name),
		)
	}

	s.state = StateCompleted
	return nil
}

// compensate undoes the steps before index failed, in reverse order.
// A failing compensation is logged and the remaining ones still run.
func (s *Saga) compensate(ctx context.Context, failed int) {
	s.state = StateCompensating

	for i := failed - 1; i >= 0; i-- {
		if s.steps[i].Compensate == nil {
			continue
		}

		s.logger.Info("Compensating saga step",
			zap.String("saga", s.name),
			zap.String("step", s.steps[i].Name),
		)

		if err := s.steps[i].Compensate(ctx); err != nil {
			s.logger.Error("Saga compensation failed",
				zap.String("saga", s.name),
				zap.String("step", s.steps[i].Name),
				zap.Error(err),
			)
		}
	}
}
