package bus

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"plenum/pkg/observability"

	"go.uber.org/zap"
)

// Command represents a state-changing request
type Command interface {
	Validate() error
}

// CommandHandler handles a specific command type
type CommandHandler interface {
	Handle(ctx context.Context, cmd Command) error
}

// CommandHandlerFunc adapts a function to the CommandHandler interface
type CommandHandlerFunc func(ctx context.Context, cmd Command) error

// Handle implements CommandHandler
func (f CommandHandlerFunc) Handle(ctx context.Context, cmd Command) error {
	return f(ctx, cmd)
}

// Middleware wraps command handling
type Middleware func(next CommandHandler) CommandHandler

// CommandBus dispatches commands to their registered handlers
type CommandBus struct {
	handlers   map[reflect.Type]CommandHandler
	middleware []Middleware
	mu         sync.RWMutex
}

// NewCommandBus creates a new command bus
func NewCommandBus(middleware ...Middleware) *CommandBus {
	return &CommandBus{
		handlers:   make(map[reflect.Type]CommandHandler),
		middleware: middleware,
	}
}

// Register registers a handler for a command type
func (b *CommandBus) Register(cmdType Command, handler CommandHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := reflect.TypeOf(cmdType)
	if _, exists := b.handlers[t]; exists {
		return fmt.Errorf("handler already registered for command type %s", t.Name())
	}

	// Middleware is applied at registration, outermost first
	for i := len(b.middleware) - 1; i >= 0; i-- {
		handler = b.middleware[i](handler)
	}

	b.handlers[t] = handler
	return nil
}

// Send validates a command and dispatches it to its handler. Handler
// errors come back unwrapped so callers can inspect their kind.
func (b *CommandBus) Send(ctx context.Context, cmd Command) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	b.mu.RLock()
	handler, exists := b.handlers[reflect.TypeOf(cmd)]
	b.mu.RUnlock()

	if !exists {
		return fmt.Errorf("no handler registered for command type %T", cmd)
	}

	return handler.Handle(ctx, cmd)
}

// LoggingMiddleware logs command execution with its outcome
func LoggingMiddleware(logger *zap.Logger) Middleware {
	return func(next CommandHandler) CommandHandler {
		return CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
			name := reflect.TypeOf(cmd).Name()
			logger.Info("Executing command", zap.String("command", name))

			err := next.Handle(ctx, cmd)
			if err != nil {
				logger.Error("Command failed",
					zap.String("command", name),
					zap.Error(err),
				)
			} else {
				logger.Info("Command succeeded", zap.String("command", name))
			}

			return err
		})
	}
}

// MetricsMiddleware records command duration and outcome
func MetricsMiddleware(metrics *observability.Metrics) Middleware {
	return func(next CommandHandler) CommandHandler {
		return CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
			name := reflect.TypeOf(cmd).Name()
			start := time.Now()

			err := next.Handle(ctx, cmd)

			metrics.RecordCommandExecution(ctx, name, time.Since(start), err)
			return err
		})
	}
}

// TracingMiddleware wraps command handling in a trace subsegment
func TracingMiddleware(tracer *observability.Tracer) Middleware {
	return func(next CommandHandler) CommandHandler {
		return CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
			name := reflect.TypeOf(cmd).Name()
			return tracer.TraceFunction(ctx, name, func(ctx context.Context) error {
				return next.Handle(ctx, cmd)
			})
		})
	}
}
