package sagas

import (
	"context"
	"errors"
	"testing"

	pkgerrors "plenum/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSagaExecute(t *testing.T) {
	ctx := context.Background()

	t.Run("all steps run in order", func(t *testing.T) {
		var order []string
		saga := New("test", zap.NewNop()).
			AddStep(Step{Name: "one", Execute: func(context.Context) error {
				order = append(order, "one")
				return nil
			}}).
			AddStep(Step{Name: "two", Execute: func(context.Context) error {
				order = append(order, "two")
				return nil
			}})

		require.NoError(t, saga.Execute(ctx))
		assert.Equal(t, []string{"one", "two"}, order)
		assert.Equal(t, StateCompleted, saga.State())
	})

	t.Run("failure compensates completed steps in reverse order", func(t *testing.T) {
		var compensated []string
		saga := New("test", zap.NewNop()).
			AddStep(Step{
				Name:    "one",
				Execute: func(context.Context) error { return nil },
				Compensate: func(context.Context) error {
					compensated = append(compensated, "one")
					return nil
				},
			}).
			AddStep(Step{
				Name:    "two",
				Execute: func(context.Context) error { return nil },
				Compensate: func(context.Context) error {
					compensated = append(compensated, "two")
					return nil
				},
			}).
			AddStep(Step{
				Name:    "three",
				Execute: func(context.Context) error { return errors.New("boom") },
			})

		err := saga.Execute(ctx)
		require.Error(t, err)
		assert.Equal(t, []string{"two", "one"}, compensated)
		assert.Equal(t, StateCompensated, saga.State())
	})

	t.Run("the failing step's error survives, with its kind", func(t *testing.T) {
		cause := pkgerrors.NewNotAllowedError("blocked")
		saga := New("test", zap.NewNop()).
			AddStep(Step{Name: "only", Execute: func(context.Context) error { return cause }})

		err := saga.Execute(ctx)
		assert.True(t, pkgerrors.IsNotAllowed(err))
	})

	t.Run("a failing compensation never replaces the step error", func(t *testing.T) {
		stepErr := pkgerrors.NewRuntimeError("step failed")
		saga := New("test", zap.NewNop()).
			AddStep(Step{
				Name:       "one",
				Execute:    func(context.Context) error { return nil },
				Compensate: func(context.Context) error { return errors.New("compensation failed") },
			}).
			AddStep(Step{Name: "two", Execute: func(context.Context) error { return stepErr }})

		err := saga.Execute(ctx)
		assert.True(t, pkgerrors.IsRuntime(err))
	})

	t.Run("the failed step itself is not compensated", func(t *testing.T) {
		var compensated []string
		saga := New("test", zap.NewNop()).
			AddStep(Step{
				Name:    "one",
				Execute: func(context.Context) error { return errors.New("boom") },
				Compensate: func(context.Context) error {
					compensated = append(compensated, "one")
					return nil
				},
			})

		require.Error(t, saga.Execute(ctx))
		assert.Empty(t, compensated)
	})
}
