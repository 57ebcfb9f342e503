package bus

import (
	"context"
	"testing"

	pkgerrors "plenum/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testCommand struct {
	Name    string
	Invalid bool
}

func (c testCommand) Validate() error {
	if c.Invalid {
		return pkgerrors.NewInvalidArgumentError("name is required")
	}
	return nil
}

type otherCommand struct{}

func (otherCommand) Validate() error { return nil }

func TestCommandBusDispatch(t *testing.T) {
	ctx := context.Background()

	t.Run("routes a command to its registered handler", func(t *testing.T) {
		b := NewCommandBus()
		var handled testCommand
		require.NoError(t, b.Register(testCommand{}, CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
			handled = cmd.(testCommand)
			return nil
		})))

		require.NoError(t, b.Send(ctx, testCommand{Name: "first"}))
		assert.Equal(t, "first", handled.Name)
	})

	t.Run("registering the same command type twice fails", func(t *testing.T) {
		b := NewCommandBus()
		noop := CommandHandlerFunc(func(ctx context.Context, cmd Command) error { return nil })

		require.NoError(t, b.Register(testCommand{}, noop))
		err := b.Register(testCommand{}, noop)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "already registered")
	})

	t.Run("an unregistered command type is an error", func(t *testing.T) {
		b := NewCommandBus()

		err := b.Send(ctx, otherCommand{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no handler registered")
	})

	t.Run("validation runs before dispatch", func(t *testing.T) {
		b := NewCommandBus()
		dispatched := false
		require.NoError(t, b.Register(testCommand{}, CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
			dispatched = true
			return nil
		})))

		err := b.Send(ctx, testCommand{Invalid: true})

		assert.True(t, pkgerrors.IsInvalidArgument(err))
		assert.False(t, dispatched, "an invalid command never reaches its handler")
	})

	t.Run("handler errors come back with their kind intact", func(t *testing.T) {
		b := NewCommandBus()
		require.NoError(t, b.Register(testCommand{}, CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
			return pkgerrors.NewNotAllowedError("minutes is already finalized")
		})))

		err := b.Send(ctx, testCommand{})

		assert.True(t, pkgerrors.IsNotAllowed(err))
	})
}

func TestCommandBusMiddleware(t *testing.T) {
	ctx := context.Background()

	t.Run("middleware wraps outermost first", func(t *testing.T) {
		var order []string
		record := func(name string) Middleware {
			return func(next CommandHandler) CommandHandler {
				return CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
					order = append(order, name)
					return next.Handle(ctx, cmd)
				})
			}
		}

		b := NewCommandBus(record("outer"), record("inner"))
		require.NoError(t, b.Register(testCommand{}, CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
			order = append(order, "handler")
			return nil
		})))

		require.NoError(t, b.Send(ctx, testCommand{}))
		assert.Equal(t, []string{"outer", "inner", "handler"}, order)
	})

	t.Run("logging middleware passes errors through unchanged", func(t *testing.T) {
		b := NewCommandBus(LoggingMiddleware(zap.NewNop()))
		cause := pkgerrors.NewNotFoundError("minutes")
		require.NoError(t, b.Register(testCommand{}, CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
			return cause
		})))

		err := b.Send(ctx, testCommand{})

		assert.True(t, pkgerrors.IsNotFound(err))
	})
}
