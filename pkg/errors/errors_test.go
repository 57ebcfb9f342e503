package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKinds(t *testing.T) {
	cases := []struct {
		name   string
		err    *AppError
		kind   ErrorKind
		status int
		check  func(error) bool
	}{
		{"not authenticated", NewNotAuthenticatedError(""), ErrorKindNotAuthenticated, http.StatusUnauthorized, IsNotAuthenticated},
		{"not authorized", NewNotAuthorizedError(""), ErrorKindNotAuthorized, http.StatusForbidden, IsNotAuthorized},
		{"invalid argument", NewInvalidArgumentError("date is required"), ErrorKindInvalidArgument, http.StatusBadRequest, IsInvalidArgument},
		{"not allowed", NewNotAllowedError("minutes is already finalized"), ErrorKindNotAllowed, http.StatusConflict, IsNotAllowed},
		{"not found", NewNotFoundError("minutes"), ErrorKindNotFound, http.StatusNotFound, IsNotFound},
		{"runtime", NewRuntimeError("update affected 0 documents"), ErrorKindRuntime, http.StatusInternalServerError, IsRuntime},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.kind, tc.err.Kind)
			assert.Equal(t, tc.status, tc.err.HTTPStatus)
			assert.True(t, tc.check(tc.err))
		})
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	inner := NewNotAllowedError("minutes is already finalized")

	wrapped := fmt.Errorf("saga add-minutes failed at step append-to-series: %w", inner)

	assert.True(t, IsNotAllowed(wrapped))
	appErr := GetAppError(wrapped)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusConflict, appErr.HTTPStatus)
}

func TestGetAppError(t *testing.T) {
	t.Run("plain errors carry no AppError", func(t *testing.T) {
		assert.Nil(t, GetAppError(errors.New("boom")))
		assert.False(t, IsAppError(errors.New("boom")))
	})

	t.Run("finds the AppError anywhere in the chain", func(t *testing.T) {
		inner := NewNotFoundError("series")
		wrapped := fmt.Errorf("loading: %w", fmt.Errorf("again: %w", inner))

		assert.Same(t, inner, GetAppError(wrapped))
	})
}

func TestWrap(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, "context"))
	})

	t.Run("an AppError keeps its kind and gains context", func(t *testing.T) {
		err := Wrap(NewNotAuthorizedError("you are not a moderator of this meeting series"), "resolving moderator role")

		assert.True(t, IsNotAuthorized(err))
		assert.Contains(t, err.Error(), "resolving moderator role")
	})

	t.Run("a plain error becomes an internal error with a cause", func(t *testing.T) {
		cause := errors.New("connection reset")

		err := Wrap(cause, "loading series")

		require.True(t, IsKind(err, ErrorKindInternal))
		assert.ErrorIs(t, err, cause)
	})
}

func TestDatabaseError(t *testing.T) {
	cause := errors.New("throttled")

	err := NewDatabaseError("PutItem", cause)

	assert.True(t, IsKind(err, ErrorKindDatabase))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "PutItem")
}

func TestBuilders(t *testing.T) {
	err := NewNotAllowedError("cannot add a new minutes while the previous one is not finalized").
		WithCode("DRAFT_PENDING").
		WithDetails(map[string]interface{}{"series_id": "abc"})

	assert.Equal(t, "DRAFT_PENDING", err.Code)
	assert.Equal(t, "abc", err.Details["series_id"])
	assert.NotEmpty(t, err.StackTrace)
}
