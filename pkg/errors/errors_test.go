package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransientKeepsCauseOutOfJSON(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.5:5432: connection refused")
	err := Transient(cause, "database unavailable")

	assert.True(t, err.Retryable)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
	// Message is what callers see; the cause only surfaces through Error().
	assert.Equal(t, "database unavailable", err.Message)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(Transient(errors.New("x"), "down")))
	assert.False(t, IsRetryable(Validation("bad input")))
	assert.False(t, IsRetryable(errors.New("plain")))
	assert.False(t, IsRetryable(nil))
}

func TestIsRetryableSeesThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("while fetching: %w", Transient(errors.New("x"), "down"))
	assert.True(t, IsRetryable(wrapped))
}

func TestIsKind(t *testing.T) {
	assert.True(t, IsKind(Clone(ErrNotFound, "mentor not found"), ErrNotFound))
	assert.False(t, IsKind(Clone(ErrNotFound, "mentor not found"), ErrConflict))
	assert.False(t, IsKind(errors.New("plain"), ErrNotFound))
}

func TestFromErrorNormalisesUnknownErrors(t *testing.T) {
	err := FromError(errors.New("boom"))
	require.NotNil(t, err)
	assert.Equal(t, ErrInternal.Code, err.Code)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
}

func TestFromErrorPassesTypedThrough(t *testing.T) {
	typed := Clone(ErrConflict, "already requested")
	assert.Same(t, typed, FromError(fmt.Errorf("service: %w", typed)))
	assert.Nil(t, FromError(nil))
}

func TestCloneDoesNotMutateOriginal(t *testing.T) {
	clone := Clone(ErrForbidden, "mentor role required")
	assert.Equal(t, "mentor role required", clone.Message)
	assert.Equal(t, "forbidden", ErrForbidden.Message)

	same := Clone(ErrForbidden, "")
	assert.Equal(t, ErrForbidden.Message, same.Message)
	assert.NotSame(t, ErrForbidden, same)
}

func TestErrorStringIncludesCause(t *testing.T) {
	err := Wrap(errors.New("root"), ErrInternal.Code, ErrInternal.Status, "wrapper")
	assert.Equal(t, "wrapper: root", err.Error())
	assert.Equal(t, "wrapper", New("X", 500, "wrapper").Error())
}
