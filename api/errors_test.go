package api_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-ring/api"
)

func TestErrorUnwrapsToSentinel(t *testing.T) {
	err := api.NewError(api.ErrCodeInvalidCapacity, "ring: capacity must be positive").
		WithContext("capacity", 0)

	require.ErrorIs(t, err, api.ErrInvalidCapacity)
	assert.NotErrorIs(t, err, api.ErrEmptyBuffer)
	assert.Contains(t, err.Error(), "capacity:0")
}

func TestErrorWithoutContext(t *testing.T) {
	err := &api.Error{Code: api.ErrCodeEmptyBuffer, Message: "empty"}
	assert.Equal(t, "empty", err.Error())
	assert.Nil(t, (&api.Error{Code: api.ErrCodeInternal}).Unwrap())
}

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("offer: %w", api.ErrCapacityExceeded)

	assert.Equal(t, api.ErrCodeOK, api.CodeOf(nil))
	assert.Equal(t, api.ErrCodeCapacityExceeded, api.CodeOf(wrapped))
	assert.Equal(t, api.ErrCodeEmptyBuffer, api.CodeOf(api.ErrEmptyBuffer))
	assert.Equal(t, api.ErrCodeInvalidCapacity,
		api.CodeOf(api.NewError(api.ErrCodeInvalidCapacity, "bad")))
	assert.Equal(t, api.ErrCodeInternal, api.CodeOf(errors.New("boom")))
}

func TestErrorCodeString(t *testing.T) {
	assert.Equal(t, "capacity_exceeded", api.ErrCodeCapacityExceeded.String())
	assert.Equal(t, "code(99)", api.ErrorCode(99).String())
}

func TestEveryErrorCodeIsNamed(t *testing.T) {
	codes := map[api.ErrorCode]string{
		api.ErrCodeOK:               "ok",
		api.ErrCodeInvalidArgument:  "invalid_argument",
		api.ErrCodeInvalidCapacity:  "invalid_capacity",
		api.ErrCodeCapacityExceeded: "capacity_exceeded",
		api.ErrCodeEmptyBuffer:      "empty_buffer",
		api.ErrCodeInternal:         "internal",
	}
	for code, name := range codes {
		assert.Equal(t, name, code.String())
	}
	// Codes are dense; the one after Internal is unnamed.
	assert.Equal(t, "code(6)", (api.ErrCodeInternal + 1).String())
}

func TestSentinelCodesRoundTrip(t *testing.T) {
	for _, code := range []api.ErrorCode{
		api.ErrCodeInvalidArgument,
		api.ErrCodeInvalidCapacity,
		api.ErrCodeCapacityExceeded,
		api.ErrCodeEmptyBuffer,
	} {
		sentinel := api.NewError(code, "x").Unwrap()
		require.Error(t, sentinel, code.String())
		assert.Equal(t, code, api.CodeOf(sentinel))
	}
}
