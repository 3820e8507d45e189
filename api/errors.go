// File: api/errors.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Common error types and error handling utilities for hioload-ring.

package api

import (
	"errors"
	"fmt"
)

// Ring errors. All of them are surfaced synchronously to the caller.
var (
	// ErrInvalidCapacity is returned when a ring is constructed with capacity <= 0.
	ErrInvalidCapacity = errors.New("invalid ring capacity")
	// ErrCapacityExceeded is returned by Enqueue on a full ring.
	ErrCapacityExceeded = errors.New("ring capacity exceeded")
	// ErrEmptyBuffer is returned by Dequeue on an empty ring.
	ErrEmptyBuffer = errors.New("ring buffer is empty")
)

// ErrInvalidArgument reports a malformed argument outside the ring taxonomy,
// such as an unknown overflow policy name.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeInvalidArgument
	ErrCodeInvalidCapacity
	ErrCodeCapacityExceeded
	ErrCodeEmptyBuffer
	ErrCodeInternal
)

var codeSentinels = map[ErrorCode]error{
	ErrCodeInvalidArgument:  ErrInvalidArgument,
	ErrCodeInvalidCapacity:  ErrInvalidCapacity,
	ErrCodeCapacityExceeded: ErrCapacityExceeded,
	ErrCodeEmptyBuffer:      ErrEmptyBuffer,
}

// String returns the symbolic name of the code.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeOK:
		return "ok"
	case ErrCodeInvalidArgument:
		return "invalid_argument"
	case ErrCodeInvalidCapacity:
		return "invalid_capacity"
	case ErrCodeCapacityExceeded:
		return "capacity_exceeded"
	case ErrCodeEmptyBuffer:
		return "empty_buffer"
	case ErrCodeInternal:
		return "internal"
	default:
		return fmt.Sprintf("code(%d)", int(c))
	}
}

// Error represents a structured error with code and context.
// It unwraps to the sentinel error matching its code, so errors.Is works
// against ErrInvalidCapacity and friends.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (context: %+v)", e.Message, e.Context)
}

// Unwrap returns the sentinel for e.Code, or nil.
func (e *Error) Unwrap() error {
	return codeSentinels[e.Code]
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
	}
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// CodeOf extracts the ErrorCode carried by err. Bare sentinels map to their
// code; anything else is ErrCodeInternal, and nil is ErrCodeOK.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ErrCodeOK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	for code, sentinel := range codeSentinels {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return ErrCodeInternal
}
