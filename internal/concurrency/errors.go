// File: internal/concurrency/errors.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Error definitions for concurrency module.

package concurrency

import "errors"

var (
	// ErrLoopRunning indicates Run was called on a loop that is already running
	ErrLoopRunning = errors.New("event loop already running")

	// ErrLoopStopped indicates the loop has been stopped and accepts no more work
	ErrLoopStopped = errors.New("event loop stopped")
)
