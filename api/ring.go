// File: api/ring.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Fixed-capacity FIFO ring contract shared by the ring implementation and
// the queues built on top of it.

package api

import "iter"

// Ring is a bounded FIFO ring buffer contract.
//
// Implementations reject inserts when full instead of overwriting the oldest
// element. Iteration never mutates the ring; mutating while a sequence is
// being consumed invalidates it.
type Ring[T any] interface {
	// Enqueue appends item, returns ErrCapacityExceeded if full.
	Enqueue(item T) error
	// Dequeue removes the oldest item, returns ErrEmptyBuffer if empty.
	Dequeue() (T, error)
	// Peek returns the oldest item without removing it; ok is false if empty.
	Peek() (item T, ok bool)
	// IsEmpty reports whether the ring holds no items.
	IsEmpty() bool
	// IsFull reports whether the next Enqueue would fail.
	IsFull() bool
	// Len returns current number of items.
	Len() int
	// Cap returns buffer capacity.
	Cap() int
	// All yields items oldest to newest.
	All() iter.Seq[T]
	// Backward yields items newest to oldest.
	Backward() iter.Seq[T]
}
