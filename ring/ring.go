// File: ring/ring.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// RingBuffer is a bounded circular FIFO with explicit empty/occupied state.
// Implements api.Ring.

package ring

import (
	"fmt"

	"github.com/momentics/hioload-ring/api"
)

// Ensure compile-time interface compliance.
var _ api.Ring[any] = (*RingBuffer[any])(nil)

// RingBuffer is a fixed-capacity FIFO ring buffer (single goroutine).
// The zero value has no storage and is not usable; construct with New or
// MustNew.
type RingBuffer[T any] struct {
	slots []T
	// front and rear are only meaningful while occupied is true.
	occupied bool
	front    int
	rear     int
}

// New allocates a ring buffer holding at most capacity items.
func New[T any](capacity int) (*RingBuffer[T], error) {
	if capacity <= 0 {
		return nil, api.NewError(api.ErrCodeInvalidCapacity, "ring: capacity must be positive").
			WithContext("capacity", capacity)
	}
	return &RingBuffer[T]{slots: make([]T, capacity)}, nil
}

// MustNew is like New but panics on an invalid capacity.
func MustNew[T any](capacity int) *RingBuffer[T] {
	r, err := New[T](capacity)
	if err != nil {
		panic(err)
	}
	return r
}

// Enqueue appends item at the rear; returns api.ErrCapacityExceeded if full.
func (r *RingBuffer[T]) Enqueue(item T) error {
	if !r.occupied {
		r.front, r.rear = 0, 0
		r.occupied = true
		r.slots[0] = item
		return nil
	}
	if r.Len() == len(r.slots) {
		return api.ErrCapacityExceeded
	}
	r.rear = r.next(r.rear)
	r.slots[r.rear] = item
	return nil
}

// Dequeue removes and returns the oldest item; api.ErrEmptyBuffer if empty.
func (r *RingBuffer[T]) Dequeue() (T, error) {
	var zero T
	if !r.occupied {
		return zero, api.ErrEmptyBuffer
	}
	item := r.slots[r.front]
	r.slots[r.front] = zero
	if r.front == r.rear {
		r.occupied = false
		r.front, r.rear = 0, 0
	} else {
		r.front = r.next(r.front)
	}
	return item, nil
}

// DrainTo dequeues up to len(dst) items into dst and returns how many were
// written.
func (r *RingBuffer[T]) DrainTo(dst []T) int {
	n := 0
	for n < len(dst) && r.occupied {
		dst[n], _ = r.Dequeue()
		n++
	}
	return n
}

// Peek returns the oldest item without removing it.
func (r *RingBuffer[T]) Peek() (item T, ok bool) {
	if !r.occupied {
		return item, false
	}
	return r.slots[r.front], true
}

// IsEmpty reports whether the ring holds no items.
func (r *RingBuffer[T]) IsEmpty() bool {
	return !r.occupied
}

// IsFull reports whether the next Enqueue would be rejected.
func (r *RingBuffer[T]) IsFull() bool {
	return r.Len() == len(r.slots)
}

// Len returns number of items in the buffer.
func (r *RingBuffer[T]) Len() int {
	if !r.occupied {
		return 0
	}
	n := len(r.slots)
	return (r.rear-r.front+n)%n + 1
}

// Cap returns fixed buffer capacity.
func (r *RingBuffer[T]) Cap() int {
	return len(r.slots)
}

// Clear drops all items and zeroes their slots.
func (r *RingBuffer[T]) Clear() {
	var zero T
	for n, i := r.Len(), r.front; n > 0; n-- {
		r.slots[i] = zero
		i = r.next(i)
	}
	r.occupied = false
	r.front, r.rear = 0, 0
}

// State reports the position of the ring in its Empty/Partial/Full cycle.
func (r *RingBuffer[T]) State() State {
	switch n := r.Len(); {
	case n == 0:
		return Empty
	case n == len(r.slots):
		return Full
	default:
		return Partial
	}
}

// String renders the ring as ring[len/cap state].
func (r *RingBuffer[T]) String() string {
	return fmt.Sprintf("ring[%d/%d %s]", r.Len(), r.Cap(), r.State())
}

func (r *RingBuffer[T]) next(i int) int {
	return (i + 1) % len(r.slots)
}

func (r *RingBuffer[T]) prev(i int) int {
	return (i - 1 + len(r.slots)) % len(r.slots)
}
