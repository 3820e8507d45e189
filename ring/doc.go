// File: ring/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package ring implements a fixed-capacity FIFO ring buffer.
//
// RingBuffer stores up to Cap() items in a contiguous slot array and wraps
// its front and rear indices modulo the capacity. A full ring rejects
// further inserts with api.ErrCapacityExceeded; it never overwrites the
// oldest element and never grows. Dequeue on an empty ring returns
// api.ErrEmptyBuffer, while Peek reports emptiness through its ok result.
//
// Iteration (All, Backward, Iter, ReverseIter) is non-destructive. Each
// sequence or iterator snapshots the start index and item count when it is
// created; mutating the ring while one is in use invalidates it and the
// values it yields are unspecified. Use Slice for a detached copy.
//
// A RingBuffer is not safe for concurrent use. Callers sharing one across
// goroutines must serialize access themselves, for example by giving it to a
// single owner goroutine or guarding it with a mutex.
package ring
