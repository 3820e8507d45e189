// File: ring/iter.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Non-destructive traversal. Every traversal captures (start, count) when
// created and steps circularly from there.

package ring

import "iter"

// All returns a sequence of the items from oldest to newest.
// The sequence may be ranged over repeatedly while the ring is unchanged.
func (r *RingBuffer[T]) All() iter.Seq[T] {
	start, count := r.front, r.Len()
	return func(yield func(T) bool) {
		for i, n := start, 0; n < count; n++ {
			if !yield(r.slots[i]) {
				return
			}
			i = r.next(i)
		}
	}
}

// Backward returns a sequence of the items from newest to oldest.
func (r *RingBuffer[T]) Backward() iter.Seq[T] {
	start, count := r.rear, r.Len()
	return func(yield func(T) bool) {
		for i, n := start, 0; n < count; n++ {
			if !yield(r.slots[i]) {
				return
			}
			i = r.prev(i)
		}
	}
}

// Slice returns a copy of the items from oldest to newest.
func (r *RingBuffer[T]) Slice() []T {
	out := make([]T, 0, r.Len())
	for v := range r.All() {
		out = append(out, v)
	}
	return out
}

// ReverseSlice returns a copy of the items from newest to oldest.
func (r *RingBuffer[T]) ReverseSlice() []T {
	out := make([]T, 0, r.Len())
	for v := range r.Backward() {
		out = append(out, v)
	}
	return out
}

// Iterator is a pull-style cursor over a RingBuffer.
type Iterator[T any] struct {
	r       *RingBuffer[T]
	start   int
	count   int
	pos     int
	visited int
	reverse bool
}

// Iter returns a cursor yielding oldest to newest.
func (r *RingBuffer[T]) Iter() *Iterator[T] {
	return &Iterator[T]{r: r, start: r.front, pos: r.front, count: r.Len()}
}

// ReverseIter returns a cursor yielding newest to oldest.
func (r *RingBuffer[T]) ReverseIter() *Iterator[T] {
	return &Iterator[T]{r: r, start: r.rear, pos: r.rear, count: r.Len(), reverse: true}
}

// Next returns the next item, or ok == false once the snapshot is exhausted.
func (it *Iterator[T]) Next() (item T, ok bool) {
	if it.visited >= it.count {
		return item, false
	}
	item = it.r.slots[it.pos]
	if it.reverse {
		it.pos = it.r.prev(it.pos)
	} else {
		it.pos = it.r.next(it.pos)
	}
	it.visited++
	return item, true
}

// Remaining returns how many items Next will still yield.
func (it *Iterator[T]) Remaining() int {
	return it.count - it.visited
}

// Reset rewinds the cursor to the start of its snapshot.
func (it *Iterator[T]) Reset() {
	it.pos = it.start
	it.visited = 0
}
