// File: internal/concurrency/queue.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Queue serializes access to a single ring.RingBuffer with a mutex and
// applies an overflow policy when the ring is full.

package concurrency

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/eapache/queue"
	"golang.org/x/sys/cpu"

	"github.com/momentics/hioload-ring/api"
	"github.com/momentics/hioload-ring/ring"
)

// OverflowPolicy selects what Offer does when the ring is full.
type OverflowPolicy int

const (
	// OverflowReject surfaces api.ErrCapacityExceeded to the producer.
	OverflowReject OverflowPolicy = iota
	// OverflowSpill parks overflow in an unbounded side queue and moves it
	// back into the ring as the ring drains.
	OverflowSpill
)

func (p OverflowPolicy) String() string {
	switch p {
	case OverflowReject:
		return "reject"
	case OverflowSpill:
		return "spill"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParseOverflowPolicy maps "reject" or "spill" (case-insensitive) to a policy.
func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "reject":
		return OverflowReject, nil
	case "spill":
		return OverflowSpill, nil
	}
	return 0, api.NewError(api.ErrCodeInvalidArgument, "unknown overflow policy").
		WithContext("policy", s)
}

// Queue is a goroutine-safe bounded FIFO backed by a ring buffer.
// Items keep FIFO order across the ring and the spill queue.
type Queue[T any] struct {
	mu sync.Mutex
	_  cpu.CacheLinePad // keep the lock off the line holding ring state

	ring   *ring.RingBuffer[T]
	spill  *queue.Queue // nil under OverflowReject
	policy OverflowPolicy
}

// NewQueue creates a queue over a ring of the given capacity.
func NewQueue[T any](capacity int, policy OverflowPolicy) (*Queue[T], error) {
	r, err := ring.New[T](capacity)
	if err != nil {
		return nil, fmt.Errorf("new queue: %w", err)
	}
	q := &Queue[T]{ring: r, policy: policy}
	switch policy {
	case OverflowReject:
	case OverflowSpill:
		q.spill = queue.New()
	default:
		return nil, api.NewError(api.ErrCodeInvalidArgument, "unknown overflow policy").
			WithContext("policy", int(policy))
	}
	return q, nil
}

// Offer appends item. spilled reports whether it went to the spill queue.
// Under OverflowReject a full ring yields api.ErrCapacityExceeded.
func (q *Queue[T]) Offer(item T) (spilled bool, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	// Anything already spilled is older than item.
	if q.spill != nil && q.spill.Length() > 0 {
		q.spill.Add(item)
		return true, nil
	}
	err = q.ring.Enqueue(item)
	if errors.Is(err, api.ErrCapacityExceeded) && q.spill != nil {
		q.spill.Add(item)
		return true, nil
	}
	return false, err
}

// Poll removes the oldest item; api.ErrEmptyBuffer if there is none.
func (q *Queue[T]) Poll() (T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	item, err := q.ring.Dequeue()
	if err == nil {
		q.refill()
	}
	return item, err
}

// DrainTo moves up to len(dst) of the oldest items into dst.
func (q *Queue[T]) DrainTo(dst []T) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := 0
	for {
		n += q.ring.DrainTo(dst[n:])
		if q.refill() == 0 || n == len(dst) {
			return n
		}
	}
}

// Peek returns the oldest item without removing it.
func (q *Queue[T]) Peek() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.ring.Peek()
}

// Len returns items held in the ring plus the spill queue.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.ring.Len() + q.spilledLocked()
}

// Cap returns the ring capacity. The spill queue is unbounded.
func (q *Queue[T]) Cap() int {
	return q.ring.Cap()
}

// Spilled returns the number of items waiting in the spill queue.
func (q *Queue[T]) Spilled() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.spilledLocked()
}

// Policy returns the overflow policy.
func (q *Queue[T]) Policy() OverflowPolicy {
	return q.policy
}

// Snapshot copies every queued item, oldest first.
func (q *Queue[T]) Snapshot() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.ring.Slice()
	for i := 0; i < q.spilledLocked(); i++ {
		out = append(out, q.spill.Get(i).(T))
	}
	return out
}

// refill moves spilled items into free ring slots; returns how many moved.
func (q *Queue[T]) refill() int {
	moved := 0
	for q.spill != nil && q.spill.Length() > 0 && !q.ring.IsFull() {
		_ = q.ring.Enqueue(q.spill.Remove().(T))
		moved++
	}
	return moved
}

func (q *Queue[T]) spilledLocked() int {
	if q.spill == nil {
		return 0
	}
	return q.spill.Length()
}
