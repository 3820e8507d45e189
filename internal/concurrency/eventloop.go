// File: internal/concurrency/eventloop.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Batch-draining event loop with adaptive backoff over a Queue.

package concurrency

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/momentics/hioload-ring/control"
)

const (
	defaultBatchSize  = 16
	defaultMaxBackoff = time.Millisecond
	minBackoff        = time.Microsecond
)

// EventHandler consumes items drained by an EventLoop.
type EventHandler[T any] interface {
	HandleEvent(ev T)
}

// HandlerFunc adapts a function to EventHandler.
type HandlerFunc[T any] func(ev T)

// HandleEvent calls f(ev).
func (f HandlerFunc[T]) HandleEvent(ev T) { f(ev) }

type registration[T any] struct {
	id uint64
	h  EventHandler[T]
}

const (
	loopIdle int32 = iota
	loopRunning
	loopStopped
)

// EventLoop drains a Queue on one goroutine and fans each item out to the
// registered handlers in registration order.
type EventLoop[T any] struct {
	queue      *Queue[T]
	handlers   atomic.Pointer[[]registration[T]]
	nextID     atomic.Uint64
	batchSize  int
	maxBackoff time.Duration
	name       string

	log     *zap.Logger
	metrics *control.MetricsRegistry
	probes  *control.DebugProbes

	state    atomic.Int32
	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// LoopOption configures an EventLoop.
type LoopOption func(*loopOptions)

type loopOptions struct {
	batchSize  int
	maxBackoff time.Duration
	name       string
	log        *zap.Logger
	metrics    *control.MetricsRegistry
	probes     *control.DebugProbes
}

// WithBatchSize sets how many items are drained per iteration.
func WithBatchSize(n int) LoopOption {
	return func(o *loopOptions) { o.batchSize = n }
}

// WithMaxBackoff caps the idle sleep between empty polls.
func WithMaxBackoff(d time.Duration) LoopOption {
	return func(o *loopOptions) { o.maxBackoff = d }
}

// WithName sets the metric and probe prefix. Defaults to "loop".
func WithName(name string) LoopOption {
	return func(o *loopOptions) { o.name = name }
}

// WithLogger sets the logger. Defaults to zap.NewNop().
func WithLogger(l *zap.Logger) LoopOption {
	return func(o *loopOptions) { o.log = l }
}

// WithMetrics records posted/rejected/spilled/processed counters into m.
func WithMetrics(m *control.MetricsRegistry) LoopOption {
	return func(o *loopOptions) { o.metrics = m }
}

// WithProbes registers a queue-state probe under the loop name. The probe
// outlives Run so the final state can be dumped after Stop; the owner of p
// removes it with UnregisterProbe.
func WithProbes(p *control.DebugProbes) LoopOption {
	return func(o *loopOptions) { o.probes = p }
}

// NewEventLoop creates an idle loop over q.
func NewEventLoop[T any](q *Queue[T], opts ...LoopOption) *EventLoop[T] {
	o := loopOptions{
		batchSize:  defaultBatchSize,
		maxBackoff: defaultMaxBackoff,
		name:       "loop",
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.batchSize <= 0 {
		o.batchSize = defaultBatchSize
	}
	if o.maxBackoff < minBackoff {
		o.maxBackoff = minBackoff
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	el := &EventLoop[T]{
		queue:      q,
		batchSize:  o.batchSize,
		maxBackoff: o.maxBackoff,
		name:       o.name,
		log:        o.log.With(zap.String("loop", o.name)),
		metrics:    o.metrics,
		probes:     o.probes,
		stopCh:     make(chan struct{}),
		done:       make(chan struct{}),
	}
	el.handlers.Store(&[]registration[T]{})
	if el.probes != nil {
		el.probes.RegisterProbe(el.name, el.probe)
	}
	return el
}

// RegisterHandler adds h and returns a function that removes it again.
func (el *EventLoop[T]) RegisterHandler(h EventHandler[T]) (unregister func()) {
	id := el.nextID.Add(1)
	for {
		old := el.handlers.Load()
		next := make([]registration[T], len(*old), len(*old)+1)
		copy(next, *old)
		next = append(next, registration[T]{id: id, h: h})
		if el.handlers.CompareAndSwap(old, &next) {
			break
		}
	}
	return func() { el.unregister(id) }
}

func (el *EventLoop[T]) unregister(id uint64) {
	for {
		old := el.handlers.Load()
		next := make([]registration[T], 0, len(*old))
		for _, r := range *old {
			if r.id != id {
				next = append(next, r)
			}
		}
		if el.handlers.CompareAndSwap(old, &next) {
			return
		}
	}
}

// Post offers ev to the queue. Under OverflowReject a full queue returns
// api.ErrCapacityExceeded, which callers should treat as backpressure.
func (el *EventLoop[T]) Post(ev T) error {
	if el.state.Load() == loopStopped {
		return ErrLoopStopped
	}
	spilled, err := el.queue.Offer(ev)
	if err != nil {
		el.count("rejected", 1)
		return err
	}
	el.count("posted", 1)
	if spilled {
		el.count("spilled", 1)
	}
	return nil
}

// Pending returns how many items are queued and not yet dispatched.
func (el *EventLoop[T]) Pending() int {
	return el.queue.Len()
}

// Run drains the queue until ctx is done or Stop is called. It returns nil on
// either kind of shutdown. A loop runs at most once.
func (el *EventLoop[T]) Run(ctx context.Context) error {
	if !el.state.CompareAndSwap(loopIdle, loopRunning) {
		if el.state.Load() == loopStopped {
			return ErrLoopStopped
		}
		return ErrLoopRunning
	}
	defer func() {
		el.state.Store(loopStopped)
		// clear handlers on stop
		el.handlers.Store(&[]registration[T]{})
		close(el.done)
	}()

	el.log.Debug("event loop started",
		zap.Int("batch_size", el.batchSize),
		zap.Int("capacity", el.queue.Cap()),
		zap.Stringer("overflow", el.queue.Policy()))

	batch := make([]T, el.batchSize)
	backoff := minBackoff
	for {
		select {
		case <-ctx.Done():
			el.log.Debug("event loop context done", zap.Error(ctx.Err()))
			return nil
		case <-el.stopCh:
			el.log.Debug("event loop stopped")
			return nil
		default:
		}

		n := el.queue.DrainTo(batch)
		if n == 0 {
			if !el.sleep(ctx, backoff) {
				continue
			}
			backoff = min(backoff*2, el.maxBackoff)
			continue
		}
		backoff = minBackoff
		el.processBatch(batch[:n])
		clear(batch[:n])
	}
}

// Stop signals Run to return and waits for it. Stop on a loop that never ran
// just marks it stopped. Safe to call more than once.
func (el *EventLoop[T]) Stop() {
	el.stopOnce.Do(func() {
		close(el.stopCh)
		if el.state.CompareAndSwap(loopIdle, loopStopped) {
			close(el.done)
		}
	})
	<-el.done
}

func (el *EventLoop[T]) processBatch(batch []T) {
	handlers := *el.handlers.Load()
	for _, ev := range batch {
		for _, r := range handlers {
			el.dispatch(r.h, ev)
		}
	}
	el.count("processed", int64(len(batch)))
	if el.metrics != nil {
		el.metrics.Set(el.name+".pending", int64(el.queue.Len()))
	}
}

func (el *EventLoop[T]) dispatch(h EventHandler[T], ev T) {
	defer func() {
		if r := recover(); r != nil {
			el.count("panics", 1)
			el.log.Error("event handler panicked", zap.Any("panic", r))
		}
	}()
	h.HandleEvent(ev)
}

// sleep waits for d; returns false if woken by shutdown.
func (el *EventLoop[T]) sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	case <-el.stopCh:
		return false
	}
}

func (el *EventLoop[T]) count(key string, delta int64) {
	if el.metrics != nil {
		el.metrics.Add(el.name+"."+key, delta)
	}
}

func (el *EventLoop[T]) probe() any {
	return map[string]any{
		"pending":  el.queue.Len(),
		"capacity": el.queue.Cap(),
		"spilled":  el.queue.Spilled(),
		"overflow": el.queue.Policy().String(),
		"handlers": len(*el.handlers.Load()),
		"state":    loopStateName(el.state.Load()),
	}
}

func loopStateName(s int32) string {
	switch s {
	case loopIdle:
		return "idle"
	case loopRunning:
		return "running"
	default:
		return "stopped"
	}
}
