// File: ring/state.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Fill state reported by RingBuffer.State.

package ring

// State is the fill state of a RingBuffer.
type State uint8

const (
	// Empty holds no items; Dequeue fails.
	Empty State = iota
	// Partial holds between one and Cap()-1 items.
	Partial
	// Full holds Cap() items; Enqueue fails.
	Full
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Partial:
		return "partial"
	case Full:
		return "full"
	default:
		return "unknown"
	}
}
