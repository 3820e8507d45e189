package ring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-ring/api"
)

func TestNewRejectsNonPositiveCapacity(t *testing.T) {
	for _, capacity := range []int{0, -1, -64} {
		r, err := New[int](capacity)
		require.ErrorIs(t, err, api.ErrInvalidCapacity)
		assert.Nil(t, r)
		assert.Equal(t, api.ErrCodeInvalidCapacity, api.CodeOf(err))
	}
	assert.Panics(t, func() { MustNew[int](0) })
}

func TestZeroValueIsUnusable(t *testing.T) {
	var zero RingBuffer[int]
	assert.Zero(t, zero.Cap())
	assert.True(t, zero.IsEmpty())
	assert.Panics(t, func() { _ = zero.Enqueue(1) }, "zero value has no slots")

	r := MustNew[int](1)
	assert.Equal(t, 1, r.Cap())
	require.NoError(t, r.Enqueue(1))
}

// TestRingBuffer_Correctness checks basic enqueue/dequeue contract.
func TestRingBuffer_Correctness(t *testing.T) {
	r := MustNew[int](16)
	for i := 0; i < 16; i++ {
		require.NoError(t, r.Enqueue(i), "enqueue %d", i)
		assert.Equal(t, i+1, r.Len())
	}
	assert.True(t, r.IsFull())
	assert.Equal(t, Full, r.State())
	for i := 0; i < 16; i++ {
		v, err := r.Dequeue()
		require.NoError(t, err)
		require.Equal(t, i, v)
	}
	assert.True(t, r.IsEmpty())
	assert.Equal(t, Empty, r.State())
}

func TestEnqueueOnFullLeavesStateUnchanged(t *testing.T) {
	r := MustNew[string](3)
	for _, s := range []string{"a", "b", "c"} {
		require.NoError(t, r.Enqueue(s))
	}
	front, rear := r.front, r.rear

	err := r.Enqueue("d")
	require.ErrorIs(t, err, api.ErrCapacityExceeded)
	assert.Equal(t, front, r.front)
	assert.Equal(t, rear, r.rear)
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, []string{"a", "b", "c"}, r.Slice())
}

func TestDequeueOnEmptyLeavesStateUnchanged(t *testing.T) {
	r := MustNew[*int](2)
	v, err := r.Dequeue()
	require.ErrorIs(t, err, api.ErrEmptyBuffer)
	assert.Nil(t, v)
	assert.True(t, r.IsEmpty())
	assert.Zero(t, r.Len())

	x := 7
	require.NoError(t, r.Enqueue(&x))
	got, err := r.Dequeue()
	require.NoError(t, err)
	assert.Same(t, &x, got)

	_, err = r.Dequeue()
	require.ErrorIs(t, err, api.ErrEmptyBuffer)
}

func TestWrapAround(t *testing.T) {
	r := MustNew[string](3)
	require.NoError(t, r.Enqueue("A"))
	require.NoError(t, r.Enqueue("B"))
	require.NoError(t, r.Enqueue("C"))

	v, err := r.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, "A", v)

	require.NoError(t, r.Enqueue("D"))
	assert.Equal(t, 0, r.rear, "rear should wrap to slot 0")
	assert.Equal(t, 1, r.front)
	assert.Less(t, r.rear, r.front)
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, []string{"B", "C", "D"}, r.Slice())
	assert.Equal(t, []string{"D", "C", "B"}, r.ReverseSlice())
}

func TestSingleSlotRing(t *testing.T) {
	r := MustNew[string](1)
	require.NoError(t, r.Enqueue("X"))
	assert.Equal(t, Full, r.State())
	require.ErrorIs(t, r.Enqueue("Y"), api.ErrCapacityExceeded)

	v, err := r.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, "X", v)
	assert.True(t, r.IsEmpty())

	require.NoError(t, r.Enqueue("Z"))
	p, ok := r.Peek()
	assert.True(t, ok)
	assert.Equal(t, "Z", p)
}

func TestRoundTripThenReuse(t *testing.T) {
	const n = 5
	r := MustNew[int](n)
	// Offset the indices first so the round trip crosses the wrap point.
	require.NoError(t, r.Enqueue(-1))
	require.NoError(t, r.Enqueue(-2))
	_, _ = r.Dequeue()
	_, _ = r.Dequeue()

	in := []int{10, 20, 30, 40, 50}
	for _, v := range in {
		require.NoError(t, r.Enqueue(v))
	}
	out := make([]int, 0, n)
	for !r.IsEmpty() {
		v, err := r.Dequeue()
		require.NoError(t, err)
		out = append(out, v)
	}
	assert.Equal(t, in, out)
	assert.False(t, r.occupied)

	require.NoError(t, r.Enqueue(99))
	assert.Equal(t, 0, r.front)
	assert.Equal(t, 0, r.rear)
	assert.Equal(t, 1, r.Len())
}

func TestPeek(t *testing.T) {
	r := MustNew[int](4)
	v, ok := r.Peek()
	assert.False(t, ok)
	assert.Zero(t, v)

	require.NoError(t, r.Enqueue(3))
	require.NoError(t, r.Enqueue(4))
	p, ok := r.Peek()
	require.True(t, ok)
	assert.Equal(t, 2, r.Len(), "peek must not remove")

	d, err := r.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, p, d)
}

func TestDequeueClearsSlot(t *testing.T) {
	r := MustNew[*int](2)
	x := 1
	require.NoError(t, r.Enqueue(&x))
	_, err := r.Dequeue()
	require.NoError(t, err)
	for _, s := range r.slots {
		assert.Nil(t, s)
	}
}

func TestDrainTo(t *testing.T) {
	r := MustNew[int](4)
	for i := 1; i <= 4; i++ {
		require.NoError(t, r.Enqueue(i))
	}
	batch := make([]int, 3)
	assert.Equal(t, 3, r.DrainTo(batch))
	assert.Equal(t, []int{1, 2, 3}, batch)
	assert.Equal(t, 1, r.DrainTo(batch))
	assert.Equal(t, 4, batch[0])
	assert.Zero(t, r.DrainTo(batch))
}

func TestClear(t *testing.T) {
	r := MustNew[*int](3)
	a, b := 1, 2
	require.NoError(t, r.Enqueue(&a))
	require.NoError(t, r.Enqueue(&b))
	r.Clear()
	assert.True(t, r.IsEmpty())
	for _, s := range r.slots {
		assert.Nil(t, s)
	}
	require.NoError(t, r.Enqueue(&a))
	assert.Equal(t, 1, r.Len())
}

func TestStateTransitions(t *testing.T) {
	r := MustNew[int](2)
	assert.Equal(t, Empty, r.State())
	require.NoError(t, r.Enqueue(1))
	assert.Equal(t, Partial, r.State())
	require.NoError(t, r.Enqueue(2))
	assert.Equal(t, Full, r.State())
	_, _ = r.Dequeue()
	assert.Equal(t, Partial, r.State())
	_, _ = r.Dequeue()
	assert.Equal(t, Empty, r.State())
	assert.Equal(t, "ring[0/2 empty]", r.String())
	assert.Equal(t, "unknown", State(42).String())
}
