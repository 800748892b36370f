package event

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnqueueDelayTooLongPanics(t *testing.T) {
	q := NewQueue(4)
	require.Panics(t, func() { q.Enqueue("x", 4, Begin) })
	require.Panics(t, func() { q.Enqueue("x", -1, Begin) })
}

func TestPhaseOrderingWithinOneCycle(t *testing.T) {
	q := NewQueue(4)
	q.Enqueue("begin-ev", 0, Begin)
	q.Enqueue("end-ev", 0, End)
	require.Equal(t, []Event{"begin-ev"}, q.AccessBegin())
	require.Equal(t, []Event{"end-ev"}, q.AccessEnd())
}

func TestArrivalVisibleAfterExactDelay(t *testing.T) {
	q := NewQueue(8)
	q.Enqueue("arrival", 3, Begin)
	for cycle := 0; cycle < 3; cycle++ {
		require.Empty(t, q.AccessBegin())
		q.Advance()
	}
	require.Equal(t, []Event{"arrival"}, q.AccessBegin())
}

func TestAdvanceWrapsModuloCapacity(t *testing.T) {
	q := NewQueue(3)
	for i := 0; i < 10; i++ {
		q.Advance()
	}
	q.Enqueue("x", 1, End)
	q.Advance()
	require.Equal(t, []Event{"x"}, q.AccessEnd())
}
