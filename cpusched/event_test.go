package cpusched

import (
	"container/heap"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEventQueueOrdersByTimestampThenEID(t *testing.T) {
	var q eventQueue
	heap.Init(&q)

	heap.Push(&q, &Event{EID: 2, Timestamp: 5})
	heap.Push(&q, &Event{EID: 0, Timestamp: 5})
	heap.Push(&q, &Event{EID: 1, Timestamp: 3})

	first := heap.Pop(&q).(*Event)
	second := heap.Pop(&q).(*Event)
	third := heap.Pop(&q).(*Event)

	require.Equal(t, 3, first.Timestamp)
	require.Equal(t, 5, second.Timestamp)
	require.Equal(t, 0, second.EID)
	require.Equal(t, 5, third.Timestamp)
	require.Equal(t, 2, third.EID)
}

func TestEventQueueRemoveArbitraryElement(t *testing.T) {
	var q eventQueue
	heap.Init(&q)

	a := &Event{EID: 0, Timestamp: 10}
	b := &Event{EID: 1, Timestamp: 20}
	c := &Event{EID: 2, Timestamp: 30}
	heap.Push(&q, a)
	heap.Push(&q, b)
	heap.Push(&q, c)

	heap.Remove(&q, b.index)

	require.Equal(t, 2, q.Len())
	remaining := []int{heap.Pop(&q).(*Event).Timestamp, heap.Pop(&q).(*Event).Timestamp}
	require.Equal(t, []int{10, 30}, remaining)
}
