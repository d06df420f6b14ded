package trace

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNoopSinkDiscards(t *testing.T) {
	var s NoopSink
	require.NotPanics(t, func() { s.Emit("anything") })
}

func TestWriterSinkBuffersUntilFlush(t *testing.T) {
	var buf bytes.Buffer
	s := NewWriterSink(&buf)

	s.Emit("100 3 READY")
	require.NoError(t, s.Flush())
	require.Equal(t, "100 3 READY\n", buf.String())
}

func TestCollectSinkAccumulatesInOrder(t *testing.T) {
	s := &CollectSink{}
	s.Emit("first")
	s.Emit("second")

	require.Equal(t, []string{"first", "second"}, s.Snapshot())
}
