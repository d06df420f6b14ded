package disksched

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kernelsim/kernelsim/internal/trace"
)

func TestWriteReportEmitsPerRequestAndSumLines(t *testing.T) {
	requests := []*Request{
		{ID: 0, ArriveTime: 0, TargetTrack: 5, StartTime: 0, EndTime: 5},
		{ID: 1, ArriveTime: 1, TargetTrack: 10, StartTime: 5, EndTime: 15},
		{ID: 2, ArriveTime: 2, TargetTrack: 3, StartTime: 15, EndTime: 22},
	}
	sink := &trace.CollectSink{}
	WriteReport(sink, requests, 22, 22)

	lines := sink.Snapshot()
	require.Len(t, lines, 4)
	require.Contains(t, lines[0], "0:")
	require.Contains(t, lines[len(lines)-1], "SUM: 22 22")
}

func TestWriteReportHandlesNoRequests(t *testing.T) {
	sink := &trace.CollectSink{}
	WriteReport(sink, nil, 0, 0)
	lines := sink.Snapshot()
	require.Len(t, lines, 1)
	require.Contains(t, lines[0], "SUM: 0 0 0.00 0.00 0")
}
