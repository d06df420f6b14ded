package cpusched

import (
	"testing"

	"github.com/kernelsim/kernelsim/internal/trace"
	"github.com/stretchr/testify/require"
)

func TestWriteReportAggregates(t *testing.T) {
	sink := &trace.CollectSink{}
	p := &Process{PID: 0, ArrivalTime: 0, TotalCPU: 100, MaxCPUBurst: 10, MaxIOBurst: 10,
		StaticPrio: 2, FinishTime: 100, WaitTime: 0, IOTime: 0}

	WriteReport(sink, "FCFS", []*Process{p}, 0)

	lines := sink.Snapshot()
	require.Len(t, lines, 3)
	require.Equal(t, "FCFS", lines[0])
	require.Contains(t, lines[2], "SUM: 100 100.00 0.00")
}
