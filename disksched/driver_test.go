package disksched

import (
	"testing"

	"github.com/kernelsim/kernelsim/internal/trace"
	"github.com/stretchr/testify/require"
)

func TestDriverFIFOSingleRequest(t *testing.T) {
	requests := []*Request{{ID: 0, ArriveTime: 0, TargetTrack: 7}}
	d := NewDriver(NewFIFOScheduler(), requests, trace.NoopSink{})

	d.Run()

	require.Equal(t, 7, d.TotMovement)
	require.Equal(t, 7, d.TotalTime)
	require.Equal(t, 0, requests[0].StartTime)
	require.Equal(t, 7, requests[0].EndTime)
}

func TestDriverLookThreeRequestsTotalMovement(t *testing.T) {
	// Head starts at track 0; requests arrive one per tick targeting
	// 5, 10, then 3. LOOK services 5, then 10 (still climbing), then
	// reverses for 3: total head travel is |0-5|+|5-10|+|10-3| = 17.
	requests := []*Request{
		{ID: 0, ArriveTime: 0, TargetTrack: 5},
		{ID: 1, ArriveTime: 1, TargetTrack: 10},
		{ID: 2, ArriveTime: 2, TargetTrack: 3},
	}
	d := NewDriver(NewLookScheduler(), requests, trace.NoopSink{})

	d.Run()

	require.Equal(t, 17, d.TotMovement)
	require.Equal(t, 17, d.TotalTime)
	require.Equal(t, 5, requests[0].EndTime)
	require.Equal(t, 10, requests[1].EndTime)
	require.Equal(t, 17, requests[2].EndTime)
}

func TestDriverRequestsServicedInSameTickAsArrivalWhenIdle(t *testing.T) {
	requests := []*Request{{ID: 0, ArriveTime: 0, TargetTrack: 0}}
	d := NewDriver(NewFIFOScheduler(), requests, trace.NoopSink{})

	d.Run()

	require.Equal(t, 0, requests[0].StartTime)
	require.Equal(t, 0, requests[0].EndTime)
	require.Equal(t, 0, d.TotMovement)
}

func TestDriverEmitsVerboseTrace(t *testing.T) {
	sink := &trace.CollectSink{}
	requests := []*Request{{ID: 0, ArriveTime: 0, TargetTrack: 2}}
	d := NewDriver(NewFIFOScheduler(), requests, sink)
	d.Verbose = true

	d.Run()

	lines := sink.Snapshot()
	require.NotEmpty(t, lines)
	require.Contains(t, lines[0], "add")
}

func TestDriverMovementEqualsSumOfAbsoluteDistances(t *testing.T) {
	requests := []*Request{
		{ID: 0, ArriveTime: 0, TargetTrack: 8},
		{ID: 1, ArriveTime: 1, TargetTrack: 2},
	}
	d := NewDriver(NewFIFOScheduler(), requests, trace.NoopSink{})

	d.Run()

	require.Equal(t, 8+6, d.TotMovement) // 0->8 (8), then 8->2 (6)
}
