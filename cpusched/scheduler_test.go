package cpusched

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFCFSIsFIFO(t *testing.T) {
	s := NewFCFS()
	a, b := &Process{PID: 0}, &Process{PID: 1}
	s.AddProcess(a)
	s.AddProcess(b)

	require.Equal(t, a, s.NextProcess())
	require.Equal(t, b, s.NextProcess())
	require.Nil(t, s.NextProcess())
	require.Equal(t, DefaultQuantum, s.Quantum())
}

func TestLCFSIsLIFO(t *testing.T) {
	s := NewLCFS()
	a, b := &Process{PID: 0}, &Process{PID: 1}
	s.AddProcess(a)
	s.AddProcess(b)

	require.Equal(t, b, s.NextProcess())
	require.Equal(t, a, s.NextProcess())
}

func TestSRTFOrdersByRemainingCPUThenStateDoneEvents(t *testing.T) {
	s := NewSRTF()
	slow := &Process{PID: 0, RemainingCPU: 10, StateDoneEvents: 1}
	fast := &Process{PID: 1, RemainingCPU: 3, StateDoneEvents: 5}
	tieEarlier := &Process{PID: 2, RemainingCPU: 3, StateDoneEvents: 2}
	s.AddProcess(slow)
	s.AddProcess(fast)
	s.AddProcess(tieEarlier)

	require.Equal(t, tieEarlier, s.NextProcess())
	require.Equal(t, fast, s.NextProcess())
	require.Equal(t, slow, s.NextProcess())
}

func TestPRIOResetsExpiredDynamicPrio(t *testing.T) {
	p := NewPRIO(4, 4)
	low := &Process{PID: 0, StaticPrio: 1, DynamicPrio: -1}
	high := &Process{PID: 1, StaticPrio: 4, DynamicPrio: 3}
	p.AddProcess(low)
	p.AddProcess(high)

	require.Equal(t, high, p.NextProcess())
	require.Equal(t, low, p.NextProcess())
	require.Equal(t, 0, low.DynamicPrio)
}

func TestPRIOSwapsActiveAndExpiredWhenActiveExhausted(t *testing.T) {
	p := NewPRIO(4, 2)
	a := &Process{PID: 0, DynamicPrio: -1, StaticPrio: 1}
	b := &Process{PID: 1, DynamicPrio: 1}
	p.AddProcess(a) // expired, level 0
	p.AddProcess(b) // active, level 1

	require.Equal(t, b, p.NextProcess()) // drains active
	require.Equal(t, a, p.NextProcess()) // swap brings expired in as active
	require.Nil(t, p.NextProcess())
}

func TestPREPRIOIsPriorityPreemptive(t *testing.T) {
	p := NewPREPRIO(4, 4)
	require.True(t, p.PrioPreempt())
	plain := NewPRIO(4, 4)
	require.False(t, plain.PrioPreempt())
}

func TestParseSpecVariants(t *testing.T) {
	cases := []struct {
		spec    string
		wantT   any
		quantum int
	}{
		{"F", &FCFS{}, DefaultQuantum},
		{"L", &LCFS{}, DefaultQuantum},
		{"S", &SRTF{}, DefaultQuantum},
		{"R4", &RR{}, 4},
	}
	for _, tc := range cases {
		sched, err := ParseSpec(tc.spec)
		require.NoError(t, err)
		require.IsType(t, tc.wantT, sched)
		require.Equal(t, tc.quantum, sched.Quantum())
	}
}

func TestParseSpecPrioWithDefaultMaxPrio(t *testing.T) {
	sched, err := ParseSpec("P4")
	require.NoError(t, err)
	prio, ok := sched.(*PRIO)
	require.True(t, ok)
	require.Equal(t, 4, prio.quantum)
	require.Equal(t, DefaultMaxPrio, prio.maxPrio)
	require.False(t, prio.PrioPreempt())
}

func TestParseSpecPreprioWithExplicitMaxPrio(t *testing.T) {
	sched, err := ParseSpec("E2:6")
	require.NoError(t, err)
	prio, ok := sched.(*PRIO)
	require.True(t, ok)
	require.Equal(t, 2, prio.quantum)
	require.Equal(t, 6, prio.maxPrio)
	require.True(t, prio.PrioPreempt())
}

func TestParseSpecRejectsUnknownLetter(t *testing.T) {
	_, err := ParseSpec("Z")
	require.Error(t, err)
}

func TestParseSpecRejectsEmpty(t *testing.T) {
	_, err := ParseSpec("")
	require.Error(t, err)
}
