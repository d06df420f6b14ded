package disksched

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFIFOSchedulerServicesArrivalOrder(t *testing.T) {
	s := NewFIFOScheduler()
	s.AddRequest(&Request{ID: 0, TargetTrack: 50})
	s.AddRequest(&Request{ID: 1, TargetTrack: 10})

	r := s.NextIO(0, true)
	require.Equal(t, 0, r.ID)
	require.False(t, s.Empty())
	r = s.NextIO(0, true)
	require.Equal(t, 1, r.ID)
	require.True(t, s.Empty())
}

func TestSSTFSchedulerPicksClosestTieBreaksEarliest(t *testing.T) {
	s := NewSSTFScheduler()
	s.AddRequest(&Request{ID: 0, TargetTrack: 50})
	s.AddRequest(&Request{ID: 1, TargetTrack: 10}) // distance 1 from 11
	s.AddRequest(&Request{ID: 2, TargetTrack: 12}) // distance 1 from 11, ties with id1

	r := s.NextIO(11, true)
	require.Equal(t, 1, r.ID)
}

func TestLookSchedulerPrefersDirectionOfTravel(t *testing.T) {
	s := NewLookScheduler()
	s.AddRequest(&Request{ID: 0, TargetTrack: 5})
	s.AddRequest(&Request{ID: 1, TargetTrack: 10})
	s.AddRequest(&Request{ID: 2, TargetTrack: 3})

	r := s.NextIO(5, true) // at track 5: above-or-equal candidates are 5 and 10
	require.Equal(t, 0, r.ID)
}

func TestLookSchedulerReversesWhenNothingAhead(t *testing.T) {
	s := NewLookScheduler()
	s.AddRequest(&Request{ID: 0, TargetTrack: 3})

	r := s.NextIO(10, true) // nothing at or above 10, falls back below
	require.Equal(t, 0, r.ID)
}

func TestCLookSchedulerJumpsToLowestWhenNothingAhead(t *testing.T) {
	s := NewCLookScheduler()
	s.AddRequest(&Request{ID: 0, TargetTrack: 3})
	s.AddRequest(&Request{ID: 1, TargetTrack: 20})
	s.AddRequest(&Request{ID: 2, TargetTrack: 15})

	r := s.NextIO(16, true)
	require.Equal(t, 1, r.ID) // 20 is the smallest target >= 16

	r = s.NextIO(25, true)
	require.Equal(t, 0, r.ID) // nothing >= 25 left, jump to the lowest (3)
}

func TestFLookSchedulerSwapsWhenActiveQueueEmpty(t *testing.T) {
	s := NewFLookScheduler()
	s.AddRequest(&Request{ID: 0, TargetTrack: 5})
	s.AddRequest(&Request{ID: 1, TargetTrack: 1})
	require.False(t, s.Empty())

	r := s.NextIO(3, true)
	require.Equal(t, 0, r.ID) // LOOK over the swapped-in queue: 5 is ahead of 3

	// a request arriving while the first is in flight must land in add,
	// not be visible to this round's selection.
	s.AddRequest(&Request{ID: 2, TargetTrack: 2})
	require.False(t, s.Empty())
}

func TestParseAlgoAllVariants(t *testing.T) {
	for _, algo := range []byte{'i', 'j', 's', 'c', 'f'} {
		sched, err := ParseAlgo(algo)
		require.NoError(t, err)
		require.NotNil(t, sched)
	}
	_, err := ParseAlgo('z')
	require.Error(t, err)
}
