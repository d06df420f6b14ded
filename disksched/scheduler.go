package disksched

import (
	"fmt"

	"github.com/kernelsim/kernelsim"
)

// IOScheduler picks which queued request the disk head services next. All
// of it lives on the implementing struct (spec §9: no package globals), so
// a scheduler instance is safe to reuse across independent runs.
type IOScheduler interface {
	AddRequest(r *Request)
	NextIO(currentTrack int, direction bool) *Request
	Empty() bool
}

func distance(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

// FIFOScheduler services requests in arrival order.
type FIFOScheduler struct{ queue []*Request }

func NewFIFOScheduler() *FIFOScheduler { return &FIFOScheduler{} }

func (s *FIFOScheduler) AddRequest(r *Request) { s.queue = append(s.queue, r) }
func (s *FIFOScheduler) Empty() bool           { return len(s.queue) == 0 }

func (s *FIFOScheduler) NextIO(currentTrack int, direction bool) *Request {
	r := s.queue[0]
	s.queue = s.queue[1:]
	return r
}

var _ IOScheduler = (*FIFOScheduler)(nil)

// SSTFScheduler services the queued request closest to the current track,
// first-inserted winning ties.
type SSTFScheduler struct{ queue []*Request }

func NewSSTFScheduler() *SSTFScheduler { return &SSTFScheduler{} }

func (s *SSTFScheduler) AddRequest(r *Request) { s.queue = append(s.queue, r) }
func (s *SSTFScheduler) Empty() bool           { return len(s.queue) == 0 }

func (s *SSTFScheduler) NextIO(currentTrack int, direction bool) *Request {
	best := 0
	for i, r := range s.queue {
		if distance(r.TargetTrack, currentTrack) < distance(s.queue[best].TargetTrack, currentTrack) {
			best = i
		}
	}
	r := s.queue[best]
	s.queue = append(s.queue[:best], s.queue[best+1:]...)
	return r
}

var _ IOScheduler = (*SSTFScheduler)(nil)

// LookScheduler services the closest request ahead in the direction of
// travel, reversing direction when nothing remains ahead.
type LookScheduler struct{ queue []*Request }

func NewLookScheduler() *LookScheduler { return &LookScheduler{} }

func (s *LookScheduler) AddRequest(r *Request) { s.queue = append(s.queue, r) }
func (s *LookScheduler) Empty() bool           { return len(s.queue) == 0 }

// pick returns the index LOOK would service next given the head's current
// track and direction of travel.
func (s *LookScheduler) pick(currentTrack int, direction bool) int {
	hi, lo := -1, -1
	for i, r := range s.queue {
		if r.TargetTrack >= currentTrack && (hi == -1 || r.TargetTrack < s.queue[hi].TargetTrack) {
			hi = i
		}
		if r.TargetTrack <= currentTrack && (lo == -1 || r.TargetTrack > s.queue[lo].TargetTrack) {
			lo = i
		}
	}
	if direction {
		if hi != -1 {
			return hi
		}
		return lo
	}
	if lo != -1 {
		return lo
	}
	return hi
}

func (s *LookScheduler) NextIO(currentTrack int, direction bool) *Request {
	idx := s.pick(currentTrack, direction)
	r := s.queue[idx]
	s.queue = append(s.queue[:idx], s.queue[idx+1:]...)
	return r
}

var _ IOScheduler = (*LookScheduler)(nil)

// CLookScheduler always services the closest request at or above the
// current track; when none remain ahead it jumps to the lowest target in
// the queue rather than reversing.
type CLookScheduler struct{ queue []*Request }

func NewCLookScheduler() *CLookScheduler { return &CLookScheduler{} }

func (s *CLookScheduler) AddRequest(r *Request) { s.queue = append(s.queue, r) }
func (s *CLookScheduler) Empty() bool           { return len(s.queue) == 0 }

func (s *CLookScheduler) NextIO(currentTrack int, direction bool) *Request {
	next, lowest := -1, 0
	for i, r := range s.queue {
		if r.TargetTrack >= currentTrack && (next == -1 || r.TargetTrack < s.queue[next].TargetTrack) {
			next = i
		}
		if r.TargetTrack < s.queue[lowest].TargetTrack {
			lowest = i
		}
	}
	if next == -1 {
		next = lowest
	}
	r := s.queue[next]
	s.queue = append(s.queue[:next], s.queue[next+1:]...)
	return r
}

var _ IOScheduler = (*CLookScheduler)(nil)

// FLookScheduler keeps two queues: active, drawn down via LOOK, and add,
// where every new request lands. The queues swap whenever active empties.
type FLookScheduler struct {
	active *LookScheduler
	add    []*Request
}

func NewFLookScheduler() *FLookScheduler {
	return &FLookScheduler{active: NewLookScheduler()}
}

func (s *FLookScheduler) AddRequest(r *Request) { s.add = append(s.add, r) }
func (s *FLookScheduler) Empty() bool           { return s.active.Empty() && len(s.add) == 0 }

func (s *FLookScheduler) NextIO(currentTrack int, direction bool) *Request {
	if s.active.Empty() {
		s.active.queue, s.add = s.add, s.active.queue
	}
	return s.active.NextIO(currentTrack, direction)
}

var _ IOScheduler = (*FLookScheduler)(nil)

// ParseAlgo builds the IOScheduler named by algo ∈ {i,j,s,c,f} per spec §6.3.
func ParseAlgo(algo byte) (IOScheduler, error) {
	switch algo {
	case 'i':
		return NewFIFOScheduler(), nil
	case 'j':
		return NewSSTFScheduler(), nil
	case 's':
		return NewLookScheduler(), nil
	case 'c':
		return NewCLookScheduler(), nil
	case 'f':
		return NewFLookScheduler(), nil
	default:
		return nil, kernelsim.NewError("PARSE_SPEC", kernelsim.ErrCodeBadSpec,
			fmt.Sprintf("unrecognized disk scheduler algorithm %q", string(algo)))
	}
}
