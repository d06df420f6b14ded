package mmu

import (
	"fmt"

	"github.com/kernelsim/kernelsim"
	"github.com/kernelsim/kernelsim/internal/randstream"
)

// FrameView is the narrow slice of Driver a Pager needs: enough to read and
// clear the referenced/modified bits of whichever PTE a frame currently
// backs, without granting pagers access to the rest of the simulator.
type FrameView interface {
	NumFrames() int
	FrameReferenced(frame int) bool
	ClearFrameReferenced(frame int)
	FrameModified(frame int) bool
	FrameAge(frame int) uint32
	SetFrameAge(frame int, age uint32)
	FrameLastUsed(frame int) int
	SetFrameLastUsed(frame int, instr int)
}

// Pager is the victim-selection policy object. Every variant except Random
// sweeps the frame table from a stored hand position in [0, NUM_FRAMES).
type Pager interface {
	// SelectVictim picks a frame to evict given the current frame table and
	// instruction count, and advances the pager's own hand.
	SelectVictim(v FrameView, instrCount int) int
	// AgeOperation runs on every successful map; a no-op except for the
	// aging and working-set pagers.
	AgeOperation(v FrameView, frame int, instrCount int)
}

// FIFOPager evicts frames in the order they were filled.
type FIFOPager struct{ hand int }

func NewFIFOPager() *FIFOPager { return &FIFOPager{} }

func (p *FIFOPager) SelectVictim(v FrameView, instrCount int) int {
	victim := p.hand
	p.hand = (p.hand + 1) % v.NumFrames()
	return victim
}

func (p *FIFOPager) AgeOperation(v FrameView, frame int, instrCount int) {}

var _ Pager = (*FIFOPager)(nil)

// ClockPager gives a referenced frame a second chance before evicting it.
type ClockPager struct{ hand int }

func NewClockPager() *ClockPager { return &ClockPager{} }

func (p *ClockPager) SelectVictim(v FrameView, instrCount int) int {
	n := v.NumFrames()
	for v.FrameReferenced(p.hand) {
		v.ClearFrameReferenced(p.hand)
		p.hand = (p.hand + 1) % n
	}
	victim := p.hand
	p.hand = (p.hand + 1) % n
	return victim
}

func (p *ClockPager) AgeOperation(v FrameView, frame int, instrCount int) {}

var _ Pager = (*ClockPager)(nil)

// ESCPager (NRU) classifies frames into four classes on (referenced,
// modified) and evicts from the lowest-numbered non-empty class.
type ESCPager struct {
	hand      int
	lastReset int
}

func NewESCPager() *ESCPager { return &ESCPager{} }

func escClass(referenced, modified bool) int {
	class := 0
	if referenced {
		class |= 2
	}
	if modified {
		class |= 1
	}
	return class
}

func (p *ESCPager) SelectVictim(v FrameView, instrCount int) int {
	n := v.NumFrames()
	doReset := instrCount-p.lastReset >= ESCResetInterval

	var classes [4]int
	for i := range classes {
		classes[i] = -1
	}

	for count := 0; count < n; count++ {
		idx := (p.hand + count) % n
		class := escClass(v.FrameReferenced(idx), v.FrameModified(idx))
		if classes[class] == -1 {
			classes[class] = idx
		}
		if doReset {
			v.ClearFrameReferenced(idx)
		} else if class == 0 {
			break
		}
	}
	if doReset {
		p.lastReset = instrCount
	}

	victim := 0
	for c := 0; c < 4; c++ {
		if classes[c] != -1 {
			victim = classes[c]
			break
		}
	}
	p.hand = (victim + 1) % n
	return victim
}

func (p *ESCPager) AgeOperation(v FrameView, frame int, instrCount int) {}

var _ Pager = (*ESCPager)(nil)

// AgingPager evicts the frame with the smallest age shift-register value.
type AgingPager struct{ hand int }

func NewAgingPager() *AgingPager { return &AgingPager{} }

func (p *AgingPager) SelectVictim(v FrameView, instrCount int) int {
	n := v.NumFrames()
	victim := -1
	var victimAge uint32
	for count := 0; count < n; count++ {
		idx := (p.hand + count) % n
		age := v.FrameAge(idx) >> 1
		if v.FrameReferenced(idx) {
			age |= 0x80000000
			v.ClearFrameReferenced(idx)
		}
		v.SetFrameAge(idx, age)
		if victim == -1 || age < victimAge {
			victim = idx
			victimAge = age
		}
	}
	p.hand = (victim + 1) % n
	return victim
}

func (p *AgingPager) AgeOperation(v FrameView, frame int, instrCount int) {
	v.SetFrameAge(frame, 0)
}

var _ Pager = (*AgingPager)(nil)

// WorkingSetPager evicts the first frame unreferenced for more than tau
// instructions, falling back to the least-recently-used frame in the lap.
type WorkingSetPager struct{ hand int }

func NewWorkingSetPager() *WorkingSetPager { return &WorkingSetPager{} }

func (p *WorkingSetPager) SelectVictim(v FrameView, instrCount int) int {
	n := v.NumFrames()
	fallback := -1
	fallbackLastUsed := 0

	for count := 0; count < n; count++ {
		idx := (p.hand + count) % n
		if v.FrameReferenced(idx) {
			v.SetFrameLastUsed(idx, instrCount)
			v.ClearFrameReferenced(idx)
			continue
		}
		lastUsed := v.FrameLastUsed(idx)
		if instrCount-lastUsed > WorkingSetTau {
			p.hand = (idx + 1) % n
			return idx
		}
		if fallback == -1 || lastUsed < fallbackLastUsed {
			fallback = idx
			fallbackLastUsed = lastUsed
		}
	}
	if fallback == -1 {
		// every frame was referenced and just stamped with instrCount, so
		// they tie; the earliest in sweep order wins.
		fallback = p.hand
	}
	p.hand = (fallback + 1) % n
	return fallback
}

func (p *WorkingSetPager) AgeOperation(v FrameView, frame int, instrCount int) {
	v.SetFrameLastUsed(frame, instrCount)
}

var _ Pager = (*WorkingSetPager)(nil)

// RandomPager draws its victim from the shared deterministic random stream.
type RandomPager struct {
	rng *randstream.Stream
}

func NewRandomPager(rng *randstream.Stream) *RandomPager {
	return &RandomPager{rng: rng}
}

func (p *RandomPager) SelectVictim(v FrameView, instrCount int) int {
	return p.rng.NextIntZero(v.NumFrames())
}

func (p *RandomPager) AgeOperation(v FrameView, frame int, instrCount int) {}

var _ Pager = (*RandomPager)(nil)

// ParseAlgo builds the Pager named by algo ∈ {f,c,a,e,w,r} per spec §6.2.
func ParseAlgo(algo byte, rng *randstream.Stream) (Pager, error) {
	switch algo {
	case 'f':
		return NewFIFOPager(), nil
	case 'c':
		return NewClockPager(), nil
	case 'a':
		return NewAgingPager(), nil
	case 'e':
		return NewESCPager(), nil
	case 'w':
		return NewWorkingSetPager(), nil
	case 'r':
		return NewRandomPager(rng), nil
	default:
		return nil, kernelsim.NewError("PARSE_SPEC", kernelsim.ErrCodeBadSpec,
			fmt.Sprintf("unrecognized pager algorithm %q", string(algo)))
	}
}
