package cpusched

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kernelsim/kernelsim"
)

// DefaultQuantum is the "infinite" quantum used by non-preemptive
// disciplines (FCFS, LCFS, SRTF): larger than any realistic burst.
const DefaultQuantum = 10000

// DefaultMaxPrio is the number of priority levels used when a PRIO/PREPRIO
// spec omits an explicit :<maxprio> suffix.
const DefaultMaxPrio = 4

// Scheduler is the policy object driving process selection. add_process,
// get_next_process, decay, quantum and prio_preempt of spec.md §4.1.
type Scheduler interface {
	AddProcess(p *Process)
	NextProcess() *Process
	Decay(p *Process)
	Quantum() int
	PrioPreempt() bool
	Name() string
}

// FCFS serves processes in arrival order with an effectively infinite quantum.
type FCFS struct {
	queue []*Process
}

func NewFCFS() *FCFS { return &FCFS{} }

func (s *FCFS) AddProcess(p *Process)    { s.queue = append(s.queue, p) }
func (s *FCFS) Decay(p *Process)         {}
func (s *FCFS) Quantum() int             { return DefaultQuantum }
func (s *FCFS) PrioPreempt() bool        { return false }
func (s *FCFS) Name() string             { return "FCFS" }
func (s *FCFS) NextProcess() *Process {
	if len(s.queue) == 0 {
		return nil
	}
	p := s.queue[0]
	s.queue = s.queue[1:]
	return p
}

var _ Scheduler = (*FCFS)(nil)

// RR is FCFS with a finite quantum.
type RR struct {
	queue   []*Process
	quantum int
}

func NewRR(quantum int) *RR { return &RR{quantum: quantum} }

func (s *RR) AddProcess(p *Process) { s.queue = append(s.queue, p) }
func (s *RR) Decay(p *Process)      {}
func (s *RR) Quantum() int          { return s.quantum }
func (s *RR) PrioPreempt() bool     { return false }
func (s *RR) Name() string          { return fmt.Sprintf("RR %d", s.quantum) }
func (s *RR) NextProcess() *Process {
	if len(s.queue) == 0 {
		return nil
	}
	p := s.queue[0]
	s.queue = s.queue[1:]
	return p
}

var _ Scheduler = (*RR)(nil)

// LCFS serves the most recently added process first.
type LCFS struct {
	stack []*Process
}

func NewLCFS() *LCFS { return &LCFS{} }

func (s *LCFS) AddProcess(p *Process) { s.stack = append(s.stack, p) }
func (s *LCFS) Decay(p *Process)      {}
func (s *LCFS) Quantum() int          { return DefaultQuantum }
func (s *LCFS) PrioPreempt() bool     { return false }
func (s *LCFS) Name() string          { return "LCFS" }
func (s *LCFS) NextProcess() *Process {
	n := len(s.stack)
	if n == 0 {
		return nil
	}
	p := s.stack[n-1]
	s.stack = s.stack[:n-1]
	return p
}

var _ Scheduler = (*LCFS)(nil)

// SRTF orders by ascending RemainingCPU, ties broken by ascending
// StateDoneEvents (the count of events processed when the process last
// entered READY — smaller means it entered READY earlier).
type SRTF struct {
	queue []*Process
}

func NewSRTF() *SRTF { return &SRTF{} }

func (s *SRTF) AddProcess(p *Process) { s.queue = append(s.queue, p) }
func (s *SRTF) Decay(p *Process)      {}
func (s *SRTF) Quantum() int          { return DefaultQuantum }
func (s *SRTF) PrioPreempt() bool     { return false }
func (s *SRTF) Name() string          { return "SRTF" }
func (s *SRTF) NextProcess() *Process {
	if len(s.queue) == 0 {
		return nil
	}
	best := 0
	for i := 1; i < len(s.queue); i++ {
		a, b := s.queue[i], s.queue[best]
		if a.RemainingCPU < b.RemainingCPU ||
			(a.RemainingCPU == b.RemainingCPU && a.StateDoneEvents < b.StateDoneEvents) {
			best = i
		}
	}
	p := s.queue[best]
	s.queue = append(s.queue[:best], s.queue[best+1:]...)
	return p
}

var _ Scheduler = (*SRTF)(nil)

// PRIO is a multi-level queue indexed by DynamicPrio in [0, maxprio). Each
// level holds an "active" and an "expired" FIFO; NextProcess scans active
// from the highest level down, swapping active/expired once active is
// exhausted.
type PRIO struct {
	quantum     int
	maxPrio     int
	active      [][]*Process
	expired     [][]*Process
	prioPreempt bool
}

func NewPRIO(quantum, maxPrio int) *PRIO {
	return &PRIO{
		quantum: quantum,
		maxPrio: maxPrio,
		active:  make([][]*Process, maxPrio),
		expired: make([][]*Process, maxPrio),
	}
}

// NewPREPRIO builds a priority-preemptive variant of PRIO.
func NewPREPRIO(quantum, maxPrio int) *PRIO {
	p := NewPRIO(quantum, maxPrio)
	p.prioPreempt = true
	return p
}

func (s *PRIO) AddProcess(p *Process) {
	if p.DynamicPrio < 0 {
		p.DynamicPrio = p.StaticPrio - 1
		s.expired[p.DynamicPrio] = append(s.expired[p.DynamicPrio], p)
		return
	}
	s.active[p.DynamicPrio] = append(s.active[p.DynamicPrio], p)
}

func (s *PRIO) Decay(p *Process)   { p.DynamicPrio-- }
func (s *PRIO) Quantum() int       { return s.quantum }
func (s *PRIO) PrioPreempt() bool  { return s.prioPreempt }

// Name renders the scheduler-name header line printed before the
// per-process report (spec.md §6.1 header).
func (s *PRIO) Name() string {
	if s.prioPreempt {
		return fmt.Sprintf("PREPRIO %d", s.quantum)
	}
	return fmt.Sprintf("PRIO %d", s.quantum)
}

// MaxPrio returns the number of priority levels this instance was built
// with, so a caller that only holds the Scheduler interface's concrete
// *PRIO (e.g. the CLI, drawing static_prio at load time) can recover it.
func (s *PRIO) MaxPrio() int { return s.maxPrio }

func (s *PRIO) NextProcess() *Process {
	if p := s.scanActive(); p != nil {
		return p
	}
	s.active, s.expired = s.expired, s.active
	return s.scanActive()
}

func (s *PRIO) scanActive() *Process {
	for lvl := s.maxPrio - 1; lvl >= 0; lvl-- {
		if len(s.active[lvl]) > 0 {
			p := s.active[lvl][0]
			s.active[lvl] = s.active[lvl][1:]
			return p
		}
	}
	return nil
}

var _ Scheduler = (*PRIO)(nil)

// ParseSpec parses a CPU scheduler spec string per spec.md §6.1:
// F | L | S | R<q> | P<q>[:<maxprio>] | E<q>[:<maxprio>].
func ParseSpec(spec string) (Scheduler, error) {
	if spec == "" {
		return nil, kernelsim.NewError("PARSE_SPEC", kernelsim.ErrCodeBadSpec, "empty scheduler spec")
	}
	switch spec[0] {
	case 'F':
		if len(spec) != 1 {
			return nil, badSpec(spec)
		}
		return NewFCFS(), nil
	case 'L':
		if len(spec) != 1 {
			return nil, badSpec(spec)
		}
		return NewLCFS(), nil
	case 'S':
		if len(spec) != 1 {
			return nil, badSpec(spec)
		}
		return NewSRTF(), nil
	case 'R':
		q, err := parseQuantumOnly(spec[1:])
		if err != nil {
			return nil, err
		}
		return NewRR(q), nil
	case 'P':
		q, maxPrio, err := parseQuantumMaxPrio(spec[1:])
		if err != nil {
			return nil, err
		}
		return NewPRIO(q, maxPrio), nil
	case 'E':
		q, maxPrio, err := parseQuantumMaxPrio(spec[1:])
		if err != nil {
			return nil, err
		}
		return NewPREPRIO(q, maxPrio), nil
	default:
		return nil, badSpec(spec)
	}
}

func badSpec(spec string) error {
	return kernelsim.NewError("PARSE_SPEC", kernelsim.ErrCodeBadSpec,
		fmt.Sprintf("unrecognized scheduler spec %q", spec))
}

func parseQuantumOnly(rest string) (int, error) {
	if rest == "" {
		return 0, kernelsim.NewError("PARSE_SPEC", kernelsim.ErrCodeBadSpec, "missing quantum")
	}
	q, err := strconv.Atoi(rest)
	if err != nil {
		return 0, kernelsim.WrapError("PARSE_SPEC", kernelsim.ErrCodeBadSpec, err)
	}
	return q, nil
}

func parseQuantumMaxPrio(rest string) (int, int, error) {
	if rest == "" {
		return 0, 0, kernelsim.NewError("PARSE_SPEC", kernelsim.ErrCodeBadSpec, "missing quantum")
	}
	parts := strings.SplitN(rest, ":", 2)
	q, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, kernelsim.WrapError("PARSE_SPEC", kernelsim.ErrCodeBadSpec, err)
	}
	maxPrio := DefaultMaxPrio
	if len(parts) == 2 {
		maxPrio, err = strconv.Atoi(parts[1])
		if err != nil {
			return 0, 0, kernelsim.WrapError("PARSE_SPEC", kernelsim.ErrCodeBadSpec, err)
		}
	}
	return q, maxPrio, nil
}
