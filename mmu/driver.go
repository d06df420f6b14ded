package mmu

import (
	"fmt"

	"github.com/kernelsim/kernelsim"
	"github.com/kernelsim/kernelsim/internal/logging"
	"github.com/kernelsim/kernelsim/internal/trace"
)

// Op is one instruction's operation code.
type Op byte

const (
	OpSwitch Op = 'c'
	OpRead   Op = 'r'
	OpWrite  Op = 'w'
	OpExit   Op = 'e'
)

// Instruction is one line of the MMU's input program.
type Instruction struct {
	Op      Op
	Operand int
}

// Driver runs the instruction loop against a process-wide frame table. All
// state lives on the Driver (spec §9: no package-level globals), so
// multiple runs never share mutable state.
type Driver struct {
	Pager Pager
	sink  trace.Sink

	Frames     []Frame
	freeFrames []int // FIFO queue of unused frame indices

	Processes  map[int]*Process
	CurrentPID int
	InstrCount int
	TotalCost  int

	TraceOps    bool // -oO: per-instruction trace
	TracePF     bool // -oP: accepted; Run emits no page-fault detail lines for it
	TraceFrames bool // -oF: final frame table
	TraceStats  bool // -oS: per-process and total cost summary
}

// NewDriver builds a Driver with a frame table of the given size, all
// frames initially free.
func NewDriver(numFrames int, pager Pager, sink trace.Sink) *Driver {
	if sink == nil {
		sink = trace.NoopSink{}
	}
	free := make([]int, numFrames)
	for i := range free {
		free[i] = i
	}
	return &Driver{
		Pager:      pager,
		sink:       sink,
		Frames:     make([]Frame, numFrames),
		freeFrames: free,
		Processes:  make(map[int]*Process),
	}
}

// AddProcess registers a process so its page table can be looked up by PID.
func (d *Driver) AddProcess(p *Process) {
	d.Processes[p.PID] = p
}

// NumFrames implements FrameView.
func (d *Driver) NumFrames() int { return len(d.Frames) }

// FrameReferenced implements FrameView by following the frame's reverse map
// to the owning PTE's referenced bit.
func (d *Driver) FrameReferenced(f int) bool {
	fr := d.Frames[f]
	if !fr.Mapped {
		return false
	}
	return d.Processes[fr.PID].PageTable[fr.VPage].Referenced
}

// ClearFrameReferenced implements FrameView.
func (d *Driver) ClearFrameReferenced(f int) {
	fr := d.Frames[f]
	if fr.Mapped {
		d.Processes[fr.PID].PageTable[fr.VPage].Referenced = false
	}
}

// FrameModified implements FrameView.
func (d *Driver) FrameModified(f int) bool {
	fr := d.Frames[f]
	if !fr.Mapped {
		return false
	}
	return d.Processes[fr.PID].PageTable[fr.VPage].Modified
}

// FrameAge implements FrameView.
func (d *Driver) FrameAge(f int) uint32 { return d.Frames[f].Age }

// SetFrameAge implements FrameView.
func (d *Driver) SetFrameAge(f int, age uint32) { d.Frames[f].Age = age }

// FrameLastUsed implements FrameView.
func (d *Driver) FrameLastUsed(f int) int { return d.Frames[f].LastUsed }

// SetFrameLastUsed implements FrameView.
func (d *Driver) SetFrameLastUsed(f int, instr int) { d.Frames[f].LastUsed = instr }

var _ FrameView = (*Driver)(nil)

// Run executes the full instruction stream.
func (d *Driver) Run(instrs []Instruction) {
	logging.Default().Debug("mmu: starting simulation", "frames", len(d.Frames), "instructions", len(instrs))
	for _, instr := range instrs {
		d.InstrCount++
		switch instr.Op {
		case OpSwitch:
			d.CurrentPID = instr.Operand
			d.TotalCost += CostSwitches
		case OpRead, OpWrite:
			d.access(instr.Op, instr.Operand)
		case OpExit:
			d.exit(instr.Operand)
		}
	}
	logging.Default().Info("mmu: simulation complete", "instructions", d.InstrCount, "total_cost", d.TotalCost)
}

func (d *Driver) currentProcess() *Process {
	return d.Processes[d.CurrentPID]
}

func (d *Driver) access(op Op, vpage int) {
	d.TotalCost += CostReadWrite
	proc := d.currentProcess()
	pte := &proc.PageTable[vpage]
	pte.Referenced = true

	if !pte.Present {
		pte.Modified = false
		d.pageFault(proc, vpage)
		pte = &proc.PageTable[vpage]
		if !pte.Present {
			// SEGV: instruction completes without a mapping.
			return
		}
	}

	if op == OpWrite && pte.WriteProtect {
		d.TotalCost += CostSegprot
		proc.Stats.Segprot++
		if d.TraceOps {
			d.sink.Emit(fmt.Sprintf("%d: SEGPROT", d.InstrCount))
		}
		return
	}
	if op == OpWrite {
		pte.Modified = true
	}
}

// pageFault implements the VMA-validation → frame-allocation → populate
// sequence of spec §4.2.
func (d *Driver) pageFault(proc *Process, vpage int) {
	pte := &proc.PageTable[vpage]

	if !pte.VMAChecked {
		if vma, ok := proc.FindVMA(vpage); ok {
			pte.VMAValid = true
			pte.FileMapped = vma.FileMapped
			pte.WriteProtect = vma.WriteProtect
		}
		pte.VMAChecked = true
	}

	if !pte.VMAValid {
		d.TotalCost += CostSegv
		proc.Stats.Segv++
		if d.TraceOps {
			d.sink.Emit(fmt.Sprintf("%d: SEGV", d.InstrCount))
		}
		return
	}

	frame := d.allocateFrame()
	pte.Present = true
	pte.Frame = frame

	switch {
	case pte.PagedOut:
		d.TotalCost += CostIns
		proc.Stats.Ins++
		if d.TraceOps {
			d.sink.Emit(fmt.Sprintf("%d: IN", d.InstrCount))
		}
	case pte.FileMapped:
		d.TotalCost += CostFins
		proc.Stats.Fins++
		if d.TraceOps {
			d.sink.Emit(fmt.Sprintf("%d: FIN", d.InstrCount))
		}
	default:
		d.TotalCost += CostZeros
		proc.Stats.Zeros++
		if d.TraceOps {
			d.sink.Emit(fmt.Sprintf("%d: ZERO", d.InstrCount))
		}
	}

	d.TotalCost += CostMaps
	proc.Stats.Maps++
	if d.TraceOps {
		d.sink.Emit(fmt.Sprintf("%d: MAP %d", d.InstrCount, frame))
	}

	d.Frames[frame] = Frame{PID: proc.PID, VPage: vpage, Mapped: true, Age: d.Frames[frame].Age, LastUsed: d.Frames[frame].LastUsed}
	d.Pager.AgeOperation(d, frame, d.InstrCount)
}

// allocateFrame returns a free frame, evicting a victim via the pager if
// none is free.
func (d *Driver) allocateFrame() int {
	if len(d.freeFrames) > 0 {
		f := d.freeFrames[0]
		d.freeFrames = d.freeFrames[1:]
		return f
	}

	f := d.Pager.SelectVictim(d, d.InstrCount)
	occupant := d.Frames[f]
	if occupant.Mapped {
		victimProc := d.Processes[occupant.PID]
		victimPTE := &victimProc.PageTable[occupant.VPage]

		d.TotalCost += CostUnmaps
		victimProc.Stats.Unmaps++
		if d.TraceOps {
			d.sink.Emit(fmt.Sprintf("%d: UNMAP %d:%d", d.InstrCount, occupant.PID, occupant.VPage))
		}

		if victimPTE.Modified {
			victimPTE.PagedOut = !victimPTE.FileMapped
			if victimPTE.FileMapped {
				d.TotalCost += CostFouts
				victimProc.Stats.Fouts++
				if d.TraceOps {
					d.sink.Emit(fmt.Sprintf("%d: FOUT", d.InstrCount))
				}
			} else {
				d.TotalCost += CostOuts
				victimProc.Stats.Outs++
				if d.TraceOps {
					d.sink.Emit(fmt.Sprintf("%d: OUT", d.InstrCount))
				}
			}
		}
		victimPTE.Present = false
	}
	return f
}

func (d *Driver) exit(pid int) {
	proc := d.Processes[pid]
	if proc == nil {
		return
	}
	d.TotalCost += CostExits
	if d.TraceOps {
		d.sink.Emit(fmt.Sprintf("%d: EXIT current running process %d", d.InstrCount, pid))
	}

	for vpage := 0; vpage < MaxVPage; vpage++ {
		pte := &proc.PageTable[vpage]
		if pte.Present {
			d.TotalCost += CostUnmaps
			proc.Stats.Unmaps++
			if d.TraceOps {
				d.sink.Emit(fmt.Sprintf("%d: UNMAP %d:%d", d.InstrCount, pid, vpage))
			}
			d.Frames[pte.Frame].Mapped = false
			d.freeFrames = append(d.freeFrames, pte.Frame)

			if pte.FileMapped && pte.Modified {
				d.TotalCost += CostFouts
				proc.Stats.Fouts++
				if d.TraceOps {
					d.sink.Emit(fmt.Sprintf("%d: FOUT", d.InstrCount))
				}
			}
			pte.Present = false
		}
		pte.PagedOut = false
	}
}

// CheckInvariants validates the frame/PTE duality and free-list
// disjointness properties of spec §8, returning a descriptive error for
// the first violation found (nil if none).
func (d *Driver) CheckInvariants() error {
	free := make(map[int]bool, len(d.freeFrames))
	for _, f := range d.freeFrames {
		free[f] = true
		if d.Frames[f].Mapped {
			return kernelsim.NewError("CHECK_INVARIANTS", kernelsim.ErrCodeBadInput,
				fmt.Sprintf("frame %d is both free and mapped", f))
		}
	}
	for i, f := range d.Frames {
		if f.Mapped && free[i] {
			return kernelsim.NewError("CHECK_INVARIANTS", kernelsim.ErrCodeBadInput,
				fmt.Sprintf("frame %d is mapped and in the free list", i))
		}
		if f.Mapped {
			proc := d.Processes[f.PID]
			pte := proc.PageTable[f.VPage]
			if !pte.Present || pte.Frame != i {
				return kernelsim.NewError("CHECK_INVARIANTS", kernelsim.ErrCodeBadInput,
					fmt.Sprintf("frame %d reverse-maps to pid %d vpage %d but that PTE disagrees", i, f.PID, f.VPage))
			}
		}
	}
	return nil
}
