package mmu

import (
	"fmt"
	"strings"

	"github.com/kernelsim/kernelsim/internal/trace"
)

// WriteReport emits the per-process cost breakdown and the TOTALCOST
// summary line to sink.
func WriteReport(sink trace.Sink, procs []*Process, totalCost int) {
	for _, p := range procs {
		s := p.Stats
		sink.Emit(fmt.Sprintf("PROC[%d]: U=%d M=%d I=%d FI=%d O=%d FO=%d Z=%d SV=%d SP=%d",
			p.PID, s.Unmaps, s.Maps, s.Ins, s.Fins, s.Outs, s.Fouts, s.Zeros, s.Segv, s.Segprot))
	}
	sink.Emit(fmt.Sprintf("TOTALCOST %d", totalCost))
}

// WriteFrameTable emits one "FT:" line naming, for each frame in order,
// either the "pid:vpage" mapped into it or "*" if free — the -oF trace of
// spec.md §6.2.
func WriteFrameTable(sink trace.Sink, frames []Frame) {
	parts := make([]string, len(frames))
	for i, f := range frames {
		if f.Mapped {
			parts[i] = fmt.Sprintf("%d:%d", f.PID, f.VPage)
		} else {
			parts[i] = "*"
		}
	}
	sink.Emit("FT: " + strings.Join(parts, " "))
}
