package disksched

import (
	"fmt"

	"github.com/kernelsim/kernelsim/internal/trace"
)

// WriteReport emits one line per request (arrival/start/finish) and a final
// SUM line, mirroring original_source/lab4's print_info.
func WriteReport(sink trace.Sink, requests []*Request, totalTime, totMovement int) {
	var totTurnaround, totWait, maxWait int
	for _, r := range requests {
		totTurnaround += r.Turnaround()
		w := r.WaitTime()
		totWait += w
		if w > maxWait {
			maxWait = w
		}
		sink.Emit(fmt.Sprintf("%5d: %5d %5d %5d", r.ID, r.ArriveTime, r.StartTime, r.EndTime))
	}

	n := len(requests)
	var avgTurnaround, avgWait float64
	if n > 0 {
		avgTurnaround = float64(totTurnaround) / float64(n)
		avgWait = float64(totWait) / float64(n)
	}
	sink.Emit(fmt.Sprintf("SUM: %d %d %.2f %.2f %d", totalTime, totMovement, avgTurnaround, avgWait, maxWait))
}
