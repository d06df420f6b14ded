package cpusched

import (
	"fmt"

	"github.com/kernelsim/kernelsim/internal/trace"
)

// WriteReport emits the scheduler-name header, the per-process summary
// lines, and the aggregate SUM line to sink, per spec.md §6.1.
func WriteReport(sink trace.Sink, name string, procs []*Process, totalIO int) {
	sink.Emit(name)

	finish := 0
	var sumTurnaround, sumWait, sumCPU int
	for _, p := range procs {
		sink.Emit(fmt.Sprintf("%04d: %4d %4d %4d %4d %4d | %4d %4d %4d %4d",
			p.PID, p.ArrivalTime, p.TotalCPU, p.MaxCPUBurst, p.MaxIOBurst, p.StaticPrio,
			p.FinishTime, p.Turnaround(), p.IOTime, p.WaitTime))
		if p.FinishTime > finish {
			finish = p.FinishTime
		}
		sumTurnaround += p.Turnaround()
		sumWait += p.WaitTime
		sumCPU += p.TotalCPU
	}

	n := len(procs)
	var cpuUtil, ioUtil, avgTurnaround, avgWait, throughput float64
	if finish > 0 {
		cpuUtil = 100 * float64(sumCPU) / float64(finish)
		ioUtil = 100 * float64(totalIO) / float64(finish)
		throughput = 100 * float64(n) / float64(finish)
	}
	if n > 0 {
		avgTurnaround = float64(sumTurnaround) / float64(n)
		avgWait = float64(sumWait) / float64(n)
	}

	sink.Emit(fmt.Sprintf("SUM: %d %.2f %.2f %.2f %.2f %.3f",
		finish, cpuUtil, ioUtil, avgTurnaround, avgWait, throughput))
}
