package disksched

import (
	"fmt"

	"github.com/kernelsim/kernelsim/internal/logging"
	"github.com/kernelsim/kernelsim/internal/trace"
)

// Driver runs the per-tick disk head simulation against a single
// IOScheduler. All state lives on the Driver (spec §9: no package-level
// globals), so independent runs never share mutable state.
type Driver struct {
	Scheduler IOScheduler
	sink      trace.Sink
	Verbose   bool

	requests   []*Request
	nextArrive int

	CurrentTime  int
	CurrentTrack int
	Direction    bool // true = moving toward increasing track numbers
	TotMovement  int
	TotalTime    int

	active *Request
}

// NewDriver builds a Driver over requests, which must be sorted by
// ArriveTime (spec: no two requests arrive at the same tick).
func NewDriver(sched IOScheduler, requests []*Request, sink trace.Sink) *Driver {
	if sink == nil {
		sink = trace.NoopSink{}
	}
	return &Driver{
		Scheduler: sched,
		sink:      sink,
		requests:  requests,
		Direction: true,
	}
}

// Run drives the simulation to completion per spec §4.3's five-step tick.
func (d *Driver) Run() {
	logging.Default().Debug("disksched: starting simulation", "requests", len(d.requests))
	for {
		if d.nextArrive < len(d.requests) && d.requests[d.nextArrive].ArriveTime == d.CurrentTime {
			r := d.requests[d.nextArrive]
			d.Scheduler.AddRequest(r)
			if d.Verbose {
				d.sink.Emit(fmt.Sprintf("%d: %5d add %d", d.CurrentTime, r.ID, r.TargetTrack))
			}
			d.nextArrive++
		}

		if d.active != nil {
			if d.active.TargetTrack == d.CurrentTrack {
				d.active.EndTime = d.CurrentTime
				if d.Verbose {
					d.sink.Emit(fmt.Sprintf("%d: %5d finish %d", d.CurrentTime, d.active.ID, d.CurrentTime-d.active.ArriveTime))
				}
				d.active = nil
				continue
			}
			if d.Direction {
				d.CurrentTrack++
			} else {
				d.CurrentTrack--
			}
			d.TotMovement++
		} else if !d.Scheduler.Empty() {
			d.active = d.Scheduler.NextIO(d.CurrentTrack, d.Direction)
			d.active.StartTime = d.CurrentTime
			if d.CurrentTrack != d.active.TargetTrack {
				d.Direction = d.CurrentTrack < d.active.TargetTrack
			}
			if d.Verbose {
				d.sink.Emit(fmt.Sprintf("%d: %5d issue %d %d", d.CurrentTime, d.active.ID, d.active.TargetTrack, d.CurrentTrack))
			}
			continue
		}

		if d.active == nil && d.nextArrive >= len(d.requests) && d.Scheduler.Empty() {
			d.TotalTime = d.CurrentTime
			logging.Default().Info("disksched: simulation complete", "requests", len(d.requests), "movement", d.TotMovement)
			return
		}
		d.CurrentTime++
	}
}

// Requests returns the requests this driver was built with, post-run
// carrying their StartTime/EndTime.
func (d *Driver) Requests() []*Request { return d.requests }
