package cpusched

import (
	"container/heap"
	"fmt"

	"github.com/kernelsim/kernelsim/internal/logging"
	"github.com/kernelsim/kernelsim/internal/randstream"
	"github.com/kernelsim/kernelsim/internal/trace"
)

// Driver runs the discrete-event simulation over one workload. It owns all
// mutable simulation state itself — current time, total I/O, the event
// counter, the running process — so nothing here is a package-level global
// and two Drivers can run concurrently without interfering.
type Driver struct {
	Scheduler Scheduler
	rng       *randstream.Stream
	sink      trace.Sink

	Verbose     bool // -v: accepted; Run emits no extra lines for it
	ShowEvents  bool // -t: one trace line per delivered event
	ShowPreempt bool // -e: preemption trace

	queue         eventQueue
	currentTime   int
	nextEID       int
	eventsHandled int

	totalIO    int
	ioEndTime  int
	running    *Process
	pending    map[int]*Event // pid -> this process's own next scheduled event
	callSched  bool
	Processes  []*Process
	Done       []*Process
}

// NewDriver builds a Driver for one run. Pass trace.NoopSink{} if no trace
// output is wanted.
func NewDriver(sched Scheduler, rng *randstream.Stream, sink trace.Sink) *Driver {
	if sink == nil {
		sink = trace.NoopSink{}
	}
	return &Driver{
		Scheduler: sched,
		rng:       rng,
		sink:      sink,
		pending:   make(map[int]*Event),
	}
}

// Load seeds the driver with a workload: assigns static_prio from the
// random stream (randInt(maxprio) per spec.md §3.2) and schedules each
// process's initial TO_READY arrival event.
func (d *Driver) Load(procs []*Process, maxPrio int) {
	d.Processes = procs
	for _, p := range procs {
		p.StaticPrio = d.rng.NextInt(maxPrio)
		p.RemainingCPU = p.TotalCPU
		p.DynamicPrio = p.StaticPrio - 1
		d.scheduleAt(p, p.ArrivalTime, StateCreated, StateReady, ToReady)
	}
}

func (d *Driver) scheduleAt(p *Process, ts int, old, new State, tr Transition) *Event {
	e := &Event{EID: d.nextEID, Proc: p, Timestamp: ts, OldState: old, NewState: new, Transition: tr}
	d.nextEID++
	heap.Push(&d.queue, e)
	return e
}

func (d *Driver) removeEvent(e *Event) {
	if e.index < 0 || e.index >= len(d.queue) || d.queue[e.index] != e {
		return
	}
	heap.Remove(&d.queue, e.index)
}

// Run drains the event queue to completion.
func (d *Driver) Run() {
	logging.Default().Debug("cpusched: starting simulation", "processes", len(d.Processes))
	for d.queue.Len() > 0 {
		e := heap.Pop(&d.queue).(*Event)
		d.currentTime = e.Timestamp
		d.eventsHandled++

		if d.ShowEvents {
			d.sink.Emit(fmt.Sprintf("%d %s %s", d.currentTime, e.Proc, e.Transition))
		}

		switch e.Transition {
		case ToReady:
			d.handleToReady(e)
		case ToRun:
			d.handleToRun(e)
		case ToBlock:
			d.handleToBlock(e)
		case ToPreempt:
			d.handleToPreempt(e)
		}

		d.maybeDispatch()
	}
	logging.Default().Info("cpusched: simulation complete", "events", d.eventsHandled, "finish_time", d.FinishTime())
}

func (d *Driver) maybeDispatch() {
	if !d.callSched {
		return
	}
	if d.queue.Len() > 0 && d.queue[0].Timestamp == d.currentTime {
		return // batch same-timestamp events before consulting the scheduler
	}
	d.callSched = false
	if d.running != nil {
		return
	}
	next := d.Scheduler.NextProcess()
	if next == nil {
		return
	}
	next.WaitTime += d.currentTime - next.StateTS
	d.running = next
	evt := d.scheduleAt(next, d.currentTime, StateReady, StateRunning, ToRun)
	d.pending[next.PID] = evt
}

func (d *Driver) handleToReady(e *Event) {
	p := e.Proc
	p.RemainingBurst = 0
	p.DynamicPrio = p.StaticPrio - 1
	p.StateTS = d.currentTime
	p.StateDoneEvents = d.eventsHandled

	d.Scheduler.AddProcess(p)

	if d.Scheduler.PrioPreempt() && d.running != nil && p.DynamicPrio > d.running.DynamicPrio {
		if pend, ok := d.pending[d.running.PID]; ok && pend.Timestamp != d.currentTime {
			restore := pend.Timestamp - d.currentTime
			d.running.RemainingCPU += restore
			d.running.RemainingBurst += restore
			d.removeEvent(pend)
			delete(d.pending, d.running.PID)
			if d.ShowPreempt {
				d.sink.Emit(fmt.Sprintf("%d PREEMPT %s by %s", d.currentTime, d.running, p))
			}
			logging.Default().Warn("cpusched: preempting running process", "victim", d.running.PID, "by", p.PID, "restored", restore)
			d.scheduleAt(d.running, d.currentTime, StateRunning, StateReady, ToPreempt)
		}
	}
	d.callSched = true
}

func (d *Driver) handleToRun(e *Event) {
	p := e.Proc
	p.StateTS = d.currentTime

	burst := p.RemainingBurst
	if burst == 0 {
		burst = d.rng.NextInt(p.MaxCPUBurst)
	}
	if burst > p.RemainingCPU {
		burst = p.RemainingCPU
	}

	quantum := d.Scheduler.Quantum()
	if burst > quantum {
		evt := d.scheduleAt(p, d.currentTime+quantum, StateRunning, StateReady, ToPreempt)
		p.RemainingBurst = burst - quantum
		p.RemainingCPU -= quantum
		d.pending[p.PID] = evt
	} else {
		evt := d.scheduleAt(p, d.currentTime+burst, StateRunning, StateBlocked, ToBlock)
		p.RemainingBurst = 0
		p.RemainingCPU -= burst
		d.pending[p.PID] = evt
	}
}

func (d *Driver) handleToBlock(e *Event) {
	p := e.Proc
	delete(d.pending, p.PID)

	if p.RemainingCPU == 0 {
		p.FinishTime = d.currentTime
		d.Done = append(d.Done, p)
	} else {
		ioBurst := d.rng.NextInt(p.MaxIOBurst)
		p.IOTime += ioBurst
		d.accrueIO(d.currentTime, ioBurst)
		d.scheduleAt(p, d.currentTime+ioBurst, StateBlocked, StateReady, ToReady)
	}
	d.running = nil
	d.callSched = true
}

func (d *Driver) handleToPreempt(e *Event) {
	p := e.Proc
	delete(d.pending, p.PID)
	d.Scheduler.Decay(p)
	p.StateTS = d.currentTime
	p.StateDoneEvents = d.eventsHandled
	d.Scheduler.AddProcess(p)
	d.running = nil
	d.callSched = true
}

// accrueIO updates TOTAL_IO using the union-of-intervals rule: a new I/O of
// length b starting at now extends TOTAL_IO only by the part of [now,
// now+b) not already covered by a prior I/O.
func (d *Driver) accrueIO(now, b int) {
	end := now + b
	if end > d.ioEndTime {
		start := now
		if d.ioEndTime > start {
			start = d.ioEndTime
		}
		d.totalIO += end - start
		d.ioEndTime = end
	}
}

// TotalIO returns the accumulated TOTAL_IO statistic.
func (d *Driver) TotalIO() int { return d.totalIO }

// FinishTime returns the timestamp of the last process to complete, or 0 if
// none have.
func (d *Driver) FinishTime() int {
	max := 0
	for _, p := range d.Done {
		if p.FinishTime > max {
			max = p.FinishTime
		}
	}
	return max
}
