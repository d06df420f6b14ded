// Command sched is the CLI for the discrete-event CPU scheduler simulator.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kernelsim/kernelsim"
	"github.com/kernelsim/kernelsim/cpusched"
	"github.com/kernelsim/kernelsim/internal/logging"
	"github.com/kernelsim/kernelsim/internal/randstream"
	"github.com/kernelsim/kernelsim/internal/trace"
)

func main() {
	var (
		verbose     bool
		showEvents  bool
		showPreempt bool
		spec        string
		debug       bool
	)

	root := &cobra.Command{
		Use:   "sched <input> <rfile>",
		Short: "Discrete-event CPU scheduler simulator",
		Long: `sched replays a process workload through one of six scheduling
disciplines (FCFS, RR, LCFS, SRTF, PRIO, PREPRIO) and reports per-process
and aggregate statistics.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logConfig := logging.DefaultConfig()
			if debug {
				logConfig.Level = logging.LevelDebug
			}
			logging.SetDefault(logging.NewLogger(logConfig))
			return run(args[0], args[1], spec, verbose, showEvents, showPreempt)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.Flags().BoolVarP(&verbose, "v", "v", false, "accepted for CLI-grammar compatibility (adds no output)")
	root.Flags().BoolVarP(&showEvents, "t", "t", false, "one trace line per delivered event")
	root.Flags().BoolVarP(&showPreempt, "e", "e", false, "preemption trace")
	root.Flags().StringVarP(&spec, "s", "s", "", "scheduler spec: F|L|S|R<q>|P<q>[:<maxprio>]|E<q>[:<maxprio>]")
	root.Flags().BoolVar(&debug, "debug", false, "enable debug-level operational logging")
	_ = root.MarkFlagRequired("s")

	if err := root.Execute(); err != nil {
		logging.Default().Errorf("sched: %v", err)
		os.Exit(1)
	}
}

func run(inputPath, rfilePath, spec string, verbose, showEvents, showPreempt bool) error {
	sched, err := cpusched.ParseSpec(spec)
	if err != nil {
		return err
	}

	procs, err := cpusched.LoadWorkload(inputPath)
	if err != nil {
		return err
	}
	if len(procs) == 0 {
		return kernelsim.NewError("RUN", kernelsim.ErrCodeBadInput, "workload has no processes")
	}

	rng, err := randstream.Load(rfilePath)
	if err != nil {
		return err
	}

	maxPrio := cpusched.DefaultMaxPrio
	if p, ok := sched.(*cpusched.PRIO); ok {
		maxPrio = p.MaxPrio()
	}

	sink := trace.NewWriterSink(os.Stdout)
	defer sink.Flush()

	driver := cpusched.NewDriver(sched, rng, sink)
	driver.Verbose = verbose
	driver.ShowEvents = showEvents
	driver.ShowPreempt = showPreempt
	driver.Load(procs, maxPrio)
	driver.Run()

	cpusched.WriteReport(sink, sched.Name(), driver.Processes, driver.TotalIO())
	return nil
}
