// Command iosched is the CLI for the disk I/O head-scheduling simulator.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kernelsim/kernelsim"
	"github.com/kernelsim/kernelsim/disksched"
	"github.com/kernelsim/kernelsim/internal/logging"
	"github.com/kernelsim/kernelsim/internal/trace"
)

func main() {
	var (
		verbose    bool
		finalStats bool
		queueTrace bool
		algo       string
		debug      bool
	)

	root := &cobra.Command{
		Use:   "iosched <input>",
		Short: "Disk head-movement scheduler simulator",
		Long: `iosched replays disk I/O requests against a single moving head under
one of five queue disciplines (FIFO, SSTF, LOOK, C-LOOK, F-LOOK).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logConfig := logging.DefaultConfig()
			if debug {
				logConfig.Level = logging.LevelDebug
			}
			logging.SetDefault(logging.NewLogger(logConfig))
			return run(args[0], algo, verbose)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.Flags().BoolVarP(&verbose, "v", "v", false, "per-tick add/issue/finish trace")
	root.Flags().BoolVarP(&finalStats, "f", "f", false, "accepted for CLI-grammar compatibility (unused upstream)")
	root.Flags().BoolVarP(&queueTrace, "q", "q", false, "accepted for CLI-grammar compatibility (unused upstream)")
	root.Flags().StringVarP(&algo, "s", "s", "", "scheduler: i|j|s|c|f (FIFO, SSTF, LOOK, C-LOOK, F-LOOK)")
	root.Flags().BoolVar(&debug, "debug", false, "enable debug-level operational logging")
	_ = root.MarkFlagRequired("s")

	if err := root.Execute(); err != nil {
		logging.Default().Errorf("iosched: %v", err)
		os.Exit(1)
	}
}

func run(inputPath, algo string, verbose bool) error {
	if len(algo) != 1 {
		return kernelsim.NewError("RUN", kernelsim.ErrCodeBadSpec, "unknown scheduler algorithm: "+algo)
	}
	sched, err := disksched.ParseAlgo(algo[0])
	if err != nil {
		return err
	}

	requests, err := disksched.LoadWorkload(inputPath)
	if err != nil {
		return err
	}
	if len(requests) == 0 {
		return kernelsim.NewError("RUN", kernelsim.ErrCodeBadInput, "workload has no requests")
	}

	sink := trace.NewWriterSink(os.Stdout)
	defer sink.Flush()

	driver := disksched.NewDriver(sched, requests, sink)
	driver.Verbose = verbose
	driver.Run()

	sink.Flush()
	disksched.WriteReport(sink, requests, driver.TotalTime, driver.TotMovement)
	return nil
}
