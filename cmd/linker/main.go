// Command linker is the CLI for the two-pass relocating linker.
package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/kernelsim/kernelsim"
	"github.com/kernelsim/kernelsim/internal/logging"
	"github.com/kernelsim/kernelsim/internal/trace"
	"github.com/kernelsim/kernelsim/linker"
)

func main() {
	var debug bool

	root := &cobra.Command{
		Use:   "linker <input>",
		Short: "Two-pass relocating linker",
		Long: `linker resolves symbols across modules and produces an absolute
memory image, printing a Symbol Table, a Memory Map, and any warnings.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logConfig := logging.DefaultConfig()
			if debug {
				logConfig.Level = logging.LevelDebug
			}
			logging.SetDefault(logging.NewLogger(logConfig))
			return run(args[0])
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.Flags().BoolVar(&debug, "debug", false, "enable debug-level operational logging")

	if err := root.Execute(); err != nil {
		// A *linker.ParseError was already written to stdout via the trace
		// sink (spec.md §7's exact "Parse Error line L offset O: ..." line
		// is itself the reporting, not a separate operational failure);
		// anything else (bad path, missing file) still goes to the log.
		var pe *linker.ParseError
		if !errors.As(err, &pe) {
			logging.Default().Errorf("linker: %v", err)
		}
		os.Exit(1)
	}
}

func run(inputPath string) error {
	source, err := os.ReadFile(inputPath)
	if err != nil {
		return kernelsim.WrapError("LOAD_INPUT", kernelsim.ErrCodeIO, err)
	}

	sink := trace.NewWriterSink(os.Stdout)
	defer sink.Flush()

	l := linker.NewLinker(sink)
	return l.Run(string(source))
}
