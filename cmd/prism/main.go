package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"prism/internal/version"
)

// newRootCmd builds the command tree. Tests build a fresh tree per run so
// flag state does not leak between them.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "prism",
		Short:         "Declaration and runtime emitter for compiled program models",
		Long:          `prism translates program models produced by a front-end into JavaScript runtime code and TypeScript declarations`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newEmitCmd())
	root.AddCommand(newVersionCmd())

	flags := root.PersistentFlags()
	flags.String("config", "", "path to prism.toml (default: nearest one above the working directory)")
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("timings", false, "show timing information")
	flags.String("trace", "", "trace output file (\"-\" for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	flags.String("cpuprofile", "", "write a CPU profile to this file")
	flags.String("memprofile", "", "write a heap profile to this file on exit")
	flags.String("runtime-trace", "", "write a Go execution trace to this file")

	var stopProfiling func() error
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		var err error
		stopProfiling, err = startProfiling(cmd)
		return err
	}
	root.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if stopProfiling == nil {
			return nil
		}
		return stopProfiling()
	}
	return root
}

// main executes the root command and exits with status 1 on failure.
func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		root.PrintErrln("error:", err)
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves the --color flag against the stream it applies to.
func useColor(cmd *cobra.Command, f *os.File) (bool, error) {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, err
	}
	switch mode {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto":
		return f != nil && isTerminal(f), nil
	default:
		return false, fmt.Errorf("invalid color mode %q (expected: auto|on|off)", mode)
	}
}
