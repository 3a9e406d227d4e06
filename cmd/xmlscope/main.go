package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"xmlscope/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "xmlscope",
	Short: "Inspect, search and edit schema-less XML files",
	Long: `xmlscope reports well-formedness problems with precise positions, derives
element scopes, presents repeating records as a browsable view and searches
file sets either as raw text or through that view.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupTracing(cmd, args); err != nil {
			return err
		}
		return setupProfiling(cmd)
	},
}

// exitError carries a process exit code without a message; the command has
// already printed its findings.
type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(scopesCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(dupCmd)
	rootCmd.AddCommand(versionCmd)

	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.String("config", "", "path to xmlscope.toml (default: nearest one above the working directory)")
	pf.String("path-mode", "auto", "how file paths are printed (auto|absolute|relative|basename)")
	pf.String("trace", "", "write trace events to a file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	pf.Int("trace-ring-size", 4096, "ring buffer capacity in events")
	pf.Duration("trace-heartbeat", 0, "emit heartbeat events at this interval (0 disables)")
	pf.String("cpu-profile", "", "write a CPU profile to this file")
	pf.String("mem-profile", "", "write a heap profile to this file on exit")
	pf.String("runtime-trace", "", "write a Go runtime execution trace to this file")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	stopProfiling()
	closeTracing()

	if err != nil {
		var exit exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintf(os.Stderr, "xmlscope: %v\n", err)
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
