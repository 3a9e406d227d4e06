package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"xmlscope/internal/observ"
	"xmlscope/internal/project"
	"xmlscope/internal/report"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	color    bool
	quiet    bool
	timings  bool
	pathMode report.PathMode
	baseDir  string
	config   project.Config
}

func readGlobalOptions(cmd *cobra.Command) (globalOptions, error) {
	pf := cmd.Root().PersistentFlags()

	colorFlag, err := pf.GetString("color")
	if err != nil {
		return globalOptions{}, fmt.Errorf("failed to get color flag: %w", err)
	}
	var useColor bool
	switch colorFlag {
	case "on":
		useColor = true
	case "off":
		useColor = false
	case "auto":
		useColor = isTerminal(os.Stdout)
	default:
		return globalOptions{}, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
	}

	quiet, err := pf.GetBool("quiet")
	if err != nil {
		return globalOptions{}, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	timings, err := pf.GetBool("timings")
	if err != nil {
		return globalOptions{}, fmt.Errorf("failed to get timings flag: %w", err)
	}
	modeStr, err := pf.GetString("path-mode")
	if err != nil {
		return globalOptions{}, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	mode, err := report.ParsePathMode(modeStr)
	if err != nil {
		return globalOptions{}, err
	}
	configPath, err := pf.GetString("config")
	if err != nil {
		return globalOptions{}, fmt.Errorf("failed to get config flag: %w", err)
	}

	wd, err := os.Getwd()
	if err != nil {
		return globalOptions{}, err
	}
	cfg, err := project.Discover(wd, configPath)
	if err != nil {
		return globalOptions{}, err
	}

	return globalOptions{
		color:    useColor,
		quiet:    quiet,
		timings:  timings,
		pathMode: mode,
		baseDir:  wd,
		config:   cfg,
	}, nil
}

// status writes a progress line to stderr unless --quiet is set.
func (g globalOptions) status(cmd *cobra.Command, format string, args ...any) {
	if g.quiet {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
}

func (g globalOptions) printTimings(w io.Writer, timer *observ.Timer) {
	if !g.timings || timer == nil {
		return
	}
	fmt.Fprint(w, timer.Summary())
}

func encodeIndented(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
