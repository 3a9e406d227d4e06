package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"xmlscope/internal/observ"
	"xmlscope/internal/report"
	"xmlscope/internal/search"
	"xmlscope/internal/trace"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search file sets as raw text or through their friendly view",
}

var searchRawCmd = &cobra.Command{
	Use:   "raw [flags] <query> <file|dir>...",
	Short: "Find every occurrence of a substring",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runSearchRaw,
}

var searchFieldsCmd = &cobra.Command{
	Use:   "fields [flags] <query> <file|dir>...",
	Short: "Find entry fields whose key or value contains a substring",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runSearchFields,
}

func init() {
	pf := searchCmd.PersistentFlags()
	pf.Bool("case-sensitive", false, "match case exactly")
	pf.Int("max-results", 0, "stop after this many hits (0 = config value)")
	pf.String("format", "text", "output format (text|json)")
	pf.String("ui", "auto", "progress UI mode (auto|on|off)")
	searchFieldsCmd.Flags().Bool("no-parallel", false, "search files one at a time in order")
	searchFieldsCmd.Flags().Int("workers", 0, "parallel workers (0 = half the CPUs)")

	searchCmd.AddCommand(searchRawCmd)
	searchCmd.AddCommand(searchFieldsCmd)
}

type searchSetup struct {
	g      globalOptions
	query  string
	paths  []string
	format string
	tui    bool
	opts   search.Options
	timer  *observ.Timer
}

func prepareSearch(cmd *cobra.Command, args []string) (searchSetup, error) {
	g, err := readGlobalOptions(cmd)
	if err != nil {
		return searchSetup{}, err
	}
	flags := cmd.Flags()
	format, _ := flags.GetString("format")
	if format != "text" && format != "json" {
		return searchSetup{}, fmt.Errorf("unknown format: %s", format)
	}
	uiStr, _ := flags.GetString("ui")
	mode, err := parseProgressMode(uiStr)
	if err != nil {
		return searchSetup{}, err
	}

	opts := search.Options{
		Query:         args[0],
		CaseSensitive: g.config.Search.CaseSensitive,
		MaxResults:    g.config.Search.MaxResults,
	}
	if flags.Changed("case-sensitive") {
		opts.CaseSensitive, _ = flags.GetBool("case-sensitive")
	}
	if flags.Changed("max-results") {
		opts.MaxResults, _ = flags.GetInt("max-results")
		if opts.MaxResults < 1 {
			return searchSetup{}, fmt.Errorf("--max-results must be at least 1")
		}
	}
	if opts.Query == "" {
		return searchSetup{}, fmt.Errorf("empty query")
	}

	timer := observ.NewTimer()
	idx := timer.Begin("collect")
	paths, err := expandPaths(args[1:], g.config.Search)
	timer.End(idx, fmt.Sprintf("%d files", len(paths)))
	if err != nil {
		return searchSetup{}, err
	}

	tui := wantProgress(progressRequest{
		mode:  mode,
		quiet: g.quiet,
		json:  format == "json",
		files: len(paths),
		tty:   stderrIsTerminal(),
	})
	return searchSetup{
		g:      g,
		query:  opts.Query,
		paths:  paths,
		format: format,
		tui:    tui,
		opts:   opts,
		timer:  timer,
	}, nil
}

func runSearchRaw(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic(cmd)

	s, err := prepareSearch(cmd, args)
	if err != nil {
		return err
	}
	span, ctx := trace.StartSpan(cmd.Context(), trace.ScopeCommand, "search raw")
	defer span.End("")

	run := func(ctx context.Context, sink search.Sink) ([]search.RawHit, error) {
		opts := s.opts
		opts.Sink = sink
		return search.Raw(ctx, s.paths, opts)
	}
	idx := s.timer.Begin("search")
	var hits []search.RawHit
	if s.tui {
		hits, err = runSearchWithUI(ctx, "raw: "+s.query, s.paths, run)
	} else {
		hits, err = run(ctx, nil)
	}
	s.timer.End(idx, fmt.Sprintf("%d hits", len(hits)))

	out := cmd.OutOrStdout()
	if s.format == "json" {
		if jerr := report.HitsJSON(out, s.query, "raw", report.RelocateRawHits(hits, s.g.pathMode, s.g.baseDir), s.opts.MaxResults); jerr != nil {
			return jerr
		}
	} else {
		report.RawHits(out, hits, s.g.pathMode, s.g.baseDir, s.g.color)
	}
	return finishSearch(cmd, s, len(hits), err)
}

func runSearchFields(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic(cmd)

	s, err := prepareSearch(cmd, args)
	if err != nil {
		return err
	}
	noParallel, _ := cmd.Flags().GetBool("no-parallel")
	workers, _ := cmd.Flags().GetInt("workers")
	parallel := s.g.config.Search.Parallel
	if cmd.Flags().Changed("no-parallel") {
		parallel = !noParallel
	}

	span, ctx := trace.StartSpan(cmd.Context(), trace.ScopeCommand, "search fields")
	defer span.End("")

	run := func(ctx context.Context, sink search.Sink) ([]search.FriendlyHit, error) {
		opts := search.FieldOptions{Options: s.opts, Parallel: parallel, Workers: workers}
		opts.Sink = sink
		return search.Fields(ctx, s.paths, opts)
	}
	idx := s.timer.Begin("search")
	var hits []search.FriendlyHit
	if s.tui {
		hits, err = runSearchWithUI(ctx, "fields: "+s.query, s.paths, run)
	} else {
		hits, err = run(ctx, nil)
	}
	s.timer.End(idx, fmt.Sprintf("%d hits", len(hits)))

	out := cmd.OutOrStdout()
	if s.format == "json" {
		if jerr := report.HitsJSON(out, s.query, "fields", report.RelocateFieldHits(hits, s.g.pathMode, s.g.baseDir), s.opts.MaxResults); jerr != nil {
			return jerr
		}
	} else {
		report.FieldHits(out, hits, s.g.pathMode, s.g.baseDir, s.g.color)
	}
	return finishSearch(cmd, s, len(hits), err)
}

// finishSearch reports the outcome. An interrupted search has already
// printed its partial hits and exits with 130.
func finishSearch(cmd *cobra.Command, s searchSetup, hits int, err error) error {
	s.g.printTimings(cmd.ErrOrStderr(), s.timer)
	if errors.Is(err, context.Canceled) {
		s.g.status(cmd, "search interrupted after %d hits", hits)
		return exitError{code: 130}
	}
	if err != nil {
		return err
	}
	if s.format != "json" {
		s.g.status(cmd, "%d hits in %d files", hits, len(s.paths))
	}
	return nil
}
