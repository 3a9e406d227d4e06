package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"xmlscope/internal/dcache"
	"xmlscope/internal/diag"
	"xmlscope/internal/observ"
	"xmlscope/internal/report"
	"xmlscope/internal/source"
	"xmlscope/internal/trace"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file|dir>...",
	Short: "Report well-formedness errors and lint warnings",
	Long: `Check parses every file strictly and reports the first well-formedness error
with its position, or lint warnings for documents that parse. Directories are
searched for files with the configured extensions.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|short|json)")
	checkCmd.Flags().Int("max-lint", 0, "maximum lint warnings per file (0 = config value)")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers (0 = config value, then GOMAXPROCS)")
	checkCmd.Flags().Int("context", 2, "lines of context shown before a problem")
	checkCmd.Flags().Int("max-problems", 0, "cap the number of problems in json output (0 = no cap)")
	checkCmd.Flags().Bool("disk-cache", false, "reuse results cached by content hash")
	checkCmd.Flags().Bool("drop-cache", false, "clear the disk cache before checking")
	checkCmd.Flags().Bool("no-warnings", false, "hide lint warnings")
	checkCmd.Flags().Bool("warnings-as-errors", false, "exit with status 1 when warnings are reported")
}

func runCheck(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic(cmd)

	g, err := readGlobalOptions(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	format, err := flags.GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "short", "json":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	contextLines, _ := flags.GetInt("context")
	maxProblems, _ := flags.GetInt("max-problems")
	noWarnings, _ := flags.GetBool("no-warnings")
	warningsAsErrors, _ := flags.GetBool("warnings-as-errors")
	dropCache, _ := flags.GetBool("drop-cache")

	maxLint := g.config.Check.MaxLint
	if flags.Changed("max-lint") {
		maxLint, _ = flags.GetInt("max-lint")
		if maxLint < 1 {
			return fmt.Errorf("--max-lint must be at least 1")
		}
	}
	jobs := g.config.Check.Jobs
	if flags.Changed("jobs") {
		jobs, _ = flags.GetInt("jobs")
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	useCache := g.config.Check.DiskCache
	if flags.Changed("disk-cache") {
		useCache, _ = flags.GetBool("disk-cache")
	}

	timer := observ.NewTimer()
	span, ctx := trace.StartSpan(cmd.Context(), trace.ScopeCommand, "check")
	defer span.End("")

	idx := timer.Begin("collect")
	paths, err := expandPaths(args, g.config.Search)
	timer.End(idx, fmt.Sprintf("%d files", len(paths)))
	if err != nil {
		return err
	}

	var cache *dcache.Cache
	if useCache || dropCache {
		cache, err = dcache.Open("xmlscope")
		if err != nil {
			g.status(cmd, "warning: disk cache disabled: %v", err)
			cache = nil
		} else if dropCache {
			if err := cache.DropAll(); err != nil {
				return fmt.Errorf("failed to drop cache: %w", err)
			}
		}
		if !useCache {
			cache = nil
		}
	}

	idx = timer.Begin("check")
	results := make([]analysis, len(paths))
	loaded := source.NewFileSet()
	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(jobs)
	for i, path := range paths {
		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				return err
			}
			results[i] = analyzeFile(egctx, loaded, path, maxLint, cache)
			return nil
		})
	}
	waitErr := eg.Wait()
	cached := 0
	for _, r := range results {
		if r.cached {
			cached++
		}
	}
	timer.End(idx, fmt.Sprintf("%d loaded, %d cached", loaded.Len(), cached))
	if waitErr != nil {
		return waitErr
	}

	files := make([]report.FileResult, len(results))
	for i, r := range results {
		files[i] = r.fileResult()
		if noWarnings {
			files[i].Problems = withoutWarnings(files[i].Problems)
		}
	}

	idx = timer.Begin("render")
	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		report.Pretty(out, files, report.PrettyOpts{
			Color:    g.color,
			Context:  contextLines,
			PathMode: g.pathMode,
			BaseDir:  g.baseDir,
		})
	case "short":
		report.Short(out, files, g.pathMode, g.baseDir)
	case "json":
		if err := report.JSON(out, files, report.JSONOpts{PathMode: g.pathMode, BaseDir: g.baseDir, Max: maxProblems}); err != nil {
			return fmt.Errorf("failed to format problems: %w", err)
		}
	}
	timer.End(idx, "")

	summary := report.Summarize(files)
	if format != "json" {
		g.status(cmd, "%s", summary)
	}
	g.printTimings(cmd.ErrOrStderr(), timer)

	if summary.Errors > 0 || summary.Failed > 0 || (warningsAsErrors && summary.Warnings > 0) {
		return exitError{code: 1}
	}
	return nil
}

func withoutWarnings(problems []diag.Problem) []diag.Problem {
	out := make([]diag.Problem, 0, len(problems))
	for _, p := range problems {
		if p.IsError() {
			out = append(out, p)
		}
	}
	return out
}

