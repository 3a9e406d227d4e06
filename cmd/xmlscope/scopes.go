package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"xmlscope/internal/dcache"
	"xmlscope/internal/report"
	"xmlscope/internal/scope"
	"xmlscope/internal/source"
	"xmlscope/internal/trace"
)

var scopesCmd = &cobra.Command{
	Use:   "scopes [flags] <file>...",
	Short: "Print the line range and depth of every element",
	Long: `Scopes prints element line ranges. Documents that do not parse are scanned
tolerantly, so truncated or broken files still produce ranges.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScopes,
}

func init() {
	scopesCmd.Flags().String("format", "text", "output format (text|json)")
	scopesCmd.Flags().Bool("tolerant", false, "always use the tolerant scanner")
	scopesCmd.Flags().Bool("disk-cache", false, "reuse results cached by content hash")
}

func runScopes(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic(cmd)

	g, err := readGlobalOptions(cmd)
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "text" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	tolerant, _ := cmd.Flags().GetBool("tolerant")
	useCache := g.config.Check.DiskCache
	if cmd.Flags().Changed("disk-cache") {
		useCache, _ = cmd.Flags().GetBool("disk-cache")
	}

	span, ctx := trace.StartSpan(cmd.Context(), trace.ScopeCommand, "scopes")
	defer span.End("")

	paths, err := expandPaths(args, g.config.Search)
	if err != nil {
		return err
	}

	var cache *dcache.Cache
	if useCache && !tolerant {
		if cache, err = dcache.Open("xmlscope"); err != nil {
			g.status(cmd, "warning: disk cache disabled: %v", err)
			cache = nil
		}
	}

	loaded := source.NewFileSet()
	files := make([]report.ScopeResult, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		if tolerant {
			file, err := loaded.Load(path)
			if err != nil {
				files = append(files, report.ScopeResult{Path: path, Err: err})
				continue
			}
			ranges, _ := scope.Tolerant{}.Scopes(file.Content)
			files = append(files, report.ScopeResult{Path: path, Kind: scope.KindTolerant, Ranges: ranges})
			continue
		}
		a := analyzeFile(ctx, loaded, path, g.config.Check.MaxLint, cache)
		files = append(files, report.ScopeResult{Path: path, Kind: a.result.ScopeKind, Ranges: a.result.Scopes, Err: a.err})
	}

	if format == "json" {
		return report.ScopesJSON(cmd.OutOrStdout(), files, g.pathMode, g.baseDir)
	}
	report.Scopes(cmd.OutOrStdout(), files, g.pathMode, g.baseDir)
	return nil
}
