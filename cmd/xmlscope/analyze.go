package main

import (
	"context"
	"strconv"

	"xmlscope/internal/dcache"
	"xmlscope/internal/report"
	"xmlscope/internal/scope"
	"xmlscope/internal/source"
	"xmlscope/internal/trace"
	"xmlscope/internal/xmlcheck"
)

// analysis is a checked file together with its scope ranges.
type analysis struct {
	path   string
	text   string
	result dcache.Result
	cached bool
	err    error
}

func (a analysis) fileResult() report.FileResult {
	return report.FileResult{
		Path:     a.path,
		Text:     a.text,
		Problems: a.result.Problems,
		Cached:   a.cached,
		Err:      a.err,
	}
}

// analyzeFile loads path into files, checks it and resolves its scopes.
// Results are served from and stored to cache when one is given.
func analyzeFile(ctx context.Context, files *source.FileSet, path string, maxLint int, cache *dcache.Cache) analysis {
	span, ctx := trace.StartFile(ctx, "analyze", path)
	defer span.End("")

	out := analysis{path: path}
	file, err := files.Load(path)
	if err != nil {
		trace.FailFile(ctx, path, "read", err)
		out.err = err
		return out
	}
	text := file.Content
	out.text = text

	key := dcache.Key(text, "max_lint="+strconv.Itoa(maxLint))
	if cached, ok, err := cache.Get(key); err != nil {
		trace.FailFile(ctx, path, "cache.get", err)
	} else if ok {
		out.result = *cached
		out.cached = true
		return out
	}

	ranges, kind := scope.Resolve(text)
	out.result = dcache.Result{
		Problems:  xmlcheck.Check(text, xmlcheck.Options{MaxLint: maxLint}),
		Scopes:    ranges,
		ScopeKind: kind,
	}
	if err := cache.Put(key, &out.result); err != nil {
		trace.FailFile(ctx, path, "cache.put", err)
	}
	return out
}
