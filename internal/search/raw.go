package search

import (
	"context"
	"time"

	"xmlscope/internal/source"
	"xmlscope/internal/trace"
)

// RawHit is one substring match.
type RawHit struct {
	Path    string `json:"path"`
	Offset  int    `json:"offset"`
	Length  int    `json:"length"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Preview string `json:"preview"`
}

// Raw searches paths one after another for every occurrence of opts.Query.
// Unreadable files are skipped. On cancellation the hits found so far are
// returned together with the context error.
func Raw(ctx context.Context, paths []string, opts Options) ([]RawHit, error) {
	if opts.Query == "" {
		return nil, nil
	}
	span, ctx := trace.StartSpan(ctx, trace.ScopePass, "search.raw")
	defer span.End("")

	limit := opts.maxResults()
	m := opts.matcher()
	opts.queue(StageRaw, paths)

	var hits []RawHit
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return hits, err
		}
		if len(hits) >= limit {
			break
		}
		hits = rawFile(ctx, path, m, limit, hits, opts)
	}
	span.Count("hits", len(hits))
	return hits, ctx.Err()
}

func rawFile(ctx context.Context, path string, m matcher, limit int, hits []RawHit, opts Options) []RawHit {
	defer opts.done(path)
	opts.current(path)

	started := time.Now()
	fspan, fctx := trace.StartFile(ctx, "scan", path)
	defer fspan.End("")
	emit(opts.Sink, Event{File: path, Stage: StageRaw, Status: StatusWorking})

	text, flags, err := source.ReadText(path)
	if err != nil {
		trace.FailFile(fctx, path, "read", err)
		emit(opts.Sink, Event{File: path, Stage: StageRaw, Status: StatusError, Err: err, Elapsed: time.Since(started)})
		return hits
	}
	file := source.NewFile(path, text, flags)

	found := 0
	for from := 0; len(hits) < limit; {
		if ctx.Err() != nil {
			break
		}
		off, n := m.next(text, from)
		if off < 0 {
			break
		}
		pos := file.Position(off)
		hits = append(hits, RawHit{
			Path:    path,
			Offset:  off,
			Length:  n,
			Line:    int(pos.Line),
			Column:  int(pos.Col),
			Preview: preview(file.GetLine(pos.Line)),
		})
		found++
		from = off + max(n, 1)
	}

	fspan.Count("hits", found)
	emit(opts.Sink, Event{File: path, Stage: StageRaw, Status: StatusDone, Hits: found, Elapsed: time.Since(started)})
	return hits
}
