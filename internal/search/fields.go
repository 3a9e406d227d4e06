package search

import (
	"context"
	"runtime"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"

	"xmlscope/internal/friendly"
	"xmlscope/internal/source"
	"xmlscope/internal/trace"
)

// FriendlyHit is a match in a field key or value of a friendly view.
type FriendlyHit struct {
	Path       string `json:"path"`
	Collection string `json:"collection"`
	EntryKey   string `json:"entry_key"`
	Occurrence int    `json:"occurrence"`
	FieldKey   string `json:"field_key"`
	Preview    string `json:"preview"`
}

// FieldOptions configure Fields.
type FieldOptions struct {
	Options
	// Parallel enables the worker pool; otherwise files are searched one at a
	// time in order and hits come back in document order.
	Parallel bool
	// Workers overrides the pool size; zero means max(1, NumCPU/2).
	Workers int
}

func (o FieldOptions) workers() int {
	if !o.Parallel {
		return 1
	}
	if o.Workers > 0 {
		return o.Workers
	}
	return max(1, runtime.NumCPU()/2)
}

// hitBag is the shared accumulator. Workers check full before each append;
// several may pass the check together, so the bag can overshoot and is cut
// back to the limit on return.
type hitBag struct {
	mu    sync.Mutex
	items []FriendlyHit
	limit int
}

func (b *hitBag) add(h FriendlyHit) {
	b.mu.Lock()
	b.items = append(b.items, h)
	b.mu.Unlock()
}

func (b *hitBag) full() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items) >= b.limit
}

func (b *hitBag) result() []FriendlyHit {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.items) > b.limit {
		return b.items[:b.limit]
	}
	return b.items
}

// Fields searches the friendly view of every file for fields whose key or
// value contains opts.Query. Files that do not contain the query at all are
// skipped before parsing. Without Parallel the result is in file and document
// order; with it the order is unspecified.
func Fields(ctx context.Context, paths []string, opts FieldOptions) ([]FriendlyHit, error) {
	if opts.Query == "" || len(paths) == 0 {
		return nil, nil
	}
	span, ctx := trace.StartSpan(ctx, trace.ScopePass, "search.fields")
	defer span.End("")

	bag := &hitBag{limit: opts.maxResults()}
	opts.queue(StageFields, paths)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(opts.workers(), len(paths)))

schedule:
	for _, path := range paths {
		select {
		case <-gctx.Done():
			break schedule
		default:
		}
		if bag.full() {
			break
		}
		g.Go(func() error {
			return fieldsFile(gctx, path, opts, bag)
		})
	}

	err := g.Wait()
	hits := bag.result()
	span.Count("hits", len(hits))
	if err == nil {
		err = ctx.Err()
	}
	return hits, err
}

func fieldsFile(ctx context.Context, path string, opts FieldOptions, bag *hitBag) error {
	defer opts.done(path)
	opts.current(path)
	if err := ctx.Err(); err != nil {
		return err
	}

	started := time.Now()
	fspan, fctx := trace.StartFile(ctx, "scan", path)
	defer fspan.End("")
	emit(opts.Sink, Event{File: path, Stage: StageFields, Status: StatusWorking})
	finish := func(status Status, hits int, err error) {
		emit(opts.Sink, Event{File: path, Stage: StageFields, Status: status, Hits: hits, Err: err, Elapsed: time.Since(started)})
	}

	text, _, err := source.ReadText(path)
	if err != nil {
		trace.FailFile(fctx, path, "read", err)
		finish(StatusError, 0, err)
		return nil
	}
	// the pre-filter folds like the field matcher, so "STRASSE" keeps "Straße"
	match := fieldMatcher(opts.Query, opts.CaseSensitive)
	if !match(text) {
		finish(StatusSkipped, 0, nil)
		return nil
	}
	doc, ok := friendly.TryBuild(text)
	if !ok {
		finish(StatusSkipped, 0, nil)
		return nil
	}

	found := 0
	for _, c := range doc.Collections {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, e := range c.Entries {
			if err := ctx.Err(); err != nil {
				return err
			}
			for _, f := range e.Fields().List() {
				if err := ctx.Err(); err != nil {
					return err
				}
				if bag.full() {
					finish(StatusDone, found, nil)
					return nil
				}
				value := f.Value()
				if !match(f.Key) && !match(value) {
					continue
				}
				bag.add(FriendlyHit{
					Path:       path,
					Collection: c.Title,
					EntryKey:   e.Key,
					Occurrence: e.Occurrence,
					FieldKey:   f.Key,
					Preview:    preview(f.Key + ": " + value),
				})
				found++
			}
		}
	}

	fspan.Count("hits", found)
	finish(StatusDone, found, nil)
	return nil
}

// fieldMatcher returns a substring predicate. The case-insensitive variant
// compares Unicode case folds; the caser is owned by the calling worker.
func fieldMatcher(query string, caseSensitive bool) func(string) bool {
	if caseSensitive {
		return func(s string) bool { return strings.Contains(s, query) }
	}
	folder := cases.Fold()
	q := folder.String(query)
	return func(s string) bool {
		return strings.Contains(folder.String(s), q)
	}
}
