// Package search runs global searches over XML file sets: a sequential raw
// substring search and a bounded-parallel search over friendly fields.
package search

// DefaultMaxResults bounds a search when Options.MaxResults is not set.
const DefaultMaxResults = 1000

// Options are shared by both engines.
type Options struct {
	Query         string
	CaseSensitive bool
	// MaxResults caps the returned hits; zero means DefaultMaxResults.
	MaxResults int

	// OnCurrentFile fires before a file is read.
	OnCurrentFile func(path string)
	// OnFileDone fires once for every file that was started, even on errors.
	OnFileDone func(path string)
	// Sink receives progress events.
	Sink Sink
}

func (o Options) maxResults() int {
	if o.MaxResults <= 0 {
		return DefaultMaxResults
	}
	return o.MaxResults
}

func (o Options) matcher() matcher {
	return matcher{query: o.Query, caseSensitive: o.CaseSensitive}
}

func (o Options) current(path string) {
	if o.OnCurrentFile != nil {
		o.OnCurrentFile(path)
	}
}

func (o Options) done(path string) {
	if o.OnFileDone != nil {
		o.OnFileDone(path)
	}
}

func (o Options) queue(stage Stage, paths []string) {
	if o.Sink == nil {
		return
	}
	for _, p := range paths {
		o.Sink.OnEvent(Event{File: p, Stage: stage, Status: StatusQueued})
	}
}
