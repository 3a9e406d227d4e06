package search

import "time"

// Stage names the search pass an event belongs to.
type Stage string

const (
	// StageRaw is the raw substring pass.
	StageRaw Stage = "raw"
	// StageFields is the friendly field pass.
	StageFields Stage = "fields"
)

// Status captures progress state for one file.
type Status string

const (
	// StatusQueued indicates the file is waiting to be searched.
	StatusQueued Status = "queued"
	// StatusWorking indicates the file is being searched.
	StatusWorking Status = "working"
	// StatusDone indicates the file was searched.
	StatusDone Status = "done"
	// StatusSkipped indicates the file was rejected by the pre-filter or did not build.
	StatusSkipped Status = "skipped"
	// StatusError indicates the file could not be read.
	StatusError Status = "error"
)

// Event reports progress for a file.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Hits    int
	Err     error
	Elapsed time.Duration
}

// Sink consumes progress events. Implementations must be goroutine-safe;
// the field search reports from several workers.
type Sink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

func (f SinkFunc) OnEvent(evt Event) { f(evt) }

func emit(s Sink, evt Event) {
	if s != nil {
		s.OnEvent(evt)
	}
}
