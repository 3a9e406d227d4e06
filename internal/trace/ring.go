package trace

import (
	"io"
	"sync"
)

// DefaultRingSize is the ring capacity used when none is configured.
const DefaultRingSize = 4096

// RingTracer keeps the most recent events in memory. The CLI dumps it when a
// command panics.
type RingTracer struct {
	mu      sync.Mutex
	buf     []Event
	written uint64 // total events ever stored
	level   Level
}

// NewRingTracer creates a ring holding up to capacity events.
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = DefaultRingSize
	}
	return &RingTracer{buf: make([]Event, capacity), level: level}
}

// Emit stores ev, overwriting the oldest event once the ring is full.
func (t *RingTracer) Emit(ev *Event) {
	if !t.level.allows(ev) {
		return
	}
	stored := *ev
	if len(ev.Attrs) > 0 {
		stored.Attrs = append([]Attr(nil), ev.Attrs...)
	}

	t.mu.Lock()
	stored.Seq = NextSeq()
	t.buf[t.written%uint64(len(t.buf))] = stored
	t.written++
	t.mu.Unlock()
}

// Len returns the number of events currently held.
func (t *RingTracer) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.held()
}

func (t *RingTracer) held() int {
	if t.written < uint64(len(t.buf)) {
		return int(t.written)
	}
	return len(t.buf)
}

// Dropped reports how many events were overwritten.
func (t *RingTracer) Dropped() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.written - uint64(t.held())
}

// Snapshot returns the held events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := t.held()
	out := make([]Event, 0, n)
	first := t.written - uint64(n)
	for i := uint64(0); i < uint64(n); i++ {
		out = append(out, t.buf[(first+i)%uint64(len(t.buf))])
	}
	return out
}

// Dump writes the held events to w.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	for _, ev := range t.Snapshot() {
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error  { return nil }
func (t *RingTracer) Close() error  { return nil }
func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
