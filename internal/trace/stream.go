package trace

import (
	"bufio"
	"io"
	"sync"
)

// StreamTracer writes each event as soon as it is emitted. Output to a file is
// buffered and flushed on Flush or Close; stderr and stdout are unbuffered.
type StreamTracer struct {
	mu     sync.Mutex
	dst    io.Writer
	buf    *bufio.Writer // nil for std streams
	level  Level
	format Format
}

func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	t := &StreamTracer{dst: w, level: level, format: format}
	if _, isFile := w.(io.Closer); isFile && !isStdStream(w) {
		t.buf = bufio.NewWriter(w)
	}
	return t
}

func (t *StreamTracer) out() io.Writer {
	if t.buf != nil {
		return t.buf
	}
	return t.dst
}

// Emit writes ev. Write errors are dropped so tracing never fails a command.
func (t *StreamTracer) Emit(ev *Event) {
	if !t.level.allows(ev) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	ev.Seq = NextSeq()
	_, _ = t.out().Write(FormatEvent(ev, t.format))
}

func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.buf != nil {
		return t.buf.Flush()
	}
	return nil
}

// Close flushes and closes the destination unless it is stderr or stdout.
func (t *StreamTracer) Close() error {
	if err := t.Flush(); err != nil {
		return err
	}
	if c, ok := t.dst.(io.Closer); ok && !isStdStream(t.dst) {
		return c.Close()
	}
	return nil
}

func (t *StreamTracer) Level() Level  { return t.level }
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }
