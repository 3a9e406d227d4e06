package trace

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

// NextSeq returns the next global event sequence number.
func NextSeq() uint64 { return seqCounter.Add(1) }

// Span measures one unit of work: a command, a pass over files, or a file.
// A disabled span is a valid value whose methods do nothing.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	path    string
	started time.Time
	attrs   []Attr
}

var disabled = &Span{tracer: Nop}

// Begin opens a span under parent (0 for a root span).
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	return begin(t, scope, name, "", parent)
}

func begin(t Tracer, scope Scope, name, path string, parent uint64) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return disabled
	}
	s := &Span{
		tracer:  t,
		id:      spanCounter.Add(1),
		parent:  parent,
		scope:   scope,
		name:    name,
		path:    path,
		started: time.Now(),
	}
	t.Emit(&Event{
		Time:     s.started,
		Kind:     KindSpanBegin,
		Scope:    scope,
		SpanID:   s.id,
		ParentID: parent,
		Name:     name,
		Path:     path,
	})
	return s
}

func (s *Span) live() bool { return s != nil && s.id != 0 }

// Set records an attribute reported when the span ends. Setting a key twice
// keeps the last value.
func (s *Span) Set(key, value string) *Span {
	if !s.live() {
		return s
	}
	for i := range s.attrs {
		if s.attrs[i].Key == key {
			s.attrs[i].Value = value
			return s
		}
	}
	s.attrs = append(s.attrs, Attr{Key: key, Value: value})
	return s
}

// Count records an integer attribute.
func (s *Span) Count(key string, n int) *Span {
	if !s.live() {
		return s
	}
	return s.Set(key, strconv.Itoa(n))
}

// End closes the span and returns how long it was open.
func (s *Span) End(detail string) time.Duration {
	if !s.live() {
		return 0
	}
	now := time.Now()
	s.tracer.Emit(&Event{
		Time:     now,
		Kind:     KindSpanEnd,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Name:     s.name,
		Path:     s.path,
		Detail:   detail,
		Attrs:    s.attrs,
	})
	return now.Sub(s.started)
}

// Fail reports err against the span's file and name. A nil err is ignored.
func (s *Span) Fail(step string, err error) {
	if !s.live() || err == nil {
		return
	}
	s.tracer.Emit(&Event{
		Time:     time.Now(),
		Kind:     KindError,
		Scope:    s.scope,
		ParentID: s.id,
		Name:     step,
		Path:     s.path,
		Detail:   err.Error(),
	})
}

// ID returns the span ID, 0 when the span is disabled.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Point emits an instant event under parent.
func Point(t Tracer, scope Scope, name, detail string, parent uint64) {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: parent,
		Name:     name,
		Detail:   detail,
	})
}

// Fail emits an error event. Errors are recorded at every level except off,
// including for work whose span was filtered out by the level.
func Fail(t Tracer, scope Scope, name string, err error, parent uint64) {
	if t == nil || !t.Enabled() || err == nil {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Kind:     KindError,
		Scope:    scope,
		ParentID: parent,
		Name:     name,
		Detail:   err.Error(),
	})
}

// FailFile is Fail for an error tied to one file.
func FailFile(ctx context.Context, path, step string, err error) {
	t := FromContext(ctx)
	if !t.Enabled() || err == nil {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Kind:     KindError,
		Scope:    ScopeFile,
		ParentID: parentFrom(ctx),
		Name:     step,
		Path:     path,
		Detail:   err.Error(),
	})
}
