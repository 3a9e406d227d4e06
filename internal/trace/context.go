package trace

import "context"

type tracerKey struct{}

type parentKey struct{}

// FromContext returns the tracer stored in ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
		return t
	}
	return Nop
}

// WithTracer attaches t to ctx. A nil t stores Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

func parentFrom(ctx context.Context) uint64 {
	if ctx == nil {
		return 0
	}
	id, _ := ctx.Value(parentKey{}).(uint64)
	return id
}

// StartSpan begins a span under the span stored in ctx and returns a context
// carrying the new span as parent for nested work.
func StartSpan(ctx context.Context, scope Scope, name string) (*Span, context.Context) {
	return nest(ctx, begin(FromContext(ctx), scope, name, "", parentFrom(ctx)))
}

// StartFile begins a file-scope span for step on path.
func StartFile(ctx context.Context, step, path string) (*Span, context.Context) {
	return nest(ctx, begin(FromContext(ctx), ScopeFile, step, path, parentFrom(ctx)))
}

func nest(ctx context.Context, s *Span) (*Span, context.Context) {
	if !s.live() {
		return s, ctx
	}
	return s, context.WithValue(ctx, parentKey{}, s.id)
}
