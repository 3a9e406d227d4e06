// Package trace is the structured logging layer of xmlscope.
//
// Commands, passes and per-file work open spans; the events are written as
// text or NDJSON to a stream, kept in a ring buffer, or both.
//
// Enable tracing via command-line flags:
//
//	xmlscope search fields --trace=- --trace-level=detail Bolt ./data
//
// # Levels
//
//   - LevelOff: nothing
//   - LevelError: error events only
//   - LevelPhase: command and pass boundaries
//   - LevelDetail: per-file work
//   - LevelDebug: everything
//
// Tracers travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span, ctx := trace.StartFile(ctx, "check", path)
//	defer span.End("")
package trace
