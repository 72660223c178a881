// Package trace is the structured logging layer of swiftconcur.
//
// Everything it writes goes to stderr or a trace file, never to stdout, which
// carries the report.
//
// # Usage
//
//	swiftconcur parse --trace=- --trace-level=detail build.log
//
// --verbose is shorthand for --trace=- --trace-level=detail.
//
// # Tracers
//
//   - Nop: installed at --trace-level=off
//   - StreamTracer: writes each event immediately (text or NDJSON)
//   - RingTracer: keeps the last N events for a dump on panic
//   - MultiTracer: fans out to several tracers
//
// # Levels and scopes
//
// A level admits scopes up to a granularity:
//
//   - LevelPhase: ScopeRun and ScopeStage (one event pair per pipeline stage)
//   - LevelDetail: adds ScopeBatch (worker batches, baseline and config loading)
//   - LevelDebug: adds ScopeRecord (one event per diagnostic)
//
// LevelError emits nothing while running; it only keeps the ring for crash
// dumps.
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeStage, "extract", 0)
//	defer span.End("")
package trace
