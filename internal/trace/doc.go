// Package trace provides structured tracing for cmakegen runs.
//
// Tracing records the pipeline's stage boundaries and, at higher verbosity,
// every cleaned artifact and discovered file. It is the tool's log: nothing
// else writes diagnostic chatter to stderr.
//
// # Usage
//
//	cmakegen generate --trace=- --trace-level=phase
//	cmakegen generate --trace=run.ndjson --trace-level=detail
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelPhase: run and stage spans
//   - LevelDetail: plus per-file events
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//
//	ctx, span := trace.StartSpan(ctx, trace.ScopeStage, "discover")
//	defer span.End("")
//	trace.File(trace.FromContext(ctx), trace.ActionFound, "src/main.cpp")
package trace
