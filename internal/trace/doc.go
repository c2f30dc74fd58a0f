// Package trace records what a bigcalc run is doing: spans for the run,
// each input file, its stages and (at debug level) single records.
//
// Enable it from the command line:
//
//	bigcalc run --trace=- --trace-level=detail input.txt
//
// Implementations:
//
//   - Nop: zero-overhead tracer used when tracing is off
//   - StreamTracer: writes each event immediately (text or NDJSON)
//   - RingTracer: keeps the last N events, dumped when a run fails
//   - MultiTracer: fans out to several tracers
//
// Tracers travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopeFile, "file:input.txt")
//	defer span.End("")
package trace
