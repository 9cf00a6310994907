// Package trace is the structured logging layer of ormsynth.
//
// It records driver, pass, module and node level events so that slow or
// non-converging fixpoint runs can be diagnosed.
//
//	ormsynth analyze --trace=- --trace-level=detail app.toml
//
// Tracers: Nop (tracing disabled), StreamTracer (writes every event as text
// or NDJSON), RingTracer (keeps the last N events for post-mortem dumps) and
// MultiTracer (fan-out).
//
// Levels nest by scope: phase shows driver and pass spans, detail adds
// modules, debug adds per-call events. The error level keeps only failure
// events (see Fail), which every level above off also lets through.
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "semanal#1", parentID)
//	defer span.End("")
package trace
