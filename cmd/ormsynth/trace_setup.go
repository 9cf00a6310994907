package main

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"ormsynth/internal/trace"
)

// traceFlags are the root --trace* flags.
var traceFlags struct {
	output    string
	level     string
	mode      string
	ringSize  int
	heartbeat time.Duration
}

func registerTraceFlags(root *cobra.Command) {
	f := root.PersistentFlags()
	f.StringVar(&traceFlags.output, "trace", "", "write trace events to this file (- for stderr)")
	f.StringVar(&traceFlags.level, "trace-level", "off", "trace level (off|error|phase|detail|debug)")
	f.StringVar(&traceFlags.mode, "trace-mode", "stream", "trace storage mode (stream|ring|both)")
	f.IntVar(&traceFlags.ringSize, "trace-ring-size", 4096, "events kept in ring mode")
	f.DurationVar(&traceFlags.heartbeat, "trace-heartbeat", 0, "emit a heartbeat event at this interval (0 disables)")
}

// traceConfig turns the flags into a tracer config; ok is false when
// tracing stays off.
func traceConfig() (cfg trace.Config, ok bool, err error) {
	level, err := trace.ParseLevel(traceFlags.level)
	if err != nil {
		return cfg, false, fmt.Errorf("--trace-level: %w", err)
	}
	if level == trace.LevelOff {
		if traceFlags.output == "" {
			return cfg, false, nil
		}
		// файл без уровня - это phase
		level = trace.LevelPhase
	}
	mode, err := trace.ParseMode(traceFlags.mode)
	if err != nil {
		return cfg, false, fmt.Errorf("--trace-mode: %w", err)
	}
	return trace.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: cmp.Or(traceFlags.output, "-"),
		RingSize:   traceFlags.ringSize,
		Heartbeat:  traceFlags.heartbeat,
	}, true, nil
}

// tracing is the process tracer and what has to happen to it on exit.
type tracing struct {
	tracer    trace.Tracer
	heartbeat *trace.Heartbeat
	dumpOnEnd bool
}

var activeTracing *tracing

func setupTracing(cmd *cobra.Command) error {
	cfg, ok, err := traceConfig()
	if err != nil {
		return err
	}
	if !ok {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return nil
	}
	tr, err := trace.New(cfg)
	if err != nil {
		return fmt.Errorf("create tracer: %w", err)
	}
	ctx := trace.WithTracer(cmd.Context(), tr)
	cmd.SetContext(ctx)
	cmd.Root().SetContext(ctx)

	activeTracing = &tracing{tracer: tr, dumpOnEnd: cfg.Mode == trace.ModeRing}
	if cfg.Heartbeat > 0 {
		activeTracing.heartbeat = trace.StartHeartbeat(tr, cfg.Heartbeat)
	}
	return nil
}

// stopTracing stops the heartbeat, dumps a ring-only tracer, then flushes
// and closes. A second call does nothing.
func stopTracing() {
	t := activeTracing
	if t == nil {
		return
	}
	activeTracing = nil
	if t.heartbeat != nil {
		t.heartbeat.Stop()
	}
	if t.dumpOnEnd {
		dumpRing(t.tracer)
	}
	if err := errors.Join(t.tracer.Flush(), t.tracer.Close()); err != nil {
		fmt.Fprintf(os.Stderr, "trace: %v\n", err)
	}
}

// dumpRing writes what a ring tracer kept to stderr.
func dumpRing(t trace.Tracer) {
	var ring *trace.RingTracer
	switch tr := t.(type) {
	case *trace.RingTracer:
		ring = tr
	case *trace.MultiTracer:
		r, ok := tr.Ring()
		if !ok {
			return
		}
		ring = r
	default:
		return
	}
	if dropped := ring.Dropped(); dropped > 0 {
		fmt.Fprintf(os.Stderr, "trace: %d earlier events dropped, %d failures recorded\n", dropped, ring.Failures())
	}
	if err := ring.Dump(os.Stderr, trace.FormatText); err != nil {
		fmt.Fprintf(os.Stderr, "trace: dump error: %v\n", err)
	}
}

// dumpTraceOnPanic dumps the ring before re-panicking.
func dumpTraceOnPanic() {
	if r := recover(); r != nil {
		if t := activeTracing; t != nil {
			fmt.Fprintln(os.Stderr, "panic: dumping trace ring")
			dumpRing(t.tracer)
		}
		panic(r)
	}
}
