package semanal

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"ormsynth/internal/diag"
	"ormsynth/internal/nodes"
	"ormsynth/internal/source"
	"ormsynth/internal/trace"
)

// Run analyzes every module to a fixpoint and then checks them.
//
// Each iteration re-analyzes the modules that deferred in the previous one.
// An iteration that binds nothing new makes the next one final: deferral is
// no longer possible there and unresolved names become errors.
func (a *Analyzer) Run(ctx context.Context) Result {
	a.Semanal(ctx)
	return a.Check(ctx)
}

// Semanal runs only the fixpoint. Check must follow before types are read.
func (a *Analyzer) Semanal(ctx context.Context) Result {
	a.attach(ctx)
	a.semanal(trace.CurrentSpan(ctx))
	return a.result
}

// Check infers assignment and reveal types after Semanal.
func (a *Analyzer) Check(ctx context.Context) Result {
	a.attach(ctx)
	a.check(trace.CurrentSpan(ctx))
	return a.result
}

func (a *Analyzer) attach(ctx context.Context) {
	a.ctx = ctx
	a.tracer = trace.FromContext(ctx)
}

func (a *Analyzer) semanal(parent uint64) {
	worklist := slices.Clone(a.defs)
	progressed := true
	for len(worklist) > 0 {
		if a.iteration >= a.opts.MaxIterations {
			a.reportHang(worklist)
			break
		}
		a.iteration++
		a.final = !progressed
		a.progress = false
		clear(a.missing)

		span := trace.Begin(a.tracer, trace.ScopePass, "semanal#"+strconv.Itoa(a.iteration), parent)
		if a.final {
			span.WithExtra("final", "true")
		}
		next := worklist[:0:0]
		for _, def := range worklist {
			if a.analyzeTarget(def, span.ID()) {
				next = append(next, def)
			}
		}
		span.WithExtra("deferred", strconv.Itoa(len(next))).End("")

		progressed = a.progress
		worklist = next
	}
	a.result.Iterations = a.iteration
	a.result.Converged = len(worklist) == 0
	a.cur, a.curDef, a.scope = nil, nil, nil
}

// analyzeTarget runs one module top level. Returns true if it deferred.
func (a *Analyzer) analyzeTarget(def *nodes.Module, parent uint64) bool {
	a.cur = a.byDef[def]
	a.curDef = def
	a.scope = a.scope[:0]
	a.deferred = false

	span := trace.Begin(a.tracer, trace.ScopeModule, def.Fullname, parent)
	a.moduleSpan = span.ID()
	for _, stmt := range def.Defs {
		a.visitStmt(stmt)
	}
	deferred := a.deferred
	if !deferred {
		a.incomplete[def.Fullname] = false
	}
	a.flush(!deferred)
	if deferred {
		span.WithExtra("deferred", "true")
	}
	span.End("")
	return deferred
}

func (a *Analyzer) reportHang(left []*nodes.Module) {
	var at source.Span
	d := diag.NewError(diag.SemaIterationLimit, at,
		fmt.Sprintf("semantic analysis did not converge after %d iterations", a.opts.MaxIterations))
	for _, def := range left {
		d = d.WithNote(source.Span{File: def.File}, fmt.Sprintf("module %s is still incomplete", def.Fullname))
	}
	trace.Fail(a.tracer, trace.ScopePass, "no_fixpoint", d.Message, trace.CurrentSpan(a.ctx))
	diag.Emit(a.opts.Reporter, d)
}
