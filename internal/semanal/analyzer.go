package semanal

import (
	"context"

	"ormsynth/internal/diag"
	"ormsynth/internal/fullnames"
	"ormsynth/internal/modgraph"
	"ormsynth/internal/nodes"
	"ormsynth/internal/source"
	"ormsynth/internal/symbols"
	"ormsynth/internal/trace"
	"ormsynth/internal/types"
)

// Options configures an Analyzer.
type Options struct {
	MaxIterations int
	Reporter      diag.Reporter
	Plugins       []Plugin
	Files         *source.FileSet // optional, for module paths in notes
}

// Analyzer runs semantic analysis to a fixpoint and then infers the types of
// assignments and reveals. One Analyzer serves one program and is not safe
// for concurrent use.
type Analyzer struct {
	opts    Options
	plugins []Plugin

	defs    []*nodes.Module // in processing order
	modules map[string]*symbols.Module
	byDef   map[*nodes.Module]*symbols.Module

	// reverse index: target fullname -> module-level bindings
	referrers map[string][]symbols.Ref
	// latest class bound under each fullname
	classIndex map[string]*symbols.ClassSymbol

	classes map[*nodes.ClassDef]*symbols.ClassSymbol
	funcs   map[*nodes.FuncDef]*symbols.FuncSymbol
	vars    map[*nodes.Assign]*symbols.Var

	// namespaces that may still gain names
	incomplete map[string]bool

	// fixpoint state
	iteration int
	final     bool
	progress  bool
	deferred  bool
	missing   map[*symbols.Table]map[string]struct{}

	// current target
	cur     *symbols.Module
	curDef  *nodes.Module
	scope   []*symbols.ClassSymbol
	pending []diag.Diagnostic

	ctx        context.Context
	tracer     trace.Tracer
	moduleSpan uint64

	result Result
}

// Inferred is the type the checker computed for a named target or a reveal.
type Inferred struct {
	Module string
	Name   string // "objects", "Model.objects"; the expression text for reveals
	Type   types.Type
	Span   source.Span
}

// Result summarizes a run.
type Result struct {
	Iterations int
	Converged  bool
	Inferred   []Inferred
	Reveals    []Inferred
}

// New creates an analyzer over mods. Modules are ordered by their imports;
// import problems are reported through opts.Reporter.
func New(mods []*nodes.Module, opts Options) *Analyzer {
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = 20
	}
	a := &Analyzer{
		opts:       opts,
		plugins:    opts.Plugins,
		modules:    make(map[string]*symbols.Module, len(mods)),
		byDef:      make(map[*nodes.Module]*symbols.Module, len(mods)),
		referrers:  make(map[string][]symbols.Ref),
		classIndex: make(map[string]*symbols.ClassSymbol),
		classes:    make(map[*nodes.ClassDef]*symbols.ClassSymbol),
		funcs:      make(map[*nodes.FuncDef]*symbols.FuncSymbol),
		vars:       make(map[*nodes.Assign]*symbols.Var),
		incomplete: make(map[string]bool, len(mods)),
		missing:    make(map[*symbols.Table]map[string]struct{}),
		ctx:        context.Background(),
		tracer:     trace.Nop,
	}
	ordered, _ := modgraph.Order(mods, opts.Reporter)
	a.defs = ordered
	for _, def := range ordered {
		mod := symbols.NewModule(def.Fullname, def.File)
		mod.Stub = def.Stub
		a.modules[def.Fullname] = mod
		a.byDef[def] = mod
		a.incomplete[def.Fullname] = true
	}
	for _, p := range a.plugins {
		if aware, ok := p.(SourceAware); ok {
			aware.SetSource(a)
		}
	}
	return a
}

// Module returns the symbol table of a module.
func (a *Analyzer) Module(fullname string) (*symbols.Module, bool) {
	mod, ok := a.modules[fullname]
	return mod, ok
}

// ModuleNames lists modules in processing order.
func (a *Analyzer) ModuleNames() []string {
	out := make([]string, len(a.defs))
	for i, def := range a.defs {
		out[i] = def.Fullname
	}
	return out
}

// Result returns what the last Run produced.
func (a *Analyzer) Result() Result { return a.result }

func (a *Analyzer) CurrentModule() *symbols.Module { return a.cur }

func (a *Analyzer) Globals() *symbols.Table {
	if a.cur == nil {
		return nil
	}
	return a.cur.Names
}

func (a *Analyzer) CurrentTable() *symbols.Table {
	if cls := a.EnclosingClass(); cls != nil {
		return cls.Names
	}
	return a.Globals()
}

func (a *Analyzer) EnclosingClass() *symbols.ClassSymbol {
	if len(a.scope) == 0 {
		return nil
	}
	return a.scope[len(a.scope)-1]
}

func (a *Analyzer) FinalIteration() bool { return a.final }

// Defer marks the current target for another iteration. It has no effect in
// the final iteration, where callers are expected to report instead.
func (a *Analyzer) Defer() {
	if a.final {
		return
	}
	a.deferred = true
}

// Fail records an error at the call site. During semantic analysis errors
// are kept only if the module does not defer in this iteration.
func (a *Analyzer) Fail(code diag.Code, at source.Span, msg string) {
	trace.Fail(a.tracer, trace.ScopeNode, code.ID(), msg, a.moduleSpan)
	a.report(diag.NewError(code, at, msg))
}

func (a *Analyzer) report(d diag.Diagnostic) {
	a.pending = append(a.pending, d)
}

func (a *Analyzer) flush(keep bool) {
	if keep {
		for _, d := range a.pending {
			diag.Emit(a.opts.Reporter, d)
		}
	}
	a.pending = a.pending[:0]
}

// Trace emits a node-level point event under the current module span.
func (a *Analyzer) Trace(name, detail string) {
	trace.Point(a.tracer, trace.ScopeNode, name, detail, a.moduleSpan)
}

func (a *Analyzer) qualify(name string) string {
	if cls := a.EnclosingClass(); cls != nil {
		return cls.Fullname + "." + name
	}
	return a.cur.Fullname + "." + name
}

func (a *Analyzer) currentBinding() symbols.Binding {
	if len(a.scope) > 0 {
		return symbols.BindMember
	}
	return symbols.BindGlobal
}

func (a *Analyzer) builtins() *symbols.Module {
	return a.modules[fullnames.Builtins]
}
