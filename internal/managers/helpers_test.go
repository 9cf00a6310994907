package managers

import (
	"context"
	"testing"

	"ormsynth/internal/diag"
	"ormsynth/internal/fullnames"
	"ormsynth/internal/nodes"
	"ormsynth/internal/semanal"
	"ormsynth/internal/symbols"
	"ormsynth/internal/types"
)

func class(name string, bases []types.Type, body ...nodes.Stmt) *nodes.ClassDef {
	return &nodes.ClassDef{Name: name, Bases: bases, Body: body}
}

func bases(names ...string) []types.Type {
	out := make([]types.Type, len(names))
	for i, n := range names {
		out[i] = types.Unbound(n)
	}
	return out
}

func generic(name string, args ...string) types.Type {
	vars := make([]types.Type, len(args))
	for i, a := range args {
		vars[i] = types.Unbound(a)
	}
	return types.Unbound(name, vars...)
}

// returning declares def name(self) -> ret.
func returning(name string, ret string) *nodes.FuncDef {
	return &nodes.FuncDef{Name: name, Params: []nodes.Param{{Name: "self"}}, Returns: types.Unbound(ret)}
}

func unannotated(name string, params ...string) *nodes.FuncDef {
	ps := []nodes.Param{{Name: "self"}}
	for _, p := range params {
		ps = append(ps, nodes.Param{Name: p})
	}
	return &nodes.FuncDef{Name: name, Params: ps}
}

func assign(target string, value nodes.Expr) *nodes.Assign {
	return &nodes.Assign{Target: target, Value: value}
}

func fromQueryset(manager, queryset string, extra ...nodes.Expr) *nodes.CallExpr {
	return nodes.Call(nodes.Member(nodes.Name(manager), "from_queryset"), append([]nodes.Expr{nodes.Name(queryset)}, extra...)...)
}

func asManager(queryset string) *nodes.CallExpr {
	return nodes.Call(nodes.Member(nodes.Name(queryset), "as_manager"))
}

func importFrom(module string, names ...string) *nodes.ImportFrom {
	s := &nodes.ImportFrom{Module: module}
	for _, n := range names {
		s.Names = append(s.Names, nodes.ImportName{Name: n})
	}
	return s
}

// ormImports brings the ORM classes used by the fixtures into scope.
func ormImports() []nodes.Stmt {
	return []nodes.Stmt{
		importFrom("django.db.models.manager", "BaseManager", "Manager"),
		importFrom("django.db.models.query", "QuerySet"),
		importFrom("django.db.models.base", "Model"),
	}
}

func appModule(name string, defs ...nodes.Stmt) *nodes.Module {
	return &nodes.Module{Fullname: name, Defs: append(ormImports(), defs...)}
}

// ormStubs is the slice of the ORM the plugin needs to see.
func ormStubs() []*nodes.Module {
	stub := func(name string, defs ...nodes.Stmt) *nodes.Module {
		return &nodes.Module{Fullname: name, Stub: true, Defs: defs}
	}
	return []*nodes.Module{
		stub("builtins", class("object", nil), class("str", nil)),
		stub("django.db.models.base", class("Model", nil)),
		stub("django.db.models.query",
			&nodes.TypeVarDef{Name: "_T"},
			&nodes.TypeVarDef{Name: "_QS"},
			class("QuerySet", []types.Type{generic("Generic", "_T")},
				&nodes.FuncDef{
					Name:       "as_manager",
					Params:     []nodes.Param{{Name: "cls", Type: types.Unbound("Type", types.Unbound("_QS"))}},
					Returns:    types.Unbound("_QS"),
					Decorators: []string{"classmethod"},
				},
				returning("all", "_QS"),
			),
		),
		stub("django.db.models.manager",
			importFrom("django.db.models.query", "QuerySet"),
			&nodes.TypeVarDef{Name: "_T"},
			class("BaseManager", []types.Type{generic("Generic", "_T")},
				&nodes.FuncDef{
					Name: "from_queryset",
					Params: []nodes.Param{
						{Name: "cls"},
						{Name: "queryset_class", Type: types.Unbound("Type", types.Unbound("QuerySet"))},
						{Name: "class_name", Type: types.Unbound("str"), Kind: types.ArgOptional},
					},
					Returns:    types.Unbound("Any"),
					Decorators: []string{"classmethod"},
				},
			),
			class("Manager", []types.Type{generic("BaseManager", "_T"), generic("Generic", "_T")}),
		),
	}
}

type run struct {
	an     *semanal.Analyzer
	res    semanal.Result
	bag    *diag.Bag
	plugin *Plugin
}

func analyze(t *testing.T, mods ...*nodes.Module) run {
	t.Helper()
	return analyzeWith(t, nil, mods...)
}

// analyzeWith lets wrap install the plugin differently, e.g. behind a
// wrapper; nil installs it as is.
func analyzeWith(t *testing.T, wrap func(*Plugin) semanal.Plugin, mods ...*nodes.Module) run {
	t.Helper()
	bag := diag.NewBag(100)
	plugin := New(fullnames.Default())
	var installed semanal.Plugin = plugin
	if wrap != nil {
		installed = wrap(plugin)
	}
	an := semanal.New(append(ormStubs(), mods...), semanal.Options{
		Reporter: diag.BagReporter{Bag: bag},
		Plugins:  []semanal.Plugin{installed},
	})
	res := an.Run(context.Background())
	return run{an: an, res: res, bag: bag, plugin: plugin}
}

// installed is an app registry listing model fullnames.
type installed map[string]bool

func (m installed) InstalledModel(fullname string) bool { return m[fullname] }

func analyzeModels(t *testing.T, models installed, mods ...*nodes.Module) run {
	t.Helper()
	return analyzeWith(t, func(p *Plugin) semanal.Plugin {
		p.SetModels(models)
		return p
	}, mods...)
}

func (r run) reveal(t *testing.T, expr string) types.Type {
	t.Helper()
	for _, rv := range r.res.Reveals {
		if rv.Name == expr {
			return rv.Type
		}
	}
	t.Fatalf("no reveal of %s in %+v", expr, r.res.Reveals)
	return types.Type{}
}

func revealOf(expr nodes.Expr) *nodes.Reveal { return &nodes.Reveal{Expr: expr} }

func (r run) errors() []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, d := range r.bag.Items() {
		if d.Severity == diag.SevError {
			out = append(out, d)
		}
	}
	return out
}

func (r run) module(t *testing.T, name string) *symbols.Module {
	t.Helper()
	mod, ok := r.an.Module(name)
	if !ok {
		t.Fatalf("module %s not analyzed", name)
	}
	return mod
}

func (r run) class(t *testing.T, fullname string) *symbols.ClassSymbol {
	t.Helper()
	cls, ok := r.an.LookupClass(fullname)
	if !ok {
		t.Fatalf("class %s not found", fullname)
	}
	return cls
}

func (r run) inferred(t *testing.T, module, name string) types.Type {
	t.Helper()
	for _, inf := range r.res.Inferred {
		if inf.Module == module && inf.Name == name {
			return inf.Type
		}
	}
	t.Fatalf("no inferred type for %s.%s", module, name)
	return types.Type{}
}
