package semanal

import (
	"context"
	"testing"

	"ormsynth/internal/diag"
	"ormsynth/internal/nodes"
	"ormsynth/internal/types"
)

func classDef(name string, bases []types.Type, body ...nodes.Stmt) *nodes.ClassDef {
	return &nodes.ClassDef{Name: name, Bases: bases, Body: body}
}

func base(name string, args ...types.Type) []types.Type {
	return []types.Type{types.Unbound(name, args...)}
}

func method(name string, ret types.Type, decorators ...string) *nodes.FuncDef {
	return &nodes.FuncDef{Name: name, Params: []nodes.Param{{Name: "self"}}, Returns: ret, Decorators: decorators}
}

func module(name string, defs ...nodes.Stmt) *nodes.Module {
	return &nodes.Module{Fullname: name, Defs: defs}
}

func builtinsModule() *nodes.Module {
	m := module("builtins",
		classDef("object", nil),
		classDef("str", nil),
	)
	m.Stub = true
	return m
}

func analyze(t *testing.T, maxIter int, plugins []Plugin, mods ...*nodes.Module) (*Analyzer, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(100)
	all := append([]*nodes.Module{builtinsModule()}, mods...)
	a := New(all, Options{MaxIterations: maxIter, Reporter: diag.BagReporter{Bag: bag}, Plugins: plugins})
	a.Run(context.Background())
	return a, bag
}

func inferredType(t *testing.T, res Result, name string) types.Type {
	t.Helper()
	for _, inf := range res.Inferred {
		if inf.Name == name {
			return inf.Type
		}
	}
	t.Fatalf("no inferred type for %q", name)
	return types.Type{}
}

func errorsOf(bag *diag.Bag) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, d := range bag.Items() {
		if d.Severity == diag.SevError {
			out = append(out, d)
		}
	}
	return out
}
