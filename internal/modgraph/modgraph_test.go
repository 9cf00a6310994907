package modgraph

import (
	"slices"
	"testing"

	"ormsynth/internal/diag"
	"ormsynth/internal/nodes"
)

func module(name string, imports ...string) *nodes.Module {
	m := &nodes.Module{Fullname: name}
	for _, imp := range imports {
		m.Defs = append(m.Defs, &nodes.ImportFrom{Module: imp})
	}
	return m
}

func names(mods []*nodes.Module) []string {
	out := make([]string, len(mods))
	for i, m := range mods {
		out[i] = m.Fullname
	}
	return out
}

func TestOrderPutsDependenciesFirst(t *testing.T) {
	mods := []*nodes.Module{
		module("app.views", "app.models"),
		module("app.models", "django.db.models"),
		module("django.db.models"),
	}
	ordered, topo := Order(mods, nil)
	want := []string{"django.db.models", "app.models", "app.views"}
	if got := names(ordered); !slices.Equal(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
	if topo.Cyclic || len(topo.Batches) != 3 {
		t.Fatalf("unexpected topo: cyclic=%v batches=%d", topo.Cyclic, len(topo.Batches))
	}
}

func TestOrderAppendsCycles(t *testing.T) {
	mods := []*nodes.Module{
		module("a", "b"),
		module("b", "a"),
		module("base"),
	}
	ordered, topo := Order(mods, nil)
	if !topo.Cyclic {
		t.Fatalf("expected cycle")
	}
	if got := names(ordered); !slices.Equal(got, []string{"base", "a", "b"}) {
		t.Fatalf("order = %v", got)
	}
}

func TestBuildGraphReportsUnknownModule(t *testing.T) {
	bag := diag.NewBag(10)
	Order([]*nodes.Module{module("app", "missing")}, diag.BagReporter{Bag: bag})
	if bag.Count(diag.SemaModuleNotFound) != 1 {
		t.Fatalf("expected one missing-module diagnostic, got %d", bag.Len())
	}
}
