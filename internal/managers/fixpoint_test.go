package managers

import (
	"testing"

	"ormsynth/internal/diag"
	"ormsynth/internal/nodes"
	"ormsynth/internal/semanal"
	"ormsynth/internal/symbols"
	"ormsynth/internal/types"
)

func TestForwardQuerysetDefersThenConverges(t *testing.T) {
	r := analyze(t, appModule("app",
		assign("Late", fromQueryset("Manager", "LateQS")),
		class("LateQS", bases("QuerySet"), returning("recent", "LateQS")),
	))
	if errs := r.errors(); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if !r.res.Converged || r.res.Iterations != 2 {
		t.Fatalf("iterations=%d converged=%v", r.res.Iterations, r.res.Converged)
	}
	mod := r.module(t, "app")
	sym, ok := mod.Names.Get("Late")
	if !ok || !sym.Generated || sym.Fullname() != "app.ManagerFromLateQS" {
		t.Fatalf("Late = %+v", sym)
	}
}

func TestRegistryHoldsOneEntryAfterResynthesis(t *testing.T) {
	// Later forces the module through a second iteration, so the manager is
	// synthesized twice.
	r := analyze(t, appModule("app",
		class("QS", bases("QuerySet"), returning("mine", "QS")),
		class("M", bases("Manager")),
		assign("MFromQ", fromQueryset("M", "QS")),
		class("X", bases("Later")),
		class("Later", nil),
	))
	if errs := r.errors(); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if r.res.Iterations < 2 {
		t.Fatalf("fixture must take more than one iteration, took %d", r.res.Iterations)
	}
	want := []Record{{Key: "django.db.models.manager.MFromQ", Fullname: "app.MFromQ"}}
	for _, holder := range []string{"app.M", "django.db.models.manager.Manager"} {
		got := Records(r.class(t, holder))
		if len(got) != 1 || got[0] != want[0] {
			t.Fatalf("%s records = %v, want %v", holder, got, want)
		}
	}
}

func TestReplacementRepointsImporters(t *testing.T) {
	r := analyze(t,
		appModule("app",
			class("QS", bases("QuerySet"), returning("mine", "QS")),
			class("M", bases("Manager")),
			assign("MFromQ", fromQueryset("M", "QS")),
			class("X", bases("Later")),
			class("Later", nil),
		),
		&nodes.Module{Fullname: "consumer", Defs: []nodes.Stmt{
			importFrom("app", "MFromQ"),
			&nodes.Reveal{Expr: nodes.Name("MFromQ")},
		}},
	)
	if errs := r.errors(); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	owner, _ := r.module(t, "app").Names.Get("MFromQ")
	imported, ok := r.module(t, "consumer").Names.Get("MFromQ")
	if !ok {
		t.Fatalf("consumer lost its import")
	}
	if imported.Node != owner.Node {
		t.Fatalf("consumer still points at a stale class")
	}
	if !imported.Imported {
		t.Fatalf("repoint must keep the import flag")
	}
	if len(r.res.Reveals) != 1 || !r.res.Reveals[0].Type.Equal(types.ClassRef(types.Instance("app.MFromQ"))) {
		t.Fatalf("reveals = %+v", r.res.Reveals)
	}
}

func TestResolverRejectsManagerFromAnotherModule(t *testing.T) {
	// both modules derive the same key; second is analyzed last and wins
	// the registry
	r := analyze(t,
		appModule("first",
			class("QS", bases("QuerySet")),
			assign("A", asManager("QS")),
		),
		appModule("second",
			importFrom("first", "A"),
			class("QS", bases("QuerySet")),
			assign("B", asManager("QS")),
		),
	)
	if n := r.bag.Count(diag.SemaCrossModuleManager); n != 1 {
		t.Fatalf("expected one cross-module error, got %v", r.bag.Items())
	}
	if got := r.inferred(t, "first", "A"); got.Kind != types.KindAny {
		t.Fatalf("A typed %s", got)
	}
	if got := r.inferred(t, "second", "B"); !got.Equal(types.Instance("second.QS_AsManager_Any")) {
		t.Fatalf("B typed %s", got)
	}
}

func TestCyclicQuerysetFailsOnceInFinalIteration(t *testing.T) {
	r := analyze(t,
		appModule("a",
			importFrom("b", "Y"),
			assign("M", fromQueryset("Manager", "Y")),
		),
		appModule("b", importFrom("a", "Y")),
	)
	if n := r.bag.Count(diag.SemaIncompleteDefinition); n != 1 {
		t.Fatalf("expected one incomplete-definition error, got %v", r.bag.Items())
	}
	if !r.res.Converged {
		t.Fatalf("final iteration must settle the cycle, iterations=%d", r.res.Iterations)
	}
	if _, ok := r.module(t, "a").Class("ManagerFromY"); ok {
		t.Fatalf("nothing may be published for an incomplete queryset")
	}
}

// refusingAPI refuses every generated binding.
type refusingAPI struct {
	semanal.SemanticAPI
	refused int
	final   bool
}

func (api *refusingAPI) AddSymbol(name string, sym *symbols.SymbolNode, table *symbols.Table, conflict nodes.Node) bool {
	if sym.Generated {
		api.refused++
		api.final = api.final || api.SemanticAPI.FinalIteration()
		return false
	}
	return api.SemanticAPI.AddSymbol(name, sym, table, conflict)
}

type refusingPlugin struct {
	*Plugin
	api *refusingAPI
}

func (p *refusingPlugin) DynamicClassHook(fullname string) semanal.DynamicClassHook {
	hook := p.Plugin.DynamicClassHook(fullname)
	if hook == nil {
		return nil
	}
	return func(ctx *semanal.DynamicClassContext) {
		p.api.SemanticAPI = ctx.API
		hook(&semanal.DynamicClassContext{Call: ctx.Call, Name: ctx.Name, API: p.api})
	}
}

func TestRefusedBindingDefersUntilFinalIteration(t *testing.T) {
	api := &refusingAPI{}
	r := analyzeWith(t, func(p *Plugin) semanal.Plugin {
		return &refusingPlugin{Plugin: p, api: api}
	}, appModule("app",
		class("QS", bases("QuerySet"), returning("mine", "QS")),
		assign("M", fromQueryset("Manager", "QS")),
	))
	if api.refused < 2 || !api.final {
		t.Fatalf("refused=%d final=%v: the binding must be retried up to the final iteration", api.refused, api.final)
	}
	if !r.res.Converged {
		t.Fatalf("a refused binding must not keep the module deferred")
	}
	// the final iteration keeps the stale table but still records the class
	want := []Record{{Key: "django.db.models.manager.ManagerFromQS", Fullname: "app.ManagerFromQS"}}
	if got := Records(r.class(t, "django.db.models.manager.Manager")); len(got) != 1 || got[0] != want[0] {
		t.Fatalf("records = %v, want %v", got, want)
	}
	if n := r.bag.Count(diag.SemaIncompleteDefinition); n != 0 {
		t.Fatalf("a refused binding is not an incomplete definition: %v", r.bag.Items())
	}
}

func TestRevealOutsideAssignmentMissesRegistry(t *testing.T) {
	r := analyze(t, appModule("app",
		class("QS", bases("QuerySet")),
		revealOf(asManager("QS")),
	))
	if n := r.bag.Count(diag.SemaRegistryMiss); n != 1 {
		t.Fatalf("expected one registry miss, got %v", r.bag.Items())
	}
	if got := r.reveal(t, "QS.as_manager()"); got.Kind != types.KindAny {
		t.Fatalf("revealed %s", got)
	}
}

func TestFromQuerysetWithoutQuerysetIsUnexpectedShape(t *testing.T) {
	r := analyze(t, appModule("app",
		revealOf(nodes.Call(nodes.Member(nodes.Name("Manager"), "from_queryset"))),
	))
	if n := r.bag.Count(diag.SemaUnexpectedShape); n != 1 {
		t.Fatalf("expected one unexpected-shape error, got %v", r.bag.Items())
	}
	if got := r.reveal(t, "Manager.from_queryset()"); got.Kind != types.KindAny {
		t.Fatalf("revealed %s", got)
	}
}
