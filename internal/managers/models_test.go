package managers

import (
	"testing"

	"ormsynth/internal/nodes"
	"ormsynth/internal/types"
)

func managerOf(model string) types.Type {
	return types.Instance("django.db.models.manager.Manager", types.Instance(model))
}

func TestInstalledModelGetsDefaultManager(t *testing.T) {
	r := analyzeModels(t, installed{"app.Book": true}, appModule("app",
		class("Book", bases("Model")),
		class("Draft", bases("Model")),
		revealOf(nodes.Member(nodes.Name("Book"), "objects")),
		revealOf(nodes.Member(nodes.Name("Book"), "_default_manager")),
	))
	if errs := r.errors(); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	want := managerOf("app.Book")
	if got := r.reveal(t, "Book.objects"); !got.Equal(want) {
		t.Fatalf("Book.objects = %s, want %s", got, want)
	}
	if got := r.reveal(t, "Book._default_manager"); !got.Equal(want) {
		t.Fatalf("Book._default_manager = %s, want %s", got, want)
	}
	if attr, ok := DefaultManager(r.class(t, "app.Book")); !ok || attr != "objects" {
		t.Fatalf("default manager = %q, %v", attr, ok)
	}
	if _, ok := r.class(t, "app.Draft").Names.Get("objects"); ok {
		t.Fatalf("a model the registry does not install must stay untouched")
	}
}

func TestCustomManagerBoundToModel(t *testing.T) {
	r := analyzeModels(t, installed{"app.Book": true}, appModule("app",
		class("BookManager", bases("Manager"), returning("active", "BookManager")),
		class("Book", bases("Model"),
			assign("objects", nodes.Call(nodes.Name("BookManager"))),
		),
		revealOf(nodes.Member(nodes.Name("Book"), "objects")),
		revealOf(nodes.Member(nodes.Name("Book"), "_default_manager")),
	))
	if errs := r.errors(); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	cls, ok := r.module(t, "app").Class("Book_BookManager")
	if !ok || !cls.Generated {
		t.Fatalf("model-bound manager not bound in module globals")
	}
	if len(cls.Bases) != 1 || !cls.Bases[0].Equal(managerOf("app.Book")) {
		t.Fatalf("bases = %v", cls.Bases)
	}
	self := types.Instance(cls.Fullname)
	active, ok := cls.Method("active")
	if !ok || active.Owner != cls.Fullname || !active.Sig.Result.Equal(self) {
		t.Fatalf("active = %+v", active)
	}
	if orig, _ := r.class(t, "app.BookManager").Method("active"); !orig.Sig.Result.Equal(types.Instance("app.BookManager")) {
		t.Fatalf("source manager was modified: %s", orig.Sig.Result)
	}
	if got := r.reveal(t, "Book.objects"); !got.Equal(self) {
		t.Fatalf("Book.objects = %s", got)
	}
	if got := r.reveal(t, "Book._default_manager"); !got.Equal(self) {
		t.Fatalf("Book._default_manager = %s", got)
	}
}

func TestParametrizedManagerLeftAlone(t *testing.T) {
	r := analyzeModels(t, installed{"app.Author": true}, appModule("app",
		class("Author", bases("Model"),
			assign("people", nodes.Call(nodes.Name("Manager"))),
		),
		revealOf(nodes.Member(nodes.Name("Author"), "_default_manager")),
	))
	if errs := r.errors(); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if _, ok := r.module(t, "app").Class("Author_Manager"); ok {
		t.Fatalf("stock Manager must not get a model-bound copy")
	}
	author := r.class(t, "app.Author")
	if _, ok := author.Names.Get("objects"); ok {
		t.Fatalf("a model with a declared manager gets no objects")
	}
	if attr, _ := DefaultManager(author); attr != "people" {
		t.Fatalf("default manager = %q", attr)
	}
	if got := r.reveal(t, "Author._default_manager"); !got.Equal(managerOf("app.Author")) {
		t.Fatalf("Author._default_manager = %s", got)
	}
}

func TestModelManagerWaitsForLateManager(t *testing.T) {
	r := analyzeModels(t, installed{"app.Book": true}, appModule("app",
		class("Book", bases("Model"),
			assign("objects", nodes.Call(nodes.Name("LateManager"))),
		),
		class("LateManager", bases("Manager"), returning("fresh", "LateManager")),
	))
	if errs := r.errors(); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if !r.res.Converged || r.res.Iterations < 2 {
		t.Fatalf("iterations=%d converged=%v", r.res.Iterations, r.res.Converged)
	}
	if _, ok := r.module(t, "app").Class("Book_LateManager"); !ok {
		t.Fatalf("model-bound manager missing after deferral")
	}
}

func TestChildModelInheritsManagers(t *testing.T) {
	r := analyzeModels(t, installed{"app.Parent": true, "app.Child": true}, appModule("app",
		class("Parent", bases("Model")),
		class("Child", bases("Parent")),
		revealOf(nodes.Member(nodes.Name("Child"), "objects")),
	))
	if errs := r.errors(); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if _, ok := r.class(t, "app.Child").Names.Get("objects"); ok {
		t.Fatalf("child must inherit objects, not redeclare it")
	}
	if got := r.reveal(t, "Child.objects"); !got.Equal(managerOf("app.Parent")) {
		t.Fatalf("Child.objects = %s", got)
	}
}

func TestAsManagerDefaultManagerIsAny(t *testing.T) {
	r := analyzeModels(t, installed{"app.Book": true}, appModule("app",
		bookQuerySet(),
		class("Book", bases("Model"),
			assign("objects", asManager("BookQuerySet")),
		),
		revealOf(nodes.Member(nodes.Name("Book"), "_default_manager")),
	))
	if errs := r.errors(); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if got := r.reveal(t, "Book._default_manager"); got.Kind != types.KindAny {
		t.Fatalf("Book._default_manager = %s", got)
	}
	if got := r.inferred(t, "app", "Book.objects"); !got.Equal(types.Instance("app.BookQuerySet_AsManager_Book")) {
		t.Fatalf("Book.objects = %s", got)
	}
}
