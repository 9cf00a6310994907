package types

import "testing"

func TestUnionFlattensAndDedups(t *testing.T) {
	user := Instance("django.contrib.auth.models.User")
	anon := Instance("django.contrib.auth.models.AnonymousUser")
	u := Union(user, Union(anon, user))
	if u.Kind != KindUnion || len(u.Args) != 2 {
		t.Fatalf("expected 2-member union, got %s", u)
	}
	if got := Union(user); !got.Equal(user) {
		t.Fatalf("single-member union must collapse, got %s", got)
	}
	if got := u.String(); got != "django.contrib.auth.models.User | django.contrib.auth.models.AnonymousUser" {
		t.Fatalf("unexpected string %q", got)
	}
}

func TestIsReady(t *testing.T) {
	ready := Instance("app.Q", Any(AnyExplicit))
	if !ready.IsReady() {
		t.Fatalf("expected %s to be ready", ready)
	}
	pending := Instance("app.Q", Unbound("Model"))
	if pending.IsReady() {
		t.Fatalf("expected %s not to be ready", pending)
	}
	sig := &Signature{Params: []Param{{Name: "self", Type: ready}}, Result: Unbound("Q")}
	if sig.IsReady() {
		t.Fatalf("signature with unbound result must not be ready")
	}
}

func TestRebindRetargetsReceiverAndResult(t *testing.T) {
	q := Instance("app.models.Q")
	sig := &Signature{
		Params: []Param{
			{Name: "self", Type: q},
			{Name: "other", Type: q},
		},
		Result: q,
	}
	self := Instance("app.models.MFromQ", Any(AnyExplicit))
	got := sig.Rebind(self, "app.models.Q")

	if !got.Params[0].Type.Equal(self) {
		t.Fatalf("receiver not rebound: %s", got)
	}
	if !got.Result.Equal(self) {
		t.Fatalf("result not rebound: %s", got)
	}
	if !got.Params[1].Type.Equal(q) {
		t.Fatalf("non-receiver params must be untouched: %s", got)
	}
	if !sig.Params[0].Type.Equal(q) {
		t.Fatalf("Rebind must not mutate the template")
	}
}

func TestRebindSelfTypeVar(t *testing.T) {
	sig := &Signature{
		Params:   []Param{{Name: "self", Type: TypeVar("_QS")}},
		Result:   Instance("builtins.list", TypeVar("_QS")),
		TypeVars: []string{"_QS"},
	}
	self := Instance("app.M")
	got := sig.Rebind(self)
	if want := "def (self: app.M) -> builtins.list[app.M]"; got.String() != want {
		t.Fatalf("got %q, want %q", got.String(), want)
	}
	if len(got.TypeVars) != 0 {
		t.Fatalf("self type variable must be consumed, got %v", got.TypeVars)
	}
}

func TestSubstitute(t *testing.T) {
	base := Instance("django.db.models.manager.Manager", TypeVar("_T"))
	got := Substitute(base, map[string]Type{"_T": Instance("app.models.Book")})
	if got.String() != "django.db.models.manager.Manager[app.models.Book]" {
		t.Fatalf("unexpected substitution %s", got)
	}
}
