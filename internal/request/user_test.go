package request

import (
	"context"
	"errors"
	"testing"

	"ormsynth/internal/config"
	"ormsynth/internal/diag"
	"ormsynth/internal/fullnames"
	"ormsynth/internal/nodes"
	"ormsynth/internal/semanal"
	"ormsynth/internal/types"
)

func stub(name string, defs ...nodes.Stmt) *nodes.Module {
	return &nodes.Module{Fullname: name, Stub: true, Defs: defs}
}

func class(name string, base string, body ...nodes.Stmt) *nodes.ClassDef {
	def := &nodes.ClassDef{Name: name, Body: body}
	if base != "" {
		def.Bases = []types.Type{types.Unbound(base)}
	}
	return def
}

func annotated(name string, t types.Type) *nodes.Assign {
	return &nodes.Assign{Target: name, Type: t}
}

func program(userAnnotation types.Type) []*nodes.Module {
	return []*nodes.Module{
		stub("builtins", class("object", ""), class("str", "")),
		stub("django.contrib.auth.base_user", class("AbstractBaseUser", "")),
		stub("django.contrib.auth.models",
			&nodes.ImportFrom{Module: "django.contrib.auth.base_user", Names: []nodes.ImportName{{Name: "AbstractBaseUser"}}},
			class("AnonymousUser", ""),
			class("User", "AbstractBaseUser"),
		),
		stub("django.http.request",
			&nodes.ImportFrom{Module: "django.contrib.auth.base_user", Names: []nodes.ImportName{{Name: "AbstractBaseUser"}}},
			&nodes.ImportFrom{Module: "django.contrib.auth.models", Names: []nodes.ImportName{{Name: "AnonymousUser"}}},
			class("HttpRequest", "", annotated("user", userAnnotation)),
		),
		{Fullname: "views", Defs: []nodes.Stmt{
			&nodes.ImportFrom{Module: "django.http.request", Names: []nodes.ImportName{{Name: "HttpRequest"}}},
			annotated("req", types.Unbound("HttpRequest")),
			&nodes.Reveal{Expr: nodes.Member(nodes.Name("req"), "user")},
		}},
	}
}

func stockUser() types.Type {
	return types.Unbound("Union", types.Unbound("AbstractBaseUser"), types.Unbound("AnonymousUser"))
}

func revealUser(t *testing.T, mods []*nodes.Module, cfg config.DjangoConfig) types.Type {
	t.Helper()
	bag := diag.NewBag(50)
	reg := NewRegistry(cfg)
	an := semanal.New(mods, semanal.Options{
		Reporter: diag.BagReporter{Bag: bag},
		Plugins:  []semanal.Plugin{New(fullnames.HttpRequest, reg, reg)},
	})
	res := an.Run(context.Background())
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	if len(res.Reveals) != 1 {
		t.Fatalf("reveals = %+v", res.Reveals)
	}
	return res.Reveals[0].Type
}

func TestUserNarrowedToConfiguredModel(t *testing.T) {
	got := revealUser(t, program(stockUser()), config.Default().Django)
	want := types.Union(types.Instance("django.contrib.auth.models.User"), types.Instance(fullnames.AnonymousUser))
	if !got.Equal(want) {
		t.Fatalf("request.user = %s, want %s", got, want)
	}
}

func TestOverriddenUserTypeKept(t *testing.T) {
	got := revealUser(t, program(types.Unbound("AnonymousUser")), config.Default().Django)
	if !got.Equal(types.Instance(fullnames.AnonymousUser)) {
		t.Fatalf("request.user = %s", got)
	}
}

func TestUnknownUserModelFallsBack(t *testing.T) {
	cfg := config.DjangoConfig{AuthUserModel: "accounts.Member", Apps: map[string]string{}}
	got := revealUser(t, program(stockUser()), cfg)
	want := types.Union(types.Instance(fullnames.AbstractBaseUser), types.Instance(fullnames.AnonymousUser))
	if !got.Equal(want) {
		t.Fatalf("request.user = %s, want %s", got, want)
	}
}

func TestRegistryGetModel(t *testing.T) {
	reg := NewRegistry(config.DjangoConfig{Apps: map[string]string{"Auth.User": "pkg.User"}})
	if got, err := reg.GetModel("auth.user"); err != nil || got != "pkg.User" {
		t.Fatalf("GetModel = %q, %v", got, err)
	}
	if _, err := reg.GetModel("auth"); !errors.Is(err, ErrInvalidLabel) {
		t.Fatalf("expected invalid label, got %v", err)
	}
	if _, err := reg.GetModel("shop.Order"); !errors.Is(err, ErrModelNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if !reg.InstalledModel("pkg.User") || reg.InstalledModel("pkg.user") {
		t.Fatalf("InstalledModel matches class fullnames exactly")
	}
}
