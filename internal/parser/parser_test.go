package parser

import (
	"testing"

	"ormsynth/internal/diag"
	"ormsynth/internal/nodes"
	"ormsynth/internal/source"
	"ormsynth/internal/types"
)

func TestParseTypeForms(t *testing.T) {
	cases := map[string]types.Type{
		"str":                         types.Unbound("str"),
		"models.Manager[Book]":        types.Unbound("models.Manager", types.Unbound("Book")),
		"Type[_QS]":                   types.Unbound("Type", types.Unbound("_QS")),
		`"BookQuerySet"`:              types.Unbound("BookQuerySet"),
		"User | AnonymousUser":        types.Unbound("Union", types.Unbound("User"), types.Unbound("AnonymousUser")),
		"Dict[str, Optional['Book']]": types.Unbound("Dict", types.Unbound("str"), types.Unbound("Optional", types.Unbound("Book"))),
	}
	for src, want := range cases {
		got, ok := ParseType(src, source.Span{}, Options{})
		if !ok || !got.Equal(want) {
			t.Fatalf("ParseType(%q) = %s, %v; want %s", src, got, ok, want)
		}
	}
}

func TestParseTypeReportsTrailingTokens(t *testing.T) {
	bag := diag.NewBag(10)
	if _, ok := ParseType("List[str]]", source.Span{File: 1, Line: 2, Col: 5}, Options{Reporter: diag.BagReporter{Bag: bag}}); ok {
		t.Fatalf("expected failure")
	}
	items := bag.Items()
	if len(items) != 1 || items[0].Code != diag.SynUnexpectedToken || items[0].Primary.Col != 14 {
		t.Fatalf("diagnostics = %+v", items)
	}
}

func TestParseExprCall(t *testing.T) {
	e, ok := ParseExpr(`models.Manager.from_queryset(BookQuerySet, class_name="Books")`, source.Span{File: 1, Line: 1, Col: 1}, Options{})
	if !ok {
		t.Fatalf("parse failed")
	}
	call, isCall := e.(*nodes.CallExpr)
	if !isCall {
		t.Fatalf("got %T", e)
	}
	if dotted, _ := nodes.DottedName(call.Callee); dotted != "models.Manager.from_queryset" {
		t.Fatalf("callee = %s", dotted)
	}
	if len(call.Positional()) != 1 {
		t.Fatalf("positional = %v", call.Positional())
	}
	kw, ok := call.Keyword("class_name")
	if str, isStr := kw.(*nodes.StrExpr); !ok || !isStr || str.Value != "Books" {
		t.Fatalf("class_name = %#v", kw)
	}
}

func TestParseExprNoArgs(t *testing.T) {
	e, ok := ParseExpr("BookQuerySet.as_manager()", source.Span{}, Options{})
	call, isCall := e.(*nodes.CallExpr)
	if !ok || !isCall || len(call.Args) != 0 {
		t.Fatalf("got %#v", e)
	}
}

func TestParseExprErrors(t *testing.T) {
	for _, src := range []string{"", "a.(", "f(a,", "a b"} {
		if _, ok := ParseExpr(src, source.Span{}, Options{}); ok {
			t.Fatalf("ParseExpr(%q) must fail", src)
		}
	}
}

func TestParseParam(t *testing.T) {
	cases := []struct {
		src  string
		want nodes.Param
	}{
		{"self", nodes.Param{Name: "self"}},
		{"cls: Type[_QS]", nodes.Param{Name: "cls", Type: types.Unbound("Type", types.Unbound("_QS"))}},
		{"class_name: str = ...", nodes.Param{Name: "class_name", Type: types.Unbound("str"), Kind: types.ArgOptional}},
		{"*args", nodes.Param{Name: "args", Kind: types.ArgStar}},
		{"**kwargs: Any", nodes.Param{Name: "kwargs", Type: types.Unbound("Any"), Kind: types.ArgStar2}},
		{"*", nodes.Param{Kind: types.ArgStar}},
	}
	for _, tc := range cases {
		got, ok := ParseParam(tc.src, source.Span{}, Options{})
		if !ok || got.Name != tc.want.Name || got.Kind != tc.want.Kind || got.Type.IsValid() != tc.want.Type.IsValid() ||
			(got.Type.IsValid() && !got.Type.Equal(tc.want.Type)) {
			t.Fatalf("ParseParam(%q) = %+v, want %+v", tc.src, got, tc.want)
		}
	}
}

func TestParseImportName(t *testing.T) {
	got, ok := ParseImportName("Manager as M", source.Span{}, Options{})
	if !ok || got.Name != "Manager" || got.Alias != "M" {
		t.Fatalf("got %+v", got)
	}
	if _, ok := ParseImportName("Manager as", source.Span{}, Options{}); ok {
		t.Fatalf("dangling alias must fail")
	}
}
