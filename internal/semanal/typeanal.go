package semanal

import (
	"fmt"
	"slices"

	"ormsynth/internal/diag"
	"ormsynth/internal/source"
	"ormsynth/internal/symbols"
	"ormsynth/internal/types"
)

// AnalyzeType resolves every unbound name in t. It never defers on its own;
// callers decide what an unready type means for them.
func (a *Analyzer) AnalyzeType(t types.Type) (types.Type, bool) {
	return a.analyzeTypeAt(t, source.Span{})
}

func (a *Analyzer) analyzeTypeAt(t types.Type, at source.Span) (types.Type, bool) {
	ready := true
	out := types.Map(t, func(n types.Type) (types.Type, bool) {
		if n.Kind != types.KindUnbound {
			return n, false
		}
		res, ok := a.analyzeUnbound(n, at)
		ready = ready && ok
		return res, true
	})
	return out, ready
}

func (a *Analyzer) analyzeUnbound(n types.Type, at source.Span) (types.Type, bool) {
	args := make([]types.Type, len(n.Args))
	ready := true
	for i, arg := range n.Args {
		res, ok := a.analyzeTypeAt(arg, at)
		args[i] = res
		ready = ready && ok
	}

	switch n.Name {
	case "Any", "typing.Any":
		return types.Any(types.AnyExplicit), ready
	case "None":
		return types.None(), ready
	case "Union", "typing.Union":
		return types.Union(args...), ready
	case "Optional", "typing.Optional":
		if len(args) != 1 {
			a.Fail(diag.SemaUnresolvedName, at, "Optional[...] takes exactly one argument")
			return types.Any(types.AnyFromError), ready
		}
		return types.Union(args[0], types.None()), ready
	case "Type", "typing.Type":
		if len(args) != 1 {
			a.Fail(diag.SemaUnresolvedName, at, "Type[...] takes exactly one argument")
			return types.Any(types.AnyFromError), ready
		}
		return types.ClassRef(args[0]), ready
	}
	if cls := a.EnclosingClass(); cls != nil && len(args) == 0 && slices.Contains(cls.TypeVars, n.Name) {
		return types.TypeVar(n.Name), ready
	}

	sym, state := a.LookupQualified(n.Name)
	switch state {
	case symbols.LookupPlaceholder:
		return n, false
	case symbols.LookupNotFound:
		a.Fail(diag.SemaUnresolvedName, at, fmt.Sprintf("name %q is not defined", n.Name))
		return types.Any(types.AnyFromError), ready
	}
	switch node := sym.Node.(type) {
	case *symbols.ClassSymbol:
		if len(args) == 0 && len(node.TypeVars) > 0 {
			args = make([]types.Type, len(node.TypeVars))
			for i := range args {
				args[i] = types.Any(types.AnySpecialForm)
			}
		}
		return types.Instance(node.Fullname, args...), ready
	case *symbols.Var:
		if node.IsTypeVar {
			return types.TypeVar(node.Name), ready
		}
	}
	a.Fail(diag.SemaUnresolvedName, at, fmt.Sprintf("%s %q is not valid as a type", sym.Node.Kind(), n.Name))
	return types.Any(types.AnyFromError), ready
}

// typeVarsOf lists type variables referenced by sig that the class does not
// bind, in first-seen order.
func typeVarsOf(sig *types.Signature, classVars []string) []string {
	var out []string
	visit := func(t types.Type) {
		types.Walk(t, func(n types.Type) {
			if n.Kind == types.KindTypeVar && !slices.Contains(classVars, n.Name) && !slices.Contains(out, n.Name) {
				out = append(out, n.Name)
			}
		})
	}
	for _, p := range sig.Params {
		visit(p.Type)
	}
	visit(sig.Result)
	return out
}
