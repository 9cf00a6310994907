package semanal

import (
	"fmt"

	"ormsynth/internal/diag"
	"ormsynth/internal/nodes"
	"ormsynth/internal/symbols"
	"ormsynth/internal/types"
)

func (a *Analyzer) visitStmt(stmt nodes.Stmt) {
	switch s := stmt.(type) {
	case *nodes.Import:
		a.visitImport(s)
	case *nodes.ImportFrom:
		a.visitImportFrom(s)
	case *nodes.TypeVarDef:
		a.visitTypeVar(s)
	case *nodes.ClassDef:
		a.visitClass(s)
	case *nodes.FuncDef:
		a.visitFunc(s)
	case *nodes.Assign:
		a.visitAssign(s)
	case *nodes.Reveal:
		if !a.analyzeExpr(s.Expr) {
			a.Defer()
		}
	}
}

// Unknown modules were already reported when the import graph was built.
func (a *Analyzer) visitImport(s *nodes.Import) {
	if _, ok := a.modules[s.Module]; !ok {
		return
	}
	a.AddSymbol(s.BoundName(), &symbols.SymbolNode{
		Binding:  symbols.BindGlobal,
		Node:     &symbols.ModuleRef{Fullname: s.Module},
		Imported: true,
	}, a.Globals(), s)
}

func (a *Analyzer) visitImportFrom(s *nodes.ImportFrom) {
	target, ok := a.modules[s.Module]
	if !ok {
		return
	}
	for _, n := range s.Names {
		bound := n.BoundName()
		sym, ok := target.Names.Get(n.Name)
		switch {
		case ok && sym.Node.Kind() != symbols.NodePlaceholder:
			imported := sym.Copy()
			imported.Binding = symbols.BindGlobal
			imported.Imported = true
			a.AddSymbol(bound, imported, a.Globals(), s)
		case !ok && a.modules[s.Module+"."+n.Name] != nil:
			a.AddSymbol(bound, &symbols.SymbolNode{
				Binding:  symbols.BindGlobal,
				Node:     &symbols.ModuleRef{Fullname: s.Module + "." + n.Name},
				Imported: true,
			}, a.Globals(), s)
		case !a.final && (ok || a.incomplete[s.Module]):
			a.markIncomplete(bound, s, false)
		case ok:
			a.Fail(diag.SemaUnresolvedName, s.Span, fmt.Sprintf("cannot resolve %s.%s (possible cyclic definition)", s.Module, n.Name))
		default:
			a.Fail(diag.SemaUnresolvedName, s.Span, fmt.Sprintf("module %q has no attribute %q", s.Module, n.Name))
		}
	}
}

func (a *Analyzer) visitTypeVar(s *nodes.TypeVarDef) {
	a.AddSymbol(s.Name, &symbols.SymbolNode{
		Binding: a.currentBinding(),
		Node: &symbols.Var{
			Name:      s.Name,
			Fullname:  a.qualify(s.Name),
			Type:      types.TypeVar(s.Name),
			IsTypeVar: true,
			Span:      s.Span,
		},
	}, a.CurrentTable(), s)
}

func (a *Analyzer) visitClass(s *nodes.ClassDef) {
	cls, ok := a.classes[s]
	if !ok {
		if cls = a.newClass(s); cls == nil {
			return
		}
		a.classes[s] = cls
	}

	table := a.CurrentTable()
	a.AddSymbol(s.Name, &symbols.SymbolNode{Binding: a.currentBinding(), Node: cls}, table, s)
	if bound, ok := table.Get(s.Name); !ok || bound.Node != cls {
		if _, refused := a.missing[table][s.Name]; refused {
			a.Defer()
		}
	}

	a.scope = append(a.scope, cls)
	for _, stmt := range s.Body {
		a.visitStmt(stmt)
	}
	a.scope = a.scope[:len(a.scope)-1]
	a.applyClassHooks(s, cls)
}

// applyClassHooks runs, for each plugin, the hook of the nearest ancestor
// it has one for.
func (a *Analyzer) applyClassHooks(s *nodes.ClassDef, cls *symbols.ClassSymbol) {
	for _, p := range a.plugins {
		cp, ok := p.(ClassPlugin)
		if !ok {
			continue
		}
		for _, base := range cls.MRO[1:] {
			if hook := cp.BaseClassHook(base); hook != nil {
				hook(&ClassDefContext{Def: s, Class: cls, API: a})
				break
			}
		}
	}
}

// newClass resolves the bases of s. Returns nil after marking the name
// incomplete when some base is not ready.
func (a *Analyzer) newClass(s *nodes.ClassDef) *symbols.ClassSymbol {
	var bases []types.Type
	var typeVars []string
	ready := true
	for _, b := range s.Bases {
		if b.Kind == types.KindUnbound && (b.Name == "Generic" || b.Name == "typing.Generic") {
			for _, arg := range b.Args {
				typeVars = append(typeVars, arg.Name)
			}
			continue
		}
		t, ok := a.analyzeTypeAt(b, s.Span)
		if !ok {
			ready = false
			if a.final {
				a.Fail(diag.SemaUnresolvedName, s.Span, fmt.Sprintf("cannot resolve base class %s of %q", b, s.Name))
			}
			continue
		}
		switch t.Kind {
		case types.KindInstance:
			bases = append(bases, t)
		case types.KindAny:
		default:
			a.Fail(diag.SemaUnresolvedName, s.Span, fmt.Sprintf("invalid base class %s of %q", t, s.Name))
		}
	}
	if !ready && !a.final {
		a.markIncomplete(s.Name, s, true)
		return nil
	}

	cls := symbols.NewClass(s.Name, a.cur.Fullname, bases)
	cls.Fullname = a.qualify(s.Name)
	cls.TypeVars = typeVars
	cls.Span = s.Span
	cls.MRO = a.computeMRO(cls)
	return cls
}

func (a *Analyzer) visitFunc(s *nodes.FuncDef) {
	fn, ok := a.funcs[s]
	if !ok {
		owner := ""
		if cls := a.EnclosingClass(); cls != nil {
			owner = cls.Fullname
		}
		names := make([]string, len(s.Params))
		for i, p := range s.Params {
			names[i] = p.Name
		}
		fn = &symbols.FuncSymbol{
			Name:       s.Name,
			Fullname:   a.qualify(s.Name),
			Owner:      owner,
			ParamNames: names,
			Decorated:  len(s.Decorators) > 0,
			ClassLevel: s.HasDecorator("classmethod"),
			Span:       s.Span,
		}
		a.funcs[s] = fn
	}
	if !fn.Analyzed {
		a.analyzeSignature(fn, s)
	}
	a.AddSymbol(s.Name, &symbols.SymbolNode{Binding: a.currentBinding(), Node: fn}, a.CurrentTable(), s)
}

func (a *Analyzer) analyzeSignature(fn *symbols.FuncSymbol, s *nodes.FuncDef) {
	if !s.IsAnnotated() {
		fn.Analyzed = true
		return
	}
	cls := a.EnclosingClass()
	sig := &types.Signature{Params: make([]types.Param, 0, len(s.Params))}
	ready := true
	for i, p := range s.Params {
		t := p.Type
		switch {
		case t.IsValid():
			var ok bool
			t, ok = a.analyzeTypeAt(t, s.Span)
			ready = ready && ok
		case i == 0 && cls != nil && !s.HasDecorator("staticmethod"):
			t = cls.InstanceType()
			if fn.ClassLevel {
				t = types.ClassRef(t)
			}
		default:
			t = types.Any(types.AnyUnannotated)
		}
		sig.Params = append(sig.Params, types.Param{Name: p.Name, Type: t, Kind: p.Kind})
	}
	sig.Result = types.Any(types.AnyUnannotated)
	if s.Returns.IsValid() {
		res, ok := a.analyzeTypeAt(s.Returns, s.Span)
		ready = ready && ok
		sig.Result = res
	}
	if !ready {
		if !a.final {
			a.Defer()
			return
		}
		a.Fail(diag.SemaUnresolvedName, s.Span, fmt.Sprintf("cannot resolve the signature of %s", fn.Fullname))
		sig = eraseUnbound(sig)
	}
	var classVars []string
	if cls != nil {
		classVars = cls.TypeVars
	}
	sig.TypeVars = typeVarsOf(sig, classVars)
	fn.Sig = sig
	fn.Analyzed = true
}

func eraseUnbound(sig *types.Signature) *types.Signature {
	erase := func(t types.Type) types.Type {
		return types.Map(t, func(n types.Type) (types.Type, bool) {
			if n.Kind == types.KindUnbound {
				return types.Any(types.AnyFromError), true
			}
			return n, false
		})
	}
	out := sig.Clone()
	for i := range out.Params {
		out.Params[i].Type = erase(out.Params[i].Type)
	}
	out.Result = erase(out.Result)
	return out
}

func (a *Analyzer) visitAssign(s *nodes.Assign) {
	table := a.CurrentTable()
	if call, ok := s.Value.(*nodes.CallExpr); ok {
		if hook := a.dynamicClassHook(call); hook != nil {
			outer := a.deferred
			a.deferred = false
			hook(&DynamicClassContext{Call: call, Name: s.Target, API: a})
			deferred := a.deferred
			a.deferred = outer || deferred
			if deferred {
				a.markIncomplete(s.Target, s, false)
				return
			}
			if sym, ok := table.Get(s.Target); ok && sym.Generated {
				return
			}
		} else if !a.analyzeExpr(call) {
			a.markIncomplete(s.Target, s, false)
			return
		}
	} else if s.Value != nil && !a.analyzeExpr(s.Value) {
		a.markIncomplete(s.Target, s, false)
		return
	}

	v, ok := a.vars[s]
	if !ok {
		v = &symbols.Var{Name: s.Target, Fullname: a.qualify(s.Target), Span: s.Span}
		a.vars[s] = v
	}
	if s.Type.IsValid() && !v.Type.IsValid() {
		t, ready := a.analyzeTypeAt(s.Type, s.Span)
		if !ready {
			if !a.final {
				a.markIncomplete(s.Target, s, false)
				return
			}
			a.Fail(diag.SemaUnresolvedName, s.Span, fmt.Sprintf("cannot resolve the declared type of %q", s.Target))
			t = types.Any(types.AnyFromError)
		}
		v.Type = t
	}
	a.AddSymbol(s.Target, &symbols.SymbolNode{Binding: a.currentBinding(), Node: v}, table, s)
}

// analyzeExpr resolves the names an expression refers to. Returns false
// when some name may still be defined later.
func (a *Analyzer) analyzeExpr(e nodes.Expr) bool {
	switch x := e.(type) {
	case *nodes.NameExpr:
		_, state := a.Lookup(x.Name)
		switch state {
		case symbols.LookupPlaceholder:
			if !a.final {
				return false
			}
			a.Fail(diag.SemaUnresolvedName, x.Span, fmt.Sprintf("cannot resolve name %q (possible cyclic definition)", x.Name))
		case symbols.LookupNotFound:
			a.Fail(diag.SemaUnresolvedName, x.Span, fmt.Sprintf("name %q is not defined", x.Name))
		}
		return true
	case *nodes.MemberExpr:
		return a.analyzeExpr(x.Expr)
	case *nodes.CallExpr:
		ready := a.analyzeExpr(x.Callee)
		for _, arg := range x.Args {
			ready = a.analyzeExpr(arg) && ready
		}
		return ready
	default:
		return true
	}
}

// dynamicClassHook finds a plugin hook for Target = <owner>.<method>(...).
// The owner may still be a placeholder; the hook decides what that means.
func (a *Analyzer) dynamicClassHook(call *nodes.CallExpr) DynamicClassHook {
	member, ok := call.Callee.(*nodes.MemberExpr)
	if !ok {
		return nil
	}
	head, ok := nodes.DottedName(member.Expr)
	if !ok {
		return nil
	}
	sym, state := a.LookupQualified(head)
	var owner string
	switch {
	case state == symbols.LookupNotFound:
		return nil
	case sym != nil:
		owner = sym.Fullname()
	default:
		owner = a.cur.Fullname + "." + head
	}
	fullname := owner + "." + member.Name
	for _, p := range a.plugins {
		if hook := p.DynamicClassHook(fullname); hook != nil {
			return hook
		}
	}
	return nil
}
