package semanal

import (
	"fmt"

	"ormsynth/internal/diag"
	"ormsynth/internal/fullnames"
	"ormsynth/internal/nodes"
	"ormsynth/internal/symbols"
	"ormsynth/internal/trace"
	"ormsynth/internal/types"
)

// check infers the type of every assignment and reveal, giving plugins a
// say on method calls and attribute reads.
func (a *Analyzer) check(parent uint64) {
	span := trace.Begin(a.tracer, trace.ScopePass, "check", parent)
	defer span.End("")
	for _, def := range a.defs {
		a.cur = a.byDef[def]
		a.scope = a.scope[:0]
		mspan := trace.Begin(a.tracer, trace.ScopeModule, def.Fullname, span.ID())
		a.moduleSpan = mspan.ID()
		for _, stmt := range def.Defs {
			a.checkStmt(stmt)
		}
		a.flush(true)
		mspan.End("")
	}
	a.cur = nil
}

func (a *Analyzer) checkStmt(stmt nodes.Stmt) {
	switch s := stmt.(type) {
	case *nodes.ClassDef:
		cls, ok := a.classes[s]
		if !ok {
			return
		}
		a.scope = append(a.scope, cls)
		for _, inner := range s.Body {
			a.checkStmt(inner)
		}
		a.scope = a.scope[:len(a.scope)-1]
	case *nodes.Assign:
		if s.Value == nil {
			return
		}
		t := a.infer(s.Value).typ
		if v, ok := a.vars[s]; ok && !s.Type.IsValid() {
			v.Type = t
		}
		name := s.Target
		if cls := a.EnclosingClass(); cls != nil {
			name = cls.Name + "." + name
		}
		a.result.Inferred = append(a.result.Inferred, Inferred{Module: a.cur.Fullname, Name: name, Type: t, Span: s.Span})
	case *nodes.Reveal:
		t := a.infer(s.Expr).typ
		a.result.Reveals = append(a.result.Reveals, Inferred{Module: a.cur.Fullname, Name: nodes.String(s.Expr), Type: t, Span: s.Span})
		a.report(diag.New(diag.SevInfo, diag.SemaRevealType, s.Span, fmt.Sprintf("Revealed type is %q", t.String())))
	}
}

// inferred carries the type of an expression and, for bound methods, what
// the method hook needs.
type inferred struct {
	typ      types.Type
	method   string // fullname of the declaring method
	receiver types.Type
}

func (a *Analyzer) infer(e nodes.Expr) inferred {
	switch x := e.(type) {
	case *nodes.StrExpr:
		return inferred{typ: types.Instance(fullnames.Str)}
	case *nodes.NameExpr:
		sym, state := a.Lookup(x.Name)
		if state != symbols.LookupFound {
			return inferred{typ: types.Any(types.AnyFromError)}
		}
		return inferred{typ: a.typeOfNode(sym.Node)}
	case *nodes.MemberExpr:
		if dotted, ok := nodes.DottedName(x.Expr); ok {
			if sym, state := a.Lookup(firstPart(dotted)); state == symbols.LookupFound && sym.Node.Kind() == symbols.NodeModule {
				full, state := a.LookupQualified(dotted + "." + x.Name)
				if state != symbols.LookupFound {
					return inferred{typ: types.Any(types.AnyFromError)}
				}
				return inferred{typ: a.typeOfNode(full.Node)}
			}
		}
		return a.memberType(a.infer(x.Expr).typ, x)
	case *nodes.CallExpr:
		return inferred{typ: a.inferCall(x)}
	default:
		return inferred{typ: types.Any(types.AnyFromError)}
	}
}

func firstPart(dotted string) string {
	for i := 0; i < len(dotted); i++ {
		if dotted[i] == '.' {
			return dotted[:i]
		}
	}
	return dotted
}

func (a *Analyzer) inferCall(call *nodes.CallExpr) types.Type {
	callee := a.infer(call.Callee)
	argTypes := make([]types.Type, len(call.Args))
	for i, arg := range call.Args {
		argTypes[i] = a.infer(arg).typ
	}

	var result types.Type
	switch callee.typ.Kind {
	case types.KindClassRef:
		result = callee.typ.Args[0]
	case types.KindCallable:
		result = callee.typ.Sig.Result
	case types.KindAny:
		result = callee.typ
	default:
		result = types.Any(types.AnyFromError)
	}
	if callee.method == "" {
		return result
	}
	for _, p := range a.plugins {
		if hook := p.MethodHook(callee.method); hook != nil {
			return hook(&MethodContext{
				Call:     call,
				Receiver: callee.receiver,
				Callee:   callee.typ,
				ArgTypes: argTypes,
				Default:  result,
				API:      a,
			})
		}
	}
	return result
}

func (a *Analyzer) typeOfNode(node symbols.Node) types.Type {
	switch n := node.(type) {
	case *symbols.ClassSymbol:
		return types.ClassRef(types.Instance(n.Fullname))
	case *symbols.Var:
		if n.IsTypeVar || !n.Type.IsValid() {
			return types.Any(types.AnyUnannotated)
		}
		return n.Type
	case *symbols.FuncSymbol:
		return types.Callable(signatureOf(n))
	default:
		return types.Any(types.AnySpecialForm)
	}
}

// signatureOf returns fn's signature, typing everything Any when the
// function is unannotated.
func signatureOf(fn *symbols.FuncSymbol) *types.Signature {
	if fn.Sig != nil {
		return fn.Sig
	}
	sig := &types.Signature{Result: types.Any(types.AnyUnannotated)}
	for _, name := range fn.ParamNames {
		sig.Params = append(sig.Params, types.Param{Name: name, Type: types.Any(types.AnyUnannotated)})
	}
	return sig
}

// memberType types the attribute read base.Name.
func (a *Analyzer) memberType(base types.Type, x *nodes.MemberExpr) inferred {
	switch base.Kind {
	case types.KindAny:
		return inferred{typ: base}
	case types.KindUnion:
		items := make([]types.Type, len(base.Args))
		for i, item := range base.Args {
			items[i] = a.memberType(item, x).typ
		}
		return inferred{typ: types.Union(items...)}
	case types.KindClassRef, types.KindInstance:
	default:
		return inferred{typ: types.Any(types.AnyFromError)}
	}

	inst := base
	if base.Kind == types.KindClassRef {
		inst = base.Args[0]
	}
	cls, ok := a.LookupClass(inst.Name)
	if !ok {
		return inferred{typ: types.Any(types.AnyFromError)}
	}
	sym, owner := a.findMember(cls, x.Name)
	if sym == nil {
		a.Fail(diag.SemaUnresolvedName, x.Span, fmt.Sprintf("%s has no attribute %q", base, x.Name))
		return inferred{typ: types.Any(types.AnyFromError)}
	}

	switch node := sym.Node.(type) {
	case *symbols.FuncSymbol:
		if base.Kind == types.KindClassRef && !node.ClassLevel {
			return inferred{typ: types.Callable(signatureOf(node))}
		}
		receiver := base
		if node.ClassLevel && base.Kind == types.KindInstance {
			receiver = types.ClassRef(base)
		}
		return inferred{
			typ:      types.Callable(a.bind(signatureOf(node), owner, receiver)),
			method:   node.Fullname,
			receiver: base,
		}
	case *symbols.Var:
		t := a.typeOfNode(node)
		if sup, ok := a.mapToSupertype(inst, owner.Fullname); ok {
			t = types.Substitute(t, typeVarEnv(owner, sup.Args))
		}
		if base.Kind != types.KindInstance {
			return inferred{typ: t}
		}
		fullname := owner.Fullname + "." + x.Name
		for _, p := range a.plugins {
			if hook := p.AttributeHook(fullname); hook != nil {
				t = hook(&AttributeContext{Expr: x, Receiver: base, Default: t, API: a})
				break
			}
		}
		return inferred{typ: t}
	default:
		return inferred{typ: a.typeOfNode(node)}
	}
}

// findMember returns the member and the class along the MRO that declares it.
func (a *Analyzer) findMember(cls *symbols.ClassSymbol, name string) (*symbols.SymbolNode, *symbols.ClassSymbol) {
	for _, fullname := range cls.MRO {
		owner := cls
		if fullname != cls.Fullname {
			var ok bool
			if owner, ok = a.LookupClass(fullname); !ok {
				continue
			}
		}
		if sym, ok := owner.Names.Get(name); ok && sym.Node.Kind() != symbols.NodePlaceholder {
			return sym, owner
		}
	}
	return nil, nil
}

// bind drops the receiver of sig, solving the class type variables of owner
// and a self-typed receiver variable from receiver.
func (a *Analyzer) bind(sig *types.Signature, owner *symbols.ClassSymbol, receiver types.Type) *types.Signature {
	inst := receiver
	if inst.Kind == types.KindClassRef {
		inst = inst.Args[0]
	}
	env := map[string]types.Type{}
	if sup, ok := a.mapToSupertype(inst, owner.Fullname); ok {
		env = typeVarEnv(owner, sup.Args)
	}
	if len(sig.Params) == 0 {
		return &types.Signature{Result: types.Substitute(sig.Result, env)}
	}
	unify(sig.Params[0].Type, receiver, env)
	out := &types.Signature{Params: make([]types.Param, 0, len(sig.Params)-1)}
	for _, p := range sig.Params[1:] {
		p.Type = types.Substitute(p.Type, env)
		out.Params = append(out.Params, p)
	}
	out.Result = types.Substitute(sig.Result, env)
	for _, v := range sig.TypeVars {
		if _, solved := env[v]; !solved {
			out.TypeVars = append(out.TypeVars, v)
		}
	}
	return out
}

func unify(declared, actual types.Type, env map[string]types.Type) {
	switch declared.Kind {
	case types.KindTypeVar:
		if _, ok := env[declared.Name]; !ok {
			env[declared.Name] = actual
		}
	case types.KindClassRef:
		if actual.Kind == types.KindClassRef {
			unify(declared.Args[0], actual.Args[0], env)
		}
	case types.KindInstance:
		if actual.Kind == types.KindInstance && actual.Name == declared.Name {
			for i := range min(len(declared.Args), len(actual.Args)) {
				unify(declared.Args[i], actual.Args[i], env)
			}
		}
	}
}

// mapToSupertype views inst as an instance of target, following bases.
func (a *Analyzer) mapToSupertype(inst types.Type, target string) (types.Type, bool) {
	if inst.Kind != types.KindInstance {
		return types.Type{}, false
	}
	if inst.Name == target {
		return inst, true
	}
	cls, ok := a.LookupClass(inst.Name)
	if !ok {
		return types.Type{}, false
	}
	env := typeVarEnv(cls, inst.Args)
	for _, b := range cls.Bases {
		if sup, ok := a.mapToSupertype(types.Substitute(b, env), target); ok {
			return sup, true
		}
	}
	return types.Type{}, false
}

func typeVarEnv(cls *symbols.ClassSymbol, args []types.Type) map[string]types.Type {
	env := make(map[string]types.Type, len(cls.TypeVars))
	for i, v := range cls.TypeVars {
		if i < len(args) {
			env[v] = args[i]
		} else {
			env[v] = types.Any(types.AnySpecialForm)
		}
	}
	return env
}
