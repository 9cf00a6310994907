package types

// Map rebuilds t top-down. fn is called on each node first; when it reports
// true the node is substituted and not descended into.
func Map(t Type, fn func(Type) (Type, bool)) Type {
	if repl, ok := fn(t); ok {
		return repl
	}
	if len(t.Args) > 0 {
		args := make([]Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = Map(a, fn)
		}
		t.Args = args
	}
	if t.Kind == KindCallable && t.Sig != nil {
		sig := t.Sig.Clone()
		for i := range sig.Params {
			sig.Params[i].Type = Map(sig.Params[i].Type, fn)
		}
		sig.Result = Map(sig.Result, fn)
		t.Sig = sig
	}
	return t
}

// Substitute replaces type variables by name.
func Substitute(t Type, env map[string]Type) Type {
	if len(env) == 0 {
		return t
	}
	return Map(t, func(n Type) (Type, bool) {
		if n.Kind != KindTypeVar {
			return n, false
		}
		repl, ok := env[n.Name]
		return repl, ok
	})
}

// Walk visits every node of t in pre-order.
func Walk(t Type, visit func(Type)) {
	Map(t, func(n Type) (Type, bool) {
		visit(n)
		return n, false
	})
}
