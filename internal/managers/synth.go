package managers

import (
	"fmt"

	"ormsynth/internal/fullnames"
	"ormsynth/internal/semanal"
	"ormsynth/internal/symbols"
	"ormsynth/internal/types"
)

// Synthesize builds the generated class for site without touching any
// symbol table. The same site always yields the same fullname and the same
// method set.
func Synthesize(api semanal.SemanticAPI, names fullnames.Names, site *CallSite) Outcome {
	param := types.Any(types.AnyExplicit)
	if site.Model != nil {
		param = site.Model.InstanceType()
	}
	cls := symbols.NewClass(site.ClassName(), api.CurrentModule().Fullname, []types.Type{
		types.Instance(site.Base.Fullname, param),
	})
	cls.MRO = append([]string{cls.Fullname}, site.Base.MRO...)
	cls.Generated = true
	cls.Span = site.Call.Span

	methods, owners, err := customMethods(api, names, site.QuerySet)
	if err != nil {
		return outcomeOf(api, err)
	}
	self := cls.InstanceType()
	for _, m := range methods {
		sig, err := instantiate(api, m.fn, self, owners)
		if err != nil {
			return outcomeOf(api, err)
		}
		cls.Names.Set(m.name, &symbols.SymbolNode{
			Binding:   symbols.BindMember,
			Generated: true,
			Node: &symbols.FuncSymbol{
				Name:       m.name,
				Fullname:   cls.Fullname + "." + m.name,
				Owner:      cls.Fullname,
				Sig:        sig,
				ParamNames: m.fn.ParamNames,
				Analyzed:   true,
				Span:       m.fn.Span,
			},
		})
	}
	return Outcome{Kind: OutcomeSuccess, Class: cls}
}

type method struct {
	name string
	fn   *symbols.FuncSymbol
}

// customMethods walks the queryset MRO up to the ORM's own QuerySet and
// collects undecorated methods, the most derived definition winning. owners
// lists the walked classes.
func customMethods(api semanal.SemanticAPI, names fullnames.Names, qs *symbols.ClassSymbol) ([]method, []string, error) {
	var out []method
	var owners []string
	seen := make(map[string]struct{})
	for _, fullname := range qs.MRO {
		if fullname == names.QuerySet || fullname == fullnames.Builtins+".object" {
			break
		}
		owner := qs
		if fullname != qs.Fullname {
			var err error
			if owner, err = resolveClass(api.LookupFullyQualified, fullname); err != nil {
				return nil, nil, err
			}
		}
		owners = append(owners, owner.Fullname)
		for _, name := range owner.Names.Names() {
			if _, done := seen[name]; done {
				continue
			}
			sym, _ := owner.Names.Get(name)
			if sym.Node.Kind() == symbols.NodePlaceholder {
				return nil, nil, fmt.Errorf("%w: %s.%s is not analyzed yet", ErrIncompleteDefinition, owner.Fullname, name)
			}
			seen[name] = struct{}{}
			fn, ok := sym.Node.(*symbols.FuncSymbol)
			if !ok || fn.Decorated {
				continue
			}
			out = append(out, method{name: name, fn: fn})
		}
	}
	return out, owners, nil
}

// instantiate rebinds the method template to self. Unannotated methods are
// copied only in the final iteration, typed Any throughout.
func instantiate(api semanal.SemanticAPI, fn *symbols.FuncSymbol, self types.Type, owners []string) (*types.Signature, error) {
	if !fn.Analyzed || (fn.Sig != nil && !fn.Sig.IsReady()) {
		return nil, fmt.Errorf("%w: signature of %s is not ready", ErrIncompleteDefinition, fn.Fullname)
	}
	if fn.Sig == nil {
		if !api.FinalIteration() {
			return nil, fmt.Errorf("%w: unannotated method %s", ErrIncompleteDefinition, fn.Fullname)
		}
		return unannotatedSignature(fn, self), nil
	}
	return fn.Sig.Rebind(self, owners...), nil
}

func unannotatedSignature(fn *symbols.FuncSymbol, self types.Type) *types.Signature {
	sig := &types.Signature{Result: types.Any(types.AnyUnannotated)}
	for i, name := range fn.ParamNames {
		t := types.Any(types.AnyUnannotated)
		if i == 0 {
			t = self
		}
		sig.Params = append(sig.Params, types.Param{Name: name, Type: t})
	}
	if len(sig.Params) == 0 {
		sig.Params = []types.Param{{Name: "self", Type: self}}
	}
	return sig
}
