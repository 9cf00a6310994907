package managers

import (
	"fmt"

	"ormsynth/internal/nodes"
	"ormsynth/internal/semanal"
	"ormsynth/internal/symbols"
	"ormsynth/internal/types"
)

// Models reports which model classes the app registry installs. Only
// installed models get default and model-bound managers.
type Models interface {
	InstalledModel(fullname string) bool
}

const (
	defaultManagerAttr = "objects"
	defaultManagerRef  = "_default_manager"

	// ModelMetadataNamespace holds what the plugin decided about a model.
	ModelMetadataNamespace = "django_model"
	// DefaultManagerKey names the model's default manager attribute.
	DefaultManagerKey = "default_manager"
)

// SetModels enables the model transforms for the models m installs.
func (p *Plugin) SetModels(m Models) { p.models = m }

// BaseClassHook selects the model transforms for subclasses of Model.
func (p *Plugin) BaseClassHook(fullname string) semanal.ClassHook {
	if fullname != p.names.Model || p.models == nil {
		return nil
	}
	return p.initModel
}

// managerDecl is "attr = <manager>" in a model body. class is nil when the
// manager comes from from_queryset or as_manager; the call hooks type those.
type managerDecl struct {
	attr  string
	class *symbols.ClassSymbol
	at    *nodes.Assign
}

// initModel gives an installed model the managers the ORM attaches at
// runtime:
//   - no declared manager and none inherited: objects: Manager[Model];
//   - a declared manager whose base is an unparametrized Manager: a
//     <Model>_<Manager> subclass bound to the model replaces the attribute;
//   - _default_manager typed as the first manager.
func (p *Plugin) initModel(ctx *semanal.ClassDefContext) {
	api, model := ctx.API, ctx.Class
	if !p.models.InstalledModel(model.Fullname) {
		return
	}
	decls, err := p.declaredManagers(api, ctx.Def)
	if err != nil {
		api.Trace("defer", model.Fullname+": "+err.Error())
		api.Defer()
		return
	}

	var first types.Type
	switch {
	case len(decls) > 0:
		for i, d := range decls {
			t, ok := p.bindManager(ctx, d)
			if !ok {
				return
			}
			if i == 0 {
				first = t
			}
		}
		p.markDefault(model, decls[0].attr)
	case p.inheritsManagers(api, model):
		return
	default:
		first = types.Instance(p.names.Manager, model.InstanceType())
		if _, ok := model.Names.Get(defaultManagerAttr); !ok {
			setAttr(api, model, defaultManagerAttr, first)
		}
		p.markDefault(model, defaultManagerAttr)
	}

	if sym, ok := model.Names.Get(defaultManagerRef); !ok || sym.Generated {
		setAttr(api, model, defaultManagerRef, first)
	}
}

// declaredManagers lists manager assignments of the class body in source
// order. Outside the final iteration a manager class that is not analyzed
// yet is an error; in the final one it is skipped.
func (p *Plugin) declaredManagers(api semanal.SemanticAPI, def *nodes.ClassDef) ([]managerDecl, error) {
	var out []managerDecl
	for _, stmt := range def.Body {
		as, ok := stmt.(*nodes.Assign)
		if !ok {
			continue
		}
		call, ok := as.Value.(*nodes.CallExpr)
		if !ok {
			continue
		}
		switch callee := call.Callee.(type) {
		case *nodes.CallExpr:
			// M.from_queryset(Q)()
			if m, ok := callee.Callee.(*nodes.MemberExpr); ok && m.Name == fromQuerysetMethod {
				out = append(out, managerDecl{attr: as.Target, at: as})
			}
			continue
		case *nodes.MemberExpr:
			if callee.Name == asManagerMethod {
				out = append(out, managerDecl{attr: as.Target, at: as})
				continue
			}
		}
		name, ok := nodes.DottedName(call.Callee)
		if !ok {
			continue
		}
		sym, state := api.LookupQualified(name)
		switch state {
		case symbols.LookupPlaceholder:
			if !api.FinalIteration() {
				return nil, fmt.Errorf("%w: %s is not analyzed yet", ErrIncompleteDefinition, name)
			}
		case symbols.LookupFound:
			if cls, ok := sym.Node.(*symbols.ClassSymbol); ok && cls.HasBase(p.names.BaseManager) {
				out = append(out, managerDecl{attr: as.Target, class: cls, at: as})
			}
		}
	}
	return out, nil
}

// bindManager returns the type the model sees for d. ok is false when the
// model has to wait for another iteration.
func (p *Plugin) bindManager(ctx *semanal.ClassDefContext, d managerDecl) (types.Type, bool) {
	api, model := ctx.API, ctx.Class
	switch {
	case d.class == nil:
		return types.Any(types.AnyExplicit), true
	case !p.anyParametrized(d.class):
		if len(d.class.TypeVars) > 0 {
			return d.class.InstanceType(model.InstanceType()), true
		}
		return types.Instance(d.class.Fullname), true
	}

	cls, err := p.modelManager(api, model, d.class)
	if err == nil && !api.AddSymbol(cls.Name, &symbols.SymbolNode{Node: cls, Generated: true}, api.Globals(), nil) {
		err = fmt.Errorf("%w: binding %s refused", ErrIncompleteDefinition, cls.Fullname)
	}
	if err != nil {
		out := outcomeOf(api, err)
		if out.Kind == OutcomeDefer {
			api.Trace("defer", out.Err.Error())
			api.Defer()
			return types.Type{}, false
		}
		api.Fail(Code(err), d.at.Span, err.Error())
		return types.Any(types.AnyFromError), true
	}
	t := types.Instance(cls.Fullname)
	setAttr(api, model, d.attr, t)
	api.Trace("model_manager", fmt.Sprintf("%s.%s: %s", model.Fullname, d.attr, cls.Fullname))
	return t, true
}

// anyParametrized reports whether cls derives directly from a stock manager
// left without a model argument, e.g. "class BookManager(Manager)".
func (p *Plugin) anyParametrized(cls *symbols.ClassSymbol) bool {
	for _, b := range cls.Bases {
		if b.Name != p.names.Manager && b.Name != p.names.BaseManager {
			continue
		}
		if len(b.Args) == 0 || b.Args[0].Kind == types.KindAny {
			return true
		}
	}
	return false
}

// modelManager builds <Model>_<Manager>: a sibling of mgr whose stock
// manager base is parametrized with the model, carrying mgr's members
// rebound to the new class.
func (p *Plugin) modelManager(api semanal.SemanticAPI, model, mgr *symbols.ClassSymbol) (*symbols.ClassSymbol, error) {
	bases := make([]types.Type, len(mgr.Bases))
	for i, b := range mgr.Bases {
		if (b.Name == p.names.Manager || b.Name == p.names.BaseManager) && (len(b.Args) == 0 || b.Args[0].Kind == types.KindAny) {
			b = types.Instance(b.Name, model.InstanceType())
		}
		bases[i] = b
	}
	cls := symbols.NewClass(model.Name+"_"+mgr.Name, api.CurrentModule().Fullname, bases)
	cls.MRO = append([]string{cls.Fullname}, mgr.MRO[1:]...)
	cls.Generated = true
	cls.Span = mgr.Span

	self := cls.InstanceType()
	for _, name := range mgr.Names.Names() {
		sym, _ := mgr.Names.Get(name)
		copied := sym.Copy()
		copied.Generated = true
		switch node := sym.Node.(type) {
		case *symbols.Placeholder:
			return nil, fmt.Errorf("%w: %s.%s is not analyzed yet", ErrIncompleteDefinition, mgr.Fullname, name)
		case *symbols.FuncSymbol:
			if node.Decorated {
				break
			}
			sig, err := instantiate(api, node, self, []string{mgr.Fullname})
			if err != nil {
				return nil, err
			}
			copied.Node = &symbols.FuncSymbol{
				Name:       name,
				Fullname:   cls.Fullname + "." + name,
				Owner:      cls.Fullname,
				Sig:        sig,
				ParamNames: node.ParamNames,
				Analyzed:   true,
				Span:       node.Span,
			}
		case *symbols.Var:
			copied.Node = &symbols.Var{Name: name, Fullname: cls.Fullname + "." + name, Type: node.Type, Span: node.Span}
		}
		cls.Names.Set(name, copied)
	}
	return cls, nil
}

// inheritsManagers reports whether an ancestor model already has a default
// manager the model inherits.
func (p *Plugin) inheritsManagers(api semanal.SemanticAPI, model *symbols.ClassSymbol) bool {
	for _, fullname := range model.MRO[1:] {
		if fullname == p.names.Model {
			return false
		}
		base, ok := api.LookupClass(fullname)
		if !ok {
			continue
		}
		if _, ok := DefaultManager(base); ok {
			return true
		}
	}
	return false
}

func (p *Plugin) markDefault(model *symbols.ClassSymbol, attr string) {
	if model.Metadata == nil {
		model.Metadata = symbols.Metadata{}
	}
	model.Metadata.Namespace(ModelMetadataNamespace)[DefaultManagerKey] = attr
}

// DefaultManager returns the attribute holding the model's default manager.
func DefaultManager(model *symbols.ClassSymbol) (string, bool) {
	ns, ok := model.Metadata.Peek(ModelMetadataNamespace)
	if !ok {
		return "", false
	}
	attr, ok := ns[DefaultManagerKey]
	return attr, ok
}

// setAttr force-binds a generated attribute of type t on model.
func setAttr(api semanal.SemanticAPI, model *symbols.ClassSymbol, name string, t types.Type) {
	v := &symbols.Var{Name: name, Fullname: model.Fullname + "." + name, Type: t, Span: model.Span}
	api.AddSymbol(name, &symbols.SymbolNode{Binding: symbols.BindMember, Node: v, Generated: true}, model.Names, nil)
}
