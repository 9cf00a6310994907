package managers

import (
	"fmt"
	"strings"

	"ormsynth/internal/fullnames"
	"ormsynth/internal/nodes"
	"ormsynth/internal/semanal"
	"ormsynth/internal/symbols"
	"ormsynth/internal/types"
)

const (
	fromQuerysetMethod = "from_queryset"
	asManagerMethod    = "as_manager"
)

// Plugin synthesizes the manager classes produced by from_queryset and
// as_manager and types the calls that produce them.
type Plugin struct {
	names fullnames.Names
	src   semanal.SymbolSource
	// installed models; nil turns the model transforms off
	models Models
	// call sites already reported during semantic analysis
	failed map[*nodes.CallExpr]bool
}

// New returns a plugin keyed on the ORM classes in names. Model transforms
// stay off until SetModels.
func New(names fullnames.Names) *Plugin {
	return &Plugin{names: names, failed: make(map[*nodes.CallExpr]bool)}
}

// SetSource gives hook selection access to the analyzed classes. Without a
// source no dynamic class hook is selected.
func (p *Plugin) SetSource(src semanal.SymbolSource) { p.src = src }

func (p *Plugin) DynamicClassHook(fullname string) semanal.DynamicClassHook {
	owner, method, ok := cutLast(fullname)
	if !ok {
		return nil
	}
	switch method {
	case fromQuerysetMethod:
		if p.ownerMayDerive(owner, p.names.BaseManager) {
			return func(ctx *semanal.DynamicClassContext) { p.synthesize(ctx, ShapeFromQueryset) }
		}
	case asManagerMethod:
		if p.ownerMayDerive(owner, p.names.QuerySet) {
			return func(ctx *semanal.DynamicClassContext) { p.synthesize(ctx, ShapeAsManager) }
		}
	}
	return nil
}

func (p *Plugin) MethodHook(fullname string) semanal.MethodHook {
	switch fullname {
	case p.names.BaseManager + "." + fromQuerysetMethod:
		return p.resolveFromQueryset
	case p.names.QuerySet + "." + asManagerMethod:
		return p.resolveAsManager
	}
	return nil
}

func (p *Plugin) AttributeHook(string) semanal.AttributeHook { return nil }

// ownerMayDerive reports whether owner is a subclass of base or may still
// become one.
func (p *Plugin) ownerMayDerive(owner, base string) bool {
	if p.src == nil {
		return false
	}
	if cls, ok := p.src.LookupClass(owner); ok {
		return cls.HasBase(base)
	}
	sym, state := p.src.LookupFullyQualified(owner)
	if state == symbols.LookupPlaceholder {
		return true
	}
	if state == symbols.LookupFound {
		if cls, ok := sym.Node.(*symbols.ClassSymbol); ok {
			return cls.HasBase(base)
		}
	}
	return false
}

func (p *Plugin) synthesize(ctx *semanal.DynamicClassContext, shape Shape) {
	api := ctx.API
	site, err := Interpret(api, p.names, shape, ctx.Call, ctx.Name)
	if err != nil {
		p.settle(api, ctx.Call, outcomeOf(api, err))
		return
	}
	out := Synthesize(api, p.names, site)
	if out.Kind != OutcomeSuccess {
		p.settle(api, ctx.Call, out)
		return
	}
	cls := out.Class
	if !Publish(api, site, cls) && !api.FinalIteration() {
		api.Trace("defer", cls.Fullname+": binding refused")
		api.Defer()
		return
	}
	key := RegistryKey(p.names.GeneratedModule, cls.Name)
	if shape == ShapeFromQueryset {
		RecordManager(site.Base, key, cls.Fullname)
	}
	RecordManager(site.Manager, key, cls.Fullname)
	delete(p.failed, ctx.Call)
	api.Trace("synthesize", fmt.Sprintf("%s (%d methods)", cls.Fullname, cls.Names.Len()))
}

// settle acts on a non-success outcome: deferral asks for another pass,
// anything else is reported at the call.
func (p *Plugin) settle(api semanal.SemanticAPI, call *nodes.CallExpr, out Outcome) {
	switch out.Kind {
	case OutcomeDefer:
		api.Trace("defer", out.Err.Error())
		api.Defer()
	case OutcomeFatal:
		p.failed[call] = true
		api.Fail(Code(out.Err), call.Span, out.Err.Error())
	}
}

func cutLast(fullname string) (string, string, bool) {
	i := strings.LastIndexByte(fullname, '.')
	if i <= 0 {
		return "", "", false
	}
	return fullname[:i], fullname[i+1:], true
}

var _ semanal.Plugin = (*Plugin)(nil)
var _ semanal.SourceAware = (*Plugin)(nil)
var _ semanal.ClassPlugin = (*Plugin)(nil)

// instanceOf unwraps ClassRef(Instance(x)) to Instance(x).
func instanceOf(t types.Type) (types.Type, bool) {
	if t.Kind == types.KindClassRef && len(t.Args) == 1 {
		t = t.Args[0]
	}
	return t, t.Kind == types.KindInstance
}
