package managers

import (
	"fmt"

	"ormsynth/internal/semanal"
	"ormsynth/internal/symbols"
	"ormsynth/internal/types"
)

// resolveAsManager types Q.as_manager() as an instance of the class
// synthesized for the call.
func (p *Plugin) resolveAsManager(ctx *semanal.MethodContext) types.Type {
	if p.failed[ctx.Call] {
		return types.Any(types.AnyFromError)
	}
	api := ctx.API
	if ctx.Callee.Kind != types.KindCallable || ctx.Callee.Sig == nil {
		return p.fail(ctx, fmt.Errorf("%w: as_manager is %s, not a method", ErrUnexpectedShape, ctx.Callee))
	}
	result := ctx.Callee.Sig.Result
	qs, ok := p.classOf(api, result)
	if !ok || result.Kind != types.KindInstance || !qs.HasBase(p.names.QuerySet) {
		return p.fail(ctx, fmt.Errorf("%w: as_manager returns %s, not a queryset instance", ErrUnexpectedShape, result))
	}
	param := "Any"
	if cls := api.EnclosingClass(); cls != nil && cls.HasBase(p.names.Model) {
		param = cls.Name
	}
	gen, err := p.generated(api, p.names.Manager, AsManagerName(qs.Name, param))
	if err != nil {
		return p.fail(ctx, err)
	}
	return types.Instance(gen)
}

// resolveFromQueryset types M.from_queryset(Q) as the synthesized class
// object.
func (p *Plugin) resolveFromQueryset(ctx *semanal.MethodContext) types.Type {
	if p.failed[ctx.Call] {
		return types.Any(types.AnyFromError)
	}
	api := ctx.API
	base, ok := p.classOf(api, ctx.Receiver)
	if !ok || ctx.Receiver.Kind != types.KindClassRef {
		return p.fail(ctx, fmt.Errorf("%w: from_queryset called on %s", ErrUnexpectedShape, ctx.Receiver))
	}
	if len(ctx.ArgTypes) == 0 || len(ctx.Call.Positional()) == 0 {
		return p.fail(ctx, fmt.Errorf("%w: from_queryset() requires a queryset class", ErrUnexpectedShape))
	}
	// ArgTypes follows Call.Args, so find the first positional one
	var arg types.Type
	for i := range ctx.Call.Args {
		if i >= len(ctx.Call.ArgNames) || ctx.Call.ArgNames[i] == "" {
			arg = ctx.ArgTypes[i]
			break
		}
	}
	qs, ok := p.classOf(api, arg)
	if !ok || arg.Kind != types.KindClassRef {
		return p.fail(ctx, fmt.Errorf("%w: from_queryset() argument is %s, not a queryset class", ErrUnexpectedShape, arg))
	}
	override, err := classNameArg(ctx.Call)
	if err != nil {
		return p.fail(ctx, err)
	}
	gen, err := p.generated(api, base.Fullname, FromQuerysetName(base.Name, qs.Name, override))
	if err != nil {
		return p.fail(ctx, err)
	}
	return types.ClassRef(types.Instance(gen))
}

// generated reads the registry of the manager named holder and checks the
// recorded class is reachable from the current module.
func (p *Plugin) generated(api semanal.CheckerAPI, holder, className string) (string, error) {
	manager, ok := api.LookupClass(holder)
	if !ok {
		return "", fmt.Errorf("%w: manager %s is not defined", ErrRegistryMiss, holder)
	}
	key := RegistryKey(p.names.GeneratedModule, className)
	fullname, ok := LookupManager(manager, key)
	if !ok {
		return "", fmt.Errorf("%w: %s has no entry for %s", ErrRegistryMiss, holder, key)
	}
	module, _ := symbols.SplitFullname(fullname)
	current := api.CurrentModule()
	if module != current.Fullname {
		return "", fmt.Errorf("%w: %s is defined in %s, used in %s", ErrCrossModule, fullname, module, current.Fullname)
	}
	if _, _, ok := current.FindByFullname(fullname); ok {
		return fullname, nil
	}
	if cls, ok := api.LookupClass(fullname); !ok || !cls.Generated {
		return "", fmt.Errorf("%w: %s is recorded but not bound in %s", ErrRegistryMiss, fullname, current.Fullname)
	}
	return fullname, nil
}

func (p *Plugin) classOf(api semanal.CheckerAPI, t types.Type) (*symbols.ClassSymbol, bool) {
	inst, ok := instanceOf(t)
	if !ok {
		return nil, false
	}
	return api.LookupClass(inst.Name)
}

func (p *Plugin) fail(ctx *semanal.MethodContext, err error) types.Type {
	ctx.API.Fail(Code(err), ctx.Call.Span, err.Error())
	return types.Any(types.AnyFromError)
}
