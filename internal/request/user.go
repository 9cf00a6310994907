package request

import (
	"fmt"

	"ormsynth/internal/fullnames"
	"ormsynth/internal/semanal"
	"ormsynth/internal/types"
)

// Plugin types request.user as the configured user model or an anonymous
// user.
type Plugin struct {
	httpRequest string
	apps        Apps
	settings    Settings
}

func New(httpRequest string, apps Apps, settings Settings) *Plugin {
	return &Plugin{httpRequest: httpRequest, apps: apps, settings: settings}
}

func (p *Plugin) DynamicClassHook(string) semanal.DynamicClassHook { return nil }
func (p *Plugin) MethodHook(string) semanal.MethodHook             { return nil }

func (p *Plugin) AttributeHook(fullname string) semanal.AttributeHook {
	if fullname == p.httpRequest+".user" {
		return p.narrowUser
	}
	return nil
}

// narrowUser replaces the stock AbstractBaseUser | AnonymousUser. A
// declaration that differs from it belongs to a subclass that chose its own
// type and is kept.
func (p *Plugin) narrowUser(ctx *semanal.AttributeContext) types.Type {
	api := ctx.API
	if _, ok := api.LookupClass(fullnames.AbstractBaseUser); !ok {
		return ctx.Default
	}
	if _, ok := api.LookupClass(fullnames.AnonymousUser); !ok {
		return ctx.Default
	}
	stock := types.Union(types.Instance(fullnames.AbstractBaseUser), types.Instance(fullnames.AnonymousUser))
	if !ctx.Default.Equal(stock) {
		return ctx.Default
	}

	label := p.settings.AuthUserModel()
	fullname, err := p.apps.GetModel(label)
	if err != nil {
		api.Trace("request.user", err.Error())
		return ctx.Default
	}
	model, ok := api.LookupClass(fullname)
	if !ok {
		api.Trace("request.user", fmt.Sprintf("%s (%s) is not analyzed", fullname, label))
		return ctx.Default
	}
	return types.Union(model.InstanceType(), types.Instance(fullnames.AnonymousUser))
}

var _ semanal.Plugin = (*Plugin)(nil)
