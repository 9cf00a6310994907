// Package request narrows the type of HttpRequest.user to the project's
// configured user model.
package request

import (
	"errors"
	"fmt"
	"strings"

	"ormsynth/internal/config"
)

var (
	ErrInvalidLabel  = errors.New("invalid model label")
	ErrModelNotFound = errors.New("model not installed")
)

// Apps is the part of the ORM's app registry the narrowing needs.
type Apps interface {
	// GetModel maps "app_label.Model" to the model's class fullname.
	GetModel(label string) (string, error)
}

// Settings exposes the project settings the narrowing reads.
type Settings interface {
	AuthUserModel() string
}

// Registry serves Apps and Settings from configuration.
type Registry struct {
	models    map[string]string
	installed map[string]struct{} // class fullnames
	userModel string
}

func NewRegistry(cfg config.DjangoConfig) *Registry {
	models := make(map[string]string, len(cfg.Apps))
	installed := make(map[string]struct{}, len(cfg.Apps))
	for label, fullname := range cfg.Apps {
		models[strings.ToLower(label)] = fullname
		installed[fullname] = struct{}{}
	}
	return &Registry{models: models, installed: installed, userModel: cfg.AuthUserModel}
}

// GetModel matches labels case-insensitively, like the ORM does.
func (r *Registry) GetModel(label string) (string, error) {
	app, model, ok := strings.Cut(label, ".")
	if !ok || app == "" || model == "" || strings.Contains(model, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidLabel, label)
	}
	fullname, ok := r.models[strings.ToLower(label)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrModelNotFound, label)
	}
	return fullname, nil
}

func (r *Registry) AuthUserModel() string { return r.userModel }

// InstalledModel reports whether fullname is the class of an installed model.
func (r *Registry) InstalledModel(fullname string) bool {
	_, ok := r.installed[fullname]
	return ok
}

var (
	_ Apps     = (*Registry)(nil)
	_ Settings = (*Registry)(nil)
)
