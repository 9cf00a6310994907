package managers

import (
	"errors"

	"ormsynth/internal/diag"
)

var (
	// ErrIncompleteDefinition: a required definition exists but is not analyzed yet.
	ErrIncompleteDefinition = errors.New("incomplete definition")
	// ErrBoundNameNotFound: a required name is not defined at all.
	ErrBoundNameNotFound = errors.New("bound name not found")
	// ErrRegistryMiss: no generated manager was recorded for the call.
	ErrRegistryMiss = errors.New("generated manager not registered")
	// ErrUnexpectedShape: the resolver hook got a callee type it does not understand.
	ErrUnexpectedShape = errors.New("unexpected type shape")
	// ErrCrossModule: the generated manager lives in another module.
	ErrCrossModule = errors.New("generated manager defined in another module")
	// ErrUnexpectedCallShape: malformed from_queryset/as_manager arguments.
	ErrUnexpectedCallShape = errors.New("unsupported manager construction call")
)

// Code maps an error to the diagnostic it is reported as.
func Code(err error) diag.Code {
	switch {
	case errors.Is(err, ErrIncompleteDefinition):
		return diag.SemaIncompleteDefinition
	case errors.Is(err, ErrBoundNameNotFound):
		return diag.SemaBoundNameNotFound
	case errors.Is(err, ErrRegistryMiss):
		return diag.SemaRegistryMiss
	case errors.Is(err, ErrCrossModule):
		return diag.SemaCrossModuleManager
	case errors.Is(err, ErrUnexpectedCallShape):
		return diag.SemaUnexpectedCallShape
	default:
		return diag.SemaUnexpectedShape
	}
}
