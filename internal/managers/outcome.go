package managers

import (
	"errors"

	"ormsynth/internal/semanal"
	"ormsynth/internal/symbols"
)

// OutcomeKind classifies how a synthesis attempt ended.
type OutcomeKind uint8

const (
	// OutcomeSuccess: the class was built and bound.
	OutcomeSuccess OutcomeKind = iota
	// OutcomeDefer: an input is not ready; retry in a later iteration.
	OutcomeDefer
	// OutcomeFatal: the attempt failed for good and was reported.
	OutcomeFatal
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeDefer:
		return "defer"
	default:
		return "fatal"
	}
}

// Outcome is the result of one synthesis attempt. Class is set only on
// success. Err explains a deferral or a failure and is nil on success.
type Outcome struct {
	Kind  OutcomeKind
	Class *symbols.ClassSymbol
	Err   error
}

// outcomeOf turns an error into a deferral while more iterations remain and
// the error is only about readiness.
func outcomeOf(api semanal.SemanticAPI, err error) Outcome {
	if errors.Is(err, ErrIncompleteDefinition) && !api.FinalIteration() {
		return Outcome{Kind: OutcomeDefer, Err: err}
	}
	return Outcome{Kind: OutcomeFatal, Err: err}
}
