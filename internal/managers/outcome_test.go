package managers

import (
	"errors"
	"testing"

	"ormsynth/internal/semanal"
)

type iterationAPI struct {
	semanal.SemanticAPI
	final bool
}

func (api iterationAPI) FinalIteration() bool { return api.final }

func TestOutcomeOf(t *testing.T) {
	incomplete := errors.Join(ErrIncompleteDefinition, errors.New("QS is not analyzed yet"))
	cases := []struct {
		err   error
		final bool
		want  OutcomeKind
	}{
		{incomplete, false, OutcomeDefer},
		{incomplete, true, OutcomeFatal},
		{ErrUnexpectedShape, false, OutcomeFatal},
	}
	for _, tc := range cases {
		out := outcomeOf(iterationAPI{final: tc.final}, tc.err)
		if out.Kind != tc.want || out.Err != tc.err || out.Class != nil {
			t.Fatalf("outcomeOf(%v, final=%v) = %s %v", tc.err, tc.final, out.Kind, out.Err)
		}
	}
}
