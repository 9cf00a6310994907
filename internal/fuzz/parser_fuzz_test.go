package fuzztests

import (
	"context"
	"testing"
	"time"

	"ormsynth/internal/diag"
	"ormsynth/internal/parser"
	"ormsynth/internal/program"
	"ormsynth/internal/source"
)

// parseTimeout is the maximum time allowed for parsing a single input.
// If parsing takes longer, it indicates a potential infinite loop.
const parseTimeout = 5 * time.Second

func FuzzParseExpr(f *testing.F) {
	addExprSeeds(f)
	f.Fuzz(func(t *testing.T, input string) {
		if len(input) > maxFuzzInput {
			input = input[:maxFuzzInput]
		}
		bag := diag.NewBag(128)
		opts := parser.Options{Reporter: diag.BagReporter{Bag: bag}}
		if _, ok := parser.ParseExpr(input, fuzzStart, opts); !ok && !bag.HasErrors() {
			t.Fatalf("ParseExpr failed without a diagnostic: %q", truncateForLog([]byte(input), 200))
		}
	})
}

func FuzzParseType(f *testing.F) {
	addExprSeeds(f)
	f.Fuzz(func(t *testing.T, input string) {
		if len(input) > maxFuzzInput {
			input = input[:maxFuzzInput]
		}
		bag := diag.NewBag(128)
		opts := parser.Options{Reporter: diag.BagReporter{Bag: bag}}
		_, _ = parser.ParseType(input, fuzzStart, opts)
		_, _ = parser.ParseParam(input, fuzzStart, opts)
		_, _ = parser.ParseImportName(input, fuzzStart, opts)
	})
}

// FuzzProgramNoHang tests that loading a program never hangs, whatever the
// TOML and the expressions inside it look like.
func FuzzProgramNoHang(f *testing.F) {
	addProgramSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		if len(input) > maxFuzzInput {
			input = append([]byte(nil), input[:maxFuzzInput]...)
		} else {
			input = append([]byte(nil), input...)
		}

		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			fs := source.NewFileSet()
			bag := diag.NewBag(128)
			_, _ = program.Parse(fs, "fuzz.toml", input, source.FileVirtual, diag.BagReporter{Bag: bag})
		}()

		select {
		case <-done:
		case <-ctx.Done():
			t.Fatalf("program hang detected: loading took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

// truncateForLog returns a truncated version of input for logging purposes.
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return input[:maxLen]
}
