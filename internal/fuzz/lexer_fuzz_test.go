package fuzztests

import (
	"testing"

	"ormsynth/internal/diag"
	"ormsynth/internal/lexer"
	"ormsynth/internal/source"
	"ormsynth/internal/token"
)

const maxFuzzInput = 1 << 16 // 64 KiB

var fuzzStart = source.Span{File: 1, Line: 1, Col: 1}

func FuzzLexerTokens(f *testing.F) {
	addExprSeeds(f)
	f.Fuzz(func(t *testing.T, input string) {
		if len(input) > maxFuzzInput {
			input = input[:maxFuzzInput]
		}

		bag := diag.NewBag(64)
		lx := lexer.New(input, fuzzStart, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
		// каждый токен съедает хотя бы один байт
		limit := len(input) + 1
		for n := 0; ; n++ {
			tok := lx.Next()
			if tok.Kind == token.EOF {
				break
			}
			if n > limit {
				t.Fatalf("lexer produced more than %d tokens for %d bytes: %q", limit, len(input), truncateForLog([]byte(input), 200))
			}
		}
	})
}
