package lexer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"fortio.org/safecast"

	"ormsynth/internal/source"
)

// reader walks one expression. Offsets are byte offsets into src.
type reader struct {
	src  string
	off  int
	base source.Span // где src начинается в модуле
}

func (r *reader) eof() bool { return r.off >= len(r.src) }

// peek returns the rune at the offset and its width; the width is 0 at EOF.
func (r *reader) peek() (rune, int) {
	if r.eof() {
		return utf8.RuneError, 0
	}
	if c := r.src[r.off]; c < utf8.RuneSelf {
		return rune(c), 1
	}
	return utf8.DecodeRuneInString(r.src[r.off:])
}

func (r *reader) advance(n int) { r.off = min(r.off+n, len(r.src)) }

// accept consumes s when the input continues with it.
func (r *reader) accept(s string) bool {
	if !strings.HasPrefix(r.src[r.off:], s) {
		return false
	}
	r.off += len(s)
	return true
}

// spanAt maps a byte offset to a module position. Expressions never span
// lines, so only the column moves; an unpositioned base stays unpositioned.
func (r *reader) spanAt(off int) source.Span {
	if r.base.IsZero() {
		return r.base
	}
	col, err := safecast.Conv[uint32](off)
	if err != nil {
		panic(fmt.Errorf("expression offset overflow: %w", err))
	}
	sp := r.base
	sp.Col += col
	return sp
}
