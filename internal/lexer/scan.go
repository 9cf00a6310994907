package lexer

import (
	"unicode"

	"golang.org/x/text/unicode/norm"

	"ormsynth/internal/diag"
	"ormsynth/internal/token"
)

// Порядок важен: длинные операторы раньше своих префиксов.
var puncts = [...]struct {
	text string
	kind token.Kind
}{
	{"...", token.Ellipsis},
	{"**", token.StarStar},
	{"->", token.Arrow},
	{".", token.Dot},
	{",", token.Comma},
	{":", token.Colon},
	{"=", token.Assign},
	{"|", token.Pipe},
	{"*", token.Star},
	{"(", token.LParen},
	{")", token.RParen},
	{"[", token.LBracket},
	{"]", token.RBracket},
}

// ident scans a name. Names are NFKC-normalized, the way the host language
// compares identifiers.
func (lx *Lexer) ident(start int) token.Token {
	for {
		ch, w := lx.r.peek()
		if w == 0 || !(ch == '_' || unicode.IsLetter(ch) || unicode.IsDigit(ch)) {
			break
		}
		lx.r.advance(w)
	}
	tok := lx.emit(token.Ident, start)
	tok.Text = norm.NFKC.String(tok.Text)
	return tok
}

// str scans a quoted literal. A backslash swallows the next byte.
func (lx *Lexer) str(start int, quote byte) token.Token {
	lx.r.advance(1)
	for !lx.r.eof() {
		c := lx.r.src[lx.r.off]
		lx.r.advance(1)
		switch c {
		case quote:
			return lx.emit(token.StringLit, start)
		case '\\':
			lx.r.advance(1)
		case '\n':
			return lx.invalid(diag.LexUnterminatedString, start, "newline in string literal")
		}
	}
	return lx.invalid(diag.LexUnterminatedString, start, "unterminated string literal")
}

// punct matches the operator table; anything else is one unknown rune of
// width w.
func (lx *Lexer) punct(start, w int) token.Token {
	for _, p := range puncts {
		if lx.r.accept(p.text) {
			return lx.emit(p.kind, start)
		}
	}
	lx.r.advance(w)
	return lx.invalid(diag.LexUnknownChar, start, "unknown character '"+lx.r.src[start:lx.r.off]+"'")
}
