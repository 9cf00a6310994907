package token

import (
	"ormsynth/internal/source"
)

// Token represents a single token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsPunct reports whether the token is punctuation or an operator.
func (t Token) IsPunct() bool {
	switch t.Kind {
	case Dot, Comma, Colon, Assign, Pipe, Star, StarStar, Arrow, LParen, RParen, LBracket, RBracket, Ellipsis:
		return true
	default:
		return false
	}
}

// Unquote strips the quotes of a string literal and resolves \\, \' and \".
func (t Token) Unquote() string {
	if t.Kind != StringLit || len(t.Text) < 2 {
		return t.Text
	}
	body := t.Text[1 : len(t.Text)-1]
	out := make([]byte, 0, len(body))
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' && i+1 < len(body) {
			i++
		}
		out = append(out, body[i])
	}
	return string(out)
}
