package lexer

import (
	"unicode"

	"ormsynth/internal/diag"
	"ormsynth/internal/source"
	"ormsynth/internal/token"
)

type Options struct {
	Reporter diag.Reporter // nil: ошибки молча пропускаются, лексинг продолжается
}

type Lexer struct {
	r    reader
	opts Options
	look *token.Token
}

// New lexes src, an expression that starts at the position at.
func New(src string, at source.Span, opts Options) *Lexer {
	return &Lexer{r: reader{src: src, base: at}, opts: opts}
}

// Next returns the next token. Once the input is exhausted it keeps
// returning EOF.
func (lx *Lexer) Next() token.Token {
	if t := lx.look; t != nil {
		lx.look = nil
		return *t
	}
	lx.skipSpace()
	start := lx.r.off
	ch, w := lx.r.peek()
	switch {
	case w == 0:
		return token.Token{Kind: token.EOF, Span: lx.r.spanAt(start)}
	case ch == '_' || unicode.IsLetter(ch):
		return lx.ident(start)
	case ch == '"' || ch == '\'':
		return lx.str(start, byte(ch))
	}
	return lx.punct(start, w)
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// All drains the lexer; the last token is EOF.
func (lx *Lexer) All() []token.Token {
	var out []token.Token
	for {
		t := lx.Next()
		out = append(out, t)
		if t.Kind == token.EOF {
			return out
		}
	}
}

func (lx *Lexer) skipSpace() {
	for !lx.r.eof() {
		switch lx.r.src[lx.r.off] {
		case ' ', '\t', '\r', '\n':
			lx.r.off++
		default:
			return
		}
	}
}

// emit builds a token from start up to the current offset.
func (lx *Lexer) emit(k token.Kind, start int) token.Token {
	return token.Token{Kind: k, Span: lx.r.spanAt(start), Text: lx.r.src[start:lx.r.off]}
}

// invalid emits an Invalid token and reports it.
func (lx *Lexer) invalid(code diag.Code, start int, msg string) token.Token {
	tok := lx.emit(token.Invalid, start)
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevError, tok.Span, msg, nil)
	}
	return tok
}
