// Package parser reads the expression strings of program fixtures: type
// annotations, parameters, import names and call values.
package parser

import (
	"fmt"

	"ormsynth/internal/diag"
	"ormsynth/internal/lexer"
	"ormsynth/internal/source"
	"ormsynth/internal/token"
)

type Options struct {
	Reporter diag.Reporter
}

// Parser - состояние парсера на одно выражение
type Parser struct {
	lx       *lexer.Lexer
	opts     Options
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики
	errors   int
}

func newParser(src string, at source.Span, opts Options) *Parser {
	return &Parser{
		lx:       lexer.New(src, at, lexer.Options{Reporter: opts.Reporter}),
		opts:     opts,
		lastSpan: at,
	}
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

// advance - съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF && tok.Kind != token.Invalid {
		p.lastSpan = tok.Span
	}
	return tok
}

// expect - ожидаем конкретный токен. Если нет - репортим и возвращаем (invalid,false).
func (p *Parser) expect(k token.Kind, what string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.unexpected(what)
	return token.Token{Kind: token.Invalid, Span: p.lx.Peek().Span}, false
}

func (p *Parser) unexpected(what string) {
	tok := p.lx.Peek()
	found := tok.Kind.String()
	if tok.Text != "" {
		found = fmt.Sprintf("%s %q", found, tok.Text)
	}
	p.report(tok.Span, fmt.Sprintf("expected %s, found %s", what, found))
}

func (p *Parser) report(sp source.Span, msg string) {
	p.errors++
	if p.opts.Reporter != nil {
		p.opts.Reporter.Report(diag.SynUnexpectedToken, diag.SevError, sp, msg, nil)
	}
}

// finish requires the whole input to be consumed.
func (p *Parser) finish() bool {
	if !p.at(token.EOF) {
		p.unexpected("end of expression")
	}
	return p.errors == 0
}
