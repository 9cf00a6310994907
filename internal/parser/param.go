package parser

import (
	"ormsynth/internal/nodes"
	"ormsynth/internal/source"
	"ormsynth/internal/token"
	"ormsynth/internal/types"
)

// ParseParam reads one parameter:
//
//	param := ('*' | '**')? NAME (':' type)? ('=' default)?
//
// A bare '*' yields a nameless ArgStar parameter; the caller treats it as
// the start of keyword-only parameters. Defaults are checked for syntax and
// dropped.
func ParseParam(src string, at source.Span, opts Options) (nodes.Param, bool) {
	p := newParser(src, at, opts)
	var param nodes.Param
	switch {
	case p.at(token.Star):
		p.advance()
		param.Kind = types.ArgStar
		if p.at(token.EOF) {
			return param, p.finish()
		}
	case p.at(token.StarStar):
		p.advance()
		param.Kind = types.ArgStar2
	}
	name, ok := p.expect(token.Ident, "a parameter name")
	if !ok {
		return nodes.Param{}, false
	}
	param.Name = name.Text
	if p.at(token.Colon) {
		p.advance()
		param.Type = p.parseType()
	}
	if p.at(token.Assign) {
		p.advance()
		if p.at(token.Ellipsis) {
			p.advance()
		} else {
			p.parseExpr()
		}
		if param.Kind == types.ArgPositional {
			param.Kind = types.ArgOptional
		}
	}
	if !p.finish() {
		return nodes.Param{}, false
	}
	return param, true
}

// ParseImportName reads "NAME" or "NAME as ALIAS".
func ParseImportName(src string, at source.Span, opts Options) (nodes.ImportName, bool) {
	p := newParser(src, at, opts)
	name, ok := p.expect(token.Ident, "an imported name")
	if !ok {
		return nodes.ImportName{}, false
	}
	out := nodes.ImportName{Name: name.Text}
	if p.at(token.Ident) && p.lx.Peek().Text == "as" {
		p.advance()
		alias, ok := p.expect(token.Ident, "an alias after 'as'")
		if !ok {
			return nodes.ImportName{}, false
		}
		out.Alias = alias.Text
	}
	if !p.finish() {
		return nodes.ImportName{}, false
	}
	return out, true
}
