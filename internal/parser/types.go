package parser

import (
	"ormsynth/internal/source"
	"ormsynth/internal/token"
	"ormsynth/internal/types"
)

// ParseType reads an annotation into an unbound type:
//
//	type := atom ('|' atom)*
//	atom := STRING | NAME ('.' NAME)* ('[' type (',' type)* ']')?
//
// A quoted atom is a forward reference and is read as a type itself. A
// union written with '|' becomes Union[...].
func ParseType(src string, at source.Span, opts Options) (types.Type, bool) {
	p := newParser(src, at, opts)
	t := p.parseType()
	if !p.finish() {
		return types.Type{}, false
	}
	return t, true
}

func (p *Parser) parseType() types.Type {
	first := p.parseTypeAtom()
	if !p.at(token.Pipe) {
		return first
	}
	items := []types.Type{first}
	for p.at(token.Pipe) {
		p.advance()
		items = append(items, p.parseTypeAtom())
	}
	return types.Unbound("Union", items...)
}

func (p *Parser) parseTypeAtom() types.Type {
	if p.at(token.StringLit) {
		tok := p.advance()
		at := tok.Span
		if !at.IsZero() {
			at.Col++ // opening quote
		}
		inner := newParser(tok.Unquote(), at, p.opts)
		t := inner.parseType()
		if !inner.finish() {
			p.errors++
		}
		return t
	}
	name, ok := p.parseDotted()
	if !ok {
		return types.Type{}
	}
	var args []types.Type
	if p.at(token.LBracket) {
		p.advance()
		for {
			args = append(args, p.parseType())
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
		p.expect(token.RBracket, "']'")
	}
	return types.Unbound(name, args...)
}

// parseDotted reads NAME ('.' NAME)*.
func (p *Parser) parseDotted() (string, bool) {
	tok, ok := p.expect(token.Ident, "a name")
	if !ok {
		return "", false
	}
	name := tok.Text
	for p.at(token.Dot) {
		p.advance()
		part, ok := p.expect(token.Ident, "a name after '.'")
		if !ok {
			return "", false
		}
		name += "." + part.Text
	}
	return name, true
}
