package parser

import (
	"ormsynth/internal/nodes"
	"ormsynth/internal/source"
	"ormsynth/internal/token"
)

// ParseExpr reads a value expression:
//
//	expr := STRING | NAME ('.' NAME | '(' args ')')*
//	args := (arg (',' arg)*)?
//	arg  := NAME '=' expr | expr
func ParseExpr(src string, at source.Span, opts Options) (nodes.Expr, bool) {
	p := newParser(src, at, opts)
	e := p.parseExpr()
	if !p.finish() || e == nil {
		return nil, false
	}
	return e, true
}

func (p *Parser) parseExpr() nodes.Expr {
	if p.at(token.StringLit) {
		tok := p.advance()
		return &nodes.StrExpr{Value: tok.Unquote(), Span: tok.Span}
	}
	tok, ok := p.expect(token.Ident, "an expression")
	if !ok {
		return nil
	}
	start := tok.Span
	var e nodes.Expr = &nodes.NameExpr{Name: tok.Text, Span: start}
	for {
		switch {
		case p.at(token.Dot):
			p.advance()
			name, ok := p.expect(token.Ident, "an attribute name")
			if !ok {
				return nil
			}
			e = &nodes.MemberExpr{Expr: e, Name: name.Text, Span: start}
		case p.at(token.LParen):
			p.advance()
			call, ok := p.parseArgs(e, start)
			if !ok {
				return nil
			}
			e = call
		default:
			return e
		}
	}
}

func (p *Parser) parseArgs(callee nodes.Expr, start source.Span) (*nodes.CallExpr, bool) {
	call := &nodes.CallExpr{Callee: callee, Span: start}
	for !p.at(token.RParen) {
		arg := p.parseExpr()
		if arg == nil {
			return nil, false
		}
		name := ""
		if n, ok := arg.(*nodes.NameExpr); ok && p.at(token.Assign) {
			p.advance()
			name = n.Name
			if arg = p.parseExpr(); arg == nil {
				return nil, false
			}
		}
		call.Args = append(call.Args, arg)
		call.ArgNames = append(call.ArgNames, name)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	if _, ok := p.expect(token.RParen, "')'"); !ok {
		return nil, false
	}
	return call, true
}
