package nodes

import (
	"strings"

	"ormsynth/internal/source"
)

// Node is any syntax element with a position.
type Node interface {
	Pos() source.Span
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// NameExpr is a bare identifier.
type NameExpr struct {
	Name string
	Span source.Span
}

// MemberExpr is Expr.Name.
type MemberExpr struct {
	Expr Expr
	Name string
	Span source.Span
}

// StrExpr is a string literal.
type StrExpr struct {
	Value string
	Span  source.Span
}

// CallExpr is Callee(Args...). ArgNames is parallel to Args; "" marks a
// positional argument.
type CallExpr struct {
	Callee   Expr
	Args     []Expr
	ArgNames []string
	Span     source.Span
}

func (e *NameExpr) Pos() source.Span   { return e.Span }
func (e *MemberExpr) Pos() source.Span { return e.Span }
func (e *StrExpr) Pos() source.Span    { return e.Span }
func (e *CallExpr) Pos() source.Span   { return e.Span }

func (*NameExpr) exprNode()   {}
func (*MemberExpr) exprNode() {}
func (*StrExpr) exprNode()    {}
func (*CallExpr) exprNode()   {}

// Positional returns the arguments passed without a keyword.
func (e *CallExpr) Positional() []Expr {
	out := make([]Expr, 0, len(e.Args))
	for i, arg := range e.Args {
		if i >= len(e.ArgNames) || e.ArgNames[i] == "" {
			out = append(out, arg)
		}
	}
	return out
}

// Keyword returns the argument passed as name=....
func (e *CallExpr) Keyword(name string) (Expr, bool) {
	for i, n := range e.ArgNames {
		if n == name && i < len(e.Args) {
			return e.Args[i], true
		}
	}
	return nil, false
}

// DottedName flattens a NameExpr/MemberExpr chain into "a.b.c".
func DottedName(e Expr) (string, bool) {
	switch x := e.(type) {
	case *NameExpr:
		return x.Name, true
	case *MemberExpr:
		head, ok := DottedName(x.Expr)
		if !ok {
			return "", false
		}
		return head + "." + x.Name, true
	default:
		return "", false
	}
}

// String renders the expression back in source form.
func String(e Expr) string {
	switch x := e.(type) {
	case *NameExpr:
		return x.Name
	case *MemberExpr:
		return String(x.Expr) + "." + x.Name
	case *StrExpr:
		return "'" + x.Value + "'"
	case *CallExpr:
		var sb strings.Builder
		sb.WriteString(String(x.Callee))
		sb.WriteByte('(')
		for i, arg := range x.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			if i < len(x.ArgNames) && x.ArgNames[i] != "" {
				sb.WriteString(x.ArgNames[i])
				sb.WriteByte('=')
			}
			sb.WriteString(String(arg))
		}
		sb.WriteByte(')')
		return sb.String()
	default:
		return "<expr>"
	}
}
