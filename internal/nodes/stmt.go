package nodes

import (
	"slices"

	"ormsynth/internal/source"
	"ormsynth/internal/types"
)

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Module is one analyzed module: its fullname and top-level statements.
type Module struct {
	Fullname string
	File     source.FileID
	Stub     bool
	Defs     []Stmt
}

// Import is "import Module [as Alias]".
type Import struct {
	Module string
	Alias  string
	Span   source.Span
}

// ImportName is one "Name [as Alias]" entry of a from-import.
type ImportName struct {
	Name  string
	Alias string
}

// ImportFrom is "from Module import Names...".
type ImportFrom struct {
	Module string
	Names  []ImportName
	Span   source.Span
}

// TypeVarDef declares a module-level type variable: Name = TypeVar("Name").
type TypeVarDef struct {
	Name string
	Span source.Span
}

// ClassDef is a class statement. Bases are unresolved type expressions.
type ClassDef struct {
	Name  string
	Bases []types.Type
	Body  []Stmt
	Span  source.Span
}

// Param is a function parameter. An invalid Type means no annotation.
type Param struct {
	Name string
	Type types.Type
	Kind types.ArgKind
}

// FuncDef is a method declaration. Bodies are not modeled.
type FuncDef struct {
	Name       string
	Params     []Param
	Returns    types.Type // invalid when unannotated
	Decorators []string
	Span       source.Span
}

// Assign is "Target[: Type] [= Value]".
type Assign struct {
	Target string
	Type   types.Type
	Value  Expr
	Span   source.Span
}

// Reveal is reveal_type(Expr), answered during checking.
type Reveal struct {
	Expr Expr
	Span source.Span
}

func (s *Import) Pos() source.Span     { return s.Span }
func (s *ImportFrom) Pos() source.Span { return s.Span }
func (s *TypeVarDef) Pos() source.Span { return s.Span }
func (s *ClassDef) Pos() source.Span   { return s.Span }
func (s *FuncDef) Pos() source.Span    { return s.Span }
func (s *Assign) Pos() source.Span     { return s.Span }
func (s *Reveal) Pos() source.Span     { return s.Span }

func (*Import) stmtNode()     {}
func (*ImportFrom) stmtNode() {}
func (*TypeVarDef) stmtNode() {}
func (*ClassDef) stmtNode()   {}
func (*FuncDef) stmtNode()    {}
func (*Assign) stmtNode()     {}
func (*Reveal) stmtNode()     {}

// BoundName returns the name an import binds in the importing module.
func (n ImportName) BoundName() string {
	if n.Alias != "" {
		return n.Alias
	}
	return n.Name
}

// BoundName returns the name "import a.b [as c]" binds.
func (s *Import) BoundName() string {
	if s.Alias != "" {
		return s.Alias
	}
	return s.Module
}

// IsAnnotated reports whether any parameter past the receiver, or the
// result, carries an annotation.
func (f *FuncDef) IsAnnotated() bool {
	if f.Returns.IsValid() {
		return true
	}
	for i, p := range f.Params {
		if i == 0 {
			continue
		}
		if p.Type.IsValid() {
			return true
		}
	}
	return len(f.Params) > 0 && f.Params[0].Type.IsValid()
}

func (f *FuncDef) HasDecorator(name string) bool {
	return slices.Contains(f.Decorators, name)
}

// Imports lists the modules a module depends on, in statement order.
func (m *Module) Imports() []string {
	var out []string
	for _, stmt := range m.Defs {
		switch s := stmt.(type) {
		case *Import:
			out = append(out, s.Module)
		case *ImportFrom:
			out = append(out, s.Module)
		}
	}
	return out
}
