package symbols

import (
	"slices"
	"strings"

	"ormsynth/internal/source"
	"ormsynth/internal/types"
)

// NodeKind classifies what a symbol table entry points at.
type NodeKind uint8

const (
	NodeInvalid NodeKind = iota
	NodeClass
	NodeFunc
	NodeVar
	NodePlaceholder
	NodeModule
)

func (k NodeKind) String() string {
	switch k {
	case NodeClass:
		return "class"
	case NodeFunc:
		return "func"
	case NodeVar:
		return "var"
	case NodePlaceholder:
		return "placeholder"
	case NodeModule:
		return "module"
	default:
		return "invalid"
	}
}

// Node is anything a symbol table entry can refer to.
type Node interface {
	Kind() NodeKind
	Qualified() string
}

// ClassSymbol is the analyzer's view of a class.
type ClassSymbol struct {
	Name      string
	Fullname  string
	Module    string
	Bases     []types.Type
	MRO       []string // fullnames, self first
	Names     *Table
	Span      source.Span
	TypeVars  []string
	Metadata  Metadata
	Generated bool // synthesized by a plugin, not declared in source
}

// NewClass allocates a class with empty member table and metadata.
func NewClass(name, module string, bases []types.Type) *ClassSymbol {
	return &ClassSymbol{
		Name:     name,
		Fullname: module + "." + name,
		Module:   module,
		Bases:    slices.Clone(bases),
		MRO:      []string{module + "." + name},
		Names:    NewTable(),
		Metadata: Metadata{},
	}
}

func (c *ClassSymbol) Kind() NodeKind    { return NodeClass }
func (c *ClassSymbol) Qualified() string { return c.Fullname }

// HasBase reports whether fullname appears in the class MRO.
func (c *ClassSymbol) HasBase(fullname string) bool {
	return slices.Contains(c.MRO, fullname)
}

// InstanceType returns the class instantiated with its own type variables,
// or with args when given.
func (c *ClassSymbol) InstanceType(args ...types.Type) types.Type {
	if len(args) == 0 && len(c.TypeVars) > 0 {
		args = make([]types.Type, len(c.TypeVars))
		for i, v := range c.TypeVars {
			args[i] = types.TypeVar(v)
		}
	}
	return types.Instance(c.Fullname, args...)
}

// Method returns the member function declared directly on the class.
func (c *ClassSymbol) Method(name string) (*FuncSymbol, bool) {
	sym, ok := c.Names.Get(name)
	if !ok {
		return nil, false
	}
	fn, ok := sym.Node.(*FuncSymbol)
	return fn, ok
}

// FuncSymbol is a function declaration belonging to a class.
type FuncSymbol struct {
	Name       string
	Fullname   string
	Owner      string           // fullname of the declaring class
	Sig        *types.Signature // nil for an unannotated function
	ParamNames []string         // as written, receiver first
	Analyzed   bool             // Sig has been resolved by semantic analysis
	Decorated  bool             // property, classmethod and friends
	ClassLevel bool             // classmethod: the receiver is the class object
	Span       source.Span
}

func (f *FuncSymbol) Kind() NodeKind    { return NodeFunc }
func (f *FuncSymbol) Qualified() string { return f.Fullname }

// Var is a variable or class attribute.
type Var struct {
	Name      string
	Fullname  string
	Type      types.Type // invalid until inferred
	IsTypeVar bool       // Name = TypeVar("Name")
	Span      source.Span
}

func (v *Var) Kind() NodeKind    { return NodeVar }
func (v *Var) Qualified() string { return v.Fullname }

// Placeholder stands in for a name whose definition is not analyzed yet.
type Placeholder struct {
	Fullname     string
	BecomesClass bool
	Span         source.Span
}

func (p *Placeholder) Kind() NodeKind    { return NodePlaceholder }
func (p *Placeholder) Qualified() string { return p.Fullname }

// ModuleRef is bound by "import a.b as c".
type ModuleRef struct {
	Fullname string
}

func (m *ModuleRef) Kind() NodeKind    { return NodeModule }
func (m *ModuleRef) Qualified() string { return m.Fullname }

// SplitFullname splits "a.b.C" into ("a.b", "C").
func SplitFullname(fullname string) (module, name string) {
	i := strings.LastIndexByte(fullname, '.')
	if i < 0 {
		return "", fullname
	}
	return fullname[:i], fullname[i+1:]
}
