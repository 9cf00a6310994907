// Package program loads analysis programs described in TOML.
//
// A fixture lists modules; each module body is an ordered list of
// statements, and each statement sets exactly one of the kind keys below.
// Nested class bodies use the same schema.
//
//	[[module]]
//	name = "shop.models"
//
//	[[module.body]]
//	from = "django.db.models"
//	names = ["Manager", "QuerySet as QS"]
//
//	[[module.body]]
//	class = "OrderQuerySet"
//	bases = ["QS"]
//
//	  [[module.body.body]]
//	  def = "paid"
//	  params = ["self"]
//	  returns = "OrderQuerySet"
//
//	[[module.body]]
//	assign = "OrderManager"
//	value = "Manager.from_queryset(OrderQuerySet)"
//
// Every module is rendered to a virtual source file so diagnostics point at
// a line and column.
package program

// File is the decoded fixture.
type File struct {
	Modules []Module `toml:"module"`
}

type Module struct {
	Name string `toml:"name"`
	Stub bool   `toml:"stub"`
	Body []Stmt `toml:"body"`
}

// Stmt is one statement; the set kind key decides which other keys apply.
type Stmt struct {
	Import string `toml:"import"` // import a.b [as alias]
	As     string `toml:"as"`

	From  string   `toml:"from"` // from a.b import names
	Names []string `toml:"names"`

	TypeVar string `toml:"typevar"`

	Class string   `toml:"class"`
	Bases []string `toml:"bases"`
	Body  []Stmt   `toml:"body"`

	Def        string   `toml:"def"`
	Params     []string `toml:"params"`
	Returns    string   `toml:"returns"`
	Decorators []string `toml:"decorators"`

	Assign string `toml:"assign"`
	Type   string `toml:"type"`
	Value  string `toml:"value"`

	Reveal string `toml:"reveal"`
}

type stmtKind uint8

const (
	kindInvalid stmtKind = iota
	kindImport
	kindFrom
	kindTypeVar
	kindClass
	kindDef
	kindAssign
	kindReveal
)

// kind returns the statement kind, or kindInvalid when zero or several kind
// keys are set.
func (s *Stmt) kind() stmtKind {
	found := kindInvalid
	for k, set := range map[stmtKind]bool{
		kindImport:  s.Import != "",
		kindFrom:    s.From != "",
		kindTypeVar: s.TypeVar != "",
		kindClass:   s.Class != "",
		kindDef:     s.Def != "",
		kindAssign:  s.Assign != "",
		kindReveal:  s.Reveal != "",
	} {
		if !set {
			continue
		}
		if found != kindInvalid {
			return kindInvalid
		}
		found = k
	}
	return found
}
