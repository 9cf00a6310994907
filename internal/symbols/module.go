package symbols

import "ormsynth/internal/source"

// Module is the analyzer's view of one module: its fullname and top-level table.
type Module struct {
	Fullname string
	File     source.FileID
	Names    *Table
	Stub     bool
}

// NewModule creates a module with an empty table.
func NewModule(fullname string, file source.FileID) *Module {
	return &Module{Fullname: fullname, File: file, Names: NewTable()}
}

// Class returns the class bound under name in the module's table.
func (m *Module) Class(name string) (*ClassSymbol, bool) {
	sym, ok := m.Names.Get(name)
	if !ok {
		return nil, false
	}
	cls, ok := sym.Node.(*ClassSymbol)
	return cls, ok
}

// FindByFullname returns the first binding whose node has the fullname.
// Used when a class is bound under an alias rather than its own name.
func (m *Module) FindByFullname(fullname string) (string, *SymbolNode, bool) {
	_, short := SplitFullname(fullname)
	if sym, ok := m.Names.Get(short); ok && sym.Fullname() == fullname {
		return short, sym, true
	}
	for _, name := range m.Names.Names() {
		sym, _ := m.Names.Get(name)
		if sym.Fullname() == fullname {
			return name, sym, true
		}
	}
	return "", nil, false
}
