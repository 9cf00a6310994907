package symbols

// Binding classifies the scope a table entry belongs to.
type Binding uint8

const (
	BindGlobal Binding = iota // module level
	BindMember                // class body
	BindLocal                 // function body
)

// SymbolNode is a table entry.
type SymbolNode struct {
	Binding   Binding
	Node      Node
	Imported  bool // bound by an import statement
	Generated bool // added by a plugin
}

// Fullname returns the fullname of the referenced node ("" for nil).
func (s *SymbolNode) Fullname() string {
	if s == nil || s.Node == nil {
		return ""
	}
	return s.Node.Qualified()
}

// Copy returns a shallow copy sharing the node.
func (s *SymbolNode) Copy() *SymbolNode {
	if s == nil {
		return nil
	}
	cp := *s
	return &cp
}

// Table is an insertion-ordered name -> SymbolNode mapping.
type Table struct {
	order   []string
	entries map[string]*SymbolNode
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{entries: make(map[string]*SymbolNode)}
}

// Get returns the entry bound to name.
func (t *Table) Get(name string) (*SymbolNode, bool) {
	if t == nil {
		return nil, false
	}
	sym, ok := t.entries[name]
	return sym, ok
}

// Set binds name, keeping the original insertion position on overwrite.
func (t *Table) Set(name string, sym *SymbolNode) {
	if _, ok := t.entries[name]; !ok {
		t.order = append(t.order, name)
	}
	t.entries[name] = sym
}

// Delete unbinds name.
func (t *Table) Delete(name string) {
	if _, ok := t.entries[name]; !ok {
		return
	}
	delete(t.entries, name)
	for i, n := range t.order {
		if n == name {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

// Names returns bound names in insertion order.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Len reports the number of bound names.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}
