package symbols

// LookupState is the tri-state outcome of a name lookup.
type LookupState uint8

const (
	// LookupNotFound: nothing is bound under the name.
	LookupNotFound LookupState = iota
	// LookupPlaceholder: the name is bound, but its definition is not analyzed yet.
	LookupPlaceholder
	// LookupFound: the name is bound to a concrete node.
	LookupFound
)

func (s LookupState) String() string {
	switch s {
	case LookupPlaceholder:
		return "placeholder"
	case LookupFound:
		return "found"
	default:
		return "not-found"
	}
}

// Ref identifies a binding: a name inside a module's top-level table.
type Ref struct {
	Module string
	Name   string
}
