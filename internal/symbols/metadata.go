package symbols

import "maps"

// Metadata is the extension side channel attached to a class:
// namespace -> key -> value.
type Metadata map[string]map[string]string

// Namespace returns the namespace map, creating it on first use.
func (m Metadata) Namespace(ns string) map[string]string {
	if existing, ok := m[ns]; ok {
		return existing
	}
	created := make(map[string]string)
	m[ns] = created
	return created
}

// Peek returns the namespace without creating it.
func (m Metadata) Peek(ns string) (map[string]string, bool) {
	existing, ok := m[ns]
	return existing, ok
}

// Clone returns an independent copy.
func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m))
	for ns, kv := range m {
		out[ns] = maps.Clone(kv)
	}
	return out
}
