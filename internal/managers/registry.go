package managers

import (
	"cmp"
	"slices"

	"ormsynth/internal/symbols"
)

// MetadataNamespace is where generated managers are recorded on a manager class.
const MetadataNamespace = "from_queryset_managers"

// Record maps a deterministic registry key to the generated class fullname.
type Record struct {
	Key      string
	Fullname string
}

// RegistryKey is the name the ORM itself gives the generated class.
func RegistryKey(generatedModule, className string) string {
	return generatedModule + "." + className
}

// RecordManager upserts key -> fullname in the metadata of base.
func RecordManager(base *symbols.ClassSymbol, key, fullname string) {
	if base.Metadata == nil {
		base.Metadata = symbols.Metadata{}
	}
	base.Metadata.Namespace(MetadataNamespace)[key] = fullname
}

// LookupManager returns the fullname recorded under key on base.
func LookupManager(base *symbols.ClassSymbol, key string) (string, bool) {
	ns, ok := base.Metadata.Peek(MetadataNamespace)
	if !ok {
		return "", false
	}
	fullname, ok := ns[key]
	return fullname, ok
}

// Records lists what base holds, sorted by key.
func Records(base *symbols.ClassSymbol) []Record {
	ns, ok := base.Metadata.Peek(MetadataNamespace)
	if !ok {
		return nil
	}
	out := make([]Record, 0, len(ns))
	for key, fullname := range ns {
		out = append(out, Record{Key: key, Fullname: fullname})
	}
	slices.SortFunc(out, func(a, b Record) int { return cmp.Compare(a.Key, b.Key) })
	return out
}
