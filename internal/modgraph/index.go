package modgraph

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"ormsynth/internal/nodes"
)

type ModuleID uint32

// ModuleIndex - двусторонняя карта имя модуля <-> ID.
// IDs are assigned in sorted name order so the result is stable.
type ModuleIndex struct {
	NameToID map[string]ModuleID
	IDToName []string
}

// BuildIndex indexes every module and every module they import.
func BuildIndex(mods []*nodes.Module) ModuleIndex {
	names := make([]string, 0, len(mods))
	seen := make(map[string]struct{}, len(mods))
	add := func(name string) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	for _, m := range mods {
		add(m.Fullname)
		for _, imp := range m.Imports() {
			add(imp)
		}
	}
	slices.Sort(names)

	idx := ModuleIndex{
		NameToID: make(map[string]ModuleID, len(names)),
		IDToName: names,
	}
	for i, name := range names {
		id, err := safecast.Conv[ModuleID](i)
		if err != nil {
			panic(fmt.Errorf("module id overflow: %w", err))
		}
		idx.NameToID[name] = id
	}
	return idx
}
