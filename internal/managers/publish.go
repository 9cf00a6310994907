package managers

import (
	"fmt"

	"ormsynth/internal/semanal"
	"ormsynth/internal/symbols"
)

// Publish binds cls, replacing whatever an earlier iteration left under the
// name, and repoints other modules' bindings of the same fullname at it.
// from_queryset binds the assignment target; as_manager binds the class
// under its own name in module globals. Returns false when the analyzer
// refused the binding.
func Publish(api semanal.SemanticAPI, site *CallSite, cls *symbols.ClassSymbol) bool {
	sym := &symbols.SymbolNode{Node: cls, Generated: true}
	name, table := cls.Name, api.Globals()
	if site.Shape == ShapeFromQueryset {
		name, table = site.Target, api.CurrentTable()
		if api.EnclosingClass() != nil {
			sym.Binding = symbols.BindMember
		}
	}
	if !api.AddSymbol(name, sym, table, nil) {
		return false
	}

	current := api.CurrentModule().Fullname
	repointed := 0
	for _, ref := range api.Referrers(cls.Fullname) {
		if ref.Module == current {
			continue
		}
		if api.Repoint(ref, sym) {
			repointed++
		}
	}
	if repointed > 0 {
		api.Trace("repoint", fmt.Sprintf("%s: %d binding(s)", cls.Fullname, repointed))
	}
	return true
}
