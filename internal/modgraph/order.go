package modgraph

import (
	"ormsynth/internal/diag"
	"ormsynth/internal/nodes"
)

// Order sorts modules so that every module comes after the modules it
// imports. Cyclic groups come last in name order.
func Order(mods []*nodes.Module, reporter diag.Reporter) ([]*nodes.Module, *Topo) {
	idx := BuildIndex(mods)
	g := BuildGraph(idx, mods, reporter)
	topo := ToposortKahn(g)
	out := make([]*nodes.Module, 0, len(mods))
	for _, id := range topo.Linear() {
		out = append(out, g.Modules[id])
	}
	return out, topo
}
