package modgraph

import (
	"fmt"

	"ormsynth/internal/diag"
	"ormsynth/internal/nodes"
	"ormsynth/internal/source"
)

type Graph struct {
	Edges   [][]ModuleID // Edges[dep] = модули, которые импортируют dep
	Indeg   []int        // входящие степени для Kahn (только присутствующие модули)
	Present []bool       // модуль реально загружен, а не только упомянут в импорте
	Modules []*nodes.Module
}

// BuildGraph links modules by their imports. Unknown modules, self imports
// and duplicate definitions are reported and left out of the graph.
func BuildGraph(idx ModuleIndex, mods []*nodes.Module, reporter diag.Reporter) Graph {
	n := len(idx.IDToName)
	g := Graph{
		Edges:   make([][]ModuleID, n),
		Indeg:   make([]int, n),
		Present: make([]bool, n),
		Modules: make([]*nodes.Module, n),
	}
	report := func(code diag.Code, sp source.Span, msg string) {
		if reporter != nil {
			reporter.Report(code, diag.SevError, sp, msg, nil)
		}
	}

	for _, m := range mods {
		id := idx.NameToID[m.Fullname]
		if g.Present[id] {
			report(diag.IOLoadProgram, source.Span{File: m.File}, fmt.Sprintf("duplicate module %q", m.Fullname))
			continue
		}
		g.Present[id] = true
		g.Modules[id] = m
	}

	for from, m := range g.Modules {
		if m == nil {
			continue
		}
		seen := make(map[ModuleID]struct{})
		for _, stmt := range m.Defs {
			var dep string
			switch s := stmt.(type) {
			case *nodes.Import:
				dep = s.Module
			case *nodes.ImportFrom:
				dep = s.Module
			default:
				continue
			}
			toID := idx.NameToID[dep]
			if !g.Present[toID] {
				report(diag.SemaModuleNotFound, stmt.Pos(), fmt.Sprintf("module %q imports unknown module %q", m.Fullname, dep))
				continue
			}
			if int(toID) == from {
				report(diag.SemaModuleNotFound, stmt.Pos(), fmt.Sprintf("module %q imports itself", m.Fullname))
				continue
			}
			if _, dup := seen[toID]; dup {
				continue
			}
			seen[toID] = struct{}{}
			g.Edges[toID] = append(g.Edges[toID], ModuleID(from))
			g.Indeg[from]++
		}
	}
	return g
}
