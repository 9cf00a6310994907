package semanal

import (
	"fmt"

	"ormsynth/internal/diag"
	"ormsynth/internal/nodes"
	"ormsynth/internal/symbols"
)

// AddSymbol binds name in table.
//
// With a conflict node the usual redefinition rules apply: a placeholder
// yields to a real definition, rebinding the same fullname is silent, and a
// different definition under the same name is an error. A nil conflict node
// replaces whatever is bound.
//
// Either way a name that was marked incomplete earlier in this iteration is
// refused: statements that already saw it missing must see the same state.
func (a *Analyzer) AddSymbol(name string, sym *symbols.SymbolNode, table *symbols.Table, conflict nodes.Node) bool {
	existing, exists := table.Get(name)
	isPlaceholder := sym.Node.Kind() == symbols.NodePlaceholder

	if conflict != nil && exists {
		switch {
		case existing.Node == sym.Node:
			return false
		case isPlaceholder:
			if existing.Node.Kind() != symbols.NodePlaceholder {
				return false
			}
		case existing.Node.Kind() == symbols.NodePlaceholder:
			// real definition replaces the placeholder below
		case existing.Fullname() == sym.Fullname():
			a.set(table, name, sym)
			return true
		default:
			a.Fail(diag.SemaNameAlreadyDefined, conflict.Pos(), fmt.Sprintf("name %q already defined as %s %s", name, existing.Node.Kind(), existing.Fullname()))
			return false
		}
	}
	if _, refused := a.missing[table][name]; refused && !isPlaceholder {
		return false
	}
	if !isPlaceholder && (!exists || existing.Node.Kind() == symbols.NodePlaceholder || existing.Fullname() != sym.Fullname()) {
		a.progress = true
	}
	a.set(table, name, sym)
	return true
}

// set binds without checks and keeps the referrer and class indexes current.
func (a *Analyzer) set(table *symbols.Table, name string, sym *symbols.SymbolNode) {
	if old, ok := table.Get(name); ok && a.cur != nil && table == a.cur.Names {
		a.unindex(old.Fullname(), symbols.Ref{Module: a.cur.Fullname, Name: name})
	}
	table.Set(name, sym)
	if cls, ok := sym.Node.(*symbols.ClassSymbol); ok {
		a.classIndex[cls.Fullname] = cls
	}
	if a.cur != nil && table == a.cur.Names {
		fullname := sym.Fullname()
		a.referrers[fullname] = append(a.referrers[fullname], symbols.Ref{Module: a.cur.Fullname, Name: name})
	}
}

func (a *Analyzer) unindex(fullname string, ref symbols.Ref) {
	refs := a.referrers[fullname]
	for i, r := range refs {
		if r == ref {
			a.referrers[fullname] = append(refs[:i], refs[i+1:]...)
			return
		}
	}
}

// Referrers returns a snapshot of the module-level bindings targeting fullname.
func (a *Analyzer) Referrers(fullname string) []symbols.Ref {
	refs := a.referrers[fullname]
	out := make([]symbols.Ref, len(refs))
	copy(out, refs)
	return out
}

// Repoint rebinds ref to a copy of sym, keeping the binding's import flag.
// Bindings that moved on to another target, or already hold sym's node, are
// left alone.
func (a *Analyzer) Repoint(ref symbols.Ref, sym *symbols.SymbolNode) bool {
	mod, ok := a.modules[ref.Module]
	if !ok {
		return false
	}
	old, ok := mod.Names.Get(ref.Name)
	if !ok || old.Fullname() != sym.Fullname() || old.Node == sym.Node {
		return false
	}
	repl := sym.Copy()
	repl.Imported = old.Imported
	repl.Binding = old.Binding
	mod.Names.Set(ref.Name, repl)
	if cls, ok := repl.Node.(*symbols.ClassSymbol); ok {
		a.classIndex[cls.Fullname] = cls
	}
	return true
}

// markIncomplete binds a placeholder for name and refuses real definitions
// of it for the rest of the iteration.
func (a *Analyzer) markIncomplete(name string, at nodes.Node, becomesClass bool) {
	a.Defer()
	table := a.CurrentTable()
	a.AddSymbol(name, &symbols.SymbolNode{
		Binding: a.currentBinding(),
		Node:    &symbols.Placeholder{Fullname: a.qualify(name), BecomesClass: becomesClass, Span: at.Pos()},
	}, table, at)
	set, ok := a.missing[table]
	if !ok {
		set = make(map[string]struct{})
		a.missing[table] = set
	}
	set[name] = struct{}{}
}
