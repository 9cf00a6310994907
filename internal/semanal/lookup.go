package semanal

import (
	"strings"

	"ormsynth/internal/symbols"
)

// A name missing from a namespace that is still being analyzed reports
// LookupPlaceholder: a later statement may still define it. Outside the
// final iteration that is indistinguishable from a forward reference.
func (a *Analyzer) missingState(namespace string) symbols.LookupState {
	if !a.final && a.incomplete[namespace] {
		return symbols.LookupPlaceholder
	}
	return symbols.LookupNotFound
}

func classify(sym *symbols.SymbolNode) symbols.LookupState {
	if sym.Node.Kind() == symbols.NodePlaceholder {
		return symbols.LookupPlaceholder
	}
	return symbols.LookupFound
}

func (a *Analyzer) Lookup(name string) (*symbols.SymbolNode, symbols.LookupState) {
	if cls := a.EnclosingClass(); cls != nil {
		if sym, ok := cls.Names.Get(name); ok {
			return sym, classify(sym)
		}
	}
	if a.cur != nil {
		if sym, ok := a.cur.Names.Get(name); ok {
			return sym, classify(sym)
		}
	}
	if b := a.builtins(); b != nil && b != a.cur {
		if sym, ok := b.Names.Get(name); ok {
			return sym, classify(sym)
		}
	}
	if a.cur == nil {
		return nil, symbols.LookupNotFound
	}
	return nil, a.missingState(a.cur.Fullname)
}

func (a *Analyzer) LookupQualified(name string) (*symbols.SymbolNode, symbols.LookupState) {
	parts := strings.Split(name, ".")
	sym, state := a.Lookup(parts[0])
	if state == symbols.LookupNotFound && len(parts) > 1 {
		return a.LookupFullyQualified(name)
	}
	if state != symbols.LookupFound {
		return sym, state
	}
	return a.member(sym, parts[1:])
}

// member walks rest through modules and class bodies starting at sym.
func (a *Analyzer) member(sym *symbols.SymbolNode, rest []string) (*symbols.SymbolNode, symbols.LookupState) {
	for _, part := range rest {
		switch node := sym.Node.(type) {
		case *symbols.ModuleRef:
			mod, ok := a.modules[node.Fullname]
			if !ok {
				return nil, symbols.LookupNotFound
			}
			next, ok := mod.Names.Get(part)
			if !ok {
				if sub, ok := a.modules[mod.Fullname+"."+part]; ok {
					sym = &symbols.SymbolNode{Node: &symbols.ModuleRef{Fullname: sub.Fullname}}
					continue
				}
				return nil, a.missingState(mod.Fullname)
			}
			sym = next
		case *symbols.ClassSymbol:
			next, ok := a.lookupMember(node, part)
			if !ok {
				return nil, a.missingState(node.Module)
			}
			sym = next
		default:
			return nil, symbols.LookupNotFound
		}
		if sym.Node.Kind() == symbols.NodePlaceholder {
			return sym, symbols.LookupPlaceholder
		}
	}
	return sym, symbols.LookupFound
}

// LookupFullyQualified resolves "pkg.mod.Class[.member]" by the longest
// module prefix.
func (a *Analyzer) LookupFullyQualified(fullname string) (*symbols.SymbolNode, symbols.LookupState) {
	if cls, ok := a.classIndex[fullname]; ok {
		return &symbols.SymbolNode{Node: cls}, symbols.LookupFound
	}
	parts := strings.Split(fullname, ".")
	for i := len(parts) - 1; i > 0; i-- {
		modName := strings.Join(parts[:i], ".")
		mod, ok := a.modules[modName]
		if !ok {
			continue
		}
		return a.member(&symbols.SymbolNode{Node: &symbols.ModuleRef{Fullname: mod.Fullname}}, parts[i:])
	}
	if mod, ok := a.modules[fullname]; ok {
		return &symbols.SymbolNode{Node: &symbols.ModuleRef{Fullname: mod.Fullname}}, symbols.LookupFound
	}
	return nil, symbols.LookupNotFound
}

// LookupClass resolves a class by fullname; placeholders do not count.
// Generated classes bound under an alias are found by their own fullname.
func (a *Analyzer) LookupClass(fullname string) (*symbols.ClassSymbol, bool) {
	if cls, ok := a.classIndex[fullname]; ok {
		return cls, true
	}
	sym, state := a.LookupFullyQualified(fullname)
	if state != symbols.LookupFound {
		return nil, false
	}
	cls, ok := sym.Node.(*symbols.ClassSymbol)
	return cls, ok
}

// lookupMember finds a member along the MRO of cls.
func (a *Analyzer) lookupMember(cls *symbols.ClassSymbol, name string) (*symbols.SymbolNode, bool) {
	for _, fullname := range cls.MRO {
		owner := cls
		if fullname != cls.Fullname {
			var ok bool
			if owner, ok = a.LookupClass(fullname); !ok {
				continue
			}
		}
		if sym, ok := owner.Names.Get(name); ok {
			return sym, true
		}
	}
	return nil, false
}
