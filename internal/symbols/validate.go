package symbols

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks structural invariants of a class: a consistent fullname,
// MRO headed by the class itself, and members owned by the class.
// Returns nil if everything is consistent; otherwise aggregates all issues.
func (c *ClassSymbol) Validate() error {
	var errs []error
	if !strings.HasPrefix(c.Fullname, c.Module+".") || !strings.HasSuffix(c.Fullname, "."+c.Name) {
		errs = append(errs, fmt.Errorf("class %s: fullname does not match module %q and name %q", c.Fullname, c.Module, c.Name))
	}
	if len(c.MRO) == 0 || c.MRO[0] != c.Fullname {
		errs = append(errs, fmt.Errorf("class %s: MRO must start with the class itself, got %v", c.Fullname, c.MRO))
	}
	for _, name := range c.Names.Names() {
		sym, _ := c.Names.Get(name)
		if sym == nil || sym.Node == nil {
			errs = append(errs, fmt.Errorf("class %s: member %q has no node", c.Fullname, name))
			continue
		}
		if fn, ok := sym.Node.(*FuncSymbol); ok {
			if fn.Owner != c.Fullname {
				errs = append(errs, fmt.Errorf("class %s: method %q owned by %s", c.Fullname, name, fn.Owner))
			}
			if fn.Fullname != c.Fullname+"."+name {
				errs = append(errs, fmt.Errorf("class %s: method %q has fullname %s", c.Fullname, name, fn.Fullname))
			}
		}
	}
	return errors.Join(errs...)
}

// Validate checks that every name in the module table maps to a node and that
// no two locally defined classes share a fullname.
func (m *Module) Validate() error {
	var errs []error
	seen := make(map[string]string)
	for _, name := range m.Names.Names() {
		sym, _ := m.Names.Get(name)
		if sym == nil || sym.Node == nil {
			errs = append(errs, fmt.Errorf("module %s: %q has no node", m.Fullname, name))
			continue
		}
		cls, ok := sym.Node.(*ClassSymbol)
		if !ok || sym.Imported || cls.Module != m.Fullname {
			continue
		}
		if prev, dup := seen[cls.Fullname]; dup && prev != name {
			// the same class bound under two names is fine (alias), two distinct symbols are not
			prevSym, _ := m.Names.Get(prev)
			if prevSym.Node != sym.Node {
				errs = append(errs, fmt.Errorf("module %s: fullname %s bound to distinct classes %q and %q", m.Fullname, cls.Fullname, prev, name))
			}
		}
		seen[cls.Fullname] = name
		if err := cls.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
