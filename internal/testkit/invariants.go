// Package testkit holds checks shared by tests that load programs.
package testkit

import (
	"bytes"
	"fmt"

	"fortio.org/safecast"

	"ormsynth/internal/nodes"
	"ormsynth/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a rendered module:
// 1) the module file exists in fs
// 2) every statement span points into that file, inside its line/column bounds
// 3) statements appear in source order, class members after their class header
func CheckSpanInvariants(fs *source.FileSet, mod *nodes.Module) error {
	if fs == nil || mod == nil {
		return fmt.Errorf("nil file set or module")
	}
	sf := fs.Get(mod.File)
	if sf == nil {
		return fmt.Errorf("module %s: file %d not found", mod.Fullname, mod.File)
	}
	lines := bytes.Split(sf.Content, []byte("\n"))
	return checkStmts(sf, lines, mod.Defs, source.Span{File: sf.ID})
}

func checkStmts(sf *source.File, lines [][]byte, stmts []nodes.Stmt, after source.Span) error {
	prev := after
	for _, st := range stmts {
		sp := st.Pos()
		if err := checkSpan(sf, lines, sp); err != nil {
			return err
		}
		if prev.Line != 0 && !prev.Before(sp) {
			return fmt.Errorf("statement at %v is not after %v", sp, prev)
		}
		if cls, ok := st.(*nodes.ClassDef); ok {
			if err := checkStmts(sf, lines, cls.Body, sp); err != nil {
				return err
			}
			if n := len(cls.Body); n > 0 {
				sp = cls.Body[n-1].Pos()
			}
		}
		prev = sp
	}
	return nil
}

func checkSpan(sf *source.File, lines [][]byte, sp source.Span) error {
	if sp.IsZero() {
		return fmt.Errorf("zero statement span")
	}
	if sp.File != sf.ID {
		return fmt.Errorf("span file mismatch: got=%d want=%d", sp.File, sf.ID)
	}
	nLines, err := safecast.Conv[uint32](len(lines))
	if err != nil {
		return fmt.Errorf("line count overflow: %w", err)
	}
	if sp.Line < 1 || sp.Line > nLines {
		return fmt.Errorf("span %v: line outside 1..%d", sp, nLines)
	}
	width, err := safecast.Conv[uint32](len(lines[sp.Line-1]))
	if err != nil {
		return fmt.Errorf("line width overflow: %w", err)
	}
	if sp.Col < 1 || sp.Col > width+1 {
		return fmt.Errorf("span %v: column outside 1..%d", sp, width+1)
	}
	return nil
}
