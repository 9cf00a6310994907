package semanal

import (
	"slices"

	"ormsynth/internal/fullnames"
	"ormsynth/internal/symbols"
)

// computeMRO linearizes cls with C3. Inconsistent hierarchies fall back to a
// depth-first order so analysis can continue.
func (a *Analyzer) computeMRO(cls *symbols.ClassSymbol) []string {
	var seqs [][]string
	var direct []string
	for _, base := range cls.Bases {
		bc, ok := a.LookupClass(base.Name)
		if !ok {
			continue
		}
		seqs = append(seqs, slices.Clone(bc.MRO))
		direct = append(direct, bc.Fullname)
	}
	if len(direct) == 0 && cls.Fullname != fullnames.Builtins+".object" {
		if obj, ok := a.LookupClass(fullnames.Builtins + ".object"); ok {
			seqs = append(seqs, []string{obj.Fullname})
			direct = append(direct, obj.Fullname)
		}
	}
	seqs = append(seqs, direct)

	out := []string{cls.Fullname}
	if merged, ok := c3Merge(seqs); ok {
		return append(out, merged...)
	}
	for _, seq := range seqs[:len(seqs)-1] {
		for _, name := range seq {
			if !slices.Contains(out, name) {
				out = append(out, name)
			}
		}
	}
	return out
}

func c3Merge(seqs [][]string) ([]string, bool) {
	var out []string
	for {
		nonEmpty := seqs[:0]
		for _, s := range seqs {
			if len(s) > 0 {
				nonEmpty = append(nonEmpty, s)
			}
		}
		seqs = nonEmpty
		if len(seqs) == 0 {
			return out, true
		}
		var head string
		for _, s := range seqs {
			candidate := s[0]
			inTail := false
			for _, other := range seqs {
				if slices.Contains(other[1:], candidate) {
					inTail = true
					break
				}
			}
			if !inTail {
				head = candidate
				break
			}
		}
		if head == "" {
			return nil, false
		}
		out = append(out, head)
		for i, s := range seqs {
			if s[0] == head {
				seqs[i] = s[1:]
			}
		}
	}
}
