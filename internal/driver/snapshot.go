package driver

import (
	"cmp"
	"slices"

	"ormsynth/internal/diag"
	"ormsynth/internal/managers"
	"ormsynth/internal/observ"
	"ormsynth/internal/semanal"
	"ormsynth/internal/source"
	"ormsynth/internal/symbols"
)

// Snapshot is the serialisable outcome of analyzing one program. Positions
// are already rendered, so a snapshot read back from the cache needs no
// FileSet.
type Snapshot struct {
	Program     string           `json:"program" msgpack:"program"`
	Iterations  int              `json:"iterations" msgpack:"iterations"`
	Converged   bool             `json:"converged" msgpack:"converged"`
	Classes     []ClassInfo      `json:"classes" msgpack:"classes"`
	Registry    []RegistryEntry  `json:"registry" msgpack:"registry"`
	Inferred    []TypeInfo       `json:"inferred" msgpack:"inferred"`
	Reveals     []TypeInfo       `json:"reveals" msgpack:"reveals"`
	Diagnostics []DiagnosticInfo `json:"diagnostics" msgpack:"diagnostics"`
	Dropped     int              `json:"dropped_diagnostics,omitempty" msgpack:"dropped,omitempty"` // refused past MaxDiagnostics
	Timings     *observ.Report   `json:"timings,omitempty" msgpack:"-"`
	Cached      bool             `json:"cached,omitempty" msgpack:"-"`
}

// ClassInfo describes a class a plugin synthesized.
type ClassInfo struct {
	Fullname string   `json:"fullname" msgpack:"fullname"`
	Module   string   `json:"module" msgpack:"module"`
	Bases    []string `json:"bases" msgpack:"bases"`
	Methods  []string `json:"methods" msgpack:"methods"`
	Pos      string   `json:"pos" msgpack:"pos"`
}

// RegistryEntry is one generated-manager record and the class holding it.
type RegistryEntry struct {
	Holder   string `json:"holder" msgpack:"holder"`
	Key      string `json:"key" msgpack:"key"`
	Fullname string `json:"fullname" msgpack:"fullname"`
}

// TypeInfo is an inferred type.
type TypeInfo struct {
	Module string `json:"module" msgpack:"module"`
	Name   string `json:"name" msgpack:"name"`
	Type   string `json:"type" msgpack:"type"`
	Pos    string `json:"pos" msgpack:"pos"`
}

type DiagnosticInfo struct {
	Severity string     `json:"severity" msgpack:"severity"`
	Code     string     `json:"code" msgpack:"code"`
	Message  string     `json:"message" msgpack:"message"`
	Pos      string     `json:"pos,omitempty" msgpack:"pos,omitempty"`
	Notes    []NoteInfo `json:"notes,omitempty" msgpack:"notes,omitempty"`
}

type NoteInfo struct {
	Pos string `json:"pos,omitempty" msgpack:"pos,omitempty"`
	Msg string `json:"msg" msgpack:"msg"`
}

// HasErrors reports whether any diagnostic is an error.
func (s *Snapshot) HasErrors() bool {
	if s == nil {
		return false
	}
	for _, d := range s.Diagnostics {
		if d.Severity == diag.SevError.String() {
			return true
		}
	}
	return false
}

// Errors counts error diagnostics.
func (s *Snapshot) Errors() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, d := range s.Diagnostics {
		if d.Severity == diag.SevError.String() {
			n++
		}
	}
	return n
}

// Class returns the synthesized class with the given fullname.
func (s *Snapshot) Class(fullname string) (ClassInfo, bool) {
	for _, c := range s.Classes {
		if c.Fullname == fullname {
			return c, true
		}
	}
	return ClassInfo{}, false
}

// TypeOf returns the inferred type text of module.name.
func (s *Snapshot) TypeOf(module, name string) (string, bool) {
	for _, t := range s.Inferred {
		if t.Module == module && t.Name == name {
			return t.Type, true
		}
	}
	return "", false
}

func buildSnapshot(name string, fs *source.FileSet, bag *diag.Bag, an *semanal.Analyzer) *Snapshot {
	snap := &Snapshot{Program: name}
	if an != nil {
		res := an.Result()
		snap.Iterations = res.Iterations
		snap.Converged = res.Converged
		snap.Classes, snap.Registry = collectClasses(fs, an)
		snap.Inferred = typeInfos(fs, res.Inferred)
		snap.Reveals = typeInfos(fs, res.Reveals)
	}
	bag.Sort()
	for _, d := range bag.Items() {
		snap.Diagnostics = append(snap.Diagnostics, diagnosticInfo(name, fs, d))
	}
	snap.Dropped = bag.Dropped()
	return snap
}

// collectClasses walks every module table and class body once per class.
func collectClasses(fs *source.FileSet, an *semanal.Analyzer) ([]ClassInfo, []RegistryEntry) {
	var (
		classes  []ClassInfo
		registry []RegistryEntry
		seen     = make(map[*symbols.ClassSymbol]bool)
		walk     func(*symbols.Table)
	)
	walk = func(table *symbols.Table) {
		for _, name := range table.Names() {
			sym, _ := table.Get(name)
			cls, ok := sym.Node.(*symbols.ClassSymbol)
			if !ok || seen[cls] {
				continue
			}
			seen[cls] = true
			if cls.Generated {
				classes = append(classes, classInfo(fs, cls))
			}
			for _, rec := range managers.Records(cls) {
				registry = append(registry, RegistryEntry{Holder: cls.Fullname, Key: rec.Key, Fullname: rec.Fullname})
			}
			walk(cls.Names)
		}
	}
	for _, modName := range an.ModuleNames() {
		if mod, ok := an.Module(modName); ok {
			walk(mod.Names)
		}
	}
	slices.SortFunc(classes, func(a, b ClassInfo) int { return cmp.Compare(a.Fullname, b.Fullname) })
	slices.SortFunc(registry, func(a, b RegistryEntry) int {
		return cmp.Or(cmp.Compare(a.Holder, b.Holder), cmp.Compare(a.Key, b.Key))
	})
	return classes, registry
}

func classInfo(fs *source.FileSet, cls *symbols.ClassSymbol) ClassInfo {
	info := ClassInfo{
		Fullname: cls.Fullname,
		Module:   cls.Module,
		Pos:      fs.Format(cls.Span),
	}
	for _, base := range cls.Bases {
		info.Bases = append(info.Bases, base.String())
	}
	for _, name := range cls.Names.Names() {
		sym, _ := cls.Names.Get(name)
		if _, ok := sym.Node.(*symbols.FuncSymbol); ok {
			info.Methods = append(info.Methods, name)
		}
	}
	slices.Sort(info.Methods)
	return info
}

func typeInfos(fs *source.FileSet, in []semanal.Inferred) []TypeInfo {
	out := make([]TypeInfo, 0, len(in))
	for _, inf := range in {
		out = append(out, TypeInfo{
			Module: inf.Module,
			Name:   inf.Name,
			Type:   inf.Type.String(),
			Pos:    fs.Format(inf.Span),
		})
	}
	return out
}

func diagnosticInfo(program string, fs *source.FileSet, d diag.Diagnostic) DiagnosticInfo {
	info := DiagnosticInfo{
		Severity: d.Severity.String(),
		Code:     d.Code.ID(),
		Message:  d.Message,
		Pos:      position(program, fs, d.Primary),
	}
	for _, n := range d.Notes {
		info.Notes = append(info.Notes, NoteInfo{Pos: position("", fs, n.Span), Msg: n.Msg})
	}
	return info
}

// position formats sp, falling back to the program name for
// program-wide findings.
func position(program string, fs *source.FileSet, sp source.Span) string {
	if sp.File == 0 || fs == nil {
		return program
	}
	return fs.Format(sp)
}
