package program

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/unicode/norm"

	"ormsynth/internal/diag"
	"ormsynth/internal/nodes"
	"ormsynth/internal/parser"
	"ormsynth/internal/source"
	"ormsynth/internal/types"
)

// Load reads the fixture at path. See Parse.
func Load(fs *source.FileSet, path string, r diag.Reporter) ([]*nodes.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read program: %w", err)
	}
	return Parse(fs, path, data, 0, r)
}

// Parse decodes a fixture and renders each module into fs as
// "<name>#<module>". Malformed expressions are reported to r; the returned
// modules are only meant for analysis when nothing was reported. The error
// covers TOML problems only.
func Parse(fs *source.FileSet, name string, data []byte, flags source.FileFlags, r diag.Reporter) ([]*nodes.Module, error) {
	var file File
	meta, err := toml.Decode(string(data), &file)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", name, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", name, strings.Join(keys, ", "))
	}

	out := make([]*nodes.Module, 0, len(file.Modules))
	for i := range file.Modules {
		m := &file.Modules[i]
		if ident(m.Name) == "" {
			return nil, fmt.Errorf("%s: module #%d has no name", name, i+1)
		}
		out = append(out, build(fs, name, m, flags, r))
	}
	return out, nil
}

func build(fs *source.FileSet, fixture string, m *Module, flags source.FileFlags, r diag.Reporter) *nodes.Module {
	b := &builder{w: &writer{}, opts: parser.Options{Reporter: r}, rep: r}
	mod := &nodes.Module{Fullname: ident(m.Name), Stub: m.Stub}
	mod.Defs = b.stmts(m.Body, 0)

	if m.Stub {
		flags |= source.FileStub
	}
	mod.File = fs.AddVirtual(fixture+"#"+mod.Fullname, b.w.text(), flags)
	for _, job := range b.w.jobs {
		job(mod.File)
	}
	for _, bad := range b.bad {
		bad.File = mod.File
		if r != nil {
			r.Report(diag.SynBadStatement, diag.SevError, *bad, "statement must set exactly one of import, from, typevar, class, def, assign, reveal", nil)
		}
	}
	return mod
}

type builder struct {
	w    *writer
	opts parser.Options
	rep  diag.Reporter
	bad  []*source.Span
}

func (b *builder) stmts(body []Stmt, depth int) []nodes.Stmt {
	out := make([]nodes.Stmt, 0, len(body))
	for i := range body {
		if s := b.stmt(&body[i], depth); s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (b *builder) stmt(s *Stmt, depth int) nodes.Stmt {
	w := b.w
	w.write(strings.Repeat("    ", depth))
	switch s.kind() {
	case kindImport:
		st := &nodes.Import{Module: ident(s.Import), Alias: ident(s.As), Span: w.at()}
		w.spanFix(&st.Span)
		w.write("import ", st.Module)
		if st.Alias != "" {
			w.write(" as ", st.Alias)
		}
		w.endLine()
		return st
	case kindFrom:
		st := &nodes.ImportFrom{Module: ident(s.From), Span: w.at()}
		w.spanFix(&st.Span)
		w.write("from ", st.Module, " import ")
		st.Names = make([]nodes.ImportName, len(s.Names))
		for i, n := range s.Names {
			if i > 0 {
				w.write(", ")
			}
			w.expr(n, func(src string, at source.Span) {
				st.Names[i], _ = parser.ParseImportName(src, at, b.opts)
			})
		}
		w.endLine()
		return st
	case kindTypeVar:
		st := &nodes.TypeVarDef{Name: ident(s.TypeVar), Span: w.at()}
		w.spanFix(&st.Span)
		w.write(st.Name, " = TypeVar(\"", st.Name, "\")")
		w.endLine()
		return st
	case kindClass:
		return b.class(s, depth)
	case kindDef:
		return b.def(s, depth)
	case kindAssign:
		st := &nodes.Assign{Target: ident(s.Assign), Span: w.at()}
		w.spanFix(&st.Span)
		w.write(st.Target)
		if s.Type != "" {
			w.write(": ")
			w.expr(s.Type, func(src string, at source.Span) {
				st.Type, _ = parser.ParseType(src, at, b.opts)
			})
		}
		if s.Value != "" {
			w.write(" = ")
			w.expr(s.Value, func(src string, at source.Span) {
				st.Value, _ = parser.ParseExpr(src, at, b.opts)
			})
		}
		w.endLine()
		return st
	case kindReveal:
		st := &nodes.Reveal{Span: w.at()}
		w.spanFix(&st.Span)
		w.write("reveal_type(")
		w.expr(s.Reveal, func(src string, at source.Span) {
			if e, ok := parser.ParseExpr(src, at, b.opts); ok {
				st.Expr = e
			} else {
				st.Expr = &nodes.NameExpr{Name: src, Span: at}
			}
		})
		w.write(")")
		w.endLine()
		return st
	default:
		sp := w.at()
		b.bad = append(b.bad, &sp)
		w.write("# invalid statement")
		w.endLine()
		return nil
	}
}

func (b *builder) class(s *Stmt, depth int) nodes.Stmt {
	w := b.w
	st := &nodes.ClassDef{Name: ident(s.Class), Span: w.at()}
	w.spanFix(&st.Span)
	w.write("class ", st.Name)
	if len(s.Bases) > 0 {
		w.write("(")
		st.Bases = make([]types.Type, len(s.Bases))
		for i, base := range s.Bases {
			if i > 0 {
				w.write(", ")
			}
			w.expr(base, func(src string, at source.Span) {
				st.Bases[i], _ = parser.ParseType(src, at, b.opts)
			})
		}
		w.write(")")
	}
	w.write(":")
	w.endLine()
	st.Body = b.stmts(s.Body, depth+1)
	if len(s.Body) == 0 {
		w.write(strings.Repeat("    ", depth+1), "...")
		w.endLine()
	}
	return st
}

func (b *builder) def(s *Stmt, depth int) nodes.Stmt {
	w := b.w
	indent := strings.Repeat("    ", depth)
	st := &nodes.FuncDef{Name: ident(s.Def)}
	for i, dec := range s.Decorators {
		if i > 0 {
			w.write(indent)
		}
		dec = ident(dec)
		st.Decorators = append(st.Decorators, dec)
		w.write("@", dec)
		w.endLine()
	}
	if len(s.Decorators) > 0 {
		w.write(indent)
	}
	st.Span = w.at()
	w.spanFix(&st.Span)
	w.write("def ", st.Name, "(")
	parsed := make([]nodes.Param, len(s.Params))
	for i, p := range s.Params {
		if i > 0 {
			w.write(", ")
		}
		w.expr(p, func(src string, at source.Span) {
			parsed[i], _ = parser.ParseParam(src, at, b.opts)
		})
	}
	w.write(")")
	if s.Returns != "" {
		w.write(" -> ")
		w.expr(s.Returns, func(src string, at source.Span) {
			st.Returns, _ = parser.ParseType(src, at, b.opts)
		})
	}
	w.write(": ...")
	w.endLine()
	// runs after the parameter jobs
	w.jobs = append(w.jobs, func(source.FileID) { st.Params = keywordOnly(parsed) })
	return st
}

// keywordOnly drops a bare '*' and marks the parameters after it as named.
func keywordOnly(params []nodes.Param) []nodes.Param {
	out := make([]nodes.Param, 0, len(params))
	named := false
	for _, p := range params {
		if p.Name == "" {
			named = named || p.Kind == types.ArgStar
			continue
		}
		if named {
			switch p.Kind {
			case types.ArgPositional:
				p.Kind = types.ArgNamed
			case types.ArgOptional:
				p.Kind = types.ArgNamedOpt
			}
		}
		if p.Kind == types.ArgStar {
			named = true
		}
		out = append(out, p)
	}
	return out
}

// ident normalizes a name written directly in the fixture the way the lexer
// normalizes names inside expressions.
func ident(s string) string {
	return norm.NFKC.String(strings.TrimSpace(s))
}
