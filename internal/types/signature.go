package types

import (
	"slices"
	"strings"
)

// ArgKind mirrors how a parameter may be passed.
type ArgKind uint8

const (
	ArgPositional ArgKind = iota // a
	ArgOptional                  // a=...
	ArgStar                      // *args
	ArgNamed                     // *, a
	ArgNamedOpt                  // *, a=...
	ArgStar2                     // **kwargs
)

func (k ArgKind) String() string {
	switch k {
	case ArgPositional:
		return "positional"
	case ArgOptional:
		return "optional"
	case ArgStar:
		return "star"
	case ArgNamed:
		return "named"
	case ArgNamedOpt:
		return "named-optional"
	case ArgStar2:
		return "star2"
	default:
		return "unknown"
	}
}

// Param is a single parameter of a signature.
type Param struct {
	Name string
	Type Type
	Kind ArgKind
}

// Signature is the template of a method: the first parameter is the implicit
// receiver (self) for methods.
type Signature struct {
	Params   []Param
	Result   Type
	TypeVars []string
}

// Clone returns a deep-enough copy: parameter slice and type variable list are
// fresh, types are values.
func (s *Signature) Clone() *Signature {
	if s == nil {
		return nil
	}
	return &Signature{
		Params:   slices.Clone(s.Params),
		Result:   s.Result,
		TypeVars: slices.Clone(s.TypeVars),
	}
}

// Self returns the declared type of the receiver parameter.
func (s *Signature) Self() (Type, bool) {
	if s == nil || len(s.Params) == 0 {
		return Type{}, false
	}
	return s.Params[0].Type, true
}

// Rebind instantiates the method template for a new receiver type.
//
// The receiver parameter becomes self. In the result, every occurrence of the
// old receiver type (the declared self type, or an instance of any class in
// owners) is replaced by self, so methods returning "their own" queryset
// return the new class instead. Other parameters are left untouched.
func (s *Signature) Rebind(self Type, owners ...string) *Signature {
	out := s.Clone()
	if out == nil {
		return nil
	}
	var declared Type
	if len(out.Params) > 0 {
		declared = out.Params[0].Type
		out.Params[0].Type = self
	}
	out.Result = Map(out.Result, func(t Type) (Type, bool) {
		if declared.IsValid() && declared.Kind != KindAny && t.Equal(declared) {
			return self, true
		}
		if t.Kind == KindInstance && slices.Contains(owners, t.Name) {
			return self, true
		}
		return t, false
	})
	// a self-typed type variable is consumed by the binding
	if declared.Kind == KindTypeVar {
		out.TypeVars = slices.DeleteFunc(out.TypeVars, func(v string) bool { return v == declared.Name })
	}
	return out
}

// IsReady reports whether every parameter and the result are resolved.
func (s *Signature) IsReady() bool {
	if s == nil {
		return false
	}
	for _, p := range s.Params {
		if !p.Type.IsReady() {
			return false
		}
	}
	return s.Result.IsReady()
}

// Equal compares signatures structurally (names, kinds, types).
func (s *Signature) Equal(other *Signature) bool {
	if s == nil || other == nil {
		return s == other
	}
	if len(s.Params) != len(other.Params) || !s.Result.Equal(other.Result) {
		return false
	}
	for i := range s.Params {
		a, b := s.Params[i], other.Params[i]
		if a.Name != b.Name || a.Kind != b.Kind || !a.Type.Equal(b.Type) {
			return false
		}
	}
	return slices.Equal(s.TypeVars, other.TypeVars)
}

func (s *Signature) String() string {
	if s == nil {
		return "def (...)"
	}
	var sb strings.Builder
	sb.WriteString("def (")
	for i, p := range s.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		switch p.Kind {
		case ArgStar:
			sb.WriteString("*")
		case ArgStar2:
			sb.WriteString("**")
		}
		sb.WriteString(p.Name)
		if p.Type.IsValid() {
			sb.WriteString(": ")
			sb.WriteString(p.Type.String())
		}
		if p.Kind == ArgOptional || p.Kind == ArgNamedOpt {
			sb.WriteString(" = ...")
		}
	}
	sb.WriteString(") -> ")
	sb.WriteString(s.Result.String())
	return sb.String()
}
