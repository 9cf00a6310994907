package types

import (
	"fmt"
	"slices"
	"strings"
)

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid  Kind = iota
	KindAny           // dynamically typed value
	KindNone          // the None singleton
	KindInstance      // instance of a nominal class, possibly parameterized
	KindClassRef      // the class object itself, Type[C]
	KindTypeVar       // reference to a type variable
	KindUnion         // A | B
	KindCallable      // function type, see Signature
	KindUnbound       // name as written, not yet resolved by semantic analysis
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindAny:
		return "any"
	case KindNone:
		return "none"
	case KindInstance:
		return "instance"
	case KindClassRef:
		return "classref"
	case KindTypeVar:
		return "typevar"
	case KindUnion:
		return "union"
	case KindCallable:
		return "callable"
	case KindUnbound:
		return "unbound"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// AnyReason records why a value is typed Any.
type AnyReason uint8

const (
	AnyExplicit    AnyReason = iota // written as Any
	AnyUnannotated                  // missing annotation
	AnyFromError                    // produced after a reported error
	AnySpecialForm                  // generic parameter default
)

// Type is a compact tagged descriptor for any supported type.
//
// Classes are referenced by fullname, never by pointer: a class symbol can be
// replaced between passes and every reference must keep resolving through the
// symbol tables.
type Type struct {
	Kind   Kind
	Name   string     // fullname (Instance/ClassRef), variable name (TypeVar), raw text (Unbound)
	Args   []Type     // type arguments (Instance/Unbound), members (Union), instance (ClassRef)
	Reason AnyReason  // Any only
	Sig    *Signature // Callable only
}

// Descriptor helpers ---------------------------------------------------------

func Any(reason AnyReason) Type { return Type{Kind: KindAny, Reason: reason} }

func None() Type { return Type{Kind: KindNone} }

// Instance describes an instance of the class with the given fullname.
func Instance(fullname string, args ...Type) Type {
	return Type{Kind: KindInstance, Name: fullname, Args: slices.Clone(args)}
}

// ClassRef describes the class object of inst (Type[inst]).
func ClassRef(inst Type) Type {
	return Type{Kind: KindClassRef, Name: inst.Name, Args: []Type{inst}}
}

func TypeVar(name string) Type { return Type{Kind: KindTypeVar, Name: name} }

// Unbound describes a type expression whose names are not resolved yet.
func Unbound(name string, args ...Type) Type {
	return Type{Kind: KindUnbound, Name: name, Args: slices.Clone(args)}
}

// Union builds A | B | ..., flattening nested unions and dropping duplicates.
// A single member collapses to itself.
func Union(items ...Type) Type {
	flat := make([]Type, 0, len(items))
	var add func(t Type)
	add = func(t Type) {
		if t.Kind == KindUnion {
			for _, m := range t.Args {
				add(m)
			}
			return
		}
		for _, seen := range flat {
			if seen.Equal(t) {
				return
			}
		}
		flat = append(flat, t)
	}
	for _, it := range items {
		add(it)
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return Type{Kind: KindUnion, Args: flat}
}

func Callable(sig *Signature) Type { return Type{Kind: KindCallable, Sig: sig} }

// IsValid reports whether t carries a kind.
func (t Type) IsValid() bool { return t.Kind != KindInvalid }

// Equal compares two descriptors structurally. Any compares equal regardless of reason.
func (t Type) Equal(other Type) bool {
	if t.Kind != other.Kind || t.Name != other.Name || len(t.Args) != len(other.Args) {
		return false
	}
	for i := range t.Args {
		if !t.Args[i].Equal(other.Args[i]) {
			return false
		}
	}
	if t.Kind == KindCallable {
		return t.Sig.Equal(other.Sig)
	}
	return true
}

// IsReady reports whether t contains no unresolved names.
func (t Type) IsReady() bool {
	if t.Kind == KindUnbound || t.Kind == KindInvalid {
		return false
	}
	for _, a := range t.Args {
		if !a.IsReady() {
			return false
		}
	}
	if t.Kind == KindCallable && t.Sig != nil {
		return t.Sig.IsReady()
	}
	return true
}

// ShortName returns the last dotted component of a fullname-bearing type.
func (t Type) ShortName() string {
	if i := strings.LastIndexByte(t.Name, '.'); i >= 0 {
		return t.Name[i+1:]
	}
	return t.Name
}

func (t Type) String() string {
	switch t.Kind {
	case KindAny:
		return "Any"
	case KindNone:
		return "None"
	case KindInstance, KindUnbound:
		name := t.Name
		if t.Kind == KindUnbound {
			name = "?" + name
		}
		if len(t.Args) == 0 {
			return name
		}
		return name + "[" + joinTypes(t.Args, ", ") + "]"
	case KindClassRef:
		if len(t.Args) == 1 {
			return "Type[" + t.Args[0].String() + "]"
		}
		return "Type[" + t.Name + "]"
	case KindTypeVar:
		return t.Name
	case KindUnion:
		return joinTypes(t.Args, " | ")
	case KindCallable:
		return t.Sig.String()
	default:
		return "<invalid>"
	}
}

func joinTypes(ts []Type, sep string) string {
	parts := make([]string, len(ts))
	for i, a := range ts {
		parts[i] = a.String()
	}
	return strings.Join(parts, sep)
}
