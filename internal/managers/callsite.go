package managers

import (
	"fmt"

	"ormsynth/internal/fullnames"
	"ormsynth/internal/nodes"
	"ormsynth/internal/semanal"
	"ormsynth/internal/symbols"
)

// Shape is the construction pattern of a call site.
type Shape uint8

const (
	ShapeFromQueryset Shape = iota // Manager.from_queryset(QuerySet[, name])
	ShapeAsManager                 // QuerySet.as_manager()
)

func (s Shape) String() string {
	if s == ShapeAsManager {
		return "as_manager"
	}
	return "from_queryset"
}

// CallSite is an interpreted construction call with every class it names
// resolved.
type CallSite struct {
	Shape    Shape
	Target   string // assignment target
	Call     *nodes.CallExpr
	Base     *symbols.ClassSymbol // manager the generated class derives from
	QuerySet *symbols.ClassSymbol // where methods are copied from
	Manager  *symbols.ClassSymbol // canonical ORM manager
	Model    *symbols.ClassSymbol // model whose body holds an as_manager call
	Override string               // explicit class name passed to from_queryset
}

// ClassName is the deterministic name of the generated class.
func (s *CallSite) ClassName() string {
	if s.Shape == ShapeAsManager {
		param := "Any"
		if s.Model != nil {
			param = s.Model.Name
		}
		return AsManagerName(s.QuerySet.Name, param)
	}
	return FromQuerysetName(s.Base.Name, s.QuerySet.Name, s.Override)
}

// FromQuerysetName is the class name the ORM gives base.from_queryset(queryset):
// the override when class_name is passed, "<Base>From<QuerySet>" otherwise.
func FromQuerysetName(base, queryset, override string) string {
	if override != "" {
		return override
	}
	return base + "From" + queryset
}

// AsManagerName names the manager of queryset.as_manager(). param is the
// enclosing model's name, or "Any" outside a model.
func AsManagerName(queryset, param string) string {
	return queryset + "_AsManager_" + param
}

type lookupFunc func(name string) (*symbols.SymbolNode, symbols.LookupState)

// resolveClass looks name up and requires a class behind it.
func resolveClass(lookup lookupFunc, name string) (*symbols.ClassSymbol, error) {
	sym, state := lookup(name)
	switch state {
	case symbols.LookupPlaceholder:
		return nil, fmt.Errorf("%w: %q is not analyzed yet", ErrIncompleteDefinition, name)
	case symbols.LookupNotFound:
		return nil, fmt.Errorf("%w: %q", ErrBoundNameNotFound, name)
	}
	cls, ok := sym.Node.(*symbols.ClassSymbol)
	if !ok {
		return nil, fmt.Errorf("%w: %q is a %s, not a class", ErrBoundNameNotFound, name, sym.Node.Kind())
	}
	return cls, nil
}

// Interpret resolves the classes a construction call refers to, in order:
// the callee class, the queryset argument, the canonical manager.
func Interpret(api semanal.SemanticAPI, names fullnames.Names, shape Shape, call *nodes.CallExpr, target string) (*CallSite, error) {
	member, ok := call.Callee.(*nodes.MemberExpr)
	if !ok {
		return nil, fmt.Errorf("%w: callee %s is not an attribute", ErrUnexpectedCallShape, nodes.String(call.Callee))
	}
	head, ok := nodes.DottedName(member.Expr)
	if !ok {
		return nil, fmt.Errorf("%w: %s() must be called on a class name", ErrUnexpectedCallShape, member.Name)
	}
	callee, err := resolveClass(api.LookupQualified, head)
	if err != nil {
		return nil, err
	}

	site := &CallSite{Shape: shape, Target: target, Call: call}
	switch shape {
	case ShapeFromQueryset:
		pos := call.Positional()
		if len(pos) == 0 {
			return nil, fmt.Errorf("%w: from_queryset() requires a queryset class", ErrUnexpectedCallShape)
		}
		qsName, ok := nodes.DottedName(pos[0])
		if !ok {
			return nil, fmt.Errorf("%w: first argument of from_queryset() must name a queryset class, got %s", ErrUnexpectedCallShape, nodes.String(pos[0]))
		}
		if site.QuerySet, err = resolveClass(api.LookupQualified, qsName); err != nil {
			return nil, err
		}
		if site.Override, err = classNameArg(call); err != nil {
			return nil, err
		}
		site.Base = callee
	case ShapeAsManager:
		if len(call.Args) > 0 {
			return nil, fmt.Errorf("%w: as_manager() takes no arguments", ErrUnexpectedCallShape)
		}
		site.QuerySet = callee
	}

	if site.Manager, err = resolveClass(api.LookupFullyQualified, names.Manager); err != nil {
		return nil, err
	}
	if shape == ShapeAsManager {
		site.Base = site.Manager
		if cls := api.EnclosingClass(); cls != nil && cls.HasBase(names.Model) {
			site.Model = cls
		}
	}
	return site, nil
}

// classNameArg reads the optional explicit class name, passed second or as
// class_name=.
func classNameArg(call *nodes.CallExpr) (string, error) {
	var arg nodes.Expr
	if pos := call.Positional(); len(pos) > 1 {
		arg = pos[1]
	} else if kw, ok := call.Keyword("class_name"); ok {
		arg = kw
	}
	if arg == nil {
		return "", nil
	}
	str, ok := arg.(*nodes.StrExpr)
	if !ok || str.Value == "" {
		return "", fmt.Errorf("%w: class name must be a non-empty string literal, got %s", ErrUnexpectedCallShape, nodes.String(arg))
	}
	return str.Value, nil
}
