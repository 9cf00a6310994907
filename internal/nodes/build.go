package nodes

// Short constructors for hand-built programs.

func Name(name string) *NameExpr { return &NameExpr{Name: name} }

func Member(expr Expr, name string) *MemberExpr { return &MemberExpr{Expr: expr, Name: name} }

func Str(value string) *StrExpr { return &StrExpr{Value: value} }

// Call builds a call with positional arguments only.
func Call(callee Expr, args ...Expr) *CallExpr {
	return &CallExpr{Callee: callee, Args: args, ArgNames: make([]string, len(args))}
}

// WithKeyword appends name=value.
func (e *CallExpr) WithKeyword(name string, value Expr) *CallExpr {
	e.Args = append(e.Args, value)
	e.ArgNames = append(e.ArgNames, name)
	return e
}
