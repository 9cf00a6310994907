package semanal

import (
	"ormsynth/internal/diag"
	"ormsynth/internal/nodes"
	"ormsynth/internal/source"
	"ormsynth/internal/symbols"
	"ormsynth/internal/types"
)

// SymbolSource resolves fully qualified names against the analyzed modules.
type SymbolSource interface {
	LookupFullyQualified(fullname string) (*symbols.SymbolNode, symbols.LookupState)
	LookupClass(fullname string) (*symbols.ClassSymbol, bool)
}

// SemanticAPI is the view of the analyzer that plugins get while semantic
// analysis runs.
type SemanticAPI interface {
	SymbolSource

	CurrentModule() *symbols.Module
	// Globals is the top-level table of the current module.
	Globals() *symbols.Table
	// CurrentTable is the table definitions currently go into: the class
	// body when inside one, the module otherwise.
	CurrentTable() *symbols.Table
	// EnclosingClass is the class whose body is being analyzed, or nil.
	EnclosingClass() *symbols.ClassSymbol

	// Lookup resolves a bare name through class, module and builtins scopes.
	Lookup(name string) (*symbols.SymbolNode, symbols.LookupState)
	// LookupQualified resolves a dotted name such as "models.Manager".
	LookupQualified(name string) (*symbols.SymbolNode, symbols.LookupState)

	// AddSymbol binds name in table. A nil conflict node forces replacement of
	// any existing binding. Returns false when the binding was refused.
	AddSymbol(name string, sym *symbols.SymbolNode, table *symbols.Table, conflict nodes.Node) bool
	// Referrers lists module-level bindings whose target has the fullname.
	Referrers(fullname string) []symbols.Ref
	// Repoint rebinds ref to sym if it still targets sym's fullname.
	Repoint(ref symbols.Ref, sym *symbols.SymbolNode) bool
	Module(fullname string) (*symbols.Module, bool)

	// AnalyzeType resolves an unbound type expression in the current scope.
	// The second result is false while some name is still a placeholder.
	AnalyzeType(t types.Type) (types.Type, bool)

	// Defer asks for the current target to be analyzed again next iteration.
	Defer()
	FinalIteration() bool

	Fail(code diag.Code, at source.Span, msg string)
	Trace(name, detail string)
}

// CheckerAPI is the view of the analyzer that plugins get while call and
// attribute types are inferred.
type CheckerAPI interface {
	SymbolSource

	CurrentModule() *symbols.Module
	EnclosingClass() *symbols.ClassSymbol
	Fail(code diag.Code, at source.Span, msg string)
	Trace(name, detail string)
}

// DynamicClassContext describes "Name = <call>" where the call may produce a
// class at runtime.
type DynamicClassContext struct {
	Call *nodes.CallExpr
	Name string
	API  SemanticAPI
}

// MethodContext describes a call of a method.
type MethodContext struct {
	Call     *nodes.CallExpr
	Receiver types.Type   // the object the method was looked up on
	Callee   types.Type   // bound callable, receiver removed
	ArgTypes []types.Type // inferred types of Call.Args, same order
	Default  types.Type   // the result the checker inferred on its own
	API      CheckerAPI
}

// ClassDefContext describes a class whose body was just analyzed.
type ClassDefContext struct {
	Def   *nodes.ClassDef
	Class *symbols.ClassSymbol
	API   SemanticAPI
}

// AttributeContext describes a read of an instance attribute.
type AttributeContext struct {
	Expr     *nodes.MemberExpr
	Receiver types.Type
	Default  types.Type
	API      CheckerAPI
}

type (
	DynamicClassHook func(ctx *DynamicClassContext)
	MethodHook       func(ctx *MethodContext) types.Type
	AttributeHook    func(ctx *AttributeContext) types.Type
	ClassHook        func(ctx *ClassDefContext)
)

// Plugin customizes analysis of specific fullnames. Each method returns nil
// when the plugin has nothing to say about fullname.
type Plugin interface {
	// DynamicClassHook is keyed by the callee fullname, e.g.
	// "app.models.MyManager.from_queryset".
	DynamicClassHook(fullname string) DynamicClassHook
	// MethodHook is keyed by the fullname of the declaring method.
	MethodHook(fullname string) MethodHook
	// AttributeHook is keyed by "<declaring class>.<attribute>".
	AttributeHook(fullname string) AttributeHook
}

// ClassPlugin is implemented by plugins that adjust classes once their body
// is analyzed. The hook runs on every visit of the class, so it must be
// idempotent.
type ClassPlugin interface {
	// BaseClassHook is keyed by the fullname of an ancestor in the MRO.
	BaseClassHook(fullname string) ClassHook
}

// SourceAware plugins get access to the symbol tables before analysis starts,
// for hook selection that depends on class hierarchy.
type SourceAware interface {
	SetSource(src SymbolSource)
}

var (
	_ SemanticAPI = (*Analyzer)(nil)
	_ CheckerAPI  = (*Analyzer)(nil)
)
