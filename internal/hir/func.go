package hir

import (
	"strings"

	"pyrite/internal/directive"
	"pyrite/internal/source"
	"pyrite/internal/types"
)

// Param represents a function parameter.
type Param struct {
	Name    string
	Type    types.Type
	Default *Expr // nil if none
	Vararg  bool  // *args
	KwArg   bool  // **kwargs
	Span    source.Span
}

// Properties is the per-function analysis record filled in by the builder.
type Properties struct {
	IsPure         bool
	HasSideEffects bool
	ThreadSafe     bool // derived from the thread_safety directive
}

// Func represents an HIR function.
type Func struct {
	Name      string
	Class     string // originating class for flattened methods, empty otherwise
	Params    []Param
	Result    types.Type
	Body      []*Stmt
	Props     Properties
	Directive directive.Set
	Docstring string
	Async     bool
	Span      source.Span

	// Locals holds the builder's best-effort types for local bindings,
	// keyed by name. Missing names resolve to Unknown.
	Locals map[string]types.Type
}

// IsMethod returns true if this function was flattened out of a class.
func (f *Func) IsMethod() bool {
	return f.Class != ""
}

// MethodName returns the bare method name for flattened methods; free
// functions return Name unchanged.
func (f *Func) MethodName() string {
	if f.Class == "" {
		return f.Name
	}
	return strings.TrimPrefix(f.Name, f.Class+".")
}

// ParamType returns the declared type of the named parameter, or Unknown.
func (f *Func) ParamType(name string) types.Type {
	for _, p := range f.Params {
		if p.Name == name {
			return p.Type
		}
	}
	return types.Unknown_()
}

// VarType resolves the best-known type of a name: parameters first, then
// locals, then Unknown.
func (f *Func) VarType(name string) types.Type {
	for _, p := range f.Params {
		if p.Name == name {
			return p.Type
		}
	}
	if t, ok := f.Locals[name]; ok {
		return t
	}
	return types.Unknown_()
}
