// Package hir is the typed intermediate representation of the translator.
//
// A Module is built from the Python AST once the surface linter has passed.
// Classes are flattened during the build: methods become module-level
// functions and the field types of each class land in the module's field
// table. Every node carries a byte span; the diagnostic layer depends on it.
// Analysis passes never mutate the HIR except for the inlining transform,
// which replaces statement lists wholesale.
package hir

import (
	"pyrite/internal/source"
	"pyrite/internal/types"
)

// Module represents an HIR module (one translation unit).
type Module struct {
	Name      string
	Path      string
	File      source.FileID
	Docstring string
	Funcs     []*Func
	Imports   []Import
	// Fields maps a flattened class name to its field types.
	Fields map[string]map[string]types.Type
	Span   source.Span
}

// Import is one import declaration kept for the emitter's use statements.
type Import struct {
	Module string
	Names  []string // empty for plain "import m"
	Alias  string
	Span   source.Span
}

// FindFunc finds a function by name, returns nil if not found.
func (m *Module) FindFunc(name string) *Func {
	for _, f := range m.Funcs {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// FieldType looks up a field type in the class table. The bool reports
// whether the class and field are known.
func (m *Module) FieldType(class, field string) (types.Type, bool) {
	fields, ok := m.Fields[class]
	if !ok {
		return types.Unknown_(), false
	}
	t, ok := fields[field]
	if !ok {
		return types.Unknown_(), false
	}
	return t, true
}
