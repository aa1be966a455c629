// Package emit defines the contract between the analysis core and a
// back end that lowers HIR to target-language text. The core never
// renders code itself: it assembles an Input bundle with the module and
// every analysis decision, and the emitter is obliged to honour each
// decision at the associated byte range.
package emit

import (
	"pyrite/internal/directive"
	"pyrite/internal/hir"
	"pyrite/internal/inline"
	"pyrite/internal/memsafe"
	"pyrite/internal/ownership"
)

// Target describes the language an emitter produces: its name, the
// reserved words the core must protect identifiers against, and the
// escape rule for a colliding identifier.
type Target struct {
	Name     string
	Keywords map[string]bool
	Escape   func(ident string) string
}

// Reserved reports whether ident collides with a target keyword.
func (t Target) Reserved(ident string) bool {
	return t.Keywords[ident]
}

// Input is the decision bundle handed to an emitter for one module.
// The HIR is the post-inlining tree; the emitter must render every node
// exactly once, in declaration order.
type Input struct {
	Module *hir.Module

	// Ownership results per function. The emitter must insert a clone
	// at every clone site, take a reference at every borrow site, and
	// render move sites as value-consuming operations.
	Ownership []*ownership.Result

	// Safety reports per function, advisory for the emitter.
	Safety []*memsafe.Report

	// Inlining decisions keyed by function name. Functions the
	// transform removed no longer appear in Module.
	Inlining map[string]inline.Decision

	// Directives keyed by function name.
	Directives map[string]directive.Set

	// Escapes maps each identifier that collides with a target keyword
	// to the form the emitter must use.
	Escapes map[string]string

	// PropertyMethods lists attribute names that must be emitted as
	// method calls rather than field accesses, keyed by attribute name
	// with the originating class as value.
	PropertyMethods map[string]string
}

// OwnershipFor returns the ownership result for the named function.
func (in *Input) OwnershipFor(name string) *ownership.Result {
	for _, r := range in.Ownership {
		if r.Function == name {
			return r
		}
	}
	return nil
}

// SafetyFor returns the safety report for the named function.
func (in *Input) SafetyFor(name string) *memsafe.Report {
	for _, r := range in.Safety {
		if r.Function == name {
			return r
		}
	}
	return nil
}

// Emitter is implemented by back ends. Emit renders the whole module;
// the returned text is expected to go through the fix pipeline before
// it reaches a compiler.
type Emitter interface {
	Target() Target
	Emit(in *Input) ([]byte, error)
}
