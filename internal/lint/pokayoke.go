package lint

import (
	"fmt"

	"pyrite/internal/diag"
	"pyrite/internal/pyast"
	"pyrite/internal/source"
)

// iterMutatingMethods are the receiver-mutating methods that invalidate an
// iterator over the same binding.
var iterMutatingMethods = map[string]struct{}{
	"append":      {},
	"extend":      {},
	"insert":      {},
	"remove":      {},
	"pop":         {},
	"clear":       {},
	"add":         {},
	"discard":     {},
	"update":      {},
	"setdefault":  {},
	"__setitem__": {},
}

// checkMutationWhileIterating flags loops that mutate the container they
// iterate. One record per loop.
func (l *Linter) checkMutationWhileIterating(d *pyast.ForData, sp source.Span) {
	iterVar := pyast.NameOf(d.Iter)
	if iterVar == "" {
		return
	}
	for _, s := range d.Body {
		if stmtMutatesVar(s, iterVar) {
			l.add(diag.SevError, diag.LintIterMutation, sp,
				fmt.Sprintf("mutating %q while iterating over it is not supported", iterVar),
				fmt.Sprintf("Collect items to add or remove in a separate list, then modify %q after the loop", iterVar))
			return
		}
	}
}

func stmtMutatesVar(s *pyast.Stmt, varName string) bool {
	switch d := s.Data.(type) {
	case pyast.ExprStmtData:
		return exprMutatesVar(d.Value, varName)
	case pyast.IfData:
		for _, inner := range d.Then {
			if stmtMutatesVar(inner, varName) {
				return true
			}
		}
		for _, inner := range d.Else {
			if stmtMutatesVar(inner, varName) {
				return true
			}
		}
	}
	return false
}

func exprMutatesVar(e *pyast.Expr, varName string) bool {
	if e == nil || e.Kind != pyast.ExprCall {
		return false
	}
	call := e.Data.(pyast.CallData)
	attr, ok := call.Func.Data.(pyast.AttributeData)
	if !ok || call.Func.Kind != pyast.ExprAttribute {
		return false
	}
	if pyast.NameOf(attr.Value) != varName {
		return false
	}
	_, mutating := iterMutatingMethods[attr.Attr]
	return mutating
}

// checkSelfAssignment flags d[k] = d style self references.
func (l *Linter) checkSelfAssignment(d *pyast.AssignData, sp source.Span) {
	valueName := pyast.NameOf(d.Value)
	if valueName == "" {
		return
	}
	for _, target := range d.Targets {
		sub, ok := target.Data.(pyast.SubscriptData)
		if !ok || target.Kind != pyast.ExprSubscript {
			continue
		}
		if pyast.NameOf(sub.Value) == valueName {
			l.add(diag.SevError, diag.LintSelfReference, sp,
				fmt.Sprintf("self-referential assignment to %q is not supported - cyclic data cannot be owned", valueName),
				"Use indices or separate data structures to represent relationships")
		}
	}
}

// checkSelfAppend flags lst.append(lst) style self containment.
func (l *Linter) checkSelfAppend(e *pyast.Expr) {
	if e == nil || e.Kind != pyast.ExprCall {
		return
	}
	call := e.Data.(pyast.CallData)
	attr, ok := call.Func.Data.(pyast.AttributeData)
	if !ok || call.Func.Kind != pyast.ExprAttribute {
		return
	}
	if attr.Attr != "append" && attr.Attr != "add" && attr.Attr != "extend" {
		return
	}
	receiver := pyast.NameOf(attr.Value)
	if receiver == "" {
		return
	}
	for _, arg := range call.Args {
		if pyast.NameOf(arg) == receiver {
			l.add(diag.SevError, diag.LintSelfReference, e.Span,
				fmt.Sprintf("adding %q to itself creates a cyclic reference", receiver),
				"Use a copy if you need to store duplicate data")
		}
	}
}

// checkCyclicAssignment detects immediate attribute cycles within one
// statement list: a.x = b followed by b.y = a.
func (l *Linter) checkCyclicAssignment(body []*pyast.Stmt) {
	type attrAssign struct {
		obj, value string
		span       source.Span
	}
	var assigns []attrAssign

	for _, s := range body {
		d, ok := s.Data.(pyast.AssignData)
		if !ok || s.Kind != pyast.StmtAssign {
			continue
		}
		valueName := pyast.NameOf(d.Value)
		if valueName == "" {
			continue
		}
		for _, target := range d.Targets {
			attr, ok := target.Data.(pyast.AttributeData)
			if !ok || target.Kind != pyast.ExprAttribute {
				continue
			}
			if obj := pyast.NameOf(attr.Value); obj != "" {
				assigns = append(assigns, attrAssign{obj: obj, value: valueName, span: s.Span})
			}
		}
	}

	for i, a := range assigns {
		for _, b := range assigns[i+1:] {
			if a.obj == b.value && b.obj == a.value {
				l.add(diag.SevError, diag.LintCyclicAssign, b.span,
					fmt.Sprintf("cyclic reference detected: %q and %q reference each other", a.obj, b.obj),
					"Use weak references or restructure to avoid cycles")
			}
		}
	}
}
