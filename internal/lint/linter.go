// Package lint is the surface linter: it walks the Python AST before HIR
// construction and rejects constructs the translator cannot support.
// Records are deduplicated per (code, byte offset) and reported in byte
// offset order. Any record with error severity gates HIR construction.
package lint

import (
	"fmt"
	"sort"

	"pyrite/internal/diag"
	"pyrite/internal/pyast"
	"pyrite/internal/source"
)

// Linter collects lint records for one module. Not safe for reuse across
// goroutines; create one per translation unit.
type Linter struct {
	reported map[string]struct{}
	out      []diag.Diagnostic
}

// New creates a linter.
func New() *Linter {
	return &Linter{reported: make(map[string]struct{})}
}

// Run lints the module and returns records in byte-offset order.
func (l *Linter) Run(mod *pyast.Module) []diag.Diagnostic {
	l.reported = make(map[string]struct{})
	l.out = nil

	pyast.Walk(mod, pyast.Visitor{
		VisitStmt: l.visitStmt,
		VisitExpr: l.visitExpr,
	})
	l.checkCyclicAssignment(mod.Body)

	sort.SliceStable(l.out, func(i, j int) bool {
		a, b := l.out[i], l.out[j]
		if a.Primary.Start != b.Primary.Start {
			return a.Primary.Start < b.Primary.Start
		}
		return a.Code < b.Code
	})
	return l.out
}

// HasErrors reports whether any record gates HIR construction.
func HasErrors(records []diag.Diagnostic) bool {
	for _, r := range records {
		if r.Severity == diag.SevError {
			return true
		}
	}
	return false
}

// add records one finding, at most once per (code, offset).
func (l *Linter) add(sev diag.Severity, code diag.Code, sp source.Span, msg, suggestion string) {
	key := fmt.Sprintf("%s:%d", code.ID(), sp.Start)
	if _, seen := l.reported[key]; seen {
		return
	}
	l.reported[key] = struct{}{}
	d := diag.New(sev, code, sp, msg)
	if suggestion != "" {
		d = d.WithSuggestion(suggestion)
	}
	l.out = append(l.out, d)
}

func (l *Linter) visitStmt(s *pyast.Stmt) bool {
	switch d := s.Data.(type) {
	case pyast.FunctionDefData:
		l.checkDunderMethod(d.Name, s.Span)
		l.checkCyclicAssignment(d.Body)
	case pyast.ClassDefData:
		if _, ok := d.Keywords["metaclass"]; ok {
			l.add(diag.SevError, diag.LintMetaclass, s.Span,
				"metaclasses are not supported",
				"Use composition or factory patterns instead")
		}
	case pyast.ForData:
		l.checkMutationWhileIterating(&d, s.Span)
	case pyast.AssignData:
		l.checkSelfAssignment(&d, s.Span)
	case pyast.ExprStmtData:
		l.checkSelfAppend(d.Value)
	}
	return true
}

func (l *Linter) visitExpr(e *pyast.Expr) {
	if e.Kind != pyast.ExprCall {
		return
	}
	d := e.Data.(pyast.CallData)
	name := pyast.NameOf(d.Func)
	if name == "" {
		return
	}

	switch name {
	case "eval":
		l.add(diag.SevError, diag.LintEval, e.Span,
			"eval() is not supported - dynamic code execution cannot be translated",
			"Refactor to use explicit logic or data structures")
	case "exec":
		l.add(diag.SevError, diag.LintExec, e.Span,
			"exec() is not supported - dynamic code execution cannot be translated",
			"Refactor to use explicit function calls")
	case "globals":
		l.add(diag.SevError, diag.LintGlobals, e.Span,
			"globals() is not supported - dynamic namespace access cannot be translated",
			"Use explicit module imports or pass variables as arguments")
	case "locals":
		l.add(diag.SevWarning, diag.LintLocals, e.Span,
			"locals() is not supported - dynamic namespace access cannot be translated",
			"Use explicit variable references")
	case "setattr", "getattr", "delattr":
		// A literal attribute name can be rewritten statically; a computed
		// one cannot.
		if attrNameIsLiteral(d.Args) {
			l.add(diag.SevWarning, diag.LintDynamicAttr, e.Span,
				fmt.Sprintf("%s() with a literal attribute name - use explicit attribute access", name),
				"Replace with a direct attribute reference")
		} else {
			l.add(diag.SevError, diag.LintDynamicAttr, e.Span,
				fmt.Sprintf("%s() with dynamic attribute names is not supported", name),
				"Use explicit attribute access when possible")
		}
	case "type":
		if len(d.Args) == 3 {
			l.add(diag.SevError, diag.LintDynamicClass, e.Span,
				"dynamic class creation with type() is not supported",
				"Define classes statically")
		}
	}
}

// attrNameIsLiteral reports whether the attribute-name argument (second
// positional) of setattr/getattr/delattr is a string literal.
func attrNameIsLiteral(args []*pyast.Expr) bool {
	if len(args) < 2 {
		return false
	}
	lit, ok := args[1].Data.(pyast.LiteralData)
	return ok && args[1].Kind == pyast.ExprLiteral && lit.LitKind == pyast.LitString
}

func (l *Linter) checkDunderMethod(name string, sp source.Span) {
	var code diag.Code
	var desc string
	switch name {
	case "__getattr__":
		code, desc = diag.LintGetattrHook, "dynamic attribute access"
	case "__setattr__":
		code, desc = diag.LintSetattrHook, "dynamic attribute setting"
	case "__delattr__":
		code, desc = diag.LintDelattrHook, "dynamic attribute deletion"
	case "__getattribute__":
		code, desc = diag.LintGetattributeHook, "attribute access interception"
	default:
		return
	}
	l.add(diag.SevWarning, code, sp,
		fmt.Sprintf("%s (%s) is not fully supported", name, desc),
		"Use explicit properties or methods")
}
