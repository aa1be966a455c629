package emit

import (
	"pyrite/internal/directive"
	"pyrite/internal/hir"
	"pyrite/internal/inline"
	"pyrite/internal/memsafe"
	"pyrite/internal/ownership"
)

// NewInput assembles the decision bundle for one module. The module
// must already be in its post-inlining form.
func NewInput(
	mod *hir.Module,
	own []*ownership.Result,
	safety []*memsafe.Report,
	decisions map[string]inline.Decision,
	target Target,
) *Input {
	in := &Input{
		Module:          mod,
		Ownership:       own,
		Safety:          safety,
		Inlining:        decisions,
		Directives:      make(map[string]directive.Set),
		Escapes:         make(map[string]string),
		PropertyMethods: make(map[string]string),
	}
	for _, fn := range mod.Funcs {
		in.Directives[fn.Name] = fn.Directive
		if fn.IsMethod() && len(fn.Params) == 1 && fn.Params[0].Name == "self" {
			// Constructors also take only self but are never properties.
			if name := fn.MethodName(); name != "__init__" {
				in.PropertyMethods[name] = fn.Class
			}
		}
	}
	for ident := range collectIdents(mod) {
		if target.Reserved(ident) {
			in.Escapes[ident] = target.Escape(ident)
		}
	}
	return in
}

// collectIdents gathers every identifier the emitter will have to
// render as a name: functions, parameters, locals, variable references,
// and attribute or method names.
func collectIdents(mod *hir.Module) map[string]struct{} {
	c := &identScan{idents: make(map[string]struct{})}
	for _, fn := range mod.Funcs {
		c.add(fn.Name)
		for _, p := range fn.Params {
			c.add(p.Name)
		}
		for name := range fn.Locals {
			c.add(name)
		}
		hir.WalkStmts(fn.Body, c)
	}
	return c.idents
}

type identScan struct {
	idents map[string]struct{}
}

func (c *identScan) add(name string) {
	if name != "" {
		c.idents[name] = struct{}{}
	}
}

func (c *identScan) VisitStmt(s *hir.Stmt) bool { return true }

func (c *identScan) VisitExpr(e *hir.Expr) bool {
	switch d := e.Data.(type) {
	case hir.VarData:
		c.add(d.Name)
	case hir.AttributeData:
		c.add(d.Attr)
	case hir.MethodCallData:
		c.add(d.Method)
	case hir.CallData:
		c.add(d.Func)
	}
	return true
}
