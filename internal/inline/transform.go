package inline

import "pyrite/internal/hir"

const inlinePrefix = "_inline_"

// Apply rewrites the module according to the decisions: call-statement and
// assignment sites of inlinable functions are replaced by parameter
// bindings plus the renamed callee body, and calls to trivial functions
// are substituted at expression level. Functions inlined at their only
// call site are removed.
func (a *Analyzer) Apply(mod *hir.Module, decisions map[string]Decision) {
	funcs := make(map[string]*hir.Func, len(mod.Funcs))
	// Expansions always draw from pristine snapshots so the depth limit
	// counts the original call chain, not bodies already expanded in place.
	pristine := make(map[string][]*hir.Stmt, len(mod.Funcs))
	for _, fn := range mod.Funcs {
		funcs[fn.Name] = fn
		pristine[fn.Name] = rewriteBodyWith(fn.Body, nil, nil)
	}
	inlined := make(map[string]struct{})

	for _, fn := range mod.Funcs {
		var body []*hir.Stmt
		for _, s := range fn.Body {
			repl, callee := a.tryInlineStmt(s, funcs, pristine, decisions, 0)
			if repl == nil {
				body = append(body, s)
				continue
			}
			body = append(body, repl...)
			inlined[callee] = struct{}{}
		}
		fn.Body = body
	}

	sub := &substituter{a: a, funcs: funcs, pristine: pristine, decisions: decisions, inlined: inlined}
	for _, fn := range mod.Funcs {
		sub.rewriteBody(fn.Body, 0)
	}

	if a.cfg.InlineSingleUse {
		remaining := remainingCalls(mod)
		kept := mod.Funcs[:0]
		for _, fn := range mod.Funcs {
			_, was := inlined[fn.Name]
			if was && a.metrics[fn.Name].CallCount <= 1 && remaining[fn.Name] == 0 {
				continue
			}
			kept = append(kept, fn)
		}
		mod.Funcs = kept
	}
}

// remainingCalls counts the call sites each module function still has
// after rewriting. A function whose expansion stopped at the depth limit
// keeps live callers and must not be removed.
func remainingCalls(mod *hir.Module) map[string]int {
	counts := make(map[string]int)
	v := &callCounter{counts: counts}
	for _, fn := range mod.Funcs {
		hir.WalkStmts(fn.Body, v)
	}
	return counts
}

type callCounter struct {
	counts map[string]int
}

func (c *callCounter) VisitStmt(*hir.Stmt) bool { return true }

func (c *callCounter) VisitExpr(e *hir.Expr) bool {
	if d, ok := e.Data.(hir.CallData); ok {
		c.counts[d.Func]++
	}
	return true
}

// tryInlineStmt inlines a call-statement or call-assignment site. It
// returns nil when the statement is left unchanged.
func (a *Analyzer) tryInlineStmt(s *hir.Stmt, funcs map[string]*hir.Func, pristine map[string][]*hir.Stmt, decisions map[string]Decision, depth int) ([]*hir.Stmt, string) {
	if depth >= a.cfg.MaxInlineDepth {
		return nil, ""
	}
	switch d := s.Data.(type) {
	case hir.ExprStmtData:
		call, ok := d.Expr.Data.(hir.CallData)
		if !ok || len(call.Keywords) > 0 {
			return nil, ""
		}
		callee := a.inlinableCallee(call.Func, funcs, decisions)
		if callee == nil || len(call.Args) != len(callee.Params) {
			return nil, ""
		}
		body := a.inlineCall(callee, call.Args, funcs, pristine, decisions, depth)
		dropFinalReturn(body)
		return body, callee.Name

	case hir.AssignData:
		if d.Value == nil {
			return nil, ""
		}
		call, ok := d.Value.Data.(hir.CallData)
		if !ok || len(call.Keywords) > 0 {
			return nil, ""
		}
		callee := a.inlinableCallee(call.Func, funcs, decisions)
		if callee == nil || len(call.Args) != len(callee.Params) {
			return nil, ""
		}
		body := a.inlineCall(callee, call.Args, funcs, pristine, decisions, depth)
		if len(body) == 0 {
			return nil, ""
		}
		rewriteFinalReturn(body, d.Target)
		return body, callee.Name
	}
	return nil, ""
}

func (a *Analyzer) inlinableCallee(name string, funcs map[string]*hir.Func, decisions map[string]Decision) *hir.Func {
	dec, ok := decisions[name]
	if !ok || !dec.ShouldInline {
		return nil
	}
	return funcs[name]
}

// inlineCall produces the replacement statements for one call site:
// one _inline_<param> binding per argument, then the callee body with
// every parameter occurrence renamed. Nested inlinable calls are expanded
// at depth+1 until the depth limit.
func (a *Analyzer) inlineCall(callee *hir.Func, args []*hir.Expr, funcs map[string]*hir.Func, pristine map[string][]*hir.Stmt, decisions map[string]Decision, depth int) []*hir.Stmt {
	ren := paramRenamer(callee)

	var out []*hir.Stmt
	for i, p := range callee.Params {
		arg := args[i]
		out = append(out, &hir.Stmt{
			Kind: hir.StmtAssign,
			Span: arg.Span,
			Data: hir.AssignData{
				Target: &hir.Expr{Kind: hir.ExprVar, Type: p.Type, Span: arg.Span, Data: hir.VarData{Name: inlinePrefix + p.Name}},
				Value:  arg,
				Type:   p.Type,
			},
		})
	}

	for _, s := range pristine[callee.Name] {
		renamed := rewriteStmt(s, ren, nil)
		if repl, _ := a.tryInlineStmt(renamed, funcs, pristine, decisions, depth+1); repl != nil {
			out = append(out, repl...)
			continue
		}
		out = append(out, renamed)
	}
	return out
}

func paramRenamer(fn *hir.Func) func(string) string {
	params := make(map[string]struct{}, len(fn.Params))
	for _, p := range fn.Params {
		params[p.Name] = struct{}{}
	}
	return func(name string) string {
		if _, ok := params[name]; ok {
			return inlinePrefix + name
		}
		return name
	}
}

// rewriteFinalReturn turns a trailing `return expr` into `target = expr`.
func rewriteFinalReturn(body []*hir.Stmt, target *hir.Expr) {
	if len(body) == 0 {
		return
	}
	last := body[len(body)-1]
	ret, ok := last.Data.(hir.ReturnData)
	if !ok || ret.Value == nil {
		return
	}
	body[len(body)-1] = &hir.Stmt{
		Kind: hir.StmtAssign,
		Span: last.Span,
		Data: hir.AssignData{Target: target, Value: ret.Value},
	}
}

// dropFinalReturn turns a trailing `return expr` into a plain expression
// statement so the caller's control flow is untouched.
func dropFinalReturn(body []*hir.Stmt) {
	if len(body) == 0 {
		return
	}
	last := body[len(body)-1]
	ret, ok := last.Data.(hir.ReturnData)
	if !ok {
		return
	}
	if ret.Value == nil {
		body[len(body)-1] = &hir.Stmt{Kind: hir.StmtPass, Span: last.Span}
		return
	}
	body[len(body)-1] = &hir.Stmt{
		Kind: hir.StmtExpr,
		Span: last.Span,
		Data: hir.ExprStmtData{Expr: ret.Value},
	}
}

// substituter replaces calls to trivial inlinable functions with the
// callee's return expression, parameters substituted by the argument
// expressions. This reaches call sites inside larger expressions, where
// statement-level inlining cannot.
type substituter struct {
	a         *Analyzer
	funcs     map[string]*hir.Func
	pristine  map[string][]*hir.Stmt
	decisions map[string]Decision
	inlined   map[string]struct{}
}

func (t *substituter) rewriteBody(body []*hir.Stmt, depth int) {
	for _, s := range body {
		t.rewriteStmtExprs(s, depth)
	}
}

func (t *substituter) rewriteStmtExprs(s *hir.Stmt, depth int) {
	switch d := s.Data.(type) {
	case hir.ExprStmtData:
		d.Expr = t.subst(d.Expr, depth)
		s.Data = d
	case hir.AssignData:
		d.Value = t.subst(d.Value, depth)
		s.Data = d
	case hir.AugAssignData:
		d.Value = t.subst(d.Value, depth)
		s.Data = d
	case hir.ReturnData:
		d.Value = t.subst(d.Value, depth)
		s.Data = d
	case hir.IfData:
		d.Cond = t.subst(d.Cond, depth)
		s.Data = d
		t.rewriteBody(d.Then, depth)
		t.rewriteBody(d.Else, depth)
	case hir.WhileData:
		d.Cond = t.subst(d.Cond, depth)
		s.Data = d
		t.rewriteBody(d.Body, depth)
	case hir.ForData:
		d.Iter = t.subst(d.Iter, depth)
		s.Data = d
		t.rewriteBody(d.Body, depth)
		t.rewriteBody(d.Else, depth)
	case hir.WithData:
		d.Context = t.subst(d.Context, depth)
		s.Data = d
		t.rewriteBody(d.Body, depth)
	case hir.TryData:
		t.rewriteBody(d.Body, depth)
		for _, h := range d.Handlers {
			t.rewriteBody(h.Body, depth)
		}
		t.rewriteBody(d.Else, depth)
		t.rewriteBody(d.Finally, depth)
	case hir.RaiseData:
		d.Exc = t.subst(d.Exc, depth)
		d.Cause = t.subst(d.Cause, depth)
		s.Data = d
	case hir.AssertData:
		d.Test = t.subst(d.Test, depth)
		d.Msg = t.subst(d.Msg, depth)
		s.Data = d
	case hir.BlockData:
		t.rewriteBody(d.Body, depth)
	}
}

// subst rewrites one expression tree bottom-up.
func (t *substituter) subst(e *hir.Expr, depth int) *hir.Expr {
	if e == nil {
		return nil
	}
	e = t.substChildren(e, depth)

	call, ok := e.Data.(hir.CallData)
	if !ok || len(call.Keywords) > 0 {
		return e
	}
	if depth >= t.a.cfg.MaxInlineDepth {
		return e
	}
	callee := t.a.inlinableCallee(call.Func, t.funcs, t.decisions)
	if callee == nil || len(call.Args) != len(callee.Params) {
		return e
	}
	body := t.pristine[callee.Name]
	if len(body) != 1 || body[0].Kind != hir.StmtReturn {
		return e
	}
	ret, ok := body[0].Data.(hir.ReturnData)
	if !ok || ret.Value == nil {
		return e
	}
	bindings := make(map[string]*hir.Expr, len(callee.Params))
	for i, p := range callee.Params {
		bindings[p.Name] = call.Args[i]
	}
	t.inlined[callee.Name] = struct{}{}
	expanded := rewriteExpr(ret.Value, nil, bindings)
	// The expansion may expose further trivial calls.
	return t.subst(expanded, depth+1)
}

func (t *substituter) substChildren(e *hir.Expr, depth int) *hir.Expr {
	switch d := e.Data.(type) {
	case hir.BinaryData:
		d.Left = t.subst(d.Left, depth)
		d.Right = t.subst(d.Right, depth)
		e.Data = d
	case hir.UnaryData:
		d.Operand = t.subst(d.Operand, depth)
		e.Data = d
	case hir.BoolOpData:
		for i := range d.Values {
			d.Values[i] = t.subst(d.Values[i], depth)
		}
	case hir.CompareData:
		for i := range d.Operands {
			d.Operands[i] = t.subst(d.Operands[i], depth)
		}
	case hir.CallData:
		for i := range d.Args {
			d.Args[i] = t.subst(d.Args[i], depth)
		}
		for i := range d.Keywords {
			d.Keywords[i].Value = t.subst(d.Keywords[i].Value, depth)
		}
	case hir.MethodCallData:
		d.Receiver = t.subst(d.Receiver, depth)
		for i := range d.Args {
			d.Args[i] = t.subst(d.Args[i], depth)
		}
		e.Data = d
	case hir.DynCallData:
		d.Callee = t.subst(d.Callee, depth)
		for i := range d.Args {
			d.Args[i] = t.subst(d.Args[i], depth)
		}
		e.Data = d
	case hir.IndexData:
		d.Object = t.subst(d.Object, depth)
		d.Index = t.subst(d.Index, depth)
		e.Data = d
	case hir.SliceData:
		d.Object = t.subst(d.Object, depth)
		d.Start = t.subst(d.Start, depth)
		d.Stop = t.subst(d.Stop, depth)
		d.Step = t.subst(d.Step, depth)
		e.Data = d
	case hir.AttributeData:
		d.Object = t.subst(d.Object, depth)
		e.Data = d
	case hir.SequenceData:
		for i := range d.Elems {
			d.Elems[i] = t.subst(d.Elems[i], depth)
		}
	case hir.DictData:
		for i := range d.Keys {
			d.Keys[i] = t.subst(d.Keys[i], depth)
		}
		for i := range d.Values {
			d.Values[i] = t.subst(d.Values[i], depth)
		}
	case hir.IfExpData:
		d.Cond = t.subst(d.Cond, depth)
		d.Then = t.subst(d.Then, depth)
		d.Else = t.subst(d.Else, depth)
		e.Data = d
	case hir.WrapData:
		d.Value = t.subst(d.Value, depth)
		e.Data = d
	case hir.FStringData:
		for i := range d.Parts {
			if d.Parts[i].Expr != nil {
				d.Parts[i].Expr = t.subst(d.Parts[i].Expr, depth)
			}
		}
	}
	return e
}
