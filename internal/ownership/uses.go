package ownership

import "pyrite/internal/hir"

// usedLater reports whether the binding is read anywhere in the remainder
// of the enclosing scopes, innermost first. A bare rebind of the name is
// not a read; reads through index or attribute bases are.
func (st *funcState) usedLater(name string) bool {
	for i := len(st.conts) - 1; i >= 0; i-- {
		if readsName(st.conts[i], name) {
			return true
		}
	}
	return false
}

func readsName(body []*hir.Stmt, name string) bool {
	for _, s := range body {
		if stmtReadsName(s, name) {
			return true
		}
	}
	return false
}

// readBeforeRebind reports whether the body reads the name before any
// statement rebinds it. A loop body that refreshes a binding at the top
// protects the next iteration from the move at the bottom.
func readBeforeRebind(body []*hir.Stmt, name string) bool {
	for _, s := range body {
		if stmtReadsName(s, name) {
			return true
		}
		if rebindsName(s, name) {
			return false
		}
	}
	return false
}

func rebindsName(s *hir.Stmt, name string) bool {
	switch d := s.Data.(type) {
	case hir.AssignData:
		return hir.VarName(d.Target) == name
	case hir.ForData:
		for _, bound := range targetNames(d.Target) {
			if bound == name {
				return true
			}
		}
	case hir.WithData:
		return d.Binding == name
	}
	return false
}

func stmtReadsName(s *hir.Stmt, name string) bool {
	switch d := s.Data.(type) {
	case hir.ExprStmtData:
		return exprReadsName(d.Expr, name)
	case hir.AssignData:
		if exprReadsName(d.Value, name) {
			return true
		}
		// A bare rebind hides the old value; writing through an index or
		// attribute reads the base.
		if hir.VarName(d.Target) == "" {
			return exprReadsName(d.Target, name)
		}
		return false
	case hir.AugAssignData:
		return exprReadsName(d.Target, name) || exprReadsName(d.Value, name)
	case hir.ReturnData:
		return exprReadsName(d.Value, name)
	case hir.IfData:
		return exprReadsName(d.Cond, name) || readsName(d.Then, name) || readsName(d.Else, name)
	case hir.WhileData:
		return exprReadsName(d.Cond, name) || readsName(d.Body, name)
	case hir.ForData:
		if exprReadsName(d.Iter, name) {
			return true
		}
		for _, bound := range targetNames(d.Target) {
			if bound == name {
				// Shadowed by the loop target for the body's scope.
				return readsName(d.Else, name)
			}
		}
		return readsName(d.Body, name) || readsName(d.Else, name)
	case hir.WithData:
		if exprReadsName(d.Context, name) {
			return true
		}
		if d.Binding == name {
			return false
		}
		return readsName(d.Body, name)
	case hir.TryData:
		if readsName(d.Body, name) || readsName(d.Else, name) || readsName(d.Finally, name) {
			return true
		}
		for _, h := range d.Handlers {
			if readsName(h.Body, name) {
				return true
			}
		}
		return false
	case hir.RaiseData:
		return exprReadsName(d.Exc, name) || exprReadsName(d.Cause, name)
	case hir.AssertData:
		return exprReadsName(d.Test, name) || exprReadsName(d.Msg, name)
	case hir.BlockData:
		return readsName(d.Body, name)
	case hir.FuncDefData:
		// A nested function capturing the name keeps it alive.
		return readsName(d.Func.Body, name)
	}
	return false
}

func exprReadsName(e *hir.Expr, name string) bool {
	if e == nil {
		return false
	}
	found := false
	hir.WalkExpr(e, readScan{name: &name, found: &found})
	return found
}

type readScan struct {
	name  *string
	found *bool
}

func (r readScan) VisitStmt(*hir.Stmt) bool { return !*r.found }

func (r readScan) VisitExpr(e *hir.Expr) bool {
	if *r.found {
		return false
	}
	if hir.VarName(e) == *r.name {
		*r.found = true
		return false
	}
	return true
}
