package inline

import "pyrite/internal/hir"

// rewriteStmt deep-copies a statement, applying ren to every variable
// occurrence (assignment targets included) and subst to whole variables.
// Either may be nil.
func rewriteStmt(s *hir.Stmt, ren func(string) string, subst map[string]*hir.Expr) *hir.Stmt {
	if s == nil {
		return nil
	}
	out := &hir.Stmt{Kind: s.Kind, Span: s.Span}
	switch d := s.Data.(type) {
	case hir.ExprStmtData:
		out.Data = hir.ExprStmtData{Expr: rewriteExpr(d.Expr, ren, subst)}
	case hir.AssignData:
		out.Data = hir.AssignData{
			Target: rewriteExpr(d.Target, ren, subst),
			Value:  rewriteExpr(d.Value, ren, subst),
			Type:   d.Type,
		}
	case hir.AugAssignData:
		out.Data = hir.AugAssignData{
			Target: rewriteExpr(d.Target, ren, subst),
			Op:     d.Op,
			Value:  rewriteExpr(d.Value, ren, subst),
		}
	case hir.ReturnData:
		out.Data = hir.ReturnData{Value: rewriteExpr(d.Value, ren, subst)}
	case hir.IfData:
		out.Data = hir.IfData{
			Cond: rewriteExpr(d.Cond, ren, subst),
			Then: rewriteBodyWith(d.Then, ren, subst),
			Else: rewriteBodyWith(d.Else, ren, subst),
		}
	case hir.WhileData:
		out.Data = hir.WhileData{
			Cond: rewriteExpr(d.Cond, ren, subst),
			Body: rewriteBodyWith(d.Body, ren, subst),
		}
	case hir.ForData:
		out.Data = hir.ForData{
			Target: rewriteExpr(d.Target, ren, subst),
			Iter:   rewriteExpr(d.Iter, ren, subst),
			Body:   rewriteBodyWith(d.Body, ren, subst),
			Else:   rewriteBodyWith(d.Else, ren, subst),
		}
	case hir.WithData:
		binding := d.Binding
		if ren != nil && binding != "" {
			binding = ren(binding)
		}
		out.Data = hir.WithData{
			Context: rewriteExpr(d.Context, ren, subst),
			Binding: binding,
			Body:    rewriteBodyWith(d.Body, ren, subst),
			Async:   d.Async,
		}
	case hir.TryData:
		handlers := make([]hir.ExceptHandler, len(d.Handlers))
		for i, h := range d.Handlers {
			handlers[i] = hir.ExceptHandler{
				ExcType: h.ExcType,
				Binding: h.Binding,
				Body:    rewriteBodyWith(h.Body, ren, subst),
				Span:    h.Span,
			}
		}
		out.Data = hir.TryData{
			Body:     rewriteBodyWith(d.Body, ren, subst),
			Handlers: handlers,
			Else:     rewriteBodyWith(d.Else, ren, subst),
			Finally:  rewriteBodyWith(d.Finally, ren, subst),
		}
	case hir.RaiseData:
		out.Data = hir.RaiseData{
			Exc:   rewriteExpr(d.Exc, ren, subst),
			Cause: rewriteExpr(d.Cause, ren, subst),
		}
	case hir.AssertData:
		out.Data = hir.AssertData{
			Test: rewriteExpr(d.Test, ren, subst),
			Msg:  rewriteExpr(d.Msg, ren, subst),
		}
	case hir.BlockData:
		out.Data = hir.BlockData{Body: rewriteBodyWith(d.Body, ren, subst)}
	default:
		// Pass, break, continue and nested defs carry over untouched.
		out.Data = s.Data
	}
	return out
}

func rewriteBodyWith(body []*hir.Stmt, ren func(string) string, subst map[string]*hir.Expr) []*hir.Stmt {
	if body == nil {
		return nil
	}
	out := make([]*hir.Stmt, len(body))
	for i, s := range body {
		out[i] = rewriteStmt(s, ren, subst)
	}
	return out
}

// rewriteExpr deep-copies an expression. A variable found in subst is
// replaced by a copy of the bound expression; otherwise ren renames it.
func rewriteExpr(e *hir.Expr, ren func(string) string, subst map[string]*hir.Expr) *hir.Expr {
	if e == nil {
		return nil
	}
	out := &hir.Expr{Kind: e.Kind, Type: e.Type, Span: e.Span}
	switch d := e.Data.(type) {
	case hir.LiteralData:
		out.Data = d
	case hir.VarData:
		if repl, ok := subst[d.Name]; ok {
			return rewriteExpr(repl, nil, nil)
		}
		name := d.Name
		if ren != nil {
			name = ren(name)
		}
		out.Data = hir.VarData{Name: name}
	case hir.BinaryData:
		out.Data = hir.BinaryData{
			Op:    d.Op,
			Left:  rewriteExpr(d.Left, ren, subst),
			Right: rewriteExpr(d.Right, ren, subst),
		}
	case hir.UnaryData:
		out.Data = hir.UnaryData{Op: d.Op, Operand: rewriteExpr(d.Operand, ren, subst)}
	case hir.BoolOpData:
		out.Data = hir.BoolOpData{Op: d.Op, Values: rewriteExprs(d.Values, ren, subst)}
	case hir.CompareData:
		out.Data = hir.CompareData{
			Operands: rewriteExprs(d.Operands, ren, subst),
			Ops:      d.Ops,
		}
	case hir.CallData:
		out.Data = hir.CallData{
			Func:     d.Func,
			Args:     rewriteExprs(d.Args, ren, subst),
			Keywords: rewriteKeywords(d.Keywords, ren, subst),
		}
	case hir.MethodCallData:
		out.Data = hir.MethodCallData{
			Receiver: rewriteExpr(d.Receiver, ren, subst),
			Method:   d.Method,
			Args:     rewriteExprs(d.Args, ren, subst),
			Keywords: rewriteKeywords(d.Keywords, ren, subst),
		}
	case hir.DynCallData:
		out.Data = hir.DynCallData{
			Callee:   rewriteExpr(d.Callee, ren, subst),
			Args:     rewriteExprs(d.Args, ren, subst),
			Keywords: rewriteKeywords(d.Keywords, ren, subst),
		}
	case hir.IndexData:
		out.Data = hir.IndexData{
			Object: rewriteExpr(d.Object, ren, subst),
			Index:  rewriteExpr(d.Index, ren, subst),
		}
	case hir.SliceData:
		out.Data = hir.SliceData{
			Object: rewriteExpr(d.Object, ren, subst),
			Start:  rewriteExpr(d.Start, ren, subst),
			Stop:   rewriteExpr(d.Stop, ren, subst),
			Step:   rewriteExpr(d.Step, ren, subst),
		}
	case hir.AttributeData:
		out.Data = hir.AttributeData{Object: rewriteExpr(d.Object, ren, subst), Attr: d.Attr}
	case hir.SequenceData:
		out.Data = hir.SequenceData{Elems: rewriteExprs(d.Elems, ren, subst)}
	case hir.DictData:
		out.Data = hir.DictData{
			Keys:   rewriteExprs(d.Keys, ren, subst),
			Values: rewriteExprs(d.Values, ren, subst),
		}
	case hir.CompData:
		out.Data = hir.CompData{
			Container: d.Container,
			Elem:      rewriteExpr(d.Elem, ren, subst),
			Clauses:   rewriteClauses(d.Clauses, ren, subst),
		}
	case hir.DictCompData:
		out.Data = hir.DictCompData{
			Key:     rewriteExpr(d.Key, ren, subst),
			Value:   rewriteExpr(d.Value, ren, subst),
			Clauses: rewriteClauses(d.Clauses, ren, subst),
		}
	case hir.LambdaData:
		out.Data = hir.LambdaData{Params: d.Params, Body: rewriteExpr(d.Body, ren, subst)}
	case hir.IfExpData:
		out.Data = hir.IfExpData{
			Cond: rewriteExpr(d.Cond, ren, subst),
			Then: rewriteExpr(d.Then, ren, subst),
			Else: rewriteExpr(d.Else, ren, subst),
		}
	case hir.WrapData:
		out.Data = hir.WrapData{Value: rewriteExpr(d.Value, ren, subst), Name: d.Name}
	case hir.FStringData:
		parts := make([]hir.FStringPart, len(d.Parts))
		for i, p := range d.Parts {
			parts[i] = hir.FStringPart{Literal: p.Literal, Expr: rewriteExpr(p.Expr, ren, subst)}
		}
		out.Data = hir.FStringData{Parts: parts}
	default:
		out.Data = e.Data
	}
	return out
}

func rewriteExprs(in []*hir.Expr, ren func(string) string, subst map[string]*hir.Expr) []*hir.Expr {
	if in == nil {
		return nil
	}
	out := make([]*hir.Expr, len(in))
	for i, e := range in {
		out[i] = rewriteExpr(e, ren, subst)
	}
	return out
}

func rewriteKeywords(in []hir.Keyword, ren func(string) string, subst map[string]*hir.Expr) []hir.Keyword {
	if in == nil {
		return nil
	}
	out := make([]hir.Keyword, len(in))
	for i, k := range in {
		out[i] = hir.Keyword{Name: k.Name, Value: rewriteExpr(k.Value, ren, subst)}
	}
	return out
}

func rewriteClauses(in []hir.CompClause, ren func(string) string, subst map[string]*hir.Expr) []hir.CompClause {
	if in == nil {
		return nil
	}
	out := make([]hir.CompClause, len(in))
	for i, c := range in {
		out[i] = hir.CompClause{
			Target: rewriteExpr(c.Target, ren, subst),
			Iter:   rewriteExpr(c.Iter, ren, subst),
			Conds:  rewriteExprs(c.Conds, ren, subst),
		}
	}
	return out
}
