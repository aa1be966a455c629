package pyast

// Visitor receives nodes during a walk. Either callback may be nil.
// VisitStmt returning false prunes the statement's children.
type Visitor struct {
	VisitStmt func(s *Stmt) bool
	VisitExpr func(e *Expr)
}

// Walk traverses the module body in source order, statements before their
// children, expressions in evaluation order.
func Walk(m *Module, v Visitor) {
	WalkStmts(m.Body, v)
}

// WalkStmts traverses a statement list in order.
func WalkStmts(body []*Stmt, v Visitor) {
	for _, s := range body {
		walkStmt(s, v)
	}
}

func walkStmt(s *Stmt, v Visitor) {
	if s == nil {
		return
	}
	if v.VisitStmt != nil && !v.VisitStmt(s) {
		return
	}
	switch d := s.Data.(type) {
	case ExprStmtData:
		WalkExpr(d.Value, v)
	case AssignData:
		WalkExpr(d.Value, v)
		for _, t := range d.Targets {
			WalkExpr(t, v)
		}
	case AugAssignData:
		WalkExpr(d.Target, v)
		WalkExpr(d.Value, v)
	case ReturnData:
		WalkExpr(d.Value, v)
	case IfData:
		WalkExpr(d.Cond, v)
		WalkStmts(d.Then, v)
		WalkStmts(d.Else, v)
	case WhileData:
		WalkExpr(d.Cond, v)
		WalkStmts(d.Body, v)
		WalkStmts(d.Else, v)
	case ForData:
		WalkExpr(d.Iter, v)
		WalkExpr(d.Target, v)
		WalkStmts(d.Body, v)
		WalkStmts(d.Else, v)
	case WithData:
		for _, item := range d.Items {
			WalkExpr(item.Context, v)
		}
		WalkStmts(d.Body, v)
	case TryData:
		WalkStmts(d.Body, v)
		for _, h := range d.Handlers {
			WalkStmts(h.Body, v)
		}
		WalkStmts(d.Else, v)
		WalkStmts(d.Finally, v)
	case RaiseData:
		WalkExpr(d.Exc, v)
		WalkExpr(d.Cause, v)
	case AssertData:
		WalkExpr(d.Test, v)
		WalkExpr(d.Msg, v)
	case FunctionDefData:
		for _, p := range d.Params {
			WalkExpr(p.Default, v)
		}
		WalkStmts(d.Body, v)
	case ClassDefData:
		WalkStmts(d.Body, v)
	case NamesData:
		for _, e := range d.Exprs {
			WalkExpr(e, v)
		}
	}
}

// WalkExpr traverses an expression tree in evaluation order.
func WalkExpr(e *Expr, v Visitor) {
	if e == nil {
		return
	}
	if v.VisitExpr != nil {
		v.VisitExpr(e)
	}
	switch d := e.Data.(type) {
	case BinaryData:
		WalkExpr(d.Left, v)
		WalkExpr(d.Right, v)
	case UnaryData:
		WalkExpr(d.Operand, v)
	case BoolOpData:
		for _, val := range d.Values {
			WalkExpr(val, v)
		}
	case CompareData:
		for _, op := range d.Operands {
			WalkExpr(op, v)
		}
	case CallData:
		WalkExpr(d.Func, v)
		for _, a := range d.Args {
			WalkExpr(a, v)
		}
		for _, kw := range d.Keywords {
			WalkExpr(kw.Value, v)
		}
	case AttributeData:
		WalkExpr(d.Value, v)
	case SubscriptData:
		WalkExpr(d.Value, v)
		WalkExpr(d.Index, v)
	case SliceData:
		WalkExpr(d.Start, v)
		WalkExpr(d.Stop, v)
		WalkExpr(d.Step, v)
	case SequenceData:
		for _, el := range d.Elems {
			WalkExpr(el, v)
		}
	case DictData:
		for i := range d.Values {
			if i < len(d.Keys) {
				WalkExpr(d.Keys[i], v)
			}
			WalkExpr(d.Values[i], v)
		}
	case CompData:
		for _, g := range d.Generators {
			WalkExpr(g.Iter, v)
			WalkExpr(g.Target, v)
			for _, c := range g.Conds {
				WalkExpr(c, v)
			}
		}
		WalkExpr(d.Elem, v)
	case DictCompData:
		for _, g := range d.Generators {
			WalkExpr(g.Iter, v)
			WalkExpr(g.Target, v)
			for _, c := range g.Conds {
				WalkExpr(c, v)
			}
		}
		WalkExpr(d.Key, v)
		WalkExpr(d.Value, v)
	case LambdaData:
		for _, p := range d.Params {
			WalkExpr(p.Default, v)
		}
		WalkExpr(d.Body, v)
	case IfExpData:
		WalkExpr(d.Test, v)
		WalkExpr(d.Body, v)
		WalkExpr(d.Orelse, v)
	case UnaryExprData:
		WalkExpr(d.Value, v)
	case FStringData:
		for _, p := range d.Parts {
			WalkExpr(p.Expr, v)
		}
	}
}
