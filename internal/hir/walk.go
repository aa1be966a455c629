package hir

// Visitor visits HIR nodes. VisitStmt and VisitExpr return false to prune
// the node's children.
type Visitor interface {
	VisitStmt(s *Stmt) bool
	VisitExpr(e *Expr) bool
}

// ScopeVisitor is an optional extension: a Visitor implementing it is
// notified when traversal enters and leaves a nested block scope.
type ScopeVisitor interface {
	EnterScope()
	ExitScope()
}

// WalkFunctions visits each function of the module once, in declaration
// order.
func WalkFunctions(m *Module, fn func(f *Func)) {
	for _, f := range m.Funcs {
		fn(f)
	}
}

// WalkStmts walks a statement list in order, recursing into nested blocks
// and expressions. Nested blocks are bracketed by scope notifications when
// the visitor implements ScopeVisitor.
func WalkStmts(body []*Stmt, v Visitor) {
	for _, s := range body {
		walkStmt(s, v)
	}
}

// WalkExprs walks every expression of one statement in evaluation order
// without descending into nested statement blocks.
func WalkExprs(s *Stmt, v Visitor) {
	visitStmtExprs(s, v)
}

// WalkExpr walks e and its sub-expressions in evaluation order.
func WalkExpr(e *Expr, v Visitor) {
	walkExpr(e, v)
}

func enterScope(v Visitor) {
	if sv, ok := v.(ScopeVisitor); ok {
		sv.EnterScope()
	}
}

func exitScope(v Visitor) {
	if sv, ok := v.(ScopeVisitor); ok {
		sv.ExitScope()
	}
}

func walkBlock(body []*Stmt, v Visitor) {
	enterScope(v)
	for _, s := range body {
		walkStmt(s, v)
	}
	exitScope(v)
}

func walkStmt(s *Stmt, v Visitor) {
	if s == nil || !v.VisitStmt(s) {
		return
	}
	visitStmtExprs(s, v)
	switch d := s.Data.(type) {
	case IfData:
		walkBlock(d.Then, v)
		if d.Else != nil {
			walkBlock(d.Else, v)
		}
	case WhileData:
		walkBlock(d.Body, v)
	case ForData:
		walkBlock(d.Body, v)
		if d.Else != nil {
			walkBlock(d.Else, v)
		}
	case WithData:
		walkBlock(d.Body, v)
	case TryData:
		walkBlock(d.Body, v)
		for _, h := range d.Handlers {
			walkBlock(h.Body, v)
		}
		if d.Else != nil {
			walkBlock(d.Else, v)
		}
		if d.Finally != nil {
			walkBlock(d.Finally, v)
		}
	case BlockData:
		walkBlock(d.Body, v)
	case FuncDefData:
		walkBlock(d.Func.Body, v)
	}
}

// visitStmtExprs walks the statement's own expressions in evaluation
// order. For assignments the value is evaluated before the target.
func visitStmtExprs(s *Stmt, v Visitor) {
	switch d := s.Data.(type) {
	case ExprStmtData:
		walkExpr(d.Expr, v)
	case AssignData:
		walkExpr(d.Value, v)
		walkExpr(d.Target, v)
	case AugAssignData:
		walkExpr(d.Value, v)
		walkExpr(d.Target, v)
	case ReturnData:
		walkExpr(d.Value, v)
	case IfData:
		walkExpr(d.Cond, v)
	case WhileData:
		walkExpr(d.Cond, v)
	case ForData:
		walkExpr(d.Iter, v)
		walkExpr(d.Target, v)
	case WithData:
		walkExpr(d.Context, v)
	case RaiseData:
		walkExpr(d.Exc, v)
		walkExpr(d.Cause, v)
	case AssertData:
		walkExpr(d.Test, v)
		walkExpr(d.Msg, v)
	}
}

func walkExpr(e *Expr, v Visitor) {
	if e == nil || !v.VisitExpr(e) {
		return
	}
	switch d := e.Data.(type) {
	case BinaryData:
		walkExpr(d.Left, v)
		walkExpr(d.Right, v)
	case UnaryData:
		walkExpr(d.Operand, v)
	case BoolOpData:
		for _, val := range d.Values {
			walkExpr(val, v)
		}
	case CompareData:
		for _, op := range d.Operands {
			walkExpr(op, v)
		}
	case CallData:
		for _, a := range d.Args {
			walkExpr(a, v)
		}
		for _, k := range d.Keywords {
			walkExpr(k.Value, v)
		}
	case MethodCallData:
		walkExpr(d.Receiver, v)
		for _, a := range d.Args {
			walkExpr(a, v)
		}
		for _, k := range d.Keywords {
			walkExpr(k.Value, v)
		}
	case DynCallData:
		walkExpr(d.Callee, v)
		for _, a := range d.Args {
			walkExpr(a, v)
		}
		for _, k := range d.Keywords {
			walkExpr(k.Value, v)
		}
	case IndexData:
		walkExpr(d.Object, v)
		walkExpr(d.Index, v)
	case SliceData:
		walkExpr(d.Object, v)
		walkExpr(d.Start, v)
		walkExpr(d.Stop, v)
		walkExpr(d.Step, v)
	case AttributeData:
		walkExpr(d.Object, v)
	case SequenceData:
		for _, el := range d.Elems {
			walkExpr(el, v)
		}
	case DictData:
		for i := range d.Values {
			if i < len(d.Keys) {
				walkExpr(d.Keys[i], v)
			}
			walkExpr(d.Values[i], v)
		}
	case CompData:
		enterScope(v)
		for _, c := range d.Clauses {
			walkExpr(c.Iter, v)
			walkExpr(c.Target, v)
			for _, cond := range c.Conds {
				walkExpr(cond, v)
			}
		}
		walkExpr(d.Elem, v)
		exitScope(v)
	case DictCompData:
		enterScope(v)
		for _, c := range d.Clauses {
			walkExpr(c.Iter, v)
			walkExpr(c.Target, v)
			for _, cond := range c.Conds {
				walkExpr(cond, v)
			}
		}
		walkExpr(d.Key, v)
		walkExpr(d.Value, v)
		exitScope(v)
	case LambdaData:
		walkExpr(d.Body, v)
	case IfExpData:
		walkExpr(d.Cond, v)
		walkExpr(d.Then, v)
		walkExpr(d.Else, v)
	case WrapData:
		walkExpr(d.Value, v)
	case FStringData:
		for _, p := range d.Parts {
			if p.Expr != nil {
				walkExpr(p.Expr, v)
			}
		}
	}
}
