package ownership

import "pyrite/internal/hir"

// evalExpr walks an expression in evaluation order, checking reads against
// the moved set and applying the move rules: bare variables in argument
// position and container-literal elements are consumed; index, attribute
// and slice bases are borrowed.
func (st *funcState) evalExpr(e *hir.Expr) {
	if e == nil {
		return
	}
	switch d := e.Data.(type) {
	case hir.VarData:
		st.useVar(d.Name, e.Span)

	case hir.LiteralData:
		// Nothing to track.

	case hir.BinaryData:
		st.evalExpr(d.Left)
		st.evalExpr(d.Right)

	case hir.UnaryData:
		st.evalExpr(d.Operand)

	case hir.BoolOpData:
		for _, v := range d.Values {
			st.evalExpr(v)
		}

	case hir.CompareData:
		for _, op := range d.Operands {
			st.evalExpr(op)
		}

	case hir.CallData:
		// Pure builtins like len read their arguments without taking them.
		borrows := st.calleeBorrows(d.Func) || hir.IsPureBuiltin(d.Func)
		for _, arg := range d.Args {
			st.evalArg(arg, borrows)
		}
		for _, k := range d.Keywords {
			st.evalArg(k.Value, borrows)
		}

	case hir.MethodCallData:
		st.evalReceiver(d.Receiver, d.Method)
		for _, arg := range d.Args {
			st.evalArg(arg, false)
		}
		for _, k := range d.Keywords {
			st.evalArg(k.Value, false)
		}

	case hir.DynCallData:
		st.evalExpr(d.Callee)
		for _, arg := range d.Args {
			st.evalArg(arg, false)
		}
		for _, k := range d.Keywords {
			st.evalArg(k.Value, false)
		}

	case hir.IndexData:
		st.evalBorrowBase(d.Object)
		st.evalExpr(d.Index)

	case hir.SliceData:
		st.evalBorrowBase(d.Object)
		st.evalExpr(d.Start)
		st.evalExpr(d.Stop)
		st.evalExpr(d.Step)

	case hir.AttributeData:
		st.evalBorrowBase(d.Object)

	case hir.SequenceData:
		for _, el := range d.Elems {
			st.evalElem(el)
		}

	case hir.DictData:
		for i := range d.Values {
			if i < len(d.Keys) && d.Keys[i] != nil {
				st.evalElem(d.Keys[i])
			}
			st.evalElem(d.Values[i])
		}

	case hir.CompData:
		for _, c := range d.Clauses {
			st.evalIterExpr(c.Iter)
			for _, name := range targetNames(c.Target) {
				delete(st.moved, name)
			}
			for _, cond := range c.Conds {
				st.evalExpr(cond)
			}
		}
		st.evalExpr(d.Elem)

	case hir.DictCompData:
		for _, c := range d.Clauses {
			st.evalIterExpr(c.Iter)
			for _, name := range targetNames(c.Target) {
				delete(st.moved, name)
			}
			for _, cond := range c.Conds {
				st.evalExpr(cond)
			}
		}
		st.evalExpr(d.Key)
		st.evalExpr(d.Value)

	case hir.LambdaData:
		// Lambda bodies capture by reference; reads inside are deferred
		// and not tracked against the current state.

	case hir.IfExpData:
		st.evalExpr(d.Cond)
		before := st.snapshot()
		st.evalExpr(d.Then)
		afterThen := st.snapshot()
		st.restore(before)
		st.evalExpr(d.Else)
		st.moved = mergeMoved(st.moved, afterThen)

	case hir.WrapData:
		st.evalExpr(d.Value)

	case hir.FStringData:
		for _, p := range d.Parts {
			if p.Expr != nil {
				st.evalExpr(p.Expr)
			}
		}
	}
}

// evalArg handles one call argument. A bare non-copy variable is moved
// unless the callee borrows; anything else is evaluated normally.
func (st *funcState) evalArg(arg *hir.Expr, calleeBorrows bool) {
	name := hir.VarName(arg)
	if name == "" {
		st.evalExpr(arg)
		return
	}
	st.useVar(name, arg.Span)
	if calleeBorrows || st.fn.VarType(name).IsCopy() {
		st.res.Borrows = append(st.res.Borrows, arg.Span)
		return
	}
	st.markMoved(name, arg.Span)
}

// evalElem handles one container-literal element: bare non-copy variables
// are consumed by the container.
func (st *funcState) evalElem(el *hir.Expr) {
	name := hir.VarName(el)
	if name == "" {
		st.evalExpr(el)
		return
	}
	st.useVar(name, el.Span)
	st.markMoved(name, el.Span)
}

// evalReceiver handles a method-call receiver: borrowed, mutably when the
// method mutates.
func (st *funcState) evalReceiver(recv *hir.Expr, method string) {
	name := hir.VarName(recv)
	if name == "" {
		st.evalExpr(recv)
		return
	}
	st.useVar(name, recv.Span)
	if hir.IsMutatingMethod(method) {
		st.res.MutBorrows = append(st.res.MutBorrows, recv.Span)
	} else {
		st.res.Borrows = append(st.res.Borrows, recv.Span)
	}
}

// evalBorrowBase handles the base of index/attribute/slice expressions.
func (st *funcState) evalBorrowBase(base *hir.Expr) {
	name := hir.VarName(base)
	if name == "" {
		st.evalExpr(base)
		return
	}
	st.useVar(name, base.Span)
	st.res.Borrows = append(st.res.Borrows, base.Span)
}

// evalIterExpr handles a loop iterator expression: a bare variable is
// borrowed for the duration of the loop, not moved.
func (st *funcState) evalIterExpr(iter *hir.Expr) {
	name := hir.VarName(iter)
	if name == "" {
		st.evalExpr(iter)
		return
	}
	st.useVar(name, iter.Span)
	st.res.Borrows = append(st.res.Borrows, iter.Span)
}
