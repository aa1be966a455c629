package ownership

import (
	"fmt"

	"pyrite/internal/directive"
	"pyrite/internal/hir"
	"pyrite/internal/source"
	"pyrite/internal/types"
)

// Analyzer runs the ownership analysis over one module. Callee directives
// are resolved through the module, so borrowed-ownership functions do not
// consume their arguments.
type Analyzer struct {
	mod *hir.Module
}

// NewAnalyzer creates an analyzer for the module.
func NewAnalyzer(mod *hir.Module) *Analyzer {
	return &Analyzer{mod: mod}
}

// AnalyzeModule analyzes every function in declaration order.
func (a *Analyzer) AnalyzeModule() []*Result {
	out := make([]*Result, 0, len(a.mod.Funcs))
	hir.WalkFunctions(a.mod, func(f *hir.Func) {
		out = append(out, a.AnalyzeFunc(f))
	})
	return out
}

// AnalyzeFunc runs both sub-analyses over one function.
func (a *Analyzer) AnalyzeFunc(fn *hir.Func) *Result {
	st := &funcState{
		mod:   a.mod,
		fn:    fn,
		res:   &Result{Function: fn.Name},
		moved: make(map[string]source.Span),
	}
	st.analyzeBody(fn.Body)
	return st.res
}

// funcState is the abstract state for one function walk.
type funcState struct {
	mod *hir.Module
	fn  *hir.Func
	res *Result

	// moved maps a binding to the span of the move that consumed it.
	moved map[string]source.Span
	// conts is the continuation stack: for each enclosing body, the
	// statements that still follow the one being analyzed. Innermost last.
	conts [][]*hir.Stmt

	loopDepth int
	// loopMoved tracks bindings moved inside the innermost loop body, to
	// detect moves that repeat on the second iteration.
	loopMoved map[string]source.Span
}

func (st *funcState) analyzeBody(body []*hir.Stmt) {
	st.conts = append(st.conts, nil)
	top := len(st.conts) - 1
	for i, s := range body {
		st.conts[top] = body[i+1:]
		st.analyzeStmt(s)
	}
	st.conts = st.conts[:top]
}

func (st *funcState) analyzeStmt(s *hir.Stmt) {
	switch d := s.Data.(type) {
	case hir.ExprStmtData:
		st.evalExpr(d.Expr)

	case hir.AssignData:
		st.analyzeAssign(s, &d)

	case hir.AugAssignData:
		st.evalExpr(d.Value)
		if name := hir.VarName(d.Target); name != "" {
			st.useVar(name, d.Target.Span)
			st.res.MutBorrows = append(st.res.MutBorrows, d.Target.Span)
		} else {
			st.evalLValueBase(d.Target)
		}

	case hir.ReturnData:
		if d.Value == nil {
			return
		}
		if name := hir.VarName(d.Value); name != "" {
			// return moves any variable directly named by the expression.
			st.useVar(name, d.Value.Span)
			st.markMoved(name, d.Value.Span)
			return
		}
		st.evalExpr(d.Value)

	case hir.IfData:
		st.evalExpr(d.Cond)
		before := st.snapshot()
		st.analyzeBody(d.Then)
		afterThen := st.snapshot()
		st.restore(before)
		if d.Else != nil {
			st.analyzeBody(d.Else)
		}
		// Branch join: pessimistic union of both arms.
		st.moved = mergeMoved(st.moved, afterThen)

	case hir.WhileData:
		st.evalExpr(d.Cond)
		st.analyzeLoopBody(d.Body, nil)

	case hir.ForData:
		st.evalIterExpr(d.Iter)
		// Loop targets are rebound every iteration; they are never moved
		// by the iterator position.
		rebound := targetNames(d.Target)
		for _, name := range rebound {
			delete(st.moved, name)
		}
		st.analyzeLoopBody(d.Body, rebound)
		if d.Else != nil {
			st.analyzeBody(d.Else)
		}

	case hir.WithData:
		st.evalExpr(d.Context)
		if d.Binding != "" {
			delete(st.moved, d.Binding)
		}
		st.analyzeBody(d.Body)

	case hir.TryData:
		before := st.snapshot()
		st.analyzeBody(d.Body)
		joined := st.snapshot()
		for _, h := range d.Handlers {
			st.restore(before)
			if h.Binding != "" {
				delete(st.moved, h.Binding)
			}
			st.analyzeBody(h.Body)
			joined = mergeMoved(joined, st.moved)
		}
		st.restore(joined)
		if d.Else != nil {
			st.analyzeBody(d.Else)
		}
		if d.Finally != nil {
			st.analyzeBody(d.Finally)
		}

	case hir.RaiseData:
		st.evalExpr(d.Exc)
		st.evalExpr(d.Cause)

	case hir.AssertData:
		st.evalExpr(d.Test)
		st.evalExpr(d.Msg)

	case hir.BlockData:
		st.analyzeBody(d.Body)

	case hir.FuncDefData:
		// Nested functions get their own analysis pass; their bodies do
		// not touch this function's state.
	}
}

// analyzeLoopBody runs the body once and reaches the fixpoint in one
// pass: a binding the body moves is a violation only when the next
// iteration would read it before rebinding it. Names in rebound are
// refreshed at every iteration entry and never carry a stale move.
func (st *funcState) analyzeLoopBody(body []*hir.Stmt, rebound []string) {
	st.loopDepth++
	outerLoopMoved := st.loopMoved
	st.loopMoved = make(map[string]source.Span)

	st.analyzeBody(body)

	for name, sp := range st.loopMoved {
		if containsName(rebound, name) {
			continue
		}
		if _, still := st.moved[name]; !still {
			continue // reset by the body before the next iteration
		}
		if !readBeforeRebind(body, name) {
			continue
		}
		st.res.Violations = append(st.res.Violations, Violation{
			Kind:     MoveInLoop,
			Variable: name,
			Span:     sp,
			Message:  fmt.Sprintf("value %q is moved inside the loop body and used again on the next iteration", name),
		})
	}

	st.loopMoved = outerLoopMoved
	st.loopDepth--
}

func (st *funcState) analyzeAssign(s *hir.Stmt, d *hir.AssignData) {
	targetName := hir.VarName(d.Target)
	sourceName := hir.VarName(d.Value)

	// b = a between two bare names is the aliasing case.
	if targetName != "" && sourceName != "" {
		st.useVar(sourceName, d.Value.Span)
		delete(st.moved, targetName)

		if st.fn.VarType(sourceName).IsCopy() {
			return
		}
		srcUsed := st.usedLater(sourceName)
		aliasUsed := st.usedLater(targetName)
		switch {
		case srcUsed && aliasUsed:
			st.res.Aliases = append(st.res.Aliases, AliasingPattern{
				Source:          sourceName,
				Alias:           targetName,
				SourceUsedAfter: true,
				AliasUsedAfter:  true,
				Span:            s.Span,
			})
			st.res.Clones = append(st.res.Clones, s.Span)
		case aliasUsed:
			// Only the alias lives on: the source is logically moved.
			st.markMoved(sourceName, s.Span)
		case srcUsed:
			st.res.Dead = append(st.res.Dead, DeadAssign{Alias: targetName, Span: s.Span})
		default:
			st.markMoved(sourceName, s.Span)
		}
		return
	}

	if d.Value != nil {
		// Assigning a bare variable into a field moves it unless the
		// field type is copy-like.
		if attr, ok := d.Target.Data.(hir.AttributeData); ok && sourceName != "" {
			st.useVar(sourceName, d.Value.Span)
			fieldCopy := false
			if base := hir.VarName(attr.Object); base != "" {
				t := st.fn.VarType(base)
				if t.Kind == types.Custom {
					if ft, ok := st.mod.FieldType(t.Name, attr.Attr); ok {
						fieldCopy = ft.IsCopy()
					}
				}
				st.res.MutBorrows = append(st.res.MutBorrows, attr.Object.Span)
			}
			if !fieldCopy && !st.fn.VarType(sourceName).IsCopy() {
				st.markMoved(sourceName, d.Value.Span)
			}
		} else {
			st.evalExpr(d.Value)
		}
	}

	if targetName != "" {
		// Reassigning a name clears any prior moved mark.
		delete(st.moved, targetName)
		return
	}
	st.evalLValueBase(d.Target)
}

// evalLValueBase handles index/attribute/tuple assignment targets: the
// base is written through, which is a mutable borrow.
func (st *funcState) evalLValueBase(target *hir.Expr) {
	if target == nil {
		return
	}
	switch d := target.Data.(type) {
	case hir.IndexData:
		if name := hir.VarName(d.Object); name != "" {
			st.useVar(name, d.Object.Span)
			st.res.MutBorrows = append(st.res.MutBorrows, d.Object.Span)
		} else {
			st.evalExpr(d.Object)
		}
		st.evalExpr(d.Index)
	case hir.AttributeData:
		if name := hir.VarName(d.Object); name != "" {
			st.useVar(name, d.Object.Span)
			st.res.MutBorrows = append(st.res.MutBorrows, d.Object.Span)
		} else {
			st.evalExpr(d.Object)
		}
	case hir.SequenceData:
		for _, el := range d.Elems {
			if name := hir.VarName(el); name != "" {
				delete(st.moved, name)
			} else {
				st.evalLValueBase(el)
			}
		}
	}
}

func (st *funcState) snapshot() map[string]source.Span {
	out := make(map[string]source.Span, len(st.moved))
	for k, v := range st.moved {
		out[k] = v
	}
	return out
}

func (st *funcState) restore(snap map[string]source.Span) {
	st.moved = make(map[string]source.Span, len(snap))
	for k, v := range snap {
		st.moved[k] = v
	}
}

func mergeMoved(a, b map[string]source.Span) map[string]source.Span {
	out := make(map[string]source.Span, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		if _, exists := out[k]; !exists {
			out[k] = v
		}
	}
	return out
}

// useVar checks a read of a binding against the moved set.
func (st *funcState) useVar(name string, sp source.Span) {
	if _, moved := st.moved[name]; !moved {
		return
	}
	st.res.Violations = append(st.res.Violations, Violation{
		Kind:     UseAfterMove,
		Variable: name,
		Span:     sp,
		Message:  fmt.Sprintf("use of moved value %q", name),
	})
}

// markMoved records a move of a non-copy binding.
func (st *funcState) markMoved(name string, sp source.Span) {
	if st.fn.VarType(name).IsCopy() {
		return
	}
	if _, exists := st.moved[name]; !exists {
		st.moved[name] = sp
	}
	if st.loopDepth > 0 {
		if _, exists := st.loopMoved[name]; !exists {
			st.loopMoved[name] = sp
		}
	}
}

// calleeBorrows reports whether the named function declares borrowed
// parameter ownership.
func (st *funcState) calleeBorrows(name string) bool {
	callee := st.mod.FindFunc(name)
	return callee != nil && callee.Directive.Ownership == directive.OwnershipBorrowed
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// targetNames flattens a loop target pattern into its bound names.
func targetNames(target *hir.Expr) []string {
	if target == nil {
		return nil
	}
	if name := hir.VarName(target); name != "" {
		return []string{name}
	}
	if seq, ok := target.Data.(hir.SequenceData); ok {
		var names []string
		for _, el := range seq.Elems {
			names = append(names, targetNames(el)...)
		}
		return names
	}
	return nil
}
