package inline

import "pyrite/internal/hir"

func computeMetrics(fn *hir.Func, g *callGraph) Metrics {
	m := Metrics{
		Size:           bodySize(fn.Body),
		ParamCount:     len(fn.Params),
		ReturnCount:    countReturns(fn.Body),
		HasLoops:       containsLoops(fn.Body),
		HasSideEffects: funcHasSideEffects(fn),
		IsTrivial:      isTrivial(fn),
		CallCount:      g.callCount(fn.Name),
	}
	m.Cost = estimateCost(m)
	return m
}

// estimateCost models the execution cost the caller saves per call.
func estimateCost(m Metrics) float64 {
	cost := float64(m.Size)
	if m.HasLoops {
		cost *= 10.0
	}
	if m.HasSideEffects {
		cost *= 2.0
	}
	if m.ReturnCount > 1 {
		cost *= 1.0 + float64(m.ReturnCount)*0.2
	}
	cost += float64(m.ParamCount) * 0.5
	return cost
}

// isTrivial reports whether the body is a single return statement.
func isTrivial(fn *hir.Func) bool {
	return len(fn.Body) == 1 && fn.Body[0].Kind == hir.StmtReturn
}

func bodySize(body []*hir.Stmt) int {
	size := 0
	for _, s := range body {
		size += stmtSize(s)
	}
	return size
}

func stmtSize(s *hir.Stmt) int {
	switch d := s.Data.(type) {
	case hir.ExprStmtData:
		return exprSize(d.Expr)
	case hir.AssignData:
		return 1 + exprSize(d.Value)
	case hir.AugAssignData:
		return 1 + exprSize(d.Value)
	case hir.ReturnData:
		if d.Value == nil {
			return 1
		}
		return 1 + exprSize(d.Value)
	case hir.IfData:
		size := 1 + exprSize(d.Cond) + bodySize(d.Then)
		if d.Else != nil {
			size += bodySize(d.Else)
		}
		return size
	case hir.WhileData:
		return 1 + exprSize(d.Cond) + bodySize(d.Body)
	case hir.ForData:
		return 1 + exprSize(d.Iter) + bodySize(d.Body) + bodySize(d.Else)
	case hir.BlockData:
		return bodySize(d.Body)
	default:
		return 1
	}
}

func exprSize(e *hir.Expr) int {
	if e == nil {
		return 0
	}
	switch d := e.Data.(type) {
	case hir.BinaryData:
		return 1 + exprSize(d.Left) + exprSize(d.Right)
	case hir.UnaryData:
		return 1 + exprSize(d.Operand)
	case hir.CallData:
		size := 1
		for _, a := range d.Args {
			size += exprSize(a)
		}
		return size
	case hir.SequenceData:
		size := 1
		for _, el := range d.Elems {
			size += exprSize(el)
		}
		return size
	case hir.DictData:
		size := 1
		for i := range d.Values {
			if i < len(d.Keys) {
				size += exprSize(d.Keys[i])
			}
			size += exprSize(d.Values[i])
		}
		return size
	default:
		return 1
	}
}

func countReturns(body []*hir.Stmt) int {
	count := 0
	for _, s := range body {
		switch d := s.Data.(type) {
		case hir.ReturnData:
			count++
		case hir.IfData:
			count += countReturns(d.Then)
			count += countReturns(d.Else)
		case hir.WhileData:
			count += countReturns(d.Body)
		case hir.ForData:
			count += countReturns(d.Body)
			count += countReturns(d.Else)
		case hir.BlockData:
			count += countReturns(d.Body)
		}
	}
	return count
}

func containsLoops(body []*hir.Stmt) bool {
	for _, s := range body {
		if s.Kind == hir.StmtWhile || s.Kind == hir.StmtFor {
			return true
		}
		switch d := s.Data.(type) {
		case hir.IfData:
			if containsLoops(d.Then) || containsLoops(d.Else) {
				return true
			}
		case hir.BlockData:
			if containsLoops(d.Body) {
				return true
			}
		}
	}
	return false
}

// sideEffectMethods extends the mutating set with methods the inliner
// treats as effects even though the builder does not.
var sideEffectMethods = map[string]struct{}{
	"insert": {},
	"update": {},
	"write":  {},
}

func funcHasSideEffects(fn *hir.Func) bool {
	if fn.Props.HasSideEffects {
		return true
	}
	return bodyHasSideEffects(fn.Body)
}

func bodyHasSideEffects(body []*hir.Stmt) bool {
	for _, s := range body {
		if stmtHasSideEffects(s) {
			return true
		}
	}
	return false
}

func stmtHasSideEffects(s *hir.Stmt) bool {
	switch d := s.Data.(type) {
	case hir.ExprStmtData:
		return exprHasSideEffects(d.Expr)
	case hir.AssignData:
		return exprHasSideEffects(d.Value)
	case hir.AugAssignData:
		return exprHasSideEffects(d.Value)
	case hir.ReturnData:
		return exprHasSideEffects(d.Value)
	case hir.IfData:
		return exprHasSideEffects(d.Cond) || bodyHasSideEffects(d.Then) || bodyHasSideEffects(d.Else)
	case hir.WhileData:
		return exprHasSideEffects(d.Cond) || bodyHasSideEffects(d.Body)
	case hir.ForData:
		return exprHasSideEffects(d.Iter) || bodyHasSideEffects(d.Body) || bodyHasSideEffects(d.Else)
	case hir.RaiseData:
		return true
	case hir.BlockData:
		return bodyHasSideEffects(d.Body)
	default:
		return false
	}
}

func exprHasSideEffects(e *hir.Expr) bool {
	if e == nil {
		return false
	}
	switch d := e.Data.(type) {
	case hir.CallData:
		if !hir.IsPureBuiltin(d.Func) {
			return true
		}
		for _, a := range d.Args {
			if exprHasSideEffects(a) {
				return true
			}
		}
		return false
	case hir.MethodCallData:
		if hir.IsMutatingMethod(d.Method) {
			return true
		}
		if _, ok := sideEffectMethods[d.Method]; ok {
			return true
		}
		return exprHasSideEffects(d.Receiver)
	case hir.BinaryData:
		return exprHasSideEffects(d.Left) || exprHasSideEffects(d.Right)
	case hir.UnaryData:
		return exprHasSideEffects(d.Operand)
	case hir.SequenceData:
		for _, el := range d.Elems {
			if exprHasSideEffects(el) {
				return true
			}
		}
		return false
	case hir.DictData:
		for i := range d.Values {
			if i < len(d.Keys) && exprHasSideEffects(d.Keys[i]) {
				return true
			}
			if exprHasSideEffects(d.Values[i]) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
