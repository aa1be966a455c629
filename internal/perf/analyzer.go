package perf

import (
	"fmt"
	"sort"

	"pyrite/internal/diag"
	"pyrite/internal/hir"
	"pyrite/internal/source"
	"pyrite/internal/types"
)

// expensiveFuncs are calls worth hoisting out of loops.
var expensiveFuncs = map[string]struct{}{
	"sorted":   {},
	"sort":     {},
	"reverse":  {},
	"compile":  {},
	"eval":     {},
	"exec":     {},
	"deepcopy": {},
	"copy":     {},
	"hash":     {},
	"checksum": {},
}

var aggregateFuncs = map[string]struct{}{
	"sum": {},
	"min": {},
	"max": {},
}

// Analyzer walks HIR tracking loop depth and collects warnings.
type Analyzer struct {
	fs  *source.FileSet
	cfg Config

	fn        *hir.Func
	file      source.FileID
	loopDepth int
	warnings  []Warning
}

// NewAnalyzer creates an analyzer. The file set resolves warning lines.
func NewAnalyzer(fs *source.FileSet, cfg Config) *Analyzer {
	return &Analyzer{fs: fs, cfg: cfg}
}

// Analyze collects warnings for every function, ordered by severity
// descending and location within equal severities.
func (a *Analyzer) Analyze(mod *hir.Module) []Warning {
	a.warnings = nil
	a.file = mod.File
	hir.WalkFunctions(mod, func(fn *hir.Func) {
		a.fn = fn
		a.loopDepth = 0
		a.checkParams(fn)
		a.analyzeBody(fn.Body)
	})
	sort.SliceStable(a.warnings, func(i, j int) bool {
		if a.warnings[i].Severity != a.warnings[j].Severity {
			return a.warnings[i].Severity > a.warnings[j].Severity
		}
		return a.warnings[i].Span.Start < a.warnings[j].Span.Start
	})
	return a.warnings
}

func (a *Analyzer) add(w Warning) {
	w.Location.Function = a.fn.Name
	w.Location.Line = a.fs.ResolveOffset(a.file, w.Span.Start).Line
	w.Location.InLoop = a.loopDepth > 0
	w.Location.LoopDepth = a.loopDepth
	w.Impact.InHotPath = a.loopDepth > 0
	a.warnings = append(a.warnings, w)
}

// checkParams flags large values passed by copy.
func (a *Analyzer) checkParams(fn *hir.Func) {
	if !a.cfg.WarnAllocations {
		return
	}
	for _, p := range fn.Params {
		if p.Name == "self" || !isLargeType(p.Type) {
			continue
		}
		a.add(Warning{
			Category:    MemoryAllocation,
			Severity:    Medium,
			Code:        diag.PerfLargeCopyParam,
			Message:     fmt.Sprintf("large value %q passed by copy", p.Name),
			Explanation: "passing large values by copy is inefficient",
			Suggestion:  "pass by reference or share ownership for large types",
			Impact:      Impact{Complexity: "O(n)", ScalesWithInput: true},
			Span:        p.Span,
		})
	}
}

func isLargeType(t types.Type) bool {
	switch t.Kind {
	case types.List, types.Dict, types.String, types.Custom:
		return true
	default:
		return false
	}
}

func (a *Analyzer) analyzeBody(body []*hir.Stmt) {
	for _, s := range body {
		a.analyzeStmt(s)
	}
}

func (a *Analyzer) analyzeStmt(s *hir.Stmt) {
	switch d := s.Data.(type) {
	case hir.ForData:
		a.enterLoop(s)
		a.checkIterPattern(d.Iter, s)
		a.analyzeExpr(d.Iter, s)
		a.analyzeBody(d.Body)
		a.loopDepth--
		a.analyzeBody(d.Else)

	case hir.WhileData:
		a.enterLoop(s)
		a.analyzeExpr(d.Cond, s)
		a.analyzeBody(d.Body)
		a.loopDepth--

	case hir.AssignData:
		a.analyzeExpr(d.Value, s)
		if a.loopDepth > 0 && a.cfg.WarnStringConcat && isStringConcat(d.Value) {
			a.warnStringConcat(s)
		}

	case hir.AugAssignData:
		a.analyzeExpr(d.Value, s)
		if a.loopDepth > 0 && a.cfg.WarnStringConcat && d.Op == "+" {
			if name := hir.VarName(d.Target); name != "" && a.fn.VarType(name).Kind == types.String {
				a.warnStringConcat(s)
			}
		}

	case hir.ExprStmtData:
		a.analyzeExpr(d.Expr, s)

	case hir.ReturnData:
		a.analyzeExpr(d.Value, s)

	case hir.IfData:
		a.analyzeExpr(d.Cond, s)
		a.analyzeBody(d.Then)
		a.analyzeBody(d.Else)

	case hir.WithData:
		a.analyzeExpr(d.Context, s)
		a.analyzeBody(d.Body)

	case hir.TryData:
		a.analyzeBody(d.Body)
		for _, h := range d.Handlers {
			a.analyzeBody(h.Body)
		}
		a.analyzeBody(d.Else)
		a.analyzeBody(d.Finally)

	case hir.BlockData:
		a.analyzeBody(d.Body)
	}
}

// enterLoop bumps the depth and flags nesting beyond the threshold.
func (a *Analyzer) enterLoop(s *hir.Stmt) {
	a.loopDepth++
	if !a.cfg.WarnAlgorithms || a.loopDepth <= a.cfg.MaxLoopDepth {
		return
	}
	a.add(Warning{
		Category:    AlgorithmComplexity,
		Severity:    High,
		Code:        diag.PerfDeepNesting,
		Message:     fmt.Sprintf("deeply nested loops (depth: %d)", a.loopDepth),
		Explanation: "deeply nested loops can lead to exponential time complexity",
		Suggestion:  "refactor to reduce nesting or use a more efficient algorithm",
		Impact:      Impact{Complexity: fmt.Sprintf("O(n^%d)", a.loopDepth), ScalesWithInput: true},
		Span:        s.Span,
	})
}

func (a *Analyzer) warnStringConcat(s *hir.Stmt) {
	a.add(Warning{
		Category:    StringPerformance,
		Severity:    High,
		Code:        diag.PerfStringConcat,
		Message:     "string concatenation in loop",
		Explanation: "string concatenation in loops creates many intermediate strings",
		Suggestion:  "accumulate parts and join once after the loop",
		Impact:      Impact{Complexity: "O(n²)", ScalesWithInput: true},
		Span:        s.Span,
	})
}

// isStringConcat matches the `x = a + b` shape with a variable operand.
func isStringConcat(e *hir.Expr) bool {
	if e == nil {
		return false
	}
	d, ok := e.Data.(hir.BinaryData)
	if !ok || d.Op != "+" {
		return false
	}
	return hir.VarName(d.Left) != "" || hir.VarName(d.Right) != ""
}

func (a *Analyzer) analyzeExpr(e *hir.Expr, s *hir.Stmt) {
	if e == nil {
		return
	}
	switch d := e.Data.(type) {
	case hir.BinaryData:
		a.analyzeExpr(d.Left, s)
		a.analyzeExpr(d.Right, s)
		if d.Op == "**" && a.loopDepth > 0 && a.cfg.WarnRedundant {
			a.add(Warning{
				Category:    RedundantComputation,
				Severity:    Medium,
				Code:        diag.PerfPowerInLoop,
				Message:     "power operation in loop",
				Explanation: "power operations are computationally expensive",
				Suggestion:  "cache the result if the operands do not change",
				Impact:      Impact{Complexity: "O(log n) per operation"},
				Span:        e.Span,
			})
		}

	case hir.UnaryData:
		a.analyzeExpr(d.Operand, s)

	case hir.BoolOpData:
		for _, v := range d.Values {
			a.analyzeExpr(v, s)
		}

	case hir.CompareData:
		for _, op := range d.Operands {
			a.analyzeExpr(op, s)
		}

	case hir.CallData:
		a.checkCall(d, e)
		for _, arg := range d.Args {
			a.analyzeExpr(arg, s)
		}
		for _, k := range d.Keywords {
			a.analyzeExpr(k.Value, s)
		}

	case hir.MethodCallData:
		a.analyzeExpr(d.Receiver, s)
		a.checkMethod(d, e)
		for _, arg := range d.Args {
			a.analyzeExpr(arg, s)
		}

	case hir.DynCallData:
		a.analyzeExpr(d.Callee, s)
		for _, arg := range d.Args {
			a.analyzeExpr(arg, s)
		}

	case hir.IndexData:
		a.analyzeExpr(d.Object, s)
		a.analyzeExpr(d.Index, s)

	case hir.SliceData:
		a.analyzeExpr(d.Object, s)
		a.analyzeExpr(d.Start, s)
		a.analyzeExpr(d.Stop, s)
		a.analyzeExpr(d.Step, s)

	case hir.AttributeData:
		a.analyzeExpr(d.Object, s)

	case hir.SequenceData:
		if e.Kind == hir.ExprList && a.loopDepth > 0 && a.cfg.WarnAllocations && len(d.Elems) > 10 {
			a.add(Warning{
				Category:    MemoryAllocation,
				Severity:    Medium,
				Code:        diag.PerfLargeListLoop,
				Message:     "large list created in loop",
				Explanation: "creating large collections in loops causes repeated allocations",
				Suggestion:  "move the list outside the loop or pre-allocate a buffer",
				Impact:      Impact{Complexity: "O(n) allocations", ScalesWithInput: true},
				Span:        e.Span,
			})
		}
		for _, el := range d.Elems {
			a.analyzeExpr(el, s)
		}

	case hir.DictData:
		for i := range d.Values {
			if i < len(d.Keys) {
				a.analyzeExpr(d.Keys[i], s)
			}
			a.analyzeExpr(d.Values[i], s)
		}

	case hir.IfExpData:
		a.analyzeExpr(d.Cond, s)
		a.analyzeExpr(d.Then, s)
		a.analyzeExpr(d.Else, s)

	case hir.WrapData:
		a.analyzeExpr(d.Value, s)

	case hir.FStringData:
		for _, p := range d.Parts {
			a.analyzeExpr(p.Expr, s)
		}
	}
}

func (a *Analyzer) checkCall(d hir.CallData, e *hir.Expr) {
	if a.loopDepth > 0 && a.cfg.WarnRedundant {
		if _, ok := expensiveFuncs[d.Func]; ok {
			a.add(Warning{
				Category:    RedundantComputation,
				Severity:    Medium,
				Code:        diag.PerfExpensiveCall,
				Message:     fmt.Sprintf("expensive function %q called in loop", d.Func),
				Explanation: "calling expensive functions repeatedly can impact performance",
				Suggestion:  "cache the result if the inputs do not change",
				Impact:      Impact{Complexity: "depends on function", ScalesWithInput: true},
				Span:        e.Span,
			})
		}
	}

	if d.Func == "sorted" && a.loopDepth > 0 && a.cfg.WarnAlgorithms {
		a.add(Warning{
			Category:    AlgorithmComplexity,
			Severity:    High,
			Code:        diag.PerfSortInLoop,
			Message:     "sorting inside a loop",
			Explanation: "sorting has O(n log n) complexity and should not be repeated",
			Suggestion:  "sort once before the loop or maintain sorted order",
			Impact:      Impact{Complexity: "O(n² log n)", ScalesWithInput: true},
			Span:        e.Span,
		})
	}

	if _, ok := aggregateFuncs[d.Func]; ok && len(d.Args) > 0 && a.loopDepth > 1 && a.cfg.WarnRedundant {
		a.add(Warning{
			Category:    RedundantComputation,
			Severity:    Medium,
			Code:        diag.PerfNestedAggr,
			Message:     fmt.Sprintf("aggregate function %q in nested loop", d.Func),
			Explanation: "computing aggregates repeatedly is inefficient",
			Suggestion:  "compute once and cache the result",
			Impact:      Impact{Complexity: "O(n) per call", ScalesWithInput: true},
			Span:        e.Span,
		})
	}
}

func (a *Analyzer) checkMethod(d hir.MethodCallData, e *hir.Expr) {
	if a.loopDepth == 0 {
		return
	}
	switch d.Method {
	case "append":
		if !a.cfg.WarnAllocations {
			return
		}
		a.add(Warning{
			Category:    CollectionUsage,
			Severity:    Low,
			Code:        diag.PerfRepeatedAppend,
			Message:     "multiple append calls in loop",
			Explanation: "repeated append calls can be less efficient than a bulk extend",
			Suggestion:  "collect items and extend once",
			Impact:      Impact{Complexity: "O(1) amortized, but more calls", ScalesWithInput: true},
			Span:        e.Span,
		})
	case "remove":
		if a.loopDepth <= 1 || !a.cfg.WarnAlgorithms {
			return
		}
		a.add(Warning{
			Category:    AlgorithmComplexity,
			Severity:    Critical,
			Code:        diag.PerfRemoveInLoop,
			Message:     "list remove() in nested loop",
			Explanation: "remove() is linear and in nested loops becomes quadratic or worse",
			Suggestion:  "use a set for constant-time removal or filter into a new list",
			Impact:      Impact{Complexity: fmt.Sprintf("O(n^%d)", a.loopDepth+1), ScalesWithInput: true},
			Span:        e.Span,
		})
	case "index", "count":
		if !a.cfg.WarnAlgorithms {
			return
		}
		a.add(Warning{
			Category:    AlgorithmComplexity,
			Severity:    Medium,
			Code:        diag.PerfLinearSearch,
			Message:     fmt.Sprintf("linear search method %q in loop", d.Method),
			Explanation: "linear search in loops can lead to quadratic complexity",
			Suggestion:  "use a map or set for constant-time lookups",
			Impact:      Impact{Complexity: "O(n²)", ScalesWithInput: true},
			Span:        e.Span,
		})
	}
}

// checkIterPattern flags the range(len(x)) idiom.
func (a *Analyzer) checkIterPattern(iter *hir.Expr, s *hir.Stmt) {
	if iter == nil {
		return
	}
	call, ok := iter.Data.(hir.CallData)
	if !ok || call.Func != "range" || len(call.Args) == 0 {
		return
	}
	inner, ok := call.Args[0].Data.(hir.CallData)
	if !ok || inner.Func != "len" {
		return
	}
	a.add(Warning{
		Category:    CollectionUsage,
		Severity:    Low,
		Code:        diag.PerfRangeLen,
		Message:     "using range(len(x)) instead of enumerate",
		Explanation: "this pattern is less efficient and less idiomatic",
		Suggestion:  "use enumerate() to get both index and value",
		Impact:      Impact{Complexity: "O(1) overhead"},
		Span:        iter.Span,
	})
}
