package memsafe

import (
	"fmt"

	"pyrite/internal/directive"
	"pyrite/internal/hir"
	"pyrite/internal/ownership"
)

// Checker verifies memory-safety properties of module functions.
type Checker struct {
	mod *hir.Module
}

// NewChecker creates a checker for the module.
func NewChecker(mod *hir.Module) *Checker {
	return &Checker{mod: mod}
}

// CheckModule verifies every function, pairing each with its ownership
// result by function name.
func (c *Checker) CheckModule(own []*ownership.Result) []*Report {
	byName := make(map[string]*ownership.Result, len(own))
	for _, r := range own {
		byName[r.Function] = r
	}
	out := make([]*Report, 0, len(c.mod.Funcs))
	hir.WalkFunctions(c.mod, func(f *hir.Func) {
		out = append(out, c.CheckFunc(f, byName[f.Name]))
	})
	return out
}

// CheckFunc verifies one function. The ownership result may be nil, in
// which case the use-after-move property is not re-reported.
func (c *Checker) CheckFunc(fn *hir.Func, own *ownership.Result) *Report {
	rep := &Report{Function: fn.Name}

	if own != nil {
		for _, v := range own.Violations {
			if v.Kind != ownership.UseAfterMove {
				continue
			}
			rep.Violations = append(rep.Violations, Violation{
				Type:     UseAfterMove,
				Variable: v.Variable,
				Span:     v.Span,
				Message:  v.Message,
			})
		}
	}

	sc := &scan{fn: fn, rep: rep, litLens: literalLengths(fn)}
	hir.WalkStmts(fn.Body, sc)
	c.checkFieldAliasing(fn, rep)
	c.checkDataRaces(fn, rep)

	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = p.Name
	}
	rep.Results = buildResults(fn, rep, params, sc.unanalyzable)
	return rep
}

func buildResults(fn *hir.Func, rep *Report, params []string, unanalyzable bool) []VerificationResult {
	var memory, null, race []Violation
	for _, v := range rep.Violations {
		switch v.Type {
		case NullPointerDereference:
			null = append(null, v)
		case DataRace:
			race = append(race, v)
		default:
			memory = append(memory, v)
		}
	}

	results := []VerificationResult{
		propertyResult("memory_safety", memory, params, unanalyzable),
		propertyResult("null_safety", null, params, false),
	}
	if fn.Directive.ThreadSafety == directive.ThreadRequired {
		results = append(results, propertyResult("thread_safety", race, params, false))
	}
	return results
}

func propertyResult(property string, violations []Violation, params []string, unanalyzable bool) VerificationResult {
	if len(violations) > 0 {
		res := VerificationResult{
			Property:   property,
			Status:     Violated,
			Detail:     fmt.Sprintf("%d violations found", len(violations)),
			Confidence: 1.0,
		}
		for _, v := range violations {
			res.Counterexamples = append(res.Counterexamples, counterexample(params, v))
		}
		return res
	}
	if unanalyzable {
		// Dynamic calls and lambdas escape the model; claim nothing.
		return VerificationResult{Property: property, Status: Unknown, Confidence: 0.5}
	}
	return VerificationResult{Property: property, Status: Proven, Confidence: 1.0}
}

// scan walks one function body for null dereferences and constant
// out-of-range indexing.
type scan struct {
	fn           *hir.Func
	rep          *Report
	litLens      map[string]int
	unanalyzable bool
}

func (sc *scan) VisitStmt(*hir.Stmt) bool { return true }

func (sc *scan) VisitExpr(e *hir.Expr) bool {
	switch d := e.Data.(type) {
	case hir.AttributeData:
		if hir.IsNoneLiteral(d.Object) {
			sc.rep.Violations = append(sc.rep.Violations, Violation{
				Type:    NullPointerDereference,
				Span:    e.Span,
				Message: fmt.Sprintf("attribute %q accessed on a None value", d.Attr),
			})
		}
	case hir.MethodCallData:
		if hir.IsNoneLiteral(d.Receiver) {
			sc.rep.Violations = append(sc.rep.Violations, Violation{
				Type:    NullPointerDereference,
				Span:    e.Span,
				Message: fmt.Sprintf("method %q called on a None value", d.Method),
			})
		}
	case hir.IndexData:
		sc.checkIndex(e, d)
	case hir.DynCallData:
		sc.unanalyzable = true
	case hir.LambdaData:
		sc.unanalyzable = true
	}
	return true
}

func (sc *scan) checkIndex(e *hir.Expr, d hir.IndexData) {
	idx, ok := constIndex(d.Index)
	if !ok {
		return
	}
	size, ok := sc.containerSize(d.Object)
	if !ok {
		return
	}
	if idx >= int64(size) || idx < -int64(size) {
		name := hir.VarName(d.Object)
		sc.rep.Violations = append(sc.rep.Violations, Violation{
			Type:     BufferOverflow,
			Variable: name,
			Span:     e.Span,
			Message:  fmt.Sprintf("index %d out of range for container of length %d", idx, size),
		})
	}
}

// containerSize resolves a statically known container length: a sequence
// literal, or a variable bound exactly once to one.
func (sc *scan) containerSize(obj *hir.Expr) (int, bool) {
	switch obj.Kind {
	case hir.ExprList, hir.ExprTuple:
		if seq, ok := obj.Data.(hir.SequenceData); ok {
			return len(seq.Elems), true
		}
	case hir.ExprVar:
		if n, ok := sc.litLens[hir.VarName(obj)]; ok {
			return n, true
		}
	}
	return 0, false
}

// constIndex evaluates a constant integer index, including a negated
// literal.
func constIndex(e *hir.Expr) (int64, bool) {
	if e == nil {
		return 0, false
	}
	if lit, ok := e.Data.(hir.LiteralData); ok && lit.LitKind == hir.LitInt {
		return lit.Int, true
	}
	if u, ok := e.Data.(hir.UnaryData); ok && u.Op == "-" {
		if lit, ok := u.Operand.Data.(hir.LiteralData); ok && lit.LitKind == hir.LitInt {
			return -lit.Int, true
		}
	}
	return 0, false
}

// literalLengths maps locals assigned exactly once, to a list or tuple
// literal, onto that literal's length. Any reassignment disqualifies the
// binding.
func literalLengths(fn *hir.Func) map[string]int {
	lens := make(map[string]int)
	seen := make(map[string]int)
	v := &assignScan{lens: lens, seen: seen}
	hir.WalkStmts(fn.Body, v)
	for name, n := range seen {
		if n != 1 {
			delete(lens, name)
		}
	}
	return lens
}

type assignScan struct {
	lens map[string]int
	seen map[string]int
}

func (a *assignScan) VisitStmt(s *hir.Stmt) bool {
	d, ok := s.Data.(hir.AssignData)
	if !ok {
		return true
	}
	name := hir.VarName(d.Target)
	if name == "" {
		return true
	}
	a.seen[name]++
	if d.Value != nil && (d.Value.Kind == hir.ExprList || d.Value.Kind == hir.ExprTuple) {
		if seq, ok := d.Value.Data.(hir.SequenceData); ok {
			a.lens[name] = len(seq.Elems)
		}
	} else {
		delete(a.lens, name)
	}
	return true
}

func (a *assignScan) VisitExpr(*hir.Expr) bool { return false }

// checkFieldAliasing flags storing the same non-copy binding into two
// different fields: both fields would own the value.
func (c *Checker) checkFieldAliasing(fn *hir.Func, rep *Report) {
	stores := make(map[string][]string)
	v := &fieldScan{fn: fn, rep: rep, stores: stores}
	hir.WalkStmts(fn.Body, v)
}

type fieldScan struct {
	fn     *hir.Func
	rep    *Report
	stores map[string][]string
}

func (f *fieldScan) VisitStmt(s *hir.Stmt) bool {
	d, ok := s.Data.(hir.AssignData)
	if !ok {
		return true
	}
	attr, ok := d.Target.Data.(hir.AttributeData)
	if !ok {
		return true
	}
	name := hir.VarName(d.Value)
	if name == "" || f.fn.VarType(name).IsCopy() {
		return true
	}
	field := attr.Attr
	if base := hir.VarName(attr.Object); base != "" {
		field = base + "." + field
	}
	prior := f.stores[name]
	for _, p := range prior {
		if p != field {
			f.rep.Violations = append(f.rep.Violations, Violation{
				Type:     MutableAliasingViolation,
				Variable: name,
				Span:     s.Span,
				Message:  fmt.Sprintf("value %q stored into both %s and %s", name, p, field),
			})
			break
		}
	}
	f.stores[name] = append(prior, field)
	return true
}

func (f *fieldScan) VisitExpr(*hir.Expr) bool { return false }

// checkDataRaces applies the shared-state policy: a function that
// requires thread safety and declares shared ownership must not write
// through attributes. Everything else produces no finding.
func (c *Checker) checkDataRaces(fn *hir.Func, rep *Report) {
	if fn.Directive.ThreadSafety != directive.ThreadRequired {
		return
	}
	if fn.Directive.Ownership != directive.OwnershipShared {
		return
	}
	v := &raceScan{rep: rep}
	hir.WalkStmts(fn.Body, v)
}

type raceScan struct {
	rep *Report
}

func (r *raceScan) VisitStmt(s *hir.Stmt) bool {
	var target *hir.Expr
	switch d := s.Data.(type) {
	case hir.AssignData:
		target = d.Target
	case hir.AugAssignData:
		target = d.Target
	default:
		return true
	}
	attr, ok := target.Data.(hir.AttributeData)
	if !ok {
		return true
	}
	base := hir.VarName(attr.Object)
	r.rep.Violations = append(r.rep.Violations, Violation{
		Type:     DataRace,
		Variable: base,
		Span:     s.Span,
		Message:  fmt.Sprintf("unsynchronized write to shared field %q in a thread-safe function", attr.Attr),
	})
	return true
}

func (r *raceScan) VisitExpr(*hir.Expr) bool { return false }
