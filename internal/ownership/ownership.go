// Package ownership is the use-after-move and strategic-clone analysis.
//
// Both sub-analyses run intra-procedurally over HIR with a conservative
// abstract state: a set of moved bindings, branch joins as pessimistic
// unions, one-pass loop fixpoints. The result is a decision bundle the
// emitter must honor: clone sites, borrow sites, mutable-borrow sites.
package ownership

import (
	"pyrite/internal/diag"
	"pyrite/internal/source"
)

// ViolationKind distinguishes ownership errors.
type ViolationKind uint8

const (
	// UseAfterMove is a read of a binding after it was moved.
	UseAfterMove ViolationKind = iota
	// MoveInLoop is a move inside a loop body that the body never resets,
	// so the second iteration uses a moved value.
	MoveInLoop
)

// Violation is one ownership error.
type Violation struct {
	Kind     ViolationKind
	Variable string
	Span     source.Span
	Message  string
}

// AliasingPattern records an assignment between non-copy bindings and
// which side is still read afterwards.
type AliasingPattern struct {
	Source          string
	Alias           string
	SourceUsedAfter bool
	AliasUsedAfter  bool
	Span            source.Span // the assignment site
}

// DeadAssign records an alias binding that is never read again.
type DeadAssign struct {
	Alias string
	Span  source.Span
}

// Result is the combined ownership output for one function. The three
// site sets oblige the emitter: each span receives a duplicating,
// reference-taking or mutable-reference-taking operation.
type Result struct {
	Function   string
	Violations []Violation
	Aliases    []AliasingPattern
	Clones     []source.Span
	Borrows    []source.Span
	MutBorrows []source.Span
	Dead       []DeadAssign
}

// HasErrors reports whether the analysis found ownership violations.
func (r *Result) HasErrors() bool {
	return len(r.Violations) > 0
}

// Diagnostics converts the result into diagnostic records.
func (r *Result) Diagnostics() []diag.Diagnostic {
	out := make([]diag.Diagnostic, 0, len(r.Violations)+len(r.Clones)+len(r.Dead))
	for _, v := range r.Violations {
		code := diag.OwnUseAfterMove
		if v.Kind == MoveInLoop {
			code = diag.OwnMoveInLoop
		}
		out = append(out, diag.NewError(code, v.Span, v.Message))
	}
	for _, sp := range r.Clones {
		out = append(out, diag.New(diag.SevInfo, diag.OwnCloneInserted, sp,
			"clone inserted: source and alias are both read after this assignment"))
	}
	for _, d := range r.Dead {
		out = append(out, diag.New(diag.SevInfo, diag.OwnInfo, d.Span,
			"assignment to "+d.Alias+" is never read"))
	}
	return out
}
