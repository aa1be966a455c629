// Package memsafe verifies memory-safety properties of translated
// functions. It runs after the ownership analysis and reports a narrower
// class of violations in a verification record: status, confidence and
// counterexamples, suitable for machine consumption alongside the plain
// diagnostics.
package memsafe

import (
	"fmt"

	"pyrite/internal/diag"
	"pyrite/internal/source"
)

// ViolationType classifies a memory-safety finding.
type ViolationType int

const (
	UseAfterMove ViolationType = iota
	DoubleBorrow
	MutableAliasingViolation
	LifetimeViolation
	NullPointerDereference
	BufferOverflow
	DataRace
)

func (t ViolationType) String() string {
	switch t {
	case UseAfterMove:
		return "use-after-move"
	case DoubleBorrow:
		return "double-borrow"
	case MutableAliasingViolation:
		return "mutable-aliasing"
	case LifetimeViolation:
		return "lifetime"
	case NullPointerDereference:
		return "null-dereference"
	case BufferOverflow:
		return "buffer-overflow"
	case DataRace:
		return "data-race"
	default:
		return "unknown"
	}
}

// Violation is one memory-safety finding inside a function.
type Violation struct {
	Type     ViolationType
	Variable string
	Span     source.Span
	Message  string
}

// Status is the outcome of verifying one property.
type Status int

const (
	// Proven means the property holds for every path the checker models.
	Proven Status = iota
	// Violated means at least one concrete violation was found.
	Violated
	// Unknown means the function uses constructs the checker cannot
	// analyze, so nothing is claimed either way.
	Unknown
)

func (s Status) String() string {
	switch s {
	case Proven:
		return "proven"
	case Violated:
		return "violated"
	case Unknown:
		return "unknown"
	default:
		return "invalid"
	}
}

// TestCase is a counterexample placeholder describing the offending
// statement. Inputs name the function parameters; the error text locates
// the violation.
type TestCase struct {
	Inputs   []string `msgpack:"inputs"`
	Expected string   `msgpack:"expected,omitempty"`
	Actual   string   `msgpack:"actual,omitempty"`
	Error    string   `msgpack:"error,omitempty"`
}

// VerificationResult is the record for one verified property of one
// function.
type VerificationResult struct {
	Property        string     `msgpack:"property"`
	Status          Status     `msgpack:"status"`
	Detail          string     `msgpack:"detail,omitempty"`
	Confidence      float64    `msgpack:"confidence"`
	Counterexamples []TestCase `msgpack:"counterexamples,omitempty"`
}

// Report bundles everything the checker found for one function.
type Report struct {
	Function   string
	Violations []Violation
	Results    []VerificationResult
}

// Safe reports whether no property came back violated.
func (r *Report) Safe() bool {
	for _, res := range r.Results {
		if res.Status == Violated {
			return false
		}
	}
	return true
}

func violationCode(t ViolationType) diag.Code {
	switch t {
	case UseAfterMove:
		return diag.MemUseAfterMove
	case DoubleBorrow:
		return diag.MemDoubleBorrow
	case MutableAliasingViolation:
		return diag.MemMutableAliasing
	case LifetimeViolation:
		return diag.MemLifetime
	case NullPointerDereference:
		return diag.MemNullDeref
	case BufferOverflow:
		return diag.MemBufferOverflow
	case DataRace:
		return diag.MemDataRace
	default:
		return diag.MemInfo
	}
}

// Diagnostics converts the report's violations into diagnostics.
func (r *Report) Diagnostics() []diag.Diagnostic {
	out := make([]diag.Diagnostic, 0, len(r.Violations))
	for _, v := range r.Violations {
		out = append(out, diag.NewError(violationCode(v.Type), v.Span, v.Message))
	}
	return out
}

func counterexample(params []string, v Violation) TestCase {
	return TestCase{
		Inputs: params,
		Error:  fmt.Sprintf("%s: %s", v.Type, v.Message),
	}
}
