// Package inline decides which module functions are worth inlining and
// applies the transformation. The pass is intra-module: only direct calls
// by name participate, method calls and dynamic calls never inline.
package inline

import "fmt"

// Config tunes the inlining heuristics.
type Config struct {
	// MaxInlineSize is the largest function size, in IR nodes, the
	// cost-benefit path will still consider.
	MaxInlineSize int
	// MaxInlineDepth bounds nested inlining during the transform.
	MaxInlineDepth int
	// InlineSingleUse inlines functions with exactly one caller.
	InlineSingleUse bool
	// InlineTrivial inlines single-return functions regardless of callers.
	InlineTrivial bool
	// InlineLoops permits inlining bodies that contain loops.
	InlineLoops bool
	// CostThreshold is the minimum cost-benefit ratio for the fallback
	// decision path.
	CostThreshold float64
}

// DefaultConfig returns the standard tuning.
func DefaultConfig() Config {
	return Config{
		MaxInlineSize:   20,
		MaxInlineDepth:  3,
		InlineSingleUse: true,
		InlineTrivial:   true,
		InlineLoops:     false,
		CostThreshold:   1.5,
	}
}

// Reason explains an inlining decision.
type Reason int

const (
	Trivial Reason = iota
	SingleUse
	SmallHotFunction
	TooLarge
	Recursive
	HasSideEffects
	ContainsLoops
	CostTooHigh
)

func (r Reason) String() string {
	switch r {
	case Trivial:
		return "trivial"
	case SingleUse:
		return "single-use"
	case SmallHotFunction:
		return "small-hot-function"
	case TooLarge:
		return "too-large"
	case Recursive:
		return "recursive"
	case HasSideEffects:
		return "has-side-effects"
	case ContainsLoops:
		return "contains-loops"
	case CostTooHigh:
		return "cost-too-high"
	default:
		return "unknown"
	}
}

// Decision is the per-function inlining verdict.
type Decision struct {
	ShouldInline bool
	Reason       Reason
	CostBenefit  float64
}

func (d Decision) String() string {
	verb := "keep"
	if d.ShouldInline {
		verb = "inline"
	}
	return fmt.Sprintf("%s (%s, %.1f)", verb, d.Reason, d.CostBenefit)
}

// Metrics summarizes one function for the decision heuristics.
type Metrics struct {
	Size           int
	ParamCount     int
	ReturnCount    int
	HasLoops       bool
	HasSideEffects bool
	IsTrivial      bool
	// CallCount is the number of distinct callers within the module.
	CallCount int
	Cost      float64
}
