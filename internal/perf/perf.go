// Package perf flags inefficient patterns in translated functions. The
// warnings are advisory: they never gate translation, but carry enough
// structure (category, severity, complexity class, loop context) for
// tooling to rank and filter them.
package perf

import (
	"pyrite/internal/diag"
	"pyrite/internal/source"
)

// Category classifies a performance warning.
type Category int

const (
	StringPerformance Category = iota
	MemoryAllocation
	AlgorithmComplexity
	RedundantComputation
	IoPerformance
	CollectionUsage
)

func (c Category) String() string {
	switch c {
	case StringPerformance:
		return "string-performance"
	case MemoryAllocation:
		return "memory-allocation"
	case AlgorithmComplexity:
		return "algorithm-complexity"
	case RedundantComputation:
		return "redundant-computation"
	case IoPerformance:
		return "io-performance"
	case CollectionUsage:
		return "collection-usage"
	default:
		return "unknown"
	}
}

// Severity ranks the estimated impact.
type Severity int

const (
	Low Severity = iota
	Medium
	High
	Critical
)

func (s Severity) String() string {
	switch s {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	case Critical:
		return "critical"
	default:
		return "unknown"
	}
}

// Impact estimates how the flagged pattern behaves at scale.
type Impact struct {
	// Complexity is the complexity class, e.g. "O(n²)".
	Complexity      string
	ScalesWithInput bool
	InHotPath       bool
}

// Location places a warning inside the analyzed module.
type Location struct {
	Function  string
	Line      uint32
	InLoop    bool
	LoopDepth int
}

// Warning is one performance finding.
type Warning struct {
	Category    Category
	Severity    Severity
	Code        diag.Code
	Message     string
	Explanation string
	Suggestion  string
	Impact      Impact
	Location    Location
	Span        source.Span
}

// Config tunes which rule groups run and the loop-depth threshold.
type Config struct {
	WarnStringConcat bool
	WarnAllocations  bool
	WarnAlgorithms   bool
	WarnRedundant    bool
	// MaxLoopDepth is the nesting depth beyond which loops are flagged.
	MaxLoopDepth int
	// QuadraticThreshold is the smallest literal collection size the
	// allocation rules consider large.
	QuadraticThreshold int
}

// DefaultConfig enables every rule group.
func DefaultConfig() Config {
	return Config{
		WarnStringConcat:   true,
		WarnAllocations:    true,
		WarnAlgorithms:     true,
		WarnRedundant:      true,
		MaxLoopDepth:       3,
		QuadraticThreshold: 100,
	}
}

// Diagnostics renders warnings as diagnostic records. Performance
// findings never block translation, so every severity maps to a warning
// diagnostic.
func Diagnostics(warnings []Warning) []diag.Diagnostic {
	out := make([]diag.Diagnostic, 0, len(warnings))
	for _, w := range warnings {
		d := diag.NewWarning(w.Code, w.Span, w.Message)
		if w.Suggestion != "" {
			d = d.WithSuggestion(w.Suggestion)
		}
		out = append(out, d)
	}
	return out
}
