// Package doctest extracts interactive examples from Python docstrings.
// Extraction is pure text analysis: it never touches HIR, and the
// records it produces do not influence translation.
package doctest

// ModuleScope is the function name assigned to examples found in a
// module-level docstring.
const ModuleScope = "<module>"

// Example is one extracted interactive example.
type Example struct {
	// Function is the enclosing function, or ModuleScope.
	Function string `msgpack:"function"`
	// Input is the expression after the ">>>" marker, with "..."
	// continuations joined by newlines.
	Input string `msgpack:"input"`
	// Expected is the output text the example claims, lines joined by
	// newlines.
	Expected string `msgpack:"expected"`
	// Line is the 1-based source line of the ">>>" marker.
	Line int `msgpack:"line"`
}

// Group collects every example of one function.
type Group struct {
	Function string    `msgpack:"function"`
	Examples []Example `msgpack:"examples"`
}

// Bundle is the per-module extraction result.
type Bundle struct {
	Source string  `msgpack:"source"`
	Module string  `msgpack:"module"`
	Groups []Group `msgpack:"groups"`
}

// Total counts examples across all groups.
func (b *Bundle) Total() int {
	n := 0
	for _, g := range b.Groups {
		n += len(g.Examples)
	}
	return n
}
