// Package fix repairs known anomalies in emitted target text and
// applies diagnostic edits to Python source. Emitted code is not
// guaranteed to compile in isolation: the translator acknowledges a set
// of recurring emission defects and runs a fixed sequence of text-level
// passes before the code reaches the target compiler.
package fix

// Pass is a pure text transformation. Passes never alter string
// literals or comment text, and the pipeline order is fixed: a pass
// may rely on every earlier pass having already run.
type Pass struct {
	Name string
	// Requires names a pass that must run earlier, empty when the
	// pass is order-independent.
	Requires  string
	Transform func(string) string
}

// Applied records one pipeline step and whether it changed the text.
type Applied struct {
	Name    string
	Changed bool
}

// Pipeline runs passes in declaration order.
type Pipeline struct {
	passes []Pass
}

// Default returns the full repair sequence. Each pass is idempotent,
// so running the pipeline twice yields the same text.
func Default() *Pipeline {
	return &Pipeline{passes: []Pass{
		{Name: "strip-type-checking", Transform: stripTypeChecking},
		{Name: "strip-type-name", Transform: stripTypeName},
		{Name: "sequence-to-slice", Transform: sequenceToSlice},
		{Name: "union-type-alias", Transform: unionTypeAlias},
		{Name: "collapse-raw-idents", Transform: collapseRawIdents},
		{Name: "map-contains", Requires: "collapse-raw-idents", Transform: mapContains},
		{Name: "push-back", Transform: pushBack},
		{Name: "floor-div", Transform: floorDiv},
		{Name: "float-literal-compare", Transform: floatLiteralCompare},
		{Name: "paren-negated-try", Transform: parenNegatedTry},
		{Name: "clone-shared-field", Transform: cloneSharedField},
		{Name: "deref-of-ref", Transform: derefOfRef},
		{Name: "import-synthesis", Transform: importSynthesis},
		{Name: "stub-to-macro", Requires: "collapse-raw-idents", Transform: stubToMacro},
	}}
}

// Passes exposes the sequence for inspection.
func (p *Pipeline) Passes() []Pass {
	return p.passes
}

// Run applies every pass in order.
func (p *Pipeline) Run(src string) string {
	for _, pass := range p.passes {
		src = pass.Transform(src)
	}
	return src
}

// RunTrace applies every pass and reports which ones changed the text.
func (p *Pipeline) RunTrace(src string) (string, []Applied) {
	trace := make([]Applied, 0, len(p.passes))
	for _, pass := range p.passes {
		out := pass.Transform(src)
		trace = append(trace, Applied{Name: pass.Name, Changed: out != src})
		src = out
	}
	return src, trace
}
