package inline

import "pyrite/internal/hir"

// Analyzer makes per-function inlining decisions for one module.
type Analyzer struct {
	cfg     Config
	graph   *callGraph
	metrics map[string]Metrics
}

// NewAnalyzer creates an analyzer with the given tuning.
func NewAnalyzer(cfg Config) *Analyzer {
	return &Analyzer{cfg: cfg, metrics: make(map[string]Metrics)}
}

// Analyze builds the call graph, detects recursion, computes metrics and
// returns the decision for every function.
func (a *Analyzer) Analyze(mod *hir.Module) map[string]Decision {
	a.graph = buildCallGraph(mod)
	a.metrics = make(map[string]Metrics, len(mod.Funcs))
	hir.WalkFunctions(mod, func(fn *hir.Func) {
		a.metrics[fn.Name] = computeMetrics(fn, a.graph)
	})

	decisions := make(map[string]Decision, len(a.metrics))
	for name, m := range a.metrics {
		decisions[name] = a.decide(name, m)
	}
	return decisions
}

// Metrics returns the computed metrics for one function.
func (a *Analyzer) Metrics(name string) (Metrics, bool) {
	m, ok := a.metrics[name]
	return m, ok
}

func (a *Analyzer) decide(name string, m Metrics) Decision {
	if a.graph.isRecursive(name) {
		return Decision{Reason: Recursive}
	}
	if a.cfg.InlineTrivial && m.IsTrivial {
		return Decision{ShouldInline: true, Reason: Trivial, CostBenefit: 10.0}
	}
	if a.cfg.InlineSingleUse && m.CallCount == 1 && !m.HasSideEffects {
		return Decision{ShouldInline: true, Reason: SingleUse, CostBenefit: 5.0}
	}
	if m.Size > a.cfg.MaxInlineSize {
		return Decision{Reason: TooLarge}
	}
	if m.HasLoops && !a.cfg.InlineLoops {
		return Decision{Reason: ContainsLoops}
	}
	if m.HasSideEffects {
		return Decision{Reason: HasSideEffects}
	}

	// Fallback: ratio of saved call overhead to inlined body cost.
	const callOverhead = 1.0
	benefit := callOverhead*float64(m.CallCount) - m.Cost
	if m.Cost == 0 {
		// An empty body duplicates nothing; the call is pure overhead.
		return Decision{ShouldInline: true, Reason: SmallHotFunction, CostBenefit: benefit}
	}
	ratio := benefit / m.Cost
	if ratio >= a.cfg.CostThreshold {
		return Decision{ShouldInline: true, Reason: SmallHotFunction, CostBenefit: ratio}
	}
	return Decision{Reason: CostTooHigh, CostBenefit: ratio}
}
