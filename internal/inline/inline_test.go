package inline

import (
	"math"
	"testing"

	"pyrite/internal/hir"
	"pyrite/internal/pyparse"
	"pyrite/internal/source"
)

func buildModule(t *testing.T, src string) *hir.Module {
	t.Helper()
	fs := source.NewFileSet()
	ast, err := pyparse.ParseSource(fs, "test.py", []byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	mod, err := hir.NewBuilder(fs, nil).Build(ast)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return mod
}

func callsTo(fn *hir.Func, name string) int {
	count := 0
	hir.WalkStmts(fn.Body, &countCalls{name: name, count: &count})
	return count
}

type countCalls struct {
	name  string
	count *int
}

func (c *countCalls) VisitStmt(*hir.Stmt) bool { return true }

func (c *countCalls) VisitExpr(e *hir.Expr) bool {
	if d, ok := e.Data.(hir.CallData); ok && d.Func == c.name {
		*c.count++
	}
	return true
}

func TestTrivialFunctionInlined(t *testing.T) {
	src := "def id(x: int) -> int: return x\n" +
		"def f(y: int) -> int: return id(y) + 1\n"
	mod := buildModule(t, src)
	a := NewAnalyzer(DefaultConfig())
	decisions := a.Analyze(mod)

	dec := decisions["id"]
	if !dec.ShouldInline || dec.Reason != Trivial {
		t.Fatalf("decision for id = %+v", dec)
	}

	a.Apply(mod, decisions)

	f := mod.FindFunc("f")
	if f == nil {
		t.Fatalf("f missing after transform")
	}
	if n := callsTo(f, "id"); n != 0 {
		t.Fatalf("f still calls id %d times", n)
	}
	if mod.FindFunc("id") != nil {
		t.Fatalf("single-caller id should be removed")
	}
}

func TestRecursionNeverInlined(t *testing.T) {
	src := "def r(n: int) -> int: return r(n - 1)\n"
	mod := buildModule(t, src)
	decisions := NewAnalyzer(DefaultConfig()).Analyze(mod)
	dec := decisions["r"]
	if dec.ShouldInline || dec.Reason != Recursive {
		t.Fatalf("decision = %+v", dec)
	}
}

func TestMutualRecursionMarked(t *testing.T) {
	src := "def a(n: int) -> int: return b(n)\n" +
		"def b(n: int) -> int: return a(n)\n"
	mod := buildModule(t, src)
	decisions := NewAnalyzer(DefaultConfig()).Analyze(mod)
	for _, name := range []string{"a", "b"} {
		if decisions[name].Reason != Recursive {
			t.Fatalf("%s = %+v", name, decisions[name])
		}
	}
}

func TestSingleUseInlinedWithBindings(t *testing.T) {
	src := "def helper(a: int, b: int) -> int:\n" +
		"    c = a + b\n" +
		"    return c * 2\n" +
		"\n" +
		"def main(x: int) -> int:\n" +
		"    r = helper(x, 3)\n" +
		"    return r\n"
	mod := buildModule(t, src)
	a := NewAnalyzer(DefaultConfig())
	decisions := a.Analyze(mod)

	dec := decisions["helper"]
	if !dec.ShouldInline || dec.Reason != SingleUse {
		t.Fatalf("decision = %+v", dec)
	}

	a.Apply(mod, decisions)

	main := mod.FindFunc("main")
	if main == nil {
		t.Fatalf("main missing")
	}
	// _inline_a = x; _inline_b = 3; c = _inline_a + _inline_b; r = c * 2; return r
	if len(main.Body) != 5 {
		t.Fatalf("body has %d statements", len(main.Body))
	}
	first := main.Body[0].Data.(hir.AssignData)
	if hir.VarName(first.Target) != "_inline_a" {
		t.Fatalf("first binding = %q", hir.VarName(first.Target))
	}
	last := main.Body[3].Data.(hir.AssignData)
	if hir.VarName(last.Target) != "r" {
		t.Fatalf("final return should assign r, got %q", hir.VarName(last.Target))
	}
	if mod.FindFunc("helper") != nil {
		t.Fatalf("helper had one caller and should be removed")
	}
}

func TestLoopsBlockInlining(t *testing.T) {
	src := "def loop(n: int) -> int:\n" +
		"    t = 0\n" +
		"    for i in range(n):\n" +
		"        t = t + i\n" +
		"    return t\n" +
		"\n" +
		"def u(n: int) -> int:\n" +
		"    return loop(n)\n" +
		"def v(n: int) -> int:\n" +
		"    return loop(n)\n"
	mod := buildModule(t, src)
	decisions := NewAnalyzer(DefaultConfig()).Analyze(mod)
	dec := decisions["loop"]
	if dec.ShouldInline || dec.Reason != ContainsLoops {
		t.Fatalf("decision = %+v", dec)
	}
}

func TestSideEffectsBlockInlining(t *testing.T) {
	src := "def log(msg: str):\n" +
		"    emit(msg)\n" +
		"    emit(msg)\n" +
		"\n" +
		"def u(s: str):\n" +
		"    log(s)\n" +
		"def v(s: str):\n" +
		"    log(s)\n"
	mod := buildModule(t, src)
	decisions := NewAnalyzer(DefaultConfig()).Analyze(mod)
	dec := decisions["log"]
	if dec.ShouldInline || dec.Reason != HasSideEffects {
		t.Fatalf("decision = %+v", dec)
	}
}

func TestCostTooHigh(t *testing.T) {
	src := "def add(a: int, b: int) -> int:\n" +
		"    c = a + b\n" +
		"    return c\n" +
		"\n" +
		"def u(n: int) -> int:\n" +
		"    return add(n, 1)\n" +
		"def v(n: int) -> int:\n" +
		"    return add(n, 2)\n"
	mod := buildModule(t, src)
	decisions := NewAnalyzer(DefaultConfig()).Analyze(mod)
	dec := decisions["add"]
	if dec.ShouldInline || dec.Reason != CostTooHigh {
		t.Fatalf("decision = %+v", dec)
	}
	if dec.CostBenefit >= DefaultConfig().CostThreshold {
		t.Fatalf("cost-benefit = %f", dec.CostBenefit)
	}
}

func TestTooLargeBlocksInlining(t *testing.T) {
	body := ""
	for i := 0; i < 15; i++ {
		body += "    x = x + 1\n"
	}
	src := "def big(x: int) -> int:\n" + body + "    return x\n" +
		"def u(n: int) -> int:\n    return big(n)\n" +
		"def v(n: int) -> int:\n    return big(n)\n"
	mod := buildModule(t, src)
	decisions := NewAnalyzer(DefaultConfig()).Analyze(mod)
	dec := decisions["big"]
	if dec.ShouldInline || dec.Reason != TooLarge {
		t.Fatalf("decision = %+v", dec)
	}
}

func TestNestedTrivialChain(t *testing.T) {
	src := "def one() -> int: return 1\n" +
		"def two(x: int) -> int: return one() + x\n" +
		"def f() -> int: return two(5)\n"
	mod := buildModule(t, src)
	a := NewAnalyzer(DefaultConfig())
	decisions := a.Analyze(mod)
	a.Apply(mod, decisions)

	f := mod.FindFunc("f")
	if f == nil {
		t.Fatalf("f missing")
	}
	if callsTo(f, "two") != 0 || callsTo(f, "one") != 0 {
		t.Fatalf("trivial chain not fully expanded")
	}
	if mod.FindFunc("one") != nil || mod.FindFunc("two") != nil {
		t.Fatalf("fully inlined helpers should be removed")
	}
}

func TestExprStatementSiteKeepsControlFlow(t *testing.T) {
	src := "def ping(x: int) -> int: return poke(x)\n" +
		"def f(n: int):\n" +
		"    ping(n)\n"
	mod := buildModule(t, src)
	a := NewAnalyzer(DefaultConfig())
	decisions := a.Analyze(mod)
	a.Apply(mod, decisions)

	f := mod.FindFunc("f")
	if f == nil {
		t.Fatalf("f missing")
	}
	last := f.Body[len(f.Body)-1]
	if last.Kind == hir.StmtReturn {
		t.Fatalf("inlined body must not return from the caller")
	}
	if callsTo(f, "ping") != 0 {
		t.Fatalf("ping call survived")
	}
	if callsTo(f, "poke") != 1 {
		t.Fatalf("inlined body should call poke once")
	}
}

func TestDepthLimitStopsExpansion(t *testing.T) {
	src := "def d1(x: int) -> int: return x + 1\n" +
		"def d2(x: int) -> int: return d1(x) + 1\n" +
		"def d3(x: int) -> int: return d2(x) + 1\n" +
		"def d4(x: int) -> int: return d3(x) + 1\n" +
		"def f(n: int) -> int: return d4(n)\n"
	cfg := DefaultConfig()
	cfg.MaxInlineDepth = 2
	mod := buildModule(t, src)
	a := NewAnalyzer(cfg)
	decisions := a.Analyze(mod)
	a.Apply(mod, decisions)

	f := mod.FindFunc("f")
	if f == nil {
		t.Fatalf("f missing")
	}
	// Depth 2 expands d4 and d3; the d2 call survives.
	if callsTo(f, "d4") != 0 || callsTo(f, "d3") != 0 {
		t.Fatalf("shallow calls should be expanded")
	}
	if callsTo(f, "d2") != 1 {
		t.Fatalf("expansion should stop at the depth limit")
	}
}

func TestZeroCostDecisionIsFinite(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())
	a.graph = buildCallGraph(&hir.Module{})
	dec := a.decide("noop", Metrics{CallCount: 2})
	if math.IsNaN(dec.CostBenefit) || math.IsInf(dec.CostBenefit, 0) {
		t.Fatalf("cost-benefit = %f", dec.CostBenefit)
	}
	if !dec.ShouldInline {
		t.Fatalf("empty body should inline: %+v", dec)
	}
}

func TestMetricsExposed(t *testing.T) {
	src := "def add(a: int, b: int) -> int:\n    c = a + b\n    return c\n"
	mod := buildModule(t, src)
	a := NewAnalyzer(DefaultConfig())
	a.Analyze(mod)
	m, ok := a.Metrics("add")
	if !ok {
		t.Fatalf("no metrics for add")
	}
	if m.ParamCount != 2 || m.ReturnCount != 1 || m.IsTrivial || m.HasLoops {
		t.Fatalf("metrics = %+v", m)
	}
	// c = a + b counts 1 + 3 nodes, return c counts 1 + 1.
	if m.Size != 6 {
		t.Fatalf("size = %d", m.Size)
	}
	if m.Cost != 7.0 {
		t.Fatalf("cost = %f", m.Cost)
	}
}
