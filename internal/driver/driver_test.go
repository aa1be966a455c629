package driver

import (
	"context"
	"errors"
	"testing"

	"pyrite/internal/diag"
	"pyrite/internal/emit"
	"pyrite/internal/hir"
	"pyrite/internal/source"
)

type textEmitter struct {
	out string
	err error
}

func (e textEmitter) Target() emit.Target { return emit.Rust() }

func (e textEmitter) Emit(in *emit.Input) ([]byte, error) {
	return []byte(e.out), e.err
}

func translate(t *testing.T, src string, opts Options) *Unit {
	t.Helper()
	fs := source.NewFileSet()
	return TranslateSource(context.Background(), fs, "test.py", []byte(src), opts)
}

func TestTranslateCleanSource(t *testing.T) {
	unit := translate(t, `
def double(x: int) -> int:
    return x * 2
`, DefaultOptions())

	if unit.Failed() {
		t.Fatalf("unexpected errors: %+v", unit.Bag.Items())
	}
	if unit.Module == nil || len(unit.Module.Funcs) != 1 {
		t.Fatalf("module not built: %+v", unit.Module)
	}
	if unit.Bundle == nil {
		t.Fatalf("bundle missing")
	}
	if _, ok := unit.Decisions["double"]; !ok {
		t.Fatalf("no inline decision for double: %v", unit.Decisions)
	}
}

func TestSurfaceRejectionStopsBeforeHir(t *testing.T) {
	unit := translate(t, `
def f(s: str) -> int:
    return eval(s)
`, DefaultOptions())

	if !unit.Failed() {
		t.Fatalf("expected surface rejection")
	}
	if unit.Module != nil {
		t.Fatalf("lowering should not run after rejection")
	}
	found := false
	for _, d := range unit.Bag.Items() {
		if d.Code == diag.LintEval {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing eval diagnostic: %+v", unit.Bag.Items())
	}
}

func TestParseErrorReported(t *testing.T) {
	unit := translate(t, "def broken(:\n", DefaultOptions())

	if !unit.Failed() {
		t.Fatalf("expected parse failure")
	}
	if unit.Bag.Items()[0].Code != diag.SynParseError {
		t.Fatalf("wrong code: %v", unit.Bag.Items()[0].Code)
	}
}

func TestEmitterOutputRunsFixes(t *testing.T) {
	opts := DefaultOptions()
	opts.Emitter = textEmitter{out: "fn f() -> bool {\n    r#true\n}\n"}

	unit := translate(t, `
def f() -> bool:
    return True
`, opts)

	if unit.Failed() {
		t.Fatalf("unexpected errors: %+v", unit.Bag.Items())
	}
	got := string(unit.Output)
	want := "fn f() -> bool {\n    true\n}\n"
	if got != want {
		t.Fatalf("fixes not applied:\n%s", got)
	}
	changed := false
	for _, a := range unit.Fixes {
		if a.Changed {
			changed = true
		}
	}
	if !changed {
		t.Fatalf("no pass reported a change: %+v", unit.Fixes)
	}
}

func TestEmitterFailureIsDiagnosed(t *testing.T) {
	opts := DefaultOptions()
	opts.Emitter = textEmitter{err: errors.New("unsupported construct")}

	unit := translate(t, "def f() -> int:\n    return 1\n", opts)

	if !unit.Failed() {
		t.Fatalf("expected failure")
	}
	found := false
	for _, d := range unit.Bag.Items() {
		if d.Code == diag.GenEmitterFailed {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing emitter diagnostic: %+v", unit.Bag.Items())
	}
	if len(unit.Output) != 0 {
		t.Fatalf("output should be empty on emitter failure")
	}
}

func TestBundleCarriesInlinedModule(t *testing.T) {
	unit := translate(t, `
def id(x: int) -> int:
    return x

def f(y: int) -> int:
    return id(y) + 1
`, DefaultOptions())

	if unit.Failed() {
		t.Fatalf("unexpected errors: %+v", unit.Bag.Items())
	}
	dec, ok := unit.Decisions["id"]
	if !ok || !dec.ShouldInline {
		t.Fatalf("id should be inlinable: %+v", dec)
	}
	if unit.Bundle == nil {
		t.Fatalf("bundle missing")
	}
	// The emitter input must be the post-inlining module: no surviving
	// calls to id, and its single-caller definition removed.
	calls := 0
	for _, fn := range unit.Bundle.Module.Funcs {
		c := 0
		hir.WalkStmts(fn.Body, &callTally{name: "id", count: &c})
		calls += c
	}
	if calls != 0 {
		t.Fatalf("bundle HIR still calls id %d time(s)", calls)
	}
	if unit.Bundle.Module.FindFunc("id") != nil {
		t.Fatalf("inlined single-caller id should be gone from the bundle")
	}
}

type callTally struct {
	name  string
	count *int
}

func (c *callTally) VisitStmt(*hir.Stmt) bool { return true }

func (c *callTally) VisitExpr(e *hir.Expr) bool {
	if d, ok := e.Data.(hir.CallData); ok && d.Func == c.name {
		*c.count++
	}
	return true
}

func TestAnalysisFindingsDoNotStopBundle(t *testing.T) {
	unit := translate(t, `
def f(items: list) -> list:
    tmp = items
    out = tmp
    return items
`, DefaultOptions())

	if unit.Bundle == nil {
		t.Fatalf("middle-end findings must not drop the bundle")
	}
	found := false
	for _, d := range unit.Bag.Items() {
		switch d.Code {
		case diag.OwnUseAfterMove, diag.OwnMoveInLoop, diag.OwnCloneInserted, diag.OwnInfo:
			found = true
		}
	}
	if !found {
		t.Fatalf("ownership findings never reached the bag: %+v", unit.Bag.Items())
	}
}

func TestTimingsCoverPhases(t *testing.T) {
	opts := DefaultOptions()
	opts.Timings = true

	unit := translate(t, "def f() -> int:\n    return 1\n", opts)

	if unit.Timing == nil || len(unit.Timing.Phases) == 0 {
		t.Fatalf("timing report missing")
	}
	names := map[string]bool{}
	for _, p := range unit.Timing.Phases {
		names[p.Name] = true
	}
	for _, want := range []string{"parse", "lint", "hir", "ownership", "memsafe", "inline", "perf"} {
		if !names[want] {
			t.Fatalf("phase %q not timed: %v", want, names)
		}
	}
}

func TestDiagnosticsSortedAndDeduped(t *testing.T) {
	unit := translate(t, `
def f(s: str) -> int:
    eval(s)
    return eval(s)
`, DefaultOptions())

	items := unit.Bag.Items()
	for i := 1; i < len(items); i++ {
		prev, cur := items[i-1], items[i]
		if prev.Primary.File == cur.Primary.File && prev.Primary.Start > cur.Primary.Start {
			t.Fatalf("diagnostics not sorted at %d", i)
		}
		if prev.Code == cur.Code && prev.Primary == cur.Primary {
			t.Fatalf("duplicate diagnostic survived dedup at %d", i)
		}
	}
}
