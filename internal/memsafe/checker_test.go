package memsafe

import (
	"testing"

	"pyrite/internal/hir"
	"pyrite/internal/ownership"
	"pyrite/internal/pyparse"
	"pyrite/internal/source"
)

func check(t *testing.T, src string) *Report {
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
	if len(mod.Funcs) == 0 {
		t.Fatalf("no functions")
	}
	fn := mod.Funcs[len(mod.Funcs)-1]
	own := ownership.NewAnalyzer(mod).AnalyzeFunc(fn)
	return NewChecker(mod).CheckFunc(fn, own)
}

func violationsOf(rep *Report, typ ViolationType) []Violation {
	var out []Violation
	for _, v := range rep.Violations {
		if v.Type == typ {
			out = append(out, v)
		}
	}
	return out
}

func resultFor(t *testing.T, rep *Report, property string) VerificationResult {
	t.Helper()
	for _, r := range rep.Results {
		if r.Property == property {
			return r
		}
	}
	t.Fatalf("no %s result in %+v", property, rep.Results)
	return VerificationResult{}
}

func TestCleanFunctionProven(t *testing.T) {
	src := "def f(n: int) -> int:\n    return n + 1\n"
	rep := check(t, src)
	if len(rep.Violations) != 0 {
		t.Fatalf("violations = %+v", rep.Violations)
	}
	for _, prop := range []string{"memory_safety", "null_safety"} {
		r := resultFor(t, rep, prop)
		if r.Status != Proven || r.Confidence != 1.0 {
			t.Fatalf("%s = %+v", prop, r)
		}
	}
	if !rep.Safe() {
		t.Fatalf("clean function must be safe")
	}
}

func TestUseAfterMoveCarriedOver(t *testing.T) {
	src := "def f(xs: list[int]) -> int:\n    g(xs)\n    return len(xs)\n"
	rep := check(t, src)
	if len(violationsOf(rep, UseAfterMove)) != 1 {
		t.Fatalf("violations = %+v", rep.Violations)
	}
	r := resultFor(t, rep, "memory_safety")
	if r.Status != Violated || r.Detail != "1 violations found" {
		t.Fatalf("memory_safety = %+v", r)
	}
	if len(r.Counterexamples) != 1 {
		t.Fatalf("counterexamples = %+v", r.Counterexamples)
	}
	ce := r.Counterexamples[0]
	if len(ce.Inputs) != 1 || ce.Inputs[0] != "xs" || ce.Error == "" {
		t.Fatalf("counterexample = %+v", ce)
	}
	if rep.Safe() {
		t.Fatalf("violated report must not be safe")
	}
}

func TestNullDereference(t *testing.T) {
	src := "def f():\n    return None.value\n"
	rep := check(t, src)
	vs := violationsOf(rep, NullPointerDereference)
	if len(vs) != 1 {
		t.Fatalf("violations = %+v", rep.Violations)
	}
	if resultFor(t, rep, "null_safety").Status != Violated {
		t.Fatalf("null_safety should be violated")
	}
	// Null findings do not taint the memory property.
	if resultFor(t, rep, "memory_safety").Status != Proven {
		t.Fatalf("memory_safety should stay proven")
	}
}

func TestNullMethodCall(t *testing.T) {
	src := "def f():\n    None.append(1)\n"
	rep := check(t, src)
	if len(violationsOf(rep, NullPointerDereference)) != 1 {
		t.Fatalf("violations = %+v", rep.Violations)
	}
}

func TestOptionalVariableNotFlagged(t *testing.T) {
	src := "def f(x: Optional[int]):\n    return x.value\n"
	rep := check(t, src)
	if len(violationsOf(rep, NullPointerDereference)) != 0 {
		t.Fatalf("optional variables are not proven null: %+v", rep.Violations)
	}
}

func TestConstantIndexOutOfRange(t *testing.T) {
	src := "def f() -> int:\n    xs = [1, 2, 3]\n    return xs[5]\n"
	rep := check(t, src)
	vs := violationsOf(rep, BufferOverflow)
	if len(vs) != 1 || vs[0].Variable != "xs" {
		t.Fatalf("violations = %+v", rep.Violations)
	}
}

func TestNegativeIndexBounds(t *testing.T) {
	inRange := "def f() -> int:\n    xs = [1, 2, 3]\n    return xs[-3]\n"
	if vs := violationsOf(check(t, inRange), BufferOverflow); len(vs) != 0 {
		t.Fatalf("-3 indexes a 3-element list: %+v", vs)
	}
	outOfRange := "def f() -> int:\n    xs = [1, 2, 3]\n    return xs[-4]\n"
	if vs := violationsOf(check(t, outOfRange), BufferOverflow); len(vs) != 1 {
		t.Fatalf("-4 is out of range: %+v", vs)
	}
}

func TestLiteralIndexDirect(t *testing.T) {
	src := "def f() -> int:\n    return [1, 2][7]\n"
	rep := check(t, src)
	if len(violationsOf(rep, BufferOverflow)) != 1 {
		t.Fatalf("violations = %+v", rep.Violations)
	}
}

func TestReassignedContainerNotTracked(t *testing.T) {
	src := "def f() -> int:\n    xs = [1, 2]\n    xs = make()\n    return xs[5]\n"
	rep := check(t, src)
	if len(violationsOf(rep, BufferOverflow)) != 0 {
		t.Fatalf("reassignment loses the static length: %+v", rep.Violations)
	}
}

func TestFieldAliasingFlagged(t *testing.T) {
	src := "def f(self, x: list[int]):\n" +
		"    self.a = x\n" +
		"    self.b = x\n"
	rep := check(t, src)
	vs := violationsOf(rep, MutableAliasingViolation)
	if len(vs) != 1 || vs[0].Variable != "x" {
		t.Fatalf("violations = %+v", rep.Violations)
	}
}

func TestDataRaceRequiresSharedMarking(t *testing.T) {
	shared := "# @pyrite: thread_safety = \"required\"\n" +
		"# @pyrite: ownership = \"shared\"\n" +
		"def f(self, n: int):\n" +
		"    self.count = n\n"
	rep := check(t, shared)
	if len(violationsOf(rep, DataRace)) != 1 {
		t.Fatalf("violations = %+v", rep.Violations)
	}
	if resultFor(t, rep, "thread_safety").Status != Violated {
		t.Fatalf("thread_safety should be violated")
	}

	unmarked := "# @pyrite: thread_safety = \"required\"\n" +
		"def f(self, n: int):\n" +
		"    self.count = n\n"
	rep = check(t, unmarked)
	if len(violationsOf(rep, DataRace)) != 0 {
		t.Fatalf("default policy emits no finding: %+v", rep.Violations)
	}
	if resultFor(t, rep, "thread_safety").Status != Proven {
		t.Fatalf("thread_safety should be proven when nothing shared is written")
	}
}

func TestDynamicCallIsUnknown(t *testing.T) {
	src := "def f(fns: list[int], x: int) -> int:\n    return fns[0](x)\n"
	rep := check(t, src)
	r := resultFor(t, rep, "memory_safety")
	if r.Status != Unknown || r.Confidence != 0.5 {
		t.Fatalf("memory_safety = %+v", r)
	}
	if !rep.Safe() {
		t.Fatalf("unknown is not violated")
	}
}

func TestCheckModulePairsResults(t *testing.T) {
	src := "def a(xs: list[int]):\n    g(xs)\n    h(xs)\n\ndef b(n: int) -> int:\n    return n\n"
	fs := source.NewFileSet()
	ast, err := pyparse.ParseSource(fs, "test.py", []byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	mod, err := hir.NewBuilder(fs, nil).Build(ast)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	own := ownership.NewAnalyzer(mod).AnalyzeModule()
	reps := NewChecker(mod).CheckModule(own)
	if len(reps) != 2 {
		t.Fatalf("reports = %d", len(reps))
	}
	if reps[0].Function != "a" || len(violationsOf(reps[0], UseAfterMove)) != 1 {
		t.Fatalf("report a = %+v", reps[0])
	}
	if reps[1].Function != "b" || !reps[1].Safe() {
		t.Fatalf("report b = %+v", reps[1])
	}
}
