package lint

import (
	"strings"
	"testing"

	"pyrite/internal/diag"
	"pyrite/internal/pyast"
	"pyrite/internal/pyparse"
	"pyrite/internal/source"
)

func lintSource(t *testing.T, src string) []diag.Diagnostic {
	t.Helper()
	fs := source.NewFileSet()
	mod, err := pyparse.ParseSource(fs, "test.py", []byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return New().Run(mod)
}

func parseModule(t *testing.T, src string) *pyast.Module {
	t.Helper()
	fs := source.NewFileSet()
	mod, err := pyparse.ParseSource(fs, "test.py", []byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return mod
}

func TestEvalRejected(t *testing.T) {
	src := "def f(s: str) -> int:\n    return eval(s)\n"
	records := lintSource(t, src)

	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	r := records[0]
	if r.Code != diag.LintEval || r.Severity != diag.SevError {
		t.Fatalf("code=%s sev=%s", r.Code.ID(), r.Severity)
	}
	wantOff := uint32(strings.Index(src, "eval("))
	if r.Primary.Start != wantOff {
		t.Fatalf("offset = %d, want %d", r.Primary.Start, wantOff)
	}
	if !HasErrors(records) {
		t.Fatalf("eval must gate the pipeline")
	}
}

func TestExecAndGlobals(t *testing.T) {
	records := lintSource(t, "def f():\n    exec(\"x = 1\")\n    g = globals()\n")
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0].Code != diag.LintExec || records[1].Code != diag.LintGlobals {
		t.Fatalf("codes = %s, %s", records[0].Code.ID(), records[1].Code.ID())
	}
}

func TestLocalsIsWarning(t *testing.T) {
	records := lintSource(t, "def f():\n    return locals()\n")
	if len(records) != 1 || records[0].Severity != diag.SevWarning {
		t.Fatalf("locals() should be a warning, got %+v", records)
	}
	if HasErrors(records) {
		t.Fatalf("a lone warning must not gate the pipeline")
	}
}

func TestDynamicAttrSeverities(t *testing.T) {
	records := lintSource(t, "def f(o, n):\n    setattr(o, \"x\", 1)\n    setattr(o, n, 2)\n")
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0].Severity != diag.SevWarning {
		t.Fatalf("literal attribute name should be a warning")
	}
	if records[1].Severity != diag.SevError {
		t.Fatalf("computed attribute name should be an error")
	}
}

func TestMetaclassRejected(t *testing.T) {
	records := lintSource(t, "class C(metaclass=Meta):\n    pass\n")
	if len(records) != 1 || records[0].Code != diag.LintMetaclass {
		t.Fatalf("records = %+v", records)
	}
}

func TestTypeThreeArgRejected(t *testing.T) {
	records := lintSource(t, "def f():\n    C = type(\"C\", (), {})\n    t = type(42)\n")
	if len(records) != 1 || records[0].Code != diag.LintDynamicClass {
		t.Fatalf("only the 3-argument form of type() should be flagged, got %+v", records)
	}
}

func TestDunderHooks(t *testing.T) {
	src := "class C:\n" +
		"    def __getattr__(self, name):\n        pass\n" +
		"    def __setattr__(self, name, value):\n        pass\n"
	records := lintSource(t, src)
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0].Code != diag.LintGetattrHook || records[1].Code != diag.LintSetattrHook {
		t.Fatalf("codes = %s, %s", records[0].Code.ID(), records[1].Code.ID())
	}
	if HasErrors(records) {
		t.Fatalf("hook definitions are warnings")
	}
}

func TestMutationWhileIterating(t *testing.T) {
	src := "def f(items: list[int]):\n" +
		"    for x in items:\n" +
		"        items.append(x * 2)\n" +
		"        items.remove(x)\n"
	records := lintSource(t, src)
	count := 0
	for _, r := range records {
		if r.Code == diag.LintIterMutation {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("one record per loop, got %d", count)
	}
}

func TestSelfReference(t *testing.T) {
	records := lintSource(t, "def f(d: dict, lst: list):\n    d[\"self\"] = d\n    lst.append(lst)\n")
	count := 0
	for _, r := range records {
		if r.Code == diag.LintSelfReference {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("self-reference records = %d, want 2", count)
	}
}

func TestCyclicAssignment(t *testing.T) {
	src := "def link(a, b):\n    a.next = b\n    b.next = a\n"
	records := lintSource(t, src)
	if len(records) != 1 || records[0].Code != diag.LintCyclicAssign {
		t.Fatalf("records = %+v", records)
	}
}

func TestOrderAndIdempotence(t *testing.T) {
	src := "def f(s: str):\n    exec(s)\n    return eval(s)\n"
	mod := parseModule(t, src)

	first := New().Run(mod)
	second := New().Run(mod)
	if len(first) != len(second) {
		t.Fatalf("runs disagree: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Code != second[i].Code || first[i].Primary != second[i].Primary {
			t.Fatalf("record %d differs between runs", i)
		}
	}
	for i := 1; i < len(first); i++ {
		if first[i].Primary.Start < first[i-1].Primary.Start {
			t.Fatalf("records not in byte-offset order")
		}
	}
}

func TestCleanSourceNoRecords(t *testing.T) {
	records := lintSource(t, "def add(a: int, b: int) -> int:\n    return a + b\n")
	if len(records) != 0 {
		t.Fatalf("clean source should lint clean, got %+v", records)
	}
}
