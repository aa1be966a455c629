package emit

import (
	"testing"

	"pyrite/internal/directive"
	"pyrite/internal/hir"
	"pyrite/internal/inline"
	"pyrite/internal/memsafe"
	"pyrite/internal/ownership"
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

func TestEscapesCollectCollidingIdentifiers(t *testing.T) {
	src := "def f(match: int) -> int:\n" +
		"    loop = match\n" +
		"    return loop\n"
	mod := buildModule(t, src)
	in := NewInput(mod, nil, nil, nil, Rust())

	if got := in.Escapes["match"]; got != "r#match" {
		t.Fatalf("escape for match = %q", got)
	}
	if got := in.Escapes["loop"]; got != "r#loop" {
		t.Fatalf("escape for loop = %q", got)
	}
	if _, ok := in.Escapes["f"]; ok {
		t.Fatalf("non-colliding name escaped")
	}
}

func TestNoRawEscapeForms(t *testing.T) {
	tgt := Rust()
	if got := tgt.Escape("crate"); got != "crate_" {
		t.Fatalf("crate escape = %q", got)
	}
	if got := tgt.Escape("super"); got != "super_" {
		t.Fatalf("super escape = %q", got)
	}
	if got := tgt.Escape("struct"); got != "r#struct" {
		t.Fatalf("struct escape = %q", got)
	}
	if !tgt.Reserved("fn") || tgt.Reserved("banana") {
		t.Fatalf("reserved set wrong")
	}
}

func TestPropertyMethodsFromZeroArgMethods(t *testing.T) {
	src := "class Point:\n" +
		"    def __init__(self):\n" +
		"        self.x = 0\n" +
		"\n" +
		"    def norm(self) -> int:\n" +
		"        return 1\n" +
		"\n" +
		"    def scale(self, k: int) -> int:\n" +
		"        return k\n"
	mod := buildModule(t, src)
	in := NewInput(mod, nil, nil, nil, Rust())

	if cls, ok := in.PropertyMethods["norm"]; !ok || cls != "Point" {
		t.Fatalf("property methods = %+v", in.PropertyMethods)
	}
	if _, ok := in.PropertyMethods["scale"]; ok {
		t.Fatalf("method with arguments treated as property")
	}
	if _, ok := in.PropertyMethods["__init__"]; ok {
		t.Fatalf("constructor treated as property")
	}
}

func TestDirectivesKeyedByFunction(t *testing.T) {
	src := "# @pyrite: ownership = \"borrowed\"\n" +
		"def f(xs: list[int]) -> int:\n" +
		"    return len(xs)\n" +
		"\n" +
		"def g() -> int:\n" +
		"    return 0\n"
	mod := buildModule(t, src)
	in := NewInput(mod, nil, nil, nil, Rust())

	if in.Directives["f"].Ownership != directive.OwnershipBorrowed {
		t.Fatalf("directive for f = %+v", in.Directives["f"])
	}
	if in.Directives["g"].Ownership != directive.OwnershipOwned {
		t.Fatalf("directive for g = %+v", in.Directives["g"])
	}
}

func TestResultLookupByFunction(t *testing.T) {
	src := "def f(xs: list[int]) -> int:\n" +
		"    g(xs)\n" +
		"    return len(xs)\n"
	mod := buildModule(t, src)

	own := ownership.NewAnalyzer(mod).AnalyzeModule()
	safety := memsafe.NewChecker(mod).CheckModule(own)
	decisions := inline.NewAnalyzer(inline.DefaultConfig()).Analyze(mod)
	in := NewInput(mod, own, safety, decisions, Rust())

	r := in.OwnershipFor("f")
	if r == nil || len(r.Violations) != 1 {
		t.Fatalf("ownership result = %+v", r)
	}
	if in.SafetyFor("f") == nil {
		t.Fatalf("no safety report for f")
	}
	if in.OwnershipFor("missing") != nil || in.SafetyFor("missing") != nil {
		t.Fatalf("lookup for unknown function should be nil")
	}
}
