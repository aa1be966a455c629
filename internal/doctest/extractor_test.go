package doctest

import (
	"bytes"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

func TestSimpleExtraction(t *testing.T) {
	src := "def square(x: int) -> int:\n" +
		"    \"\"\"Compute square.\n" +
		"\n" +
		"    >>> square(4)\n" +
		"    16\n" +
		"    >>> square(-3)\n" +
		"    9\n" +
		"    \"\"\"\n" +
		"    return x * x\n"
	exs := NewExtractor().Extract(src)

	if len(exs) != 2 {
		t.Fatalf("examples = %d, want 2", len(exs))
	}
	if exs[0].Function != "square" || exs[0].Input != "square(4)" || exs[0].Expected != "16" {
		t.Fatalf("first = %+v", exs[0])
	}
	if exs[0].Line != 4 {
		t.Fatalf("line = %d, want 4", exs[0].Line)
	}
	if exs[1].Input != "square(-3)" || exs[1].Expected != "9" {
		t.Fatalf("second = %+v", exs[1])
	}
}

func TestContinuationLinesJoinInput(t *testing.T) {
	src := "def add(a, b):\n" +
		"    \"\"\"\n" +
		"    >>> add(1,\n" +
		"    ...     2)\n" +
		"    3\n" +
		"    \"\"\"\n" +
		"    return a + b\n"
	exs := NewExtractor().Extract(src)

	if len(exs) != 1 {
		t.Fatalf("examples = %d, want 1", len(exs))
	}
	if exs[0].Input != "add(1,\n    2)" {
		t.Fatalf("input = %q", exs[0].Input)
	}
	if exs[0].Expected != "3" {
		t.Fatalf("expected = %q", exs[0].Expected)
	}
}

func TestEmptyExpectedDiscarded(t *testing.T) {
	src := "def setup():\n" +
		"    \"\"\"\n" +
		"    >>> x = setup()\n" +
		"    >>> x.run()\n" +
		"    done\n" +
		"    \"\"\"\n" +
		"    pass\n"
	exs := NewExtractor().Extract(src)

	if len(exs) != 1 {
		t.Fatalf("examples = %+v, want only the one with output", exs)
	}
	if exs[0].Input != "x.run()" {
		t.Fatalf("input = %q", exs[0].Input)
	}
}

func TestModuleLevelDocstring(t *testing.T) {
	src := "\"\"\"Utilities.\n" +
		"\n" +
		">>> 1 + 1\n" +
		"2\n" +
		"\"\"\"\n" +
		"\n" +
		"def f():\n" +
		"    pass\n"
	exs := NewExtractor().Extract(src)

	if len(exs) != 1 || exs[0].Function != ModuleScope {
		t.Fatalf("examples = %+v, want one module-scoped", exs)
	}

	e := NewExtractor()
	e.IncludeModule = false
	if got := e.Extract(src); len(got) != 0 {
		t.Fatalf("module examples not filtered: %+v", got)
	}
}

func TestMarkersOutsideDocstringIgnored(t *testing.T) {
	src := "def f():\n" +
		"    # >>> f()\n" +
		"    # 1\n" +
		"    return 1\n"
	if exs := NewExtractor().Extract(src); len(exs) != 0 {
		t.Fatalf("examples = %+v, want none", exs)
	}
}

func TestOneLineDocstringHasNoExamples(t *testing.T) {
	src := "def f():\n" +
		"    \"\"\"short\"\"\"\n" +
		"    >>> f()\n" +
		"    1\n"
	if exs := NewExtractor().Extract(src); len(exs) != 0 {
		t.Fatalf("examples = %+v, want none", exs)
	}
}

func TestSingleQuoteDelimiter(t *testing.T) {
	src := "def f():\n" +
		"    '''\n" +
		"    >>> f()\n" +
		"    1\n" +
		"    '''\n" +
		"    return 1\n"
	exs := NewExtractor().Extract(src)
	if len(exs) != 1 || exs[0].Expected != "1" {
		t.Fatalf("examples = %+v", exs)
	}
}

func TestExpectedStopsAtBlankBeforeMarker(t *testing.T) {
	src := "def f():\n" +
		"    \"\"\"\n" +
		"    >>> f()\n" +
		"    1\n" +
		"\n" +
		"    >>> f()\n" +
		"    1\n" +
		"    \"\"\"\n" +
		"    return 1\n"
	exs := NewExtractor().Extract(src)

	if len(exs) != 2 {
		t.Fatalf("examples = %d, want 2", len(exs))
	}
	if exs[0].Expected != "1" || exs[1].Expected != "1" {
		t.Fatalf("examples = %+v", exs)
	}
}

func TestMethodFiltering(t *testing.T) {
	src := "class Counter:\n" +
		"    def bump(self):\n" +
		"        \"\"\"\n" +
		"        >>> Counter().bump()\n" +
		"        1\n" +
		"        \"\"\"\n" +
		"        return 1\n" +
		"\n" +
		"def free():\n" +
		"    \"\"\"\n" +
		"    >>> free()\n" +
		"    2\n" +
		"    \"\"\"\n" +
		"    return 2\n"
	exs := NewExtractor().Extract(src)
	if len(exs) != 2 {
		t.Fatalf("examples = %d, want 2", len(exs))
	}

	e := NewExtractor()
	e.IncludeMethods = false
	exs = e.Extract(src)
	if len(exs) != 1 || exs[0].Function != "free" {
		t.Fatalf("filtered examples = %+v, want only free", exs)
	}
}

func TestBundleGroupsByFunction(t *testing.T) {
	src := "def square(x):\n" +
		"    \"\"\"\n" +
		"    >>> square(4)\n" +
		"    16\n" +
		"    >>> square(-3)\n" +
		"    9\n" +
		"    \"\"\"\n" +
		"    return x * x\n" +
		"\n" +
		"def cube(x):\n" +
		"    \"\"\"\n" +
		"    >>> cube(2)\n" +
		"    8\n" +
		"    \"\"\"\n" +
		"    return x ** 3\n"
	b := NewExtractor().ExtractBundle(src, "math_utils")

	if b.Module != "math_utils" || len(b.Groups) != 2 {
		t.Fatalf("bundle = %+v", b)
	}
	if b.Groups[0].Function != "square" || len(b.Groups[0].Examples) != 2 {
		t.Fatalf("first group = %+v", b.Groups[0])
	}
	if b.Groups[1].Function != "cube" || b.Total() != 3 {
		t.Fatalf("second group = %+v, total = %d", b.Groups[1], b.Total())
	}
}

func TestBundleRoundTrip(t *testing.T) {
	src := "def f():\n" +
		"    \"\"\"\n" +
		"    >>> f()\n" +
		"    1\n" +
		"    \"\"\"\n" +
		"    return 1\n"
	b := NewExtractor().ExtractBundle(src, "m")

	var buf bytes.Buffer
	if err := msgpack.NewEncoder(&buf).Encode(&b); err != nil {
		t.Fatalf("encode: %v", err)
	}
	var got Bundle
	if err := msgpack.NewDecoder(&buf).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Module != "m" || got.Total() != 1 {
		t.Fatalf("decoded = %+v", got)
	}
	if got.Groups[0].Examples[0].Line != 3 {
		t.Fatalf("line = %d, want 3", got.Groups[0].Examples[0].Line)
	}
}

func TestAssertionRendering(t *testing.T) {
	exs := []Example{
		{Function: "square", Input: "square(4)", Expected: "16", Line: 4},
		{Function: "square", Input: "square(-3)", Expected: "9", Line: 6},
	}
	if got := Assertion(exs[0]); got != "assert_eq!(square(4), 16);" {
		t.Fatalf("assertion = %q", got)
	}
	want := "/// ```\n" +
		"/// assert_eq!(square(4), 16);\n" +
		"/// assert_eq!(square(-3), 9);\n" +
		"/// ```"
	if got := DocTests(exs); got != want {
		t.Fatalf("doc tests = %q", got)
	}
	if DocTests(nil) != "" {
		t.Fatalf("empty input should render nothing")
	}
}
