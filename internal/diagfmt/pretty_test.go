package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"pyrite/internal/diag"
	"pyrite/internal/source"
)

func TestPrettyBasic(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("x = 1\nresult = eval(code)\n")
	fileID := fs.AddVirtual("/home/user/project/src/test.py", content)

	bag := diag.NewBag(10)
	d := diag.NewError(
		diag.LintEval,
		source.Span{File: fileID, Start: 15, End: 19},
		"eval() is not supported",
	).WithSuggestion("Refactor to use explicit logic or data structures")
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	out := buf.String()

	if !strings.Contains(out, "error[LNT1001]") {
		t.Fatalf("expected error header with code, got:\n%s", out)
	}
	if !strings.Contains(out, "test.py:2:10") {
		t.Fatalf("expected location test.py:2:10, got:\n%s", out)
	}
	if !strings.Contains(out, "result = eval(code)") {
		t.Fatalf("expected source line in output, got:\n%s", out)
	}
	if !strings.Contains(out, "^^^^") {
		t.Fatalf("expected a 4-wide caret underline, got:\n%s", out)
	}
	if !strings.Contains(out, "suggestion: Refactor") {
		t.Fatalf("expected suggestion line, got:\n%s", out)
	}
}

func TestPrettyPathModes(t *testing.T) {
	fs := source.NewFileSetWithBase("/home/user/project")
	content := []byte("y = locals()\n")
	fileID := fs.AddVirtual("/home/user/project/src/mod.py", content)

	bag := diag.NewBag(10)
	bag.Add(diag.NewWarning(
		diag.LintLocals,
		source.Span{File: fileID, Start: 4, End: 12},
		"locals() is not supported",
	))

	cases := []struct {
		mode     PathMode
		contains string
	}{
		{PathModeAbsolute, "/home/user/project/src/mod.py"},
		{PathModeRelative, "src/mod.py"},
		{PathModeBasename, "mod.py"},
	}
	for _, c := range cases {
		var buf bytes.Buffer
		Pretty(&buf, bag, fs, PrettyOpts{PathMode: c.mode})
		if !strings.Contains(buf.String(), c.contains) {
			t.Fatalf("mode %d: expected %q in output, got:\n%s", c.mode, c.contains, buf.String())
		}
	}
}

func TestRenderReportFull(t *testing.T) {
	r := &diag.Report{
		Category: diag.CatSyntax,
		Message:  "unexpected token ':'",
		File:     "test.py",
		Line:     4,
		Col:      9,
		Snippet: &diag.Snippet{
			HasBefore:  true,
			BeforeNum:  3,
			Before:     "# comment 123",
			LineNum:    4,
			Line:       "def bar(:",
			HasAfter:   true,
			AfterNum:   5,
			After:      "    pass",
			CaretCol:   9,
			CaretWidth: 1,
		},
		Note: "The Python parser could not understand this code",
		Help: "Check the Python syntax at the indicated line",
	}

	var buf bytes.Buffer
	RenderReport(&buf, r, PrettyOpts{})
	out := buf.String()

	if !strings.Contains(out, "error[syntax]: unexpected token ':'") {
		t.Fatalf("expected header, got:\n%s", out)
	}
	if !strings.Contains(out, "--> test.py:4:9") {
		t.Fatalf("expected location, got:\n%s", out)
	}
	if !strings.Contains(out, "   4 | def bar(:") {
		t.Fatalf("expected gutter-aligned error line, got:\n%s", out)
	}
	// caret under column 9, single width
	if !strings.Contains(out, "     |         ^\n") {
		t.Fatalf("expected caret line, got:\n%s", out)
	}
	if !strings.Contains(out, "note: The Python parser") {
		t.Fatalf("expected note line, got:\n%s", out)
	}
	if !strings.Contains(out, "help: Check the Python syntax") {
		t.Fatalf("expected help line, got:\n%s", out)
	}
}

func TestRenderReportFileOnly(t *testing.T) {
	r := &diag.Report{Category: diag.CatIO, Message: "no such file", File: "missing.py"}

	var buf bytes.Buffer
	RenderReport(&buf, r, PrettyOpts{})
	out := buf.String()

	if !strings.Contains(out, "--> missing.py\n") {
		t.Fatalf("expected bare file location, got:\n%s", out)
	}
	if strings.Contains(out, "|") {
		t.Fatalf("did not expect a snippet gutter, got:\n%s", out)
	}
}
