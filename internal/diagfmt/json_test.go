package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"pyrite/internal/diag"
	"pyrite/internal/source"
)

func TestJSONOutput(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.py", []byte("exec(cmd)\n"))

	bag := diag.NewBag(10)
	bag.Add(diag.NewError(
		diag.LintExec,
		source.Span{File: fileID, Start: 0, End: 4},
		"exec() is not supported",
	).WithSuggestion("Refactor to use explicit function calls"))

	var buf bytes.Buffer
	err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, PathMode: PathModeBasename})
	if err != nil {
		t.Fatalf("JSON failed: %v", err)
	}

	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("count = %d, diagnostics = %d, want 1/1", out.Count, len(out.Diagnostics))
	}

	d := out.Diagnostics[0]
	if d.Code != "LNT1002" {
		t.Fatalf("code = %q, want LNT1002", d.Code)
	}
	if d.Severity != "error" {
		t.Fatalf("severity = %q, want error", d.Severity)
	}
	if d.Location.File != "a.py" {
		t.Fatalf("file = %q, want a.py", d.Location.File)
	}
	if d.Location.StartLine != 1 || d.Location.StartCol != 1 {
		t.Fatalf("start = %d:%d, want 1:1", d.Location.StartLine, d.Location.StartCol)
	}
	if d.Suggestion == "" {
		t.Fatalf("expected suggestion to be carried through")
	}
}

func TestJSONMaxTruncation(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("b.py", []byte("eval(x)\neval(y)\neval(z)\n"))

	bag := diag.NewBag(10)
	for _, off := range []uint32{0, 8, 16} {
		bag.Add(diag.NewError(diag.LintEval, source.Span{File: fileID, Start: off, End: off + 4}, "eval() is not supported"))
	}

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 2})
	if out.Count != 2 {
		t.Fatalf("count = %d, want 2 after truncation", out.Count)
	}
	if bag.Len() != 3 {
		t.Fatalf("bag itself must stay untouched, len = %d", bag.Len())
	}
}

func TestReportJSONCategoryTag(t *testing.T) {
	r := &diag.Report{Category: diag.CatUnsupported, Message: "async is not supported"}

	var buf bytes.Buffer
	if err := ReportJSON(&buf, r); err != nil {
		t.Fatalf("ReportJSON failed: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, `"category": "unsupported"`) {
		t.Fatalf("expected category tag string, got:\n%s", out)
	}
	if !strings.Contains(out, `"quality": 0.3`) {
		t.Fatalf("expected quality score, got:\n%s", out)
	}
	if !strings.Contains(out, `"actionable": false`) {
		t.Fatalf("expected actionable flag, got:\n%s", out)
	}
}
