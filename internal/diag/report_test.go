package diag

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestCategoryTags(t *testing.T) {
	cases := []struct {
		cat  Category
		want string
	}{
		{CatSyntax, "syntax"},
		{CatUnsupported, "unsupported"},
		{CatType, "type"},
		{CatCodegen, "codegen"},
		{CatIO, "io"},
		{CatInternal, "internal"},
	}
	for _, c := range cases {
		if got := c.cat.Tag(); got != c.want {
			t.Fatalf("Tag() = %q, want %q", got, c.want)
		}
	}
}

func TestCategorizePriority(t *testing.T) {
	cases := []struct {
		msg  string
		want Category
	}{
		{"No such file or directory", CatIO},
		{"type mismatch between int and str", CatType},
		{"internal error: unreachable", CatInternal},
		{"codegen failed for function", CatCodegen},
		{"parse error near 'def'", CatSyntax},
		{"async functions are not supported", CatUnsupported},
		{"cannot import module foo", CatUnsupported},
		{"something went wrong", CatSyntax},
	}
	for _, c := range cases {
		got, _, _ := categorize(c.msg)
		if got != c.want {
			t.Fatalf("categorize(%q) = %v, want %v", c.msg, got, c.want)
		}
	}
}

func TestCategorizeIOBeatsSyntax(t *testing.T) {
	// "not found" with a path mention must win over "expected ... found".
	cat, note, help := categorize("expected path but file not found")
	if cat != CatIO {
		t.Fatalf("category = %v, want io", cat)
	}
	if note == "" || help == "" {
		t.Fatalf("io categorization must carry note and help")
	}
}

func TestUnsupportedSpecialization(t *testing.T) {
	cases := []struct {
		msg      string
		wantHelp string
	}{
		{"yield is not supported", "Return a list"},
		{"await is not supported", "synchronous"},
		{"decorator syntax not supported", "decorator logic manually"},
		{"metaclass= is unsupported", "composition"},
		{"walrus operator not implemented", "simpler construct"},
	}
	for _, c := range cases {
		cat, _, help := categorize(c.msg)
		if cat != CatUnsupported {
			t.Fatalf("categorize(%q) = %v, want unsupported", c.msg, cat)
		}
		if !strings.Contains(help, c.wantHelp) {
			t.Fatalf("help for %q = %q, want substring %q", c.msg, help, c.wantHelp)
		}
	}
}

func TestExtractLocationRowColumn(t *testing.T) {
	line, col := extractLocation("invalid syntax at row 7, column 13 while parsing")
	if line != 7 || col != 13 {
		t.Fatalf("extractLocation = (%d, %d), want (7, 13)", line, col)
	}
}

func TestExtractLocationAtLine(t *testing.T) {
	line, col := extractLocation("failure at line 42 in module")
	if line != 42 || col != 0 {
		t.Fatalf("extractLocation = (%d, %d), want (42, 0)", line, col)
	}
}

func TestExtractLocationBareLine(t *testing.T) {
	line, col := extractLocation("error on line 3: bad indent")
	if line != 3 || col != 0 {
		t.Fatalf("extractLocation = (%d, %d), want (3, 0)", line, col)
	}
}

func TestExtractLocationNone(t *testing.T) {
	line, col := extractLocation("totally opaque failure")
	if line != 0 || col != 0 {
		t.Fatalf("extractLocation = (%d, %d), want (0, 0)", line, col)
	}
}

func TestExtractByteOffset(t *testing.T) {
	src := "abc\ndef\nghi\n"
	line, col, ok := extractByteOffset("bad token at byte offset 5", src)
	if !ok {
		t.Fatalf("extractByteOffset failed to match")
	}
	if line != 2 || col != 2 {
		t.Fatalf("byte offset 5 = (%d, %d), want (2, 2)", line, col)
	}
}

func TestExtractSnippetMiddle(t *testing.T) {
	src := "one\ntwo\nthree\nfour\nfive\n"
	s := ExtractSnippet(src, 3, 1)
	if !s.HasBefore || s.Before != "two" || s.BeforeNum != 2 {
		t.Fatalf("before = %q (%d), want \"two\" (2)", s.Before, s.BeforeNum)
	}
	if s.Line != "three" || s.LineNum != 3 {
		t.Fatalf("error line = %q (%d), want \"three\" (3)", s.Line, s.LineNum)
	}
	if !s.HasAfter || s.After != "four" || s.AfterNum != 4 {
		t.Fatalf("after = %q (%d), want \"four\" (4)", s.After, s.AfterNum)
	}
}

func TestExtractSnippetFirstLine(t *testing.T) {
	s := ExtractSnippet("alpha\nbeta\n", 1, 0)
	if s.HasBefore {
		t.Fatalf("first line must not have a before line")
	}
	if s.Line != "alpha" {
		t.Fatalf("error line = %q, want \"alpha\"", s.Line)
	}
	if !s.HasAfter || s.After != "beta" {
		t.Fatalf("after = %q, want \"beta\"", s.After)
	}
}

func TestExtractSnippetLineOutOfRange(t *testing.T) {
	s := ExtractSnippet("only\n", 9, 0)
	if s.Line != "" {
		t.Fatalf("out-of-range error line = %q, want empty", s.Line)
	}
	if s.HasAfter {
		t.Fatalf("out-of-range snippet must not have an after line")
	}
}

func TestCaretWidthWordToken(t *testing.T) {
	// caret on "variable" spans the whole identifier
	if w := estimateCaretWidth("x = variable + 1", 5); w != 8 {
		t.Fatalf("caret width = %d, want 8", w)
	}
}

func TestCaretWidthPunctuation(t *testing.T) {
	if w := estimateCaretWidth("def bar(:", 9); w != 1 {
		t.Fatalf("caret width = %d, want 1", w)
	}
}

func TestCaretWidthPastEnd(t *testing.T) {
	if w := estimateCaretWidth("ab", 10); w != 1 {
		t.Fatalf("caret width = %d, want 1", w)
	}
}

func TestCleanMessage(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Python parse error: bad colon", "bad colon"},
		{"Failed to parse: oops", "oops"},
		{"  plain message  ", "plain message"},
	}
	for _, c := range cases {
		if got := cleanMessage(c.in); got != c.want {
			t.Fatalf("cleanMessage(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestReportFromByteOffset(t *testing.T) {
	src := "x = 1\ny = 2\n# comment 123\ndef bar(:\n    pass"
	err := errors.New("Got unexpected token ':' at byte offset 34")
	r := FromError(err, "test.py", src)

	if r.Line != 4 {
		t.Fatalf("line = %d, want 4", r.Line)
	}
	if r.Col != 9 {
		t.Fatalf("col = %d, want 9", r.Col)
	}
	if r.Snippet == nil {
		t.Fatalf("expected a snippet")
	}
	if !strings.Contains(r.Snippet.Line, "def bar(") {
		t.Fatalf("snippet error line = %q, want it to contain \"def bar(\"", r.Snippet.Line)
	}
	if r.Snippet.CaretWidth != 1 {
		t.Fatalf("caret width = %d, want 1", r.Snippet.CaretWidth)
	}
	if r.Category != CatSyntax {
		t.Fatalf("category = %v, want syntax", r.Category)
	}
}

func TestQualityScore(t *testing.T) {
	bare := Report{Category: CatSyntax, Message: "m"}
	if got := bare.QualityScore(); math.Abs(got-0.3) > 1e-9 {
		t.Fatalf("bare score = %v, want 0.3", got)
	}
	if bare.Actionable() {
		t.Fatalf("bare report must not be actionable")
	}

	full := Report{
		Category: CatSyntax,
		Message:  "m",
		File:     "f.py",
		Line:     1,
		Snippet:  &Snippet{LineNum: 1, Line: "x", CaretWidth: 1},
		Note:     "n",
		Help:     "h",
	}
	if got := full.QualityScore(); math.Abs(got-1.0) > 1e-9 {
		t.Fatalf("full score = %v, want 1.0", got)
	}
	if !full.Actionable() {
		t.Fatalf("full report must be actionable")
	}

	// file + line + snippet reaches the threshold without note/help
	partial := Report{Category: CatIO, Message: "m", File: "f", Line: 2, Snippet: &Snippet{}}
	if got := partial.QualityScore(); math.Abs(got-0.7) > 1e-9 {
		t.Fatalf("partial score = %v, want 0.7", got)
	}
	if !partial.Actionable() {
		t.Fatalf("score 0.7 must be actionable")
	}
}
