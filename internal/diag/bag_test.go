package diag

import (
	"testing"

	"pyrite/internal/source"
)

func span(file source.FileID, start, end uint32) source.Span {
	return source.Span{File: file, Start: start, End: end}
}

func TestBagLimit(t *testing.T) {
	bag := NewBag(2)
	if !bag.Add(NewError(LintEval, span(1, 0, 4), "a")) {
		t.Fatalf("first add must succeed")
	}
	if !bag.Add(NewError(LintExec, span(1, 5, 9), "b")) {
		t.Fatalf("second add must succeed")
	}
	if bag.Add(NewError(LintEval, span(1, 10, 14), "c")) {
		t.Fatalf("add beyond the limit must fail")
	}
	if bag.Len() != 2 {
		t.Fatalf("len = %d, want 2", bag.Len())
	}
}

func TestBagSortOrder(t *testing.T) {
	bag := NewBag(8)
	bag.Add(NewWarning(PerfStringConcat, span(1, 40, 44), "later"))
	bag.Add(NewError(OwnUseAfterMove, span(1, 10, 14), "earlier"))
	bag.Add(NewWarning(LintLocals, span(1, 10, 14), "same span, lower severity"))

	bag.Sort()
	items := bag.Items()
	if items[0].Code != OwnUseAfterMove {
		t.Fatalf("first item = %v, want error at earliest offset", items[0].Code)
	}
	if items[1].Code != LintLocals {
		t.Fatalf("second item = %v, want warning at same offset", items[1].Code)
	}
	if items[2].Code != PerfStringConcat {
		t.Fatalf("third item = %v, want latest offset", items[2].Code)
	}
}

func TestBagDedup(t *testing.T) {
	bag := NewBag(8)
	bag.Add(NewError(LintEval, span(1, 0, 4), "a"))
	bag.Add(NewError(LintEval, span(1, 0, 4), "a repeated"))
	bag.Add(NewError(LintEval, span(1, 8, 12), "different span"))

	bag.Dedup()
	if bag.Len() != 2 {
		t.Fatalf("len after dedup = %d, want 2", bag.Len())
	}
}

func TestBagMergeAndHasErrors(t *testing.T) {
	a := NewBag(1)
	a.Add(NewWarning(PerfRangeLen, span(1, 0, 1), "w"))
	if a.HasErrors() {
		t.Fatalf("warning-only bag must not report errors")
	}

	b := NewBag(1)
	b.Add(NewError(MemNullDeref, span(1, 2, 3), "e"))

	a.Merge(b)
	if a.Len() != 2 {
		t.Fatalf("len after merge = %d, want 2", a.Len())
	}
	if !a.HasErrors() {
		t.Fatalf("merged bag must report errors")
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(8)
	r := NewDedupReporter(BagReporter{Bag: bag})

	sp := span(1, 0, 4)
	r.Report(LintEval, SevError, sp, "dup", nil, nil)
	r.Report(LintEval, SevError, sp, "dup", nil, nil)
	r.Report(LintEval, SevError, sp, "different message", nil, nil)

	if bag.Len() != 2 {
		t.Fatalf("len = %d, want 2", bag.Len())
	}
}

func TestCodeIDNamespaces(t *testing.T) {
	cases := []struct {
		code Code
		want string
	}{
		{LintEval, "LNT1001"},
		{OwnUseAfterMove, "OWN2001"},
		{MemBufferOverflow, "MEM3003"},
		{InlRecursive, "INL4002"},
		{PerfRemoveInLoop, "PRF5011"},
		{GenEmitterFailed, "GEN6002"},
		{SynParseError, "SYN6501"},
		{IOLoadFileError, "IO7001"},
		{ProjNoRoot, "PRJ8001"},
		{ObsTimings, "OBS9001"},
	}
	for _, c := range cases {
		if got := c.code.ID(); got != c.want {
			t.Fatalf("ID(%d) = %q, want %q", c.code, got, c.want)
		}
	}
}

func TestReportBuilderEmitOnce(t *testing.T) {
	bag := NewBag(4)
	b := ReportError(BagReporter{Bag: bag}, LintEval, span(1, 0, 4), "eval() is not supported").
		WithSuggestion("Refactor to use explicit logic or data structures")
	b.Emit()
	b.Emit()
	if bag.Len() != 1 {
		t.Fatalf("len = %d, want 1 (Emit must fire once)", bag.Len())
	}
}
