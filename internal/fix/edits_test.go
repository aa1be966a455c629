package fix

import (
	"errors"
	"testing"

	"pyrite/internal/diag"
	"pyrite/internal/source"
)

func span(start, end uint32) source.Span {
	return source.Span{Start: start, End: end}
}

func withFix(code diag.Code, primary source.Span, title string, edits ...diag.FixEdit) diag.Diagnostic {
	d := diag.NewWarning(code, primary, "message")
	d.Fixes = []diag.Fix{{Title: title, Edits: edits}}
	return d
}

func TestApplyAllEdits(t *testing.T) {
	src := []byte("abc def")
	ds := []diag.Diagnostic{
		withFix(diag.LintEval, span(0, 3), "upper a", diag.FixEdit{Span: span(0, 3), NewText: "ABC"}),
		withFix(diag.LintEval, span(4, 7), "upper d", diag.FixEdit{Span: span(4, 7), NewText: "DEF"}),
	}
	out, res, err := ApplyEdits(src, ds, ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if string(out) != "ABC DEF" {
		t.Fatalf("out = %q", out)
	}
	if len(res.Applied) != 2 {
		t.Fatalf("applied = %+v", res.Applied)
	}
}

func TestApplyOnceStopsAfterFirst(t *testing.T) {
	src := []byte("abc def")
	ds := []diag.Diagnostic{
		withFix(diag.LintEval, span(4, 7), "second", diag.FixEdit{Span: span(4, 7), NewText: "DEF"}),
		withFix(diag.LintEval, span(0, 3), "first", diag.FixEdit{Span: span(0, 3), NewText: "ABC"}),
	}
	out, res, err := ApplyEdits(src, ds, ApplyOptions{Mode: ApplyModeOnce})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if string(out) != "ABC def" {
		t.Fatalf("out = %q, want span order not input order", out)
	}
	if len(res.Applied) != 1 || res.Applied[0].Title != "first" {
		t.Fatalf("applied = %+v", res.Applied)
	}
}

func TestOverlappingFixSkipped(t *testing.T) {
	src := []byte("abcdef")
	ds := []diag.Diagnostic{
		withFix(diag.LintEval, span(0, 4), "wide", diag.FixEdit{Span: span(0, 4), NewText: "XXXX"}),
		withFix(diag.LintEval, span(2, 6), "overlapping", diag.FixEdit{Span: span(2, 6), NewText: "YYYY"}),
	}
	out, res, err := ApplyEdits(src, ds, ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if string(out) != "XXXXef" {
		t.Fatalf("out = %q", out)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Reason != "overlaps an earlier fix" {
		t.Fatalf("skipped = %+v", res.Skipped)
	}
}

func TestOutOfRangeEditSkipped(t *testing.T) {
	src := []byte("ab")
	ds := []diag.Diagnostic{
		withFix(diag.LintEval, span(0, 9), "bad", diag.FixEdit{Span: span(0, 9), NewText: "x"}),
	}
	_, res, err := ApplyEdits(src, ds, ApplyOptions{Mode: ApplyModeAll})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("err = %v, want ErrNoFixes", err)
	}
	if len(res.Skipped) != 1 {
		t.Fatalf("skipped = %+v", res.Skipped)
	}
}

func TestNoFixes(t *testing.T) {
	_, _, err := ApplyEdits([]byte("x"), nil, ApplyOptions{})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("err = %v, want ErrNoFixes", err)
	}
}
