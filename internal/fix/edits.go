package fix

import (
	"errors"
	"fmt"
	"sort"

	"pyrite/internal/diag"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode determines selection strategy for diagnostic fixes.
type ApplyMode uint8

const (
	// ApplyModeOnce applies only the first applicable fix.
	ApplyModeOnce ApplyMode = iota
	// ApplyModeAll applies every non-overlapping fix.
	ApplyModeAll
)

// ApplyOptions configures how fixes are selected.
type ApplyOptions struct {
	Mode ApplyMode
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	Title     string
	Code      diag.Code
	Message   string
	EditCount int
}

// SkippedFix captures a skipped fix with a reason.
type SkippedFix struct {
	Title  string
	Reason string
}

// ApplyResult aggregates applied and skipped fixes.
type ApplyResult struct {
	Applied []AppliedFix
	Skipped []SkippedFix
}

type candidate struct {
	diag  diag.Diagnostic
	fix   diag.Fix
	order int
}

// ApplyEdits applies the edits attached to diagnostics to one source
// buffer. Candidates are ordered by span, then insertion order; a fix
// whose edits overlap an already-applied fix is skipped, never half
// applied.
func ApplyEdits(src []byte, diagnostics []diag.Diagnostic, opts ApplyOptions) ([]byte, *ApplyResult, error) {
	result := &ApplyResult{}

	var cands []candidate
	for i, d := range diagnostics {
		for _, f := range d.Fixes {
			if len(f.Edits) == 0 {
				result.Skipped = append(result.Skipped, SkippedFix{Title: f.Title, Reason: "fix has no edits"})
				continue
			}
			cands = append(cands, candidate{diag: d, fix: f, order: i})
		}
	}
	if len(cands) == 0 {
		return src, result, ErrNoFixes
	}

	sort.SliceStable(cands, func(i, j int) bool {
		di, dj := cands[i].diag, cands[j].diag
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if cands[i].order != cands[j].order {
			return cands[i].order < cands[j].order
		}
		return cands[i].fix.Title < cands[j].fix.Title
	})

	var taken []diag.FixEdit
	for _, c := range cands {
		if err := validateEdits(src, c.fix.Edits); err != nil {
			result.Skipped = append(result.Skipped, SkippedFix{Title: c.fix.Title, Reason: err.Error()})
			continue
		}
		if overlapsAny(c.fix.Edits, taken) {
			result.Skipped = append(result.Skipped, SkippedFix{Title: c.fix.Title, Reason: "overlaps an earlier fix"})
			continue
		}
		taken = append(taken, c.fix.Edits...)
		result.Applied = append(result.Applied, AppliedFix{
			Title:     c.fix.Title,
			Code:      c.diag.Code,
			Message:   c.diag.Message,
			EditCount: len(c.fix.Edits),
		})
		if opts.Mode == ApplyModeOnce {
			break
		}
	}
	if len(result.Applied) == 0 {
		return src, result, ErrNoFixes
	}

	// Apply back-to-front so earlier offsets stay valid.
	sort.SliceStable(taken, func(i, j int) bool {
		return taken[i].Span.Start > taken[j].Span.Start
	})
	out := append([]byte(nil), src...)
	for _, e := range taken {
		out = append(out[:e.Span.Start], append([]byte(e.NewText), out[e.Span.End:]...)...)
	}
	return out, result, nil
}

func validateEdits(src []byte, edits []diag.FixEdit) error {
	for _, e := range edits {
		if e.Span.Start > e.Span.End || int(e.Span.End) > len(src) {
			return fmt.Errorf("edit span [%d,%d) out of range", e.Span.Start, e.Span.End)
		}
	}
	return nil
}

func overlapsAny(edits, taken []diag.FixEdit) bool {
	for _, e := range edits {
		for _, t := range taken {
			if e.Span.Start < t.Span.End && t.Span.Start < e.Span.End {
				return true
			}
		}
	}
	return false
}
