// Package testkit holds invariant checks shared by parser and lowering
// tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"pyrite/internal/pyast"
	"pyrite/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed
// module:
// 1) mod.Span is non-empty and within file content bounds
// 2) every top-level statement span is non-empty and contained in mod.Span
// 3) mod.Span covers the union of statement spans (if any exist)
func CheckSpanInvariants(mod *pyast.Module, sf *source.File) error {
	if mod == nil || sf == nil {
		return fmt.Errorf("nil module or file")
	}

	// 1) module span sanity
	if mod.Span.End <= mod.Span.Start && len(mod.Body) > 0 {
		return fmt.Errorf("module span is empty: %v", mod.Span)
	}
	if mod.Span.File != sf.ID {
		return fmt.Errorf("module span points to different file id: got=%d want=%d", mod.Span.File, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if mod.Span.End > lenContent {
		return fmt.Errorf("module span end beyond content: %d > %d", mod.Span.End, lenContent)
	}

	// 2) statement spans within the module span; 3) module covers union
	var union source.Span
	var haveStmt bool
	for i, s := range mod.Body {
		if s == nil {
			return fmt.Errorf("nil statement at index %d", i)
		}
		sp := s.Span
		if sp.End <= sp.Start {
			return fmt.Errorf("empty statement span: %v", sp)
		}
		if sp.File != sf.ID {
			return fmt.Errorf("statement span file mismatch: got=%d want=%d", sp.File, sf.ID)
		}
		if sp.Start < mod.Span.Start || sp.End > mod.Span.End {
			return fmt.Errorf("statement span %v is outside module span %v", sp, mod.Span)
		}
		if !haveStmt {
			union = sp
			haveStmt = true
		} else {
			union = union.Cover(sp)
		}
	}

	if haveStmt {
		if union.Start < mod.Span.Start || union.End > mod.Span.End {
			return fmt.Errorf("module span %v does not cover union of statements %v", mod.Span, union)
		}
	}
	return nil
}
