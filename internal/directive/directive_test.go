package directive

import (
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	s := Default()
	if s.Ownership != OwnershipOwned {
		t.Fatalf("default ownership = %v, want owned", s.Ownership)
	}
	if s.OptimizationLevel != OptStandard {
		t.Fatalf("default optimization level = %v, want standard", s.OptimizationLevel)
	}
	if s.BoundsChecking != BoundsExplicit {
		t.Fatalf("default bounds checking = %v, want explicit", s.BoundsChecking)
	}
	if s.ThreadSafety != ThreadNotRequired {
		t.Fatalf("default thread safety = %v, want not_required", s.ThreadSafety)
	}
	if s.PerformanceCritical {
		t.Fatalf("performance_critical should default to false")
	}
}

func TestParseLine(t *testing.T) {
	s := Default()

	matched, err := s.ParseLine(`# @pyrite: ownership = "borrowed"`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !matched {
		t.Fatalf("line should match the directive pattern")
	}
	if s.Ownership != OwnershipBorrowed {
		t.Fatalf("ownership = %v, want borrowed", s.Ownership)
	}

	matched, err = s.ParseLine("# plain comment")
	if err != nil || matched {
		t.Fatalf("plain comment: matched=%v err=%v", matched, err)
	}
}

func TestParseLineUnknownKey(t *testing.T) {
	s := Default()
	_, err := s.ParseLine(`# @pyrite: alignment = "wide"`)
	if err == nil {
		t.Fatalf("unknown key should error")
	}
	if !strings.Contains(err.Error(), "alignment") {
		t.Fatalf("error should name the key, got %v", err)
	}
}

func TestParseLineBadValue(t *testing.T) {
	s := Default()
	_, err := s.ParseLine(`# @pyrite: thread_safety = "sometimes"`)
	if err == nil {
		t.Fatalf("bad enum value should error")
	}
}

func TestApplyAllKeys(t *testing.T) {
	s := Default()
	pairs := [][2]string{
		{"optimization_level", "aggressive"},
		{"optimization_hint", "vectorize"},
		{"ownership", "shared"},
		{"string_strategy", "zero_copy"},
		{"hash_strategy", "fnv"},
		{"bounds_checking", "disabled"},
		{"panic_behavior", "return_error"},
		{"thread_safety", "required"},
		{"performance_critical", "true"},
		{"error_strategy", "result_type"},
	}
	for _, p := range pairs {
		if err := s.Apply(p[0], p[1]); err != nil {
			t.Fatalf("apply %s=%s: %v", p[0], p[1], err)
		}
	}
	if s.OptimizationLevel != OptAggressive {
		t.Fatalf("optimization level not applied")
	}
	if len(s.OptimizationHints) != 1 || s.OptimizationHints[0] != "vectorize" {
		t.Fatalf("optimization hints = %v", s.OptimizationHints)
	}
	if s.Ownership != OwnershipShared || s.StringStrategy != StringZeroCopy {
		t.Fatalf("ownership/string strategy not applied")
	}
	if s.HashStrategy != HashFnv || s.BoundsChecking != BoundsDisabled {
		t.Fatalf("hash/bounds not applied")
	}
	if s.PanicBehavior != PanicReturnError || s.ThreadSafety != ThreadRequired {
		t.Fatalf("panic/thread not applied")
	}
	if !s.PerformanceCritical || s.ErrorStrategy != ErrorResultType {
		t.Fatalf("performance_critical/error_strategy not applied")
	}
}

func TestExtractSource(t *testing.T) {
	src := "import os\n" +
		"\n" +
		"# @pyrite: ownership = \"borrowed\"\n" +
		"# @pyrite: thread_safety = \"required\"\n" +
		"def worker(data):\n" +
		"    pass\n"

	s, errs := ExtractSource(src, 5)
	if len(errs) != 0 {
		t.Fatalf("extract: %v", errs)
	}
	if s.Ownership != OwnershipBorrowed {
		t.Fatalf("ownership = %v, want borrowed", s.Ownership)
	}
	if s.ThreadSafety != ThreadRequired {
		t.Fatalf("thread safety = %v, want required", s.ThreadSafety)
	}
}

func TestExtractStopsAtCode(t *testing.T) {
	src := "# @pyrite: ownership = \"shared\"\n" +
		"x = 1\n" +
		"# plain note\n" +
		"def f():\n" +
		"    pass\n"

	s, errs := ExtractSource(src, 4)
	if len(errs) != 0 {
		t.Fatalf("extract: %v", errs)
	}
	if s.Ownership != OwnershipOwned {
		t.Fatalf("directive above unrelated code must not leak onto the def")
	}
}

func TestExtractReportsMalformed(t *testing.T) {
	src := "# @pyrite: ownership = \"borrowed\"\n" +
		"# @pyrite: bogus_key = \"1\"\n" +
		"def f():\n" +
		"    pass\n"

	s, errs := ExtractSource(src, 3)
	if len(errs) != 1 {
		t.Fatalf("want one error, got %v", errs)
	}
	if s.Ownership != OwnershipBorrowed {
		t.Fatalf("valid directive should survive a malformed neighbor")
	}
}
