package fuzztests

import (
	"testing"
	"unicode/utf8"

	"pyrite/internal/doctest"
	"pyrite/internal/fix"
	"pyrite/internal/pyparse"
	"pyrite/internal/source"
)

const maxFuzzInput = 1 << 16 // 64 KiB

func FuzzDoctestExtractor(f *testing.F) {
	addPythonSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		if len(input) > maxFuzzInput {
			input = input[:maxFuzzInput]
		}
		src := string(input)

		examples := doctest.NewExtractor().Extract(src)
		lines := 1
		for _, c := range src {
			if c == '\n' {
				lines++
			}
		}
		for _, ex := range examples {
			if ex.Line < 1 || ex.Line > lines {
				t.Fatalf("example line %d out of range 1..%d", ex.Line, lines)
			}
			if ex.Expected == "" {
				t.Fatalf("example without expected output survived at line %d", ex.Line)
			}
		}
	})
}

func FuzzFixPipelineIdempotent(f *testing.F) {
	addRustSeeds(f)
	pipeline := fix.Default()
	f.Fuzz(func(t *testing.T, input string) {
		if len(input) > maxFuzzInput {
			input = input[:maxFuzzInput]
		}
		if !utf8.ValidString(input) {
			t.Skip()
		}

		once := pipeline.Run(input)
		twice := pipeline.Run(once)
		if once != twice {
			t.Fatalf("pipeline is not idempotent\nonce:  %q\ntwice: %q", once, twice)
		}
	})
}

func FuzzPythonFrontend(f *testing.F) {
	addPythonSeeds(f)
	f.Fuzz(func(_ *testing.T, input []byte) {
		if len(input) > maxFuzzInput {
			input = append([]byte(nil), input[:maxFuzzInput]...)
		} else {
			input = append([]byte(nil), input...)
		}

		fs := source.NewFileSet()
		// Parse errors are expected on arbitrary bytes; only panics and
		// hangs count as findings.
		_, _ = pyparse.ParseSource(fs, "fuzz.py", input)
	})
}
