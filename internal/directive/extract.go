package directive

import (
	"strings"

	"pyrite/internal/source"
)

// Extract collects the directives attached to a definition that starts
// on defLine (1-based) in f. It walks the contiguous run of comment
// lines directly above the definition; the first blank or code line
// ends the run. Malformed directives are returned alongside the set so
// the caller can report them without losing the valid ones.
func Extract(f *source.File, defLine uint32) (Set, []error) {
	set := Default()
	if f == nil || defLine <= 1 {
		return set, nil
	}

	// Find the top of the comment run.
	top := defLine
	for top > 1 {
		line := strings.TrimSpace(f.GetLine(top - 1))
		if !strings.HasPrefix(line, "#") {
			break
		}
		top--
	}
	if top == defLine {
		return set, nil
	}

	var errs []error
	for ln := top; ln < defLine; ln++ {
		if _, err := set.ParseLine(f.GetLine(ln)); err != nil {
			errs = append(errs, err)
		}
	}
	return set, errs
}

// ExtractSource is Extract over a raw source string, for callers that
// do not carry a file table.
func ExtractSource(src string, defLine int) (Set, []error) {
	set := Default()
	if defLine <= 1 {
		return set, nil
	}
	lines := strings.Split(src, "\n")
	if defLine-1 > len(lines) {
		return set, nil
	}

	top := defLine
	for top > 1 {
		line := strings.TrimSpace(lines[top-2])
		if !strings.HasPrefix(line, "#") {
			break
		}
		top--
	}
	if top == defLine {
		return set, nil
	}

	var errs []error
	for ln := top; ln < defLine; ln++ {
		if _, err := set.ParseLine(lines[ln-1]); err != nil {
			errs = append(errs, err)
		}
	}
	return set, errs
}
