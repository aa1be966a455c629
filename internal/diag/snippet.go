package diag

import "strings"

// ExtractSnippet builds a 3-line context window around the given 1-based
// line. A zero col means no caret. A line past the end of the source
// yields an empty error line.
func ExtractSnippet(src string, line, col int) *Snippet {
	lines := splitLines(src)
	idx := line - 1

	s := &Snippet{
		LineNum:    line,
		CaretCol:   col,
		CaretWidth: 1,
	}

	if idx > 0 && idx-1 < len(lines) {
		s.HasBefore = true
		s.BeforeNum = line - 1
		s.Before = lines[idx-1]
	}
	if idx >= 0 && idx < len(lines) {
		s.Line = lines[idx]
	}
	if idx+1 < len(lines) {
		s.HasAfter = true
		s.AfterNum = line + 1
		s.After = lines[idx+1]
	}

	s.CaretWidth = estimateCaretWidth(s.Line, col)
	return s
}

// estimateCaretWidth walks forward from the 1-based caret column through
// the word at that position. Width is the token length for
// alphanumeric/underscore runs and 1 otherwise.
func estimateCaretWidth(line string, col int) int {
	if col <= 0 {
		return 1
	}
	chars := []rune(line)
	i := col - 1
	if i >= len(chars) {
		return 1
	}
	if !isWordRune(chars[i]) {
		return 1
	}
	end := i
	for end < len(chars) && isWordRune(chars[end]) {
		end++
	}
	if end-i < 1 {
		return 1
	}
	return end - i
}

func isWordRune(r rune) bool {
	return r == '_' ||
		('a' <= r && r <= 'z') ||
		('A' <= r && r <= 'Z') ||
		('0' <= r && r <= '9')
}

// splitLines splits on '\n' and drops a sole trailing empty segment so
// that "a\nb\n" yields two lines, matching how editors count them.
func splitLines(src string) []string {
	lines := strings.Split(src, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
