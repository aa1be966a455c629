package diag

import (
	"strconv"
	"strings"
)

// extractLocation recovers a 1-based line and column from an error message.
//
// Recognized patterns, in priority order:
//   - "at row N, column M"
//   - "at line N"
//   - "line N"
//
// A zero line means no location was found. A zero column means only the
// line is known.
func extractLocation(msg string) (line, col int) {
	if i := strings.Index(msg, "at row "); i >= 0 {
		rest := msg[i+len("at row "):]
		if lineStr, after, ok := strings.Cut(rest, ","); ok {
			l, err := strconv.Atoi(strings.TrimSpace(lineStr))
			if err == nil && l > 0 {
				after = strings.TrimSpace(after)
				if colStr, found := strings.CutPrefix(after, "column "); found {
					if f := strings.Fields(colStr); len(f) > 0 {
						if c, err := strconv.Atoi(f[0]); err == nil {
							return l, c
						}
					}
				}
				return l, 0
			}
		}
	}

	for _, prefix := range []string{"at line ", "line "} {
		if i := strings.Index(msg, prefix); i >= 0 {
			rest := msg[i+len(prefix):]
			if l := leadingInt(rest); l > 0 {
				return l, 0
			}
		}
	}

	return 0, 0
}

// extractByteOffset recovers line and column from a "byte offset N"
// pattern, converting the offset against the source text.
func extractByteOffset(msg, src string) (line, col int, ok bool) {
	lower := strings.ToLower(msg)
	const prefix = "byte offset "
	i := strings.Index(lower, prefix)
	if i < 0 {
		return 0, 0, false
	}
	off := leadingInt(msg[i+len(prefix):])
	if off < 0 {
		return 0, 0, false
	}

	line, col = 1, 1
	for i, ch := range src {
		if i >= off {
			break
		}
		if ch == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col, true
}

// leadingInt parses the run of ASCII digits at the start of s.
// Returns -1 when s does not start with a digit.
func leadingInt(s string) int {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return -1
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return -1
	}
	return n
}
