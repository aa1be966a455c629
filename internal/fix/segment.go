package fix

import "strings"

// rewriteCode applies f to the code portions of src, leaving string
// literals, char literals, and line comments untouched. This is the
// invariant every pass relies on: repairs never reach into quoted text.
func rewriteCode(src string, f func(code string) string) string {
	lines := strings.Split(src, "\n")
	for i, line := range lines {
		lines[i] = rewriteLine(line, f)
	}
	return strings.Join(lines, "\n")
}

func rewriteLine(line string, f func(code string) string) string {
	var out strings.Builder
	rest := line
	for rest != "" {
		stop := len(rest)
		kind := byte(0)
		for j := 0; j < len(rest); j++ {
			c := rest[j]
			if c == '"' || c == '\'' {
				stop, kind = j, c
				break
			}
			if c == '/' && j+1 < len(rest) && rest[j+1] == '/' {
				stop, kind = j, '/'
				break
			}
		}
		out.WriteString(f(rest[:stop]))
		if kind == 0 {
			return out.String()
		}
		if kind == '/' {
			out.WriteString(rest[stop:])
			return out.String()
		}
		// A tick that opens a lifetime rather than a char literal has
		// no nearby closing quote; copy the tick alone and continue.
		end := closingQuote(rest, stop, kind)
		if end < 0 || (kind == '\'' && end-stop > 12) {
			out.WriteString(rest[stop : stop+1])
			rest = rest[stop+1:]
			continue
		}
		out.WriteString(rest[stop : end+1])
		rest = rest[end+1:]
	}
	return out.String()
}

// closingQuote finds the index of the matching quote, honouring
// backslash escapes. Returns -1 when the literal never closes.
func closingQuote(s string, open int, quote byte) int {
	for j := open + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case quote:
			return j
		}
	}
	return -1
}
