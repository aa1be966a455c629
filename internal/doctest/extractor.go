package doctest

import "strings"

// Extractor scans Python source for docstring examples.
type Extractor struct {
	// IncludeModule keeps examples found outside any function.
	IncludeModule bool
	// IncludeMethods keeps examples found in class methods.
	IncludeMethods bool
}

// NewExtractor returns an extractor that keeps everything.
func NewExtractor() *Extractor {
	return &Extractor{IncludeModule: true, IncludeMethods: true}
}

// Extract returns every example in source order.
func (e *Extractor) Extract(source string) []Example {
	lines := strings.Split(source, "\n")

	var out []Example
	function := ""
	method := false
	classIndent := -1
	inDocstring := false
	delim := ""

	for i := 0; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])

		if !inDocstring {
			if strings.HasPrefix(trimmed, "class ") {
				classIndent = indentOf(lines[i])
			}
			if strings.HasPrefix(trimmed, "def ") {
				if name := defName(trimmed); name != "" {
					function = name
					method = classIndent >= 0 && indentOf(lines[i]) > classIndent
					if !method {
						classIndent = -1
					}
				}
			}
			if d := openingDelim(trimmed); d != "" {
				inDocstring = true
				delim = d
				// A one-line docstring closes immediately.
				if strings.Contains(trimmed[3:], d) {
					inDocstring = false
					delim = ""
				}
			}
			continue
		}

		if strings.HasPrefix(trimmed, ">>>") {
			ex, consumed := e.parseExample(lines, i, function, method)
			if ex != nil {
				out = append(out, *ex)
			}
			i += consumed - 1
			continue
		}
		if strings.HasSuffix(trimmed, delim) && len(trimmed) >= 3 {
			inDocstring = false
			delim = ""
		}
	}
	return out
}

// ExtractBundle groups examples by function in first-appearance order.
func (e *Extractor) ExtractBundle(source, module string) Bundle {
	examples := e.Extract(source)

	index := make(map[string]int)
	var groups []Group
	for _, ex := range examples {
		gi, ok := index[ex.Function]
		if !ok {
			gi = len(groups)
			index[ex.Function] = gi
			groups = append(groups, Group{Function: ex.Function})
		}
		groups[gi].Examples = append(groups[gi].Examples, ex)
	}
	return Bundle{Source: module, Module: module, Groups: groups}
}

// parseExample reads one ">>>" block starting at line start. It returns
// the example (nil when the block has no expected output or the scope
// is filtered out) and the number of lines consumed.
func (e *Extractor) parseExample(lines []string, start int, function string, method bool) (*Example, int) {
	trimmed := strings.TrimSpace(lines[start])
	input := strings.TrimPrefix(trimmed, ">>> ")
	if input == trimmed {
		input = trimmed[3:]
	}
	consumed := 1
	next := start + 1

	for next < len(lines) {
		line := strings.TrimSpace(lines[next])
		rest, ok := strings.CutPrefix(line, "...")
		if !ok {
			break
		}
		input += "\n" + strings.TrimPrefix(rest, " ")
		consumed++
		next++
	}

	var expected []string
	for next < len(lines) {
		line := strings.TrimSpace(lines[next])
		if stopsExpected(line) {
			break
		}
		if line == "" {
			if next+1 < len(lines) && stopsExpected(strings.TrimSpace(lines[next+1])) {
				break
			}
			// Blank lines before any output are padding.
			if len(expected) == 0 {
				consumed++
				next++
				continue
			}
		}
		expected = append(expected, line)
		consumed++
		next++
	}

	if len(expected) == 0 {
		return nil, consumed
	}
	if function == "" && !e.IncludeModule {
		return nil, consumed
	}
	if method && !e.IncludeMethods {
		return nil, consumed
	}

	scope := function
	if scope == "" {
		scope = ModuleScope
	}
	return &Example{
		Function: scope,
		Input:    input,
		Expected: strings.Join(expected, "\n"),
		Line:     start + 1,
	}, consumed
}

func stopsExpected(line string) bool {
	return strings.HasPrefix(line, ">>>") ||
		strings.HasPrefix(line, `"""`) ||
		strings.HasPrefix(line, "'''")
}

func openingDelim(trimmed string) string {
	if strings.HasPrefix(trimmed, `"""`) {
		return `"""`
	}
	if strings.HasPrefix(trimmed, "'''") {
		return "'''"
	}
	return ""
}

func defName(trimmed string) string {
	rest := strings.TrimSpace(strings.TrimPrefix(trimmed, "def "))
	paren := strings.IndexByte(rest, '(')
	if paren < 0 {
		return ""
	}
	return rest[:paren]
}

func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}
