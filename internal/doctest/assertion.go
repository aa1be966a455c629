package doctest

import (
	"fmt"
	"strings"
)

// Assertion renders an example as a target-language doc test line.
func Assertion(ex Example) string {
	return fmt.Sprintf("assert_eq!(%s, %s);", ex.Input, ex.Expected)
}

// DocTests renders a doc comment block holding one assertion per
// example. Empty input yields an empty string.
func DocTests(examples []Example) string {
	if len(examples) == 0 {
		return ""
	}
	lines := make([]string, 0, len(examples)+2)
	lines = append(lines, "/// ```")
	for _, ex := range examples {
		lines = append(lines, "/// "+Assertion(ex))
	}
	lines = append(lines, "/// ```")
	return strings.Join(lines, "\n")
}
