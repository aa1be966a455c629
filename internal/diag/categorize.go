package diag

import "strings"

// categorize maps a raw error message to (category, note, help).
// Matchers run in priority order over the lowercased message; the first
// one that fires wins.
func categorize(msg string) (Category, string, string) {
	lower := strings.ToLower(msg)

	for _, m := range matchers {
		if cat, note, help, ok := m(lower); ok {
			return cat, note, help
		}
	}
	return CatSyntax,
		"Translation failed",
		"Check the Python source for syntax or feature issues"
}

type matcher func(lower string) (Category, string, string, bool)

var matchers = []matcher{
	matchIO,
	matchType,
	matchInternal,
	matchCodegen,
	matchSyntax,
	matchUnsupported,
	matchGenerator,
	matchImport,
}

func matchIO(lower string) (Category, string, string, bool) {
	isIO := strings.Contains(lower, "no such file") ||
		strings.Contains(lower, "permission denied") ||
		strings.Contains(lower, "is a directory") ||
		(strings.Contains(lower, "not found") &&
			(strings.Contains(lower, "file") || strings.Contains(lower, "path") || strings.Contains(lower, "directory")))
	if !isIO {
		return 0, "", "", false
	}
	return CatIO,
		"The specified file could not be read",
		"Check the file path and permissions",
		true
}

func matchType(lower string) (Category, string, string, bool) {
	isType := strings.Contains(lower, "type") &&
		(strings.Contains(lower, "mismatch") || strings.Contains(lower, "inference"))
	if !isType {
		return 0, "", "", false
	}
	return CatType,
		"The type checker could not reconcile the types",
		"Add explicit type annotations to help the translator",
		true
}

func matchInternal(lower string) (Category, string, string, bool) {
	isInternal := strings.Contains(lower, "internal error") ||
		strings.Contains(lower, "internal translator")
	if !isInternal {
		return 0, "", "", false
	}
	return CatInternal,
		"An internal translator error occurred",
		"Please report this bug with a minimal reproducer",
		true
}

func matchCodegen(lower string) (Category, string, string, bool) {
	isCodegen := strings.Contains(lower, "code generation") ||
		strings.Contains(lower, "codegen")
	if !isCodegen {
		return 0, "", "", false
	}
	return CatCodegen,
		"The translator failed during code generation",
		"This may be a translator bug, please report it with a minimal reproducer",
		true
}

func matchSyntax(lower string) (Category, string, string, bool) {
	isSyntax := strings.Contains(lower, "parse error") ||
		strings.Contains(lower, "syntax error") ||
		strings.Contains(lower, "unexpected token") ||
		strings.Contains(lower, "invalid syntax") ||
		(strings.Contains(lower, "expected") &&
			(strings.Contains(lower, "found") || strings.Contains(lower, "got") || strings.Contains(lower, "token")))
	if !isSyntax {
		return 0, "", "", false
	}
	return CatSyntax,
		"The Python parser could not understand this code",
		parseHelp(lower),
		true
}

func matchUnsupported(lower string) (Category, string, string, bool) {
	isUnsupported := strings.Contains(lower, "unsupported") ||
		strings.Contains(lower, "not supported") ||
		strings.Contains(lower, "not yet supported") ||
		strings.Contains(lower, "not implemented")
	if !isUnsupported {
		return 0, "", "", false
	}
	note, help := unsupportedDetail(lower)
	return CatUnsupported, note, help, true
}

func matchGenerator(lower string) (Category, string, string, bool) {
	if !strings.Contains(lower, "yield") || !strings.Contains(lower, "generator") {
		return 0, "", "", false
	}
	return CatUnsupported,
		"Generator functions are not supported by the translator",
		"Return a list instead of yielding values",
		true
}

func matchImport(lower string) (Category, string, string, bool) {
	isImport := strings.Contains(lower, "import") ||
		(strings.Contains(lower, "module") && strings.Contains(lower, "not"))
	if !isImport {
		return 0, "", "", false
	}
	return CatUnsupported,
		"Module imports are not available in translated code",
		"Use the stdlib mapping or inline the functionality",
		true
}

// parseHelp produces help text for parse errors.
func parseHelp(lower string) string {
	switch {
	case strings.Contains(lower, "indent"):
		return "Check indentation, Python requires consistent whitespace"
	case strings.Contains(lower, "colon") || strings.Contains(lower, "':'"):
		return "A colon ':' is expected after def, class, if, for, while, etc."
	case strings.Contains(lower, "parenthes") || strings.Contains(lower, "bracket"):
		return "Check for mismatched parentheses, brackets, or braces"
	}
	return "Check the Python syntax at the indicated line"
}

// unsupportedDetail specializes note/help for known unsupported features.
func unsupportedDetail(lower string) (note, help string) {
	switch {
	case strings.Contains(lower, "yield") || strings.Contains(lower, "generator"):
		return "Generator functions are not supported by the translator",
			"Return a list instead of yielding values"
	case strings.Contains(lower, "async") || strings.Contains(lower, "await"):
		return "Async/await is not supported by the translator",
			"Use synchronous code or restructure with threads"
	case strings.Contains(lower, "decorator"):
		return "Decorators are not supported by the translator",
			"Apply the decorator logic manually in the function body"
	case strings.Contains(lower, "metaclass") || strings.Contains(lower, "__metaclass__"):
		return "Metaclasses are not supported by the translator",
			"Use composition or trait-based patterns instead"
	}
	return "This Python feature is not yet supported by the translator",
		"Consider using a simpler construct that the translator can handle"
}

// cleanMessage strips known prefix noise from error messages.
func cleanMessage(msg string) string {
	msg = strings.TrimSpace(msg)
	for _, prefix := range []string{
		"Python parse error: ",
		"Failed to parse: ",
		"Translation error: ",
	} {
		if rest, ok := strings.CutPrefix(msg, prefix); ok {
			return rest
		}
	}
	return msg
}
