package fix

import (
	"fmt"
	"regexp"
	"strings"

	"pyrite/internal/emit"
)

// stripTypeChecking drops `if TYPE_CHECKING {}` statements that leak
// through lowering of typing-only import guards.
func stripTypeChecking(src string) string {
	lines := strings.Split(src, "\n")
	out := lines[:0]
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "if TYPE_CHECKING {}" || trimmed == "if TYPE_CHECKING { }" {
			continue
		}
		out = append(out, line)
	}
	joined := strings.Join(out, "\n")
	if !strings.HasSuffix(joined, "\n") {
		joined += "\n"
	}
	return joined
}

// stripTypeName removes `.__name__` accesses. The lowering of
// `type(x).__name__` already produces a call that returns the name, so
// the trailing attribute access is always invalid.
func stripTypeName(src string) string {
	return rewriteCode(src, func(code string) string {
		// Removal can splice a new occurrence together, so rescan.
		for strings.Contains(code, ".__name__") {
			code = strings.ReplaceAll(code, ".__name__", "")
		}
		return code
	})
}

var sequenceElems = []string{"i32", "i64", "f64", "u8", "bool", "String"}

// sequenceToSlice maps abstract read-only sequence types to borrowed
// slices.
func sequenceToSlice(src string) string {
	return rewriteCode(src, func(code string) string {
		for _, elem := range sequenceElems {
			code = strings.ReplaceAll(code, "Sequence<"+elem+">", "&["+elem+"]")
		}
		return code
	})
}

// unionTypeAlias replaces the nonexistent UnionType placeholder with
// the dynamic value wrapper.
func unionTypeAlias(src string) string {
	return rewriteCode(src, func(code string) string {
		for _, pat := range []string{"= UnionType;", ": UnionType", "<UnionType>", "(UnionType)"} {
			code = strings.ReplaceAll(code, pat, strings.Replace(pat, "UnionType", "PyValue", 1))
		}
		return code
	})
}

var rawIdentRe = regexp.MustCompile(`r#([A-Za-z_][A-Za-z0-9_]*)`)

// collapseRawIdents drops the raw-identifier prefix from names that do
// not collide with a keyword. The emitter escapes defensively; `r#true`
// and friends are outright wrong, and non-colliding names read better
// plain.
func collapseRawIdents(src string) string {
	target := emit.Rust()
	return rewriteCode(src, func(code string) string {
		return rawIdentRe.ReplaceAllStringFunc(code, func(m string) string {
			name := m[2:]
			if name == "true" || name == "false" {
				return name
			}
			if target.Reserved(name) {
				return m
			}
			return name
		})
	})
}

var mapBindingRe = regexp.MustCompile(`let (?:mut )?([A-Za-z_]\w*)\s*[:=][^;]*HashMap`)

// mapContains rewrites membership tests on map-typed bindings from the
// sequence method to the keyed one.
func mapContains(src string) string {
	names := map[string]struct{}{}
	for _, m := range mapBindingRe.FindAllStringSubmatch(src, -1) {
		names[m[1]] = struct{}{}
	}
	if len(names) == 0 {
		return src
	}
	return rewriteCode(src, func(code string) string {
		for name := range names {
			code = strings.ReplaceAll(code, name+".contains(", name+".contains_key(")
		}
		return code
	})
}

// pushBack repairs the list-append method name.
func pushBack(src string) string {
	return rewriteCode(src, func(code string) string {
		return strings.ReplaceAll(code, ".push_back(", ".push(")
	})
}

// floorDiv lowers the Python floor-division helper to euclidean
// division, which matches Python semantics for negative operands.
func floorDiv(src string) string {
	return rewriteCode(src, func(code string) string {
		return strings.ReplaceAll(code, ".py_floordiv(", ".div_euclid(")
	})
}

var floatBindingRe = regexp.MustCompile(`let (?:mut )?([A-Za-z_]\w*)\s*:\s*f64\b`)

// floatLiteralCompare turns bare integer literals compared against
// float-typed bindings into float literals.
func floatLiteralCompare(src string) string {
	names := map[string]struct{}{}
	for _, m := range floatBindingRe.FindAllStringSubmatch(src, -1) {
		names[m[1]] = struct{}{}
	}
	if len(names) == 0 {
		return src
	}
	return rewriteCode(src, func(code string) string {
		for name := range names {
			re := regexp.MustCompile(`\b` + name + `\s*(==|!=|<=|>=)\s*(\d+)([^.\d]|$)`)
			code = re.ReplaceAllString(code, name+" $1 $2.0$3")
		}
		return code
	})
}

var negatedTryRe = regexp.MustCompile(`-\s*([A-Za-z_]\w*\([^()]*\)\?)`)

// parenNegatedTry parenthesizes negation over a fallible call: the
// try operator binds tighter than the emitted unary minus expects.
func parenNegatedTry(src string) string {
	return rewriteCode(src, func(code string) string {
		return negatedTryRe.ReplaceAllString(code, "-($1)")
	})
}

var sharedFieldRe = regexp.MustCompile(`(let (?:mut )?\w+ = \w+\.borrow\(\)\.\w+);`)

// cloneSharedField clones field values read out of shared references;
// without the clone the binding would borrow from a temporary.
func cloneSharedField(src string) string {
	return rewriteCode(src, func(code string) string {
		return sharedFieldRe.ReplaceAllString(code, "$1.clone();")
	})
}

// derefOfRef collapses deref-of-reference pairs the ownership passes
// occasionally stack up.
func derefOfRef(src string) string {
	return rewriteCode(src, func(code string) string {
		// Stacked pairs like **&& need repeated scans.
		for strings.Contains(code, "*&") {
			code = strings.ReplaceAll(code, "*&", "")
		}
		return code
	})
}

// importSynthesis prepends std imports for symbols the text references
// without declaring.
func importSynthesis(src string) string {
	if strings.Contains(src, "HashMap") && !strings.Contains(src, "use std::collections::HashMap") {
		src = "use std::collections::HashMap;\n" + src
	}
	if strings.Contains(src, ".write_all(") && !strings.Contains(src, "use std::io::Write") {
		src = "use std::io::Write;\n" + src
	}
	return src
}

var stubFnRe = regexp.MustCompile(`(?m)^fn ([A-Za-z_]\w*)\(\w+: PyValue\) -> PyValue \{\s*PyValue::None\s*\}\n?`)

// stubToMacro rewrites single-parameter helper stubs into variadic
// macros when any call site passes a different arity. Runs last: the
// call-site scan expects identifiers in their final form.
func stubToMacro(src string) string {
	for _, m := range stubFnRe.FindAllStringSubmatch(src, -1) {
		name := m[1]
		if !hasVariadicCall(src, name) {
			continue
		}
		macro := fmt.Sprintf("macro_rules! %s { ($($arg:expr),*) => { PyValue::None }; }\n", name)
		src = strings.Replace(src, m[0], macro, 1)
		call := regexp.MustCompile(`\b` + name + `\(`)
		src = rewriteCode(src, func(code string) string {
			return call.ReplaceAllString(code, name+"!(")
		})
	}
	return src
}

func hasVariadicCall(src, name string) bool {
	re := regexp.MustCompile(`\b` + name + `\(([^()]*)\)`)
	for _, m := range re.FindAllStringSubmatch(src, -1) {
		args := strings.TrimSpace(m[1])
		if args == "" || strings.Contains(args, ",") {
			return true
		}
	}
	return false
}
