package types

import "strings"

// Parse converts a Python annotation string into a Type. Unrecognized names
// become Custom types; an empty annotation is Unknown. The grammar covers the
// annotation subset the translator accepts: name, name[args], Optional[T],
// Union[...], and PEP 604 "A | B" unions.
func Parse(annotation string) Type {
	s := strings.TrimSpace(annotation)
	if s == "" {
		return Type{Kind: Unknown}
	}

	// PEP 604 union at the top level.
	if parts := splitTopLevel(s, '|'); len(parts) > 1 {
		elems := make([]Type, 0, len(parts))
		sawNone := false
		for _, p := range parts {
			t := Parse(p)
			if t.Kind == None {
				sawNone = true
				continue
			}
			elems = append(elems, t)
		}
		if sawNone && len(elems) == 1 {
			return OptionalOf(elems[0])
		}
		if sawNone {
			elems = append(elems, NoneT())
		}
		return UnionOf(elems...)
	}

	base := s
	var inner string
	if idx := strings.IndexByte(s, '['); idx >= 0 && strings.HasSuffix(s, "]") {
		base = strings.TrimSpace(s[:idx])
		inner = s[idx+1 : len(s)-1]
	}

	switch base {
	case "int":
		return IntT()
	case "float":
		return FloatT()
	case "bool":
		return BoolT()
	case "str":
		return StringT()
	case "bytes":
		return BytesT()
	case "None", "NoneType":
		return NoneT()
	case "list", "List":
		if inner == "" {
			return ListOf(Unknown_())
		}
		return ListOf(Parse(inner))
	case "set", "Set", "frozenset", "FrozenSet":
		if inner == "" {
			return SetOf(Unknown_())
		}
		return SetOf(Parse(inner))
	case "dict", "Dict":
		parts := splitTopLevel(inner, ',')
		if len(parts) == 2 {
			return DictOf(Parse(parts[0]), Parse(parts[1]))
		}
		return DictOf(Unknown_(), Unknown_())
	case "tuple", "Tuple":
		parts := splitTopLevel(inner, ',')
		elems := make([]Type, 0, len(parts))
		for _, p := range parts {
			if strings.TrimSpace(p) == "..." {
				continue
			}
			elems = append(elems, Parse(p))
		}
		return TupleOf(elems...)
	case "Optional":
		return OptionalOf(Parse(inner))
	case "Union":
		parts := splitTopLevel(inner, ',')
		elems := make([]Type, 0, len(parts))
		for _, p := range parts {
			elems = append(elems, Parse(p))
		}
		return UnionOf(elems...)
	case "Any", "object":
		return Unknown_()
	default:
		if inner != "" {
			parts := splitTopLevel(inner, ',')
			args := make([]Type, 0, len(parts))
			for _, p := range parts {
				args = append(args, Parse(p))
			}
			return GenericOf(base, args...)
		}
		return Named(base)
	}
}

// splitTopLevel splits s on sep, ignoring separators nested inside brackets.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[', '(':
			depth++
		case ']', ')':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	parts = append(parts, strings.TrimSpace(s[start:]))
	return parts
}
