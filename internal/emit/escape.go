package emit

// rustKeywords are the identifiers the default target refuses as plain
// names, strict and reserved sets combined.
var rustKeywords = map[string]bool{
	"as": true, "async": true, "await": true, "break": true,
	"const": true, "continue": true, "crate": true, "dyn": true,
	"else": true, "enum": true, "extern": true, "false": true,
	"fn": true, "for": true, "if": true, "impl": true, "in": true,
	"let": true, "loop": true, "match": true, "mod": true,
	"move": true, "mut": true, "pub": true, "ref": true,
	"return": true, "self": true, "static": true, "struct": true,
	"super": true, "trait": true, "true": true, "type": true,
	"unsafe": true, "use": true, "where": true, "while": true,
	"abstract": true, "become": true, "box": true, "do": true,
	"final": true, "macro": true, "override": true, "priv": true,
	"try": true, "typeof": true, "unsized": true, "virtual": true,
	"yield": true,
}

// noRawEscape holds keywords that cannot take the raw-identifier form;
// those get a trailing underscore instead.
var noRawEscape = map[string]bool{
	"crate": true, "self": true, "super": true,
}

func escapeRust(ident string) string {
	if noRawEscape[ident] {
		return ident + "_"
	}
	return "r#" + ident
}

// Rust is the default emission target.
func Rust() Target {
	return Target{Name: "rust", Keywords: rustKeywords, Escape: escapeRust}
}
