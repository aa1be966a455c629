package diag

import "encoding/json"

// Category classifies a translation failure for downstream tooling.
type Category uint8

const (
	CatSyntax Category = iota
	CatUnsupported
	CatType
	CatCodegen
	CatIO
	CatInternal
)

func (c Category) Tag() string {
	switch c {
	case CatSyntax:
		return "syntax"
	case CatUnsupported:
		return "unsupported"
	case CatType:
		return "type"
	case CatCodegen:
		return "codegen"
	case CatIO:
		return "io"
	case CatInternal:
		return "internal"
	}
	return "internal"
}

func (c Category) String() string { return c.Tag() }

// MarshalJSON serializes the category as its stable tag string.
func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Tag())
}

// Report is a rich failure record with source context.
// Any stage of the pipeline that fails hands its error here to get a
// record suitable for terminal or JSON rendering.
//
// Zero values mean "unknown": empty File, Line/Col of 0, nil Snippet,
// empty Note/Help.
type Report struct {
	Category Category `json:"category"`
	Message  string   `json:"message"`
	File     string   `json:"file,omitempty"`
	Line     int      `json:"line,omitempty"`
	Col      int      `json:"column,omitempty"`
	Snippet  *Snippet `json:"snippet,omitempty"`
	Note     string   `json:"note,omitempty"`
	Help     string   `json:"help,omitempty"`
}

// Snippet is a 3-line source context window with gutter line numbers.
type Snippet struct {
	// BeforeNum/Before hold the line preceding the error, when it exists.
	BeforeNum int    `json:"before_num,omitempty"`
	Before    string `json:"before,omitempty"`
	HasBefore bool   `json:"has_before"`

	LineNum int    `json:"line_num"`
	Line    string `json:"line"`

	AfterNum int    `json:"after_num,omitempty"`
	After    string `json:"after,omitempty"`
	HasAfter bool   `json:"has_after"`

	// CaretCol is 1-based; 0 means no caret.
	CaretCol   int `json:"caret_col,omitempty"`
	CaretWidth int `json:"caret_width"`
}

// FromError builds a Report out of a raw error, an optional file path and
// optional source text. Location is recovered from the error message;
// when only a byte offset is present the source text converts it to
// line and column.
func FromError(err error, file string, src string) Report {
	msg := err.Error()
	category, note, help := categorize(msg)
	line, col := extractLocation(msg)

	if line == 0 && src != "" {
		if l, c, ok := extractByteOffset(msg, src); ok {
			line, col = l, c
		}
	}

	var snippet *Snippet
	if src != "" && line > 0 {
		snippet = ExtractSnippet(src, line, col)
	}

	return Report{
		Category: category,
		Message:  cleanMessage(msg),
		File:     file,
		Line:     line,
		Col:      col,
		Snippet:  snippet,
		Note:     note,
		Help:     help,
	}
}

// QualityScore measures completeness of the report in [0, 1].
// A score >= 0.7 means the report is actionable.
func (r *Report) QualityScore() float64 {
	// Message and category are always present.
	score := 0.3
	if r.File != "" {
		score += 0.1
	}
	if r.Line > 0 {
		score += 0.1
	}
	if r.Snippet != nil {
		score += 0.2
	}
	if r.Note != "" {
		score += 0.15
	}
	if r.Help != "" {
		score += 0.15
	}
	return score
}

// Actionable reports whether the record carries enough context for a user
// to act on it without digging further.
func (r *Report) Actionable() bool {
	return r.QualityScore() >= 0.7
}
