package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"pyrite/internal/diag"
	"pyrite/internal/source"
)

const gutterWidth = 4

// palette holds the sprint functions used for colored output. A disabled
// palette returns its input unchanged.
type palette struct {
	errLabel  func(a ...interface{}) string
	warnLabel func(a ...interface{}) string
	infoLabel func(a ...interface{}) string
	bold      func(a ...interface{}) string
	blue      func(a ...interface{}) string
	caret     func(a ...interface{}) string
	note      func(a ...interface{}) string
	help      func(a ...interface{}) string
}

func newPalette(enabled bool) palette {
	if !enabled {
		id := func(a ...interface{}) string { return fmt.Sprint(a...) }
		return palette{id, id, id, id, id, id, id, id}
	}
	return palette{
		errLabel:  color.New(color.FgRed, color.Bold).Sprint,
		warnLabel: color.New(color.FgYellow, color.Bold).Sprint,
		infoLabel: color.New(color.FgCyan, color.Bold).Sprint,
		bold:      color.New(color.Bold).Sprint,
		blue:      color.New(color.FgBlue, color.Bold).Sprint,
		caret:     color.New(color.FgRed, color.Bold).Sprint,
		note:      color.New(color.FgYellow, color.Bold).Sprint,
		help:      color.New(color.FgGreen, color.Bold).Sprint,
	}
}

func (p palette) severity(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return p.errLabel("error")
	case diag.SevWarning:
		return p.warnLabel("warning")
	}
	return p.infoLabel("info")
}

// Pretty renders the bag's diagnostics in a human-readable form.
// Walks bag.Items() (call bag.Sort() beforehand). Each record prints as
//
//	error[LNT1001]: message
//	 --> path:line:col
//	    3 | eval(code)
//	      | ^^^^
//
// followed by notes, suggestions and fixes when enabled.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		prettyOne(w, d, fs, opts, p)
	}
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	fmt.Fprintf(w, "%s[%s]: %s\n", p.severity(d.Severity), p.bold(d.Code.ID()), p.bold(d.Message))

	f := fs.Get(d.Primary.File)
	if f != nil {
		start, _ := fs.Resolve(d.Primary)
		path := formatPath(f, fs, opts.PathMode)
		fmt.Fprintf(w, " %s %s:%d:%d\n", p.blue("-->"), path, start.Line, start.Col)
		writeWindow(w, f, d.Primary, start, p)
	}

	if opts.ShowNotes {
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s: %s\n", p.note("note"), n.Msg)
		}
	}
	if d.Suggestion != "" {
		fmt.Fprintf(w, "  %s: %s\n", p.help("suggestion"), d.Suggestion)
	}
	if opts.ShowFixes {
		for _, fx := range d.Fixes {
			fmt.Fprintf(w, "  %s: %s\n", p.help("fix"), fx.Title)
		}
	}
}

// writeWindow prints the error line with a gutter and a caret underline
// spanning the diagnostic's range on that line.
func writeWindow(w io.Writer, f *source.File, span source.Span, start source.LineCol, p palette) {
	text := f.GetLine(start.Line)
	if text == "" && start.Line > f.LineCount() {
		return
	}

	fmt.Fprintf(w, " %s %s %s\n", p.blue(fmt.Sprintf("%*d", gutterWidth, start.Line)), p.blue("|"), text)

	width := int(span.End) - int(span.Start)
	if width < 1 {
		width = 1
	}
	// clamp the underline to the visible line
	if rem := len(text) - int(start.Col) + 1; rem > 0 && width > rem {
		width = rem
	}
	pad := displayWidth(text, int(start.Col)-1)
	fmt.Fprintf(w, " %s %s %s%s\n",
		p.blue(strings.Repeat(" ", gutterWidth)),
		p.blue("|"),
		strings.Repeat(" ", pad),
		p.caret(strings.Repeat("^", width)))
}

// RenderReport renders a rich failure report in the same visual dialect.
func RenderReport(w io.Writer, r *diag.Report, opts PrettyOpts) {
	p := newPalette(opts.Color)

	fmt.Fprintf(w, "%s[%s]: %s\n", p.errLabel("error"), p.errLabel(r.Category.Tag()), p.bold(r.Message))

	switch {
	case r.File != "" && r.Line > 0 && r.Col > 0:
		fmt.Fprintf(w, " %s %s:%d:%d\n", p.blue("-->"), r.File, r.Line, r.Col)
	case r.File != "" && r.Line > 0:
		fmt.Fprintf(w, " %s %s:%d\n", p.blue("-->"), r.File, r.Line)
	case r.File != "":
		fmt.Fprintf(w, " %s %s\n", p.blue("-->"), r.File)
	}

	if r.Snippet != nil {
		renderSnippet(w, r.Snippet, p)
	}
	if r.Note != "" {
		fmt.Fprintf(w, "  %s: %s\n", p.note("note"), r.Note)
	}
	if r.Help != "" {
		fmt.Fprintf(w, "  %s: %s\n", p.help("help"), r.Help)
	}
}

func renderSnippet(w io.Writer, s *diag.Snippet, p palette) {
	gutterLine := func(num int, text string) {
		fmt.Fprintf(w, " %s %s %s\n", p.blue(fmt.Sprintf("%*d", gutterWidth, num)), p.blue("|"), text)
	}

	if s.HasBefore {
		gutterLine(s.BeforeNum, s.Before)
	}
	gutterLine(s.LineNum, s.Line)
	if s.CaretCol > 0 {
		carets := s.CaretWidth
		if carets < 1 {
			carets = 1
		}
		pad := displayWidth(s.Line, s.CaretCol-1)
		fmt.Fprintf(w, " %s %s %s%s\n",
			p.blue(strings.Repeat(" ", gutterWidth)),
			p.blue("|"),
			strings.Repeat(" ", pad),
			p.caret(strings.Repeat("^", carets)))
	}
	if s.HasAfter {
		gutterLine(s.AfterNum, s.After)
	}
}

// displayWidth measures the terminal width of the first n runes of text,
// so caret padding stays aligned with tabs and wide characters.
func displayWidth(text string, n int) int {
	if n <= 0 {
		return 0
	}
	runes := []rune(text)
	if n > len(runes) {
		n = len(runes)
	}
	w := 0
	for _, r := range runes[:n] {
		if r == '\t' {
			w += 4
			continue
		}
		w += runewidth.RuneWidth(r)
	}
	return w
}

func formatPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath("basename", "")
	}
	return f.FormatPath("auto", "")
}
