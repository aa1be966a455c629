// Package pyparse adapts the tree-sitter Python grammar into the pyast
// statement/expression model used by the rest of the pipeline.
//
// The concrete syntax tree never leaves this package: callers get a
// *pyast.Module with byte-accurate spans, or an error whose message
// carries "at row N, column M" so the diagnostic layer can recover the
// location.
package pyparse

import (
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"pyrite/internal/pyast"
	"pyrite/internal/source"
)

// Parser wraps a tree-sitter parser configured for Python.
// Not safe for concurrent use; create one per goroutine.
type Parser struct {
	inner *sitter.Parser
}

func New() (*Parser, error) {
	p := sitter.NewParser()
	lang := sitter.NewLanguage(tree_sitter_python.Language())
	if err := p.SetLanguage(lang); err != nil {
		p.Close()
		return nil, fmt.Errorf("load python grammar: %w", err)
	}
	return &Parser{inner: p}, nil
}

func (p *Parser) Close() {
	if p.inner != nil {
		p.inner.Close()
		p.inner = nil
	}
}

// Parse builds a module out of the file's content. Returns an error when
// the grammar reports a syntax error anywhere in the tree.
func (p *Parser) Parse(f *source.File) (*pyast.Module, error) {
	tree := p.inner.Parse(f.Content, nil)
	if tree == nil {
		return nil, fmt.Errorf("parse error: grammar produced no tree")
	}
	defer tree.Close()

	root := tree.RootNode()
	if bad := firstErrorNode(root); bad != nil {
		pos := bad.StartPosition()
		tok := nodeText(f.Content, bad)
		if len(tok) > 24 {
			tok = tok[:24]
		}
		if bad.IsMissing() {
			return nil, fmt.Errorf("parse error: missing %s at row %d, column %d",
				bad.Kind(), pos.Row+1, pos.Column+1)
		}
		return nil, fmt.Errorf("parse error: unexpected token %q at row %d, column %d",
			strings.TrimSpace(tok), pos.Row+1, pos.Column+1)
	}

	b := &builder{src: f.Content, file: f.ID}
	mod := &pyast.Module{
		Name: moduleName(f.Path),
		Path: f.Path,
		File: f.ID,
		Span: b.span(root),
	}
	mod.Body, mod.Docstring = b.buildBody(root)
	return mod, nil
}

// ParseSource is a convenience wrapper for virtual sources.
func ParseSource(fs *source.FileSet, name string, src []byte) (*pyast.Module, error) {
	p, err := New()
	if err != nil {
		return nil, err
	}
	defer p.Close()

	id := fs.AddVirtual(name, src)
	return p.Parse(fs.Get(id))
}

func firstErrorNode(n *sitter.Node) *sitter.Node {
	if n == nil || !n.HasError() {
		return nil
	}
	if n.IsError() || n.IsMissing() {
		return n
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		if bad := firstErrorNode(n.Child(i)); bad != nil {
			return bad
		}
	}
	// the subtree claims an error but no child owns it
	return n
}

func moduleName(path string) string {
	base := source.BaseName(path)
	return strings.TrimSuffix(base, ".py")
}

func nodeText(src []byte, n *sitter.Node) string {
	return string(src[n.StartByte():n.EndByte()])
}

// builder converts CST nodes into pyast values.
type builder struct {
	src  []byte
	file source.FileID
}

func (b *builder) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return string(b.src[n.StartByte():n.EndByte()])
}

func (b *builder) span(n *sitter.Node) source.Span {
	return source.Span{
		File:  b.file,
		Start: uint32(n.StartByte()),
		End:   uint32(n.EndByte()),
	}
}

// buildBody converts the statements under a block-like node, peeling a
// leading docstring off when present.
func (b *builder) buildBody(n *sitter.Node) (body []*pyast.Stmt, docstring string) {
	if n == nil {
		return nil, ""
	}
	first := true
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if !child.IsNamed() || child.Kind() == "comment" {
			continue
		}
		if first {
			first = false
			if doc, ok := b.docstringOf(child); ok {
				docstring = doc
				continue
			}
		}
		if s := b.buildStmt(child); s != nil {
			body = append(body, s)
		}
	}
	return body, docstring
}

func (b *builder) docstringOf(n *sitter.Node) (string, bool) {
	if n.Kind() != "expression_statement" || n.NamedChildCount() != 1 {
		return "", false
	}
	str := n.NamedChild(0)
	if str.Kind() != "string" {
		return "", false
	}
	if strings.Contains(strings.ToLower(stringPrefix(b.text(str))), "f") {
		return "", false
	}
	return stringContent(b, str), true
}
