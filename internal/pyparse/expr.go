package pyparse

import (
	"strconv"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"pyrite/internal/pyast"
)

func (b *builder) buildExpr(n *sitter.Node) *pyast.Expr {
	if n == nil {
		return nil
	}
	switch n.Kind() {
	case "identifier":
		return &pyast.Expr{Kind: pyast.ExprName, Span: b.span(n), Data: pyast.NameData{Name: b.text(n)}}
	case "integer":
		return b.buildInt(n)
	case "float":
		f, _ := strconv.ParseFloat(strings.ReplaceAll(b.text(n), "_", ""), 64)
		return b.literal(n, pyast.LiteralData{LitKind: pyast.LitFloat, Raw: b.text(n), Float: f})
	case "true":
		return b.literal(n, pyast.LiteralData{LitKind: pyast.LitBool, Raw: "True", Bool: true})
	case "false":
		return b.literal(n, pyast.LiteralData{LitKind: pyast.LitBool, Raw: "False"})
	case "none":
		return b.literal(n, pyast.LiteralData{LitKind: pyast.LitNone, Raw: "None"})
	case "ellipsis":
		return b.literal(n, pyast.LiteralData{LitKind: pyast.LitEllipsis, Raw: "..."})
	case "string":
		return b.buildString(n)
	case "concatenated_string":
		return b.buildConcatString(n)
	case "binary_operator":
		return &pyast.Expr{Kind: pyast.ExprBinary, Span: b.span(n), Data: pyast.BinaryData{
			Left:  b.buildExpr(n.ChildByFieldName("left")),
			Op:    b.text(n.ChildByFieldName("operator")),
			Right: b.buildExpr(n.ChildByFieldName("right")),
		}}
	case "unary_operator":
		return &pyast.Expr{Kind: pyast.ExprUnary, Span: b.span(n), Data: pyast.UnaryData{
			Op:      b.text(n.ChildByFieldName("operator")),
			Operand: b.buildExpr(n.ChildByFieldName("argument")),
		}}
	case "not_operator":
		return &pyast.Expr{Kind: pyast.ExprUnary, Span: b.span(n), Data: pyast.UnaryData{
			Op:      "not",
			Operand: b.buildExpr(n.ChildByFieldName("argument")),
		}}
	case "boolean_operator":
		return b.buildBoolOp(n)
	case "comparison_operator":
		return b.buildCompare(n)
	case "call":
		return b.buildCall(n)
	case "attribute":
		return &pyast.Expr{Kind: pyast.ExprAttribute, Span: b.span(n), Data: pyast.AttributeData{
			Value: b.buildExpr(n.ChildByFieldName("object")),
			Attr:  b.text(n.ChildByFieldName("attribute")),
		}}
	case "subscript":
		return b.buildSubscript(n)
	case "slice":
		return b.buildSlice(n)
	case "list":
		return b.buildSeq(n, pyast.ExprList)
	case "tuple", "expression_list", "pattern_list", "tuple_pattern":
		return b.buildSeq(n, pyast.ExprTuple)
	case "set":
		return b.buildSeq(n, pyast.ExprSet)
	case "dictionary":
		return b.buildDict(n)
	case "list_comprehension":
		return b.buildComp(n, pyast.ExprListComp)
	case "set_comprehension":
		return b.buildComp(n, pyast.ExprSetComp)
	case "generator_expression":
		return b.buildComp(n, pyast.ExprGenerator)
	case "dictionary_comprehension":
		return b.buildDictComp(n)
	case "lambda":
		return &pyast.Expr{Kind: pyast.ExprLambda, Span: b.span(n), Data: pyast.LambdaData{
			Params: b.buildParams(n.ChildByFieldName("parameters")),
			Body:   b.buildExpr(n.ChildByFieldName("body")),
		}}
	case "conditional_expression":
		return b.buildConditional(n)
	case "named_expression":
		return &pyast.Expr{Kind: pyast.ExprNamed, Span: b.span(n), Data: pyast.UnaryExprData{
			Name:  b.text(n.ChildByFieldName("name")),
			Value: b.buildExpr(n.ChildByFieldName("value")),
		}}
	case "await":
		return &pyast.Expr{Kind: pyast.ExprAwait, Span: b.span(n), Data: pyast.UnaryExprData{
			Value: b.buildExpr(lastNamedChild(n)),
		}}
	case "yield":
		var val *pyast.Expr
		if n.NamedChildCount() > 0 {
			val = b.buildExpr(lastNamedChild(n))
		}
		return &pyast.Expr{Kind: pyast.ExprYield, Span: b.span(n), Data: pyast.UnaryExprData{Value: val}}
	case "list_splat", "list_splat_pattern", "starred_expression":
		return &pyast.Expr{Kind: pyast.ExprStarred, Span: b.span(n), Data: pyast.UnaryExprData{
			Value: b.buildExpr(lastNamedChild(n)),
		}}
	case "parenthesized_expression":
		if n.NamedChildCount() == 1 {
			return b.buildExpr(n.NamedChild(0))
		}
	}
	// fallback: keep the raw spelling as an opaque name
	return &pyast.Expr{Kind: pyast.ExprName, Span: b.span(n), Data: pyast.NameData{Name: b.text(n)}}
}

func (b *builder) literal(n *sitter.Node, data pyast.LiteralData) *pyast.Expr {
	return &pyast.Expr{Kind: pyast.ExprLiteral, Span: b.span(n), Data: data}
}

func (b *builder) buildInt(n *sitter.Node) *pyast.Expr {
	raw := b.text(n)
	v, err := strconv.ParseInt(strings.ReplaceAll(raw, "_", ""), 0, 64)
	if err != nil {
		v = 0
	}
	return b.literal(n, pyast.LiteralData{LitKind: pyast.LitInt, Raw: raw, Int: v})
}

func (b *builder) buildBoolOp(n *sitter.Node) *pyast.Expr {
	op := b.text(n.ChildByFieldName("operator"))
	left := b.buildExpr(n.ChildByFieldName("left"))
	right := b.buildExpr(n.ChildByFieldName("right"))

	// flatten chains of the same operator
	values := []*pyast.Expr{}
	if left != nil && left.Kind == pyast.ExprBoolOp {
		if ld, ok := left.Data.(pyast.BoolOpData); ok && ld.Op == op {
			values = append(values, ld.Values...)
			left = nil
		}
	}
	if left != nil {
		values = append(values, left)
	}
	values = append(values, right)
	return &pyast.Expr{Kind: pyast.ExprBoolOp, Span: b.span(n), Data: pyast.BoolOpData{Op: op, Values: values}}
}

func (b *builder) buildCompare(n *sitter.Node) *pyast.Expr {
	data := pyast.CompareData{}
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child.IsNamed() && child.Kind() != "comment" {
			data.Operands = append(data.Operands, b.buildExpr(child))
		} else if !child.IsNamed() {
			data.Ops = append(data.Ops, child.Kind())
		}
	}
	// merge two-token operators ("not in", "is not")
	merged := make([]string, 0, len(data.Ops))
	for i := 0; i < len(data.Ops); i++ {
		switch {
		case data.Ops[i] == "not" && i+1 < len(data.Ops) && data.Ops[i+1] == "in":
			merged = append(merged, "not in")
			i++
		case data.Ops[i] == "is" && i+1 < len(data.Ops) && data.Ops[i+1] == "not":
			merged = append(merged, "is not")
			i++
		default:
			merged = append(merged, data.Ops[i])
		}
	}
	data.Ops = merged
	return &pyast.Expr{Kind: pyast.ExprCompare, Span: b.span(n), Data: data}
}

func (b *builder) buildCall(n *sitter.Node) *pyast.Expr {
	data := pyast.CallData{Func: b.buildExpr(n.ChildByFieldName("function"))}
	if args := n.ChildByFieldName("arguments"); args != nil {
		for i := uint(0); i < args.NamedChildCount(); i++ {
			arg := args.NamedChild(i)
			if arg.Kind() == "keyword_argument" {
				data.Keywords = append(data.Keywords, pyast.Keyword{
					Name:  b.text(arg.ChildByFieldName("name")),
					Value: b.buildExpr(arg.ChildByFieldName("value")),
				})
				continue
			}
			if arg.Kind() == "comment" {
				continue
			}
			data.Args = append(data.Args, b.buildExpr(arg))
		}
	}
	return &pyast.Expr{Kind: pyast.ExprCall, Span: b.span(n), Data: data}
}

func (b *builder) buildSubscript(n *sitter.Node) *pyast.Expr {
	data := pyast.SubscriptData{Value: b.buildExpr(n.ChildByFieldName("value"))}
	if sub := n.ChildByFieldName("subscript"); sub != nil {
		data.Index = b.buildExpr(sub)
	}
	return &pyast.Expr{Kind: pyast.ExprSubscript, Span: b.span(n), Data: data}
}

// buildSlice splits "start:stop:step" on the colon tokens; every part is
// optional.
func (b *builder) buildSlice(n *sitter.Node) *pyast.Expr {
	data := pyast.SliceData{}
	slot := 0
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if !child.IsNamed() {
			if child.Kind() == ":" {
				slot++
			}
			continue
		}
		e := b.buildExpr(child)
		switch slot {
		case 0:
			data.Start = e
		case 1:
			data.Stop = e
		default:
			data.Step = e
		}
	}
	return &pyast.Expr{Kind: pyast.ExprSlice, Span: b.span(n), Data: data}
}

func (b *builder) buildSeq(n *sitter.Node, kind pyast.ExprKind) *pyast.Expr {
	data := pyast.SequenceData{}
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child.Kind() == "comment" {
			continue
		}
		data.Elems = append(data.Elems, b.buildExpr(child))
	}
	return &pyast.Expr{Kind: kind, Span: b.span(n), Data: data}
}

func (b *builder) buildDict(n *sitter.Node) *pyast.Expr {
	data := pyast.DictData{}
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		switch child.Kind() {
		case "pair":
			data.Keys = append(data.Keys, b.buildExpr(child.ChildByFieldName("key")))
			data.Values = append(data.Values, b.buildExpr(child.ChildByFieldName("value")))
		case "dictionary_splat":
			data.Keys = append(data.Keys, nil)
			data.Values = append(data.Values, b.buildExpr(lastNamedChild(child)))
		}
	}
	return &pyast.Expr{Kind: pyast.ExprDict, Span: b.span(n), Data: data}
}

func (b *builder) buildComp(n *sitter.Node, kind pyast.ExprKind) *pyast.Expr {
	data := pyast.CompData{
		Elem:       b.buildExpr(n.ChildByFieldName("body")),
		Generators: b.buildGenerators(n),
	}
	return &pyast.Expr{Kind: kind, Span: b.span(n), Data: data}
}

func (b *builder) buildDictComp(n *sitter.Node) *pyast.Expr {
	data := pyast.DictCompData{Generators: b.buildGenerators(n)}
	if body := n.ChildByFieldName("body"); body != nil && body.Kind() == "pair" {
		data.Key = b.buildExpr(body.ChildByFieldName("key"))
		data.Value = b.buildExpr(body.ChildByFieldName("value"))
	}
	return &pyast.Expr{Kind: pyast.ExprDictComp, Span: b.span(n), Data: data}
}

func (b *builder) buildGenerators(n *sitter.Node) []pyast.Comprehension {
	var gens []pyast.Comprehension
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		switch child.Kind() {
		case "for_in_clause":
			gens = append(gens, pyast.Comprehension{
				Target: b.buildExpr(child.ChildByFieldName("left")),
				Iter:   b.buildExpr(child.ChildByFieldName("right")),
				Async:  hasKeyword(child, "async"),
			})
		case "if_clause":
			if len(gens) > 0 && child.NamedChildCount() > 0 {
				last := &gens[len(gens)-1]
				last.Conds = append(last.Conds, b.buildExpr(child.NamedChild(0)))
			}
		}
	}
	return gens
}

func (b *builder) buildConditional(n *sitter.Node) *pyast.Expr {
	// named children in source order: body, test, orelse
	data := pyast.IfExpData{}
	if n.NamedChildCount() > 0 {
		data.Body = b.buildExpr(n.NamedChild(0))
	}
	if n.NamedChildCount() > 1 {
		data.Test = b.buildExpr(n.NamedChild(1))
	}
	if n.NamedChildCount() > 2 {
		data.Orelse = b.buildExpr(n.NamedChild(2))
	}
	return &pyast.Expr{Kind: pyast.ExprIfExp, Span: b.span(n), Data: data}
}

// buildString handles plain, raw, byte and f-strings. F-strings become
// ExprFString with interleaved literal and expression parts.
func (b *builder) buildString(n *sitter.Node) *pyast.Expr {
	prefix := strings.ToLower(stringPrefix(b.text(n)))

	if strings.Contains(prefix, "f") {
		data := pyast.FStringData{}
		for i := uint(0); i < n.NamedChildCount(); i++ {
			child := n.NamedChild(i)
			switch child.Kind() {
			case "string_content":
				data.Parts = append(data.Parts, pyast.FStringPart{Literal: b.text(child)})
			case "interpolation":
				inner := child.ChildByFieldName("expression")
				if inner == nil {
					inner = child.NamedChild(0)
				}
				data.Parts = append(data.Parts, pyast.FStringPart{Expr: b.buildExpr(inner)})
			}
		}
		return &pyast.Expr{Kind: pyast.ExprFString, Span: b.span(n), Data: data}
	}

	kind := pyast.LitString
	if strings.Contains(prefix, "b") {
		kind = pyast.LitBytes
	}
	return b.literal(n, pyast.LiteralData{
		LitKind: kind,
		Raw:     b.text(n),
		Str:     stringContent(b, n),
	})
}

func (b *builder) buildConcatString(n *sitter.Node) *pyast.Expr {
	var sb strings.Builder
	raw := b.text(n)
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child.Kind() == "string" {
			sb.WriteString(stringContent(b, child))
		}
	}
	return b.literal(n, pyast.LiteralData{LitKind: pyast.LitString, Raw: raw, Str: sb.String()})
}

// stringContent joins the string_content fragments of a string node.
func stringContent(b *builder, n *sitter.Node) string {
	var sb strings.Builder
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child.Kind() == "string_content" || child.Kind() == "escape_sequence" {
			sb.WriteString(b.text(child))
		}
	}
	return sb.String()
}

// stringPrefix returns the prefix letters before the opening quote.
func stringPrefix(raw string) string {
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\'' || raw[i] == '"' {
			return raw[:i]
		}
	}
	return ""
}

func lastNamedChild(n *sitter.Node) *sitter.Node {
	cnt := n.NamedChildCount()
	if cnt == 0 {
		return nil
	}
	return n.NamedChild(cnt - 1)
}
