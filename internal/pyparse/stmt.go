package pyparse

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"pyrite/internal/pyast"
)

func (b *builder) buildStmt(n *sitter.Node) *pyast.Stmt {
	switch n.Kind() {
	case "expression_statement":
		return b.buildExprStmt(n)
	case "if_statement":
		return b.buildIf(n)
	case "while_statement":
		return b.buildWhile(n)
	case "for_statement":
		return b.buildFor(n)
	case "with_statement":
		return b.buildWith(n)
	case "try_statement":
		return b.buildTry(n)
	case "return_statement":
		var val *pyast.Expr
		if n.NamedChildCount() > 0 {
			val = b.buildExpr(n.NamedChild(0))
		}
		return &pyast.Stmt{Kind: pyast.StmtReturn, Span: b.span(n), Data: pyast.ReturnData{Value: val}}
	case "raise_statement":
		return b.buildRaise(n)
	case "assert_statement":
		data := pyast.AssertData{}
		if n.NamedChildCount() > 0 {
			data.Test = b.buildExpr(n.NamedChild(0))
		}
		if n.NamedChildCount() > 1 {
			data.Msg = b.buildExpr(n.NamedChild(1))
		}
		return &pyast.Stmt{Kind: pyast.StmtAssert, Span: b.span(n), Data: data}
	case "pass_statement":
		return &pyast.Stmt{Kind: pyast.StmtPass, Span: b.span(n)}
	case "break_statement":
		return &pyast.Stmt{Kind: pyast.StmtBreak, Span: b.span(n)}
	case "continue_statement":
		return &pyast.Stmt{Kind: pyast.StmtContinue, Span: b.span(n)}
	case "function_definition":
		return b.buildFunctionDef(n, nil)
	case "class_definition":
		return b.buildClassDef(n, nil)
	case "decorated_definition":
		return b.buildDecorated(n)
	case "import_statement":
		return b.buildImport(n)
	case "import_from_statement":
		return b.buildImportFrom(n)
	case "global_statement":
		return b.buildNames(n, pyast.StmtGlobal)
	case "nonlocal_statement":
		return b.buildNames(n, pyast.StmtNonlocal)
	case "delete_statement":
		return b.buildDelete(n)
	case "future_import_statement":
		return &pyast.Stmt{Kind: pyast.StmtImportFrom, Span: b.span(n), Data: pyast.ImportData{Module: "__future__"}}
	}
	// unknown statement: keep its expression value when there is one
	if n.NamedChildCount() == 1 {
		if e := b.buildExpr(n.NamedChild(0)); e != nil {
			return &pyast.Stmt{Kind: pyast.StmtExpr, Span: b.span(n), Data: pyast.ExprStmtData{Value: e}}
		}
	}
	return nil
}

// buildExprStmt unwraps assignments hiding inside expression statements.
func (b *builder) buildExprStmt(n *sitter.Node) *pyast.Stmt {
	inner := n.NamedChild(0)
	if inner == nil {
		return nil
	}
	switch inner.Kind() {
	case "assignment":
		return b.buildAssign(n, inner)
	case "augmented_assignment":
		op := strings.TrimSuffix(b.text(inner.ChildByFieldName("operator")), "=")
		data := pyast.AugAssignData{
			Target: b.buildExpr(inner.ChildByFieldName("left")),
			Op:     op,
			Value:  b.buildExpr(inner.ChildByFieldName("right")),
		}
		return &pyast.Stmt{Kind: pyast.StmtAugAssign, Span: b.span(n), Data: data}
	}
	return &pyast.Stmt{Kind: pyast.StmtExpr, Span: b.span(n), Data: pyast.ExprStmtData{Value: b.buildExpr(inner)}}
}

// buildAssign flattens chained assignment (a = b = v) into a target list.
func (b *builder) buildAssign(stmt, assign *sitter.Node) *pyast.Stmt {
	data := pyast.AssignData{}
	cur := assign
	for {
		data.Targets = append(data.Targets, b.buildExpr(cur.ChildByFieldName("left")))
		if t := cur.ChildByFieldName("type"); t != nil {
			data.Annotation = b.text(t)
		}
		right := cur.ChildByFieldName("right")
		if right == nil {
			break // bare annotation: x: int
		}
		if right.Kind() == "assignment" {
			cur = right
			continue
		}
		data.Value = b.buildExpr(right)
		break
	}
	return &pyast.Stmt{Kind: pyast.StmtAssign, Span: b.span(stmt), Data: data}
}

// buildIf normalizes elif chains into nested ifs in the else branch.
func (b *builder) buildIf(n *sitter.Node) *pyast.Stmt {
	data := pyast.IfData{Cond: b.buildExpr(n.ChildByFieldName("condition"))}
	data.Then, _ = b.buildBody(n.ChildByFieldName("consequence"))

	// walk alternatives back to front so elifs nest properly
	var clauses []*sitter.Node
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child.Kind() == "elif_clause" || child.Kind() == "else_clause" {
			clauses = append(clauses, child)
		}
	}
	var tail []*pyast.Stmt
	for i := len(clauses) - 1; i >= 0; i-- {
		c := clauses[i]
		if c.Kind() == "else_clause" {
			tail, _ = b.buildBody(c.ChildByFieldName("body"))
			continue
		}
		elifData := pyast.IfData{Cond: b.buildExpr(c.ChildByFieldName("condition")), Else: tail}
		elifData.Then, _ = b.buildBody(c.ChildByFieldName("consequence"))
		tail = []*pyast.Stmt{{Kind: pyast.StmtIf, Span: b.span(c), Data: elifData}}
	}
	data.Else = tail
	return &pyast.Stmt{Kind: pyast.StmtIf, Span: b.span(n), Data: data}
}

func (b *builder) buildWhile(n *sitter.Node) *pyast.Stmt {
	data := pyast.WhileData{Cond: b.buildExpr(n.ChildByFieldName("condition"))}
	data.Body, _ = b.buildBody(n.ChildByFieldName("body"))
	if alt := childOfKind(n, "else_clause"); alt != nil {
		data.Else, _ = b.buildBody(alt.ChildByFieldName("body"))
	}
	return &pyast.Stmt{Kind: pyast.StmtWhile, Span: b.span(n), Data: data}
}

func (b *builder) buildFor(n *sitter.Node) *pyast.Stmt {
	data := pyast.ForData{
		Target: b.buildExpr(n.ChildByFieldName("left")),
		Iter:   b.buildExpr(n.ChildByFieldName("right")),
		Async:  hasKeyword(n, "async"),
	}
	data.Body, _ = b.buildBody(n.ChildByFieldName("body"))
	if alt := childOfKind(n, "else_clause"); alt != nil {
		data.Else, _ = b.buildBody(alt.ChildByFieldName("body"))
	}
	return &pyast.Stmt{Kind: pyast.StmtFor, Span: b.span(n), Data: data}
}

func (b *builder) buildWith(n *sitter.Node) *pyast.Stmt {
	data := pyast.WithData{Async: hasKeyword(n, "async")}
	if clause := childOfKind(n, "with_clause"); clause != nil {
		for i := uint(0); i < clause.NamedChildCount(); i++ {
			item := clause.NamedChild(i)
			if item.Kind() != "with_item" {
				continue
			}
			value := item.ChildByFieldName("value")
			wi := pyast.WithItem{}
			if value != nil && value.Kind() == "as_pattern" {
				wi.Context = b.buildExpr(value.NamedChild(0))
				if alias := value.ChildByFieldName("alias"); alias != nil {
					wi.Binding = b.text(alias)
				} else if value.NamedChildCount() > 1 {
					wi.Binding = b.text(value.NamedChild(1))
				}
			} else {
				wi.Context = b.buildExpr(value)
			}
			data.Items = append(data.Items, wi)
		}
	}
	data.Body, _ = b.buildBody(n.ChildByFieldName("body"))
	return &pyast.Stmt{Kind: pyast.StmtWith, Span: b.span(n), Data: data}
}

func (b *builder) buildTry(n *sitter.Node) *pyast.Stmt {
	data := pyast.TryData{}
	data.Body, _ = b.buildBody(n.ChildByFieldName("body"))
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		switch child.Kind() {
		case "except_clause":
			data.Handlers = append(data.Handlers, b.buildExcept(child))
		case "else_clause":
			data.Else, _ = b.buildBody(child.ChildByFieldName("body"))
		case "finally_clause":
			// body is the block child
			if blk := childOfKind(child, "block"); blk != nil {
				data.Finally, _ = b.buildBody(blk)
			}
		}
	}
	return &pyast.Stmt{Kind: pyast.StmtTry, Span: b.span(n), Data: data}
}

func (b *builder) buildExcept(n *sitter.Node) pyast.ExceptHandler {
	h := pyast.ExceptHandler{Span: b.span(n)}
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		switch child.Kind() {
		case "block":
			h.Body, _ = b.buildBody(child)
		case "as_pattern":
			h.ExcType = b.text(child.NamedChild(0))
			if child.NamedChildCount() > 1 {
				h.Binding = b.text(child.NamedChild(1))
			}
		default:
			if h.ExcType == "" {
				h.ExcType = b.text(child)
			}
		}
	}
	return h
}

func (b *builder) buildRaise(n *sitter.Node) *pyast.Stmt {
	data := pyast.RaiseData{}
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if data.Exc == nil {
			data.Exc = b.buildExpr(child)
		} else {
			data.Cause = b.buildExpr(child)
		}
	}
	return &pyast.Stmt{Kind: pyast.StmtRaise, Span: b.span(n), Data: data}
}

func (b *builder) buildFunctionDef(n *sitter.Node, decorators []string) *pyast.Stmt {
	data := pyast.FunctionDefData{
		Name:       b.text(n.ChildByFieldName("name")),
		Params:     b.buildParams(n.ChildByFieldName("parameters")),
		Decorators: decorators,
		Async:      hasKeyword(n, "async"),
	}
	if ret := n.ChildByFieldName("return_type"); ret != nil {
		data.Returns = b.text(ret)
	}
	data.Body, data.Docstring = b.buildBody(n.ChildByFieldName("body"))
	return &pyast.Stmt{Kind: pyast.StmtFunctionDef, Span: b.span(n), Data: data}
}

func (b *builder) buildClassDef(n *sitter.Node, decorators []string) *pyast.Stmt {
	_ = decorators
	data := pyast.ClassDefData{Name: b.text(n.ChildByFieldName("name"))}
	if sup := n.ChildByFieldName("superclasses"); sup != nil {
		for i := uint(0); i < sup.NamedChildCount(); i++ {
			arg := sup.NamedChild(i)
			if arg.Kind() == "keyword_argument" {
				if data.Keywords == nil {
					data.Keywords = make(map[string]string)
				}
				name := b.text(arg.ChildByFieldName("name"))
				data.Keywords[name] = b.text(arg.ChildByFieldName("value"))
				continue
			}
			data.Bases = append(data.Bases, b.text(arg))
		}
	}
	data.Body, data.Docstring = b.buildBody(n.ChildByFieldName("body"))
	return &pyast.Stmt{Kind: pyast.StmtClassDef, Span: b.span(n), Data: data}
}

func (b *builder) buildDecorated(n *sitter.Node) *pyast.Stmt {
	var decorators []string
	var def *sitter.Node
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		switch child.Kind() {
		case "decorator":
			decorators = append(decorators, strings.TrimPrefix(b.text(child), "@"))
		case "function_definition", "class_definition":
			def = child
		}
	}
	if def == nil {
		return nil
	}
	if def.Kind() == "class_definition" {
		return b.buildClassDef(def, decorators)
	}
	return b.buildFunctionDef(def, decorators)
}

func (b *builder) buildParams(n *sitter.Node) []pyast.Param {
	if n == nil {
		return nil
	}
	var params []pyast.Param
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		p := pyast.Param{Span: b.span(child)}
		switch child.Kind() {
		case "identifier":
			p.Name = b.text(child)
		case "typed_parameter":
			p.Name = b.text(child.NamedChild(0))
			p.Annotation = b.text(child.ChildByFieldName("type"))
		case "default_parameter":
			p.Name = b.text(child.ChildByFieldName("name"))
			p.Default = b.buildExpr(child.ChildByFieldName("value"))
		case "typed_default_parameter":
			p.Name = b.text(child.ChildByFieldName("name"))
			p.Annotation = b.text(child.ChildByFieldName("type"))
			p.Default = b.buildExpr(child.ChildByFieldName("value"))
		case "list_splat_pattern":
			p.Name = strings.TrimPrefix(b.text(child), "*")
			p.Vararg = true
		case "dictionary_splat_pattern":
			p.Name = strings.TrimPrefix(b.text(child), "**")
			p.KwArg = true
		default:
			// keyword_separator, positional_separator
			continue
		}
		params = append(params, p)
	}
	return params
}

func (b *builder) buildImport(n *sitter.Node) *pyast.Stmt {
	data := pyast.ImportData{}
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		switch child.Kind() {
		case "dotted_name", "identifier":
			if data.Module == "" {
				data.Module = b.text(child)
			}
		case "aliased_import":
			data.Module = b.text(child.ChildByFieldName("name"))
			data.Alias = b.text(child.ChildByFieldName("alias"))
		}
	}
	return &pyast.Stmt{Kind: pyast.StmtImport, Span: b.span(n), Data: data}
}

func (b *builder) buildImportFrom(n *sitter.Node) *pyast.Stmt {
	data := pyast.ImportData{}
	if mod := n.ChildByFieldName("module_name"); mod != nil {
		data.Module = b.text(mod)
	}
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		switch child.Kind() {
		case "dotted_name", "identifier":
			name := b.text(child)
			if name == data.Module {
				continue
			}
			data.Names = append(data.Names, name)
		case "aliased_import":
			data.Names = append(data.Names, b.text(child.ChildByFieldName("name")))
			data.Alias = b.text(child.ChildByFieldName("alias"))
		case "wildcard_import":
			data.Names = append(data.Names, "*")
		}
	}
	return &pyast.Stmt{Kind: pyast.StmtImportFrom, Span: b.span(n), Data: data}
}

func (b *builder) buildNames(n *sitter.Node, kind pyast.StmtKind) *pyast.Stmt {
	data := pyast.NamesData{}
	for i := uint(0); i < n.NamedChildCount(); i++ {
		data.Names = append(data.Names, b.text(n.NamedChild(i)))
	}
	return &pyast.Stmt{Kind: kind, Span: b.span(n), Data: data}
}

func (b *builder) buildDelete(n *sitter.Node) *pyast.Stmt {
	data := pyast.NamesData{}
	var collect func(e *sitter.Node)
	collect = func(e *sitter.Node) {
		if e == nil {
			return
		}
		if e.Kind() == "expression_list" {
			for i := uint(0); i < e.NamedChildCount(); i++ {
				collect(e.NamedChild(i))
			}
			return
		}
		expr := b.buildExpr(e)
		data.Exprs = append(data.Exprs, expr)
		if name := pyast.NameOf(expr); name != "" {
			data.Names = append(data.Names, name)
		}
	}
	for i := uint(0); i < n.NamedChildCount(); i++ {
		collect(n.NamedChild(i))
	}
	return &pyast.Stmt{Kind: pyast.StmtDelete, Span: b.span(n), Data: data}
}

func childOfKind(n *sitter.Node, kind string) *sitter.Node {
	for i := uint(0); i < n.ChildCount(); i++ {
		if child := n.Child(i); child.Kind() == kind {
			return child
		}
	}
	return nil
}

func hasKeyword(n *sitter.Node, kw string) bool {
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if !child.IsNamed() && child.Kind() == kw {
			return true
		}
	}
	return false
}
