package hir

import (
	"pyrite/internal/pyast"
	"pyrite/internal/types"
)

func (b *Builder) buildExpr(fn *Func, e *pyast.Expr) (*Expr, error) {
	if e == nil {
		return nil, nil
	}

	switch d := e.Data.(type) {
	case pyast.NameData:
		return &Expr{Kind: ExprVar, Type: fn.VarType(d.Name), Span: e.Span, Data: VarData{Name: d.Name}}, nil

	case pyast.LiteralData:
		return b.buildLiteral(e, &d), nil

	case pyast.BinaryData:
		left, err := b.buildExpr(fn, d.Left)
		if err != nil {
			return nil, err
		}
		right, err := b.buildExpr(fn, d.Right)
		if err != nil {
			return nil, err
		}
		return &Expr{
			Kind: ExprBinary,
			Type: binaryType(d.Op, left, right),
			Span: e.Span,
			Data: BinaryData{Op: d.Op, Left: left, Right: right},
		}, nil

	case pyast.UnaryData:
		operand, err := b.buildExpr(fn, d.Operand)
		if err != nil {
			return nil, err
		}
		t := operand.Type
		if d.Op == "not" {
			t = types.BoolT()
		}
		return &Expr{Kind: ExprUnary, Type: t, Span: e.Span, Data: UnaryData{Op: d.Op, Operand: operand}}, nil

	case pyast.BoolOpData:
		values, err := b.buildExprs(fn, d.Values)
		if err != nil {
			return nil, err
		}
		return &Expr{Kind: ExprBoolOp, Type: types.BoolT(), Span: e.Span, Data: BoolOpData{Op: d.Op, Values: values}}, nil

	case pyast.CompareData:
		operands, err := b.buildExprs(fn, d.Operands)
		if err != nil {
			return nil, err
		}
		return &Expr{Kind: ExprCompare, Type: types.BoolT(), Span: e.Span, Data: CompareData{Operands: operands, Ops: d.Ops}}, nil

	case pyast.CallData:
		return b.buildCall(fn, e, &d)

	case pyast.AttributeData:
		obj, err := b.buildExpr(fn, d.Value)
		if err != nil {
			return nil, err
		}
		t := types.Unknown_()
		if obj.Type.Kind == types.Custom {
			if ft, ok := b.moduleFieldType(obj.Type.Name, d.Attr); ok {
				t = ft
			}
		}
		return &Expr{Kind: ExprAttribute, Type: t, Span: e.Span, Data: AttributeData{Object: obj, Attr: d.Attr}}, nil

	case pyast.SubscriptData:
		obj, err := b.buildExpr(fn, d.Value)
		if err != nil {
			return nil, err
		}
		if sl, ok := d.Index.Data.(pyast.SliceData); ok && d.Index.Kind == pyast.ExprSlice {
			start, err := b.buildExpr(fn, sl.Start)
			if err != nil {
				return nil, err
			}
			stop, err := b.buildExpr(fn, sl.Stop)
			if err != nil {
				return nil, err
			}
			step, err := b.buildExpr(fn, sl.Step)
			if err != nil {
				return nil, err
			}
			return &Expr{
				Kind: ExprSlice,
				Type: obj.Type,
				Span: e.Span,
				Data: SliceData{Object: obj, Start: start, Stop: stop, Step: step},
			}, nil
		}
		idx, err := b.buildExpr(fn, d.Index)
		if err != nil {
			return nil, err
		}
		return &Expr{Kind: ExprIndex, Type: indexType(obj.Type), Span: e.Span, Data: IndexData{Object: obj, Index: idx}}, nil

	case pyast.SequenceData:
		elems, err := b.buildExprs(fn, d.Elems)
		if err != nil {
			return nil, err
		}
		kind, t := sequenceType(e.Kind, elems)
		return &Expr{Kind: kind, Type: t, Span: e.Span, Data: SequenceData{Elems: elems}}, nil

	case pyast.DictData:
		keys := make([]*Expr, len(d.Keys))
		values := make([]*Expr, len(d.Values))
		for i := range d.Values {
			var err error
			if d.Keys[i] != nil {
				if keys[i], err = b.buildExpr(fn, d.Keys[i]); err != nil {
					return nil, err
				}
			}
			if values[i], err = b.buildExpr(fn, d.Values[i]); err != nil {
				return nil, err
			}
		}
		kt, vt := types.Unknown_(), types.Unknown_()
		if len(keys) > 0 && keys[0] != nil {
			kt, vt = keys[0].Type, values[0].Type
		}
		return &Expr{Kind: ExprDict, Type: types.DictOf(kt, vt), Span: e.Span, Data: DictData{Keys: keys, Values: values}}, nil

	case pyast.CompData:
		clauses, err := b.buildClauses(fn, d.Generators)
		if err != nil {
			return nil, err
		}
		elem, err := b.buildExpr(fn, d.Elem)
		if err != nil {
			return nil, err
		}
		var container types.Kind
		var t types.Type
		switch e.Kind {
		case pyast.ExprListComp:
			container, t = types.List, types.ListOf(elem.Type)
		case pyast.ExprSetComp:
			container, t = types.Set, types.SetOf(elem.Type)
		default:
			container, t = types.Generic, types.GenericOf("generator", elem.Type)
		}
		return &Expr{Kind: ExprComp, Type: t, Span: e.Span, Data: CompData{Container: container, Elem: elem, Clauses: clauses}}, nil

	case pyast.DictCompData:
		clauses, err := b.buildClauses(fn, d.Generators)
		if err != nil {
			return nil, err
		}
		key, err := b.buildExpr(fn, d.Key)
		if err != nil {
			return nil, err
		}
		value, err := b.buildExpr(fn, d.Value)
		if err != nil {
			return nil, err
		}
		return &Expr{
			Kind: ExprDictComp,
			Type: types.DictOf(key.Type, value.Type),
			Span: e.Span,
			Data: DictCompData{Key: key, Value: value, Clauses: clauses},
		}, nil

	case pyast.LambdaData:
		body, err := b.buildExpr(fn, d.Body)
		if err != nil {
			return nil, err
		}
		params := make([]Param, len(d.Params))
		for i, p := range d.Params {
			params[i] = Param{Name: p.Name, Type: types.Parse(p.Annotation), Span: p.Span}
		}
		return &Expr{Kind: ExprLambda, Type: types.Unknown_(), Span: e.Span, Data: LambdaData{Params: params, Body: body}}, nil

	case pyast.IfExpData:
		cond, err := b.buildExpr(fn, d.Test)
		if err != nil {
			return nil, err
		}
		then, err := b.buildExpr(fn, d.Body)
		if err != nil {
			return nil, err
		}
		els, err := b.buildExpr(fn, d.Orelse)
		if err != nil {
			return nil, err
		}
		return &Expr{Kind: ExprIfExp, Type: then.Type, Span: e.Span, Data: IfExpData{Cond: cond, Then: then, Else: els}}, nil

	case pyast.UnaryExprData:
		value, err := b.buildExpr(fn, d.Value)
		if err != nil {
			return nil, err
		}
		var kind ExprKind
		switch e.Kind {
		case pyast.ExprAwait:
			kind = ExprAwait
		case pyast.ExprYield:
			kind = ExprYield
		case pyast.ExprNamed:
			kind = ExprNamed
			if d.Name != "" && value != nil {
				fn.Locals[d.Name] = value.Type
			}
		default:
			kind = ExprStarred
		}
		t := types.Unknown_()
		if value != nil {
			t = value.Type
		}
		return &Expr{Kind: kind, Type: t, Span: e.Span, Data: WrapData{Value: value, Name: d.Name}}, nil

	case pyast.FStringData:
		parts := make([]FStringPart, len(d.Parts))
		for i, p := range d.Parts {
			parts[i].Literal = p.Literal
			if p.Expr != nil {
				built, err := b.buildExpr(fn, p.Expr)
				if err != nil {
					return nil, err
				}
				parts[i].Expr = built
			}
		}
		return &Expr{Kind: ExprFString, Type: types.StringT(), Span: e.Span, Data: FStringData{Parts: parts}}, nil

	case pyast.SliceData:
		// A slice outside subscript position carries no meaning.
		return nil, b.errf(e.Span, "unsupported bare slice expression")

	default:
		return nil, b.errf(e.Span, "unsupported expression %s", e.Kind)
	}
}

func (b *Builder) buildExprs(fn *Func, in []*pyast.Expr) ([]*Expr, error) {
	out := make([]*Expr, len(in))
	for i, e := range in {
		built, err := b.buildExpr(fn, e)
		if err != nil {
			return nil, err
		}
		out[i] = built
	}
	return out, nil
}

func (b *Builder) buildClauses(fn *Func, gens []pyast.Comprehension) ([]CompClause, error) {
	clauses := make([]CompClause, 0, len(gens))
	for _, g := range gens {
		iter, err := b.buildExpr(fn, g.Iter)
		if err != nil {
			return nil, err
		}
		target, err := b.buildExpr(fn, g.Target)
		if err != nil {
			return nil, err
		}
		b.bindLoopTarget(fn, target, iter)
		conds, err := b.buildExprs(fn, g.Conds)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, CompClause{Target: target, Iter: iter, Conds: conds})
	}
	return clauses, nil
}

// buildCall distinguishes direct calls, method calls and dynamic calls.
func (b *Builder) buildCall(fn *Func, e *pyast.Expr, d *pyast.CallData) (*Expr, error) {
	args, err := b.buildExprs(fn, d.Args)
	if err != nil {
		return nil, err
	}
	keywords := make([]Keyword, 0, len(d.Keywords))
	for _, k := range d.Keywords {
		value, err := b.buildExpr(fn, k.Value)
		if err != nil {
			return nil, err
		}
		keywords = append(keywords, Keyword{Name: k.Name, Value: value})
	}

	if name := pyast.NameOf(d.Func); name != "" {
		return &Expr{
			Kind: ExprCall,
			Type: callType(name, args),
			Span: e.Span,
			Data: CallData{Func: name, Args: args, Keywords: keywords},
		}, nil
	}

	if attr, ok := d.Func.Data.(pyast.AttributeData); ok && d.Func.Kind == pyast.ExprAttribute {
		recv, err := b.buildExpr(fn, attr.Value)
		if err != nil {
			return nil, err
		}
		return &Expr{
			Kind: ExprMethodCall,
			Type: methodType(recv.Type, attr.Attr),
			Span: e.Span,
			Data: MethodCallData{Receiver: recv, Method: attr.Attr, Args: args, Keywords: keywords},
		}, nil
	}

	callee, err := b.buildExpr(fn, d.Func)
	if err != nil {
		return nil, err
	}
	return &Expr{
		Kind: ExprDynCall,
		Type: types.Unknown_(),
		Span: e.Span,
		Data: DynCallData{Callee: callee, Args: args, Keywords: keywords},
	}, nil
}

func (b *Builder) buildLiteral(e *pyast.Expr, d *pyast.LiteralData) *Expr {
	out := LiteralData{Raw: d.Raw, Int: d.Int, Float: d.Float, Bool: d.Bool, Str: d.Str}
	var t types.Type
	switch d.LitKind {
	case pyast.LitInt:
		out.LitKind = LitInt
		t = types.IntT()
	case pyast.LitFloat:
		out.LitKind = LitFloat
		t = types.FloatT()
	case pyast.LitBool:
		out.LitKind = LitBool
		t = types.BoolT()
	case pyast.LitString:
		out.LitKind = LitString
		t = types.StringT()
	case pyast.LitBytes:
		out.LitKind = LitBytes
		t = types.BytesT()
	default: // none and ellipsis
		out.LitKind = LitNone
		t = types.NoneT()
	}
	return &Expr{Kind: ExprLiteral, Type: t, Span: e.Span, Data: out}
}

// moduleFieldType is resolved lazily through the builder because the field
// table is still being filled while methods are lowered.
func (b *Builder) moduleFieldType(class, field string) (types.Type, bool) {
	if b.currentFields == nil {
		return types.Unknown_(), false
	}
	fields, ok := b.currentFields[class]
	if !ok {
		return types.Unknown_(), false
	}
	t, ok := fields[field]
	return t, ok
}

func binaryType(op string, left, right *Expr) types.Type {
	switch op {
	case "+", "-", "*", "//", "%", "**":
		if left.Type.Kind == types.String || right.Type.Kind == types.String {
			if op == "+" {
				return types.StringT()
			}
			return types.Unknown_()
		}
		if left.Type.Kind == types.Float || right.Type.Kind == types.Float {
			return types.FloatT()
		}
		if left.Type.Kind == types.Int && right.Type.Kind == types.Int {
			return types.IntT()
		}
		if left.Type.Kind == types.List && op == "+" {
			return left.Type
		}
		return types.Unknown_()
	case "/":
		return types.FloatT()
	case "&", "|", "^", "<<", ">>":
		return types.IntT()
	default:
		return types.Unknown_()
	}
}

func indexType(container types.Type) types.Type {
	switch container.Kind {
	case types.List, types.Set:
		return container.Elem()
	case types.Dict:
		if len(container.Args) == 2 {
			return container.Args[1]
		}
		return types.Unknown_()
	case types.String:
		return types.StringT()
	case types.Tuple:
		return types.Unknown_()
	default:
		return types.Unknown_()
	}
}

func sequenceType(kind pyast.ExprKind, elems []*Expr) (ExprKind, types.Type) {
	elem := types.Unknown_()
	if len(elems) > 0 {
		elem = elems[0].Type
	}
	switch kind {
	case pyast.ExprList:
		return ExprList, types.ListOf(elem)
	case pyast.ExprSet:
		return ExprSet, types.SetOf(elem)
	default:
		ts := make([]types.Type, len(elems))
		for i, e := range elems {
			ts[i] = e.Type
		}
		return ExprTuple, types.TupleOf(ts...)
	}
}

// callType covers the builtins whose result type is fixed.
func callType(name string, args []*Expr) types.Type {
	switch name {
	case "len", "int", "abs", "ord", "hash", "id":
		return types.IntT()
	case "float":
		return types.FloatT()
	case "bool":
		return types.BoolT()
	case "str", "repr", "chr":
		return types.StringT()
	case "bytes":
		return types.BytesT()
	case "list", "sorted":
		if len(args) > 0 && args[0].Type.IsContainer() {
			return types.ListOf(args[0].Type.Elem())
		}
		return types.ListOf(types.Unknown_())
	case "set":
		return types.SetOf(types.Unknown_())
	case "dict":
		return types.DictOf(types.Unknown_(), types.Unknown_())
	case "tuple":
		return types.Type{Kind: types.Tuple}
	case "range":
		return types.GenericOf("range", types.IntT())
	case "min", "max", "sum":
		if len(args) > 0 && args[0].Type.IsContainer() {
			return args[0].Type.Elem()
		}
		return types.Unknown_()
	default:
		return types.Unknown_()
	}
}

// methodType covers container methods whose result type is fixed.
func methodType(recv types.Type, method string) types.Type {
	switch method {
	case "append", "extend", "remove", "clear", "sort", "reverse", "add", "update", "insert":
		return types.NoneT()
	case "pop":
		if recv.IsContainer() {
			return recv.Elem()
		}
		return types.Unknown_()
	case "index", "count", "find":
		return types.IntT()
	case "join", "strip", "lstrip", "rstrip", "upper", "lower", "replace", "format", "title", "capitalize":
		return types.StringT()
	case "split", "splitlines":
		return types.ListOf(types.StringT())
	case "startswith", "endswith", "isdigit", "isalpha", "isalnum":
		return types.BoolT()
	case "keys":
		if recv.Kind == types.Dict && len(recv.Args) == 2 {
			return types.ListOf(recv.Args[0])
		}
		return types.ListOf(types.Unknown_())
	case "values":
		if recv.Kind == types.Dict && len(recv.Args) == 2 {
			return types.ListOf(recv.Args[1])
		}
		return types.ListOf(types.Unknown_())
	case "get":
		if recv.Kind == types.Dict && len(recv.Args) == 2 {
			return types.OptionalOf(recv.Args[1])
		}
		return types.Unknown_()
	case "copy":
		return recv
	default:
		return types.Unknown_()
	}
}
