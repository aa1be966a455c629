package hir

import (
	"fmt"

	"pyrite/internal/diag"
	"pyrite/internal/directive"
	"pyrite/internal/pyast"
	"pyrite/internal/source"
	"pyrite/internal/types"
)

// Builder lowers a parsed Python module into HIR. A build failure is fatal
// for the translation unit; the error message carries a location hint the
// diagnostic layer can recover.
type Builder struct {
	fs   *source.FileSet
	file *source.File
	bag  *diag.Bag // optional, collects non-fatal build warnings

	// currentFields aliases the module's field table so attribute types
	// resolve while methods are still being lowered.
	currentFields map[string]map[string]types.Type
}

// NewBuilder returns a builder over fs. bag may be nil.
func NewBuilder(fs *source.FileSet, bag *diag.Bag) *Builder {
	return &Builder{fs: fs, bag: bag}
}

// Build lowers mod. Module-level statements other than definitions and
// imports carry no meaning for the translated program and are dropped.
func (b *Builder) Build(mod *pyast.Module) (*Module, error) {
	b.file = b.fs.Get(mod.File)

	out := &Module{
		Name:      mod.Name,
		Path:      mod.Path,
		File:      mod.File,
		Docstring: mod.Docstring,
		Fields:    make(map[string]map[string]types.Type),
		Span:      mod.Span,
	}
	b.currentFields = out.Fields

	for _, s := range mod.Body {
		switch d := s.Data.(type) {
		case pyast.FunctionDefData:
			fn, err := b.buildFunc("", &d, s.Span)
			if err != nil {
				return nil, err
			}
			out.Funcs = append(out.Funcs, fn)
		case pyast.ClassDefData:
			if err := b.flattenClass(out, &d, s.Span); err != nil {
				return nil, err
			}
		case pyast.ImportData:
			out.Imports = append(out.Imports, Import{
				Module: d.Module,
				Names:  d.Names,
				Alias:  d.Alias,
				Span:   s.Span,
			})
		}
	}
	return out, nil
}

// errf builds a fatal lowering error with a recoverable location hint.
func (b *Builder) errf(sp source.Span, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	lc := b.fs.ResolveOffset(sp.File, sp.Start)
	return fmt.Errorf("%s at row %d, column %d", msg, lc.Line, lc.Col)
}

func (b *Builder) buildFunc(class string, d *pyast.FunctionDefData, sp source.Span) (*Func, error) {
	name := d.Name
	if class != "" {
		name = class + "." + d.Name
	}

	fn := &Func{
		Name:      name,
		Class:     class,
		Result:    types.Parse(d.Returns),
		Docstring: d.Docstring,
		Async:     d.Async,
		Span:      sp,
		Locals:    make(map[string]types.Type),
	}

	for _, p := range d.Params {
		hp := Param{
			Name:   p.Name,
			Type:   types.Parse(p.Annotation),
			Vararg: p.Vararg,
			KwArg:  p.KwArg,
			Span:   p.Span,
		}
		if class != "" && p.Name == "self" {
			hp.Type = types.Named(class)
		}
		if p.Default != nil {
			def, err := b.buildExpr(fn, p.Default)
			if err != nil {
				return nil, err
			}
			hp.Default = def
		}
		fn.Params = append(fn.Params, hp)
	}

	defLine := b.fs.ResolveOffset(sp.File, sp.Start).Line
	set, derrs := directive.Extract(b.file, defLine)
	fn.Directive = set
	if b.bag != nil {
		for _, derr := range derrs {
			b.bag.Add(diag.NewWarning(diag.LintInfo, sp, "invalid directive: "+derr.Error()))
		}
	}

	body, err := b.buildStmts(fn, d.Body)
	if err != nil {
		return nil, err
	}
	fn.Body = body

	computeProps(fn)
	return fn, nil
}

// flattenClass turns a class definition into module-level functions plus a
// field-type table entry. Field types come from annotated assignments in
// the class body and from annotated self assignments in __init__.
func (b *Builder) flattenClass(out *Module, d *pyast.ClassDefData, sp source.Span) error {
	fields := make(map[string]types.Type)
	out.Fields[d.Name] = fields

	for _, s := range d.Body {
		switch sd := s.Data.(type) {
		case pyast.AssignData:
			if sd.Annotation == "" || len(sd.Targets) != 1 {
				continue
			}
			if name := pyast.NameOf(sd.Targets[0]); name != "" {
				fields[name] = types.Parse(sd.Annotation)
			}
		case pyast.FunctionDefData:
			fn, err := b.buildFunc(d.Name, &sd, s.Span)
			if err != nil {
				return err
			}
			out.Funcs = append(out.Funcs, fn)
			if sd.Name == "__init__" {
				collectSelfFields(fn.Body, fields)
			}
		case pyast.ClassDefData:
			return b.errf(s.Span, "unsupported nested class %q", sd.Name)
		}
	}
	return nil
}

// collectSelfFields records field types from "self.x = value" assignments.
func collectSelfFields(body []*Stmt, fields map[string]types.Type) {
	for _, s := range body {
		d, ok := s.Data.(AssignData)
		if !ok {
			continue
		}
		attr, ok := d.Target.Data.(AttributeData)
		if !ok || s.Kind != StmtAssign {
			continue
		}
		if VarName(attr.Object) != "self" {
			continue
		}
		if _, seen := fields[attr.Attr]; seen {
			continue
		}
		if !d.Type.IsUnknown() {
			fields[attr.Attr] = d.Type
		} else if d.Value != nil {
			fields[attr.Attr] = d.Value.Type
		}
	}
}

func (b *Builder) buildStmts(fn *Func, body []*pyast.Stmt) ([]*Stmt, error) {
	out := make([]*Stmt, 0, len(body))
	for _, s := range body {
		built, err := b.buildStmt(fn, s)
		if err != nil {
			return nil, err
		}
		out = append(out, built...)
	}
	return out, nil
}

// buildStmt lowers one statement. Chained assignment expands into one
// assignment per target, value first.
func (b *Builder) buildStmt(fn *Func, s *pyast.Stmt) ([]*Stmt, error) {
	one := func(kind StmtKind, data StmtData) []*Stmt {
		return []*Stmt{{Kind: kind, Span: s.Span, Data: data}}
	}

	switch d := s.Data.(type) {
	case pyast.ExprStmtData:
		e, err := b.buildExpr(fn, d.Value)
		if err != nil {
			return nil, err
		}
		return one(StmtExpr, ExprStmtData{Expr: e}), nil

	case pyast.AssignData:
		return b.buildAssign(fn, s, &d)

	case pyast.AugAssignData:
		target, err := b.buildExpr(fn, d.Target)
		if err != nil {
			return nil, err
		}
		value, err := b.buildExpr(fn, d.Value)
		if err != nil {
			return nil, err
		}
		return one(StmtAugAssign, AugAssignData{Target: target, Op: d.Op, Value: value}), nil

	case pyast.ReturnData:
		var value *Expr
		if d.Value != nil {
			var err error
			value, err = b.buildExpr(fn, d.Value)
			if err != nil {
				return nil, err
			}
		}
		return one(StmtReturn, ReturnData{Value: value}), nil

	case pyast.IfData:
		cond, err := b.buildExpr(fn, d.Cond)
		if err != nil {
			return nil, err
		}
		then, err := b.buildStmts(fn, d.Then)
		if err != nil {
			return nil, err
		}
		var els []*Stmt
		if d.Else != nil {
			els, err = b.buildStmts(fn, d.Else)
			if err != nil {
				return nil, err
			}
		}
		return one(StmtIf, IfData{Cond: cond, Then: then, Else: els}), nil

	case pyast.WhileData:
		if len(d.Else) > 0 {
			return nil, b.errf(s.Span, "unsupported while-else clause")
		}
		cond, err := b.buildExpr(fn, d.Cond)
		if err != nil {
			return nil, err
		}
		body, err := b.buildStmts(fn, d.Body)
		if err != nil {
			return nil, err
		}
		return one(StmtWhile, WhileData{Cond: cond, Body: body}), nil

	case pyast.ForData:
		if d.Async {
			return nil, b.errf(s.Span, "unsupported async for loop")
		}
		target, err := b.buildExpr(fn, d.Target)
		if err != nil {
			return nil, err
		}
		iter, err := b.buildExpr(fn, d.Iter)
		if err != nil {
			return nil, err
		}
		b.bindLoopTarget(fn, target, iter)
		body, err := b.buildStmts(fn, d.Body)
		if err != nil {
			return nil, err
		}
		var els []*Stmt
		if d.Else != nil {
			els, err = b.buildStmts(fn, d.Else)
			if err != nil {
				return nil, err
			}
		}
		return one(StmtFor, ForData{Target: target, Iter: iter, Body: body, Else: els}), nil

	case pyast.WithData:
		body, err := b.buildStmts(fn, d.Body)
		if err != nil {
			return nil, err
		}
		// Multiple items nest innermost-last.
		for i := len(d.Items) - 1; i >= 0; i-- {
			ctx, err := b.buildExpr(fn, d.Items[i].Context)
			if err != nil {
				return nil, err
			}
			body = []*Stmt{{
				Kind: StmtWith,
				Span: s.Span,
				Data: WithData{Context: ctx, Binding: d.Items[i].Binding, Body: body, Async: d.Async},
			}}
		}
		return body, nil

	case pyast.TryData:
		body, err := b.buildStmts(fn, d.Body)
		if err != nil {
			return nil, err
		}
		handlers := make([]ExceptHandler, 0, len(d.Handlers))
		for _, h := range d.Handlers {
			hb, err := b.buildStmts(fn, h.Body)
			if err != nil {
				return nil, err
			}
			handlers = append(handlers, ExceptHandler{
				ExcType: h.ExcType,
				Binding: h.Binding,
				Body:    hb,
				Span:    h.Span,
			})
		}
		var els, fin []*Stmt
		if d.Else != nil {
			if els, err = b.buildStmts(fn, d.Else); err != nil {
				return nil, err
			}
		}
		if d.Finally != nil {
			if fin, err = b.buildStmts(fn, d.Finally); err != nil {
				return nil, err
			}
		}
		return one(StmtTry, TryData{Body: body, Handlers: handlers, Else: els, Finally: fin}), nil

	case pyast.RaiseData:
		var exc, cause *Expr
		var err error
		if d.Exc != nil {
			if exc, err = b.buildExpr(fn, d.Exc); err != nil {
				return nil, err
			}
		}
		if d.Cause != nil {
			if cause, err = b.buildExpr(fn, d.Cause); err != nil {
				return nil, err
			}
		}
		return one(StmtRaise, RaiseData{Exc: exc, Cause: cause}), nil

	case pyast.AssertData:
		test, err := b.buildExpr(fn, d.Test)
		if err != nil {
			return nil, err
		}
		var msg *Expr
		if d.Msg != nil {
			if msg, err = b.buildExpr(fn, d.Msg); err != nil {
				return nil, err
			}
		}
		return one(StmtAssert, AssertData{Test: test, Msg: msg}), nil

	case pyast.FunctionDefData:
		nested, err := b.buildFunc("", &d, s.Span)
		if err != nil {
			return nil, err
		}
		return one(StmtFuncDef, FuncDefData{Func: nested}), nil

	case pyast.ClassDefData:
		return nil, b.errf(s.Span, "unsupported class definition inside a function")

	case pyast.ImportData:
		// Imports inside a function add nothing the emitter can use.
		return one(StmtPass, nil), nil

	case pyast.NamesData:
		switch s.Kind {
		case pyast.StmtGlobal:
			return nil, b.errf(s.Span, "unsupported global statement")
		case pyast.StmtNonlocal:
			return nil, b.errf(s.Span, "unsupported nonlocal statement")
		default: // delete
			return nil, b.errf(s.Span, "unsupported delete statement")
		}

	default:
		switch s.Kind {
		case pyast.StmtBreak:
			return one(StmtBreak, nil), nil
		case pyast.StmtContinue:
			return one(StmtContinue, nil), nil
		case pyast.StmtPass:
			return one(StmtPass, nil), nil
		}
		return nil, b.errf(s.Span, "unsupported statement %s", s.Kind)
	}
}

func (b *Builder) buildAssign(fn *Func, s *pyast.Stmt, d *pyast.AssignData) ([]*Stmt, error) {
	annotated := types.Parse(d.Annotation)

	var value *Expr
	if d.Value != nil {
		var err error
		value, err = b.buildExpr(fn, d.Value)
		if err != nil {
			return nil, err
		}
	}

	out := make([]*Stmt, 0, len(d.Targets))
	for _, t := range d.Targets {
		target, err := b.buildExpr(fn, t)
		if err != nil {
			return nil, err
		}
		if name := VarName(target); name != "" {
			switch {
			case !annotated.IsUnknown():
				fn.Locals[name] = annotated
			case value != nil:
				fn.Locals[name] = value.Type
			}
		}
		out = append(out, &Stmt{
			Kind: StmtAssign,
			Span: s.Span,
			Data: AssignData{Target: target, Value: value, Type: annotated},
		})
	}
	return out, nil
}

// bindLoopTarget records the element type of the iterated container for
// the loop variable.
func (b *Builder) bindLoopTarget(fn *Func, target, iter *Expr) {
	name := VarName(target)
	if name == "" {
		return
	}
	switch iter.Type.Kind {
	case types.List, types.Set, types.Optional:
		fn.Locals[name] = iter.Type.Elem()
	case types.Dict:
		fn.Locals[name] = iter.Type.Args[0]
	case types.String:
		fn.Locals[name] = types.StringT()
	default:
		if CalleeOf(iter) == "range" {
			fn.Locals[name] = types.IntT()
		} else {
			fn.Locals[name] = types.Unknown_()
		}
	}
}
