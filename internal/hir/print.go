//nolint:errcheck // Type assertions are checked by construction
package hir

import (
	"fmt"
	"io"
	"strings"
)

// Printer is used to dump HIR to text format for inspection.
type Printer struct {
	w      io.Writer
	indent int
}

// NewPrinter creates a new HIR printer.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Dump writes the HIR module to the writer.
func Dump(w io.Writer, m *Module) error {
	return NewPrinter(w).PrintModule(m)
}

// PrintModule prints a complete module.
func (p *Printer) PrintModule(m *Module) error {
	p.printf("module %s\n", m.Name)
	if m.Path != "" {
		p.printf("  path: %s\n", m.Path)
	}
	p.printf("\n")

	for class, fields := range m.Fields {
		p.printf("class %s\n", class)
		for name, t := range fields {
			p.printf("  field %s: %s\n", name, t)
		}
	}
	if len(m.Fields) > 0 {
		p.printf("\n")
	}

	for _, f := range m.Funcs {
		p.PrintFunc(f)
		p.printf("\n")
	}
	return nil
}

// PrintFunc prints a function.
func (p *Printer) PrintFunc(f *Func) {
	if f.Async {
		p.printf("async ")
	}
	p.printf("fn %s(", f.Name)
	for i, param := range f.Params {
		if i > 0 {
			p.printf(", ")
		}
		if param.Vararg {
			p.printf("*")
		}
		if param.KwArg {
			p.printf("**")
		}
		p.printf("%s: %s", param.Name, param.Type)
	}
	p.printf(") -> %s", f.Result)
	if f.Props.IsPure {
		p.printf(" [pure]")
	}
	if f.Props.ThreadSafe {
		p.printf(" [thread-safe]")
	}
	p.printf(" {\n")
	p.indent++
	for _, s := range f.Body {
		p.printStmt(s)
	}
	p.indent--
	p.printf("}\n")
}

func (p *Printer) printStmt(s *Stmt) {
	p.printIndent()

	switch s.Kind {
	case StmtExpr:
		p.printExpr(s.Data.(ExprStmtData).Expr)
		p.printf("\n")
	case StmtAssign:
		data := s.Data.(AssignData)
		p.printExpr(data.Target)
		if !data.Type.IsUnknown() {
			p.printf(": %s", data.Type)
		}
		if data.Value != nil {
			p.printf(" = ")
			p.printExpr(data.Value)
		}
		p.printf("\n")
	case StmtAugAssign:
		data := s.Data.(AugAssignData)
		p.printExpr(data.Target)
		p.printf(" %s= ", data.Op)
		p.printExpr(data.Value)
		p.printf("\n")
	case StmtReturn:
		data := s.Data.(ReturnData)
		p.printf("return")
		if data.Value != nil {
			p.printf(" ")
			p.printExpr(data.Value)
		}
		p.printf("\n")
	case StmtIf:
		data := s.Data.(IfData)
		p.printf("if ")
		p.printExpr(data.Cond)
		p.printf(" {\n")
		p.printBody(data.Then)
		if data.Else != nil {
			p.printIndent()
			p.printf("} else {\n")
			p.printBody(data.Else)
		}
		p.printIndent()
		p.printf("}\n")
	case StmtWhile:
		data := s.Data.(WhileData)
		p.printf("while ")
		p.printExpr(data.Cond)
		p.printf(" {\n")
		p.printBody(data.Body)
		p.printIndent()
		p.printf("}\n")
	case StmtFor:
		data := s.Data.(ForData)
		p.printf("for ")
		p.printExpr(data.Target)
		p.printf(" in ")
		p.printExpr(data.Iter)
		p.printf(" {\n")
		p.printBody(data.Body)
		p.printIndent()
		p.printf("}\n")
	case StmtWith:
		data := s.Data.(WithData)
		p.printf("with ")
		p.printExpr(data.Context)
		if data.Binding != "" {
			p.printf(" as %s", data.Binding)
		}
		p.printf(" {\n")
		p.printBody(data.Body)
		p.printIndent()
		p.printf("}\n")
	case StmtTry:
		data := s.Data.(TryData)
		p.printf("try {\n")
		p.printBody(data.Body)
		for _, h := range data.Handlers {
			p.printIndent()
			p.printf("} except %s {\n", h.ExcType)
			p.printBody(h.Body)
		}
		if data.Finally != nil {
			p.printIndent()
			p.printf("} finally {\n")
			p.printBody(data.Finally)
		}
		p.printIndent()
		p.printf("}\n")
	case StmtRaise:
		data := s.Data.(RaiseData)
		p.printf("raise")
		if data.Exc != nil {
			p.printf(" ")
			p.printExpr(data.Exc)
		}
		p.printf("\n")
	case StmtAssert:
		data := s.Data.(AssertData)
		p.printf("assert ")
		p.printExpr(data.Test)
		p.printf("\n")
	case StmtBreak:
		p.printf("break\n")
	case StmtContinue:
		p.printf("continue\n")
	case StmtPass:
		p.printf("pass\n")
	case StmtBlock:
		p.printf("{\n")
		p.printBody(s.Data.(BlockData).Body)
		p.printIndent()
		p.printf("}\n")
	case StmtFuncDef:
		p.PrintFunc(s.Data.(FuncDefData).Func)
	default:
		p.printf("<%s>\n", s.Kind)
	}
}

func (p *Printer) printBody(body []*Stmt) {
	p.indent++
	for _, s := range body {
		p.printStmt(s)
	}
	p.indent--
}

func (p *Printer) printExpr(e *Expr) {
	if e == nil {
		p.printf("<nil>")
		return
	}
	switch d := e.Data.(type) {
	case LiteralData:
		switch d.LitKind {
		case LitString:
			p.printf("%q", d.Str)
		case LitNone:
			p.printf("None")
		case LitBool:
			p.printf("%v", d.Bool)
		default:
			p.printf("%s", d.Raw)
		}
	case VarData:
		p.printf("%s", d.Name)
	case BinaryData:
		p.printf("(")
		p.printExpr(d.Left)
		p.printf(" %s ", d.Op)
		p.printExpr(d.Right)
		p.printf(")")
	case UnaryData:
		p.printf("%s", d.Op)
		if d.Op == "not" {
			p.printf(" ")
		}
		p.printExpr(d.Operand)
	case BoolOpData:
		p.printf("(")
		for i, v := range d.Values {
			if i > 0 {
				p.printf(" %s ", d.Op)
			}
			p.printExpr(v)
		}
		p.printf(")")
	case CompareData:
		p.printf("(")
		for i, op := range d.Operands {
			if i > 0 {
				p.printf(" %s ", d.Ops[i-1])
			}
			p.printExpr(op)
		}
		p.printf(")")
	case CallData:
		p.printf("%s(", d.Func)
		p.printArgs(d.Args, d.Keywords)
		p.printf(")")
	case MethodCallData:
		p.printExpr(d.Receiver)
		p.printf(".%s(", d.Method)
		p.printArgs(d.Args, d.Keywords)
		p.printf(")")
	case DynCallData:
		p.printExpr(d.Callee)
		p.printf("(")
		p.printArgs(d.Args, d.Keywords)
		p.printf(")")
	case IndexData:
		p.printExpr(d.Object)
		p.printf("[")
		p.printExpr(d.Index)
		p.printf("]")
	case SliceData:
		p.printExpr(d.Object)
		p.printf("[")
		if d.Start != nil {
			p.printExpr(d.Start)
		}
		p.printf(":")
		if d.Stop != nil {
			p.printExpr(d.Stop)
		}
		if d.Step != nil {
			p.printf(":")
			p.printExpr(d.Step)
		}
		p.printf("]")
	case AttributeData:
		p.printExpr(d.Object)
		p.printf(".%s", d.Attr)
	case SequenceData:
		opener, closer := "[", "]"
		if e.Kind == ExprTuple {
			opener, closer = "(", ")"
		} else if e.Kind == ExprSet {
			opener, closer = "{", "}"
		}
		p.printf("%s", opener)
		for i, el := range d.Elems {
			if i > 0 {
				p.printf(", ")
			}
			p.printExpr(el)
		}
		p.printf("%s", closer)
	case DictData:
		p.printf("{")
		for i := range d.Values {
			if i > 0 {
				p.printf(", ")
			}
			if d.Keys[i] != nil {
				p.printExpr(d.Keys[i])
				p.printf(": ")
			} else {
				p.printf("**")
			}
			p.printExpr(d.Values[i])
		}
		p.printf("}")
	case FStringData:
		var sb strings.Builder
		for _, part := range d.Parts {
			if part.Expr != nil {
				sb.WriteString("{}")
			} else {
				sb.WriteString(part.Literal)
			}
		}
		p.printf("f%q", sb.String())
	case IfExpData:
		p.printf("(")
		p.printExpr(d.Then)
		p.printf(" if ")
		p.printExpr(d.Cond)
		p.printf(" else ")
		p.printExpr(d.Else)
		p.printf(")")
	case WrapData:
		switch e.Kind {
		case ExprAwait:
			p.printf("await ")
		case ExprYield:
			p.printf("yield ")
		case ExprNamed:
			p.printf("%s := ", d.Name)
		default:
			p.printf("*")
		}
		if d.Value != nil {
			p.printExpr(d.Value)
		}
	default:
		p.printf("<%s>", e.Kind)
	}
}

func (p *Printer) printArgs(args []*Expr, keywords []Keyword) {
	for i, a := range args {
		if i > 0 {
			p.printf(", ")
		}
		p.printExpr(a)
	}
	for i, k := range keywords {
		if i > 0 || len(args) > 0 {
			p.printf(", ")
		}
		p.printf("%s=", k.Name)
		p.printExpr(k.Value)
	}
}

func (p *Printer) printIndent() {
	for i := 0; i < p.indent; i++ {
		fmt.Fprint(p.w, "  ")
	}
}

func (p *Printer) printf(format string, args ...any) {
	fmt.Fprintf(p.w, format, args...)
}
