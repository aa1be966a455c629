// Package pyast is the Python AST surface the translator core consumes.
//
// It is produced by the front-end adapter (internal/pyparse) and read by the
// surface linter and the HIR builder. Every node carries a byte span into the
// source file; the diagnostic layer depends on it. The shape deliberately
// mirrors Python's own grammar rather than the HIR: lowering decisions
// (class flattening, comprehension scoping) happen in the HIR builder, not
// here.
package pyast

import (
	"pyrite/internal/source"
)

// Module is a parsed Python source file.
type Module struct {
	Name      string
	Path      string
	File      source.FileID
	Body      []*Stmt
	Docstring string
	Span      source.Span
}

// Param is one function parameter.
type Param struct {
	Name       string
	Annotation string // raw annotation text, empty if none
	Default    *Expr  // nil if none
	Vararg     bool   // *args
	KwArg      bool   // **kwargs
	Span       source.Span
}

// StmtKind enumerates Python statement kinds.
type StmtKind uint8

const (
	StmtExpr StmtKind = iota
	StmtAssign
	StmtAugAssign
	StmtReturn
	StmtIf
	StmtWhile
	StmtFor
	StmtWith
	StmtTry
	StmtRaise
	StmtAssert
	StmtBreak
	StmtContinue
	StmtPass
	StmtFunctionDef
	StmtClassDef
	StmtImport
	StmtImportFrom
	StmtGlobal
	StmtNonlocal
	StmtDelete
)

// String returns a human-readable name for the statement kind.
func (k StmtKind) String() string {
	switch k {
	case StmtExpr:
		return "Expr"
	case StmtAssign:
		return "Assign"
	case StmtAugAssign:
		return "AugAssign"
	case StmtReturn:
		return "Return"
	case StmtIf:
		return "If"
	case StmtWhile:
		return "While"
	case StmtFor:
		return "For"
	case StmtWith:
		return "With"
	case StmtTry:
		return "Try"
	case StmtRaise:
		return "Raise"
	case StmtAssert:
		return "Assert"
	case StmtBreak:
		return "Break"
	case StmtContinue:
		return "Continue"
	case StmtPass:
		return "Pass"
	case StmtFunctionDef:
		return "FunctionDef"
	case StmtClassDef:
		return "ClassDef"
	case StmtImport:
		return "Import"
	case StmtImportFrom:
		return "ImportFrom"
	case StmtGlobal:
		return "Global"
	case StmtNonlocal:
		return "Nonlocal"
	case StmtDelete:
		return "Delete"
	default:
		return "Unknown"
	}
}

// Stmt represents a Python statement.
type Stmt struct {
	Kind StmtKind
	Span source.Span
	Data StmtData
}

// StmtData is the interface for statement-specific payloads.
type StmtData interface {
	stmtData()
}

// ExprStmtData holds data for StmtExpr.
type ExprStmtData struct {
	Value *Expr
}

func (ExprStmtData) stmtData() {}

// AssignData holds data for StmtAssign. Multiple targets cover chained
// assignment (a = b = v); Annotation is the raw annotation text of an
// annotated assignment.
type AssignData struct {
	Targets    []*Expr
	Value      *Expr // nil for a bare annotation (x: int)
	Annotation string
}

func (AssignData) stmtData() {}

// AugAssignData holds data for StmtAugAssign.
type AugAssignData struct {
	Target *Expr
	Op     string // operator without '=' (e.g. "+")
	Value  *Expr
}

func (AugAssignData) stmtData() {}

// ReturnData holds data for StmtReturn.
type ReturnData struct {
	Value *Expr // nil for bare return
}

func (ReturnData) stmtData() {}

// IfData holds data for StmtIf. Elif chains are normalized into nested
// if statements in the Else body.
type IfData struct {
	Cond *Expr
	Then []*Stmt
	Else []*Stmt // nil if no else branch
}

func (IfData) stmtData() {}

// WhileData holds data for StmtWhile.
type WhileData struct {
	Cond *Expr
	Body []*Stmt
	Else []*Stmt
}

func (WhileData) stmtData() {}

// ForData holds data for StmtFor.
type ForData struct {
	Target *Expr // Name or Tuple pattern
	Iter   *Expr
	Body   []*Stmt
	Else   []*Stmt
	Async  bool
}

func (ForData) stmtData() {}

// WithItem is one "ctx as name" clause of a with statement.
type WithItem struct {
	Context *Expr
	Binding string // empty if no "as" clause
}

// WithData holds data for StmtWith.
type WithData struct {
	Items []WithItem
	Body  []*Stmt
	Async bool
}

func (WithData) stmtData() {}

// ExceptHandler is one except clause.
type ExceptHandler struct {
	ExcType string // raw exception type text, empty for bare except
	Binding string // "as" name, empty if none
	Body    []*Stmt
	Span    source.Span
}

// TryData holds data for StmtTry.
type TryData struct {
	Body     []*Stmt
	Handlers []ExceptHandler
	Else     []*Stmt
	Finally  []*Stmt
}

func (TryData) stmtData() {}

// RaiseData holds data for StmtRaise.
type RaiseData struct {
	Exc   *Expr // nil for bare raise
	Cause *Expr // nil if no "from"
}

func (RaiseData) stmtData() {}

// AssertData holds data for StmtAssert.
type AssertData struct {
	Test *Expr
	Msg  *Expr // nil if none
}

func (AssertData) stmtData() {}

// FunctionDefData holds data for StmtFunctionDef.
type FunctionDefData struct {
	Name       string
	Params     []Param
	Returns    string // raw return annotation text
	Body       []*Stmt
	Docstring  string
	Decorators []string
	Async      bool
}

func (FunctionDefData) stmtData() {}

// ClassDefData holds data for StmtClassDef.
type ClassDefData struct {
	Name      string
	Bases     []string
	Keywords  map[string]string // class header keywords (metaclass=...)
	Body      []*Stmt
	Docstring string
}

func (ClassDefData) stmtData() {}

// ImportData holds data for StmtImport and StmtImportFrom.
type ImportData struct {
	Module string
	Names  []string // imported names, empty for plain "import m"
	Alias  string
}

func (ImportData) stmtData() {}

// NamesData holds data for StmtGlobal, StmtNonlocal and StmtDelete.
type NamesData struct {
	Names []string
	Exprs []*Expr // for delete targets
}

func (NamesData) stmtData() {}
