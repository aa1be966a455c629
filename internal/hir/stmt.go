package hir

import (
	"pyrite/internal/source"
	"pyrite/internal/types"
)

// StmtKind enumerates HIR statement kinds.
type StmtKind uint8

const (
	// StmtExpr represents an expression statement.
	StmtExpr StmtKind = iota
	// StmtAssign represents assignment (target = value).
	StmtAssign
	// StmtAugAssign represents augmented assignment (target op= value).
	StmtAugAssign
	// StmtReturn represents return statement.
	StmtReturn
	// StmtIf represents if/else statement.
	StmtIf
	// StmtWhile represents while loop.
	StmtWhile
	// StmtFor represents for-in loop.
	StmtFor
	// StmtWith represents a context-manager block.
	StmtWith
	// StmtTry represents try/except/else/finally.
	StmtTry
	// StmtRaise represents raise statement.
	StmtRaise
	// StmtAssert represents assert statement.
	StmtAssert
	// StmtBreak represents break statement.
	StmtBreak
	// StmtContinue represents continue statement.
	StmtContinue
	// StmtPass represents pass (no-op).
	StmtPass
	// StmtBlock represents a nested scope block introduced by the builder.
	StmtBlock
	// StmtFuncDef represents a nested function definition.
	StmtFuncDef
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
	case StmtBlock:
		return "Block"
	case StmtFuncDef:
		return "FuncDef"
	default:
		return "Unknown"
	}
}

// Stmt represents an HIR statement.
type Stmt struct {
	Kind StmtKind
	Span source.Span
	Data StmtData // Kind-specific payload
}

// StmtData is the interface for statement-specific data.
type StmtData interface {
	stmtData()
}

// ExprStmtData holds data for StmtExpr.
type ExprStmtData struct {
	Expr *Expr
}

func (ExprStmtData) stmtData() {}

// AssignData holds data for StmtAssign. Target is a name, a tuple pattern,
// or an index/attribute lvalue; those are the only lvalue positions in HIR.
type AssignData struct {
	Target *Expr
	Value  *Expr
	// Type is the annotated type of an annotated assignment; Unknown when
	// the source carried no annotation.
	Type types.Type
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

// IfData holds data for StmtIf.
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
}

func (WhileData) stmtData() {}

// ForData holds data for StmtFor. The target is rebound each iteration
// and is scoped to the loop body.
type ForData struct {
	Target *Expr // name or tuple pattern
	Iter   *Expr
	Body   []*Stmt
	Else   []*Stmt
}

func (ForData) stmtData() {}

// WithData holds data for StmtWith.
type WithData struct {
	Context *Expr
	Binding string // empty if no "as" clause
	Body    []*Stmt
	Async   bool
}

func (WithData) stmtData() {}

// ExceptHandler is one except clause of a try statement.
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

// BlockData holds data for StmtBlock.
type BlockData struct {
	Body []*Stmt
}

func (BlockData) stmtData() {}

// FuncDefData holds a nested function definition.
type FuncDefData struct {
	Func *Func
}

func (FuncDefData) stmtData() {}
