package pyast

import (
	"pyrite/internal/source"
)

// ExprKind enumerates Python expression kinds.
type ExprKind uint8

const (
	ExprName ExprKind = iota
	ExprLiteral
	ExprBinary
	ExprUnary
	ExprBoolOp
	ExprCompare
	ExprCall
	ExprAttribute
	ExprSubscript
	ExprSlice
	ExprList
	ExprTuple
	ExprSet
	ExprDict
	ExprListComp
	ExprSetComp
	ExprDictComp
	ExprGenerator
	ExprLambda
	ExprIfExp
	ExprAwait
	ExprYield
	ExprNamed
	ExprFString
	ExprStarred
)

// String returns a human-readable name for the expression kind.
func (k ExprKind) String() string {
	switch k {
	case ExprName:
		return "Name"
	case ExprLiteral:
		return "Literal"
	case ExprBinary:
		return "Binary"
	case ExprUnary:
		return "Unary"
	case ExprBoolOp:
		return "BoolOp"
	case ExprCompare:
		return "Compare"
	case ExprCall:
		return "Call"
	case ExprAttribute:
		return "Attribute"
	case ExprSubscript:
		return "Subscript"
	case ExprSlice:
		return "Slice"
	case ExprList:
		return "List"
	case ExprTuple:
		return "Tuple"
	case ExprSet:
		return "Set"
	case ExprDict:
		return "Dict"
	case ExprListComp:
		return "ListComp"
	case ExprSetComp:
		return "SetComp"
	case ExprDictComp:
		return "DictComp"
	case ExprGenerator:
		return "Generator"
	case ExprLambda:
		return "Lambda"
	case ExprIfExp:
		return "IfExp"
	case ExprAwait:
		return "Await"
	case ExprYield:
		return "Yield"
	case ExprNamed:
		return "Named"
	case ExprFString:
		return "FString"
	case ExprStarred:
		return "Starred"
	default:
		return "Unknown"
	}
}

// Expr represents a Python expression.
type Expr struct {
	Kind ExprKind
	Span source.Span
	Data ExprData
}

// ExprData is the interface for expression-specific payloads.
type ExprData interface {
	exprData()
}

// NameData holds data for ExprName.
type NameData struct {
	Name string
}

func (NameData) exprData() {}

// LiteralKind distinguishes literal constants.
type LiteralKind uint8

const (
	LitInt LiteralKind = iota
	LitFloat
	LitBool
	LitString
	LitBytes
	LitNone
	LitEllipsis
)

// LiteralData holds data for ExprLiteral. Raw preserves the source spelling;
// Str holds the decoded string value for string/bytes literals.
type LiteralData struct {
	LitKind LiteralKind
	Raw     string
	Int     int64
	Float   float64
	Bool    bool
	Str     string
}

func (LiteralData) exprData() {}

// BinaryData holds data for ExprBinary.
type BinaryData struct {
	Left  *Expr
	Op    string
	Right *Expr
}

func (BinaryData) exprData() {}

// UnaryData holds data for ExprUnary.
type UnaryData struct {
	Op      string
	Operand *Expr
}

func (UnaryData) exprData() {}

// BoolOpData holds data for ExprBoolOp ("and"/"or" chains).
type BoolOpData struct {
	Op     string
	Values []*Expr
}

func (BoolOpData) exprData() {}

// CompareData holds data for ExprCompare. Ops[i] compares the value at i
// against the value at i+1.
type CompareData struct {
	Operands []*Expr
	Ops      []string
}

func (CompareData) exprData() {}

// Keyword is a keyword argument in a call.
type Keyword struct {
	Name  string
	Value *Expr
}

// CallData holds data for ExprCall.
type CallData struct {
	Func     *Expr
	Args     []*Expr
	Keywords []Keyword
}

func (CallData) exprData() {}

// AttributeData holds data for ExprAttribute.
type AttributeData struct {
	Value *Expr
	Attr  string
}

func (AttributeData) exprData() {}

// SubscriptData holds data for ExprSubscript.
type SubscriptData struct {
	Value *Expr
	Index *Expr // may be an ExprSlice
}

func (SubscriptData) exprData() {}

// SliceData holds data for ExprSlice.
type SliceData struct {
	Start *Expr // nil if omitted
	Stop  *Expr
	Step  *Expr
}

func (SliceData) exprData() {}

// SequenceData holds data for ExprList, ExprTuple and ExprSet.
type SequenceData struct {
	Elems []*Expr
}

func (SequenceData) exprData() {}

// DictData holds data for ExprDict. Keys[i] == nil marks a **splat entry.
type DictData struct {
	Keys   []*Expr
	Values []*Expr
}

func (DictData) exprData() {}

// Comprehension is one "for target in iter [if cond]*" clause.
type Comprehension struct {
	Target *Expr
	Iter   *Expr
	Conds  []*Expr
	Async  bool
}

// CompData holds data for ExprListComp, ExprSetComp, ExprGenerator.
type CompData struct {
	Elem       *Expr
	Generators []Comprehension
}

func (CompData) exprData() {}

// DictCompData holds data for ExprDictComp.
type DictCompData struct {
	Key        *Expr
	Value      *Expr
	Generators []Comprehension
}

func (DictCompData) exprData() {}

// LambdaData holds data for ExprLambda.
type LambdaData struct {
	Params []Param
	Body   *Expr
}

func (LambdaData) exprData() {}

// IfExpData holds data for ExprIfExp ("a if cond else b").
type IfExpData struct {
	Test   *Expr
	Body   *Expr
	Orelse *Expr
}

func (IfExpData) exprData() {}

// UnaryExprData holds the wrapped value for ExprAwait, ExprYield (nil value
// allowed for bare yield), ExprNamed and ExprStarred.
type UnaryExprData struct {
	Value *Expr
	Name  string // target name for ExprNamed
}

func (UnaryExprData) exprData() {}

// FStringPart is one fragment of an f-string: either literal text or an
// embedded expression.
type FStringPart struct {
	Literal string
	Expr    *Expr // nil for literal fragments
}

// FStringData holds data for ExprFString.
type FStringData struct {
	Parts []FStringPart
}

func (FStringData) exprData() {}

// NameOf returns the identifier if e is a bare name, else "".
func NameOf(e *Expr) string {
	if e == nil || e.Kind != ExprName {
		return ""
	}
	return e.Data.(NameData).Name
}

// CalleeName returns the called name if e is a direct call of a bare name.
func CalleeName(e *Expr) string {
	if e == nil || e.Kind != ExprCall {
		return ""
	}
	return NameOf(e.Data.(CallData).Func)
}
