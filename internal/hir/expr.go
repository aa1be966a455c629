package hir

import (
	"pyrite/internal/source"
	"pyrite/internal/types"
)

// ExprKind enumerates HIR expression kinds.
type ExprKind uint8

const (
	// ExprLiteral represents literals (int, float, bool, string, bytes, none).
	ExprLiteral ExprKind = iota
	// ExprVar represents a variable reference.
	ExprVar
	// ExprBinary represents binary operators.
	ExprBinary
	// ExprUnary represents unary operators (-, not, ~).
	ExprUnary
	// ExprBoolOp represents short-circuit and/or chains.
	ExprBoolOp
	// ExprCompare represents comparison chains.
	ExprCompare
	// ExprCall represents a call of a module-level or builtin name.
	ExprCall
	// ExprMethodCall represents receiver.method(args). Kept distinct from
	// ExprCall: the receiver is borrowed, not moved.
	ExprMethodCall
	// ExprDynCall represents a call whose callee is itself an expression.
	ExprDynCall
	// ExprIndex represents indexing (expr[index]).
	ExprIndex
	// ExprSlice represents slicing (expr[start:stop:step]).
	ExprSlice
	// ExprAttribute represents attribute access (expr.field).
	ExprAttribute
	// ExprList represents list literals.
	ExprList
	// ExprTuple represents tuple literals.
	ExprTuple
	// ExprSet represents set literals.
	ExprSet
	// ExprDict represents dict literals.
	ExprDict
	// ExprComp represents list/set/generator comprehensions.
	ExprComp
	// ExprDictComp represents dict comprehensions.
	ExprDictComp
	// ExprLambda represents lambda expressions.
	ExprLambda
	// ExprIfExp represents conditional expressions (a if cond else b).
	ExprIfExp
	// ExprAwait represents await expressions.
	ExprAwait
	// ExprYield represents yield expressions.
	ExprYield
	// ExprNamed represents walrus assignment expressions.
	ExprNamed
	// ExprFString represents f-strings as literal/expression fragments.
	ExprFString
	// ExprStarred represents *expr in call or assignment position.
	ExprStarred
)

// String returns a human-readable name for the expression kind.
func (k ExprKind) String() string {
	switch k {
	case ExprLiteral:
		return "Literal"
	case ExprVar:
		return "Var"
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
	case ExprMethodCall:
		return "MethodCall"
	case ExprDynCall:
		return "DynCall"
	case ExprIndex:
		return "Index"
	case ExprSlice:
		return "Slice"
	case ExprAttribute:
		return "Attribute"
	case ExprList:
		return "List"
	case ExprTuple:
		return "Tuple"
	case ExprSet:
		return "Set"
	case ExprDict:
		return "Dict"
	case ExprComp:
		return "Comp"
	case ExprDictComp:
		return "DictComp"
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

// Expr represents an HIR expression with type information.
type Expr struct {
	Kind ExprKind
	Type types.Type  // best-effort; Unknown when inference gave up
	Span source.Span // Source location for diagnostics
	Data ExprData    // Kind-specific payload
}

// ExprData is the interface for expression-specific data.
type ExprData interface {
	exprData()
}

// LiteralKind enumerates literal value kinds.
type LiteralKind uint8

const (
	LitInt LiteralKind = iota
	LitFloat
	LitBool
	LitString
	LitBytes
	LitNone
)

// LiteralData holds data for ExprLiteral. Raw preserves the source
// spelling for numeric literals.
type LiteralData struct {
	LitKind LiteralKind
	Raw     string
	Int     int64
	Float   float64
	Bool    bool
	Str     string
}

func (LiteralData) exprData() {}

// VarData holds data for ExprVar.
type VarData struct {
	Name string
}

func (VarData) exprData() {}

// BinaryData holds data for ExprBinary.
type BinaryData struct {
	Op    string
	Left  *Expr
	Right *Expr
}

func (BinaryData) exprData() {}

// UnaryData holds data for ExprUnary.
type UnaryData struct {
	Op      string
	Operand *Expr
}

func (UnaryData) exprData() {}

// BoolOpData holds data for ExprBoolOp.
type BoolOpData struct {
	Op     string // "and" or "or"
	Values []*Expr
}

func (BoolOpData) exprData() {}

// CompareData holds data for ExprCompare. Ops[i] compares Operands[i]
// against Operands[i+1].
type CompareData struct {
	Operands []*Expr
	Ops      []string
}

func (CompareData) exprData() {}

// Keyword is one keyword argument in a call.
type Keyword struct {
	Name  string
	Value *Expr
}

// CallData holds data for ExprCall.
type CallData struct {
	Func     string
	Args     []*Expr
	Keywords []Keyword
}

func (CallData) exprData() {}

// MethodCallData holds data for ExprMethodCall.
type MethodCallData struct {
	Receiver *Expr
	Method   string
	Args     []*Expr
	Keywords []Keyword
}

func (MethodCallData) exprData() {}

// DynCallData holds data for ExprDynCall.
type DynCallData struct {
	Callee   *Expr
	Args     []*Expr
	Keywords []Keyword
}

func (DynCallData) exprData() {}

// IndexData holds data for ExprIndex.
type IndexData struct {
	Object *Expr
	Index  *Expr
}

func (IndexData) exprData() {}

// SliceData holds data for ExprSlice.
type SliceData struct {
	Object *Expr
	Start  *Expr // nil if omitted
	Stop   *Expr
	Step   *Expr
}

func (SliceData) exprData() {}

// AttributeData holds data for ExprAttribute.
type AttributeData struct {
	Object *Expr
	Attr   string
}

func (AttributeData) exprData() {}

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

// CompClause is one "for target in iter [if cond]*" clause. The target is
// bound in an inner scope; conditions are evaluated after the binding.
type CompClause struct {
	Target *Expr
	Iter   *Expr
	Conds  []*Expr
}

// CompData holds data for ExprComp.
type CompData struct {
	// Kind of the produced container: List, Set or Generic("generator").
	Container types.Kind
	Elem      *Expr
	Clauses   []CompClause
}

func (CompData) exprData() {}

// DictCompData holds data for ExprDictComp.
type DictCompData struct {
	Key     *Expr
	Value   *Expr
	Clauses []CompClause
}

func (DictCompData) exprData() {}

// LambdaData holds data for ExprLambda.
type LambdaData struct {
	Params []Param
	Body   *Expr
}

func (LambdaData) exprData() {}

// IfExpData holds data for ExprIfExp. The condition is evaluated before
// either branch.
type IfExpData struct {
	Cond *Expr
	Then *Expr
	Else *Expr
}

func (IfExpData) exprData() {}

// WrapData holds the wrapped value for ExprAwait, ExprYield (nil value
// allowed for bare yield), ExprNamed and ExprStarred.
type WrapData struct {
	Value *Expr
	Name  string // target name for ExprNamed
}

func (WrapData) exprData() {}

// FStringPart is one fragment of an f-string: literal text or an
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

// VarName returns the identifier if e is a bare variable, else "".
func VarName(e *Expr) string {
	if e == nil || e.Kind != ExprVar {
		return ""
	}
	return e.Data.(VarData).Name
}

// CalleeOf returns the called name if e is a direct ExprCall, else "".
func CalleeOf(e *Expr) string {
	if e == nil || e.Kind != ExprCall {
		return ""
	}
	return e.Data.(CallData).Func
}

// IsNoneLiteral reports whether e is the literal none value.
func IsNoneLiteral(e *Expr) bool {
	if e == nil || e.Kind != ExprLiteral {
		return false
	}
	return e.Data.(LiteralData).LitKind == LitNone
}
