package hir

import "pyrite/internal/directive"

// pureBuiltins is the fixed whitelist of functions assumed free of side
// effects. Anything else is assumed to have effects.
var pureBuiltins = map[string]struct{}{
	"len":   {},
	"abs":   {},
	"min":   {},
	"max":   {},
	"sum":   {},
	"str":   {},
	"int":   {},
	"float": {},
}

// mutatingMethods is the fixed whitelist of container methods that mutate
// their receiver.
var mutatingMethods = map[string]struct{}{
	"append":  {},
	"extend":  {},
	"remove":  {},
	"pop":     {},
	"clear":   {},
	"sort":    {},
	"reverse": {},
}

// IsPureBuiltin reports whether a call to name is assumed side-effect free.
func IsPureBuiltin(name string) bool {
	_, ok := pureBuiltins[name]
	return ok
}

// IsMutatingMethod reports whether the method mutates its receiver.
func IsMutatingMethod(name string) bool {
	_, ok := mutatingMethods[name]
	return ok
}

type propsVisitor struct {
	sideEffects bool
}

func (v *propsVisitor) VisitStmt(s *Stmt) bool { return true }

func (v *propsVisitor) VisitExpr(e *Expr) bool {
	switch d := e.Data.(type) {
	case CallData:
		if !IsPureBuiltin(d.Func) {
			v.sideEffects = true
		}
	case MethodCallData:
		if IsMutatingMethod(d.Method) {
			v.sideEffects = true
		}
	case DynCallData:
		v.sideEffects = true
	}
	return true
}

// computeProps fills in the function's properties record. Purity is the
// absence of any assumed-effectful call; thread safety comes from the
// directive set.
func computeProps(fn *Func) {
	v := &propsVisitor{}
	WalkStmts(fn.Body, v)
	fn.Props = Properties{
		IsPure:         !v.sideEffects,
		HasSideEffects: v.sideEffects,
		ThreadSafe:     fn.Directive.ThreadSafety == directive.ThreadRequired,
	}
}
