package inline

import (
	"sort"

	"pyrite/internal/hir"
)

// callGraph records direct call-by-name edges between module functions.
type callGraph struct {
	calls     map[string]map[string]struct{}
	calledBy  map[string]map[string]struct{}
	recursive map[string]struct{}
}

func buildCallGraph(mod *hir.Module) *callGraph {
	g := &callGraph{
		calls:     make(map[string]map[string]struct{}),
		calledBy:  make(map[string]map[string]struct{}),
		recursive: make(map[string]struct{}),
	}
	defined := make(map[string]struct{}, len(mod.Funcs))
	for _, fn := range mod.Funcs {
		defined[fn.Name] = struct{}{}
	}
	hir.WalkFunctions(mod, func(fn *hir.Func) {
		callees := collectCalls(fn)
		edges := make(map[string]struct{})
		for callee := range callees {
			// Builtins and externals are not graph nodes.
			if _, ok := defined[callee]; !ok {
				continue
			}
			edges[callee] = struct{}{}
			if g.calledBy[callee] == nil {
				g.calledBy[callee] = make(map[string]struct{})
			}
			g.calledBy[callee][fn.Name] = struct{}{}
		}
		g.calls[fn.Name] = edges
	})
	g.detectRecursion(mod)
	return g
}

// collectCalls gathers every name the function calls directly. Method
// calls contribute only through their receiver and argument expressions.
func collectCalls(fn *hir.Func) map[string]struct{} {
	names := make(map[string]struct{})
	v := &callScan{names: names}
	hir.WalkStmts(fn.Body, v)
	return names
}

type callScan struct {
	names map[string]struct{}
}

func (c *callScan) VisitStmt(*hir.Stmt) bool { return true }

func (c *callScan) VisitExpr(e *hir.Expr) bool {
	if d, ok := e.Data.(hir.CallData); ok {
		c.names[d.Func] = struct{}{}
	}
	return true
}

// detectRecursion runs a DFS from every function; a back-edge marks the
// whole on-stack chain recursive.
func (g *callGraph) detectRecursion(mod *hir.Module) {
	roots := make([]string, 0, len(g.calls))
	for name := range g.calls {
		roots = append(roots, name)
	}
	sort.Strings(roots)

	for _, root := range roots {
		visited := make(map[string]struct{})
		onStack := make(map[string]struct{})
		var stack []string
		g.markCycles(root, visited, onStack, &stack)
	}
}

func (g *callGraph) markCycles(name string, visited, onStack map[string]struct{}, stack *[]string) {
	visited[name] = struct{}{}
	onStack[name] = struct{}{}
	*stack = append(*stack, name)

	callees := make([]string, 0, len(g.calls[name]))
	for callee := range g.calls[name] {
		callees = append(callees, callee)
	}
	sort.Strings(callees)
	for _, callee := range callees {
		if _, ok := onStack[callee]; ok {
			// A back-edge poisons the whole chain that reached it.
			for _, frame := range *stack {
				g.recursive[frame] = struct{}{}
			}
			continue
		}
		if _, done := visited[callee]; !done {
			g.markCycles(callee, visited, onStack, stack)
		}
	}

	*stack = (*stack)[:len(*stack)-1]
	delete(onStack, name)
}

func (g *callGraph) callCount(name string) int {
	return len(g.calledBy[name])
}

func (g *callGraph) isRecursive(name string) bool {
	_, ok := g.recursive[name]
	return ok
}
