package irutil

import (
	"fmt"

	"github.com/ajroetker/hvxpeep/ir"
)

// CommonSubexpressionElimination rewrites e so that every subexpression
// occurring more than once is computed once and bound with a Let, innermost
// repeats bound first. It compares subexpressions by their printed form.
// That form omits the types of variables, loads and calls, so two subtrees
// that differ only in such a type are treated as the same subexpression.
func CommonSubexpressionElimination(e ir.Expr) ir.Expr {
	counts := map[string]int{}
	countNode(e, counts)

	cb := &cseBuilder{counts: counts, seen: map[string]string{}}
	body := cb.rewrite(e)

	result := body
	for i := len(cb.bindings) - 1; i >= 0; i-- {
		b := cb.bindings[i]
		result = ir.NewLet(b.name, b.value, result)
	}
	return result
}

type binding struct {
	name  string
	value ir.Expr
}

type cseBuilder struct {
	counts   map[string]int
	seen     map[string]string
	bindings []binding
	next     int
}

func isTrivial(e ir.Expr) bool {
	switch e.(type) {
	case ir.IntImm, ir.UIntImm, ir.Variable:
		return true
	default:
		return false
	}
}

func countNode(e ir.Expr, counts map[string]int) {
	if !isTrivial(e) {
		counts[fmt.Sprint(e)]++
	}
	ir.MutateChildren(e, func(c ir.Expr) ir.Expr {
		countNode(c, counts)
		return c
	})
}

func (cb *cseBuilder) rewrite(e ir.Expr) ir.Expr {
	if isTrivial(e) {
		return e
	}
	key := fmt.Sprint(e)
	rebuilt := ir.MutateChildren(e, cb.rewrite)
	if cb.counts[key] <= 1 {
		return rebuilt
	}
	if name, ok := cb.seen[key]; ok {
		return ir.Var(rebuilt.Type(), name)
	}
	name := fmt.Sprintf("cse%d", cb.next)
	cb.next++
	cb.seen[key] = name
	cb.bindings = append(cb.bindings, binding{name: name, value: rebuilt})
	return ir.Var(rebuilt.Type(), name)
}
