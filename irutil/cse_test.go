package irutil

import (
	"testing"

	"github.com/ajroetker/hvxpeep/ir"
)

func TestCommonSubexpressionEliminationLiftsRepeat(t *testing.T) {
	a := ir.Var(ir.IntOf(32), "a")
	b := ir.Var(ir.IntOf(32), "b")
	sum := ir.NewAdd(a, b)
	e := ir.NewMul(sum, sum)

	got := CommonSubexpressionElimination(e)
	let, ok := got.(ir.Let)
	if !ok {
		t.Fatalf("expected a Let wrapping the repeated subexpression, got %T", got)
	}
	if !ir.Equal(let.Value, sum) {
		t.Errorf("let-bound value = %s, want %s", let.Value, sum)
	}
	mul, ok := let.Body.(ir.Mul)
	if !ok {
		t.Fatalf("expected Mul body, got %T", let.Body)
	}
	v1, ok1 := mul.A.(ir.Variable)
	v2, ok2 := mul.B.(ir.Variable)
	if !ok1 || !ok2 || v1.Name != let.Name || v2.Name != let.Name {
		t.Errorf("both mul operands should reference the lifted binding, got %s * %s", mul.A, mul.B)
	}
}

func TestCommonSubexpressionEliminationLeavesUniqueTreeAlone(t *testing.T) {
	a := ir.Var(ir.IntOf(32), "a")
	b := ir.Var(ir.IntOf(32), "b")
	e := ir.NewAdd(a, b)
	got := CommonSubexpressionElimination(e)
	if !ir.Equal(got, e) {
		t.Errorf("expected no rewrite for a tree with no repeats, got %s", got)
	}
}
