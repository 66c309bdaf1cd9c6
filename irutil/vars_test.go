package irutil

import (
	"testing"

	"github.com/ajroetker/hvxpeep/ir"
)

func TestExprUsesVar(t *testing.T) {
	x := ir.Var(ir.IntOf(32), "x")
	y := ir.Var(ir.IntOf(32), "y")
	e := ir.NewAdd(x, ir.IntC(ir.IntOf(32), 1))
	if !ExprUsesVar(e, "x") {
		t.Errorf("expected x to be used")
	}
	if ExprUsesVar(e, "y") {
		t.Errorf("expected y to be unused")
	}
	_ = y
}

func TestExprUsesVarThroughLet(t *testing.T) {
	x := ir.Var(ir.IntOf(32), "x")
	let := ir.NewLet("tmp", x, ir.Var(ir.IntOf(32), "tmp"))
	if !ExprUsesVar(let, "x") {
		t.Errorf("expected x used in let value")
	}
}

func TestStmtUsesVar(t *testing.T) {
	x := ir.Var(ir.IntOf(32), "x")
	st := ir.Store{Name: "buf", Index: ir.IntC(ir.IntOf(32), 0), Value: x}
	if !StmtUsesVar(st, "x") {
		t.Errorf("expected x used in store value")
	}
	if StmtUsesVar(st, "y") {
		t.Errorf("expected y unused")
	}
}

func TestSubstitute(t *testing.T) {
	x := ir.Var(ir.IntOf(32), "x")
	body := ir.NewAdd(x, ir.IntC(ir.IntOf(32), 1))
	replaced := Substitute("x", ir.IntC(ir.IntOf(32), 41), body)
	want := ir.NewAdd(ir.IntC(ir.IntOf(32), 41), ir.IntC(ir.IntOf(32), 1))
	if !ir.Equal(replaced, want) {
		t.Errorf("Substitute(x, 41, x+1) = %s, want %s", replaced, want)
	}
}

func TestSubstituteDoesNotCrossShadowingLet(t *testing.T) {
	x := ir.Var(ir.IntOf(32), "x")
	_ = x
	inner := ir.Var(ir.IntOf(32), "x")
	let := ir.NewLet("x", ir.IntC(ir.IntOf(32), 7), ir.NewAdd(inner, ir.IntC(ir.IntOf(32), 1)))
	replaced := Substitute("x", ir.IntC(ir.IntOf(32), 99), let)
	asLet, ok := replaced.(ir.Let)
	if !ok {
		t.Fatalf("expected Let, got %T", replaced)
	}
	if !ir.Equal(asLet.Body, ir.NewAdd(inner, ir.IntC(ir.IntOf(32), 1))) {
		t.Errorf("body should be unaffected since let rebinds x: got %s", asLet.Body)
	}
}
