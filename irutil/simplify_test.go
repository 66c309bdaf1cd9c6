package irutil

import (
	"testing"

	"github.com/ajroetker/hvxpeep/ir"
)

func TestSimplifyConstantFold(t *testing.T) {
	e := ir.NewAdd(ir.IntC(ir.IntOf(32), 2), ir.IntC(ir.IntOf(32), 3))
	got := Simplify(e)
	if v, ok := got.(ir.IntImm); !ok || v.Value != 5 {
		t.Errorf("Simplify(2+3) = %v, want 5", got)
	}
}

func TestSimplifyNestedFold(t *testing.T) {
	e := ir.NewMul(ir.NewAdd(ir.IntC(ir.IntOf(32), 2), ir.IntC(ir.IntOf(32), 3)), ir.IntC(ir.IntOf(32), 4))
	got := Simplify(e)
	if v, ok := got.(ir.IntImm); !ok || v.Value != 20 {
		t.Errorf("Simplify((2+3)*4) = %v, want 20", got)
	}
}

func TestSimplifyAdditiveCancelWithFreeVariable(t *testing.T) {
	base := ir.Var(ir.IntOf(32), "base")
	span := ir.NewSub(ir.NewAdd(base, ir.IntC(ir.IntOf(32), 200)), base)
	got := Simplify(span)
	if v, ok := got.(ir.IntImm); !ok || v.Value != 200 {
		t.Errorf("Simplify((base+200)-base) = %v, want 200", got)
	}
}

func TestSimplifySelfSubtractionIsZero(t *testing.T) {
	base := ir.Var(ir.IntOf(32), "base")
	got := Simplify(ir.NewSub(base, base))
	if v, ok := got.(ir.IntImm); !ok || v.Value != 0 {
		t.Errorf("Simplify(base-base) = %v, want 0", got)
	}
}

func TestSimplifyComparisonFoldsToBool(t *testing.T) {
	got := Simplify(ir.NewLT(ir.IntC(ir.IntOf(32), 200), ir.IntC(ir.IntOf(32), 256)))
	if !IsOne(got) {
		t.Errorf("Simplify(200 < 256) should fold to true, got %s", got)
	}
}

func TestSimplifyDivByZeroConstantLeftAlone(t *testing.T) {
	e := ir.NewDiv(ir.IntC(ir.IntOf(32), 10), ir.IntC(ir.IntOf(32), 0))
	got := Simplify(e)
	if _, ok := got.(ir.Div); !ok {
		t.Errorf("Simplify(10/0) should not fold, got %v", got)
	}
}

func TestIsZeroAndIsOne(t *testing.T) {
	if !IsZero(ir.IntC(ir.IntOf(32), 0)) {
		t.Errorf("IsZero(0) should be true")
	}
	if IsZero(ir.IntC(ir.IntOf(32), 1)) {
		t.Errorf("IsZero(1) should be false")
	}
	if !IsOne(ir.UIntC(ir.UIntOf(8), 1)) {
		t.Errorf("IsOne(1) should be true")
	}
}
