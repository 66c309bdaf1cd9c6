package hexagon

import (
	"testing"

	"github.com/ajroetker/hvxpeep/ir"
)

// Two min-clamps sharing the same constant cancel down to the difference
// of their unclamped operands.
func TestUpperBoundCancelsSharedMinClamp(t *testing.T) {
	x := ir.Var(ir.IntOf(32), "x")
	y := ir.Var(ir.IntOf(32), "y")
	k := ir.IntC(ir.IntOf(32), 200)
	expr := ir.NewSub(ir.NewMin(x, k), ir.NewMin(y, k))

	got := UpperBound(expr)
	want := ir.NewSub(x, y)
	if !ir.Equal(got, want) {
		t.Errorf("got %s, want %s", got, want)
	}
}

// Two max-clamps sharing the same constant cancel the same way.
func TestUpperBoundCancelsSharedMaxClamp(t *testing.T) {
	x := ir.Var(ir.IntOf(32), "x")
	y := ir.Var(ir.IntOf(32), "y")
	k := ir.IntC(ir.IntOf(32), 0)
	expr := ir.NewSub(ir.NewMax(x, k), ir.NewMax(y, k))

	got := UpperBound(expr)
	want := ir.NewSub(x, y)
	if !ir.Equal(got, want) {
		t.Errorf("got %s, want %s", got, want)
	}
}

// Mismatched clamp constants must not cancel.
func TestUpperBoundDeclinesMismatchedConstant(t *testing.T) {
	x := ir.Var(ir.IntOf(32), "x")
	y := ir.Var(ir.IntOf(32), "y")
	expr := ir.NewSub(ir.NewMin(x, ir.IntC(ir.IntOf(32), 200)), ir.NewMin(y, ir.IntC(ir.IntOf(32), 100)))

	got := UpperBound(expr)
	if _, ok := got.(ir.Sub); !ok {
		t.Errorf("expected the Sub to remain, got %s", got)
	}
}

// min(x,k) and max(x,k) do not cancel against each other even when k
// matches: they're different clamp directions.
func TestUpperBoundDeclinesMismatchedDirection(t *testing.T) {
	x := ir.Var(ir.IntOf(32), "x")
	y := ir.Var(ir.IntOf(32), "y")
	k := ir.IntC(ir.IntOf(32), 50)
	expr := ir.NewSub(ir.NewMin(x, k), ir.NewMax(y, k))

	got := UpperBound(expr)
	if _, ok := got.(ir.Sub); !ok {
		t.Errorf("expected the Sub to remain, got %s", got)
	}
}

// A plain subtraction with no clamps is left as-is (modulo generic
// simplification).
func TestUpperBoundPassthrough(t *testing.T) {
	x := ir.Var(ir.IntOf(32), "x")
	y := ir.Var(ir.IntOf(32), "y")
	got := UpperBound(ir.NewSub(x, y))
	want := ir.NewSub(x, y)
	if !ir.Equal(got, want) {
		t.Errorf("got %s, want %s", got, want)
	}
}
