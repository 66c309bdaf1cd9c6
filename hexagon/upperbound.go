package hexagon

import (
	"github.com/ajroetker/hvxpeep/ir"
	"github.com/ajroetker/hvxpeep/irutil"
)

// UpperBoundMutator tightens a subtraction of two clamped expressions
// sharing the same clamp constant into the subtraction of their
// unclamped operands, the only shape the bounded-shuffle span check
// actually needs resolved to a literal.
type UpperBoundMutator struct{}

// NewUpperBoundMutator returns a fresh mutator.
func NewUpperBoundMutator() *UpperBoundMutator { return &UpperBoundMutator{} }

// MutateExpr rewrites a single expression and all of its descendants.
func (u *UpperBoundMutator) MutateExpr(x ir.Expr) ir.Expr {
	n, ok := x.(ir.Sub)
	if !ok {
		return ir.MutateChildren(x, u.MutateExpr)
	}
	a := u.MutateExpr(n.A)
	b := u.MutateExpr(n.B)
	if xa, ka, isMinA, okA := clampParts(a); okA {
		if xb, kb, isMinB, okB := clampParts(b); okB && isMinA == isMinB && ir.Equal(ka, kb) {
			return u.MutateExpr(irutil.Simplify(ir.NewSub(xa, xb)))
		}
	}
	if ir.Equal(a, n.A) && ir.Equal(b, n.B) {
		return n
	}
	return ir.NewSub(a, b)
}

// clampParts recognizes min(x, k) or max(x, k) with k a constant on either
// operand, returning the non-constant operand, the constant, and which of
// min/max it was.
func clampParts(e ir.Expr) (x, k ir.Expr, isMin, ok bool) {
	isConst := func(v ir.Expr) bool {
		switch v.(type) {
		case ir.IntImm, ir.UIntImm:
			return true
		default:
			return false
		}
	}
	switch n := e.(type) {
	case ir.Min:
		if isConst(n.B) {
			return n.A, n.B, true, true
		}
		if isConst(n.A) {
			return n.B, n.A, true, true
		}
	case ir.Max:
		if isConst(n.B) {
			return n.A, n.B, false, true
		}
		if isConst(n.A) {
			return n.B, n.A, false, true
		}
	}
	return nil, nil, false, false
}

// UpperBound is the public entry point: a conservative upper bound of x,
// fully simplified.
func UpperBound(x ir.Expr) ir.Expr {
	return irutil.Simplify(NewUpperBoundMutator().MutateExpr(x))
}
