package irutil

import "github.com/ajroetker/hvxpeep/ir"

// Simplify performs a small, bottom-up constant fold and a handful of
// algebraic identities: enough to turn the closed-form bound expressions
// upper_bound and the shuffle span check build into literals when their
// inputs are loop-invariant, without attempting anything like a general
// simplifier. Division by a constant zero is left unsimplified rather than
// folded, since the original value is never actually evaluated.
func Simplify(e ir.Expr) ir.Expr {
	e = ir.MutateChildren(e, Simplify)
	return simplifyNode(e)
}

func boolConst(v bool) ir.Expr {
	if v {
		return ir.UIntC(ir.BoolOf(), 1)
	}
	return ir.UIntC(ir.BoolOf(), 0)
}

// IsOne reports whether e is the constant 1 (of any integer or bool type).
func IsOne(e ir.Expr) bool {
	v, ok := constValue(e)
	return ok && v == 1
}

// IsZero reports whether e is the constant 0.
func IsZero(e ir.Expr) bool {
	v, ok := constValue(e)
	return ok && v == 0
}

func simplifyNode(e ir.Expr) ir.Expr {
	switch n := e.(type) {
	case ir.Add:
		if c, ok := foldArith(n.Typ, n.A, n.B, func(a, b int64) int64 { return a + b }); ok {
			return c
		}
	case ir.Sub:
		if c, ok := foldArith(n.Typ, n.A, n.B, func(a, b int64) int64 { return a - b }); ok {
			return c
		}
		return simplifySubCancel(e, n.A, n.B)
	case ir.Mul:
		if c, ok := foldArith(n.Typ, n.A, n.B, func(a, b int64) int64 { return a * b }); ok {
			return c
		}
	case ir.Div:
		if bv, ok := constValue(n.B); ok && bv != 0 {
			if c, ok := foldArith(n.Typ, n.A, n.B, func(a, b int64) int64 { return a / b }); ok {
				return c
			}
		}
	case ir.Mod:
		if bv, ok := constValue(n.B); ok && bv != 0 {
			if c, ok := foldArith(n.Typ, n.A, n.B, func(a, b int64) int64 { return a % b }); ok {
				return c
			}
		}
	case ir.Min:
		if c, ok := foldArith(n.Typ, n.A, n.B, func(a, b int64) int64 {
			if a < b {
				return a
			}
			return b
		}); ok {
			return c
		}
		if ir.Equal(n.A, n.B) {
			return n.A
		}
	case ir.Max:
		if c, ok := foldArith(n.Typ, n.A, n.B, func(a, b int64) int64 {
			if a > b {
				return a
			}
			return b
		}); ok {
			return c
		}
		if ir.Equal(n.A, n.B) {
			return n.A
		}
	case ir.LT:
		if av, ok := constValue(n.A); ok {
			if bv, ok := constValue(n.B); ok {
				return boolConst(av < bv)
			}
		}
	case ir.LE:
		if av, ok := constValue(n.A); ok {
			if bv, ok := constValue(n.B); ok {
				return boolConst(av <= bv)
			}
		}
	case ir.GT:
		if av, ok := constValue(n.A); ok {
			if bv, ok := constValue(n.B); ok {
				return boolConst(av > bv)
			}
		}
	case ir.GE:
		if av, ok := constValue(n.A); ok {
			if bv, ok := constValue(n.B); ok {
				return boolConst(av >= bv)
			}
		}
	case ir.EQ:
		if ir.Equal(n.A, n.B) {
			return boolConst(true)
		}
		if av, ok := constValue(n.A); ok {
			if bv, ok := constValue(n.B); ok {
				return boolConst(av == bv)
			}
		}
	case ir.NE:
		if av, ok := constValue(n.A); ok {
			if bv, ok := constValue(n.B); ok {
				return boolConst(av != bv)
			}
		}
	case ir.Select:
		if v, ok := constValue(n.Cond); ok {
			if v != 0 {
				return n.T
			}
			return n.F
		}
	case ir.Cast:
		if c, ok := foldCast(n.Typ, n.Value); ok {
			return c
		}
	}
	return e
}

// simplifySubCancel folds the (x + k) - x == k and x - (x + k) == -k shapes
// that appear once a loop-invariant base is subtracted out of a bound
// expressed relative to it, even when x is a free variable rather than a
// constant.
func simplifySubCancel(orig, a, b ir.Expr) ir.Expr {
	if ir.Equal(a, b) {
		t := a.Type()
		if t.Code == ir.UInt {
			return ir.UIntC(t, 0)
		}
		return ir.IntC(t, 0)
	}
	if add, ok := a.(ir.Add); ok {
		if ir.Equal(add.A, b) {
			return add.B
		}
		if ir.Equal(add.B, b) {
			return add.A
		}
	}
	if add, ok := b.(ir.Add); ok {
		if ir.Equal(add.A, a) {
			if neg, ok := NegateConst(add.B); ok {
				return neg
			}
		}
		if ir.Equal(add.B, a) {
			if neg, ok := NegateConst(add.A); ok {
				return neg
			}
		}
	}
	return orig
}

func foldArith(t ir.Type, a, b ir.Expr, f func(int64, int64) int64) (ir.Expr, bool) {
	av, ok := constValue(a)
	if !ok {
		return nil, false
	}
	bv, ok := constValue(b)
	if !ok {
		return nil, false
	}
	r := f(av, bv)
	if t.Code == ir.UInt || t.Code == ir.Bool {
		return ir.UIntC(t, uint64(r)), true
	}
	return ir.IntC(t, r), true
}

func foldCast(t ir.Type, v ir.Expr) (ir.Expr, bool) {
	raw, ok := constValue(v)
	if !ok {
		return nil, false
	}
	bits := t.Bits
	if bits <= 0 || bits > 64 {
		return nil, false
	}
	mask := uint64(maxUint(bits))
	u := uint64(raw) & mask
	switch t.Code {
	case ir.UInt, ir.Bool:
		return ir.UIntC(t, u), true
	default:
		signBit := uint64(1) << (bits - 1)
		if bits < 64 && u&signBit != 0 {
			u |= ^mask
		}
		return ir.IntC(t, int64(u)), true
	}
}
