package irutil

import "github.com/ajroetker/hvxpeep/ir"

// LosslessCast returns an expression of type t semantically equal to e
// whenever every value representable by e's type fits in t, or e is a
// constant that fits, reporting false otherwise (the "undefined sentinel"
// from spec's external contract table). It recognizes the narrow set of
// shapes apply_patterns actually produces: casts whose inner value already
// has the target type (so the cast-then-recast pair cancels), constants
// that fit in the narrower range, and broadcasts of either.
func LosslessCast(t ir.Type, e ir.Expr) (ir.Expr, bool) {
	if e.Type() == t {
		return e, true
	}
	switch n := e.(type) {
	case ir.Cast:
		if n.Value.Type() == t {
			return n.Value, true
		}
		return LosslessCast(t, n.Value)
	case ir.IntImm:
		if fitsSigned(t, n.Value) {
			if t.Code == ir.UInt || t.Code == ir.Bool {
				return ir.UIntC(t, uint64(n.Value)), true
			}
			return ir.IntC(t, n.Value), true
		}
		return nil, false
	case ir.UIntImm:
		if fitsUnsigned(t, n.Value) {
			return ir.UIntC(t, n.Value), true
		}
		if t.Code == ir.Int && n.Value <= uint64(maxInt(t.Bits)) {
			return ir.IntC(t, int64(n.Value)), true
		}
		return nil, false
	case ir.Broadcast:
		// A losslessly narrowed Broadcast is always re-emitted at lanes==1:
		// narrowing a scalar splatted across a vector operand position is
		// exactly the case a narrowed scalar argument to an intrinsic call
		// takes, and this module's convention (matching the surrounding
		// compiler's) represents such an argument as broadcast(value, 1)
		// rather than re-splatting it to the original vector width.
		inner, ok := LosslessCast(t.WithLanes(1), n.Value)
		if !ok {
			return nil, false
		}
		return ir.NewBroadcast(inner, 1), true
	default:
		return nil, false
	}
}

func maxInt(bits int) int64 {
	if bits >= 64 {
		return int64(^uint64(0) >> 1)
	}
	return (int64(1) << (bits - 1)) - 1
}

func minInt(bits int) int64 {
	if bits >= 64 {
		return int64(-1) << 63
	}
	return int64(-1) << (bits - 1)
}

func maxUint(bits int) uint64 {
	if bits >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << bits) - 1
}

func fitsSigned(t ir.Type, v int64) bool {
	switch t.Code {
	case ir.Int:
		return v >= minInt(t.Bits) && v <= maxInt(t.Bits)
	case ir.UInt, ir.Bool:
		return v >= 0 && uint64(v) <= maxUint(t.Bits)
	default:
		return false
	}
}

func fitsUnsigned(t ir.Type, v uint64) bool {
	switch t.Code {
	case ir.UInt, ir.Bool:
		return v <= maxUint(t.Bits)
	case ir.Int:
		return v <= uint64(maxInt(t.Bits))
	default:
		return false
	}
}

// IsConstPowerOfTwoInteger reports whether e is a positive integer
// constant equal to 2^out.
func IsConstPowerOfTwoInteger(e ir.Expr) (out int, ok bool) {
	var v int64
	switch n := e.(type) {
	case ir.IntImm:
		v = n.Value
	case ir.UIntImm:
		if n.Value > uint64(maxInt(64)) {
			return 0, false
		}
		v = int64(n.Value)
	default:
		return 0, false
	}
	if v <= 0 {
		return 0, false
	}
	for shift := 0; shift < 63; shift++ {
		if int64(1)<<shift == v {
			return shift, true
		}
	}
	return 0, false
}

// NegateConst negates an integer constant, declining (ok == false) at the
// minimum representable value of a signed type, where two's-complement
// negation would overflow.
func NegateConst(e ir.Expr) (ir.Expr, bool) {
	switch n := e.(type) {
	case ir.IntImm:
		if n.Value == minInt(n.Typ.Bits) {
			return nil, false
		}
		return ir.IntC(n.Typ, -n.Value), true
	case ir.UIntImm:
		if n.Value == 0 {
			return ir.UIntC(n.Typ, 0), true
		}
		// An unsigned constant can only be negated losslessly into a
		// signed value if it fits as the positive side of that type.
		if n.Value <= uint64(maxInt(n.Typ.Bits)) {
			return ir.IntC(n.Typ.WithCode(ir.Int), -int64(n.Value)), true
		}
		return nil, false
	default:
		return nil, false
	}
}
