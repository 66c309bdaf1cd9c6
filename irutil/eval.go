package irutil

import (
	"fmt"
	"strings"

	"github.com/ajroetker/hvxpeep/ir"
)

// LaneVals is a fixed-width integer interpreter value: one int64 per lane,
// masked to the producing expression's bit width on every operation. It
// exists purely to let tests evaluate an expression tree before and after
// a rewrite and compare results; it is not a general IR interpreter and
// panics on anything it was not built to understand (loads, floats,
// intrinsics outside the handful the pattern tables in this module emit).
type LaneVals []int64

// Eval evaluates e under env, which must bind every free Variable e
// references to a LaneVals of matching width.
func Eval(e ir.Expr, env map[string]LaneVals) LaneVals {
	switch n := e.(type) {
	case ir.IntImm:
		return LaneVals{n.Value}
	case ir.UIntImm:
		return LaneVals{int64(n.Value)}
	case ir.Variable:
		v, ok := env[n.Name]
		if !ok {
			panic(fmt.Sprintf("eval: unbound variable %q", n.Name))
		}
		return v
	case ir.Cast:
		return mapLanes(Eval(n.Value, env), func(v int64) int64 { return mask(n.Typ, v) })
	case ir.Broadcast:
		v := Eval(n.Value, env)
		return broadcastTo(v[0], n.Lanes)
	case ir.Ramp:
		base := Eval(n.Base, env)[0]
		stride := Eval(n.Stride, env)[0]
		out := make(LaneVals, n.Lanes)
		for i := range out {
			out[i] = mask(n.Type(), base+int64(i)*stride)
		}
		return out
	case ir.Add:
		return binEval(n.Typ, n.A, n.B, env, func(a, b int64) int64 { return a + b })
	case ir.Sub:
		return binEval(n.Typ, n.A, n.B, env, func(a, b int64) int64 { return a - b })
	case ir.Mul:
		return binEval(n.Typ, n.A, n.B, env, func(a, b int64) int64 { return a * b })
	case ir.Div:
		return binEval(n.Typ, n.A, n.B, env, func(a, b int64) int64 {
			if b == 0 {
				return 0
			}
			return floorDiv(a, b)
		})
	case ir.Mod:
		return binEval(n.Typ, n.A, n.B, env, func(a, b int64) int64 {
			if b == 0 {
				return 0
			}
			return a - floorDiv(a, b)*b
		})
	case ir.Min:
		return binEval(n.Typ, n.A, n.B, env, func(a, b int64) int64 {
			if a < b {
				return a
			}
			return b
		})
	case ir.Max:
		return binEval(n.Typ, n.A, n.B, env, func(a, b int64) int64 {
			if a > b {
				return a
			}
			return b
		})
	case ir.EQ:
		return boolBin(n.A, n.B, env, func(a, b int64) bool { return a == b })
	case ir.NE:
		return boolBin(n.A, n.B, env, func(a, b int64) bool { return a != b })
	case ir.LT:
		return boolBin(n.A, n.B, env, func(a, b int64) bool { return a < b })
	case ir.LE:
		return boolBin(n.A, n.B, env, func(a, b int64) bool { return a <= b })
	case ir.GT:
		return boolBin(n.A, n.B, env, func(a, b int64) bool { return a > b })
	case ir.GE:
		return boolBin(n.A, n.B, env, func(a, b int64) bool { return a >= b })
	case ir.And:
		return boolBin(n.A, n.B, env, func(a, b int64) bool { return a != 0 && b != 0 })
	case ir.Or:
		return boolBin(n.A, n.B, env, func(a, b int64) bool { return a != 0 || b != 0 })
	case ir.Not:
		return mapLanes(Eval(n.A, env), func(v int64) int64 {
			if v == 0 {
				return 1
			}
			return 0
		})
	case ir.Select:
		cond := Eval(n.Cond, env)
		t := Eval(n.T, env)
		f := Eval(n.F, env)
		lanes := lanesOf(cond, t, f)
		out := make(LaneVals, lanes)
		for i := range out {
			if at(cond, i) != 0 {
				out[i] = mask(n.Typ, at(t, i))
			} else {
				out[i] = mask(n.Typ, at(f, i))
			}
		}
		return out
	case ir.Call:
		return evalCall(n, env)
	default:
		panic(fmt.Sprintf("eval: unsupported expression kind %T", e))
	}
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func mask(t ir.Type, v int64) int64 {
	bits := t.Bits
	if bits <= 0 || bits >= 64 {
		return v
	}
	m := (uint64(1) << bits) - 1
	u := uint64(v) & m
	if t.Code == ir.UInt || t.Code == ir.Bool {
		return int64(u)
	}
	sign := uint64(1) << (bits - 1)
	if u&sign != 0 {
		u |= ^m
	}
	return int64(u)
}

func mapLanes(v LaneVals, f func(int64) int64) LaneVals {
	out := make(LaneVals, len(v))
	for i, x := range v {
		out[i] = f(x)
	}
	return out
}

func broadcastTo(v int64, lanes int) LaneVals {
	out := make(LaneVals, lanes)
	for i := range out {
		out[i] = v
	}
	return out
}

func at(v LaneVals, i int) int64 {
	if len(v) == 1 {
		return v[0]
	}
	return v[i]
}

func lanesOf(vs ...LaneVals) int {
	n := 1
	for _, v := range vs {
		if len(v) > n {
			n = len(v)
		}
	}
	return n
}

func binEval(t ir.Type, ae, be ir.Expr, env map[string]LaneVals, f func(int64, int64) int64) LaneVals {
	a := Eval(ae, env)
	b := Eval(be, env)
	lanes := lanesOf(a, b)
	out := make(LaneVals, lanes)
	for i := range out {
		out[i] = mask(t, f(at(a, i), at(b, i)))
	}
	return out
}

func boolBin(ae, be ir.Expr, env map[string]LaneVals, f func(int64, int64) bool) LaneVals {
	a := Eval(ae, env)
	b := Eval(be, env)
	lanes := lanesOf(a, b)
	out := make(LaneVals, lanes)
	for i := range out {
		if f(at(a, i), at(b, i)) {
			out[i] = 1
		}
	}
	return out
}

// evalCall understands the small set of named intrinsics the hexagon
// pattern tables and rewriters in this module can introduce or consume.
// Anything else panics, since this interpreter's only job is to check
// before/after equivalence on the shapes this module itself produces.
// "halide.hexagon.<op>.<suffix...>" names are dispatched on <op> via
// opName; everything else (the untargeted intrinsics the pattern tables
// match against, never produce) is matched on the full name.
func evalCall(n ir.Call, env map[string]LaneVals) LaneVals {
	switch n.Name {
	case "shift_left":
		return binEval(n.Typ, n.Args[0], n.Args[1], env, func(a, b int64) int64 { return a << uint(b) })
	case "shift_right":
		return binEval(n.Typ, n.Args[0], n.Args[1], env, func(a, b int64) int64 { return a >> uint(b) })
	case "bitwise_and":
		return binEval(n.Typ, n.Args[0], n.Args[1], env, func(a, b int64) int64 { return a & b })
	case "bitwise_or":
		return binEval(n.Typ, n.Args[0], n.Args[1], env, func(a, b int64) int64 { return a | b })
	case "bitwise_xor":
		return binEval(n.Typ, n.Args[0], n.Args[1], env, func(a, b int64) int64 { return a ^ b })
	case "bitwise_not":
		return mapLanes(Eval(n.Args[0], env), func(v int64) int64 { return mask(n.Typ, ^v) })
	case "abs":
		return mapLanes(Eval(n.Args[0], env), func(v int64) int64 {
			if v < 0 {
				return mask(n.Typ, -v)
			}
			return v
		})
	case "absd":
		return binEval(n.Typ, n.Args[0], n.Args[1], env, func(a, b int64) int64 {
			if a > b {
				return a - b
			}
			return b - a
		})
	case "count_leading_zeros":
		return mapLanes(Eval(n.Args[0], env), func(v int64) int64 { return int64(countLeadingZeros(n.Args[0].Type(), v)) })
	case "dynamic_shuffle":
		return evalDynamicShuffle(n, env)
	}

	switch opName(n.Name) {
	case "interleave":
		return evalInterleave(n, env)
	case "deinterleave":
		return evalDeinterleave(n, env)
	case "avg_rnd":
		return binEval(n.Typ, n.Args[0], n.Args[1], env, func(a, b int64) int64 { return floorDiv(a+b+1, 2) })
	case "avg":
		return binEval(n.Typ, n.Args[0], n.Args[1], env, func(a, b int64) int64 { return floorDiv(a+b, 2) })
	case "navg":
		return binEval(n.Typ, n.Args[0], n.Args[1], env, func(a, b int64) int64 { return floorDiv(a-b, 2) })
	case "satub_add":
		return binEval(n.Typ, n.Args[0], n.Args[1], env, func(a, b int64) int64 { return saturate(n.Typ, a+b) })
	case "trunc_satub_rnd":
		return mapLanes(Eval(n.Args[0], env), func(v int64) int64 { return saturate(n.Typ, floorDiv(v+128, 256)) })
	case "mpy":
		return binEval(n.Typ, n.Args[0], n.Args[1], env, func(a, b int64) int64 { return a * b })
	case "zxt", "sxt", "pack":
		return mapLanes(Eval(n.Args[0], env), func(v int64) int64 { return mask(n.Typ, v) })
	case "cls":
		return mapLanes(Eval(n.Args[0], env), func(v int64) int64 {
			t := n.Args[0].Type()
			c1 := countLeadingZeros(t, v)
			c2 := countLeadingZeros(t, mask(t, ^v))
			if c1 > c2 {
				return int64(c1)
			}
			return int64(c2)
		})
	case "add_shift_mul":
		a0 := Eval(n.Args[0], env)
		a1 := Eval(n.Args[1], env)
		shift, _ := constValue(n.Args[2])
		lanes := lanesOf(a0, a1)
		out := make(LaneVals, lanes)
		for i := range out {
			out[i] = mask(n.Typ, at(a0, i)+(at(a1, i)<<uint(shift)))
		}
		return out
	case "add_mul":
		a0 := Eval(n.Args[0], env)
		a1 := Eval(n.Args[1], env)
		a2 := Eval(n.Args[2], env)
		lanes := lanesOf(a0, a1, a2)
		out := make(LaneVals, lanes)
		for i := range out {
			out[i] = mask(n.Typ, at(a0, i)+at(a1, i)*at(a2, i))
		}
		return out
	default:
		panic(fmt.Sprintf("eval: unsupported intrinsic %q", n.Name))
	}
}

// opName extracts the operation token following "hexagon" in a
// "halide.hexagon.<op>.<suffix...>"-shaped name; names with no such
// segment are returned unchanged.
func opName(name string) string {
	parts := strings.Split(name, ".")
	for i := 0; i+1 < len(parts); i++ {
		if parts[i] == "hexagon" {
			return parts[i+1]
		}
	}
	return name
}

func saturate(t ir.Type, v int64) int64 {
	if t.Code == ir.UInt || t.Code == ir.Bool {
		if v < 0 {
			return 0
		}
		if hi := int64(maxUint(t.Bits)); v > hi {
			return hi
		}
		return v
	}
	if v < minInt(t.Bits) {
		return minInt(t.Bits)
	}
	if v > maxInt(t.Bits) {
		return maxInt(t.Bits)
	}
	return v
}

func countLeadingZeros(t ir.Type, v int64) int {
	u := uint64(v) & uint64(maxUint(t.Bits))
	for i := t.Bits - 1; i >= 0; i-- {
		if u&(uint64(1)<<i) != 0 {
			return t.Bits - 1 - i
		}
	}
	return t.Bits
}

// evalInterleave reorders its single vector argument's two concatenated
// halves [a0..a(h-1), b0..b(h-1)] into the paired-lane layout
// [a0,b0,a1,b1,...], the layout the hardware multiplier and widening casts
// actually produce.
func evalInterleave(n ir.Call, env map[string]LaneVals) LaneVals {
	v := Eval(n.Args[0], env)
	half := len(v) / 2
	out := make(LaneVals, len(v))
	for i := 0; i < half; i++ {
		out[2*i] = v[i]
		out[2*i+1] = v[half+i]
	}
	return out
}

// evalDeinterleave is evalInterleave's inverse: it splits a paired-lane
// vector [a0,b0,a1,b1,...] back into its two concatenated halves.
func evalDeinterleave(n ir.Call, env map[string]LaneVals) LaneVals {
	v := Eval(n.Args[0], env)
	half := len(v) / 2
	out := make(LaneVals, len(v))
	for i := 0; i < half; i++ {
		out[i] = v[2*i]
		out[half+i] = v[2*i+1]
	}
	return out
}

func evalDynamicShuffle(n ir.Call, env map[string]LaneVals) LaneVals {
	table := Eval(n.Args[0], env)
	idx := Eval(n.Args[1], env)
	out := make(LaneVals, len(idx))
	for i, x := range idx {
		if x < 0 || int(x) >= len(table) {
			panic("eval: dynamic_shuffle index out of range")
		}
		out[i] = table[x]
	}
	return out
}
