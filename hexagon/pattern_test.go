package hexagon

import (
	"testing"

	"github.com/ajroetker/hvxpeep/ir"
)

func u8x64() ir.Type  { return ir.UIntOf(8).WithLanes(64) }
func u16x64() ir.Type { return ir.UIntOf(16).WithLanes(64) }
func i16x64() ir.Type { return ir.IntOf(16).WithLanes(64) }
func i32x32() ir.Type { return ir.IntOf(32).WithLanes(32) }

// scenario 1: u8((u16(a)+u16(b))/2) -> avg.vub.vub
func TestPatternAveraging(t *testing.T) {
	a := ir.Var(u8x64(), "a")
	b := ir.Var(u8x64(), "b")
	expr := ir.NewCast(u8x64(),
		ir.NewDiv(ir.NewAdd(ir.NewCast(u16x64(), a), ir.NewCast(u16x64(), b)), ir.IntC(ir.IntOf(32), 2)))

	got := NewPatternMatcher().MutateExpr(expr)
	want := ir.NewCall(u8x64(), "halide.hexagon.avg.vub.vub", ir.PureExtern, a, b)
	if !ir.Equal(got, want) {
		t.Errorf("got %s, want %s", got, want)
	}
}

// scenario 2: u8_sat((i32(a)+128)/256) -> trunc_satub_rnd.vh, deinterleaved
func TestPatternSaturatingNarrowRound(t *testing.T) {
	a := ir.Var(i16x64(), "a")
	expr := ir.NewCast(u8x64(),
		ir.NewDiv(ir.NewAdd(ir.NewCast(ir.IntOf(32).WithLanes(64), a), ir.IntC(ir.IntOf(32), 128)), ir.IntC(ir.IntOf(32), 256)))

	got := NewPatternMatcher().MutateExpr(expr)
	want := ir.NewCall(u8x64(), "halide.hexagon.trunc_satub_rnd.vh", ir.PureExtern, NativeDeinterleave(a))
	if !ir.Equal(got, want) {
		t.Errorf("got %s, want %s", got, want)
	}
}

// scenario 3: u16(a) * broadcast(u16(k)) -> native_interleave(mpy.vub.ub(a, broadcast(k,1)))
func TestPatternWideningMultiplyBroadcast(t *testing.T) {
	a := ir.Var(u8x64(), "a")
	k := ir.Var(ir.UIntOf(8), "k")
	expr := ir.NewMul(
		ir.NewCast(u16x64(), a),
		ir.NewBroadcast(ir.NewCast(ir.UIntOf(16), k), 64))

	got := NewPatternMatcher().MutateExpr(expr)
	inner := ir.NewCall(u16x64(), "halide.hexagon.mpy.vub.ub", ir.PureExtern, a, ir.NewBroadcast(k, 1))
	want := NativeInterleave(inner)
	if !ir.Equal(got, want) {
		t.Errorf("got %s, want %s", got, want)
	}
}

// A genuine vector*vector multiply (no Broadcast on either side) must not
// be mistaken for the vector*broadcast(scalar) shape: the two operands
// carry distinct intrinsic names even though a bare AnyLanes wildcard
// alone cannot tell them apart.
func TestPatternWideningMultiplyVectorVector(t *testing.T) {
	a := ir.Var(u8x64(), "a")
	b := ir.Var(u8x64(), "b")
	expr := ir.NewMul(ir.NewCast(u16x64(), a), ir.NewCast(u16x64(), b))

	got := NewPatternMatcher().MutateExpr(expr)
	inner := ir.NewCall(u16x64(), "halide.hexagon.mpy.vub.vub", ir.PureExtern, a, b)
	want := NativeInterleave(inner)
	if !ir.Equal(got, want) {
		t.Errorf("got %s, want %s", got, want)
	}
}

// scenario 4: max(clz(x), clz(~x)) -> cls.vw(x) + 1
func TestPatternCountLeadingSignBits(t *testing.T) {
	x := ir.Var(i32x32(), "x")
	clzX := ir.NewCall(i32x32(), "count_leading_zeros", ir.PureExtern, x)
	notX := ir.NewCall(i32x32(), "bitwise_not", ir.PureExtern, x)
	clzNotX := ir.NewCall(i32x32(), "count_leading_zeros", ir.PureExtern, notX)
	expr := ir.NewMax(clzX, clzNotX)

	got := NewPatternMatcher().MutateExpr(expr)
	cls := ir.NewCall(i32x32(), "halide.hexagon.cls.vw", ir.PureExtern, x)
	want := ir.NewAdd(cls, ir.IntC(ir.IntOf(32), 1))
	if !ir.Equal(got, want) {
		t.Errorf("got %s, want %s", got, want)
	}
}

// A multiply by a non-power-of-two constant must not be rewritten to a shift.
func TestAddShiftMulDeclinesNonPowerOfTwo(t *testing.T) {
	acc := ir.Var(i16x64(), "acc")
	b := ir.Var(i16x64(), "b")
	expr := ir.NewAdd(acc, ir.NewMul(b, ir.IntC(ir.IntOf(16), 3)))

	got := NewPatternMatcher().MutateExpr(expr)
	if c, ok := got.(ir.Call); ok && c.Name == "halide.hexagon.add_shift_mul.vh.vh" {
		t.Errorf("non-power-of-two multiplier should not become a shift: %s", got)
	}
}

// Generic vector*vector MAC falls through to the fallback intrinsic.
func TestGenericMultiplyAccumulate(t *testing.T) {
	acc := ir.Var(i16x64(), "acc")
	lhs := ir.Var(i16x64(), "lhs")
	rhs := ir.Var(i16x64(), "rhs")
	expr := ir.NewAdd(acc, ir.NewMul(lhs, rhs))

	got := NewPatternMatcher().MutateExpr(expr)
	want := ir.NewCall(i16x64(), "halide.hexagon.add_mul.vh.vh.vh", ir.PureExtern, acc, lhs, rhs)
	if !ir.Equal(got, want) {
		t.Errorf("got %s, want %s", got, want)
	}
}

// Power-of-two scalar multiplier lowers to the shift-accumulate intrinsic.
func TestShiftAccumulate(t *testing.T) {
	acc := ir.Var(i16x64(), "acc")
	b := ir.Var(i16x64(), "b")
	expr := ir.NewAdd(acc, ir.NewMul(b, ir.IntC(ir.IntOf(16), 8)))

	got := NewPatternMatcher().MutateExpr(expr)
	want := ir.NewCall(i16x64(), "halide.hexagon.add_shift_mul.vh.vh", ir.PureExtern, acc, b, ir.IntC(ir.IntOf(16).WithLanes(1), 3))
	if !ir.Equal(got, want) {
		t.Errorf("got %s, want %s", got, want)
	}
}

// lossless_negate must decline at the minimum representable value, where
// two's-complement negation would overflow, and leave the Sub unrewritten.
func TestSubtractionDeclinesAtMinInt(t *testing.T) {
	x := ir.Var(i16x64(), "x")
	minVal := ir.IntC(ir.IntOf(16), int64(-1)<<15)
	expr := ir.NewSub(x, minVal)

	got := NewPatternMatcher().MutateExpr(expr)
	if _, ok := got.(ir.Sub); !ok {
		t.Errorf("expected Sub to remain unrewritten at minimum int, got %s", got)
	}
}
