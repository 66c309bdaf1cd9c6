package hexagon

import (
	"sync"

	"github.com/ajroetker/hvxpeep/ir"
)

// PatternFlag is the bitset attached to each table entry, exactly the flag
// set named by the owning pass: operand transforms applied to captures
// before the replacement Call is built, plus InterleaveResult which wraps
// the whole replacement.
type PatternFlag uint32

const (
	InterleaveResult PatternFlag = 1 << iota
	SwapOps01
	SwapOps12
	ExactLog2Op1
	ExactLog2Op2
	DeinterleaveOp0
	DeinterleaveOp1
	DeinterleaveOp2
	NarrowOp0
	NarrowOp1
	NarrowOp2
	NarrowUnsignedOp0
	NarrowUnsignedOp1
	NarrowUnsignedOp2
)

func (f PatternFlag) has(bit PatternFlag) bool { return f&bit != 0 }

// Pattern is one (intrinsic, pattern, flags) table entry.
type Pattern struct {
	Intrinsic string
	Pattern   ir.Expr
	Flags     PatternFlag
}

func u8x() ir.Expr  { return ir.WildX(ir.UInt, 8) }
func i8x() ir.Expr  { return ir.WildX(ir.Int, 8) }
func u16x() ir.Expr { return ir.WildX(ir.UInt, 16) }
func i16x() ir.Expr { return ir.WildX(ir.Int, 16) }
func u32x() ir.Expr { return ir.WildX(ir.UInt, 32) }
func i32x() ir.Expr { return ir.WildX(ir.Int, 32) }

func litI(v int64) ir.Expr { return ir.IntC(ir.IntOf(32), v) }

var (
	castOnce  sync.Once
	castTab   []Pattern
	mulOnce   sync.Once
	mulTab    []Pattern
	addOnce   sync.Once
	addTab    []Pattern
)

// castTable holds the rewrite families whose root node is a Cast: the
// averaging, saturating-accumulate, saturating-narrow-with-rounding, and
// plain narrow/widen cast families from spec's "key pattern families"
// list. Declaration order is semantic: patterns that constrain more of the
// tree (an inner Div, a +1 rounding term, a specific saturating shape)
// must precede the bare narrow/widen fallbacks, whose wildcard alone would
// otherwise swallow every one of the more specific shapes first.
func castTable() []Pattern {
	castOnce.Do(func() {
		wa, wb := u16x(), u16x()
		sa, sb := i16x(), i16x()
		wa32 := i32x()

		castTab = []Pattern{
			{
				// u8((u16(a)+u16(b)+1)/2) -> avg_rnd.vub.vub
				Intrinsic: "halide.hexagon.avg_rnd.vub.vub",
				Pattern: ir.NewCast(ir.UIntOf(8).WithLanes(0),
					ir.NewDiv(ir.NewAdd(ir.NewAdd(wa, wb), litI(1)), litI(2))),
				Flags: NarrowOp0 | NarrowOp1,
			},
			{
				// u8((u16(a)+u16(b))/2) -> avg.vub.vub
				Intrinsic: "halide.hexagon.avg.vub.vub",
				Pattern: ir.NewCast(ir.UIntOf(8).WithLanes(0),
					ir.NewDiv(ir.NewAdd(wa, wb), litI(2))),
				Flags: NarrowOp0 | NarrowOp1,
			},
			{
				// u8((i16(a)-i16(b))/2) -> navg.vub.vub, narrowed unsigned
				Intrinsic: "halide.hexagon.navg.vub.vub",
				Pattern: ir.NewCast(ir.UIntOf(8).WithLanes(0),
					ir.NewDiv(ir.NewSub(sa, sb), litI(2))),
				Flags: NarrowUnsignedOp0 | NarrowUnsignedOp1,
			},
			{
				// u8(u16(a)+u16(b)) -> satub_add.vub.vub
				Intrinsic: "halide.hexagon.satub_add.vub.vub",
				Pattern:   ir.NewCast(ir.UIntOf(8).WithLanes(0), ir.NewAdd(wa, wb)),
				Flags:     NarrowOp0 | NarrowOp1,
			},
			{
				// u8((i32(a)+128)/256) -> trunc_satub_rnd.vh, operand deinterleaved
				Intrinsic: "halide.hexagon.trunc_satub_rnd.vh",
				Pattern: ir.NewCast(ir.UIntOf(8).WithLanes(0),
					ir.NewDiv(ir.NewAdd(wa32, litI(128)), litI(256))),
				Flags: NarrowOp0 | DeinterleaveOp0,
			},
			{
				// widening: u16(u8(x)) -> zxt.vb, interleaved
				Intrinsic: "halide.hexagon.zxt.vb",
				Pattern:   ir.NewCast(ir.UIntOf(16).WithLanes(0), u8x()),
				Flags:     InterleaveResult,
			},
			{
				// widening: i16(i8(x)) -> sxt.vb, interleaved
				Intrinsic: "halide.hexagon.sxt.vb",
				Pattern:   ir.NewCast(ir.IntOf(16).WithLanes(0), i8x()),
				Flags:     InterleaveResult,
			},
			{
				Intrinsic: "halide.hexagon.zxt.vh",
				Pattern:   ir.NewCast(ir.UIntOf(32).WithLanes(0), u16x()),
				Flags:     InterleaveResult,
			},
			{
				Intrinsic: "halide.hexagon.sxt.vh",
				Pattern:   ir.NewCast(ir.IntOf(32).WithLanes(0), i16x()),
				Flags:     InterleaveResult,
			},
			{
				// fallback narrowing pack: u8(u16(x)) with no special shape.
				Intrinsic: "halide.hexagon.pack.vh",
				Pattern:   ir.NewCast(ir.UIntOf(8).WithLanes(0), wa),
				Flags:     0,
			},
			{
				Intrinsic: "halide.hexagon.pack.vw",
				Pattern:   ir.NewCast(ir.UIntOf(16).WithLanes(0), wa32),
				Flags:     0,
			},
		}
	})
	return castTab
}

// mulTable holds the widening-multiply family: an unsigned entry matched
// at halfword precision narrowing both operands to byte (one shape for
// vector*broadcast(scalar), one for vector*vector), and a signed pair made
// of a vector*broadcast(scalar) entry matched at word precision narrowing
// to halfword and a vector*vector entry matched at halfword precision
// narrowing to byte, all narrowed back to the natural operand width and wrapped in native_interleave (the product
// comes out of the hardware multiplier already in paired-lane layout).
// The broadcast-shaped entry at a given precision must precede its
// vector*vector sibling: a bare AnyLanes wildcard matches a Broadcast
// operand exactly as well as a plain vector one, so only the
// Broadcast-pattern entry can tell the two shapes apart, and it has to
// get first look.
func mulTable() []Pattern {
	mulOnce.Do(func() {
		broadcastU16 := ir.NewBroadcast(ir.WildX(ir.UInt, 16), 0)
		broadcastI32 := ir.NewBroadcast(ir.WildX(ir.Int, 32), 0)
		mulTab = []Pattern{
			{
				// u16(x) * broadcast(u16(k)) -> mpy.vub.ub, interleaved
				Intrinsic: "halide.hexagon.mpy.vub.ub",
				Pattern:   ir.NewMul(u16x(), broadcastU16),
				Flags:     InterleaveResult | NarrowOp0 | NarrowOp1,
			},
			{
				// u16(x) * u16(y), both full vectors -> mpy.vub.vub, interleaved
				Intrinsic: "halide.hexagon.mpy.vub.vub",
				Pattern:   ir.NewMul(u16x(), u16x()),
				Flags:     InterleaveResult | NarrowOp0 | NarrowOp1,
			},
			{
				// i32(x) * broadcast(i32(k)), narrowed to halfword -> mpy.vh.h
				Intrinsic: "halide.hexagon.mpy.vh.h",
				Pattern:   ir.NewMul(i32x(), broadcastI32),
				Flags:     InterleaveResult | NarrowOp0 | NarrowOp1,
			},
			{
				// i16(x) * i16(y), both full vectors, narrowed to byte -> mpy.vb.vb
				Intrinsic: "halide.hexagon.mpy.vb.vb",
				Pattern:   ir.NewMul(i16x(), i16x()),
				Flags:     InterleaveResult | NarrowOp0 | NarrowOp1,
			},
		}
	})
	return mulTab
}

// addTable holds the multiply-accumulate family: a constant-power-of-two
// shift-accumulate, listed first, and the generic MAC fallback. The two
// entries do not overlap: the shift entry's multiplier is a scalar
// wildcard, while the fallback's multiplier is an AnyLanes vector wildcard
// whose lane count must agree with the accumulator's, so it never binds a
// scalar constant. The result for a given expression therefore does not
// depend on the order of these two entries.
func addTable() []Pattern {
	addOnce.Do(func() {
		a, b := i16x(), i16x()
		c := ir.Wild(ir.IntOf(16))
		acc, lhs, rhs := i16x(), i16x(), i16x()
		addTab = []Pattern{
			{
				// a + b*2^k -> add_shift_mul.vh.vh, the multiplier becomes a shift amount.
				Intrinsic: "halide.hexagon.add_shift_mul.vh.vh",
				Pattern:   ir.NewAdd(a, ir.NewMul(b, c)),
				Flags:     ExactLog2Op2,
			},
			{
				// generic fallback MAC: a + b*c.
				Intrinsic: "halide.hexagon.add_mul.vh.vh.vh",
				Pattern:   ir.NewAdd(acc, ir.NewMul(lhs, rhs)),
				Flags:     0,
			},
		}
	})
	return addTab
}
