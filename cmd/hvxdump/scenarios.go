package main

import (
	"github.com/ajroetker/hvxpeep/hexagon"
	"github.com/ajroetker/hvxpeep/ir"
)

// scenario is one named before/after demonstration. Before is a statement
// built directly against ir's smart constructors, mimicking IR a front end
// would have already lowered to; Rewrite is the public entry point that
// ought to transform it.
type scenario struct {
	Name    string
	Before  ir.Stmt
	Rewrite func(ir.Stmt) ir.Stmt
}

func u8x64() ir.Type  { return ir.UIntOf(8).WithLanes(64) }
func u16x64() ir.Type { return ir.UIntOf(16).WithLanes(64) }
func i16x64() ir.Type { return ir.IntOf(16).WithLanes(64) }
func i32x32() ir.Type { return ir.IntOf(32).WithLanes(32) }

// instructionScenarios are the PatternMatcher/InterleaveEliminator
// scenarios, each a variant of one of the concrete scenarios named in
// spec's testable-properties section.
func instructionScenarios() []scenario {
	a := ir.Var(u8x64(), "a")
	b := ir.Var(u8x64(), "b")
	avg := ir.NewCast(u8x64(),
		ir.NewDiv(ir.NewAdd(ir.NewCast(u16x64(), a), ir.NewCast(u16x64(), b)), ir.IntC(ir.IntOf(32), 2)))

	rnd := ir.Var(i16x64(), "rnd")
	truncSatRnd := ir.NewCast(u8x64(),
		ir.NewDiv(ir.NewAdd(ir.NewCast(ir.IntOf(32).WithLanes(64), rnd), ir.IntC(ir.IntOf(32), 128)), ir.IntC(ir.IntOf(32), 256)))

	mulA := ir.Var(u8x64(), "mulA")
	k := ir.Var(ir.UIntOf(8), "k")
	widenMul := ir.NewMul(ir.NewCast(u16x64(), mulA), ir.NewBroadcast(ir.NewCast(ir.UIntOf(16), k), 64))

	x := ir.Var(i32x32(), "x")
	clz := func(v ir.Expr) ir.Expr { return ir.NewCall(v.Type(), "count_leading_zeros", ir.PureIntrinsic, v) }
	notV := func(v ir.Expr) ir.Expr { return ir.NewCall(v.Type(), "bitwise_not", ir.PureIntrinsic, v) }
	cls := ir.NewMax(clz(x), clz(notV(x)))

	annihilate := ir.Var(u8x64(), "annihilate")
	roundTrip := hexagon.NativeDeinterleave(hexagon.NativeInterleave(annihilate))

	return []scenario{
		{Name: "averaging: u8((u16(a)+u16(b))/2) -> avg.vub.vub", Before: ir.Evaluate{Value: avg}, Rewrite: hexagon.OptimizeInstructions},
		{Name: "rounded saturating narrow: u8((i32(x)+128)/256) -> trunc_satub_rnd.vh", Before: ir.Evaluate{Value: truncSatRnd}, Rewrite: hexagon.OptimizeInstructions},
		{Name: "widening multiply by broadcast scalar -> mpy.vub.ub, interleaved", Before: ir.Evaluate{Value: widenMul}, Rewrite: hexagon.OptimizeInstructions},
		{Name: "count-leading-sign-bits idiom: max(clz(x), clz(~x)) -> cls.vw(x)+1", Before: ir.Evaluate{Value: cls}, Rewrite: hexagon.OptimizeInstructions},
		{Name: "interleave/deinterleave annihilation", Before: ir.Evaluate{Value: roundTrip}, Rewrite: hexagon.OptimizeInstructions},
	}
}

// shuffleScenarios are the BoundedShuffleRewriter scenarios.
func shuffleScenarios() []scenario {
	base := ir.Var(ir.IntOf(32), "base")
	offsets := ir.NewRamp(base, ir.IntC(ir.IntOf(32), 1), 64)
	gather := ir.LetStmt{
		Name:  "offsets",
		Value: offsets,
		Body:  ir.Evaluate{Value: ir.NewLoad(u16x64(), "buf", ir.Var(offsets.Type(), "offsets"), "", "")},
	}

	return []scenario{
		{Name: "bounded indirect load -> dynamic_shuffle over a 64-entry window", Before: gather, Rewrite: hexagon.OptimizeShuffles},
	}
}
