package hexagon

import (
	"testing"

	"github.com/ajroetker/hvxpeep/ir"
	"github.com/ajroetker/hvxpeep/irutil"
)

// Running OptimizeInstructions a second time over its own output must be a
// no-op: the pass should reach a fixed point in one pass.
func TestOptimizeInstructionsIdempotent(t *testing.T) {
	a := ir.Var(u8x64(), "a")
	b := ir.Var(u8x64(), "b")
	expr := ir.NewCast(u8x64(),
		ir.NewDiv(ir.NewAdd(ir.NewCast(u16x64(), a), ir.NewCast(u16x64(), b)), ir.IntC(ir.IntOf(32), 2)))
	stmt := ir.Evaluate{Value: expr}

	once := OptimizeInstructions(stmt)
	twice := OptimizeInstructions(once)

	onceEval, ok := once.(ir.Evaluate)
	if !ok {
		t.Fatalf("expected Evaluate, got %T", once)
	}
	twiceEval, ok := twice.(ir.Evaluate)
	if !ok {
		t.Fatalf("expected Evaluate, got %T", twice)
	}
	if !ir.Equal(onceEval.Value, twiceEval.Value) {
		t.Errorf("not idempotent: first pass %s, second pass %s", onceEval.Value, twiceEval.Value)
	}
}

// The interleave/deinterleave annihilation must also be a fixed point: once
// no native_interleave/native_deinterleave pair remains, a repeat pass
// changes nothing.
func TestInterleaveEliminationIdempotent(t *testing.T) {
	a := ir.Var(u8x64(), "a")
	b := ir.Var(u8x64(), "b")
	expr := ir.NewAdd(NativeInterleave(a), NativeInterleave(b))

	once := NewInterleaveEliminator().MutateExpr(expr)
	twice := NewInterleaveEliminator().MutateExpr(once)
	if !ir.Equal(once, twice) {
		t.Errorf("not idempotent: first pass %s, second pass %s", once, twice)
	}
}

// OptimizeShuffles reaches a fixed point: a dynamic_shuffle call produced
// by one pass is not itself a Load and is left untouched by the next.
func TestOptimizeShufflesIdempotent(t *testing.T) {
	base := ir.Var(ir.IntOf(32), "base")
	idx := ir.Var(ir.IntOf(32).WithLanes(64), "idx")
	hi := ir.NewAdd(base, ir.IntC(ir.IntOf(32), 200))

	r := NewBoundedShuffleRewriter()
	r.bounds.Push("idx", irutil.Interval{Min: base, Max: hi})
	load := ir.NewLoad(u16x64(), "buf", idx, "", "")

	once := r.MutateExpr(load)
	r2 := NewBoundedShuffleRewriter()
	twice := r2.MutateExpr(once)
	if !ir.Equal(once, twice) {
		t.Errorf("not idempotent: first pass %s, second pass %s", once, twice)
	}
}
