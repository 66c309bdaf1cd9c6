package hexagon

import (
	"github.com/ajroetker/hvxpeep/ir"
	"github.com/ajroetker/hvxpeep/irutil"
)

// PatternMatcher visits Mul, Add, Sub, Max and Cast nodes, rewriting
// matched arithmetic and casting idioms into named target intrinsics.
// Every other node kind falls through to the default recursive descent.
type PatternMatcher struct{}

// NewPatternMatcher returns a fresh matcher. It carries no state across
// calls, so a single value may be reused, but a new one is cheap enough
// that callers needn't bother.
func NewPatternMatcher() *PatternMatcher { return &PatternMatcher{} }

// MutateExpr rewrites a single expression and all of its descendants.
func (p *PatternMatcher) MutateExpr(e ir.Expr) ir.Expr {
	switch n := e.(type) {
	case ir.Mul:
		return p.visitCommutative(n, n.Typ, n.A, n.B, mulTable(), ir.NewMul)
	case ir.Add:
		return p.visitCommutative(n, n.Typ, n.A, n.B, addTable(), ir.NewAdd)
	case ir.Sub:
		return p.visitSub(n)
	case ir.Max:
		return p.visitMax(n)
	case ir.Cast:
		return p.visitCast(n)
	default:
		return ir.MutateChildren(e, p.MutateExpr)
	}
}

func (p *PatternMatcher) visitCommutative(orig ir.Expr, t ir.Type, a, b ir.Expr, table []Pattern, rebuild func(ir.Expr, ir.Expr) ir.Expr) ir.Expr {
	if !t.IsVector() {
		return ir.MutateChildren(orig, p.MutateExpr)
	}
	if r, ok := p.applyPatterns(orig, table); ok {
		return r
	}
	if r, ok := p.applyPatterns(rebuild(b, a), table); ok {
		return r
	}
	return ir.MutateChildren(orig, p.MutateExpr)
}

func (p *PatternMatcher) visitSub(n ir.Sub) ir.Expr {
	if n.Typ.IsVector() {
		if nb, ok := losslessNegate(n.B); ok {
			if r, ok := p.applyPatterns(ir.NewAdd(n.A, nb), addTable()); ok {
				return r
			}
			if r, ok := p.applyPatterns(ir.NewAdd(nb, n.A), addTable()); ok {
				return r
			}
		}
	}
	return ir.MutateChildren(n, p.MutateExpr)
}

// losslessNegate returns -e when that can be computed without overflow or
// loss: pushed recursively through one side of a multiply, or folded
// directly for an integer constant.
func losslessNegate(e ir.Expr) (ir.Expr, bool) {
	switch v := e.(type) {
	case ir.Mul:
		if nb, ok := losslessNegate(v.B); ok {
			return ir.NewMul(v.A, nb), true
		}
		if na, ok := losslessNegate(v.A); ok {
			return ir.NewMul(na, v.B), true
		}
		return nil, false
	case ir.IntImm, ir.UIntImm:
		neg, ok := irutil.NegateConst(v)
		if !ok {
			return nil, false
		}
		return irutil.Simplify(neg), true
	default:
		return nil, false
	}
}

func (p *PatternMatcher) visitMax(n ir.Max) ir.Expr {
	a := p.MutateExpr(n.A)
	b := p.MutateExpr(n.B)
	if r, ok := clsIdiom(a, b); ok {
		return r
	}
	if r, ok := clsIdiom(b, a); ok {
		return r
	}
	if ir.Equal(a, n.A) && ir.Equal(b, n.B) {
		return n
	}
	return ir.NewMax(a, b)
}

// clsIdiom recognizes max(clz(x), clz(~x)), the count-leading-sign-bits
// idiom: the position of the highest bit that differs from the sign bit.
func clsIdiom(p1, p2 ir.Expr) (ir.Expr, bool) {
	c1, ok := p1.(ir.Call)
	if !ok || c1.Name != "count_leading_zeros" || len(c1.Args) != 1 {
		return nil, false
	}
	c2, ok := p2.(ir.Call)
	if !ok || c2.Name != "count_leading_zeros" || len(c2.Args) != 1 {
		return nil, false
	}
	x := c1.Args[0]
	notArg, ok := c2.Args[0].(ir.Call)
	if !ok || notArg.Name != "bitwise_not" || len(notArg.Args) != 1 {
		return nil, false
	}
	if !ir.Equal(notArg.Args[0], x) {
		return nil, false
	}
	t := x.Type()
	if t.Code != ir.Int || (t.Bits != 16 && t.Bits != 32) {
		return nil, false
	}
	name := "halide.hexagon.cls.vh"
	if t.Bits == 32 {
		name = "halide.hexagon.cls.vw"
	}
	call := ir.NewCall(t, name, ir.PureExtern, x)
	return ir.NewAdd(call, ir.IntC(t.WithLanes(1), 1)), true
}

func (p *PatternMatcher) visitCast(n ir.Cast) ir.Expr {
	if !n.Typ.IsVector() {
		return ir.Cast{Typ: n.Typ, Value: p.MutateExpr(n.Value)}
	}
	if r, ok := p.applyPatterns(n, castTable()); ok {
		return r
	}
	if r, ok := splitDoubleCast(n); ok {
		return p.MutateExpr(r)
	}
	return ir.Cast{Typ: n.Typ, Value: p.MutateExpr(n.Value)}
}

// splitDoubleCast implements the fixed set of wide-cast splitting rewrites:
// a narrowing cast from 32 bits straight to 8, or a widening cast from 8
// bits straight to 32, is split through an intermediate 16-bit stage so
// the narrower single-step patterns in castTable get a chance to fire when
// the caller mutates the split result right away. Refuses when the intermediate type's lane count would
// have to differ from the original cast's, per the open question in the
// owning pass's design notes: this module does not special-case that.
func splitDoubleCast(n ir.Cast) (ir.Expr, bool) {
	inner := n.Value.Type()
	switch {
	case n.Typ.Bits == 8 && inner.Bits == 32:
		mid := ir.Type{Code: n.Typ.Code, Bits: 16, Lanes: inner.Lanes}
		if mid.Lanes != n.Typ.Lanes {
			return nil, false
		}
		return ir.NewCast(n.Typ, ir.NewCast(mid, n.Value)), true
	case n.Typ.Bits == 32 && inner.Bits == 8:
		mid := ir.Type{Code: n.Typ.Code, Bits: 16, Lanes: inner.Lanes}
		if mid.Lanes != n.Typ.Lanes {
			return nil, false
		}
		return ir.NewCast(n.Typ, ir.NewCast(mid, n.Value)), true
	default:
		return nil, false
	}
}

// applyPatterns scans table in order, returning the first successful
// rewrite. Capture transforms (narrowing, exact-log2, deinterleaving,
// operand swaps) are applied before the replacement Call is built; any
// transform failure is recoverable and moves on to the next pattern.
func (p *PatternMatcher) applyPatterns(x ir.Expr, table []Pattern) (ir.Expr, bool) {
	for _, pat := range table {
		caps, ok := irutil.ExprMatch(pat.Pattern, x)
		if !ok {
			continue
		}
		work := append([]ir.Expr(nil), caps...)
		if !narrowCaptures(work, pat.Flags) {
			continue
		}
		if !exactLog2Captures(work, pat.Flags) {
			continue
		}
		deinterleaveCaptures(work, pat.Flags)
		if pat.Flags.has(SwapOps01) && len(work) >= 2 {
			work[0], work[1] = work[1], work[0]
		}
		if pat.Flags.has(SwapOps12) && len(work) >= 3 {
			work[1], work[2] = work[2], work[1]
		}
		for i := range work {
			work[i] = p.MutateExpr(work[i])
		}
		call := ir.NewCall(x.Type(), pat.Intrinsic, ir.PureExtern, work...)
		if pat.Flags.has(InterleaveResult) {
			call = NativeInterleave(call)
		}
		return call, true
	}
	return nil, false
}

func narrowCaptures(work []ir.Expr, flags PatternFlag) bool {
	narrowFlags := [3]PatternFlag{NarrowOp0, NarrowOp1, NarrowOp2}
	narrowUnsignedFlags := [3]PatternFlag{NarrowUnsignedOp0, NarrowUnsignedOp1, NarrowUnsignedOp2}
	for i := range work {
		if i >= 3 {
			break
		}
		t := work[i].Type()
		switch {
		case flags.has(narrowFlags[i]):
			target := t.WithBits(t.Bits / 2)
			c, ok := irutil.LosslessCast(target, work[i])
			if !ok {
				return false
			}
			work[i] = c
		case flags.has(narrowUnsignedFlags[i]):
			target := ir.Type{Code: ir.UInt, Bits: t.Bits / 2, Lanes: t.Lanes}
			c, ok := irutil.LosslessCast(target, work[i])
			if !ok {
				return false
			}
			work[i] = c
		}
	}
	return true
}

func exactLog2Captures(work []ir.Expr, flags PatternFlag) bool {
	logFlags := map[int]PatternFlag{1: ExactLog2Op1, 2: ExactLog2Op2}
	for i, bit := range logFlags {
		if i >= len(work) || !flags.has(bit) {
			continue
		}
		log2, ok := irutil.IsConstPowerOfTwoInteger(work[i])
		if !ok {
			return false
		}
		work[i] = ir.IntC(work[i].Type().WithLanes(1), int64(log2))
	}
	return true
}

func deinterleaveCaptures(work []ir.Expr, flags PatternFlag) {
	deinterleaveFlags := [3]PatternFlag{DeinterleaveOp0, DeinterleaveOp1, DeinterleaveOp2}
	for i := range work {
		if i >= 3 {
			break
		}
		if flags.has(deinterleaveFlags[i]) {
			work[i] = NativeDeinterleave(work[i])
		}
	}
}
