// Package hexagon implements the target-specific peephole optimizer for a
// wide-SIMD DSP target: PatternMatcher and InterleaveEliminator (driven
// together from OptimizeInstructions), and BoundedShuffleRewriter (driven
// from OptimizeShuffles, backed by the UpperBound mutator).
package hexagon

import "github.com/ajroetker/hvxpeep/ir"

const (
	interleaveVB   = "halide.hexagon.interleave.vb"
	interleaveVH   = "halide.hexagon.interleave.vh"
	interleaveVW   = "halide.hexagon.interleave.vw"
	deinterleaveVB = "halide.hexagon.deinterleave.vb"
	deinterleaveVH = "halide.hexagon.deinterleave.vh"
	deinterleaveVW = "halide.hexagon.deinterleave.vw"
)

func interleaveName(bits int) string {
	switch bits {
	case 8:
		return interleaveVB
	case 16:
		return interleaveVH
	case 32:
		return interleaveVW
	default:
		ir.Fatalf(nil, "unsupported lane width %d for native_interleave", bits)
		panic("unreachable")
	}
}

func deinterleaveName(bits int) string {
	switch bits {
	case 8:
		return deinterleaveVB
	case 16:
		return deinterleaveVH
	case 32:
		return deinterleaveVW
	default:
		ir.Fatalf(nil, "unsupported lane width %d for native_deinterleave", bits)
		panic("unreachable")
	}
}

// NativeInterleave wraps x in the interleave intrinsic matching its lane
// width. Unsupported widths (anything other than 8/16/32-bit lanes) are a
// fatal internal error, per the owning pass's "unsupported lane width for
// interleave" error class.
func NativeInterleave(x ir.Expr) ir.Expr {
	name := interleaveName(x.Type().Bits)
	return ir.NewCall(x.Type(), name, ir.PureExtern, x)
}

// NativeDeinterleave wraps x in the deinterleave intrinsic matching its
// lane width.
func NativeDeinterleave(x ir.Expr) ir.Expr {
	name := deinterleaveName(x.Type().Bits)
	return ir.NewCall(x.Type(), name, ir.PureExtern, x)
}

// IsNativeInterleave reports whether x is a call to an interleave
// intrinsic.
func IsNativeInterleave(x ir.Expr) bool {
	c, ok := x.(ir.Call)
	return ok && (c.Name == interleaveVB || c.Name == interleaveVH || c.Name == interleaveVW)
}

// IsNativeDeinterleave reports whether x is a call to a deinterleave
// intrinsic.
func IsNativeDeinterleave(x ir.Expr) bool {
	c, ok := x.(ir.Call)
	return ok && (c.Name == deinterleaveVB || c.Name == deinterleaveVH || c.Name == deinterleaveVW)
}
