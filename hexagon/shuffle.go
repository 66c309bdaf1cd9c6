package hexagon

import (
	"github.com/ajroetker/hvxpeep/ir"
	"github.com/ajroetker/hvxpeep/irutil"
)

// spanThreshold is the lookup-table capacity a bounded shuffle's index
// range must fit within: the target's dynamic_shuffle intrinsic gathers
// from at most a 256-entry table.
const spanThreshold = 256

// BoundedShuffleRewriter rewrites an indirect vector Load whose index
// range provably fits a spanThreshold-entry lookup table into a
// dynamic_shuffle call, tracking the bounds of vector-typed let bindings
// across its traversal.
type BoundedShuffleRewriter struct {
	bounds *irutil.Scope[irutil.Interval]
}

// NewBoundedShuffleRewriter returns a fresh rewriter with an empty bounds
// scope.
func NewBoundedShuffleRewriter() *BoundedShuffleRewriter {
	return &BoundedShuffleRewriter{bounds: irutil.NewScope[irutil.Interval]()}
}

// MutateExpr rewrites a single expression and all of its descendants.
func (r *BoundedShuffleRewriter) MutateExpr(x ir.Expr) ir.Expr {
	switch n := x.(type) {
	case ir.Load:
		return r.visitLoad(n)
	case ir.Let:
		return r.visitLet(n)
	default:
		return ir.MutateChildren(x, r.MutateExpr)
	}
}

// MutateStmt rewrites a single statement and all of its descendants.
func (r *BoundedShuffleRewriter) MutateStmt(s ir.Stmt) ir.Stmt {
	ls, ok := s.(ir.LetStmt)
	if !ok {
		return ir.MutateStmtChildren(s, r.MutateExpr, r.MutateStmt)
	}
	mutatedValue := r.MutateExpr(ls.Value)
	pushed := false
	if mutatedValue.Type().IsVector() {
		r.bounds.Push(ls.Name, irutil.BoundsOfExprInScope(mutatedValue, r.bounds))
		pushed = true
	}
	mutatedBody := r.MutateStmt(ls.Body)
	if pushed {
		r.bounds.Pop(ls.Name)
	}
	return ir.LetStmt{Name: ls.Name, Value: mutatedValue, Body: mutatedBody}
}

func (r *BoundedShuffleRewriter) visitLet(n ir.Let) ir.Expr {
	mutatedValue := r.MutateExpr(n.Value)
	pushed := false
	if mutatedValue.Type().IsVector() {
		r.bounds.Push(n.Name, irutil.BoundsOfExprInScope(mutatedValue, r.bounds))
		pushed = true
	}
	mutatedBody := r.MutateExpr(n.Body)
	if pushed {
		r.bounds.Pop(n.Name)
	}
	if ir.Equal(mutatedValue, n.Value) && ir.Equal(mutatedBody, n.Body) {
		return n
	}
	return ir.NewLet(n.Name, mutatedValue, mutatedBody)
}

func (r *BoundedShuffleRewriter) visitLoad(n ir.Load) ir.Expr {
	mutatedIndex := r.MutateExpr(n.Index)
	unchanged := ir.Equal(mutatedIndex, n.Index)

	if !n.Typ.IsVector() {
		if unchanged {
			return n
		}
		return ir.Load{Typ: n.Typ, Name: n.Name, Index: mutatedIndex, Image: n.Image, Param: n.Param}
	}
	if _, isRamp := mutatedIndex.(ir.Ramp); isRamp {
		if unchanged {
			return n
		}
		return ir.Load{Typ: n.Typ, Name: n.Name, Index: mutatedIndex, Image: n.Image, Param: n.Param}
	}

	iv := irutil.BoundsOfExprInScope(mutatedIndex, r.bounds)
	span := irutil.Simplify(UpperBound(ir.NewSub(iv.Max, iv.Min)))
	boundsType := iv.Min.Type()
	threshold := ir.IntC(boundsType, spanThreshold)
	if boundsType.Code == ir.UInt {
		threshold = ir.UIntC(boundsType, spanThreshold)
	}
	fits := irutil.Simplify(ir.NewLT(span, threshold))
	if !irutil.IsOne(fits) {
		if unchanged {
			return n
		}
		return ir.Load{Typ: n.Typ, Name: n.Name, Index: mutatedIndex, Image: n.Image, Param: n.Param}
	}

	extent := spanThreshold
	if v, ok := constIntValue(span); ok {
		extent = int(v) + 1
	}

	stride := ir.IntC(iv.Min.Type(), 1)
	lut := ir.NewLoad(n.Typ.WithLanes(extent), n.Name, ir.NewRamp(iv.Min, stride, extent), n.Image, n.Param)
	idxType := ir.UIntOf(8).WithLanes(n.Typ.Lanes)
	idx := irutil.Simplify(ir.NewCast(idxType, ir.NewSub(mutatedIndex, iv.Min)))
	return ir.NewCall(n.Typ, "dynamic_shuffle", ir.PureIntrinsic,
		lut, idx, ir.IntC(ir.IntOf(32), 0), ir.IntC(ir.IntOf(32), int64(extent)))
}

func constIntValue(e ir.Expr) (int64, bool) {
	switch n := e.(type) {
	case ir.IntImm:
		return n.Value, true
	case ir.UIntImm:
		return int64(n.Value), true
	default:
		return 0, false
	}
}
