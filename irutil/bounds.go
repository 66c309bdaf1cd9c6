package irutil

import "github.com/ajroetker/hvxpeep/ir"

// Scope is a push/pop symbol table mapping names to a stack of bindings,
// the minimal analogue of the surrounding compiler's scope type that the
// bounded-shuffle rewriter needs to track the bounds of enclosing lets.
type Scope[T any] struct {
	frames map[string][]T
}

// NewScope returns an empty scope.
func NewScope[T any]() *Scope[T] {
	return &Scope[T]{frames: map[string][]T{}}
}

// Push binds name to value, shadowing any outer binding.
func (s *Scope[T]) Push(name string, value T) {
	s.frames[name] = append(s.frames[name], value)
}

// Pop removes the innermost binding of name.
func (s *Scope[T]) Pop(name string) {
	f := s.frames[name]
	if len(f) == 0 {
		return
	}
	s.frames[name] = f[:len(f)-1]
	if len(s.frames[name]) == 0 {
		delete(s.frames, name)
	}
}

// Lookup returns the innermost binding of name, if any.
func (s *Scope[T]) Lookup(name string) (T, bool) {
	f := s.frames[name]
	if len(f) == 0 {
		var zero T
		return zero, false
	}
	return f[len(f)-1], true
}

// Interval is a conservative [Min, Max] bound on an expression's value.
type Interval struct {
	Min, Max ir.Expr
}

// BoundsOfExprInScope conservatively bounds e given the bounds already
// recorded for any variables it references. Unhandled node shapes fall
// back to the degenerate point interval [e, e], which is always a sound
// (if not tight) bound; this is deliberately not a general bounds-inference
// pass, only enough to make the bounded-shuffle span check and the
// upper-bound mutator's closed forms resolve to literals on the shapes the
// pattern tables actually produce.
func BoundsOfExprInScope(e ir.Expr, scope *Scope[Interval]) Interval {
	switch n := e.(type) {
	case ir.IntImm, ir.UIntImm:
		return Interval{Min: e, Max: e}
	case ir.Variable:
		if iv, ok := scope.Lookup(n.Name); ok {
			return iv
		}
		return Interval{Min: e, Max: e}
	case ir.Broadcast:
		inner := BoundsOfExprInScope(n.Value, scope)
		return Interval{Min: ir.NewBroadcast(inner.Min, n.Lanes), Max: ir.NewBroadcast(inner.Max, n.Lanes)}
	case ir.Ramp:
		base := BoundsOfExprInScope(n.Base, scope)
		if sv, ok := constValue(n.Stride); ok && sv >= 0 {
			last := ir.NewAdd(base.Max, ir.NewMul(n.Stride, ir.IntC(ir.IntOf(32), int64(n.Lanes-1))))
			return Interval{Min: base.Min, Max: Simplify(last)}
		}
		return Interval{Min: e, Max: e}
	case ir.Add:
		a := BoundsOfExprInScope(n.A, scope)
		b := BoundsOfExprInScope(n.B, scope)
		return Interval{Min: Simplify(ir.NewAdd(a.Min, b.Min)), Max: Simplify(ir.NewAdd(a.Max, b.Max))}
	case ir.Sub:
		a := BoundsOfExprInScope(n.A, scope)
		b := BoundsOfExprInScope(n.B, scope)
		return Interval{Min: Simplify(ir.NewSub(a.Min, b.Max)), Max: Simplify(ir.NewSub(a.Max, b.Min))}
	case ir.Min:
		a := BoundsOfExprInScope(n.A, scope)
		b := BoundsOfExprInScope(n.B, scope)
		return Interval{Min: Simplify(ir.NewMin(a.Min, b.Min)), Max: Simplify(ir.NewMin(a.Max, b.Max))}
	case ir.Max:
		a := BoundsOfExprInScope(n.A, scope)
		b := BoundsOfExprInScope(n.B, scope)
		return Interval{Min: Simplify(ir.NewMax(a.Min, b.Min)), Max: Simplify(ir.NewMax(a.Max, b.Max))}
	case ir.Mul:
		if cv, ok := constValue(n.B); ok && cv >= 0 {
			a := BoundsOfExprInScope(n.A, scope)
			return Interval{Min: Simplify(ir.NewMul(a.Min, n.B)), Max: Simplify(ir.NewMul(a.Max, n.B))}
		}
		return Interval{Min: e, Max: e}
	case ir.Cast:
		inner := BoundsOfExprInScope(n.Value, scope)
		return Interval{Min: Simplify(ir.NewCast(n.Typ, inner.Min)), Max: Simplify(ir.NewCast(n.Typ, inner.Max))}
	default:
		return Interval{Min: e, Max: e}
	}
}
