// Package irutil provides the minimal, self-contained implementations of
// the external IR operations the hexagon rewriters consume as black boxes
// per the owning pass's contract: pattern matching, lossless casts,
// simplification, bounds inference, free-variable queries, substitution
// and common subexpression elimination. None of these aim to be a general
// optimizing compiler; each is scoped to exactly what the rewriters in
// package hexagon need.
package irutil

import "github.com/ajroetker/hvxpeep/ir"

// matcher accumulates captures for one ExprMatch call and unifies the
// concrete lane count bound to every AnyLanes wildcard participating in
// the match, per the "lanes==0 matches any lane count consistently across
// all wildcards in the same match" requirement.
type matcher struct {
	captures []ir.Expr
	anyLanes int // 0 == unbound
}

// ExprMatch matches pattern against value under the wildcard discipline:
// a Variable named "*" with a fully specified type is a scalar (or
// fixed-lane) wildcard that captures value outright; one with Lanes == 0
// is an AnyLanes wildcard that additionally constrains value's lane count
// to agree with every other AnyLanes wildcard bound so far in this match.
// Non-wildcard nodes must match structurally: same expression kind, same
// leaf data, recursively matching children. Integer literals compare by
// numeric value regardless of signedness/width, matching how the pattern
// tables embed bare constants like the "2" in "(a+b)/2".
func ExprMatch(pattern, value ir.Expr) ([]ir.Expr, bool) {
	m := &matcher{}
	if !m.match(pattern, value) {
		return nil, false
	}
	return m.captures, true
}

func (m *matcher) match(p, v ir.Expr) bool {
	if pv, ok := p.(ir.Variable); ok && pv.IsWildcard() {
		return m.bindWildcard(pv, v)
	}

	if pc, ok := constValue(p); ok {
		vc, ok := constValue(v)
		return ok && pc == vc
	}

	switch pn := p.(type) {
	case ir.Variable:
		vn, ok := v.(ir.Variable)
		return ok && pn.Typ == vn.Typ && pn.Name == vn.Name
	case ir.Cast:
		vn, ok := v.(ir.Cast)
		return ok && pn.Typ.Code == vn.Typ.Code && pn.Typ.Bits == vn.Typ.Bits && m.match(pn.Value, vn.Value)
	case ir.Broadcast:
		vn, ok := v.(ir.Broadcast)
		if !ok {
			return false
		}
		if bw, ok := pn.Value.(ir.Variable); ok && bw.IsWildcard() {
			// A Broadcast pattern wrapping a bare wildcard requires the
			// matched value to actually be a Broadcast node (ruling out a
			// plain vector operand, which an AnyLanes wildcard alone
			// cannot distinguish from one), but still captures the whole
			// node rather than recursing into it: narrowCaptures' own
			// Broadcast case is what collapses a narrowed scalar operand
			// down to broadcast(value, 1), and it needs the outer node to
			// do that.
			return m.bindWildcard(bw, v)
		}
		return m.match(pn.Value, vn.Value)
	case ir.Ramp:
		vn, ok := v.(ir.Ramp)
		return ok && m.match(pn.Base, vn.Base) && m.match(pn.Stride, vn.Stride)
	case ir.Add:
		vn, ok := v.(ir.Add)
		return ok && m.match(pn.A, vn.A) && m.match(pn.B, vn.B)
	case ir.Sub:
		vn, ok := v.(ir.Sub)
		return ok && m.match(pn.A, vn.A) && m.match(pn.B, vn.B)
	case ir.Mul:
		vn, ok := v.(ir.Mul)
		return ok && m.match(pn.A, vn.A) && m.match(pn.B, vn.B)
	case ir.Div:
		vn, ok := v.(ir.Div)
		return ok && m.match(pn.A, vn.A) && m.match(pn.B, vn.B)
	case ir.Mod:
		vn, ok := v.(ir.Mod)
		return ok && m.match(pn.A, vn.A) && m.match(pn.B, vn.B)
	case ir.Min:
		vn, ok := v.(ir.Min)
		return ok && m.match(pn.A, vn.A) && m.match(pn.B, vn.B)
	case ir.Max:
		vn, ok := v.(ir.Max)
		return ok && m.match(pn.A, vn.A) && m.match(pn.B, vn.B)
	case ir.EQ:
		vn, ok := v.(ir.EQ)
		return ok && m.match(pn.A, vn.A) && m.match(pn.B, vn.B)
	case ir.NE:
		vn, ok := v.(ir.NE)
		return ok && m.match(pn.A, vn.A) && m.match(pn.B, vn.B)
	case ir.LT:
		vn, ok := v.(ir.LT)
		return ok && m.match(pn.A, vn.A) && m.match(pn.B, vn.B)
	case ir.LE:
		vn, ok := v.(ir.LE)
		return ok && m.match(pn.A, vn.A) && m.match(pn.B, vn.B)
	case ir.GT:
		vn, ok := v.(ir.GT)
		return ok && m.match(pn.A, vn.A) && m.match(pn.B, vn.B)
	case ir.GE:
		vn, ok := v.(ir.GE)
		return ok && m.match(pn.A, vn.A) && m.match(pn.B, vn.B)
	case ir.And:
		vn, ok := v.(ir.And)
		return ok && m.match(pn.A, vn.A) && m.match(pn.B, vn.B)
	case ir.Or:
		vn, ok := v.(ir.Or)
		return ok && m.match(pn.A, vn.A) && m.match(pn.B, vn.B)
	case ir.Not:
		vn, ok := v.(ir.Not)
		return ok && m.match(pn.A, vn.A)
	case ir.Select:
		vn, ok := v.(ir.Select)
		return ok && m.match(pn.Cond, vn.Cond) && m.match(pn.T, vn.T) && m.match(pn.F, vn.F)
	case ir.Load:
		vn, ok := v.(ir.Load)
		return ok && pn.Name == vn.Name && m.match(pn.Index, vn.Index)
	case ir.Call:
		vn, ok := v.(ir.Call)
		if !ok || pn.Name != vn.Name || pn.Kind != vn.Kind || len(pn.Args) != len(vn.Args) {
			return false
		}
		for i := range pn.Args {
			if !m.match(pn.Args[i], vn.Args[i]) {
				return false
			}
		}
		return true
	case ir.Let:
		vn, ok := v.(ir.Let)
		return ok && pn.Name == vn.Name && m.match(pn.Value, vn.Value) && m.match(pn.Body, vn.Body)
	default:
		return false
	}
}

// bindWildcard captures v against a wildcard pattern variable, enforcing
// the AnyLanes unification discipline when pt.Lanes == 0.
func (m *matcher) bindWildcard(pv ir.Variable, v ir.Expr) bool {
	pt := pv.Typ
	vt := v.Type()
	if pt.IsAnyLanes() {
		if pt.Code != vt.Code || pt.Bits != vt.Bits {
			return false
		}
		if m.anyLanes == 0 {
			m.anyLanes = vt.Lanes
		} else if m.anyLanes != vt.Lanes {
			return false
		}
	} else if pt != vt {
		return false
	}
	m.captures = append(m.captures, v)
	return true
}

// constValue extracts the numeric value of an integer literal regardless
// of signedness, so a pattern built with an IntImm constant matches a
// UIntImm value (and vice versa) of the same numeric value.
func constValue(e ir.Expr) (int64, bool) {
	switch n := e.(type) {
	case ir.IntImm:
		return n.Value, true
	case ir.UIntImm:
		return int64(n.Value), true
	default:
		return 0, false
	}
}
