package hexagon

import (
	"strings"

	"github.com/ajroetker/hvxpeep/ir"
	"github.com/ajroetker/hvxpeep/irutil"
)

// InterleaveEliminator pushes native_interleave/native_deinterleave
// markers outward through pointwise operations so that adjacent pairs
// cancel. It owns a single scope mapping "<name>.deinterleaved" to the
// type of a published deinterleaved binding, pushed and popped across the
// traversal of the Let/LetStmt that introduces it; one instance is used
// for exactly one top-level MutateExpr/MutateStmt call.
type InterleaveEliminator struct {
	vars *irutil.Scope[ir.Type]
}

// NewInterleaveEliminator returns a fresh eliminator with an empty scope.
func NewInterleaveEliminator() *InterleaveEliminator {
	return &InterleaveEliminator{vars: irutil.NewScope[ir.Type]()}
}

func deinterleavedName(name string) string { return name + ".deinterleaved" }

// yieldsInterleave reports whether x already carries (or trivially
// tolerates) an interleave tag: a direct native_interleave call, any
// scalar, a Broadcast, or a variable whose deinterleaved form is in scope.
func (e *InterleaveEliminator) yieldsInterleave(x ir.Expr) bool {
	if IsNativeInterleave(x) {
		return true
	}
	if x.Type().IsScalar() {
		return true
	}
	if _, ok := x.(ir.Broadcast); ok {
		return true
	}
	if v, ok := x.(ir.Variable); ok {
		if _, found := e.vars.Lookup(deinterleavedName(v.Name)); found {
			return true
		}
	}
	return false
}

// removeInterleave strips the interleave tag from x, which must already
// yield one; calling it on anything else is an invariant violation.
func (e *InterleaveEliminator) removeInterleave(x ir.Expr) ir.Expr {
	if c, ok := x.(ir.Call); ok && IsNativeInterleave(c) {
		return c.Args[0]
	}
	if x.Type().IsScalar() {
		return x
	}
	if _, ok := x.(ir.Broadcast); ok {
		return x
	}
	if v, ok := x.(ir.Variable); ok {
		if t, found := e.vars.Lookup(deinterleavedName(v.Name)); found {
			return ir.Var(t, deinterleavedName(v.Name))
		}
	}
	ir.Fatalf(x, "remove_interleave called on an expression that does not yield an interleave")
	panic("unreachable")
}

// removableGang reports whether every operand yields an interleave and at
// least one is an actual native_interleave call, the condition under which
// a pointwise node can be rebuilt with its interleaves stripped and a
// single interleave reapplied to the whole node.
func (e *InterleaveEliminator) removableGang(xs ...ir.Expr) bool {
	anyReal := false
	for _, x := range xs {
		if !e.yieldsInterleave(x) {
			return false
		}
		if IsNativeInterleave(x) {
			anyReal = true
		}
	}
	return anyReal
}

// MutateExpr rewrites a single expression and all of its descendants.
func (e *InterleaveEliminator) MutateExpr(x ir.Expr) ir.Expr {
	switch n := x.(type) {
	case ir.Add:
		return e.visitBinary(n.Typ, n.A, n.B, ir.NewAdd)
	case ir.Sub:
		return e.visitBinary(n.Typ, n.A, n.B, ir.NewSub)
	case ir.Mul:
		return e.visitBinary(n.Typ, n.A, n.B, ir.NewMul)
	case ir.Div:
		return e.visitBinary(n.Typ, n.A, n.B, ir.NewDiv)
	case ir.Mod:
		return e.visitBinary(n.Typ, n.A, n.B, ir.NewMod)
	case ir.Min:
		return e.visitBinary(n.Typ, n.A, n.B, ir.NewMin)
	case ir.Max:
		return e.visitBinary(n.Typ, n.A, n.B, ir.NewMax)
	case ir.EQ:
		return e.visitBinary(n.Typ, n.A, n.B, ir.NewEQ)
	case ir.NE:
		return e.visitBinary(n.Typ, n.A, n.B, ir.NewNE)
	case ir.LT:
		return e.visitBinary(n.Typ, n.A, n.B, ir.NewLT)
	case ir.LE:
		return e.visitBinary(n.Typ, n.A, n.B, ir.NewLE)
	case ir.GT:
		return e.visitBinary(n.Typ, n.A, n.B, ir.NewGT)
	case ir.GE:
		return e.visitBinary(n.Typ, n.A, n.B, ir.NewGE)
	case ir.And:
		return e.visitBinary(n.Typ, n.A, n.B, ir.NewAnd)
	case ir.Or:
		return e.visitBinary(n.Typ, n.A, n.B, ir.NewOr)
	case ir.Not:
		return e.visitNot(n)
	case ir.Select:
		return e.visitSelect(n)
	case ir.Cast:
		return e.visitCast(n)
	case ir.Call:
		return e.visitCall(n)
	case ir.Let:
		return e.visitLet(n)
	default:
		return ir.MutateChildren(x, e.MutateExpr)
	}
}

func (e *InterleaveEliminator) visitBinary(t ir.Type, a, b ir.Expr, rebuild func(ir.Expr, ir.Expr) ir.Expr) ir.Expr {
	ma := e.MutateExpr(a)
	mb := e.MutateExpr(b)
	if e.removableGang(ma, mb) {
		return NativeInterleave(rebuild(e.removeInterleave(ma), e.removeInterleave(mb)))
	}
	return rebuild(ma, mb)
}

func (e *InterleaveEliminator) visitNot(n ir.Not) ir.Expr {
	ma := e.MutateExpr(n.A)
	if e.removableGang(ma) {
		return NativeInterleave(ir.NewNot(e.removeInterleave(ma)))
	}
	return ir.Not{Typ: n.Typ, A: ma}
}

func (e *InterleaveEliminator) visitSelect(n ir.Select) ir.Expr {
	cond := e.MutateExpr(n.Cond)
	t := e.MutateExpr(n.T)
	f := e.MutateExpr(n.F)
	if e.removableGang(cond, t, f) {
		rebuilt := ir.NewSelect(e.removeInterleave(cond), e.removeInterleave(t), e.removeInterleave(f))
		return NativeInterleave(rebuilt)
	}
	return ir.Select{Typ: n.Typ, Cond: cond, T: t, F: f}
}

func (e *InterleaveEliminator) visitCast(n ir.Cast) ir.Expr {
	ma := e.MutateExpr(n.Value)
	if n.Typ.Bits == ma.Type().Bits && e.removableGang(ma) {
		return NativeInterleave(ir.NewCast(n.Typ, e.removeInterleave(ma)))
	}
	return ir.Cast{Typ: n.Typ, Value: ma}
}

var knownInterleavableCalls = map[string]bool{
	"bitwise_and": true, "bitwise_or": true, "bitwise_xor": true, "bitwise_not": true,
	"shift_left": true, "shift_right": true, "abs": true, "absd": true,
}

func isInterleaveOrDeinterleaveName(name string) bool {
	switch name {
	case interleaveVB, interleaveVH, interleaveVW, deinterleaveVB, deinterleaveVH, deinterleaveVW:
		return true
	default:
		return false
	}
}

// isInterleavable classifies a call's interleavability per the owning
// pass's rules: a fixed known-good set, the interleave/deinterleave
// intrinsics themselves (never interleavable), any other
// "halide.hexagon.*" call whose vector arguments all share the return
// type's lane count and width, and everything else (not interleavable).
func isInterleavable(name string, ret ir.Type, args []ir.Expr) bool {
	if knownInterleavableCalls[name] {
		return true
	}
	if isInterleaveOrDeinterleaveName(name) {
		return false
	}
	if strings.HasPrefix(name, "halide.hexagon.") {
		for _, a := range args {
			if a.Type().IsVector() && (a.Type().Lanes != ret.Lanes || a.Type().Bits != ret.Bits) {
				return false
			}
		}
		return true
	}
	return false
}

// deinterleavingAlternative returns the pack/trunc-style alternative call
// for name, if one exists, along with any extra trailing constant
// arguments the alternative call requires.
func deinterleavingAlternative(name string) (alt string, extra []ir.Expr, ok bool) {
	switch name {
	case "halide.hexagon.pack.vh":
		return "halide.hexagon.trunc.vh", nil, true
	case "halide.hexagon.pack.vw":
		return "halide.hexagon.trunc.vw", nil, true
	case "halide.hexagon.pack_satub.vh":
		return "halide.hexagon.trunc_satub.vh", nil, true
	case "halide.hexagon.pack_sath.vw":
		return "halide.hexagon.trunc_sath.vw", nil, true
	case "halide.hexagon.pack_satuh.vw":
		return "halide.hexagon.trunc_satuh_shr.vw.w", []ir.Expr{ir.IntC(ir.IntOf(32), 0)}, true
	default:
		return "", nil, false
	}
}

func (e *InterleaveEliminator) visitCall(n ir.Call) ir.Expr {
	if IsNativeDeinterleave(n) && len(n.Args) == 1 {
		arg := e.MutateExpr(n.Args[0])
		if e.yieldsInterleave(arg) {
			return e.removeInterleave(arg)
		}
		return ir.Call{Typ: n.Typ, Name: n.Name, Args: []ir.Expr{arg}, Kind: n.Kind}
	}

	args := make([]ir.Expr, len(n.Args))
	for i, a := range n.Args {
		args[i] = e.MutateExpr(a)
	}

	if isInterleavable(n.Name, n.Typ, args) && e.removableGang(args...) {
		stripped := make([]ir.Expr, len(args))
		for i, a := range args {
			stripped[i] = e.removeInterleave(a)
		}
		return NativeInterleave(ir.Call{Typ: n.Typ, Name: n.Name, Args: stripped, Kind: n.Kind})
	}

	if alt, extra, ok := deinterleavingAlternative(n.Name); ok && e.removableGang(args...) {
		stripped := make([]ir.Expr, 0, len(args)+len(extra))
		for _, a := range args {
			stripped = append(stripped, e.removeInterleave(a))
		}
		stripped = append(stripped, extra...)
		return ir.Call{Typ: n.Typ, Name: alt, Args: stripped, Kind: n.Kind}
	}

	return ir.Call{Typ: n.Typ, Name: n.Name, Args: args, Kind: n.Kind}
}

func (e *InterleaveEliminator) visitLet(n ir.Let) ir.Expr {
	mutatedValue := e.MutateExpr(n.Value)
	published := IsNativeInterleave(mutatedValue)
	if published {
		e.vars.Push(deinterleavedName(n.Name), mutatedValue.Type())
	}
	mutatedBody := e.MutateExpr(n.Body)
	if published {
		e.vars.Pop(deinterleavedName(n.Name))
	}

	usesOrig := irutil.ExprUsesVar(mutatedBody, n.Name)
	usesDein := published && irutil.ExprUsesVar(mutatedBody, deinterleavedName(n.Name))

	switch {
	case usesOrig && usesDein:
		deinVal := e.removeInterleave(mutatedValue)
		dn := deinterleavedName(n.Name)
		inner := ir.NewLet(n.Name, NativeInterleave(ir.Var(mutatedValue.Type(), dn)), mutatedBody)
		return ir.NewLet(dn, deinVal, inner)
	case usesDein:
		deinVal := e.removeInterleave(mutatedValue)
		return ir.NewLet(deinterleavedName(n.Name), deinVal, mutatedBody)
	case usesOrig:
		return ir.NewLet(n.Name, mutatedValue, mutatedBody)
	default:
		if irutil.ExprUsesVar(n.Body, n.Name) {
			ir.Fatalf(n.Value, "dead let binding %q was reported unused but the original body referenced it", n.Name)
		}
		return mutatedBody
	}
}

// MutateStmt rewrites a single statement and all of its descendants,
// extending the Let-binding duplication logic to the statement-level
// LetStmt analogously to the expression-level Let.
func (e *InterleaveEliminator) MutateStmt(s ir.Stmt) ir.Stmt {
	ls, ok := s.(ir.LetStmt)
	if !ok {
		return ir.MutateStmtChildren(s, e.MutateExpr, e.MutateStmt)
	}

	mutatedValue := e.MutateExpr(ls.Value)
	published := IsNativeInterleave(mutatedValue)
	if published {
		e.vars.Push(deinterleavedName(ls.Name), mutatedValue.Type())
	}
	mutatedBody := e.MutateStmt(ls.Body)
	if published {
		e.vars.Pop(deinterleavedName(ls.Name))
	}

	usesOrig := irutil.StmtUsesVar(mutatedBody, ls.Name)
	usesDein := published && irutil.StmtUsesVar(mutatedBody, deinterleavedName(ls.Name))

	switch {
	case usesOrig && usesDein:
		deinVal := e.removeInterleave(mutatedValue)
		dn := deinterleavedName(ls.Name)
		inner := ir.LetStmt{Name: ls.Name, Value: NativeInterleave(ir.Var(mutatedValue.Type(), dn)), Body: mutatedBody}
		return ir.LetStmt{Name: dn, Value: deinVal, Body: inner}
	case usesDein:
		deinVal := e.removeInterleave(mutatedValue)
		return ir.LetStmt{Name: deinterleavedName(ls.Name), Value: deinVal, Body: mutatedBody}
	case usesOrig:
		return ir.LetStmt{Name: ls.Name, Value: mutatedValue, Body: mutatedBody}
	default:
		if irutil.StmtUsesVar(ls.Body, ls.Name) {
			ir.Fatalf(ls.Value, "dead let binding %q was reported unused but the original body referenced it", ls.Name)
		}
		return mutatedBody
	}
}
