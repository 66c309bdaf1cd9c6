package ir

// This file collects the smart constructors used to build Expr/Stmt trees.
// They are deliberately thin: they only compute the result type from the
// operands they are given and never simplify, matching the "Expr
// construction... is out of scope" boundary from the owning pass's point
// of view while still giving the rewriters (and their tests) a convenient
// way to build trees.

func NewAdd(a, b Expr) Expr { return Add{binOp{Typ: a.Type(), A: a, B: b}} }
func NewSub(a, b Expr) Expr { return Sub{binOp{Typ: a.Type(), A: a, B: b}} }
func NewMul(a, b Expr) Expr { return Mul{binOp{Typ: a.Type(), A: a, B: b}} }
func NewDiv(a, b Expr) Expr { return Div{binOp{Typ: a.Type(), A: a, B: b}} }
func NewMod(a, b Expr) Expr { return Mod{binOp{Typ: a.Type(), A: a, B: b}} }
func NewMin(a, b Expr) Expr { return Min{binOp{Typ: a.Type(), A: a, B: b}} }
func NewMax(a, b Expr) Expr { return Max{binOp{Typ: a.Type(), A: a, B: b}} }

func boolType(a Expr) Type { return Type{Code: Bool, Bits: 1, Lanes: a.Type().Lanes} }

func NewEQ(a, b Expr) Expr { return EQ{binOp{Typ: boolType(a), A: a, B: b}} }
func NewNE(a, b Expr) Expr { return NE{binOp{Typ: boolType(a), A: a, B: b}} }
func NewLT(a, b Expr) Expr { return LT{binOp{Typ: boolType(a), A: a, B: b}} }
func NewLE(a, b Expr) Expr { return LE{binOp{Typ: boolType(a), A: a, B: b}} }
func NewGT(a, b Expr) Expr { return GT{binOp{Typ: boolType(a), A: a, B: b}} }
func NewGE(a, b Expr) Expr { return GE{binOp{Typ: boolType(a), A: a, B: b}} }

func NewAnd(a, b Expr) Expr { return And{binOp{Typ: a.Type(), A: a, B: b}} }
func NewOr(a, b Expr) Expr  { return Or{binOp{Typ: a.Type(), A: a, B: b}} }
func NewNot(a Expr) Expr    { return Not{Typ: a.Type(), A: a} }

func NewSelect(cond, t, f Expr) Expr {
	return Select{Typ: t.Type(), Cond: cond, T: t, F: f}
}

func NewCast(t Type, v Expr) Expr { return Cast{Typ: t, Value: v} }

func NewBroadcast(v Expr, lanes int) Expr { return Broadcast{Value: v, Lanes: lanes} }

func NewRamp(base, stride Expr, lanes int) Expr {
	return Ramp{Base: base, Stride: stride, Lanes: lanes}
}

func NewLoad(t Type, name string, index Expr, image, param string) Expr {
	return Load{Typ: t, Name: name, Index: index, Image: image, Param: param}
}

func NewCall(t Type, name string, kind CallKind, args ...Expr) Expr {
	return Call{Typ: t, Name: name, Args: args, Kind: kind}
}

func NewLet(name string, value, body Expr) Expr { return Let{Name: name, Value: value, Body: body} }

func NewLetStmt(name string, value Expr, body Stmt) Stmt {
	return LetStmt{Name: name, Value: value, Body: body}
}

// Var constructs a reference to a named, concretely-typed value.
func Var(t Type, name string) Expr { return Variable{Typ: t, Name: name} }

// Wild constructs a fully-specified scalar-or-fixed-lane pattern wildcard.
func Wild(t Type) Expr { return Variable{Typ: t, Name: "*"} }

// WildX constructs an AnyLanes pattern wildcard of the given scalar type:
// it matches a vector of code/bits with any lane count, unified across all
// AnyLanes wildcards participating in the same match.
func WildX(code Code, bits int) Expr {
	return Variable{Typ: Type{Code: code, Bits: bits, Lanes: 0}, Name: "*"}
}

// IntC constructs a signed integer constant of the given scalar type.
func IntC(t Type, v int64) Expr { return IntImm{Typ: t.WithLanes(1), Value: v} }

// UIntC constructs an unsigned integer constant of the given scalar type.
func UIntC(t Type, v uint64) Expr { return UIntImm{Typ: t.WithLanes(1), Value: v} }

// Equal reports structural equality of two expression trees: same node
// kind, same immediate data, and recursively equal children. It does not
// attempt alpha-renaming; two Variables are equal only if their names
// match. This is the "equal(a, b)" IR-equality helper the surrounding
// compiler would supply (spec's external alpha-equivalence helper),
// specialized here to plain structural equality since none of this
// module's callers need renaming-aware comparison.
func Equal(a, b Expr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case IntImm:
		y, ok := b.(IntImm)
		return ok && x.Typ == y.Typ && x.Value == y.Value
	case UIntImm:
		y, ok := b.(UIntImm)
		return ok && x.Typ == y.Typ && x.Value == y.Value
	case Variable:
		y, ok := b.(Variable)
		return ok && x.Typ == y.Typ && x.Name == y.Name
	case Cast:
		y, ok := b.(Cast)
		return ok && x.Typ == y.Typ && Equal(x.Value, y.Value)
	case Broadcast:
		y, ok := b.(Broadcast)
		return ok && x.Lanes == y.Lanes && Equal(x.Value, y.Value)
	case Ramp:
		y, ok := b.(Ramp)
		return ok && x.Lanes == y.Lanes && Equal(x.Base, y.Base) && Equal(x.Stride, y.Stride)
	case Add:
		y, ok := b.(Add)
		return ok && equalBin(x.binOp, y.binOp)
	case Sub:
		y, ok := b.(Sub)
		return ok && equalBin(x.binOp, y.binOp)
	case Mul:
		y, ok := b.(Mul)
		return ok && equalBin(x.binOp, y.binOp)
	case Div:
		y, ok := b.(Div)
		return ok && equalBin(x.binOp, y.binOp)
	case Mod:
		y, ok := b.(Mod)
		return ok && equalBin(x.binOp, y.binOp)
	case Min:
		y, ok := b.(Min)
		return ok && equalBin(x.binOp, y.binOp)
	case Max:
		y, ok := b.(Max)
		return ok && equalBin(x.binOp, y.binOp)
	case EQ:
		y, ok := b.(EQ)
		return ok && equalBin(x.binOp, y.binOp)
	case NE:
		y, ok := b.(NE)
		return ok && equalBin(x.binOp, y.binOp)
	case LT:
		y, ok := b.(LT)
		return ok && equalBin(x.binOp, y.binOp)
	case LE:
		y, ok := b.(LE)
		return ok && equalBin(x.binOp, y.binOp)
	case GT:
		y, ok := b.(GT)
		return ok && equalBin(x.binOp, y.binOp)
	case GE:
		y, ok := b.(GE)
		return ok && equalBin(x.binOp, y.binOp)
	case And:
		y, ok := b.(And)
		return ok && equalBin(x.binOp, y.binOp)
	case Or:
		y, ok := b.(Or)
		return ok && equalBin(x.binOp, y.binOp)
	case Not:
		y, ok := b.(Not)
		return ok && Equal(x.A, y.A)
	case Select:
		y, ok := b.(Select)
		return ok && Equal(x.Cond, y.Cond) && Equal(x.T, y.T) && Equal(x.F, y.F)
	case Load:
		y, ok := b.(Load)
		return ok && x.Typ == y.Typ && x.Name == y.Name && x.Image == y.Image &&
			x.Param == y.Param && Equal(x.Index, y.Index)
	case Call:
		y, ok := b.(Call)
		if !ok || x.Typ != y.Typ || x.Name != y.Name || x.Kind != y.Kind || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !Equal(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	case Let:
		y, ok := b.(Let)
		return ok && x.Name == y.Name && Equal(x.Value, y.Value) && Equal(x.Body, y.Body)
	default:
		return false
	}
}

func equalBin(a, b binOp) bool {
	return a.Typ == b.Typ && Equal(a.A, b.A) && Equal(a.B, b.B)
}
