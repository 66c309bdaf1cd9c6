package ir

// ExprFn rewrites a single expression node; it is what every rewriter in
// this module passes down to MutateChildren as its recursion callback.
type ExprFn func(Expr) Expr

// StmtFn rewrites a single statement node.
type StmtFn func(Stmt) Stmt

// MutateChildren rebuilds e with each direct child expression replaced by
// fn(child). It is the "default recursive descent" every rewriter falls
// back to for node kinds it does not special-case, standing in for the
// base-class visit() implementation a class-hierarchy mutator would
// inherit. Expr values are immutable, so unlike the teacher's reference
// counted IR this always allocates a fresh node rather than returning the
// original when nothing changed; every rewriter in this module is written
// so that is never more than a constant-factor cost, never a correctness
// concern.
func MutateChildren(e Expr, fn ExprFn) Expr {
	switch n := e.(type) {
	case IntImm, UIntImm, Variable:
		return e
	case Cast:
		return Cast{Typ: n.Typ, Value: fn(n.Value)}
	case Broadcast:
		return Broadcast{Value: fn(n.Value), Lanes: n.Lanes}
	case Ramp:
		return Ramp{Base: fn(n.Base), Stride: fn(n.Stride), Lanes: n.Lanes}
	case Add:
		return Add{mutateBin(n.binOp, fn)}
	case Sub:
		return Sub{mutateBin(n.binOp, fn)}
	case Mul:
		return Mul{mutateBin(n.binOp, fn)}
	case Div:
		return Div{mutateBin(n.binOp, fn)}
	case Mod:
		return Mod{mutateBin(n.binOp, fn)}
	case Min:
		return Min{mutateBin(n.binOp, fn)}
	case Max:
		return Max{mutateBin(n.binOp, fn)}
	case EQ:
		return EQ{mutateBin(n.binOp, fn)}
	case NE:
		return NE{mutateBin(n.binOp, fn)}
	case LT:
		return LT{mutateBin(n.binOp, fn)}
	case LE:
		return LE{mutateBin(n.binOp, fn)}
	case GT:
		return GT{mutateBin(n.binOp, fn)}
	case GE:
		return GE{mutateBin(n.binOp, fn)}
	case And:
		return And{mutateBin(n.binOp, fn)}
	case Or:
		return Or{mutateBin(n.binOp, fn)}
	case Not:
		return Not{Typ: n.Typ, A: fn(n.A)}
	case Select:
		return Select{Typ: n.Typ, Cond: fn(n.Cond), T: fn(n.T), F: fn(n.F)}
	case Load:
		return Load{Typ: n.Typ, Name: n.Name, Index: fn(n.Index), Image: n.Image, Param: n.Param}
	case Call:
		args := make([]Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = fn(a)
		}
		return Call{Typ: n.Typ, Name: n.Name, Args: args, Kind: n.Kind}
	case Let:
		return Let{Name: n.Name, Value: fn(n.Value), Body: fn(n.Body)}
	default:
		panic(&FatalError{Expr: e, Msg: "MutateChildren: unhandled expression kind"})
	}
}

func mutateBin(b binOp, fn ExprFn) binOp {
	return binOp{Typ: b.Typ, A: fn(b.A), B: fn(b.B)}
}

// MutateStmtChildren rebuilds s with its child expressions and statements
// replaced by fe/fs, the statement analogue of MutateChildren.
func MutateStmtChildren(s Stmt, fe ExprFn, fs StmtFn) Stmt {
	switch n := s.(type) {
	case LetStmt:
		return LetStmt{Name: n.Name, Value: fe(n.Value), Body: fs(n.Body)}
	case Block:
		stmts := make([]Stmt, len(n.Stmts))
		for i, st := range n.Stmts {
			stmts[i] = fs(st)
		}
		return Block{Stmts: stmts}
	case Store:
		return Store{Name: n.Name, Index: fe(n.Index), Value: fe(n.Value)}
	case Evaluate:
		return Evaluate{Value: fe(n.Value)}
	default:
		panic(&FatalError{Msg: "MutateStmtChildren: unhandled statement kind"})
	}
}
