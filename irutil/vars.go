package irutil

import "github.com/ajroetker/hvxpeep/ir"

// ExprUsesVar reports whether name is referenced anywhere in e.
func ExprUsesVar(e ir.Expr, name string) bool {
	found := false
	var walk ir.ExprFn
	walk = func(n ir.Expr) ir.Expr {
		if found {
			return n
		}
		if v, ok := n.(ir.Variable); ok && v.Name == name {
			found = true
			return n
		}
		ir.MutateChildren(n, walk)
		return n
	}
	walk(e)
	return found
}

// StmtUsesVar reports whether name is referenced anywhere in s.
func StmtUsesVar(s ir.Stmt, name string) bool {
	found := false
	var walkExpr ir.ExprFn
	walkExpr = func(n ir.Expr) ir.Expr {
		if !found && ExprUsesVar(n, name) {
			found = true
		}
		return n
	}
	var walkStmt ir.StmtFn
	walkStmt = func(n ir.Stmt) ir.Stmt {
		if found {
			return n
		}
		ir.MutateStmtChildren(n, walkExpr, walkStmt)
		return n
	}
	walkStmt(s)
	return found
}

// Substitute replaces every free occurrence of a variable named name in
// body with value.
func Substitute(name string, value ir.Expr, body ir.Expr) ir.Expr {
	if v, ok := body.(ir.Variable); ok && v.Name == name {
		return value
	}
	if let, ok := body.(ir.Let); ok {
		newValue := Substitute(name, value, let.Value)
		if let.Name == name {
			return ir.NewLet(let.Name, newValue, let.Body)
		}
		return ir.NewLet(let.Name, newValue, Substitute(name, value, let.Body))
	}
	return ir.MutateChildren(body, func(c ir.Expr) ir.Expr { return Substitute(name, value, c) })
}
