package ir

import "fmt"

// FatalError is the panic value raised for the fatal error class: an
// unsupported interleave lane width, a remove_interleave invariant
// violation, or a let-binding dead-code invariant violation. Recoverable
// conditions never produce a FatalError; they simply leave the offending
// expression unrewritten.
type FatalError struct {
	Expr Expr
	Msg  string
}

func (e *FatalError) Error() string {
	if e.Expr == nil {
		return fmt.Sprintf("hvxpeep: %s", e.Msg)
	}
	return fmt.Sprintf("hvxpeep: %s: %s", e.Msg, e.Expr)
}

// Fatalf panics with a *FatalError built from msg and the offending
// expression, naming the expression in the diagnostic as required by the
// "abort compilation with a diagnostic that names the offending
// expression" error contract.
func Fatalf(e Expr, msg string, args ...any) {
	panic(&FatalError{Expr: e, Msg: fmt.Sprintf(msg, args...)})
}
