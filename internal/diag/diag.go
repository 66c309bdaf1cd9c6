// Package diag formats IR trees and before/after rewrite pairs for
// hvxdump and for tests that want a readable failure message instead of
// %#v dumps of unexported fields.
package diag

import (
	"fmt"
	"strings"

	"github.com/ajroetker/hvxpeep/ir"
)

// Expr renders e using its own String method, falling back to "<nil>" so
// callers never have to special-case a nil expression before printing it.
func Expr(e ir.Expr) string {
	if e == nil {
		return "<nil>"
	}
	return e.String()
}

// Stmt renders s the same way, for statement-level dumps.
func Stmt(s ir.Stmt) string {
	if s == nil {
		return "<nil>"
	}
	return fmt.Sprint(s)
}

// BeforeAfter formats a rewrite as a two-line "before:"/"after:" block
// under a title, the shape hvxdump prints for each scenario it runs.
func BeforeAfter(title string, before, after fmt.Stringer) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", title)
	fmt.Fprintf(&b, "  before: %s\n", before)
	fmt.Fprintf(&b, "  after:  %s\n", after)
	return b.String()
}
