package hexagon

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ajroetker/hvxpeep/ir"
)

func mutateStmtWithExpr(s ir.Stmt, fe ir.ExprFn) ir.Stmt {
	var walk ir.StmtFn
	walk = func(st ir.Stmt) ir.Stmt { return ir.MutateStmtChildren(st, fe, walk) }
	return walk(s)
}

// OptimizeInstructions applies PatternMatcher followed by
// InterleaveEliminator to s.
func OptimizeInstructions(s ir.Stmt) ir.Stmt {
	pm := NewPatternMatcher()
	matched := mutateStmtWithExpr(s, pm.MutateExpr)
	return NewInterleaveEliminator().MutateStmt(matched)
}

// OptimizeShuffles applies BoundedShuffleRewriter to s.
func OptimizeShuffles(s ir.Stmt) ir.Stmt {
	return NewBoundedShuffleRewriter().MutateStmt(s)
}

// OptimizeAll runs both passes across stmts concurrently, one goroutine
// per statement, since no mutator state crosses statement boundaries. A
// fatal error (a recovered *ir.FatalError panic) from any statement
// cancels the remaining work and is returned: a statement whose goroutine
// has not yet begun rewriting when the group's context is cancelled is
// skipped, while one already being rewritten runs to completion. The
// result slice is only valid when err is nil.
func OptimizeAll(ctx context.Context, stmts []ir.Stmt) ([]ir.Stmt, error) {
	out := make([]ir.Stmt, len(stmts))
	g, gctx := errgroup.WithContext(ctx)
	for i, s := range stmts {
		i, s := i, s
		g.Go(func() (err error) {
			if cerr := gctx.Err(); cerr != nil {
				return cerr
			}
			defer func() {
				if r := recover(); r != nil {
					fe, ok := r.(*ir.FatalError)
					if !ok {
						panic(r)
					}
					err = fmt.Errorf("hexagon: statement %d: %w", i, fe)
				}
			}()
			out[i] = OptimizeShuffles(OptimizeInstructions(s))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
