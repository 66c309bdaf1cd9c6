// Command hvxdump exercises hexagon.OptimizeInstructions and
// hexagon.OptimizeShuffles against a handful of sample programs and
// prints each one before and after rewriting.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ajroetker/hvxpeep/internal/diag"
	"github.com/ajroetker/hvxpeep/ir"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "hvxdump",
		Short:         "Dump before/after HVX peephole rewrites for sample programs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newScenarioCmd("instructions",
		"Run PatternMatcher + InterleaveEliminator over sample programs", instructionScenarios))
	root.AddCommand(newScenarioCmd("shuffles",
		"Run BoundedShuffleRewriter over sample programs", shuffleScenarios))
	return root
}

func newScenarioCmd(use, short string, list func() []scenario) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			defer func() {
				if r := recover(); r != nil {
					fe, ok := r.(*ir.FatalError)
					if !ok {
						panic(r)
					}
					err = fmt.Errorf("hvxdump %s: %w", use, fe)
				}
			}()
			for _, s := range list() {
				after := s.Rewrite(s.Before)
				fmt.Fprint(cmd.OutOrStdout(), diag.BeforeAfter(s.Name, stmtStringer{s.Before}, stmtStringer{after}))
			}
			return nil
		},
	}
}

// stmtStringer adapts ir.Stmt to fmt.Stringer via diag.Stmt so
// diag.BeforeAfter, which prints either expressions or statements through
// the same Stringer parameter, can format either one uniformly.
type stmtStringer struct{ s ir.Stmt }

func (w stmtStringer) String() string { return diag.Stmt(w.s) }

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
