package binder

import (
	"log/slog"

	"golang.org/x/sync/errgroup"

	"uibind-go/packages/compiler/src/config"
	"uibind-go/packages/compiler/src/typeoracle"
)

// Outcome is the result of one unit of a batch
type Outcome struct {
	Unit   *Unit
	Result *Result
	Err    error
}

// CompileAll compiles independent units concurrently, at most cfg.Workers at
// a time. Outcomes are returned in the order of units; a failing unit does
// not affect the others.
func CompileAll(oracle typeoracle.Oracle, units []*Unit, cfg *config.CompilerConfig) []Outcome {
	if cfg == nil {
		cfg = config.NewCompilerConfig()
	}
	workers := max(cfg.Workers, 1)
	outcomes := make([]Outcome, len(units))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, unit := range units {
		g.Go(func() error {
			res, err := Compile(oracle, unit, cfg)
			outcomes[i] = Outcome{Unit: unit, Result: res, Err: err}
			return nil
		})
	}
	// Unit failures live in the outcomes; the group itself never fails.
	_ = g.Wait()

	if cfg.Logger != nil {
		failed := 0
		for _, o := range outcomes {
			if o.Err != nil {
				failed++
			}
		}
		cfg.Logger.Info("compiled templates", slog.Int("units", len(units)), slog.Int("failed", failed), slog.Int("workers", workers))
	}
	return outcomes
}
