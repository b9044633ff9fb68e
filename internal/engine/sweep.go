package engine

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"percolate/internal/model"
)

// Runner executes parameter sweeps. Trials are independent runs with no
// shared mutable state, so they fan out across a bounded worker pool.
type Runner struct {
	// Concurrency limits parallel trials; <= 0 means GOMAXPROCS.
	Concurrency int
}

// NewRunner creates a Runner with the default concurrency limit.
func NewRunner() *Runner {
	return &Runner{}
}

// Sweep runs Trials seeded runs for every node count in the grid and returns
// one TrialResult per run, ordered by (n index, trial). Each trial owns its
// own model instance and writes exactly one pre-allocated result slot, so no
// synchronization beyond the group wait is needed. progress may be nil.
func (r *Runner) Sweep(ctx context.Context, params SweepParams, progress func(string)) ([]TrialResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if progress == nil {
		progress = func(string) {}
	}

	total := len(params.NValues) * params.Trials
	results := make([]TrialResult, total)

	limit := r.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	progress(fmt.Sprintf("Running %d trials across %d node counts...", total, len(params.NValues)))

	for ni, n := range params.NValues {
		for trial := 0; trial < params.Trials; trial++ {
			slot := ni*params.Trials + trial
			seed := params.TrialSeed(ni, trial)
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				m, err := model.New(model.Params{
					N:     n,
					Speed: params.Speed,
					Steps: params.Steps,
					Seed:  seed,
				})
				if err != nil {
					return fmt.Errorf("trial %d for n=%d: %w", trial, n, err)
				}
				results[slot] = TrialResult{
					N:      n,
					Trial:  trial,
					Seed:   seed,
					Series: m.Run(),
				}
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	progress(fmt.Sprintf("Completed %d trials", total))
	return results, nil
}
