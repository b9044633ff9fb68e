package engine

import (
	"fmt"

	"percolate/internal/model"
)

// SweepParams describes one experiment: a grid of node counts, a fixed
// speed/steps configuration, and a number of seeded trials per grid value.
type SweepParams struct {
	NValues []int   `json:"n_values"`
	Speed   float64 `json:"speed"`
	Steps   int     `json:"steps"`
	Trials  int     `json:"trials"`
	Seed    int64   `json:"seed"`
}

// Validate reports the first invalid field, or nil.
func (p SweepParams) Validate() error {
	if len(p.NValues) == 0 {
		return fmt.Errorf("n_values must not be empty")
	}
	for _, n := range p.NValues {
		if err := (model.Params{N: n, Speed: p.Speed, Steps: p.Steps}).Validate(); err != nil {
			return err
		}
	}
	if p.Trials <= 0 {
		return fmt.Errorf("invalid trials %d: must be a positive integer", p.Trials)
	}
	return nil
}

// TrialSeed returns the seed for trial index trial of node-count index nIndex.
// Each sweep cell gets a distinct, reproducible offset from the base seed.
func (p SweepParams) TrialSeed(nIndex, trial int) int64 {
	return p.Seed + int64(nIndex*p.Trials+trial)
}

// TrialResult is one complete run: the series recorded by a single model
// instance for a fixed (n, trial) cell of the sweep.
type TrialResult struct {
	N      int          `json:"n"`
	Trial  int          `json:"trial"`
	Seed   int64        `json:"seed"`
	Series model.Series `json:"series"`
}

// CurvePoint is one aggregated sample of a percolation curve: cluster-size
// statistics across all trials of one n at the same step.
type CurvePoint struct {
	StepIndex       int     `json:"step"`
	ThreadsToButton float64 `json:"threads_to_button"`
	MeanCluster     float64 `json:"mean_cluster"`
	MinCluster      float64 `json:"min_cluster"`
	MaxCluster      float64 `json:"max_cluster"`
}

// Curve is the aggregated percolation curve for one node count.
// Threshold is the first threads/node ratio at which the mean cluster
// fraction reaches 0.5, or -1 if the sweep never got there.
type Curve struct {
	N         int          `json:"n"`
	Trials    int          `json:"trials"`
	Points    []CurvePoint `json:"points"`
	Threshold float64      `json:"threshold"`
}
