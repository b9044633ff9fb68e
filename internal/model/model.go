// Package model implements the Kauffman "buttons and threads" percolation
// model: a fixed set of nodes, a batch of uniformly random edges added each
// step, and a per-step measurement of the largest connected component.
package model

import (
	"fmt"
	"math/rand"

	"percolate/internal/graph"
)

// Params configures a single simulation run.
type Params struct {
	N     int     `json:"n"`     // number of nodes, fixed for the run
	Speed float64 `json:"speed"` // edges added per node per step
	Steps int     `json:"steps"` // number of edge-addition steps
	Seed  int64   `json:"seed"`  // seed for the run's private RNG
}

// Validate reports the first invalid field, or nil. Validation happens
// before any step executes; a run never partially executes on bad input.
func (p Params) Validate() error {
	if p.N <= 0 {
		return fmt.Errorf("invalid n %d: must be a positive integer", p.N)
	}
	if p.Speed < 0 {
		return fmt.Errorf("invalid speed %g: must be non-negative", p.Speed)
	}
	if p.Steps < 0 {
		return fmt.Errorf("invalid steps %d: must be non-negative", p.Steps)
	}
	return nil
}

// EdgesPerStep returns floor(n * speed), the batch size of each step.
func (p Params) EdgesPerStep() int {
	return int(float64(p.N) * p.Speed)
}

// Sample is one measurement of the run's time series.
type Sample struct {
	StepIndex       int     `json:"step"`
	MaxClusterSize  float64 `json:"max_cluster_size"`  // largest component / n, in (0, 1]
	ThreadsToButton float64 `json:"threads_to_button"` // edges so far / n, non-decreasing
}

// Series is the ordered, append-only record of one run: steps+1 samples,
// where sample t reflects the graph produced by step t-1 and sample 0
// reflects the empty graph.
type Series []Sample

// Model holds the mutable state of one run. It is not safe for concurrent
// use; each trial owns exactly one Model.
type Model struct {
	params  Params
	rng     *rand.Rand
	net     *graph.Graph
	threads int
}

// New creates a model with n disconnected nodes and its own RNG seeded from
// params. Returns a configuration error for invalid params.
func New(params Params) (*Model, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Model{
		params: params,
		rng:    rand.New(rand.NewSource(params.Seed)),
		net:    graph.New(params.N),
	}, nil
}

// Step adds floor(n*speed) edges. Both endpoints of each edge are drawn
// independently and uniformly with replacement, so self-loops and repeat
// pairs are possible; they under-count distinct connections but are kept
// for fidelity to the original model.
func (m *Model) Step() {
	k := m.params.EdgesPerStep()
	for i := 0; i < k; i++ {
		a := m.rng.Intn(m.params.N)
		b := m.rng.Intn(m.params.N)
		m.net.AddEdge(a, b)
	}
	m.threads += k
}

// Measure records the current state without mutating it.
func (m *Model) Measure(stepIndex int) Sample {
	return Sample{
		StepIndex:       stepIndex,
		MaxClusterSize:  float64(m.net.LargestComponent()) / float64(m.params.N),
		ThreadsToButton: float64(m.threads) / float64(m.params.N),
	}
}

// Threads returns the total number of edges added so far.
func (m *Model) Threads() int {
	return m.threads
}

// Run executes the full measure-then-step loop and returns the series.
// Measurement precedes edge addition, so the series has steps+1 samples
// and the final sample reflects the last step's edges.
func (m *Model) Run() Series {
	series := make(Series, 0, m.params.Steps+1)
	for t := 0; t < m.params.Steps; t++ {
		series = append(series, m.Measure(t))
		m.Step()
	}
	series = append(series, m.Measure(m.params.Steps))
	return series
}
