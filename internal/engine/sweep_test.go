package engine

import (
	"context"
	"math"
	"testing"

	"percolate/internal/model"
)

func TestSweepParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		params  SweepParams
		wantErr bool
	}{
		{"valid", SweepParams{NValues: []int{10, 20}, Speed: 0.5, Steps: 10, Trials: 3}, false},
		{"empty grid", SweepParams{Speed: 0.5, Steps: 10, Trials: 3}, true},
		{"bad n in grid", SweepParams{NValues: []int{10, 0}, Speed: 0.5, Steps: 10, Trials: 3}, true},
		{"negative speed", SweepParams{NValues: []int{10}, Speed: -1, Steps: 10, Trials: 3}, true},
		{"zero trials", SweepParams{NValues: []int{10}, Speed: 0.5, Steps: 10, Trials: 0}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTrialSeed_DistinctPerCell(t *testing.T) {
	p := SweepParams{NValues: []int{10, 20, 30}, Trials: 5, Seed: 100}
	seen := make(map[int64]bool)
	for ni := range p.NValues {
		for trial := 0; trial < p.Trials; trial++ {
			s := p.TrialSeed(ni, trial)
			if seen[s] {
				t.Fatalf("seed %d reused at n index %d trial %d", s, ni, trial)
			}
			seen[s] = true
		}
	}
}

func TestSweep_OneResultPerCell(t *testing.T) {
	params := SweepParams{NValues: []int{10, 25, 50}, Speed: 0.2, Steps: 15, Trials: 4, Seed: 42}
	results, err := NewRunner().Sweep(context.Background(), params, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 12 {
		t.Fatalf("got %d results, want 12", len(results))
	}
	for i, r := range results {
		wantN := params.NValues[i/params.Trials]
		wantTrial := i % params.Trials
		if r.N != wantN || r.Trial != wantTrial {
			t.Errorf("results[%d] = (n=%d, trial=%d), want (n=%d, trial=%d)", i, r.N, r.Trial, wantN, wantTrial)
		}
		if len(r.Series) != params.Steps+1 {
			t.Errorf("results[%d] has %d samples, want %d", i, len(r.Series), params.Steps+1)
		}
	}
}

func TestSweep_DeterministicAcrossRuns(t *testing.T) {
	params := SweepParams{NValues: []int{20, 40}, Speed: 0.3, Steps: 20, Trials: 6, Seed: 7}
	r := NewRunner()
	first, err := r.Sweep(context.Background(), params, nil)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Sweep(context.Background(), params, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := range first {
		if first[i].Seed != second[i].Seed {
			t.Fatalf("results[%d] seeds differ: %d vs %d", i, first[i].Seed, second[i].Seed)
		}
		for j := range first[i].Series {
			if first[i].Series[j] != second[i].Series[j] {
				t.Fatalf("results[%d] diverge at step %d", i, j)
			}
		}
	}
}

func TestSweep_InvalidParamsFailFast(t *testing.T) {
	_, err := NewRunner().Sweep(context.Background(), SweepParams{NValues: []int{0}, Trials: 1}, nil)
	if err == nil {
		t.Fatal("Sweep() accepted n=0")
	}
}

func TestSweep_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRunner().Sweep(ctx, SweepParams{NValues: []int{10}, Speed: 0.1, Steps: 5, Trials: 2, Seed: 1}, nil)
	if err == nil {
		t.Fatal("Sweep() ignored cancelled context")
	}
}

func TestSweep_ProgressReported(t *testing.T) {
	var messages []string
	params := SweepParams{NValues: []int{10}, Speed: 0.1, Steps: 5, Trials: 2, Seed: 1}
	_, err := NewRunner().Sweep(context.Background(), params, func(msg string) {
		messages = append(messages, msg)
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(messages) == 0 {
		t.Error("no progress messages reported")
	}
}

func TestSweep_BoundedConcurrencyStillCompletes(t *testing.T) {
	params := SweepParams{NValues: []int{10, 20}, Speed: 0.2, Steps: 10, Trials: 5, Seed: 3}
	r := &Runner{Concurrency: 1}
	results, err := r.Sweep(context.Background(), params, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 10 {
		t.Fatalf("got %d results, want 10", len(results))
	}
}

func TestSweep_FinalRatioMatchesFormula(t *testing.T) {
	params := SweepParams{NValues: []int{100}, Speed: 0.05, Steps: 30, Trials: 3, Seed: 5}
	results, err := NewRunner().Sweep(context.Background(), params, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := float64((model.Params{N: 100, Speed: 0.05}).EdgesPerStep()*30) / 100
	for _, r := range results {
		got := r.Series[len(r.Series)-1].ThreadsToButton
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("trial %d final ratio = %v, want %v", r.Trial, got, want)
		}
	}
}
