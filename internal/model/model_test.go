package model

import (
	"math"
	"testing"
)

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantErr bool
	}{
		{"valid", Params{N: 10, Speed: 0.5, Steps: 20}, false},
		{"single node", Params{N: 1, Speed: 1, Steps: 1}, false},
		{"zero speed", Params{N: 10, Speed: 0, Steps: 5}, false},
		{"zero steps", Params{N: 10, Speed: 1, Steps: 0}, false},
		{"zero n", Params{N: 0, Speed: 1, Steps: 1}, true},
		{"negative n", Params{N: -5, Speed: 1, Steps: 1}, true},
		{"negative speed", Params{N: 10, Speed: -0.1, Steps: 1}, true},
		{"negative steps", Params{N: 10, Speed: 1, Steps: -1}, true},
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

func TestNew_RejectsInvalidParams(t *testing.T) {
	if _, err := New(Params{N: 0, Speed: 1, Steps: 1}); err == nil {
		t.Fatal("New() accepted n=0")
	}
	if _, err := New(Params{N: 10, Speed: -1, Steps: 1}); err == nil {
		t.Fatal("New() accepted negative speed")
	}
}

func TestRun_SeriesLengthAndOrdering(t *testing.T) {
	m, err := New(Params{N: 10, Speed: 0.5, Steps: 7, Seed: 1})
	if err != nil {
		t.Fatal(err)
	}
	series := m.Run()
	if len(series) != 8 {
		t.Fatalf("len(series) = %d, want steps+1 = 8", len(series))
	}
	// Sample 0 is measured before any edges exist.
	if series[0].ThreadsToButton != 0 {
		t.Errorf("series[0].ThreadsToButton = %v, want 0", series[0].ThreadsToButton)
	}
	if math.Abs(series[0].MaxClusterSize-0.1) > 1e-9 {
		t.Errorf("series[0].MaxClusterSize = %v, want 1/n = 0.1", series[0].MaxClusterSize)
	}
	for i, s := range series {
		if s.StepIndex != i {
			t.Errorf("series[%d].StepIndex = %d, want %d", i, s.StepIndex, i)
		}
	}
}

func TestRun_FinalThreadsRatio(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		want   float64
	}{
		{"n=10 speed=1 steps=1", Params{N: 10, Speed: 1, Steps: 1, Seed: 1}, 1.0},
		{"n=100 speed=0.05 steps=30", Params{N: 100, Speed: 0.05, Steps: 30, Seed: 1}, 1.5},
		{"fractional speed floors", Params{N: 10, Speed: 0.19, Steps: 5, Seed: 1}, 0.5}, // floor(1.9)=1 per step
		{"zero speed", Params{N: 10, Speed: 0, Steps: 50, Seed: 1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(tt.params)
			if err != nil {
				t.Fatal(err)
			}
			series := m.Run()
			got := series[len(series)-1].ThreadsToButton
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("final ThreadsToButton = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRun_ThreadsRatioMonotone(t *testing.T) {
	m, _ := New(Params{N: 50, Speed: 0.3, Steps: 40, Seed: 7})
	series := m.Run()
	for i := 1; i < len(series); i++ {
		if series[i].ThreadsToButton < series[i-1].ThreadsToButton {
			t.Fatalf("ThreadsToButton decreased at step %d: %v -> %v",
				i, series[i-1].ThreadsToButton, series[i].ThreadsToButton)
		}
	}
}

func TestRun_ZeroSpeed_ClusterStaysMinimal(t *testing.T) {
	m, _ := New(Params{N: 20, Speed: 0, Steps: 15, Seed: 3})
	for _, s := range m.Run() {
		if math.Abs(s.MaxClusterSize-0.05) > 1e-9 {
			t.Fatalf("MaxClusterSize = %v at step %d, want 1/n = 0.05", s.MaxClusterSize, s.StepIndex)
		}
	}
}

func TestRun_SingleNode_AlwaysFullCluster(t *testing.T) {
	m, _ := New(Params{N: 1, Speed: 5, Steps: 10, Seed: 9})
	for _, s := range m.Run() {
		if s.MaxClusterSize != 1 {
			t.Fatalf("MaxClusterSize = %v at step %d, want 1 for n=1", s.MaxClusterSize, s.StepIndex)
		}
	}
}

func TestRun_ClusterSizeInRange(t *testing.T) {
	m, _ := New(Params{N: 30, Speed: 0.4, Steps: 25, Seed: 11})
	for _, s := range m.Run() {
		if s.MaxClusterSize <= 0 || s.MaxClusterSize > 1 {
			t.Fatalf("MaxClusterSize = %v at step %d, want (0, 1]", s.MaxClusterSize, s.StepIndex)
		}
	}
}

func TestRun_DeterministicUnderFixedSeed(t *testing.T) {
	params := Params{N: 40, Speed: 0.25, Steps: 30, Seed: 12345}
	m1, _ := New(params)
	m2, _ := New(params)
	s1 := m1.Run()
	s2 := m2.Run()
	if len(s1) != len(s2) {
		t.Fatalf("series lengths differ: %d vs %d", len(s1), len(s2))
	}
	for i := range s1 {
		if s1[i] != s2[i] {
			t.Fatalf("series diverge at step %d: %+v vs %+v", i, s1[i], s2[i])
		}
	}
}

func TestRun_DifferentSeedsDiverge(t *testing.T) {
	// Not guaranteed for any single step, but over a full run two seeds
	// producing identical series would indicate a broken RNG injection.
	m1, _ := New(Params{N: 40, Speed: 0.25, Steps: 30, Seed: 1})
	m2, _ := New(Params{N: 40, Speed: 0.25, Steps: 30, Seed: 2})
	s1 := m1.Run()
	s2 := m2.Run()
	same := true
	for i := range s1 {
		if s1[i] != s2[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different seeds produced identical series")
	}
}

func TestRun_DenseStep_GiantClusterDominates(t *testing.T) {
	// n=10, speed=1, steps=1: ten random edges over ten nodes. Full
	// connectivity is actually rare here (draws with replacement waste
	// edges on loops and repeats), but a cluster spanning at least half
	// the nodes is near-certain. Assert that in >= 90% of trials, plus
	// the exact threads ratio.
	const trials = 200
	majority := 0
	var meanCluster float64
	for seed := int64(0); seed < trials; seed++ {
		m, _ := New(Params{N: 10, Speed: 1, Steps: 1, Seed: seed})
		series := m.Run()
		final := series[len(series)-1]
		if final.ThreadsToButton != 1.0 {
			t.Fatalf("seed %d: final ThreadsToButton = %v, want 1.0", seed, final.ThreadsToButton)
		}
		meanCluster += final.MaxClusterSize
		if final.MaxClusterSize >= 0.5 {
			majority++
		}
	}
	if float64(majority)/trials < 0.90 {
		t.Errorf("majority cluster in %d/%d trials, want >= 90%%", majority, trials)
	}
	if meanCluster/trials < 0.6 {
		t.Errorf("mean final cluster fraction = %v, want >= 0.6", meanCluster/trials)
	}
}

func TestRun_PercolationTransition(t *testing.T) {
	// n=100, speed=0.05, steps=30: the giant component should emerge around
	// threads/n ~= 0.5. Check coarse endpoints rather than the exact curve:
	// small cluster while threads/n is low, near-full once it reaches 1.5.
	// Averaged over seeds to keep the test stable.
	const trials = 50
	var early, late float64
	for seed := int64(0); seed < trials; seed++ {
		m, _ := New(Params{N: 100, Speed: 0.05, Steps: 30, Seed: seed})
		series := m.Run()
		early += series[4].MaxClusterSize // threads/n = 0.2
		late += series[30].MaxClusterSize // threads/n = 1.5
	}
	early /= trials
	late /= trials
	if early > 0.3 {
		t.Errorf("mean cluster fraction at threads/n=0.2 is %v, want small (< 0.3)", early)
	}
	if late < 0.8 {
		t.Errorf("mean cluster fraction at threads/n=1.5 is %v, want near 1 (> 0.8)", late)
	}
}

func TestEdgesPerStep(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		want   int
	}{
		{"exact", Params{N: 100, Speed: 0.05}, 5},
		{"floors down", Params{N: 10, Speed: 0.19}, 1},
		{"zero", Params{N: 10, Speed: 0}, 0},
		{"above one", Params{N: 10, Speed: 2.5}, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.params.EdgesPerStep(); got != tt.want {
				t.Errorf("EdgesPerStep() = %d, want %d", got, tt.want)
			}
		})
	}
}
