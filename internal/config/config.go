package config

// Config holds application settings (in-memory representation).
// Persistence is handled by internal/db package.
type Config struct {
	// Default sweep shape used when a request leaves fields unset.
	NValues []int   `json:"n_values"`
	Speed   float64 `json:"speed"`
	Steps   int     `json:"steps"`
	Trials  int     `json:"trials"`
	Seed    int64   `json:"seed"`

	// Concurrency limits parallel trials; 0 = one per CPU.
	Concurrency int `json:"concurrency"`

	// ExportDir is where experiment directories are written.
	ExportDir string `json:"export_dir"`

	// HistoryLimit caps how many experiments the history endpoints return.
	HistoryLimit int `json:"history_limit"`
}

// Default returns a Config with sensible defaults. The sweep defaults
// reproduce the classic demonstration: a slow edge trickle past the
// percolation threshold for a few network sizes.
func Default() *Config {
	return &Config{
		NValues:      []int{100, 500, 1000},
		Speed:        0.05,
		Steps:        30,
		Trials:       25,
		Seed:         42,
		ExportDir:    "output",
		HistoryLimit: 50,
	}
}

// FillSweepDefaults copies config defaults into zero-valued sweep fields.
// Returns the values to use for a run request.
func (c *Config) FillSweepDefaults(nValues []int, speed float64, steps, trials int, seed int64) ([]int, float64, int, int, int64) {
	if len(nValues) == 0 {
		nValues = append([]int(nil), c.NValues...)
	}
	if speed == 0 {
		speed = c.Speed
	}
	if steps == 0 {
		steps = c.Steps
	}
	if trials == 0 {
		trials = c.Trials
	}
	if seed == 0 {
		seed = c.Seed
	}
	return nValues, speed, steps, trials, seed
}
