// Package experiment loads headless experiment definitions from YAML files.
// A definition names one sweep; the -experiment flag runs it and exits.
package experiment

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"percolate/internal/engine"
)

// Definition is the on-disk shape of an experiment file.
type Definition struct {
	// Name labels the experiment in the database and export directory.
	Name string `yaml:"name"`

	// NValues is the node-count grid to sweep.
	NValues []int `yaml:"n_values"`

	// Speed is the edge-addition rate per node per step.
	Speed float64 `yaml:"speed"`

	// Steps is the number of edge-addition steps per run.
	Steps int `yaml:"steps"`

	// Trials is the number of seeded runs per node count.
	Trials int `yaml:"trials"`

	// Seed is the base seed; each trial derives its own offset from it.
	Seed int64 `yaml:"seed"`

	// Export writes an experiment directory after the sweep completes.
	Export bool `yaml:"export"`
}

// Load reads and validates an experiment definition.
func Load(path string) (*Definition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read experiment file: %w", err)
	}
	var def Definition
	if err := yaml.Unmarshal(raw, &def); err != nil {
		return nil, fmt.Errorf("parse experiment file: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("experiment %s: %w", path, err)
	}
	return &def, nil
}

// Validate checks the definition the same way a sweep request is checked.
func (d *Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("name must not be empty")
	}
	return d.SweepParams().Validate()
}

// SweepParams converts the definition into engine parameters.
func (d *Definition) SweepParams() engine.SweepParams {
	return engine.SweepParams{
		NValues: d.NValues,
		Speed:   d.Speed,
		Steps:   d.Steps,
		Trials:  d.Trials,
		Seed:    d.Seed,
	}
}
