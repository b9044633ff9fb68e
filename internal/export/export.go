// Package export writes completed experiments to plain-file experiment
// directories ({dir}/{name}_{id}/) so results can be fed to external
// plotting tools, and reads them back. Ids auto-increment per name.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"percolate/internal/engine"
	"percolate/internal/model"
)

// Data is everything one experiment directory holds.
type Data struct {
	Name    string               `json:"name"`
	SavedAt string               `json:"saved_at"`
	Params  engine.SweepParams   `json:"params"`
	Results []engine.TrialResult `json:"-"`
	Curves  []engine.Curve       `json:"-"`
}

// sanitizeName makes an experiment name safe as a directory component.
func sanitizeName(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
}

// LastID returns the highest existing id for experiment directories named
// {name}_{id} under dir, or 0 when none exist.
func LastID(dir, name string) int {
	name = sanitizeName(name)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	last := 0
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), name+"_") {
			continue
		}
		id, err := strconv.Atoi(e.Name()[len(name)+1:])
		if err != nil {
			continue
		}
		if id > last {
			last = id
		}
	}
	return last
}

// Save writes a new experiment directory and returns its path.
// Files: samples.csv (per-trial series), aggregate.csv (per-n curves),
// parameters.json, log.json.
func Save(dir string, data *Data) (string, error) {
	name := sanitizeName(data.Name)
	if name == "" {
		return "", fmt.Errorf("experiment name must not be empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	id := LastID(dir, name) + 1
	path := filepath.Join(dir, fmt.Sprintf("%s_%d", name, id))
	if err := os.Mkdir(path, 0755); err != nil {
		return "", fmt.Errorf("create experiment dir: %w", err)
	}

	if err := writeSamples(filepath.Join(path, "samples.csv"), data.Results); err != nil {
		return "", err
	}
	if err := writeAggregate(filepath.Join(path, "aggregate.csv"), data.Curves); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(path, "parameters.json"), data.Params); err != nil {
		return "", err
	}
	logEntry := map[string]interface{}{
		"name":     data.Name,
		"saved_at": time.Now().Format(time.RFC3339),
		"trials":   len(data.Results),
	}
	if err := writeJSON(filepath.Join(path, "log.json"), logEntry); err != nil {
		return "", err
	}
	return path, nil
}

// Load reads an experiment directory back. id <= 0 loads the latest.
func Load(dir, name string, id int) (*Data, error) {
	name = sanitizeName(name)
	if id <= 0 {
		id = LastID(dir, name)
		if id == 0 {
			return nil, fmt.Errorf("no experiment named %q in %s", name, dir)
		}
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_%d", name, id))

	data := &Data{Name: name}

	raw, err := os.ReadFile(filepath.Join(path, "parameters.json"))
	if err != nil {
		return nil, fmt.Errorf("read parameters: %w", err)
	}
	if err := json.Unmarshal(raw, &data.Params); err != nil {
		return nil, fmt.Errorf("parse parameters: %w", err)
	}

	if raw, err := os.ReadFile(filepath.Join(path, "log.json")); err == nil {
		var logEntry struct {
			Name    string `json:"name"`
			SavedAt string `json:"saved_at"`
		}
		if json.Unmarshal(raw, &logEntry) == nil {
			if logEntry.Name != "" {
				data.Name = logEntry.Name
			}
			data.SavedAt = logEntry.SavedAt
		}
	}

	data.Results, err = readSamples(filepath.Join(path, "samples.csv"))
	if err != nil {
		return nil, err
	}
	data.Curves = engine.Aggregate(data.Results)
	return data, nil
}

func writeJSON(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeSamples(path string, results []engine.TrialResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create samples.csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Write([]string{"n", "trial", "seed", "step", "max_cluster_size", "threads_to_button"})
	for _, r := range results {
		for _, s := range r.Series {
			w.Write([]string{
				strconv.Itoa(r.N),
				strconv.Itoa(r.Trial),
				strconv.FormatInt(r.Seed, 10),
				strconv.Itoa(s.StepIndex),
				strconv.FormatFloat(s.MaxClusterSize, 'g', -1, 64),
				strconv.FormatFloat(s.ThreadsToButton, 'g', -1, 64),
			})
		}
	}
	w.Flush()
	return w.Error()
}

func writeAggregate(path string, curves []engine.Curve) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create aggregate.csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Write([]string{"n", "step", "threads_to_button", "mean_cluster", "min_cluster", "max_cluster"})
	for _, c := range curves {
		for _, p := range c.Points {
			w.Write([]string{
				strconv.Itoa(c.N),
				strconv.Itoa(p.StepIndex),
				strconv.FormatFloat(p.ThreadsToButton, 'g', -1, 64),
				strconv.FormatFloat(p.MeanCluster, 'g', -1, 64),
				strconv.FormatFloat(p.MinCluster, 'g', -1, 64),
				strconv.FormatFloat(p.MaxCluster, 'g', -1, 64),
			})
		}
	}
	w.Flush()
	return w.Error()
}

func readSamples(path string) ([]engine.TrialResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open samples.csv: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read samples.csv: %w", err)
	}

	var results []engine.TrialResult
	var cur *engine.TrialResult
	for i, row := range rows {
		if i == 0 || len(row) != 6 {
			continue // header
		}
		n, _ := strconv.Atoi(row[0])
		trial, _ := strconv.Atoi(row[1])
		seed, _ := strconv.ParseInt(row[2], 10, 64)
		step, _ := strconv.Atoi(row[3])
		cluster, _ := strconv.ParseFloat(row[4], 64)
		threads, _ := strconv.ParseFloat(row[5], 64)

		if cur == nil || cur.N != n || cur.Trial != trial {
			results = append(results, engine.TrialResult{N: n, Trial: trial, Seed: seed})
			cur = &results[len(results)-1]
		}
		cur.Series = append(cur.Series, model.Sample{
			StepIndex:       step,
			MaxClusterSize:  cluster,
			ThreadsToButton: threads,
		})
	}
	return results, nil
}
