package db

import (
	"log"

	"percolate/internal/engine"
	"percolate/internal/model"
)

// InsertTrialResults bulk-inserts trial runs and their sample series,
// linked to an experiment record. Best-effort: persistence failures are
// logged, never fatal to the sweep that produced the data.
func (d *DB) InsertTrialResults(experimentID int64, results []engine.TrialResult) {
	if experimentID == 0 || len(results) == 0 {
		return
	}

	tx, err := d.sql.Begin()
	if err != nil {
		log.Printf("[DB] InsertTrialResults begin tx: %v", err)
		return
	}

	runStmt, err := tx.Prepare(`INSERT INTO trial_runs (experiment_id, n, trial, seed) VALUES (?,?,?,?)`)
	if err != nil {
		tx.Rollback()
		log.Printf("[DB] InsertTrialResults prepare runs: %v", err)
		return
	}
	defer runStmt.Close()

	sampleStmt, err := tx.Prepare(`INSERT INTO samples (run_id, step, max_cluster_size, threads_to_button) VALUES (?,?,?,?)`)
	if err != nil {
		tx.Rollback()
		log.Printf("[DB] InsertTrialResults prepare samples: %v", err)
		return
	}
	defer sampleStmt.Close()

	for _, r := range results {
		res, err := runStmt.Exec(experimentID, r.N, r.Trial, r.Seed)
		if err != nil {
			continue
		}
		runID, _ := res.LastInsertId()
		for _, s := range r.Series {
			sampleStmt.Exec(runID, s.StepIndex, s.MaxClusterSize, s.ThreadsToButton)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Printf("[DB] InsertTrialResults commit: %v", err)
	}
}

// GetTrialResults retrieves all trial runs and their series for an experiment,
// ordered the way the sweep produced them.
func (d *DB) GetTrialResults(experimentID int64) []engine.TrialResult {
	rows, err := d.sql.Query(`
		SELECT t.id, t.n, t.trial, t.seed, s.step, s.max_cluster_size, s.threads_to_button
		FROM trial_runs t
		JOIN samples s ON s.run_id = t.id
		WHERE t.experiment_id = ?
		ORDER BY t.id, s.step
	`, experimentID)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var results []engine.TrialResult
	var lastRunID int64 = -1
	for rows.Next() {
		var runID int64
		var n, trial, step int
		var seed int64
		var cluster, threads float64
		rows.Scan(&runID, &n, &trial, &seed, &step, &cluster, &threads)
		if runID != lastRunID {
			results = append(results, engine.TrialResult{N: n, Trial: trial, Seed: seed})
			lastRunID = runID
		}
		cur := &results[len(results)-1]
		cur.Series = append(cur.Series, model.Sample{
			StepIndex:       step,
			MaxClusterSize:  cluster,
			ThreadsToButton: threads,
		})
	}
	return results
}
