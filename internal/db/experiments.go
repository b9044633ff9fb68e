package db

import (
	"encoding/json"
	"time"
)

// ExperimentRecord represents one stored experiment (a completed sweep).
type ExperimentRecord struct {
	ID         int64           `json:"id"`
	Timestamp  string          `json:"timestamp"`
	Name       string          `json:"name"`
	Params     json.RawMessage `json:"params"`
	TrialCount int             `json:"trial_count"`
	DurationMs int64           `json:"duration_ms"`
}

// InsertExperiment inserts an experiment record and returns its ID.
func (d *DB) InsertExperiment(name string, params interface{}, trialCount int, durationMs int64) int64 {
	paramsJSON, _ := json.Marshal(params)
	result, err := d.sql.Exec(
		"INSERT INTO experiments (timestamp, name, params_json, trial_count, duration_ms) VALUES (?, ?, ?, ?, ?)",
		time.Now().Format(time.RFC3339), name, string(paramsJSON), trialCount, durationMs,
	)
	if err != nil {
		return 0
	}
	id, _ := result.LastInsertId()
	return id
}

// GetExperiments returns the last N experiment records (newest first).
func (d *DB) GetExperiments(limit int) []ExperimentRecord {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.sql.Query(
		`SELECT id, timestamp, name, params_json, trial_count, duration_ms
		 FROM experiments ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return []ExperimentRecord{}
	}
	defer rows.Close()

	var records []ExperimentRecord
	for rows.Next() {
		var r ExperimentRecord
		var paramsStr string
		rows.Scan(&r.ID, &r.Timestamp, &r.Name, &paramsStr, &r.TrialCount, &r.DurationMs)
		r.Params = json.RawMessage(paramsStr)
		records = append(records, r)
	}
	if records == nil {
		return []ExperimentRecord{}
	}
	return records
}

// GetExperimentByID returns a single experiment record.
func (d *DB) GetExperimentByID(id int64) *ExperimentRecord {
	row := d.sql.QueryRow(
		`SELECT id, timestamp, name, params_json, trial_count, duration_ms
		 FROM experiments WHERE id = ?`,
		id,
	)
	var r ExperimentRecord
	var paramsStr string
	if err := row.Scan(&r.ID, &r.Timestamp, &r.Name, &paramsStr, &r.TrialCount, &r.DurationMs); err != nil {
		return nil
	}
	r.Params = json.RawMessage(paramsStr)
	return &r
}

// DeleteExperiment deletes an experiment record and its runs and samples.
func (d *DB) DeleteExperiment(id int64) error {
	tx, err := d.sql.Begin()
	if err != nil {
		return err
	}
	tx.Exec("DELETE FROM samples WHERE run_id IN (SELECT id FROM trial_runs WHERE experiment_id = ?)", id)
	tx.Exec("DELETE FROM trial_runs WHERE experiment_id = ?", id)
	tx.Exec("DELETE FROM experiments WHERE id = ?", id)
	return tx.Commit()
}

// ClearExperiments deletes all experiments older than the given number of days.
func (d *DB) ClearExperiments(olderThanDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -olderThanDays).Format(time.RFC3339)

	rows, err := d.sql.Query("SELECT id FROM experiments WHERE timestamp < ?", cutoff)
	if err != nil {
		return 0, err
	}
	var ids []int64
	for rows.Next() {
		var id int64
		rows.Scan(&id)
		ids = append(ids, id)
	}
	rows.Close()

	if len(ids) == 0 {
		return 0, nil
	}

	tx, err := d.sql.Begin()
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		tx.Exec("DELETE FROM samples WHERE run_id IN (SELECT id FROM trial_runs WHERE experiment_id = ?)", id)
		tx.Exec("DELETE FROM trial_runs WHERE experiment_id = ?", id)
	}
	result, err := tx.Exec("DELETE FROM experiments WHERE timestamp < ?", cutoff)
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	tx.Commit()
	count, _ := result.RowsAffected()
	return count, nil
}
