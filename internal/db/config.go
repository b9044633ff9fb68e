package db

import (
	"strconv"
	"strings"

	"percolate/internal/config"
)

// LoadConfig reads config from SQLite. If empty, returns defaults.
func (d *DB) LoadConfig() *config.Config {
	cfg := config.Default()

	rows, err := d.sql.Query("SELECT key, value FROM config")
	if err != nil {
		return cfg
	}
	defer rows.Close()

	m := make(map[string]string)
	for rows.Next() {
		var k, v string
		rows.Scan(&k, &v)
		m[k] = v
	}

	if len(m) == 0 {
		return cfg
	}

	if v, ok := m["n_values"]; ok {
		if nv := parseIntList(v); len(nv) > 0 {
			cfg.NValues = nv
		}
	}
	if v, ok := m["speed"]; ok {
		cfg.Speed, _ = strconv.ParseFloat(v, 64)
	}
	if v, ok := m["steps"]; ok {
		cfg.Steps, _ = strconv.Atoi(v)
	}
	if v, ok := m["trials"]; ok {
		cfg.Trials, _ = strconv.Atoi(v)
	}
	if v, ok := m["seed"]; ok {
		cfg.Seed, _ = strconv.ParseInt(v, 10, 64)
	}
	if v, ok := m["concurrency"]; ok {
		cfg.Concurrency, _ = strconv.Atoi(v)
	}
	if v, ok := m["export_dir"]; ok && v != "" {
		cfg.ExportDir = v
	}
	if v, ok := m["history_limit"]; ok {
		cfg.HistoryLimit, _ = strconv.Atoi(v)
	}

	return cfg
}

// SaveConfig writes every config field to the key/value table.
func (d *DB) SaveConfig(cfg *config.Config) error {
	tx, err := d.sql.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare("INSERT INTO config (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value")
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	stmt.Exec("n_values", formatIntList(cfg.NValues))
	stmt.Exec("speed", strconv.FormatFloat(cfg.Speed, 'g', -1, 64))
	stmt.Exec("steps", strconv.Itoa(cfg.Steps))
	stmt.Exec("trials", strconv.Itoa(cfg.Trials))
	stmt.Exec("seed", strconv.FormatInt(cfg.Seed, 10))
	stmt.Exec("concurrency", strconv.Itoa(cfg.Concurrency))
	stmt.Exec("export_dir", cfg.ExportDir)
	stmt.Exec("history_limit", strconv.Itoa(cfg.HistoryLimit))

	return tx.Commit()
}

func parseIntList(s string) []int {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil
		}
		out = append(out, n)
	}
	return out
}

func formatIntList(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}
