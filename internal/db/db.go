package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"percolate/internal/logger"
)

// DB wraps a SQLite database connection.
type DB struct {
	sql *sql.DB
}

func defaultPath() string {
	// Prefer working directory so the DB is stable across go run / go build.
	// Fall back to executable directory for deployed builds.
	if wd, err := os.Getwd(); err == nil {
		return filepath.Join(wd, "percolate.db")
	}
	exe, _ := os.Executable()
	return filepath.Join(filepath.Dir(exe), "percolate.db")
}

// Open opens (or creates) the SQLite database at the default location and
// runs migrations.
func Open() (*DB, error) {
	return OpenPath(defaultPath())
}

// OpenPath opens (or creates) the SQLite database at path and runs migrations.
func OpenPath(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}
	d := &DB{sql: sqlDB}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate db: %w", err)
	}
	logger.Success("DB", fmt.Sprintf("Opened %s", path))
	return d, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate() error {
	version := 0
	// Try to read current version
	d.sql.QueryRow("SELECT version FROM schema_version ORDER BY version DESC LIMIT 1").Scan(&version)

	if version < 1 {
		_, err := d.sql.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY);

			CREATE TABLE IF NOT EXISTS config (
				key   TEXT PRIMARY KEY,
				value TEXT NOT NULL
			);

			CREATE TABLE IF NOT EXISTS experiments (
				id          INTEGER PRIMARY KEY AUTOINCREMENT,
				timestamp   TEXT NOT NULL,
				name        TEXT NOT NULL,
				params_json TEXT NOT NULL DEFAULT '{}',
				trial_count INTEGER NOT NULL DEFAULT 0,
				duration_ms INTEGER NOT NULL DEFAULT 0
			);
			CREATE INDEX IF NOT EXISTS idx_experiments_ts ON experiments(timestamp);

			CREATE TABLE IF NOT EXISTS trial_runs (
				id            INTEGER PRIMARY KEY AUTOINCREMENT,
				experiment_id INTEGER NOT NULL REFERENCES experiments(id),
				n             INTEGER NOT NULL,
				trial         INTEGER NOT NULL,
				seed          INTEGER NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_trial_exp ON trial_runs(experiment_id);

			CREATE TABLE IF NOT EXISTS samples (
				run_id            INTEGER NOT NULL REFERENCES trial_runs(id),
				step              INTEGER NOT NULL,
				max_cluster_size  REAL NOT NULL,
				threads_to_button REAL NOT NULL,
				PRIMARY KEY (run_id, step)
			);

			INSERT OR IGNORE INTO schema_version (version) VALUES (1);
		`)
		if err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
		logger.Info("DB", "Applied migration v1")
	}

	return nil
}

// SqlDB returns the underlying *sql.DB for use by other packages.
func (d *DB) SqlDB() *sql.DB {
	return d.sql
}
