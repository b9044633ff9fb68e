package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"percolate/internal/api"
	"percolate/internal/db"
	"percolate/internal/engine"
	"percolate/internal/experiment"
	"percolate/internal/export"
	"percolate/internal/logger"
)

var version = "dev"

func main() {
	port := flag.Int("port", 13370, "HTTP server port")
	expFile := flag.String("experiment", "", "run a YAML experiment definition and exit")
	exportDir := flag.String("export-dir", "", "override the export directory")
	flag.Parse()

	logger.Banner(version)

	// Open SQLite database
	database, err := db.Open()
	if err != nil {
		logger.Error("DB", fmt.Sprintf("Failed to open database: %v", err))
		os.Exit(1)
	}
	defer database.Close()

	// Load config from SQLite
	cfg := database.LoadConfig()
	if *exportDir != "" {
		cfg.ExportDir = *exportDir
	}

	runner := &engine.Runner{Concurrency: cfg.Concurrency}

	// Headless mode: run one experiment file and exit.
	if *expFile != "" {
		if err := runHeadless(*expFile, cfg.ExportDir, runner, database); err != nil {
			logger.Error("Experiment", err.Error())
			os.Exit(1)
		}
		return
	}

	srv := api.NewServer(cfg, runner, database)

	addr := fmt.Sprintf("127.0.0.1:%d", *port)
	logger.Server(addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		logger.Error("Server", fmt.Sprintf("Failed: %v", err))
		os.Exit(1)
	}
}

// runHeadless loads an experiment definition, runs the sweep, persists it,
// and optionally exports the experiment directory.
func runHeadless(path, exportDir string, runner *engine.Runner, database *db.DB) error {
	def, err := experiment.Load(path)
	if err != nil {
		return err
	}

	logger.Section(def.Name)
	params := def.SweepParams()

	start := time.Now()
	results, err := runner.Sweep(context.Background(), params, func(msg string) {
		logger.Info("Sweep", msg)
	})
	if err != nil {
		return err
	}
	curves := engine.Aggregate(results)
	durationMs := time.Since(start).Milliseconds()

	experimentID := database.InsertExperiment(def.Name, params, len(results), durationMs)
	database.InsertTrialResults(experimentID, results)

	logger.Stats("experiment id", experimentID)
	logger.Stats("trials", len(results))
	logger.Stats("duration", fmt.Sprintf("%dms", durationMs))
	for _, c := range curves {
		threshold := "not reached"
		if c.Threshold >= 0 {
			threshold = fmt.Sprintf("%.3f", c.Threshold)
		}
		logger.Stats(fmt.Sprintf("threshold n=%d", c.N), threshold)
	}

	if def.Export {
		dir, err := export.Save(exportDir, &export.Data{
			Name:    def.Name,
			Params:  params,
			Results: results,
			Curves:  curves,
		})
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		logger.Success("Export", fmt.Sprintf("Wrote %s", dir))
	}

	logger.Success("Experiment", "Done")
	return nil
}
