package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"percolate/internal/engine"
	"percolate/internal/export"
	"percolate/internal/logger"
)

// SweepRequest is the body of POST /api/sweep. Zero-valued fields fall back
// to the stored config defaults.
type SweepRequest struct {
	Name    string  `json:"name"`
	NValues []int   `json:"n_values"`
	Speed   float64 `json:"speed"`
	Steps   int     `json:"steps"`
	Trials  int     `json:"trials"`
	Seed    int64   `json:"seed"`
	Export  bool    `json:"export"`
}

// SweepResponse is what POST /api/sweep returns.
type SweepResponse struct {
	ExperimentID int64              `json:"experiment_id"`
	Name         string             `json:"name"`
	Params       engine.SweepParams `json:"params"`
	TrialCount   int                `json:"trial_count"`
	DurationMs   int64              `json:"duration_ms"`
	Curves       []engine.Curve     `json:"curves"`
	ExportPath   string             `json:"export_path,omitempty"`
}

func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	var req SweepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid sweep JSON: "+err.Error())
		return
	}

	cfg := s.configSnapshot()
	nValues, speed, steps, trials, seed := cfg.FillSweepDefaults(req.NValues, req.Speed, req.Steps, req.Trials, req.Seed)
	params := engine.SweepParams{NValues: nValues, Speed: speed, Steps: steps, Trials: trials, Seed: seed}
	if err := params.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	name := req.Name
	if name == "" {
		name = "sweep"
	}

	key := sweepKey(name, params, req.Export)
	v, err, shared := s.sweeps.Do(key, func() (interface{}, error) {
		return s.runSweep(name, params, req.Export)
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if shared {
		logger.Info("Sweep", "Joined an identical in-flight sweep")
	}
	writeJSON(w, v)
}

func sweepKey(name string, params engine.SweepParams, doExport bool) string {
	raw, _ := json.Marshal(params)
	return fmt.Sprintf("%s|%s|%v", name, raw, doExport)
}

// runSweep executes a sweep, persists it, and optionally exports it. It runs
// on a background context: several requests may share one execution through
// singleflight, so no single request's cancellation should abort it.
func (s *Server) runSweep(name string, params engine.SweepParams, doExport bool) (*SweepResponse, error) {
	start := time.Now()
	results, err := s.runner.Sweep(context.Background(), params, func(msg string) {
		logger.Info("Sweep", msg)
	})
	if err != nil {
		return nil, err
	}
	curves := engine.Aggregate(results)
	durationMs := time.Since(start).Milliseconds()

	resp := &SweepResponse{
		Name:       name,
		Params:     params,
		TrialCount: len(results),
		DurationMs: durationMs,
		Curves:     curves,
	}

	if s.db != nil {
		resp.ExperimentID = s.db.InsertExperiment(name, params, len(results), durationMs)
		s.db.InsertTrialResults(resp.ExperimentID, results)
	}

	if doExport {
		cfg := s.configSnapshot()
		path, err := export.Save(cfg.ExportDir, &export.Data{
			Name:    name,
			Params:  params,
			Results: results,
			Curves:  curves,
		})
		if err != nil {
			logger.Warn("Export", fmt.Sprintf("Export failed: %v", err))
		} else {
			resp.ExportPath = path
			logger.Success("Export", fmt.Sprintf("Wrote %s", path))
		}
	}

	return resp, nil
}

func (s *Server) handleExportExperiment(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeError(w, http.StatusServiceUnavailable, "no database")
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	record := s.db.GetExperimentByID(id)
	if record == nil {
		writeError(w, http.StatusNotFound, "experiment not found")
		return
	}
	results := s.db.GetTrialResults(id)
	if len(results) == 0 {
		writeError(w, http.StatusNotFound, "experiment has no stored results")
		return
	}

	var params engine.SweepParams
	json.Unmarshal(record.Params, &params)

	cfg := s.configSnapshot()
	path, err := export.Save(cfg.ExportDir, &export.Data{
		Name:    record.Name,
		Params:  params,
		Results: results,
		Curves:  engine.Aggregate(results),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, map[string]string{"path": path})
}
