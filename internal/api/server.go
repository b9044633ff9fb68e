package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"golang.org/x/sync/singleflight"

	"percolate/internal/config"
	"percolate/internal/db"
	"percolate/internal/engine"
)

// Server is the HTTP API server that connects the sweep runner and database.
type Server struct {
	mu     sync.RWMutex
	cfg    *config.Config
	runner *engine.Runner
	db     *db.DB

	// Identical sweep requests arriving concurrently collapse into one
	// execution; every caller gets the same stored experiment.
	sweeps singleflight.Group
}

// NewServer creates a Server with the given config, runner, and database.
// db may be nil (results are then returned but not persisted).
func NewServer(cfg *config.Config, runner *engine.Runner, database *db.DB) *Server {
	return &Server{
		cfg:    cfg,
		runner: runner,
		db:     database,
	}
}

func (s *Server) configSnapshot() config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return *s.cfg
}

// Handler returns the HTTP handler with all API routes and CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/config", s.handleGetConfig)
	mux.HandleFunc("POST /api/config", s.handleSetConfig)
	mux.HandleFunc("POST /api/sweep", s.handleSweep)
	mux.HandleFunc("GET /api/experiments", s.handleGetExperiments)
	mux.HandleFunc("GET /api/experiments/{id}", s.handleGetExperiment)
	mux.HandleFunc("GET /api/experiments/{id}/results", s.handleGetExperimentResults)
	mux.HandleFunc("GET /api/experiments/{id}/curves", s.handleGetExperimentCurves)
	mux.HandleFunc("DELETE /api/experiments/{id}", s.handleDeleteExperiment)
	mux.HandleFunc("POST /api/experiments/clear", s.handleClearExperiments)
	mux.HandleFunc("POST /api/experiments/{id}/export", s.handleExportExperiment)
	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(204)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"ok":        true,
		"persisted": s.db != nil,
	})
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg := s.configSnapshot()
	writeJSON(w, cfg)
}

func (s *Server) handleSetConfig(w http.ResponseWriter, r *http.Request) {
	var incoming config.Config
	if err := json.NewDecoder(r.Body).Decode(&incoming); err != nil {
		writeError(w, http.StatusBadRequest, "invalid config JSON: "+err.Error())
		return
	}
	s.mu.Lock()
	*s.cfg = incoming
	s.mu.Unlock()
	if s.db != nil {
		if err := s.db.SaveConfig(&incoming); err != nil {
			writeError(w, http.StatusInternalServerError, "save config: "+err.Error())
			return
		}
	}
	writeJSON(w, incoming)
}
