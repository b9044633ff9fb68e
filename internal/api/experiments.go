package api

import (
	"net/http"
	"strconv"

	"percolate/internal/engine"
)

// pathID parses the {id} path segment, writing a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid experiment id")
		return 0, false
	}
	return id, true
}

func (s *Server) handleGetExperiments(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeError(w, http.StatusServiceUnavailable, "no database")
		return
	}
	limit := s.configSnapshot().HistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	writeJSON(w, s.db.GetExperiments(limit))
}

func (s *Server) handleGetExperiment(w http.ResponseWriter, r *http.Request) {
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
	writeJSON(w, record)
}

func (s *Server) handleGetExperimentResults(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeError(w, http.StatusServiceUnavailable, "no database")
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if s.db.GetExperimentByID(id) == nil {
		writeError(w, http.StatusNotFound, "experiment not found")
		return
	}
	writeJSON(w, s.db.GetTrialResults(id))
}

func (s *Server) handleGetExperimentCurves(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeError(w, http.StatusServiceUnavailable, "no database")
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if s.db.GetExperimentByID(id) == nil {
		writeError(w, http.StatusNotFound, "experiment not found")
		return
	}
	writeJSON(w, engine.Aggregate(s.db.GetTrialResults(id)))
}

func (s *Server) handleDeleteExperiment(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeError(w, http.StatusServiceUnavailable, "no database")
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.db.DeleteExperiment(id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, map[string]bool{"deleted": true})
}

func (s *Server) handleClearExperiments(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeError(w, http.StatusServiceUnavailable, "no database")
		return
	}
	days := 30
	if v := r.URL.Query().Get("days"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			days = parsed
		}
	}
	count, err := s.db.ClearExperiments(days)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, map[string]int64{"deleted": count})
}
