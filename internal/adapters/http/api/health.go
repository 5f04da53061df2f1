package api

import (
	"net/http"
	"time"
)

// handleHealth reports process liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"healthy": true,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// handleDBCheck reports whether the boxer store is reachable.
func (s *Server) handleDBCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w)
		return
	}
	if err := s.deps.PingStore(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"database": "reachable",
	})
}

// handleStats returns service statistics.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"stats": s.deps.GetStats(),
	})
}
