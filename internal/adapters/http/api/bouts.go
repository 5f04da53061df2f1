package api

import (
	"fmt"
	"net/http"
	"strconv"
)

// handleBoutLog serves GET /api/bout-log?limit=N, newest first.
func (s *Server) handleBoutLog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w)
		return
	}

	limit := s.maxBoutLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.writeError(w, r, fmt.Errorf("invalid limit %q: %w", raw, ErrBadRequest))
			return
		}
		if n < limit {
			limit = n
		}
	}

	bouts := s.deps.RecentBouts(r.Context(), limit)
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"bouts": bouts,
		"count": len(bouts),
	})
}
