package api

import (
	"net/http"

	"github.com/okian/ringside/internal/domain/types"
)

// handleLeaderboard serves GET /api/leaderboard?sort=wins|win_pct.
// Boxers with zero fights are excluded unless include_unranked=true.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w)
		return
	}

	sortParam := r.URL.Query().Get("sort")
	if sortParam == "" {
		sortParam = string(types.SortByWins)
	}
	key, err := types.ParseSortKey(sortParam)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	includeUnranked := r.URL.Query().Get("include_unranked") == "true"

	entries, err := s.deps.Leaderboard(r.Context(), key, includeUnranked)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"sort":        string(key),
		"leaderboard": entries,
		"count":       len(entries),
	})
}
