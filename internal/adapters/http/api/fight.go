package api

import (
	"net/http"
)

// handleFight serves POST /api/fight: resolves a bout between the two
// ring occupants and returns the result. GET is accepted as an alias for
// clients that treat the bout as a query.
func (s *Server) handleFight(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodGet {
		s.methodNotAllowed(w)
		return
	}

	result, err := s.deps.Fight(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"bout": result,
	})
}
