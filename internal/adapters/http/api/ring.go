package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// enterRingRequest identifies the boxer entering the ring, by id or name.
type enterRingRequest struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// handleRing serves POST /api/ring (enter) and GET /api/ring (occupants).
func (s *Server) handleRing(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.enterRing(w, r)
	case http.MethodGet:
		s.ringOccupants(w, r)
	default:
		s.methodNotAllowed(w)
	}
}

func (s *Server) enterRing(w http.ResponseWriter, r *http.Request) {
	var req enterRingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, fmt.Errorf("invalid JSON body: %w", ErrBadRequest))
		return
	}

	id := req.ID
	if id == 0 {
		name := strings.TrimSpace(req.Name)
		if name == "" {
			s.writeError(w, r, fmt.Errorf("id or name is required: %w", ErrBadRequest))
			return
		}
		boxer, err := s.deps.BoxerByName(r.Context(), name)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		id = boxer.ID
	}

	boxer, err := s.deps.EnterRing(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"boxer": boxer,
	})
}

func (s *Server) ringOccupants(w http.ResponseWriter, r *http.Request) {
	occupants, err := s.deps.RingOccupants(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"boxers": occupants,
		"count":  len(occupants),
	})
}

// handleRingClear serves POST /api/ring/clear. Clearing is idempotent.
func (s *Server) handleRingClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w)
		return
	}
	s.deps.ClearRing(r.Context())
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"cleared": true,
	})
}
