package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// createBoxerRequest is the POST /api/boxers payload.
type createBoxerRequest struct {
	Name   string  `json:"name"`
	Weight int     `json:"weight"`
	Height int     `json:"height"`
	Reach  float64 `json:"reach"`
	Age    int     `json:"age"`
}

// handleBoxers serves POST /api/boxers (create) and
// GET /api/boxers?name= (lookup by name).
func (s *Server) handleBoxers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.createBoxer(w, r)
	case http.MethodGet:
		s.getBoxerByName(w, r)
	default:
		s.methodNotAllowed(w)
	}
}

func (s *Server) createBoxer(w http.ResponseWriter, r *http.Request) {
	var req createBoxerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, fmt.Errorf("invalid JSON body: %w", ErrBadRequest))
		return
	}

	boxer, err := s.deps.CreateBoxer(r.Context(), req.Name, req.Weight, req.Height, req.Reach, req.Age)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]interface{}{
		"boxer": boxer,
	})
}

func (s *Server) getBoxerByName(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		s.writeError(w, r, fmt.Errorf("name query parameter is required: %w", ErrBadRequest))
		return
	}

	boxer, err := s.deps.BoxerByName(r.Context(), name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"boxer": boxer,
	})
}

// handleBoxerByID serves GET and DELETE on /api/boxers/{id}.
func (s *Server) handleBoxerByID(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/api/boxers/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("invalid boxer id %q: %w", idStr, ErrBadRequest))
		return
	}

	switch r.Method {
	case http.MethodGet:
		boxer, err := s.deps.BoxerByID(r.Context(), id)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]interface{}{
			"boxer": boxer,
		})
	case http.MethodDelete:
		if err := s.deps.DeleteBoxer(r.Context(), id); err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]interface{}{
			"deleted": id,
		})
	default:
		s.methodNotAllowed(w)
	}
}
