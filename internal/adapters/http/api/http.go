// Package api exposes the boxing engine over HTTP. Handlers translate
// engine error kinds to status codes and wrap every payload in a
// status envelope.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/ringside/internal/domain/model"
	"github.com/okian/ringside/internal/domain/types"
	"github.com/okian/ringside/pkg/logger"
)

// Dependencies is the engine surface the API needs. The app service
// implements it.
type Dependencies interface {
	CreateBoxer(ctx context.Context, name string, weight, height int, reach float64, age int) (model.Boxer, error)
	DeleteBoxer(ctx context.Context, id int64) error
	BoxerByID(ctx context.Context, id int64) (model.Boxer, error)
	BoxerByName(ctx context.Context, name string) (model.Boxer, error)

	EnterRing(ctx context.Context, id int64) (model.Boxer, error)
	ClearRing(ctx context.Context)
	RingOccupants(ctx context.Context) ([]model.Boxer, error)

	Fight(ctx context.Context) (model.BoutResult, error)

	Leaderboard(ctx context.Context, key types.SortKey, includeUnranked bool) ([]types.LeaderboardEntry, error)
	RecentBouts(ctx context.Context, n int) []model.BoutResult

	PingStore(ctx context.Context) error
	GetStats() map[string]interface{}
}

// Server holds the HTTP handlers and their dependencies.
type Server struct {
	deps         Dependencies
	maxBoutLimit int
	logger       logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithLogger sets a custom logger for the server.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxBoutLimit caps the limit query parameter on the bout log route.
func WithMaxBoutLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBoutLimit = n
		}
	}
}

// NewServer constructs a Server with configuration options.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		deps:         deps,
		maxBoutLimit: 100,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("api")
	}
	return s
}

// Register attaches all API routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.Handle("/api/health", s.instrument("/api/health", http.HandlerFunc(s.handleHealth)))
	mux.Handle("/api/db-check", s.instrument("/api/db-check", http.HandlerFunc(s.handleDBCheck)))
	mux.Handle("/api/stats", s.instrument("/api/stats", http.HandlerFunc(s.handleStats)))

	mux.Handle("/api/boxers", s.instrument("/api/boxers", http.HandlerFunc(s.handleBoxers)))
	mux.Handle("/api/boxers/", s.instrument("/api/boxers/", http.HandlerFunc(s.handleBoxerByID)))

	mux.Handle("/api/ring", s.instrument("/api/ring", http.HandlerFunc(s.handleRing)))
	mux.Handle("/api/ring/clear", s.instrument("/api/ring/clear", http.HandlerFunc(s.handleRingClear)))

	mux.Handle("/api/fight", s.instrument("/api/fight", http.HandlerFunc(s.handleFight)))
	mux.Handle("/api/leaderboard", s.instrument("/api/leaderboard", http.HandlerFunc(s.handleLeaderboard)))
	mux.Handle("/api/bout-log", s.instrument("/api/bout-log", http.HandlerFunc(s.handleBoutLog)))
}

// writeJSON writes a success envelope with the given payload fields.
func (s *Server) writeJSON(w http.ResponseWriter, status int, payload map[string]interface{}) {
	body := map[string]interface{}{"status": "success"}
	for k, v := range payload {
		body[k] = v
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error(context.Background(), "encoding response", logger.Error(err))
	}
}

// writeError writes an error envelope, mapping the engine error kind to a
// status code.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed",
			logger.String("path", r.URL.Path),
			logger.Error(err),
		)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "error",
		"message": err.Error(),
	})
}

// methodNotAllowed writes a 405 error envelope.
func (s *Server) methodNotAllowed(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusMethodNotAllowed)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "error",
		"message": "method not allowed",
	})
}
