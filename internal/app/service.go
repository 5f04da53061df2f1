// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/ringside/internal/adapters/history"
	boutqueue "github.com/okian/ringside/internal/adapters/mq/queue"
	recorderpool "github.com/okian/ringside/internal/adapters/mq/worker"
	"github.com/okian/ringside/internal/adapters/repository"
	"github.com/okian/ringside/internal/config"
	"github.com/okian/ringside/internal/domain/dedupe"
	"github.com/okian/ringside/internal/domain/fight"
	"github.com/okian/ringside/internal/domain/leaderboard"
	"github.com/okian/ringside/internal/domain/model"
	"github.com/okian/ringside/internal/domain/registry"
	"github.com/okian/ringside/internal/domain/ring"
	"github.com/okian/ringside/internal/domain/types"
	"github.com/okian/ringside/pkg/logger"
	"github.com/okian/ringside/pkg/metrics"
)

// Service wires the boxing engine components behind a single facade for
// the HTTP API.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    repository.Store
	registry *registry.Registry
	ring     *ring.Ring
	resolver *fight.Resolver
	board    *leaderboard.Board

	// Bout log pipeline
	boutLog   *history.Log
	boutQueue boutqueue.Queue
	deduper   dedupe.Deduper
	pool      *recorderpool.Pool

	// Configuration
	storeDriver  string
	sqlitePath   string
	workerCount  int
	queueSize    int
	dedupeSize   int
	historySize  int
	randomSeed   int64
	skillWeights map[string]float64

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStoreDriver selects the boxer store backend (memory or sqlite).
func WithStoreDriver(driver, sqlitePath string) Option {
	return func(s *Service) {
		if driver != "" {
			s.storeDriver = driver
		}
		if sqlitePath != "" {
			s.sqlitePath = sqlitePath
		}
	}
}

// WithStore injects a pre-built store; mainly for tests.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithWorkerCount sets the number of bout log recorder workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the bout log queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the bout id deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithHistorySize bounds the append-only bout log.
func WithHistorySize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.historySize = size
		}
	}
}

// WithRandomSeed seeds the fight resolver; 0 keeps the time-based seed.
func WithRandomSeed(seed int64) Option {
	return func(s *Service) {
		s.randomSeed = seed
	}
}

// WithSkillWeights sets the skill score coefficients.
func WithSkillWeights(weights map[string]float64) Option {
	return func(s *Service) {
		s.skillWeights = weights
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		storeDriver: config.StoreMemory,
		workerCount: 2,
		queueSize:   10_000,
		dedupeSize:  50_000,
		historySize: 1_000,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting boxing service...")

	// Boxer store
	if s.store == nil {
		switch s.storeDriver {
		case config.StoreSQLite:
			store, err := repository.NewSQLStore(s.sqlitePath)
			if err != nil {
				return fmt.Errorf("opening sqlite store: %w", err)
			}
			s.store = store
			s.logger.Info(ctx, "using sqlite store", logger.String("path", s.sqlitePath))
		default:
			s.store = repository.NewMemStore(ctx)
			s.logger.Info(ctx, "using memory store")
		}
	}

	// Engine components
	s.registry = registry.New(s.store, registry.WithLogger(s.logger.Named("registry")))
	s.ring = ring.New(s.registry, ring.WithLogger(s.logger.Named("ring")))
	s.registry.AttachRing(s.ring)

	resolverOpts := []fight.Option{fight.WithLogger(s.logger.Named("fight"))}
	if s.randomSeed != 0 {
		resolverOpts = append(resolverOpts, fight.WithSeed(s.randomSeed))
	}
	if s.skillWeights != nil {
		resolverOpts = append(resolverOpts, fight.WithWeightsFromConfig(s.skillWeights))
	}
	s.resolver = fight.New(s.ring, s.registry, resolverOpts...)
	s.board = leaderboard.New(s.registry)

	// Bout log pipeline
	s.boutLog = history.New(history.WithMaxSize(s.historySize))
	s.boutQueue = boutqueue.NewInMemoryQueue(
		boutqueue.WithCapacity(s.queueSize),
		boutqueue.WithBufferSize(s.queueSize),
	)
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.pool = recorderpool.NewPool(s.workerCount, s.boutQueue, s.deduper, s.boutLog)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "boxing service started",
		logger.String("store", s.storeDriver),
		logger.Int("recorders", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("historySize", s.historySize),
	)
	metrics.UpdateWorkerCount(s.workerCount)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping boxing service...")

	// Closing the queue through the pool drains in-flight bouts into the
	// log before the recorders exit.
	if s.pool != nil {
		if err := s.pool.Shutdown(ctx, s.boutQueue); err != nil {
			s.logger.Error(ctx, "error shutting down recorder pool", logger.Error(err))
		}
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Error(ctx, "error closing store", logger.Error(err))
		}
	}

	s.started = false
	s.logger.Info(ctx, "boxing service stopped")
}

// CreateBoxer registers a new boxer with zeroed counters.
func (s *Service) CreateBoxer(ctx context.Context, name string, weight, height int, reach float64, age int) (model.Boxer, error) {
	return s.registry.Create(ctx, name, weight, height, reach, age)
}

// DeleteBoxer removes a boxer unless it currently occupies the ring.
func (s *Service) DeleteBoxer(ctx context.Context, id int64) error {
	return s.registry.Delete(ctx, id)
}

// BoxerByID looks up a boxer by id.
func (s *Service) BoxerByID(ctx context.Context, id int64) (model.Boxer, error) {
	return s.registry.GetByID(ctx, id)
}

// BoxerByName looks up a boxer by name.
func (s *Service) BoxerByName(ctx context.Context, name string) (model.Boxer, error) {
	return s.registry.GetByName(ctx, name)
}

// EnterRing puts the boxer with the given id into the ring.
func (s *Service) EnterRing(ctx context.Context, id int64) (model.Boxer, error) {
	return s.ring.Enter(ctx, id)
}

// ClearRing empties the ring.
func (s *Service) ClearRing(ctx context.Context) {
	s.ring.Clear(ctx)
}

// RingOccupants returns the ring occupants in entry order.
func (s *Service) RingOccupants(ctx context.Context) ([]model.Boxer, error) {
	return s.ring.Occupants(ctx)
}

// Fight resolves a bout between the two ring occupants and publishes the
// result to the bout log pipeline. Queue backpressure never fails the
// bout; only the log entry is dropped.
func (s *Service) Fight(ctx context.Context) (model.BoutResult, error) {
	result, err := s.resolver.Resolve(ctx)
	if err != nil {
		return model.BoutResult{}, err
	}

	if ok := s.boutQueue.Enqueue(ctx, result); !ok {
		metrics.RecordBoutDropped()
		s.logger.Warn(ctx, "bout log queue full, dropping entry",
			logger.String("boutID", result.BoutID),
		)
	}
	return result, nil
}

// Leaderboard returns the ranked projection under the given sort key.
func (s *Service) Leaderboard(ctx context.Context, key types.SortKey, includeUnranked bool) ([]types.LeaderboardEntry, error) {
	return s.board.Rank(ctx, key, includeUnranked)
}

// RecentBouts returns up to n bouts from the log, newest first.
func (s *Service) RecentBouts(ctx context.Context, n int) []model.BoutResult {
	return s.boutLog.Recent(ctx, n)
}

// PingStore reports whether the backing store is reachable.
func (s *Service) PingStore(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"store":       s.storeDriver,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
	}

	if s.started {
		stats["boxers"] = s.store.Count(ctx)
		stats["ringOccupancy"] = s.ring.Size()
		stats["queueLength"] = s.boutQueue.Len(ctx)
		stats["boutsLogged"] = s.boutLog.Count(ctx)

		metrics.UpdateBoxersTotal(s.store.Count(ctx))
		metrics.UpdateQueueSize(s.boutQueue.Len(ctx))
	}

	return stats
}
