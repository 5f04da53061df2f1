// Package repository defines the boxer store contract and errors.
package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/ringside/internal/domain/model"
	"github.com/okian/ringside/pkg/metrics"
)

// Default memory store configuration constants.
const (
	defaultMetricsUpdateInterval = 5 * time.Second
)

// MemStore is the default in-memory Store implementation. Records are
// kept in maps keyed by id and by name; all access is serialized through
// a read-write mutex, which gives RecordResult its atomicity.
type MemStore struct {
	mu     sync.RWMutex
	byID   map[int64]model.Boxer
	byName map[string]int64
	nextID int64

	metricsUpdateInterval time.Duration

	// Background metrics management
	wg       sync.WaitGroup
	stopChan chan struct{}
}

// NewMemStore constructs an in-memory store with configuration options.
func NewMemStore(ctx context.Context, opts ...Option) *MemStore {
	s := &MemStore{
		byID:                  make(map[int64]model.Boxer),
		byName:                make(map[string]int64),
		metricsUpdateInterval: defaultMetricsUpdateInterval,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.stopChan = make(chan struct{})
	s.startMetricsUpdater(ctx)

	return s
}

// Insert implements Store.Insert.
func (s *MemStore) Insert(ctx context.Context, b model.Boxer) (model.Boxer, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byName[b.Name]; taken {
		metrics.RecordErrorByComponent("repository", "duplicate_name")
		return model.Boxer{}, fmt.Errorf("%q: %w", b.Name, ErrDuplicateName)
	}

	s.nextID++
	b.ID = s.nextID
	b.WeightClass = model.WeightClassFor(b.Weight)
	s.byID[b.ID] = b
	s.byName[b.Name] = b.ID

	metrics.UpdateRepositoryRecordsTotal(len(s.byID))
	return b, nil
}

// Delete implements Store.Delete.
func (s *MemStore) Delete(ctx context.Context, id int64) error {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.byID[id]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return fmt.Errorf("id %d: %w", id, ErrNotFound)
	}
	delete(s.byID, id)
	delete(s.byName, b.Name)

	metrics.UpdateRepositoryRecordsTotal(len(s.byID))
	return nil
}

// GetByID implements Store.GetByID.
func (s *MemStore) GetByID(ctx context.Context, id int64) (model.Boxer, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.byID[id]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.Boxer{}, fmt.Errorf("id %d: %w", id, ErrNotFound)
	}
	return b, nil
}

// GetByName implements Store.GetByName.
func (s *MemStore) GetByName(ctx context.Context, name string) (model.Boxer, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byName[name]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.Boxer{}, fmt.Errorf("name %q: %w", name, ErrNotFound)
	}
	return s.byID[id], nil
}

// RecordResult implements Store.RecordResult. Both counters change under a
// single critical section; a missing id leaves both records untouched.
func (s *MemStore) RecordResult(ctx context.Context, winnerID, loserID int64) error {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	winner, ok := s.byID[winnerID]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return fmt.Errorf("winner id %d: %w", winnerID, ErrNotFound)
	}
	loser, ok := s.byID[loserID]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return fmt.Errorf("loser id %d: %w", loserID, ErrNotFound)
	}

	winner.Fights++
	winner.Wins++
	loser.Fights++
	s.byID[winnerID] = winner
	s.byID[loserID] = loser
	return nil
}

// List implements Store.List.
func (s *MemStore) List(ctx context.Context) ([]model.Boxer, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Boxer, 0, len(s.byID))
	for _, b := range s.byID {
		out = append(out, b)
	}
	return out, nil
}

// Count implements Store.Count.
func (s *MemStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Ping implements Store.Ping. Memory is always reachable.
func (s *MemStore) Ping(ctx context.Context) error {
	return nil
}

// Close gracefully shuts down the background metrics goroutine.
func (s *MemStore) Close() error {
	select {
	case <-s.stopChan:
		// Channel already closed
	default:
		close(s.stopChan)
	}
	s.wg.Wait()
	return nil
}

// startMetricsUpdater starts a background goroutine that updates repository metrics.
func (s *MemStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.mu.RLock()
				n := len(s.byID)
				s.mu.RUnlock()
				metrics.UpdateRepositoryRecordsTotal(n)
			}
		}
	}()
}
