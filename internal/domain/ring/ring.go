// Package ring manages the transient holding area for the two boxers
// about to fight.
package ring

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/ringside/internal/domain/model"
	"github.com/okian/ringside/internal/domain/types"
	"github.com/okian/ringside/pkg/logger"
	"github.com/okian/ringside/pkg/metrics"
)

// Capacity is the number of boxers a ring holds. A bout needs exactly two.
const Capacity = 2

// Lookup resolves a boxer id against the registry. The ring stores ids,
// not records, so occupants are always read fresh.
type Lookup interface {
	GetByID(ctx context.Context, id int64) (model.Boxer, error)
}

// Ring holds the ids of at most two boxers in entry order.
type Ring struct {
	mu     sync.Mutex
	ids    []int64
	lookup Lookup
	logger logger.Logger
}

// Option applies a configuration option to the Ring.
type Option func(*Ring)

// WithLogger sets a custom logger for the ring.
func WithLogger(l logger.Logger) Option {
	return func(r *Ring) {
		if l != nil {
			r.logger = l
		}
	}
}

// New constructs an empty Ring validating entries through lookup.
func New(lookup Lookup, opts ...Option) *Ring {
	r := &Ring{
		ids:    make([]int64, 0, Capacity),
		lookup: lookup,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logger.Get().Named("ring")
	}
	return r
}

// Enter adds the boxer with the given id to the ring. Fails with a
// not-found error for an unknown id, a conflict error if the boxer is
// already in the ring, and a capacity error when the ring is full.
func (r *Ring) Enter(ctx context.Context, id int64) (model.Boxer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, occupant := range r.ids {
		if occupant == id {
			r.logger.Warn(ctx, "boxer already in the ring", logger.Int64("id", id))
			return model.Boxer{}, fmt.Errorf("boxer %d already occupies the ring: %w", id, types.ErrConflict)
		}
	}
	if len(r.ids) >= Capacity {
		r.logger.Warn(ctx, "ring is full", logger.Int64("id", id))
		return model.Boxer{}, fmt.Errorf("ring already holds %d boxers: %w", Capacity, types.ErrCapacity)
	}

	// Looked up under the ring lock: a delete running inside WhileAbsent
	// cannot interleave between this existence check and the append.
	b, err := r.lookup.GetByID(ctx, id)
	if err != nil {
		return model.Boxer{}, fmt.Errorf("entering ring: %w", err)
	}

	r.ids = append(r.ids, id)
	metrics.UpdateRingOccupancy(len(r.ids))
	r.logger.Info(ctx, "boxer entered the ring",
		logger.Int64("id", id),
		logger.String("name", b.Name),
		logger.Int("occupancy", len(r.ids)),
	)
	return b, nil
}

// Clear empties the ring unconditionally. Idempotent.
func (r *Ring) Clear(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.ids) == 0 {
		return
	}
	r.ids = r.ids[:0]
	metrics.UpdateRingOccupancy(0)
	r.logger.Info(ctx, "ring cleared")
}

// Occupants returns the current occupants in entry order, read fresh from
// the registry so counters reflect the latest recorded results.
func (r *Ring) Occupants(ctx context.Context) ([]model.Boxer, error) {
	r.mu.Lock()
	ids := make([]int64, len(r.ids))
	copy(ids, r.ids)
	r.mu.Unlock()

	out := make([]model.Boxer, 0, len(ids))
	for _, id := range ids {
		b, err := r.lookup.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("reading occupant %d: %w", id, err)
		}
		out = append(out, b)
	}
	return out, nil
}

// WhileAbsent runs fn while the ring is locked against entries, failing
// with a conflict error if the boxer with the given id currently occupies
// the ring. The registry's delete guard runs the store delete inside fn,
// so a boxer can never enter the ring while its record is being removed.
func (r *Ring) WhileAbsent(ctx context.Context, id int64, fn func() error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, occupant := range r.ids {
		if occupant == id {
			r.logger.Warn(ctx, "boxer occupies the ring", logger.Int64("id", id))
			return fmt.Errorf("boxer %d occupies the ring: %w", id, types.ErrConflict)
		}
	}
	return fn()
}

// Size returns the current number of occupants.
func (r *Ring) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ids)
}
