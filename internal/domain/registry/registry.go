// Package registry owns boxer records and their lifecycle. All mutation of
// boxer state goes through this package so the name-uniqueness and
// ring-occupancy invariants hold no matter which store backs it.
package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/ringside/internal/adapters/repository"
	"github.com/okian/ringside/internal/domain/model"
	"github.com/okian/ringside/internal/domain/types"
	"github.com/okian/ringside/pkg/logger"
	"github.com/okian/ringside/pkg/metrics"
)

// Occupancy serializes deletes against ring entries. The ring implements
// it; keeping the dependency this narrow avoids an ownership cycle between
// the two packages.
type Occupancy interface {
	// WhileAbsent runs fn only if the boxer with the given id is not in
	// the ring, holding the ring closed to entries until fn returns.
	// Fails with a conflict error if the boxer occupies the ring.
	WhileAbsent(ctx context.Context, id int64, fn func() error) error
}

// Registry validates boxer operations and delegates record storage to a
// repository.Store.
type Registry struct {
	store  repository.Store
	ring   Occupancy
	logger logger.Logger
}

// Option applies a configuration option to the Registry.
type Option func(*Registry)

// WithLogger sets a custom logger for the registry.
func WithLogger(l logger.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// New constructs a Registry backed by store.
func New(store repository.Store, opts ...Option) *Registry {
	r := &Registry{store: store}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logger.Get().Named("registry")
	}
	return r
}

// AttachRing wires the ring occupancy check used by Delete. Called once
// during service wiring, before the registry serves requests.
func (r *Registry) AttachRing(o Occupancy) {
	r.ring = o
}

// Create validates the attributes, assigns a fresh id and stores the new
// boxer with zeroed counters. Returns an error wrapping types.ErrValidation
// for out-of-domain attributes and types.ErrConflict for a duplicate name.
func (r *Registry) Create(ctx context.Context, name string, weight, height int, reach float64, age int) (model.Boxer, error) {
	b := model.Boxer{
		Name:   strings.TrimSpace(name),
		Weight: weight,
		Height: height,
		Reach:  reach,
		Age:    age,
	}
	if err := b.Validate(); err != nil {
		r.logger.Warn(ctx, "rejected boxer", logger.String("name", name), logger.Error(err))
		return model.Boxer{}, err
	}

	created, err := r.store.Insert(ctx, b)
	if err != nil {
		return model.Boxer{}, fmt.Errorf("creating boxer: %w", err)
	}

	metrics.RecordBoxerCreated()
	metrics.UpdateBoxersTotal(r.store.Count(ctx))
	r.logger.Info(ctx, "boxer created",
		logger.Int64("id", created.ID),
		logger.String("name", created.Name),
		logger.String("weightClass", created.WeightClass),
	)
	return created, nil
}

// Delete removes the boxer with the given id. A boxer occupying the ring
// cannot be deleted; the ring must be cleared first. The store delete runs
// with the ring held closed, so the boxer cannot slip into the ring while
// its record is removed.
func (r *Registry) Delete(ctx context.Context, id int64) error {
	remove := func() error { return r.store.Delete(ctx, id) }

	var err error
	if r.ring != nil {
		err = r.ring.WhileAbsent(ctx, id, remove)
	} else {
		err = remove()
	}
	if err != nil {
		return fmt.Errorf("deleting boxer: %w", err)
	}

	metrics.RecordBoxerDeleted()
	metrics.UpdateBoxersTotal(r.store.Count(ctx))
	r.logger.Info(ctx, "boxer deleted", logger.Int64("id", id))
	return nil
}

// GetByID returns the boxer with the given id.
func (r *Registry) GetByID(ctx context.Context, id int64) (model.Boxer, error) {
	b, err := r.store.GetByID(ctx, id)
	if err != nil {
		return model.Boxer{}, fmt.Errorf("looking up boxer: %w", err)
	}
	return b, nil
}

// GetByName returns the boxer with the given name.
func (r *Registry) GetByName(ctx context.Context, name string) (model.Boxer, error) {
	b, err := r.store.GetByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return model.Boxer{}, fmt.Errorf("looking up boxer: %w", err)
	}
	return b, nil
}

// RecordResult atomically increments the fight count for both boxers and
// the win count for the winner only.
func (r *Registry) RecordResult(ctx context.Context, winnerID, loserID int64) error {
	if winnerID == loserID {
		return fmt.Errorf("winner and loser must differ (id %d): %w", winnerID, types.ErrValidation)
	}
	if err := r.store.RecordResult(ctx, winnerID, loserID); err != nil {
		return fmt.Errorf("recording result: %w", err)
	}
	r.logger.Info(ctx, "result recorded",
		logger.Int64("winnerID", winnerID),
		logger.Int64("loserID", loserID),
	)
	return nil
}

// List returns all active boxers in unspecified order.
func (r *Registry) List(ctx context.Context) ([]model.Boxer, error) {
	boxers, err := r.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing boxers: %w", err)
	}
	return boxers, nil
}

// Count returns the number of active boxers.
func (r *Registry) Count(ctx context.Context) int {
	return r.store.Count(ctx)
}
