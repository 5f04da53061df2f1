// Package repository defines the boxer store contract and errors.
package repository

import (
	"context"

	"github.com/okian/ringside/internal/domain/model"
)

// Store provides keyed access to boxer records. Implementations must hold
// records keyed by id and by unique name, and must apply the two-counter
// increment of RecordResult atomically.
type Store interface {
	// Insert stores a new boxer and assigns a fresh id.
	// Returns ErrDuplicateName if the name is already taken.
	Insert(ctx context.Context, b model.Boxer) (model.Boxer, error)

	// Delete removes the boxer with the given id.
	// Returns ErrNotFound if no such boxer exists.
	Delete(ctx context.Context, id int64) error

	// GetByID returns the boxer with the given id.
	GetByID(ctx context.Context, id int64) (model.Boxer, error)

	// GetByName returns the boxer with the given name.
	GetByName(ctx context.Context, name string) (model.Boxer, error)

	// RecordResult atomically increments the fight count for both ids and
	// the win count for the winner only. Returns ErrNotFound if either id
	// is absent; in that case neither record is modified.
	RecordResult(ctx context.Context, winnerID, loserID int64) error

	// List returns all boxer records in unspecified order.
	List(ctx context.Context) ([]model.Boxer, error)

	// Count returns the number of boxers tracked in the store.
	Count(ctx context.Context) int

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error

	// Close releases store resources.
	Close() error
}
