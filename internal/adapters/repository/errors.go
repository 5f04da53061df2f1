package repository

import (
	"fmt"

	"github.com/okian/ringside/internal/domain/types"
)

// Sentinel kinds for store errors. Both chain to the engine error kinds in
// the types package so callers can match either level.
var (
	ErrNotFound      = fmt.Errorf("boxer %w", types.ErrNotFound)
	ErrDuplicateName = fmt.Errorf("boxer name already exists: %w", types.ErrConflict)
)
