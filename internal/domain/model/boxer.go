// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/okian/ringside/internal/domain/types"
)

// Attribute bounds for a valid boxer.
const (
	// MinWeight is the featherweight floor; lighter boxers are not managed.
	MinWeight = 125
	MinAge    = 18
	MaxAge    = 40
)

// Weight class thresholds in pounds.
const (
	heavyweightFloor  = 203
	middleweightFloor = 166
	lightweightFloor  = 133
)

// Boxer represents an active boxer record owned by the registry.
// Wins and Fights are mutated only through Registry.RecordResult and
// satisfy Wins <= Fights at all times.
type Boxer struct {
	ID          int64   `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Weight      int     `json:"weight" db:"weight"`
	Height      int     `json:"height" db:"height"`
	Reach       float64 `json:"reach" db:"reach"`
	Age         int     `json:"age" db:"age"`
	Wins        int     `json:"wins" db:"wins"`
	Fights      int     `json:"fights" db:"fights"`
	WeightClass string  `json:"weight_class" db:"-"`
}

// WinPct returns the boxer's win ratio in [0,1], or 0 with no fights.
func (b Boxer) WinPct() float64 {
	if b.Fights == 0 {
		return 0
	}
	return float64(b.Wins) / float64(b.Fights)
}

// Validate checks the boxer's attributes against their valid domains.
func (b Boxer) Validate() error {
	switch {
	case strings.TrimSpace(b.Name) == "":
		return fmt.Errorf("name must not be empty: %w", types.ErrValidation)
	case b.Weight < MinWeight:
		return fmt.Errorf("invalid weight %d: must be at least %d: %w", b.Weight, MinWeight, types.ErrValidation)
	case b.Height <= 0:
		return fmt.Errorf("invalid height %d: must be greater than 0: %w", b.Height, types.ErrValidation)
	case b.Reach <= 0:
		return fmt.Errorf("invalid reach %g: must be greater than 0: %w", b.Reach, types.ErrValidation)
	case b.Age < MinAge || b.Age > MaxAge:
		return fmt.Errorf("invalid age %d: must be between %d and %d: %w", b.Age, MinAge, MaxAge, types.ErrValidation)
	}
	return nil
}

// WeightClassFor maps a weight to its class. Weights below the
// featherweight floor have no class and return an empty string.
func WeightClassFor(weight int) string {
	switch {
	case weight >= heavyweightFloor:
		return "HEAVYWEIGHT"
	case weight >= middleweightFloor:
		return "MIDDLEWEIGHT"
	case weight >= lightweightFloor:
		return "LIGHTWEIGHT"
	case weight >= MinWeight:
		return "FEATHERWEIGHT"
	default:
		return ""
	}
}

// BoutResult captures the outcome of a single resolved bout. It is
// ephemeral beyond its effect on the two boxer records and the optional
// append-only bout log.
type BoutResult struct {
	BoutID     string    `json:"bout_id"`
	WinnerID   int64     `json:"winner_id"`
	WinnerName string    `json:"winner_name"`
	LoserID    int64     `json:"loser_id"`
	LoserName  string    `json:"loser_name"`
	// Probability is the win probability computed for the first ring
	// entrant, strictly inside (0,1).
	Probability float64   `json:"win_probability"`
	TS          time.Time `json:"ts"`
}
