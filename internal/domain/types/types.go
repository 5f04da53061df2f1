// Package types contains common types used across the application
package types

import "fmt"

// SortKey selects the leaderboard ordering.
type SortKey string

// Supported leaderboard sort keys.
const (
	SortByWins   SortKey = "wins"
	SortByWinPct SortKey = "win_pct"
)

// ParseSortKey validates a raw sort key string.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case SortByWins:
		return SortByWins, nil
	case SortByWinPct:
		return SortByWinPct, nil
	default:
		return "", fmt.Errorf("invalid sort key %q: %w", s, ErrValidation)
	}
}

// LeaderboardEntry represents a ranked leaderboard row. It is a read-only
// projection of a boxer record and is recomputed on each query.
type LeaderboardEntry struct {
	Rank        int     `json:"rank"`
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	WeightClass string  `json:"weight_class"`
	Fights      int     `json:"fights"`
	Wins        int     `json:"wins"`
	WinPct      float64 `json:"win_pct"`
}
