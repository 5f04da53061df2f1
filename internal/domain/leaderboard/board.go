// Package leaderboard derives a ranked, read-only view over the registry's
// boxer records. Rankings are recomputed on each query; nothing here
// mutates state.
package leaderboard

import (
	"context"
	"fmt"
	"sort"

	"github.com/okian/ringside/internal/domain/model"
	"github.com/okian/ringside/internal/domain/types"
)

// Source supplies the records to rank. The registry implements it.
type Source interface {
	List(ctx context.Context) ([]model.Boxer, error)
}

// Board computes leaderboards over a Source.
type Board struct {
	src Source
}

// New constructs a Board reading from src.
func New(src Source) *Board {
	return &Board{src: src}
}

// Rank returns all rankable boxers ordered by the sort key, descending.
// Boxers with no fights are excluded unless includeUnranked is set: an
// unranked boxer has no meaningful ratio. Ties on the sort key order by
// descending fight count, then ascending id, so output is deterministic.
func (b *Board) Rank(ctx context.Context, key types.SortKey, includeUnranked bool) ([]types.LeaderboardEntry, error) {
	if _, err := types.ParseSortKey(string(key)); err != nil {
		return nil, err
	}

	boxers, err := b.src.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}

	entries := make([]types.LeaderboardEntry, 0, len(boxers))
	for _, boxer := range boxers {
		if boxer.Fights == 0 && !includeUnranked {
			continue
		}
		entries = append(entries, types.LeaderboardEntry{
			ID:          boxer.ID,
			Name:        boxer.Name,
			WeightClass: boxer.WeightClass,
			Fights:      boxer.Fights,
			Wins:        boxer.Wins,
			WinPct:      boxer.WinPct(),
		})
	}

	sortEntries(entries, key)
	assignRanksWithTies(entries, key)
	return entries, nil
}

// keyValue extracts the sort key value from an entry.
func keyValue(e types.LeaderboardEntry, key types.SortKey) float64 {
	if key == types.SortByWinPct {
		return e.WinPct
	}
	return float64(e.Wins)
}

// sortEntries orders entries by sort key descending, then fight count
// descending, then id ascending.
func sortEntries(entries []types.LeaderboardEntry, key types.SortKey) {
	sort.Slice(entries, func(i, j int) bool {
		vi, vj := keyValue(entries[i], key), keyValue(entries[j], key)
		if vi != vj {
			return vi > vj
		}
		if entries[i].Fights != entries[j].Fights {
			return entries[i].Fights > entries[j].Fights
		}
		return entries[i].ID < entries[j].ID
	})
}

// assignRanksWithTies assigns ranks with proper tie handling. Entries with
// the same sort key value share a rank; numbering stays consecutive after
// a tie group.
func assignRanksWithTies(entries []types.LeaderboardEntry, key types.SortKey) {
	currentRank := 0
	for i := range entries {
		if i == 0 || keyValue(entries[i], key) != keyValue(entries[i-1], key) {
			currentRank++
		}
		entries[i].Rank = currentRank
	}
}
