package leaderboard_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/ringside/internal/domain/leaderboard"
	"github.com/okian/ringside/internal/domain/model"
	"github.com/okian/ringside/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// stubSource serves a fixed list of boxers.
type stubSource struct {
	boxers []model.Boxer
}

func (s *stubSource) List(ctx context.Context) ([]model.Boxer, error) {
	out := make([]model.Boxer, len(s.boxers))
	copy(out, s.boxers)
	return out, nil
}

func TestRankByWins(t *testing.T) {
	Convey("Given boxers with mixed records", t, func() {
		ctx := context.Background()
		board := leaderboard.New(&stubSource{boxers: []model.Boxer{
			{ID: 1, Name: "ali", Fights: 10, Wins: 9},
			{ID: 2, Name: "tyson", Fights: 8, Wins: 5},
			{ID: 3, Name: "rookie", Fights: 0, Wins: 0},
			{ID: 4, Name: "foreman", Fights: 12, Wins: 7},
		}})

		Convey("When ranking by wins", func() {
			entries, err := board.Rank(ctx, types.SortByWins, false)

			Convey("Then entries come back in descending win order", func() {
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 3)
				So(entries[0].Name, ShouldEqual, "ali")
				So(entries[1].Name, ShouldEqual, "foreman")
				So(entries[2].Name, ShouldEqual, "tyson")
			})

			Convey("Then boxers with no fights are excluded", func() {
				So(err, ShouldBeNil)
				for _, e := range entries {
					So(e.Fights, ShouldBeGreaterThan, 0)
				}
			})

			Convey("Then ranks are consecutive from one", func() {
				So(err, ShouldBeNil)
				So(entries[0].Rank, ShouldEqual, 1)
				So(entries[1].Rank, ShouldEqual, 2)
				So(entries[2].Rank, ShouldEqual, 3)
			})
		})

		Convey("When including unranked boxers", func() {
			entries, err := board.Rank(ctx, types.SortByWins, true)

			Convey("Then zero-fight boxers appear at the bottom", func() {
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 4)
				So(entries[3].Name, ShouldEqual, "rookie")
				So(entries[3].Fights, ShouldEqual, 0)
			})
		})
	})
}

func TestRankByWinPct(t *testing.T) {
	Convey("Given boxers where ratio and raw wins disagree", t, func() {
		ctx := context.Background()
		board := leaderboard.New(&stubSource{boxers: []model.Boxer{
			{ID: 1, Name: "grinder", Fights: 20, Wins: 12}, // 0.60
			{ID: 2, Name: "picker", Fights: 4, Wins: 4},    // 1.00
		}})

		Convey("When ranking by win ratio", func() {
			entries, err := board.Rank(ctx, types.SortByWinPct, false)

			Convey("Then the higher ratio leads despite fewer wins", func() {
				So(err, ShouldBeNil)
				So(entries[0].Name, ShouldEqual, "picker")
				So(entries[0].WinPct, ShouldAlmostEqual, 1.0, 1e-9)
				So(entries[1].Name, ShouldEqual, "grinder")
			})
		})

		Convey("When ranking by wins", func() {
			entries, err := board.Rank(ctx, types.SortByWins, false)

			Convey("Then the raw count leads", func() {
				So(err, ShouldBeNil)
				So(entries[0].Name, ShouldEqual, "grinder")
			})
		})
	})
}

func TestRankTies(t *testing.T) {
	Convey("Given two boxers with identical records", t, func() {
		ctx := context.Background()
		board := leaderboard.New(&stubSource{boxers: []model.Boxer{
			{ID: 7, Name: "b-side", Fights: 10, Wins: 7},
			{ID: 3, Name: "a-side", Fights: 10, Wins: 7},
			{ID: 9, Name: "trailer", Fights: 10, Wins: 2},
		}})

		Convey("When ranking by wins", func() {
			entries, err := board.Rank(ctx, types.SortByWins, false)

			Convey("Then the tied pair shares a rank, ordered by id", func() {
				So(err, ShouldBeNil)
				So(entries[0].Rank, ShouldEqual, 1)
				So(entries[1].Rank, ShouldEqual, 1)
				So(entries[0].ID, ShouldEqual, 3)
				So(entries[1].ID, ShouldEqual, 7)
			})

			Convey("Then numbering stays consecutive after the tie", func() {
				So(err, ShouldBeNil)
				So(entries[2].Rank, ShouldEqual, 2)
			})
		})
	})

	Convey("Given a tie on the key but not on fight count", t, func() {
		ctx := context.Background()
		board := leaderboard.New(&stubSource{boxers: []model.Boxer{
			{ID: 1, Name: "busy", Fights: 14, Wins: 7},
			{ID: 2, Name: "idle", Fights: 9, Wins: 7},
		}})

		Convey("When ranking by wins", func() {
			entries, err := board.Rank(ctx, types.SortByWins, false)

			Convey("Then the higher fight count orders first but both share the rank", func() {
				So(err, ShouldBeNil)
				So(entries[0].Name, ShouldEqual, "busy")
				So(entries[1].Name, ShouldEqual, "idle")
				So(entries[0].Rank, ShouldEqual, entries[1].Rank)
			})
		})
	})
}

func TestRankInvalidKey(t *testing.T) {
	Convey("Given a board", t, func() {
		ctx := context.Background()
		board := leaderboard.New(&stubSource{})

		Convey("When ranking with an unknown key", func() {
			_, err := board.Rank(ctx, types.SortKey("losses"), false)

			Convey("Then the call fails with a validation error", func() {
				So(errors.Is(err, types.ErrValidation), ShouldBeTrue)
			})
		})
	})
}
