package ring_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/okian/ringside/internal/domain/model"
	"github.com/okian/ringside/internal/domain/ring"
	"github.com/okian/ringside/internal/domain/types"
	"github.com/okian/ringside/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// stubLookup serves boxers from a fixed map.
type stubLookup struct {
	boxers map[int64]model.Boxer
}

func (s *stubLookup) GetByID(ctx context.Context, id int64) (model.Boxer, error) {
	b, ok := s.boxers[id]
	if !ok {
		return model.Boxer{}, fmt.Errorf("id %d: %w", id, types.ErrNotFound)
	}
	return b, nil
}

func threeBoxers() *stubLookup {
	return &stubLookup{boxers: map[int64]model.Boxer{
		1: {ID: 1, Name: "ali", Weight: 210},
		2: {ID: 2, Name: "tyson", Weight: 218},
		3: {ID: 3, Name: "foreman", Weight: 245},
	}}
}

func TestRingEnter(t *testing.T) {
	Convey("Given an empty ring", t, func() {
		ctx := context.Background()
		r := ring.New(threeBoxers())

		Convey("When a known boxer enters", func() {
			b, err := r.Enter(ctx, 1)

			Convey("Then the ring holds one occupant", func() {
				So(err, ShouldBeNil)
				So(b.Name, ShouldEqual, "ali")
				So(r.Size(), ShouldEqual, 1)

				occupants, err := r.Occupants(ctx)
				So(err, ShouldBeNil)
				So(occupants[0].ID, ShouldEqual, 1)
			})
		})

		Convey("When an unknown id enters", func() {
			_, err := r.Enter(ctx, 99)

			Convey("Then the call fails with not found and the ring stays empty", func() {
				So(errors.Is(err, types.ErrNotFound), ShouldBeTrue)
				So(r.Size(), ShouldEqual, 0)
			})
		})

		Convey("When the same boxer enters twice", func() {
			_, err := r.Enter(ctx, 1)
			So(err, ShouldBeNil)
			_, err = r.Enter(ctx, 1)

			Convey("Then the second entry is a conflict", func() {
				So(errors.Is(err, types.ErrConflict), ShouldBeTrue)
				So(r.Size(), ShouldEqual, 1)
			})
		})

		Convey("When a third boxer tries to enter a full ring", func() {
			_, err := r.Enter(ctx, 1)
			So(err, ShouldBeNil)
			_, err = r.Enter(ctx, 2)
			So(err, ShouldBeNil)
			_, err = r.Enter(ctx, 3)

			Convey("Then the entry is rejected for capacity", func() {
				So(errors.Is(err, types.ErrCapacity), ShouldBeTrue)
				So(r.Size(), ShouldEqual, ring.Capacity)
			})
		})
	})
}

func TestRingClear(t *testing.T) {
	Convey("Given a ring with two occupants", t, func() {
		ctx := context.Background()
		r := ring.New(threeBoxers())
		_, _ = r.Enter(ctx, 1)
		_, _ = r.Enter(ctx, 2)

		Convey("When clearing it", func() {
			r.Clear(ctx)

			Convey("Then the ring is empty and clearing again is a no-op", func() {
				So(r.Size(), ShouldEqual, 0)
				r.Clear(ctx)
				So(r.Size(), ShouldEqual, 0)
			})
		})

		Convey("When clearing and re-entering", func() {
			r.Clear(ctx)
			_, err := r.Enter(ctx, 1)

			Convey("Then previous occupants can enter again", func() {
				So(err, ShouldBeNil)
				So(r.Size(), ShouldEqual, 1)
			})
		})
	})
}

func TestRingWhileAbsent(t *testing.T) {
	Convey("Given a ring with one occupant", t, func() {
		ctx := context.Background()
		r := ring.New(threeBoxers())
		_, err := r.Enter(ctx, 1)
		So(err, ShouldBeNil)

		Convey("When guarding work against the occupant", func() {
			ran := false
			err := r.WhileAbsent(ctx, 1, func() error {
				ran = true
				return nil
			})

			Convey("Then the work is refused with a conflict and never runs", func() {
				So(errors.Is(err, types.ErrConflict), ShouldBeTrue)
				So(ran, ShouldBeFalse)
			})
		})

		Convey("When guarding work against an absent boxer", func() {
			ran := false
			err := r.WhileAbsent(ctx, 2, func() error {
				ran = true
				return nil
			})

			Convey("Then the work runs", func() {
				So(err, ShouldBeNil)
				So(ran, ShouldBeTrue)
			})
		})

		Convey("When the guarded work fails", func() {
			wantErr := fmt.Errorf("store unavailable")
			err := r.WhileAbsent(ctx, 2, func() error { return wantErr })

			Convey("Then the failure surfaces unchanged", func() {
				So(errors.Is(err, wantErr), ShouldBeTrue)
			})
		})
	})
}

func TestRingOccupants(t *testing.T) {
	Convey("Given a ring backed by a registry", t, func() {
		ctx := context.Background()
		lookup := threeBoxers()
		r := ring.New(lookup)

		Convey("When reading occupants after entries", func() {
			_, _ = r.Enter(ctx, 2)
			_, _ = r.Enter(ctx, 1)

			occupants, err := r.Occupants(ctx)

			Convey("Then occupants come back in entry order", func() {
				So(err, ShouldBeNil)
				So(len(occupants), ShouldEqual, 2)
				So(occupants[0].ID, ShouldEqual, 2)
				So(occupants[1].ID, ShouldEqual, 1)
			})
		})

		Convey("When the registry record changes after entry", func() {
			_, _ = r.Enter(ctx, 1)
			updated := lookup.boxers[1]
			updated.Fights = 5
			updated.Wins = 3
			lookup.boxers[1] = updated

			occupants, err := r.Occupants(ctx)

			Convey("Then occupants reflect the fresh record", func() {
				So(err, ShouldBeNil)
				So(occupants[0].Fights, ShouldEqual, 5)
				So(occupants[0].Wins, ShouldEqual, 3)
			})
		})

		Convey("When the ring is empty", func() {
			occupants, err := r.Occupants(ctx)

			Convey("Then an empty slice is returned", func() {
				So(err, ShouldBeNil)
				So(len(occupants), ShouldEqual, 0)
			})
		})
	})
}
