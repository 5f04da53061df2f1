package registry_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/okian/ringside/internal/adapters/repository"
	"github.com/okian/ringside/internal/domain/registry"
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

// stubOccupancy treats a fixed set of ids as in the ring.
type stubOccupancy struct {
	inRing map[int64]bool
}

func (s *stubOccupancy) WhileAbsent(ctx context.Context, id int64, fn func() error) error {
	if s.inRing[id] {
		return fmt.Errorf("boxer %d occupies the ring: %w", id, types.ErrConflict)
	}
	return fn()
}

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	ctx := context.Background()
	store := repository.NewMemStore(ctx)
	t.Cleanup(func() { _ = store.Close() })
	return registry.New(store)
}

func TestRegistryCreate(t *testing.T) {
	Convey("Given a registry", t, func() {
		ctx := context.Background()
		reg := newRegistry(t)

		Convey("When creating a valid boxer", func() {
			b, err := reg.Create(ctx, "ali", 210, 74, 6.5, 28)

			Convey("Then the record has an id, a class and zeroed counters", func() {
				So(err, ShouldBeNil)
				So(b.ID, ShouldBeGreaterThan, 0)
				So(b.WeightClass, ShouldEqual, "HEAVYWEIGHT")
				So(b.Wins, ShouldEqual, 0)
				So(b.Fights, ShouldEqual, 0)
			})
		})

		Convey("When the name carries surrounding whitespace", func() {
			b, err := reg.Create(ctx, "  ali  ", 210, 74, 6.5, 28)

			Convey("Then the stored name is trimmed", func() {
				So(err, ShouldBeNil)
				So(b.Name, ShouldEqual, "ali")
			})
		})

		Convey("When attributes are out of domain", func() {
			cases := []struct {
				name   string
				weight int
				height int
				reach  float64
				age    int
			}{
				{"", 210, 74, 6.5, 28},
				{"light", 124, 74, 6.5, 28},
				{"young", 210, 74, 6.5, 17},
				{"old", 210, 74, 6.5, 41},
				{"flat", 210, 0, 6.5, 28},
				{"short-arms", 210, 74, 0, 28},
			}

			Convey("Then every create fails with a validation error", func() {
				for _, c := range cases {
					_, err := reg.Create(ctx, c.name, c.weight, c.height, c.reach, c.age)
					So(errors.Is(err, types.ErrValidation), ShouldBeTrue)
				}
				So(reg.Count(ctx), ShouldEqual, 0)
			})
		})

		Convey("When the name is already taken", func() {
			_, err := reg.Create(ctx, "ali", 210, 74, 6.5, 28)
			So(err, ShouldBeNil)
			_, err = reg.Create(ctx, "ali", 140, 68, 5.1, 22)

			Convey("Then the create fails with a conflict", func() {
				So(errors.Is(err, types.ErrConflict), ShouldBeTrue)
			})
		})
	})
}

func TestRegistryDelete(t *testing.T) {
	Convey("Given a registry with a boxer", t, func() {
		ctx := context.Background()
		reg := newRegistry(t)
		b, err := reg.Create(ctx, "ali", 210, 74, 6.5, 28)
		So(err, ShouldBeNil)

		Convey("When the boxer is not in the ring", func() {
			reg.AttachRing(&stubOccupancy{})

			Convey("Then the delete succeeds", func() {
				So(reg.Delete(ctx, b.ID), ShouldBeNil)
				_, err := reg.GetByID(ctx, b.ID)
				So(errors.Is(err, types.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When the boxer occupies the ring", func() {
			reg.AttachRing(&stubOccupancy{inRing: map[int64]bool{b.ID: true}})

			Convey("Then the delete is refused with a conflict", func() {
				err := reg.Delete(ctx, b.ID)
				So(errors.Is(err, types.ErrConflict), ShouldBeTrue)

				got, err := reg.GetByID(ctx, b.ID)
				So(err, ShouldBeNil)
				So(got.Name, ShouldEqual, "ali")
			})
		})

		Convey("When the id is unknown", func() {
			reg.AttachRing(&stubOccupancy{})

			Convey("Then the delete fails with not found", func() {
				So(errors.Is(reg.Delete(ctx, 9999), types.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}

// A delete and a ring entry racing over the same boxer must serialize:
// either the delete wins and the entry fails, or the entry wins and the
// delete is refused. The ring must never hold a deleted id.
func TestRegistryDeleteEnterRace(t *testing.T) {
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		store := repository.NewMemStore(ctx)
		reg := registry.New(store)
		rg := ring.New(reg)
		reg.AttachRing(rg)

		b, err := reg.Create(ctx, "ali", 210, 74, 6.5, 28)
		if err != nil {
			t.Fatalf("creating boxer: %v", err)
		}

		var wg sync.WaitGroup
		var enterErr, deleteErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, enterErr = rg.Enter(ctx, b.ID)
		}()
		go func() {
			defer wg.Done()
			deleteErr = reg.Delete(ctx, b.ID)
		}()
		wg.Wait()

		occupants, err := rg.Occupants(ctx)
		if err != nil {
			t.Fatalf("iteration %d: ring holds a deleted boxer: %v", i, err)
		}

		switch {
		case deleteErr == nil:
			if enterErr == nil {
				t.Fatalf("iteration %d: enter and delete both succeeded", i)
			}
			if len(occupants) != 0 {
				t.Fatalf("iteration %d: deleted boxer still occupies the ring", i)
			}
		case errors.Is(deleteErr, types.ErrConflict):
			if enterErr != nil {
				t.Fatalf("iteration %d: delete refused but enter failed: %v", i, enterErr)
			}
			if len(occupants) != 1 {
				t.Fatalf("iteration %d: expected one occupant, got %d", i, len(occupants))
			}
		default:
			t.Fatalf("iteration %d: unexpected delete error: %v", i, deleteErr)
		}

		_ = store.Close()
	}
}

func TestRegistryRecordResult(t *testing.T) {
	Convey("Given a registry with two boxers", t, func() {
		ctx := context.Background()
		reg := newRegistry(t)

		winner, _ := reg.Create(ctx, "ali", 210, 74, 6.5, 28)
		loser, _ := reg.Create(ctx, "tyson", 218, 71, 5.9, 24)

		Convey("When recording a result", func() {
			So(reg.RecordResult(ctx, winner.ID, loser.ID), ShouldBeNil)

			w, _ := reg.GetByID(ctx, winner.ID)
			So(w.Fights, ShouldEqual, 1)
			So(w.Wins, ShouldEqual, 1)

			l, _ := reg.GetByID(ctx, loser.ID)
			So(l.Fights, ShouldEqual, 1)
			So(l.Wins, ShouldEqual, 0)
		})

		Convey("When winner and loser are the same boxer", func() {
			err := reg.RecordResult(ctx, winner.ID, winner.ID)

			Convey("Then the call is rejected as invalid", func() {
				So(errors.Is(err, types.ErrValidation), ShouldBeTrue)
			})
		})
	})
}
