package fight_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/okian/ringside/internal/domain/fight"
	"github.com/okian/ringside/internal/domain/model"
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

// stubRing always serves the same occupants and tracks Clear calls.
type stubRing struct {
	occupants []model.Boxer
	cleared   int
}

func (s *stubRing) Occupants(ctx context.Context) ([]model.Boxer, error) {
	out := make([]model.Boxer, len(s.occupants))
	copy(out, s.occupants)
	return out, nil
}

func (s *stubRing) Clear(ctx context.Context) { s.cleared++ }

// countingRecorder tallies wins per boxer id.
type countingRecorder struct {
	wins map[int64]int
}

func (c *countingRecorder) RecordResult(ctx context.Context, winnerID, loserID int64) error {
	if c.wins == nil {
		c.wins = make(map[int64]int)
	}
	c.wins[winnerID]++
	return nil
}

// clearingRing keeps its occupants until cleared, like the real ring.
type clearingRing struct {
	mu        sync.Mutex
	occupants []model.Boxer
}

func (c *clearingRing) Occupants(ctx context.Context) ([]model.Boxer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Boxer, len(c.occupants))
	copy(out, c.occupants)
	return out, nil
}

func (c *clearingRing) Clear(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.occupants = nil
}

// slowRecorder counts commits and simulates store transaction latency.
type slowRecorder struct {
	mu      sync.Mutex
	commits int
}

func (s *slowRecorder) RecordResult(ctx context.Context, winnerID, loserID int64) error {
	time.Sleep(20 * time.Millisecond)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commits++
	return nil
}

// failingRecorder always rejects the commit.
type failingRecorder struct{}

func (failingRecorder) RecordResult(ctx context.Context, winnerID, loserID int64) error {
	return fmt.Errorf("store unavailable: %w", types.ErrNotFound)
}

func josh() model.Boxer {
	return model.Boxer{ID: 1, Name: "josh", Weight: 165, Height: 54, Reach: 3.4, Age: 32}
}

func bob() model.Boxer {
	return model.Boxer{ID: 2, Name: "bob", Weight: 180, Height: 72, Reach: 3.9, Age: 24}
}

func TestSkill(t *testing.T) {
	Convey("Given the default skill weights", t, func() {
		r := fight.New(&stubRing{}, &countingRecorder{})

		Convey("Then the score matches the linear formula", func() {
			// 165 + 10*3.4 + 0.25*54 + 150/32
			So(r.Skill(josh()), ShouldAlmostEqual, 217.1875, 1e-9)
			// 180 + 10*3.9 + 0.25*72 + 150/24
			So(r.Skill(bob()), ShouldAlmostEqual, 243.25, 1e-9)
		})

		Convey("Then the score is strictly positive for any valid boxer", func() {
			b := model.Boxer{Weight: 125, Height: 1, Reach: 0.1, Age: 40}
			So(r.Skill(b), ShouldBeGreaterThan, 0)
		})

		Convey("Then the score grows with each attribute", func() {
			base := josh()
			baseScore := r.Skill(base)

			heavier := base
			heavier.Weight++
			So(r.Skill(heavier), ShouldBeGreaterThan, baseScore)

			longer := base
			longer.Reach += 0.1
			So(r.Skill(longer), ShouldBeGreaterThan, baseScore)

			taller := base
			taller.Height++
			So(r.Skill(taller), ShouldBeGreaterThan, baseScore)

			younger := base
			younger.Age--
			So(r.Skill(younger), ShouldBeGreaterThan, baseScore)
		})
	})
}

func TestWinProbability(t *testing.T) {
	Convey("Given two boxers", t, func() {
		r := fight.New(&stubRing{}, &countingRecorder{})

		Convey("Then probabilities are complementary and inside (0,1)", func() {
			pJosh := r.WinProbability(josh(), bob())
			pBob := r.WinProbability(bob(), josh())

			So(pJosh, ShouldBeGreaterThan, 0)
			So(pJosh, ShouldBeLessThan, 1)
			So(pJosh+pBob, ShouldAlmostEqual, 1.0, 1e-9)
			So(pBob, ShouldBeGreaterThan, 0.5)
		})

		Convey("Then a mirror match is an even draw", func() {
			So(r.WinProbability(josh(), josh()), ShouldAlmostEqual, 0.5, 1e-9)
		})

		Convey("Then an extreme mismatch never reaches certainty", func() {
			giant := model.Boxer{ID: 3, Weight: 1_000_000, Height: 90, Reach: 9, Age: 18}
			p := r.WinProbability(giant, josh())
			So(p, ShouldBeLessThan, 1)
			So(r.WinProbability(josh(), giant), ShouldBeGreaterThan, 0)
		})
	})
}

func TestResolvePreconditions(t *testing.T) {
	Convey("Given a resolver", t, func() {
		ctx := context.Background()

		Convey("When the ring is empty", func() {
			r := fight.New(&stubRing{}, &countingRecorder{})
			_, err := r.Resolve(ctx)

			Convey("Then the bout is rejected as a precondition failure", func() {
				So(errors.Is(err, types.ErrPrecondition), ShouldBeTrue)
			})
		})

		Convey("When the ring holds only one boxer", func() {
			r := fight.New(&stubRing{occupants: []model.Boxer{josh()}}, &countingRecorder{})
			_, err := r.Resolve(ctx)

			Convey("Then the bout is rejected as a precondition failure", func() {
				So(errors.Is(err, types.ErrPrecondition), ShouldBeTrue)
			})
		})
	})
}

func TestResolveCommit(t *testing.T) {
	Convey("Given a ring with two boxers", t, func() {
		ctx := context.Background()

		Convey("When a bout resolves", func() {
			ring := &stubRing{occupants: []model.Boxer{josh(), bob()}}
			rec := &countingRecorder{}
			r := fight.New(ring, rec, fight.WithSeed(42))

			result, err := r.Resolve(ctx)

			Convey("Then the result is recorded and the ring cleared", func() {
				So(err, ShouldBeNil)
				So(result.BoutID, ShouldNotBeEmpty)
				So(result.WinnerID, ShouldNotEqual, result.LoserID)
				So(result.Probability, ShouldBeGreaterThan, 0)
				So(result.Probability, ShouldBeLessThan, 1)
				So(ring.cleared, ShouldEqual, 1)
				So(rec.wins[result.WinnerID], ShouldEqual, 1)
			})
		})

		Convey("When recording the result fails", func() {
			ring := &stubRing{occupants: []model.Boxer{josh(), bob()}}
			r := fight.New(ring, failingRecorder{}, fight.WithSeed(42))

			_, err := r.Resolve(ctx)

			Convey("Then the error surfaces and the ring is left untouched", func() {
				So(err, ShouldNotBeNil)
				So(ring.cleared, ShouldEqual, 0)
			})
		})
	})
}

func TestResolveConcurrent(t *testing.T) {
	ctx := context.Background()
	ring := &clearingRing{occupants: []model.Boxer{josh(), bob()}}
	rec := &slowRecorder{}
	r := fight.New(ring, rec, fight.WithSeed(7))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = r.Resolve(ctx)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case !errors.Is(err, types.ErrPrecondition):
			t.Fatalf("unexpected resolve error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("one ring fill resolved %d times", succeeded)
	}
	if rec.commits != 1 {
		t.Fatalf("one ring fill committed %d bout results", rec.commits)
	}
}

func TestResolveDistribution(t *testing.T) {
	Convey("Given a seeded resolver and many bouts", t, func() {
		ctx := context.Background()
		ring := &stubRing{occupants: []model.Boxer{josh(), bob()}}
		rec := &countingRecorder{}
		r := fight.New(ring, rec, fight.WithSeed(1))

		const bouts = 10_000
		for i := 0; i < bouts; i++ {
			_, err := r.Resolve(ctx)
			So(err, ShouldBeNil)
		}

		Convey("Then empirical win rates converge on the computed probability", func() {
			p := r.WinProbability(josh(), bob())
			observed := float64(rec.wins[josh().ID]) / float64(bouts)

			// Three sigma for a binomial with n=10000.
			tolerance := 3 * math.Sqrt(p*(1-p)/float64(bouts))
			So(math.Abs(observed-p), ShouldBeLessThan, tolerance)
		})

		Convey("Then both boxers win at least once", func() {
			So(rec.wins[josh().ID], ShouldBeGreaterThan, 0)
			So(rec.wins[bob().ID], ShouldBeGreaterThan, 0)
		})
	})
}

func TestCustomWeights(t *testing.T) {
	Convey("Given custom skill weights", t, func() {
		r := fight.New(&stubRing{}, &countingRecorder{}, fight.WithWeights(fight.Weights{
			Weight: 2.0,
			Reach:  1.0,
			Height: 1.0,
			Youth:  100.0,
		}))

		Convey("Then the score uses them", func() {
			b := model.Boxer{Weight: 150, Height: 60, Reach: 4, Age: 25}
			// 2*150 + 1*4 + 1*60 + 100/25
			So(r.Skill(b), ShouldAlmostEqual, 368.0, 1e-9)
		})
	})

	Convey("Given a weights map from configuration", t, func() {
		r := fight.New(&stubRing{}, &countingRecorder{}, fight.WithWeightsFromConfig(map[string]float64{
			"weight": 3.0,
			"reach":  5.0,
			"height": 1.0,
			"youth":  200.0,
		}))

		Convey("Then the score follows the configured coefficients", func() {
			b := model.Boxer{Weight: 130, Height: 60, Reach: 4, Age: 20}
			// 3*130 + 5*4 + 1*60 + 200/20
			So(r.Skill(b), ShouldAlmostEqual, 480.0, 1e-9)
		})
	})

	Convey("Given non-positive coefficients", t, func() {
		r := fight.New(&stubRing{}, &countingRecorder{}, fight.WithWeights(fight.Weights{
			Weight: -1.0,
			Reach:  0,
			Height: 0.25,
			Youth:  150.0,
		}))

		Convey("Then the defaults are kept", func() {
			So(r.Skill(josh()), ShouldAlmostEqual, 217.1875, 1e-9)
		})
	})
}
