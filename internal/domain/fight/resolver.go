// Package fight resolves the outcome of a bout between the two ring
// occupants. Resolution is two-staged: a deterministic skill score per
// boxer, then a stochastic draw biased by the normalized score difference.
package fight

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/ringside/internal/domain/model"
	"github.com/okian/ringside/internal/domain/types"
	"github.com/okian/ringside/pkg/logger"
	"github.com/okian/ringside/pkg/metrics"
)

// probEpsilon keeps the win probability strictly inside (0,1) against
// float rounding when one score dwarfs the other.
const probEpsilon = 1e-12

// Ring abstracts what the resolver needs from the ring.
type Ring interface {
	Occupants(ctx context.Context) ([]model.Boxer, error)
	Clear(ctx context.Context)
}

// Recorder writes a bout's effect back to the registry.
type Recorder interface {
	RecordResult(ctx context.Context, winnerID, loserID int64) error
}

// Weights are the skill score coefficients. All must be strictly positive
// so the score stays monotonic in each attribute and positive for any
// valid boxer.
type Weights struct {
	Weight float64 // per pound
	Reach  float64 // per unit of reach
	Height float64 // secondary term, deliberately small
	Youth  float64 // divided by age, so younger scores higher
}

// DefaultWeights is the tunable default policy.
var DefaultWeights = Weights{
	Weight: 1.0,
	Reach:  10.0,
	Height: 0.25,
	Youth:  150.0,
}

// Resolver computes win probabilities and draws bout outcomes.
type Resolver struct {
	ring     Ring
	recorder Recorder
	weights  Weights

	// mu serializes Resolve: the occupants read, the record update and
	// the clear must commit as a unit so concurrent callers cannot
	// resolve the same ring fill twice. It also guards rng, which is not
	// safe for concurrent use.
	rng *rand.Rand
	mu  sync.Mutex

	logger logger.Logger
}

// New constructs a Resolver with configuration options.
func New(ring Ring, recorder Recorder, opts ...Option) *Resolver {
	r := &Resolver{
		ring:     ring,
		recorder: recorder,
		weights:  DefaultWeights,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // outcome bias, not cryptography
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logger.Get().Named("fight")
	}
	return r
}

// Skill computes the deterministic skill score for a boxer. Monotonic in
// weight, reach and inverse age, with height as a smaller secondary term;
// strictly positive for any valid boxer.
func (r *Resolver) Skill(b model.Boxer) float64 {
	return r.weights.Weight*float64(b.Weight) +
		r.weights.Reach*b.Reach +
		r.weights.Height*float64(b.Height) +
		r.weights.Youth/float64(b.Age)
}

// WinProbability returns the probability that a beats b, via the
// normalized-difference transform p = sA / (sA + sB). For positive scores
// the result is strictly inside (0,1), so no pairing is ever a foregone
// conclusion.
func (r *Resolver) WinProbability(a, b model.Boxer) float64 {
	sa := r.Skill(a)
	sb := r.Skill(b)
	p := sa / (sa + sb)
	if p <= 0 {
		p = probEpsilon
	}
	if p >= 1 {
		p = 1 - probEpsilon
	}
	return p
}

// Resolve runs a bout between the two ring occupants. Bouts resolve one
// at a time: a second caller waits, then fails the precondition check
// against the now-empty ring instead of committing the same fill twice.
// The result is recorded before the ring is cleared; if recording fails
// the ring is left untouched and no state changes.
func (r *Resolver) Resolve(ctx context.Context) (model.BoutResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	occupants, err := r.ring.Occupants(ctx)
	if err != nil {
		return model.BoutResult{}, fmt.Errorf("reading ring: %w", err)
	}
	if len(occupants) != 2 {
		return model.BoutResult{}, fmt.Errorf("ring holds %d boxers, a bout needs exactly 2: %w",
			len(occupants), types.ErrPrecondition)
	}

	first, second := occupants[0], occupants[1]
	p := r.WinProbability(first, second)

	draw := r.rng.Float64()

	winner, loser := first, second
	if draw >= p {
		winner, loser = second, first
	}

	if err := r.recorder.RecordResult(ctx, winner.ID, loser.ID); err != nil {
		return model.BoutResult{}, fmt.Errorf("committing bout: %w", err)
	}
	r.ring.Clear(ctx)

	result := model.BoutResult{
		BoutID:      uuid.NewString(),
		WinnerID:    winner.ID,
		WinnerName:  winner.Name,
		LoserID:     loser.ID,
		LoserName:   loser.Name,
		Probability: p,
		TS:          time.Now().UTC(),
	}

	metrics.RecordBoutResolved()
	metrics.ObserveWinProbability(p)
	r.logger.Info(ctx, "bout resolved",
		logger.String("boutID", result.BoutID),
		logger.String("winner", winner.Name),
		logger.String("loser", loser.Name),
		logger.Float64("probability", p),
	)
	return result, nil
}
