// Package fight resolves the outcome of a bout between the two ring occupants.
package fight

import (
	"math/rand"

	"github.com/okian/ringside/pkg/logger"
)

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithSeed seeds the resolver's random source deterministically. Tests use
// this to make outcomes reproducible.
func WithSeed(seed int64) Option {
	return func(r *Resolver) {
		r.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic seed for reproducible outcomes
	}
}

// WithWeights sets the skill score coefficients. Non-positive coefficients
// are ignored to preserve monotonicity and score positivity.
func WithWeights(w Weights) Option {
	return func(r *Resolver) {
		if w.Weight > 0 {
			r.weights.Weight = w.Weight
		}
		if w.Reach > 0 {
			r.weights.Reach = w.Reach
		}
		if w.Height > 0 {
			r.weights.Height = w.Height
		}
		if w.Youth > 0 {
			r.weights.Youth = w.Youth
		}
	}
}

// WithWeightsFromConfig sets coefficients from a configuration map with
// keys "weight", "reach", "height" and "youth". Unknown keys are ignored.
func WithWeightsFromConfig(weights map[string]float64) Option {
	return func(r *Resolver) {
		WithWeights(Weights{
			Weight: weights["weight"],
			Reach:  weights["reach"],
			Height: weights["height"],
			Youth:  weights["youth"],
		})(r)
	}
}

// WithLogger sets a custom logger for the resolver.
func WithLogger(l logger.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}
