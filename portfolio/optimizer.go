// Copyright 2021-2023
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package portfolio

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
)

const (
	DefaultIterations  = 10_000
	DefaultTolerance   = 1e-8
	DefaultCoolingRate = 0.995
	DefaultMaxStep     = 0.05
	DefaultMinWeight   = 0.0001
	DefaultMaxWeight   = 0.9999
)

// Options configure a single optimization run
type Options struct {
	// Alpha balances the score reward (1) against the deviation penalty (0)
	Alpha float64

	Iterations int

	// Tolerance stops the search once the temperature falls below it
	Tolerance float64

	InitialTemperature float64
	CoolingRate        float64

	// MaxStep is the largest amount moved between two weights in one step
	MaxStep float64

	MinWeight float64
	MaxWeight float64

	// Rand is the random source; nil seeds a new source from the clock
	Rand *rand.Rand
}

// Result of an optimization run
type Result struct {
	Weights []float64 `json:"weights"`
	Target  []float64 `json:"target"`
	Alpha   float64   `json:"alpha"`

	// Objective is the objective value of Weights after bound adjustment
	Objective float64 `json:"objective"`

	// WeightedScore is the sum of weight * score
	WeightedScore float64 `json:"weightedScore"`

	// Deviation is the L1 distance between Weights and Target
	Deviation float64 `json:"deviation"`

	Iterations int `json:"iterations"`
}

// DefaultOptions returns the standard annealing schedule with the balanced alpha
func DefaultOptions() Options {
	return Options{
		Alpha:              0.5,
		Iterations:         DefaultIterations,
		Tolerance:          DefaultTolerance,
		InitialTemperature: 1.0,
		CoolingRate:        DefaultCoolingRate,
		MaxStep:            DefaultMaxStep,
		MinWeight:          DefaultMinWeight,
		MaxWeight:          DefaultMaxWeight,
	}
}

// Objective computes alpha * sum(w*s) - (1-alpha) * sum((w-t)^2)
func Objective(weights, scores, target []float64, alpha float64) float64 {
	reward := floats.Dot(weights, scores)

	penalty := 0.0
	for ii := range weights {
		d := weights[ii] - target[ii]
		penalty += d * d
	}

	return alpha*reward - (1-alpha)*penalty
}

func (opts Options) validate(scores, target []float64) error {
	if len(scores) < 2 {
		return fmt.Errorf("%w: need at least 2 scores, got %d", ErrInvalidInput, len(scores))
	}
	if len(target) != len(scores) {
		return fmt.Errorf("%w: %d target weights for %d scores", ErrInvalidInput, len(target), len(scores))
	}
	for _, s := range scores {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return fmt.Errorf("%w: score %v is not finite", ErrInvalidInput, s)
		}
	}
	for _, t := range target {
		if math.IsNaN(t) || t < 0 {
			return fmt.Errorf("%w: target weight %v must be non-negative", ErrInvalidInput, t)
		}
	}
	if floats.Sum(target) <= 0 {
		return fmt.Errorf("%w: target weights sum to zero", ErrInvalidInput)
	}
	if opts.Alpha < 0 || opts.Alpha > 1 || math.IsNaN(opts.Alpha) {
		return fmt.Errorf("%w: alpha %v outside [0,1]", ErrInvalidInput, opts.Alpha)
	}
	if opts.Iterations <= 0 {
		return fmt.Errorf("%w: iterations must be positive", ErrInvalidInput)
	}
	if opts.Tolerance <= 0 || opts.InitialTemperature <= 0 {
		return fmt.Errorf("%w: tolerance and temperature must be positive", ErrInvalidInput)
	}
	if opts.CoolingRate <= 0 || opts.CoolingRate >= 1 {
		return fmt.Errorf("%w: cooling rate %v outside (0,1)", ErrInvalidInput, opts.CoolingRate)
	}
	if opts.MaxStep <= 0 {
		return fmt.Errorf("%w: max step must be positive", ErrInvalidInput)
	}

	n := float64(len(scores))
	if opts.MinWeight < 0 || opts.MinWeight > opts.MaxWeight || opts.MinWeight*n > 1 || opts.MaxWeight*n < 1 {
		return fmt.Errorf("%w: [%v, %v] for %d weights", ErrInfeasibleBound, opts.MinWeight, opts.MaxWeight, len(scores))
	}

	return nil
}

// Optimize searches for the weight vector that maximizes Objective with
// simulated annealing, starting from the normalized target weights. A
// candidate is accepted when it improves on the current state, or otherwise
// with probability exp(delta/temperature). The best state seen is returned
// after clamping every weight into [MinWeight, MaxWeight] and renormalizing.
func Optimize(scores, target []float64, opts Options) (*Result, error) {
	if err := opts.validate(scores, target); err != nil {
		return nil, err
	}

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano())) // #nosec G404
	}

	normTarget := make([]float64, len(target))
	copy(normTarget, target)
	floats.Scale(1/floats.Sum(normTarget), normTarget)

	current := make([]float64, len(normTarget))
	copy(current, normTarget)
	currentObjective := Objective(current, scores, normTarget, opts.Alpha)

	best := make([]float64, len(current))
	copy(best, current)
	bestObjective := currentObjective

	temperature := opts.InitialTemperature
	iter := 0
	for iter < opts.Iterations {
		iter++

		candidate := neighbor(current, rng, opts)
		normalize(candidate)
		candidateObjective := Objective(candidate, scores, normTarget, opts.Alpha)

		delta := candidateObjective - currentObjective
		if delta > 0 || rng.Float64() < math.Exp(delta/temperature) {
			current = candidate
			currentObjective = candidateObjective

			if currentObjective > bestObjective {
				copy(best, current)
				bestObjective = currentObjective
			}
		}

		temperature *= opts.CoolingRate
		if temperature < opts.Tolerance {
			break
		}
	}

	AdjustToBounds(best, opts.MinWeight, opts.MaxWeight)

	res := &Result{
		Weights:       best,
		Target:        normTarget,
		Alpha:         opts.Alpha,
		Objective:     Objective(best, scores, normTarget, opts.Alpha),
		WeightedScore: floats.Dot(best, scores),
		Deviation:     floats.Distance(best, normTarget, 1),
		Iterations:    iter,
	}

	log.Debug().Int("Iterations", iter).Float64("Alpha", opts.Alpha).Float64("Objective", res.Objective).Floats64("Weights", res.Weights).Msg("optimization finished")

	return res, nil
}

// neighbor moves a random amount up to MaxStep from one weight to another
// distinct weight, limited so both stay inside the bounds
func neighbor(weights []float64, rng *rand.Rand, opts Options) []float64 {
	next := make([]float64, len(weights))
	copy(next, weights)

	from := rng.Intn(len(next))
	to := rng.Intn(len(next) - 1)
	if to >= from {
		to++
	}

	step := (rng.Float64()*2 - 1) * opts.MaxStep

	lo := math.Max(-opts.MaxStep, math.Max(opts.MinWeight-next[to], next[from]-opts.MaxWeight))
	hi := math.Min(opts.MaxStep, math.Min(opts.MaxWeight-next[to], next[from]-opts.MinWeight))
	if lo > hi {
		return next
	}
	step = math.Max(lo, math.Min(step, hi))

	next[to] += step
	next[from] -= step

	return next
}

func normalize(weights []float64) {
	sum := floats.Sum(weights)
	if sum > 0 && math.Abs(sum-1) > 1e-10 {
		floats.Scale(1/sum, weights)
	}
}
