// Copyright 2024 The qubogo Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package sampler provides QUBO samplers: an exact exhaustive enumerator
// for small problems and a single-flip simulated annealer. Both minimize
// the QUBO energy; a maximizing source model is already negated in its
// QUBO form.
package sampler

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/a-matsuo/qubogo/quboconv"
)

// ErrTooLarge holds the error when a problem exceeds a sampler's variable
// limit.
var ErrTooLarge = errors.New("problem exceeds the sampler's variable limit")

// Result represents a sampler's output.
type Result struct {
	Solutions   [][]int8  // distinct assignments found, best energy first
	Energies    []float64 // energy of each solution
	Occurrences []int     // tally of occurrences of each solution
}

// Best returns the lowest-energy solution and its energy. It returns false
// when the result is empty.
func (r Result) Best() ([]int8, float64, bool) {
	if len(r.Solutions) == 0 {
		return nil, 0, false
	}
	return r.Solutions[0], r.Energies[0], true
}

// Sampler draws solutions for a QUBO.
type Sampler interface {
	Sample(q *quboconv.QUBO) (Result, error)
}

// Float64s converts a binary solution to a float64 assignment, as consumed
// by the converter Decode methods.
func Float64s(x []int8) []float64 {
	out := make([]float64, len(x))
	for i, b := range x {
		out[i] = float64(b)
	}
	return out
}

// Exhaustive enumerates every assignment and returns all assignments that
// attain the minimum energy. The variable count is limited because the
// search space doubles per variable.
type Exhaustive struct {
	// MaxVariables caps the problem size; 0 means the default of 24.
	MaxVariables int
}

// Sample returns every minimum-energy assignment of `q`, each with one
// occurrence. It fails with ErrTooLarge beyond the variable cap.
func (e Exhaustive) Sample(q *quboconv.QUBO) (Result, error) {
	limit := e.MaxVariables
	if limit == 0 {
		limit = 24
	}
	n := q.NumVariables()
	if n > limit {
		return Result{}, fmt.Errorf("%d variables with a limit of %d: %w", n, limit, ErrTooLarge)
	}

	best := math.Inf(1)
	var solutions [][]int8
	x := make([]int8, n)
	for mask := 0; mask < 1<<uint(n); mask++ {
		for i := 0; i < n; i++ {
			x[i] = int8(mask >> uint(i) & 1)
		}
		energy := q.Energy(x)
		switch {
		case energy < best:
			best = energy
			solutions = solutions[:0]
			solutions = append(solutions, append([]int8(nil), x...))
		case energy == best:
			solutions = append(solutions, append([]int8(nil), x...))
		}
	}

	result := Result{Solutions: solutions}
	for range solutions {
		result.Energies = append(result.Energies, best)
		result.Occurrences = append(result.Occurrences, 1)
	}
	return result, nil
}

// Annealer is a single-flip Metropolis simulated annealer with a geometric
// inverse-temperature schedule and a final greedy descent per restart.
type Annealer struct {
	Sweeps   int     // sweeps per restart; 0 means 1000
	Restarts int     // independent restarts; 0 means 10
	BetaMin  float64 // initial inverse temperature; 0 means 0.01
	BetaMax  float64 // final inverse temperature; 0 means 10
	Seed     int64   // RNG seed; the zero seed is used as given
}

// Sample runs the annealer and returns the distinct final assignments of
// all restarts, best energy first, with occurrence tallies.
func (a Annealer) Sample(q *quboconv.QUBO) (Result, error) {
	sweeps := a.Sweeps
	if sweeps == 0 {
		sweeps = 1000
	}
	restarts := a.Restarts
	if restarts == 0 {
		restarts = 10
	}
	betaMin := a.BetaMin
	if betaMin == 0 {
		betaMin = 0.01
	}
	betaMax := a.BetaMax
	if betaMax == 0 {
		betaMax = 10
	}

	n := q.NumVariables()
	rng := rand.New(rand.NewSource(a.Seed))
	ratio := math.Pow(betaMax/betaMin, 1/math.Max(1, float64(sweeps-1)))

	type found struct {
		x      []int8
		energy float64
		count  int
	}
	seen := make(map[string]*found)
	for r := 0; r < restarts; r++ {
		x := make([]int8, n)
		for i := range x {
			x[i] = int8(rng.Intn(2))
		}

		beta := betaMin
		for s := 0; s < sweeps; s++ {
			for i := 0; i < n; i++ {
				delta := flipDelta(q, x, i)
				if delta <= 0 || rng.Float64() < math.Exp(-beta*delta) {
					x[i] = 1 - x[i]
				}
			}
			beta *= ratio
		}
		greedyDescent(q, x)

		key := string(solutionKey(x))
		if f, ok := seen[key]; ok {
			f.count++
		} else {
			seen[key] = &found{x: append([]int8(nil), x...), energy: q.Energy(x), count: 1}
		}
	}

	all := make([]*found, 0, len(seen))
	for _, f := range seen {
		all = append(all, f)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].energy < all[j].energy })

	var result Result
	for _, f := range all {
		result.Solutions = append(result.Solutions, f.x)
		result.Energies = append(result.Energies, f.energy)
		result.Occurrences = append(result.Occurrences, f.count)
	}
	return result, nil
}

// flipDelta returns the energy change of flipping bit `i` of `x`.
func flipDelta(q *quboconv.QUBO, x []int8, i int) float64 {
	m := q.Matrix()
	acc := m.At(i, i)
	for j := range x {
		if j != i && x[j] != 0 {
			acc += 2 * m.At(i, j)
		}
	}
	return float64(1-2*x[i]) * acc
}

// greedyDescent applies strictly improving single flips until none remains.
func greedyDescent(q *quboconv.QUBO, x []int8) {
	for improved := true; improved; {
		improved = false
		for i := range x {
			if flipDelta(q, x, i) < 0 {
				x[i] = 1 - x[i]
				improved = true
			}
		}
	}
}

func solutionKey(x []int8) []byte {
	key := make([]byte, len(x))
	for i, b := range x {
		key[i] = byte(b)
	}
	return key
}
