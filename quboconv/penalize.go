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

package quboconv

import (
	"fmt"
	"math"

	log "github.com/golang/glog"

	"github.com/a-matsuo/qubogo/qpmodel"
)

// DefaultPenalty is the penalty factor used when none is configured.
const DefaultPenalty = 1e5

// LinearEqualityPenalizer folds every linear equality constraint of a model
// into a quadratic penalty term on the objective: for each `expr = rhs`,
// the term `M * (expr - rhs)^2` is added to a minimization objective and
// subtracted from a maximization objective, so a violation always worsens
// the objective. The output model has zero constraints and the same
// variables.
//
// The penalty factor must dominate the objective's coefficient magnitudes
// for the penalized optimum to satisfy the original constraints; the caller
// is responsible for that, see SuggestPenalty.
type LinearEqualityPenalizer struct {
	penalty float64
	src     *qpmodel.Model
	enc     *qpmodel.Model
}

// NewLinearEqualityPenalizer creates a penalizer with DefaultPenalty.
func NewLinearEqualityPenalizer() *LinearEqualityPenalizer {
	return &LinearEqualityPenalizer{penalty: DefaultPenalty}
}

// WithPenalty sets the penalty factor and returns the penalizer.
func (p *LinearEqualityPenalizer) WithPenalty(m float64) *LinearEqualityPenalizer {
	p.penalty = m
	return p
}

// Penalty returns the configured penalty factor.
func (p *LinearEqualityPenalizer) Penalty() float64 { return p.penalty }

// SuggestPenalty returns a penalty factor that dominates the objective's
// coefficient magnitudes of `m` by an order of magnitude. It is advisory;
// the final choice stays with the caller.
func SuggestPenalty(m *qpmodel.Model) float64 {
	obj := m.Objective()
	sum := math.Abs(obj.Offset)
	for _, t := range obj.Terms {
		sum += math.Abs(t.Coeff)
	}
	for _, t := range obj.QuadTerms {
		sum += math.Abs(t.Coeff)
	}
	return 10 * (sum + 1)
}

// Encode returns an unconstrained model with the equalities folded into the
// objective. Encode fails with ErrUnsupportedConstraint when any constraint
// is not an equality.
func (p *LinearEqualityPenalizer) Encode(m *qpmodel.Model) (*qpmodel.Model, error) {
	for _, row := range m.Constraints() {
		if row.Sense != qpmodel.Equal {
			return nil, fmt.Errorf("constraint %q has sense %q, penalization requires equalities: %w", row.Name, row.Sense, ErrUnsupportedConstraint)
		}
	}

	b := qpmodel.NewBuilder()
	rep := make([]qpmodel.LinearArgument, m.NumVariables())
	for i, v := range m.Variables() {
		rep[i] = declareVar(b, v)
	}

	sign := 1.0
	if m.Objective().Sense == qpmodel.Maximization {
		sign = -1
	}
	obj := substObjective(m.Objective(), rep)
	for _, row := range m.Constraints() {
		residual := substLinear(row.Terms, rep).AddConstant(-row.RHS)
		obj.AddQuadTerm(residual, residual, sign*p.penalty)
	}
	setObjective(b, m.Objective().Sense, obj)

	enc, err := b.Model()
	if err != nil {
		return nil, err
	}
	log.V(1).Infof("penalizer: folded %d equality constraints with penalty %g", m.NumConstraints(), p.penalty)
	p.src, p.enc = m, enc
	return enc, nil
}

// Decode passes the assignment through unchanged (penalization adds no
// variables) and returns it with the objective value recomputed on the
// constrained model.
func (p *LinearEqualityPenalizer) Decode(x []float64) ([]float64, float64, error) {
	if p.enc == nil {
		return nil, 0, ErrNotEncoded
	}
	if len(x) != p.enc.NumVariables() {
		return nil, 0, fmt.Errorf("got %d values, encoded model has %d variables: %w", len(x), p.enc.NumVariables(), ErrDecodeMismatch)
	}
	out := append([]float64(nil), x...)
	obj, err := p.src.Evaluate(out)
	if err != nil {
		return nil, 0, err
	}
	return out, obj, nil
}
