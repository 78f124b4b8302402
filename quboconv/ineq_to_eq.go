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

// InequalityToEqual rewrites every inequality constraint of a model into an
// equality by adding one non-negative slack variable per inequality. The
// slack absorbs the feasible gap between the two sides; its upper bound is
// derived from the declared variable bounds by interval arithmetic. The
// slack is integer when the constraint row is fully integral, continuous
// otherwise.
type InequalityToEqual struct {
	src   *qpmodel.Model
	enc   *qpmodel.Model
	nOrig int
}

// NewInequalityToEqual creates a new InequalityToEqual converter.
func NewInequalityToEqual() *InequalityToEqual {
	return &InequalityToEqual{}
}

// Encode returns a model whose constraints are all equalities. Constraint
// count is unchanged; the variable count grows by one per inequality. A
// model already free of inequalities converts to an identical model.
//
// Encode fails with ErrUnbounded when the slack range of a constraint is
// infinite, and with qpmodel.ErrInvalidBounds when a constraint can never
// be satisfied under the declared bounds.
func (c *InequalityToEqual) Encode(m *qpmodel.Model) (*qpmodel.Model, error) {
	b := qpmodel.NewBuilder()
	rep := make([]qpmodel.LinearArgument, m.NumVariables())
	for i, v := range m.Variables() {
		rep[i] = declareVar(b, v)
	}

	var slacks int
	for _, row := range m.Constraints() {
		expr := substLinear(row.Terms, rep)
		if row.Sense == qpmodel.Equal {
			b.AddEquality(expr, qpmodel.NewConstant(row.RHS)).WithName(row.Name)
			continue
		}

		bounds := m.ExpressionBounds(row.Terms)
		var slackHi float64
		switch row.Sense {
		case qpmodel.LessOrEqual:
			// slack = rhs - expr, in [0, rhs - lb(expr)].
			if math.IsInf(bounds.Lo, -1) {
				return nil, fmt.Errorf("constraint %q has no finite lower bound: %w", row.Name, ErrUnbounded)
			}
			slackHi = row.RHS - bounds.Lo
		case qpmodel.GreaterOrEqual:
			// slack = expr - rhs, in [0, ub(expr) - rhs].
			if math.IsInf(bounds.Hi, 1) {
				return nil, fmt.Errorf("constraint %q has no finite upper bound: %w", row.Name, ErrUnbounded)
			}
			slackHi = bounds.Hi - row.RHS
		}
		if slackHi < 0 {
			return nil, fmt.Errorf("constraint %q cannot be satisfied under the declared bounds: %w", row.Name, qpmodel.ErrInvalidBounds)
		}

		var slack qpmodel.LinearArgument
		if c.rowIsIntegral(m, row) {
			slack = b.NewIntVar(0, int64(math.Floor(slackHi))).WithName(row.Name + "@int_slack")
		} else {
			slack = b.NewNumVar(0, slackHi).WithName(row.Name + "@continuous_slack")
		}
		slacks++

		lhs := qpmodel.NewLinearExpr().Add(expr)
		if row.Sense == qpmodel.LessOrEqual {
			lhs.Add(slack)
		} else {
			lhs.AddTerm(slack, -1)
		}
		b.AddEquality(lhs, qpmodel.NewConstant(row.RHS)).WithName(row.Name)
	}

	setObjective(b, m.Objective().Sense, substObjective(m.Objective(), rep))

	enc, err := b.Model()
	if err != nil {
		return nil, err
	}
	log.V(1).Infof("inequality-to-equality: added %d slack variables", slacks)
	c.src, c.enc, c.nOrig = m, enc, m.NumVariables()
	return enc, nil
}

// rowIsIntegral reports whether every coefficient, every referenced
// variable domain, and the right-hand side of the row are integral, in
// which case an integer slack suffices.
func (c *InequalityToEqual) rowIsIntegral(m *qpmodel.Model, row qpmodel.Row) bool {
	if row.RHS != math.Trunc(row.RHS) {
		return false
	}
	for _, t := range row.Terms {
		if t.Coeff != math.Trunc(t.Coeff) {
			return false
		}
		if m.Variable(t.Var).Kind == qpmodel.ContinuousVar {
			return false
		}
	}
	return true
}

// Decode maps an assignment of the encoded model back to the original
// variables by dropping the slack values, and returns it with the objective
// value recomputed on the original model.
func (c *InequalityToEqual) Decode(x []float64) ([]float64, float64, error) {
	if c.enc == nil {
		return nil, 0, ErrNotEncoded
	}
	if len(x) != c.enc.NumVariables() {
		return nil, 0, fmt.Errorf("got %d values, encoded model has %d variables: %w", len(x), c.enc.NumVariables(), ErrDecodeMismatch)
	}
	out := append([]float64(nil), x[:c.nOrig]...)
	obj, err := c.src.Evaluate(out)
	if err != nil {
		return nil, 0, err
	}
	return out, obj, nil
}
