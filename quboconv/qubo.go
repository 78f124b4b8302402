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

	log "github.com/golang/glog"
	"gonum.org/v1/gonum/mat"

	"github.com/a-matsuo/qubogo/qpmodel"
)

// QuboConverter composes IntegerToBinary and LinearEqualityPenalizer behind
// a single Encode/Decode pair: integers become binaries, equalities become
// quadratic penalties, and Decode inverts the binary expansion only, since
// penalization adds no variables.
//
// The input model must already be free of inequality constraints (run
// InequalityToEqual first) and of continuous variables.
type QuboConverter struct {
	intToBin  *IntegerToBinary
	penalizer *LinearEqualityPenalizer
}

// NewQuboConverter creates a QuboConverter with DefaultPenalty.
func NewQuboConverter() *QuboConverter {
	return &QuboConverter{
		intToBin:  NewIntegerToBinary(),
		penalizer: NewLinearEqualityPenalizer(),
	}
}

// WithPenalty sets the penalty factor and returns the converter.
func (c *QuboConverter) WithPenalty(m float64) *QuboConverter {
	c.penalizer.WithPenalty(m)
	return c
}

// Encode returns the unconstrained all-binary form of `m`.
func (c *QuboConverter) Encode(m *qpmodel.Model) (*qpmodel.Model, error) {
	for _, row := range m.Constraints() {
		if row.Sense != qpmodel.Equal {
			return nil, fmt.Errorf("constraint %q has sense %q, run InequalityToEqual first: %w", row.Name, row.Sense, ErrUnsupportedConstraint)
		}
	}
	for _, v := range m.Variables() {
		if v.Kind == qpmodel.ContinuousVar {
			return nil, fmt.Errorf("continuous variable %q cannot be reduced to binary form: %w", v.Name, ErrUnsupportedVariable)
		}
	}

	binModel, err := c.intToBin.Encode(m)
	if err != nil {
		return nil, err
	}
	return c.penalizer.Encode(binModel)
}

// Decode maps a binary assignment of the encoded model back to the original
// variables and returns it with the objective value recomputed on the
// original model.
func (c *QuboConverter) Decode(x []float64) ([]float64, float64, error) {
	y, _, err := c.penalizer.Decode(x)
	if err != nil {
		return nil, 0, err
	}
	return c.intToBin.Decode(y)
}

// Entry is a single QUBO coefficient in triplet form. If I == J it is a
// diagonal (linear) term, otherwise a quadratic term on the pair.
type Entry struct {
	I, J  int
	Value float64
}

// QUBO is the dense symmetric matrix form of an unconstrained all-binary
// model, always in minimization orientation: the energy of an assignment
// `x` in {0,1}^n is `x^T Q x + offset`, with linear terms on the diagonal
// (x^2 = x for binary x) and each quadratic coefficient split evenly over
// its two symmetric off-diagonal slots.
type QUBO struct {
	q      *mat.SymDense
	offset float64
	names  []string
	// flipped records that the source model maximized, so its objective is
	// the negated energy.
	flipped bool
}

// NewQUBO extracts the matrix form of `m`. It fails when the model still
// has constraints or any non-binary variable. A model without variables,
// such as one whose integer variables were all fixed before conversion,
// yields an offset-only QUBO with a nil matrix.
func NewQUBO(m *qpmodel.Model) (*QUBO, error) {
	if m.NumConstraints() != 0 {
		return nil, fmt.Errorf("model has %d constraints, QUBO form requires none: %w", m.NumConstraints(), ErrUnsupportedConstraint)
	}
	for _, v := range m.Variables() {
		if v.Kind != qpmodel.BinaryVar {
			return nil, fmt.Errorf("%s variable %q is not binary: %w", v.Kind, v.Name, ErrUnsupportedVariable)
		}
	}

	n := m.NumVariables()
	obj := m.Objective()
	sign := 1.0
	flipped := false
	if obj.Sense == qpmodel.Maximization {
		sign, flipped = -1, true
	}
	if n == 0 {
		// mat.NewSymDense rejects a zero dimension.
		return &QUBO{offset: sign * obj.Offset, flipped: flipped}, nil
	}

	q := mat.NewSymDense(n, nil)
	for _, t := range obj.Terms {
		i := int(t.Var)
		q.SetSym(i, i, q.At(i, i)+sign*t.Coeff)
	}
	for _, t := range obj.QuadTerms {
		i, j := int(t.I), int(t.J)
		if i == j {
			q.SetSym(i, i, q.At(i, i)+sign*t.Coeff)
			continue
		}
		q.SetSym(i, j, q.At(i, j)+sign*t.Coeff/2)
	}

	names := make([]string, n)
	for i, v := range m.Variables() {
		names[i] = v.Name
	}
	return &QUBO{q: q, offset: sign * obj.Offset, names: names, flipped: flipped}, nil
}

// NumVariables returns the number of binary variables.
func (q *QUBO) NumVariables() int { return len(q.names) }

// Names returns the variable names in index order. The returned slice is
// shared and must not be modified.
func (q *QUBO) Names() []string { return q.names }

// Matrix returns the symmetric coefficient matrix, nil for an offset-only
// QUBO without variables. The returned matrix is shared and must not be
// modified.
func (q *QUBO) Matrix() *mat.SymDense { return q.q }

// Offset returns the constant energy offset.
func (q *QUBO) Offset() float64 { return q.offset }

// Flipped reports whether the source model maximized, in which case its
// objective value is the negated energy.
func (q *QUBO) Flipped() bool { return q.flipped }

// Energy returns `x^T Q x + offset` for the binary assignment `x`.
func (q *QUBO) Energy(x []int8) float64 {
	if len(x) != len(q.names) {
		log.Fatalf("x must have one value per variable: %v != %v", len(x), len(q.names))
	}
	if len(x) == 0 {
		return q.offset
	}
	v := mat.NewVecDense(len(x), nil)
	for i, b := range x {
		v.SetVec(i, float64(b))
	}
	var tmp mat.VecDense
	tmp.MulVec(q.q, v)
	return mat.Dot(v, &tmp) + q.offset
}

// Entries returns the non-zero coefficients in triplet form, diagonal terms
// first as linear entries, then each off-diagonal pair once with its full
// coefficient.
func (q *QUBO) Entries() []Entry {
	n := len(q.names)
	var entries []Entry
	for i := 0; i < n; i++ {
		if c := q.q.At(i, i); c != 0 {
			entries = append(entries, Entry{I: i, J: i, Value: c})
		}
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if c := q.q.At(i, j); c != 0 {
				entries = append(entries, Entry{I: i, J: j, Value: 2 * c})
			}
		}
	}
	return entries
}
