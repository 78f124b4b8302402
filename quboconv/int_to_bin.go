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

	"github.com/a-matsuo/qubogo/qpmodel"
)

// IntegerToBinary replaces every bounded integer variable of a model with a
// fixed-size set of binary variables using bounded-coefficient encoding,
// and remaps every expression referencing it. An integer variable with
// bounds [L,U] and range R = U-L becomes
//
//	L + 1*b0 + 2*b1 + ... + 2^(k-2)*b(k-2) + (R+1-2^(k-1))*b(k-1)
//
// with k = ceil(log2(R+1)) binaries named `<var>@0` .. `<var>@k-1`. The
// subset sums of the coefficients cover exactly {0,...,R}. Binary and
// continuous variables pass through unchanged, so a model without integer
// variables converts to an identical model.
type IntegerToBinary struct {
	src        *qpmodel.Model
	enc        *qpmodel.Model
	expansions []expansion
}

// expansion records how one original variable maps into the encoded model.
type expansion struct {
	// passthrough is the encoded index of a variable copied unchanged, or
	// -1 when the variable was expanded or fixed.
	passthrough qpmodel.VarIndex
	// offset is the folded lower bound of an expanded integer variable.
	offset float64
	// coeffs and vars are the bounded coefficients and the encoded indices
	// of the replacement binaries. Both are empty for a fixed variable
	// (range zero), whose value is `offset`.
	coeffs []float64
	vars   []qpmodel.VarIndex
}

// NewIntegerToBinary creates a new IntegerToBinary converter.
func NewIntegerToBinary() *IntegerToBinary {
	return &IntegerToBinary{}
}

// boundedCoeffs returns the bounded-coefficient encoding of the range
// {0,...,r} for r >= 1: the first k-1 powers of two and a final bounded
// term r+1-2^(k-1), with k the minimal number of binaries.
func boundedCoeffs(r int64) []float64 {
	k := 1
	for int64(1)<<k-1 < r {
		k++
	}
	coeffs := make([]float64, k)
	for i := 0; i < k-1; i++ {
		coeffs[i] = float64(int64(1) << i)
	}
	coeffs[k-1] = float64(r - int64(1)<<(k-1) + 1)
	return coeffs
}

// Encode returns a model in which every integer variable has been replaced
// by its binary expansion. The coefficient list of every expansion is
// stored for Decode. Encode fails with ErrUnbounded when an integer
// variable has an infinite bound.
func (c *IntegerToBinary) Encode(m *qpmodel.Model) (*qpmodel.Model, error) {
	b := qpmodel.NewBuilder()
	rep := make([]qpmodel.LinearArgument, m.NumVariables())
	expansions := make([]expansion, m.NumVariables())

	next := qpmodel.VarIndex(0)
	var expanded int
	for i, v := range m.Variables() {
		if v.Kind != qpmodel.IntegerVar {
			rep[i] = declareVar(b, v)
			expansions[i] = expansion{passthrough: next}
			next++
			continue
		}
		if !v.Bounds().IsFinite() {
			return nil, fmt.Errorf("integer variable %q has bounds %v: %w", v.Name, v.Bounds(), ErrUnbounded)
		}

		lo, hi := int64(v.Lo), int64(v.Hi)
		if lo == hi {
			// Range zero: the variable is a constant.
			rep[i] = qpmodel.NewConstant(v.Lo)
			expansions[i] = expansion{passthrough: -1, offset: v.Lo}
			continue
		}

		coeffs := boundedCoeffs(hi - lo)
		e := qpmodel.NewLinearExpr().AddConstant(v.Lo)
		vars := make([]qpmodel.VarIndex, len(coeffs))
		for j, coeff := range coeffs {
			bv := b.NewBoolVar().WithName(fmt.Sprintf("%s@%d", v.Name, j))
			e.AddTerm(bv, coeff)
			vars[j] = next
			next++
		}
		rep[i] = e
		expansions[i] = expansion{passthrough: -1, offset: v.Lo, coeffs: coeffs, vars: vars}
		expanded++
	}

	for _, row := range m.Constraints() {
		expr := substLinear(row.Terms, rep)
		rhs := qpmodel.NewConstant(row.RHS)
		switch row.Sense {
		case qpmodel.LessOrEqual:
			b.AddLessOrEqual(expr, rhs).WithName(row.Name)
		case qpmodel.Equal:
			b.AddEquality(expr, rhs).WithName(row.Name)
		case qpmodel.GreaterOrEqual:
			b.AddGreaterOrEqual(expr, rhs).WithName(row.Name)
		}
	}
	setObjective(b, m.Objective().Sense, substObjective(m.Objective(), rep))

	enc, err := b.Model()
	if err != nil {
		return nil, err
	}
	log.V(1).Infof("integer-to-binary: expanded %d integer variables, encoded model has %d variables", expanded, enc.NumVariables())
	c.src, c.enc, c.expansions = m, enc, expansions
	return enc, nil
}

// Coefficients returns the stored coefficient list for the original
// variable at index `i`, or nil when the variable passed through unchanged
// or was fixed.
func (c *IntegerToBinary) Coefficients(i qpmodel.VarIndex) []float64 {
	if c.expansions == nil {
		return nil
	}
	return c.expansions[i].coeffs
}

// Decode maps an assignment of the encoded model back to the original
// variables: each expanded integer is recomputed as its offset plus the
// weighted sum of its replacement binaries, all other variables copy
// through. The returned objective value is recomputed on the original
// model. Decode fails with ErrDecodeMismatch when the vector length does
// not match the encoded model.
func (c *IntegerToBinary) Decode(x []float64) ([]float64, float64, error) {
	if c.enc == nil {
		return nil, 0, ErrNotEncoded
	}
	if len(x) != c.enc.NumVariables() {
		return nil, 0, fmt.Errorf("got %d values, encoded model has %d variables: %w", len(x), c.enc.NumVariables(), ErrDecodeMismatch)
	}
	out := make([]float64, c.src.NumVariables())
	for i, e := range c.expansions {
		switch {
		case e.passthrough >= 0:
			out[i] = x[e.passthrough]
		case len(e.coeffs) == 0:
			out[i] = e.offset
		default:
			v := e.offset
			for j, coeff := range e.coeffs {
				v += coeff * x[e.vars[j]]
			}
			out[i] = v
		}
	}
	obj, err := c.src.Evaluate(out)
	if err != nil {
		return nil, 0, err
	}
	return out, obj, nil
}
