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

// Package quboconv transforms quadratic programs towards QUBO form.
//
// The package provides the conversion passes needed to turn a constrained
// model with integer variables into an unconstrained quadratic binary model:
// `InequalityToEqual` rewrites inequalities into equalities with slack
// variables, `IntegerToBinary` replaces bounded integer variables with
// bounded-coefficient binary expansions, `LinearEqualityPenalizer` folds the
// remaining equalities into quadratic objective penalties, and
// `QuboConverter` composes the last two behind a single Encode/Decode pair.
//
// A converter value serves one model at a time: Encode stores the encoding
// record needed by Decode, Decode consumes it, and reuse after Decode is
// undefined unless Encode is called again.
package quboconv

import (
	"errors"

	"github.com/a-matsuo/qubogo/qpmodel"
)

// ErrUnbounded holds the error when a variable or expression has no finite
// bound in a direction where a conversion needs one.
var ErrUnbounded = errors.New("unbounded where a finite range is required")

// ErrUnsupportedConstraint holds the error when a conversion is given a
// constraint kind it cannot handle.
var ErrUnsupportedConstraint = errors.New("unsupported constraint for this conversion")

// ErrUnsupportedVariable holds the error when a conversion is given a
// variable kind it cannot handle.
var ErrUnsupportedVariable = errors.New("unsupported variable for this conversion")

// ErrDecodeMismatch holds the error when a solution vector's length does not
// match the encoded model.
var ErrDecodeMismatch = errors.New("solution length does not match the encoded model")

// ErrNotEncoded holds the error when Decode is called before Encode.
var ErrNotEncoded = errors.New("no stored encoding; call Encode first")

// Converter is a reversible model transformation. Encode returns the
// converted model; Decode maps an assignment of the converted model back to
// the pre-conversion variables and returns it together with the objective
// value recomputed on the pre-conversion model.
type Converter interface {
	Encode(m *qpmodel.Model) (*qpmodel.Model, error)
	Decode(x []float64) ([]float64, float64, error)
}

// declareVar re-declares the variable `v` in builder `b` and returns a
// reference usable as a LinearArgument.
func declareVar(b *qpmodel.Builder, v qpmodel.VarInfo) qpmodel.LinearArgument {
	switch v.Kind {
	case qpmodel.BinaryVar:
		return b.NewBoolVar().WithName(v.Name)
	case qpmodel.IntegerVar:
		return b.NewIntVar(int64(v.Lo), int64(v.Hi)).WithName(v.Name)
	default:
		return b.NewNumVar(v.Lo, v.Hi).WithName(v.Name)
	}
}

// substLinear rewrites the terms through the per-variable replacement
// arguments.
func substLinear(terms []qpmodel.Term, rep []qpmodel.LinearArgument) *qpmodel.LinearExpr {
	e := qpmodel.NewLinearExpr()
	for _, t := range terms {
		e.AddTerm(rep[t.Var], t.Coeff)
	}
	return e
}

// substObjective rewrites the objective expression through the per-variable
// replacement arguments. Quadratic terms expand into products of the
// replacement expressions.
func substObjective(obj qpmodel.Objective, rep []qpmodel.LinearArgument) *qpmodel.QuadExpr {
	q := qpmodel.NewQuadExpr()
	for _, t := range obj.Terms {
		q.AddTerm(rep[t.Var], t.Coeff)
	}
	for _, t := range obj.QuadTerms {
		q.AddQuadTerm(rep[t.I], rep[t.J], t.Coeff)
	}
	q.AddConstant(obj.Offset)
	return q
}

// setObjective applies the objective to the builder with the given sense.
func setObjective(b *qpmodel.Builder, sense qpmodel.ObjectiveSense, obj *qpmodel.QuadExpr) {
	if sense == qpmodel.Maximization {
		b.Maximize(obj)
	} else {
		b.Minimize(obj)
	}
}
