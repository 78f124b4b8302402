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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a-matsuo/qubogo/qpmodel"
)

func TestLinearEqualityPenalizer_Minimize(t *testing.T) {
	b := qpmodel.NewBuilder()
	x := b.NewBoolVar().WithName("x")
	y := b.NewBoolVar().WithName("y")
	b.AddEquality(qpmodel.NewLinearExpr().AddSum(x, y), qpmodel.NewConstant(1)).WithName("pick")
	b.Minimize(qpmodel.NewLinearExpr().Add(x).Add(y))
	m, err := b.Model()
	require.NoError(t, err)

	conv := NewLinearEqualityPenalizer().WithPenalty(10)
	enc, err := conv.Encode(m)
	require.NoError(t, err)

	assert.Equal(t, 0, enc.NumConstraints())
	if diff := cmp.Diff(m.Variables(), enc.Variables()); diff != "" {
		t.Errorf("Variables() changed with unexpected diff (-want+got);\n%s", diff)
	}

	// x + y + 10*(x + y - 1)^2
	//   = x + y + 10*(x^2 + y^2 + 2xy - 2x - 2y + 1)
	//   = -19x - 19y + 10x^2 + 20xy + 10y^2 + 10.
	want := qpmodel.Objective{
		Sense: qpmodel.Minimization,
		Terms: []qpmodel.Term{
			{Var: 0, Coeff: -19},
			{Var: 1, Coeff: -19},
		},
		QuadTerms: []qpmodel.QuadTerm{
			{I: 0, J: 0, Coeff: 10},
			{I: 0, J: 1, Coeff: 20},
			{I: 1, J: 1, Coeff: 10},
		},
		Offset: 10,
	}
	if diff := cmp.Diff(want, enc.Objective()); diff != "" {
		t.Errorf("Objective() returned with unexpected diff (-want+got);\n%s", diff)
	}
}

func TestLinearEqualityPenalizer_MaximizeSubtracts(t *testing.T) {
	b := qpmodel.NewBuilder()
	x := b.NewBoolVar().WithName("x")
	y := b.NewBoolVar().WithName("y")
	b.AddEquality(qpmodel.NewLinearExpr().AddSum(x, y), qpmodel.NewConstant(1)).WithName("pick")
	b.Maximize(qpmodel.NewLinearExpr().AddTerm(x, 3).Add(y))
	m, err := b.Model()
	require.NoError(t, err)

	conv := NewLinearEqualityPenalizer().WithPenalty(10)
	enc, err := conv.Encode(m)
	require.NoError(t, err)

	// Feasible assignments keep their objective value.
	feasible, err := enc.Evaluate([]float64{1, 0})
	require.NoError(t, err)
	assert.Equal(t, 3.0, feasible)

	// Any violating assignment must be strictly worse under maximization.
	violating, err := enc.Evaluate([]float64{1, 1})
	require.NoError(t, err)
	assert.Less(t, violating, feasible)

	violating, err = enc.Evaluate([]float64{0, 0})
	require.NoError(t, err)
	assert.Less(t, violating, feasible)
}

func TestLinearEqualityPenalizer_ViolationDominance(t *testing.T) {
	b := qpmodel.NewBuilder()
	x := b.NewBoolVar().WithName("x")
	y := b.NewBoolVar().WithName("y")
	z := b.NewBoolVar().WithName("z")
	b.AddEquality(qpmodel.NewLinearExpr().AddSum(x, y, z), qpmodel.NewConstant(2)).WithName("two")
	b.Minimize(qpmodel.NewLinearExpr().AddTerm(x, 5).AddTerm(y, -3).AddTerm(z, 2))
	m, err := b.Model()
	require.NoError(t, err)

	enc, err := NewLinearEqualityPenalizer().Encode(m)
	require.NoError(t, err)

	worstFeasible, bestViolating := -1e18, 1e18
	for mask := 0; mask < 8; mask++ {
		assign := []float64{float64(mask & 1), float64(mask >> 1 & 1), float64(mask >> 2 & 1)}
		v, err := enc.Evaluate(assign)
		require.NoError(t, err)
		if m.IsFeasible(assign, 1e-9) {
			worstFeasible = max(worstFeasible, v)
		} else {
			bestViolating = min(bestViolating, v)
		}
	}
	assert.Less(t, worstFeasible, bestViolating)
}

func TestLinearEqualityPenalizer_RejectsInequality(t *testing.T) {
	b := qpmodel.NewBuilder()
	x := b.NewBoolVar().WithName("x")
	b.AddLessOrEqual(x, qpmodel.NewConstant(1)).WithName("cap")
	b.Minimize(x)
	m, err := b.Model()
	require.NoError(t, err)

	_, err = NewLinearEqualityPenalizer().Encode(m)
	assert.ErrorIs(t, err, ErrUnsupportedConstraint)
}

func TestLinearEqualityPenalizer_Decode(t *testing.T) {
	b := qpmodel.NewBuilder()
	x := b.NewBoolVar().WithName("x")
	y := b.NewBoolVar().WithName("y")
	b.AddEquality(qpmodel.NewLinearExpr().AddSum(x, y), qpmodel.NewConstant(1)).WithName("pick")
	b.Minimize(qpmodel.NewLinearExpr().AddTerm(x, 4).Add(y))
	m, err := b.Model()
	require.NoError(t, err)

	conv := NewLinearEqualityPenalizer()
	_, err = conv.Encode(m)
	require.NoError(t, err)

	got, obj, err := conv.Decode([]float64{0, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1}, got)
	assert.Equal(t, 1.0, obj)

	_, _, err = conv.Decode([]float64{0})
	assert.ErrorIs(t, err, ErrDecodeMismatch)
}

func TestSuggestPenalty(t *testing.T) {
	b := qpmodel.NewBuilder()
	x := b.NewBoolVar().WithName("x")
	y := b.NewBoolVar().WithName("y")
	b.Minimize(qpmodel.NewQuadExpr().AddTerm(x, 5).AddQuadTerm(x, y, -3).AddConstant(2))
	m, err := b.Model()
	require.NoError(t, err)

	got := SuggestPenalty(m)
	assert.Equal(t, 110.0, got)
	assert.Greater(t, got, 5.0+3.0+2.0)
}
