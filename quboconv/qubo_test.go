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

package quboconv_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a-matsuo/qubogo/qpmodel"
	"github.com/a-matsuo/qubogo/quboconv"
	"github.com/a-matsuo/qubogo/sampler"
)

// buildBoundedKnapsack returns: maximize 2x + y + z subject to
// x + y + z <= 5 with x, y binary and z in [0, 7]. The optima are
// (1, 1, 3) and (1, 0, 4), both with objective value 6.
func buildBoundedKnapsack(t *testing.T) *qpmodel.Model {
	t.Helper()
	b := qpmodel.NewBuilder()
	x := b.NewBoolVar().WithName("x")
	y := b.NewBoolVar().WithName("y")
	z := b.NewIntVar(0, 7).WithName("z")
	b.AddLessOrEqual(qpmodel.NewLinearExpr().AddSum(x, y, z), qpmodel.NewConstant(5)).WithName("xyz")
	b.Maximize(qpmodel.NewLinearExpr().AddTerm(x, 2).Add(y).Add(z))
	m, err := b.Model()
	require.NoError(t, err)
	return m
}

func TestPipeline_BoundedKnapsack(t *testing.T) {
	m := buildBoundedKnapsack(t)

	ineq := quboconv.NewInequalityToEqual()
	eqm, err := ineq.Encode(m)
	require.NoError(t, err)

	qc := quboconv.NewQuboConverter().WithPenalty(quboconv.SuggestPenalty(eqm))
	ub, err := qc.Encode(eqm)
	require.NoError(t, err)
	assert.Equal(t, 0, ub.NumConstraints())

	// x, y, 3 binaries for z and 3 binaries for the [0, 5] slack.
	q, err := quboconv.NewQUBO(ub)
	require.NoError(t, err)
	assert.Equal(t, 8, q.NumVariables())
	assert.True(t, q.Flipped())

	res, err := sampler.Exhaustive{}.Sample(q)
	require.NoError(t, err)
	best, energy, ok := res.Best()
	require.True(t, ok)
	assert.InDelta(t, -6.0, energy, 1e-9)

	// Both optima survive the round trip and land on the original
	// feasible set with the original objective value.
	sawBalanced := false
	for i, sol := range res.Solutions {
		assert.InDelta(t, energy, res.Energies[i], 1e-9)

		mid, _, err := qc.Decode(sampler.Float64s(sol))
		require.NoError(t, err)
		got, obj, err := ineq.Decode(mid)
		require.NoError(t, err)
		assert.InDelta(t, 6.0, obj, 1e-9)
		assert.True(t, m.IsFeasible(got, 1e-9))
		if diff := cmp.Diff([]float64{1, 1, 3}, got); diff == "" {
			sawBalanced = true
		}

		// Converter state holds the latest Encode only, re-arm for the
		// next decode.
		_, err = ineq.Encode(m)
		require.NoError(t, err)
		_, err = qc.Encode(eqm)
		require.NoError(t, err)
	}
	assert.True(t, sawBalanced, "solutions %v are missing x=1 y=1 z=3", res.Solutions)

	// The sampler's energy agrees with the penalized model up to sign.
	want, err := ub.Evaluate(sampler.Float64s(best))
	require.NoError(t, err)
	assert.InDelta(t, -want, energy, 1e-9)
}

func TestQuboConverter_RejectsInequality(t *testing.T) {
	m := buildBoundedKnapsack(t)
	_, err := quboconv.NewQuboConverter().Encode(m)
	assert.ErrorIs(t, err, quboconv.ErrUnsupportedConstraint)
}

func TestQuboConverter_RejectsContinuousVariable(t *testing.T) {
	b := qpmodel.NewBuilder()
	w := b.NewNumVar(0, 1).WithName("w")
	b.Minimize(w)
	m, err := b.Model()
	require.NoError(t, err)

	_, err = quboconv.NewQuboConverter().Encode(m)
	assert.ErrorIs(t, err, quboconv.ErrUnsupportedVariable)
}

func TestQuboConverter_Decode(t *testing.T) {
	b := qpmodel.NewBuilder()
	x := b.NewBoolVar().WithName("x")
	z := b.NewIntVar(0, 3).WithName("z")
	b.AddEquality(qpmodel.NewLinearExpr().AddSum(x, z), qpmodel.NewConstant(3)).WithName("sum")
	b.Minimize(qpmodel.NewLinearExpr().AddTerm(x, 5).Add(z))
	m, err := b.Model()
	require.NoError(t, err)

	qc := quboconv.NewQuboConverter()
	_, err = qc.Encode(m)
	require.NoError(t, err)

	// x=0, z = 1 + 2 = 3.
	got, obj, err := qc.Decode([]float64{0, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 3}, got)
	assert.Equal(t, 3.0, obj)
	assert.True(t, m.IsFeasible(got, 1e-9))

	_, _, err = qc.Decode([]float64{0, 1})
	assert.ErrorIs(t, err, quboconv.ErrDecodeMismatch)
}

func TestQuboConverter_DecodeBeforeEncode(t *testing.T) {
	_, _, err := quboconv.NewQuboConverter().Decode([]float64{0})
	assert.ErrorIs(t, err, quboconv.ErrNotEncoded)
}

func TestNewQUBO(t *testing.T) {
	b := qpmodel.NewBuilder()
	x := b.NewBoolVar().WithName("x")
	y := b.NewBoolVar().WithName("y")
	b.Minimize(qpmodel.NewQuadExpr().Add(x).Add(y).AddQuadTerm(x, y, -3).AddConstant(2))
	m, err := b.Model()
	require.NoError(t, err)

	q, err := quboconv.NewQUBO(m)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, q.Names())
	assert.Equal(t, 2.0, q.Offset())
	assert.False(t, q.Flipped())

	wantEntries := []quboconv.Entry{
		{I: 0, J: 0, Value: 1},
		{I: 1, J: 1, Value: 1},
		{I: 0, J: 1, Value: -3},
	}
	if diff := cmp.Diff(wantEntries, q.Entries()); diff != "" {
		t.Errorf("Entries() returned with unexpected diff (-want+got);\n%s", diff)
	}

	// 1 + 1 - 3 + 2 at (1, 1), and the offset alone at (0, 0).
	assert.InDelta(t, 1.0, q.Energy([]int8{1, 1}), 1e-9)
	assert.InDelta(t, 2.0, q.Energy([]int8{0, 0}), 1e-9)
	assert.InDelta(t, 3.0, q.Energy([]int8{1, 0}), 1e-9)
}

func TestNewQUBO_Errors(t *testing.T) {
	t.Run("constrained model", func(t *testing.T) {
		b := qpmodel.NewBuilder()
		x := b.NewBoolVar().WithName("x")
		b.AddEquality(x, qpmodel.NewConstant(1)).WithName("fix")
		b.Minimize(x)
		m, err := b.Model()
		require.NoError(t, err)

		_, err = quboconv.NewQUBO(m)
		assert.ErrorIs(t, err, quboconv.ErrUnsupportedConstraint)
	})

	t.Run("non-binary variable", func(t *testing.T) {
		b := qpmodel.NewBuilder()
		z := b.NewIntVar(0, 3).WithName("z")
		b.Minimize(z)
		m, err := b.Model()
		require.NoError(t, err)

		_, err = quboconv.NewQUBO(m)
		assert.ErrorIs(t, err, quboconv.ErrUnsupportedVariable)
	})
}

func TestNewQUBO_NoVariables(t *testing.T) {
	m, err := qpmodel.NewBuilder().Model()
	require.NoError(t, err)

	q, err := quboconv.NewQUBO(m)
	require.NoError(t, err)
	assert.Equal(t, 0, q.NumVariables())
	assert.Nil(t, q.Matrix())
	assert.Empty(t, q.Entries())
	assert.Equal(t, 0.0, q.Energy([]int8{}))
}

func TestPipeline_AllFixedIntegers(t *testing.T) {
	// Every integer variable is fixed, so the binary expansion leaves no
	// variables behind and the QUBO degenerates to its offset.
	b := qpmodel.NewBuilder()
	z := b.NewIntVar(3, 3).WithName("z")
	w := b.NewIntVar(-2, -2).WithName("w")
	b.Minimize(qpmodel.NewLinearExpr().Add(z).AddTerm(w, 2))
	m, err := b.Model()
	require.NoError(t, err)

	qc := quboconv.NewQuboConverter()
	ub, err := qc.Encode(m)
	require.NoError(t, err)
	assert.Equal(t, 0, ub.NumVariables())

	q, err := quboconv.NewQUBO(ub)
	require.NoError(t, err)
	assert.Equal(t, 0, q.NumVariables())
	assert.Equal(t, -1.0, q.Offset())
	assert.Equal(t, -1.0, q.Energy([]int8{}))

	res, err := sampler.Exhaustive{}.Sample(q)
	require.NoError(t, err)
	_, energy, ok := res.Best()
	require.True(t, ok)
	assert.Equal(t, -1.0, energy)

	got, obj, err := qc.Decode([]float64{})
	require.NoError(t, err)
	assert.Equal(t, []float64{3, -2}, got)
	assert.Equal(t, -1.0, obj)
}

func TestNewQUBO_MaximizeFlipsSign(t *testing.T) {
	b := qpmodel.NewBuilder()
	x := b.NewBoolVar().WithName("x")
	b.Maximize(qpmodel.NewLinearExpr().AddTerm(x, 4).AddConstant(1))
	m, err := b.Model()
	require.NoError(t, err)

	q, err := quboconv.NewQUBO(m)
	require.NoError(t, err)
	assert.True(t, q.Flipped())
	assert.InDelta(t, -5.0, q.Energy([]int8{1}), 1e-9)
	assert.InDelta(t, -1.0, q.Energy([]int8{0}), 1e-9)
}
