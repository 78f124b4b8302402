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

// The simple_qubo_program command converts a small integer program to QUBO
// form, solves it by exhaustive enumeration, and maps the solution back.
package main

import (
	"fmt"
	"os"

	log "github.com/golang/glog"

	"github.com/a-matsuo/qubogo/qpmodel"
	"github.com/a-matsuo/qubogo/quboconv"
	"github.com/a-matsuo/qubogo/sampler"
)

func simpleQuboProgram() error {
	b := qpmodel.NewBuilder()

	x := b.NewBoolVar().WithName("x")
	y := b.NewBoolVar().WithName("y")
	z := b.NewIntVar(0, 7).WithName("z")

	b.AddLessOrEqual(qpmodel.NewLinearExpr().AddSum(x, y, z), qpmodel.NewConstant(5)).WithName("capacity")
	b.Maximize(qpmodel.NewLinearExpr().AddTerm(x, 2).Add(y).Add(z))

	m, err := b.Model()
	if err != nil {
		return fmt.Errorf("failed to instantiate the model: %w", err)
	}
	fmt.Println("Original model:")
	if err := m.WriteLP(os.Stdout); err != nil {
		return err
	}

	ineq := quboconv.NewInequalityToEqual()
	eqm, err := ineq.Encode(m)
	if err != nil {
		return fmt.Errorf("failed to convert inequalities: %w", err)
	}

	qc := quboconv.NewQuboConverter().WithPenalty(quboconv.SuggestPenalty(eqm))
	ub, err := qc.Encode(eqm)
	if err != nil {
		return fmt.Errorf("failed to convert to an unconstrained model: %w", err)
	}

	q, err := quboconv.NewQUBO(ub)
	if err != nil {
		return fmt.Errorf("failed to build the QUBO matrix: %w", err)
	}
	fmt.Printf("\nQUBO over %d binary variables, offset %g\n", q.NumVariables(), q.Offset())

	res, err := sampler.Exhaustive{}.Sample(q)
	if err != nil {
		return fmt.Errorf("failed to sample the QUBO: %w", err)
	}
	best, energy, ok := res.Best()
	if !ok {
		fmt.Println("No solution found.")
		return nil
	}
	fmt.Printf("Minimum energy %g attained by %d assignment(s)\n", energy, len(res.Solutions))

	mid, _, err := qc.Decode(sampler.Float64s(best))
	if err != nil {
		return fmt.Errorf("failed to decode the binary solution: %w", err)
	}
	sol, obj, err := ineq.Decode(mid)
	if err != nil {
		return fmt.Errorf("failed to drop the slack variables: %w", err)
	}

	fmt.Println("\nSolution:")
	for i, v := range m.Variables() {
		fmt.Printf("  %s = %g\n", v.Name, sol[i])
	}
	fmt.Printf("  objective = %g\n", obj)
	fmt.Printf("  feasible = %t\n", m.IsFeasible(sol, 1e-9))

	return nil
}

func main() {
	if err := simpleQuboProgram(); err != nil {
		log.Exitf("simpleQuboProgram returned with error: %v", err)
	}
}
