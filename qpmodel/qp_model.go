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

// Package qpmodel offers a user-friendly API to build quadratic programs.
//
// The `Builder` struct holds the variables, constraints, and objective of a
// model under construction and provides helper methods for adding to it.
// The `BoolVar`, `IntVar`, and `NumVar` structs are references to specific
// variables in the model. The `LinearExpr` and `QuadExpr` structs provide
// helper methods for creating constraints and objectives from expressions
// with many variables and coefficients. `Builder.Model()` finalizes the
// model into an immutable `Model` that transformation passes and samplers
// consume.
package qpmodel

import (
	"errors"
	"fmt"
	"math"
	"sort"

	log "github.com/golang/glog"
	"gonum.org/v1/gonum/floats/scalar"
)

// ErrMixedModels holds the error when elements added to a model are different.
var ErrMixedModels = errors.New("elements are not part of the same model")

// ErrDuplicateName holds the error when two variables or two constraints
// share a name.
var ErrDuplicateName = errors.New("duplicate name")

// ErrInvalidBounds holds the error when a variable's lower bound exceeds its
// upper bound.
var ErrInvalidBounds = errors.New("lower bound exceeds upper bound")

type (
	// VarIndex is the index of a variable in the model.
	VarIndex int32
	// ConstrIndex is the index of a constraint in the model.
	ConstrIndex int32
)

// VarKind is the kind of a decision variable.
type VarKind int

const (
	// BinaryVar is a variable with domain {0,1}.
	BinaryVar VarKind = iota
	// IntegerVar is an integer variable with inclusive bounds.
	IntegerVar
	// ContinuousVar is a real-valued variable with inclusive bounds.
	ContinuousVar
)

func (k VarKind) String() string {
	switch k {
	case BinaryVar:
		return "binary"
	case IntegerVar:
		return "integer"
	case ContinuousVar:
		return "continuous"
	}
	return fmt.Sprintf("VarKind(%d)", int(k))
}

// Sense is the relational operator of a linear constraint.
type Sense int

const (
	// LessOrEqual is the `<=` relation.
	LessOrEqual Sense = iota
	// Equal is the `=` relation.
	Equal
	// GreaterOrEqual is the `>=` relation.
	GreaterOrEqual
)

func (s Sense) String() string {
	switch s {
	case LessOrEqual:
		return "<="
	case Equal:
		return "="
	case GreaterOrEqual:
		return ">="
	}
	return fmt.Sprintf("Sense(%d)", int(s))
}

// ObjectiveSense is the optimization direction of a model.
type ObjectiveSense int

const (
	// Minimization minimizes the objective.
	Minimization ObjectiveSense = iota
	// Maximization maximizes the objective.
	Maximization
)

func (s ObjectiveSense) String() string {
	if s == Maximization {
		return "maximize"
	}
	return "minimize"
}

// LinearArgument provides an interface for BoolVar, IntVar, NumVar, and
// LinearExpr.
type LinearArgument interface {
	addToLinearExpr(e *LinearExpr, c float64)
	// evaluate returns the value of the argument under the assignment `x`,
	// indexed by VarIndex.
	evaluate(x []float64) float64
}

// QuadraticArgument provides an interface for every LinearArgument plus
// QuadExpr, for use as a model objective.
type QuadraticArgument interface {
	addToQuadExpr(e *QuadExpr, c float64)
}

// LinearExpr is a container for a linear expression.
type LinearExpr struct {
	varCoeffs []varCoeff
	offset    float64
}

type varCoeff struct {
	ind   VarIndex
	coeff float64
}

// NewLinearExpr creates a new empty LinearExpr.
func NewLinearExpr() *LinearExpr {
	return &LinearExpr{}
}

// NewConstant creates and returns a LinearExpr containing the constant `c`.
func NewConstant(c float64) *LinearExpr {
	return &LinearExpr{offset: c}
}

// Add adds the linear argument term to the LinearExpr and returns itself.
func (l *LinearExpr) Add(la LinearArgument) *LinearExpr {
	l.AddTerm(la, 1)
	return l
}

// AddConstant adds the constant to the LinearExpr and returns itself.
func (l *LinearExpr) AddConstant(c float64) *LinearExpr {
	l.offset += c
	return l
}

// AddTerm adds the linear argument term with the given coefficient to the
// LinearExpr and returns itself.
func (l *LinearExpr) AddTerm(la LinearArgument, coeff float64) *LinearExpr {
	la.addToLinearExpr(l, coeff)
	return l
}

// AddSum adds the sum of the linear arguments to the LinearExpr and returns
// itself.
func (l *LinearExpr) AddSum(las ...LinearArgument) *LinearExpr {
	for _, la := range las {
		l.Add(la)
	}
	return l
}

// AddWeightedSum adds the linear arguments with the corresponding
// coefficients to the LinearExpr and returns itself.
func (l *LinearExpr) AddWeightedSum(las []LinearArgument, coeffs []float64) *LinearExpr {
	if len(coeffs) != len(las) {
		log.Fatalf("las and coeffs must be the same length: %v != %v", len(las), len(coeffs))
	}
	for i, la := range las {
		l.AddTerm(la, coeffs[i])
	}
	return l
}

func (l *LinearExpr) addToLinearExpr(e *LinearExpr, c float64) {
	for _, vc := range l.varCoeffs {
		e.varCoeffs = append(e.varCoeffs, varCoeff{ind: vc.ind, coeff: vc.coeff * c})
	}
	e.offset += l.offset * c
}

func (l *LinearExpr) addToQuadExpr(e *QuadExpr, c float64) {
	l.addToLinearExpr(&e.lin, c)
}

func (l *LinearExpr) evaluate(x []float64) float64 {
	result := l.offset
	for _, vc := range l.varCoeffs {
		result += x[vc.ind] * vc.coeff
	}
	return result
}

// canonical returns the merged, index-sorted terms of the expression and its
// constant offset. Zero coefficients are dropped.
func (l *LinearExpr) canonical() ([]Term, float64) {
	merged := make(map[VarIndex]float64, len(l.varCoeffs))
	for _, vc := range l.varCoeffs {
		merged[vc.ind] += vc.coeff
	}
	terms := make([]Term, 0, len(merged))
	for ind, c := range merged {
		if c == 0 {
			continue
		}
		terms = append(terms, Term{Var: ind, Coeff: c})
	}
	sort.Slice(terms, func(i, j int) bool { return terms[i].Var < terms[j].Var })
	return terms, l.offset
}

// QuadExpr is a container for a quadratic expression: a linear part plus
// coefficients on unordered variable pairs.
type QuadExpr struct {
	lin       LinearExpr
	quadTerms []quadCoeff
}

type quadCoeff struct {
	i, j  VarIndex
	coeff float64
}

// NewQuadExpr creates a new empty QuadExpr.
func NewQuadExpr() *QuadExpr {
	return &QuadExpr{}
}

// Add adds the linear argument to the quadratic expression and returns
// itself.
func (q *QuadExpr) Add(la LinearArgument) *QuadExpr {
	la.addToLinearExpr(&q.lin, 1)
	return q
}

// AddTerm adds the linear argument with the given coefficient to the
// quadratic expression and returns itself.
func (q *QuadExpr) AddTerm(la LinearArgument, coeff float64) *QuadExpr {
	la.addToLinearExpr(&q.lin, coeff)
	return q
}

// AddConstant adds the constant to the quadratic expression and returns
// itself.
func (q *QuadExpr) AddConstant(c float64) *QuadExpr {
	q.lin.offset += c
	return q
}

// AddQuadTerm adds `coeff * x * y` to the quadratic expression and returns
// itself. Both arguments may be arbitrary linear expressions; the product is
// expanded into quadratic, linear, and constant parts.
func (q *QuadExpr) AddQuadTerm(x, y LinearArgument, coeff float64) *QuadExpr {
	if coeff == 0 {
		return q
	}
	xe := NewLinearExpr().Add(x)
	ye := NewLinearExpr().Add(y)
	for _, xt := range xe.varCoeffs {
		for _, yt := range ye.varCoeffs {
			q.quadTerms = append(q.quadTerms, newQuadCoeff(xt.ind, yt.ind, coeff*xt.coeff*yt.coeff))
		}
	}
	if ye.offset != 0 {
		for _, xt := range xe.varCoeffs {
			q.lin.varCoeffs = append(q.lin.varCoeffs, varCoeff{ind: xt.ind, coeff: coeff * xt.coeff * ye.offset})
		}
	}
	if xe.offset != 0 {
		for _, yt := range ye.varCoeffs {
			q.lin.varCoeffs = append(q.lin.varCoeffs, varCoeff{ind: yt.ind, coeff: coeff * xe.offset * yt.coeff})
		}
	}
	q.lin.offset += coeff * xe.offset * ye.offset
	return q
}

// AddQuadExpr adds `c` times the quadratic expression `o` to `q` and returns
// itself.
func (q *QuadExpr) AddQuadExpr(o *QuadExpr, c float64) *QuadExpr {
	o.addToQuadExpr(q, c)
	return q
}

func (q *QuadExpr) addToQuadExpr(e *QuadExpr, c float64) {
	q.lin.addToLinearExpr(&e.lin, c)
	for _, qt := range q.quadTerms {
		e.quadTerms = append(e.quadTerms, quadCoeff{i: qt.i, j: qt.j, coeff: qt.coeff * c})
	}
}

// newQuadCoeff canonicalizes the unordered pair so that i <= j.
func newQuadCoeff(i, j VarIndex, c float64) quadCoeff {
	if i > j {
		i, j = j, i
	}
	return quadCoeff{i: i, j: j, coeff: c}
}

// canonical returns the merged quadratic terms (pair-sorted), merged linear
// terms, and constant offset of the expression.
func (q *QuadExpr) canonical() ([]QuadTerm, []Term, float64) {
	type pair struct{ i, j VarIndex }
	merged := make(map[pair]float64, len(q.quadTerms))
	for _, qt := range q.quadTerms {
		c := newQuadCoeff(qt.i, qt.j, qt.coeff)
		merged[pair{c.i, c.j}] += c.coeff
	}
	var quads []QuadTerm
	for p, c := range merged {
		if c == 0 {
			continue
		}
		quads = append(quads, QuadTerm{I: p.i, J: p.j, Coeff: c})
	}
	sort.Slice(quads, func(a, b int) bool {
		if quads[a].I != quads[b].I {
			return quads[a].I < quads[b].I
		}
		return quads[a].J < quads[b].J
	})
	terms, offset := q.lin.canonical()
	return quads, terms, offset
}

// BoolVar is a reference to a binary variable in the model.
type BoolVar struct {
	ind VarIndex
	qpb *Builder
}

// Name returns the name of the variable.
func (b BoolVar) Name() string { return b.qpb.vars[b.ind].name }

// Index returns the index of the variable.
func (b BoolVar) Index() VarIndex { return b.ind }

// WithName sets the name of the variable.
func (b BoolVar) WithName(s string) BoolVar {
	b.qpb.vars[b.ind].name = s
	return b
}

func (b BoolVar) builder() *Builder { return b.qpb }

func (b BoolVar) addToLinearExpr(e *LinearExpr, c float64) {
	e.varCoeffs = append(e.varCoeffs, varCoeff{ind: b.ind, coeff: c})
}

func (b BoolVar) addToQuadExpr(e *QuadExpr, c float64) { b.addToLinearExpr(&e.lin, c) }

func (b BoolVar) evaluate(x []float64) float64 { return x[b.ind] }

// IntVar is a reference to an integer variable in the model.
type IntVar struct {
	ind VarIndex
	qpb *Builder
}

// Name returns the name of the variable.
func (i IntVar) Name() string { return i.qpb.vars[i.ind].name }

// Index returns the index of the variable.
func (i IntVar) Index() VarIndex { return i.ind }

// WithName sets the name of the variable.
func (i IntVar) WithName(s string) IntVar {
	i.qpb.vars[i.ind].name = s
	return i
}

func (i IntVar) builder() *Builder { return i.qpb }

func (i IntVar) addToLinearExpr(e *LinearExpr, c float64) {
	e.varCoeffs = append(e.varCoeffs, varCoeff{ind: i.ind, coeff: c})
}

func (i IntVar) addToQuadExpr(e *QuadExpr, c float64) { i.addToLinearExpr(&e.lin, c) }

func (i IntVar) evaluate(x []float64) float64 { return x[i.ind] }

// NumVar is a reference to a continuous variable in the model.
type NumVar struct {
	ind VarIndex
	qpb *Builder
}

// Name returns the name of the variable.
func (n NumVar) Name() string { return n.qpb.vars[n.ind].name }

// Index returns the index of the variable.
func (n NumVar) Index() VarIndex { return n.ind }

// WithName sets the name of the variable.
func (n NumVar) WithName(s string) NumVar {
	n.qpb.vars[n.ind].name = s
	return n
}

func (n NumVar) builder() *Builder { return n.qpb }

func (n NumVar) addToLinearExpr(e *LinearExpr, c float64) {
	e.varCoeffs = append(e.varCoeffs, varCoeff{ind: n.ind, coeff: c})
}

func (n NumVar) addToQuadExpr(e *QuadExpr, c float64) { n.addToLinearExpr(&e.lin, c) }

func (n NumVar) evaluate(x []float64) float64 { return x[n.ind] }

// Constraint is a reference to a constraint in the model.
type Constraint struct {
	ind ConstrIndex
	qpb *Builder
}

// WithName sets the name of the constraint.
func (c Constraint) WithName(s string) Constraint {
	c.qpb.constrs[c.ind].name = s
	return c
}

// Name returns the name of the constraint.
func (c Constraint) Name() string { return c.qpb.constrs[c.ind].name }

// Index returns the index of the constraint.
func (c Constraint) Index() ConstrIndex { return c.ind }

type varData struct {
	name   string
	kind   VarKind
	lo, hi float64
}

type constrData struct {
	name  string
	terms []Term
	sense Sense
	rhs   float64
}

// Builder accumulates the variables, constraints, and objective of a
// quadratic program.
type Builder struct {
	vars    []varData
	constrs []constrData
	obj     QuadExpr
	sense   ObjectiveSense
	// The first and only the first error is reported in Model.
	err error
}

// NewBuilder creates and returns a new quadratic program Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// NewBoolVar creates a new binary variable in the model.
func (qp *Builder) NewBoolVar() BoolVar {
	ind := VarIndex(len(qp.vars))
	qp.vars = append(qp.vars, varData{name: fmt.Sprintf("x%d", ind), kind: BinaryVar, lo: 0, hi: 1})
	return BoolVar{ind: ind, qpb: qp}
}

// NewIntVar creates a new integer variable with inclusive bounds `[lb,ub]`.
func (qp *Builder) NewIntVar(lb, ub int64) IntVar {
	ind := VarIndex(len(qp.vars))
	qp.vars = append(qp.vars, varData{name: fmt.Sprintf("x%d", ind), kind: IntegerVar, lo: float64(lb), hi: float64(ub)})
	return IntVar{ind: ind, qpb: qp}
}

// NewNumVar creates a new continuous variable with inclusive bounds
// `[lb,ub]`. Either bound may be infinite.
func (qp *Builder) NewNumVar(lb, ub float64) NumVar {
	ind := VarIndex(len(qp.vars))
	qp.vars = append(qp.vars, varData{name: fmt.Sprintf("x%d", ind), kind: ContinuousVar, lo: lb, hi: ub})
	return NumVar{ind: ind, qpb: qp}
}

// checkSameModelAndSetErrorf returns true if `qp` and `qp2` point to the same
// Builder. If false, an error with the error message `format` is set on `qp`
// if `qp.err` is nil.
func (qp *Builder) checkSameModelAndSetErrorf(qp2 *Builder, format string, a ...any) bool {
	if qp == qp2 {
		return true
	}
	var args = make([]any, len(a)+1)
	copy(args, a)
	args[len(a)] = ErrMixedModels
	err := fmt.Errorf(format+": %w", args...)
	log.Errorf("%v; use `-log_backtrace_at` flag to get the error stack", err)
	if qp.err == nil {
		qp.err = err
	}
	return false
}

type ownedArgument interface {
	builder() *Builder
}

func (qp *Builder) checkArguments(where string, las ...LinearArgument) {
	for _, la := range las {
		if v, ok := la.(ownedArgument); ok {
			qp.checkSameModelAndSetErrorf(v.builder(), "invalid variable argument added to %s", where)
		}
	}
}

func (qp *Builder) appendConstraint(lhs, rhs LinearArgument, sense Sense) Constraint {
	qp.checkArguments("constraint", lhs, rhs)
	diff := NewLinearExpr().Add(lhs).AddTerm(rhs, -1)
	terms, offset := diff.canonical()
	ind := ConstrIndex(len(qp.constrs))
	qp.constrs = append(qp.constrs, constrData{
		name:  fmt.Sprintf("c%d", ind),
		terms: terms,
		sense: sense,
		rhs:   -offset,
	})
	return Constraint{ind: ind, qpb: qp}
}

// AddLessOrEqual adds the linear constraint `lhs <= rhs`.
func (qp *Builder) AddLessOrEqual(lhs, rhs LinearArgument) Constraint {
	return qp.appendConstraint(lhs, rhs, LessOrEqual)
}

// AddEquality adds the linear constraint `lhs == rhs`.
func (qp *Builder) AddEquality(lhs, rhs LinearArgument) Constraint {
	return qp.appendConstraint(lhs, rhs, Equal)
}

// AddGreaterOrEqual adds the linear constraint `lhs >= rhs`.
func (qp *Builder) AddGreaterOrEqual(lhs, rhs LinearArgument) Constraint {
	return qp.appendConstraint(lhs, rhs, GreaterOrEqual)
}

// Minimize sets a minimization objective.
func (qp *Builder) Minimize(obj QuadraticArgument) {
	qp.obj = QuadExpr{}
	obj.addToQuadExpr(&qp.obj, 1)
	qp.sense = Minimization
}

// Maximize sets a maximization objective.
func (qp *Builder) Maximize(obj QuadraticArgument) {
	qp.obj = QuadExpr{}
	obj.addToQuadExpr(&qp.obj, 1)
	qp.sense = Maximization
}

// Model validates the built model and returns it. Model returns an error
// when invalid parameters have been used during model building, when a
// variable's bounds are inverted, or when two variables or two constraints
// share a name.
func (qp *Builder) Model() (*Model, error) {
	if qp.err != nil {
		return nil, qp.err
	}
	varNames := make(map[string]struct{}, len(qp.vars))
	for _, v := range qp.vars {
		if v.lo > v.hi {
			return nil, fmt.Errorf("variable %q has bounds [%v,%v]: %w", v.name, v.lo, v.hi, ErrInvalidBounds)
		}
		if _, ok := varNames[v.name]; ok {
			return nil, fmt.Errorf("variable %q: %w", v.name, ErrDuplicateName)
		}
		varNames[v.name] = struct{}{}
	}
	constrNames := make(map[string]struct{}, len(qp.constrs))
	for _, c := range qp.constrs {
		if _, ok := constrNames[c.name]; ok {
			return nil, fmt.Errorf("constraint %q: %w", c.name, ErrDuplicateName)
		}
		constrNames[c.name] = struct{}{}
		for _, t := range c.terms {
			if err := qp.checkVarIndex(t.Var, "constraint "+c.name); err != nil {
				return nil, err
			}
		}
	}
	objQuad, objTerms, objOffset := qp.obj.canonical()
	for _, t := range objTerms {
		if err := qp.checkVarIndex(t.Var, "objective"); err != nil {
			return nil, err
		}
	}
	for _, t := range objQuad {
		if err := qp.checkVarIndex(t.I, "objective"); err != nil {
			return nil, err
		}
		if err := qp.checkVarIndex(t.J, "objective"); err != nil {
			return nil, err
		}
	}

	m := &Model{sense: qp.sense}
	m.vars = make([]VarInfo, len(qp.vars))
	for i, v := range qp.vars {
		m.vars[i] = VarInfo{Name: v.name, Kind: v.kind, Lo: v.lo, Hi: v.hi}
	}
	m.constrs = make([]Row, len(qp.constrs))
	for i, c := range qp.constrs {
		m.constrs[i] = Row{Name: c.name, Terms: append([]Term(nil), c.terms...), Sense: c.sense, RHS: c.rhs}
	}
	m.objQuad, m.objTerms, m.objOffset = objQuad, objTerms, objOffset
	return m, nil
}

// checkVarIndex rejects variable indices outside the builder's variables.
// An out-of-range index can only come from an expression holding variables
// of another builder, which the per-argument check cannot see inside a
// LinearExpr.
func (qp *Builder) checkVarIndex(v VarIndex, where string) error {
	if int(v) >= len(qp.vars) {
		return fmt.Errorf("%s references undeclared variable index %d: %w", where, v, ErrMixedModels)
	}
	return nil
}

// Term is a coefficient on a single variable.
type Term struct {
	Var   VarIndex
	Coeff float64
}

// QuadTerm is a coefficient on the unordered variable pair `(I,J)`, with
// I <= J. A diagonal term has I == J.
type QuadTerm struct {
	I, J  VarIndex
	Coeff float64
}

// VarInfo describes a variable of a finalized model.
type VarInfo struct {
	Name   string
	Kind   VarKind
	Lo, Hi float64
}

// Bounds returns the variable's bounds as an Interval.
func (v VarInfo) Bounds() Interval { return Interval{v.Lo, v.Hi} }

// Row is a linear constraint of a finalized model: `Terms Sense RHS`.
type Row struct {
	Name  string
	Terms []Term
	Sense Sense
	RHS   float64
}

// Objective is the finalized objective of a model.
type Objective struct {
	Sense     ObjectiveSense
	Terms     []Term
	QuadTerms []QuadTerm
	Offset    float64
}

// Model is a finalized quadratic program. It is immutable; transformation
// passes produce new models through a Builder.
type Model struct {
	vars      []VarInfo
	constrs   []Row
	sense     ObjectiveSense
	objTerms  []Term
	objQuad   []QuadTerm
	objOffset float64
}

// NumVariables returns the number of variables in the model.
func (m *Model) NumVariables() int { return len(m.vars) }

// Variable returns the description of the variable at index `i`.
func (m *Model) Variable(i VarIndex) VarInfo { return m.vars[i] }

// Variables returns the descriptions of all variables, in index order. The
// returned slice is shared with the model and must not be modified.
func (m *Model) Variables() []VarInfo { return m.vars }

// NumConstraints returns the number of constraints in the model.
func (m *Model) NumConstraints() int { return len(m.constrs) }

// Constraint returns the constraint at index `i`. The returned row shares
// its term slice with the model and must not be modified.
func (m *Model) Constraint(i ConstrIndex) Row { return m.constrs[i] }

// Constraints returns all constraints in order. The returned slice is shared
// with the model and must not be modified.
func (m *Model) Constraints() []Row { return m.constrs }

// Objective returns the finalized objective. The returned slices are shared
// with the model and must not be modified.
func (m *Model) Objective() Objective {
	return Objective{Sense: m.sense, Terms: m.objTerms, QuadTerms: m.objQuad, Offset: m.objOffset}
}

// Evaluate returns the objective value of the model under the assignment
// `x`, indexed by VarIndex. It returns an error if the assignment length
// does not match the variable count.
func (m *Model) Evaluate(x []float64) (float64, error) {
	if len(x) != len(m.vars) {
		return 0, fmt.Errorf("assignment has %d values, model has %d variables", len(x), len(m.vars))
	}
	result := m.objOffset
	for _, t := range m.objTerms {
		result += t.Coeff * x[t.Var]
	}
	for _, t := range m.objQuad {
		result += t.Coeff * x[t.I] * x[t.J]
	}
	return result, nil
}

// Activity returns the left-hand-side value of constraint `i` under the
// assignment `x`.
func (m *Model) Activity(i ConstrIndex, x []float64) float64 {
	var result float64
	for _, t := range m.constrs[i].Terms {
		result += t.Coeff * x[t.Var]
	}
	return result
}

// IsFeasible reports whether the assignment `x` satisfies all variable
// bounds, integrality requirements, and constraints of the model, within the
// absolute tolerance `tol`.
func (m *Model) IsFeasible(x []float64, tol float64) bool {
	if len(x) != len(m.vars) {
		return false
	}
	for i, v := range m.vars {
		if x[i] < v.Lo-tol || x[i] > v.Hi+tol {
			return false
		}
		if v.Kind != ContinuousVar && !scalar.EqualWithinAbs(x[i], math.Round(x[i]), tol) {
			return false
		}
	}
	for i := range m.constrs {
		a := m.Activity(ConstrIndex(i), x)
		switch m.constrs[i].Sense {
		case LessOrEqual:
			if a > m.constrs[i].RHS+tol {
				return false
			}
		case GreaterOrEqual:
			if a < m.constrs[i].RHS-tol {
				return false
			}
		case Equal:
			if !scalar.EqualWithinAbs(a, m.constrs[i].RHS, tol) {
				return false
			}
		}
	}
	return true
}

// ExpressionBounds returns the range the terms can take given the declared
// variable bounds, computed by interval arithmetic.
func (m *Model) ExpressionBounds(terms []Term) Interval {
	result := NewSingleInterval(0)
	for _, t := range terms {
		result = result.Add(m.vars[t.Var].Bounds().Scale(t.Coeff))
	}
	return result
}

// SolutionValue returns the value of the LinearArgument `la` under the
// assignment `x`, indexed by VarIndex.
func SolutionValue(x []float64, la LinearArgument) float64 {
	return la.evaluate(x)
}
