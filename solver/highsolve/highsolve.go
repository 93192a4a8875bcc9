// Copyright 2024-2026 The tfamilp Authors
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

// Package highsolve adapts the HiGHS solver bindings to the milp.Solver
// interface.
package highsolve

import (
	"math"

	"github.com/bartolsthoorn/gohighs/highs"
	"github.com/pkg/errors"

	"github.com/fluxomics/tfamilp/milp"
)

// Solver solves milp models with HiGHS. The zero value is ready to use;
// solver output is disabled unless overridden through Options.
type Solver struct {
	Options []highs.SolveOption
}

// New returns a Solver with the given HiGHS options.
func New(opts ...highs.SolveOption) *Solver {
	return &Solver{Options: opts}
}

// Solve converts the model to the HiGHS column/row form, solves it, and
// maps the result back. It blocks until HiGHS terminates.
func (s *Solver) Solve(m *milp.Model) (*milp.Solution, error) {
	hm := convert(m)
	opts := append([]highs.SolveOption{highs.WithOutput(false)}, s.Options...)
	sol, err := hm.Solve(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "highs solve")
	}

	out := &milp.Solution{
		Status:    status(sol),
		Objective: sol.Objective,
	}
	if sol.HasSolution() {
		out.Values = append([]float64(nil), sol.ColValues...)
	}
	return out, nil
}

// convert maps the milp aggregate to the HiGHS high-level model form.
// Relations become one-sided row bound pairs; binary variables become
// integer columns with [0, 1] bounds.
func convert(m *milp.Model) *highs.Model {
	n := m.NumVars()
	hm := &highs.Model{
		Maximize: m.Dir() == milp.Maximize,
		ColCosts: make([]float64, n),
		ColLower: make([]float64, n),
		ColUpper: make([]float64, n),
		VarTypes: make([]highs.VariableType, n),
	}
	for i := 0; i < n; i++ {
		v := m.Var(milp.VarIndex(i))
		hm.ColLower[i] = v.LB
		hm.ColUpper[i] = v.UB
		if v.Type == milp.Binary {
			hm.VarTypes[i] = highs.Integer
		}
	}
	for _, t := range m.ObjectiveTerms() {
		hm.ColCosts[t.Var] = t.Coef
	}

	for i := 0; i < m.NumConstraints(); i++ {
		c := m.Constr(milp.ConstrIndex(i))
		cols := make([]int, len(c.Row))
		vals := make([]float64, len(c.Row))
		for j, t := range c.Row {
			cols[j] = int(t.Var)
			vals[j] = t.Coef
		}
		lower, upper := math.Inf(-1), math.Inf(1)
		switch c.Rel {
		case milp.LessEq:
			upper = c.RHS
		case milp.GreaterEq:
			lower = c.RHS
		case milp.Equal:
			lower, upper = c.RHS, c.RHS
		}
		hm.AddSparseRow(lower, cols, vals, upper)
	}
	return hm
}

func status(sol *highs.Solution) milp.Status {
	switch {
	case sol.IsOptimal():
		return milp.StatusOptimal
	case sol.IsInfeasible():
		return milp.StatusInfeasible
	case sol.IsUnbounded():
		return milp.StatusUnbounded
	case sol.HasSolution():
		return milp.StatusFeasible
	default:
		return milp.StatusUnknown
	}
}
