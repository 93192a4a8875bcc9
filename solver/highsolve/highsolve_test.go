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

package highsolve

import (
	"math"
	"testing"

	"github.com/bartolsthoorn/gohighs/highs"
	"github.com/google/go-cmp/cmp"

	"github.com/fluxomics/tfamilp/milp"
)

func buildModel(t *testing.T) *milp.Model {
	t.Helper()
	m := milp.NewModel()
	_, err := m.AddVariables([]milp.VariableSpec{
		{Name: "x", LB: 0, UB: 4, ObjCoef: 1},
		{Name: "y", LB: 0, UB: 4, ObjCoef: 2},
		{Name: "b", LB: 0, UB: 1, Type: milp.Binary},
	})
	if err != nil {
		t.Fatalf("AddVariables() returned with unexpected error %v", err)
	}
	_, err = m.AddConstraints([]milp.ConstraintSpec{
		{Name: "cap", Rel: milp.LessEq, RHS: 5, Row: []milp.Term{{Var: 0, Coef: 1}, {Var: 1, Coef: 1}}},
		{Name: "floor", Rel: milp.GreaterEq, RHS: 1, Row: []milp.Term{{Var: 0, Coef: 1}}},
		{Name: "link", Rel: milp.Equal, RHS: 0, Row: []milp.Term{{Var: 2, Coef: 1}}},
	})
	if err != nil {
		t.Fatalf("AddConstraints() returned with unexpected error %v", err)
	}
	m.SetDirection(milp.Maximize)
	return m
}

func TestConvert_Structure(t *testing.T) {
	m := buildModel(t)

	hm := convert(m)

	if !hm.Maximize {
		t.Errorf("Maximize = false, want true")
	}
	if diff := cmp.Diff([]float64{1, 2, 0}, hm.ColCosts); diff != "" {
		t.Errorf("ColCosts returned with unexpected diff (-want+got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{0, 0, 0}, hm.ColLower); diff != "" {
		t.Errorf("ColLower returned with unexpected diff (-want+got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{4, 4, 1}, hm.ColUpper); diff != "" {
		t.Errorf("ColUpper returned with unexpected diff (-want+got):\n%s", diff)
	}
	if got := hm.VarTypes[2]; got != highs.Integer {
		t.Errorf("VarTypes[2] = %v, want Integer", got)
	}

	// Relations map to one-sided row bound pairs.
	if got := hm.RowUpper[0]; got != 5 {
		t.Errorf("RowUpper[0] = %v, want 5", got)
	}
	if got := hm.RowLower[0]; !math.IsInf(got, -1) {
		t.Errorf("RowLower[0] = %v, want -Inf", got)
	}
	if got := hm.RowLower[1]; got != 1 {
		t.Errorf("RowLower[1] = %v, want 1", got)
	}
	if got := hm.RowUpper[1]; !math.IsInf(got, 1) {
		t.Errorf("RowUpper[1] = %v, want +Inf", got)
	}
	if hm.RowLower[2] != 0 || hm.RowUpper[2] != 0 {
		t.Errorf("equality row bounds = [%v, %v], want [0, 0]", hm.RowLower[2], hm.RowUpper[2])
	}

	wantNonzeros := []highs.Nonzero{
		{Row: 0, Col: 0, Val: 1},
		{Row: 0, Col: 1, Val: 1},
		{Row: 1, Col: 0, Val: 1},
		{Row: 2, Col: 2, Val: 1},
	}
	if diff := cmp.Diff(wantNonzeros, hm.ConstMatrix); diff != "" {
		t.Errorf("ConstMatrix returned with unexpected diff (-want+got):\n%s", diff)
	}
}

func TestSolver_SolveSmallMILP(t *testing.T) {
	m := buildModel(t)

	sol, err := New().Solve(m)
	if err != nil {
		t.Fatalf("Solve() returned with unexpected error %v", err)
	}
	if !sol.IsOptimal() {
		t.Fatalf("Solve() status = %v, want optimal", sol.Status)
	}
	// Maximize x+2y subject to x+y <= 5, x >= 1: x=1, y=4.
	if got, want := sol.Objective, 9.0; math.Abs(got-want) > 1e-6 {
		t.Errorf("Objective = %v, want %v", got, want)
	}
	if got := sol.Value(1); math.Abs(got-4) > 1e-6 {
		t.Errorf("Value(y) = %v, want 4", got)
	}
}

func TestSolver_InfeasibleModel(t *testing.T) {
	m := milp.NewModel()
	if _, err := m.AddVariable(milp.VariableSpec{Name: "x", LB: 0, UB: 1, ObjCoef: 1}); err != nil {
		t.Fatalf("AddVariable() returned with unexpected error %v", err)
	}
	if _, err := m.AddConstraint(milp.ConstraintSpec{
		Name: "impossible", Rel: milp.GreaterEq, RHS: 2,
		Row: []milp.Term{{Var: 0, Coef: 1}},
	}); err != nil {
		t.Fatalf("AddConstraint() returned with unexpected error %v", err)
	}

	sol, err := New().Solve(m)
	if err != nil {
		t.Fatalf("Solve() returned with unexpected error %v", err)
	}
	if !sol.IsInfeasible() {
		t.Errorf("Solve() status = %v, want infeasible", sol.Status)
	}
}
