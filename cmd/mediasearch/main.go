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

// The mediasearch command runs the minimal-media analysis on a small
// built-in model with the HiGHS solver. It exists to demonstrate the wiring
// of the builders against a real solver; real pipelines load a TFA model
// from their own sources.
package main

import (
	"flag"
	"fmt"

	log "github.com/golang/glog"

	"github.com/fluxomics/tfamilp/milp"
	"github.com/fluxomics/tfamilp/solver/highsolve"
	"github.com/fluxomics/tfamilp/tfa"
	"github.com/fluxomics/tfamilp/tfa/media"
)

var maxObjective = flag.Float64("max_objective", 1.0, "upper bound of the wild-type objective bracket")
var minObjective = flag.Float64("min_objective", 0.9, "lower bound of the wild-type objective bracket")

// toyModel builds a three-drain model: each drain feeds the growth variable
// through a mass-balance row, and growth needs the first two drains.
func toyModel() (*tfa.Model, error) {
	m := &tfa.Model{
		Model: milp.NewModel(),
		Metabolites: []tfa.Metabolite{
			{ID: "glc", Name: "D-glucose"},
			{ID: "o2", Name: "oxygen"},
			{ID: "co2", Name: "carbon dioxide"},
		},
		Reactions:    []string{"EX_glc", "EX_o2", "EX_co2", "GROWTH"},
		ObjectiveVar: "F_GROWTH",
	}

	specs := []milp.VariableSpec{
		{Name: "F_GROWTH", LB: 0, UB: 10, ObjCoef: 1},
	}
	for _, rxn := range []string{"EX_glc", "EX_o2", "EX_co2"} {
		specs = append(specs,
			milp.VariableSpec{Name: tfa.ForwardUse(rxn), LB: 0, UB: 100},
			milp.VariableSpec{Name: tfa.ReverseUse(rxn), LB: 0, UB: 100},
		)
	}
	if _, err := m.AddVariables(specs); err != nil {
		return nil, err
	}

	growth, _ := m.LookupVar("F_GROWTH")
	glc, _ := m.LookupVar(tfa.ReverseUse("EX_glc"))
	o2, _ := m.LookupVar(tfa.ReverseUse("EX_o2"))
	_, err := m.AddConstraints([]milp.ConstraintSpec{
		{Name: "MB_glc", Rel: milp.GreaterEq, RHS: 0,
			Row: []milp.Term{{Var: glc, Coef: 1}, {Var: growth, Coef: -10}}},
		{Name: "MB_o2", Rel: milp.GreaterEq, RHS: 0,
			Row: []milp.Term{{Var: o2, Coef: 1}, {Var: growth, Coef: -5}}},
	})
	if err != nil {
		return nil, err
	}
	m.SetDirection(milp.Maximize)
	return m, nil
}

// staticDrains reports the three exchange reactions without touching the
// model, standing in for the pipeline's drain discovery.
type staticDrains struct{}

func (staticDrains) Discover(m *tfa.Model) (bool, []tfa.Drain, error) {
	return false, []tfa.Drain{
		{Reaction: "EX_glc", Metabolite: "glc"},
		{Reaction: "EX_o2", Metabolite: "o2"},
		{Reaction: "EX_co2", Metabolite: "co2"},
	}, nil
}

func run() error {
	m, err := toyModel()
	if err != nil {
		return err
	}
	solver := highsolve.New()

	result, err := media.Build(m, media.Options{
		Direction:      media.Uptake,
		ObjectiveRange: &milp.Interval{Min: *minObjective, Max: *maxObjective},
	}, media.Deps{Solver: solver, Drains: staticDrains{}})
	if err != nil {
		return fmt.Errorf("building minimal-media model: %w", err)
	}

	sol, err := solver.Solve(result.Model.Model)
	if err != nil {
		return fmt.Errorf("solving minimal-media model: %w", err)
	}
	if !sol.HasSolution() {
		fmt.Printf("No solution: %v\n", sol.Status)
		return nil
	}

	fmt.Printf("Objective (suppressed drains): %g\n", sol.Objective)
	for _, d := range result.Drains {
		ind, _ := result.Model.LookupVar(media.IndicatorPrefix + d.Reaction)
		if sol.Value(ind) >= milp.ActivationTol {
			fmt.Printf("%-8s (%s): not required\n", d.Reaction, d.Metabolite)
		} else {
			fmt.Printf("%-8s (%s): required in minimal medium\n", d.Reaction, d.Metabolite)
		}
	}
	return nil
}

func main() {
	flag.Parse()
	if err := run(); err != nil {
		log.Exitf("mediasearch returned with error: %v", err)
	}
}
