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

package milp

import (
	"fmt"

	log "github.com/golang/glog"
	"github.com/pkg/errors"
)

// ActivationTol is the threshold above which a binary indicator's solution
// value is treated as 1. Solver output carries floating-point noise, so
// indicator values are never compared for equality.
const ActivationTol = 0.98

// SearchAlternatives enumerates up to `limit` alternative solutions that
// differ in their indicator activation patterns. Each round solves the
// model, records the values of `indicators`, and appends an integer cut
// excluding the exact set of active indicators before the next solve, so no
// pattern is ever returned twice. Cut rows are named CUT_1, CUT_2, ...
//
// The loop terminates when `limit` patterns are collected or the solver
// reports anything other than a usable solution; infeasibility is a normal
// terminal state and the patterns collected so far are returned without
// error. A limit of zero returns nil without invoking the solver.
func SearchAlternatives(m *Model, s Solver, indicators []VarIndex, limit int) ([][]float64, error) {
	var patterns [][]float64
	for len(patterns) < limit {
		sol, err := s.Solve(m)
		if err != nil {
			return patterns, errors.Wrapf(err, "alternative %d", len(patterns)+1)
		}
		if !sol.HasSolution() {
			log.V(1).Infof("alternative search terminal after %d solutions: %v", len(patterns), sol.Status)
			break
		}

		pattern := make([]float64, len(indicators))
		var active []Term
		for i, v := range indicators {
			pattern[i] = sol.Value(v)
			if pattern[i] >= ActivationTol {
				active = append(active, Term{Var: v, Coef: 1})
			}
		}
		patterns = append(patterns, pattern)

		// Exclude this exact activation set before the next solve.
		cut := ConstraintSpec{
			Name: fmt.Sprintf("CUT_%d", len(patterns)),
			Rel:  LessEq,
			RHS:  float64(len(active) - 1),
			Row:  active,
		}
		if _, err := m.AddConstraint(cut); err != nil {
			return patterns, errors.Wrap(err, "adding integer cut")
		}
	}
	return patterns, nil
}
