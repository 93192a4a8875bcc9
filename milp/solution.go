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

// Status is the outcome of a solve.
type Status int

const (
	// StatusUnknown means the solver terminated without classifying the model.
	StatusUnknown Status = iota
	// StatusOptimal means an optimal solution was found.
	StatusOptimal
	// StatusFeasible means a feasible but not proven optimal solution was found.
	StatusFeasible
	// StatusInfeasible means the model has no feasible solution.
	StatusInfeasible
	// StatusUnbounded means the objective is unbounded.
	StatusUnbounded
)

// String returns a short label for the status.
func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusFeasible:
		return "feasible"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	default:
		return "unknown"
	}
}

// Solution contains the result of solving a model.
type Solution struct {
	Status    Status
	Objective float64
	// Values holds one value per model variable, indexed by VarIndex.
	Values []float64
}

// Value returns the solution value of the variable at index `i`.
func (s *Solution) Value(i VarIndex) float64 {
	return s.Values[i]
}

// IsOptimal reports whether the solve proved optimality.
func (s *Solution) IsOptimal() bool {
	return s.Status == StatusOptimal
}

// IsInfeasible reports whether the model was proven infeasible.
func (s *Solution) IsInfeasible() bool {
	return s.Status == StatusInfeasible
}

// HasSolution reports whether Values holds a usable assignment.
func (s *Solution) HasSolution() bool {
	return s.Status == StatusOptimal || s.Status == StatusFeasible
}

// Solver solves a model. Solve blocks until the solver terminates; any
// timeout or cancellation policy belongs to the implementation, not to the
// callers in this module.
type Solver interface {
	Solve(m *Model) (*Solution, error)
}
