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
	"math"

	"github.com/pkg/errors"
)

// round5 rounds `v` to 5 decimal places. Constraint coefficients derived
// from floating-point bound arithmetic are rounded so solver tolerances are
// not fed numerical noise.
func round5(v float64) float64 {
	return math.Round(v*1e5) / 1e5
}

// SuppressUpper appends the single-sided suppression row
//
//	x + M*b <= threshold
//
// so that b=1 forces x <= threshold-M and b=0 leaves x <= threshold. The
// effective M starts from `bigM` and is raised from x's own upper bound
// when that bound exceeds threshold+bigM, so an inactive indicator never
// cuts off feasible range. Returns the index of the appended row.
func SuppressUpper(m *Model, x, b VarIndex, threshold, bigM float64, name string) (ConstrIndex, error) {
	if bigM <= 0 {
		return 0, errors.Errorf("big-M must be positive, got %v", bigM)
	}
	if int(x) >= m.NumVars() || int(b) >= m.NumVars() || x < 0 || b < 0 {
		return 0, errors.Wrapf(ErrBadRow, "suppression row %q", name)
	}
	if m.Var(b).Type != Binary {
		return 0, errors.Errorf("suppression indicator %q is not binary", m.Var(b).Name)
	}

	coef := bigM
	if ub := m.Var(x).UB; ub-threshold >= bigM {
		coef = round5(ub - threshold + bigM)
	}

	return m.AddConstraint(ConstraintSpec{
		Name: name,
		Rel:  LessEq,
		RHS:  threshold,
		Row:  []Term{{Var: x, Coef: 1}, {Var: b, Coef: coef}},
	})
}

// RelaxBounds appends the two-sided relaxation rows
//
//	x + round5(relaxedUB-ub)*b <= relaxedUB
//	x + round5(relaxedLB-lb)*b >= relaxedLB
//
// where (lb, ub) are x's bounds at call time, and then widens x's bounds to
// cover the relaxed pair. With b=1 the rows recover the original tight
// bounds; with b=0 the relaxed bounds apply. The construction stays valid
// when a natural bound already satisfies its relaxed counterpart; the
// indicator simply has no effect on that side.
//
// Returns the indices of the upper and lower rows, in that order.
func RelaxBounds(m *Model, x, b VarIndex, relaxedLB, relaxedUB float64, upperName, lowerName string) ([2]ConstrIndex, error) {
	var out [2]ConstrIndex
	if relaxedLB > relaxedUB {
		return out, errors.Errorf("relaxed bounds inverted: [%v, %v]", relaxedLB, relaxedUB)
	}
	if int(x) >= m.NumVars() || int(b) >= m.NumVars() || x < 0 || b < 0 {
		return out, errors.Wrapf(ErrBadRow, "relaxation rows %q/%q", upperName, lowerName)
	}
	if m.Var(b).Type != Binary {
		return out, errors.Errorf("relaxation indicator %q is not binary", m.Var(b).Name)
	}

	v := m.Var(x)
	inds, err := m.AddConstraints([]ConstraintSpec{
		{
			Name: upperName,
			Rel:  LessEq,
			RHS:  relaxedUB,
			Row:  []Term{{Var: x, Coef: 1}, {Var: b, Coef: round5(relaxedUB - v.UB)}},
		},
		{
			Name: lowerName,
			Rel:  GreaterEq,
			RHS:  relaxedLB,
			Row:  []Term{{Var: x, Coef: 1}, {Var: b, Coef: round5(relaxedLB - v.LB)}},
		},
	})
	if err != nil {
		return out, err
	}
	m.SetVarBounds(x, math.Min(v.LB, relaxedLB), math.Max(v.UB, relaxedUB))

	out[0], out[1] = inds[0], inds[1]
	return out, nil
}
