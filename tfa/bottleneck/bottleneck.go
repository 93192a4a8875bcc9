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

// Package bottleneck identifies the metabolite concentration bounds that
// must be relaxed to restore feasibility at a minimum growth rate. One
// LCUSE indicator is appended per concentration-bounded variable; an active
// indicator keeps the tight natural bound, an inactive one permits the
// relaxed bound, and the objective minimizes the number of relaxations.
// Alternative minimal relaxation sets are enumerated with integer cuts.
package bottleneck

import (
	"strings"

	log "github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/fluxomics/tfamilp/milp"
	"github.com/fluxomics/tfamilp/tfa"
)

const (
	// IndicatorPrefix names the per-variable binary indicators.
	IndicatorPrefix = "LCUSE_"
	// DefaultMinGrowth is the growth-rate floor used when Options leaves
	// MinGrowth unset.
	DefaultMinGrowth = 0.007
)

// ErrNoActiveIndicator is returned when the solver hands back a solution in
// which no indicator crosses the activation tolerance. That result is
// inconsistent with the enumeration's own cuts and must not be read as "no
// bottleneck found".
var ErrNoActiveIndicator = errors.New("solution activates no indicator above tolerance")

// ConcentrationBound supplies the relaxed bound pair for one concentration
// variable.
type ConcentrationBound struct {
	Variable  string
	RelaxedLB float64
	RelaxedUB float64
}

// Bottleneck is one relaxed metabolite of an alternative.
type Bottleneck struct {
	MetaboliteID   string
	MetaboliteName string
}

// Alternative is one minimal relaxation set.
type Alternative []Bottleneck

// Options configures a bottleneck search.
type Options struct {
	// MinGrowth is the lower bound placed on the growth objective
	// variable. Zero means DefaultMinGrowth.
	MinGrowth float64
	// MaxAlternatives caps the enumeration. Zero disables the search and
	// yields no alternatives.
	MaxAlternatives int
}

// Find extends `m` with relaxation indicators for every entry of `table`
// present in the model and enumerates minimal relaxation sets. The model is
// mutated in place and returned inside the error-free path regardless of
// how many alternatives exist; an infeasible first solve yields an empty
// result and no error.
func Find(m *tfa.Model, table []ConcentrationBound, opts Options, s milp.Solver) ([]Alternative, error) {
	minGrowth := opts.MinGrowth
	if minGrowth == 0 {
		minGrowth = DefaultMinGrowth
	}

	var kept []ConcentrationBound
	for _, cb := range table {
		if _, ok := m.LookupVar(cb.Variable); ok {
			kept = append(kept, cb)
		} else {
			log.V(1).Infof("concentration variable %s not in model, skipped", cb.Variable)
		}
	}
	if len(kept) == 0 {
		return nil, nil
	}

	growth, ok := m.LookupVar(m.ObjectiveVar)
	if !ok {
		return nil, errors.Errorf("growth variable %q not in model", m.ObjectiveVar)
	}
	m.SetVarBounds(growth, minGrowth, m.Var(growth).UB)
	m.ZeroObjective()

	indicators := make([]milp.VarIndex, len(kept))
	for i, cb := range kept {
		x, _ := m.LookupVar(cb.Variable)
		ind, err := m.AddVariable(milp.VariableSpec{
			Name:    IndicatorPrefix + cb.Variable,
			LB:      0,
			UB:      1,
			Type:    milp.Binary,
			ObjCoef: 1,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "indicator for %s", cb.Variable)
		}
		if _, err := milp.RelaxBounds(m.Model, x, ind, cb.RelaxedLB, cb.RelaxedUB,
			"UB_"+cb.Variable, "LB_"+cb.Variable); err != nil {
			return nil, errors.Wrapf(err, "relaxation rows for %s", cb.Variable)
		}
		indicators[i] = ind
	}
	m.SetDirection(milp.Minimize)

	patterns, err := milp.SearchAlternatives(m.Model, s, indicators, opts.MaxAlternatives)
	if err != nil {
		return nil, errors.Wrap(err, "alternative search")
	}

	alts := make([]Alternative, 0, len(patterns))
	for k, pattern := range patterns {
		var alt Alternative
		for i, v := range pattern {
			if v < milp.ActivationTol {
				continue
			}
			id := strings.TrimPrefix(kept[i].Variable, tfa.ConcentrationPrefix)
			name, _ := m.MetaboliteName(id)
			alt = append(alt, Bottleneck{MetaboliteID: id, MetaboliteName: name})
		}
		if len(alt) == 0 {
			return nil, errors.Wrapf(ErrNoActiveIndicator, "alternative %d", k+1)
		}
		alts = append(alts, alt)
	}
	return alts, nil
}
