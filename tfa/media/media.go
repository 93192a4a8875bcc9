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

// Package media builds the in-silico minimal media / minimal secretion
// MILP. One BFUSE indicator is appended per candidate drain; an active
// indicator shuts the drain's flux off through a big-M suppression row, and
// the objective maximizes the number of shut-off drains while the wild-type
// objective stays bracketed in its configured range. The minimal medium is
// the complement: drains whose indicator the solver could not activate.
package media

import (
	log "github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/fluxomics/tfamilp/milp"
	"github.com/fluxomics/tfamilp/tfa"
)

const (
	// SuppressionThreshold is the flux ceiling an inactive indicator leaves
	// on a drain, in flux units.
	SuppressionThreshold = 50
	// BigM is the suppression constant; an active indicator forces drain
	// flux down to SuppressionThreshold - BigM.
	BigM = 100
	// IndicatorPrefix names the per-drain binary indicators.
	IndicatorPrefix = "BFUSE_"
	// DefaultObjectiveFraction fixes the default objective range at
	// [fraction, 1.0] of the baseline optimum.
	DefaultObjectiveFraction = 0.9
)

// ErrBadObjectiveRange is returned when the configured objective range has
// its lower bound above its upper bound.
var ErrBadObjectiveRange = errors.New("objective range lower bound exceeds upper bound")

// AnalysisDirection selects whether uptakes or secretions are minimized.
type AnalysisDirection int

const (
	// Uptake analyzes minimal media: reverse (uptake) drain fluxes.
	Uptake AnalysisDirection = iota
	// Secretion analyzes minimal secretion: forward drain fluxes.
	Secretion
)

// Options configures a minimal-media build.
type Options struct {
	Direction AnalysisDirection
	// ObjectiveRange brackets the original objective. When nil, the model
	// is solved once and the range defaults to
	// [DefaultObjectiveFraction, 1.0] times the baseline optimum.
	ObjectiveRange *milp.Interval
	// Candidates restricts the analysis to the named drains. The list must
	// be a subset of the model's reactions or of the discovered drains;
	// otherwise the full discovered set is used and a warning is logged.
	Candidates []string
	// NoThermo lists reactions excluded from thermodynamic constraints,
	// passed through to the thermo builder.
	NoThermo map[string]bool
	// Measurements is optional external measurement data applied before
	// the objective surgery.
	Measurements any
}

// Deps are the external collaborators a build consumes. Solver and Drains
// are required; the rest are optional.
type Deps struct {
	Solver       milp.Solver
	Drains       tfa.DrainDiscoverer
	Thermo       tfa.ThermoBuilder
	ThermoDB     *tfa.ThermoDB
	NetFlux      tfa.NetFluxBuilder
	Measurements tfa.MeasurementLoader
}

// Result is the outcome of a minimal-media build.
type Result struct {
	// Model is the mutated model, ready to solve. Indicator=1 in its
	// solution means the drain is shut off and therefore not required.
	Model *tfa.Model
	// Drains lists the analyzed drains in discovery order, one indicator
	// each.
	Drains []tfa.Drain
	// Pre is a snapshot taken after drain discovery and net-flux setup but
	// before the objective surgery, so variants can be rebuilt without
	// repeating discovery.
	Pre *tfa.Model
}

// Build extends `m` into the minimal-media MILP. The model is mutated in
// place; on a configuration error it is returned untouched.
func Build(m *tfa.Model, opts Options, deps Deps) (*Result, error) {
	if opts.ObjectiveRange != nil && opts.ObjectiveRange.Empty() {
		return nil, errors.Wrapf(ErrBadObjectiveRange, "[%v, %v]",
			opts.ObjectiveRange.Min, opts.ObjectiveRange.Max)
	}

	objRange, err := resolveObjectiveRange(m, opts, deps)
	if err != nil {
		return nil, err
	}

	changed, drains, err := deps.Drains.Discover(m)
	if err != nil {
		return nil, errors.Wrap(err, "drain discovery")
	}
	drains = selectCandidates(m, drains, opts.Candidates)

	if changed && deps.Thermo != nil {
		if err := deps.Thermo.Rebuild(m, deps.ThermoDB, opts.NoThermo); err != nil {
			return nil, errors.Wrap(err, "thermo rebuild")
		}
	}

	if deps.NetFlux != nil && len(tfa.FindVariablesByTag(m, tfa.NetFluxTag)) == 0 {
		if err := deps.NetFlux.Create(m); err != nil {
			return nil, errors.Wrap(err, "net-flux variables")
		}
	}
	if opts.Measurements != nil && deps.Measurements != nil {
		if err := deps.Measurements.Apply(m, opts.Measurements); err != nil {
			return nil, errors.Wrap(err, "measurement constraints")
		}
	}

	pre := m.Clone()

	obj, ok := m.LookupVar(m.ObjectiveVar)
	if !ok {
		return nil, errors.Errorf("objective variable %q not in model", m.ObjectiveVar)
	}
	m.SetVarBounds(obj, objRange.Min, objRange.Max)
	m.ZeroObjective()

	prefix := tfa.ReversePrefix
	if opts.Direction == Secretion {
		prefix = tfa.ForwardPrefix
	}
	for _, d := range drains {
		flux, ok := m.LookupVar(prefix + d.Reaction)
		if !ok {
			return nil, errors.Errorf("drain %s has no %s flux variable", d.Reaction, prefix)
		}
		ind, err := m.AddVariable(milp.VariableSpec{
			Name:    IndicatorPrefix + d.Reaction,
			LB:      0,
			UB:      1,
			Type:    milp.Binary,
			ObjCoef: 1,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "indicator for drain %s", d.Reaction)
		}
		if _, err := milp.SuppressUpper(m.Model, flux, ind, SuppressionThreshold, BigM, "SU_"+prefix+d.Reaction); err != nil {
			return nil, errors.Wrapf(err, "suppression row for drain %s", d.Reaction)
		}
	}
	m.SetDirection(milp.Maximize)

	return &Result{Model: m, Drains: drains, Pre: pre}, nil
}

// resolveObjectiveRange returns the configured range, or derives the
// default bracket from the baseline optimum.
func resolveObjectiveRange(m *tfa.Model, opts Options, deps Deps) (milp.Interval, error) {
	if opts.ObjectiveRange != nil {
		return *opts.ObjectiveRange, nil
	}
	sol, err := deps.Solver.Solve(m.Model)
	if err != nil {
		return milp.Interval{}, errors.Wrap(err, "baseline solve")
	}
	if !sol.HasSolution() {
		return milp.Interval{}, errors.Errorf("baseline solve returned %v", sol.Status)
	}
	return milp.Interval{Min: DefaultObjectiveFraction * sol.Objective, Max: sol.Objective}, nil
}

// selectCandidates validates a caller-supplied candidate list against the
// model's reactions and the discovered drains. An unrecognized list is not
// fatal: the full discovered set is used instead.
func selectCandidates(m *tfa.Model, drains []tfa.Drain, candidates []string) []tfa.Drain {
	if len(candidates) == 0 {
		return drains
	}

	byReaction := make(map[string]tfa.Drain, len(drains))
	for _, d := range drains {
		byReaction[d.Reaction] = d
	}
	allKnown := true
	for _, c := range candidates {
		if _, isDrain := byReaction[c]; !isDrain && !m.HasReaction(c) {
			allKnown = false
			break
		}
	}
	if !allKnown {
		log.Warningf("candidate drain list is not a subset of the model's reactions or discovered drains; using all %d discovered drains", len(drains))
		return drains
	}

	selected := make([]tfa.Drain, 0, len(candidates))
	for _, c := range candidates {
		if d, ok := byReaction[c]; ok {
			selected = append(selected, d)
		} else {
			selected = append(selected, tfa.Drain{Reaction: c})
		}
	}
	return selected
}
