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

// Package tfa wraps a thermodynamics-constrained flux analysis model around
// the milp aggregate and declares the external collaborators the analysis
// builders depend on. Thermodynamic constraint generation, drain discovery,
// and measurement loading are consumed through interfaces here and are not
// implemented in this module.
package tfa

import (
	"strings"

	"github.com/fluxomics/tfamilp/milp"
)

// Variable naming conventions of a TFA-converted model. A reaction `rxn`
// contributes a forward flux F_rxn and a reverse flux R_rxn; a metabolite
// `met` with a tracked concentration contributes LC_met (log concentration);
// net-flux variables carry the NF_ tag.
const (
	ForwardPrefix       = "F_"
	ReversePrefix       = "R_"
	ConcentrationPrefix = "LC_"
	NetFluxTag          = "NF_"
)

// ForwardUse returns the forward flux variable name of a reaction.
func ForwardUse(rxn string) string {
	return ForwardPrefix + rxn
}

// ReverseUse returns the reverse flux variable name of a reaction.
func ReverseUse(rxn string) string {
	return ReversePrefix + rxn
}

// Metabolite is one entry of the model's metabolite name table.
type Metabolite struct {
	ID   string
	Name string
}

// Drain is an exchange reaction together with the metabolite it moves
// across the boundary.
type Drain struct {
	Reaction   string
	Metabolite string
}

// Model is a TFA model: the MILP aggregate plus the biological lookup
// tables the builders report against.
type Model struct {
	*milp.Model

	Metabolites []Metabolite
	Reactions   []string
	// ObjectiveVar names the model's growth/objective variable.
	ObjectiveVar string
}

// MetaboliteName returns the human-readable name for a metabolite ID.
func (m *Model) MetaboliteName(id string) (string, bool) {
	for _, met := range m.Metabolites {
		if met.ID == id {
			return met.Name, true
		}
	}
	return "", false
}

// HasReaction reports whether `rxn` is a reaction of the model.
func (m *Model) HasReaction(rxn string) bool {
	for _, r := range m.Reactions {
		if r == rxn {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the model, including the MILP aggregate.
func (m *Model) Clone() *Model {
	return &Model{
		Model:        m.Model.Clone(),
		Metabolites:  append([]Metabolite(nil), m.Metabolites...),
		Reactions:    append([]string(nil), m.Reactions...),
		ObjectiveVar: m.ObjectiveVar,
	}
}

// FindVariablesByTag returns the indices of all variables whose name starts
// with `tag`, in model order.
func FindVariablesByTag(m *Model, tag string) []milp.VarIndex {
	var inds []milp.VarIndex
	for i := 0; i < m.NumVars(); i++ {
		if strings.HasPrefix(m.Var(milp.VarIndex(i)).Name, tag) {
			inds = append(inds, milp.VarIndex(i))
		}
	}
	return inds
}

// ThermoDB is the thermodynamic reaction reference dataset. It is loaded
// once by the caller and passed through to the thermo builder opaquely.
type ThermoDB struct {
	Name    string
	Payload any
}

// ThermoBuilder regenerates the thermodynamic constraint rows of a model
// after its structure changed.
type ThermoBuilder interface {
	Rebuild(m *Model, db *ThermoDB, noThermo map[string]bool) error
}

// DrainDiscoverer identifies the uptake/secretion reactions of a model.
// `changed` reports whether discovery altered the model structure, in which
// case thermodynamic constraints must be rebuilt before further use.
type DrainDiscoverer interface {
	Discover(m *Model) (changed bool, drains []Drain, err error)
}

// NetFluxBuilder creates the net-flux variables of a model when they are
// absent.
type NetFluxBuilder interface {
	Create(m *Model) error
}

// MeasurementLoader applies external measurement constraints to a model.
type MeasurementLoader interface {
	Apply(m *Model, data any) error
}
