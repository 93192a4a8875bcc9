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

// Package milp provides an append-only mixed-integer linear program
// aggregate and the constraint encodings built on top of it.
//
// The `Model` struct holds named variables and constraints in insertion
// order; indices handed out by the append operations stay valid for the
// lifetime of the model. Big-M indicator encodings and the alternative
// solution search live in this package as well, since they only ever talk
// to the model through the append primitives.
package milp

import (
	"math"
	"sort"

	"github.com/pkg/errors"
)

// Sentinel errors returned by the model mutation primitives.
var (
	// ErrDuplicateName is returned when a variable or constraint name is
	// already taken.
	ErrDuplicateName = errors.New("name already exists in model")
	// ErrBadRow is returned when a constraint row references a variable
	// index outside the model.
	ErrBadRow = errors.New("row references unknown variable index")
)

type (
	// VarIndex is the index of a variable in the model.
	VarIndex int32
	// ConstrIndex is the index of a constraint in the model.
	ConstrIndex int32
)

// VarType is the type of a model variable.
type VarType int

const (
	// Continuous is a real-valued variable.
	Continuous VarType = iota
	// Binary is a 0/1 variable.
	Binary
)

// Relation is the relational type of a constraint row.
type Relation int

const (
	// LessEq encodes `row <= rhs`.
	LessEq Relation = iota
	// GreaterEq encodes `row >= rhs`.
	GreaterEq
	// Equal encodes `row == rhs`.
	Equal
)

// Direction is the optimization direction of the active objective.
type Direction int

const (
	// Minimize the objective.
	Minimize Direction = iota
	// Maximize the objective.
	Maximize
)

// Term is one sparse entry of a constraint row or objective vector.
type Term struct {
	Var  VarIndex
	Coef float64
}

// Variable is a variable record in the model.
type Variable struct {
	Name string
	LB   float64
	UB   float64
	Type VarType
}

// Constraint is a constraint record in the model.
type Constraint struct {
	Name string
	Rel  Relation
	RHS  float64
	Row  []Term
}

// VariableSpec describes a variable to be appended to a model.
type VariableSpec struct {
	Name    string
	LB      float64
	UB      float64
	Type    VarType
	ObjCoef float64
}

// ConstraintSpec describes a constraint to be appended to a model.
type ConstraintSpec struct {
	Name string
	Rel  Relation
	RHS  float64
	Row  []Term
}

// Interval is a closed interval over float64 values.
type Interval struct {
	Min float64
	Max float64
}

// Empty reports whether the interval contains no values.
func (iv Interval) Empty() bool {
	return iv.Min > iv.Max
}

// Contains reports whether `v` lies inside the interval.
func (iv Interval) Contains(v float64) bool {
	return iv.Min <= v && v <= iv.Max
}

// Model is a mutable MILP aggregate. Variables and constraints are stored
// in insertion order and are only ever appended; an index returned by an
// append operation refers to the same record forever. All mutation methods
// either succeed completely or leave the model untouched.
//
// A Model has single-writer ownership: it must not be mutated concurrently.
type Model struct {
	vars      []Variable
	constrs   []Constraint
	varByName map[string]VarIndex
	conByName map[string]ConstrIndex
	objective map[VarIndex]float64
	direction Direction
}

// NewModel creates an empty model with a Minimize direction.
func NewModel() *Model {
	return &Model{
		varByName: make(map[string]VarIndex),
		conByName: make(map[string]ConstrIndex),
		objective: make(map[VarIndex]float64),
	}
}

// NumVars returns the number of variables in the model.
func (m *Model) NumVars() int {
	return len(m.vars)
}

// NumConstraints returns the number of constraints in the model.
func (m *Model) NumConstraints() int {
	return len(m.constrs)
}

// Var returns the variable record at index `i`.
func (m *Model) Var(i VarIndex) Variable {
	return m.vars[i]
}

// Constr returns the constraint record at index `i`. The returned row
// shares no storage with the model.
func (m *Model) Constr(i ConstrIndex) Constraint {
	c := m.constrs[i]
	c.Row = append([]Term(nil), c.Row...)
	return c
}

// LookupVar returns the index of the variable with the given name.
func (m *Model) LookupVar(name string) (VarIndex, bool) {
	i, ok := m.varByName[name]
	return i, ok
}

// LookupConstraint returns the index of the constraint with the given name.
func (m *Model) LookupConstraint(name string) (ConstrIndex, bool) {
	i, ok := m.conByName[name]
	return i, ok
}

// AddVariable appends a single variable. See AddVariables.
func (m *Model) AddVariable(spec VariableSpec) (VarIndex, error) {
	inds, err := m.AddVariables([]VariableSpec{spec})
	if err != nil {
		return 0, err
	}
	return inds[0], nil
}

// AddVariables appends each spec as a new variable at the next free index
// and returns the assigned indices in spec order. Names are validated
// against the model and against the batch before anything is appended; on
// error the model is unchanged.
func (m *Model) AddVariables(specs []VariableSpec) ([]VarIndex, error) {
	seen := make(map[string]bool, len(specs))
	for _, s := range specs {
		if s.Name == "" {
			return nil, errors.Errorf("variable spec has empty name")
		}
		if _, exists := m.varByName[s.Name]; exists || seen[s.Name] {
			return nil, errors.Wrapf(ErrDuplicateName, "variable %q", s.Name)
		}
		seen[s.Name] = true
	}

	inds := make([]VarIndex, len(specs))
	for i, s := range specs {
		ind := VarIndex(len(m.vars))
		m.vars = append(m.vars, Variable{Name: s.Name, LB: s.LB, UB: s.UB, Type: s.Type})
		m.varByName[s.Name] = ind
		if s.ObjCoef != 0 {
			m.objective[ind] = s.ObjCoef
		}
		inds[i] = ind
	}
	return inds, nil
}

// AddConstraint appends a single constraint. See AddConstraints.
func (m *Model) AddConstraint(spec ConstraintSpec) (ConstrIndex, error) {
	inds, err := m.AddConstraints([]ConstraintSpec{spec})
	if err != nil {
		return 0, err
	}
	return inds[0], nil
}

// AddConstraints appends each spec as a new constraint at the next free row
// and returns the assigned indices in spec order. Names and row indices are
// validated before anything is appended; on error the model is unchanged.
func (m *Model) AddConstraints(specs []ConstraintSpec) ([]ConstrIndex, error) {
	seen := make(map[string]bool, len(specs))
	for _, s := range specs {
		if s.Name == "" {
			return nil, errors.Errorf("constraint spec has empty name")
		}
		if _, exists := m.conByName[s.Name]; exists || seen[s.Name] {
			return nil, errors.Wrapf(ErrDuplicateName, "constraint %q", s.Name)
		}
		seen[s.Name] = true
		for _, t := range s.Row {
			if t.Var < 0 || int(t.Var) >= len(m.vars) {
				return nil, errors.Wrapf(ErrBadRow, "constraint %q references variable %d", s.Name, t.Var)
			}
		}
	}

	inds := make([]ConstrIndex, len(specs))
	for i, s := range specs {
		ind := ConstrIndex(len(m.constrs))
		m.constrs = append(m.constrs, Constraint{
			Name: s.Name,
			Rel:  s.Rel,
			RHS:  s.RHS,
			Row:  append([]Term(nil), s.Row...),
		})
		m.conByName[s.Name] = ind
		inds[i] = ind
	}
	return inds, nil
}

// SetVarBounds replaces the bounds of the variable at index `i`.
func (m *Model) SetVarBounds(i VarIndex, lb, ub float64) {
	m.vars[i].LB = lb
	m.vars[i].UB = ub
}

// RenameVar gives the variable at index `i` a new unique name.
func (m *Model) RenameVar(i VarIndex, name string) error {
	if name == "" {
		return errors.Errorf("empty variable name")
	}
	if prev, exists := m.varByName[name]; exists && prev != i {
		return errors.Wrapf(ErrDuplicateName, "variable %q", name)
	}
	delete(m.varByName, m.vars[i].Name)
	m.vars[i].Name = name
	m.varByName[name] = i
	return nil
}

// ZeroObjective clears the objective vector. The direction is untouched.
func (m *Model) ZeroObjective() {
	m.objective = make(map[VarIndex]float64)
}

// SetObjectiveCoef sets the objective weight of the variable at index `i`.
// A zero weight removes the entry.
func (m *Model) SetObjectiveCoef(i VarIndex, w float64) {
	if w == 0 {
		delete(m.objective, i)
		return
	}
	m.objective[i] = w
}

// ObjectiveCoef returns the objective weight of the variable at index `i`.
func (m *Model) ObjectiveCoef(i VarIndex) float64 {
	return m.objective[i]
}

// ObjectiveTerms returns the nonzero objective entries ordered by variable
// index.
func (m *Model) ObjectiveTerms() []Term {
	terms := make([]Term, 0, len(m.objective))
	for i, w := range m.objective {
		terms = append(terms, Term{Var: i, Coef: w})
	}
	sort.Slice(terms, func(a, b int) bool { return terms[a].Var < terms[b].Var })
	return terms
}

// SetDirection sets the optimization direction.
func (m *Model) SetDirection(d Direction) {
	m.direction = d
}

// Dir returns the optimization direction.
func (m *Model) Dir() Direction {
	return m.direction
}

// Clone returns a deep copy of the model. Mutating the copy never affects
// the original.
func (m *Model) Clone() *Model {
	c := &Model{
		vars:      append([]Variable(nil), m.vars...),
		constrs:   make([]Constraint, len(m.constrs)),
		varByName: make(map[string]VarIndex, len(m.varByName)),
		conByName: make(map[string]ConstrIndex, len(m.conByName)),
		objective: make(map[VarIndex]float64, len(m.objective)),
		direction: m.direction,
	}
	for i, con := range m.constrs {
		con.Row = append([]Term(nil), con.Row...)
		c.constrs[i] = con
	}
	for name, i := range m.varByName {
		c.varByName[name] = i
	}
	for name, i := range m.conByName {
		c.conByName[name] = i
	}
	for i, w := range m.objective {
		c.objective[i] = w
	}
	return c
}

// Inf returns positive infinity, for unbounded variable bounds.
func Inf() float64 {
	return math.Inf(1)
}

// NegInf returns negative infinity, for unbounded variable bounds.
func NegInf() float64 {
	return math.Inf(-1)
}
