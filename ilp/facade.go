// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package ilp declares the thin contract the core consumes from an external
// integer linear program. The core never solves anything; it only appends
// variables, constraints and cost coefficients to a Facade that some other
// package (outside this module) backs with a real solver.
package ilp

import "github.com/wcet-tools/ipet-builder/variable"

// Op is a constraint's comparison operator.
type Op int

const (
	// Equal is the "=" comparison.
	Equal Op = iota
	// LessEqual is the "<=" comparison.
	LessEqual
)

func (o Op) String() string {
	if o == Equal {
		return "="
	}
	return "<="
}

// Tag categorizes a constraint for downstream filtering tools.
type Tag string

const (
	// TagStructural marks a block flow-conservation constraint.
	TagStructural Tag = "structural"
	// TagCallsite marks a call-site upper-bound constraint.
	TagCallsite Tag = "callsite"
	// TagInstruction marks a call-site's own frequency-binding constraint.
	TagInstruction Tag = "instruction"
	// TagInfeasible marks a constraint forcing a block's flow to zero.
	TagInfeasible Tag = "infeasible"
	// TagFlowFact marks a constraint lowered from a user-supplied flow fact.
	TagFlowFact Tag = "flowfact"
)

// Term is one (variable, coefficient) summand of a constraint's left-hand
// side.
type Term struct {
	Var   variable.VarID
	Coeff int64
}

// Facade is the contract the core requires of an external ILP. Every method
// is called sequentially from a single goroutine over the lifetime of one
// Builder.Build invocation.
type Facade interface {
	// AddVariable declares id as an ILP decision variable at the given level.
	// Declaring the same id twice is harmless (the facade is expected to be
	// idempotent).
	AddVariable(id variable.VarID, level variable.Level)

	// HasVariable reports whether id has been declared.
	HasVariable(id variable.VarID) bool

	// AddConstraint appends "terms op rhsConst" under the diagnostic name and
	// tag given. It returns a recoverable error if terms references a
	// variable that was never declared; the core catches that error and
	// drops the constraint (see ipeterr.KindMissingVariableInConstraint).
	AddConstraint(terms []Term, op Op, rhsConst int64, name string, tag Tag) error

	// AddCost records an additive ILP objective coefficient for id.
	AddCost(id variable.VarID, coeff int64)
}
