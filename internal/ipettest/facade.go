package ipettest

import (
	"github.com/wcet-tools/ipet-builder/ilp"
	"github.com/wcet-tools/ipet-builder/ipeterr"
	"github.com/wcet-tools/ipet-builder/variable"
)

// Constraint is one recorded AddConstraint call.
type Constraint struct {
	Terms []ilp.Term
	Op    ilp.Op
	RHS   int64
	Name  string
	Tag   ilp.Tag
}

// RecordingFacade is an in-memory ilp.Facade that records every call for
// test assertions, and reproduces the façade's documented
// MissingVariableInConstraint behavior so builder-level tests can exercise
// the drop-and-continue path without a real solver.
type RecordingFacade struct {
	Variables   map[variable.VarID]variable.Level
	Constraints []Constraint
	Costs       map[variable.VarID]int64
}

// NewRecordingFacade returns an empty RecordingFacade.
func NewRecordingFacade() *RecordingFacade {
	return &RecordingFacade{
		Variables: make(map[variable.VarID]variable.Level),
		Costs:     make(map[variable.VarID]int64),
	}
}

func (f *RecordingFacade) AddVariable(id variable.VarID, level variable.Level) {
	f.Variables[id] = level
}

func (f *RecordingFacade) HasVariable(id variable.VarID) bool {
	_, ok := f.Variables[id]
	return ok
}

func (f *RecordingFacade) AddConstraint(terms []ilp.Term, op ilp.Op, rhsConst int64, name string, tag ilp.Tag) error {
	for _, t := range terms {
		if !f.HasVariable(t.Var) {
			return ipeterr.New(ipeterr.KindMissingVariableInConstraint, string(t.Var), "undeclared variable referenced by "+name)
		}
	}
	f.Constraints = append(f.Constraints, Constraint{Terms: terms, Op: op, RHS: rhsConst, Name: name, Tag: tag})
	return nil
}

func (f *RecordingFacade) AddCost(id variable.VarID, coeff int64) {
	f.Costs[id] += coeff
}

// ConstraintsByTag returns every recorded constraint with the given tag, in
// recording order.
func (f *RecordingFacade) ConstraintsByTag(tag ilp.Tag) []Constraint {
	var out []Constraint
	for _, c := range f.Constraints {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// HasConstraint reports whether any recorded constraint matches pred.
func (f *RecordingFacade) HasConstraint(pred func(Constraint) bool) bool {
	for _, c := range f.Constraints {
		if pred(c) {
			return true
		}
	}
	return false
}
