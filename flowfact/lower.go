package flowfact

import (
	"github.com/wcet-tools/ipet-builder/config"
	"github.com/wcet-tools/ipet-builder/ilp"
	"github.com/wcet-tools/ipet-builder/ipeterr"
	"github.com/wcet-tools/ipet-builder/ipetmodel"
	"github.com/wcet-tools/ipet-builder/program"
	"github.com/wcet-tools/ipet-builder/variable"
)

// Lower translates one accepted flow fact into an ILP constraint and emits
// it on model. CallTargetFact is not this package's concern
// (refine.BuildTable ingests it directly) and is a silent no-op here. Every
// returned error is one of ipeterr's recoverable kinds and has already been
// logged at Warn by Lower; the caller moves on to the next fact, it never
// halts Build.
func Lower(fact program.Fact, model *ipetmodel.Model, markers MarkerIndex, log *config.LogGroup) error {
	cf, ok := fact.(program.ConstraintFact)
	if !ok {
		return nil
	}

	rhsConst, ok := cf.RHS.(program.ConstRHS)
	if !ok {
		log.Warnf("flowfact: dropping %q: symbolic right-hand side is unsupported", cf.Name)
		return ipeterr.New(ipeterr.KindUnsupportedFactShape, cf.Name, "symbolic rhs")
	}

	lhs := cf.LHS
	if model.Level() == variable.Bitcode {
		expanded, err := expandMarkers(lhs, markers)
		if err != nil {
			log.Warnf("flowfact: dropping %q: %v", cf.Name, err)
			return err
		}
		lhs = expanded
	}

	if cf.Scope.Context != program.GlobalContext {
		log.Warnf("flowfact: dropping %q: context-sensitive scope is unsupported", cf.Name)
		return ipeterr.New(ipeterr.KindUnsupportedFactShape, cf.Name, "context-sensitive scope")
	}

	rhsEffective := int64(rhsConst)
	var terms []ilp.Term
	for _, t := range lhs {
		if t.Context != program.GlobalContext {
			log.Warnf("flowfact: dropping %q: context-sensitive term is unsupported", cf.Name)
			return ipeterr.New(ipeterr.KindUnsupportedFactShape, cf.Name, "context-sensitive term")
		}
		if cp, ok := t.Point.(program.ConstantPoint); ok {
			rhsEffective -= t.Factor * cp.Value
			continue
		}
		ts, err := pointTerms(t.Point, model)
		if err != nil {
			log.Warnf("flowfact: dropping %q: %v", cf.Name, err)
			return err
		}
		terms = append(terms, scaleTerms(ts, t.Factor)...)
	}

	scopeTerms, err := scopeFrequencyTerms(cf.Scope, model)
	if err != nil {
		log.Warnf("flowfact: dropping %q: %v", cf.Name, err)
		return err
	}
	// The scope contributes −rhs × frequency(scope), so the emitted
	// constraint's constant side is zero.
	terms = append(terms, scaleTerms(scopeTerms, -rhsEffective)...)

	op := ilp.LessEqual
	if cf.Op == program.OpEqual {
		op = ilp.Equal
	}
	model.EmitFlowFact(terms, op)
	return nil
}

// pointTerms translates one LHS program point into variable terms via model.
// ConstantPoint is handled by the caller before this is reached; MarkerPoint
// must already have been expanded away.
func pointTerms(point program.ProgramPoint, model *ipetmodel.Model) ([]ilp.Term, error) {
	switch p := point.(type) {
	case program.FunctionPoint:
		return model.FunctionFrequencyTerms(p.Function), nil
	case program.BlockPoint:
		return model.BlockFrequencyTerms(p.Block), nil
	case program.EdgePoint:
		return model.EdgeFrequencyTerms(p.Edge), nil
	case program.LoopPoint:
		return model.LoopEntryFrequencyTerms(p.Loop), nil
	case program.InstructionPoint:
		return nil, ipeterr.New(ipeterr.KindUnsupportedFactShape, p.Instruction.QName(), "instruction-level term")
	case program.MarkerPoint:
		return nil, ipeterr.New(ipeterr.KindUnsupportedFactShape, p.Name, "marker term survived expansion")
	default:
		return nil, ipeterr.New(ipeterr.KindUnsupportedFactShape, "", "unknown program point kind")
	}
}

// scopeFrequencyTerms translates a fact's scope, which is restricted to a
// function or a loop.
func scopeFrequencyTerms(scope program.Scope, model *ipetmodel.Model) ([]ilp.Term, error) {
	switch p := scope.Point.(type) {
	case program.FunctionPoint:
		return model.FunctionFrequencyTerms(p.Function), nil
	case program.LoopPoint:
		return model.LoopEntryFrequencyTerms(p.Loop), nil
	default:
		return nil, ipeterr.New(ipeterr.KindUnsupportedFactShape, "", "scope must be a function or a loop")
	}
}

func scaleTerms(terms []ilp.Term, factor int64) []ilp.Term {
	out := make([]ilp.Term, len(terms))
	for i, t := range terms {
		out[i] = ilp.Term{Var: t.Var, Coeff: t.Coeff * factor}
	}
	return out
}
