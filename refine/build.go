package refine

import (
	"github.com/wcet-tools/ipet-builder/config"
	"github.com/wcet-tools/ipet-builder/internal/collections"
	"github.com/wcet-tools/ipet-builder/program"
	"github.com/wcet-tools/ipet-builder/variable"
)

// matchBlockInfeasible recognizes the "block frequency = 0" fact shape: a
// single LHS term naming a block, compared for equality against zero.
func matchBlockInfeasible(f program.ConstraintFact) (program.Block, bool) {
	if len(f.LHS) != 1 || f.Op != program.OpEqual {
		return nil, false
	}
	bp, ok := f.LHS[0].Point.(program.BlockPoint)
	if !ok || f.LHS[0].Factor == 0 {
		return nil, false
	}
	rhs, ok := f.RHS.(program.ConstRHS)
	if !ok || rhs != 0 {
		return nil, false
	}
	return bp.Block, true
}

// BuildTable ingests facts at the given level into a fresh Table, then runs
// the infeasibility fixed point over every block of functions (the full,
// not-yet-reachability-pruned, block universe for this level).
func BuildTable(level variable.Level, functions []program.Function, facts []program.Fact, log *config.LogGroup) *Table {
	t := NewTable()

	for _, f := range facts {
		if f.Level() != level {
			continue
		}
		switch fact := f.(type) {
		case program.CallTargetFact:
			targets := make(collections.Set[string], len(fact.Targets))
			for _, callee := range fact.Targets {
				targets[callee.QName()] = true
			}
			t.restrictCallTargets(ContextRef{Point: fact.Site.QName(), Context: fact.Scope.Context}, targets)
			log.Debugf("refine: restricted call targets at %s under context %q to %v", fact.Site.QName(), fact.Scope.Context, collections.SortedKeys(targets))
		case program.ConstraintFact:
			if block, ok := matchBlockInfeasible(fact); ok {
				// A non-global context here is recorded but not propagated;
				// only globally-infeasible blocks seed the fixed point below.
				t.markInfeasible(ContextRef{Point: block.QName(), Context: fact.Scope.Context})
				log.Debugf("refine: marked %s infeasible under context %q", block.QName(), fact.Scope.Context)
			}
		}
	}

	propagateInfeasibility(t, functions)
	return t
}

// propagateInfeasibility runs a monotone fixed point: a block becomes
// infeasible if all its non-back-edge predecessors are infeasible, or if
// all its successors are infeasible. Back edges never contribute to the
// predecessor closure, so a loop header is never killed by its own back
// edge. Only the global context participates.
func propagateInfeasibility(t *Table, functions []program.Function) {
	infeasible := make(collections.Set[string])
	for point, byCtx := range t.infeasible {
		if byCtx[program.GlobalContext] {
			infeasible[point] = true
		}
	}

	isInfeasible := func(b program.Block) bool { return infeasible[b.QName()] }

	for {
		changed := false
		for _, fn := range functions {
			for _, b := range fn.Blocks() {
				qn := b.QName()
				if infeasible[qn] {
					continue
				}
				nonBack := collections.Filter(b.Predecessors(), func(p program.Predecessor) bool { return !p.BackEdge })
				nonBackPreds := collections.Map(nonBack, func(p program.Predecessor) program.Block { return p.Block })
				if len(nonBackPreds) > 0 && collections.All(nonBackPreds, isInfeasible) {
					infeasible[qn] = true
					changed = true
					continue
				}
				succs := b.Successors()
				if len(succs) > 0 && collections.All(succs, isInfeasible) {
					infeasible[qn] = true
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}

	for point := range infeasible {
		t.markInfeasible(ContextRef{Point: point, Context: program.GlobalContext})
	}
}
