package builder

import (
	"github.com/wcet-tools/ipet-builder/internal/collections"
	"github.com/wcet-tools/ipet-builder/ipeterr"
	"github.com/wcet-tools/ipet-builder/program"
	"github.com/wcet-tools/ipet-builder/refine"
	"github.com/wcet-tools/ipet-builder/variable"
)

// resolveCallTargets resolves site's call-target set via refinement,
// wrapping an unresolved indirect call with the enclosing block for
// diagnostics.
func (b *Builder) resolveCallTargets(level variable.Level, site program.Instruction, refinement *refine.Table) (collections.Set[string], error) {
	var static collections.Set[string]
	if callees := site.Callees(); len(callees) > 0 {
		static = make(collections.Set[string], len(callees))
		for _, c := range callees {
			static[c.QName()] = true
		}
	}

	targets, err := refinement.CallTargets(site.QName(), program.GlobalContext, static)
	if err != nil {
		return nil, ipeterr.Wrap(ipeterr.KindUnresolvedIndirectCall, site.Block().QName(), err)
	}
	return targets, nil
}

// byQName selects the lookup table for level.
func (b *Builder) byQName(level variable.Level) map[string]program.Function {
	if level == variable.Bitcode {
		return b.bitcodeByQName
	}
	return b.machineByQName
}

// reachFunctions computes the deterministic, transitive reachability
// closure of seeds at level, following refined call targets from every
// feasible call site. skip names functions already claimed by another part
// of the build (the GCFG super-structure): reaching any of them through an
// ordinary call, at any depth, is a checked error, not a silent exclusion
// from the frontier — there is no reentry into super-structured code via an
// ordinary call.
func (b *Builder) reachFunctions(level variable.Level, seeds []program.Function, skip collections.Set[string]) ([]program.Function, error) {
	refinement := b.refinement[level]
	lookup := b.byQName(level)

	visited := make(collections.Set[string])
	var order []program.Function
	queue := append([]program.Function(nil), seeds...)

	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]
		qname := f.QName()
		if visited[qname] {
			continue
		}
		if skip[qname] {
			return nil, ipeterr.New(ipeterr.KindGCFGInvariantViolation, qname, "function reached via an ordinary call is already part of the GCFG super-structure")
		}
		visited[qname] = true
		order = append(order, f)

		for _, blk := range f.Blocks() {
			if refinement.Infeasible(blk.QName(), program.GlobalContext) {
				continue
			}
			for _, site := range blk.CallSites() {
				targets, err := b.resolveCallTargets(level, site, refinement)
				if err != nil {
					return nil, err
				}
				for _, targetName := range collections.SortedKeys(targets) {
					if visited[targetName] {
						continue
					}
					if skip[targetName] {
						return nil, ipeterr.New(ipeterr.KindGCFGInvariantViolation, targetName, "function reached via an ordinary call is already part of the GCFG super-structure")
					}
					target, ok := lookup[targetName]
					if !ok {
						b.log.Warnf("builder: call target %q named by %s has no matching function in the program model", targetName, site.QName())
						continue
					}
					queue = append(queue, target)
				}
			}
		}
	}
	return order, nil
}
