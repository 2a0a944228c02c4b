package builder

import (
	"github.com/wcet-tools/ipet-builder/ilp"
	"github.com/wcet-tools/ipet-builder/internal/collections"
	"github.com/wcet-tools/ipet-builder/internal/gcfgraph"
	"github.com/wcet-tools/ipet-builder/ipeterr"
	"github.com/wcet-tools/ipet-builder/program"
	"github.com/wcet-tools/ipet-builder/variable"
)

// buildGCFG replaces the plain CFG reachability of buildCFG with a
// traversal over the Global Control-Flow Graph of ABBs.
func (b *Builder) buildGCFG() error {
	entryNode, ok := b.model.GCFGEntry()
	if !ok {
		return ipeterr.New(ipeterr.KindGCFGInvariantViolation, "", "GCFG orchestration requested but the program model has no GCFG entry node")
	}

	order, outEdges, inEdges := b.discoverGCFGNodes(entryNode)
	b.warnOnGCFGCycles(order)

	gModel := b.models[variable.GCFG]
	for _, n := range order {
		if n.QName() == entryNode.QName() {
			// the entry node has no incoming super-structure edges; its
			// frequency is pinned by EmitFrequency below instead, the GCFG
			// analogue of skipping EmitBlockStructural on a function's entry
			// block.
			continue
		}
		gModel.EmitFlowBalance(inEdges[n.QName()], outEdges[n.QName()])
	}
	gModel.EmitFrequency(outEdges[entryNode.QName()], ilp.Equal, 1)

	abbFunctions := make(collections.Set[string])
	var abbBlocks []program.Block
	for _, n := range order {
		abb := n.ABB()
		abbFunctions[abb.Function().QName()] = true

		mcModel := b.models[variable.MachineCode]
		for _, blk := range abb.Blocks() {
			edges := mcModel.DeclareBlockEdges(blk)
			for _, e := range edges {
				mcModel.AttachCost(e.ID(), b.cost.EdgeCost(e))
			}
		}
		mcModel.SetSumInOverride(abb.Entry().QName(), inEdges[n.QName()])
		mcModel.SetSumOutOverride(abb.Exit().QName(), outEdges[n.QName()])
		for _, blk := range abb.Blocks() {
			mcModel.EmitBlockStructural(blk, program.GlobalContext)
		}

		abbBlocks = append(abbBlocks, abb.Blocks()...)
	}

	before := len(b.callEdges)
	if err := b.emitCallSitesForBlocks(variable.MachineCode, abbBlocks); err != nil {
		return err
	}

	seeds := make(collections.Set[string])
	for _, e := range b.callEdges[before:] {
		seeds[e.Target] = true
	}

	var seedFns []program.Function
	for _, qname := range collections.SortedKeys(seeds) {
		if fn, ok := b.machineByQName[qname]; ok {
			seedFns = append(seedFns, fn)
		}
	}

	// reachFunctions rejects any function in abbFunctions reached through an
	// ordinary call, whether a direct seed or several calls deep — there is
	// no reentry into the super-structure via an ordinary call.
	reached, err := b.reachFunctions(variable.MachineCode, seedFns, abbFunctions)
	if err != nil {
		return err
	}
	b.reachedMachine = reached

	b.declareAndStructural(variable.MachineCode, reached)
	if err := b.emitCallSites(variable.MachineCode, reached); err != nil {
		return err
	}
	b.emitCallerBalances(variable.MachineCode, reached)
	return nil
}

// warnOnGCFGCycles logs a non-fatal warning for every strongly connected
// component of more than one node in the GCFG's super-structure. A GCFG is
// never required to be acyclic, so this is an operator signal, not a
// correctness gate.
func (b *Builder) warnOnGCFGCycles(order []program.GCFGNode) {
	names := make([]string, len(order))
	successors := make(map[string][]string, len(order))
	for i, n := range order {
		names[i] = n.QName()
		succs := n.Successors()
		succNames := make([]string, len(succs))
		for j, s := range succs {
			succNames[j] = s.QName()
		}
		successors[n.QName()] = succNames
	}
	for _, cycle := range gcfgraph.New(names, successors).NontrivialCycles() {
		b.log.Warnf("builder: GCFG super-structure contains a cycle: %v", cycle)
	}
}

// discoverGCFGNodes walks the GCFG reachable from entry, declaring one
// super-structure edge per outgoing successor and per exit. It returns the
// visit order plus the outgoing and incoming edge lists needed for flow
// conservation.
func (b *Builder) discoverGCFGNodes(entry program.GCFGNode) (order []program.GCFGNode, outEdges, inEdges map[string][]variable.EdgeId) {
	gModel := b.models[variable.GCFG]
	visited := make(collections.Set[string])
	outEdges = make(map[string][]variable.EdgeId)
	inEdges = make(map[string][]variable.EdgeId)
	queue := []program.GCFGNode{entry}

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		qname := n.QName()
		if visited[qname] {
			continue
		}
		visited[qname] = true
		order = append(order, n)

		var edges []variable.EdgeId
		for _, succ := range n.Successors() {
			id := variable.Edge(variable.GCFG, qname, succ.QName())
			gModel.DeclareEdge(id)
			edges = append(edges, id)
			inEdges[succ.QName()] = append(inEdges[succ.QName()], id)
			queue = append(queue, succ)
		}
		if n.MayReturn() {
			id := variable.Exit(variable.GCFG, qname)
			gModel.DeclareEdge(id)
			edges = append(edges, id)
		}
		outEdges[qname] = edges
	}
	return order, outEdges, inEdges
}
