package ipetmodel

import (
	"github.com/wcet-tools/ipet-builder/config"
	"github.com/wcet-tools/ipet-builder/ilp"
	"github.com/wcet-tools/ipet-builder/internal/collections"
	"github.com/wcet-tools/ipet-builder/program"
	"github.com/wcet-tools/ipet-builder/variable"
)

// RelationModel emits the relation-graph coupling constraints: edge coupling
// ties each side's CFG edges to the relation-graph edges that project onto
// them, and progress coupling ties the two sides together at every
// entry/progress node.
type RelationModel struct {
	facade ilp.Facade
	log    *config.LogGroup
	names  *namer
}

// NewRelationModel returns a RelationModel backed by facade.
func NewRelationModel(facade ilp.Facade, log *config.LogGroup) *RelationModel {
	return &RelationModel{facade: facade, log: log, names: newNamer()}
}

func relationEdgeID(e program.RelationEdge) variable.EdgeId {
	return variable.Edge(variable.RelationGraph, e.From.QName(), e.To.QName())
}

// DeclareEdges declares one ILP variable per edge of rg's own graph
// structure and returns them.
func (rm *RelationModel) DeclareEdges(rg program.RelationGraph) []variable.EdgeId {
	edges := rg.Edges()
	ids := make([]variable.EdgeId, len(edges))
	for i, e := range edges {
		id := relationEdgeID(e)
		rm.facade.AddVariable(id.ID(), variable.RelationGraph)
		ids[i] = id
	}
	return ids
}

func (rm *RelationModel) emit(terms []ilp.Term, op ilp.Op, rhs int64, tag ilp.Tag) {
	name := rm.names.next(tag)
	if err := rm.facade.AddConstraint(terms, op, rhs, name, tag); err != nil {
		rm.log.Debugf("ipetmodel: dropped relation constraint %s: %v", name, err)
	}
}

// srcProjection returns the bitcode-side CFG edge e.From->e.To projects onto,
// if both endpoints expose a src block, or e.From->exit if e.To is an exit
// node and e.From exposes a src block.
func srcProjection(e program.RelationEdge) (variable.EdgeId, bool) {
	from := collections.FromOk(e.From.Src())
	if from.IsNone() {
		return variable.EdgeId{}, false
	}
	if e.To.Kind() == program.NodeExit {
		return variable.Exit(variable.Bitcode, from.Value().QName()), true
	}
	to := collections.FromOk(e.To.Src())
	if to.IsNone() {
		return variable.EdgeId{}, false
	}
	return variable.Edge(variable.Bitcode, from.Value().QName(), to.Value().QName()), true
}

// dstProjection is srcProjection's machine-code-side counterpart.
func dstProjection(e program.RelationEdge) (variable.EdgeId, bool) {
	from := collections.FromOk(e.From.Dst())
	if from.IsNone() {
		return variable.EdgeId{}, false
	}
	if e.To.Kind() == program.NodeExit {
		return variable.Exit(variable.MachineCode, from.Value().QName()), true
	}
	to := collections.FromOk(e.To.Dst())
	if to.IsNone() {
		return variable.EdgeId{}, false
	}
	return variable.Edge(variable.MachineCode, from.Value().QName(), to.Value().QName()), true
}

// EmitEdgeCoupling emits, for each CFG edge on either side, a constraint
// tying the sum of relation-graph edges projecting to it to that edge's own
// value.
func (rm *RelationModel) EmitEdgeCoupling(rg program.RelationGraph) {
	srcGroups := make(map[variable.EdgeId][]variable.EdgeId)
	dstGroups := make(map[variable.EdgeId][]variable.EdgeId)

	for _, e := range rg.Edges() {
		relID := relationEdgeID(e)
		if cfgEdge, ok := srcProjection(e); ok {
			srcGroups[cfgEdge] = append(srcGroups[cfgEdge], relID)
		}
		if cfgEdge, ok := dstProjection(e); ok {
			dstGroups[cfgEdge] = append(dstGroups[cfgEdge], relID)
		}
	}

	emitGroup := func(groups map[variable.EdgeId][]variable.EdgeId, order []variable.EdgeId) {
		for _, cfgEdge := range order {
			relIDs := groups[cfgEdge]
			terms := plusTerms(relIDs)
			terms = append(terms, ilp.Term{Var: cfgEdge.ID(), Coeff: -1})
			rm.emit(terms, ilp.Equal, 0, ilp.TagStructural)
		}
	}
	emitGroup(srcGroups, orderedKeys(srcGroups))
	emitGroup(dstGroups, orderedKeys(dstGroups))
}

// orderedKeys returns m's keys sorted by their string form, for
// deterministic constraint ordering.
func orderedKeys(m map[variable.EdgeId][]variable.EdgeId) []variable.EdgeId {
	keys := make([]variable.EdgeId, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1].String() > keys[j].String(); j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}

// EmitProgressCoupling emits, at every entry or progress node, a constraint
// tying the sum of outgoing relation-graph edges projected to the source
// side to the sum projected to the destination side.
func (rm *RelationModel) EmitProgressCoupling(rg program.RelationGraph) {
	outgoing := make(map[string][]program.RelationEdge)
	for _, e := range rg.Edges() {
		outgoing[e.From.QName()] = append(outgoing[e.From.QName()], e)
	}

	for _, n := range rg.Nodes() {
		if n.Kind() != program.NodeEntry && n.Kind() != program.NodeProgress {
			continue
		}
		var terms []ilp.Term
		for _, e := range outgoing[n.QName()] {
			relID := relationEdgeID(e).ID()
			if _, ok := srcProjection(e); ok {
				terms = append(terms, ilp.Term{Var: relID, Coeff: 1})
			}
			if _, ok := dstProjection(e); ok {
				terms = append(terms, ilp.Term{Var: relID, Coeff: -1})
			}
		}
		if len(terms) == 0 {
			continue
		}
		rm.emit(terms, ilp.Equal, 0, ilp.TagStructural)
	}
}
