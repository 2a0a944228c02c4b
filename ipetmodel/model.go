package ipetmodel

import (
	"github.com/wcet-tools/ipet-builder/config"
	"github.com/wcet-tools/ipet-builder/ilp"
	"github.com/wcet-tools/ipet-builder/program"
	"github.com/wcet-tools/ipet-builder/refine"
	"github.com/wcet-tools/ipet-builder/variable"
)

// Model emits the structural constraints of one program level. It holds a
// reference to the ILP façade, the level tag, the per-level refinement
// table, and the override maps that splice the GCFG super-structure into
// intra-ABB flow conservation.
type Model struct {
	facade          ilp.Facade
	level           variable.Level
	refinement      *refine.Table
	predicatedCalls bool
	timing          bool
	log             *config.LogGroup
	names           *namer

	sumInOverride  map[string][]variable.EdgeId
	sumOutOverride map[string][]variable.EdgeId
}

// New returns a Model for level, backed by facade, consulting refinement for
// infeasibility and opts for the architectural flags that change which
// constraints are emitted.
func New(facade ilp.Facade, level variable.Level, refinement *refine.Table, opts *config.Options, log *config.LogGroup) *Model {
	return &Model{
		facade:          facade,
		level:           level,
		refinement:      refinement,
		predicatedCalls: opts.PredicatedCalls,
		timing:          opts.InstructionTiming,
		log:             log,
		names:           newNamer(),
		sumInOverride:   make(map[string][]variable.EdgeId),
		sumOutOverride:  make(map[string][]variable.EdgeId),
	}
}

// Level returns the level this model emits constraints for.
func (m *Model) Level() variable.Level { return m.level }

// SetSumInOverride replaces Σ incoming(block) with edges for constraint
// generation purposes; used to splice GCFG super-structure edges into an
// ABB's entry block.
func (m *Model) SetSumInOverride(blockQName string, edges []variable.EdgeId) {
	m.sumInOverride[blockQName] = edges
}

// SetSumOutOverride replaces Σ outgoing(block) with edges, for an ABB's exit
// block.
func (m *Model) SetSumOutOverride(blockQName string, edges []variable.EdgeId) {
	m.sumOutOverride[blockQName] = edges
}

// isDataOnly reports whether b is a data-only block the model skips
// entirely: not the entry block, and with no predecessors.
func isDataOnly(b program.Block) bool {
	return b.Index() > 0 && len(b.Predecessors()) == 0
}

// DeclareBlockEdges declares one ILP variable per outgoing edge of b (one
// per successor, plus a synthetic exit edge if b.MayReturn()), and returns
// them. Sinks with no successors get only the exit edge. Data-only blocks
// are skipped and DeclareBlockEdges returns nil for them.
func (m *Model) DeclareBlockEdges(b program.Block) []variable.EdgeId {
	if isDataOnly(b) {
		return nil
	}
	edges := m.sumOutgoing(b)
	for _, e := range edges {
		m.facade.AddVariable(e.ID(), m.level)
	}
	return edges
}

// AttachCost records cost as the ILP objective coefficient of id, unless
// instruction timing is disabled.
func (m *Model) AttachCost(id variable.VarID, cost int64) {
	if !m.timing {
		return
	}
	m.facade.AddCost(id, cost)
}

func (m *Model) sumIncoming(b program.Block) []variable.EdgeId {
	if override, ok := m.sumInOverride[b.QName()]; ok {
		return override
	}
	var edges []variable.EdgeId
	for _, p := range b.Predecessors() {
		edges = append(edges, variable.Edge(m.level, p.Block.QName(), b.QName()))
	}
	return edges
}

// sumOutgoing returns Σ outgoing(b), which folds in the synthetic exit edge
// when b.MayReturn() — the block-structural formula's "Σ out − [exit if may
// return]" term is just this sum split in two, and frequency(function) ≡ Σ
// outgoing(first_block) is exactly this sum applied to the entry block.
func (m *Model) sumOutgoing(b program.Block) []variable.EdgeId {
	if override, ok := m.sumOutOverride[b.QName()]; ok {
		return override
	}
	var edges []variable.EdgeId
	for _, s := range b.Successors() {
		edges = append(edges, variable.Edge(m.level, b.QName(), s.QName()))
	}
	if b.MayReturn() {
		edges = append(edges, variable.Exit(m.level, b.QName()))
	}
	return edges
}

// emit appends a constraint via the façade, generating a deterministic name
// for tag. A recoverable MissingVariableInConstraint error from the façade
// (an undeclared variable was referenced, typically naming unreachable code)
// is logged at Debug and swallowed.
func (m *Model) emit(terms []ilp.Term, op ilp.Op, rhs int64, tag ilp.Tag) {
	name := m.names.next(tag)
	if err := m.facade.AddConstraint(terms, op, rhs, name, tag); err != nil {
		m.log.Debugf("ipetmodel: dropped constraint %s: %v", name, err)
	}
}

func plusTerms(ids []variable.EdgeId) []ilp.Term {
	terms := make([]ilp.Term, len(ids))
	for i, id := range ids {
		terms[i] = ilp.Term{Var: id.ID(), Coeff: 1}
	}
	return terms
}

func appendMinusTerms(terms []ilp.Term, ids []variable.EdgeId) []ilp.Term {
	for _, id := range ids {
		terms = append(terms, ilp.Term{Var: id.ID(), Coeff: -1})
	}
	return terms
}

// EmitBlockStructural emits flow conservation for a non-entry, non-data-only
// block b: Σ in − Σ out (− exit folded in) = 0, unless overrides redirect
// either sum. If b is infeasible in ctx, it additionally emits Σ in = 0 and
// Σ out = 0.
func (m *Model) EmitBlockStructural(b program.Block, ctx program.Context) {
	if b.Index() == 0 || isDataOnly(b) {
		return
	}
	inc := m.sumIncoming(b)
	out := m.sumOutgoing(b)

	terms := appendMinusTerms(plusTerms(inc), out)
	m.emit(terms, ilp.Equal, 0, ilp.TagStructural)

	if m.refinement.Infeasible(b.QName(), ctx) {
		m.emit(plusTerms(inc), ilp.Equal, 0, ilp.TagInfeasible)
		m.emit(plusTerms(out), ilp.Equal, 0, ilp.TagInfeasible)
	}
}

// EmitEntry emits frequency(entryFunction) = 1, i.e. Σ outgoing(first block)
// = 1.
func (m *Model) EmitEntry(f program.Function) {
	entry := f.Blocks()[0]
	m.emit(plusTerms(m.sumOutgoing(entry)), ilp.Equal, 1, ilp.TagStructural)
}

// RegisterCallSite declares the call instruction's own frequency variable
// and ties it to its block: freq(insn) = freq(block), i.e. freq(insn) − Σ
// outgoing(block) = 0. It returns the variable id so the builder can
// reference it when emitting the call-site upper bound.
func (m *Model) RegisterCallSite(site program.Instruction) variable.VarID {
	id := variable.CallSiteVar(m.level, site.QName())
	m.facade.AddVariable(id, m.level)

	block := site.Block()
	terms := appendMinusTerms([]ilp.Term{{Var: id, Coeff: 1}}, m.sumOutgoing(block))
	m.emit(terms, ilp.Equal, 0, ilp.TagInstruction)
	return id
}

// EmitCallEdgeBound emits the call-site upper bound: Σ call_edges − freq(insn)
// ≤ 0. When predicated calls are disabled (non-predicated architecture), the
// bound is strengthened to equality directly rather than leaving it as an
// unenforced property of the wider constraint set.
func (m *Model) EmitCallEdgeBound(insnVar variable.VarID, callEdges []variable.EdgeId) {
	terms := plusTerms(callEdges)
	terms = append(terms, ilp.Term{Var: insnVar, Coeff: -1})
	op := ilp.LessEqual
	if !m.predicatedCalls {
		op = ilp.Equal
	}
	m.emit(terms, op, 0, ilp.TagCallsite)
}

// EmitFunctionCallerBalance emits freq(function) − Σ call_edges_to(function)
// = 0 once every call site has been discovered.
func (m *Model) EmitFunctionCallerBalance(f program.Function, callEdgesTo []variable.EdgeId) {
	entry := f.Blocks()[0]
	terms := appendMinusTerms(plusTerms(m.sumOutgoing(entry)), callEdgesTo)
	m.emit(terms, ilp.Equal, 0, ilp.TagStructural)
}

// DeclareEdge declares a single variable for an EdgeId that was not derived
// from a program.Block's own successor list — the GCFG super-structure's
// edges, which come from GCFGNode.Successors() instead.
func (m *Model) DeclareEdge(id variable.EdgeId) {
	m.facade.AddVariable(id.ID(), id.Level)
}

// EmitFlowBalance emits Σ in − Σ out = 0 directly from explicit edge lists,
// for super-structure nodes that are not backed by a program.Block.
func (m *Model) EmitFlowBalance(in, out []variable.EdgeId) {
	terms := appendMinusTerms(plusTerms(in), out)
	m.emit(terms, ilp.Equal, 0, ilp.TagStructural)
}

// EmitFrequency emits Σ ids op rhs; used for the GCFG entry constraint,
// where there is no program.Block to hang EmitEntry off of.
func (m *Model) EmitFrequency(ids []variable.EdgeId, op ilp.Op, rhs int64) {
	m.emit(plusTerms(ids), op, rhs, ilp.TagStructural)
}

// EmitFlowFact emits terms op 0 under a freshly numbered flow-fact
// constraint name. A MissingVariableInConstraint error from the façade is
// swallowed by the same Debug-logged path as every other emit.
func (m *Model) EmitFlowFact(terms []ilp.Term, op ilp.Op) {
	m.emit(terms, op, 0, ilp.TagFlowFact)
}

// FunctionFrequencyTerms returns the terms summing to frequency(f): Σ
// outgoing(entry block).
func (m *Model) FunctionFrequencyTerms(f program.Function) []ilp.Term {
	return plusTerms(m.sumOutgoing(f.Blocks()[0]))
}

// BlockFrequencyTerms returns the terms summing to block_frequency(b): Σ
// outgoing(b), which by flow conservation equals Σ incoming(b) for every
// feasible non-entry block.
func (m *Model) BlockFrequencyTerms(b program.Block) []ilp.Term {
	return plusTerms(m.sumOutgoing(b))
}

// EdgeFrequencyTerms returns the single term naming ref's own flow variable.
func (m *Model) EdgeFrequencyTerms(ref program.EdgeRef) []ilp.Term {
	var id variable.EdgeId
	if ref.IsExit {
		id = variable.Exit(m.level, ref.Source.QName())
	} else {
		id = variable.Edge(m.level, ref.Source.QName(), ref.Target.QName())
	}
	return []ilp.Term{{Var: id.ID(), Coeff: 1}}
}

// LoopEntryFrequencyTerms returns the terms summing to sum_loop_entry(loop):
// the sum of non-back-edge incoming edges of the loop header. It reads the
// header's own predecessor list rather than any active override, since loop
// entry is defined over the raw control-flow graph regardless of GCFG
// splicing.
func (m *Model) LoopEntryFrequencyTerms(loop program.Loop) []ilp.Term {
	header := loop.Header()
	var ids []variable.EdgeId
	for _, p := range header.Predecessors() {
		if p.BackEdge {
			continue
		}
		ids = append(ids, variable.Edge(m.level, p.Block.QName(), header.QName()))
	}
	return plusTerms(ids)
}
