package builder

import (
	"github.com/wcet-tools/ipet-builder/config"
	"github.com/wcet-tools/ipet-builder/flowfact"
	"github.com/wcet-tools/ipet-builder/ilp"
	"github.com/wcet-tools/ipet-builder/internal/callgraphstats"
	"github.com/wcet-tools/ipet-builder/internal/collections"
	"github.com/wcet-tools/ipet-builder/ipetmodel"
	"github.com/wcet-tools/ipet-builder/ipeterr"
	"github.com/wcet-tools/ipet-builder/program"
	"github.com/wcet-tools/ipet-builder/refine"
	"github.com/wcet-tools/ipet-builder/variable"
)

// CostModel is the architectural cost model the builder consumes: a
// per-edge cycle cost supplied by the caller.
type CostModel interface {
	EdgeCost(id variable.EdgeId) int64
}

// ZeroCost is a CostModel that assigns every edge a cost of zero; useful
// when InstructionTiming is disabled, since the model drops the cost call
// in that case anyway.
type ZeroCost struct{}

// EdgeCost implements CostModel.
func (ZeroCost) EdgeCost(variable.EdgeId) int64 { return 0 }

// Builder is a single constraint-building pass. Every field below is owned
// by, and scoped to, one Build call.
type Builder struct {
	facade ilp.Facade
	model  program.Model
	facts  []program.Fact
	cost   CostModel
	opts   *config.Options
	log    *config.LogGroup

	used bool

	refinement map[variable.Level]*refine.Table
	models     map[variable.Level]*ipetmodel.Model
	relModels  map[string]*ipetmodel.RelationModel

	machineByQName map[string]program.Function
	bitcodeByQName map[string]program.Function

	callEdges []variable.EdgeId
	callers   map[string][]variable.EdgeId

	// funcCallers is the machine-code call graph at function granularity
	// (caller qname -> set of callee qnames), fed to callgraphstats once
	// Build completes.
	funcCallers map[string]map[string]bool

	reachedMachine []program.Function
	reachedBitcode []program.Function
	markers        flowfact.MarkerIndex
}

// New returns a Builder ready for a single Build call.
func New(facade ilp.Facade, model program.Model, facts []program.Fact, cost CostModel, opts *config.Options, log *config.LogGroup) *Builder {
	return &Builder{
		facade:      facade,
		model:       model,
		facts:       facts,
		cost:        cost,
		opts:        opts,
		log:         log,
		refinement:  make(map[variable.Level]*refine.Table),
		models:      make(map[variable.Level]*ipetmodel.Model),
		relModels:   make(map[string]*ipetmodel.RelationModel),
		callers:     make(map[string][]variable.EdgeId),
		funcCallers: make(map[string]map[string]bool),
	}
}

// CallEdges returns every call edge discovered during Build, for downstream
// reporting.
func (b *Builder) CallEdges() []variable.EdgeId {
	return b.callEdges
}

// Refinements returns the per-level refinement tables built during Build,
// for downstream reporting.
func (b *Builder) Refinements() map[variable.Level]*refine.Table {
	return b.refinement
}

// Build runs the single constraint-building pass. A Builder rejects a
// second call.
func (b *Builder) Build() error {
	if b.used {
		return ipeterr.New(ipeterr.KindBuilderReinvocation, "", "Build called twice on the same builder")
	}
	b.used = true

	if b.opts.UseGCFG && b.opts.EnableBitcode {
		return ipeterr.New(ipeterr.KindBitcodeUnderGCFG, "", "bitcode and GCFG orchestration cannot be combined")
	}

	b.log.Tracef("builder: indexing functions and building refinement tables")
	b.indexFunctions()
	b.buildRefinementTables()

	b.models[variable.MachineCode] = ipetmodel.New(b.facade, variable.MachineCode, b.refinement[variable.MachineCode], b.opts, b.log)
	if b.opts.EnableBitcode {
		b.models[variable.Bitcode] = ipetmodel.New(b.facade, variable.Bitcode, b.refinement[variable.Bitcode], b.opts, b.log)
	}
	if b.opts.UseGCFG {
		b.models[variable.GCFG] = ipetmodel.New(b.facade, variable.GCFG, refine.NewTable(), b.opts, b.log)
	}

	b.log.Tracef("builder: emitting structural and call-site constraints (gcfg=%v)", b.opts.UseGCFG)
	var err error
	if b.opts.UseGCFG {
		err = b.buildGCFG()
	} else {
		err = b.buildCFG()
	}
	if err != nil {
		return err
	}

	b.log.Tracef("builder: replaying %d flow facts", len(b.facts))
	b.replayFlowFacts()
	b.logCallGraphStats()
	return nil
}

// logCallGraphStats runs yourbasic/graph's structural check over the
// discovered machine-code call graph and reports it at debug level; purely
// diagnostic, never consulted by constraint emission.
func (b *Builder) logCallGraphStats() {
	if len(b.funcCallers) == 0 {
		return
	}
	stats := callgraphstats.New(b.funcCallers).Check()
	b.log.Debugf("builder: call graph stats: size=%d multi=%d loops=%d isolated=%d",
		stats.Size, stats.Multi, stats.Loops, stats.Isolated)
}

func (b *Builder) indexFunctions() {
	b.machineByQName = make(map[string]program.Function, len(b.model.MachineFunctions()))
	for _, f := range b.model.MachineFunctions() {
		b.machineByQName[f.QName()] = f
	}
	b.bitcodeByQName = make(map[string]program.Function, len(b.model.BitcodeFunctions()))
	for _, f := range b.model.BitcodeFunctions() {
		b.bitcodeByQName[f.QName()] = f
	}
}

func (b *Builder) buildRefinementTables() {
	b.refinement[variable.MachineCode] = refine.BuildTable(variable.MachineCode, b.model.MachineFunctions(), b.facts, b.log)
	if b.opts.EnableBitcode {
		b.refinement[variable.Bitcode] = refine.BuildTable(variable.Bitcode, b.model.BitcodeFunctions(), b.facts, b.log)
	}
}

// buildCFG runs the non-GCFG reachability, declaration and call-site phases.
func (b *Builder) buildCFG() error {
	entry := b.model.EntryFunction()
	reached, err := b.reachFunctions(variable.MachineCode, []program.Function{entry}, nil)
	if err != nil {
		return err
	}
	b.reachedMachine = reached

	b.declareAndStructural(variable.MachineCode, b.reachedMachine)

	if b.opts.EnableBitcode {
		if err := b.wireBitcode(); err != nil {
			return err
		}
	}

	if err := b.emitCallSites(variable.MachineCode, b.reachedMachine); err != nil {
		return err
	}

	b.models[variable.MachineCode].EmitEntry(entry)
	b.emitCallerBalances(variable.MachineCode, b.reachedMachine)
	return nil
}

// wireBitcode pulls in the bitcode side for each reachable machine function
// with an accepted relation graph, and emits its relation-graph coupling
// constraints.
func (b *Builder) wireBitcode() error {
	var bitcodeFns []program.Function

	for _, mf := range b.reachedMachine {
		rg, ok := b.model.RelationGraphFor(mf)
		if !ok {
			continue
		}
		bf := rg.BitcodeFunction()
		if !b.opts.Accepts(mf.QName()) {
			continue
		}

		bitcodeFns = append(bitcodeFns, bf)
		b.declareAndStructural(variable.Bitcode, []program.Function{bf})

		relModel := ipetmodel.NewRelationModel(b.facade, b.log)
		b.relModels[mf.QName()] = relModel
		relModel.DeclareEdges(rg)
		relModel.EmitEdgeCoupling(rg)
		relModel.EmitProgressCoupling(rg)
	}

	b.reachedBitcode = bitcodeFns
	b.markers = flowfact.BuildMarkerIndex(bitcodeFns)
	return nil
}

// declareAndStructural declares edges, attaches costs and emits
// block-structural constraints for every block of every function in fns, at
// level.
func (b *Builder) declareAndStructural(level variable.Level, fns []program.Function) {
	model := b.models[level]
	for _, f := range fns {
		for _, blk := range f.Blocks() {
			edges := model.DeclareBlockEdges(blk)
			for _, e := range edges {
				model.AttachCost(e.ID(), b.cost.EdgeCost(e))
			}
			model.EmitBlockStructural(blk, program.GlobalContext)
		}
	}
}

// emitCallSites registers each call site, declares its call edges (resolved
// via refinement), emits its upper bound, and records callers for the
// balance pass.
func (b *Builder) emitCallSites(level variable.Level, fns []program.Function) error {
	var blocks []program.Block
	for _, f := range fns {
		blocks = append(blocks, f.Blocks()...)
	}
	return b.emitCallSitesForBlocks(level, blocks)
}

// emitCallSitesForBlocks is emitCallSites generalized to an explicit block
// list, so the GCFG phase can run it over ABB-interior blocks that do not
// belong to any function folded in as a whole.
func (b *Builder) emitCallSitesForBlocks(level variable.Level, blocks []program.Block) error {
	model := b.models[level]
	refinement := b.refinement[level]

	for _, blk := range blocks {
		if refinement.Infeasible(blk.QName(), program.GlobalContext) {
			continue
		}
		for _, site := range blk.CallSites() {
			targets, err := b.resolveCallTargets(level, site, refinement)
			if err != nil {
				return err
			}

			insnVar := model.RegisterCallSite(site)
			var edgeIDs []variable.EdgeId
			for _, qname := range collections.SortedKeys(targets) {
				id := variable.Edge(level, site.QName(), qname)
				b.facade.AddVariable(id.ID(), level)
				edgeIDs = append(edgeIDs, id)
				b.callEdges = append(b.callEdges, id)
				b.callers[qname] = append(b.callers[qname], id)
				if level == variable.MachineCode {
					caller := blk.Function().QName()
					if b.funcCallers[caller] == nil {
						b.funcCallers[caller] = make(map[string]bool)
					}
					b.funcCallers[caller][qname] = true
				}
			}
			model.EmitCallEdgeBound(insnVar, edgeIDs)
		}
	}
	return nil
}

// emitCallerBalances ties each called function's frequency to the sum of
// edges calling it, once every call site is known. The entry constraint is
// emitted separately.
func (b *Builder) emitCallerBalances(level variable.Level, fns []program.Function) {
	model := b.models[level]
	for _, f := range fns {
		edges, ok := b.callers[f.QName()]
		if !ok {
			continue
		}
		model.EmitFunctionCallerBalance(f, edges)
	}
}

// replayFlowFacts lowers and emits every accepted flow fact against the
// models built for its level.
func (b *Builder) replayFlowFacts() {
	for _, f := range b.facts {
		model, ok := b.models[f.Level()]
		if !ok {
			continue
		}
		_ = flowfact.Lower(f, model, b.markers, b.log)
	}
}
