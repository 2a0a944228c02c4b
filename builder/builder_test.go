package builder

import (
	"testing"

	"github.com/wcet-tools/ipet-builder/config"
	"github.com/wcet-tools/ipet-builder/ilp"
	"github.com/wcet-tools/ipet-builder/internal/ipettest"
	"github.com/wcet-tools/ipet-builder/ipeterr"
	"github.com/wcet-tools/ipet-builder/program"
	"github.com/wcet-tools/ipet-builder/variable"
)

// straightLineModel builds a full program.Model with a straight-line entry
// function main = [b0 -> b1 -> b2], b2.may_return.
func straightLineModel() *ipettest.Model {
	fn := &ipettest.Function{QNameVal: "main"}
	b0 := ipettest.NewBlock(fn, "main::b0", 0)
	b1 := ipettest.NewBlock(fn, "main::b1", 1)
	b2 := ipettest.NewBlock(fn, "main::b2", 2)
	b2.MayReturnVal = true
	ipettest.Link(b0, b1)
	ipettest.Link(b1, b2)
	return &ipettest.Model{Entry: fn, MachineFns: []*ipettest.Function{fn}}
}

func TestBuildStraightLine(t *testing.T) {
	facade := ipettest.NewRecordingFacade()
	b := New(facade, straightLineModel(), nil, ZeroCost{}, config.NewDefault(), nil)

	if err := b.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}

	wantVars := []variable.EdgeId{
		variable.Edge(variable.MachineCode, "main::b0", "main::b1"),
		variable.Edge(variable.MachineCode, "main::b1", "main::b2"),
		variable.Exit(variable.MachineCode, "main::b2"),
	}
	for _, id := range wantVars {
		if !facade.HasVariable(id.ID()) {
			t.Errorf("missing variable %s", id)
		}
	}

	entryVar := wantVars[0].ID()
	if !facade.HasConstraint(func(c ipettest.Constraint) bool {
		return c.Op == ilp.Equal && c.RHS == 1 && len(c.Terms) == 1 &&
			c.Terms[0].Var == entryVar && c.Terms[0].Coeff == 1
	}) {
		t.Errorf("expected entry constraint b0->b1 = 1")
	}

	if err := b.Build(); err == nil {
		t.Fatalf("expected second Build call to fail")
	}
}

// branchingModel builds main = [b0 -> {b1, b2}, b1 -> ret, b2 -> ret], with
// a fact killing b2.
func branchingModel() (*ipettest.Model, *ipettest.Block) {
	fn := &ipettest.Function{QNameVal: "main"}
	b0 := ipettest.NewBlock(fn, "main::b0", 0)
	b1 := ipettest.NewBlock(fn, "main::b1", 1)
	b2 := ipettest.NewBlock(fn, "main::b2", 2)
	ret := ipettest.NewBlock(fn, "main::ret", 3)
	ret.MayReturnVal = true
	ipettest.Link(b0, b1)
	ipettest.Link(b0, b2)
	ipettest.Link(b1, ret)
	ipettest.Link(b2, ret)
	return &ipettest.Model{Entry: fn, MachineFns: []*ipettest.Function{fn}}, b2
}

func TestBuildInfeasibleBranchZeroesEdges(t *testing.T) {
	model, b2 := branchingModel()
	fact := program.ConstraintFact{
		FactLevel: variable.MachineCode,
		Scope:     program.Scope{Point: program.FunctionPoint{Function: model.Entry}, Context: program.GlobalContext},
		LHS:       []program.Term{{Factor: 1, Point: program.BlockPoint{Block: b2}, Context: program.GlobalContext}},
		Op:        program.OpEqual,
		RHS:       program.ConstRHS(0),
		Name:      "kill-b2",
	}

	facade := ipettest.NewRecordingFacade()
	b := New(facade, model, []program.Fact{fact}, ZeroCost{}, config.NewDefault(), nil)
	if err := b.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}

	infeasible := facade.ConstraintsByTag(ilp.TagInfeasible)
	if len(infeasible) != 2 {
		t.Fatalf("expected 2 infeasible constraints (in/out of b2), got %d", len(infeasible))
	}
}

// indirectCallModel builds a main that calls an indirect site with no
// static callees; g and h are candidate targets.
func indirectCallModel() (*ipettest.Model, *ipettest.Instruction) {
	fn := &ipettest.Function{QNameVal: "main"}
	b0 := ipettest.NewBlock(fn, "main::b0", 0)
	b0.MayReturnVal = true
	site := ipettest.NewCallSite(b0, "main::b0::c0")

	g := &ipettest.Function{QNameVal: "g"}
	gb := ipettest.NewBlock(g, "g::b0", 0)
	gb.MayReturnVal = true

	h := &ipettest.Function{QNameVal: "h"}
	hb := ipettest.NewBlock(h, "h::b0", 0)
	hb.MayReturnVal = true

	return &ipettest.Model{Entry: fn, MachineFns: []*ipettest.Function{fn, g, h}}, site
}

func TestBuildResolvesIndirectCallViaFact(t *testing.T) {
	model, site := indirectCallModel()
	fact := program.CallTargetFact{
		FactLevel: variable.MachineCode,
		Scope:     program.Scope{Point: program.FunctionPoint{Function: model.Entry}, Context: program.GlobalContext},
		Site:      site,
		Targets:   []program.Function{model.MachineFns[1], model.MachineFns[2]},
		Name:      "resolve-c0",
	}

	facade := ipettest.NewRecordingFacade()
	b := New(facade, model, []program.Fact{fact}, ZeroCost{}, config.NewDefault(), nil)
	if err := b.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(b.CallEdges()) != 2 {
		t.Fatalf("expected 2 call edges (to g and h), got %d", len(b.CallEdges()))
	}

	gExit := variable.Exit(variable.MachineCode, "g::b0")
	hExit := variable.Exit(variable.MachineCode, "h::b0")
	if !facade.HasVariable(gExit.ID()) || !facade.HasVariable(hExit.ID()) {
		t.Errorf("expected both g and h to be reached and declared")
	}
}

func TestBuildUnresolvedIndirectCallIsFatal(t *testing.T) {
	model, _ := indirectCallModel()
	facade := ipettest.NewRecordingFacade()
	b := New(facade, model, nil, ZeroCost{}, config.NewDefault(), nil)

	err := b.Build()
	if err == nil {
		t.Fatalf("expected an unresolved indirect call to fail Build")
	}
	if !ipeterr.IsFatal(err) {
		t.Errorf("expected a fatal error, got %v", err)
	}
	asErr, ok := err.(*ipeterr.Error)
	if !ok || asErr.Kind != ipeterr.KindUnresolvedIndirectCall {
		t.Errorf("expected KindUnresolvedIndirectCall, got %v", err)
	}
}

// gcfgModel builds a two-node GCFG chain, each node wrapping a single-block
// ABB belonging to its own function. The second ABB holds a call site with no
// static callee; an ordinary function g is present for tests that re-create
// that site with g as its callee.
func gcfgModel() *ipettest.Model {
	fnA := &ipettest.Function{QNameVal: "a"}
	abA := ipettest.NewBlock(fnA, "a::bb0", 0)

	fnB := &ipettest.Function{QNameVal: "b"}
	abB := ipettest.NewBlock(fnB, "b::bb0", 0)
	abB.MayReturnVal = true
	ipettest.NewCallSite(abB, "b::bb0::c0")

	g := &ipettest.Function{QNameVal: "g"}
	gb := ipettest.NewBlock(g, "g::b0", 0)
	gb.MayReturnVal = true

	nodeB := &ipettest.GCFGNode{
		QNameVal: "node_b",
		ABBVal: &ipettest.ABB{
			QNameVal: "abb_b", FunctionVal: fnB, EntryVal: abB, ExitVal: abB,
			BlocksVal: []*ipettest.Block{abB},
		},
		MayReturnVal: true,
	}
	nodeA := &ipettest.GCFGNode{
		QNameVal: "node_a",
		ABBVal: &ipettest.ABB{
			QNameVal: "abb_a", FunctionVal: fnA, EntryVal: abA, ExitVal: abA,
			BlocksVal: []*ipettest.Block{abA},
		},
		SuccessorsVal: []*ipettest.GCFGNode{nodeB},
	}

	return &ipettest.Model{
		Entry:         fnA,
		MachineFns:    []*ipettest.Function{fnA, fnB, g},
		GCFGEntryNode: nodeA,
	}
}

func TestBuildGCFGChainFoldsInOrdinaryCall(t *testing.T) {
	model := gcfgModel()
	// gcfgModel builds the call site in b::bb0 without callees, which makes
	// it an indirect call with no target set. Re-create it with g as its
	// static callee, so no call-target fact is needed.
	g := model.MachineFns[2]
	fnB := model.MachineFns[1]
	abB := fnB.BlocksVal[0]
	abB.CallSitesVal = nil
	ipettest.NewCallSite(abB, "b::bb0::c0", g)

	opts := config.NewDefault()
	opts.UseGCFG = true
	facade := ipettest.NewRecordingFacade()
	b := New(facade, model, nil, ZeroCost{}, opts, nil)

	if err := b.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}

	gcfgEdge := variable.Edge(variable.GCFG, "node_a", "node_b")
	if !facade.HasVariable(gcfgEdge.ID()) {
		t.Errorf("missing GCFG super-structure edge %s", gcfgEdge)
	}
	if !facade.HasConstraint(func(c ipettest.Constraint) bool {
		return c.Op == ilp.Equal && c.RHS == 1 && len(c.Terms) == 1 && c.Terms[0].Var == gcfgEdge.ID()
	}) {
		t.Errorf("expected GCFG entry constraint node_a->node_b = 1")
	}

	callEdge := variable.Edge(variable.MachineCode, "b::bb0::c0", "g")
	if !facade.HasVariable(callEdge.ID()) {
		t.Errorf("missing call edge from the ABB-interior call site to g")
	}
}

// gcfgModelWithTransitiveReentry builds a two-node GCFG chain (node_a ->
// node_b) where node_a's ABB calls an ordinary function x, which in turn
// calls fnB directly — fnB already belongs to node_b's ABB, so the call
// chain reenters the super-structure two calls deep rather than on the
// first hop.
func gcfgModelWithTransitiveReentry() *ipettest.Model {
	fnA := &ipettest.Function{QNameVal: "a"}
	abA := ipettest.NewBlock(fnA, "a::bb0", 0)

	fnB := &ipettest.Function{QNameVal: "b"}
	abB := ipettest.NewBlock(fnB, "b::bb0", 0)
	abB.MayReturnVal = true

	x := &ipettest.Function{QNameVal: "x"}
	xb := ipettest.NewBlock(x, "x::b0", 0)
	xb.MayReturnVal = true
	ipettest.NewCallSite(xb, "x::b0::c0", fnB)
	ipettest.NewCallSite(abA, "a::bb0::c0", x)

	nodeB := &ipettest.GCFGNode{
		QNameVal: "node_b",
		ABBVal: &ipettest.ABB{
			QNameVal: "abb_b", FunctionVal: fnB, EntryVal: abB, ExitVal: abB,
			BlocksVal: []*ipettest.Block{abB},
		},
		MayReturnVal: true,
	}
	nodeA := &ipettest.GCFGNode{
		QNameVal: "node_a",
		ABBVal: &ipettest.ABB{
			QNameVal: "abb_a", FunctionVal: fnA, EntryVal: abA, ExitVal: abA,
			BlocksVal: []*ipettest.Block{abA},
		},
		SuccessorsVal: []*ipettest.GCFGNode{nodeB},
	}

	return &ipettest.Model{
		Entry:         fnA,
		MachineFns:    []*ipettest.Function{fnA, fnB, x},
		GCFGEntryNode: nodeA,
	}
}

func TestBuildGCFGRejectsTransitiveReentry(t *testing.T) {
	model := gcfgModelWithTransitiveReentry()
	opts := config.NewDefault()
	opts.UseGCFG = true
	facade := ipettest.NewRecordingFacade()
	b := New(facade, model, nil, ZeroCost{}, opts, nil)

	err := b.Build()
	if err == nil {
		t.Fatalf("expected a call chain reentering the super-structure through x to fail Build")
	}
	asErr, ok := err.(*ipeterr.Error)
	if !ok || asErr.Kind != ipeterr.KindGCFGInvariantViolation {
		t.Errorf("expected KindGCFGInvariantViolation, got %v", err)
	}
}

func TestBuildGCFGRejectsBitcodeCombination(t *testing.T) {
	model := gcfgModel()
	opts := config.NewDefault()
	opts.UseGCFG = true
	opts.EnableBitcode = true
	facade := ipettest.NewRecordingFacade()
	b := New(facade, model, nil, ZeroCost{}, opts, nil)

	err := b.Build()
	asErr, ok := err.(*ipeterr.Error)
	if !ok || asErr.Kind != ipeterr.KindBitcodeUnderGCFG {
		t.Fatalf("expected KindBitcodeUnderGCFG, got %v", err)
	}
}

// TestBuildDeterministic checks that two Build calls over freshly
// constructed, identical input emit the same constraint names in the same
// order.
func TestBuildDeterministic(t *testing.T) {
	namesOf := func() []string {
		model, b2 := branchingModel()
		fact := program.ConstraintFact{
			FactLevel: variable.MachineCode,
			Scope:     program.Scope{Point: program.FunctionPoint{Function: model.Entry}, Context: program.GlobalContext},
			LHS:       []program.Term{{Factor: 1, Point: program.BlockPoint{Block: b2}, Context: program.GlobalContext}},
			Op:        program.OpEqual,
			RHS:       program.ConstRHS(0),
			Name:      "kill-b2",
		}
		facade := ipettest.NewRecordingFacade()
		b := New(facade, model, []program.Fact{fact}, ZeroCost{}, config.NewDefault(), nil)
		if err := b.Build(); err != nil {
			t.Fatalf("Build: %v", err)
		}
		names := make([]string, len(facade.Constraints))
		for i, c := range facade.Constraints {
			names[i] = c.Name
		}
		return names
	}

	first := namesOf()
	second := namesOf()
	if len(first) != len(second) {
		t.Fatalf("constraint counts differ between runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("constraint %d differs: %q vs %q", i, first[i], second[i])
		}
	}
}
