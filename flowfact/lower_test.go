package flowfact

import (
	"testing"

	"github.com/wcet-tools/ipet-builder/config"
	"github.com/wcet-tools/ipet-builder/ilp"
	"github.com/wcet-tools/ipet-builder/internal/ipettest"
	"github.com/wcet-tools/ipet-builder/ipetmodel"
	"github.com/wcet-tools/ipet-builder/program"
	"github.com/wcet-tools/ipet-builder/refine"
	"github.com/wcet-tools/ipet-builder/variable"
)

// buildLoopScenario builds main = [h, body, exit_blk], where h has
// successors body and exit_blk, body->h is a back edge, and exit_blk may
// return.
func buildLoopScenario(t *testing.T) (*ipetmodel.Model, *ipettest.RecordingFacade, *ipettest.Function, *ipettest.Block) {
	t.Helper()
	fn := &ipettest.Function{QNameVal: "main"}
	h := ipettest.NewBlock(fn, "main::h", 0)
	body := ipettest.NewBlock(fn, "main::body", 1)
	exitBlk := ipettest.NewBlock(fn, "main::exit_blk", 2)
	exitBlk.MayReturnVal = true

	ipettest.Link(h, body)
	ipettest.Link(h, exitBlk)
	ipettest.LinkBack(body, h)

	facade := ipettest.NewRecordingFacade()
	m := ipetmodel.New(facade, variable.MachineCode, refine.NewTable(), config.NewDefault(), nil)
	for _, b := range fn.Blocks() {
		for _, e := range m.DeclareBlockEdges(b) {
			facade.AddVariable(e.ID(), variable.MachineCode)
		}
	}
	for _, b := range fn.Blocks() {
		m.EmitBlockStructural(b, program.GlobalContext)
	}
	return m, facade, fn, h
}

func TestLowerLoopBoundFact(t *testing.T) {
	m, facade, _, h := buildLoopScenario(t)

	loop := &ipettest.Loop{HeaderVal: h}
	fact := program.ConstraintFact{
		FactLevel: variable.MachineCode,
		Scope:     program.Scope{Point: program.LoopPoint{Loop: loop}, Context: program.GlobalContext},
		LHS:       []program.Term{{Factor: 1, Point: program.BlockPoint{Block: h}, Context: program.GlobalContext}},
		Op:        program.OpLessEqual,
		RHS:       program.ConstRHS(10),
		Name:      "loop-bound",
	}

	if err := Lower(fact, m, nil, nil); err != nil {
		t.Fatalf("Lower: %v", err)
	}

	flowFacts := facade.ConstraintsByTag(ilp.TagFlowFact)
	if len(flowFacts) != 1 {
		t.Fatalf("expected exactly 1 flowfact constraint, got %d", len(flowFacts))
	}
	c := flowFacts[0]
	if c.Op != ilp.LessEqual || c.RHS != 0 {
		t.Fatalf("expected LessEqual 0 after folding rhs into the scope term, got op=%v rhs=%d", c.Op, c.RHS)
	}

	// h's own block_frequency is Σ outgoing(h) = {h->body, h->exit_blk}; the
	// loop's sum_loop_entry is Σ non-back incoming(h) = {} since h is the
	// function entry and its only predecessor, body, reaches it over a back
	// edge. The lowered
	// constraint should therefore carry terms for h->body and h->exit_blk at
	// coefficient 1 and no terms scaled by -10 (an empty sum scales to
	// nothing).
	if len(c.Terms) != 2 {
		t.Fatalf("expected 2 terms (h's two outgoing edges), got %d: %+v", len(c.Terms), c.Terms)
	}
	for _, term := range c.Terms {
		if term.Coeff != 1 {
			t.Errorf("expected coefficient 1 on block_frequency(h) terms, got %d", term.Coeff)
		}
	}
}

func TestLowerDropsSymbolicRHS(t *testing.T) {
	m, _, _, h := buildLoopScenario(t)
	fact := program.ConstraintFact{
		FactLevel: variable.MachineCode,
		Scope:     program.Scope{Point: program.FunctionPoint{Function: h.FunctionVal}, Context: program.GlobalContext},
		LHS:       []program.Term{{Factor: 1, Point: program.BlockPoint{Block: h}, Context: program.GlobalContext}},
		Op:        program.OpLessEqual,
		RHS:       program.SymbolicRHS{Name: "N"},
		Name:      "symbolic",
	}
	if err := Lower(fact, m, nil, &config.LogGroup{}); err == nil {
		t.Fatalf("expected symbolic RHS to be rejected")
	}
}

func TestLowerDropsInstructionLevelTerm(t *testing.T) {
	m, _, fn, _ := buildLoopScenario(t)
	b0 := fn.BlocksVal[0]
	insn := ipettest.NewCallSite(b0, "main::h::c0")
	fact := program.ConstraintFact{
		FactLevel: variable.MachineCode,
		Scope:     program.Scope{Point: program.FunctionPoint{Function: fn}, Context: program.GlobalContext},
		LHS:       []program.Term{{Factor: 1, Point: program.InstructionPoint{Instruction: insn}, Context: program.GlobalContext}},
		Op:        program.OpEqual,
		RHS:       program.ConstRHS(0),
		Name:      "bad-term",
	}
	if err := Lower(fact, m, nil, nil); err == nil {
		t.Fatalf("expected an instruction-level term to be rejected")
	}
}

func TestLowerIgnoresCallTargetFact(t *testing.T) {
	m, facade, fn, _ := buildLoopScenario(t)
	b0 := fn.BlocksVal[0]
	site := ipettest.NewCallSite(b0, "main::h::c0")
	fact := program.CallTargetFact{
		FactLevel: variable.MachineCode,
		Scope:     program.Scope{Point: program.FunctionPoint{Function: fn}, Context: program.GlobalContext},
		Site:      site,
		Targets:   nil,
		Name:      "not-our-concern",
	}
	before := len(facade.Constraints)
	if err := Lower(fact, m, nil, nil); err != nil {
		t.Fatalf("Lower should silently ignore CallTargetFact, got error: %v", err)
	}
	if len(facade.Constraints) != before {
		t.Fatalf("Lower must not emit anything for a CallTargetFact")
	}
}
