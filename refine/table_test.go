package refine

import (
	"testing"

	"github.com/wcet-tools/ipet-builder/internal/collections"
	"github.com/wcet-tools/ipet-builder/program"
)

func TestCallTargetsUnresolved(t *testing.T) {
	tbl := NewTable()
	if _, err := tbl.CallTargets("f::c0", program.GlobalContext, nil); err == nil {
		t.Fatalf("CallTargets with no static callees and no restriction should fail")
	}
}

func TestCallTargetsStaticOnly(t *testing.T) {
	tbl := NewTable()
	static := collections.NewSet("g", "h")
	got, err := tbl.CallTargets("f::c0", program.GlobalContext, static)
	if err != nil {
		t.Fatalf("CallTargets: %v", err)
	}
	if len(got) != 2 || !got["g"] || !got["h"] {
		t.Errorf("CallTargets = %v, want {g, h}", got)
	}
}

func TestCallTargetsMonotonicallyShrink(t *testing.T) {
	tbl := NewTable()
	ref := ContextRef{Point: "f::c0", Context: program.GlobalContext}
	tbl.restrictCallTargets(ref, collections.NewSet("g", "h", "k"))
	tbl.restrictCallTargets(ref, collections.NewSet("g", "h"))

	got, err := tbl.CallTargets("f::c0", program.GlobalContext, nil)
	if err != nil {
		t.Fatalf("CallTargets: %v", err)
	}
	if len(got) != 2 || !got["g"] || !got["h"] {
		t.Errorf("successive restrictions should intersect, got %v", got)
	}
}

func TestInfeasibleGlobalAppliesUnderAnyContext(t *testing.T) {
	tbl := NewTable()
	tbl.markInfeasible(ContextRef{Point: "f::b1", Context: program.GlobalContext})

	if !tbl.Infeasible("f::b1", program.GlobalContext) {
		t.Errorf("expected f::b1 infeasible under the global context")
	}
	if !tbl.Infeasible("f::b1", program.Context("loop-iter-3")) {
		t.Errorf("a globally infeasible block must be infeasible under every context")
	}
}

func TestInfeasibleContextSpecificDoesNotLeak(t *testing.T) {
	tbl := NewTable()
	tbl.markInfeasible(ContextRef{Point: "f::b1", Context: "ctx-a"})

	if tbl.Infeasible("f::b1", program.GlobalContext) {
		t.Errorf("a context-specific mark must not apply globally")
	}
	if !tbl.Infeasible("f::b1", "ctx-a") {
		t.Errorf("expected f::b1 infeasible under ctx-a")
	}
}
