package flowfact

import (
	"testing"

	"github.com/wcet-tools/ipet-builder/internal/ipettest"
	"github.com/wcet-tools/ipet-builder/program"
)

func TestBuildMarkerIndexGroupsByName(t *testing.T) {
	fn := &ipettest.Function{QNameVal: "f"}
	b0 := ipettest.NewBlock(fn, "f::b0", 0)
	b1 := ipettest.NewBlock(fn, "f::b1", 1)

	i0 := ipettest.NewCallSite(b0, "f::b0::i0").WithMarker("loop_top")
	b0.InstructionsVal = []*ipettest.Instruction{i0}
	i1 := &ipettest.Instruction{QNameVal: "f::b1::i1", BlockVal: b1}
	i1.WithMarker("loop_top")
	b1.InstructionsVal = []*ipettest.Instruction{i1}

	idx := BuildMarkerIndex([]program.Function{fn})
	if len(idx["loop_top"]) != 2 {
		t.Fatalf("expected 2 instructions marked loop_top, got %d", len(idx["loop_top"]))
	}
}

// TestMarkerExpansionRoundTrip checks that a marker resolving to instructions
// in two distinct blocks expands into a factor-weighted term per block, with
// multiplicity preserved.
func TestMarkerExpansionRoundTrip(t *testing.T) {
	fn := &ipettest.Function{QNameVal: "f"}
	b0 := ipettest.NewBlock(fn, "f::b0", 0)
	b1 := ipettest.NewBlock(fn, "f::b1", 1)

	i0 := &ipettest.Instruction{QNameVal: "f::b0::i0", BlockVal: b0}
	i0.WithMarker("m")
	i1 := &ipettest.Instruction{QNameVal: "f::b1::i1", BlockVal: b1}
	i1.WithMarker("m")
	b0.InstructionsVal = []*ipettest.Instruction{i0}
	b1.InstructionsVal = []*ipettest.Instruction{i1}

	idx := BuildMarkerIndex([]program.Function{fn})
	terms := []program.Term{{Factor: 3, Point: program.MarkerPoint{Name: "m"}, Context: program.GlobalContext}}

	expanded, err := expandMarkers(terms, idx)
	if err != nil {
		t.Fatalf("expandMarkers: %v", err)
	}
	if len(expanded) != 2 {
		t.Fatalf("expected 2 expanded terms, got %d", len(expanded))
	}
	for _, term := range expanded {
		if term.Factor != 3 {
			t.Errorf("expected factor preserved at 3, got %d", term.Factor)
		}
		if _, ok := term.Point.(program.BlockPoint); !ok {
			t.Errorf("expected the expanded point to be a BlockPoint, got %T", term.Point)
		}
	}
}

func TestExpandMarkersUnknownName(t *testing.T) {
	terms := []program.Term{{Factor: 1, Point: program.MarkerPoint{Name: "nope"}, Context: program.GlobalContext}}
	if _, err := expandMarkers(terms, MarkerIndex{}); err == nil {
		t.Fatalf("expected an error for an unknown marker name")
	}
}
