package flowfact

import (
	"github.com/wcet-tools/ipet-builder/ipeterr"
	"github.com/wcet-tools/ipet-builder/program"
)

// MarkerIndex maps a bitcode marker symbol to every instruction bearing it,
// in the deterministic order the owning functions and blocks were visited.
type MarkerIndex map[string][]program.Instruction

// BuildMarkerIndex scans every instruction of every function for a marker
// and groups them by marker name.
func BuildMarkerIndex(functions []program.Function) MarkerIndex {
	idx := make(MarkerIndex)
	for _, fn := range functions {
		for _, b := range fn.Blocks() {
			for _, insn := range b.Instructions() {
				name, ok := insn.Marker()
				if !ok {
					continue
				}
				idx[name] = append(idx[name], insn)
			}
		}
	}
	return idx
}

// expandMarkers rewrites every MarkerPoint term in terms into one term per
// matching instruction, with the term's program point replaced by that
// instruction's containing block and its factor preserved. Multiplicity is
// preserved: a block with two marked instructions contributes two terms.
func expandMarkers(terms []program.Term, markers MarkerIndex) ([]program.Term, error) {
	var out []program.Term
	for _, t := range terms {
		mp, ok := t.Point.(program.MarkerPoint)
		if !ok {
			out = append(out, t)
			continue
		}
		insns := markers[mp.Name]
		if len(insns) == 0 {
			return nil, ipeterr.New(ipeterr.KindUnknownMarker, mp.Name, "no resolved instruction")
		}
		for _, insn := range insns {
			out = append(out, program.Term{
				Factor:  t.Factor,
				Point:   program.BlockPoint{Block: insn.Block()},
				Context: t.Context,
			})
		}
	}
	return out, nil
}
