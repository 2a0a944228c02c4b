package refine

import (
	"github.com/wcet-tools/ipet-builder/internal/collections"
	"github.com/wcet-tools/ipet-builder/ipeterr"
	"github.com/wcet-tools/ipet-builder/program"
)

// ContextRef keys a refinement fact: a program point (a block's or a call
// site's qualified name) together with the context it holds under.
type ContextRef struct {
	Point   string
	Context program.Context
}

// Table is the per-level refinement table: two mappings, one from block to
// "is it infeasible in this context", one from call site to "what function
// set may it call in this context".
type Table struct {
	infeasible  map[string]map[program.Context]bool
	calltargets map[string]map[program.Context]collections.Set[string]
}

// NewTable returns an empty Table.
func NewTable() *Table {
	return &Table{
		infeasible:  make(map[string]map[program.Context]bool),
		calltargets: make(map[string]map[program.Context]collections.Set[string]),
	}
}

func (t *Table) markInfeasible(ref ContextRef) {
	byCtx, ok := t.infeasible[ref.Point]
	if !ok {
		byCtx = make(map[program.Context]bool)
		t.infeasible[ref.Point] = byCtx
	}
	byCtx[ref.Context] = true
}

// restrictCallTargets intersects targets into the existing set at ref.
func (t *Table) restrictCallTargets(ref ContextRef, targets collections.Set[string]) {
	byCtx, ok := t.calltargets[ref.Point]
	if !ok {
		byCtx = make(map[program.Context]collections.Set[string])
		t.calltargets[ref.Point] = byCtx
	}
	if existing, present := byCtx[ref.Context]; present {
		byCtx[ref.Context] = collections.Intersect(existing, targets)
	} else {
		byCtx[ref.Context] = targets
	}
}

// Infeasible reports whether point is infeasible: either unconditionally
// (under program.GlobalContext) or specifically under ctx.
func (t *Table) Infeasible(point string, ctx program.Context) bool {
	byCtx, ok := t.infeasible[point]
	if !ok {
		return false
	}
	if byCtx[program.GlobalContext] {
		return true
	}
	if ctx != program.GlobalContext && byCtx[ctx] {
		return true
	}
	return false
}

// CallTargets resolves the set of functions callable from site under ctx,
// intersecting: the statically declared callees (if any), the global
// refinement (if any) and the context-specific refinement (if any). If none
// of the three sources is present, it returns ipeterr.KindUnresolvedIndirectCall.
func (t *Table) CallTargets(site string, ctx program.Context, static collections.Set[string]) (collections.Set[string], error) {
	var sets []collections.Set[string]
	if len(static) > 0 {
		sets = append(sets, static)
	}
	if byCtx, ok := t.calltargets[site]; ok {
		if global, present := byCtx[program.GlobalContext]; present {
			sets = append(sets, global)
		}
		if ctx != program.GlobalContext {
			if specific, present := byCtx[ctx]; present {
				sets = append(sets, specific)
			}
		}
	}
	if len(sets) == 0 {
		return nil, ipeterr.New(ipeterr.KindUnresolvedIndirectCall, site, "no static callees and no flow-fact-provided target set")
	}
	return collections.IntersectAll(sets...), nil
}
