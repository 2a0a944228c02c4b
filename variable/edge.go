package variable

import "fmt"

// Level tags which program representation an EdgeId belongs to.
type Level uint8

const (
	// MachineCode identifies edges over the machine-code control-flow graph.
	MachineCode Level = iota
	// Bitcode identifies edges over the bitcode control-flow graph.
	Bitcode
	// GCFG identifies super-structure edges between ABBs of the global
	// control-flow graph.
	GCFG
	// RelationGraph identifies edges of a bitcode-machinecode relation graph.
	RelationGraph
)

// String names the level for diagnostics and qualified names.
func (l Level) String() string {
	switch l {
	case MachineCode:
		return "mc"
	case Bitcode:
		return "bc"
	case GCFG:
		return "gcfg"
	case RelationGraph:
		return "rg"
	default:
		return fmt.Sprintf("level(%d)", uint8(l))
	}
}

// exitSentinel stands for "function return" as an edge target. It must never
// collide with a real program-point qualified name; the leading character is
// not valid in any QName the program model is expected to produce.
const exitSentinel = "#exit"

// VarID is the identifier an ilp.Facade uses to key a decision variable. It
// is always derived from an EdgeId's, or a call-site's, canonical name.
type VarID string

// EdgeId identifies a single ILP decision variable: a CFG edge, a synthetic
// exit edge, a call edge, or a relation-graph edge. Two EdgeIds are equal iff
// they name the same flow variable; since EdgeId is composed solely of
// comparable fields it can be used directly as a map key.
type EdgeId struct {
	Level  Level
	Source string
	Target string
}

// Edge returns the EdgeId for a normal CFG edge from source to target at the
// given level.
func Edge(level Level, sourceQName, targetQName string) EdgeId {
	return EdgeId{Level: level, Source: sourceQName, Target: targetQName}
}

// Exit returns the EdgeId for the synthetic "block returns" edge out of
// sourceQName at the given level.
func Exit(level Level, sourceQName string) EdgeId {
	return EdgeId{Level: level, Source: sourceQName, Target: exitSentinel}
}

// IsExit reports whether this EdgeId targets the exit sentinel.
func (e EdgeId) IsExit() bool {
	return e.Target == exitSentinel
}

// ID returns the canonical variable identifier for this edge, suitable for
// passing to an ilp.Facade.
func (e EdgeId) ID() VarID {
	return VarID(e.String())
}

// String renders the canonical, stable name of the edge: it is this name
// that two builds of identical input must reproduce byte-for-byte.
func (e EdgeId) String() string {
	if e.IsExit() {
		return fmt.Sprintf("%s:%s->exit", e.Level, e.Source)
	}
	return fmt.Sprintf("%s:%s->%s", e.Level, e.Source, e.Target)
}

// CallSiteVar returns the variable identifier for a call instruction's own
// frequency variable, distinct from any EdgeId since instructions are not
// edges.
func CallSiteVar(level Level, siteQName string) VarID {
	return VarID(fmt.Sprintf("%s:site:%s", level, siteQName))
}
