package program

import "github.com/wcet-tools/ipet-builder/variable"

// Context keys a refinement or a flow-fact term to a specific calling/loop
// context. The empty Context denotes "globally".
type Context string

// GlobalContext is the empty context: a value holding under GlobalContext
// holds regardless of context.
const GlobalContext Context = ""

// ProgramPoint is a tagged variant over the kinds of program point a flow
// fact's term or scope can name: Function, Block, Edge, Loop, Instruction,
// Marker or a plain integer constant. Concrete implementations are the
// Point* types below; code that consumes a ProgramPoint must type-switch
// exhaustively and explicitly reject kinds it does not support (see
// flowfact.Lower and refine.Table).
type ProgramPoint interface {
	isProgramPoint()
}

// FunctionPoint names a function's frequency.
type FunctionPoint struct{ Function Function }

func (FunctionPoint) isProgramPoint() {}

// BlockPoint names a block's frequency.
type BlockPoint struct{ Block Block }

func (BlockPoint) isProgramPoint() {}

// EdgeRef is a CFG edge: either Source->Target, or Source->exit when IsExit
// is set (Target is then meaningless).
type EdgeRef struct {
	Source Block
	Target Block
	IsExit bool
}

// EdgePoint names an edge's frequency.
type EdgePoint struct{ Edge EdgeRef }

func (EdgePoint) isProgramPoint() {}

// LoopPoint names a loop's sum-of-loop-entry frequency.
type LoopPoint struct{ Loop Loop }

func (LoopPoint) isProgramPoint() {}

// InstructionPoint names an instruction. Only meaningful inside refinement;
// flow-fact lowering rejects it.
type InstructionPoint struct{ Instruction Instruction }

func (InstructionPoint) isProgramPoint() {}

// MarkerPoint names a bitcode marker symbol, resolved to concrete
// instructions before lowering.
type MarkerPoint struct{ Name string }

func (MarkerPoint) isProgramPoint() {}

// ConstantPoint is a plain integer constant term.
type ConstantPoint struct{ Value int64 }

func (ConstantPoint) isProgramPoint() {}

// Term is one summand of a flow fact's left-hand side: Factor times the
// frequency denoted by Point, in Context.
type Term struct {
	Factor  int64
	Point   ProgramPoint
	Context Context
}

// Scope restricts a flow fact to a function or a loop, in a context.
type Scope struct {
	// Point is a FunctionPoint or a LoopPoint; any other kind is a loader
	// bug and is rejected by flowfact.Lower.
	Point   ProgramPoint
	Context Context
}

// CompareOp is a flow fact's comparison operator.
type CompareOp int

const (
	// OpEqual is "=".
	OpEqual CompareOp = iota
	// OpLessEqual is "<=".
	OpLessEqual
)

// RHS is a flow fact's right-hand side: either a constant or a symbolic
// quantity. Only ConstRHS is supported by flowfact.Lower.
type RHS interface {
	isRHS()
}

// ConstRHS is a constant right-hand side.
type ConstRHS int64

func (ConstRHS) isRHS() {}

// SymbolicRHS is a right-hand side naming some other quantity; unsupported
// by the core.
type SymbolicRHS struct{ Name string }

func (SymbolicRHS) isRHS() {}

// Fact is a tagged variant over the two flow-fact shapes the core
// recognizes: a general numeric ConstraintFact, and the special
// CallTargetFact shape refinement ingests directly. A "block frequency = 0"
// fact is simply a ConstraintFact whose single LHS term is a BlockPoint with
// RHS zero; it needs no separate type.
type Fact interface {
	isFact()
	// Level reports which CFG (bitcode or machine-code) this fact is stated
	// over; it gates ingestion in refine.BuildTable.
	Level() variable.Level
}

// ConstraintFact is the general flow-fact shape: a scoped linear
// inequality/equality over program-point frequencies.
type ConstraintFact struct {
	FactLevel variable.Level
	Scope     Scope
	LHS       []Term
	Op        CompareOp
	RHS       RHS
	// Name identifies the fact for diagnostics (warnings on drop).
	Name string
}

func (ConstraintFact) isFact() {}

// Level implements Fact.
func (f ConstraintFact) Level() variable.Level { return f.FactLevel }

// CallTargetFact is the call-target restriction shape: it intersects
// Targets into the refinement's call-target set for Site under
// Scope.Context.
type CallTargetFact struct {
	FactLevel variable.Level
	Scope     Scope
	Site      Instruction
	Targets   []Function
	Name      string
}

func (CallTargetFact) isFact() {}

// Level implements Fact.
func (f CallTargetFact) Level() variable.Level { return f.FactLevel }
