// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package program declares the contracts the core consumes from an external
// program-model loader: functions, blocks, instructions, loops, edges,
// relation graphs and the optional GCFG of atomic basic blocks. The core
// never constructs these; it only reads them through the interfaces below.
package program

// Function is a single procedure: an ordered sequence of blocks (the first
// of which is the entry block), a stable name and an address.
type Function interface {
	// QName returns the function's globally unique, stable qualified name.
	// EdgeId identity is derived from QNames, so two distinct functions must
	// never share one.
	QName() string
	Name() string
	Address() uint64
	// Blocks returns the function's blocks in a fixed, deterministic order.
	// Blocks()[0] is the entry block.
	Blocks() []Block
}

// Predecessor pairs an incoming block with whether that particular incoming
// edge is a back edge (loop-closing).
type Predecessor struct {
	Block    Block
	BackEdge bool
}

// Block is a single basic block of a Function.
type Block interface {
	QName() string
	Function() Function
	// Index is the block's position within Function().Blocks().
	Index() int
	Predecessors() []Predecessor
	Successors() []Block
	// MayReturn reports whether control can leave the enclosing function
	// directly from this block (i.e. whether a synthetic exit edge is
	// needed).
	MayReturn() bool
	// LoopDepth is the block's loop nesting depth (0 outside any loop).
	LoopDepth() int
	// EnclosingLoops lists the loops (innermost first) that contain this
	// block.
	EnclosingLoops() []Loop
	// CallSites lists this block's instructions that have a non-empty
	// (possibly statically unresolved) callee list.
	CallSites() []Instruction
	// Instructions lists every instruction of the block, in program order;
	// used by marker resolution, which may need to find a marker on an
	// instruction that is not a call site.
	Instructions() []Instruction
}

// Instruction belongs to a Block. Only call instructions and marker-bearing
// instructions are meaningful to the core.
type Instruction interface {
	QName() string
	Block() Block
	// Marker returns the bitcode marker symbol attached to this instruction,
	// if any.
	Marker() (name string, ok bool)
	// Callees lists the statically known callees of this instruction. An
	// empty list means the call target is not known statically (an indirect
	// call) and must be resolved via refinement.
	Callees() []Function
}

// Loop is identified by its header block.
type Loop interface {
	Header() Block
}

// NodeKind is the type of a RelationNode within a RelationGraph.
type NodeKind int

const (
	// NodeEntry marks a relation node that couples function entry on both
	// sides.
	NodeEntry NodeKind = iota
	// NodeProgress marks a node at which src- and dst-side control flow are
	// required to make matching progress.
	NodeProgress
	// NodeExit marks a node that couples function exit on both sides.
	NodeExit
	// NodeOther marks any other relation node (e.g. annotation-only nodes).
	NodeOther
)

// RelationNode is one node of a RelationGraph: it may expose a block on the
// bitcode (src) side, the machine-code (dst) side, or both.
type RelationNode interface {
	QName() string
	Kind() NodeKind
	// Src returns the bitcode-side block this node projects to, if any.
	Src() (Block, bool)
	// Dst returns the machine-code-side block this node projects to, if any.
	Dst() (Block, bool)
}

// RelationEdge is one edge of a RelationGraph's own graph structure, between
// two RelationNodes. Whether it couples a bitcode CFG edge, a machine-code
// CFG edge, both or neither is determined by which side(s) From and To both
// expose a block on.
type RelationEdge struct {
	From, To RelationNode
}

// RelationGraph ties one bitcode function to one machine-code function,
// node for node.
type RelationGraph interface {
	BitcodeFunction() Function
	MachineFunction() Function
	Nodes() []RelationNode
	Edges() []RelationEdge
}

// ABB is an Atomic Basic Block: a single-entry/single-exit region of
// machine-code blocks belonging to one Function, treated as a super-node by
// the GCFG.
type ABB interface {
	QName() string
	Function() Function
	Entry() Block
	Exit() Block
	// Blocks lists every block in the ABB's machine-code subregion
	// (including Entry() and Exit()).
	Blocks() []Block
}

// GCFGNode wraps one ABB as a node of the Global Control-Flow Graph.
type GCFGNode interface {
	QName() string
	ABB() ABB
	Successors() []GCFGNode
	MayReturn() bool
}

// Model is the top-level contract the builder consumes from the external
// program-model loader: the analysis entry point, the full function
// universe per level (needed by refinement before anything is pruned to
// reachable code), and the cross-cutting structures that ordinary call-graph
// traversal cannot discover on its own.
type Model interface {
	// EntryFunction is the machine-code function execution is assumed to
	// start from.
	EntryFunction() Function
	// MachineFunctions lists every machine-code function the loader knows
	// about, in a fixed deterministic order, regardless of reachability.
	MachineFunctions() []Function
	// BitcodeFunctions lists every bitcode function the loader knows about,
	// in a fixed deterministic order. Empty if bitcode was not loaded.
	BitcodeFunctions() []Function
	// RelationGraphFor returns the relation graph coupling machineFn to a
	// bitcode function, if the loader built one.
	RelationGraphFor(machineFn Function) (RelationGraph, bool)
	// GCFGEntry returns the Global Control-Flow Graph's entry node, if GCFG
	// orchestration is available.
	GCFGEntry() (GCFGNode, bool)
}
