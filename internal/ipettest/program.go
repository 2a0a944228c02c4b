package ipettest

import "github.com/wcet-tools/ipet-builder/program"

// Function is an in-memory program.Function.
type Function struct {
	QNameVal   string
	NameVal    string
	AddressVal uint64
	BlocksVal  []*Block
}

func (f *Function) QName() string  { return f.QNameVal }
func (f *Function) Name() string   { return f.NameVal }
func (f *Function) Address() uint64 { return f.AddressVal }

func (f *Function) Blocks() []program.Block {
	out := make([]program.Block, len(f.BlocksVal))
	for i, b := range f.BlocksVal {
		out[i] = b
	}
	return out
}

// Block is an in-memory program.Block. Construct with NewBlock and wire
// edges with Link/LinkBack rather than setting the slice fields directly.
type Block struct {
	QNameVal          string
	FunctionVal       *Function
	IndexVal          int
	PredecessorsVal   []program.Predecessor
	SuccessorsVal     []*Block
	MayReturnVal      bool
	LoopDepthVal      int
	EnclosingLoopsVal []*Loop
	CallSitesVal      []*Instruction
	InstructionsVal   []*Instruction
}

// NewBlock returns a Block at index idx of fn, and appends it to fn's block
// list.
func NewBlock(fn *Function, qname string, idx int) *Block {
	b := &Block{QNameVal: qname, FunctionVal: fn, IndexVal: idx}
	fn.BlocksVal = append(fn.BlocksVal, b)
	return b
}

// Link adds a plain (non-back) edge from 'from' to 'to'.
func Link(from, to *Block) {
	from.SuccessorsVal = append(from.SuccessorsVal, to)
	to.PredecessorsVal = append(to.PredecessorsVal, program.Predecessor{Block: from, BackEdge: false})
}

// LinkBack adds a back edge (loop-closing) from 'from' to 'to'.
func LinkBack(from, to *Block) {
	from.SuccessorsVal = append(from.SuccessorsVal, to)
	to.PredecessorsVal = append(to.PredecessorsVal, program.Predecessor{Block: from, BackEdge: true})
}

func (b *Block) QName() string             { return b.QNameVal }
func (b *Block) Function() program.Function { return b.FunctionVal }
func (b *Block) Index() int                { return b.IndexVal }
func (b *Block) Predecessors() []program.Predecessor { return b.PredecessorsVal }
func (b *Block) MayReturn() bool           { return b.MayReturnVal }
func (b *Block) LoopDepth() int            { return b.LoopDepthVal }

func (b *Block) Successors() []program.Block {
	out := make([]program.Block, len(b.SuccessorsVal))
	for i, s := range b.SuccessorsVal {
		out[i] = s
	}
	return out
}

func (b *Block) EnclosingLoops() []program.Loop {
	out := make([]program.Loop, len(b.EnclosingLoopsVal))
	for i, l := range b.EnclosingLoopsVal {
		out[i] = l
	}
	return out
}

func (b *Block) CallSites() []program.Instruction {
	out := make([]program.Instruction, len(b.CallSitesVal))
	for i, c := range b.CallSitesVal {
		out[i] = c
	}
	return out
}

func (b *Block) Instructions() []program.Instruction {
	insns := b.InstructionsVal
	if insns == nil {
		insns = b.CallSitesVal
	}
	out := make([]program.Instruction, len(insns))
	for i, ins := range insns {
		out[i] = ins
	}
	return out
}

// Instruction is an in-memory program.Instruction.
type Instruction struct {
	QNameVal   string
	BlockVal   *Block
	MarkerVal  string
	HasMarker  bool
	CalleesVal []*Function
}

// NewCallSite builds an Instruction, registers it as one of block's call
// sites, and (if block.InstructionsVal was already being tracked
// separately) its instruction list.
func NewCallSite(block *Block, qname string, callees ...*Function) *Instruction {
	insn := &Instruction{QNameVal: qname, BlockVal: block, CalleesVal: callees}
	block.CallSitesVal = append(block.CallSitesVal, insn)
	if block.InstructionsVal != nil {
		block.InstructionsVal = append(block.InstructionsVal, insn)
	}
	return insn
}

// WithMarker sets i's marker name and returns i, for chaining at
// construction.
func (i *Instruction) WithMarker(name string) *Instruction {
	i.MarkerVal = name
	i.HasMarker = true
	return i
}

func (i *Instruction) QName() string        { return i.QNameVal }
func (i *Instruction) Block() program.Block { return i.BlockVal }
func (i *Instruction) Marker() (string, bool) { return i.MarkerVal, i.HasMarker }

func (i *Instruction) Callees() []program.Function {
	out := make([]program.Function, len(i.CalleesVal))
	for idx, c := range i.CalleesVal {
		out[idx] = c
	}
	return out
}

// Loop is an in-memory program.Loop.
type Loop struct {
	HeaderVal *Block
}

func (l *Loop) Header() program.Block { return l.HeaderVal }
