package ipettest

import "github.com/wcet-tools/ipet-builder/program"

// RelationNode is an in-memory program.RelationNode. SrcVal and/or DstVal
// may be nil to mean "no block on that side".
type RelationNode struct {
	QNameVal string
	KindVal  program.NodeKind
	SrcVal   *Block
	DstVal   *Block
}

func (n *RelationNode) QName() string          { return n.QNameVal }
func (n *RelationNode) Kind() program.NodeKind { return n.KindVal }

func (n *RelationNode) Src() (program.Block, bool) {
	if n.SrcVal == nil {
		return nil, false
	}
	return n.SrcVal, true
}

func (n *RelationNode) Dst() (program.Block, bool) {
	if n.DstVal == nil {
		return nil, false
	}
	return n.DstVal, true
}

// RelationGraph is an in-memory program.RelationGraph.
type RelationGraph struct {
	BitcodeFn *Function
	MachineFn *Function
	NodesVal  []*RelationNode
	EdgesVal  []RelationEdge
}

// RelationEdge pairs two *RelationNode, convertible to program.RelationEdge.
type RelationEdge struct {
	From, To *RelationNode
}

func (rg *RelationGraph) BitcodeFunction() program.Function { return rg.BitcodeFn }
func (rg *RelationGraph) MachineFunction() program.Function { return rg.MachineFn }

func (rg *RelationGraph) Nodes() []program.RelationNode {
	out := make([]program.RelationNode, len(rg.NodesVal))
	for i, n := range rg.NodesVal {
		out[i] = n
	}
	return out
}

func (rg *RelationGraph) Edges() []program.RelationEdge {
	out := make([]program.RelationEdge, len(rg.EdgesVal))
	for i, e := range rg.EdgesVal {
		out[i] = program.RelationEdge{From: e.From, To: e.To}
	}
	return out
}

// ABB is an in-memory program.ABB.
type ABB struct {
	QNameVal    string
	FunctionVal *Function
	EntryVal    *Block
	ExitVal     *Block
	BlocksVal   []*Block
}

func (a *ABB) QName() string              { return a.QNameVal }
func (a *ABB) Function() program.Function { return a.FunctionVal }
func (a *ABB) Entry() program.Block       { return a.EntryVal }
func (a *ABB) Exit() program.Block        { return a.ExitVal }

func (a *ABB) Blocks() []program.Block {
	out := make([]program.Block, len(a.BlocksVal))
	for i, b := range a.BlocksVal {
		out[i] = b
	}
	return out
}

// GCFGNode is an in-memory program.GCFGNode.
type GCFGNode struct {
	QNameVal      string
	ABBVal        *ABB
	SuccessorsVal []*GCFGNode
	MayReturnVal  bool
}

func (n *GCFGNode) QName() string  { return n.QNameVal }
func (n *GCFGNode) ABB() program.ABB { return n.ABBVal }
func (n *GCFGNode) MayReturn() bool { return n.MayReturnVal }

func (n *GCFGNode) Successors() []program.GCFGNode {
	out := make([]program.GCFGNode, len(n.SuccessorsVal))
	for i, s := range n.SuccessorsVal {
		out[i] = s
	}
	return out
}
