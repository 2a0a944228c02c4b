package ipettest

import "github.com/wcet-tools/ipet-builder/program"

// Model is an in-memory program.Model.
type Model struct {
	Entry          *Function
	MachineFns     []*Function
	BitcodeFns     []*Function
	RelationGraphs map[string]*RelationGraph // keyed by machine function QName
	GCFGEntryNode  *GCFGNode
}

func (m *Model) EntryFunction() program.Function { return m.Entry }

func (m *Model) MachineFunctions() []program.Function {
	out := make([]program.Function, len(m.MachineFns))
	for i, f := range m.MachineFns {
		out[i] = f
	}
	return out
}

func (m *Model) BitcodeFunctions() []program.Function {
	out := make([]program.Function, len(m.BitcodeFns))
	for i, f := range m.BitcodeFns {
		out[i] = f
	}
	return out
}

func (m *Model) RelationGraphFor(machineFn program.Function) (program.RelationGraph, bool) {
	rg, ok := m.RelationGraphs[machineFn.QName()]
	if !ok {
		return nil, false
	}
	return rg, true
}

func (m *Model) GCFGEntry() (program.GCFGNode, bool) {
	if m.GCFGEntryNode == nil {
		return nil, false
	}
	return m.GCFGEntryNode, true
}
