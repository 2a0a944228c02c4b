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

// Package gcfgraph wraps a GCFG's node-successor relation as a
// gonum.org/v1/gonum/graph.Directed, so graph/topo can find strongly
// connected components in the super-structure for diagnostics. A GCFG is
// never required to be acyclic, so a nontrivial component is reported as a
// warning, never an error.
package gcfgraph

import (
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/topo"
)

// node wraps a GCFG node's qualified name as a gonum graph.Node.
type node struct {
	id   int64
	name string
}

func (n node) ID() int64      { return n.id }
func (n node) String() string { return n.name }

// Graph adapts a set of named GCFG nodes and their successor names into a
// gonum directed graph.
type Graph struct {
	nodes map[int64]node
	ids   []int64
	out   map[int64]map[int64]bool
	in    map[int64]map[int64]bool
}

// New builds a Graph from order (every GCFG node's name, in visit order)
// and successors (node name -> successor node names).
func New(order []string, successors map[string][]string) *Graph {
	byName := make(map[string]int64, len(order))
	nodes := make(map[int64]node, len(order))
	ids := make([]int64, len(order))
	for i, name := range order {
		id := int64(i)
		byName[name] = id
		nodes[id] = node{id: id, name: name}
		ids[i] = id
	}

	out := make(map[int64]map[int64]bool, len(order))
	in := make(map[int64]map[int64]bool, len(order))
	for _, id := range ids {
		out[id] = map[int64]bool{}
		in[id] = map[int64]bool{}
	}
	for from, tos := range successors {
		u, ok := byName[from]
		if !ok {
			continue
		}
		for _, to := range tos {
			v, ok := byName[to]
			if !ok {
				continue
			}
			out[u][v] = true
			in[v][u] = true
		}
	}

	return &Graph{nodes: nodes, ids: ids, out: out, in: in}
}

// Node implements graph.Graph.
func (g *Graph) Node(id int64) graph.Node {
	if n, ok := g.nodes[id]; ok {
		return n
	}
	return nil
}

// Nodes implements graph.Graph.
func (g *Graph) Nodes() graph.Nodes {
	return &nodeIter{g: g, ids: append([]int64(nil), g.ids...), cur: -1}
}

// From implements graph.Graph.
func (g *Graph) From(id int64) graph.Nodes {
	return &nodeIter{g: g, ids: sortedKeys(g.out[id]), cur: -1}
}

// To implements graph.Directed.
func (g *Graph) To(id int64) graph.Nodes {
	return &nodeIter{g: g, ids: sortedKeys(g.in[id]), cur: -1}
}

// HasEdgeBetween implements graph.Graph.
func (g *Graph) HasEdgeBetween(xid, yid int64) bool {
	return g.out[xid][yid] || g.out[yid][xid]
}

// HasEdgeFromTo implements graph.Directed.
func (g *Graph) HasEdgeFromTo(uid, vid int64) bool {
	return g.out[uid][vid]
}

// Edge implements graph.Graph.
func (g *Graph) Edge(uid, vid int64) graph.Edge {
	if !g.out[uid][vid] {
		return nil
	}
	return gEdge{from: g.nodes[uid], to: g.nodes[vid]}
}

func sortedKeys(m map[int64]bool) []int64 {
	out := make([]int64, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

type gEdge struct {
	from, to node
}

func (e gEdge) From() graph.Node         { return e.from }
func (e gEdge) To() graph.Node           { return e.to }
func (e gEdge) ReversedEdge() graph.Edge { return gEdge{from: e.to, to: e.from} }

// nodeIter implements graph.Nodes over a fixed, pre-sorted id slice.
type nodeIter struct {
	g   *Graph
	ids []int64
	cur int
}

func (it *nodeIter) Next() bool {
	if it.cur < len(it.ids)-1 {
		it.cur++
		return true
	}
	return false
}

func (it *nodeIter) Len() int { return len(it.ids) - (it.cur + 1) }

func (it *nodeIter) Reset() { it.cur = -1 }

func (it *nodeIter) Node() graph.Node { return it.g.nodes[it.ids[it.cur]] }

// NontrivialCycles returns the name set of every strongly connected
// component with more than one node, i.e. every cycle in the GCFG
// super-structure, sorted for deterministic output.
func (g *Graph) NontrivialCycles() [][]string {
	sccs := topo.TarjanSCC(g)
	var out [][]string
	for _, scc := range sccs {
		if len(scc) < 2 {
			continue
		}
		names := make([]string, len(scc))
		for i, n := range scc {
			names[i] = g.nodes[n.ID()].name
		}
		sort.Strings(names)
		out = append(out, names)
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}
