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

// Package callgraphstats adapts the builder's discovered function-level
// call graph into a github.com/yourbasic/graph iterator, so the library's
// structural check (size, multi-edges, loops, isolated nodes) can be
// logged as a build diagnostic instead of re-derived by hand.
package callgraphstats

import (
	"sort"

	"github.com/yourbasic/graph"
)

// Graph adapts a caller-qname -> callee-qname adjacency into a
// yourbasic/graph iterator, indexed by a stable integer id assigned in
// sorted name order so two builds over identical input produce the same
// iteration order.
type Graph struct {
	names []string
	out   [][]int
}

// New builds a Graph from edges: edges[caller] is the set of functions
// called directly from caller, across every call site in its body.
func New(edges map[string]map[string]bool) *Graph {
	seen := make(map[string]bool)
	for caller, callees := range edges {
		seen[caller] = true
		for callee := range callees {
			seen[callee] = true
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)

	ids := make(map[string]int, len(names))
	for i, n := range names {
		ids[n] = i
	}

	out := make([][]int, len(names))
	for caller, callees := range edges {
		u := ids[caller]
		for callee := range callees {
			out[u] = append(out[u], ids[callee])
		}
		sort.Ints(out[u])
	}

	return &Graph{names: names, out: out}
}

// Order implements graph.Iterator.
func (g *Graph) Order() int { return len(g.names) }

// Visit implements graph.Iterator.
func (g *Graph) Visit(v int, do func(w int, c int64) (skip bool)) (aborted bool) {
	if v < 0 || v >= len(g.out) {
		return false
	}
	for _, w := range g.out[v] {
		if do(w, 1) {
			return true
		}
	}
	return false
}

// Stats is the subset of yourbasic/graph's structural report the builder
// logs.
type Stats struct {
	Size  int
	Multi int
	Loops int
	// Isolated follows yourbasic/graph's definition: the number of nodes
	// with outdegree zero, whether or not any edge points at them.
	Isolated int
}

// Check runs yourbasic/graph's Check over g.
func (g *Graph) Check() Stats {
	s := graph.Check(g)
	return Stats{Size: s.Size, Multi: s.Multi, Loops: s.Loops, Isolated: s.Isolated}
}
