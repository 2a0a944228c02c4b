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

// Package collections holds the small generic helpers the rest of the
// module reaches for repeatedly: set intersection, deterministic ordering,
// slice filter/map, and an Optional monad. The builder is single-threaded,
// so this package drops a parallel-map helper some lineages keep and holds
// one copy of everything instead of two.
package collections

import (
	"sort"

	"golang.org/x/exp/constraints"
)

// Set is a map-represented set.
type Set[T comparable] map[T]bool

// NewSet builds a Set containing the given elements.
func NewSet[T comparable](elems ...T) Set[T] {
	s := make(Set[T], len(elems))
	for _, e := range elems {
		s[e] = true
	}
	return s
}

// Intersect returns a new set containing exactly the elements present (and
// true) in both a and b. Used to narrow call-target sets as flow facts
// accumulate.
func Intersect[T comparable](a, b Set[T]) Set[T] {
	out := make(Set[T])
	for x := range a {
		if b[x] {
			out[x] = true
		}
	}
	return out
}

// IntersectAll intersects every set in sets; the empty input returns nil,
// not the universal set, since the core never has a meaningful universe to
// intersect against.
func IntersectAll[T comparable](sets ...Set[T]) Set[T] {
	if len(sets) == 0 {
		return nil
	}
	out := sets[0]
	for _, s := range sets[1:] {
		out = Intersect(out, s)
	}
	return out
}

// SortedKeys returns the keys of set in increasing order.
func SortedKeys[T constraints.Ordered](set Set[T]) []T {
	out := make([]T, 0, len(set))
	for k, present := range set {
		if present {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Map returns a new slice b such that b[i] = f(a[i]) for all i.
func Map[T, S any](a []T, f func(T) S) []S {
	b := make([]S, len(a))
	for i, x := range a {
		b[i] = f(x)
	}
	return b
}

// Filter returns the elements of a for which f holds, preserving order.
func Filter[T any](a []T, f func(T) bool) []T {
	var out []T
	for _, x := range a {
		if f(x) {
			out = append(out, x)
		}
	}
	return out
}

// All reports whether f holds for every element of a. Vacuously true on an
// empty slice; callers that need "nonempty and all true" must check length
// themselves (this matters for the infeasibility fixed point, where a block
// with zero non-back predecessors must not be killed vacuously).
func All[T any](a []T, f func(T) bool) bool {
	for _, x := range a {
		if !f(x) {
			return false
		}
	}
	return true
}
