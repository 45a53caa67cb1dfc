// SPDX-License-Identifier: MIT
// Package core_test contains test helpers for waypath/core.
//
// Purpose:
//   - Provide small deterministic fixtures and assertion utilities for core.Graph.
//   - Keep invariant checks (adjacency symmetry) in one place.

package core_test

import (
	"errors"
	"testing"

	"github.com/katalvlaran/waypath/core"
	"github.com/katalvlaran/waypath/spatial"
)

// Common positions used across core tests.
var (
	Origin = spatial.Vector3{}
	East3  = spatial.Vector3{X: 3}
	North4 = spatial.Vector3{X: 3, Y: 4}
)

// MustNoError fails the test immediately if err != nil.
func MustNoError(t *testing.T, err error, op string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", op, err)
	}
}

// MustErrorIs fails the test immediately unless errors.Is(err, target).
func MustErrorIs(t *testing.T, err error, target error, op string) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("%s: error = %v; want %v", op, err, target)
	}
}

// MustEqualIDs fails unless got and want hold the same ids in the same order.
func MustEqualIDs(t *testing.T, got, want []core.NodeID, op string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: got %v; want %v", op, got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("%s: got %v; want %v", op, got, want)
		}
	}
}

// MustSymmetric fails unless b ∈ adj(a) ⇔ a ∈ adj(b) for every live pair,
// and every adjacency entry references a live node.
func MustSymmetric(t *testing.T, g *core.Graph, op string) {
	t.Helper()
	adj := g.AdjacencyList()
	edges := 0
	for a, nbrs := range adj {
		for _, b := range nbrs {
			if !g.HasNode(b) {
				t.Fatalf("%s: node %d lists dead neighbor %d", op, a, b)
			}
			if !g.HasEdge(b, a) {
				t.Fatalf("%s: %d→%d present but %d→%d missing", op, a, b, b, a)
			}
			edges++
		}
	}
	if edges != 2*g.EdgeCount() {
		t.Fatalf("%s: adjacency holds %d half-edges; EdgeCount()=%d", op, edges, g.EdgeCount())
	}
}

// NewTriangle builds three nodes at Origin, East3, North4 with edges 0–1, 1–2.
func NewTriangle(t *testing.T, opts ...core.GraphOption) (*core.Graph, [3]core.NodeID) {
	t.Helper()
	g := core.NewGraph(opts...)
	ids := [3]core.NodeID{g.AddNode(Origin), g.AddNode(East3), g.AddNode(North4)}
	MustNoError(t, g.AddEdge(ids[0], ids[1]), "AddEdge(0,1)")
	MustNoError(t, g.AddEdge(ids[1], ids[2]), "AddEdge(1,2)")

	return g, ids
}
