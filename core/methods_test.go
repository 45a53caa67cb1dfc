// SPDX-License-Identifier: MIT
// Package core_test verifies core.Graph method-level contracts.

package core_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/katalvlaran/waypath/core"
	"github.com/katalvlaran/waypath/spatial"
)

// TestGraph_AddRemoveNode VERIFIES node lifecycle and stable identity.
func TestGraph_AddRemoveNode(t *testing.T) {
	g := core.NewGraph()

	a := g.AddNode(Origin)
	b := g.AddNode(East3)
	if a != 0 || b != 1 {
		t.Fatalf("ids = %d,%d; want 0,1", a, b)
	}

	MustErrorIs(t, g.RemoveNode(42), core.ErrUnknownNode, "RemoveNode(missing)")
	MustNoError(t, g.RemoveNode(a), "RemoveNode(a)")
	if g.HasNode(a) {
		t.Fatal("HasNode(a) after removal")
	}
	MustErrorIs(t, g.RemoveNode(a), core.ErrUnknownNode, "RemoveNode(a) twice")

	// The vacated slot is reused, the id is not.
	c := g.AddNode(North4)
	if c != 2 {
		t.Fatalf("id after removal = %d; want 2", c)
	}
	MustEqualIDs(t, g.Nodes(), []core.NodeID{b, c}, "Nodes()")
	if g.NodeCount() != 2 || g.NextID() != 3 {
		t.Fatalf("NodeCount=%d NextID=%d; want 2, 3", g.NodeCount(), g.NextID())
	}
}

// TestGraph_EdgeLifecycle VERIFIES idempotent, symmetric edge operations.
func TestGraph_EdgeLifecycle(t *testing.T) {
	g := core.NewGraph()
	a, b := g.AddNode(Origin), g.AddNode(East3)

	MustErrorIs(t, g.AddEdge(a, 99), core.ErrUnknownNode, "AddEdge(a, missing)")
	MustErrorIs(t, g.AddEdge(99, a), core.ErrUnknownNode, "AddEdge(missing, a)")
	MustErrorIs(t, g.RemoveEdge(a, 99), core.ErrUnknownNode, "RemoveEdge(a, missing)")

	MustNoError(t, g.AddEdge(a, b), "AddEdge(a,b)")
	once := g.AdjacencyList()
	MustNoError(t, g.AddEdge(a, b), "AddEdge(a,b) again")
	MustNoError(t, g.AddEdge(b, a), "AddEdge(b,a)")
	twice := g.AdjacencyList()
	for id := range once {
		MustEqualIDs(t, twice[id], once[id], "adjacency after repeated AddEdge")
	}
	if g.EdgeCount() != 1 {
		t.Fatalf("EdgeCount = %d; want 1", g.EdgeCount())
	}

	// Self edges are ignored.
	MustNoError(t, g.AddEdge(a, a), "AddEdge(a,a)")
	if g.HasEdge(a, a) {
		t.Fatal("self edge stored")
	}

	MustNoError(t, g.RemoveEdge(b, a), "RemoveEdge(b,a)")
	MustNoError(t, g.RemoveEdge(a, b), "RemoveEdge(a,b) missing is no-op")
	if g.HasEdge(a, b) || g.HasEdge(b, a) || g.EdgeCount() != 0 {
		t.Fatal("edge survived RemoveEdge")
	}
}

// TestGraph_RemoveNodeCascades VERIFIES neighbors forget a removed node.
func TestGraph_RemoveNodeCascades(t *testing.T) {
	g, ids := NewTriangle(t)
	MustNoError(t, g.RemoveNode(ids[1]), "RemoveNode(middle)")

	for _, id := range []core.NodeID{ids[0], ids[2]} {
		nbrs, err := g.Neighbors(id)
		MustNoError(t, err, "Neighbors")
		if len(nbrs) != 0 {
			t.Fatalf("Neighbors(%d) = %v; want none", id, nbrs)
		}
	}
	if g.EdgeCount() != 0 {
		t.Fatalf("EdgeCount = %d; want 0", g.EdgeCount())
	}
	_, err := g.Neighbors(ids[1])
	MustErrorIs(t, err, core.ErrUnknownNode, "Neighbors(removed)")
	_, err = g.Position(ids[1])
	MustErrorIs(t, err, core.ErrUnknownNode, "Position(removed)")
}

// TestGraph_SymmetryUnderRandomEdits VERIFIES adjacency symmetry after any
// sequence of AddEdge/RemoveEdge/RemoveNode/AddNode.
func TestGraph_SymmetryUnderRandomEdits(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	g := core.NewGraph()
	for i := 0; i < 12; i++ {
		g.AddNode(spatial.Vector3{X: float64(i)})
	}

	for step := 0; step < 500; step++ {
		live := g.Nodes()
		if len(live) == 0 {
			g.AddNode(Origin)
			continue
		}
		a := live[rng.Intn(len(live))]
		b := live[rng.Intn(len(live))]
		switch rng.Intn(5) {
		case 0, 1:
			MustNoError(t, g.AddEdge(a, b), "AddEdge")
		case 2:
			MustNoError(t, g.RemoveEdge(a, b), "RemoveEdge")
		case 3:
			MustNoError(t, g.RemoveNode(a), "RemoveNode")
		default:
			g.AddNode(spatial.Vector3{Y: float64(step)})
		}
		MustSymmetric(t, g, "random edit")
	}
}

// TestGraph_NearestNode VERIFIES threshold and lowest-id tie-break.
func TestGraph_NearestNode(t *testing.T) {
	g := core.NewGraph()
	if got := g.NearestNode(Origin, 1); got != core.NoNode {
		t.Fatalf("empty graph: got %d; want NoNode", got)
	}

	left := g.AddNode(spatial.Vector3{X: -1})
	right := g.AddNode(spatial.Vector3{X: 1})
	far := g.AddNode(spatial.Vector3{X: 10})

	// Equidistant: lowest id wins.
	if got := g.NearestNode(Origin, 2); got != left {
		t.Fatalf("tie: got %d; want %d", got, left)
	}
	// Everything farther than the threshold.
	if got := g.NearestNode(spatial.Vector3{X: 5.5}, 0.5); got != core.NoNode {
		t.Fatalf("out of range: got %d; want NoNode", got)
	}
	// Exactly at the threshold does not match.
	if got := g.NearestNode(spatial.Vector3{X: 1.5}, 0.5); got != core.NoNode {
		t.Fatalf("boundary: got %d; want NoNode", got)
	}
	if got := g.NearestNode(spatial.Vector3{X: 1}, 0); got != core.NoNode {
		t.Fatalf("zero bound on the node: got %d; want NoNode", got)
	}
	if got := g.NearestNode(spatial.Vector3{X: 1.2}, 0.5); got != right {
		t.Fatalf("near right: got %d; want %d", got, right)
	}
	// Negative bound is unbounded.
	if got := g.NearestNode(spatial.Vector3{X: 100}, -1); got != far {
		t.Fatalf("unbounded: got %d; want %d", got, far)
	}
}

// TestGraph_LivePositions VERIFIES reads go through the attached source.
func TestGraph_LivePositions(t *testing.T) {
	mem := spatial.NewMemory()
	g := core.NewGraph(core.WithSource(mem))
	id := g.AddNode(Origin)
	if mem.Len() != 1 {
		t.Fatalf("tracked anchors = %d; want 1", mem.Len())
	}

	mem.Move(int64(id), East3)
	p, err := g.Position(id)
	MustNoError(t, err, "Position")
	if p != East3 {
		t.Fatalf("Position = %v; want drifted %v", p, East3)
	}
	if got := g.NearestNode(East3, 0.5); got != id {
		t.Fatalf("NearestNode after drift = %d; want %d", got, id)
	}

	MustNoError(t, g.RemoveNode(id), "RemoveNode")
	if mem.Len() != 0 {
		t.Fatalf("tracked anchors after removal = %d; want 0", mem.Len())
	}
}

// TestGraph_Rendered VERIFIES the host bookkeeping flag.
func TestGraph_Rendered(t *testing.T) {
	g := core.NewGraph()
	a, b := g.AddNode(Origin), g.AddNode(East3)
	MustNoError(t, g.SetRendered(a, true), "SetRendered")
	r, err := g.Rendered(a)
	MustNoError(t, err, "Rendered")
	if !r {
		t.Fatal("Rendered(a) = false")
	}
	MustEqualIDs(t, g.Unrendered(), []core.NodeID{b}, "Unrendered")
	MustErrorIs(t, g.SetRendered(9, true), core.ErrUnknownNode, "SetRendered(missing)")
}

// TestGraph_ExportRestore VERIFIES the index-ordered persistence layout.
func TestGraph_ExportRestore(t *testing.T) {
	g, ids := NewTriangle(t)
	MustNoError(t, g.RemoveNode(ids[0]), "RemoveNode")
	x := g.AddNode(spatial.Vector3{Z: 1})
	MustNoError(t, g.AddEdge(x, ids[1]), "AddEdge")

	order, positions, adjacency := g.Export()
	MustEqualIDs(t, order, []core.NodeID{ids[1], ids[2], x}, "Export order")
	if positions[2] != (spatial.Vector3{Z: 1}) {
		t.Fatalf("positions[2] = %v", positions[2])
	}

	h := core.NewGraph()
	h.AddNode(Origin) // discarded by Restore
	MustNoError(t, h.Restore(positions, adjacency), "Restore")
	MustEqualIDs(t, h.Nodes(), []core.NodeID{0, 1, 2}, "restored ids")
	if !h.HasEdge(0, 1) || !h.HasEdge(0, 2) || h.HasEdge(1, 2) {
		t.Fatalf("restored adjacency = %v", h.AdjacencyList())
	}
	MustSymmetric(t, h, "restore")
}

// TestGraph_RestoreRejectsBadInput VERIFIES validation happens before mutation.
func TestGraph_RestoreRejectsBadInput(t *testing.T) {
	g := core.NewGraph()
	keep := g.AddNode(Origin)

	err := g.Restore([]spatial.Vector3{Origin}, [][]int{{3}})
	MustErrorIs(t, err, core.ErrBadAdjacency, "out of range index")
	err = g.Restore([]spatial.Vector3{{X: math.NaN()}}, nil)
	MustErrorIs(t, err, core.ErrBadPosition, "NaN position")
	err = g.Restore(nil, [][]int{{}})
	MustErrorIs(t, err, core.ErrBadAdjacency, "extra rows")

	if !g.HasNode(keep) {
		t.Fatal("failed Restore mutated the graph")
	}
}

// TestGraph_ClearKeepsCounter VERIFIES Clear empties the graph without reusing ids.
func TestGraph_ClearKeepsCounter(t *testing.T) {
	mem := spatial.NewMemory()
	g, _ := NewTriangle(t, core.WithSource(mem))
	g.Clear()
	if g.NodeCount() != 0 || g.EdgeCount() != 0 || mem.Len() != 0 {
		t.Fatalf("after Clear: nodes=%d edges=%d anchors=%d", g.NodeCount(), g.EdgeCount(), mem.Len())
	}
	if id := g.AddNode(Origin); id != 3 {
		t.Fatalf("id after Clear = %d; want 3", id)
	}
}
