// File: methods_restore.go
// Role: Whole-graph maintenance: Clear, index-ordered Export and Restore.
//
// Export/Restore speak the persistence layout: nodes are addressed by their
// position in an ordered list, adjacency is a list of index lists.

package core

import (
	"fmt"

	"github.com/katalvlaran/waypath/spatial"
)

// Clear removes every node and edge and untracks every anchor.
// The id counter keeps running so ids stay unique for the whole session.
// Complexity: O(V).
func (g *Graph) Clear() {
	if g.source != nil {
		for id := range g.index {
			g.source.Untrack(int64(id))
		}
	}
	g.slots = g.slots[:0]
	g.free = g.free[:0]
	g.index = make(map[NodeID]int)
	g.edges = 0
}

// Export returns the live nodes in ascending id order together with their
// current positions and their adjacency expressed as indices into order.
// Complexity: O(V log V + E log d).
func (g *Graph) Export() (order []NodeID, positions []spatial.Vector3, adjacency [][]int) {
	order = g.Nodes()
	at := make(map[NodeID]int, len(order))
	for i, id := range order {
		at[id] = i
	}

	positions = make([]spatial.Vector3, len(order))
	adjacency = make([][]int, len(order))
	for i, id := range order {
		positions[i], _ = g.Position(id)
		nbrs, _ := g.Neighbors(id)
		row := make([]int, 0, len(nbrs))
		for _, n := range nbrs {
			row = append(row, at[n])
		}
		adjacency[i] = row
	}

	return order, positions, adjacency
}

// Restore replaces the graph content with len(positions) nodes created in
// order, so node i receives the i-th id handed out after the reset, and
// connects them per adjacency. The id counter restarts at 0: a restore opens
// a new session. Entries of adjacency must be valid indices; asymmetric
// lists are symmetrized.
//
// On error the graph is left unchanged.
// Complexity: O(V + E).
func (g *Graph) Restore(positions []spatial.Vector3, adjacency [][]int) error {
	if len(adjacency) > len(positions) {
		return fmt.Errorf("%w: %d adjacency rows for %d nodes", ErrBadAdjacency, len(adjacency), len(positions))
	}
	for i, p := range positions {
		if !spatial.Finite(p) {
			return fmt.Errorf("%w: node index %d", ErrBadPosition, i)
		}
	}
	for i, row := range adjacency {
		for _, j := range row {
			if j < 0 || j >= len(positions) {
				return fmt.Errorf("%w: row %d references index %d", ErrBadAdjacency, i, j)
			}
		}
	}

	g.Clear()
	g.nextID = 0
	ids := make([]NodeID, len(positions))
	for i, p := range positions {
		ids[i] = g.AddNode(p)
	}
	for i, row := range adjacency {
		for _, j := range row {
			// indices were validated above; AddEdge cannot fail here.
			_ = g.AddEdge(ids[i], ids[j])
		}
	}

	return nil
}
