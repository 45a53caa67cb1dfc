// File: methods_nodes.go
// Role: Node lifecycle & queries.
//
// Determinism:
//   - Nodes() returns ids sorted ascending.
//   - AddNode ids are strictly increasing within a session.

package core

import (
	"sort"

	"github.com/katalvlaran/waypath/spatial"
)

// AddNode allocates a new node at pos and returns its id. It never fails.
//
// Steps:
//  1. Take the next id (monotonic, never reused).
//  2. Reuse a vacant slot if one exists, otherwise grow the arena.
//  3. Register the anchor with the attached source.
//
// Complexity: O(1) amortized.
func (g *Graph) AddNode(pos spatial.Vector3) NodeID {
	id := g.nextID
	g.nextID++

	s := slot{id: id, pos: pos, adj: make(map[NodeID]struct{}), live: true}
	if n := len(g.free); n > 0 {
		at := g.free[n-1]
		g.free = g.free[:n-1]
		g.slots[at] = s
		g.index[id] = at
	} else {
		g.slots = append(g.slots, s)
		g.index[id] = len(g.slots) - 1
	}

	if g.source != nil {
		g.source.Track(int64(id), pos)
	}

	return id
}

// HasNode reports whether id refers to a live node.
func (g *Graph) HasNode(id NodeID) bool {
	_, ok := g.index[id]

	return ok
}

// RemoveNode deletes id and every edge incident to it.
//
// Steps:
//  1. Lookup the slot (ErrUnknownNode if missing).
//  2. Remove id from each neighbor's adjacency set.
//  3. Untrack the anchor, vacate the slot, push it on the free list.
//
// Identifiers of other nodes are left untouched.
// Complexity: O(deg(id)).
func (g *Graph) RemoveNode(id NodeID) error {
	at, ok := g.index[id]
	if !ok {
		return ErrUnknownNode
	}

	s := &g.slots[at]
	for nbr := range s.adj {
		if nb, ok := g.index[nbr]; ok {
			delete(g.slots[nb].adj, id)
		}
		g.edges--
	}

	if g.source != nil {
		g.source.Untrack(int64(id))
	}

	*s = slot{}
	delete(g.index, id)
	g.free = append(g.free, at)

	return nil
}

// Nodes returns all live node ids in ascending order.
// Complexity: O(V log V).
func (g *Graph) Nodes() []NodeID {
	ids := make([]NodeID, 0, len(g.index))
	for id := range g.index {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

// NodeCount returns the number of live nodes.
func (g *Graph) NodeCount() int { return len(g.index) }

// NextID returns the id the next AddNode will assign.
func (g *Graph) NextID() NodeID { return g.nextID }

// Position returns the current position of id. With a source attached the
// live tracked position wins; the creation position is the fallback.
func (g *Graph) Position(id NodeID) (spatial.Vector3, error) {
	at, ok := g.index[id]
	if !ok {
		return spatial.Vector3{}, ErrUnknownNode
	}
	if g.source != nil {
		if p, ok := g.source.CurrentPosition(int64(id)); ok {
			return p, nil
		}
	}

	return g.slots[at].pos, nil
}

// Rendered reports whether the host attached a visual for id.
func (g *Graph) Rendered(id NodeID) (bool, error) {
	at, ok := g.index[id]
	if !ok {
		return false, ErrUnknownNode
	}

	return g.slots[at].rendered, nil
}

// SetRendered records whether the host attached a visual for id.
// No algorithm reads this flag.
func (g *Graph) SetRendered(id NodeID, rendered bool) error {
	at, ok := g.index[id]
	if !ok {
		return ErrUnknownNode
	}
	g.slots[at].rendered = rendered

	return nil
}

// Unrendered returns the live nodes that still lack a visual, ascending.
func (g *Graph) Unrendered() []NodeID {
	var out []NodeID
	for _, id := range g.Nodes() {
		if !g.slots[g.index[id]].rendered {
			out = append(out, id)
		}
	}

	return out
}
