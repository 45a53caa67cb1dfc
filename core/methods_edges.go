// File: methods_edges.go
// Role: Edge lifecycle & queries.
//
// Edges are symmetric memberships in two adjacency sets; there is no edge
// catalog and no stored weight.

package core

import "sort"

// AddEdge connects a and b in both directions.
// It is idempotent: connecting an existing pair is a no-op, and so is a == b.
// Complexity: O(1).
func (g *Graph) AddEdge(a, b NodeID) error {
	sa, sb, err := g.pair(a, b)
	if err != nil {
		return err
	}
	if a == b {
		return nil
	}
	if _, ok := sa.adj[b]; ok {
		return nil
	}

	sa.adj[b] = struct{}{}
	sb.adj[a] = struct{}{}
	g.edges++

	return nil
}

// RemoveEdge disconnects a and b. Removing a missing edge is a no-op.
// Complexity: O(1).
func (g *Graph) RemoveEdge(a, b NodeID) error {
	sa, sb, err := g.pair(a, b)
	if err != nil {
		return err
	}
	if _, ok := sa.adj[b]; !ok {
		return nil
	}

	delete(sa.adj, b)
	delete(sb.adj, a)
	g.edges--

	return nil
}

// HasEdge reports whether a and b are connected. Unknown ids yield false.
func (g *Graph) HasEdge(a, b NodeID) bool {
	at, ok := g.index[a]
	if !ok {
		return false
	}
	_, ok = g.slots[at].adj[b]

	return ok
}

// Neighbors returns the ids adjacent to id in ascending order.
// Complexity: O(d log d).
func (g *Graph) Neighbors(id NodeID) ([]NodeID, error) {
	at, ok := g.index[id]
	if !ok {
		return nil, ErrUnknownNode
	}

	adj := g.slots[at].adj
	out := make([]NodeID, 0, len(adj))
	for nbr := range adj {
		out = append(out, nbr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out, nil
}

// Degree returns the number of neighbors of id.
func (g *Graph) Degree(id NodeID) (int, error) {
	at, ok := g.index[id]
	if !ok {
		return 0, ErrUnknownNode
	}

	return len(g.slots[at].adj), nil
}

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int { return g.edges }

// AdjacencyList returns a copy of id → sorted neighbor ids for every live node.
// Complexity: O(V + E log d).
func (g *Graph) AdjacencyList() map[NodeID][]NodeID {
	out := make(map[NodeID][]NodeID, len(g.index))
	for id := range g.index {
		out[id], _ = g.Neighbors(id)
	}

	return out
}

// pair resolves both endpoints or reports ErrUnknownNode.
func (g *Graph) pair(a, b NodeID) (*slot, *slot, error) {
	ia, ok := g.index[a]
	if !ok {
		return nil, nil, ErrUnknownNode
	}
	ib, ok := g.index[b]
	if !ok {
		return nil, nil, ErrUnknownNode
	}

	return &g.slots[ia], &g.slots[ib], nil
}
