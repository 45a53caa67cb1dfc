package bfs

import (
	"context"
	"fmt"
	"sort"

	"github.com/katalvlaran/waypath/core"
)

// Walk visits every node reachable from start in non-decreasing hop order.
// Neighbors are expanded in the order g lists them, so the visit order is
// reproducible for *core.Graph.
//
// Steps:
//  1. Validate the graph, the options and the start node.
//  2. Pop the frontier head, stopping on ctx cancellation.
//  3. Push every unseen neighbor at hops+1 unless that passes the limit.
func Walk(ctx context.Context, g Graph, start core.NodeID, opts ...Option) (*Result, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if !g.HasNode(start) {
		return nil, fmt.Errorf("%w: %d", ErrStartVertexNotFound, start)
	}

	res := &Result{
		Order: []core.NodeID{start},
		Hops:  map[core.NodeID]int{start: 0},
	}
	// res.Order doubles as the FIFO frontier; head marks the next node to expand.
	for head := 0; head < len(res.Order); head++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cur := res.Order[head]
		next := res.Hops[cur] + 1
		if o.maxHops > 0 && next > o.maxHops {
			continue
		}
		nbrs, err := g.Neighbors(cur)
		if err != nil {
			return nil, fmt.Errorf("bfs: neighbors of %d: %w", cur, err)
		}
		for _, n := range nbrs {
			if _, seen := res.Hops[n]; seen {
				continue
			}
			res.Hops[n] = next
			res.Order = append(res.Order, n)
		}
	}

	return res, nil
}

// Components partitions every live node of g into connected islands.
// Islands are ordered by their lowest id, nodes within an island ascending.
func Components(ctx context.Context, g Graph) ([][]core.NodeID, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	seen := make(map[core.NodeID]bool)
	var islands [][]core.NodeID
	for _, id := range g.Nodes() {
		if seen[id] {
			continue
		}
		res, err := Walk(ctx, g, id)
		if err != nil {
			return nil, fmt.Errorf("bfs: island of %d: %w", id, err)
		}
		for _, n := range res.Order {
			seen[n] = true
		}
		island := append([]core.NodeID(nil), res.Order...)
		sortIDs(island)
		islands = append(islands, island)
	}

	return islands, nil
}

func sortIDs(ids []core.NodeID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
