package dijkstra

import (
	"fmt"

	"github.com/katalvlaran/waypath/core"
	"github.com/katalvlaran/waypath/fringe"
	"github.com/katalvlaran/waypath/spatial"
)

// Route computes the cheapest route from start to goal over g.
//
// Preconditions (in order):
//  1. g must be non-nil (ErrNilGraph).
//  2. start and goal must be live (ErrUnknownNode).
//
// With default options an unreachable goal is not an error: the Result holds
// Path == [goal] and Cost() == Sentinel.
func Route(g Graph, start, goal core.NodeID, opts ...Option) (*Result, error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	if g == nil {
		return nil, ErrNilGraph
	}
	if !g.HasNode(goal) {
		return nil, fmt.Errorf("%w: goal %d", ErrUnknownNode, goal)
	}

	tree, err := ShortestFrom(g, start)
	if err != nil {
		return nil, err
	}

	res := &Result{Tree: *tree, Goal: goal, Path: tree.PathTo(goal)}
	if cfg.StrictReachability && !res.Reachable() {
		return res, fmt.Errorf("%w: %d -> %d", ErrUnreachable, start, goal)
	}

	return res, nil
}

// ShortestFrom runs the search from start to exhaustion and returns the
// full distance and predecessor tree.
func ShortestFrom(g Graph, start core.NodeID) (*Tree, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	if !g.HasNode(start) {
		return nil, fmt.Errorf("%w: start %d", ErrUnknownNode, start)
	}

	r := &runner{g: g}
	r.init(start)
	if err := r.process(); err != nil {
		return nil, err
	}

	return &Tree{Start: start, Dist: r.dist, Prev: r.prev, Visited: r.order}, nil
}

// runner holds the mutable state for a single search.
type runner struct {
	g       Graph
	dist    map[core.NodeID]float64     // finalized distance, Sentinel until visited
	prev    map[core.NodeID]core.NodeID // predecessor, NoNode until visited
	best    map[core.NodeID]float64     // cheapest tentative distance queued so far
	visited map[core.NodeID]bool
	order   []core.NodeID
	fringe  *fringe.Fringe
}

// init marks every node unvisited and seeds the fringe with the start.
func (r *runner) init(start core.NodeID) {
	nodes := r.g.Nodes()
	r.dist = make(map[core.NodeID]float64, len(nodes))
	r.prev = make(map[core.NodeID]core.NodeID, len(nodes))
	r.best = make(map[core.NodeID]float64, len(nodes))
	r.visited = make(map[core.NodeID]bool, len(nodes))
	r.order = make([]core.NodeID, 0, len(nodes))
	for _, id := range nodes {
		r.dist[id] = Sentinel
		r.prev[id] = core.NoNode
		r.best[id] = Sentinel
	}

	r.fringe = fringe.New(len(nodes))
	r.best[start] = 0
	r.fringe.Insert(fringe.Entry{Node: start, Dist: 0, Prev: core.NoNode})
}

// process pops entries until the fringe is empty.
func (r *runner) process() error {
	for r.fringe.Len() > 0 {
		e, err := r.fringe.PopMin()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvariant, err)
		}

		// Stale lazy entry.
		if r.visited[e.Node] {
			continue
		}

		r.visited[e.Node] = true
		r.dist[e.Node] = e.Dist
		r.prev[e.Node] = e.Prev
		r.order = append(r.order, e.Node)

		if err := r.relax(e.Node); err != nil {
			return err
		}
	}

	return nil
}

// relax queues one entry per unvisited neighbor of u whose tentative
// distance improves. Positions are read live.
func (r *runner) relax(u core.NodeID) error {
	nbrs, err := r.g.Neighbors(u)
	if err != nil {
		return fmt.Errorf("%w: neighbors of %d: %w", ErrInvariant, u, err)
	}
	if len(nbrs) == 0 {
		return nil
	}
	pu, err := r.g.Position(u)
	if err != nil {
		return fmt.Errorf("%w: position of %d: %w", ErrInvariant, u, err)
	}

	var pv spatial.Vector3
	for _, v := range nbrs {
		if r.visited[v] {
			continue
		}
		if pv, err = r.g.Position(v); err != nil {
			return fmt.Errorf("%w: neighbor %d of %d: %w", ErrInvariant, v, u, err)
		}

		nd := r.dist[u] + spatial.Distance(pu, pv)
		// Equal costs keep the entry queued first, as the fringe would.
		if best, ok := r.best[v]; ok && nd >= best {
			continue
		}
		r.best[v] = nd
		r.fringe.Insert(fringe.Entry{Node: v, Dist: nd, Prev: u})
	}

	return nil
}
