package dijkstra

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/waypath/core"
	"github.com/katalvlaran/waypath/spatial"
)

// Sentinel is the distance of a node the search has not reached. Real
// distances in this domain are meters inside a building and stay far below it.
const Sentinel = 99999999.9

// Sentinel errors returned by Route and ShortestFrom.
var (
	// ErrNilGraph indicates that a nil Graph was passed.
	ErrNilGraph = errors.New("dijkstra: graph is nil")

	// ErrUnknownNode indicates that start or goal is not a live node.
	ErrUnknownNode = fmt.Errorf("dijkstra: %w", core.ErrUnknownNode)

	// ErrInvariant indicates a defective graph or fringe state. It is never
	// a user error and the operation must not be retried.
	ErrInvariant = errors.New("dijkstra: internal invariant violated")

	// ErrUnreachable indicates that the goal lies in another component.
	// Returned only when WithStrictReachability is set.
	ErrUnreachable = errors.New("dijkstra: goal is unreachable from start")
)

// Graph is the read-only view the search needs. *core.Graph satisfies it.
type Graph interface {
	HasNode(id core.NodeID) bool
	Nodes() []core.NodeID
	Neighbors(id core.NodeID) ([]core.NodeID, error)
	Position(id core.NodeID) (spatial.Vector3, error)
}

// Options configures a search.
//
// StrictReachability – return ErrUnreachable instead of the one-element route.
type Options struct {
	StrictReachability bool
}

// Option represents a functional option for configuring a search.
type Option func(*Options)

// WithStrictReachability makes Route fail with ErrUnreachable when the goal
// cannot be reached, instead of returning [goal].
func WithStrictReachability() Option {
	return func(o *Options) {
		o.StrictReachability = true
	}
}

// DefaultOptions returns the compatible defaults: unreachable goals produce
// the degenerate route.
func DefaultOptions() Options {
	return Options{StrictReachability: false}
}

// Tree is the outcome of a single-source search.
//
// Dist holds every node of the graph at search time; unreached nodes map to
// Sentinel. Prev maps each node to its predecessor on the cheapest route, or
// core.NoNode. Visited lists nodes in the order they were finalized.
type Tree struct {
	Start   core.NodeID
	Dist    map[core.NodeID]float64
	Prev    map[core.NodeID]core.NodeID
	Visited []core.NodeID
}

// Reaches reports whether id was visited.
func (t *Tree) Reaches(id core.NodeID) bool {
	d, ok := t.Dist[id]

	return ok && d < Sentinel
}

// PathTo walks prev pointers back from goal. If goal was never reached the
// result is [goal].
func (t *Tree) PathTo(goal core.NodeID) []core.NodeID {
	path := []core.NodeID{goal}
	if !t.Reaches(goal) {
		return path
	}
	// A prev chain longer than the node count would mean a cycle.
	for cur := t.Prev[goal]; cur != core.NoNode && len(path) <= len(t.Dist); cur = t.Prev[cur] {
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path
}

// Result is a route from Start to Goal together with the search tree it was
// read from.
type Result struct {
	Tree
	Goal core.NodeID
	Path []core.NodeID
}

// Reachable reports whether Path really starts at Start.
func (r *Result) Reachable() bool { return r.Reaches(r.Goal) }

// Cost returns Dist[Goal]: the route length, or Sentinel when unreachable.
func (r *Result) Cost() float64 { return r.Dist[r.Goal] }

// Segment is one drawable leg of a route.
type Segment struct {
	From, To       core.NodeID
	FromPos, ToPos spatial.Vector3
}

// Length returns the current Euclidean length of the segment.
func (s Segment) Length() float64 { return spatial.Distance(s.FromPos, s.ToPos) }

// Segments returns the consecutive legs of Path with positions read from g
// now. A single-node path has no legs.
func (r *Result) Segments(g Graph) ([]Segment, error) {
	if len(r.Path) < 2 {
		return nil, nil
	}
	out := make([]Segment, 0, len(r.Path)-1)
	prev, err := g.Position(r.Path[0])
	if err != nil {
		return nil, fmt.Errorf("dijkstra: segment start %d: %w", r.Path[0], err)
	}
	for i := 1; i < len(r.Path); i++ {
		cur, err := g.Position(r.Path[i])
		if err != nil {
			return nil, fmt.Errorf("dijkstra: segment node %d: %w", r.Path[i], err)
		}
		out = append(out, Segment{From: r.Path[i-1], To: r.Path[i], FromPos: prev, ToPos: cur})
		prev = cur
	}

	return out, nil
}
