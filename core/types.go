package core

import (
	"errors"

	"github.com/katalvlaran/waypath/spatial"
)

// Sentinel errors for core graph operations.
var (
	// ErrUnknownNode indicates an operation referenced a non-existent node.
	ErrUnknownNode = errors.New("core: unknown node")

	// ErrBadPosition indicates a non-finite position was supplied on restore.
	ErrBadPosition = errors.New("core: position is not finite")

	// ErrBadAdjacency indicates a restored adjacency list is malformed.
	ErrBadAdjacency = errors.New("core: malformed adjacency list")
)

// NodeID is the stable identity of a waypoint.
type NodeID int64

// NoNode stands for "no node": no predecessor, no nearby match.
const NoNode NodeID = -1

// slot is one arena cell. A vacant slot has live == false and no adjacency.
type slot struct {
	id       NodeID
	pos      spatial.Vector3
	adj      map[NodeID]struct{}
	rendered bool
	live     bool
}

// Source is the part of the Spatial Provider the graph depends on.
type Source interface {
	spatial.Locator
	spatial.Tracker
}

// Graph is the waypoint store.
//
// slots is the arena; index maps a live NodeID to its slot; free lists vacant
// slots for reuse; nextID is the next identifier to hand out.
type Graph struct {
	source Source

	slots  []slot
	index  map[NodeID]int
	free   []int
	nextID NodeID
	edges  int
}

// GraphOption configures a Graph before first use.
type GraphOption func(g *Graph)

// WithSource attaches a Spatial Provider. New nodes are tracked with it and
// every position read is answered by it.
func WithSource(src Source) GraphOption {
	return func(g *Graph) { g.source = src }
}

// WithCapacity pre-sizes the arena for n nodes.
func WithCapacity(n int) GraphOption {
	return func(g *Graph) {
		if n > 0 {
			g.slots = make([]slot, 0, n)
			g.index = make(map[NodeID]int, n)
		}
	}
}

// NewGraph creates an empty Graph.
// Complexity: O(1)
func NewGraph(opts ...GraphOption) *Graph {
	g := &Graph{index: make(map[NodeID]int)}
	for _, opt := range opts {
		opt(g)
	}

	return g
}
