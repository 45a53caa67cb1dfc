package bfs

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/waypath/core"
)

var (
	// ErrGraphNil is returned if a nil graph is passed.
	ErrGraphNil = errors.New("bfs: graph is nil")

	// ErrStartVertexNotFound is returned when the start id is not live.
	ErrStartVertexNotFound = errors.New("bfs: start vertex not found")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("bfs: invalid option supplied")
)

// Graph is the adjacency view a walk needs. *core.Graph satisfies it.
type Graph interface {
	HasNode(id core.NodeID) bool
	Nodes() []core.NodeID
	Neighbors(id core.NodeID) ([]core.NodeID, error)
}

// Option limits a Walk.
type Option func(*options)

type options struct {
	maxHops int // 0: unlimited
	err     error
}

// WithMaxHops stops the walk n links away from the start (inclusive).
// Zero means no limit; a negative n is an ErrOptionViolation.
func WithMaxHops(n int) Option {
	return func(o *options) {
		if n < 0 {
			o.err = fmt.Errorf("%w: max hops %d", ErrOptionViolation, n)
			return
		}
		o.maxHops = n
	}
}

// Result is the outcome of a Walk.
type Result struct {
	// Order lists the reached nodes in visit order, start first.
	Order []core.NodeID
	// Hops maps every reached node to its link count from the start.
	Hops map[core.NodeID]int
}

// Rings groups the reached nodes by hop count: Rings()[k] holds the nodes
// exactly k links from the start, ids ascending.
func (r *Result) Rings() [][]core.NodeID {
	var rings [][]core.NodeID
	for _, id := range r.Order {
		k := r.Hops[id]
		for len(rings) <= k {
			rings = append(rings, nil)
		}
		rings[k] = append(rings[k], id)
	}
	for _, ring := range rings {
		sortIDs(ring)
	}

	return rings
}
