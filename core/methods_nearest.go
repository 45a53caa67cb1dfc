// File: methods_nearest.go
// Role: Proximity queries used to turn taps into node references.

package core

import (
	"github.com/katalvlaran/waypath/spatial"
)

// NearestNode returns the live node whose current position is closest to p.
//
// It returns NoNode when the graph is empty or when the closest node is not
// strictly within maxDistance. Note that this is stricter than a "farther
// than maxDistance" cut-off: a node exactly at maxDistance does not match,
// and a zero maxDistance matches nothing. A negative maxDistance disables the
// bound. Ties on distance go to the lowest id.
//
// Complexity: O(V log V) (ids are visited in ascending order).
func (g *Graph) NearestNode(p spatial.Vector3, maxDistance float64) NodeID {
	best := NoNode
	bestDist := 0.0
	for _, id := range g.Nodes() {
		pos, _ := g.Position(id)
		d := spatial.Distance(p, pos)
		// strict '<' keeps the lowest id on ties because ids ascend.
		if best == NoNode || d < bestDist {
			best, bestDist = id, d
		}
	}
	if best == NoNode {
		return NoNode
	}
	if maxDistance >= 0 && bestDist >= maxDistance {
		return NoNode
	}

	return best
}
