package editor

import (
	"context"

	"github.com/katalvlaran/waypath/core"
	"github.com/katalvlaran/waypath/internal/ctxlog"
	"github.com/katalvlaran/waypath/spatial"
)

// SelectionState is the outcome of one SelectForEdge tap.
type SelectionState int

const (
	// SelectionPending means the tap picked the first endpoint.
	SelectionPending SelectionState = iota
	// SelectionConnected means the tap picked the second endpoint and the
	// link now exists.
	SelectionConnected
	// SelectionCancelled means the pending waypoint was tapped again.
	SelectionCancelled
)

// String implements fmt.Stringer.
func (s SelectionState) String() string {
	switch s {
	case SelectionPending:
		return "pending"
	case SelectionConnected:
		return "connected"
	case SelectionCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// EdgeSelection reports what a tap did. Second is core.NoNode unless State
// is SelectionConnected.
type EdgeSelection struct {
	State  SelectionState
	First  core.NodeID
	Second core.NodeID
}

// Pending returns the waypoint waiting for a second tap, or core.NoNode.
func (e *Editor) Pending() core.NodeID { return e.pending }

// SelectForEdge is the two-tap link gesture. The first tap near a waypoint
// holds it as pending; a tap near another waypoint links the two and clears
// the selection. Tapping the pending waypoint again cancels. A tap far from
// every waypoint fails with ErrNoNodeNearby and keeps the selection.
func (e *Editor) SelectForEdge(ctx context.Context, p spatial.Vector3, maxDistance float64) (EdgeSelection, error) {
	id := e.graph.NearestNode(p, maxDistance)
	if id == core.NoNode {
		return EdgeSelection{State: SelectionPending, First: e.pending, Second: core.NoNode}, ErrNoNodeNearby
	}

	first := e.pending
	switch {
	case first == core.NoNode || !e.graph.HasNode(first):
		e.pending = id
		ctxlog.FromContext(ctx).Debug("link start selected", "node", id)
		return EdgeSelection{State: SelectionPending, First: id, Second: core.NoNode}, nil

	case first == id:
		e.pending = core.NoNode
		return EdgeSelection{State: SelectionCancelled, First: id, Second: core.NoNode}, nil
	}

	e.pending = core.NoNode
	if err := e.graph.AddEdge(first, id); err != nil {
		return EdgeSelection{}, e.invariant(ctx, "select", err)
	}
	ctxlog.FromContext(ctx).Debug("waypoints linked", "from", first, "to", id)

	return EdgeSelection{State: SelectionConnected, First: first, Second: id}, nil
}

// CancelSelection drops the pending waypoint, if any.
func (e *Editor) CancelSelection() { e.pending = core.NoNode }

// ForgetGestures drops the pending selection and the last-placed node
// without touching the graph. Used after the graph is rebuilt from storage.
func (e *Editor) ForgetGestures() {
	e.pending = core.NoNode
	e.lastPlaced = core.NoNode
}
