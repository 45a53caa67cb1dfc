package editor

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/waypath/core"
	"github.com/katalvlaran/waypath/internal/ctxlog"
	"github.com/katalvlaran/waypath/names"
	"github.com/katalvlaran/waypath/spatial"
)

// Sentinel errors for editor operations.
var (
	// ErrNoNodeNearby indicates a gesture landed too far from every waypoint.
	ErrNoNodeNearby = errors.New("editor: no waypoint near that spot")

	// ErrNothingPlaced indicates NameLastPlaced was called before any
	// waypoint was placed, or after the last one was removed.
	ErrNothingPlaced = errors.New("editor: no waypoint placed yet")

	// ErrInvariant wraps core.ErrUnknownNode surfacing from an id the editor
	// itself resolved. It means graph and editor state disagree.
	ErrInvariant = errors.New("editor: graph invariant violated")
)

// Editor owns the compound mutations of a graph and its directory.
type Editor struct {
	graph *core.Graph
	dir   *names.Directory

	lastPlaced core.NodeID
	pending    core.NodeID
}

// New returns an Editor over g and dir. dir must validate against g.
func New(g *core.Graph, dir *names.Directory) *Editor {
	return &Editor{graph: g, dir: dir, lastPlaced: core.NoNode, pending: core.NoNode}
}

// Graph returns the edited graph.
func (e *Editor) Graph() *core.Graph { return e.graph }

// Directory returns the edited name directory.
func (e *Editor) Directory() *names.Directory { return e.dir }

// LastPlaced returns the most recently placed live node, or core.NoNode.
func (e *Editor) LastPlaced() core.NodeID { return e.lastPlaced }

// PlaceNode adds a waypoint at pos and remembers it as the last placed.
func (e *Editor) PlaceNode(ctx context.Context, pos spatial.Vector3) core.NodeID {
	id := e.graph.AddNode(pos)
	e.lastPlaced = id
	ctxlog.FromContext(ctx).Debug("waypoint placed", "node", id, "x", pos.X, "y", pos.Y, "z", pos.Z)

	return id
}

// ConnectNearest links the waypoints nearest to a and b.
func (e *Editor) ConnectNearest(ctx context.Context, a, b spatial.Vector3, maxDistance float64) error {
	na, nb, err := e.snapPair(a, b, maxDistance)
	if err != nil {
		return err
	}
	if err := e.graph.AddEdge(na, nb); err != nil {
		return e.invariant(ctx, "connect", err)
	}
	ctxlog.FromContext(ctx).Debug("waypoints linked", "from", na, "to", nb)

	return nil
}

// DisconnectNearest removes the link between the waypoints nearest to a and b.
// Disconnecting two waypoints that are not linked is a no-op.
func (e *Editor) DisconnectNearest(ctx context.Context, a, b spatial.Vector3, maxDistance float64) error {
	na, nb, err := e.snapPair(a, b, maxDistance)
	if err != nil {
		return err
	}
	if err := e.graph.RemoveEdge(na, nb); err != nil {
		return e.invariant(ctx, "disconnect", err)
	}
	ctxlog.FromContext(ctx).Debug("waypoints unlinked", "from", na, "to", nb)

	return nil
}

// DeleteNearest removes the waypoint nearest to p together with its names
// and links, and returns its id.
func (e *Editor) DeleteNearest(ctx context.Context, p spatial.Vector3, maxDistance float64) (core.NodeID, error) {
	id := e.graph.NearestNode(p, maxDistance)
	if id == core.NoNode {
		return core.NoNode, ErrNoNodeNearby
	}

	dropped := e.dir.UnbindAll(id)
	if err := e.graph.RemoveNode(id); err != nil {
		return core.NoNode, e.invariant(ctx, "delete", err)
	}
	if e.lastPlaced == id {
		e.lastPlaced = core.NoNode
	}
	if e.pending == id {
		e.pending = core.NoNode
	}
	ctxlog.FromContext(ctx).Info("waypoint removed", "node", id, "names", dropped)

	return id, nil
}

// NameNode binds name to id, replacing any earlier binding of name.
func (e *Editor) NameNode(ctx context.Context, name string, id core.NodeID) error {
	if err := e.dir.Bind(name, id); err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Info("waypoint named", "node", id, "name", names.Normalize(name))

	return nil
}

// NameLastPlaced binds name to the most recently placed waypoint.
func (e *Editor) NameLastPlaced(ctx context.Context, name string) (core.NodeID, error) {
	id := e.lastPlaced
	if id == core.NoNode || !e.graph.HasNode(id) {
		return core.NoNode, ErrNothingPlaced
	}
	if err := e.NameNode(ctx, name, id); err != nil {
		if errors.Is(err, core.ErrUnknownNode) {
			return core.NoNode, e.invariant(ctx, "name", err)
		}
		return core.NoNode, err
	}

	return id, nil
}

// ResetAll clears the graph, the directory and all gesture state.
// The attached spatial source loses every anchor through core.Graph.Clear.
func (e *Editor) ResetAll(ctx context.Context) {
	nodes, edges, named := e.graph.NodeCount(), e.graph.EdgeCount(), e.dir.Len()
	e.graph.Clear()
	e.dir.Clear()
	e.lastPlaced = core.NoNode
	e.pending = core.NoNode
	ctxlog.FromContext(ctx).Info("map reset", "nodes", nodes, "edges", edges, "names", named)
}

// snapPair resolves both spots or fails with ErrNoNodeNearby.
func (e *Editor) snapPair(a, b spatial.Vector3, maxDistance float64) (core.NodeID, core.NodeID, error) {
	na := e.graph.NearestNode(a, maxDistance)
	if na == core.NoNode {
		return core.NoNode, core.NoNode, fmt.Errorf("%w: first point", ErrNoNodeNearby)
	}
	nb := e.graph.NearestNode(b, maxDistance)
	if nb == core.NoNode {
		return core.NoNode, core.NoNode, fmt.Errorf("%w: second point", ErrNoNodeNearby)
	}

	return na, nb, nil
}

// invariant logs and wraps a core error on an id the editor resolved itself.
// Errors other than core.ErrUnknownNode pass through unchanged.
func (e *Editor) invariant(ctx context.Context, op string, err error) error {
	if !errors.Is(err, core.ErrUnknownNode) {
		return err
	}
	ctxlog.FromContext(ctx).Error("editor state out of sync with graph", "op", op, "error", err)

	return fmt.Errorf("%w: %s: %w", ErrInvariant, op, err)
}
