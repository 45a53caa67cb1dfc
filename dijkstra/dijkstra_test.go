// Package dijkstra_test contains unit tests for route computation over
// waypoint graphs: validation, the reference scenario, brute-force
// verification, unreachable goals, live position drift and invariant
// failures.
package dijkstra_test

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/waypath/core"
	"github.com/katalvlaran/waypath/dijkstra"
	"github.com/katalvlaran/waypath/spatial"
)

const eps = 1e-9

// ------------------------------------------------------------------------
// 1. Validation
// ------------------------------------------------------------------------

func TestRoute_NilGraph(t *testing.T) {
	_, err := dijkstra.Route(nil, 0, 0)
	require.ErrorIs(t, err, dijkstra.ErrNilGraph)

	_, err = dijkstra.ShortestFrom(nil, 0)
	require.ErrorIs(t, err, dijkstra.ErrNilGraph)
}

func TestRoute_UnknownEndpoints(t *testing.T) {
	g := core.NewGraph()
	a := g.AddNode(spatial.Vector3{})

	_, err := dijkstra.Route(g, a, 7)
	require.ErrorIs(t, err, dijkstra.ErrUnknownNode)
	require.ErrorIs(t, err, core.ErrUnknownNode)

	_, err = dijkstra.Route(g, 7, a)
	require.ErrorIs(t, err, dijkstra.ErrUnknownNode)
}

// ------------------------------------------------------------------------
// 2. Reference scenarios
// ------------------------------------------------------------------------

// TestRoute_ThreeWaypoints is the (0,0,0)-(3,0,0)-(3,4,0) walk: 3 + 4 = 8.
func TestRoute_ThreeWaypoints(t *testing.T) {
	g := core.NewGraph()
	n0 := g.AddNode(spatial.Vector3{})
	n1 := g.AddNode(spatial.Vector3{X: 3})
	n2 := g.AddNode(spatial.Vector3{X: 3, Y: 4})
	require.NoError(t, g.AddEdge(n0, n1))
	require.NoError(t, g.AddEdge(n1, n2))

	res, err := dijkstra.Route(g, n0, n2)
	require.NoError(t, err)
	if diff := cmp.Diff([]core.NodeID{0, 1, 2}, res.Path); diff != "" {
		t.Fatalf("path mismatch (-want +got):\n%s", diff)
	}
	require.InDelta(t, 8.0, res.Dist[n2], eps)
	require.InDelta(t, 8.0, res.Cost(), eps)
	require.True(t, res.Reachable())
	require.Equal(t, []core.NodeID{n0, n1, n2}, res.Visited)
	require.Equal(t, core.NoNode, res.Prev[n0])
}

func TestRoute_StartIsGoal(t *testing.T) {
	g := core.NewGraph()
	a := g.AddNode(spatial.Vector3{X: 1})

	res, err := dijkstra.Route(g, a, a)
	require.NoError(t, err)
	require.Equal(t, []core.NodeID{a}, res.Path)
	require.True(t, res.Reachable())
	require.Zero(t, res.Cost())
}

// TestRoute_Unreachable keeps the one-element contract by default and
// reports ErrUnreachable in strict mode.
func TestRoute_Unreachable(t *testing.T) {
	g := core.NewGraph()
	a := g.AddNode(spatial.Vector3{})
	b := g.AddNode(spatial.Vector3{X: 1})
	c := g.AddNode(spatial.Vector3{X: 10})
	d := g.AddNode(spatial.Vector3{X: 11})
	require.NoError(t, g.AddEdge(a, b))
	require.NoError(t, g.AddEdge(c, d))

	res, err := dijkstra.Route(g, a, d)
	require.NoError(t, err)
	require.Equal(t, []core.NodeID{d}, res.Path)
	require.Equal(t, dijkstra.Sentinel, res.Dist[d])
	require.False(t, res.Reachable())
	require.Equal(t, core.NoNode, res.Prev[d])

	res, err = dijkstra.Route(g, a, d, dijkstra.WithStrictReachability())
	require.ErrorIs(t, err, dijkstra.ErrUnreachable)
	require.NotNil(t, res)
	require.Equal(t, []core.NodeID{d}, res.Path)
}

// ------------------------------------------------------------------------
// 3. Brute force
// ------------------------------------------------------------------------

// fiveNodes returns a pentagon-ish graph with two competing corridors.
func fiveNodes(t *testing.T) *core.Graph {
	t.Helper()
	g := core.NewGraph()
	for _, p := range []spatial.Vector3{
		{X: 0, Y: 0},
		{X: 1, Y: 2},
		{X: 3, Y: 0},
		{X: 2, Y: -2},
		{X: 5, Y: 1},
	} {
		g.AddNode(p)
	}
	for _, e := range [][2]core.NodeID{{0, 1}, {0, 3}, {1, 2}, {3, 2}, {2, 4}, {1, 4}, {0, 2}} {
		require.NoError(t, g.AddEdge(e[0], e[1]))
	}

	return g
}

// bruteForce enumerates every simple path from start to goal and returns the
// cheapest cost, or +Inf.
func bruteForce(t *testing.T, g *core.Graph, start, goal core.NodeID) float64 {
	t.Helper()
	best := math.Inf(1)
	seen := map[core.NodeID]bool{start: true}
	var walk func(cur core.NodeID, cost float64)
	walk = func(cur core.NodeID, cost float64) {
		if cur == goal {
			best = math.Min(best, cost)
			return
		}
		nbrs, err := g.Neighbors(cur)
		require.NoError(t, err)
		pc, _ := g.Position(cur)
		for _, n := range nbrs {
			if seen[n] {
				continue
			}
			pn, _ := g.Position(n)
			seen[n] = true
			walk(n, cost+spatial.Distance(pc, pn))
			seen[n] = false
		}
	}
	walk(start, 0)

	return best
}

// pathCost sums the live edge lengths along path and fails on a non-edge.
func pathCost(t *testing.T, g *core.Graph, path []core.NodeID) float64 {
	t.Helper()
	total := 0.0
	for i := 1; i < len(path); i++ {
		require.True(t, g.HasEdge(path[i-1], path[i]), "hop %d-%d is not an edge", path[i-1], path[i])
		a, _ := g.Position(path[i-1])
		b, _ := g.Position(path[i])
		total += spatial.Distance(a, b)
	}

	return total
}

func TestRoute_MatchesBruteForce(t *testing.T) {
	g := fiveNodes(t)
	for _, start := range g.Nodes() {
		for _, goal := range g.Nodes() {
			res, err := dijkstra.Route(g, start, goal)
			require.NoError(t, err)

			want := bruteForce(t, g, start, goal)
			require.InDelta(t, want, res.Cost(), eps, "%d -> %d", start, goal)
			require.Equal(t, start, res.Path[0])
			require.Equal(t, goal, res.Path[len(res.Path)-1])
			require.InDelta(t, res.Cost(), pathCost(t, g, res.Path), eps)
		}
	}
}

// ------------------------------------------------------------------------
// 4. Live positions
// ------------------------------------------------------------------------

// TestRoute_FollowsDrift moves a waypoint between two queries; the second
// route must avoid the corridor that became longer.
func TestRoute_FollowsDrift(t *testing.T) {
	mem := spatial.NewMemory()
	g := core.NewGraph(core.WithSource(mem))
	a := g.AddNode(spatial.Vector3{})
	up := g.AddNode(spatial.Vector3{X: 1, Y: 1})
	down := g.AddNode(spatial.Vector3{X: 1, Y: -1})
	b := g.AddNode(spatial.Vector3{X: 2})
	for _, e := range [][2]core.NodeID{{a, up}, {up, b}, {a, down}, {down, b}} {
		require.NoError(t, g.AddEdge(e[0], e[1]))
	}

	// Equal corridors: the one queued first wins.
	res, err := dijkstra.Route(g, a, b)
	require.NoError(t, err)
	require.Equal(t, []core.NodeID{a, up, b}, res.Path)
	require.InDelta(t, 2*math.Sqrt2, res.Cost(), eps)

	require.True(t, mem.Move(int64(up), spatial.Vector3{X: 1, Y: 5}))
	res, err = dijkstra.Route(g, a, b)
	require.NoError(t, err)
	require.Equal(t, []core.NodeID{a, down, b}, res.Path)
}

func TestResult_Segments(t *testing.T) {
	g := fiveNodes(t)
	res, err := dijkstra.Route(g, 0, 4)
	require.NoError(t, err)

	segs, err := res.Segments(g)
	require.NoError(t, err)
	require.Len(t, segs, len(res.Path)-1)
	total := 0.0
	for i, s := range segs {
		require.Equal(t, res.Path[i], s.From)
		require.Equal(t, res.Path[i+1], s.To)
		total += s.Length()
	}
	require.InDelta(t, res.Cost(), total, eps)

	single := &dijkstra.Result{Path: []core.NodeID{4}}
	segs, err = single.Segments(g)
	require.NoError(t, err)
	require.Empty(t, segs)
}

func TestShortestFrom_Tree(t *testing.T) {
	g := fiveNodes(t)
	lone := g.AddNode(spatial.Vector3{Z: 9})

	tree, err := dijkstra.ShortestFrom(g, 0)
	require.NoError(t, err)
	require.Len(t, tree.Visited, 5)
	require.False(t, tree.Reaches(lone))
	require.Equal(t, []core.NodeID{lone}, tree.PathTo(lone))
	for _, id := range tree.Visited {
		require.Equal(t, core.NodeID(0), tree.PathTo(id)[0])
	}
	// Visit order is non-decreasing in distance.
	for i := 1; i < len(tree.Visited); i++ {
		require.LessOrEqual(t, tree.Dist[tree.Visited[i-1]], tree.Dist[tree.Visited[i]])
	}
}

// ------------------------------------------------------------------------
// 5. Invariant failures
// ------------------------------------------------------------------------

// brokenGraph reports a neighbor it cannot place.
type brokenGraph struct{}

func (brokenGraph) HasNode(id core.NodeID) bool { return id == 0 }
func (brokenGraph) Nodes() []core.NodeID       { return []core.NodeID{0} }
func (brokenGraph) Neighbors(core.NodeID) ([]core.NodeID, error) {
	return []core.NodeID{1}, nil
}
func (brokenGraph) Position(id core.NodeID) (spatial.Vector3, error) {
	if id != 0 {
		return spatial.Vector3{}, core.ErrUnknownNode
	}
	return spatial.Vector3{}, nil
}

func TestRoute_InvariantViolation(t *testing.T) {
	_, err := dijkstra.Route(brokenGraph{}, 0, 0)
	require.ErrorIs(t, err, dijkstra.ErrInvariant)
	require.True(t, errors.Is(err, core.ErrUnknownNode))
}
