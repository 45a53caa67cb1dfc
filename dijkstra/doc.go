// Package dijkstra finds shortest routes through a waypoint graph.
//
// Edge weights are not stored anywhere: the weight of (u, v) is the
// Euclidean distance between the live positions of u and v, read from the
// graph at the moment the edge is relaxed. A route computed a second later
// may therefore cost a little more or less if the tracker refined its
// estimates in between.
//
// Algorithm:
//
//  1. Every node starts unvisited with dist = Sentinel and prev = core.NoNode.
//  2. The fringe is seeded with (start, 0, NoNode).
//  3. Pop the cheapest entry. A node already visited is a stale lazy entry and
//     is skipped. Otherwise the node is visited, its dist and prev are fixed,
//     and one entry per unvisited neighbor is inserted.
//  4. Stop when the fringe is empty.
//  5. Walk prev back from the goal.
//
// Unreachable goals:
//
// When the goal is never visited the walk yields the one-element route
// [goal] and Dist[goal] stays at Sentinel. Callers check Result.Reachable
// before trusting the route, or pass WithStrictReachability to get
// ErrUnreachable instead.
//
// Complexity:
//
//   - Time:  O(E log E + E·V) in the worst case: the fringe search is
//     logarithmic, the shift linear. Graphs here hold tens of nodes.
//   - Space: O(V + E).
//
// Errors (sentinel):
//
//   - ErrNilGraph     if the graph is nil.
//   - ErrUnknownNode  if start or goal is not live (wraps core.ErrUnknownNode).
//   - ErrInvariant    if the graph or fringe is found in an impossible state.
//   - ErrUnreachable  only with WithStrictReachability.
package dijkstra
