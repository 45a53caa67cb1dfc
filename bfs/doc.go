// Package bfs walks a waypoint graph by link count, ignoring distances.
//
// Walk returns every node reachable from a start together with its hop
// count, optionally capped with WithMaxHops; Result.Rings groups the
// reached nodes by hop count. Components partitions the whole map into
// connected islands, which is how a user finds the waypoints that still
// need a link before a route between them can exist.
//
// core.Graph.Neighbors lists ids ascending and Walk expands them in that
// order, so results are reproducible.
//
// Complexity (V = |nodes|, E = |edges|): O(V + E) time and O(V) memory
// for Walk; O(V log V + E) for Components.
package bfs
