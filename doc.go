// Package waypath builds, edits and queries small spatial waypoint graphs:
// 3D waypoints joined by straight walkable legs, human names for some of
// them, and shortest routes measured on live positions.
//
// What is inside?
//
//	spatial/     Vector3, the Spatial Provider contracts and an in-memory provider
//	fringe/      sorted insert-only priority container used by the router
//	core/        arena-backed waypoint graph with stable ids and nearest-node lookup
//	names/       case-insensitive name directory that never points at a dead waypoint
//	dijkstra/    shortest route over live positions, with drawable segments
//	bfs/         hop-count traversal and islands (connected components)
//	editor/      place, link, unlink, delete, name, reset and two-tap linking
//	session/     one mapping session: provider, graph, names, editor and store
//	persist/     saved maps: file store (zstd, blake3, yaml), SQLite and BadgerDB stores
//	scenario/    HCL seed files
//	command/     text commands, destination resolution and user messages
//	config/      YAML configuration with validation
//	metrics/     Prometheus counters and histograms
//	cmd/waypath  the CLI: shell, route, import, inspect
//
// Quick ASCII example:
//
//	door(0,0,0) ── hall(3,0,0)
//	                   │
//	               desk(3,4,0)
//
//	go desk from 0 0 0  →  route 0 -> 1 -> 2, 8.00 m
//
// Positions belong to the provider: when tracking refines a waypoint, the
// next route is measured on the new position without editing the graph.
package waypath
