// Package core provides the waypoint graph: an arena-backed store of spatial
// nodes with stable identifiers, symmetric adjacency and live positions.
//
// The Graph G = (V,E) is undirected. Each node carries the position it was
// created at; when a spatial.Provider is attached (WithSource), every
// position read goes to the provider instead, so edge weights follow the
// tracking session's latest estimate. Edges carry no stored weight: the
// weight of a–b is |pos(a) − pos(b)| evaluated at call time.
//
// Identity:
//
//   - NodeIDs are assigned monotonically from 0 and are never reused within a
//     session, so adjacency sets and name bindings can never silently point at
//     a different node after a removal.
//   - Storage is an arena of slots plus an index map NodeID → slot. Removing a
//     node vacates its slot; vacant slots go on a free list and may host a later
//     node under a new NodeID. Slots are never compacted.
//
// Core Methods:
//
//	// Node lifecycle
//	AddNode(pos spatial.Vector3) NodeID        // O(1) amortized
//	RemoveNode(id NodeID) error                // O(deg(id))
//	HasNode(id NodeID) bool                    // O(1)
//
//	// Edge lifecycle (idempotent, symmetric)
//	AddEdge(a, b NodeID) error                 // O(1)
//	RemoveEdge(a, b NodeID) error              // O(1)
//	HasEdge(a, b NodeID) bool                  // O(1)
//
//	// Queries
//	Position(id NodeID) (spatial.Vector3, error)
//	Neighbors(id NodeID) ([]NodeID, error)     // O(d log d), ascending
//	Nodes() []NodeID                           // O(V log V), ascending
//	NearestNode(p spatial.Vector3, max float64) NodeID // O(V)
//	AdjacencyList() map[NodeID][]NodeID        // O(V + E)
//
//	// Maintenance
//	Clear()                                    // O(V)
//	Restore(positions, adjacency) error        // O(V + E)
//
// Errors:
//
//	ErrUnknownNode – the operation referenced a node id that does not exist.
//	ErrBadPosition – a restored position is not finite.
//	ErrBadAdjacency – a restored adjacency list references an out-of-range index.
//
// Thread safety:
//
//   - Graph is not safe for concurrent use. The engine drives it from a single
//     control goroutine; the attached provider may update positions
//     concurrently and the graph simply reads whatever it reports.
package core
