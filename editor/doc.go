// Package editor applies user gestures to the waypoint graph and the name
// directory as single compound operations.
//
// Every gesture that refers to a spot in space (connect, disconnect,
// delete, select) first snaps it to the nearest waypoint within a
// proximity threshold. A spot with no waypoint strictly closer than the
// threshold yields ErrNoNodeNearby and changes nothing.
//
// Invariants kept across every method:
//
//   - adjacency stays symmetric (delegated to core.Graph);
//   - the directory never names a removed node: DeleteNearest unbinds
//     first, then removes;
//   - the remembered last-placed node and the pending edge selection never
//     point at a removed node.
//
// An Editor is not safe for concurrent use. Methods take a context only to
// pick up the request logger (internal/ctxlog).
package editor
