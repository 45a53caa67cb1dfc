// Package spatial defines the 3D vector type and the Spatial Provider contracts
// that the waypoint engine consumes.
//
// A Provider is the external collaborator that owns the world-tracking
// session: it reports live positions for tracked anchors (positions may drift
// as tracking refines its estimate), turns screen points into world positions,
// and archives its own world snapshot as an opaque blob.
//
// The engine never assumes a particular tracking technology. Memory is a
// self-contained Provider used by tests, seed scenarios and the CLI.
//
// Complexity:
//
//   - Distance: O(1).
//   - Memory.CurrentPosition / Track / Untrack: O(1) amortized.
//   - Memory.WorldSnapshot / DecodeWorld / RestoreWorld: O(A log A) for A anchors (name ordering).
package spatial
