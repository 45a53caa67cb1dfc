// Package fringe provides the ordered, insert-only priority container used by
// the waypoint shortest-path search.
//
// A Fringe keeps its entries sorted ascending by tentative distance. Insert
// locates the slot with a binary search and shifts the tail; PopMin takes
// the first element. Entries are never updated in place: a better distance
// for a node is modeled by inserting a second entry, and the consumer skips
// stale ones when they surface (lazy decrease-key).
//
// Ordering guarantee:
//
//   - PopMin returns entries in non-decreasing Dist order.
//   - Entries with equal Dist pop in insertion order.
//
// Complexity:
//
//   - Insert: O(log n) search + O(n) shift.
//   - PopMin, Peek, Len: O(1).
//
// The node counts this container serves are small (tens of waypoints), so
// the linear shift never dominates. A Fringe is not safe for concurrent use.
package fringe
