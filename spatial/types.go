package spatial

import (
	"errors"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Sentinel errors for spatial operations.
var (
	// ErrBadSnapshot indicates that a world snapshot could not be decoded.
	ErrBadSnapshot = errors.New("spatial: malformed world snapshot")

	// ErrNoHit indicates that a screen point did not intersect any surface.
	ErrNoHit = errors.New("spatial: hit test found no surface")
)

// Vector3 is a position in world space, in meters.
type Vector3 = v3.Vec

// ScreenPoint is a tap location in view coordinates.
type ScreenPoint struct {
	X, Y float64
}

// Anchor is a tracked position as restored from a world snapshot.
// Name is stable across save/load and defines the anchor ordering.
type Anchor struct {
	Name     string
	Position Vector3
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Vector3) float64 {
	return a.Sub(b).Length()
}

// Finite reports whether every component of p is a finite number.
func Finite(p Vector3) bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0) &&
		!math.IsNaN(p.Z) && !math.IsInf(p.Z, 0)
}

// Locator reports the live position of a tracked anchor.
// The returned value may change between calls.
type Locator interface {
	CurrentPosition(key int64) (Vector3, bool)
}

// Tracker registers and releases anchors with the tracking session.
type Tracker interface {
	Track(key int64, at Vector3)
	Untrack(key int64)
}

// HitTester resolves a screen tap into a world position.
type HitTester interface {
	HitTest(p ScreenPoint) (Vector3, bool)
}

// Archiver saves and restores the provider's own world snapshot.
// The snapshot is opaque to the engine. DecodeWorld reads a snapshot without
// touching tracked state. RestoreWorld replaces all tracked anchors. Both
// return the anchors ordered by Name.
type Archiver interface {
	WorldSnapshot() ([]byte, error)
	DecodeWorld(blob []byte) ([]Anchor, error)
	RestoreWorld(blob []byte) ([]Anchor, error)
}

// Provider is the complete Spatial Provider contract.
type Provider interface {
	Locator
	Tracker
	HitTester
	Archiver
	// Reset drops every tracked anchor.
	Reset()
}
