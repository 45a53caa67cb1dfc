package spatial

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// snapshotVersion tags the Memory snapshot layout.
const snapshotVersion = 1

// anchorNameWidth zero-pads anchor names so lexical order equals key order.
const anchorNameWidth = 12

// Memory is an in-process Provider. Positions may be refined from another
// goroutine while the engine reads them.
type Memory struct {
	mu      sync.RWMutex
	anchors map[int64]Vector3
	hit     func(ScreenPoint) (Vector3, bool)
}

// MemoryOption configures a Memory provider.
type MemoryOption func(*Memory)

// WithHitFunc replaces the default floor-plane hit test.
func WithHitFunc(fn func(ScreenPoint) (Vector3, bool)) MemoryOption {
	return func(m *Memory) {
		if fn != nil {
			m.hit = fn
		}
	}
}

// WithFloor makes HitTest project screen points onto the horizontal plane y.
// Screen X maps to world X and screen Y maps to world Z.
func WithFloor(y float64) MemoryOption {
	return func(m *Memory) {
		m.hit = func(p ScreenPoint) (Vector3, bool) {
			return Vector3{X: p.X, Y: y, Z: p.Y}, true
		}
	}
}

// NewMemory returns an empty provider whose hit test lands on the y=0 floor.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{anchors: make(map[int64]Vector3)}
	WithFloor(0)(m)
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// CurrentPosition implements Locator.
func (m *Memory) CurrentPosition(key int64) (Vector3, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.anchors[key]

	return p, ok
}

// Track implements Tracker. Tracking an existing key moves it.
func (m *Memory) Track(key int64, at Vector3) {
	m.mu.Lock()
	m.anchors[key] = at
	m.mu.Unlock()
}

// Untrack implements Tracker.
func (m *Memory) Untrack(key int64) {
	m.mu.Lock()
	delete(m.anchors, key)
	m.mu.Unlock()
}

// Move refines the position of a tracked anchor, as a tracking session does
// when its world estimate improves. It reports false for unknown keys.
func (m *Memory) Move(key int64, to Vector3) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.anchors[key]; !ok {
		return false
	}
	m.anchors[key] = to

	return true
}

// Len returns the number of tracked anchors.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.anchors)
}

// HitTest implements HitTester.
func (m *Memory) HitTest(p ScreenPoint) (Vector3, bool) {
	return m.hit(p)
}

// Reset implements Provider.
func (m *Memory) Reset() {
	m.mu.Lock()
	m.anchors = make(map[int64]Vector3)
	m.mu.Unlock()
}

type memorySnapshot struct {
	Version int                    `msgpack:"v"`
	Anchors []memorySnapshotAnchor `msgpack:"a"`
}

type memorySnapshotAnchor struct {
	Name string  `msgpack:"n"`
	X    float64 `msgpack:"x"`
	Y    float64 `msgpack:"y"`
	Z    float64 `msgpack:"z"`
}

// WorldSnapshot implements Archiver. Anchors are named by their zero-padded key.
func (m *Memory) WorldSnapshot() ([]byte, error) {
	m.mu.RLock()
	snap := memorySnapshot{Version: snapshotVersion, Anchors: make([]memorySnapshotAnchor, 0, len(m.anchors))}
	for key, p := range m.anchors {
		snap.Anchors = append(snap.Anchors, memorySnapshotAnchor{
			Name: AnchorName(key),
			X:    p.X, Y: p.Y, Z: p.Z,
		})
	}
	m.mu.RUnlock()

	sort.Slice(snap.Anchors, func(i, j int) bool { return snap.Anchors[i].Name < snap.Anchors[j].Name })
	blob, err := msgpack.Marshal(&snap)
	if err != nil {
		return nil, fmt.Errorf("spatial: encode snapshot: %w", err)
	}

	return blob, nil
}

// DecodeWorld implements Archiver. Tracked anchors are left alone.
func (m *Memory) DecodeWorld(blob []byte) ([]Anchor, error) {
	var snap memorySnapshot
	if err := msgpack.Unmarshal(blob, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("%w: version %d", ErrBadSnapshot, snap.Version)
	}

	out := make([]Anchor, 0, len(snap.Anchors))
	for _, a := range snap.Anchors {
		p := Vector3{X: a.X, Y: a.Y, Z: a.Z}
		if !Finite(p) {
			return nil, fmt.Errorf("%w: anchor %q has non-finite position", ErrBadSnapshot, a.Name)
		}
		out = append(out, Anchor{Name: a.Name, Position: p})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out, nil
}

// RestoreWorld implements Archiver. Every tracked anchor is dropped once the
// blob decodes; callers re-track the returned anchors under their own keys.
func (m *Memory) RestoreWorld(blob []byte) ([]Anchor, error) {
	out, err := m.DecodeWorld(blob)
	if err != nil {
		return nil, err
	}
	m.Reset()

	return out, nil
}

// AnchorName returns the stable anchor name for key.
func AnchorName(key int64) string {
	return fmt.Sprintf("%0*d", anchorNameWidth, key)
}
