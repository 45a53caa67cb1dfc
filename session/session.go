// Package session owns one mapping session: the spatial provider, the
// waypoint graph, the name directory, the editor working on them and the
// store they are saved to.
//
// Save turns the live state into a persist.Bundle:
//
//   - World:     the provider's own snapshot;
//   - Neighbors: graph adjacency by node index, nodes in ascending id order;
//   - Names:     name -> node index.
//
// The provider names anchors so that its restored order matches ascending
// id order. Load restores the world first, then rebuilds the graph from the
// anchors in the order the provider returns them, so node i of the bundle
// becomes the i-th anchor.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/katalvlaran/waypath/core"
	"github.com/katalvlaran/waypath/editor"
	"github.com/katalvlaran/waypath/internal/ctxlog"
	"github.com/katalvlaran/waypath/names"
	"github.com/katalvlaran/waypath/persist"
	"github.com/katalvlaran/waypath/spatial"
)

// Sentinel errors for session operations.
var (
	// ErrNoStore indicates Save or Load on a session built without a store.
	ErrNoStore = errors.New("session: no store configured")

	// ErrAnchorMismatch indicates the restored world holds a different
	// number of anchors than the saved adjacency has rows.
	ErrAnchorMismatch = errors.New("session: world anchors do not match saved graph")
)

// Session is the owned state of one mapping session. Not safe for
// concurrent use.
type Session struct {
	id       string
	provider spatial.Provider
	graph    *core.Graph
	dir      *names.Directory
	editor   *editor.Editor
	store    persist.Store
	now      func() time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithStore sets the store used by Save and Load.
func WithStore(st persist.Store) Option {
	return func(s *Session) { s.store = st }
}

// WithClock overrides the time source stamped on saved bundles.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates an empty session over provider.
func New(provider spatial.Provider, opts ...Option) *Session {
	g := core.NewGraph(core.WithSource(provider))
	dir := names.NewDirectory(g)
	s := &Session{
		id:       uuid.NewString(),
		provider: provider,
		graph:    g,
		dir:      dir,
		editor:   editor.New(g, dir),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ID returns the session identifier stamped on saved bundles.
func (s *Session) ID() string { return s.id }

// Graph returns the waypoint graph.
func (s *Session) Graph() *core.Graph { return s.graph }

// Directory returns the name directory.
func (s *Session) Directory() *names.Directory { return s.dir }

// Editor returns the editor bound to this session's graph and directory.
func (s *Session) Editor() *editor.Editor { return s.editor }

// Provider returns the spatial provider.
func (s *Session) Provider() spatial.Provider { return s.provider }

// Bundle captures the current state without writing it anywhere.
func (s *Session) Bundle() (*persist.Bundle, error) {
	world, err := s.provider.WorldSnapshot()
	if err != nil {
		return nil, fmt.Errorf("session: world snapshot: %w", err)
	}

	order, _, adjacency := s.graph.Export()
	index := make(map[core.NodeID]int, len(order))
	for i, id := range order {
		index[id] = i
	}
	nameMap := make(map[string]int, s.dir.Len())
	for _, e := range s.dir.Entries() {
		i, ok := index[e.Node]
		if !ok {
			return nil, fmt.Errorf("session: name %q: %w", e.Name, core.ErrUnknownNode)
		}
		nameMap[e.Name] = i
	}

	return &persist.Bundle{
		World:     world,
		Neighbors: adjacency,
		Names:     nameMap,
		SessionID: s.id,
		SavedAt:   s.now().UTC(),
	}, nil
}

// Save captures the current state, writes it to the store and logs a
// debug dump of what was written.
func (s *Session) Save(ctx context.Context) (*persist.Bundle, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	b, err := s.Bundle()
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, b); err != nil {
		return nil, fmt.Errorf("session: save: %w", err)
	}
	Dump(ctx, b)
	ctxlog.FromContext(ctx).Info("map saved", "session", s.id, "nodes", len(b.Neighbors), "names", len(b.Names))

	return b, nil
}

// Load replaces the current state with the stored bundle.
func (s *Session) Load(ctx context.Context) error {
	if s.store == nil {
		return ErrNoStore
	}
	b, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("session: load: %w", err)
	}
	if err := s.Apply(ctx, b); err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Info("map loaded",
		"session", s.id, "saved_by", b.SessionID, "saved_at", b.SavedAt, "nodes", s.graph.NodeCount())

	return nil
}

// Apply rebuilds provider, graph and directory from b and starts a new
// session id. The world is decoded and checked against b before anything
// is reset, so on error provider, graph and directory are left as they were.
func (s *Session) Apply(ctx context.Context, b *persist.Bundle) error {
	if err := b.Validate(); err != nil {
		return err
	}
	anchors, err := s.provider.DecodeWorld(b.World)
	if err != nil {
		return fmt.Errorf("session: restore world: %w", err)
	}
	if len(anchors) != len(b.Neighbors) {
		return fmt.Errorf("%w: %d anchors, %d rows", ErrAnchorMismatch, len(anchors), len(b.Neighbors))
	}

	positions := make([]spatial.Vector3, len(anchors))
	for i, a := range anchors {
		positions[i] = a.Position
	}
	_, live, _ := s.graph.Export()
	if _, err := s.provider.RestoreWorld(b.World); err != nil {
		return fmt.Errorf("session: restore world: %w", err)
	}
	if err := s.graph.Restore(positions, b.Neighbors); err != nil {
		// The graph kept its nodes; give the provider its anchors back.
		for i, id := range s.graph.Nodes() {
			s.provider.Track(int64(id), live[i])
		}

		return fmt.Errorf("session: rebuild graph: %w", err)
	}

	ids := s.graph.Nodes()
	s.dir.Clear()
	for _, name := range b.NameList() {
		// names were checked by Validate; Bind cannot fail here.
		_ = s.dir.Bind(name, ids[b.Names[name]])
	}
	s.editor.ForgetGestures()
	s.id = uuid.NewString()
	ctxlog.FromContext(ctx).Debug("map applied", "anchors", len(anchors), "names", s.dir.Len())

	return nil
}

// Reset clears graph, names, gesture state and every provider anchor.
func (s *Session) Reset(ctx context.Context) {
	s.editor.ResetAll(ctx)
	s.provider.Reset()
}

// Dump logs the content of b at debug level, one record per node.
func Dump(ctx context.Context, b *persist.Bundle) {
	logger := ctxlog.FromContext(ctx)
	if !logger.Enabled(ctx, slog.LevelDebug) {
		return
	}
	logger.Debug("save dump",
		"session", b.SessionID, "world_bytes", len(b.World), "world_digest", persist.Digest(b.World),
		"anchors", len(b.Neighbors))
	byIndex := make(map[int][]string, len(b.Names))
	for _, name := range b.NameList() {
		byIndex[b.Names[name]] = append(byIndex[b.Names[name]], name)
	}
	for i, row := range b.Neighbors {
		logger.Debug("save dump node", "index", i, "neighbors", row, "names", byIndex[i])
	}
}
