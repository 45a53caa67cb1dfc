package command

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/katalvlaran/waypath/bfs"
	"github.com/katalvlaran/waypath/core"
	"github.com/katalvlaran/waypath/dijkstra"
	"github.com/katalvlaran/waypath/editor"
	"github.com/katalvlaran/waypath/internal/ctxlog"
	"github.com/katalvlaran/waypath/metrics"
	"github.com/katalvlaran/waypath/names"
	"github.com/katalvlaran/waypath/persist"
	"github.com/katalvlaran/waypath/session"
	"github.com/katalvlaran/waypath/spatial"
)

// DefaultThreshold is the proximity, in meters, within which a gesture
// snaps to a waypoint.
const DefaultThreshold = 0.5

var (
	// ErrNoSuchWaypoint indicates a typed waypoint id that is not live.
	ErrNoSuchWaypoint = errors.New("command: no such waypoint")

	// ErrEmptyMap indicates a command that needs at least one waypoint.
	ErrEmptyMap = errors.New("command: no waypoints placed")
)

// userErrors are reported to the user as warnings; the command is rejected
// but Execute returns nil.
var userErrors = []error{
	ErrSyntax,
	ErrUnresolvedDestination,
	ErrNoSuchWaypoint,
	ErrEmptyMap,
	editor.ErrNoNodeNearby,
	editor.ErrNothingPlaced,
	names.ErrEmptyName,
	spatial.ErrNoHit,
	dijkstra.ErrUnreachable,
	persist.ErrNotFound,
	session.ErrNoStore,
}

func isUserError(err error) bool {
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}

// Handler executes command lines against one session.
type Handler struct {
	sess      *session.Session
	notifier  Notifier
	metrics   *metrics.Metrics
	threshold float64
	strict    bool
	here      spatial.Vector3
}

// Option configures a Handler.
type Option func(*Handler)

// WithNotifier sets where messages go. The default drops them.
func WithNotifier(n Notifier) Option {
	return func(h *Handler) { h.notifier = n }
}

// WithMetrics records every command on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

// WithThreshold sets the gesture snapping distance. Non-positive values
// are ignored.
func WithThreshold(d float64) Option {
	return func(h *Handler) {
		if d > 0 {
			h.threshold = d
		}
	}
}

// WithStrictRoutes makes an unreachable destination a rejected command
// instead of a warning that carries the one-node route.
func WithStrictRoutes(strict bool) Option {
	return func(h *Handler) { h.strict = strict }
}

// WithPosition sets the user's starting position.
func WithPosition(p spatial.Vector3) Option {
	return func(h *Handler) { h.here = p }
}

// NewHandler returns a Handler over sess.
func NewHandler(sess *session.Session, opts ...Option) *Handler {
	h := &Handler{sess: sess, notifier: discard{}, threshold: DefaultThreshold}
	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Position returns the user's current position, as last set by "at".
func (h *Handler) Position() spatial.Vector3 { return h.here }

// Execute parses and runs one command line and notifies the outcome.
//
// User errors (a miss, an unknown name, bad syntax) become warning
// messages and Execute returns nil. Anything else is an internal failure:
// it is logged, reported as an error message and returned.
func (h *Handler) Execute(ctx context.Context, line string) error {
	logger := ctxlog.FromContext(ctx)

	cmd, err := Parse(line)
	verb := metricVerb(cmd.Verb)
	var msg Message
	if err == nil {
		msg, err = h.dispatch(ctx, cmd)
	}
	defer h.publishSize()

	switch {
	case err == nil:
		h.metrics.RecordCommand(verb, metrics.OutcomeOK)
		msg.Verb = verb
		h.notifier.Notify(ctx, msg)
		return nil

	case isUserError(err):
		h.metrics.RecordCommand(verb, metrics.OutcomeRejected)
		logger.Debug("command rejected", "command", verb, "error", err)
		h.notifier.Notify(ctx, Message{Severity: SeverityWarning, Verb: verb, Text: describe(err)})
		return nil
	}

	h.metrics.RecordCommand(verb, metrics.OutcomeFailed)
	logger.Error("command failed", "command", verb, "error", err)
	h.notifier.Notify(ctx, Message{Severity: SeverityError, Verb: verb, Text: err.Error()})

	return fmt.Errorf("command %s: %w", verb, err)
}

func (h *Handler) dispatch(ctx context.Context, cmd Command) (Message, error) {
	ed := h.sess.Editor()

	switch cmd.Verb {
	case VerbPlace:
		return h.place(ctx, cmd.Points[0]), nil

	case VerbTap:
		pos, ok := h.sess.Provider().HitTest(cmd.Screen)
		if !ok {
			return Message{}, spatial.ErrNoHit
		}
		return h.place(ctx, pos), nil

	case VerbEdge:
		if err := ed.ConnectNearest(ctx, cmd.Points[0], cmd.Points[1], h.threshold); err != nil {
			return Message{}, err
		}
		return info("waypoints linked"), nil

	case VerbUnlink:
		if err := ed.DisconnectNearest(ctx, cmd.Points[0], cmd.Points[1], h.threshold); err != nil {
			return Message{}, err
		}
		return info("waypoints unlinked"), nil

	case VerbSelect:
		sel, err := ed.SelectForEdge(ctx, cmd.Points[0], h.threshold)
		if err != nil {
			return Message{}, err
		}
		switch sel.State {
		case editor.SelectionConnected:
			return info("linked waypoints %d and %d", sel.First, sel.Second), nil
		case editor.SelectionCancelled:
			return info("selection of waypoint %d cancelled", sel.First), nil
		default:
			return info("waypoint %d selected, select another to link", sel.First), nil
		}

	case VerbCancel:
		ed.CancelSelection()
		return info("selection cleared"), nil

	case VerbRemove:
		id, err := ed.DeleteNearest(ctx, cmd.Points[0], h.threshold)
		if err != nil {
			return Message{}, err
		}
		return info("removed waypoint %d", id), nil

	case VerbName:
		return h.name(ctx, cmd)

	case VerbAt:
		h.here = cmd.Points[0]
		return info("position %s", formatVec(h.here)), nil

	case VerbGo:
		return h.navigate(ctx, cmd)

	case VerbReset:
		h.sess.Reset(ctx)
		return info("map cleared"), nil

	case VerbSave:
		b, err := h.sess.Save(ctx)
		if err != nil {
			return Message{}, err
		}
		return info("saved %d waypoints and %d names", len(b.Neighbors), len(b.Names)), nil

	case VerbLoad:
		if err := h.sess.Load(ctx); err != nil {
			return Message{}, err
		}
		return info("loaded %d waypoints and %d names",
			h.sess.Graph().NodeCount(), h.sess.Directory().Len()), nil

	case VerbIslands:
		return h.islands(ctx)

	case VerbAround:
		return h.around(ctx, cmd.Hops)

	case VerbList:
		return h.list()

	case VerbHelp:
		return info("%s", Usage), nil
	}

	return Message{}, fmt.Errorf("%w: unknown command %q", ErrSyntax, cmd.Verb)
}

func (h *Handler) place(ctx context.Context, pos spatial.Vector3) Message {
	id := h.sess.Editor().PlaceNode(ctx, pos)

	return info("placed waypoint %d at %s", id, formatVec(pos))
}

func (h *Handler) name(ctx context.Context, cmd Command) (Message, error) {
	ed := h.sess.Editor()
	if cmd.Target == core.NoNode {
		id, err := ed.NameLastPlaced(ctx, cmd.Name)
		if err != nil {
			return Message{}, err
		}
		return info("waypoint %d is now %q", id, names.Normalize(cmd.Name)), nil
	}

	if !h.sess.Graph().HasNode(cmd.Target) {
		return Message{}, fmt.Errorf("%w: %d", ErrNoSuchWaypoint, cmd.Target)
	}
	if err := ed.NameNode(ctx, cmd.Name, cmd.Target); err != nil {
		return Message{}, err
	}

	return info("waypoint %d is now %q", cmd.Target, names.Normalize(cmd.Name)), nil
}

// navigate routes from the waypoint nearest the user, at any distance, to
// the resolved destination.
func (h *Handler) navigate(ctx context.Context, cmd Command) (Message, error) {
	g := h.sess.Graph()
	goal, err := Resolve(h.sess.Directory(), g, cmd.Name)
	if err != nil {
		return Message{}, err
	}
	from := h.here
	if cmd.From {
		from = cmd.Points[0]
	}
	start := g.NearestNode(from, -1)
	if start == core.NoNode {
		return Message{}, ErrEmptyMap
	}

	var opts []dijkstra.Option
	if h.strict {
		opts = append(opts, dijkstra.WithStrictReachability())
	}
	began := time.Now()
	res, err := dijkstra.Route(g, start, goal, opts...)
	if res != nil {
		h.metrics.ObserveRoute(time.Since(began).Seconds(), res.Cost(), res.Reachable())
	}
	if err != nil {
		return Message{}, err
	}

	logger := ctxlog.FromContext(ctx)
	if !res.Reachable() {
		logger.Info("destination unreachable", "start", start, "goal", goal)
		return Message{
			Severity: SeverityWarning,
			Text:     fmt.Sprintf("waypoint %d cannot be reached from waypoint %d, link them first", goal, start),
			Route:    &RouteView{Path: res.Path, Cost: res.Cost()},
		}, nil
	}

	segs, err := res.Segments(g)
	if err != nil {
		return Message{}, err
	}
	startPos, err := g.Position(start)
	if err != nil {
		return Message{}, err
	}
	view := &RouteView{
		Path:      res.Path,
		Cost:      res.Cost(),
		Reachable: true,
		Segments:  segs,
		Lead: dijkstra.Segment{
			From:    core.NoNode,
			To:      start,
			FromPos: spatial.Vector3{X: from.X, Y: startPos.Y, Z: from.Z},
			ToPos:   startPos,
		},
	}
	logger.Info("route found", "route", res.Path, "cost", res.Cost())

	return Message{Text: fmt.Sprintf("route %s, %.2f m", formatPath(res.Path), res.Cost()), Route: view}, nil
}

func (h *Handler) islands(ctx context.Context) (Message, error) {
	parts, err := bfs.Components(ctx, h.sess.Graph())
	if err != nil {
		return Message{}, err
	}
	if len(parts) == 0 {
		return Message{}, ErrEmptyMap
	}
	strs := make([]string, len(parts))
	for i, p := range parts {
		strs[i] = fmt.Sprint(p)
	}

	return info("%d islands: %s", len(parts), strings.Join(strs, " ")), nil
}

// around lists the waypoints within hops links of the waypoint nearest the
// user, grouped by link count.
func (h *Handler) around(ctx context.Context, hops int) (Message, error) {
	g := h.sess.Graph()
	start := g.NearestNode(h.here, -1)
	if start == core.NoNode {
		return Message{}, ErrEmptyMap
	}
	res, err := bfs.Walk(ctx, g, start, bfs.WithMaxHops(hops))
	if err != nil {
		return Message{}, err
	}

	rings := res.Rings()
	if len(rings) < 2 {
		return info("waypoint %d has no links", start), nil
	}
	parts := make([]string, 0, len(rings)-1)
	for k, ring := range rings[1:] {
		parts = append(parts, fmt.Sprintf("%d: %v", k+1, ring))
	}

	return info("around waypoint %d, by links: %s", start, strings.Join(parts, ", ")), nil
}

func (h *Handler) list() (Message, error) {
	g, dir := h.sess.Graph(), h.sess.Directory()
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return Message{}, ErrEmptyMap
	}

	var sb strings.Builder
	for i, id := range nodes {
		pos, err := g.Position(id)
		if err != nil {
			return Message{}, err
		}
		nbrs, err := g.Neighbors(id)
		if err != nil {
			return Message{}, err
		}
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%d %s links=%v", id, formatVec(pos), nbrs)
		if n := dir.NamesOf(id); len(n) > 0 {
			fmt.Fprintf(&sb, " names=%s", strings.Join(n, ","))
		}
	}

	return info("%s", sb.String()), nil
}

func (h *Handler) publishSize() {
	h.metrics.SetMapSize(h.sess.Graph().NodeCount(), h.sess.Graph().EdgeCount(), h.sess.Directory().Len())
}

func info(format string, args ...any) Message {
	return Message{Severity: SeverityInfo, Text: fmt.Sprintf(format, args...)}
}

// describe turns a user error into message text.
func describe(err error) string {
	switch {
	case errors.Is(err, editor.ErrNoNodeNearby):
		return "no waypoint near that spot"
	case errors.Is(err, editor.ErrNothingPlaced):
		return "place a waypoint before naming it"
	case errors.Is(err, ErrUnresolvedDestination):
		return strings.TrimPrefix(err.Error(), "command: ") + ", enter a name or waypoint id"
	case errors.Is(err, spatial.ErrNoHit):
		return "no surface under that point"
	case errors.Is(err, persist.ErrNotFound):
		return "no saved map"
	}

	return strings.TrimPrefix(err.Error(), "command: ")
}

func metricVerb(verb string) string {
	switch verb {
	case VerbPlace, VerbTap, VerbEdge, VerbUnlink, VerbSelect, VerbCancel, VerbRemove, VerbName,
		VerbAt, VerbGo, VerbReset, VerbSave, VerbLoad, VerbIslands, VerbAround, VerbList, VerbHelp:
		return verb
	}

	return "unknown"
}

func formatVec(p spatial.Vector3) string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", p.X, p.Y, p.Z)
}

func formatPath(path []core.NodeID) string {
	strs := make([]string, len(path))
	for i, id := range path {
		strs[i] = fmt.Sprint(id)
	}

	return strings.Join(strs, " -> ")
}

// Usage lists the commands.
const Usage = `commands:
  place x y z                  place a waypoint
  tap sx sy                    place a waypoint on the surface under a screen point
  edge x1 y1 z1 x2 y2 z2       link the waypoints nearest two points
  unlink x1 y1 z1 x2 y2 z2     remove that link
  select x y z                 two-step link: select one waypoint, then another
  cancel                       drop the pending selection
  remove x y z                 delete the nearest waypoint
  name <name> [= <id>]         name the last placed waypoint, or waypoint <id>
  at x y z                     set your position
  go <destination> [from x y z] route to a name or waypoint id
  islands                      list groups of linked waypoints
  around [hops]                list waypoints within hops links of the one nearest you
  list                         list waypoints
  save | load | reset`
