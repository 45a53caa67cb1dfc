package command

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/katalvlaran/waypath/core"
	"github.com/katalvlaran/waypath/dijkstra"
)

// Severity grades a Message.
type Severity int

// Message severities.
const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String implements fmt.Stringer.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warn"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Message is what the user sees after a command.
type Message struct {
	Severity Severity
	Verb     string
	Text     string
	Route    *RouteView // set by a successful go
}

// RouteView is the drawable result of a go command.
type RouteView struct {
	Path      []core.NodeID
	Cost      float64
	Reachable bool
	Segments  []dijkstra.Segment
	// Lead joins the user's position, lowered to the start waypoint's
	// height, to the start waypoint.
	Lead dijkstra.Segment
}

// Notifier delivers messages to the user.
type Notifier interface {
	Notify(ctx context.Context, m Message)
}

// ChanNotifier sends messages on C. Notify blocks until the message is
// received or ctx is done.
type ChanNotifier struct {
	C chan Message
}

// NewChanNotifier returns a ChanNotifier with a buffer of size n.
func NewChanNotifier(n int) *ChanNotifier {
	return &ChanNotifier{C: make(chan Message, n)}
}

// Notify implements Notifier.
func (n *ChanNotifier) Notify(ctx context.Context, m Message) {
	select {
	case n.C <- m:
	case <-ctx.Done():
	}
}

// WriterNotifier prints one line per message.
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterNotifier returns a Notifier printing to w.
func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

// Notify implements Notifier.
func (n *WriterNotifier) Notify(_ context.Context, m Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if m.Severity == SeverityInfo {
		fmt.Fprintln(n.w, m.Text)
		return
	}
	fmt.Fprintf(n.w, "%s: %s\n", m.Severity, m.Text)
}

// discard drops every message.
type discard struct{}

func (discard) Notify(context.Context, Message) {}
