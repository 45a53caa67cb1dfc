package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/katalvlaran/waypath/core"
	"github.com/katalvlaran/waypath/names"
)

// ErrUnresolvedDestination indicates destination text that is neither a
// bound name nor the id of a live waypoint.
var ErrUnresolvedDestination = errors.New("command: unresolved destination")

// Resolve maps destination text to a node: first as a name, then as a
// literal waypoint id, which must be live.
func Resolve(dir *names.Directory, g *core.Graph, text string) (core.NodeID, error) {
	if id, ok := dir.Resolve(text); ok {
		return id, nil
	}
	if n, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64); err == nil {
		if id := core.NodeID(n); g.HasNode(id) {
			return id, nil
		}
	}

	return core.NoNode, fmt.Errorf("%w: %q", ErrUnresolvedDestination, strings.TrimSpace(text))
}
