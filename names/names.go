// Package names maps user-chosen waypoint names to node ids.
//
// Names are case-insensitive and surrounding whitespace is ignored: "Kitchen",
// " kitchen" and "KITCHEN" are one key. Each name resolves to exactly one
// node; a node may carry any number of names. Bind refuses ids the backing
// graph does not know, and the editor calls UnbindAll before removing a
// node, so the directory never references a removed node.
package names

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/katalvlaran/waypath/core"
)

// ErrEmptyName is returned by Bind when the name is blank after trimming.
var ErrEmptyName = errors.New("names: empty name")

// Membership answers whether a node id is live. *core.Graph satisfies it.
type Membership interface {
	HasNode(id core.NodeID) bool
}

// Entry is one name binding.
type Entry struct {
	Name string
	Node core.NodeID
}

// Directory is the name -> node id mapping. It is not safe for concurrent use.
type Directory struct {
	nodes  Membership
	byName map[string]core.NodeID
	byNode map[core.NodeID]map[string]struct{}
}

// NewDirectory returns an empty Directory validating ids against nodes.
func NewDirectory(nodes Membership) *Directory {
	return &Directory{
		nodes:  nodes,
		byName: make(map[string]core.NodeID),
		byNode: make(map[core.NodeID]map[string]struct{}),
	}
}

// Normalize returns the directory key for name.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Bind points name at id, replacing any previous binding of name.
func (d *Directory) Bind(name string, id core.NodeID) error {
	key := Normalize(name)
	if key == "" {
		return ErrEmptyName
	}
	if !d.nodes.HasNode(id) {
		return fmt.Errorf("names: bind %q to %d: %w", key, id, core.ErrUnknownNode)
	}

	if prev, ok := d.byName[key]; ok {
		d.drop(key, prev)
	}
	d.byName[key] = id
	set, ok := d.byNode[id]
	if !ok {
		set = make(map[string]struct{})
		d.byNode[id] = set
	}
	set[key] = struct{}{}

	return nil
}

// Resolve returns the node bound to name.
func (d *Directory) Resolve(name string) (core.NodeID, bool) {
	id, ok := d.byName[Normalize(name)]

	return id, ok
}

// Unbind removes name and reports whether it was bound.
func (d *Directory) Unbind(name string) bool {
	key := Normalize(name)
	id, ok := d.byName[key]
	if !ok {
		return false
	}
	d.drop(key, id)

	return true
}

// UnbindAll removes every name bound to id and returns them sorted.
func (d *Directory) UnbindAll(id core.NodeID) []string {
	removed := d.NamesOf(id)
	for _, key := range removed {
		delete(d.byName, key)
	}
	delete(d.byNode, id)

	return removed
}

// NamesOf returns the names bound to id, sorted.
func (d *Directory) NamesOf(id core.NodeID) []string {
	set := d.byNode[id]
	out := make([]string, 0, len(set))
	for key := range set {
		out = append(out, key)
	}
	sort.Strings(out)

	return out
}

// Entries returns every binding sorted by name.
func (d *Directory) Entries() []Entry {
	out := make([]Entry, 0, len(d.byName))
	for key, id := range d.byName {
		out = append(out, Entry{Name: key, Node: id})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out
}

// Len returns the number of bound names.
func (d *Directory) Len() int { return len(d.byName) }

// Clear removes every binding.
func (d *Directory) Clear() {
	d.byName = make(map[string]core.NodeID)
	d.byNode = make(map[core.NodeID]map[string]struct{})
}

func (d *Directory) drop(key string, id core.NodeID) {
	delete(d.byName, key)
	if set, ok := d.byNode[id]; ok {
		delete(set, key)
		if len(set) == 0 {
			delete(d.byNode, id)
		}
	}
}
