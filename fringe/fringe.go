package fringe

import (
	"errors"
	"sort"

	"github.com/katalvlaran/waypath/core"
)

// ErrEmptyFringe is returned by PopMin and Peek on an empty Fringe.
var ErrEmptyFringe = errors.New("fringe: pop from empty fringe")

// Entry is a tentative path cost: Node reached at Dist via Prev.
// Prev is core.NoNode for the search origin.
type Entry struct {
	Node core.NodeID
	Dist float64
	Prev core.NodeID
}

// Fringe is a slice kept sorted by Entry.Dist. The zero value is ready to use.
type Fringe struct {
	entries []Entry
	head    int
}

// New returns a Fringe with room for capacity entries.
func New(capacity int) *Fringe {
	if capacity < 0 {
		capacity = 0
	}

	return &Fringe{entries: make([]Entry, 0, capacity)}
}

// Insert places e after every entry whose Dist is <= e.Dist.
func (f *Fringe) Insert(e Entry) {
	live := f.entries[f.head:]
	at := f.head + sort.Search(len(live), func(i int) bool { return live[i].Dist > e.Dist })

	f.entries = append(f.entries, Entry{})
	copy(f.entries[at+1:], f.entries[at:])
	f.entries[at] = e
}

// PopMin removes and returns the entry with the smallest Dist.
func (f *Fringe) PopMin() (Entry, error) {
	if f.Len() == 0 {
		return Entry{}, ErrEmptyFringe
	}
	e := f.entries[f.head]
	f.head++

	// Reclaim the consumed prefix once it outweighs the live part.
	if f.head > len(f.entries)/2 {
		n := copy(f.entries, f.entries[f.head:])
		f.entries = f.entries[:n]
		f.head = 0
	}

	return e, nil
}

// Peek returns the entry PopMin would return without removing it.
func (f *Fringe) Peek() (Entry, error) {
	if f.Len() == 0 {
		return Entry{}, ErrEmptyFringe
	}

	return f.entries[f.head], nil
}

// Len returns the number of queued entries, stale ones included.
func (f *Fringe) Len() int { return len(f.entries) - f.head }

// Reset drops every entry and keeps the backing storage.
func (f *Fringe) Reset() {
	f.entries = f.entries[:0]
	f.head = 0
}
