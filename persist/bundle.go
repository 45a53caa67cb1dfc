package persist

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"lukechampine.com/blake3"
)

// Sentinel errors for persistence.
var (
	// ErrNotFound indicates that nothing has been saved yet.
	ErrNotFound = errors.New("persist: no saved map")

	// ErrCorrupt indicates that a saved map failed validation or its
	// world digest does not match.
	ErrCorrupt = errors.New("persist: saved map is corrupt")
)

// Bundle is everything needed to rebuild a map.
type Bundle struct {
	World     []byte         // provider world snapshot, opaque
	Neighbors [][]int        // row i lists the neighbor indices of node i
	Names     map[string]int // name -> node index
	SessionID string
	SavedAt   time.Time
}

// Store persists the latest Bundle.
type Store interface {
	Save(ctx context.Context, b *Bundle) error
	Load(ctx context.Context) (*Bundle, error)
	Exists(ctx context.Context) (bool, error)
}

// Validate checks that every index in b addresses a row of Neighbors.
func (b *Bundle) Validate() error {
	n := len(b.Neighbors)
	for i, row := range b.Neighbors {
		for _, j := range row {
			if j < 0 || j >= n {
				return fmt.Errorf("%w: neighbors[%d] references %d of %d", ErrCorrupt, i, j, n)
			}
		}
	}
	for name, j := range b.Names {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: blank name for node %d", ErrCorrupt, j)
		}
		if j < 0 || j >= n {
			return fmt.Errorf("%w: name %q references %d of %d", ErrCorrupt, name, j, n)
		}
	}

	return nil
}

// NameList returns the names sorted, for stable dumps.
func (b *Bundle) NameList() []string {
	out := make([]string, 0, len(b.Names))
	for name := range b.Names {
		out = append(out, name)
	}
	sort.Strings(out)

	return out
}

// Digest returns the hex BLAKE3-256 digest of data.
func Digest(data []byte) string {
	sum := blake3.Sum256(data)

	return hex.EncodeToString(sum[:])
}

// verify compares the stored digest with the world bytes.
func verify(world []byte, want string) error {
	if got := Digest(world); got != want {
		return fmt.Errorf("%w: world digest %s, manifest says %s", ErrCorrupt, got, want)
	}

	return nil
}
