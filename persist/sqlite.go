package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS saved_map (
  slot         INTEGER PRIMARY KEY CHECK (slot = 1),
  session_id   TEXT    NOT NULL,
  saved_at     INTEGER NOT NULL,
  world        BLOB    NOT NULL,
  world_digest TEXT    NOT NULL,
  neighbors    BLOB    NOT NULL,
  names        BLOB    NOT NULL
);`

// SQLiteStore keeps the latest Bundle in a single-row table.
type SQLiteStore struct {
	conn *sql.DB
}

// OpenSQLite opens or creates the database at path and applies the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("persist: opening database: %w", err)
	}
	// Pragmas below are per connection.
	conn.SetMaxOpenConns(1)

	// Fail early if connection is bad
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("persist: ping db: %w", err)
	}
	if _, err := conn.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("persist: enabling WAL mode: %w", err)
	}
	// Wait up to 5s on lock instead of failing immediately
	if _, err := conn.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("persist: setting busy timeout: %w", err)
	}

	if _, err := conn.ExecContext(ctx, schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("persist: applying schema: %w", err)
	}

	return &SQLiteStore{conn: conn}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

// Save replaces the stored bundle in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, b *Bundle) error {
	if err := b.Validate(); err != nil {
		return err
	}
	neighbors, err := msgpack.Marshal(b.Neighbors)
	if err != nil {
		return fmt.Errorf("persist: encoding neighbors: %w", err)
	}
	nameMap, err := msgpack.Marshal(b.Names)
	if err != nil {
		return fmt.Errorf("persist: encoding names: %w", err)
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("persist: begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
INSERT INTO saved_map (slot, session_id, saved_at, world, world_digest, neighbors, names)
VALUES (1, ?, ?, ?, ?, ?, ?)
ON CONFLICT(slot) DO UPDATE SET
  session_id = excluded.session_id,
  saved_at = excluded.saved_at,
  world = excluded.world,
  world_digest = excluded.world_digest,
  neighbors = excluded.neighbors,
  names = excluded.names`,
		b.SessionID, b.SavedAt.UTC().UnixNano(), b.World, Digest(b.World), neighbors, nameMap)
	if err != nil {
		return fmt.Errorf("persist: writing map: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("persist: commit: %w", err)
	}

	return nil
}

// Load reads and verifies the stored bundle.
func (s *SQLiteStore) Load(ctx context.Context) (*Bundle, error) {
	var (
		b         Bundle
		savedAt   int64
		digest    string
		neighbors []byte
		nameMap   []byte
	)
	err := s.conn.QueryRowContext(ctx, `
SELECT session_id, saved_at, world, world_digest, neighbors, names
FROM saved_map WHERE slot = 1`).Scan(&b.SessionID, &savedAt, &b.World, &digest, &neighbors, &nameMap)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("persist: reading map: %w", err)
	}

	if err := verify(b.World, digest); err != nil {
		return nil, err
	}
	if err := msgpack.Unmarshal(neighbors, &b.Neighbors); err != nil {
		return nil, fmt.Errorf("%w: neighbors: %v", ErrCorrupt, err)
	}
	if err := msgpack.Unmarshal(nameMap, &b.Names); err != nil {
		return nil, fmt.Errorf("%w: names: %v", ErrCorrupt, err)
	}
	if b.Names == nil {
		b.Names = map[string]int{}
	}
	b.SavedAt = time.Unix(0, savedAt).UTC()
	if err := b.Validate(); err != nil {
		return nil, err
	}

	return &b, nil
}

// Exists reports whether a bundle has been saved.
func (s *SQLiteStore) Exists(ctx context.Context) (bool, error) {
	var n int
	if err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM saved_map`).Scan(&n); err != nil {
		return false, fmt.Errorf("persist: counting maps: %w", err)
	}

	return n > 0, nil
}
