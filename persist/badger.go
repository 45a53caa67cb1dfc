package persist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Keys of a BadgerStore. The manifest is the marker of a complete save.
var (
	badgerWorldKey     = []byte("waypath/world")
	badgerNeighborsKey = []byte("waypath/neighbors")
	badgerNamesKey     = []byte("waypath/names")
	badgerManifestKey  = []byte("waypath/manifest")
)

// BadgerStore keeps the latest Bundle in an embedded BadgerDB. All four
// keys are written in one transaction.
type BadgerStore struct {
	db *badger.DB
}

type badgerConfig struct {
	inMemory bool
	logger   *slog.Logger
}

// BadgerOption configures OpenBadger.
type BadgerOption func(*badgerConfig)

// WithInMemory keeps the database in memory; the path is ignored.
func WithInMemory() BadgerOption {
	return func(c *badgerConfig) { c.inMemory = true }
}

// WithBadgerLogger routes BadgerDB's own logging to logger. Without it
// BadgerDB logs nothing.
func WithBadgerLogger(logger *slog.Logger) BadgerOption {
	return func(c *badgerConfig) { c.logger = logger }
}

// badgerLogger adapts slog.Logger to badger.Logger.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// OpenBadger opens or creates the database directory at path.
func OpenBadger(path string, opts ...BadgerOption) (*BadgerStore, error) {
	var cfg badgerConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var bo badger.Options
	if cfg.inMemory {
		bo = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if path == "" {
			return nil, errors.New("persist: badger path is required")
		}
		if err := os.MkdirAll(path, 0o750); err != nil {
			return nil, fmt.Errorf("persist: creating %s: %w", path, err)
		}
		bo = badger.DefaultOptions(path).WithSyncWrites(true)
	}
	bo = bo.WithNumVersionsToKeep(1)
	if cfg.logger != nil {
		bo = bo.WithLogger(&badgerLogger{logger: cfg.logger})
	} else {
		bo = bo.WithLogger(nil)
	}

	db, err := badger.Open(bo)
	if err != nil {
		return nil, fmt.Errorf("persist: opening badger database: %w", err)
	}

	return &BadgerStore{db: db}, nil
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// Save replaces the stored bundle.
func (s *BadgerStore) Save(ctx context.Context, b *Bundle) error {
	if err := b.Validate(); err != nil {
		return err
	}
	world, err := compress(b.World)
	if err != nil {
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
	man, err := yaml.Marshal(manifest{
		Version:     manifestVersion,
		SessionID:   b.SessionID,
		SavedAt:     b.SavedAt.UTC(),
		WorldDigest: Digest(b.World),
		WorldSize:   len(b.World),
		Nodes:       len(b.Neighbors),
	})
	if err != nil {
		return fmt.Errorf("persist: encoding manifest: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		for _, kv := range []struct{ k, v []byte }{
			{badgerWorldKey, world},
			{badgerNeighborsKey, neighbors},
			{badgerNamesKey, nameMap},
			{badgerManifestKey, man},
		} {
			if err := txn.Set(kv.k, kv.v); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("persist: writing map: %w", err)
	}

	return nil
}

// Load reads and verifies the stored bundle.
func (s *BadgerStore) Load(ctx context.Context) (*Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var raw struct{ world, neighbors, names, manifest []byte }
	err := s.db.View(func(txn *badger.Txn) error {
		for _, kv := range []struct {
			k   []byte
			dst *[]byte
		}{
			{badgerManifestKey, &raw.manifest},
			{badgerWorldKey, &raw.world},
			{badgerNeighborsKey, &raw.neighbors},
			{badgerNamesKey, &raw.names},
		} {
			item, err := txn.Get(kv.k)
			if err != nil {
				return err
			}
			if *kv.dst, err = item.ValueCopy(nil); err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("persist: reading map: %w", err)
	}

	var man manifest
	if err := yaml.Unmarshal(raw.manifest, &man); err != nil {
		return nil, fmt.Errorf("%w: manifest: %v", ErrCorrupt, err)
	}
	if man.Version != manifestVersion {
		return nil, fmt.Errorf("%w: manifest version %d", ErrCorrupt, man.Version)
	}
	world, err := decompress(raw.world)
	if err != nil {
		return nil, err
	}
	if err := verify(world, man.WorldDigest); err != nil {
		return nil, err
	}

	b := &Bundle{World: world, SessionID: man.SessionID, SavedAt: man.SavedAt}
	if err := msgpack.Unmarshal(raw.neighbors, &b.Neighbors); err != nil {
		return nil, fmt.Errorf("%w: neighbors: %v", ErrCorrupt, err)
	}
	if err := msgpack.Unmarshal(raw.names, &b.Names); err != nil {
		return nil, fmt.Errorf("%w: names: %v", ErrCorrupt, err)
	}
	if b.Names == nil {
		b.Names = map[string]int{}
	}
	if len(b.Neighbors) != man.Nodes {
		return nil, fmt.Errorf("%w: %d neighbor rows, manifest says %d", ErrCorrupt, len(b.Neighbors), man.Nodes)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}

	return b, nil
}

// Exists reports whether a complete bundle has been saved.
func (s *BadgerStore) Exists(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(badgerManifestKey)
		return err
	})
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, badger.ErrKeyNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("persist: checking manifest: %w", err)
	}
}
