package persist

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"
)

// File names inside a FileStore directory. The manifest is fixed; the other
// artifacts are written under a generation suffix (world.3.zst) and the
// manifest names the generation that is current.
const (
	WorldFile     = "world.zst"
	NeighborsFile = "neighbors.yaml"
	NamesFile     = "names.yaml"
	ManifestFile  = "manifest.yaml"
)

const manifestVersion = 1

// manifest is written last and marks a complete save.
type manifest struct {
	Version     int           `yaml:"version"`
	Generation  int           `yaml:"generation"`
	SessionID   string        `yaml:"session_id"`
	SavedAt     time.Time     `yaml:"saved_at"`
	WorldDigest string        `yaml:"world_digest"`
	WorldSize   int           `yaml:"world_size"`
	Nodes       int           `yaml:"nodes"`
	Files       manifestFiles `yaml:"files"`
}

type manifestFiles struct {
	World     string `yaml:"world"`
	Neighbors string `yaml:"neighbors"`
	Names     string `yaml:"names"`
}

func generationFiles(gen int) manifestFiles {
	return manifestFiles{
		World:     generationName(WorldFile, gen),
		Neighbors: generationName(NeighborsFile, gen),
		Names:     generationName(NamesFile, gen),
	}
}

func generationName(base string, gen int) string {
	ext := filepath.Ext(base)

	return fmt.Sprintf("%s.%d%s", strings.TrimSuffix(base, ext), gen, ext)
}

func (f manifestFiles) list() []string {
	return []string{f.World, f.Neighbors, f.Names}
}

type neighborsDoc struct {
	Neighbors [][]int `yaml:"neighbors"`
}

type namesDoc struct {
	Names map[string]int `yaml:"names"`
}

// FileStore keeps a Bundle as files in Dir.
type FileStore struct {
	Dir string
}

// NewFileStore returns a FileStore rooted at dir. The directory is created
// on first Save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

// Save writes the artifacts of b as a new generation, then commits them by
// replacing the manifest. Until the manifest is replaced, Load keeps
// returning the previous save. Files of the previous generation are removed
// after the commit.
func (s *FileStore) Save(ctx context.Context, b *Bundle) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("persist: creating %s: %w", s.Dir, err)
	}

	gen := 1
	var prev *manifest
	var cur manifest
	if err := s.readYAML(ManifestFile, &cur); err == nil {
		prev = &cur
		gen = cur.Generation + 1
	}
	files := generationFiles(gen)

	world, err := compress(b.World)
	if err != nil {
		return err
	}
	neighbors, err := yaml.Marshal(neighborsDoc{Neighbors: b.Neighbors})
	if err != nil {
		return fmt.Errorf("persist: encoding neighbors: %w", err)
	}
	nameMap, err := yaml.Marshal(namesDoc{Names: b.Names})
	if err != nil {
		return fmt.Errorf("persist: encoding names: %w", err)
	}
	man, err := yaml.Marshal(manifest{
		Version:     manifestVersion,
		Generation:  gen,
		SessionID:   b.SessionID,
		SavedAt:     b.SavedAt.UTC(),
		WorldDigest: Digest(b.World),
		WorldSize:   len(b.World),
		Nodes:       len(b.Neighbors),
		Files:       files,
	})
	if err != nil {
		return fmt.Errorf("persist: encoding manifest: %w", err)
	}

	for _, f := range []struct {
		name string
		data []byte
	}{
		{files.World, world},
		{files.Neighbors, neighbors},
		{files.Names, nameMap},
		{ManifestFile, man},
	} {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writeAtomic(filepath.Join(s.Dir, f.name), f.data); err != nil {
			return err
		}
	}

	if prev != nil {
		for _, name := range prev.files().list() {
			if filepath.Base(name) == name {
				_ = os.Remove(filepath.Join(s.Dir, name))
			}
		}
	}

	return nil
}

// Load reads and verifies the saved artifacts.
func (s *FileStore) Load(ctx context.Context) (*Bundle, error) {
	var man manifest
	if err := s.readYAML(ManifestFile, &man); err != nil {
		return nil, err
	}
	if man.Version != manifestVersion {
		return nil, fmt.Errorf("%w: manifest version %d", ErrCorrupt, man.Version)
	}
	files := man.files()
	for _, name := range files.list() {
		if name == "" || filepath.Base(name) != name {
			return nil, fmt.Errorf("%w: manifest names file %q", ErrCorrupt, name)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := s.read(files.World)
	if err != nil {
		return nil, err
	}
	world, err := decompress(raw)
	if err != nil {
		return nil, err
	}
	if err := verify(world, man.WorldDigest); err != nil {
		return nil, err
	}

	var nd neighborsDoc
	if err := s.readYAML(files.Neighbors, &nd); err != nil {
		return nil, err
	}
	var nm namesDoc
	if err := s.readYAML(files.Names, &nm); err != nil {
		return nil, err
	}
	if nm.Names == nil {
		nm.Names = map[string]int{}
	}

	b := &Bundle{
		World:     world,
		Neighbors: nd.Neighbors,
		Names:     nm.Names,
		SessionID: man.SessionID,
		SavedAt:   man.SavedAt,
	}
	if len(b.Neighbors) != man.Nodes {
		return nil, fmt.Errorf("%w: %d neighbor rows, manifest says %d", ErrCorrupt, len(b.Neighbors), man.Nodes)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}

	return b, nil
}

// files returns the artifacts of m. Manifests written before generations
// existed carry no file list and use the base names.
func (m *manifest) files() manifestFiles {
	if m.Files == (manifestFiles{}) {
		return manifestFiles{World: WorldFile, Neighbors: NeighborsFile, Names: NamesFile}
	}

	return m.Files
}

// Exists reports whether a manifest is present.
func (s *FileStore) Exists(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, err := os.Stat(filepath.Join(s.Dir, ManifestFile))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("persist: stat manifest: %w", err)
	}
}

func (s *FileStore) read(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s missing", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("persist: reading %s: %w", name, err)
	}

	return data, nil
}

func (s *FileStore) readYAML(name string, v any) error {
	data, err := s.read(name)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorrupt, name, err)
	}

	return nil
}

// writeAtomic replaces path with data via a temp file in the same directory.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("persist: creating temp for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("persist: writing %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("persist: syncing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("persist: closing %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("persist: replacing %s: %w", path, err)
	}

	return nil
}

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	encoder, err := zstd.NewWriter(&buf)
	if err != nil {
		return nil, fmt.Errorf("persist: creating zstd encoder: %w", err)
	}
	if _, err := encoder.Write(data); err != nil {
		encoder.Close()
		return nil, fmt.Errorf("persist: compressing world: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("persist: closing encoder: %w", err)
	}

	return buf.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	decoder, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("persist: creating zstd decoder: %w", err)
	}
	defer decoder.Close()

	out, err := io.ReadAll(decoder)
	if err != nil {
		return nil, fmt.Errorf("%w: world: %v", ErrCorrupt, err)
	}

	return out, nil
}
