// Package store persists named JSON snapshots of intermediate pipeline state
// so a late-stage failure never loses earlier stage output.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Store writes snapshots under a single directory, one file per name.
type Store struct {
	dir string
}

// New creates the snapshot directory if needed.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("snapshot directory must not be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save serialises v as indented JSON under the given file name.
func (s *Store) Save(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot %s: %w", name, err)
	}
	if err := os.WriteFile(s.Path(name), data, 0o644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", name, err)
	}
	return nil
}

// Load reads a snapshot back into v.
func (s *Store) Load(name string, v any) error {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		return fmt.Errorf("read snapshot %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode snapshot %s: %w", name, err)
	}
	return nil
}

// Path returns the on-disk location for a snapshot name.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}
