// Package store provides durable key-value persistence with JSON
// serialization. Each key lives in its own file; corrupt or missing data
// falls back to the caller's default so the engine stays usable no matter
// what is on disk.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
)

// Well-known keys.
const (
	KeyQueue        = "queue"
	KeyCurrentIndex = "queue.currentIndex"
	KeyPlaylists    = "playlists"
)

// Store is a file-backed JSON key-value store.
type Store struct {
	dir string
}

// New creates a store rooted at dir, creating it if needed. An empty dir
// selects the platform data directory.
func New(dir string) (*Store, error) {
	if dir == "" {
		d, err := xdg.DataFile("moshpit/state")
		if err != nil {
			return nil, errors.Wrap(err, "failed to resolve state directory")
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create state directory")
	}
	return &Store{dir: dir}, nil
}

// Dir returns the backing directory.
func (s *Store) Dir() string {
	return s.dir
}

// Get reads the value for key into v. Returns false — leaving v untouched —
// when the key is absent or its contents fail to parse; corruption is a
// debug-level event, never an error.
func (s *Store) Get(key string, v any) bool {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if !os.IsNotExist(err) {
			zlog.Debug().Msgf("store: unreadable key %s: %v", key, err)
		}
		return false
	}

	if err := json.Unmarshal(data, v); err != nil {
		zlog.Warn().Msgf("store: corrupt value for key %s, using defaults: %v", key, err)
		return false
	}
	return true
}

// Set writes the value for key atomically (write to a temp file, then
// rename), so a crash mid-write can never corrupt an existing value.
func (s *Store) Set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "failed to encode value for key %s", key)
	}

	target := s.path(key)
	tmp, err := os.CreateTemp(s.dir, "."+keyFile(key)+".tmp-*")
	if err != nil {
		return errors.Wrap(err, "failed to create temp file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrapf(err, "failed to write value for key %s", key)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "failed to flush value for key %s", key)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "failed to commit value for key %s", key)
	}
	return nil
}

// Delete removes a key. Missing keys are fine.
func (s *Store) Delete(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to delete key %s", key)
	}
	return nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, keyFile(key)+".json")
}

// keyFile maps a key to a safe file name.
func keyFile(key string) string {
	return strings.ReplaceAll(key, string(filepath.Separator), "_")
}
