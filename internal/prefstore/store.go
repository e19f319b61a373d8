// Package prefstore is the key-value store shared between the native host and
// the companion app. Every key is a single scalar and every write is a full
// overwrite, so there are no read-modify-write races to guard against.
package prefstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

const (
	keyDisplayMode = "display_mode"
	keyLastActive  = "last_active"
)

// Store holds one directory of single-key JSON files scoped to an
// application-group identifier.
type Store struct {
	dir string
}

// Open resolves the store directory for an app group under the XDG state
// home and creates it if missing.
func Open(appGroup string) (*Store, error) {
	dir := filepath.Join(xdg.StateHome, appGroup)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("prefstore: %w", err)
	}
	return &Store{dir: dir}, nil
}

// OpenDir opens a store rooted at an explicit directory. Used by tests and
// by deployments that cannot rely on XDG paths.
func OpenDir(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("prefstore: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir reports the backing directory.
func (s *Store) Dir() string { return s.dir }

// writeKey overwrites one key atomically: marshal to a temp file in the same
// directory, then rename over the destination.
func (s *Store) writeKey(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("prefstore %s: %w", key, err)
	}
	tmp, err := os.CreateTemp(s.dir, key+".tmp-*")
	if err != nil {
		return fmt.Errorf("prefstore %s: %w", key, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("prefstore %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("prefstore %s: %w", key, err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, key+".json")); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("prefstore %s: %w", key, err)
	}
	return nil
}

// readKey reads one key. The second return is false when the key has never
// been written.
func (s *Store) readKey(key string, v any) (bool, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, key+".json"))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("prefstore %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("prefstore %s: %w", key, err)
	}
	return true, nil
}

// SetDisplayMode overwrites the persisted display-mode string.
func (s *Store) SetDisplayMode(mode string) error {
	return s.writeKey(keyDisplayMode, mode)
}

// DisplayMode reads the persisted display-mode string. ok is false when the
// preference was never set.
func (s *Store) DisplayMode() (mode string, ok bool, err error) {
	ok, err = s.readKey(keyDisplayMode, &mode)
	return mode, ok, err
}

// TouchLastActive stamps the last-active timestamp the activation fallback
// reads. Stored as Unix milliseconds.
func (s *Store) TouchLastActive(t time.Time) error {
	return s.writeKey(keyLastActive, t.UnixMilli())
}

// LastActive reads the last-active timestamp. ok is false when the host has
// never stamped it.
func (s *Store) LastActive() (t time.Time, ok bool, err error) {
	var ms int64
	ok, err = s.readKey(keyLastActive, &ms)
	if err != nil || !ok {
		return time.Time{}, ok, err
	}
	return time.UnixMilli(ms), true, nil
}
