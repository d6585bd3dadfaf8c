// Package storage provides the persisted key/value store backing mkt's
// shared state (backend URL and session).
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	// mktDir is the name of the mkt state directory.
	mktDir = ".mkt"
	// storeFile is the name of the key/value file within .mkt/.
	storeFile = "store.yaml"
	// sqliteFile is the name of the sqlite database within .mkt/.
	sqliteFile = "store.db"
)

// Persisted keys.
const (
	KeyBackendURL  = "BACKEND_URL"
	KeyAccessToken = "ACCESS_TOKEN"
	KeyUserData    = "USER_DATA"
)

// Store is a string key/value store that survives process restarts.
// Get reports whether the key was present.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(keys ...string) error
	Close() error
}

// Storage is a Store backed by .mkt/store.yaml.
type Storage struct {
	root string // path to directory containing .mkt/

	mu sync.Mutex
}

// Open returns a Storage for the given directory.
// Returns error if .mkt/ does not exist.
func Open(dir string) (*Storage, error) {
	mktPath := filepath.Join(dir, mktDir)
	info, err := os.Stat(mktPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf(".mkt/ directory not found in %s", dir)
		}
		return nil, fmt.Errorf("failed to access .mkt/: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf(".mkt is not a directory")
	}

	return &Storage{root: dir}, nil
}

// Init creates an empty .mkt/ directory.
// Returns error if .mkt/ already exists.
func Init(dir string) (*Storage, error) {
	mktPath := filepath.Join(dir, mktDir)

	if _, err := os.Stat(mktPath); err == nil {
		return nil, fmt.Errorf(".mkt/ directory already exists in %s", dir)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to check for .mkt/: %w", err)
	}

	if err := os.MkdirAll(mktPath, 0700); err != nil {
		return nil, fmt.Errorf("failed to create .mkt/: %w", err)
	}

	return &Storage{root: dir}, nil
}

// OpenOrInit opens .mkt/ in dir, creating it on first use.
func OpenOrInit(dir string) (*Storage, error) {
	if _, err := os.Stat(filepath.Join(dir, mktDir)); os.IsNotExist(err) {
		return Init(dir)
	}
	return Open(dir)
}

// Root returns the root directory containing .mkt/.
func (s *Storage) Root() string {
	return s.root
}

// MktPath returns the path to the .mkt/ directory.
func (s *Storage) MktPath() string {
	return filepath.Join(s.root, mktDir)
}

// Path returns the path to the key/value file.
func (s *Storage) Path() string {
	return filepath.Join(s.root, mktDir, storeFile)
}

// Get returns the value stored under key.
func (s *Storage) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

// Set stores value under key.
func (s *Storage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return err
	}
	values[key] = value
	return s.write(values)
}

// Remove deletes keys. Absent keys are ignored.
func (s *Storage) Remove(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return err
	}
	changed := false
	for _, k := range keys {
		if _, ok := values[k]; ok {
			delete(values, k)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.write(values)
}

// Keys returns the stored keys in sorted order.
func (s *Storage) Keys() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Close is a no-op; every operation reads and writes the file directly.
func (s *Storage) Close() error {
	return nil
}

func (s *Storage) read() (map[string]string, error) {
	values := make(map[string]string)

	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return values, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", storeFile, err)
	}

	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", storeFile, err)
	}
	if values == nil {
		values = make(map[string]string)
	}
	return values, nil
}

// write replaces the store file atomically so a concurrent reader
// (or the file watcher) never sees a partial document.
func (s *Storage) write(values map[string]string) error {
	data, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", storeFile, err)
	}

	tmp, err := os.CreateTemp(s.MktPath(), storeFile+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", storeFile, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0600); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set permissions on %s: %w", storeFile, err)
	}
	if err := os.Rename(tmpPath, s.Path()); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", storeFile, err)
	}
	return nil
}
