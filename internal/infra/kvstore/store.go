// Package kvstore provides a JSON file-based implementation of
// domain.KeyValueStore. A flock guards cross-process access and writes go
// through a temp file plus rename so readers never see a torn file.
package kvstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/domain"
)

// storeData represents the JSON file structure.
type storeData struct {
	Values map[string]json.RawMessage `json:"values"`
}

// Store implements domain.KeyValueStore using a JSON file.
type Store struct {
	path     string
	lockPath string
}

// New creates a new Store for the given file path.
// The file does not need to exist; it will be created on first write.
func New(path string) *Store {
	return &Store{
		path:     path,
		lockPath: path + ".lock",
	}
}

// Get unmarshals the value stored under key into dst. A missing key or a
// value that no longer unmarshals into dst reports absent rather than
// failing; durable state degrades to "no data available".
func (s *Store) Get(key string, dst any) (bool, error) {
	var found bool
	err := s.withLock(func(data *storeData) error {
		raw, ok := data.Values[key]
		if !ok {
			return nil
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return nil
		}
		found = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

// Put stores value under key.
func (s *Store) Put(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode value for %q: %w", key, err)
	}
	return s.withLockWrite(func(data *storeData) error {
		data.Values[key] = raw
		return nil
	})
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	return s.withLockWrite(func(data *storeData) error {
		delete(data.Values, key)
		return nil
	})
}

// Keys returns all keys with the given prefix, sorted.
func (s *Store) Keys(prefix string) ([]string, error) {
	var keys []string
	err := s.withLock(func(data *storeData) error {
		for k := range data.Values {
			if strings.HasPrefix(k, prefix) {
				keys = append(keys, k)
			}
		}
		return nil
	})
	slices.Sort(keys)
	return keys, err
}

// withLock executes fn with a shared (read) lock.
func (s *Store) withLock(fn func(*storeData) error) error {
	lock, err := s.acquireLock(syscall.LOCK_SH)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	data := s.read()
	return fn(data)
}

// withLockWrite executes fn with an exclusive (write) lock and writes the result.
func (s *Store) withLockWrite(fn func(*storeData) error) error {
	lock, err := s.acquireLock(syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	data := s.read()
	if err := fn(data); err != nil {
		return err
	}
	return s.write(data)
}

func (s *Store) acquireLock(lockType int) (*os.File, error) {
	dir := filepath.Dir(s.lockPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(lock.Fd()), lockType); err != nil {
		_ = lock.Close()
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	return lock, nil
}

func (s *Store) releaseLock(lock *os.File) {
	_ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)
	_ = lock.Close()
}

// read loads the store file. A missing or corrupt file yields an empty store;
// the next write replaces it.
func (s *Store) read() *storeData {
	empty := &storeData{Values: make(map[string]json.RawMessage)}

	content, err := os.ReadFile(s.path)
	if err != nil {
		return empty
	}

	var data storeData
	if err := json.Unmarshal(content, &data); err != nil {
		return empty
	}
	if data.Values == nil {
		data.Values = make(map[string]json.RawMessage)
	}
	return &data
}

func (s *Store) write(data *storeData) error {
	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store data: %w", err)
	}

	// Write to temp file first, then rename for atomicity
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath) // Clean up
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}

// Ensure Store implements KeyValueStore.
var _ domain.KeyValueStore = (*Store)(nil)
