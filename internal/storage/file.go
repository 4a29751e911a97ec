package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileStore keeps every key and record store as a JSON file below Base:
//
//	<base>/kv/<key>.json
//	<base>/stores/<store>.json
type FileStore struct {
	Base string
	mu   sync.Mutex
}

var _ Store = (*FileStore)(nil)

type storedRecord struct {
	ID   string          `json:"id"`
	Data json.RawMessage `json:"data"`
}

// NewFileStore creates the directory layout below base.
func NewFileStore(base string) (*FileStore, error) {
	for _, dir := range []string{filepath.Join(base, "kv"), filepath.Join(base, "stores")} {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("storage error creating directories: %w", err)
		}
	}
	return &FileStore{Base: base}, nil
}

func (s *FileStore) keyPath(key string) string {
	return filepath.Join(s.Base, "kv", key+".json")
}

func (s *FileStore) storePath(store string) string {
	return filepath.Join(s.Base, "stores", store+".json")
}

// Get implements Store.
func (s *FileStore) Get(ctx context.Context, key string, v any) (bool, error) {
	if err := validName("key", key); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := readFile(s.keyPath(key))
	if err != nil || data == nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, backupCorrupt(s.keyPath(key), err)
	}
	return true, nil
}

// Set implements Store.
func (s *FileStore) Set(ctx context.Context, key string, v any) error {
	if err := validName("key", key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeJSON(s.keyPath(key), v)
}

// GetAll implements Store.
func (s *FileStore) GetAll(ctx context.Context, store string) ([]json.RawMessage, error) {
	if err := validName("store", store); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.loadStore(store)
	if err != nil {
		return nil, err
	}
	out := make([]json.RawMessage, len(recs))
	for i, r := range recs {
		out[i] = r.Data
	}
	return out, nil
}

// SaveTo implements Store.
func (s *FileStore) SaveTo(ctx context.Context, store, id string, v any) error {
	if err := validName("store", store); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.loadStore(store)
	if err != nil {
		return err
	}
	for i := range recs {
		if recs[i].ID == id {
			recs[i].Data = data
			return writeJSON(s.storePath(store), recs)
		}
	}
	recs = append(recs, storedRecord{ID: id, Data: data})
	return writeJSON(s.storePath(store), recs)
}

// DeleteFrom implements Store. Deleting a missing id is not an error.
func (s *FileStore) DeleteFrom(ctx context.Context, store, id string) error {
	if err := validName("store", store); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.loadStore(store)
	if err != nil {
		return err
	}
	kept := recs[:0]
	for _, r := range recs {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	return writeJSON(s.storePath(store), kept)
}

// Close implements Store.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) loadStore(store string) ([]storedRecord, error) {
	path := s.storePath(store)
	data, err := readFile(path)
	if err != nil || data == nil {
		return []storedRecord{}, err
	}
	var recs []storedRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, backupCorrupt(path, err)
	}
	return recs, nil
}

// readFile returns nil data and no error when the file does not exist.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage error reading %s: %w", path, err)
	}
	return data, nil
}

// backupCorrupt moves an undecodable file aside to <path>.corrupt-<timestamp>
// so the next write starts clean. Earlier backups are never overwritten.
func backupCorrupt(path string, cause error) error {
	backupPath := fmt.Sprintf("%s.corrupt-%s", path, time.Now().UTC().Format(backupStamp))
	for n := 1; fileExists(backupPath); n++ {
		backupPath = fmt.Sprintf("%s.corrupt-%s-%d", path, time.Now().UTC().Format(backupStamp), n)
	}
	_ = os.Rename(path, backupPath)
	return fmt.Errorf("%w: %s (backed up to %s): %v", ErrCorrupt, path, backupPath, cause)
}

const backupStamp = "20060102T150405.000000000Z"

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// writeJSON atomically writes v as indented JSON.
func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}

	// Atomic write: write to temp file then rename.
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}
