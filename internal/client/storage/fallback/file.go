// Package fallback implements the flat key-value mirror behind the
// persistence facade: a JSON file on local disk or a Redis keyspace.
package fallback

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/dmitrijs2005/shopkeeper/internal/client/storage"
	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/filex"
)

// DefaultQuota bounds the total size of keys plus values.
const DefaultQuota = 5 << 20

// FileStore keeps every key in one JSON object on disk.
type FileStore struct {
	mu    sync.Mutex
	path  string
	quota int
	data  map[string]string
	size  int
}

var _ storage.KeyValueStore = (*FileStore)(nil)

// NewFileStore loads path if it exists. A missing file is an empty store.
// quota <= 0 selects DefaultQuota.
func NewFileStore(path string, quota int) (*FileStore, error) {
	if quota <= 0 {
		quota = DefaultQuota
	}

	s := &FileStore{path: path, quota: quota, data: map[string]string{}}

	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(b) > 0 {
		if err := json.Unmarshal(b, &s.data); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}
	for k, v := range s.data {
		s.size += len(k) + len(v)
	}
	return s, nil
}

func (s *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.data[key]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return []byte(v), nil
}

// Put fails with common.ErrQuotaExceeded, leaving the store untouched, when
// the write would push the total past the quota.
func (s *FileStore) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	newSize := s.size + len(key) + len(value)
	if old, ok := s.data[key]; ok {
		newSize -= len(key) + len(old)
	}
	if newSize > s.quota {
		return fmt.Errorf("%w: %d of %d bytes", common.ErrQuotaExceeded, newSize, s.quota)
	}

	next := make(map[string]string, len(s.data)+1)
	for k, v := range s.data {
		next[k] = v
	}
	next[key] = string(value)

	if err := s.flush(next); err != nil {
		return err
	}
	s.data = next
	s.size = newSize
	return nil
}

// Delete removes key. Missing keys are not an error.
func (s *FileStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.data[key]
	if !ok {
		return nil
	}

	next := make(map[string]string, len(s.data))
	for k, v := range s.data {
		if k != key {
			next[k] = v
		}
	}

	if err := s.flush(next); err != nil {
		return err
	}
	s.data = next
	s.size -= len(key) + len(old)
	return nil
}

// Size reports the bytes counted against the quota.
func (s *FileStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

func (s *FileStore) flush(m map[string]string) error {
	b, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}
	return filex.WriteFileAtomic(s.path, b, 0o600)
}
