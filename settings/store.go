package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/ythdp/ythdp/filesystem"
)

// Store is a persistent key-value store of JSON values.
type Store interface {
	// Get decodes the value stored under key into dst. It reports false if the key is absent.
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Keys(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, key string) error
}

// FileStore keeps all keys in a single JSON file. The file is read on every call, so
// changes made by other processes are seen.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore opens the store at path. The file is created on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the location of the file.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) cacher() *gache.Cache[map[string]json.RawMessage] {
	return gache.New[map[string]json.RawMessage](&gache.Options{
		Path:       s.path,
		FileSystem: &filesystem.GacheFs{},
	})
}

func (s *FileStore) load() (map[string]json.RawMessage, error) {
	values, expired, err := s.cacher().Get()
	if err != nil {
		return nil, err
	}
	if expired || values == nil {
		return make(map[string]json.RawMessage), nil
	}
	return values, nil
}

// Get implements Store.
func (s *FileStore) Get(ctx context.Context, key string, dst any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return false, err
	}

	raw, ok := values[key]
	if !ok {
		return false, nil
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// Set implements Store.
func (s *FileStore) Set(ctx context.Context, key string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}

	values[key] = raw
	return s.cacher().Set(values)
}

// Keys implements Store. Keys are sorted.
func (s *FileStore) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return nil, err
	}

	keys := lo.Keys(values)
	sort.Strings(keys)
	return keys, nil
}

// Delete implements Store. Deleting a missing key is not an error.
func (s *FileStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}

	if _, ok := values[key]; !ok {
		return nil
	}

	delete(values, key)
	return s.cacher().Set(values)
}
