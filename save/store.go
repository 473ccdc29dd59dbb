package save

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	ErrNotFound   = errors.New("save: key not found")
	ErrInvalidKey = errors.New("save: invalid key")
)

// Store is raw keyed storage for encoded saves.
type Store interface {
	Get(key string) ([]byte, error)
	Put(key string, data []byte) error
	Delete(key string) error
	Keys() ([]string, error)
}

const fileExt = ".json"

// FileStore keeps one file per key in a directory. Only files carrying its
// prefix belong to it.
type FileStore struct {
	dir    string
	prefix string
}

func NewFileStore(dir, prefix string) *FileStore {
	return &FileStore{dir: dir, prefix: prefix}
}

func (s *FileStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.dir, s.prefix+key+fileExt), nil
}

func (s *FileStore) Get(key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

// Put writes through a temp file so a crash never leaves half a save.
func (s *FileStore) Put(key string, data []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("save: mkdir %s: %w", s.dir, err)
	}
	tmp, err := os.CreateTemp(s.dir, s.prefix+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("save: create temp: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("save: write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("save: close %s: %w", key, err)
	}
	return os.Rename(tmp.Name(), path)
}

func (s *FileStore) Delete(key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *FileStore) Keys() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var keys []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, s.prefix) || !strings.HasSuffix(name, fileExt) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(strings.TrimPrefix(name, s.prefix), fileExt))
	}
	sort.Strings(keys)
	return keys, nil
}

// MemoryStore keeps saves in a map.
type MemoryStore struct {
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Get(key string) ([]byte, error) {
	data, ok := s.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (s *MemoryStore) Put(key string, data []byte) error {
	if key == "" {
		return ErrInvalidKey
	}
	s.data[key] = append([]byte(nil), data...)
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	delete(s.data, key)
	return nil
}

func (s *MemoryStore) Keys() ([]string, error) {
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
