package sandbox

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"sync"
)

// MemoryStorage is a process-local Storage backed by a map.
// Contents are lost when the value is garbage collected.
type MemoryStorage struct {
	mu    sync.RWMutex
	files map[string][]byte
	dirs  map[string]struct{}
}

// NewMemoryStorage returns an empty in-memory sandbox.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		files: make(map[string][]byte),
		dirs:  map[string]struct{}{".": {}},
	}
}

func (m *MemoryStorage) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key, err := validatePath(p)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.files[key]
	if !ok {
		if _, isDir := m.dirs[key]; isDir {
			return nil, fmt.Errorf("%w: %s", ErrIsDirectory, p)
		}
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, p)
	}
	return io.NopCloser(bytes.NewReader(bytes.Clone(data))), nil
}

func (m *MemoryStorage) Create(ctx context.Context, p string) (io.WriteCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key, err := validatePath(p)
	if err != nil {
		return nil, err
	}
	if key == "." {
		return nil, fmt.Errorf("%w: %s", ErrIsDirectory, p)
	}

	m.mu.RLock()
	_, isDir := m.dirs[key]
	m.mu.RUnlock()
	if isDir {
		return nil, fmt.Errorf("%w: %s", ErrIsDirectory, p)
	}

	return &memoryWriter{storage: m, key: key}, nil
}

func (m *MemoryStorage) Exists(ctx context.Context, p string) bool {
	if ctx.Err() != nil {
		return false
	}
	key, err := validatePath(p)
	if err != nil {
		return false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.files[key]
	return ok
}

func (m *MemoryStorage) Delete(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key, err := validatePath(p)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.files[key]; !ok {
		if _, isDir := m.dirs[key]; isDir {
			return fmt.Errorf("%w: %s", ErrIsDirectory, p)
		}
		return fmt.Errorf("%w: %s", ErrFileNotFound, p)
	}
	delete(m.files, key)
	return nil
}

func (m *MemoryStorage) CreateDir(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key, err := validatePath(p)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.files[key]; ok {
		return fmt.Errorf("%w: %s", ErrNotDirectory, p)
	}
	m.addDirLocked(key)
	return nil
}

func (m *MemoryStorage) DirExists(ctx context.Context, p string) bool {
	if ctx.Err() != nil {
		return false
	}
	key, err := validatePath(p)
	if err != nil {
		return false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.dirs[key]
	return ok
}

func (m *MemoryStorage) List(ctx context.Context, dir, pattern string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key, err := validatePath(dir)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.dirs[key]; !ok {
		if _, isFile := m.files[key]; isFile {
			return nil, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
		}
		return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, dir)
	}

	names := []string{}
	for filePath := range m.files {
		if path.Dir(filePath) != key {
			continue
		}
		name := path.Base(filePath)
		ok, err := matchName(pattern, name)
		if err != nil {
			return nil, err
		}
		if ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Len returns the number of stored files.
func (m *MemoryStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.files)
}

func (m *MemoryStorage) store(key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[key] = data
	m.addDirLocked(path.Dir(key))
}

// addDirLocked registers dir and all of its parents. Caller must hold mu.
func (m *MemoryStorage) addDirLocked(dir string) {
	for {
		m.dirs[dir] = struct{}{}
		if dir == "." || !strings.Contains(dir, "/") {
			m.dirs["."] = struct{}{}
			return
		}
		dir = path.Dir(dir)
	}
}

type memoryWriter struct {
	storage *MemoryStorage
	key     string
	buf     bytes.Buffer
	closed  bool
}

func (w *memoryWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, ErrWriterClosed
	}
	return w.buf.Write(p)
}

func (w *memoryWriter) Close() error {
	if w.closed {
		return ErrWriterClosed
	}
	w.closed = true
	w.storage.store(w.key, bytes.Clone(w.buf.Bytes()))
	return nil
}
