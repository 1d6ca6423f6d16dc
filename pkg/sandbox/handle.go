package sandbox

import (
	"io"
	"sync"
)

// Handle is a Storage shared by every store of a process together with the
// mutex that serializes writes to it.
type Handle struct {
	Storage

	key     string
	writeMu *sync.Mutex

	releaseOnce sync.Once
}

// NewHandle wraps s in a Handle that is not registered in the process-wide table.
// Release on such a handle is a no-op.
func NewHandle(s Storage) *Handle {
	return &Handle{Storage: s, writeMu: &sync.Mutex{}}
}

// Lock acquires the store-wide write lock and returns the function that releases it.
func (h *Handle) Lock() (unlock func()) {
	h.writeMu.Lock()
	return h.writeMu.Unlock
}

// Release drops one reference to a shared handle. When the last reference is
// gone the underlying Storage is closed if it implements io.Closer.
// Calling Release more than once on the same Handle has no further effect.
func (h *Handle) Release() error {
	if h.key == "" {
		return nil
	}

	var err error
	h.releaseOnce.Do(func() {
		err = registry.release(h.key)
	})
	return err
}

type sharedEntry struct {
	storage Storage
	writeMu *sync.Mutex
	refs    int
}

type handleRegistry struct {
	mu      sync.Mutex
	entries map[string]*sharedEntry
}

var registry = &handleRegistry{entries: make(map[string]*sharedEntry)}

// Acquire returns a reference to the process-wide Handle registered under key.
// open is called only when no live handle exists for key. Every successful
// Acquire must be paired with a Release.
func Acquire(key string, open func() (Storage, error)) (*Handle, error) {
	if key == "" || open == nil {
		return nil, ErrInvalidConfig
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()

	entry, ok := registry.entries[key]
	if !ok {
		s, err := open()
		if err != nil {
			return nil, err
		}
		entry = &sharedEntry{storage: s, writeMu: &sync.Mutex{}}
		registry.entries[key] = entry
	}
	entry.refs++

	return &Handle{Storage: entry.storage, key: key, writeMu: entry.writeMu}, nil
}

// Shared reports how many references are held on key.
func Shared(key string) int {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if entry, ok := registry.entries[key]; ok {
		return entry.refs
	}
	return 0
}

func (r *handleRegistry) release(key string) error {
	r.mu.Lock()
	entry, ok := r.entries[key]
	if !ok {
		r.mu.Unlock()
		return ErrHandleReleased
	}
	entry.refs--
	if entry.refs > 0 {
		r.mu.Unlock()
		return nil
	}
	delete(r.entries, key)
	r.mu.Unlock()

	if closer, ok := entry.storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
