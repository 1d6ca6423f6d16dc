package sandbox

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Storage is the sandboxed filesystem used by the secure stores.
// Paths are slash-separated and relative to the sandbox root.
type Storage interface {
	// Open returns a reader over the whole file.
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	// Create opens path for writing, creating or truncating it.
	// Data is only guaranteed to be persisted after Close returns nil.
	Create(ctx context.Context, path string) (io.WriteCloser, error)
	// Exists checks if a file exists.
	Exists(ctx context.Context, path string) bool
	// Delete removes a single file.
	Delete(ctx context.Context, path string) error
	// CreateDir creates a directory and any missing parents.
	CreateDir(ctx context.Context, path string) error
	// DirExists checks if a directory exists.
	DirExists(ctx context.Context, path string) bool
	// List returns the names of files in dir matching a glob pattern (non-recursive).
	// An empty pattern matches every file.
	List(ctx context.Context, dir, pattern string) ([]string, error)
}

// ReadFile reads the entire file at path.
func ReadFile(ctx context.Context, s Storage, path string) ([]byte, error) {
	r, err := s.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToReadFile, err)
	}
	return data, nil
}

// WriteFile writes data to path, creating or truncating the file.
func WriteFile(ctx context.Context, s Storage, path string, data []byte) error {
	w, err := s.Create(ctx, path)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("%w: %v", ErrFailedToWriteFile, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToWriteFile, err)
	}
	return nil
}

// DefaultRoot returns the per-user storage root for an application,
// located under the user configuration directory.
func DefaultRoot(app string) (string, error) {
	app = strings.TrimSpace(app)
	if app == "" || strings.ContainsAny(app, `/\`) {
		return "", fmt.Errorf("%w: application name %q", ErrInvalidConfig, app)
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToGetAbsolutePath, err)
	}
	return filepath.Join(base, app, "securestore"), nil
}

// cleanPath normalizes a sandbox path to a root-relative, slash-separated form.
func cleanPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = path.Clean("/" + p)
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		p = "."
	}
	return p
}

// validatePath rejects traversal attempts before they are cleaned away.
func validatePath(p string) (string, error) {
	for _, part := range strings.Split(strings.ReplaceAll(p, "\\", "/"), "/") {
		if part == ".." {
			return "", fmt.Errorf("%w: %s", ErrInvalidPath, p)
		}
	}
	if strings.ContainsRune(p, 0) {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, p)
	}
	return cleanPath(p), nil
}

// matchName reports whether name matches the glob pattern.
func matchName(pattern, name string) (bool, error) {
	if pattern == "" {
		return true, nil
	}
	ok, err := path.Match(pattern, name)
	if err != nil {
		return false, fmt.Errorf("%w: %s", ErrInvalidPattern, pattern)
	}
	return ok, nil
}
