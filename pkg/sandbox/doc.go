// Package sandbox provides the per-application storage area that secure records are
// written to.
//
// All paths handed to a Storage are relative to an opaque root that belongs to one user
// and one application. Implementations refuse paths that would escape that root. The
// package offers four backends behind the same interface:
//   - LocalStorage: a directory on the local filesystem (default under the user config dir)
//   - S3Storage: an S3 or S3-compatible bucket, optionally under a key prefix
//   - BoltStorage: a single bbolt database file, closed by the last handle Release
//   - MemoryStorage: a process-local map, for tests and ephemeral use
//
// # Architecture
//
// Storage mirrors the primitives a sandboxed filesystem exposes:
//   - Open / Create return streams for reading and truncating writes
//   - Exists, Delete, CreateDir and DirExists manage entries
//   - List returns file names in a directory filtered by a glob pattern
//
// ReadFile and WriteFile are helpers built on those streams.
//
// # Shared handle
//
// A Handle wraps a Storage together with the single mutex that serializes writes to it.
// Acquire returns the process-wide Handle for a key, opening the Storage lazily on first
// use and counting references so that the last Release closes it:
//
//	h, err := sandbox.Acquire("app-root", func() (sandbox.Storage, error) {
//		return sandbox.NewLocalStorage(root)
//	})
//	if err != nil {
//		return err
//	}
//	defer h.Release()
//
//	unlock := h.Lock()
//	err = sandbox.WriteFile(ctx, h, "domain/key.dat", data)
//	unlock()
//
// NewHandle builds an unshared Handle, which is what tests should inject.
//
// # Error Handling
//
// Backend failures are wrapped around package sentinels such as ErrFileNotFound,
// ErrDirectoryNotFound or ErrInvalidPath. S3 errors are mapped onto the same sentinels:
//   - NoSuchBucket -> ErrBucketNotFound
//   - NoSuchKey -> ErrFileNotFound
//   - AccessDenied -> ErrAccessDenied
package sandbox
