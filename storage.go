package securestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dmitrymomot/securestore/pkg/blobstore"
	"github.com/dmitrymomot/securestore/pkg/environment"
	"github.com/dmitrymomot/securestore/pkg/keymanager"
	"github.com/dmitrymomot/securestore/pkg/logger"
	"github.com/dmitrymomot/securestore/pkg/objectstore"
	"github.com/dmitrymomot/securestore/pkg/sandbox"
)

// Storage bundles the stores of one domain. All of them share a single
// master secret and a single sandbox.
type Storage struct {
	Blobs   *blobstore.Store
	Objects *objectstore.Store
	Values  *Values

	keys    *keymanager.Manager
	handle  *sandbox.Handle
	closers []io.Closer
	logger  *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

// New opens the stores for domain. The master secret is loaded or created
// before New returns, so the first call for a new domain writes to the
// secure provider or the sandbox.
func New(ctx context.Context, domain string, opts ...Option) (*Storage, error) {
	return newStorage(ctx, domain, nil, opts...)
}

// validateDomain accepts names that are a single folder under the sandbox root.
func validateDomain(domain string) error {
	if domain == "." || domain == ".." {
		return ErrInvalidDomain
	}
	if err := objectstore.ValidateKey(domain); err != nil {
		return errors.Join(ErrInvalidDomain, err)
	}
	return nil
}

func newStorage(ctx context.Context, domain string, closers []io.Closer, opts ...Option) (*Storage, error) {
	if err := validateDomain(domain); err != nil {
		closeAll(closers)
		return nil, err
	}

	o := options{
		encrypted: true,
		logger:    slog.Default(),
		env:       environment.Production,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.openSandbox == nil {
		o.sandboxKey, o.openSandbox = defaultSandbox()
	}
	log := o.logger.With(logger.Domain(domain))

	handle, err := sandbox.Acquire(o.sandboxKey, o.openSandbox)
	if err != nil {
		closeAll(closers)
		return nil, errors.Join(ErrSandboxFailed, err)
	}

	kmOpts := []keymanager.Option{
		keymanager.WithEncryption(o.encrypted),
		keymanager.WithLogger(log),
		keymanager.WithEnvironment(o.env),
		keymanager.WithMetrics(o.metrics),
	}
	if o.provider != nil {
		kmOpts = append(kmOpts, keymanager.WithProvider(o.provider))
	}
	if o.identity != nil {
		kmOpts = append(kmOpts, keymanager.WithIdentity(*o.identity))
	}

	keys, err := keymanager.New(ctx, domain, handle, kmOpts...)
	if err != nil {
		_ = handle.Release()
		closeAll(closers)
		return nil, err
	}

	blobs, err := blobstore.New(handle, keys,
		blobstore.WithLogger(log),
		blobstore.WithMetrics(o.metrics),
	)
	if err != nil {
		_ = keys.Close()
		_ = handle.Release()
		closeAll(closers)
		return nil, err
	}

	objOpts := []objectstore.Option{
		objectstore.WithLogger(log),
		objectstore.WithMetrics(o.metrics),
	}
	if o.objectCodec != nil {
		objOpts = append(objOpts, objectstore.WithCodec(o.objectCodec))
	}
	objects, err := objectstore.New(handle, keys, objOpts...)
	if err != nil {
		_ = keys.Close()
		_ = handle.Release()
		closeAll(closers)
		return nil, err
	}

	log.DebugContext(ctx, "secure storage opened",
		slog.Bool("encrypted", keys.Encrypted()),
		slog.Bool("secure_provider", keys.SecureKeyValueCapability()),
	)

	return &Storage{
		Blobs:   blobs,
		Objects: objects,
		Values:  &Values{blobs: blobs},
		keys:    keys,
		handle:  handle,
		closers: closers,
		logger:  log,
	}, nil
}

// Domain returns the domain the stores were opened for.
func (s *Storage) Domain() string { return s.keys.Domain() }

// Encrypted reports whether payloads are encrypted at rest.
func (s *Storage) Encrypted() bool { return s.keys.Encrypted() }

// SecureKeyValueCapability reports whether the master secret lives in the
// configured provider rather than in the sandbox fallback file.
func (s *Storage) SecureKeyValueCapability() bool { return s.keys.SecureKeyValueCapability() }

// Wait blocks until every pending background write has finished.
func (s *Storage) Wait() { s.Blobs.Wait() }

// Close drains background writes, wipes the master secret and releases the
// sandbox. The stores must not be used afterwards.
func (s *Storage) Close() error {
	s.closeOnce.Do(func() {
		s.Blobs.Wait()

		errs := []error{s.keys.Close(), s.handle.Release()}
		for _, c := range s.closers {
			errs = append(errs, c.Close())
		}
		s.closeErr = errors.Join(errs...)
		if s.closeErr != nil {
			s.logger.Warn("secure storage closed with errors", logger.Error(s.closeErr))
		}
	})
	return s.closeErr
}

// defaultSandbox returns the local sandbox under the per-user data directory
// named after the running executable.
func defaultSandbox() (string, func() (sandbox.Storage, error)) {
	app := "securestore"
	if exe, err := os.Executable(); err == nil {
		app = strings.TrimSuffix(filepath.Base(exe), filepath.Ext(exe))
	}

	open := func() (sandbox.Storage, error) {
		root, err := sandbox.DefaultRoot(app)
		if err != nil {
			return nil, err
		}
		return sandbox.NewLocalStorage(root)
	}
	return fmt.Sprintf("local:%s", app), open
}

func closeAll(closers []io.Closer) {
	for _, c := range closers {
		_ = c.Close()
	}
}
