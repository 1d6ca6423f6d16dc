package blobstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/securestore/pkg/async"
	"github.com/dmitrymomot/securestore/pkg/codec"
	"github.com/dmitrymomot/securestore/pkg/ecies"
	"github.com/dmitrymomot/securestore/pkg/keymanager"
	"github.com/dmitrymomot/securestore/pkg/logger"
	"github.com/dmitrymomot/securestore/pkg/metrics"
	"github.com/dmitrymomot/securestore/pkg/sandbox"
)

const (
	storeName = "blob"
	extension = ".dat"
)

// Keys derives per-item encryption seeds. *keymanager.Manager implements it.
type Keys interface {
	CryptKey(itemKey string) []byte
	Encrypted() bool
	Domain() string
}

// Store persists raw byte blobs at <domain>/<itemKey>.dat.
type Store struct {
	handle  *sandbox.Handle
	keys    Keys
	codec   codec.Codec
	logger  *slog.Logger
	metrics *metrics.Metrics
	pending async.Group
}

// New creates a blob store writing through handle.
func New(handle *sandbox.Handle, keys Keys, opts ...Option) (*Store, error) {
	if handle == nil {
		return nil, ErrNilHandle
	}
	if keys == nil {
		return nil, ErrNilKeys
	}

	s := &Store{
		handle: handle,
		keys:   keys,
		codec:  codec.Binary(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("blobstore"), logger.Domain(keys.Domain()))

	return s, nil
}

// Save writes data under itemKey, replacing any previous blob.
// It does not take the store-wide lock and may race with pending SaveAsync
// writes to the same key.
func (s *Store) Save(ctx context.Context, data []byte, itemKey string) (err error) {
	defer func() { s.metrics.Operation(storeName, "save", err) }()

	p, err := s.path(itemKey)
	if err != nil {
		return err
	}
	out, err := s.seal(data, itemKey)
	if err != nil {
		return errors.Join(ErrSaveFailed, err)
	}
	if err := sandbox.WriteFile(ctx, s.handle, p, out); err != nil {
		return errors.Join(ErrSaveFailed, err)
	}
	return nil
}

// Load returns the blob saved under itemKey, or nil if there is none.
// A blob that cannot be decrypted is logged and reported as absent.
func (s *Store) Load(ctx context.Context, itemKey string) (data []byte, err error) {
	defer func() { s.metrics.Operation(storeName, "load", err) }()

	p, err := s.path(itemKey)
	if err != nil {
		return nil, err
	}
	raw, err := sandbox.ReadFile(ctx, s.handle, p)
	if errors.Is(err, sandbox.ErrFileNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Join(ErrLoadFailed, err)
	}

	data, err = s.open(raw, itemKey)
	if err != nil {
		s.logger.WarnContext(ctx, "blob could not be decrypted", logger.ItemKey(itemKey), logger.Error(err))
		return nil, nil
	}
	return data, nil
}

// Exists reports whether a blob is stored under itemKey.
func (s *Store) Exists(ctx context.Context, itemKey string) bool {
	p, err := s.path(itemKey)
	if err != nil {
		return false
	}
	return s.handle.Exists(ctx, p)
}

// Delete removes the blob saved under itemKey. Deleting a missing blob is not an error.
func (s *Store) Delete(ctx context.Context, itemKey string) (err error) {
	defer func() { s.metrics.Operation(storeName, "delete", err) }()

	p, err := s.path(itemKey)
	if err != nil {
		return err
	}

	unlock := s.handle.Lock()
	defer unlock()

	if err := s.handle.Delete(ctx, p); err != nil && !errors.Is(err, sandbox.ErrFileNotFound) {
		return errors.Join(ErrDeleteFailed, err)
	}
	return nil
}

// SaveAsync serializes obj with the binary codec and writes it under itemKey
// in the background. The call returns immediately; failures are logged and
// counted but never reported to the caller. obj must not be modified until
// the write has happened (see Wait).
//
// Background writes are serialized with every other locked write to the same
// storage and are not canceled when ctx is.
func (s *Store) SaveAsync(ctx context.Context, obj any, itemKey string) {
	job := asyncWrite{obj: obj, itemKey: itemKey}
	async.Go(&s.pending, context.WithoutCancel(ctx), job, s.write)
}

// Wait blocks until every SaveAsync issued so far has finished.
func (s *Store) Wait() {
	s.pending.Wait()
}

type asyncWrite struct {
	obj     any
	itemKey string
}

// write runs a SaveAsync job. Nobody awaits the future, so every failure,
// including a panic in the codec, is logged and counted here.
func (s *Store) write(ctx context.Context, job asyncWrite) (_ struct{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", async.ErrPanic, r)
		}
		s.metrics.Operation(storeName, "save_async", err)
		if err != nil {
			s.metrics.AsyncWriteFailed()
			s.logger.ErrorContext(ctx, "background write dropped",
				logger.ItemKey(job.itemKey), logger.Operation("save_async"), logger.Error(err))
		}
	}()
	return struct{}{}, s.writeLocked(ctx, job)
}

func (s *Store) writeLocked(ctx context.Context, job asyncWrite) error {
	p, err := s.path(job.itemKey)
	if err != nil {
		return err
	}
	data, err := s.codec.Marshal(job.obj)
	if err != nil {
		return err
	}
	out, err := s.seal(data, job.itemKey)
	if err != nil {
		return err
	}

	unlock := s.handle.Lock()
	defer unlock()
	return sandbox.WriteFile(ctx, s.handle, p, out)
}

// LoadValue reads a value written by SaveAsync. Any failure, including a
// missing blob, yields nil.
func LoadValue[T any](ctx context.Context, s *Store, itemKey string) *T {
	data, err := s.Load(ctx, itemKey)
	if err != nil || data == nil {
		return nil
	}

	v := new(T)
	if err := s.codec.Unmarshal(data, v); err != nil {
		s.logger.WarnContext(ctx, "blob could not be decoded", logger.ItemKey(itemKey), logger.Error(err))
		return nil
	}
	return v
}

func (s *Store) seal(data []byte, itemKey string) ([]byte, error) {
	if !s.keys.Encrypted() {
		return data, nil
	}
	return ecies.Encrypt(data, s.keys.CryptKey(itemKey))
}

func (s *Store) open(data []byte, itemKey string) ([]byte, error) {
	if !s.keys.Encrypted() {
		return data, nil
	}
	return ecies.Decrypt(data, s.keys.CryptKey(itemKey))
}

func (s *Store) path(itemKey string) (string, error) {
	if itemKey == "" {
		return "", ErrEmptyKey
	}
	return s.keys.Domain() + "/" + keymanager.NormalizeKey(itemKey) + extension, nil
}
