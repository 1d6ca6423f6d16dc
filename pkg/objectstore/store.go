package objectstore

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path"
	"reflect"
	"strings"

	"github.com/dmitrymomot/securestore/pkg/cache"
	"github.com/dmitrymomot/securestore/pkg/codec"
	"github.com/dmitrymomot/securestore/pkg/ecies"
	"github.com/dmitrymomot/securestore/pkg/keymanager"
	"github.com/dmitrymomot/securestore/pkg/logger"
	"github.com/dmitrymomot/securestore/pkg/metrics"
	"github.com/dmitrymomot/securestore/pkg/sandbox"
)

const (
	storeName              = "object"
	encryptedExt           = ".cry"
	plainExt               = ".xml"
	defaultFolderCacheSize = 256
)

// KeyDeriver derives per-item encryption seeds. *keymanager.Manager implements it.
type KeyDeriver interface {
	CryptKey(itemKey string) []byte
	Encrypted() bool
	Domain() string
}

// Store persists structured objects at <domain>/<type folder>/<key>.{cry|xml}.
type Store struct {
	handle  *sandbox.Handle
	keys    KeyDeriver
	codec   codec.Codec
	logger  *slog.Logger
	metrics *metrics.Metrics

	folderCacheSize int
	folders         *cache.LRU[reflect.Type, string]
}

// New creates an object store writing through handle.
func New(handle *sandbox.Handle, keys KeyDeriver, opts ...Option) (*Store, error) {
	if handle == nil {
		return nil, ErrNilHandle
	}
	if keys == nil {
		return nil, ErrNilKeys
	}

	s := &Store{
		handle:          handle,
		keys:            keys,
		codec:           codec.XML(),
		logger:          slog.Default(),
		folderCacheSize: defaultFolderCacheSize,
	}
	for _, opt := range opts {
		opt(s)
	}

	folders, err := cache.NewLRU[reflect.Type, string](s.folderCacheSize)
	if err != nil {
		return nil, err
	}
	s.folders = folders
	s.logger = s.logger.With(logger.Component("objectstore"), logger.Domain(keys.Domain()))

	return s, nil
}

// SaveObject stores obj under key in the folder of obj's type and returns key.
// The key is validated before the sandbox is touched.
func (s *Store) SaveObject(ctx context.Context, obj any, key string) (_ string, err error) {
	defer func() { s.metrics.Operation(storeName, "save", err) }()

	if err := ValidateKey(key); err != nil {
		return "", err
	}
	if isNil(obj) {
		return "", ErrNilObject
	}
	dir, err := s.dir(reflect.TypeOf(obj))
	if err != nil {
		return "", err
	}

	data, err := s.codec.Marshal(obj)
	if err != nil {
		return "", errors.Join(ErrSaveFailed, err)
	}
	if s.keys.Encrypted() {
		if data, err = ecies.Encrypt(data, s.keys.CryptKey(key)); err != nil {
			return "", errors.Join(ErrSaveFailed, err)
		}
	}

	unlock := s.handle.Lock()
	defer unlock()

	if !s.handle.DirExists(ctx, dir) {
		if err := s.handle.CreateDir(ctx, dir); err != nil {
			return "", errors.Join(ErrSaveFailed, err)
		}
	}
	if err := sandbox.WriteFile(ctx, s.handle, s.file(dir, key), data); err != nil {
		return "", errors.Join(ErrSaveFailed, err)
	}
	return key, nil
}

// LoadObject loads the object of type t saved under key. It returns nil when
// nothing is stored. For a pointer type the result is a pointer, otherwise a value.
//
// A record that cannot be decrypted or decoded is deleted and reported as
// absent.
func (s *Store) LoadObject(ctx context.Context, t reflect.Type, key string) (any, error) {
	if t == nil {
		return nil, ErrNilType
	}
	elem := t
	for elem.Kind() == reflect.Pointer {
		elem = elem.Elem()
	}

	target := reflect.New(elem)
	found, err := s.load(ctx, t, key, target.Interface())
	if err != nil || !found {
		return nil, err
	}
	if t.Kind() == reflect.Pointer {
		return target.Interface(), nil
	}
	return target.Elem().Interface(), nil
}

// GetAllKeys returns the keys of every object of type t, in listing order.
func (s *Store) GetAllKeys(ctx context.Context, t reflect.Type) (_ []string, err error) {
	defer func() { s.metrics.Operation(storeName, "keys", err) }()

	dir, err := s.dir(t)
	if err != nil {
		return nil, err
	}

	ext := s.ext()
	names, err := s.handle.List(ctx, dir, "*"+ext)
	if errors.Is(err, sandbox.ErrDirectoryNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, errors.Join(ErrListFailed, err)
	}

	keys := make([]string, 0, len(names))
	for _, name := range names {
		keys = append(keys, strings.TrimSuffix(name, ext))
	}
	return keys, nil
}

// GetAllObjects loads every object of type t, skipping records that turn out
// to be missing or corrupt.
func (s *Store) GetAllObjects(ctx context.Context, t reflect.Type) ([]any, error) {
	keys, err := s.GetAllKeys(ctx, t)
	if err != nil {
		return nil, err
	}

	objs := make([]any, 0, len(keys))
	for _, key := range keys {
		obj, err := s.LoadObject(ctx, t, key)
		if err != nil {
			return nil, err
		}
		if obj != nil {
			objs = append(objs, obj)
		}
	}
	return objs, nil
}

// DeleteObject removes the object of type t saved under key. A missing object
// is not an error.
func (s *Store) DeleteObject(ctx context.Context, t reflect.Type, key string) (err error) {
	defer func() { s.metrics.Operation(storeName, "delete", err) }()

	if err := ValidateKey(key); err != nil {
		return err
	}
	dir, err := s.dir(t)
	if err != nil {
		return err
	}

	unlock := s.handle.Lock()
	defer unlock()
	return s.deleteLocked(ctx, s.file(dir, key))
}

// DeleteAllObjects removes every object of type t.
func (s *Store) DeleteAllObjects(ctx context.Context, t reflect.Type) (err error) {
	defer func() { s.metrics.Operation(storeName, "delete_all", err) }()

	keys, err := s.GetAllKeys(ctx, t)
	if err != nil {
		return err
	}
	dir, err := s.dir(t)
	if err != nil {
		return err
	}

	unlock := s.handle.Lock()
	defer unlock()
	for _, key := range keys {
		if err := s.deleteLocked(ctx, s.file(dir, key)); err != nil {
			return err
		}
	}
	return nil
}

// load decodes the record of type t under key into target.
func (s *Store) load(ctx context.Context, t reflect.Type, key string, target any) (found bool, err error) {
	defer func() { s.metrics.Operation(storeName, "load", err) }()

	if err := ValidateKey(key); err != nil {
		return false, err
	}
	dir, err := s.dir(t)
	if err != nil {
		return false, err
	}
	p := s.file(dir, key)

	data, err := sandbox.ReadFile(ctx, s.handle, p)
	if errors.Is(err, sandbox.ErrFileNotFound) {
		return false, nil
	}
	if err != nil {
		return false, errors.Join(ErrLoadFailed, err)
	}

	plain := data
	if s.keys.Encrypted() {
		if plain, err = ecies.Decrypt(data, s.keys.CryptKey(key)); err != nil {
			s.purge(ctx, p, key, data, err)
			return false, nil
		}
	}
	if err := s.codec.Unmarshal(plain, target); err != nil {
		s.purge(ctx, p, key, data, err)
		return false, nil
	}
	return true, nil
}

// purge deletes a record that can never be read again. The record is only
// deleted while it still holds the bytes that failed: a save that landed
// after the unlocked read wins.
func (s *Store) purge(ctx context.Context, p, key string, failed []byte, cause error) {
	unlock := s.handle.Lock()
	defer unlock()

	attrs := []any{
		logger.ItemKey(key), logger.Path(p), logger.TypeFolder(path.Base(path.Dir(p))), logger.Operation("load"),
	}

	current, err := sandbox.ReadFile(ctx, s.handle, p)
	if errors.Is(err, sandbox.ErrFileNotFound) {
		return
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to re-read unreadable record", append(attrs, logger.Errors(cause, err))...)
		return
	}
	if !bytes.Equal(current, failed) {
		s.logger.DebugContext(ctx, "unreadable record replaced before purge", append(attrs, logger.Error(cause))...)
		return
	}

	if err := s.deleteLocked(ctx, p); err != nil {
		s.logger.ErrorContext(ctx, "failed to purge unreadable record", append(attrs, logger.Errors(cause, err))...)
		return
	}
	s.metrics.Purged(storeName)
	s.logger.WarnContext(ctx, "unreadable record purged", append(attrs, logger.Error(cause))...)
}

// Must be called with the handle lock held.
func (s *Store) deleteLocked(ctx context.Context, p string) error {
	if err := s.handle.Delete(ctx, p); err != nil && !errors.Is(err, sandbox.ErrFileNotFound) {
		return errors.Join(ErrDeleteFailed, err)
	}
	return nil
}

func (s *Store) dir(t reflect.Type) (string, error) {
	if t == nil {
		return "", ErrNilType
	}
	folder, err := s.folders.GetOrCompute(t, TypeFolder)
	if err != nil {
		return "", err
	}
	return s.keys.Domain() + "/" + folder, nil
}

func (s *Store) file(dir, key string) string {
	return dir + "/" + keymanager.NormalizeKey(key) + s.ext()
}

func (s *Store) ext() string {
	if s.keys.Encrypted() {
		return encryptedExt
	}
	return plainExt
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
