package objectstore

import (
	"context"
	"reflect"
)

// Save stores obj under key in the folder of T.
func Save[T any](ctx context.Context, s *Store, obj T, key string) error {
	_, err := s.SaveObject(ctx, obj, key)
	return err
}

// Load returns the T saved under key, or nil when there is none.
func Load[T any](ctx context.Context, s *Store, key string) (*T, error) {
	v := new(T)
	found, err := s.load(ctx, reflect.TypeFor[T](), key, v)
	if err != nil || !found {
		return nil, err
	}
	return v, nil
}

// Keys returns the keys of every stored T.
func Keys[T any](ctx context.Context, s *Store) ([]string, error) {
	return s.GetAllKeys(ctx, reflect.TypeFor[T]())
}

// All loads every stored T, skipping missing or corrupt records.
func All[T any](ctx context.Context, s *Store) ([]T, error) {
	keys, err := Keys[T](ctx, s)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(keys))
	for _, key := range keys {
		v, err := Load[T](ctx, s, key)
		if err != nil {
			return nil, err
		}
		if v != nil {
			out = append(out, *v)
		}
	}
	return out, nil
}

// Delete removes the T saved under key.
func Delete[T any](ctx context.Context, s *Store, key string) error {
	return s.DeleteObject(ctx, reflect.TypeFor[T](), key)
}

// DeleteAll removes every stored T.
func DeleteAll[T any](ctx context.Context, s *Store) error {
	return s.DeleteAllObjects(ctx, reflect.TypeFor[T]())
}
