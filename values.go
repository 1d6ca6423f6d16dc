package securestore

import (
	"context"
	"errors"

	"github.com/dmitrymomot/securestore/pkg/blobstore"
	"github.com/dmitrymomot/securestore/pkg/objectstore"
)

const valuePrefix = "value."

// ErrInvalidValueName is returned for names that are not valid item keys.
var ErrInvalidValueName = errors.New("securestore: invalid value name")

// Values keeps small encrypted string settings next to the blobs of a domain.
type Values struct {
	blobs *blobstore.Store
}

// Set stores value under name, replacing any previous value.
func (v *Values) Set(ctx context.Context, name, value string) error {
	key, err := valueKey(name)
	if err != nil {
		return err
	}
	return v.blobs.Save(ctx, []byte(value), key)
}

// Get returns the value stored under name, or "" when there is none.
func (v *Values) Get(ctx context.Context, name string) (string, error) {
	value, _, err := v.Lookup(ctx, name)
	return value, err
}

// Lookup is like Get but also reports whether a value was found.
// A value that cannot be decrypted is reported as missing.
func (v *Values) Lookup(ctx context.Context, name string) (string, bool, error) {
	key, err := valueKey(name)
	if err != nil {
		return "", false, err
	}
	data, err := v.blobs.Load(ctx, key)
	if err != nil || data == nil {
		return "", false, err
	}
	return string(data), true, nil
}

// Delete removes the value stored under name. Missing values are ignored.
func (v *Values) Delete(ctx context.Context, name string) error {
	key, err := valueKey(name)
	if err != nil {
		return err
	}
	return v.blobs.Delete(ctx, key)
}

func valueKey(name string) (string, error) {
	if err := objectstore.ValidateKey(name); err != nil {
		return "", errors.Join(ErrInvalidValueName, err)
	}
	return valuePrefix + name, nil
}
