package keyring_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	keyring99 "github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/securestore/pkg/keyring"
)

type brokenRing struct {
	keyring99.Keyring
}

func (brokenRing) Get(string) (keyring99.Item, error) { return keyring99.Item{}, errors.New("locked") }
func (brokenRing) Set(keyring99.Item) error          { return errors.New("locked") }

func TestProvider_RoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	ring := keyring99.NewArrayKeyring(nil)
	p, err := keyring.NewProvider(ring)
	require.NoError(t, err)

	_, ok, err := p.Get(ctx, "billing.MasterKey")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, p.Set(ctx, "billing.MasterKey", "ABCD"))
	val, ok, err := p.Get(ctx, "billing.MasterKey")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ABCD", val)

	// Empty values are stored, not deleted.
	require.NoError(t, p.Set(ctx, "billing.MasterKey", ""))
	val, ok, err = p.Get(ctx, "billing.MasterKey")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, val)

	item, err := ring.Get("billing.MasterKey")
	require.NoError(t, err)
	assert.Equal(t, "billing.MasterKey", item.Label)
}

func TestProvider_BackendErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	p, err := keyring.NewProvider(brokenRing{})
	require.NoError(t, err)

	_, ok, err := p.Get(ctx, "k")
	assert.ErrorIs(t, err, keyring.ErrReadFailed)
	assert.False(t, ok)
	assert.ErrorIs(t, p.Set(ctx, "k", "v"), keyring.ErrWriteFailed)
}

func TestProvider_CanceledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p, err := keyring.NewProvider(keyring99.NewArrayKeyring(nil))
	require.NoError(t, err)

	_, _, err = p.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, p.Set(ctx, "k", "v"), context.Canceled)
}

func TestOpen(t *testing.T) {
	t.Parallel()

	_, err := keyring.NewProvider(nil)
	assert.ErrorIs(t, err, keyring.ErrNilKeyring)

	_, err = keyring.Open(keyring.Config{})
	assert.ErrorIs(t, err, keyring.ErrEmptyServiceName)

	_, err = keyring.Open(keyring.Config{ServiceName: "svc", Backends: []string{"floppy"}})
	assert.ErrorIs(t, err, keyring.ErrUnknownBackend)

	p, err := keyring.Open(keyring.Config{
		ServiceName:  "svc",
		Backends:     []string{"file"},
		FileDir:      filepath.Join(t.TempDir(), "ring"),
		FilePassword: "correct horse",
	})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, p.Set(ctx, "billing.MasterKey", "ABCD"))
	val, ok, err := p.Get(ctx, "billing.MasterKey")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ABCD", val)
}
