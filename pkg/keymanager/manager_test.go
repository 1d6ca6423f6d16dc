package keymanager_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/securestore/pkg/environment"
	"github.com/dmitrymomot/securestore/pkg/keymanager"
	"github.com/dmitrymomot/securestore/pkg/metrics"
	"github.com/dmitrymomot/securestore/pkg/sandbox"
)

var testIdentity = keymanager.Identity{Machine: "build-host", User: "alice"}

// mapProvider is an in-memory secure provider.
type mapProvider struct {
	mu     sync.Mutex
	values map[string]string
	setErr error
	lie    bool
}

func newMapProvider() *mapProvider {
	return &mapProvider{values: make(map[string]string)}
}

func (p *mapProvider) Get(_ context.Context, name string) (string, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.values[name]
	if p.lie && ok {
		return v + "-tampered", true, nil
	}
	return v, ok, nil
}

func (p *mapProvider) Set(_ context.Context, name, value string) error {
	if p.setErr != nil {
		return p.setErr
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values[name] = value
	return nil
}

func (p *mapProvider) value(name string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.values[name]
	return v, ok
}

func TestNew_FileFallback(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	storage := sandbox.NewMemoryStorage()

	m1, err := keymanager.New(ctx, "app", storage, keymanager.WithIdentity(testIdentity))
	require.NoError(t, err)
	assert.False(t, m1.SecureKeyValueCapability())
	assert.True(t, m1.Encrypted())
	assert.True(t, m1.Initialized())

	recordPath := "app." + testIdentity.Fingerprint()
	require.True(t, storage.Exists(ctx, recordPath), "master secret must be persisted at the sandbox root")

	raw, err := sandbox.ReadFile(ctx, storage, recordPath)
	require.NoError(t, err)
	assert.NotRegexp(t, "^[0-9A-F]{64}$", string(raw), "fallback record must not be plaintext")

	// Reopening reads the same master secret back.
	m2, err := keymanager.New(ctx, "app", storage, keymanager.WithIdentity(testIdentity))
	require.NoError(t, err)
	assert.Equal(t, m1.CryptKey("item"), m2.CryptKey("item"))
	assert.Equal(t, 1, storage.Len())
}

func TestNew_FallbackBoundToIdentity(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	storage := sandbox.NewMemoryStorage()

	m1, err := keymanager.New(ctx, "app", storage, keymanager.WithIdentity(testIdentity))
	require.NoError(t, err)

	// Same machine, different user: the fallback file cannot be decrypted,
	// so a fresh master secret replaces it.
	other := keymanager.Identity{Machine: testIdentity.Machine, User: "mallory"}
	m2, err := keymanager.New(ctx, "app", storage, keymanager.WithIdentity(other))
	require.NoError(t, err)

	assert.NotEqual(t, m1.CryptKey("item"), m2.CryptKey("item"))
}

// flakyStorage fails the next N opens or creates with a transient error.
type flakyStorage struct {
	*sandbox.MemoryStorage
	mu          sync.Mutex
	failOpens   int
	failCreates int
}

func (s *flakyStorage) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	s.mu.Lock()
	fail := s.failOpens > 0
	if fail {
		s.failOpens--
	}
	s.mu.Unlock()
	if fail {
		return nil, sandbox.ErrFailedToOpenFile
	}
	return s.MemoryStorage.Open(ctx, path)
}

func (s *flakyStorage) Create(ctx context.Context, path string) (io.WriteCloser, error) {
	s.mu.Lock()
	fail := s.failCreates > 0
	if fail {
		s.failCreates--
	}
	s.mu.Unlock()
	if fail {
		return nil, sandbox.ErrFailedToCreateFile
	}
	return s.MemoryStorage.Create(ctx, path)
}

func TestNew_TransientReadKeepsMasterSecret(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	storage := &flakyStorage{MemoryStorage: sandbox.NewMemoryStorage()}

	m1, err := keymanager.New(ctx, "app", storage, keymanager.WithIdentity(testIdentity))
	require.NoError(t, err)
	want := m1.CryptKey("item")
	recordPath := "app." + testIdentity.Fingerprint()
	before, err := sandbox.ReadFile(ctx, storage.MemoryStorage, recordPath)
	require.NoError(t, err)

	storage.mu.Lock()
	storage.failOpens = 1
	storage.mu.Unlock()

	_, err = keymanager.New(ctx, "app", storage, keymanager.WithIdentity(testIdentity))
	require.ErrorIs(t, err, keymanager.ErrMasterSecretNotRead)
	assert.ErrorIs(t, err, sandbox.ErrFailedToOpenFile)

	after, err := sandbox.ReadFile(ctx, storage.MemoryStorage, recordPath)
	require.NoError(t, err)
	assert.Equal(t, before, after, "existing master secret must not be overwritten")

	m3, err := keymanager.New(ctx, "app", storage, keymanager.WithIdentity(testIdentity))
	require.NoError(t, err)
	assert.Equal(t, want, m3.CryptKey("item"))
}

func TestNew_FallbackWriteFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	storage := &flakyStorage{MemoryStorage: sandbox.NewMemoryStorage(), failCreates: 1}

	_, err := keymanager.New(ctx, "app", storage, keymanager.WithIdentity(testIdentity))
	require.ErrorIs(t, err, keymanager.ErrMasterSecretNotSaved)
	assert.ErrorIs(t, err, keymanager.ErrFallbackIO)
	assert.Equal(t, 0, storage.Len())
}

func TestNew_NoProviderRecordsProbe(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()

	_, err := keymanager.New(context.Background(), "app", sandbox.NewMemoryStorage(),
		keymanager.WithIdentity(testIdentity),
		keymanager.WithMetrics(metrics.MustNew(reg)),
	)
	require.NoError(t, err)

	expected := `
# HELP securestore_provider_probes_total Secure key-value provider probes by result.
# TYPE securestore_provider_probes_total counter
securestore_provider_probes_total{result="none"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "securestore_provider_probes_total"))
}

func TestNew_DomainsAreIndependent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	storage := sandbox.NewMemoryStorage()

	a, err := keymanager.New(ctx, "a", storage, keymanager.WithIdentity(testIdentity))
	require.NoError(t, err)
	b, err := keymanager.New(ctx, "b", storage, keymanager.WithIdentity(testIdentity))
	require.NoError(t, err)

	assert.NotEqual(t, a.CryptKey("k"), b.CryptKey("k"))
	assert.Equal(t, 2, storage.Len())
}

func TestNew_SecureProvider(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	storage := sandbox.NewMemoryStorage()
	provider := newMapProvider()
	reg := prometheus.NewRegistry()

	m, err := keymanager.New(ctx, "app", storage,
		keymanager.WithIdentity(testIdentity),
		keymanager.WithProvider(provider),
		keymanager.WithMetrics(metrics.MustNew(reg)),
	)
	require.NoError(t, err)
	assert.True(t, m.SecureKeyValueCapability())
	assert.Zero(t, storage.Len(), "nothing is written to the sandbox when the provider works")

	probe, ok := provider.value("app.test")
	require.True(t, ok)
	assert.Empty(t, probe, "probe value is reset after a successful round trip")

	stored, ok := provider.value("app." + testIdentity.Fingerprint())
	require.True(t, ok)
	assert.Regexp(t, "^[0-9A-F]{64}$", stored)

	master, err := hex.DecodeString(stored)
	require.NoError(t, err)
	want := sha256.Sum256(append(master, []byte("item-1")...))
	assert.Equal(t, want[:], m.CryptKey("item-1"))

	expected := `
# HELP securestore_provider_probes_total Secure key-value provider probes by result.
# TYPE securestore_provider_probes_total counter
securestore_provider_probes_total{result="ok"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "securestore_provider_probes_total"))

	// Existing secret is reused.
	again, err := keymanager.New(ctx, "app", storage, keymanager.WithIdentity(testIdentity), keymanager.WithProvider(provider))
	require.NoError(t, err)
	assert.Equal(t, m.CryptKey("item-1"), again.CryptKey("item-1"))
}

func TestNew_ProviderDemotion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		provider keymanager.Provider
	}{
		{"set fails", &mapProvider{values: map[string]string{}, setErr: errors.New("locked")}},
		{"round trip mismatch", &mapProvider{values: map[string]string{}, lie: true}},
		{"get-only funcs", keymanager.ProviderFuncs{GetFunc: func(string) (string, bool) { return "", false }}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			storage := sandbox.NewMemoryStorage()
			reg := prometheus.NewRegistry()

			m, err := keymanager.New(ctx, "app", storage,
				keymanager.WithIdentity(testIdentity),
				keymanager.WithProvider(tt.provider),
				keymanager.WithMetrics(metrics.MustNew(reg)),
			)
			require.NoError(t, err)
			assert.False(t, m.SecureKeyValueCapability())
			assert.True(t, storage.Exists(ctx, "app."+testIdentity.Fingerprint()))

			expected := `
# HELP securestore_provider_probes_total Secure key-value provider probes by result.
# TYPE securestore_provider_probes_total counter
securestore_provider_probes_total{result="fail"} 1
`
			require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "securestore_provider_probes_total"))
		})
	}
}

func TestNew_ProviderFuncs(t *testing.T) {
	t.Parallel()
	values := map[string]string{}
	var mu sync.Mutex
	funcs := keymanager.ProviderFuncs{
		GetFunc: func(name string) (string, bool) {
			mu.Lock()
			defer mu.Unlock()
			v, ok := values[name]
			return v, ok
		},
		SetFunc: func(name, value string) error {
			mu.Lock()
			defer mu.Unlock()
			values[name] = value
			return nil
		},
	}

	m, err := keymanager.New(context.Background(), "funcs", sandbox.NewMemoryStorage(),
		keymanager.WithIdentity(testIdentity), keymanager.WithProvider(funcs))
	require.NoError(t, err)
	assert.True(t, m.SecureKeyValueCapability())
	assert.Contains(t, values, "funcs."+testIdentity.Fingerprint())
}

func TestNew_InvalidStoredSecret(t *testing.T) {
	t.Parallel()
	provider := newMapProvider()
	provider.values["app."+testIdentity.Fingerprint()] = "not-hex"

	_, err := keymanager.New(context.Background(), "app", sandbox.NewMemoryStorage(),
		keymanager.WithIdentity(testIdentity), keymanager.WithProvider(provider))
	assert.ErrorIs(t, err, keymanager.ErrInvalidMasterSecret)

	provider.values["app."+testIdentity.Fingerprint()] = "ABCD"
	_, err = keymanager.New(context.Background(), "app", sandbox.NewMemoryStorage(),
		keymanager.WithIdentity(testIdentity), keymanager.WithProvider(provider))
	assert.ErrorIs(t, err, keymanager.ErrInvalidMasterSecret)
}

func TestNew_InvalidArguments(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	_, err := keymanager.New(ctx, "  ", sandbox.NewMemoryStorage())
	assert.ErrorIs(t, err, keymanager.ErrEmptyDomain)

	_, err = keymanager.New(ctx, "app", nil)
	assert.ErrorIs(t, err, keymanager.ErrNilStorage)

	_, err = keymanager.New(ctx, "app", sandbox.NewMemoryStorage(),
		keymanager.WithIdentity(keymanager.Identity{Machine: "host"}))
	assert.ErrorIs(t, err, keymanager.ErrIdentityUnavailable)
}

func TestCryptKey(t *testing.T) {
	t.Parallel()
	m, err := keymanager.New(context.Background(), "app", sandbox.NewMemoryStorage(), keymanager.WithIdentity(testIdentity))
	require.NoError(t, err)

	k1 := m.CryptKey("k1")
	assert.Len(t, k1, sha256.Size)
	assert.Equal(t, k1, m.CryptKey("k1"))
	assert.NotEqual(t, k1, m.CryptKey("k2"))

	// Composed and decomposed forms of the same key derive the same seed.
	assert.Equal(t, m.CryptKey("caf\u00e9"), m.CryptKey("cafe\u0301"))
}

func TestCryptKey_NotInitialized(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("development panics", func(t *testing.T) {
		t.Parallel()
		m, err := keymanager.New(ctx, "app", sandbox.NewMemoryStorage(),
			keymanager.WithIdentity(testIdentity),
			keymanager.WithEnvironment(environment.Development),
		)
		require.NoError(t, err)
		require.NoError(t, m.Close())
		assert.False(t, m.Initialized())

		assert.PanicsWithValue(t, keymanager.ErrNotInitialized, func() { m.CryptKey("k") })
	})

	t.Run("production hashes the key alone", func(t *testing.T) {
		t.Parallel()
		m, err := keymanager.New(ctx, "app", sandbox.NewMemoryStorage(),
			keymanager.WithIdentity(testIdentity),
			keymanager.WithEnvironment(environment.Production),
		)
		require.NoError(t, err)
		require.NoError(t, m.Close())
		require.NoError(t, m.Close(), "close is idempotent")

		want := sha256.Sum256([]byte("k"))
		assert.Equal(t, want[:], m.CryptKey("k"))
	})
}

func TestWithEncryption(t *testing.T) {
	t.Parallel()
	m, err := keymanager.New(context.Background(), "app", sandbox.NewMemoryStorage(),
		keymanager.WithIdentity(testIdentity), keymanager.WithEncryption(false))
	require.NoError(t, err)
	assert.False(t, m.Encrypted())
	assert.Equal(t, "app", m.Domain())
}

func TestIdentity_Fingerprint(t *testing.T) {
	t.Parallel()
	sum := sha256.Sum256([]byte("build-host"))
	want := strings.ToUpper(hex.EncodeToString(sum[:5]))

	assert.Equal(t, want, testIdentity.Fingerprint())
	assert.Len(t, testIdentity.Fingerprint(), 10)
}
