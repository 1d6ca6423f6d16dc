package keymanager

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/dmitrymomot/securestore/pkg/environment"
	"github.com/dmitrymomot/securestore/pkg/logger"
	"github.com/dmitrymomot/securestore/pkg/metrics"
	"github.com/dmitrymomot/securestore/pkg/sandbox"
)

const (
	probeName        = "test"
	masterSecretSize = sha256.Size
	entropySize      = 32
)

// Probe results reported to metrics.
const (
	ProbeOK   = "ok"
	ProbeFail = "fail"
	ProbeNone = "none"
)

// Manager owns the master secret of one domain and derives per-item keys from it.
type Manager struct {
	domain    string
	provider  Provider
	identity  *Identity
	encrypted bool
	secure    bool
	env       environment.Environment
	logger    *slog.Logger
	metrics   *metrics.Metrics

	mu     sync.RWMutex
	master []byte
	locked bool
}

// New bootstraps the master secret for domain.
//
// A configured provider is probed with a write/read round trip; when it works
// every record is kept there, otherwise values fall back to encrypted files in
// storage. The master secret is then read under the device fingerprint or
// created and persisted on first use.
func New(ctx context.Context, domain string, storage sandbox.Storage, opts ...Option) (*Manager, error) {
	if strings.TrimSpace(domain) == "" {
		return nil, ErrEmptyDomain
	}
	if storage == nil {
		return nil, ErrNilStorage
	}

	m := &Manager{
		domain:    domain,
		encrypted: true,
		env:       environment.Production,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With(logger.Component("keymanager"), logger.Domain(domain))

	id, err := m.resolveIdentity()
	if err != nil {
		return nil, err
	}

	switch {
	case m.provider == nil:
		m.metrics.ProviderProbe(ProbeNone)
	case m.probe(ctx):
		m.secure = true
	}
	if !m.secure {
		m.provider = NewFileProvider(storage, id, m.logger)
	}

	master, err := m.loadOrCreateMaster(ctx, id)
	if err != nil {
		return nil, err
	}

	m.master = master
	if err := lockMemory(m.master); err == nil {
		m.locked = true
	} else {
		m.logger.DebugContext(ctx, "master secret not locked in memory", logger.Error(err))
	}
	return m, nil
}

// CryptKey returns SHA-256(master ‖ itemKey), the seed for the item's keypair.
// The item key is NFC-normalized first.
//
// Calling CryptKey on a manager without a master secret is a programmer error:
// it panics with ErrNotInitialized in development and otherwise logs and hashes
// the item key alone.
func (m *Manager) CryptKey(itemKey string) []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.master == nil {
		if m.env.IsDevelopment() {
			panic(ErrNotInitialized)
		}
		m.log().Error("derive key before initialization", logger.Error(ErrNotInitialized))
	}

	h := sha256.New()
	h.Write(m.master)
	h.Write([]byte(NormalizeKey(itemKey)))
	return h.Sum(nil)
}

// Encrypted reports whether stores should encrypt their records.
func (m *Manager) Encrypted() bool {
	return m.encrypted
}

// SecureKeyValueCapability reports whether the secure provider passed its probe
// and holds the master secret.
func (m *Manager) SecureKeyValueCapability() bool {
	return m.secure
}

func (m *Manager) Domain() string {
	return m.domain
}

// Initialized reports whether a master secret is loaded.
func (m *Manager) Initialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.master != nil
}

// Close wipes the master secret from memory. Deriving keys afterwards is a
// programmer error, handled like an uninitialized manager.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.master == nil {
		return nil
	}
	clear(m.master)
	var err error
	if m.locked {
		err = unlockMemory(m.master)
		m.locked = false
	}
	m.master = nil
	return err
}

// NormalizeKey returns the canonical (NFC) form of an item key.
func NormalizeKey(key string) string {
	return norm.NFC.String(key)
}

func (m *Manager) resolveIdentity() (Identity, error) {
	if m.identity != nil {
		if !m.identity.valid() {
			return Identity{}, ErrIdentityUnavailable
		}
		return *m.identity, nil
	}
	return HostIdentity()
}

// probe writes a random sentinel through the provider and reads it back.
// Any failure silently demotes the manager to the file fallback.
func (m *Manager) probe(ctx context.Context) bool {
	sentinel := uuid.NewString()

	ok, err := func() (bool, error) {
		if err := m.set(ctx, probeName, sentinel); err != nil {
			return false, err
		}
		got, found, err := m.get(ctx, probeName)
		if err != nil {
			return false, err
		}
		return found && got == sentinel, nil
	}()
	if err != nil || !ok {
		m.logger.DebugContext(ctx, "secure provider probe failed, using file fallback", logger.Error(err))
		m.metrics.ProviderProbe(ProbeFail)
		return false
	}

	if err := m.set(ctx, probeName, ""); err != nil {
		m.logger.DebugContext(ctx, "failed to reset provider probe", logger.Error(err))
	}
	m.metrics.ProviderProbe(ProbeOK)
	return true
}

func (m *Manager) loadOrCreateMaster(ctx context.Context, id Identity) ([]byte, error) {
	name := id.Fingerprint()

	stored, _, err := m.get(ctx, name)
	if err != nil {
		return nil, errors.Join(ErrMasterSecretNotRead, err)
	}

	if stored == "" {
		stored, err = newMasterSecret(id)
		if err != nil {
			return nil, err
		}
		if err := m.set(ctx, name, stored); err != nil {
			return nil, errors.Join(ErrMasterSecretNotSaved, err)
		}
		m.logger.InfoContext(ctx, "master secret created", slog.Bool("secure_provider", m.secure))
	}

	master, err := hex.DecodeString(stored)
	if err != nil {
		return nil, errors.Join(ErrInvalidMasterSecret, err)
	}
	if len(master) != masterSecretSize {
		return nil, ErrInvalidMasterSecret
	}
	return master, nil
}

// newMasterSecret mixes fresh entropy with the identity and hashes it.
// The result is upper-case hex, the persisted form.
func newMasterSecret(id Identity) (string, error) {
	entropy := make([]byte, entropySize)
	if _, err := rand.Read(entropy); err != nil {
		return "", errors.Join(ErrEntropyUnavailable, err)
	}
	sum := sha256.Sum256([]byte(strings.ToUpper(hex.EncodeToString(entropy)) + id.Machine + id.User))
	clear(entropy)
	return strings.ToUpper(hex.EncodeToString(sum[:])), nil
}

func (m *Manager) get(ctx context.Context, name string) (string, bool, error) {
	return m.provider.Get(ctx, m.domain+"."+name)
}

func (m *Manager) set(ctx context.Context, name, value string) error {
	return m.provider.Set(ctx, m.domain+"."+name, value)
}

func (m *Manager) log() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}
