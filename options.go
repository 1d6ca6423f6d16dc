package securestore

import (
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/securestore/pkg/codec"
	"github.com/dmitrymomot/securestore/pkg/environment"
	"github.com/dmitrymomot/securestore/pkg/keymanager"
	"github.com/dmitrymomot/securestore/pkg/metrics"
	"github.com/dmitrymomot/securestore/pkg/sandbox"
)

type options struct {
	provider    keymanager.Provider
	encrypted   bool
	sandboxKey  string
	openSandbox func() (sandbox.Storage, error)
	logger      *slog.Logger
	metrics     *metrics.Metrics
	identity    *keymanager.Identity
	env         environment.Environment
	objectCodec codec.Codec
}

// Option configures New.
type Option func(*options)

// WithProvider sets the secure key-value provider that holds the master secret.
// It is probed on start; if the round trip fails the encrypted sandbox file is
// used instead.
func WithProvider(p keymanager.Provider) Option {
	return func(o *options) { o.provider = p }
}

// WithProviderFuncs adapts a bare get/set pair, such as a platform keystore
// binding, into a provider. Both functions are required.
func WithProviderFuncs(get func(name string) (string, bool), set func(name, value string) error) Option {
	return func(o *options) {
		if get != nil && set != nil {
			o.provider = keymanager.ProviderFuncs{GetFunc: get, SetFunc: set}
		}
	}
}

// WithEncryption enables or disables encryption. It is enabled by default and
// should stay that way outside of debugging.
func WithEncryption(enabled bool) Option {
	return func(o *options) { o.encrypted = enabled }
}

// WithSandbox selects the storage backing every store. Storages are shared per
// key across the process: open runs only for the first store using key, and the
// storage is closed when the last one is.
func WithSandbox(key string, open func() (sandbox.Storage, error)) Option {
	return func(o *options) {
		o.sandboxKey = key
		o.openSandbox = open
	}
}

// WithStorage uses s as the sandbox. s is shared with every other store
// created with the same value and is never closed by this package.
func WithStorage(s sandbox.Storage) Option {
	return WithSandbox(fmt.Sprintf("storage:%p", s), func() (sandbox.Storage, error) {
		return unclosable{s}, nil
	})
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics records store operations on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithIdentity overrides the machine and user names the fallback key and the
// device fingerprint are derived from.
func WithIdentity(id keymanager.Identity) Option {
	return func(o *options) { o.identity = &id }
}

// WithEnvironment selects how programmer errors are reported. In Development
// deriving a key before initialization panics.
func WithEnvironment(env environment.Environment) Option {
	return func(o *options) { o.env = env }
}

// WithObjectCodec replaces the XML codec of the object store.
func WithObjectCodec(c codec.Codec) Option {
	return func(o *options) { o.objectCodec = c }
}

// unclosable hides the Close method of caller-owned storage.
type unclosable struct {
	sandbox.Storage
}
