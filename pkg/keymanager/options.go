package keymanager

import (
	"log/slog"

	"github.com/dmitrymomot/securestore/pkg/environment"
	"github.com/dmitrymomot/securestore/pkg/metrics"
)

// Option configures a Manager.
type Option func(*Manager)

// WithProvider sets the secure key-value provider that is probed on construction.
func WithProvider(p Provider) Option {
	return func(m *Manager) {
		m.provider = p
	}
}

// WithEncryption enables or disables encryption for every store using the manager.
// Encryption is enabled by default.
func WithEncryption(enabled bool) Option {
	return func(m *Manager) {
		m.encrypted = enabled
	}
}

// WithIdentity overrides the host identity. Mostly useful in tests.
func WithIdentity(id Identity) Option {
	return func(m *Manager) {
		m.identity = &id
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithEnvironment selects how programmer errors are reported.
// Development panics; every other environment logs and continues.
func WithEnvironment(env environment.Environment) Option {
	return func(m *Manager) {
		m.env = env
	}
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) {
		m.metrics = mt
	}
}
