package blobstore

import (
	"log/slog"

	"github.com/dmitrymomot/securestore/pkg/codec"
	"github.com/dmitrymomot/securestore/pkg/metrics"
)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for swallowed failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics records operations on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithCodec replaces the binary codec used by SaveAsync and LoadValue.
func WithCodec(c codec.Codec) Option {
	return func(s *Store) {
		if c != nil {
			s.codec = c
		}
	}
}
