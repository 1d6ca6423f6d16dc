package objectstore

import (
	"log/slog"

	"github.com/dmitrymomot/securestore/pkg/codec"
	"github.com/dmitrymomot/securestore/pkg/metrics"
)

// Option configures a Store.
type Option func(*Store)

// WithCodec replaces the default XML codec. Plaintext records keep the .xml
// extension whatever the codec.
func WithCodec(c codec.Codec) Option {
	return func(s *Store) {
		if c != nil {
			s.codec = c
		}
	}
}

// WithLogger sets the logger used for purged records and swallowed failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics records operations and purges on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithFolderCacheSize sets how many type folders are remembered.
func WithFolderCacheSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.folderCacheSize = n
		}
	}
}
