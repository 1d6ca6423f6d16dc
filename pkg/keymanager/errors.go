package keymanager

import "errors"

var (
	// ErrNotInitialized is the programmer error raised when a key is derived
	// before a master secret has been established.
	ErrNotInitialized = errors.New("keymanager: master secret not initialized")

	ErrEmptyDomain          = errors.New("keymanager: domain must not be empty")
	ErrNilStorage           = errors.New("keymanager: sandbox storage is required")
	ErrIdentityUnavailable  = errors.New("keymanager: cannot determine machine or user identity")
	ErrInvalidMasterSecret  = errors.New("keymanager: stored master secret is malformed")
	ErrMasterSecretNotSaved = errors.New("keymanager: failed to persist master secret")
	ErrEntropyUnavailable   = errors.New("keymanager: failed to read random bytes")
	ErrFallbackIO           = errors.New("keymanager: fallback key file I/O failed")
	ErrMasterSecretNotRead  = errors.New("keymanager: failed to read master secret")
)
