package keyring

import "errors"

var (
	ErrNilKeyring       = errors.New("keyring is nil")
	ErrEmptyServiceName = errors.New("keyring service name is empty")
	ErrUnknownBackend   = errors.New("unknown keyring backend")
	ErrOpenFailed       = errors.New("failed to open keyring")
	ErrReadFailed       = errors.New("failed to read keyring item")
	ErrWriteFailed      = errors.New("failed to write keyring item")
)
