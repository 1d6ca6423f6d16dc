package blobstore

import "errors"

var (
	ErrNilHandle    = errors.New("blobstore: storage handle is nil")
	ErrNilKeys      = errors.New("blobstore: key manager is nil")
	ErrEmptyKey     = errors.New("blobstore: item key is empty")
	ErrSaveFailed   = errors.New("blobstore: failed to save blob")
	ErrLoadFailed   = errors.New("blobstore: failed to load blob")
	ErrDeleteFailed = errors.New("blobstore: failed to delete blob")
)
