package objectstore

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is matched by every error caused by a bad key, type or object.
var ErrInvalidArgument = errors.New("objectstore: invalid argument")

var (
	ErrInvalidKey  = fmt.Errorf("%w: item key is empty or contains a character from %q", ErrInvalidArgument, disallowedChars)
	ErrNilType     = fmt.Errorf("%w: type is nil", ErrInvalidArgument)
	ErrNilObject   = fmt.Errorf("%w: object is nil", ErrInvalidArgument)
	ErrNameTooLong = fmt.Errorf("%w: file name too long", ErrInvalidArgument)

	ErrNilHandle    = errors.New("objectstore: storage handle is nil")
	ErrNilKeys      = errors.New("objectstore: key manager is nil")
	ErrSaveFailed   = errors.New("objectstore: failed to save object")
	ErrLoadFailed   = errors.New("objectstore: failed to load object")
	ErrListFailed   = errors.New("objectstore: failed to list objects")
	ErrDeleteFailed = errors.New("objectstore: failed to delete object")
)
