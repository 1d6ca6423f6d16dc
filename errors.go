package securestore

import (
	"errors"
	"fmt"

	"github.com/dmitrymomot/securestore/pkg/objectstore"
)

// ErrInvalidArgument is matched by every error caused by a bad domain, key,
// type or object, in this package and in the stores.
var ErrInvalidArgument = objectstore.ErrInvalidArgument

var (
	ErrInvalidDomain = fmt.Errorf("%w: domain must be a non-empty folder name other than . or .. without %q", ErrInvalidArgument, `*?/\|<>'"`)

	ErrUnknownBackend  = errors.New("securestore: unknown sandbox backend")
	ErrUnknownProvider = errors.New("securestore: unknown secure provider")
	ErrSandboxFailed   = errors.New("securestore: failed to open sandbox")
	ErrProviderFailed  = errors.New("securestore: failed to open secure provider")
)
