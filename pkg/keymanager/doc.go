// Package keymanager owns the master secret of a storage domain and derives
// per-item encryption seeds from it.
//
// # Bootstrap
//
// New runs once per domain:
//
//  1. A configured Provider is probed by writing a random sentinel under
//     "<domain>.test" and reading it back. Any failure silently demotes the
//     manager to FileProvider, which keeps each value in an encrypted file at
//     the sandbox root.
//  2. The master secret is read under "<domain>.<fingerprint>", where the
//     fingerprint is derived from the machine name. If it is missing, 32 random
//     bytes are mixed with the machine and user names, hashed with SHA-256 and
//     stored as upper-case hex. An existing secret is never replaced.
//
// # Usage
//
//	km, err := keymanager.New(ctx, "myapp", storage,
//	    keymanager.WithProvider(provider),
//	    keymanager.WithLogger(log),
//	)
//	if err != nil {
//	    return err
//	}
//	defer km.Close()
//
//	seed := km.CryptKey("profile") // SHA-256(master || "profile")
//
// The seed is fed to ecies.Encrypt and ecies.Decrypt. Item keys are
// NFC-normalized before hashing so visually equal keys share a seed.
//
// # Error Handling
//
// New fails with ErrEmptyDomain, ErrNilStorage, ErrIdentityUnavailable,
// ErrInvalidMasterSecret, ErrMasterSecretNotRead or ErrMasterSecretNotSaved.
// A read that fails for any reason other than a missing record is returned
// as ErrMasterSecretNotRead; an existing master secret is never replaced. Deriving a key from a
// manager without a master secret is a programmer error: it panics with
// ErrNotInitialized in development and is logged otherwise.
package keymanager
