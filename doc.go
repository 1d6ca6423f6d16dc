// Package securestore keeps application data encrypted at rest inside a
// sandboxed storage area.
//
// A Storage is opened per domain. On first use it creates a master secret
// and keeps it in a secure key-value provider (an OS keychain, Redis, or any
// get/set pair). Without a working provider the secret is kept in a file in
// the sandbox, encrypted with a key derived from the device identity. Every
// item is sealed with its own secp256k1 keypair derived from the master
// secret and the item key.
//
// Three stores share the master secret and the sandbox:
//
//   - Blobs holds raw byte blobs and background value writes.
//   - Objects holds typed objects, one folder per Go type.
//   - Values holds small string settings.
//
// # Usage
//
//	store, err := securestore.New(ctx, "myapp",
//	    securestore.WithProvider(provider),
//	    securestore.WithLogger(log),
//	)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	if _, err := store.Objects.SaveObject(ctx, &Profile{Name: "Ann"}, "ann"); err != nil {
//	    return err
//	}
//	p, err := objectstore.Load[Profile](ctx, store.Objects, "ann")
//
// The whole setup can also come from SECURESTORE_* environment variables:
//
//	cfg, err := securestore.LoadConfig()
//	if err != nil {
//	    return err
//	}
//	store, err := securestore.NewFromConfig(ctx, cfg)
//
// # Error Handling
//
// Bad domains, keys, types and objects are rejected before any storage access
// with errors matching ErrInvalidArgument. Records that no longer decrypt are
// treated as missing: the object store deletes them, the blob store only logs.
// I/O failures are returned joined with the sentinel of the failing store.
package securestore
