// Package blobstore persists raw byte blobs in the sandbox, encrypted per item.
//
// Every blob lives at <domain>/<itemKey>.dat. With encryption enabled the
// bytes are sealed with ecies under the seed the key manager derives for the
// item key, so two keys never share a keypair and nothing about the content is
// visible on disk.
//
// # Usage
//
//	store, err := blobstore.New(handle, km, blobstore.WithLogger(log))
//	if err != nil {
//	    return err
//	}
//
//	if err := store.Save(ctx, []byte{1, 2, 3}, "blob1"); err != nil {
//	    return err
//	}
//	data, err := store.Load(ctx, "blob1") // nil, nil when absent
//
// SaveAsync is the fire-and-forget path for structured values. The value is
// encoded with the binary (BSON) codec on a background goroutine and written
// under the store-wide lock shared with the object store:
//
//	store.SaveAsync(ctx, settings, "settings")
//	// ...
//	store.Wait()
//	s := blobstore.LoadValue[Settings](ctx, store, "settings")
//
// # Error Handling
//
// Save, Load and Delete return I/O failures joined with ErrSaveFailed,
// ErrLoadFailed or ErrDeleteFailed. A blob that fails to decrypt (for example
// one written under another master secret) is logged and reported as absent;
// unlike the object store, it is not deleted. Background write failures are
// only logged and counted.
package blobstore
