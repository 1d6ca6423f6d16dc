// Package objectstore persists structured objects in the sandbox, one folder
// per Go type and one file per key.
//
// # Layout
//
// An object of type T saved under key lives at
//
//	<domain>/<TypeFolder(T)>/<key>.cry   (encryption enabled)
//	<domain>/<TypeFolder(T)>/<key>.xml   (encryption disabled)
//
// TypeFolder is a pure function of the type. Named types map to their import
// path and name with the characters *?/\|<>'" replaced by '-', for example
// "github.com-acme-billing.Invoice". Types from a major-version module path
// (.../v2) and generic instantiations collapse to "<package>+<Name>" so their
// folder survives version bumps. Two distinct types that collapse to the same
// folder share it.
//
// Keys may not contain *?/\|<>'" and are validated by ValidateKey before the
// sandbox is touched. Every such error matches ErrInvalidArgument.
//
// # Usage
//
//	store, err := objectstore.New(handle, km)
//	if err != nil {
//	    return err
//	}
//
//	if err := objectstore.Save(ctx, store, invoice, "inv-42"); err != nil {
//	    return err
//	}
//	inv, err := objectstore.Load[Invoice](ctx, store, "inv-42") // nil, nil when absent
//	all, err := objectstore.All[Invoice](ctx, store)
//
// The reflect.Type based methods (SaveObject, LoadObject, GetAllKeys,
// GetAllObjects, DeleteObject, DeleteAllObjects) serve callers that only know
// the type at run time.
//
// Objects are encoded with the XML codec unless WithCodec selects another one.
// Writes and deletes hold the store-wide lock of the sandbox handle.
//
// # Corrupt records
//
// A record that fails to decrypt (it was written under another master secret
// or item key) or fails to decode is deleted and reported as absent. The
// caller cannot tell a purged record from one that never existed. Purges are
// logged at warn level and counted in securestore_purged_records_total.
package objectstore
