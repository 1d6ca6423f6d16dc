// Package keyring lets the operating system keychain (macOS Keychain,
// Secret Service, KWallet, Windows Credential Manager, pass, keyctl or an
// encrypted file) hold per-domain master secrets.
//
// Provider satisfies keymanager.Provider. Items are stored under the name the
// key manager asks for, which already carries the domain prefix.
//
// # Usage
//
//	provider, err := keyring.Open(keyring.Config{ServiceName: "myapp"})
//	if err != nil {
//	    return err
//	}
//	km, err := keymanager.New(ctx, "billing", storage, keymanager.WithProvider(provider))
//
// Tests and headless environments can wrap an in-memory ring:
//
//	provider, _ := keyring.NewProvider(keyring99.NewArrayKeyring(nil))
//
// # Error Handling
//
// A missing item is reported as absent, never as an error. Backend failures
// are joined with ErrReadFailed or ErrWriteFailed so the key manager can
// detect a broken keychain during its probe and fall back to the sandbox file.
package keyring
