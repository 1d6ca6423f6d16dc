package ecies

import "errors"

var (
	// Key errors
	ErrEmptySeed           = errors.New("ecies: seed must not be empty")
	ErrInvalidSeed         = errors.New("ecies: seed does not produce a valid private key")
	ErrKeyDerivationFailed = errors.New("ecies: key derivation failed")

	// Encryption/decryption errors
	ErrEncryptionFailed  = errors.New("ecies: encryption failed")
	ErrDecryptionFailed  = errors.New("ecies: decryption failed")
	ErrInvalidCiphertext = errors.New("ecies: invalid ciphertext format")
)
