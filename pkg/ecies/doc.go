// Package ecies provides seed-keyed integrated encryption for arbitrary byte slices.
//
// A caller-supplied seed (any byte string, typically a 32-byte hash) is turned into a
// deterministic secp256k1 private key. Encryption targets that key's public half using an
// ECIES construction, and decryption rederives the same private key from the same seed.
// The result behaves like a symmetric cipher keyed by the seed, while every ciphertext is
// self-describing and authenticated. Nothing is stored between calls.
//
// # Architecture
//
//  1. Key derivation: the seed becomes the private scalar. Seeds that are not exactly
//     32 bytes are first hashed with SHA-256.
//  2. Key agreement: a fresh ephemeral keypair is generated per message and an ECDH
//     shared secret is computed against the seed's public key.
//  3. Symmetric layer: HKDF(SHA-256) expands the shared secret into an
//     XChaCha20-Poly1305 key. The magic header and the ephemeral public key are bound
//     to the ciphertext as associated data.
//
// The wire format is:
//
//	"SSE1" | ephemeral public key (33 bytes, compressed) | nonce (24 bytes) | sealed payload
//
// # Usage
//
//	import "github.com/dmitrymomot/securestore/pkg/ecies"
//
//	seed := sha256.Sum256([]byte("item-key-material"))
//
//	ct, err := ecies.Encrypt([]byte("hello"), seed[:])
//	if err != nil {
//	    // handle error
//	}
//
//	plain, err := ecies.Decrypt(ct, seed[:])
//	if errors.Is(err, ecies.ErrDecryptionFailed) {
//	    // ciphertext was produced under a different seed or was tampered with
//	}
//
// # Error Handling
//
// Decrypting with the wrong seed never yields plaintext: the AEAD tag check fails and
// ErrDecryptionFailed is returned. Malformed input yields ErrInvalidCiphertext. Use
// errors.Is to match these sentinels.
//
// # Performance Considerations
//
// Each call performs one scalar multiplication for key derivation and one ECDH, so the
// scheme trades CPU for not having to persist or transmit cipher keys. It is intended for
// records of modest size stored on a local device.
package ecies
