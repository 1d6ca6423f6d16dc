package ecies

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"io"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const (
	magic      = "SSE1"
	pubKeySize = 33
	kdfInfo    = "securestore-ecies-v1"

	// headerSize covers magic, ephemeral public key and nonce.
	headerSize = len(magic) + pubKeySize + chacha20poly1305.NonceSizeX
)

// Overhead is the number of bytes Encrypt adds to the plaintext.
const Overhead = headerSize + chacha20poly1305.Overhead

// Encrypt seals clear for the public key derived from seed.
// Returns ciphertext in format: magic + ephemeral pubkey + nonce + sealed data + tag
func Encrypt(clear, seed []byte) ([]byte, error) {
	priv, err := PrivateKey(seed)
	if err != nil {
		return nil, err
	}
	recipient := priv.PubKey()
	priv.Zero()

	ephemeral, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}
	defer ephemeral.Zero()
	ephemeralPub := ephemeral.PubKey().SerializeCompressed()

	key, err := deriveKey(ephemeral, recipient, ephemeralPub, recipient.SerializeCompressed())
	if err != nil {
		return nil, err
	}
	defer clearBytes(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}

	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}

	ad := associatedData(ephemeralPub)

	out := make([]byte, 0, Overhead+len(clear))
	out = append(out, ad...)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, clear, ad), nil
}

// Decrypt opens a ciphertext produced by Encrypt with the same seed.
// A different seed fails with ErrDecryptionFailed rather than returning garbage.
func Decrypt(ciphertext, seed []byte) ([]byte, error) {
	if len(ciphertext) < Overhead || string(ciphertext[:len(magic)]) != magic {
		return nil, ErrInvalidCiphertext
	}

	ephemeralPub := ciphertext[len(magic) : len(magic)+pubKeySize]
	nonce := ciphertext[len(magic)+pubKeySize : headerSize]
	sealed := ciphertext[headerSize:]

	ephemeral, err := secp256k1.ParsePubKey(ephemeralPub)
	if err != nil {
		return nil, errors.Join(ErrInvalidCiphertext, err)
	}

	priv, err := PrivateKey(seed)
	if err != nil {
		return nil, err
	}
	defer priv.Zero()

	key, err := deriveKey(priv, ephemeral, ephemeralPub, priv.PubKey().SerializeCompressed())
	if err != nil {
		return nil, err
	}
	defer clearBytes(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}

	plaintext, err := aead.Open(nil, nonce, sealed, associatedData(ephemeralPub))
	if err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}
	if plaintext == nil {
		plaintext = []byte{}
	}
	return plaintext, nil
}

// deriveKey expands the ECDH secret between priv and pub into an AEAD key.
// Both public keys are mixed in as salt so the key is bound to this exchange.
func deriveKey(priv *secp256k1.PrivateKey, pub *secp256k1.PublicKey, ephemeralPub, recipientPub []byte) ([]byte, error) {
	shared := secp256k1.GenerateSharedSecret(priv, pub)
	defer clearBytes(shared)

	salt := make([]byte, 0, len(ephemeralPub)+len(recipientPub))
	salt = append(salt, ephemeralPub...)
	salt = append(salt, recipientPub...)

	reader := hkdf.New(sha256.New, shared, salt, []byte(kdfInfo))
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, errors.Join(ErrKeyDerivationFailed, err)
	}
	return key, nil
}

func associatedData(ephemeralPub []byte) []byte {
	ad := make([]byte, 0, len(magic)+len(ephemeralPub))
	ad = append(ad, magic...)
	return append(ad, ephemeralPub...)
}
