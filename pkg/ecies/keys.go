package ecies

import (
	"crypto/sha256"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// SeedSize is the seed length used verbatim as a private scalar.
// Seeds of any other length are hashed down to this size first.
const SeedSize = 32

// PrivateKey derives the deterministic secp256k1 private key for seed.
// The same seed always yields the same key.
func PrivateKey(seed []byte) (*secp256k1.PrivateKey, error) {
	if len(seed) == 0 {
		return nil, ErrEmptySeed
	}

	scalar := normalizeSeed(seed)
	defer clearBytes(scalar)

	priv := secp256k1.PrivKeyFromBytes(scalar)
	if priv.Key.IsZero() {
		return nil, ErrInvalidSeed
	}
	return priv, nil
}

// PublicKey returns the compressed public key belonging to seed.
func PublicKey(seed []byte) ([]byte, error) {
	priv, err := PrivateKey(seed)
	if err != nil {
		return nil, err
	}
	defer priv.Zero()
	return priv.PubKey().SerializeCompressed(), nil
}

// normalizeSeed returns a fresh 32-byte copy suitable as a scalar.
func normalizeSeed(seed []byte) []byte {
	if len(seed) == SeedSize {
		return append([]byte(nil), seed...)
	}
	sum := sha256.Sum256(seed)
	return sum[:]
}

// clearBytes zeros out a byte slice holding key material.
func clearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
