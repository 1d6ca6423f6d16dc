package keymanager

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"os/user"
	"strings"
)

// fingerprintSize is the number of hash bytes kept for the device fingerprint.
const fingerprintSize = 5

// Identity names the machine and the account the store is bound to.
type Identity struct {
	Machine string
	User    string
}

// HostIdentity reads the host name and the current OS user.
func HostIdentity() (Identity, error) {
	machine, err := os.Hostname()
	if err != nil {
		return Identity{}, errors.Join(ErrIdentityUnavailable, err)
	}

	var name string
	if u, err := user.Current(); err == nil {
		name = u.Username
	}
	if name == "" {
		name = firstNonEmpty(os.Getenv("USER"), os.Getenv("USERNAME"), os.Getenv("LOGNAME"))
	}

	id := Identity{Machine: machine, User: name}
	if !id.valid() {
		return Identity{}, ErrIdentityUnavailable
	}
	return id, nil
}

// Fingerprint returns the upper-case hex of the first five bytes of SHA-256(machine).
// It names the master secret record.
func (i Identity) Fingerprint() string {
	sum := sha256.Sum256([]byte(i.Machine))
	return strings.ToUpper(hex.EncodeToString(sum[:fingerprintSize]))
}

// seed is the device-derived key protecting the fallback key-value files.
func (i Identity) seed() []byte {
	sum := sha256.Sum256([]byte(i.Machine + i.User))
	return sum[:]
}

func (i Identity) valid() bool {
	return i.Machine != "" && i.User != ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
