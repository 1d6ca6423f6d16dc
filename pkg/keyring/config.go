package keyring

import (
	"strings"

	"github.com/99designs/keyring"
)

// Config selects the OS keychain used to hold master secrets.
// Variables are read with the caller's prefix, e.g. SECURESTORE_KEYRING_SERVICE.
type Config struct {
	ServiceName  string   `env:"KEYRING_SERVICE" envDefault:"securestore"`
	Backends     []string `env:"KEYRING_BACKENDS" envSeparator:","` // empty means every backend available on this OS
	FileDir      string   `env:"KEYRING_FILE_DIR"`
	FilePassword string   `env:"KEYRING_FILE_PASSWORD"`
}

var backendNames = map[string]keyring.BackendType{
	"keychain":       keyring.KeychainBackend,
	"secret-service": keyring.SecretServiceBackend,
	"kwallet":        keyring.KWalletBackend,
	"wincred":        keyring.WinCredBackend,
	"file":           keyring.FileBackend,
	"pass":           keyring.PassBackend,
	"keyctl":         keyring.KeyCtlBackend,
}

func (c Config) backends() ([]keyring.BackendType, error) {
	out := make([]keyring.BackendType, 0, len(c.Backends))
	for _, name := range c.Backends {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		b, ok := backendNames[name]
		if !ok {
			return nil, ErrUnknownBackend
		}
		out = append(out, b)
	}
	return out, nil
}
