package keyring

import (
	"context"
	"errors"

	"github.com/99designs/keyring"
)

// Provider stores master secrets in an OS keychain.
// It satisfies keymanager.Provider.
type Provider struct {
	ring keyring.Keyring
}

// NewProvider wraps an already opened keyring.
func NewProvider(ring keyring.Keyring) (*Provider, error) {
	if ring == nil {
		return nil, ErrNilKeyring
	}
	return &Provider{ring: ring}, nil
}

// Open opens the keychain described by cfg.
func Open(cfg Config) (*Provider, error) {
	if cfg.ServiceName == "" {
		return nil, ErrEmptyServiceName
	}
	backends, err := cfg.backends()
	if err != nil {
		return nil, err
	}

	kc := keyring.Config{
		ServiceName:              cfg.ServiceName,
		AllowedBackends:          backends,
		KeychainTrustApplication: true,
		FileDir:                  cfg.FileDir,
	}
	if cfg.FilePassword != "" {
		kc.FilePasswordFunc = keyring.FixedStringPrompt(cfg.FilePassword)
	}

	ring, err := keyring.Open(kc)
	if err != nil {
		return nil, errors.Join(ErrOpenFailed, err)
	}
	return NewProvider(ring)
}

// Get returns the stored value. A missing item is reported as absent.
func (p *Provider) Get(ctx context.Context, name string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	item, err := p.ring.Get(name)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Join(ErrReadFailed, err)
	}
	return string(item.Data), true, nil
}

// Set creates or replaces the item called name.
func (p *Provider) Set(ctx context.Context, name, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := p.ring.Set(keyring.Item{
		Key:   name,
		Data:  []byte(value),
		Label: name,
	})
	if err != nil {
		return errors.Join(ErrWriteFailed, err)
	}
	return nil
}
