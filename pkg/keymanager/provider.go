package keymanager

import (
	"context"
	"errors"
	"log/slog"
	"path"

	"github.com/dmitrymomot/securestore/pkg/ecies"
	"github.com/dmitrymomot/securestore/pkg/logger"
	"github.com/dmitrymomot/securestore/pkg/sandbox"
)

// Provider is a secure key-value store, typically backed by hardware or the OS keychain.
// Get reports ok=false when name is absent.
type Provider interface {
	Get(ctx context.Context, name string) (value string, ok bool, err error)
	Set(ctx context.Context, name, value string) error
}

// ProviderFuncs adapts a bare get/set function pair to Provider.
type ProviderFuncs struct {
	GetFunc func(name string) (string, bool)
	SetFunc func(name, value string) error
}

func (f ProviderFuncs) Get(_ context.Context, name string) (string, bool, error) {
	if f.GetFunc == nil {
		return "", false, nil
	}
	v, ok := f.GetFunc(name)
	return v, ok, nil
}

func (f ProviderFuncs) Set(_ context.Context, name, value string) error {
	if f.SetFunc == nil {
		return nil
	}
	return f.SetFunc(name, value)
}

// FileProvider is the self-managed fallback used when no secure provider works.
// Each value lives in its own file at the sandbox root, encrypted under a seed
// derived from the machine and user names. A missing file or one that cannot be
// decrypted under this identity reads as absent; every other I/O failure is
// returned so a transient read error never passes for a missing secret.
type FileProvider struct {
	storage sandbox.Storage
	seed    []byte
	logger  *slog.Logger
}

// NewFileProvider creates the fallback provider for id.
func NewFileProvider(storage sandbox.Storage, id Identity, log *slog.Logger) *FileProvider {
	if log == nil {
		log = slog.Default()
	}
	return &FileProvider{
		storage: storage,
		seed:    id.seed(),
		logger:  log.With(logger.Component("keymanager.file")),
	}
}

func (p *FileProvider) Get(ctx context.Context, name string) (string, bool, error) {
	data, err := sandbox.ReadFile(ctx, p.storage, fallbackPath(name))
	if errors.Is(err, sandbox.ErrFileNotFound) {
		return "", false, nil
	}
	if err != nil {
		p.logger.ErrorContext(ctx, "fallback key read failed", slog.String("name", name), logger.Error(err))
		return "", false, errors.Join(ErrFallbackIO, err)
	}

	plain, err := ecies.Decrypt(data, p.seed)
	if err != nil {
		p.logger.WarnContext(ctx, "fallback key unreadable", slog.String("name", name), logger.Error(err))
		return "", false, nil
	}
	return string(plain), true, nil
}

func (p *FileProvider) Set(ctx context.Context, name, value string) error {
	cipher, err := ecies.Encrypt([]byte(value), p.seed)
	if err != nil {
		return errors.Join(ErrFallbackIO, err)
	}
	if err := sandbox.WriteFile(ctx, p.storage, fallbackPath(name), cipher); err != nil {
		p.logger.ErrorContext(ctx, "fallback key write failed", slog.String("name", name), logger.Error(err))
		return errors.Join(ErrFallbackIO, err)
	}
	return nil
}

func fallbackPath(name string) string {
	return path.Join(".", name)
}
