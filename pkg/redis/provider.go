package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client is the subset of redis.UniversalClient used by Provider.
type Client interface {
	Pinger
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// Provider stores master secrets as plain Redis strings.
// It satisfies keymanager.Provider.
type Provider struct {
	client Client
	prefix string
}

// NewProvider wraps client. Every key is stored under prefix.
func NewProvider(client Client, prefix string) (*Provider, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	return &Provider{client: client, prefix: prefix}, nil
}

// Get returns the stored value. A missing key is reported as absent, not as an error.
func (p *Provider) Get(ctx context.Context, name string) (string, bool, error) {
	val, err := p.client.Get(ctx, p.prefix+name).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Join(ErrProviderRead, err)
	}
	return val, true, nil
}

// Set stores value without expiration.
func (p *Provider) Set(ctx context.Context, name, value string) error {
	if err := p.client.Set(ctx, p.prefix+name, value, 0).Err(); err != nil {
		return errors.Join(ErrProviderWrite, err)
	}
	return nil
}

// Healthcheck pings the server.
func (p *Provider) Healthcheck(ctx context.Context) error {
	return Healthcheck(p.client)(ctx)
}
