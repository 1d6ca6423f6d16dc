// Package redis lets a Redis server act as the secure key-value provider that
// holds per-domain master secrets.
//
// The package wraps the go-redis client and adds:
//
//   - Connect, which retries the connection using the supplied Config.
//   - Provider, a keymanager.Provider backed by plain Redis strings.
//   - Healthcheck helpers for liveness probes.
//
// Config fields are populated from environment variables via
// github.com/caarlos0/env.
//
// # Usage
//
//	import "github.com/dmitrymomot/securestore/pkg/redis"
//
//	client, err := redis.Connect(ctx, redis.Config{
//	    ConnectionURL:  "redis://localhost:6379/0",
//	    RetryAttempts:  3,
//	    RetryInterval:  time.Second,
//	    ConnectTimeout: 10 * time.Second,
//	})
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	provider, err := redis.NewProvider(client, "securestore:")
//	if err != nil {
//	    return err
//	}
//	km, err := keymanager.New(ctx, "billing", storage, keymanager.WithProvider(provider))
//
// Whether the server is trustworthy enough to hold master secrets is the
// caller's decision. The key manager still probes the provider on start and
// falls back to the encrypted sandbox file when a round trip fails.
//
// # Errors
//
// The package defines sentinel errors (e.g. ErrRedisNotReady) that wrap the
// underlying go-redis errors using errors.Join. A missing key is never an
// error: Provider.Get reports it as absent.
package redis
