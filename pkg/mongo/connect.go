package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Connect creates a client and waits until the server answers a ping.
// Up to RetryAttempts connections are tried, RetryInterval apart.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, error) {
	if cfg.ConnectionURL == "" {
		return nil, ErrEmptyConnectionURL
	}

	opts := options.Client().
		ApplyURI(cfg.ConnectionURL).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMaxConnIdleTime(cfg.MaxConnIdleTime)

	attempts := max(cfg.RetryAttempts, 1)
	var lastErr error
	for i := range attempts {
		client, err := mongo.Connect(opts)
		if err != nil {
			// Invalid options never succeed on retry.
			return nil, errors.Join(ErrFailedToConnectToMongo, err)
		}
		if lastErr = client.Ping(ctx, nil); lastErr == nil {
			return client, nil
		}
		_ = client.Disconnect(context.WithoutCancel(ctx))

		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrFailedToConnectToMongo, ctx.Err())
		case <-time.After(cfg.RetryInterval):
		}
	}

	return nil, errors.Join(ErrFailedToConnectToMongo, lastErr)
}

// Collection connects and returns the secrets collection named by cfg.
// The client must be disconnected by the caller.
func Collection(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Collection, error) {
	if cfg.ConnectionURL == "" {
		return nil, nil, ErrEmptyConnectionURL
	}
	if cfg.Database == "" || cfg.Collection == "" {
		return nil, nil, ErrEmptyCollection
	}
	client, err := Connect(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return client, client.Database(cfg.Database).Collection(cfg.Collection), nil
}
