package securestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrymomot/securestore/pkg/codec"
	"github.com/dmitrymomot/securestore/pkg/config"
	"github.com/dmitrymomot/securestore/pkg/environment"
	"github.com/dmitrymomot/securestore/pkg/keyring"
	"github.com/dmitrymomot/securestore/pkg/logger"
	"github.com/dmitrymomot/securestore/pkg/mongo"
	"github.com/dmitrymomot/securestore/pkg/pg"
	"github.com/dmitrymomot/securestore/pkg/redis"
	"github.com/dmitrymomot/securestore/pkg/sandbox"
)

// EnvPrefix is prepended to every variable read by LoadConfig.
const EnvPrefix = "SECURESTORE_"

// Sandbox backends.
const (
	BackendLocal  = "local"
	BackendS3     = "s3"
	BackendMemory = "memory"
	BackendBolt   = "bolt"
)

// Secure key-value providers.
const (
	ProviderNone     = "none"
	ProviderKeyring  = "keyring"
	ProviderRedis    = "redis"
	ProviderMongo    = "mongo"
	ProviderPostgres = "postgres"
)

// Config describes a Storage in terms of environment variables.
type Config struct {
	Domain      string `env:"DOMAIN,required"`
	Encrypted   bool   `env:"ENCRYPTED" envDefault:"true"`
	Environment string `env:"ENV" envDefault:"production"`
	ObjectCodec string `env:"OBJECT_CODEC" envDefault:"xml"`

	Backend   string   `env:"BACKEND" envDefault:"local"`
	LocalRoot string   `env:"LOCAL_ROOT"` // defaults to the per-user data directory of App
	App       string   `env:"APP" envDefault:"securestore"`
	BoltFile  string   `env:"BOLT_FILE"` // defaults to <LocalRoot>/sandbox.db
	S3        S3Config `envPrefix:"S3_"`

	Provider string `env:"PROVIDER" envDefault:"none"`
	Redis    redis.Config
	Keyring  keyring.Config
	Mongo    mongo.Config
	Postgres pg.Config
}

// S3Config is the environment form of sandbox.S3Config.
type S3Config struct {
	Bucket         string `env:"BUCKET"`
	Region         string `env:"REGION" envDefault:"us-east-1"`
	Prefix         string `env:"PREFIX"`
	AccessKeyID    string `env:"ACCESS_KEY_ID"`
	SecretKey      string `env:"SECRET_KEY"`
	Endpoint       string `env:"ENDPOINT"`
	ForcePathStyle bool   `env:"FORCE_PATH_STYLE"`
}

// LoadConfig reads Config from SECURESTORE_* variables and an optional .env file.
func LoadConfig(opts ...config.Option) (Config, error) {
	var cfg Config
	opts = append([]config.Option{config.WithPrefix(EnvPrefix)}, opts...)
	if err := config.Load(&cfg, opts...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// NewFromConfig opens the backend and provider described by cfg and then
// calls New. opts are applied after the ones derived from cfg.
func NewFromConfig(ctx context.Context, cfg Config, opts ...Option) (*Storage, error) {
	objectCodec, err := codec.ByName(cfg.ObjectCodec)
	if err != nil {
		return nil, err
	}

	key, open, err := sandboxFromConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	env := environment.Parse(cfg.Environment)
	base := []Option{
		WithSandbox(key, open),
		WithEncryption(cfg.Encrypted),
		WithEnvironment(env),
		WithObjectCodec(objectCodec),
		WithLogger(logger.New(
			logger.WithEnvironment(env, cfg.App),
			logger.WithOutput(os.Stderr),
		)),
	}

	var closers []io.Closer
	switch strings.ToLower(cfg.Provider) {
	case "", ProviderNone:
	case ProviderKeyring:
		p, err := keyring.Open(cfg.Keyring)
		if err != nil {
			return nil, errors.Join(ErrProviderFailed, err)
		}
		base = append(base, WithProvider(p))
	case ProviderRedis:
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, errors.Join(ErrProviderFailed, err)
		}
		p, err := redis.NewProvider(client, cfg.Redis.KeyPrefix)
		if err != nil {
			_ = client.Close()
			return nil, errors.Join(ErrProviderFailed, err)
		}
		base = append(base, WithProvider(p))
		closers = append(closers, client)
	case ProviderMongo:
		client, coll, err := mongo.Collection(ctx, cfg.Mongo)
		if err != nil {
			return nil, errors.Join(ErrProviderFailed, err)
		}
		disconnect := closerFunc(func() error { return client.Disconnect(context.WithoutCancel(ctx)) })
		p, err := mongo.NewProvider(coll)
		if err != nil {
			_ = disconnect.Close()
			return nil, errors.Join(ErrProviderFailed, err)
		}
		base = append(base, WithProvider(p))
		closers = append(closers, disconnect)
	case ProviderPostgres:
		pool, err := pg.Connect(ctx, cfg.Postgres)
		if err != nil {
			return nil, errors.Join(ErrProviderFailed, err)
		}
		if !cfg.Postgres.SkipMigrations {
			if err := pg.Migrate(ctx, pool, cfg.Postgres, migrationLogger(append(base, opts...))); err != nil {
				pool.Close()
				return nil, errors.Join(ErrProviderFailed, err)
			}
		}
		p, err := pg.NewProvider(pool)
		if err != nil {
			pool.Close()
			return nil, errors.Join(ErrProviderFailed, err)
		}
		base = append(base, WithProvider(p))
		closers = append(closers, closerFunc(func() error { pool.Close(); return nil }))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}

	return newStorage(ctx, cfg.Domain, closers, append(base, opts...)...)
}

func sandboxFromConfig(ctx context.Context, cfg Config) (string, func() (sandbox.Storage, error), error) {
	root := func() (string, error) {
		if cfg.LocalRoot != "" {
			return cfg.LocalRoot, nil
		}
		return sandbox.DefaultRoot(cfg.App)
	}

	switch strings.ToLower(cfg.Backend) {
	case "", BackendLocal:
		dir, err := root()
		if err != nil {
			return "", nil, errors.Join(ErrSandboxFailed, err)
		}
		return "local:" + dir, func() (sandbox.Storage, error) {
			return sandbox.NewLocalStorage(dir)
		}, nil

	case BackendBolt:
		file := cfg.BoltFile
		if file == "" {
			dir, err := root()
			if err != nil {
				return "", nil, errors.Join(ErrSandboxFailed, err)
			}
			file = filepath.Join(dir, "sandbox.db")
		}
		return "bolt:" + file, func() (sandbox.Storage, error) {
			return sandbox.NewBoltStorage(file)
		}, nil

	case BackendMemory:
		return "memory:" + cfg.App, func() (sandbox.Storage, error) {
			return sandbox.NewMemoryStorage(), nil
		}, nil

	case BackendS3:
		s3cfg := sandbox.S3Config{
			Bucket:         cfg.S3.Bucket,
			Region:         cfg.S3.Region,
			Prefix:         cfg.S3.Prefix,
			AccessKeyID:    cfg.S3.AccessKeyID,
			SecretKey:      cfg.S3.SecretKey,
			Endpoint:       cfg.S3.Endpoint,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		}
		// The storage outlives this call, so the client must not be tied to ctx.
		openCtx := context.WithoutCancel(ctx)
		return fmt.Sprintf("s3:%s/%s", s3cfg.Bucket, s3cfg.Prefix), func() (sandbox.Storage, error) {
			return sandbox.NewS3Storage(openCtx, s3cfg)
		}, nil

	default:
		return "", nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// migrationLogger picks the last logger configured in opts for goose output.
func migrationLogger(opts []Option) *slog.Logger {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o.logger.With(logger.Component("migrations"))
}
