package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// configCache stores parsed configuration copies keyed by type and prefix.
type configCache struct {
	mu     sync.RWMutex
	values map[string]any
}

var (
	globalCache = &configCache{values: make(map[string]any)}

	defaultEnvLoaded sync.Once
)

// Option tunes a single Load call.
type Option func(*env.Options)

// WithPrefix reads every variable with prefix prepended, e.g. "SECURESTORE_".
func WithPrefix(prefix string) Option {
	return func(o *env.Options) { o.Prefix = prefix }
}

// WithEnvironment parses from the given map instead of the process environment.
// Results parsed this way are never cached.
func WithEnvironment(vars map[string]string) Option {
	return func(o *env.Options) { o.Environment = vars }
}

// Load parses environment variables into v based on its field tags.
//
// The default .env file is loaded once, if present. A configuration type is
// parsed only once per prefix; later calls return the cached copy.
//
//	type StoreConfig struct {
//		Domain string `env:"DOMAIN,required"`
//		Root   string `env:"ROOT"`
//	}
//
//	var cfg StoreConfig
//	err := config.Load(&cfg, config.WithPrefix("SECURESTORE_"))
func Load[T any](v *T, opts ...Option) error {
	defaultEnvLoaded.Do(func() {
		// The .env file is optional.
		_ = godotenv.Load()
	})
	if v == nil {
		return ErrNilPointer
	}

	var o env.Options
	for _, opt := range opts {
		opt(&o)
	}
	cacheable := o.Environment == nil
	key := cacheKey[T](o.Prefix)

	if cacheable {
		globalCache.mu.RLock()
		cached, ok := globalCache.values[key]
		globalCache.mu.RUnlock()
		if ok {
			*v = cached.(T)
			return nil
		}
	}

	var parsed T
	if err := env.ParseWithOptions(&parsed, o); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}

	if cacheable {
		globalCache.mu.Lock()
		if cached, ok := globalCache.values[key]; ok {
			parsed = cached.(T)
		} else {
			globalCache.values[key] = parsed
		}
		globalCache.mu.Unlock()
	}

	*v = parsed
	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad[T any](v *T, opts ...Option) {
	if err := Load(v, opts...); err != nil {
		panic(fmt.Sprintf("Failed to load required configuration: %v", err))
	}
}

// LoadEnv loads the given .env files into the process environment.
// Variables that are already set are not overridden.
func LoadEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}
	return nil
}

// ResetCache drops every cached configuration.
func ResetCache() {
	globalCache.mu.Lock()
	defer globalCache.mu.Unlock()
	globalCache.values = make(map[string]any)
}

func cacheKey[T any](prefix string) string {
	return prefix + "|" + reflect.TypeFor[T]().String()
}
