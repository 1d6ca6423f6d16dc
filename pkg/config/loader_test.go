package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/securestore/pkg/config"
)

type backendConfig struct {
	Backend   string `env:"TEST_BACKEND" envDefault:"local"`
	Encrypted bool   `env:"TEST_ENCRYPTED" envDefault:"true"`
	CacheSize int    `env:"TEST_CACHE_SIZE" envDefault:"64"`
}

type cachedConfig struct {
	Root string `env:"TEST_CACHE_ROOT" envDefault:"/var/lib/app"`
}

type otherCachedConfig struct {
	Root string `env:"TEST_OTHER_ROOT"`
}

type requiredConfig struct {
	Domain string `env:"TEST_REQUIRED_DOMAIN,required"`
}

func TestLoad(t *testing.T) {
	t.Setenv("TEST_BACKEND", "s3")
	t.Setenv("TEST_ENCRYPTED", "false")

	var cfg backendConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, backendConfig{Backend: "s3", Encrypted: false, CacheSize: 64}, cfg)
}

func TestLoad_Errors(t *testing.T) {
	os.Unsetenv("TEST_REQUIRED_DOMAIN")

	var cfg requiredConfig
	assert.ErrorIs(t, config.Load(&cfg), config.ErrParsingConfig)

	var missing *requiredConfig
	assert.ErrorIs(t, config.Load(missing), config.ErrNilPointer)
	assert.Panics(t, func() { config.MustLoad(&cfg) })
}

func TestLoad_CachedPerType(t *testing.T) {
	t.Setenv("TEST_CACHE_ROOT", "/first")
	t.Setenv("TEST_OTHER_ROOT", "/other")
	config.ResetCache()

	var first cachedConfig
	require.NoError(t, config.Load(&first))

	t.Setenv("TEST_CACHE_ROOT", "/second")
	var second cachedConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, "/first", second.Root)

	var other otherCachedConfig
	require.NoError(t, config.Load(&other))
	assert.Equal(t, "/other", other.Root)
}

type PrefixedConfig struct {
	Domain string `env:"DOMAIN,required"`
	Items  int    `env:"ITEMS" envDefault:"3"`
}

func TestLoad_WithPrefix(t *testing.T) {
	t.Setenv("APP_ONE_DOMAIN", "billing")
	t.Setenv("APP_TWO_DOMAIN", "profile")
	t.Setenv("APP_TWO_ITEMS", "9")

	var one, two PrefixedConfig
	require.NoError(t, config.Load(&one, config.WithPrefix("APP_ONE_")))
	require.NoError(t, config.Load(&two, config.WithPrefix("APP_TWO_")))

	assert.Equal(t, PrefixedConfig{Domain: "billing", Items: 3}, one)
	assert.Equal(t, PrefixedConfig{Domain: "profile", Items: 9}, two)
}

func TestLoad_WithEnvironmentBypassesCache(t *testing.T) {
	var cfg PrefixedConfig
	err := config.Load(&cfg, config.WithPrefix("MAP_"), config.WithEnvironment(map[string]string{"MAP_DOMAIN": "a"}))
	require.NoError(t, err)
	assert.Equal(t, "a", cfg.Domain)

	err = config.Load(&cfg, config.WithPrefix("MAP_"), config.WithEnvironment(map[string]string{"MAP_DOMAIN": "b"}))
	require.NoError(t, err)
	assert.Equal(t, "b", cfg.Domain)

	err = config.Load(&cfg, config.WithPrefix("MAP_"), config.WithEnvironment(map[string]string{}))
	assert.ErrorIs(t, err, config.ErrParsingConfig)
}

type EnvFileConfig struct {
	Value string `env:"TEST_ENV_FILE_VALUE"`
}

func TestLoadEnv(t *testing.T) {
	os.Unsetenv("TEST_ENV_FILE_VALUE")
	t.Cleanup(func() { os.Unsetenv("TEST_ENV_FILE_VALUE") })

	file := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(file, []byte("TEST_ENV_FILE_VALUE=from-file\n"), 0o600))

	require.NoError(t, config.LoadEnv(file))
	config.ResetCache()

	var cfg EnvFileConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "from-file", cfg.Value)

	err := config.LoadEnv(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorIs(t, err, config.ErrLoadingEnvFile)
}

func TestResetCache(t *testing.T) {
	t.Setenv("TEST_CACHE_ROOT", "before")
	config.ResetCache()

	var cfg cachedConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "before", cfg.Root)

	t.Setenv("TEST_CACHE_ROOT", "after")
	config.ResetCache()
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "after", cfg.Root)
}
