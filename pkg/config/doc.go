// Package config loads configuration structs from environment variables.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11:
//
//   - The default .env file in the working directory is loaded once, if present.
//     LoadEnv loads additional files explicitly.
//   - Load parses the environment into any struct using field tags, optionally
//     under a prefix such as "SECURESTORE_".
//   - Each configuration type is parsed once per prefix and cached for the
//     lifetime of the process. ResetCache clears the cache, which is handy in tests.
//
// # Usage
//
//	import "github.com/dmitrymomot/securestore/pkg/config"
//
//	var cfg securestore.Config
//	if err := config.Load(&cfg, config.WithPrefix("SECURESTORE_")); err != nil {
//	    log.Fatalf("parsing env: %v", err)
//	}
//
// WithEnvironment parses from an explicit map instead of the process
// environment; such results bypass the cache.
//
// # Error Handling
//
// Sentinel errors can be compared with errors.Is:
//
//   - ErrParsingConfig: failed to parse env vars into the struct.
//   - ErrLoadingEnvFile: a .env file passed to LoadEnv could not be read.
//   - ErrNilPointer: nil pointer passed to Load or MustLoad.
package config
