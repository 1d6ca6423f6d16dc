// Package pg stores master secrets in a PostgreSQL table using pgx/v5.
//
// Connect opens a *pgxpool.Pool with retries, Migrate creates the
// securestore_secrets table from the embedded goose migrations, and Provider
// satisfies keymanager.Provider on top of the pool.
//
// # Usage
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, log); err != nil {
//	    return err
//	}
//
//	provider, err := pg.NewProvider(pool)
//	if err != nil {
//	    return err
//	}
//	store, err := securestore.New(ctx, "myapp", securestore.WithProvider(provider))
//
// Healthcheck turns the pool into a readiness probe:
//
//	check := pg.Healthcheck(pool)
//
// # Configuration
//
// Config is read from PG_* variables, usually with the SECURESTORE_ prefix.
// Set PG_SKIP_MIGRATIONS when the schema is managed elsewhere.
//
// # Error Handling
//
// Connection problems are reported as ErrEmptyConnectionString,
// ErrFailedToParseDBConfig or ErrFailedToOpenDBConnection. Provider failures
// are joined with ErrProviderRead or ErrProviderWrite; a missing row is not an
// error.
package pg
