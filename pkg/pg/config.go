package pg

import "time"

// Config describes the PostgreSQL database holding master secrets.
// Variables are read with the caller's prefix, e.g. SECURESTORE_PG_CONN_URL.
type Config struct {
	ConnectionString  string        `env:"PG_CONN_URL"`                           // ConnectionString is the connection string to the database.
	MaxOpenConns      int32         `env:"PG_MAX_OPEN_CONNS" envDefault:"4"`      // MaxOpenConns is the maximum number of open connections to the database.
	MaxIdleConns      int32         `env:"PG_MAX_IDLE_CONNS" envDefault:"1"`      // MaxIdleConns is the maximum number of idle connections to the database.
	HealthCheckPeriod time.Duration `env:"PG_HEALTHCHECK_PERIOD" envDefault:"1m"` // HealthCheckPeriod is the period between health checks.
	MaxConnIdleTime   time.Duration `env:"PG_MAX_CONN_IDLE_TIME" envDefault:"10m"`

	RetryAttempts int           `env:"PG_RETRY_ATTEMPTS" envDefault:"3"`  // RetryAttempts is the number of retry attempts to connect to the database.
	RetryInterval time.Duration `env:"PG_RETRY_INTERVAL" envDefault:"5s"` // RetryInterval is the base interval between retry attempts.

	MigrationsTable string `env:"PG_MIGRATIONS_TABLE" envDefault:"securestore_migrations"` // MigrationsTable records applied schema versions.
	SkipMigrations  bool   `env:"PG_SKIP_MIGRATIONS"`                                      // SkipMigrations leaves the schema to the operator.
}
