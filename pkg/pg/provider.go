package pg

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	selectSecret = `SELECT value FROM securestore_secrets WHERE name = $1`
	upsertSecret = `INSERT INTO securestore_secrets (name, value) VALUES ($1, $2)
ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
)

// Querier is the subset of *pgxpool.Pool used by Provider.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Provider keeps secrets in the securestore_secrets table created by Migrate.
// It satisfies keymanager.Provider.
type Provider struct {
	db Querier
}

func NewProvider(db Querier) (*Provider, error) {
	if db == nil {
		return nil, ErrNilPool
	}
	return &Provider{db: db}, nil
}

// Get returns the stored value. A missing row is reported as absent.
func (p *Provider) Get(ctx context.Context, name string) (string, bool, error) {
	var value string
	err := p.db.QueryRow(ctx, selectSecret, name).Scan(&value)
	if IsNotFoundError(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Join(ErrProviderRead, err)
	}
	return value, true, nil
}

// Set inserts or replaces the row for name.
func (p *Provider) Set(ctx context.Context, name, value string) error {
	if _, err := p.db.Exec(ctx, upsertSecret, name, value); err != nil {
		return errors.Join(ErrProviderWrite, err)
	}
	return nil
}
