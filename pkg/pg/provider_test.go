package pg_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/securestore/pkg/pg"
)

// fakeDB answers the two statements issued by Provider from a map.
type fakeDB struct {
	mu      sync.Mutex
	rows    map[string]string
	err     error
	queries []string
}

type fakeRow struct {
	value string
	err   error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*string) = r.value
	return nil
}

func (db *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.queries = append(db.queries, sql)
	if db.err != nil {
		return fakeRow{err: db.err}
	}
	v, ok := db.rows[args[0].(string)]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{value: v}
}

func (db *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.queries = append(db.queries, sql)
	if db.err != nil {
		return pgconn.CommandTag{}, db.err
	}
	db.rows[args[0].(string)] = args[1].(string)
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func TestProvider_RoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := &fakeDB{rows: map[string]string{}}

	p, err := pg.NewProvider(db)
	require.NoError(t, err)

	_, ok, err := p.Get(ctx, "app.test")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, p.Set(ctx, "app.test", "a"))
	require.NoError(t, p.Set(ctx, "app.test", "b"))

	v, ok, err := p.Get(ctx, "app.test")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "b", v)

	require.Len(t, db.queries, 4)
	assert.Contains(t, db.queries[1], "ON CONFLICT (name)")
}

func TestProvider_Errors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	errBoom := errors.New("boom")

	_, err := pg.NewProvider(nil)
	assert.ErrorIs(t, err, pg.ErrNilPool)

	p, err := pg.NewProvider(&fakeDB{rows: map[string]string{}, err: errBoom})
	require.NoError(t, err)

	_, _, err = p.Get(ctx, "k")
	assert.ErrorIs(t, err, pg.ErrProviderRead)
	assert.ErrorIs(t, err, errBoom)

	err = p.Set(ctx, "k", "v")
	assert.ErrorIs(t, err, pg.ErrProviderWrite)
	assert.ErrorIs(t, err, errBoom)
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func TestHealthcheck(t *testing.T) {
	t.Parallel()

	assert.NoError(t, pg.Healthcheck(pinger{})(context.Background()))
	err := pg.Healthcheck(pinger{err: errors.New("down")})(context.Background())
	assert.ErrorIs(t, err, pg.ErrHealthcheckFailed)
}

func TestConnect_InvalidConfig(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	_, err := pg.Connect(ctx, pg.Config{})
	assert.ErrorIs(t, err, pg.ErrEmptyConnectionString)

	_, err = pg.Connect(ctx, pg.Config{ConnectionString: "postgres://%zz"})
	assert.ErrorIs(t, err, pg.ErrFailedToParseDBConfig)

	assert.ErrorIs(t, pg.Migrate(ctx, nil, pg.Config{}, nil), pg.ErrNilPool)
}

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	assert.True(t, pg.IsNotFoundError(pgx.ErrNoRows))
	assert.True(t, pg.IsNotFoundError(errors.Join(errors.New("ctx"), pgx.ErrNoRows)))
	assert.False(t, pg.IsNotFoundError(nil))
	assert.False(t, pg.IsNotFoundError(errors.New("other")))
}
