package contact

import (
	"context"
	"os"
	"testing"

	"storefront/internal/domain"
	"storefront/internal/migrate"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgres_ScopedToOwner(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	repo := NewPostgres(pool)

	owner := insertUser(ctx, t, pool, "owner@example.com")
	other := insertUser(ctx, t, pool, "other@example.com")

	created, err := repo.Create(ctx, domain.Contact{UserID: owner, Name: "Bob", Email: "bob@example.com"})
	require.NoError(t, err)

	_, err = repo.Get(ctx, other, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, other, created.ID), domain.ErrNotFound)

	created.Phone = "555-0100"
	updated, err := repo.Update(ctx, *created)
	require.NoError(t, err)
	assert.Equal(t, "555-0100", updated.Phone)

	list, err := repo.ListByUser(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, owner, created.ID))
	list, err = repo.ListByUser(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err, "connect db")
	t.Cleanup(pool.Close)

	_, err = migrate.Apply(ctx, pool)
	require.NoError(t, err, "apply migrations")
	_, err = pool.Exec(ctx, `TRUNCATE cart_lines, carts, contacts, tokens, products, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err, "truncate tables")
	return pool
}

func insertUser(ctx context.Context, t *testing.T, pool *pgxpool.Pool, email string) string {
	t.Helper()
	var id string
	err := pool.QueryRow(ctx, `INSERT INTO users (username, email, password_hash) VALUES ('u', $1, 'x') RETURNING id::text`, email).Scan(&id)
	require.NoError(t, err, "insert user")
	return id
}
