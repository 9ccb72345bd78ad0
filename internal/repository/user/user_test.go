package user

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

func TestPostgres_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgres(testPool(ctx, t), nil)

	created, err := repo.Create(ctx, domain.User{Username: "ann", Email: "Ann@Example.com", PasswordHash: "hash", Role: domain.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", created.Email)

	_, err = repo.Create(ctx, domain.User{Username: "dup", Email: "ann@example.com", PasswordHash: "hash", Role: domain.RoleUser})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	byEmail, err := repo.GetByEmail(ctx, "ANN@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = repo.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	created.Role = domain.RoleAdmin
	updated, err := repo.Update(ctx, *created)
	require.NoError(t, err)
	assert.True(t, updated.IsAdmin())

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	require.NoError(t, repo.Delete(ctx, created.ID))
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), domain.ErrNotFound)
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
