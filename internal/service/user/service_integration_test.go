package user

import (
	"context"
	"os"
	"testing"

	"storefront/internal/migrate"
	tokenrepo "storefront/internal/repository/token"
	userrepo "storefront/internal/repository/user"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRegisterAndLogin_Integration(t *testing.T) {
	ctx := context.Background()
	pool := integrationPool(ctx, t)

	_, err := migrate.Apply(ctx, pool)
	require.NoError(t, err, "apply migrations")
	_, err = pool.Exec(ctx, `TRUNCATE cart_lines, carts, contacts, tokens, products, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err, "reset tables")

	logger := zap.NewNop()
	svc := New(userrepo.NewPostgres(pool, logger), tokenrepo.NewPostgres(pool), nil, logger)

	password := "Abcdefg1"
	reg, err := svc.Register(ctx, RegisterInput{Username: "int", Email: "integration@example.com", Password: password})
	require.NoError(t, err)
	require.NotEmpty(t, reg.User.ID)

	sess, err := svc.Login(ctx, "integration@example.com", password, "")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.AccessToken)
	assert.NotEmpty(t, sess.RefreshToken)

	u, err := svc.LookupByToken(ctx, sess.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, u.ID)
}

func integrationPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err, "connect db")
	t.Cleanup(pool.Close)
	return pool
}
