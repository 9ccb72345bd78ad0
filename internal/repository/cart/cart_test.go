package cart

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

func TestPostgres_GuestCartLifecycle(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	repo := NewPostgres(pool, nil)

	productID := insertProduct(ctx, t, pool, "Mug", 1299, 5)

	created, err := repo.GetOrCreateByGuest(ctx, "guest-1")
	require.NoError(t, err)
	require.NotNil(t, created.GuestSessionID)
	assert.Equal(t, "guest-1", *created.GuestSessionID)
	assert.Nil(t, created.UserID)
	assert.Empty(t, created.Lines)

	again, err := repo.GetOrCreateByGuest(ctx, "guest-1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)

	require.NoError(t, repo.AddLine(ctx, created.ID, productID, 2, 5))
	require.NoError(t, repo.AddLine(ctx, created.ID, productID, 10, 5))

	cart, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 5, cart.Lines[0].Quantity)
	assert.Equal(t, int64(1299), cart.Lines[0].Product.PriceCents)
	assert.False(t, cart.UpdatedAt.Before(created.UpdatedAt))

	require.NoError(t, repo.SetLineQuantity(ctx, created.ID, productID, 3))
	cart, err = repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, cart.Lines[0].Quantity)

	require.NoError(t, repo.RemoveLine(ctx, created.ID, productID))
	require.NoError(t, repo.RemoveLine(ctx, created.ID, productID))
	err = repo.SetLineQuantity(ctx, created.ID, productID, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, repo.AddLine(ctx, created.ID, productID, 1, 0))
	require.NoError(t, repo.Clear(ctx, created.ID))
	cart, err = repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
}

func TestPostgres_MergeGuestIntoUser(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	repo := NewPostgres(pool, nil)

	mug := insertProduct(ctx, t, pool, "Mug", 1299, 10)
	tee := insertProduct(ctx, t, pool, "Tee", 1999, 10)
	userID := insertUser(ctx, t, pool, "buyer@example.com")

	userCart, err := repo.GetOrCreateByUser(ctx, userID)
	require.NoError(t, err)
	require.NoError(t, repo.AddLine(ctx, userCart.ID, mug, 1, 0))

	guestCart, err := repo.GetOrCreateByGuest(ctx, "guest-merge")
	require.NoError(t, err)
	require.NoError(t, repo.AddLine(ctx, guestCart.ID, mug, 2, 0))
	require.NoError(t, repo.AddLine(ctx, guestCart.ID, tee, 1, 0))

	merged, err := repo.MergeGuestIntoUser(ctx, "guest-merge", userID)
	require.NoError(t, err)
	assert.Equal(t, userCart.ID, merged.ID)
	require.Len(t, merged.Lines, 2)
	quantities := map[string]int{}
	for _, l := range merged.Lines {
		quantities[l.ProductID] = l.Quantity
	}
	assert.Equal(t, 3, quantities[mug])
	assert.Equal(t, 1, quantities[tee])

	_, err = repo.GetByID(ctx, guestCart.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.MergeGuestIntoUser(ctx, "guest-merge", userID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostgres_MergeCapsAtStock(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	repo := NewPostgres(pool, nil)

	lamp := insertProduct(ctx, t, pool, "Lamp", 4500, 5)
	userID := insertUser(ctx, t, pool, "capped@example.com")

	userCart, err := repo.GetOrCreateByUser(ctx, userID)
	require.NoError(t, err)
	require.NoError(t, repo.AddLine(ctx, userCart.ID, lamp, 4, 5))

	guestCart, err := repo.GetOrCreateByGuest(ctx, "guest-capped")
	require.NoError(t, err)
	require.NoError(t, repo.AddLine(ctx, guestCart.ID, lamp, 3, 5))

	merged, err := repo.MergeGuestIntoUser(ctx, "guest-capped", userID)
	require.NoError(t, err)
	require.Len(t, merged.Lines, 1)
	assert.Equal(t, 5, merged.Lines[0].Quantity)
}

func TestPostgres_MergeAdoptsGuestCartWhenUserHasNone(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	repo := NewPostgres(pool, nil)

	userID := insertUser(ctx, t, pool, "fresh@example.com")
	guestCart, err := repo.GetOrCreateByGuest(ctx, "guest-adopt")
	require.NoError(t, err)

	merged, err := repo.MergeGuestIntoUser(ctx, "guest-adopt", userID)
	require.NoError(t, err)
	assert.Equal(t, guestCart.ID, merged.ID)
	require.NotNil(t, merged.UserID)
	assert.Equal(t, userID, *merged.UserID)
	assert.Nil(t, merged.GuestSessionID)
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

func insertProduct(ctx context.Context, t *testing.T, pool *pgxpool.Pool, name string, priceCents int64, stock int) string {
	t.Helper()
	var id string
	err := pool.QueryRow(ctx, `
INSERT INTO products (name, price_cents, stock)
VALUES ($1, $2, $3)
RETURNING id::text
`, name, priceCents, stock).Scan(&id)
	require.NoError(t, err, "insert product")
	return id
}

func insertUser(ctx context.Context, t *testing.T, pool *pgxpool.Pool, email string) string {
	t.Helper()
	var id string
	err := pool.QueryRow(ctx, `
INSERT INTO users (username, email, password_hash)
VALUES ('buyer', $1, 'x')
RETURNING id::text
`, email).Scan(&id)
	require.NoError(t, err, "insert user")
	return id
}
