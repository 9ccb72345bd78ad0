package seed

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/logging"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type productSeed struct {
	Name        string
	Description string
	PriceCents  int64
	Image       string
	Stock       int
}

// Admin is the console account created by Apply.
type Admin struct {
	Username string
	Email    string
	Password string
}

var demoProducts = []productSeed{
	{
		Name:        "Demo T-Shirt",
		Description: "Soft cotton tee for demo purposes",
		PriceCents:  1999,
		Image:       "https://picsum.photos/seed/tshirt/600/600",
		Stock:       25,
	},
	{
		Name:        "Demo Mug",
		Description: "Ceramic mug with demo logo",
		PriceCents:  1299,
		Image:       "https://picsum.photos/seed/mug/600/600",
		Stock:       40,
	},
	{
		Name:        "Desk Lamp",
		Description: "Adjustable lamp with warm LED",
		PriceCents:  4999,
		Image:       "https://picsum.photos/seed/lamp/600/600",
		Stock:       5,
	},
	{
		Name:        "Sticker Pack",
		Description: "Made to order, no stock tracking",
		PriceCents:  399,
		Image:       "https://picsum.photos/seed/stickers/600/600",
	},
}

// Apply inserts demo products and the admin account. It is idempotent via
// ON CONFLICT. An empty admin email skips the admin account.
func Apply(ctx context.Context, pool *pgxpool.Pool, admin Admin, logger *zap.Logger) error {
	logger = logging.OrNop(logger)
	for _, p := range demoProducts {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Name, err)
		}
	}
	logger.Info("seeded products", zap.Int("count", len(demoProducts)))

	if strings.TrimSpace(admin.Email) == "" {
		return nil
	}
	if err := upsertAdmin(ctx, pool, admin); err != nil {
		return fmt.Errorf("upsert admin %s: %w", admin.Email, err)
	}
	logger.Info("seeded admin", zap.String("email", admin.Email))
	return nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const q = `
INSERT INTO products (name, description, price_cents, image, stock)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (name) DO UPDATE
SET description = EXCLUDED.description,
    price_cents = EXCLUDED.price_cents,
    image = EXCLUDED.image,
    stock = EXCLUDED.stock
`
	_, err := pool.Exec(ctx, q, p.Name, p.Description, p.PriceCents, p.Image, p.Stock)
	return err
}

// upsertAdmin keeps an existing password so re-seeding never resets it.
func upsertAdmin(ctx context.Context, pool *pgxpool.Pool, admin Admin) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	username := admin.Username
	if username == "" {
		username = "admin"
	}
	const q = `
INSERT INTO users (username, email, password_hash, role)
VALUES ($1, lower($2), $3, 'admin')
ON CONFLICT (email) DO UPDATE
SET role = 'admin'
`
	_, err = pool.Exec(ctx, q, username, admin.Email, string(hash))
	return err
}
