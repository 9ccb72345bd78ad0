package cart

import (
	"context"
	"errors"

	"storefront/internal/domain"
	"storefront/internal/logging"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const cartColumns = `id::text, user_id::text, guest_session_id, created_at, updated_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logging.OrNop(logger).Named("cart_repo")}
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Cart, error) {
	return r.fetchCart(ctx, r.pool, `SELECT `+cartColumns+` FROM carts WHERE id = $1`, id)
}

func (r *postgresRepo) GetOrCreateByGuest(ctx context.Context, guestSessionID string) (*domain.Cart, error) {
	const q = `
INSERT INTO carts (guest_session_id)
VALUES ($1)
ON CONFLICT (guest_session_id) WHERE guest_session_id IS NOT NULL
DO UPDATE SET guest_session_id = EXCLUDED.guest_session_id
RETURNING id::text
`
	var id string
	if err := r.pool.QueryRow(ctx, q, guestSessionID).Scan(&id); err != nil {
		r.logger.Error("get or create guest cart", zap.String("guest_session_id", guestSessionID), zap.Error(err))
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *postgresRepo) GetOrCreateByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	const q = `
INSERT INTO carts (user_id)
VALUES ($1)
ON CONFLICT (user_id) WHERE user_id IS NOT NULL
DO UPDATE SET user_id = EXCLUDED.user_id
RETURNING id::text
`
	var id string
	if err := r.pool.QueryRow(ctx, q, userID).Scan(&id); err != nil {
		r.logger.Error("get or create user cart", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *postgresRepo) AddLine(ctx context.Context, cartID, productID string, quantity, limit int) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
INSERT INTO cart_lines (cart_id, product_id, quantity)
VALUES ($1, $2, CASE WHEN $4::int > 0 THEN LEAST($3::int, $4::int) ELSE $3::int END)
ON CONFLICT (cart_id, product_id) DO UPDATE
SET quantity = CASE
    WHEN $4::int > 0 THEN LEAST(cart_lines.quantity + EXCLUDED.quantity, $4::int)
    ELSE cart_lines.quantity + EXCLUDED.quantity
END
`, cartID, productID, quantity, limit); err != nil {
		return mapErr(err)
	}
	if err := touchCart(ctx, tx, cartID); err != nil {
		return err
	}
	r.logger.Debug("line added", zap.String("cart_id", cartID), zap.String("product_id", productID), zap.Int("quantity", quantity))
	return tx.Commit(ctx)
}

func (r *postgresRepo) SetLineQuantity(ctx context.Context, cartID, productID string, quantity int) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `
UPDATE cart_lines
SET quantity = $3
WHERE cart_id = $1 AND product_id = $2
`, cartID, productID, quantity)
	if err != nil {
		return mapErr(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if err := touchCart(ctx, tx, cartID); err != nil {
		return err
	}
	r.logger.Debug("line quantity set", zap.String("cart_id", cartID), zap.String("product_id", productID), zap.Int("quantity", quantity))
	return tx.Commit(ctx)
}

func (r *postgresRepo) RemoveLine(ctx context.Context, cartID, productID string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM cart_lines WHERE cart_id = $1 AND product_id = $2`, cartID, productID); err != nil {
		if errors.Is(mapErr(err), domain.ErrNotFound) {
			return nil
		}
		return err
	}
	if err := touchCart(ctx, tx, cartID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *postgresRepo) Clear(ctx context.Context, cartID string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM cart_lines WHERE cart_id = $1`, cartID); err != nil {
		return err
	}
	if err := touchCart(ctx, tx, cartID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *postgresRepo) MergeGuestIntoUser(ctx context.Context, guestSessionID, userID string) (*domain.Cart, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var guestCartID string
	err = tx.QueryRow(ctx, `SELECT id::text FROM carts WHERE guest_session_id = $1 FOR UPDATE`, guestSessionID).Scan(&guestCartID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	var userCartID string
	err = tx.QueryRow(ctx, `SELECT id::text FROM carts WHERE user_id = $1 FOR UPDATE`, userID).Scan(&userCartID)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		// The guest cart becomes the user's cart.
		if _, err := tx.Exec(ctx, `
UPDATE carts
SET user_id = $1, guest_session_id = NULL, updated_at = now()
WHERE id = $2
`, userID, guestCartID); err != nil {
			return nil, err
		}
		userCartID = guestCartID
	case err != nil:
		return nil, err
	default:
		if _, err := tx.Exec(ctx, `
INSERT INTO cart_lines (cart_id, product_id, quantity, added_at)
SELECT $1, l.product_id,
       CASE WHEN p.stock > 0 THEN LEAST(l.quantity, p.stock) ELSE l.quantity END,
       l.added_at
FROM cart_lines l
JOIN products p ON p.id = l.product_id
WHERE l.cart_id = $2
ON CONFLICT (cart_id, product_id) DO UPDATE
SET quantity = (
    SELECT CASE
        WHEN p.stock > 0 THEN LEAST(cart_lines.quantity + EXCLUDED.quantity, p.stock)
        ELSE cart_lines.quantity + EXCLUDED.quantity
    END
    FROM products p
    WHERE p.id = EXCLUDED.product_id
)
`, userCartID, guestCartID); err != nil {
			return nil, err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM carts WHERE id = $1`, guestCartID); err != nil {
			return nil, err
		}
		if err := touchCart(ctx, tx, userCartID); err != nil {
			return nil, err
		}
	}

	cart, err := r.fetchCart(ctx, tx, `SELECT `+cartColumns+` FROM carts WHERE id = $1`, userCartID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Info("guest cart merged", zap.String("guest_session_id", guestSessionID), zap.String("user_id", userID), zap.String("cart_id", userCartID))
	return cart, nil
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *postgresRepo) fetchCart(ctx context.Context, q querier, cartQuery string, args ...any) (*domain.Cart, error) {
	var cart domain.Cart
	err := q.QueryRow(ctx, cartQuery, args...).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.GuestSessionID,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	const linesQuery = `
SELECT l.product_id::text, l.quantity, l.added_at,
       p.id::text, p.name, p.description, p.price_cents, p.image, p.stock, p.created_at
FROM cart_lines l
JOIN products p ON p.id = l.product_id
WHERE l.cart_id = $1
ORDER BY l.added_at ASC, l.product_id ASC
`
	rows, err := q.Query(ctx, linesQuery, cart.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cart.Lines = []domain.CartLine{}
	for rows.Next() {
		var line domain.CartLine
		p := &line.Product
		if err := rows.Scan(
			&line.ProductID,
			&line.Quantity,
			&line.AddedAt,
			&p.ID,
			&p.Name,
			&p.Description,
			&p.PriceCents,
			&p.Image,
			&p.Stock,
			&p.CreatedAt,
		); err != nil {
			return nil, err
		}
		cart.Lines = append(cart.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &cart, nil
}

func touchCart(ctx context.Context, tx pgx.Tx, cartID string) error {
	cmd, err := tx.Exec(ctx, `UPDATE carts SET updated_at = now() WHERE id = $1`, cartID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func mapErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "22P02", "23503": // malformed uuid, unknown product
			return domain.ErrNotFound
		}
	}
	return err
}
