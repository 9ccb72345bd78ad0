package contact

import (
	"context"
	"errors"

	"storefront/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const contactColumns = `id::text, user_id::text, name, email, phone, created_at`

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Contact, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+contactColumns+`
FROM contacts
WHERE user_id = $1
ORDER BY name ASC, created_at ASC
`, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	result := []domain.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	return result, rows.Err()
}

func (r *postgresRepo) Get(ctx context.Context, userID, id string) (*domain.Contact, error) {
	return scanContact(r.pool.QueryRow(ctx, `SELECT `+contactColumns+` FROM contacts WHERE user_id = $1 AND id = $2`, userID, id))
}

func (r *postgresRepo) Create(ctx context.Context, c domain.Contact) (*domain.Contact, error) {
	const q = `
INSERT INTO contacts (user_id, name, email, phone)
VALUES ($1, $2, $3, $4)
RETURNING ` + contactColumns
	return scanContact(r.pool.QueryRow(ctx, q, c.UserID, c.Name, c.Email, c.Phone))
}

func (r *postgresRepo) Update(ctx context.Context, c domain.Contact) (*domain.Contact, error) {
	const q = `
UPDATE contacts
SET name = $3, email = $4, phone = $5
WHERE user_id = $1 AND id = $2
RETURNING ` + contactColumns
	return scanContact(r.pool.QueryRow(ctx, q, c.UserID, c.ID, c.Name, c.Email, c.Phone))
}

func (r *postgresRepo) Delete(ctx context.Context, userID, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM contacts WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return mapErr(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanContact(row pgx.Row) (*domain.Contact, error) {
	var c domain.Contact
	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

func mapErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "22P02" {
		return domain.ErrNotFound
	}
	return err
}
