package contact

import (
	"context"

	"storefront/internal/domain"
)

// Repository stores contacts scoped to their owning user. Every lookup takes
// the owner id so one user can never reach another user's contacts.
type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Contact, error)
	Get(ctx context.Context, userID, id string) (*domain.Contact, error)
	Create(ctx context.Context, c domain.Contact) (*domain.Contact, error)
	Update(ctx context.Context, c domain.Contact) (*domain.Contact, error)
	Delete(ctx context.Context, userID, id string) error
}
