package cart

import (
	"context"

	"storefront/internal/domain"
)

// Repository persists carts keyed by a user id or a guest session id.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Cart, error)
	GetOrCreateByGuest(ctx context.Context, guestSessionID string) (*domain.Cart, error)
	GetOrCreateByUser(ctx context.Context, userID string) (*domain.Cart, error)
	// AddLine adds quantity to the product's line, creating it when absent.
	// limit > 0 caps the resulting quantity.
	AddLine(ctx context.Context, cartID, productID string, quantity, limit int) error
	// SetLineQuantity replaces the quantity of an existing line.
	SetLineQuantity(ctx context.Context, cartID, productID string, quantity int) error
	// RemoveLine deletes the line; a missing line is not an error.
	RemoveLine(ctx context.Context, cartID, productID string) error
	Clear(ctx context.Context, cartID string) error
	// MergeGuestIntoUser moves the guest cart's lines into the user's cart.
	MergeGuestIntoUser(ctx context.Context, guestSessionID, userID string) (*domain.Cart, error)
}
