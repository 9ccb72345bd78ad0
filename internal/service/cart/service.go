package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/domain"
)

type Service struct {
	repo        cartRepo
	productRepo productRepo
}

type cartRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Cart, error)
	GetOrCreateByGuest(ctx context.Context, guestSessionID string) (*domain.Cart, error)
	GetOrCreateByUser(ctx context.Context, userID string) (*domain.Cart, error)
	AddLine(ctx context.Context, cartID, productID string, quantity, limit int) error
	SetLineQuantity(ctx context.Context, cartID, productID string, quantity int) error
	RemoveLine(ctx context.Context, cartID, productID string) error
	Clear(ctx context.Context, cartID string) error
	MergeGuestIntoUser(ctx context.Context, guestSessionID, userID string) (*domain.Cart, error)
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

func New(repo cartRepo, productRepo productRepo) *Service {
	return &Service{repo: repo, productRepo: productRepo}
}

// Owner identifies whose cart a request addresses. UserID wins when both are
// set.
type Owner struct {
	UserID         string
	GuestSessionID string
}

func (o Owner) String() string {
	if o.UserID != "" {
		return "user:" + o.UserID
	}
	return "guest:" + o.GuestSessionID
}

// Get returns the owner's cart, creating an empty one on first access.
func (s *Service) Get(ctx context.Context, owner Owner) (*domain.Cart, error) {
	return s.cartFor(ctx, owner)
}

// Add increases the product's quantity by qty, capped at the product's stock.
// A product with zero stock is out of stock.
func (s *Service) Add(ctx context.Context, owner Owner, productID string, qty int) (*domain.Cart, error) {
	if qty < 1 {
		return nil, domain.Invalid("quantity must be at least 1")
	}
	product, err := s.product(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.Stock <= 0 {
		return nil, domain.Invalid("product is out of stock")
	}
	cart, err := s.cartFor(ctx, owner)
	if err != nil {
		return nil, err
	}
	if err := s.repo.AddLine(ctx, cart.ID, product.ID, qty, product.Stock); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, cart.ID)
}

// SetQuantity replaces the quantity of an existing line. Raising a line past
// the product's stock is rejected; lowering is always allowed, even for a line
// that already sits above stock.
func (s *Service) SetQuantity(ctx context.Context, owner Owner, productID string, qty int) (*domain.Cart, error) {
	if qty < 1 {
		return nil, domain.Invalid("quantity must be at least 1")
	}
	product, err := s.product(ctx, productID)
	if err != nil {
		return nil, err
	}
	cart, err := s.cartFor(ctx, owner)
	if err != nil {
		return nil, err
	}
	if qty > product.Stock && qty > lineQuantity(cart, product.ID) {
		if product.Stock <= 0 {
			return nil, domain.Invalid("product is out of stock")
		}
		return nil, domain.Invalid(fmt.Sprintf("only %d in stock", product.Stock))
	}
	if err := s.repo.SetLineQuantity(ctx, cart.ID, product.ID, qty); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("product not in cart: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	return s.repo.GetByID(ctx, cart.ID)
}

// Remove deletes the product's line. Removing an absent line is not an error.
func (s *Service) Remove(ctx context.Context, owner Owner, productID string) (*domain.Cart, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, domain.Invalid("product_id required")
	}
	cart, err := s.cartFor(ctx, owner)
	if err != nil {
		return nil, err
	}
	if err := s.repo.RemoveLine(ctx, cart.ID, productID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, cart.ID)
}

func (s *Service) Clear(ctx context.Context, owner Owner) error {
	cart, err := s.cartFor(ctx, owner)
	if err != nil {
		return err
	}
	return s.repo.Clear(ctx, cart.ID)
}

// MergeGuest moves a guest cart into the user's cart after sign-in.
func (s *Service) MergeGuest(ctx context.Context, guestSessionID, userID string) (*domain.Cart, error) {
	guestSessionID = strings.TrimSpace(guestSessionID)
	if guestSessionID == "" || userID == "" {
		return nil, domain.Invalid("guestSessionId and userId required")
	}
	return s.repo.MergeGuestIntoUser(ctx, guestSessionID, userID)
}

func lineQuantity(cart *domain.Cart, productID string) int {
	for _, l := range cart.Lines {
		if l.ProductID == productID {
			return l.Quantity
		}
	}
	return 0
}

func (s *Service) cartFor(ctx context.Context, owner Owner) (*domain.Cart, error) {
	if id := strings.TrimSpace(owner.UserID); id != "" {
		return s.repo.GetOrCreateByUser(ctx, id)
	}
	if id := strings.TrimSpace(owner.GuestSessionID); id != "" {
		return s.repo.GetOrCreateByGuest(ctx, id)
	}
	return nil, domain.Invalid("guestSessionId or userId required")
}

func (s *Service) product(ctx context.Context, productID string) (*domain.Product, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, domain.Invalid("product_id required")
	}
	if s.productRepo == nil {
		return nil, errors.New("product repository unavailable")
	}
	p, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("product not found: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	return p, nil
}
