package httpserver

import (
	"time"

	"storefront/internal/domain"
	productsvc "storefront/internal/service/product"

	"github.com/shopspring/decimal"
)

// money renders a decimal as a bare JSON number.
type money decimal.Decimal

func (m money) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(m).String()), nil
}

type productJSON struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       money     `json:"price"`
	Image       string    `json:"image"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"createdAt"`
}

type cartLineJSON struct {
	Product  productJSON `json:"product_id"`
	Quantity int         `json:"quantity"`
}

type cartJSON struct {
	ID             string         `json:"_id"`
	UserID         *string        `json:"user_id"`
	GuestSessionID *string        `json:"guestSessionId"`
	Products       []cartLineJSON `json:"products"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

type userJSON struct {
	ID        string    `json:"_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type contactJSON struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
}

type authJSON struct {
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	ExpiresIn    int      `json:"expiresIn"`
	User         userJSON `json:"user"`
}

func toProductJSON(p domain.Product) productJSON {
	return productJSON{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       money(productsvc.FromCents(p.PriceCents)),
		Image:       p.Image,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
	}
}

func toProductsJSON(ps []domain.Product) []productJSON {
	out := make([]productJSON, 0, len(ps))
	for _, p := range ps {
		out = append(out, toProductJSON(p))
	}
	return out
}

func toCartJSON(cart domain.Cart) cartJSON {
	lines := make([]cartLineJSON, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		p := l.Product
		if p.ID == "" {
			p.ID = l.ProductID
		}
		lines = append(lines, cartLineJSON{Product: toProductJSON(p), Quantity: l.Quantity})
	}
	return cartJSON{
		ID:             cart.ID,
		UserID:         cart.UserID,
		GuestSessionID: cart.GuestSessionID,
		Products:       lines,
		CreatedAt:      cart.CreatedAt,
		UpdatedAt:      cart.UpdatedAt,
	}
}

func toUserJSON(u domain.User) userJSON {
	return userJSON{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

func toUsersJSON(us []domain.User) []userJSON {
	out := make([]userJSON, 0, len(us))
	for _, u := range us {
		out = append(out, toUserJSON(u))
	}
	return out
}

func toContactJSON(c domain.Contact) contactJSON {
	return contactJSON{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
	}
}
