package client

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductRef is the product summary embedded in cart lines and returned by
// the catalog endpoints.
type ProductRef struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Stock       int             `json:"stock"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type CartProductLine struct {
	Product  ProductRef `json:"product_id"`
	Quantity int        `json:"quantity"`
}

// Cart is the authoritative server snapshot. Lines keep server order.
type Cart struct {
	ID             string            `json:"_id"`
	UserID         *string           `json:"user_id"`
	GuestSessionID *string           `json:"guestSessionId"`
	Products       []CartProductLine `json:"products"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

type User struct {
	ID        string    `json:"_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Auth is returned by Login and Register.
type Auth struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
	User         User   `json:"user"`
}

type cartRequest struct {
	GuestSessionID *string `json:"guestSessionId"`
	UserID         *string `json:"userId,omitempty"`
	ProductID      string  `json:"product_id,omitempty"`
	Quantity       int     `json:"quantity,omitempty"`
}

type fetchCartRequest struct {
	GuestSessionID *string `json:"guestSessionId"`
	UserID         *string `json:"userId"`
}

type loginRequest struct {
	Email          string  `json:"email"`
	Password       string  `json:"password"`
	GuestSessionID *string `json:"guestSessionId"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// nullable maps the empty string to JSON null.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
