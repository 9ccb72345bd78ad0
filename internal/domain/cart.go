package domain

import "time"

// Cart is owned by exactly one of UserID or GuestSessionID.
type Cart struct {
	ID             string
	UserID         *string
	GuestSessionID *string
	Lines          []CartLine
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type CartLine struct {
	ProductID string
	Quantity  int
	Product   Product
	AddedAt   time.Time
}
