package domain

import "time"

type Product struct {
	ID          string
	Name        string
	Description string
	PriceCents  int64
	Image       string
	Stock       int
	CreatedAt   time.Time
}
