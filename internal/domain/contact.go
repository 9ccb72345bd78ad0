package domain

import "time"

// Contact is an address book entry owned by a user.
type Contact struct {
	ID        string
	UserID    string
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
}
