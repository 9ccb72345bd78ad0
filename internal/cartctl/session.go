package cartctl

import (
	"storefront/internal/guest"
)

// Session is the identity a Controller acts for. Either field may be empty.
type Session struct {
	GuestSessionID string
	UserID         string
}

// NewSession reads the guest id once from p. A provider without storage
// yields an empty guest id.
func NewSession(p *guest.Provider, userID string) (Session, error) {
	id, _, err := p.SessionID()
	if err != nil {
		return Session{}, err
	}
	return Session{GuestSessionID: id, UserID: userID}, nil
}

func (s Session) valid() bool {
	return s.GuestSessionID != "" || s.UserID != ""
}
