// Package guest hands out the anonymous session id that ties an unsigned
// visitor to a server-side cart.
package guest

import (
	"fmt"
	"sync"

	"storefront/internal/storage"

	"github.com/google/uuid"
)

// Key is the storage key the id is kept under.
const Key = "guestSessionId"

// Provider returns a stable guest id backed by durable storage.
type Provider struct {
	mu    sync.Mutex
	store storage.Store
	gen   func() string
}

// New returns a Provider over store. A nil store models an environment
// without durable storage, where no guest identity is available.
func New(store storage.Store) *Provider {
	return &Provider{store: store, gen: uuid.NewString}
}

// SessionID returns the stored id, generating and persisting one on first
// use. ok is false when no storage is attached.
func (p *Provider) SessionID() (id string, ok bool, err error) {
	if p == nil || p.store == nil {
		return "", false, nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	id, found, err := p.store.Get(Key)
	if err != nil {
		return "", false, fmt.Errorf("read guest id: %w", err)
	}
	if found && id != "" {
		return id, true, nil
	}
	id = p.gen()
	if err := p.store.Set(Key, id); err != nil {
		return "", false, fmt.Errorf("persist guest id: %w", err)
	}
	return id, true, nil
}

// Clear forgets the stored id so the next SessionID call issues a fresh one.
func (p *Provider) Clear() error {
	if p == nil || p.store == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.store.Delete(Key); err != nil {
		return fmt.Errorf("clear guest id: %w", err)
	}
	return nil
}
