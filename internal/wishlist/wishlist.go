// Package wishlist keeps the visitor's saved product ids in local storage.
package wishlist

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"storefront/internal/storage"
)

// Key is the storage key holding the JSON encoded set.
const Key = "wishlist_v1"

type Wishlist struct {
	mu    sync.Mutex
	store storage.Store
}

func New(store storage.Store) *Wishlist {
	return &Wishlist{store: store}
}

// Toggle adds the product when absent and removes it when present. It
// reports whether the product is on the list afterwards.
func (l *Wishlist) Toggle(productID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	set, err := l.load()
	if err != nil {
		return false, err
	}
	_, had := set[productID]
	if had {
		delete(set, productID)
	} else {
		set[productID] = true
	}
	if err := l.save(set); err != nil {
		return had, err
	}
	return !had, nil
}

func (l *Wishlist) Contains(productID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	set, err := l.load()
	if err != nil {
		return false, err
	}
	return set[productID], nil
}

// List returns the saved product ids in sorted order.
func (l *Wishlist) List() ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	set, err := l.load()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(set))
	for id, on := range set {
		if on {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// load treats undecodable data as an empty list.
func (l *Wishlist) load() (map[string]bool, error) {
	set := map[string]bool{}
	if l.store == nil {
		return set, nil
	}
	raw, ok, err := l.store.Get(Key)
	if err != nil {
		return nil, fmt.Errorf("read wishlist: %w", err)
	}
	if !ok {
		return set, nil
	}
	if err := json.Unmarshal([]byte(raw), &set); err != nil || set == nil {
		return map[string]bool{}, nil
	}
	return set, nil
}

func (l *Wishlist) save(set map[string]bool) error {
	if l.store == nil {
		return nil
	}
	raw, err := json.Marshal(set)
	if err != nil {
		return err
	}
	if err := l.store.Set(Key, string(raw)); err != nil {
		return fmt.Errorf("write wishlist: %w", err)
	}
	return nil
}
