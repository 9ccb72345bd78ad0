// Package cartctl drives cart interactions: it sends one mutation at a time
// to the server and replaces its view with every response.
package cartctl

import (
	"context"
	"sync"
	"sync/atomic"

	"storefront/internal/cartview"
	"storefront/internal/client"
	"storefront/internal/logging"

	"go.uber.org/zap"
)

// maxQuantity caps increments for products without tracked stock.
const maxQuantity = 99

type remote interface {
	FetchCart(ctx context.Context, guestSessionID, userID string) (*client.Cart, error)
	AddToCart(ctx context.Context, guestSessionID, productID string, quantity int) (*client.Cart, error)
	SetQuantity(ctx context.Context, guestSessionID, productID string, quantity int) (*client.Cart, error)
	RemoveLine(ctx context.Context, guestSessionID, productID string) (*client.Cart, error)
	ClearCart(ctx context.Context, guestSessionID string) error
}

type Controller struct {
	remote  remote
	session Session
	logger  *zap.Logger

	busy atomic.Bool

	mu   sync.RWMutex
	view cartview.View
}

func New(r remote, session Session, logger *zap.Logger) *Controller {
	return &Controller{
		remote:  r,
		session: session,
		logger:  logging.OrNop(logger).Named("cart"),
	}
}

// View returns the current cart view.
func (c *Controller) View() cartview.View {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.view
}

// Busy reports whether a mutation is in flight.
func (c *Controller) Busy() bool {
	return c.busy.Load()
}

func (c *Controller) Session() Session {
	return c.session
}

// Load fetches the cart and replaces the view. It is not gated by the busy
// flag.
func (c *Controller) Load(ctx context.Context) error {
	if !c.session.valid() {
		return ErrNoIdentity
	}
	cart, err := c.remote.FetchCart(ctx, c.session.GuestSessionID, c.session.UserID)
	if err != nil {
		c.logger.Warn("load cart", zap.Error(err))
		return err
	}
	c.replace(cart)
	return nil
}

// Increment raises the line by one, up to the product's stock, or up to 99
// when stock is not tracked. At the ceiling no request is sent.
func (c *Controller) Increment(ctx context.Context, productID string) error {
	return c.mutate(func() error {
		line, ok := c.View().Line(productID)
		if !ok {
			return ErrLineNotFound
		}
		ceiling := line.Stock
		if ceiling <= 0 {
			ceiling = maxQuantity
		}
		next := min(line.Quantity+1, ceiling)
		if next <= line.Quantity {
			return nil
		}
		return c.setQuantity(ctx, productID, next)
	})
}

// Decrement lowers the line by one but never below 1. It never removes the
// line; at 1 no request is sent.
func (c *Controller) Decrement(ctx context.Context, productID string) error {
	return c.mutate(func() error {
		line, ok := c.View().Line(productID)
		if !ok {
			return ErrLineNotFound
		}
		next := max(1, line.Quantity-1)
		if next == line.Quantity {
			return nil
		}
		return c.setQuantity(ctx, productID, next)
	})
}

func (c *Controller) Remove(ctx context.Context, productID string) error {
	return c.mutate(func() error {
		cart, err := c.remote.RemoveLine(ctx, c.session.GuestSessionID, productID)
		if err != nil {
			c.logger.Warn("remove line", zap.String("product_id", productID), zap.Error(err))
			return err
		}
		c.replace(cart)
		return nil
	})
}

// Add puts qty more units of the product in the cart.
func (c *Controller) Add(ctx context.Context, productID string, qty int) error {
	return c.mutate(func() error {
		cart, err := c.remote.AddToCart(ctx, c.session.GuestSessionID, productID, qty)
		if err != nil {
			c.logger.Warn("add to cart", zap.String("product_id", productID), zap.Error(err))
			return err
		}
		c.replace(cart)
		return nil
	})
}

// Clear empties the cart and resets the view.
func (c *Controller) Clear(ctx context.Context) error {
	return c.mutate(func() error {
		if err := c.remote.ClearCart(ctx, c.session.GuestSessionID); err != nil {
			c.logger.Warn("clear cart", zap.Error(err))
			return err
		}
		c.replace(nil)
		return nil
	})
}

// mutate runs fn while holding the busy flag. A call made while another
// mutation is in flight returns ErrBusy immediately.
func (c *Controller) mutate(fn func() error) error {
	if !c.session.valid() {
		return ErrNoIdentity
	}
	if !c.busy.CompareAndSwap(false, true) {
		c.logger.Debug("dropped while busy")
		return ErrBusy
	}
	defer c.busy.Store(false)
	return fn()
}

func (c *Controller) setQuantity(ctx context.Context, productID string, qty int) error {
	cart, err := c.remote.SetQuantity(ctx, c.session.GuestSessionID, productID, qty)
	if err != nil {
		c.logger.Warn("set quantity",
			zap.String("product_id", productID),
			zap.Int("quantity", qty),
			zap.Error(err),
		)
		return err
	}
	c.replace(cart)
	return nil
}

func (c *Controller) replace(cart *client.Cart) {
	v := cartview.FromCart(cart)
	c.mu.Lock()
	c.view = v
	c.mu.Unlock()
}
