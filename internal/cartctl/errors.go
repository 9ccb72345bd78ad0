package cartctl

import (
	"errors"
	"net/http"

	"storefront/internal/client"
)

var (
	// ErrBusy is returned when a cart mutation is already in flight. The
	// call is dropped, not queued.
	ErrBusy = errors.New("cart update in progress")
	// ErrLineNotFound is returned for a product that is not in the cart.
	ErrLineNotFound = errors.New("product not in cart")
	// ErrNoIdentity is returned when neither a guest nor a user id is known.
	ErrNoIdentity = errors.New("no cart identity")
)

// Message renders err as text fit for showing to a shopper.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var remote *client.RemoteError
	switch {
	case errors.Is(err, ErrBusy):
		return "Please wait for the current cart update to finish."
	case errors.Is(err, ErrLineNotFound):
		return "That item is no longer in your cart."
	case errors.Is(err, ErrNoIdentity):
		return "Your cart is unavailable because no session could be started."
	case errors.Is(err, client.ErrInvalidQuantity):
		return "Quantity must be at least 1."
	case errors.As(err, &remote):
		if remote.Status == 0 {
			return "Could not reach the store. Check your connection and try again."
		}
		if remote.Status == http.StatusUnauthorized {
			return "Your sign-in has expired. Please sign in again."
		}
		prefix := "Failed to update cart"
		if remote.Op == client.OpFetchCart {
			prefix = "Could not load your cart"
		}
		if remote.Message != "" {
			return prefix + ": " + remote.Message
		}
		return prefix + "."
	default:
		return "Something went wrong with your cart."
	}
}
