package httpserver

import (
	"net/http"
	"strings"

	cartsvc "storefront/internal/service/cart"

	"github.com/gin-gonic/gin"
)

// cartRequest is shared by every cart route. A null or missing id means the
// caller has no identity of that kind.
type cartRequest struct {
	GuestSessionID *string `json:"guestSessionId"`
	UserID         *string `json:"userId"`
	ProductID      string  `json:"product_id"`
	Quantity       *int    `json:"quantity"`
}

func (h *handlers) getCart(c *gin.Context) {
	_, owner, ok := h.bindCart(c)
	if !ok {
		return
	}
	cart, err := h.deps.CartSvc.Get(c.Request.Context(), owner)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartJSON(*cart))
}

func (h *handlers) addToCart(c *gin.Context) {
	req, owner, ok := h.bindCart(c)
	if !ok {
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	cart, err := h.deps.CartSvc.Add(c.Request.Context(), owner, req.ProductID, qty)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartJSON(*cart))
}

func (h *handlers) updateCart(c *gin.Context) {
	req, owner, ok := h.bindCart(c)
	if !ok {
		return
	}
	if req.Quantity == nil {
		badRequest(c, "quantity required")
		return
	}
	cart, err := h.deps.CartSvc.SetQuantity(c.Request.Context(), owner, req.ProductID, *req.Quantity)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartJSON(*cart))
}

func (h *handlers) removeFromCart(c *gin.Context) {
	req, owner, ok := h.bindCart(c)
	if !ok {
		return
	}
	cart, err := h.deps.CartSvc.Remove(c.Request.Context(), owner, req.ProductID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartJSON(*cart))
}

func (h *handlers) clearCart(c *gin.Context) {
	_, owner, ok := h.bindCart(c)
	if !ok {
		return
	}
	if err := h.deps.CartSvc.Clear(c.Request.Context(), owner); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// bindCart decodes the body and resolves whose cart it addresses. A bearer
// token decides the user; a body userId must agree with it and is refused
// without one.
func (h *handlers) bindCart(c *gin.Context) (cartRequest, cartsvc.Owner, bool) {
	var req cartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return req, cartsvc.Owner{}, false
	}
	owner := cartsvc.Owner{GuestSessionID: deref(req.GuestSessionID)}
	claimed := deref(req.UserID)
	if u := currentUser(c); u != nil {
		if claimed != "" && claimed != u.ID {
			c.JSON(http.StatusForbidden, gin.H{"error": "userId does not match the signed-in user"})
			return req, owner, false
		}
		owner.UserID = u.ID
		return req, owner, true
	}
	if claimed != "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required for userId"})
		return req, owner, false
	}
	return req, owner, true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
