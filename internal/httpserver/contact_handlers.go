package httpserver

import (
	"net/http"

	contactsvc "storefront/internal/service/contact"

	"github.com/gin-gonic/gin"
)

func (h *handlers) listContacts(c *gin.Context) {
	contacts, err := h.deps.ContactSvc.List(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	out := make([]contactJSON, 0, len(contacts))
	for _, ct := range contacts {
		out = append(out, toContactJSON(ct))
	}
	c.JSON(http.StatusOK, gin.H{"contacts": out})
}

func (h *handlers) getContact(c *gin.Context) {
	ct, err := h.deps.ContactSvc.Get(c.Request.Context(), currentUser(c).ID, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contact": toContactJSON(*ct)})
}

func (h *handlers) createContact(c *gin.Context) {
	var in contactsvc.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	ct, err := h.deps.ContactSvc.Create(c.Request.Context(), currentUser(c).ID, in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"contact": toContactJSON(*ct)})
}

func (h *handlers) updateContact(c *gin.Context) {
	var in contactsvc.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	ct, err := h.deps.ContactSvc.Update(c.Request.Context(), currentUser(c).ID, c.Param("id"), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contact": toContactJSON(*ct)})
}

func (h *handlers) deleteContact(c *gin.Context) {
	if err := h.deps.ContactSvc.Delete(c.Request.Context(), currentUser(c).ID, c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "contact deleted"})
}
