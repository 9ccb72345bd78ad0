package httpserver

import (
	"net/http"

	usersvc "storefront/internal/service/user"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email          string  `json:"email" binding:"required"`
	Password       string  `json:"password" binding:"required"`
	GuestSessionID *string `json:"guestSessionId"`
}

func (h *handlers) register(c *gin.Context) {
	var in usersvc.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	sess, err := h.deps.UserSvc.Register(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.authResponse(sess))
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email and password required")
		return
	}
	sess, err := h.deps.UserSvc.Login(c.Request.Context(), req.Email, req.Password, deref(req.GuestSessionID))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.authResponse(sess))
}

func (h *handlers) logout(c *gin.Context) {
	token, _ := bearerToken(c.GetHeader("Authorization"))
	if err := h.deps.UserSvc.Logout(c.Request.Context(), token); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": toUserJSON(*currentUser(c))})
}

func (h *handlers) listUsers(c *gin.Context) {
	users, err := h.deps.UserSvc.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": toUsersJSON(users)})
}

func (h *handlers) getUser(c *gin.Context) {
	u, err := h.deps.UserSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": toUserJSON(*u)})
}

func (h *handlers) createUser(c *gin.Context) {
	var in usersvc.AdminInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	u, err := h.deps.UserSvc.Create(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": toUserJSON(*u)})
}

func (h *handlers) updateUser(c *gin.Context) {
	var in usersvc.AdminInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	u, err := h.deps.UserSvc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": toUserJSON(*u)})
}

func (h *handlers) deleteUser(c *gin.Context) {
	if self := currentUser(c); self != nil && self.ID == c.Param("id") {
		badRequest(c, "cannot delete the signed-in account")
		return
	}
	if err := h.deps.UserSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}

func (h *handlers) authResponse(sess *usersvc.Session) authJSON {
	return authJSON{
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		ExpiresIn:    h.deps.UserSvc.AccessTTLSeconds(),
		User:         toUserJSON(*sess.User),
	}
}
