package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mplazax/meeting-syntesis/internal/users"
)

// UserHandler exposes the authenticated user endpoints.
type UserHandler struct {
	usersSvc *users.Service
}

func NewUserHandler(u *users.Service) *UserHandler {
	return &UserHandler{usersSvc: u}
}

// Register routes under the given (already authenticated) group.
func (h *UserHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/users/me", h.Me)
	rg.GET("/users", h.List)
}

// Me returns the account behind the presented access token.
func (h *UserHandler) Me(c *gin.Context) {
	id := c.GetString("userID")
	u, err := h.usersSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user lookup failed"})
		return
	}
	if u == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, u)
}

// List returns all registered users. Requires a valid session; no further
// authorization is applied.
func (h *UserHandler) List(c *gin.Context) {
	all, err := h.usersSvc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user listing failed"})
		return
	}
	c.JSON(http.StatusOK, all)
}
