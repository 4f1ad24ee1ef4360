package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/membergate/member-portal/internal/middleware"
)

// PageHandler serves the JSON backing of the guarded pages. Rendering
// happens client-side; these endpoints only decide and describe.
type PageHandler struct{}

// NewPageHandler creates a new PageHandler instance.
func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

// Home is the public landing page. Signed-in visitors get their name back.
func (h *PageHandler) Home(c *gin.Context) {
	if claims := middleware.CurrentClaims(c); claims != nil {
		c.JSON(http.StatusOK, gin.H{"page": "home", "name": claims.Name})
		return
	}
	c.JSON(http.StatusOK, gin.H{"page": "home"})
}

// Dashboard godoc
// @Summary Dashboard
// @Description The signed-in member's profile view
// @Tags pages
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /dashboard [get]
func (h *PageHandler) Dashboard(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	c.JSON(http.StatusOK, gin.H{
		"page": "dashboard",
		"user": gin.H{
			"id":     claims.UserID,
			"email":  claims.Email,
			"name":   claims.Name,
			"image":  claims.Image,
			"role":   claims.Role,
			"status": claims.Status,
		},
	})
}
