package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/membergate/member-portal/internal/logging"
	"github.com/membergate/member-portal/internal/middleware"
	"github.com/membergate/member-portal/internal/service"
)

// MemberHandler handles the members dashboard and status administration.
type MemberHandler struct {
	members service.MemberService
	log     logging.Logger
}

// NewMemberHandler creates a new MemberHandler instance.
func NewMemberHandler(members service.MemberService, log logging.Logger) *MemberHandler {
	return &MemberHandler{members: members, log: log}
}

// UpdateStatusRequest represents a member status change.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// List godoc
// @Summary List members
// @Description All registered members with their approval status
// @Tags members
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /dashboard/members [get]
func (h *MemberHandler) List(c *gin.Context) {
	users, err := h.members.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": users})
}

// UpdateStatus godoc
// @Summary Update member status
// @Description Move a member between PENDING/APPROVED/REJECTED/BLOCKED; super admins only
// @Tags members
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body UpdateStatusRequest true "New status"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/members/{id}/status [patch]
func (h *MemberHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	user, err := h.members.UpdateStatus(
		c.Request.Context(), middleware.CurrentClaims(c), c.Param("id"), req.Status,
	)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Member status updated to " + strings.ToLower(string(user.Status)) + " successfully",
		"status":  string(user.Status),
	})
}
