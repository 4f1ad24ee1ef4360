package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/membergate/member-portal/internal/logging"
	"github.com/membergate/member-portal/internal/media"
)

// MediaHandler issues presigned URLs for profile-image storage.
type MediaHandler struct {
	media *media.Service
	log   logging.Logger
}

// NewMediaHandler creates a new MediaHandler instance.
func NewMediaHandler(m *media.Service, log logging.Logger) *MediaHandler {
	return &MediaHandler{media: m, log: log}
}

// UploadURLRequest asks for a presigned upload slot.
type UploadURLRequest struct {
	ContentType string `json:"contentType"`
}

// UploadURL godoc
// @Summary Presign an avatar upload
// @Description Returns a short-lived PUT URL; only image/jpeg and image/png are accepted
// @Tags media
// @Accept json
// @Produce json
// @Param request body UploadURLRequest true "Image content type"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /api/v1/media/upload-url [post]
func (h *MediaHandler) UploadURL(c *gin.Context) {
	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	key, url, err := h.media.UploadURL(c.Request.Context(), req.ContentType)
	if err != nil {
		if errors.Is(err, media.ErrUnsupportedType) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Only the following image types are allowed: image/jpeg, image/png.",
				"field": "image",
			})
			return
		}
		h.log.Error(c.Request.Context(), "presign upload failed", "error", err)
		respondError(c, http.StatusInternalServerError, msgSomethingWentWrong)
		return
	}

	c.JSON(http.StatusOK, gin.H{"key": key, "url": url})
}

// ViewURL godoc
// @Summary Presign an avatar view
// @Tags media
// @Produce json
// @Param key query string true "Storage key"
// @Success 200 {object} map[string]string
// @Router /api/v1/media/view-url [get]
func (h *MediaHandler) ViewURL(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "key is required", "field": "key"})
		return
	}

	url, err := h.media.ViewURL(c.Request.Context(), key)
	if err != nil {
		h.log.Error(c.Request.Context(), "presign view failed", "error", err)
		respondError(c, http.StatusInternalServerError, msgSomethingWentWrong)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
