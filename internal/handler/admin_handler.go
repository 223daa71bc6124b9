package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"placelog/internal/service"
	"placelog/pkg/response"
)

// AdminHandler handles destructive maintenance operations.
type AdminHandler struct {
	detection *service.DetectionService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(detection *service.DetectionService) *AdminHandler {
	return &AdminHandler{detection: detection}
}

// ClearAll handles DELETE /api/v1/data: erases every day's stays and
// timelines plus the detector state.
func (h *AdminHandler) ClearAll(c *gin.Context) {
	if err := h.detection.Reset(); err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to clear data", err)
		return
	}
	response.Success(c, gin.H{"cleared": true})
}
