package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"placelog/internal/models"
	"placelog/internal/service"
	"placelog/pkg/response"
)

// FixHandler handles HTTP requests for raw fix ingestion.
type FixHandler struct {
	detection *service.DetectionService
}

// NewFixHandler creates a new fix handler
func NewFixHandler(detection *service.DetectionService) *FixHandler {
	return &FixHandler{detection: detection}
}

// Ingest handles POST /api/v1/fixes. Fixes are sorted by capture time and
// run through the detection pipeline one at a time.
func (h *FixHandler) Ingest(c *gin.Context) {
	var req models.IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid fix payload", err)
		return
	}

	confirmed, err := h.detection.ProcessBatch(c.Request.Context(), req.Fixes)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to process fixes", err)
		return
	}
	if confirmed == nil {
		confirmed = []models.Stay{}
	}

	response.Success(c, gin.H{
		"accepted":  len(req.Fixes),
		"confirmed": confirmed,
	})
}

// State handles GET /api/v1/detector/state.
func (h *FixHandler) State(c *gin.Context) {
	response.Success(c, h.detection.State())
}
