package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"placelog/internal/models"
	"placelog/internal/service"
	"placelog/internal/timeline"
	"placelog/pkg/response"
)

// TimelineHandler handles HTTP requests for day timelines and stays.
type TimelineHandler struct {
	timeline *service.TimelineService
}

// NewTimelineHandler creates a new timeline handler
func NewTimelineHandler(timeline *service.TimelineService) *TimelineHandler {
	return &TimelineHandler{timeline: timeline}
}

// dayParam validates the :day path parameter (YYYY-MM-DD).
func dayParam(c *gin.Context) (string, bool) {
	day := c.Param("day")
	if _, err := time.Parse("2006-01-02", day); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid day, expected YYYY-MM-DD", err)
		return "", false
	}
	return day, true
}

// GetStays handles GET /api/v1/days/:day/stays
func (h *TimelineHandler) GetStays(c *gin.Context) {
	day, ok := dayParam(c)
	if !ok {
		return
	}

	stays, err := h.timeline.Stays(day)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to load stays", err)
		return
	}
	if stays == nil {
		stays = []models.Stay{}
	}
	response.Success(c, stays)
}

// GetTimeline handles GET /api/v1/days/:day/timeline
func (h *TimelineHandler) GetTimeline(c *gin.Context) {
	day, ok := dayParam(c)
	if !ok {
		return
	}

	entries, err := h.timeline.Day(day)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to build timeline", err)
		return
	}
	response.Success(c, entries)
}

// SaveTimeline handles PUT /api/v1/days/:day/timeline. Validation is
// all-or-nothing; a malformed entry rejects the whole batch.
func (h *TimelineHandler) SaveTimeline(c *gin.Context) {
	day, ok := dayParam(c)
	if !ok {
		return
	}

	var req models.SaveTimelineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid timeline payload", err)
		return
	}

	saved, err := h.timeline.Save(day, req.Entries)
	if errors.Is(err, timeline.ErrInvalidEntry) {
		response.Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to save timeline", err)
		return
	}
	response.Success(c, saved)
}
