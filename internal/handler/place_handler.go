package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"placelog/internal/models"
	"placelog/internal/places"
	"placelog/pkg/response"
)

// PlaceHandler handles HTTP requests for free-text place search.
type PlaceHandler struct {
	places *places.Service
}

// NewPlaceHandler creates a new place handler
func NewPlaceHandler(svc *places.Service) *PlaceHandler {
	return &PlaceHandler{places: svc}
}

// Search handles GET /api/v1/places/search?q=
func (h *PlaceHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		response.Error(c, http.StatusBadRequest, "Missing query parameter q", nil)
		return
	}

	suggestions := h.places.Search(c.Request.Context(), query)
	if suggestions == nil {
		suggestions = []models.PlaceSuggestion{}
	}
	response.Success(c, suggestions)
}

// Details handles GET /api/v1/places/:id
func (h *PlaceHandler) Details(c *gin.Context) {
	details := h.places.Details(c.Request.Context(), c.Param("id"))
	if details == nil {
		response.Error(c, http.StatusNotFound, "Place not found", nil)
		return
	}
	response.Success(c, details)
}
