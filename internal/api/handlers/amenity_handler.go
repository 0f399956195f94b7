package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NarakCODE/real-estate-management/internal/apperr"
	"github.com/NarakCODE/real-estate-management/internal/models"
	"github.com/NarakCODE/real-estate-management/internal/services"
)

// AmenityHandler handles the amenity catalog.
type AmenityHandler struct {
	amenityService services.IAmenityService
}

// NewAmenityHandler creates a new AmenityHandler.
func NewAmenityHandler(amenityService services.IAmenityService) *AmenityHandler {
	return &AmenityHandler{amenityService: amenityService}
}

type amenityRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Create handles POST /amenities/create.
func (h *AmenityHandler) Create(c *gin.Context) {
	var req amenityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.BadRequest("invalid amenity payload"))
		return
	}

	amenity := &models.Amenity{Name: req.Name, Description: req.Description, Icon: req.Icon}
	if err := h.amenityService.Create(c.Request.Context(), amenity); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "amenity created", amenity)
}

// List handles GET /amenities. Public: the catalog feeds search filters.
func (h *AmenityHandler) List(c *gin.Context) {
	amenities, err := h.amenityService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "amenities", amenities)
}

// Get handles GET /amenities/:id.
func (h *AmenityHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	amenity, err := h.amenityService.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "amenity", amenity)
}

type amenityUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
}

// Update handles PUT /amenities/:id/update.
func (h *AmenityHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req amenityUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.BadRequest("invalid amenity payload"))
		return
	}

	amenity, err := h.amenityService.Update(c.Request.Context(), id, services.AmenityUpdate{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "amenity updated", amenity)
}

// Delete handles DELETE /amenities/:id/delete.
func (h *AmenityHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.amenityService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "amenity deleted", nil)
}
