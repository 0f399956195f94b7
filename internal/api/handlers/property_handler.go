package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/NarakCODE/real-estate-management/internal/apperr"
	"github.com/NarakCODE/real-estate-management/internal/api/middleware"
	"github.com/NarakCODE/real-estate-management/internal/models"
	"github.com/NarakCODE/real-estate-management/internal/services"
	"github.com/NarakCODE/real-estate-management/internal/storage"
	"github.com/NarakCODE/real-estate-management/internal/utils"
)

// PropertyHandler handles listing CRUD and search.
type PropertyHandler struct {
	propertyService services.IPropertyService
	uploader        storage.Uploader
	imageQueue      services.ImageEnqueuer
}

// NewPropertyHandler creates a new PropertyHandler.
func NewPropertyHandler(propertyService services.IPropertyService, uploader storage.Uploader, imageQueue services.ImageEnqueuer) *PropertyHandler {
	return &PropertyHandler{propertyService: propertyService, uploader: uploader, imageQueue: imageQueue}
}

type propertyRequest struct {
	Title        string          `json:"title" binding:"required"`
	Description  string          `json:"description"`
	PropertyType string          `json:"propertyType" binding:"required"`
	Status       string          `json:"status" binding:"required"`
	Availability string          `json:"availability"`
	Price        float64         `json:"price" binding:"required"`
	Currency     string          `json:"currency"`
	Location     models.Location `json:"location"`
	Features     models.Features `json:"features"`
	Images       []string        `json:"images"`
	VideoTourURL string          `json:"videoTourUrl"`
	IsFeatured   bool            `json:"isFeatured"`
}

// Create handles POST /properties/create.
func (h *PropertyHandler) Create(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		respondError(c, apperr.Unauthorized("authentication required"))
		return
	}

	var req propertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.BadRequest("invalid property payload"))
		return
	}

	property := &models.Property{
		Title:        req.Title,
		Description:  req.Description,
		PropertyType: req.PropertyType,
		Status:       req.Status,
		Availability: req.Availability,
		Price:        req.Price,
		Currency:     req.Currency,
		Location:     req.Location,
		Features:     req.Features,
		Images:       req.Images,
		VideoTourURL: req.VideoTourURL,
		IsFeatured:   req.IsFeatured,
		AgentID:      principal.UserID,
	}
	if err := h.propertyService.Create(c.Request.Context(), property); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "property created", property)
}

// List handles GET /properties and GET /properties/search.
func (h *PropertyHandler) List(c *gin.Context) {
	title := c.Query("propertyName")
	if title == "" {
		title = c.Query("title")
	}
	filter := services.PropertyFilter{
		Title:        title,
		Status:       c.Query("status"),
		PropertyType: c.Query("propertyType"),
		City:         c.Query("city"),
		State:        c.Query("state"),
		MinPrice:     c.Query("minPrice"),
		MaxPrice:     c.Query("maxPrice"),
		Bedrooms:     c.Query("bedrooms"),
		Bathrooms:    c.Query("bathrooms"),
		Featured:     c.Query("featured"),
	}
	params := pageParams(c)

	properties, total, err := h.propertyService.List(c.Request.Context(), filter, params)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, "properties", properties, utils.NewPagination(params, total))
}

// ListMine handles GET /properties/user, the caller's own listings.
func (h *PropertyHandler) ListMine(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		respondError(c, apperr.Unauthorized("authentication required"))
		return
	}
	params := pageParams(c)

	properties, total, err := h.propertyService.ListByAgent(c.Request.Context(), principal.UserID, params)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, "properties", properties, utils.NewPagination(params, total))
}

// Stats handles GET /properties/stats. Figures are scoped to the caller's
// own listings; Admins may pass ?global=true for the whole inventory.
func (h *PropertyHandler) Stats(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		respondError(c, apperr.Unauthorized("authentication required"))
		return
	}

	agentID := &principal.UserID
	if c.Query("global") == "true" {
		if !principal.IsAdmin() {
			respondError(c, apperr.Forbidden("global stats require the Admin role"))
			return
		}
		agentID = nil
	}

	stats, err := h.propertyService.Stats(c.Request.Context(), agentID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "property stats", stats)
}

// Get handles GET /properties/:id. Reading counts a view.
func (h *PropertyHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	property, err := h.propertyService.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "property", property)
}

// GetBySlug handles GET /properties/slug/:slug.
func (h *PropertyHandler) GetBySlug(c *gin.Context) {
	property, err := h.propertyService.FindBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "property", property)
}

// requireOwnership rejects callers who neither own the listing nor hold the
// Admin role.
func (h *PropertyHandler) requireOwnership(c *gin.Context, id primitive.ObjectID) (*middleware.Principal, bool) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		respondError(c, apperr.Unauthorized("authentication required"))
		return nil, false
	}
	if principal.IsAdmin() {
		return principal, true
	}

	owner, err := h.propertyService.OwnerOf(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	if owner != principal.UserID {
		respondError(c, apperr.Forbidden("you may only modify your own listings"))
		return nil, false
	}
	return principal, true
}

type propertyUpdateRequest struct {
	Title        *string          `json:"title"`
	Description  *string          `json:"description"`
	PropertyType *string          `json:"propertyType"`
	Status       *string          `json:"status"`
	Availability *string          `json:"availability"`
	Price        *float64         `json:"price"`
	Currency     *string          `json:"currency"`
	Location     *models.Location `json:"location"`
	Features     *models.Features `json:"features"`
	Images       *[]string        `json:"images"`
	VideoTourURL *string          `json:"videoTourUrl"`
	IsFeatured   *bool            `json:"isFeatured"`
}

// Update handles PUT /properties/:id/update.
func (h *PropertyHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if _, ok := h.requireOwnership(c, id); !ok {
		return
	}

	var req propertyUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.BadRequest("invalid property payload"))
		return
	}

	property, err := h.propertyService.Update(c.Request.Context(), id, services.PropertyUpdate{
		Title:        req.Title,
		Description:  req.Description,
		PropertyType: req.PropertyType,
		Status:       req.Status,
		Availability: req.Availability,
		Price:        req.Price,
		Currency:     req.Currency,
		Location:     req.Location,
		Features:     req.Features,
		Images:       req.Images,
		VideoTourURL: req.VideoTourURL,
		IsFeatured:   req.IsFeatured,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "property updated", property)
}

type availabilityRequest struct {
	Availability string `json:"availability" binding:"required"`
}

// UpdateAvailability handles PATCH /properties/:id/status.
func (h *PropertyHandler) UpdateAvailability(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if _, ok := h.requireOwnership(c, id); !ok {
		return
	}

	var req availabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.BadRequest("invalid availability payload"))
		return
	}

	property, err := h.propertyService.UpdateAvailability(c.Request.Context(), id, req.Availability)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "availability updated", property)
}

// Delete handles DELETE /properties/:id/delete.
func (h *PropertyHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if _, ok := h.requireOwnership(c, id); !ok {
		return
	}

	if err := h.propertyService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "property deleted", nil)
}

type uploadURLRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

// ImageUploadURL handles POST /properties/:id/images/upload-url, returning a
// presigned PUT URL so clients upload straight to object storage.
func (h *PropertyHandler) ImageUploadURL(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if _, ok := h.requireOwnership(c, id); !ok {
		return
	}

	var req uploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.BadRequest("invalid upload payload"))
		return
	}

	upload, err := h.uploader.PresignPut(c.Request.Context(), id.Hex(), req.FileName, req.ContentType)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "upload url", upload)
}

type processImageRequest struct {
	Key string `json:"key" binding:"required"`
}

// ProcessImage handles POST /properties/:id/images/process. Called after the
// client finishes its presigned upload; the resize and attach happen in the
// background worker.
func (h *PropertyHandler) ProcessImage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if _, ok := h.requireOwnership(c, id); !ok {
		return
	}

	var req processImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.BadRequest("invalid image payload"))
		return
	}

	if err := h.imageQueue.EnqueueImageProcess(c.Request.Context(), id.Hex(), req.Key); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusAccepted, "image queued for processing", nil)
}
