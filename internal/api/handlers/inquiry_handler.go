package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/NarakCODE/real-estate-management/internal/apperr"
	"github.com/NarakCODE/real-estate-management/internal/api/middleware"
	"github.com/NarakCODE/real-estate-management/internal/models"
	"github.com/NarakCODE/real-estate-management/internal/services"
	"github.com/NarakCODE/real-estate-management/internal/utils"
)

// InquiryHandler handles property inquiries from users and guests.
type InquiryHandler struct {
	inquiryService services.IInquiryService
}

// NewInquiryHandler creates a new InquiryHandler.
func NewInquiryHandler(inquiryService services.IInquiryService) *InquiryHandler {
	return &InquiryHandler{inquiryService: inquiryService}
}

type inquiryRequest struct {
	PropertyID string `json:"propertyId" binding:"required"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Message    string `json:"message" binding:"required"`
}

// Create handles POST /inquiries/create. Runs behind OptionalAuth: a logged
// in caller becomes the inquiry's user, anyone else is a guest.
func (h *InquiryHandler) Create(c *gin.Context) {
	var req inquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.BadRequest("invalid inquiry payload"))
		return
	}
	propertyID, err := primitive.ObjectIDFromHex(req.PropertyID)
	if err != nil {
		respondError(c, apperr.BadRequest("invalid propertyId"))
		return
	}

	inquiry := &models.Inquiry{
		PropertyID: propertyID,
		Name:       req.Name,
		Email:      req.Email,
		Message:    req.Message,
	}
	if principal, ok := middleware.CurrentPrincipal(c); ok {
		inquiry.UserID = &principal.UserID
	}

	if err := h.inquiryService.Create(c.Request.Context(), inquiry); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "inquiry submitted", inquiry)
}

// List handles GET /inquiries with optional status and propertyId filters.
// Callers see their own inquiries; dashboard staff may pass ?all=true for
// everyone's.
func (h *InquiryHandler) List(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		respondError(c, apperr.Unauthorized("authentication required"))
		return
	}

	filter := services.InquiryFilter{Status: c.Query("status")}
	if c.Query("all") == "true" {
		if !principal.Can(models.PermViewDashboard) {
			respondError(c, apperr.Forbidden("listing all inquiries requires the view_dashboard permission"))
			return
		}
	} else {
		filter.UserID = &principal.UserID
	}
	if raw := c.Query("propertyId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			respondError(c, apperr.BadRequest("invalid propertyId"))
			return
		}
		filter.PropertyID = &id
	}
	params := pageParams(c)

	inquiries, total, err := h.inquiryService.List(c.Request.Context(), filter, params)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, "inquiries", inquiries, utils.NewPagination(params, total))
}

// Get handles GET /inquiries/:id.
func (h *InquiryHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	inquiry, err := h.inquiryService.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "inquiry", inquiry)
}

type inquiryStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus handles PATCH /inquiries/:id/status.
func (h *InquiryHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req inquiryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.BadRequest("invalid status payload"))
		return
	}

	inquiry, err := h.inquiryService.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "inquiry status updated", inquiry)
}

// Delete handles DELETE /inquiries/:id/delete.
func (h *InquiryHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.inquiryService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "inquiry deleted", nil)
}
