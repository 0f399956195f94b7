package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/NarakCODE/real-estate-management/internal/apperr"
	"github.com/NarakCODE/real-estate-management/internal/api/middleware"
	"github.com/NarakCODE/real-estate-management/internal/models"
	"github.com/NarakCODE/real-estate-management/internal/services"
	"github.com/NarakCODE/real-estate-management/internal/utils"
)

// DealHandler handles closed-deal records.
type DealHandler struct {
	dealService services.IDealService
}

// NewDealHandler creates a new DealHandler.
func NewDealHandler(dealService services.IDealService) *DealHandler {
	return &DealHandler{dealService: dealService}
}

type dealRequest struct {
	PropertyID  string     `json:"propertyId" binding:"required"`
	ClientID    string     `json:"clientId" binding:"required"`
	DealType    string     `json:"dealType" binding:"required"`
	AgreedPrice float64    `json:"agreedPrice" binding:"required"`
	Currency    string     `json:"currency"`
	ClosedAt    *time.Time `json:"dealClosedAt"`
}

// Create handles POST /deals/create. The caller becomes the deal's agent.
func (h *DealHandler) Create(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		respondError(c, apperr.Unauthorized("authentication required"))
		return
	}

	var req dealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.BadRequest("invalid deal payload"))
		return
	}
	propertyID, err := primitive.ObjectIDFromHex(req.PropertyID)
	if err != nil {
		respondError(c, apperr.BadRequest("invalid propertyId"))
		return
	}
	clientID, err := primitive.ObjectIDFromHex(req.ClientID)
	if err != nil {
		respondError(c, apperr.BadRequest("invalid clientId"))
		return
	}

	deal := &models.Deal{
		PropertyID:  propertyID,
		AgentID:     principal.UserID,
		ClientID:    clientID,
		DealType:    req.DealType,
		AgreedPrice: req.AgreedPrice,
		Currency:    req.Currency,
	}
	if req.ClosedAt != nil {
		deal.ClosedAt = req.ClosedAt.UTC()
	}
	if err := h.dealService.Create(c.Request.Context(), deal); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "deal recorded", deal)
}

// List handles GET /deals, scoped by role.
func (h *DealHandler) List(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		respondError(c, apperr.Unauthorized("authentication required"))
		return
	}
	params := pageParams(c)

	deals, total, err := h.dealService.List(c.Request.Context(),
		services.Viewer{UserID: principal.UserID, RoleName: principal.RoleName}, params)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, "deals", deals, utils.NewPagination(params, total))
}

// Get handles GET /deals/:id.
func (h *DealHandler) Get(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		respondError(c, apperr.Unauthorized("authentication required"))
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	deal, err := h.dealService.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !principal.IsAdmin() && deal.AgentID != principal.UserID && deal.ClientID != principal.UserID {
		respondError(c, apperr.Forbidden("not your deal"))
		return
	}
	respond(c, http.StatusOK, "deal", deal)
}

// Delete handles DELETE /deals/:id/delete.
func (h *DealHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.dealService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "deal deleted", nil)
}
