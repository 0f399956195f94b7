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

// ReviewHandler handles reviews of properties and agents.
type ReviewHandler struct {
	reviewService services.IReviewService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviewService services.IReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

type reviewRequest struct {
	PropertyID string `json:"propertyId"`
	AgentID    string `json:"agentId"`
	Rating     int    `json:"rating" binding:"required"`
	Comment    string `json:"comment" binding:"required"`
}

// Create handles POST /reviews/create.
func (h *ReviewHandler) Create(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		respondError(c, apperr.Unauthorized("authentication required"))
		return
	}

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.BadRequest("invalid review payload"))
		return
	}

	review := &models.Review{
		AuthorID: principal.UserID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	}
	if req.PropertyID != "" {
		id, err := primitive.ObjectIDFromHex(req.PropertyID)
		if err != nil {
			respondError(c, apperr.BadRequest("invalid propertyId"))
			return
		}
		review.PropertyID = &id
	}
	if req.AgentID != "" {
		id, err := primitive.ObjectIDFromHex(req.AgentID)
		if err != nil {
			respondError(c, apperr.BadRequest("invalid agentId"))
			return
		}
		review.AgentID = &id
	}

	if err := h.reviewService.Create(c.Request.Context(), review); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "review created", review)
}

// List handles GET /reviews with optional propertyId / agentId filters.
func (h *ReviewHandler) List(c *gin.Context) {
	var filter services.ReviewFilter
	if raw := c.Query("propertyId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			respondError(c, apperr.BadRequest("invalid propertyId"))
			return
		}
		filter.PropertyID = &id
	}
	if raw := c.Query("agentId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			respondError(c, apperr.BadRequest("invalid agentId"))
			return
		}
		filter.AgentID = &id
	}
	params := pageParams(c)

	reviews, total, err := h.reviewService.List(c.Request.Context(), filter, params)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, "reviews", reviews, utils.NewPagination(params, total))
}

// Get handles GET /reviews/:id.
func (h *ReviewHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	review, err := h.reviewService.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "review", review)
}

type reviewUpdateRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

// Update handles PUT /reviews/:id/update. Author only.
func (h *ReviewHandler) Update(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		respondError(c, apperr.Unauthorized("authentication required"))
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req reviewUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.BadRequest("invalid review payload"))
		return
	}

	review, err := h.reviewService.Update(c.Request.Context(), id, principal.UserID,
		services.ReviewUpdate{Rating: req.Rating, Comment: req.Comment})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "review updated", review)
}

// Delete handles DELETE /reviews/:id/delete. Author or admin.
func (h *ReviewHandler) Delete(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		respondError(c, apperr.Unauthorized("authentication required"))
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.reviewService.Delete(c.Request.Context(), id, principal.UserID, principal.IsAdmin()); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "review deleted", nil)
}
