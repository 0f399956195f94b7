package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NarakCODE/real-estate-management/internal/apperr"
	"github.com/NarakCODE/real-estate-management/internal/api/middleware"
	"github.com/NarakCODE/real-estate-management/internal/services"
	"github.com/NarakCODE/real-estate-management/internal/utils"
)

// FavoriteHandler handles saved-property bookmarks.
type FavoriteHandler struct {
	favoriteService services.IFavoriteService
}

// NewFavoriteHandler creates a new FavoriteHandler.
func NewFavoriteHandler(favoriteService services.IFavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService}
}

// Add handles POST /favorites/:propertyId.
func (h *FavoriteHandler) Add(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		respondError(c, apperr.Unauthorized("authentication required"))
		return
	}
	propertyID, ok := pathID(c, "propertyId")
	if !ok {
		return
	}

	favorite, err := h.favoriteService.Add(c.Request.Context(), principal.UserID, propertyID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "property saved", favorite)
}

// List handles GET /favorites.
func (h *FavoriteHandler) List(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		respondError(c, apperr.Unauthorized("authentication required"))
		return
	}
	params := pageParams(c)

	favorites, total, err := h.favoriteService.List(c.Request.Context(), principal.UserID, params)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, "favorites", favorites, utils.NewPagination(params, total))
}

// Remove handles DELETE /favorites/:propertyId. Idempotent.
func (h *FavoriteHandler) Remove(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		respondError(c, apperr.Unauthorized("authentication required"))
		return
	}
	propertyID, ok := pathID(c, "propertyId")
	if !ok {
		return
	}

	if err := h.favoriteService.Remove(c.Request.Context(), principal.UserID, propertyID); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "property unsaved", nil)
}
