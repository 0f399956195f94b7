package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NarakCODE/real-estate-management/internal/services"
)

// StatsHandler serves the admin dashboard aggregates.
type StatsHandler struct {
	statsService services.IStatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService services.IStatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// Dashboard handles GET /dashboard/stats.
func (h *StatsHandler) Dashboard(c *gin.Context) {
	stats, err := h.statsService.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "dashboard stats", stats)
}
