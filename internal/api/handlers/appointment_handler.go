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

// AppointmentHandler handles viewing appointments.
type AppointmentHandler struct {
	appointmentService services.IAppointmentService
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(appointmentService services.IAppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointmentService: appointmentService}
}

type appointmentRequest struct {
	PropertyID  string    `json:"propertyId" binding:"required"`
	RequestedAt time.Time `json:"requestedDateTime" binding:"required"`
	Notes       string    `json:"notes"`
}

// Create handles POST /appointments/create.
func (h *AppointmentHandler) Create(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		respondError(c, apperr.Unauthorized("authentication required"))
		return
	}

	var req appointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.BadRequest("invalid appointment payload"))
		return
	}
	propertyID, err := primitive.ObjectIDFromHex(req.PropertyID)
	if err != nil {
		respondError(c, apperr.BadRequest("invalid propertyId"))
		return
	}

	appointment := &models.Appointment{
		PropertyID:  propertyID,
		UserID:      principal.UserID,
		RequestedAt: req.RequestedAt.UTC(),
		Notes:       req.Notes,
	}
	if err := h.appointmentService.Create(c.Request.Context(), appointment); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "appointment requested", appointment)
}

// List handles GET /appointments, scoped by the caller's role.
func (h *AppointmentHandler) List(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		respondError(c, apperr.Unauthorized("authentication required"))
		return
	}
	params := pageParams(c)

	appointments, total, err := h.appointmentService.List(c.Request.Context(),
		services.Viewer{UserID: principal.UserID, RoleName: principal.RoleName}, params)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, "appointments", appointments, utils.NewPagination(params, total))
}

// Get handles GET /appointments/:id.
func (h *AppointmentHandler) Get(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		respondError(c, apperr.Unauthorized("authentication required"))
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	appointment, err := h.appointmentService.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	// Only parties to the appointment (or admins) may read it.
	if !principal.IsStaff() && appointment.UserID != principal.UserID && appointment.AgentID != principal.UserID {
		respondError(c, apperr.Forbidden("not your appointment"))
		return
	}
	respond(c, http.StatusOK, "appointment", appointment)
}

type appointmentUpdateRequest struct {
	RequestedAt *time.Time `json:"requestedDateTime"`
	Notes       *string    `json:"notes"`
}

// Update handles PUT /appointments/:id/update.
func (h *AppointmentHandler) Update(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		respondError(c, apperr.Unauthorized("authentication required"))
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req appointmentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.BadRequest("invalid appointment payload"))
		return
	}

	appointment, err := h.appointmentService.Update(c.Request.Context(), id, principal.UserID, principal.IsStaff(),
		services.AppointmentUpdate{RequestedAt: req.RequestedAt, Notes: req.Notes})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "appointment updated", appointment)
}

type appointmentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus handles PATCH /appointments/:id/status.
func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req appointmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.BadRequest("invalid status payload"))
		return
	}

	appointment, err := h.appointmentService.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "appointment status updated", appointment)
}

// Delete handles DELETE /appointments/:id/delete.
func (h *AppointmentHandler) Delete(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		respondError(c, apperr.Unauthorized("authentication required"))
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.appointmentService.Delete(c.Request.Context(), id, principal.UserID, principal.IsStaff()); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "appointment deleted", nil)
}
