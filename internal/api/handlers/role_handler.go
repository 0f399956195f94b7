package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NarakCODE/real-estate-management/internal/services"
)

// RoleHandler exposes the role catalog for the admin UI.
type RoleHandler struct {
	roleService services.IRoleService
}

// NewRoleHandler creates a new RoleHandler.
func NewRoleHandler(roleService services.IRoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

// List handles GET /roles.
func (h *RoleHandler) List(c *gin.Context) {
	roles, err := h.roleService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "roles", roles)
}

// Get handles GET /roles/:id, returning the role with resolved permission
// names.
func (h *RoleHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	role, err := h.roleService.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	permissions, err := h.roleService.PermissionNamesFor(c.Request.Context(), role.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "role", gin.H{"role": role, "permissionNames": permissions})
}
