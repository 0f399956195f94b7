package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/NarakCODE/real-estate-management/internal/apperr"
	"github.com/NarakCODE/real-estate-management/internal/api/middleware"
	"github.com/NarakCODE/real-estate-management/internal/auth"
	"github.com/NarakCODE/real-estate-management/internal/services"
)

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	authService services.IAuthService
	userService services.IUserService
	revoker     auth.Revoker
	jwtSecret   string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService services.IAuthService, userService services.IUserService, revoker auth.Revoker, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		revoker:     revoker,
		jwtSecret:   jwtSecret,
	}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.BadRequest("invalid registration payload"))
		return
	}

	user, err := h.authService.Register(c.Request.Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "account created", user)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.BadRequest("invalid login payload"))
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "logged in", gin.H{"token": token, "user": user})
}

// Logout handles POST /auth/logout. The presented token's ID goes onto the
// revocation list for the remainder of its lifetime.
func (h *AuthHandler) Logout(c *gin.Context) {
	jti := c.GetString(middleware.ContextKeyTokenJTI)
	if jti == "" {
		respondError(c, apperr.Unauthorized("authentication required"))
		return
	}

	// Revoke for the token's remaining lifetime, read back from the token
	// itself so the denylist entry expires with it.
	ttl := time.Duration(0)
	if header := c.GetHeader("Authorization"); len(header) > 7 {
		if claims, err := auth.ValidateJWT(header[7:], h.jwtSecret); err == nil && claims.ExpiresAt != nil {
			ttl = time.Until(claims.ExpiresAt.Time)
		}
	}
	if err := h.revoker.Revoke(c.Request.Context(), jti, ttl); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "logged out", nil)
}

// Me handles GET /auth/me, returning the caller's profile with role name.
func (h *AuthHandler) Me(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		respondError(c, apperr.Unauthorized("authentication required"))
		return
	}

	user, err := h.userService.FindByIDWithRole(c.Request.Context(), principal.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "current user", user)
}
