package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/NarakCODE/real-estate-management/internal/auth"
	"github.com/NarakCODE/real-estate-management/internal/models"
	"github.com/NarakCODE/real-estate-management/internal/services"
)

const (
	// ContextKeyPrincipal holds the authenticated Principal in Gin context.
	ContextKeyPrincipal = "principal"
	// ContextKeyTokenJTI holds the token ID of the presented JWT, for logout.
	ContextKeyTokenJTI = "tokenJTI"
)

// Principal is the immutable per-request identity: who is calling and what
// they may do. Permissions are resolved fresh from the user's current role on
// every request, so a role change takes effect on the next call.
type Principal struct {
	UserID      primitive.ObjectID
	RoleName    string
	permissions map[string]struct{}
}

// Can reports whether the principal holds the named permission.
func (p *Principal) Can(permission string) bool {
	_, ok := p.permissions[permission]
	return ok
}

// IsAdmin reports whether the principal holds the Admin role.
func (p *Principal) IsAdmin() bool {
	return p.RoleName == models.RoleAdmin
}

// IsStaff reports whether the principal holds the Admin or Agent role.
// Staff may act on appointments beyond the ones they requested.
func (p *Principal) IsStaff() bool {
	return p.RoleName == models.RoleAdmin || p.RoleName == models.RoleAgent
}

// NewPrincipal builds a Principal from resolved identity data. Exported for
// handler tests.
func NewPrincipal(userID primitive.ObjectID, roleName string, permissions []string) *Principal {
	set := make(map[string]struct{}, len(permissions))
	for _, perm := range permissions {
		set[perm] = struct{}{}
	}
	return &Principal{UserID: userID, RoleName: roleName, permissions: set}
}

// CurrentPrincipal extracts the Principal set by RequireAuth. The second
// return is false on unauthenticated (or optional-auth guest) requests.
func CurrentPrincipal(c *gin.Context) (*Principal, bool) {
	v, exists := c.Get(ContextKeyPrincipal)
	if !exists {
		return nil, false
	}
	principal, ok := v.(*Principal)
	return principal, ok
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

// resolvePrincipal validates the token, checks the revocation list and loads
// the user's current role and permissions.
func resolvePrincipal(c *gin.Context, token, jwtSecret string, revoker auth.Revoker, users services.IUserService, roles services.IRoleService) (*Principal, string, error) {
	claims, err := auth.ValidateJWT(token, jwtSecret)
	if err != nil {
		return nil, "", err
	}

	revoked, err := revoker.IsRevoked(c.Request.Context(), claims.ID)
	if err != nil {
		return nil, "", err
	}
	if revoked {
		return nil, "", auth.ErrTokenRevoked
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, "", err
	}
	user, err := users.FindByID(c.Request.Context(), userID)
	if err != nil {
		return nil, "", err
	}

	role, err := roles.FindByID(c.Request.Context(), user.RoleID)
	if err != nil {
		return nil, "", err
	}
	permissions, err := roles.PermissionNamesFor(c.Request.Context(), role.ID)
	if err != nil {
		return nil, "", err
	}
	return NewPrincipal(user.ID, role.Name, permissions), claims.ID, nil
}

// RequireAuth rejects requests without a valid, unrevoked bearer token and
// stores the resolved Principal in the context.
func RequireAuth(jwtSecret string, revoker auth.Revoker, users services.IUserService, roles services.IRoleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
			return
		}

		principal, jti, err := resolvePrincipal(c, token, jwtSecret, revoker, users, roles)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid or expired token"})
			return
		}

		c.Set(ContextKeyPrincipal, principal)
		c.Set(ContextKeyTokenJTI, jti)
		c.Next()
	}
}

// OptionalAuth resolves a Principal when a valid token is presented but lets
// anonymous requests through. Used by guest-facing endpoints like inquiries.
func OptionalAuth(jwtSecret string, revoker auth.Revoker, users services.IUserService, roles services.IRoleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		principal, jti, err := resolvePrincipal(c, token, jwtSecret, revoker, users, roles)
		if err != nil {
			// A presented but invalid token is rejected rather than
			// silently downgraded to guest.
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid or expired token"})
			return
		}

		c.Set(ContextKeyPrincipal, principal)
		c.Set(ContextKeyTokenJTI, jti)
		c.Next()
	}
}
