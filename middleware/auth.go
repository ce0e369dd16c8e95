package middleware

import (
	"context"
	"errors"
	"strings"

	"claims-management-api/apperror"
	"claims-management-api/auth"
	"claims-management-api/logger"
	"claims-management-api/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const identityKey = "identity"

// Guard verifies bearer tokens and checks roles against the current user record.
type Guard struct {
	tokens *auth.TokenIssuer
	db     *gorm.DB
	log    logger.Logger
}

func NewGuard(tokens *auth.TokenIssuer, db *gorm.DB) *Guard {
	return &Guard{tokens: tokens, db: db, log: logger.New("Guard")}
}

// Authenticate verifies an Authorization header value and returns the identity the token
// asserts. The user record is not consulted.
func (g *Guard) Authenticate(header string) (*auth.Identity, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return nil, apperror.ErrMissingCredential
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	token = strings.TrimSpace(token)
	if !ok || token == "" {
		return nil, apperror.ErrMissingCredential
	}

	claims, err := g.tokens.Parse(token)
	if err != nil {
		g.log.Function("Authenticate").Debug("token rejected", "expired", auth.IsExpired(err), "error", err)
		return nil, apperror.ErrInvalidCredential
	}
	return &auth.Identity{ID: claims.UserID, Role: claims.Role}, nil
}

// RequireRole checks role against the user's stored record, not the token, so a role
// change takes effect without reissuing tokens.
func (g *Guard) RequireRole(ctx context.Context, identity *auth.Identity, role models.UserRole) error {
	if identity == nil {
		return apperror.ErrForbidden
	}

	var user models.User
	if err := g.db.WithContext(ctx).Select("id", "role").First(&user, "id = ?", identity.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrForbidden
		}
		return g.log.Function("RequireRole").Err("failed to load user role", err, "userID", identity.ID)
	}
	if user.Role != role {
		return apperror.ErrForbidden
	}
	return nil
}

// AuthRequired validates the JWT and injects the identity into context
func (g *Guard) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := g.Authenticate(c.GetHeader("Authorization"))
		if err != nil {
			apperror.Abort(c, err)
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// RoleRequired enforces that the caller currently holds role. Must follow AuthRequired.
func (g *Guard) RoleRequired(role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := g.RequireRole(c.Request.Context(), GetIdentity(c), role); err != nil {
			apperror.Abort(c, err)
			return
		}
		c.Next()
	}
}

// AccountRequired rejects callers whose user record no longer exists. Must follow
// AuthRequired.
func (g *Guard) AccountRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := GetIdentity(c)
		if identity == nil {
			apperror.Abort(c, apperror.ErrMissingCredential)
			return
		}

		var count int64
		if err := g.db.WithContext(c.Request.Context()).
			Model(&models.User{}).
			Where("id = ?", identity.ID).
			Count(&count).Error; err != nil {
			apperror.Abort(c, g.log.Function("AccountRequired").Err("failed to load account", err, "userID", identity.ID))
			return
		}
		if count == 0 {
			apperror.Abort(c, apperror.ErrAccountNotFound)
			return
		}
		c.Next()
	}
}

// GetIdentity extracts the caller identity from context, or nil outside AuthRequired.
func GetIdentity(c *gin.Context) *auth.Identity {
	val, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, _ := val.(*auth.Identity)
	return identity
}

// GetUserID extracts caller user ID from context
func GetUserID(c *gin.Context) string {
	if identity := GetIdentity(c); identity != nil {
		return identity.ID
	}
	return ""
}
