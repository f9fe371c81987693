package middleware

import (
	"github.com/gin-gonic/gin"
	appauth "github.com/yigit/campusdesk/internal/app/auth"
	"github.com/yigit/campusdesk/internal/app/models"
	"github.com/yigit/campusdesk/internal/pkg/apperrors"
	"github.com/yigit/campusdesk/internal/pkg/auth"
)

// Context keys set by JWTAuth
const (
	ContextAccount = "account"
	ContextClaims  = "claims"
)

// CookieName is the session cookie used by browser clients of role
func CookieName(role models.Role) string {
	return string(role) + "-token"
}

// AuthMiddleware authenticates requests through the access-control gate
type AuthMiddleware struct {
	gate *appauth.Gate
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(gate *appauth.Gate) *AuthMiddleware {
	return &AuthMiddleware{gate: gate}
}

// tokenFrom reads the bearer token, falling back to the session cookies of roles
func tokenFrom(c *gin.Context, roles []models.Role) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if token, err := auth.ExtractBearerToken(header); err == nil {
			return token
		}
	}
	for _, role := range roles {
		if token, err := c.Cookie(CookieName(role)); err == nil && token != "" {
			return token
		}
	}
	return ""
}

// JWTAuth resolves the caller's account from the Authorization header or
// from the session cookie of one of roles.
func (m *AuthMiddleware) JWTAuth(roles ...models.Role) gin.HandlerFunc {
	if len(roles) == 0 {
		roles = []models.Role{models.RoleAdmin, models.RoleInstitution, models.RoleStudent}
	}

	return func(c *gin.Context) {
		token := tokenFrom(c, roles)
		if token == "" {
			HandleAPIError(c, apperrors.ErrTokenInvalid)
			return
		}

		account, claims, err := m.gate.Authenticate(c.Request.Context(), token)
		if err != nil {
			HandleAPIError(c, err)
			return
		}

		c.Set(ContextAccount, account)
		c.Set(ContextClaims, claims)
		c.Next()
	}
}

// RoleRequired rejects callers whose account has none of roles
func (m *AuthMiddleware) RoleRequired(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := appauth.RequireRole(CurrentAccount(c), roles...); err != nil {
			HandleAPIError(c, err)
			return
		}
		c.Next()
	}
}

// CurrentAccount returns the account stored by JWTAuth, or nil
func CurrentAccount(c *gin.Context) *models.Account {
	v, ok := c.Get(ContextAccount)
	if !ok {
		return nil
	}
	account, _ := v.(*models.Account)
	return account
}

// CurrentClaims returns the token claims stored by JWTAuth, or nil
func CurrentClaims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}
