package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"hotel-ops/apperr"
	"hotel-ops/auth"
	"hotel-ops/models"
	"hotel-ops/utils"
)

const (
	userKey   = "current_user"
	claimsKey = "token_claims"
)

// TokenResolver is satisfied by services.AuthService.
type TokenResolver interface {
	Resolve(ctx context.Context, raw string) (*models.User, *auth.Claims, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// resolved user on the context.
func RequireAuth(resolver TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
			c.Header("WWW-Authenticate", "Bearer")
			utils.JSONError(c, apperr.Unauthorized("not authenticated"))
			return
		}

		user, claims, err := resolver.Resolve(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			c.Header("WWW-Authenticate", "Bearer")
			utils.JSONError(c, err)
			return
		}
		c.Set(userKey, user)
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// CurrentUser returns the user set by RequireAuth, or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

func CurrentClaims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}
