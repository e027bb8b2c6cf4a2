package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/developersajeeb/code-stack-server/models"
	"github.com/developersajeeb/code-stack-server/store"
	"github.com/developersajeeb/code-stack-server/utils"
)

// TokenVerifier is the part of utils.TokenService the gate depends on.
type TokenVerifier interface {
	Verify(token string) (*utils.TokenClaims, error)
}

// UserLookup is the part of the store RequireAdmin depends on.
type UserLookup interface {
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
}

// Auth verifies the Authorization: Bearer <token> header and stores the
// token's email in the gin context. Expired and invalid tokens get the same
// 401 response.
func Auth(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, utils.MsgUnauthorized)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || strings.TrimSpace(parts[1]) == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, utils.MsgUnauthorized)
			return
		}

		claims, err := tokens.Verify(strings.TrimSpace(parts[1]))
		if err != nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, utils.MsgUnauthorized)
			return
		}

		c.Set(utils.EmailKey, claims.Email)
		c.Set(utils.ClaimsKey, claims)
		c.Next()
	}
}

// RequireAdmin must run after Auth. The caller's role is read from the store
// on every request so a demotion takes effect immediately.
func RequireAdmin(users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetString(utils.EmailKey)
		if email == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, utils.MsgUnauthorized)
			return
		}

		user, err := users.GetUserByEmail(c.Request.Context(), email)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				utils.ErrorResponse(c, http.StatusForbidden, utils.MsgForbidden)
				return
			}
			utils.Fail(c, err)
			return
		}
		if user.Role != models.RoleAdmin {
			utils.ErrorResponse(c, http.StatusForbidden, utils.MsgForbidden)
			return
		}
		c.Next()
	}
}
