package middlewares

import (
	"context"
	"net/http"
	"strings"

	"bitbucket.org/mmdatafocus/distribution_backend/config"
	"bitbucket.org/mmdatafocus/distribution_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthMiddleware validates the Bearer token and loads the caller's identity
// into the request context. Requests without an Authorization header pass
// through unauthenticated; protected routes reject them via RequireAuth.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.Request.Header.Get("Authorization")

		if auth == "" {
			c.Request = c.Request.WithContext(withCorrelationId(c))
			c.Next()
			return
		}

		bearer := "Bearer "
		if !strings.HasPrefix(auth, bearer) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		token := auth[len(bearer):]

		claims, err := utils.JwtValidate(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		// a revoked token is dead even before it expires
		if revoked, err := isTokenRevoked(token); err == nil && revoked {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token revoked"})
			c.Abort()
			return
		}

		ctx := utils.SetTokenInContext(c.Request.Context(), token)
		ctx = utils.SetBusinessIdInContext(ctx, claims.BusinessId)
		ctx = utils.SetUserIdInContext(ctx, claims.ID)
		ctx = utils.SetUserRoleInContext(ctx, claims.Role)
		ctx = utils.SetSuperuserInContext(ctx, claims.Superuser)
		ctx = utils.SetCorrelationIdInContext(ctx, correlationId(c))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireAuth guards route groups that need an authenticated caller.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userId, ok := utils.GetUserIdFromContext(c.Request.Context()); !ok || userId == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func isTokenRevoked(token string) (bool, error) {
	if config.GetRedisDB() == nil {
		return false, nil
	}
	return config.GetRedisDB().SIsMember(context.Background(), "RevokedTokens", token).Result()
}

func correlationId(c *gin.Context) string {
	if cid := c.Request.Header.Get("X-Correlation-Id"); cid != "" {
		return cid
	}
	return uuid.NewString()
}

func withCorrelationId(c *gin.Context) context.Context {
	return utils.SetCorrelationIdInContext(c.Request.Context(), correlationId(c))
}
