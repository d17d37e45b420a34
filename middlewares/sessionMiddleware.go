package middlewares

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/projects_backend/config"
	"github.com/mmdatafocus/projects_backend/utils"
)

// SessionMiddleware resolves the `token` header into the session user.
// Tokens are JWTs that must also still exist in redis (Token:<token>), so
// logout and password changes revoke them immediately.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Request.Header.Get("token")
		if token == "" {
			c.Next()
			return
		}
		username, exists, err := config.GetRedisValue("Token:" + token)
		if err != nil || !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		validated, err := utils.JwtValidate(token)
		if err != nil || !validated.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		claims, ok := validated.Claims.(*utils.JwtCustomClaim)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		ctx := context.WithValue(c.Request.Context(), utils.ContextKeyToken, token)
		ctx = context.WithValue(ctx, utils.ContextKeyUsername, username)
		ctx = context.WithValue(ctx, utils.ContextKeyUserId, claims.ID)
		ctx = context.WithValue(ctx, utils.ContextKeyUserRole, claims.Role)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
