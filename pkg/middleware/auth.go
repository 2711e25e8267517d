package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mplazax/meeting-syntesis/internal/config"
	"github.com/mplazax/meeting-syntesis/internal/sessions"
	"github.com/mplazax/meeting-syntesis/internal/tokens"
)

// AuthMiddleware returns a Gin middleware that verifies Bearer access tokens
// issued by this service and rejects blacklisted ones. On success it stores
// the claims map under "claims" and the subject under "userID".
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing Authorization header"})
			return
		}
		// Expect 'Bearer <token>'
		var token string
		if n, _ := fmt.Sscanf(auth, "Bearer %s", &token); n != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid Authorization header"})
			return
		}

		if black, err := sessions.IsAccessTokenBlacklisted(c.Request.Context(), token); err == nil && black {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token revoked"})
			return
		}

		claims, err := tokens.ParseAccessToken(cfg, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token", "details": err.Error()})
			return
		}

		c.Set("claims", map[string]interface{}(claims))
		if sub, ok := claims["sub"].(string); ok {
			c.Set("userID", sub)
		}
		c.Next()
	}
}
