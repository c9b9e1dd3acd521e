package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequireAuth verifies the Authorization bearer token and injects the acting
// user into the request context. Requests without a valid token are rejected
// with 401 before reaching any handler.
func RequireAuth(issuer *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "authentication required",
			})
			return
		}

		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "invalid authorization header",
			})
			return
		}

		claims, err := issuer.Parse(raw)
		if err != nil {
			slog.Warn("rejected invalid access token",
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err,
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "invalid or expired token",
			})
			return
		}

		SetActor(c, &Actor{UserID: claims.UserID, UserName: claims.UserName})
		c.Next()
	}
}
