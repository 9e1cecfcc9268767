package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"towerdefense_backend/internal/service"
)

// JWT validates the Authorization bearer token and puts player_id into
// the request context.
func JWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		playerID, err := service.ParseJWT(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("player_id", playerID)
		c.Next()
	}
}
