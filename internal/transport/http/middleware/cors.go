package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowedSet := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowedSet[origin] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		// If no origin header (like from curl or same-origin), allow the request
		if origin != "" {
			if !allowedSet[origin] {
				log.Warn().Str("component", "cors").Str("origin", origin).Strs("allowed", allowedOrigins).Msg("origin not in allowed list")
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Origin not allowed"})
				return
			}
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}

		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Header("Access-Control-Allow-Credentials", "true")

		// Handle preflight OPTIONS requests
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	}
}
