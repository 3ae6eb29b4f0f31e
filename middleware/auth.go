package middleware

import (
	"strings"

	"notevault/services"
	"notevault/utils"

	"github.com/gin-gonic/gin"
)

// UsernameKey is the context key holding the authenticated caller.
const UsernameKey = "username"

// AuthMiddleware validates the bearer token and stores the resolved
// username in the request context. Every failure mode answers 401
// without detail that would help probing.
func AuthMiddleware(tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.TrackAuthAttempt("failure", "token")
			utils.Unauthorized(c, "Missing or invalid token")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		username, status := tokens.ValidateToken(tokenString)
		if status != services.TokenValid {
			utils.TrackAuthAttempt("failure", "token")
			switch status {
			case services.TokenExpired:
				utils.Unauthorized(c, "Token has expired")
			default:
				utils.Unauthorized(c, "Invalid token")
			}
			c.Abort()
			return
		}

		utils.TrackAuthAttempt("success", "token")
		c.Set(UsernameKey, username)
		c.Next()
	}
}
