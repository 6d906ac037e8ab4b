package middleware

import (
	"github.com/gin-gonic/gin"
)

// ExtractUserID re-publishes user_id as user_id_validated once it is known to be a non-empty string.
func ExtractUserID() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			abort(c, ErrTokenNotFound)
			return
		}

		userIDStr, ok := userID.(string)
		if !ok || userIDStr == "" {
			abort(c, ErrInvalidToken)
			return
		}

		c.Set("user_id_validated", userIDStr)
		c.Next()
	}
}
