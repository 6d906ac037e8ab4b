package middleware

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware validates the HS256 access token and copies its claims into the
// gin context: user_id, company_id, employee_id and role.
// The token is read from the Authorization header, the access_token cookie,
// or the access_token query parameter (websocket handshakes cannot set headers).
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			tokenString = c.Query("access_token")
		}

		if tokenString == "" {
			abort(c, ErrTokenNotFound)
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})

		if err != nil || !token.Valid {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abort(c, ErrTokenExpired)
				return
			}
			abort(c, ErrInvalidToken)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abort(c, ErrInvalidToken)
			return
		}

		if typ, _ := claims["typ"].(string); typ == "refresh" {
			abort(c, ErrInvalidToken)
			return
		}

		userID, _ := claims["user_id"].(string)
		companyID, _ := claims["company_id"].(string)
		employeeID, _ := claims["employee_id"].(string)
		if userID == "" || companyID == "" || employeeID == "" {
			abort(c, ErrInvalidToken)
			return
		}

		role, _ := claims["role"].(string)

		c.Set("user_id", userID)
		c.Set("employee_id", employeeID)
		c.Set("company_id", companyID)
		c.Set("role", role)

		c.Next()
	}
}

func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := c.GetString("role")
		for _, role := range allowedRoles {
			if userRole == role {
				c.Next()
				return
			}
		}

		abort(c, ErrForbidden)
	}
}
