package auth

import (
	"hris-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", middleware.RateLimitByIP(0.08, 5), handler.Login)
		auth.POST("/refresh", middleware.RateLimitByIP(0.5, 5), handler.Refresh)
		auth.POST("/logout", handler.Logout)
		auth.GET("/me", middleware.AuthMiddleware(), handler.Me)
	}
}
