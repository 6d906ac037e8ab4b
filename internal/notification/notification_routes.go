package notification

import (
	"hris-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	notifications := r.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware(), middleware.ExtractUserID())
	{
		notifications.GET("", middleware.RBACAuthorize(rbacService, "notification", "read"), handler.List)
		notifications.POST("/:id/read", middleware.RBACAuthorize(rbacService, "notification", "read"), handler.MarkRead)
	}

	ws := r.Group("/ws")
	ws.Use(middleware.AuthMiddleware(), middleware.ExtractUserID())
	{
		ws.GET("/notifications", middleware.RBACAuthorize(rbacService, "notification", "read"), handler.Stream)
	}
}
