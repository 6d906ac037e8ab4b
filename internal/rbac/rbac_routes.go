package rbac

import (
	"hris-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	group := r.Group("/rbac")
	group.Use(middleware.AuthMiddleware(), middleware.ExtractUserID())
	{
		group.POST("/enforce", handler.Enforce)
		group.GET("/permissions/me", handler.MyPermissions)
	}
}
