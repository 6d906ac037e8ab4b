package salarysetting

import (
	"hris-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
) {
	settings := r.Group("/salary-settings")
	settings.Use(middleware.AuthMiddleware())
	{
		settings.GET("",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, "salary_setting", "read"),
			handler.GetAll,
		)
		settings.GET("/:id",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, "salary_setting", "read"),
			handler.GetById,
		)
		settings.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "salary_setting", "manage"),
			handler.Create,
		)
		settings.POST("/:id/deactivate",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "salary_setting", "manage"),
			handler.Deactivate,
		)
		settings.DELETE("/:id",
			middleware.RateLimitByUser(0.1, 1),
			middleware.RBACAuthorize(rbacService, "salary_setting", "manage"),
			handler.Delete,
		)
	}
}
