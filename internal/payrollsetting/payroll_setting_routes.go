package payrollsetting

import (
	"hris-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
) {
	settings := r.Group("/payroll-settings")
	settings.Use(middleware.AuthMiddleware())
	{
		settings.GET("", middleware.RBACAuthorize(rbacService, "payroll_setting", "read"), handler.List)
		settings.PUT("/:key",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "payroll_setting", "manage"),
			handler.Upsert,
		)
	}
}
