package credit

import (
	"hris-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	credits := r.Group("/credits")
	credits.Use(middleware.AuthMiddleware())
	{
		credits.GET("/:employee_id", middleware.RBACAuthorize(rbacService, "credit", "read"), handler.GetBalance)
	}
}
