package leave

import (
	"hris-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
) {
	mutations := middleware.RateLimitByUser(rate.Limit(5), 10)

	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware(), middleware.ExtractUserID())
	{
		leaves.GET("", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetAll)
		leaves.GET("/:id", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetById)
		leaves.POST("", mutations, middleware.RBACAuthorize(rbacService, "leave", "create"), handler.Create)
		leaves.POST("/:id/supervisor-decision", mutations, middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.SupervisorDecision)
		leaves.POST("/:id/hr-decision", mutations, middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.HRDecision)
		leaves.DELETE("/:id", middleware.RBACAuthorize(rbacService, "leave", "delete"), handler.Delete)
	}
}
