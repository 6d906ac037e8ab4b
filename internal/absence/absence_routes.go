package absence

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

	absences := r.Group("/absences")
	absences.Use(middleware.AuthMiddleware(), middleware.ExtractUserID())
	{
		absences.GET("", middleware.RBACAuthorize(rbacService, "absence", "read"), handler.GetAll)
		absences.GET("/:id", middleware.RBACAuthorize(rbacService, "absence", "read"), handler.GetById)
		absences.POST("", mutations, middleware.RBACAuthorize(rbacService, "absence", "create"), handler.Create)
		absences.POST("/:id/supervisor-decision", mutations, middleware.RBACAuthorize(rbacService, "absence", "approve"), handler.SupervisorDecision)
		absences.POST("/:id/hr-decision", mutations, middleware.RBACAuthorize(rbacService, "absence", "approve"), handler.HRDecision)
		absences.DELETE("/:id", middleware.RBACAuthorize(rbacService, "absence", "delete"), handler.Delete)
	}
}
