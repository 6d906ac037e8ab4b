package payroll

import (
	"time"

	"hris-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

const calculateReplayTTL = 24 * time.Hour

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	rdb *redis.Client,
) {
	payrolls := r.Group("/payrolls")
	payrolls.Use(middleware.AuthMiddleware(), middleware.ExtractUserID())
	{
		payrolls.GET("", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetAll)
		payrolls.GET("/me", middleware.RBACAuthorize(rbacService, "payroll", "read_own"), handler.GetMine)
		payrolls.GET("/:id", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetById)
		payrolls.GET("/:id/payslip", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.Payslip)
		payrolls.POST(
			"/calculate",
			middleware.RateLimitByUser(rate.Limit(2), 5),
			middleware.RBACAuthorize(rbacService, "payroll", "calculate"),
			middleware.Idempotency(rdb, calculateReplayTTL),
			handler.Calculate,
		)
		payrolls.DELETE("/:id", middleware.RBACAuthorize(rbacService, "payroll", "delete"), handler.Delete)
	}
}
