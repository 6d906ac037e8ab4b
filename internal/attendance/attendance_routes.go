package attendance

import (
	"hris-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

// readAllFlag marks callers whose role may list every employee's attendance.
func readAllFlag(rbacService middleware.RBACService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := rbacService.Can(c.GetString("role"), "attendance", "read_all")
		c.Set("has_read_all", err == nil && ok)
		c.Next()
	}
}

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService middleware.RBACService) {
	attendances := r.Group("/attendances")
	attendances.Use(middleware.AuthMiddleware(), middleware.ExtractUserID())
	{
		attendances.GET("", middleware.RBACAuthorize(rbacService, "attendance", "read"), readAllFlag(rbacService), h.GetAll)
		attendances.POST("/clock-in", middleware.RBACAuthorize(rbacService, "attendance", "create"), h.ClockIn)
		attendances.POST("/clock-out", middleware.RBACAuthorize(rbacService, "attendance", "create"), h.ClockOut)
		attendances.PUT("/records", middleware.RBACAuthorize(rbacService, "attendance", "manage"), h.Record)
	}
}
