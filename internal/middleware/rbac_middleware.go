package middleware

import (
	"net/http"

	"hris-payroll/internal/shared/apperror"
	"hris-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// RBACService is satisfied by rbac.Service; kept local so middleware does not import rbac.
type RBACService interface {
	Can(role, resource, action string) (bool, error)
}

func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			abort(c, ErrForbidden)
			return
		}

		allowed, err := service.Can(role, resource, action)
		if err != nil {
			response.Abort(c, http.StatusInternalServerError, apperror.CodeInternalError, apperror.ErrInternal.Message, nil)
			return
		}

		if !allowed {
			response.Abort(c, http.StatusForbidden, ErrForbidden.Code, ErrForbidden.Message, gin.H{
				"required": resource + ":" + action,
			})
			return
		}
		c.Next()
	}
}
