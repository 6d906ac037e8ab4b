package credit

import (
	"net/http"
	"strconv"

	crediterrors "hris-payroll/internal/credit/errors"
	"hris-payroll/internal/rbac"
	"hris-payroll/internal/shared/apperror"
	"hris-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("credit.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("credit.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("credit request failed",
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) GetBalance(c *gin.Context) {
	employeeID := c.Param("employee_id")
	if c.GetString("role") == rbac.RoleEmployee && c.GetString("employee_id") != employeeID {
		h.writeServiceError(c, crediterrors.ErrForeignEmployee)
		return
	}

	year := 0
	if v := c.Query("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			h.writeServiceError(c, crediterrors.ErrInvalidYear)
			return
		}
		year = parsed
	}

	resp, err := h.service.Balance(
		c.Request.Context(),
		c.GetString("company_id"),
		employeeID,
		c.DefaultQuery("kind", string(KindLeave)),
		year,
	)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
