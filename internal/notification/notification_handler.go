package notification

import (
	"net/http"

	"hris-payroll/internal/shared/apperror"
	"hris-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	hub     *Hub
	logger  *zap.Logger
}

func NewHandler(service Service, hub *Hub, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("notification.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.handler")
	}
	return &Handler{service: service, hub: hub, logger: l}
}

func getActorID(c *gin.Context) string {
	actorID := c.GetString("employee_id")
	if actorID == "" {
		actorID = c.GetString("user_id_validated")
	}
	return actorID
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("notification request failed",
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) List(c *gin.Context) {
	resp, err := h.service.List(
		c.Request.Context(),
		c.GetString("company_id"),
		getActorID(c),
		c.GetString("role"),
		c.Query("unread") == "true",
	)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) MarkRead(c *gin.Context) {
	err := h.service.MarkRead(
		c.Request.Context(),
		c.GetString("company_id"),
		getActorID(c),
		c.GetString("role"),
		c.Param("id"),
	)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"read": true}, nil)
}

func (h *Handler) Stream(c *gin.Context) {
	channels := ChannelsFor(c.GetString("role"), getActorID(c))
	if len(channels) == 0 {
		h.writeServiceError(c, apperror.ErrForbidden)
		return
	}
	if err := h.hub.Serve(c.Writer, c.Request, c.GetString("company_id"), channels); err != nil {
		h.logger.Warn("ws upgrade failed", zap.Error(err))
	}
}
