package absence

import (
	"net/http"
	"strconv"

	"hris-payroll/internal/approval"
	absenceerrors "hris-payroll/internal/absence/errors"
	"hris-payroll/internal/shared/apperror"
	"hris-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("absence.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("absence.handler")
	}
	return &Handler{service: service, logger: l}
}

func getActorID(c *gin.Context) string {
	actorID := c.GetString("employee_id")
	if actorID == "" {
		actorID = c.GetString("user_id_validated")
	}
	return actorID
}

func getActor(c *gin.Context) (approval.Actor, error) {
	id, err := uuid.Parse(getActorID(c))
	if err != nil {
		return approval.Actor{}, absenceerrors.ErrInvalidActorID
	}
	return approval.Actor{ID: id, Role: c.GetString("role")}, nil
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("absence request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Create(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	var req CreateAbsenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create absence validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.FromBinding(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), c.GetString("company_id"), actor, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.GetAll(c.Request.Context(), c.GetString("company_id"), actor)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	items, meta := response.Paginate(resp, page, pageSize)
	response.Success(c, http.StatusOK, items, &meta)
}

func (h *Handler) GetById(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.GetString("company_id"), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) SupervisorDecision(c *gin.Context) {
	h.decide(c, approval.StageSupervisor)
}

func (h *Handler) HRDecision(c *gin.Context) {
	h.decide(c, approval.StageHR)
}

func (h *Handler) decide(c *gin.Context, stage approval.Stage) {
	actor, err := getActor(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http absence decision validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.FromBinding(err))
		return
	}

	resp, err := h.service.Decide(c.Request.Context(), c.GetString("company_id"), actor, c.Param("id"), stage, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), c.GetString("company_id"), actor, c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}
