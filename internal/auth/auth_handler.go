package auth

import (
	"net/http"
	"strings"

	autherrors "hris-payroll/internal/auth/errors"
	"hris-payroll/internal/shared/apperror"
	"hris-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	accessCookie  = "access_token"
	refreshCookie = "refresh_token"
)

type Handler struct {
	service      Service
	secureCookie bool
	logger       *zap.Logger
}

func NewHandler(service Service, secureCookie bool, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("auth.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.handler")
	}
	return &Handler{service: service, secureCookie: secureCookie, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("auth request failed",
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// isWebClient reports whether tokens should also travel as cookies.
func isWebClient(c *gin.Context) bool {
	return strings.EqualFold(c.GetHeader("X-Client-Type"), "web")
}

func (h *Handler) setCookies(c *gin.Context, pair TokenPair) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(accessCookie, pair.AccessToken, int(AccessTokenTTL.Seconds()), "/", "", h.secureCookie, true)
	c.SetCookie(refreshCookie, pair.RefreshToken, int(RefreshTokenTTL.Seconds()), "/", "", h.secureCookie, true)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.FromBinding(err))
		return
	}

	pair, user, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if isWebClient(c) {
		h.setCookies(c, pair)
	}

	response.Success(c, http.StatusOK, LoginResponse{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil)
}

func (h *Handler) Refresh(c *gin.Context) {
	var token string
	if isWebClient(c) {
		cookie, err := c.Cookie(refreshCookie)
		if err != nil || cookie == "" {
			h.writeServiceError(c, autherrors.ErrMissingRefreshToken)
			return
		}
		token = cookie
	} else {
		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.writeServiceError(c, apperror.FromBinding(err))
			return
		}
		token = req.RefreshToken
	}

	pair, user, err := h.service.Refresh(c.Request.Context(), token)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if isWebClient(c) {
		h.setCookies(c, pair)
	}

	response.Success(c, http.StatusOK, LoginResponse{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil)
}

func (h *Handler) Me(c *gin.Context) {
	user, err := h.service.Me(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, user, nil)
}

func (h *Handler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(accessCookie, "", -1, "/", "", h.secureCookie, true)
	c.SetCookie(refreshCookie, "", -1, "/", "", h.secureCookie, true)
	response.Success(c, http.StatusOK, "logged out", nil)
}
