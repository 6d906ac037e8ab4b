package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	autherrors "hris-payroll/internal/auth/errors"
	"hris-payroll/internal/rbac"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour

	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, email, password string) (TokenPair, AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (TokenPair, AuthResponse, error)
	Me(ctx context.Context, userID string) (AuthResponse, error)
}

type service struct {
	repo   Repository
	secret []byte
	now    func() time.Time
	logger *zap.Logger
}

func NewService(repo Repository, secret string, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{repo: repo, secret: []byte(secret), now: time.Now, logger: l}
}

func (s *service) Login(ctx context.Context, email, password string) (TokenPair, AuthResponse, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("find user by email failed", zap.Error(err))
		}
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (TokenPair, AuthResponse, error) {
	claims, err := s.parse(refreshToken)
	if err != nil {
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}
	if typ, _ := claims["typ"].(string); typ != tokenTypeRefresh {
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	userIDStr, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil || !user.IsActive {
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	// Role and employee are re-read so a demotion takes effect on refresh.
	return s.issue(user)
}

func (s *service) Me(ctx context.Context, userID string) (AuthResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return AuthResponse{}, autherrors.ErrInvalidUserID
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AuthResponse{}, autherrors.ErrUserNotFound
		}
		return AuthResponse{}, err
	}

	user.Role = normalizeRole(user.Role)
	return mapToResponse(*user), nil
}

func (s *service) issue(user *User) (TokenPair, AuthResponse, error) {
	user.Role = normalizeRole(user.Role)

	access, err := s.sign(user, tokenTypeAccess, AccessTokenTTL)
	if err != nil {
		s.logger.Error("sign access token failed", zap.Error(err))
		return TokenPair{}, AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}
	refresh, err := s.sign(user, tokenTypeRefresh, RefreshTokenTTL)
	if err != nil {
		s.logger.Error("sign refresh token failed", zap.Error(err))
		return TokenPair{}, AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, mapToResponse(*user), nil
}

func (s *service) sign(user *User, typ string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":     user.ID.String(),
		"company_id":  user.CompanyID.String(),
		"employee_id": user.EmployeeID.String(),
		"role":        user.Role,
		"typ":         typ,
		"exp":         s.now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *service) parse(raw string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is not valid")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("unexpected claims type")
	}
	return claims, nil
}

func normalizeRole(role string) string {
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		return rbac.RoleEmployee
	}
	return role
}
