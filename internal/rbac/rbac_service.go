package rbac

import (
	"sort"
	"sync"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

const (
	RoleEmployee   = "employee"
	RoleSupervisor = "supervisor"
	RoleHR         = "hr"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Enforce(req EnforceRequest) (bool, error)
	Can(role, resource, action string) (bool, error)
	Permissions(role string) (RolePermissionsResponse, error)
}

type service struct {
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
	logger   *zap.Logger
}

func NewService(enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{enforcer: enforcer, logger: l}
}

func (s *service) Enforce(req EnforceRequest) (bool, error) {
	return s.Can(req.Role, req.Resource, req.Action)
}

func (s *service) Can(role, resource, action string) (bool, error) {
	if role == "" {
		return false, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	allowed, err := s.enforcer.Enforce(role, resource, action)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("role", role),
			zap.String("resource", resource),
			zap.String("action", action),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("rbac enforce result",
		zap.String("role", role),
		zap.String("resource", resource),
		zap.String("action", action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}

// Permissions lists every (resource, action) the role holds, inherited ones included,
// so clients can mirror the table for UX.
func (s *service) Permissions(role string) (RolePermissionsResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	perms, err := s.enforcer.GetImplicitPermissionsForUser(role)
	if err != nil {
		return RolePermissionsResponse{}, err
	}

	seen := make(map[PermissionResponse]struct{}, len(perms))
	out := make([]PermissionResponse, 0, len(perms))
	for _, p := range perms {
		if len(p) < 3 {
			continue
		}
		perm := PermissionResponse{Resource: p[1], Action: p[2]}
		if _, ok := seen[perm]; ok {
			continue
		}
		seen[perm] = struct{}{}
		out = append(out, perm)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Resource == out[j].Resource {
			return out[i].Action < out[j].Action
		}
		return out[i].Resource < out[j].Resource
	})

	return RolePermissionsResponse{Role: role, Permissions: out}, nil
}
