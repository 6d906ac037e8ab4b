package payrollsetting

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"time"

	payrollsettingerrors "hris-payroll/internal/payrollsetting/errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	SnapshotCacheKey = "payroll_settings:snapshot"
	SnapshotCacheTTL = 5 * time.Minute
)

var keyPattern = regexp.MustCompile(`^[a-z0-9_.]{1,100}$`)

//go:generate mockgen -source=payroll_setting_service.go -destination=mock/payroll_setting_service_mock.go -package=mock
type Service interface {
	List(ctx context.Context) ([]SettingResponse, error)
	Upsert(ctx context.Context, actorID, key string, req UpsertSettingRequest) (SettingResponse, error)
	// Snapshot never fails. A store error yields an empty snapshot so every
	// lookup falls back to its default.
	Snapshot(ctx context.Context) Snapshot
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("payrollsetting.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payrollsetting.service")
	}
	return &service{repo: repo, rdb: rdb, sf: &singleflight.Group{}, logger: l}
}

func (s *service) List(ctx context.Context) ([]SettingResponse, error) {
	settings, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(settings), nil
}

func (s *service) Upsert(ctx context.Context, actorID, key string, req UpsertSettingRequest) (SettingResponse, error) {
	if !keyPattern.MatchString(key) {
		return SettingResponse{}, payrollsettingerrors.ErrInvalidKey
	}
	t := ValueType(req.Type)
	if !t.Valid() {
		return SettingResponse{}, payrollsettingerrors.ErrInvalidType
	}
	if !validValue(t, req.Value) {
		return SettingResponse{}, payrollsettingerrors.ErrValueTypeMismatch
	}

	setting := &PayrollSetting{
		Key:         key,
		Value:       req.Value,
		Type:        t,
		Description: req.Description,
	}
	if actorID != "" {
		setting.UpdatedBy = &actorID
	}
	if err := s.repo.Upsert(ctx, setting); err != nil {
		s.logger.Error("upsert payroll setting failed", zap.String("key", key), zap.Error(err))
		return SettingResponse{}, err
	}

	s.invalidate(ctx)
	s.logger.Info("upsert payroll setting success",
		zap.String("key", key),
		zap.String("type", string(t)),
		zap.String("updated_by", actorID),
	)
	return mapToResponse(*setting), nil
}

func (s *service) invalidate(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, SnapshotCacheKey).Err(); err != nil {
		s.logger.Warn("payroll settings cache invalidation failed", zap.Error(err))
	}
}

func (s *service) Snapshot(ctx context.Context) Snapshot {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, SnapshotCacheKey).Result()
		switch {
		case err == nil:
			var snap Snapshot
			if json.Unmarshal([]byte(cached), &snap) == nil {
				return snap.withLogger(s.logger)
			}
		case !errors.Is(err, redis.Nil):
			s.logger.Warn("payroll settings cache read failed", zap.Error(err))
		}
	}

	v, _, _ := s.sf.Do(SnapshotCacheKey, func() (interface{}, error) {
		settings, err := s.repo.FindAll(ctx)
		if err != nil {
			s.logger.Warn("payroll settings load failed, using defaults", zap.Error(err))
			return NewSnapshot(nil), nil
		}

		snap := NewSnapshot(settings)
		if s.rdb != nil {
			if data, err := json.Marshal(snap); err == nil {
				if err := s.rdb.Set(ctx, SnapshotCacheKey, string(data), SnapshotCacheTTL).Err(); err != nil {
					s.logger.Warn("payroll settings cache write failed", zap.Error(err))
				}
			}
		}
		return snap, nil
	})

	return v.(Snapshot).withLogger(s.logger)
}
