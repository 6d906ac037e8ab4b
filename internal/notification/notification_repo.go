package notification

import (
	"context"
	"time"

	"hris-payroll/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=notification_repo.go -destination=mock/notification_repo_mock.go -package=mock
type Repository interface {
	CreateBatch(ctx context.Context, items []Notification) error
	ListByChannels(ctx context.Context, companyID string, channels []string, unreadOnly bool, limit int) ([]Notification, error)
	MarkRead(ctx context.Context, companyID, id string, channels []string, at time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateBatch(ctx context.Context, items []Notification) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&items).Error
}

func (r *repository) ListByChannels(ctx context.Context, companyID string, channels []string, unreadOnly bool, limit int) ([]Notification, error) {
	var items []Notification
	if len(channels) == 0 {
		return items, nil
	}

	q := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("channel IN ?", channels)
	if unreadOnly {
		q = q.Where("read_at IS NULL")
	}
	err := q.Order("occurred_at DESC").Limit(limit).Find(&items).Error
	return items, err
}

func (r *repository) MarkRead(ctx context.Context, companyID, id string, channels []string, at time.Time) (int64, error) {
	if len(channels) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Model(&Notification{}).
		Scopes(tenant.Scope(companyID)).
		Where("id = ? AND channel IN ?", id, channels).
		Update("read_at", at)
	return res.RowsAffected, res.Error
}
