package payrollsetting

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=payroll_setting_repo.go -destination=mock/payroll_setting_repo_mock.go -package=mock
type Repository interface {
	FindAll(ctx context.Context) ([]PayrollSetting, error)
	Upsert(ctx context.Context, s *PayrollSetting) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindAll(ctx context.Context) ([]PayrollSetting, error) {
	var settings []PayrollSetting
	err := r.db.WithContext(ctx).Order("key ASC").Find(&settings).Error
	return settings, err
}

func (r *repository) Upsert(ctx context.Context, s *PayrollSetting) error {
	s.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "type", "description", "updated_by", "updated_at"}),
		}).
		Create(s).Error
}
