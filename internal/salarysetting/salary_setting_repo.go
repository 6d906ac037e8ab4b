package salarysetting

import (
	"context"
	"database/sql"

	"hris-payroll/internal/shared/dbtx"
	"hris-payroll/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=salary_setting_repo.go -destination=mock/salary_setting_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, s *SalarySetting) error
	FindAllByEmployee(ctx context.Context, companyID, employeeID string) ([]SalarySetting, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*SalarySetting, error)
	// FindCurrent returns the active row with the latest effective date.
	FindCurrent(ctx context.Context, companyID, employeeID string) (*SalarySetting, error)
	Deactivate(ctx context.Context, companyID, id string) (int64, error)
	Delete(ctx context.Context, companyID, id string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: dbtx.Bind(r.db, tx)}
}

func (r *repository) Create(ctx context.Context, s *SalarySetting) error {
	return r.db.WithContext(ctx).Omit("Employee").Create(s).Error
}

func (r *repository) FindAllByEmployee(ctx context.Context, companyID, employeeID string) ([]SalarySetting, error) {
	var settings []SalarySetting
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Order("effective_date DESC").
		Order("created_at DESC").
		Find(&settings).Error
	return settings, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*SalarySetting, error) {
	var s SalarySetting
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		Take(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) FindCurrent(ctx context.Context, companyID, employeeID string) (*SalarySetting, error) {
	var s SalarySetting
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ? AND is_active = ?", employeeID, true).
		Order("effective_date DESC").
		Take(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) Deactivate(ctx context.Context, companyID, id string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&SalarySetting{}).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		Update("is_active", false)
	return res.RowsAffected, res.Error
}

func (r *repository) Delete(ctx context.Context, companyID, id string) (int64, error) {
	res := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&SalarySetting{}, "id = ?", id)
	return res.RowsAffected, res.Error
}
