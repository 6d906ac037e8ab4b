package employee

import (
	"context"
	"database/sql"

	"hris-payroll/internal/shared/dbtx"
	"hris-payroll/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Employee, error)
	FindAllByCompany(ctx context.Context, companyID string) ([]Employee, error)
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

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Employee, error) {
	var emp Employee
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&emp, "id = ?", id).Error
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return &emp, nil
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]Employee, error) {
	var emps []Employee
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("employee_number ASC").
		Find(&emps).Error
	return emps, err
}
