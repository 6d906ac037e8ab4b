package absence

import (
	"context"
	"database/sql"
	"time"

	"hris-payroll/internal/approval"
	"hris-payroll/internal/shared/dbtx"
	"hris-payroll/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ListFilter struct {
	EmployeeID   *string
	SupervisorID *string
	HRID         *string
}

//go:generate mockgen -source=absence_repo.go -destination=mock/absence_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *Absence) error
	FindAllByCompany(ctx context.Context, companyID string, filter ListFilter) ([]Absence, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Absence, error)
	FindForUpdate(ctx context.Context, companyID, id string) (*Absence, error)
	UpdateDecision(ctx context.Context, a *Absence, prevVersion int) (int64, error)
	Delete(ctx context.Context, companyID, id string) error
	HasOverlappingPeriod(ctx context.Context, companyID, employeeID string, from, to time.Time) (bool, error)
	// FindApprovedOverlapping returns approved absences that start in, end in
	// or span [start, end].
	FindApprovedOverlapping(ctx context.Context, companyID, employeeID string, start, end time.Time) ([]Absence, error)
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

func (r *repository) Create(ctx context.Context, a *Absence) error {
	return r.db.WithContext(ctx).Omit("Employee").Create(a).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, filter ListFilter) ([]Absence, error) {
	q := r.db.WithContext(ctx).
		Preload("Employee").
		Scopes(tenant.Scope(companyID))
	if filter.EmployeeID != nil {
		q = q.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.SupervisorID != nil {
		q = q.Where("supervisor_id = ?", *filter.SupervisorID)
	}
	if filter.HRID != nil {
		q = q.Where("hr_id = ?", *filter.HRID)
	}

	var absences []Absence
	err := q.Order("from_date DESC").Find(&absences).Error
	return absences, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Absence, error) {
	var a Absence
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Scopes(tenant.Scope(companyID)).
		First(&a, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) FindForUpdate(ctx context.Context, companyID, id string) (*Absence, error) {
	var a Absence
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		Take(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) UpdateDecision(ctx context.Context, a *Absence, prevVersion int) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Absence{}).
		Where("id = ? AND version = ?", a.ID, prevVersion).
		Updates(map[string]any{
			"status":                 a.Status,
			"supervisor_status":      a.SupervisorStatus,
			"supervisor_approved_by": a.SupervisorApprovedBy,
			"supervisor_approved_at": a.SupervisorApprovedAt,
			"supervisor_comments":    a.SupervisorComments,
			"hr_status":              a.HRStatus,
			"hr_approved_by":         a.HRApprovedBy,
			"hr_approved_at":         a.HRApprovedAt,
			"hr_comments":            a.HRComments,
			"credits_applied":        a.CreditsApplied,
			"version":                a.Version,
		})
	return res.RowsAffected, res.Error
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&Absence{}, "id = ?", id).Error
}

func (r *repository) HasOverlappingPeriod(ctx context.Context, companyID, employeeID string, from, to time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Absence{}).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("status <> ?", approval.StatusRejected).
		Where("NOT (to_date < ? OR from_date > ?)", from, to).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FindApprovedOverlapping(ctx context.Context, companyID, employeeID string, start, end time.Time) ([]Absence, error) {
	var absences []Absence
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ? AND status = ?", employeeID, approval.StatusApproved).
		Where(
			"((from_date BETWEEN ? AND ?) OR (to_date BETWEEN ? AND ?) OR (from_date <= ? AND to_date >= ?))",
			start, end, start, end, start, end,
		).
		Order("from_date ASC").
		Find(&absences).Error
	return absences, err
}
