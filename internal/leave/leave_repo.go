package leave

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

// ListFilter narrows a company listing to what the caller may see.
// Nil fields are not applied.
type ListFilter struct {
	EmployeeID   *string
	SupervisorID *string
	HRID         *string
}

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *Leave) error
	FindAllByCompany(ctx context.Context, companyID string, filter ListFilter) ([]Leave, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Leave, error)
	FindForUpdate(ctx context.Context, companyID, id string) (*Leave, error)
	// UpdateDecision writes the approval columns of l only if the row still
	// carries prevVersion. It returns the number of rows written.
	UpdateDecision(ctx context.Context, l *Leave, prevVersion int) (int64, error)
	Delete(ctx context.Context, companyID, id string) error
	HasOverlappingPeriod(ctx context.Context, companyID, employeeID string, from, to time.Time) (bool, error)
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

func (r *repository) Create(ctx context.Context, l *Leave) error {
	return r.db.WithContext(ctx).Omit("Employee").Create(l).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, filter ListFilter) ([]Leave, error) {
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

	var leaves []Leave
	err := q.Order("from_date DESC").Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Leave, error) {
	var l Leave
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Scopes(tenant.Scope(companyID)).
		First(&l, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) FindForUpdate(ctx context.Context, companyID, id string) (*Leave, error) {
	var l Leave
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		Take(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) UpdateDecision(ctx context.Context, l *Leave, prevVersion int) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Leave{}).
		Where("id = ? AND version = ?", l.ID, prevVersion).
		Updates(decisionColumns(l.Record))
	return res.RowsAffected, res.Error
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&Leave{}, "id = ?", id).Error
}

func (r *repository) HasOverlappingPeriod(ctx context.Context, companyID, employeeID string, from, to time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Leave{}).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("status <> ?", approval.StatusRejected).
		Where("NOT (to_date < ? OR from_date > ?)", from, to).
		Count(&count).Error
	return count > 0, err
}

func decisionColumns(rec approval.Record) map[string]any {
	return map[string]any{
		"status":                 rec.Status,
		"supervisor_status":      rec.SupervisorStatus,
		"supervisor_approved_by": rec.SupervisorApprovedBy,
		"supervisor_approved_at": rec.SupervisorApprovedAt,
		"supervisor_comments":    rec.SupervisorComments,
		"hr_status":              rec.HRStatus,
		"hr_approved_by":         rec.HRApprovedBy,
		"hr_approved_at":         rec.HRApprovedAt,
		"hr_comments":            rec.HRComments,
		"credits_applied":        rec.CreditsApplied,
		"version":                rec.Version,
	}
}
