package attendance

import (
	"context"
	"database/sql"
	"time"

	"hris-payroll/internal/shared/dbtx"
	"hris-payroll/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *Attendance) error
	// Upsert replaces the row for (employee, date) if one exists.
	Upsert(ctx context.Context, a *Attendance) error
	FindByEmployeeAndDate(ctx context.Context, companyID, employeeID string, date time.Time) (*Attendance, error)
	FindAllByCompany(ctx context.Context, companyID string) ([]Attendance, error)
	FindAllByCompanyAndEmployee(ctx context.Context, companyID, employeeID string) ([]Attendance, error)
	// FindPresentInPeriod returns Present rows with attendance_date in [start, end].
	// Late and Absent rows are excluded.
	FindPresentInPeriod(ctx context.Context, companyID, employeeID string, start, end time.Time) ([]Attendance, error)
	Update(ctx context.Context, a *Attendance) error
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

func (r *repository) Create(ctx context.Context, a *Attendance) error {
	return r.db.WithContext(ctx).Omit("Employee").Create(a).Error
}

func (r *repository) Upsert(ctx context.Context, a *Attendance) error {
	return r.db.WithContext(ctx).
		Omit("Employee").
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "employee_id"}, {Name: "attendance_date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"time_in", "time_out", "break_time", "status", "session", "source", "notes", "updated_at",
			}),
		}).
		Create(a).Error
}

func (r *repository) FindByEmployeeAndDate(ctx context.Context, companyID, employeeID string, date time.Time) (*Attendance, error) {
	var a Attendance
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("attendance_date = ?", date.Format(dateLayout)).
		Take(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]Attendance, error) {
	var rows []Attendance
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Scopes(tenant.Scope(companyID)).
		Order("attendance_date DESC, time_in DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAllByCompanyAndEmployee(ctx context.Context, companyID, employeeID string) ([]Attendance, error) {
	var rows []Attendance
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Order("attendance_date DESC, time_in DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindPresentInPeriod(ctx context.Context, companyID, employeeID string, start, end time.Time) ([]Attendance, error) {
	var rows []Attendance
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("status = ?", StatusPresent).
		Where("attendance_date BETWEEN ? AND ?", start.Format(dateLayout), end.Format(dateLayout)).
		Order("attendance_date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, a *Attendance) error {
	return r.db.WithContext(ctx).Omit("Employee").Save(a).Error
}
