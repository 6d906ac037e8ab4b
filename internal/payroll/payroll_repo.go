package payroll

import (
	"context"
	"database/sql"

	"hris-payroll/internal/shared/dbtx"
	"hris-payroll/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	// FindOrCreateForUpdate inserts p unless its (employee, payroll_date, cutoff_period)
	// already exists, then returns the stored row locked FOR UPDATE.
	FindOrCreateForUpdate(ctx context.Context, p *Payroll) (*Payroll, error)
	UpdateTotals(ctx context.Context, p *Payroll) error
	// ReplaceLines deletes every child row of p and writes the ones it carries.
	ReplaceLines(ctx context.Context, p *Payroll) error
	FindAllByCompany(ctx context.Context, companyID, employeeID string) ([]Payroll, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Payroll, error)
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

func (r *repository) FindOrCreateForUpdate(ctx context.Context, p *Payroll) (*Payroll, error) {
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "employee_id"}, {Name: "payroll_date"}, {Name: "cutoff_period"}},
			DoNothing: true,
		}).
		Create(p).Error
	if err != nil {
		return nil, err
	}

	var stored Payroll
	err = r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("employee_id = ? AND payroll_date = ? AND cutoff_period = ?",
			p.EmployeeID, p.PayrollDate.Format(dateLayout), p.CutoffPeriod).
		Take(&stored).Error
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *repository) UpdateTotals(ctx context.Context, p *Payroll) error {
	return r.db.WithContext(ctx).
		Model(&Payroll{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"period_start":               p.PeriodStart,
			"period_end":                 p.PeriodEnd,
			"days_worked":                p.DaysWorked,
			"gross_pay":                  p.GrossPay,
			"attendance_deduction_total": p.AttendanceDeductionTotal,
			"net_basic":                  p.NetBasic,
			"total_deductions":           p.TotalDeductions,
			"net_pay":                    p.NetPay,
			"calculated_by":              p.CalculatedBy,
			"calculated_at":              p.CalculatedAt,
		}).Error
}

func (r *repository) deleteLines(db *gorm.DB, payrollID any) error {
	for _, model := range []any{&PayrollEarning{}, &PayrollDeduction{}, &PayrollDetail{}, &PayrollAttendanceDeduction{}} {
		if err := db.Where("payroll_id = ?", payrollID).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) ReplaceLines(ctx context.Context, p *Payroll) error {
	db := r.db.WithContext(ctx)
	if err := r.deleteLines(db, p.ID); err != nil {
		return err
	}

	if len(p.Earnings) > 0 {
		if err := db.Create(&p.Earnings).Error; err != nil {
			return err
		}
	}
	if len(p.Deductions) > 0 {
		if err := db.Create(&p.Deductions).Error; err != nil {
			return err
		}
	}
	if len(p.Details) > 0 {
		if err := db.Create(&p.Details).Error; err != nil {
			return err
		}
	}
	if p.AttendanceDeduction != nil {
		if err := db.Create(p.AttendanceDeduction).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID, employeeID string) ([]Payroll, error) {
	q := r.db.WithContext(ctx).
		Preload("Employee").
		Scopes(tenant.Scope(companyID))
	if employeeID != "" {
		q = q.Where("employee_id = ?", employeeID)
	}

	var payrolls []Payroll
	err := q.Order("payroll_date DESC, cutoff_period DESC").Find(&payrolls).Error
	return payrolls, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Payroll, error) {
	var p Payroll
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("Earnings").
		Preload("Deductions").
		Preload("Details").
		Preload("AttendanceDeduction").
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		Take(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) Delete(ctx context.Context, companyID, id string) (int64, error) {
	db := r.db.WithContext(ctx)
	if err := r.deleteLines(db, id); err != nil {
		return 0, err
	}
	res := db.Scopes(tenant.Scope(companyID)).Where("id = ?", id).Delete(&Payroll{})
	return res.RowsAffected, res.Error
}
