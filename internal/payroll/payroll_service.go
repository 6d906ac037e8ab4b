package payroll

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hris-payroll/internal/absence"
	"hris-payroll/internal/attendance"
	"hris-payroll/internal/employee"
	payrollerrors "hris-payroll/internal/payroll/errors"
	"hris-payroll/internal/payrollsetting"
	"hris-payroll/internal/salarysetting"
	"hris-payroll/internal/shared/dbtx"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type SalaryProvider interface {
	FindCurrent(ctx context.Context, companyID, employeeID string) (*salarysetting.SalarySetting, error)
}

type AttendanceProvider interface {
	FindPresentInPeriod(ctx context.Context, companyID, employeeID string, start, end time.Time) ([]attendance.Attendance, error)
}

type AbsenceProvider interface {
	FindApprovedOverlapping(ctx context.Context, companyID, employeeID string, start, end time.Time) ([]absence.Absence, error)
}

type SettingsProvider interface {
	Snapshot(ctx context.Context) payrollsetting.Snapshot
}

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	// Calculate recomputes the payroll for one employee and cutoff. Existing
	// lines for the same (employee, period_end, cutoff) are discarded.
	Calculate(ctx context.Context, companyID, actorID string, req CalculatePayrollRequest) (PayrollResponse, error)
	GetAll(ctx context.Context, companyID, employeeID string) ([]PayrollResponse, error)
	GetByID(ctx context.Context, companyID, id string) (PayrollResponse, error)
	Delete(ctx context.Context, companyID, id string) error
	Payslip(ctx context.Context, companyID, id string) ([]byte, string, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	employees  employee.Repository
	salaries   SalaryProvider
	attendance AttendanceProvider
	absences   AbsenceProvider
	settings   SettingsProvider
	now        func() time.Time
	logger     *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	salaries SalaryProvider,
	attendance AttendanceProvider,
	absences AbsenceProvider,
	settings SettingsProvider,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	return &service{
		db:         db,
		repo:       repo,
		employees:  employees,
		salaries:   salaries,
		attendance: attendance,
		absences:   absences,
		settings:   settings,
		now:        time.Now,
		logger:     l,
	}
}

func (s *service) config(ctx context.Context) Config {
	if s.settings == nil {
		return DefaultConfig()
	}
	return ConfigFromSnapshot(s.settings.Snapshot(ctx))
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, payrollerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func (s *service) Calculate(ctx context.Context, companyID, actorID string, req CalculatePayrollRequest) (PayrollResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return PayrollResponse{}, payrollerrors.ErrInvalidCompanyID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return PayrollResponse{}, payrollerrors.ErrInvalidEmployeeID
	}
	var calculatedBy *uuid.UUID
	if actorID != "" {
		id, err := uuid.Parse(actorID)
		if err != nil {
			return PayrollResponse{}, payrollerrors.ErrInvalidActorID
		}
		calculatedBy = &id
	}
	start, err := parseDate(req.PeriodStart)
	if err != nil {
		return PayrollResponse{}, err
	}
	end, err := parseDate(req.PeriodEnd)
	if err != nil {
		return PayrollResponse{}, err
	}
	if start.After(end) {
		return PayrollResponse{}, payrollerrors.ErrInvalidDateRange
	}

	log := s.logger.With(
		zap.String("company_id", companyID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("period_end", req.PeriodEnd),
		zap.String("cutoff", req.CutoffPeriod),
	)

	emp, err := s.employees.FindByIDAndCompany(ctx, companyID, req.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayrollResponse{}, payrollerrors.ErrEmployeeNotFound
		}
		return PayrollResponse{}, err
	}

	salary, err := s.salaries.FindCurrent(ctx, companyID, req.EmployeeID)
	if err != nil {
		log.Warn("payroll calculation aborted", zap.Error(err))
		return PayrollResponse{}, err
	}

	rows, err := s.attendance.FindPresentInPeriod(ctx, companyID, req.EmployeeID, start, end)
	if err != nil {
		return PayrollResponse{}, err
	}
	absences, err := s.absences.FindApprovedOverlapping(ctx, companyID, req.EmployeeID, start, end)
	if err != nil {
		return PayrollResponse{}, err
	}

	result := NewCalculator(s.config(ctx)).Calculate(Input{
		PeriodStart: start,
		PeriodEnd:   end,
		Salary:      *salary,
		Attendance:  rows,
		Absences:    absences,
	})

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayrollResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	stored, err := qtx.FindOrCreateForUpdate(ctx, &Payroll{
		ID:           uuid.New(),
		CompanyID:    companyUUID,
		EmployeeID:   employeeUUID,
		PayrollDate:  end,
		CutoffPeriod: req.CutoffPeriod,
		PeriodStart:  start,
		PeriodEnd:    end,
	})
	if err != nil {
		return PayrollResponse{}, mapWriteError(err)
	}

	now := s.now().UTC()
	stored.PeriodStart = start
	stored.PeriodEnd = end
	stored.CalculatedBy = calculatedBy
	stored.CalculatedAt = &now
	applyResult(stored, result)

	if err := qtx.UpdateTotals(ctx, stored); err != nil {
		return PayrollResponse{}, mapWriteError(err)
	}
	if err := qtx.ReplaceLines(ctx, stored); err != nil {
		return PayrollResponse{}, mapWriteError(err)
	}
	if err := tx.Commit(); err != nil {
		return PayrollResponse{}, mapWriteError(err)
	}

	stored.Employee = &EmployeeRef{ID: emp.ID, EmployeeNumber: emp.EmployeeNumber, FullName: emp.FullName}
	log.Info("payroll calculated",
		zap.String("payroll_id", stored.ID.String()),
		zap.String("gross_pay", stored.GrossPay.StringFixed(2)),
		zap.String("net_pay", stored.NetPay.StringFixed(2)),
	)
	return mapToResponse(*stored), nil
}

func mapWriteError(err error) error {
	if dbtx.IsConcurrencyFailure(err) {
		return payrollerrors.ErrConcurrencyConflict
	}
	return err
}

func (s *service) GetAll(ctx context.Context, companyID, employeeID string) ([]PayrollResponse, error) {
	if employeeID != "" {
		if _, err := uuid.Parse(employeeID); err != nil {
			return nil, payrollerrors.ErrInvalidEmployeeID
		}
	}
	payrolls, err := s.repo.FindAllByCompany(ctx, companyID, employeeID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(payrolls), nil
}

func (s *service) find(ctx context.Context, repo Repository, companyID, id string) (*Payroll, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, payrollerrors.ErrPayrollNotFound
	}
	p, err := repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payrollerrors.ErrPayrollNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (PayrollResponse, error) {
	p, err := s.find(ctx, s.repo, companyID, id)
	if err != nil {
		return PayrollResponse{}, err
	}
	return mapToResponse(*p), nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if _, err := s.find(ctx, qtx, companyID, id); err != nil {
		return err
	}
	n, err := qtx.Delete(ctx, companyID, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return payrollerrors.ErrPayrollNotFound
	}
	return tx.Commit()
}

func (s *service) Payslip(ctx context.Context, companyID, id string) ([]byte, string, error) {
	p, err := s.find(ctx, s.repo, companyID, id)
	if err != nil {
		return nil, "", err
	}
	pdf, err := buildPayslipPDF(payslipLines(*p))
	if err != nil {
		return nil, "", err
	}
	name := fmt.Sprintf("payslip-%s-%s.pdf", p.PayrollDate.Format(dateLayout), p.CutoffPeriod)
	return pdf, name, nil
}
