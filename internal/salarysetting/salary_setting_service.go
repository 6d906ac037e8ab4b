package salarysetting

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"hris-payroll/internal/employee"
	salarysettingerrors "hris-payroll/internal/salarysetting/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

//go:generate mockgen -source=salary_setting_service.go -destination=mock/salary_setting_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateSalarySettingRequest) (SalarySettingResponse, error)
	GetAllByEmployee(ctx context.Context, companyID, employeeID string) ([]SalarySettingResponse, error)
	GetByID(ctx context.Context, companyID, id string) (SalarySettingResponse, error)
	Deactivate(ctx context.Context, companyID, id string) error
	Delete(ctx context.Context, companyID, id string) error
	// FindCurrent fails with ErrMissingSalarySetting when the employee has no active row.
	FindCurrent(ctx context.Context, companyID, employeeID string) (*SalarySetting, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees employee.Repository
	logger    *zap.Logger
}

func NewService(db *sql.DB, repo Repository, employees employee.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("salarysetting.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("salarysetting.service")
	}
	return &service{db: db, repo: repo, employees: employees, logger: l}
}

func (s *service) Create(ctx context.Context, companyID string, req CreateSalarySettingRequest) (SalarySettingResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return SalarySettingResponse{}, salarysettingerrors.ErrInvalidCompanyID
	}
	if _, err := uuid.Parse(req.EmployeeID); err != nil {
		return SalarySettingResponse{}, salarysettingerrors.ErrInvalidEmployeeID
	}
	effectiveDate, err := time.Parse(dateLayout, req.EffectiveDate)
	if err != nil {
		return SalarySettingResponse{}, salarysettingerrors.ErrInvalidEffectiveDate
	}

	setting := &SalarySetting{
		ID:            uuid.New(),
		CompanyID:     companyUUID,
		RateType:      RateType(req.RateType),
		EffectiveDate: effectiveDate,
		IsActive:      true,
	}
	amounts := []struct {
		dst *decimal.Decimal
		raw string
		def decimal.Decimal
	}{
		{&setting.Rate, req.Rate, decimal.Zero},
		{&setting.Cola, req.Cola, decimal.Zero},
		{&setting.Allowance, req.Allowance, decimal.Zero},
		{&setting.HazardPay, req.HazardPay, decimal.Zero},
		{&setting.OvertimeRateMultiplier, req.OvertimeRateMultiplier, DefaultOvertimeMultiplier},
		{&setting.NightPremiumRate, req.NightPremiumRate, DefaultNightPremiumRate},
	}
	for _, a := range amounts {
		v, err := parseAmount(a.raw, a.def)
		if err != nil {
			return SalarySettingResponse{}, err
		}
		*a.dst = v
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SalarySettingResponse{}, err
	}
	defer tx.Rollback()

	emp, err := s.employees.WithTx(tx).FindByIDAndCompany(ctx, companyID, req.EmployeeID)
	if err != nil {
		return SalarySettingResponse{}, err
	}
	setting.EmployeeID = emp.ID

	if err := s.repo.WithTx(tx).Create(ctx, setting); err != nil {
		s.logger.Warn("create salary setting failed",
			zap.String("employee_id", req.EmployeeID),
			zap.String("effective_date", req.EffectiveDate),
			zap.Error(err),
		)
		return SalarySettingResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return SalarySettingResponse{}, err
	}

	setting.Employee = emp
	s.logger.Info("create salary setting success",
		zap.String("salary_setting_id", setting.ID.String()),
		zap.String("employee_id", emp.ID.String()),
		zap.String("rate_type", string(setting.RateType)),
	)
	return mapToResponse(*setting), nil
}

func (s *service) GetAllByEmployee(ctx context.Context, companyID, employeeID string) ([]SalarySettingResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, salarysettingerrors.ErrInvalidEmployeeID
	}
	settings, err := s.repo.FindAllByEmployee(ctx, companyID, employeeID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(settings), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (SalarySettingResponse, error) {
	setting, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return SalarySettingResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*setting), nil
}

func (s *service) Deactivate(ctx context.Context, companyID, id string) error {
	n, err := s.repo.Deactivate(ctx, companyID, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if n == 0 {
		return salarysettingerrors.ErrSalarySettingNotFound
	}
	return nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	n, err := s.repo.Delete(ctx, companyID, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if n == 0 {
		return salarysettingerrors.ErrSalarySettingNotFound
	}
	return nil
}

func (s *service) FindCurrent(ctx context.Context, companyID, employeeID string) (*SalarySetting, error) {
	setting, err := s.repo.FindCurrent(ctx, companyID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, salarysettingerrors.ErrMissingSalarySetting
		}
		return nil, err
	}
	return setting, nil
}

func parseAmount(raw string, def decimal.Decimal) (decimal.Decimal, error) {
	if raw == "" {
		return def, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil || v.IsNegative() {
		return decimal.Zero, salarysettingerrors.ErrInvalidAmount
	}
	return v, nil
}
