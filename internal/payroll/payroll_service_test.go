package payroll_test

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"hris-payroll/internal/absence"
	"hris-payroll/internal/attendance"
	"hris-payroll/internal/employee"
	"hris-payroll/internal/payroll"
	payrollerrors "hris-payroll/internal/payroll/errors"
	"hris-payroll/internal/payrollsetting"
	"hris-payroll/internal/salarysetting"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakePayrollRepo struct {
	byKey        map[string]*payroll.Payroll
	replaceCalls int
	findAllEmp   string
	deleted      []string
}

func newFakePayrollRepo() *fakePayrollRepo {
	return &fakePayrollRepo{byKey: map[string]*payroll.Payroll{}}
}

func payrollKey(p *payroll.Payroll) string {
	return p.EmployeeID.String() + "|" + p.PayrollDate.Format("2006-01-02") + "|" + p.CutoffPeriod
}

func (f *fakePayrollRepo) WithTx(tx *sql.Tx) payroll.Repository { return f }

func (f *fakePayrollRepo) FindOrCreateForUpdate(ctx context.Context, p *payroll.Payroll) (*payroll.Payroll, error) {
	if existing, ok := f.byKey[payrollKey(p)]; ok {
		cp := *existing
		return &cp, nil
	}
	cp := *p
	f.byKey[payrollKey(p)] = &cp
	out := cp
	return &out, nil
}

func (f *fakePayrollRepo) UpdateTotals(ctx context.Context, p *payroll.Payroll) error {
	cp := *p
	f.byKey[payrollKey(p)] = &cp
	return nil
}

func (f *fakePayrollRepo) ReplaceLines(ctx context.Context, p *payroll.Payroll) error {
	f.replaceCalls++
	stored := f.byKey[payrollKey(p)]
	stored.Earnings = append([]payroll.PayrollEarning(nil), p.Earnings...)
	stored.Deductions = append([]payroll.PayrollDeduction(nil), p.Deductions...)
	stored.Details = append([]payroll.PayrollDetail(nil), p.Details...)
	stored.AttendanceDeduction = p.AttendanceDeduction
	return nil
}

func (f *fakePayrollRepo) FindAllByCompany(ctx context.Context, companyID, employeeID string) ([]payroll.Payroll, error) {
	f.findAllEmp = employeeID
	var out []payroll.Payroll
	for _, p := range f.byKey {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakePayrollRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*payroll.Payroll, error) {
	for _, p := range f.byKey {
		if p.ID.String() == id && p.CompanyID.String() == companyID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePayrollRepo) Delete(ctx context.Context, companyID, id string) (int64, error) {
	for k, p := range f.byKey {
		if p.ID.String() == id {
			delete(f.byKey, k)
			f.deleted = append(f.deleted, id)
			return 1, nil
		}
	}
	return 0, nil
}

type fakeEmployeeRepository struct {
	employees map[string]employee.Employee
}

func (f *fakeEmployeeRepository) WithTx(tx *sql.Tx) employee.Repository { return f }

func (f *fakeEmployeeRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*employee.Employee, error) {
	e, ok := f.employees[id]
	if !ok || e.CompanyID.String() != companyID {
		return nil, gorm.ErrRecordNotFound
	}
	return &e, nil
}

func (f *fakeEmployeeRepository) FindAllByCompany(ctx context.Context, companyID string) ([]employee.Employee, error) {
	return nil, nil
}

type salaryFn func(ctx context.Context, companyID, employeeID string) (*salarysetting.SalarySetting, error)

func (f salaryFn) FindCurrent(ctx context.Context, companyID, employeeID string) (*salarysetting.SalarySetting, error) {
	return f(ctx, companyID, employeeID)
}

type attendanceFn func(ctx context.Context, companyID, employeeID string, start, end time.Time) ([]attendance.Attendance, error)

func (f attendanceFn) FindPresentInPeriod(ctx context.Context, companyID, employeeID string, start, end time.Time) ([]attendance.Attendance, error) {
	return f(ctx, companyID, employeeID, start, end)
}

type absenceFn func(ctx context.Context, companyID, employeeID string, start, end time.Time) ([]absence.Absence, error)

func (f absenceFn) FindApprovedOverlapping(ctx context.Context, companyID, employeeID string, start, end time.Time) ([]absence.Absence, error) {
	return f(ctx, companyID, employeeID, start, end)
}

type staticSettings struct{}

func (staticSettings) Snapshot(ctx context.Context) payrollsetting.Snapshot {
	return payrollsetting.NewSnapshot(nil)
}

type payrollFixture struct {
	svc        payroll.Service
	repo       *fakePayrollRepo
	mock       sqlmock.Sqlmock
	companyID  string
	employeeID string
	salary     *salarysetting.SalarySetting
	salaryErr  error
	rows       []attendance.Attendance
}

func setupPayrollServiceTest(t *testing.T) *payrollFixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	companyID := uuid.New()
	employeeID := uuid.New()
	s := salary(salarysetting.RateHourly, "100")

	fx := &payrollFixture{
		repo:       newFakePayrollRepo(),
		mock:       mock,
		companyID:  companyID.String(),
		employeeID: employeeID.String(),
		salary:     &s,
		rows:       []attendance.Attendance{shift(2, 8, 0, 2, 18, 0)},
	}
	employees := &fakeEmployeeRepository{employees: map[string]employee.Employee{
		employeeID.String(): {ID: employeeID, CompanyID: companyID, EmployeeNumber: "E-001", FullName: "Maria Santos"},
	}}

	fx.svc = payroll.NewService(
		db,
		fx.repo,
		employees,
		salaryFn(func(ctx context.Context, companyID, employeeID string) (*salarysetting.SalarySetting, error) {
			return fx.salary, fx.salaryErr
		}),
		attendanceFn(func(ctx context.Context, companyID, employeeID string, start, end time.Time) ([]attendance.Attendance, error) {
			return fx.rows, nil
		}),
		absenceFn(func(ctx context.Context, companyID, employeeID string, start, end time.Time) ([]absence.Absence, error) {
			return nil, nil
		}),
		staticSettings{},
	)
	return fx
}

func (fx *payrollFixture) request() payroll.CalculatePayrollRequest {
	return payroll.CalculatePayrollRequest{
		EmployeeID:   fx.employeeID,
		PeriodStart:  "2026-03-01",
		PeriodEnd:    "2026-03-15",
		CutoffPeriod: payroll.Cutoff1st,
	}
}

func TestPayrollService_Calculate(t *testing.T) {
	fx := setupPayrollServiceTest(t)
	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()

	resp, err := fx.svc.Calculate(context.Background(), fx.companyID, uuid.NewString(), fx.request())
	require.NoError(t, err)

	assert.Equal(t, "2026-03-15", resp.PayrollDate)
	assert.Equal(t, "Maria Santos", resp.EmployeeName)
	assert.Equal(t, 1, resp.DaysWorked)
	// rate 100 + basic 1000 + overtime 250
	assert.Equal(t, "1350.00", resp.GrossPay)
	require.NotNil(t, resp.AttendanceDeduction)
	assert.NotNil(t, resp.CalculatedAt)
	assert.NoError(t, fx.mock.ExpectationsWereMet())
}

func TestPayrollService_CalculateIsIdempotent(t *testing.T) {
	fx := setupPayrollServiceTest(t)
	ctx := context.Background()

	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()
	first, err := fx.svc.Calculate(ctx, fx.companyID, "", fx.request())
	require.NoError(t, err)

	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()
	second, err := fx.svc.Calculate(ctx, fx.companyID, "", fx.request())
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Earnings, second.Earnings)
	assert.Equal(t, first.Deductions, second.Deductions)
	assert.Equal(t, first.Details, second.Details)
	assert.Equal(t, first.NetPay, second.NetPay)
	assert.Equal(t, 2, fx.repo.replaceCalls)
	assert.Len(t, fx.repo.byKey, 1)
}

func TestPayrollService_RecalculateReplacesLines(t *testing.T) {
	fx := setupPayrollServiceTest(t)
	ctx := context.Background()

	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()
	_, err := fx.svc.Calculate(ctx, fx.companyID, "", fx.request())
	require.NoError(t, err)

	fx.rows = []attendance.Attendance{shift(2, 8, 0, 2, 16, 0)}
	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()
	resp, err := fx.svc.Calculate(ctx, fx.companyID, "", fx.request())
	require.NoError(t, err)

	assert.Empty(t, resp.Details)
	for _, e := range resp.Earnings {
		assert.NotEqual(t, payroll.EarningOvertime, e.Type)
	}
}

func TestPayrollService_MissingSalarySetting(t *testing.T) {
	fx := setupPayrollServiceTest(t)
	fx.salary = nil
	fx.salaryErr = payrollerrors.ErrMissingSalarySetting

	_, err := fx.svc.Calculate(context.Background(), fx.companyID, "", fx.request())
	assert.ErrorIs(t, err, payrollerrors.ErrMissingSalarySetting)
	assert.Empty(t, fx.repo.byKey)
	assert.NoError(t, fx.mock.ExpectationsWereMet())
}

func TestPayrollService_CalculateValidation(t *testing.T) {
	fx := setupPayrollServiceTest(t)
	ctx := context.Background()

	req := fx.request()
	req.PeriodStart = "2026-03-20"
	_, err := fx.svc.Calculate(ctx, fx.companyID, "", req)
	assert.ErrorIs(t, err, payrollerrors.ErrInvalidDateRange)

	req = fx.request()
	req.PeriodEnd = "15/03/2026"
	_, err = fx.svc.Calculate(ctx, fx.companyID, "", req)
	assert.ErrorIs(t, err, payrollerrors.ErrInvalidDateFormat)

	req = fx.request()
	req.EmployeeID = uuid.NewString()
	_, err = fx.svc.Calculate(ctx, fx.companyID, "", req)
	assert.ErrorIs(t, err, payrollerrors.ErrEmployeeNotFound)

	_, err = fx.svc.Calculate(ctx, "nope", "", fx.request())
	assert.ErrorIs(t, err, payrollerrors.ErrInvalidCompanyID)
}

func TestPayrollService_GetDeleteAndPayslip(t *testing.T) {
	fx := setupPayrollServiceTest(t)
	ctx := context.Background()

	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()
	calc, err := fx.svc.Calculate(ctx, fx.companyID, "", fx.request())
	require.NoError(t, err)

	got, err := fx.svc.GetByID(ctx, fx.companyID, calc.ID)
	require.NoError(t, err)
	assert.Equal(t, calc.NetPay, got.NetPay)

	list, err := fx.svc.GetAll(ctx, fx.companyID, fx.employeeID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, fx.employeeID, fx.repo.findAllEmp)

	pdf, name, err := fx.svc.Payslip(ctx, fx.companyID, calc.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(pdf), "%PDF-1.4"))
	assert.Equal(t, "payslip-2026-03-15-1st.pdf", name)
	assert.Contains(t, string(pdf), "NET PAY")

	_, err = fx.svc.GetByID(ctx, uuid.NewString(), calc.ID)
	assert.ErrorIs(t, err, payrollerrors.ErrPayrollNotFound)

	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()
	require.NoError(t, fx.svc.Delete(ctx, fx.companyID, calc.ID))
	assert.Equal(t, []string{calc.ID}, fx.repo.deleted)

	fx.mock.ExpectBegin()
	fx.mock.ExpectRollback()
	err = fx.svc.Delete(ctx, fx.companyID, calc.ID)
	assert.True(t, errors.Is(err, payrollerrors.ErrPayrollNotFound))
	assert.NoError(t, fx.mock.ExpectationsWereMet())
}
