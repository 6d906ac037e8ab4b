package payroll_test

import (
	"context"
	"testing"
	"time"

	"hris-payroll/internal/payroll"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupRepo(t *testing.T) (payroll.Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return payroll.NewRepository(gdb), mock
}

func TestRepository_FindOrCreateForUpdate(t *testing.T) {
	repo, mock := setupRepo(t)
	existingID := uuid.New()
	p := &payroll.Payroll{
		ID:           uuid.New(),
		CompanyID:    uuid.New(),
		EmployeeID:   uuid.New(),
		PayrollDate:  time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		CutoffPeriod: payroll.Cutoff1st,
	}

	// The insert conflicts and returns nothing; the locked read yields the stored row.
	mock.ExpectQuery(`INSERT INTO "payrolls" .* ON CONFLICT .* DO NOTHING`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT \* FROM "payrolls" WHERE .*employee_id = .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "employee_id", "cutoff_period", "net_pay"}).
			AddRow(existingID, p.EmployeeID, payroll.Cutoff1st, "1200.5000"))

	got, err := repo.FindOrCreateForUpdate(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, existingID, got.ID)
	assert.Equal(t, "1200.50", got.NetPay.StringFixed(2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ReplaceLinesDeletesEveryChildTable(t *testing.T) {
	repo, mock := setupRepo(t)
	id := uuid.New()
	p := &payroll.Payroll{
		ID:       id,
		Earnings: []payroll.PayrollEarning{{ID: uuid.New(), PayrollID: id, Type: payroll.EarningBasic, Amount: d("100")}},
	}

	for _, table := range []string{"payroll_earnings", "payroll_deductions", "payroll_details", "payroll_attendance_deductions"} {
		mock.ExpectExec(`DELETE FROM "` + table + `" WHERE payroll_id = \$1`).
			WillReturnResult(sqlmock.NewResult(0, 3))
	}
	mock.ExpectQuery(`INSERT INTO "payroll_earnings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(p.Earnings[0].ID))

	require.NoError(t, repo.ReplaceLines(context.Background(), p))
	assert.NoError(t, mock.ExpectationsWereMet())
}
