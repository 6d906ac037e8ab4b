package credit_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"hris-payroll/internal/approval"
	"hris-payroll/internal/credit"
	crediterrors "hris-payroll/internal/credit/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCreditRepository struct {
	rows               map[string]*credit.Credit
	locked             []bool
	saveFn             func(ctx context.Context, c *credit.Credit) error
	deactivateBeforeFn func(ctx context.Context, year int) (int64, error)
	carryForwardFn     func(ctx context.Context, year int, total decimal.Decimal) (int64, error)
}

func newFakeRepo() *fakeCreditRepository {
	return &fakeCreditRepository{rows: map[string]*credit.Credit{}}
}

func rowKey(employeeID uuid.UUID, kind credit.Kind, year int) string {
	return fmt.Sprintf("%s|%s|%d", employeeID, kind, year)
}

func (f *fakeCreditRepository) WithTx(tx *sql.Tx) credit.Repository {
	return f
}

func (f *fakeCreditRepository) GetOrCreate(ctx context.Context, seed *credit.Credit, lock bool) (*credit.Credit, error) {
	f.locked = append(f.locked, lock)
	k := rowKey(seed.EmployeeID, seed.Kind, seed.Year)
	if existing, ok := f.rows[k]; ok {
		cp := *existing
		return &cp, nil
	}
	cp := *seed
	f.rows[k] = &cp
	out := cp
	return &out, nil
}

func (f *fakeCreditRepository) Save(ctx context.Context, c *credit.Credit) error {
	if f.saveFn != nil {
		return f.saveFn(ctx, c)
	}
	cp := *c
	f.rows[rowKey(c.EmployeeID, c.Kind, c.Year)] = &cp
	return nil
}

func (f *fakeCreditRepository) DeactivateBefore(ctx context.Context, year int) (int64, error) {
	if f.deactivateBeforeFn != nil {
		return f.deactivateBeforeFn(ctx, year)
	}
	return 0, nil
}

func (f *fakeCreditRepository) CarryForward(ctx context.Context, year int, total decimal.Decimal) (int64, error) {
	if f.carryForwardFn != nil {
		return f.carryForwardFn(ctx, year, total)
	}
	return 0, nil
}

type creditServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	repo    *fakeCreditRepository
	service credit.Service
}

func setupCreditServiceTest(t *testing.T) *creditServiceDeps {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := newFakeRepo()
	return &creditServiceDeps{db: db, sqlMock: mock, repo: repo, service: credit.NewService(db, repo)}
}

func TestCreditService_UseAndRefund(t *testing.T) {
	ctx := context.Background()
	key := credit.Key{
		CompanyID:  uuid.New(),
		EmployeeID: uuid.New(),
		Kind:       credit.KindLeave,
		Year:       time.Now().Year(),
	}

	t.Run("approve then reverse restores balance", func(t *testing.T) {
		deps := setupCreditServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		resp, err := deps.service.Apply(ctx, nil, key, approval.CreditUse, d("3"))
		require.NoError(t, err)
		assert.Equal(t, "3.00", resp.UsedCredits)
		assert.Equal(t, "9.00", resp.RemainingCredits)
		assert.True(t, resp.IsActive)

		resp, err = deps.service.Apply(ctx, nil, key, approval.CreditRefund, d("3"))
		require.NoError(t, err)
		assert.Equal(t, "0.00", resp.UsedCredits)
		assert.Equal(t, "12.00", resp.RemainingCredits)

		assert.Equal(t, []bool{true, true}, deps.repo.locked, "ledger mutations lock the row")
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("caller transaction is reused", func(t *testing.T) {
		deps := setupCreditServiceTest(t)
		deps.sqlMock.ExpectBegin()
		tx, err := deps.db.Begin()
		require.NoError(t, err)

		_, err = deps.service.Use(ctx, tx, key, d("1"))
		require.NoError(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("no effect is a no-op", func(t *testing.T) {
		deps := setupCreditServiceTest(t)
		resp, err := deps.service.Apply(ctx, nil, key, approval.CreditNone, d("1"))
		require.NoError(t, err)
		assert.Empty(t, resp.ID)
		assert.Empty(t, deps.repo.locked)
	})

	t.Run("rejects zero days", func(t *testing.T) {
		deps := setupCreditServiceTest(t)
		_, err := deps.service.Use(ctx, nil, key, decimal.Zero)
		assert.ErrorIs(t, err, crediterrors.ErrInvalidDays)
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		deps := setupCreditServiceTest(t)
		bad := key
		bad.Kind = "vacation"
		_, err := deps.service.Use(ctx, nil, bad, d("1"))
		assert.ErrorIs(t, err, crediterrors.ErrInvalidKind)
	})

	t.Run("save failure rolls back", func(t *testing.T) {
		deps := setupCreditServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()
		deps.repo.saveFn = func(ctx context.Context, c *credit.Credit) error {
			return errors.New("db down")
		}

		_, err := deps.service.Use(ctx, nil, key, d("2"))
		assert.EqualError(t, err, "db down")
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestCreditService_Balance(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("lazily creates default row without locking", func(t *testing.T) {
		deps := setupCreditServiceTest(t)
		resp, err := deps.service.Balance(ctx, companyID, employeeID, "absence", 0)
		require.NoError(t, err)
		assert.Equal(t, "12.00", resp.TotalCredits)
		assert.Equal(t, "12.00", resp.RemainingCredits)
		assert.Equal(t, time.Now().Year(), resp.Year)
		assert.Equal(t, []bool{false}, deps.repo.locked)
	})

	t.Run("past year is inactive", func(t *testing.T) {
		deps := setupCreditServiceTest(t)
		resp, err := deps.service.Balance(ctx, companyID, employeeID, "leave", 2020)
		require.NoError(t, err)
		assert.False(t, resp.IsActive)
	})

	t.Run("invalid input", func(t *testing.T) {
		deps := setupCreditServiceTest(t)
		_, err := deps.service.Balance(ctx, "x", employeeID, "leave", 0)
		assert.ErrorIs(t, err, crediterrors.ErrInvalidCompanyID)
		_, err = deps.service.Balance(ctx, companyID, "x", "leave", 0)
		assert.ErrorIs(t, err, crediterrors.ErrInvalidEmployeeID)
		_, err = deps.service.Balance(ctx, companyID, employeeID, "sick", 0)
		assert.ErrorIs(t, err, crediterrors.ErrInvalidKind)
		_, err = deps.service.Balance(ctx, companyID, employeeID, "leave", 12)
		assert.ErrorIs(t, err, crediterrors.ErrInvalidYear)
	})
}

func TestCreditService_Rollover(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupCreditServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()
		deps.repo.deactivateBeforeFn = func(ctx context.Context, year int) (int64, error) {
			assert.Equal(t, 2027, year)
			return 40, nil
		}
		deps.repo.carryForwardFn = func(ctx context.Context, year int, total decimal.Decimal) (int64, error) {
			assert.Equal(t, 2027, year)
			assert.True(t, total.Equal(credit.DefaultTotalCredits))
			return 38, nil
		}

		res, err := deps.service.Rollover(ctx, 2027)
		require.NoError(t, err)
		assert.Equal(t, credit.RolloverResult{Year: 2027, Deactivated: 40, Created: 38}, res)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("carry forward failure rolls back", func(t *testing.T) {
		deps := setupCreditServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()
		deps.repo.carryForwardFn = func(ctx context.Context, year int, total decimal.Decimal) (int64, error) {
			return 0, errors.New("boom")
		}

		_, err := deps.service.Rollover(ctx, 2027)
		assert.Error(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}
