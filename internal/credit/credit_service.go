package credit

import (
	"context"
	"database/sql"
	"time"

	"hris-payroll/internal/approval"
	crediterrors "hris-payroll/internal/credit/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Key identifies one ledger row.
type Key struct {
	CompanyID  uuid.UUID
	EmployeeID uuid.UUID
	Kind       Kind
	Year       int
}

//go:generate mockgen -source=credit_service.go -destination=mock/credit_service_mock.go -package=mock
type Service interface {
	// Apply performs the ledger side of an approval outcome inside tx.
	// A nil tx runs in its own transaction.
	Apply(ctx context.Context, tx *sql.Tx, key Key, effect approval.CreditEffect, days decimal.Decimal) (CreditResponse, error)
	Use(ctx context.Context, tx *sql.Tx, key Key, days decimal.Decimal) (CreditResponse, error)
	Refund(ctx context.Context, tx *sql.Tx, key Key, days decimal.Decimal) (CreditResponse, error)
	Balance(ctx context.Context, companyID, employeeID, kind string, year int) (CreditResponse, error)
	Rollover(ctx context.Context, year int) (RolloverResult, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	now    func() time.Time
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("credit.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("credit.service")
	}
	return &service{db: db, repo: repo, now: time.Now, logger: l}
}

func (s *service) Apply(ctx context.Context, tx *sql.Tx, key Key, effect approval.CreditEffect, days decimal.Decimal) (CreditResponse, error) {
	switch effect {
	case approval.CreditUse:
		return s.Use(ctx, tx, key, days)
	case approval.CreditRefund:
		return s.Refund(ctx, tx, key, days)
	default:
		return CreditResponse{}, nil
	}
}

func (s *service) Use(ctx context.Context, tx *sql.Tx, key Key, days decimal.Decimal) (CreditResponse, error) {
	return s.mutate(ctx, tx, key, days, "use", (*Credit).Use)
}

func (s *service) Refund(ctx context.Context, tx *sql.Tx, key Key, days decimal.Decimal) (CreditResponse, error) {
	return s.mutate(ctx, tx, key, days, "refund", (*Credit).Refund)
}

func (s *service) mutate(
	ctx context.Context,
	tx *sql.Tx,
	key Key,
	days decimal.Decimal,
	op string,
	apply func(*Credit, decimal.Decimal),
) (CreditResponse, error) {
	if !key.Kind.Valid() {
		return CreditResponse{}, crediterrors.ErrInvalidKind
	}
	if !days.IsPositive() {
		return CreditResponse{}, crediterrors.ErrInvalidDays
	}

	owned := tx == nil
	if owned {
		var err error
		tx, err = s.db.BeginTx(ctx, nil)
		if err != nil {
			s.logger.Error("credit begin tx failed", zap.String("op", op), zap.Error(err))
			return CreditResponse{}, err
		}
		defer tx.Rollback()
	}

	qtx := s.repo.WithTx(tx)
	c, err := qtx.GetOrCreate(ctx, s.seed(key), true)
	if err != nil {
		s.logger.Error("credit lock row failed",
			zap.String("op", op),
			zap.String("employee_id", key.EmployeeID.String()),
			zap.Error(err),
		)
		return CreditResponse{}, err
	}

	apply(c, days)
	if err := qtx.Save(ctx, c); err != nil {
		s.logger.Error("credit persist failed", zap.String("op", op), zap.Error(err))
		return CreditResponse{}, err
	}

	if owned {
		if err := tx.Commit(); err != nil {
			s.logger.Error("credit commit failed", zap.String("op", op), zap.Error(err))
			return CreditResponse{}, err
		}
	}

	s.logger.Info("credit "+op+" success",
		zap.String("employee_id", key.EmployeeID.String()),
		zap.String("kind", string(key.Kind)),
		zap.Int("year", key.Year),
		zap.String("days", days.String()),
		zap.String("remaining", c.RemainingCredits.String()),
	)
	return mapToResponse(*c), nil
}

func (s *service) Balance(ctx context.Context, companyID, employeeID, kind string, year int) (CreditResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return CreditResponse{}, crediterrors.ErrInvalidCompanyID
	}
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return CreditResponse{}, crediterrors.ErrInvalidEmployeeID
	}
	k := Kind(kind)
	if !k.Valid() {
		return CreditResponse{}, crediterrors.ErrInvalidKind
	}
	if year == 0 {
		year = s.now().Year()
	}
	if year < 2000 || year > 9999 {
		return CreditResponse{}, crediterrors.ErrInvalidYear
	}

	c, err := s.repo.GetOrCreate(ctx, s.seed(Key{
		CompanyID:  companyUUID,
		EmployeeID: employeeUUID,
		Kind:       k,
		Year:       year,
	}), false)
	if err != nil {
		return CreditResponse{}, err
	}
	return mapToResponse(*c), nil
}

// Rollover deactivates every row older than year and opens a fresh row in
// year for each (employee, kind) that had one the year before.
func (s *service) Rollover(ctx context.Context, year int) (RolloverResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RolloverResult{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	deactivated, err := qtx.DeactivateBefore(ctx, year)
	if err != nil {
		s.logger.Error("credit rollover deactivate failed", zap.Int("year", year), zap.Error(err))
		return RolloverResult{}, err
	}
	created, err := qtx.CarryForward(ctx, year, DefaultTotalCredits)
	if err != nil {
		s.logger.Error("credit rollover carry forward failed", zap.Int("year", year), zap.Error(err))
		return RolloverResult{}, err
	}
	if err := tx.Commit(); err != nil {
		return RolloverResult{}, err
	}

	s.logger.Info("credit rollover success",
		zap.Int("year", year),
		zap.Int64("deactivated", deactivated),
		zap.Int64("created", created),
	)
	return RolloverResult{Year: year, Deactivated: deactivated, Created: created}, nil
}

func (s *service) seed(key Key) *Credit {
	return &Credit{
		ID:               uuid.New(),
		CompanyID:        key.CompanyID,
		EmployeeID:       key.EmployeeID,
		Kind:             key.Kind,
		Year:             key.Year,
		TotalCredits:     DefaultTotalCredits,
		UsedCredits:      decimal.Zero,
		RemainingCredits: DefaultTotalCredits,
		IsActive:         key.Year == s.now().Year(),
	}
}
