package credit

import (
	"context"
	"database/sql"

	"hris-payroll/internal/shared/dbtx"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=credit_repo.go -destination=mock/credit_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	// GetOrCreate inserts seed unless its (employee, kind, year) row exists,
	// then reads the row back, locking it FOR UPDATE when lock is set.
	GetOrCreate(ctx context.Context, seed *Credit, lock bool) (*Credit, error)
	Save(ctx context.Context, c *Credit) error
	DeactivateBefore(ctx context.Context, year int) (int64, error)
	CarryForward(ctx context.Context, year int, total decimal.Decimal) (int64, error)
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

func (r *repository) GetOrCreate(ctx context.Context, seed *Credit, lock bool) (*Credit, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "employee_id"}, {Name: "kind"}, {Name: "year"}},
			DoNothing: true,
		}).
		Create(seed).Error
	if err != nil {
		return nil, err
	}

	q := r.db.WithContext(ctx)
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var c Credit
	err = q.Where("employee_id = ? AND kind = ? AND year = ?", seed.EmployeeID, seed.Kind, seed.Year).
		Take(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) Save(ctx context.Context, c *Credit) error {
	return r.db.WithContext(ctx).
		Model(c).
		Select("used_credits", "remaining_credits", "updated_at").
		Updates(c).Error
}

func (r *repository) DeactivateBefore(ctx context.Context, year int) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Credit{}).
		Where("year < ? AND is_active = ?", year, true).
		Update("is_active", false)
	return res.RowsAffected, res.Error
}

func (r *repository) CarryForward(ctx context.Context, year int, total decimal.Decimal) (int64, error) {
	res := r.db.WithContext(ctx).Exec(`
		INSERT INTO credits (id, company_id, employee_id, kind, year, total_credits, used_credits, remaining_credits, is_active, created_at, updated_at)
		SELECT gen_random_uuid(), company_id, employee_id, kind, ?, ?, 0, ?, true, now(), now()
		FROM credits
		WHERE year = ?
		ON CONFLICT (employee_id, kind, year) DO NOTHING`,
		year, total, total, year-1,
	)
	return res.RowsAffected, res.Error
}
