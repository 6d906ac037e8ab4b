package credit

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindLeave   Kind = "leave"
	KindAbsence Kind = "absence"
)

func (k Kind) Valid() bool {
	return k == KindLeave || k == KindAbsence
}

// DefaultTotalCredits is the yearly allowance a lazily created row starts with.
var DefaultTotalCredits = decimal.NewFromInt(12)

// Credit is the per-employee, per-kind, per-year ledger row.
type Credit struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	EmployeeID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_credit_employee_kind_year"`
	Kind             Kind            `gorm:"type:varchar(20);not null;uniqueIndex:uq_credit_employee_kind_year"`
	Year             int             `gorm:"not null;uniqueIndex:uq_credit_employee_kind_year"`
	TotalCredits     decimal.Decimal `gorm:"type:numeric(6,2);not null"`
	UsedCredits      decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	RemainingCredits decimal.Decimal `gorm:"type:numeric(6,2);not null"`
	IsActive         bool            `gorm:"not null;default:true;index"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Use debits days. remaining is floored at zero even when used exceeds total.
func (c *Credit) Use(days decimal.Decimal) {
	c.UsedCredits = c.UsedCredits.Add(days)
	c.recompute()
}

// Refund credits days back. used never drops below zero.
func (c *Credit) Refund(days decimal.Decimal) {
	c.UsedCredits = decimal.Max(decimal.Zero, c.UsedCredits.Sub(days))
	c.recompute()
}

func (c *Credit) recompute() {
	c.RemainingCredits = decimal.Max(decimal.Zero, c.TotalCredits.Sub(c.UsedCredits))
}
