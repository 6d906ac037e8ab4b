package salarysetting

import (
	"time"

	"hris-payroll/internal/employee"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RateType string

const (
	RateDaily   RateType = "daily"
	RateMonthly RateType = "monthly"
	RateHourly  RateType = "hourly"
)

var (
	DefaultOvertimeMultiplier = decimal.RequireFromString("1.25")
	DefaultNightPremiumRate   = decimal.RequireFromString("0.10")
)

// SalarySetting is versioned by EffectiveDate. The current one is the active
// row with the latest effective date.
type SalarySetting struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_salary_setting_effective"`

	RateType               RateType        `gorm:"type:varchar(10);not null"`
	Rate                   decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Cola                   decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Allowance              decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	HazardPay              decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	OvertimeRateMultiplier decimal.Decimal `gorm:"type:numeric(5,2);not null;default:1.25"`
	NightPremiumRate       decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0.10"`

	EffectiveDate time.Time `gorm:"type:date;not null;uniqueIndex:uq_salary_setting_effective"`
	IsActive      bool      `gorm:"not null;default:true;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Employee *employee.Employee `gorm:"foreignKey:EmployeeID"`
}
