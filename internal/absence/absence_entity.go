package absence

import (
	"time"

	"hris-payroll/internal/approval"
	"hris-payroll/internal/employee"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PartialDay is what a half-day absence counts for, both against credits and in payroll.
var PartialDay = decimal.NewFromFloat(0.5)

type Absence struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index:idx_absences_company"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_absences_employee_dates"`

	FromDate     time.Time       `gorm:"type:date;not null;index:idx_absences_employee_dates"`
	ToDate       time.Time       `gorm:"type:date;not null;index:idx_absences_employee_dates"`
	IsPartialDay bool            `gorm:"not null;default:false"`
	Days         decimal.Decimal `gorm:"type:numeric(5,1);not null"`
	Reason       string          `gorm:"type:text"`

	approval.Record `gorm:"embedded"`

	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	Employee *employee.Employee `gorm:"foreignKey:EmployeeID"`
}

// DaysBetween is the inclusive day count of [from, to], or PartialDay.
func DaysBetween(from, to time.Time, partial bool) decimal.Decimal {
	if partial {
		return PartialDay
	}
	return decimal.NewFromInt(int64(to.Sub(from).Hours()/24) + 1)
}

// DaysWithin counts the part of the absence that falls inside [start, end].
// Partial-day absences always count as PartialDay.
func (a Absence) DaysWithin(start, end time.Time) decimal.Decimal {
	if a.IsPartialDay {
		return PartialDay
	}
	from, to := a.FromDate, a.ToDate
	if from.Before(start) {
		from = start
	}
	if to.After(end) {
		to = end
	}
	if from.After(to) {
		return decimal.Zero
	}
	return DaysBetween(from, to, false)
}
