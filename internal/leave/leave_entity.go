package leave

import (
	"time"

	"hris-payroll/internal/approval"
	"hris-payroll/internal/employee"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Leave struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index:idx_leaves_company"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leaves_employee_dates"`

	LeaveType string          `gorm:"type:varchar(30);not null"`
	FromDate  time.Time       `gorm:"type:date;not null;index:idx_leaves_employee_dates"`
	ToDate    time.Time       `gorm:"type:date;not null;index:idx_leaves_employee_dates"`
	Days      decimal.Decimal `gorm:"type:numeric(5,1);not null"`
	Reason    string          `gorm:"type:text"`

	approval.Record `gorm:"embedded"`

	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	Employee *employee.Employee `gorm:"foreignKey:EmployeeID"`
}
