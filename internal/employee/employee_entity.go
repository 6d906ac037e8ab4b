package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Employee is the read-only directory row that requests and payroll resolve against.
// SupervisorID and HRHandlerID route approvals and private notification feeds.
type Employee struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID      uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:uq_employee_number"`
	EmployeeNumber string     `gorm:"type:varchar(30);not null;uniqueIndex:uq_employee_number"`
	FullName       string     `gorm:"type:varchar(150);not null"`
	Email          string     `gorm:"type:varchar(150);uniqueIndex:uq_employee_email"`
	SupervisorID   *uuid.UUID `gorm:"type:uuid;index"`
	HRHandlerID    *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}
