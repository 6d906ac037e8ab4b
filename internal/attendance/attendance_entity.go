package attendance

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPresent = "Present"
	StatusLate    = "Late"
	StatusAbsent  = "Absent"
)

const (
	SourceManual  = "MANUAL"
	SourceCapture = "HR_CAPTURE"
)

type Attendance struct {
	ID             uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID      uuid.UUID      `gorm:"column:company_id;type:uuid;not null;index"`
	EmployeeID     uuid.UUID      `gorm:"column:employee_id;type:uuid;not null;uniqueIndex:uq_attendance_employee_date"`
	AttendanceDate time.Time      `gorm:"column:attendance_date;type:date;not null;uniqueIndex:uq_attendance_employee_date"`
	TimeIn         *time.Time     `gorm:"column:time_in;type:timestamptz"`
	TimeOut        *time.Time     `gorm:"column:time_out;type:timestamptz"`
	BreakTime      int            `gorm:"column:break_time;not null;default:0"`
	Status         string         `gorm:"column:status;type:varchar(20);not null;default:Present;index"`
	Session        string         `gorm:"column:session;type:varchar(20);not null;default:regular"`
	Latitude       *float64       `gorm:"column:latitude"`
	Longitude      *float64       `gorm:"column:longitude"`
	Source         string         `gorm:"column:source;type:varchar(30);not null;default:MANUAL"`
	Notes          *string        `gorm:"column:notes;type:text"`
	CreatedAt      time.Time      `gorm:"column:created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"column:deleted_at;index"`
	Employee       *EmployeeRef   `gorm:"foreignKey:EmployeeID;references:ID"`
}

func (Attendance) TableName() string {
	return "attendances"
}

type EmployeeRef struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName string    `gorm:"column:full_name"`
}

func (EmployeeRef) TableName() string {
	return "employees"
}
