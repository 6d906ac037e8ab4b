package payroll

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	Cutoff1st = "1st"
	Cutoff2nd = "2nd"
	Cutoff3rd = "3rd"
)

// Payroll is keyed by (employee, payroll_date, cutoff_period). Its child rows are
// owned exclusively and replaced wholesale on every recalculation.
type Payroll struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID    uuid.UUID    `gorm:"type:uuid;not null;index"`
	EmployeeID   uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:uq_payroll_period"`
	Employee     *EmployeeRef `gorm:"foreignKey:EmployeeID;references:ID"`
	PayrollDate  time.Time    `gorm:"type:date;not null;uniqueIndex:uq_payroll_period"`
	CutoffPeriod string       `gorm:"type:varchar(10);not null;uniqueIndex:uq_payroll_period"`
	PeriodStart  time.Time    `gorm:"type:date;not null"`
	PeriodEnd    time.Time    `gorm:"type:date;not null"`

	DaysWorked               int             `gorm:"not null"`
	GrossPay                 decimal.Decimal `gorm:"type:numeric(14,4);not null"`
	AttendanceDeductionTotal decimal.Decimal `gorm:"type:numeric(14,4);not null"`
	NetBasic                 decimal.Decimal `gorm:"type:numeric(14,4);not null"`
	TotalDeductions          decimal.Decimal `gorm:"type:numeric(14,4);not null"`
	NetPay                   decimal.Decimal `gorm:"type:numeric(14,4);not null"`

	CalculatedBy *uuid.UUID `gorm:"type:uuid"`
	CalculatedAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Earnings            []PayrollEarning            `gorm:"foreignKey:PayrollID;constraint:OnDelete:CASCADE"`
	Deductions          []PayrollDeduction          `gorm:"foreignKey:PayrollID;constraint:OnDelete:CASCADE"`
	Details             []PayrollDetail             `gorm:"foreignKey:PayrollID;constraint:OnDelete:CASCADE"`
	AttendanceDeduction *PayrollAttendanceDeduction `gorm:"foreignKey:PayrollID;constraint:OnDelete:CASCADE"`
}

type PayrollEarning struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PayrollID uuid.UUID        `gorm:"type:uuid;not null;index"`
	Type      string           `gorm:"type:varchar(30);not null"`
	Amount    decimal.Decimal  `gorm:"type:numeric(14,4);not null"`
	Quantity  *decimal.Decimal `gorm:"type:numeric(8,2)"`
	CreatedAt time.Time
}

type PayrollDeduction struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PayrollID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type      string          `gorm:"type:varchar(30);not null"`
	Amount    decimal.Decimal `gorm:"type:numeric(14,4);not null"`
	CreatedAt time.Time
}

type PayrollDetail struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PayrollID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type      string          `gorm:"type:varchar(30);not null"`
	Hours     decimal.Decimal `gorm:"type:numeric(8,2);not null"`
	Rate      decimal.Decimal `gorm:"type:numeric(14,4);not null"`
	Amount    decimal.Decimal `gorm:"type:numeric(14,4);not null"`
	CreatedAt time.Time
}

type PayrollAttendanceDeduction struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PayrollID          uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	AbsentDays         decimal.Decimal `gorm:"type:numeric(6,1);not null"`
	AbsentDeduction    decimal.Decimal `gorm:"type:numeric(14,4);not null"`
	LateHours          decimal.Decimal `gorm:"type:numeric(8,2);not null"`
	LateDeduction      decimal.Decimal `gorm:"type:numeric(14,4);not null"`
	UndertimeHours     decimal.Decimal `gorm:"type:numeric(8,2);not null"`
	UndertimeDeduction decimal.Decimal `gorm:"type:numeric(14,4);not null"`
	CreatedAt          time.Time
}

type EmployeeRef struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeNumber string    `gorm:"column:employee_number"`
	FullName       string    `gorm:"column:full_name"`
}

func (EmployeeRef) TableName() string {
	return "employees"
}

// applyResult copies a calculation onto p, including fresh child rows.
func applyResult(p *Payroll, r Result) {
	p.DaysWorked = r.DaysWorked
	p.GrossPay = r.GrossPay
	p.AttendanceDeductionTotal = r.AttendanceDeductionTotal()
	p.NetBasic = r.NetBasic
	p.TotalDeductions = r.TotalDeductions
	p.NetPay = r.NetPay

	p.Earnings = make([]PayrollEarning, len(r.Earnings))
	for i, e := range r.Earnings {
		p.Earnings[i] = PayrollEarning{ID: uuid.New(), PayrollID: p.ID, Type: e.Type, Amount: e.Amount, Quantity: e.Quantity}
	}
	p.Deductions = make([]PayrollDeduction, len(r.Deductions))
	for i, d := range r.Deductions {
		p.Deductions[i] = PayrollDeduction{ID: uuid.New(), PayrollID: p.ID, Type: d.Type, Amount: d.Amount}
	}
	p.Details = make([]PayrollDetail, len(r.Details))
	for i, d := range r.Details {
		p.Details[i] = PayrollDetail{ID: uuid.New(), PayrollID: p.ID, Type: d.Type, Hours: d.Hours, Rate: d.Rate, Amount: d.Amount}
	}
	a := r.Attendance
	p.AttendanceDeduction = &PayrollAttendanceDeduction{
		ID:                 uuid.New(),
		PayrollID:          p.ID,
		AbsentDays:         a.AbsentDays,
		AbsentDeduction:    a.AbsentDeduction,
		LateHours:          a.LateHours,
		LateDeduction:      a.LateDeduction,
		UndertimeHours:     a.UndertimeHours,
		UndertimeDeduction: a.UndertimeDeduction,
	}
}
