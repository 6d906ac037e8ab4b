package payrollsetting

import "time"

type ValueType string

const (
	TypeDecimal ValueType = "decimal"
	TypeInteger ValueType = "integer"
	TypeBoolean ValueType = "boolean"
	TypeString  ValueType = "string"
)

func (t ValueType) Valid() bool {
	switch t {
	case TypeDecimal, TypeInteger, TypeBoolean, TypeString:
		return true
	}
	return false
}

type PayrollSetting struct {
	Key         string    `gorm:"type:varchar(100);primaryKey"`
	Value       string    `gorm:"type:text;not null"`
	Type        ValueType `gorm:"type:varchar(10);not null;default:'string'"`
	Description string    `gorm:"type:text"`
	UpdatedBy   *string   `gorm:"type:uuid"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
