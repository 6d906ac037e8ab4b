package payrollsetting_test

import (
	"testing"

	"hris-payroll/internal/payrollsetting"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSnapshot_TypedLookups(t *testing.T) {
	snap := payrollsetting.NewSnapshot([]payrollsetting.PayrollSetting{
		{Key: "sss.rate", Value: "0.11", Type: payrollsetting.TypeDecimal},
		{Key: "standard_work_hours", Value: " 9 ", Type: payrollsetting.TypeInteger},
		{Key: "payslip.show_details", Value: "true", Type: payrollsetting.TypeBoolean},
		{Key: "standard_time_in", Value: "07:30", Type: payrollsetting.TypeString},
		{Key: "pagibig.threshold", Value: "n/a", Type: payrollsetting.TypeDecimal},
	})

	assert.Equal(t, "0.11", snap.Decimal("sss.rate", decimal.Zero).String())
	assert.Equal(t, 9, snap.Int("standard_work_hours", 8))
	assert.True(t, snap.Bool("payslip.show_details", false))
	assert.Equal(t, "07:30", snap.String("standard_time_in", "08:00"))

	t.Run("missing keys fall back", func(t *testing.T) {
		assert.Equal(t, "2475", snap.Decimal("sss.max_contribution", decimal.NewFromInt(2475)).String())
		assert.Equal(t, 22, snap.Int("night_start_hour", 22))
		assert.Equal(t, "x", snap.String("nope", "x"))
	})

	t.Run("malformed values fall back", func(t *testing.T) {
		assert.Equal(t, "1500", snap.Decimal("pagibig.threshold", decimal.NewFromInt(1500)).String())
		assert.Equal(t, 6, snap.Int("sss.rate", 6))
	})

	t.Run("zero snapshot", func(t *testing.T) {
		var empty payrollsetting.Snapshot
		assert.Equal(t, 8, empty.Int("standard_work_hours", 8))
	})
}

func TestSnapshot_ClockAndLocation(t *testing.T) {
	snap := payrollsetting.NewSnapshot([]payrollsetting.PayrollSetting{
		{Key: payrollsetting.KeyStandardTimeIn, Value: "07:45", Type: payrollsetting.TypeString},
		{Key: "bad_clock", Value: "25:99", Type: payrollsetting.TypeString},
		{Key: payrollsetting.KeyTimezone, Value: "Mars/Olympus", Type: payrollsetting.TypeString},
	})

	h, m := snap.Clock(payrollsetting.KeyStandardTimeIn, "08:00")
	assert.Equal(t, 7, h)
	assert.Equal(t, 45, m)

	h, m = snap.Clock("bad_clock", "08:00")
	assert.Equal(t, 8, h)
	assert.Equal(t, 0, m)

	assert.Equal(t, payrollsetting.Manila, snap.Location(payrollsetting.KeyTimezone))
}
