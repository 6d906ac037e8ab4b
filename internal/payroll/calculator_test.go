package payroll_test

import (
	"testing"
	"time"

	"hris-payroll/internal/absence"
	"hris-payroll/internal/attendance"
	"hris-payroll/internal/payroll"
	"hris-payroll/internal/payrollsetting"
	"hris-payroll/internal/salarysetting"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	periodStart = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	periodEnd   = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
)

func clock(day, hour, minute int) *time.Time {
	t := time.Date(2026, 3, day, hour, minute, 0, 0, payrollsetting.Manila)
	return &t
}

func shift(day, inHour, inMinute, outDay, outHour, outMinute int) attendance.Attendance {
	return attendance.Attendance{
		AttendanceDate: time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC),
		TimeIn:         clock(day, inHour, inMinute),
		TimeOut:        clock(outDay, outHour, outMinute),
		Status:         attendance.StatusPresent,
	}
}

func salary(rateType salarysetting.RateType, rate string) salarysetting.SalarySetting {
	return salarysetting.SalarySetting{
		RateType:               rateType,
		Rate:                   d(rate),
		OvertimeRateMultiplier: salarysetting.DefaultOvertimeMultiplier,
		NightPremiumRate:       salarysetting.DefaultNightPremiumRate,
	}
}

func calculate(in payroll.Input) payroll.Result {
	if in.PeriodStart.IsZero() {
		in.PeriodStart, in.PeriodEnd = periodStart, periodEnd
	}
	return payroll.NewCalculator(payroll.DefaultConfig()).Calculate(in)
}

func earning(r payroll.Result, typ string) (decimal.Decimal, bool) {
	for _, e := range r.Earnings {
		if e.Type == typ {
			return e.Amount, true
		}
	}
	return decimal.Zero, false
}

func detail(r payroll.Result, typ string) (payroll.DetailLine, bool) {
	for _, dl := range r.Details {
		if dl.Type == typ {
			return dl, true
		}
	}
	return payroll.DetailLine{}, false
}

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(d(want)), "want %s, got %s", want, got)
}

func TestCalculator_HourlyOvertime(t *testing.T) {
	res := calculate(payroll.Input{
		Salary:     salary(salarysetting.RateHourly, "100"),
		Attendance: []attendance.Attendance{shift(2, 8, 0, 2, 18, 0)},
	})

	basic, _ := earning(res, payroll.EarningBasic)
	assertDec(t, "1000", basic)

	ot, ok := earning(res, payroll.EarningOvertime)
	require.True(t, ok)
	assertDec(t, "250", ot)

	dl, ok := detail(res, payroll.DetailOvertime)
	require.True(t, ok)
	assertDec(t, "2", dl.Hours)
	assertDec(t, "125", dl.Rate)

	_, hasNight := earning(res, payroll.EarningNightPremium)
	assert.False(t, hasNight)
	assert.True(t, res.Attendance.UndertimeHours.IsZero())
	assert.True(t, res.Attendance.LateHours.IsZero())
}

func TestCalculator_HoursAreTruncated(t *testing.T) {
	res := calculate(payroll.Input{
		Salary:     salary(salarysetting.RateHourly, "100"),
		Attendance: []attendance.Attendance{shift(2, 8, 0, 2, 18, 45)},
	})
	basic, _ := earning(res, payroll.EarningBasic)
	assertDec(t, "1000", basic)
}

func TestCalculator_DailyBasicAndStatutory(t *testing.T) {
	rows := make([]attendance.Attendance, 3)
	for i := range rows {
		rows[i] = attendance.Attendance{TimeIn: clock(2+i, 8, 0), Status: attendance.StatusPresent}
	}
	res := calculate(payroll.Input{Salary: salary(salarysetting.RateDaily, "500"), Attendance: rows})

	assert.Equal(t, 3, res.DaysWorked)
	basic, _ := earning(res, payroll.EarningBasic)
	assertDec(t, "1500", basic)

	rate := res.Earnings[0]
	assert.Equal(t, payroll.EarningRate, rate.Type)
	require.NotNil(t, rate.Quantity)
	assertDec(t, "3", *rate.Quantity)

	// rate + basic + zero cola, allowance, hazard pay
	assert.Len(t, res.Earnings, 5)
	assertDec(t, "2000", res.GrossPay)

	require.Len(t, res.Deductions, 3)
	assert.Equal(t, payroll.DeductionSSS, res.Deductions[0].Type)
	assertDec(t, "220", res.Deductions[0].Amount)
	assertDec(t, "40", res.Deductions[1].Amount)
	assertDec(t, "150", res.Deductions[2].Amount)
	assertDec(t, "1590", res.NetPay)
}

func TestCalculator_MonthlyProration(t *testing.T) {
	rows := make([]attendance.Attendance, 11)
	res := calculate(payroll.Input{Salary: salary(salarysetting.RateMonthly, "22000"), Attendance: rows})
	basic, _ := earning(res, payroll.EarningBasic)
	assertDec(t, "11000", basic)
}

func TestCalculator_NightPremiumCoversWholeShift(t *testing.T) {
	res := calculate(payroll.Input{
		Salary:     salary(salarysetting.RateHourly, "100"),
		Attendance: []attendance.Attendance{shift(2, 22, 0, 3, 6, 0)},
	})

	np, ok := earning(res, payroll.EarningNightPremium)
	require.True(t, ok)
	assertDec(t, "80", np)

	dl, ok := detail(res, payroll.DetailNightPremium)
	require.True(t, ok)
	assertDec(t, "8", dl.Hours)
}

func TestCalculator_LateAndUndertime(t *testing.T) {
	res := calculate(payroll.Input{
		Salary: salary(salarysetting.RateDaily, "800"),
		Attendance: []attendance.Attendance{
			shift(2, 10, 30, 2, 18, 30),
			shift(3, 8, 0, 3, 13, 0),
		},
	})

	assertDec(t, "2", res.Attendance.LateHours)
	assertDec(t, "200", res.Attendance.LateDeduction)
	assertDec(t, "3", res.Attendance.UndertimeHours)
	assertDec(t, "300", res.Attendance.UndertimeDeduction)
	assertDec(t, "500", res.AttendanceDeductionTotal())
}

func TestCalculator_AbsenceClippedToPeriod(t *testing.T) {
	res := calculate(payroll.Input{
		Salary: salary(salarysetting.RateDaily, "500"),
		Absences: []absence.Absence{
			{FromDate: periodStart.AddDate(0, 0, -3), ToDate: periodEnd.AddDate(0, 0, 3)},
		},
	})
	assertDec(t, "15", res.Attendance.AbsentDays)
	assertDec(t, "7500", res.Attendance.AbsentDeduction)
}

func TestCalculator_PartialDayAbsence(t *testing.T) {
	res := calculate(payroll.Input{
		Salary: salary(salarysetting.RateMonthly, "22000"),
		Absences: []absence.Absence{
			{FromDate: periodStart.AddDate(0, 0, 4), ToDate: periodStart.AddDate(0, 0, 4), IsPartialDay: true},
		},
	})
	assertDec(t, "0.5", res.Attendance.AbsentDays)
	assertDec(t, "500", res.Attendance.AbsentDeduction)
}

func TestCalculator_NetPayIdentity(t *testing.T) {
	s := salary(salarysetting.RateDaily, "733.33")
	s.Cola = d("125.50")
	s.Allowance = d("300")
	s.HazardPay = d("45.25")

	res := calculate(payroll.Input{
		Salary: s,
		Attendance: []attendance.Attendance{
			shift(2, 9, 20, 2, 19, 0),
			shift(3, 22, 0, 4, 7, 0),
			shift(5, 8, 0, 5, 12, 59),
		},
		Absences: []absence.Absence{
			{FromDate: periodStart.AddDate(0, 0, 9), ToDate: periodStart.AddDate(0, 0, 10)},
		},
	})

	sum := decimal.Zero
	for _, e := range res.Earnings {
		sum = sum.Add(e.Amount)
	}
	assert.True(t, sum.Equal(res.GrossPay))

	deductions := decimal.Zero
	for _, dl := range res.Deductions {
		deductions = deductions.Add(dl.Amount)
	}
	assert.True(t, deductions.Equal(res.TotalDeductions))

	want := sum.Sub(res.Attendance.AbsentDeduction.Add(res.Attendance.LateDeduction).Add(res.Attendance.UndertimeDeduction)).Sub(deductions)
	assert.Equal(t, want.StringFixed(2), res.NetPay.StringFixed(2))
	assert.True(t, want.Equal(res.NetPay))
}

func TestCalculator_Deterministic(t *testing.T) {
	in := payroll.Input{
		Salary:     salary(salarysetting.RateHourly, "95.5"),
		Attendance: []attendance.Attendance{shift(2, 8, 0, 2, 18, 0), shift(3, 23, 0, 4, 8, 0)},
		Absences:   []absence.Absence{{FromDate: periodStart, ToDate: periodStart}},
	}
	assert.Equal(t, calculate(in), calculate(in))
}

func TestConfigFromSnapshot(t *testing.T) {
	snap := payrollsetting.NewSnapshot([]payrollsetting.PayrollSetting{
		{Key: payroll.KeySSSRate, Value: "0.12", Type: payrollsetting.TypeDecimal},
		{Key: payrollsetting.KeyStandardWorkHours, Value: "9", Type: payrollsetting.TypeInteger},
		{Key: payroll.KeyDaysPerCutoff, Value: "0", Type: payrollsetting.TypeDecimal},
		{Key: payrollsetting.KeyStandardTimeIn, Value: "07:30", Type: payrollsetting.TypeString},
	})
	cfg := payroll.ConfigFromSnapshot(snap)

	assertDec(t, "0.12", cfg.SSS.Rate)
	assertDec(t, "2475", cfg.SSS.MaxContribution)
	assert.Equal(t, 9, cfg.StandardWorkHours)
	assertDec(t, "11", cfg.DaysPerCutoff)
	assert.Equal(t, [2]int{7, 30}, cfg.StandardTimeIn)
	assert.Equal(t, 22, cfg.NightStartHour)
}

func TestConfigFromSnapshot_OutOfRangeFallsBack(t *testing.T) {
	snap := payrollsetting.NewSnapshot([]payrollsetting.PayrollSetting{
		{Key: payrollsetting.KeyStandardWorkHours, Value: "0", Type: payrollsetting.TypeInteger},
		{Key: payroll.KeyNightStartHour, Value: "24", Type: payrollsetting.TypeInteger},
		{Key: payroll.KeyNightEndHour, Value: "-1", Type: payrollsetting.TypeInteger},
	})
	cfg := payroll.ConfigFromSnapshot(snap)

	assert.Equal(t, 8, cfg.StandardWorkHours)
	assert.Equal(t, 22, cfg.NightStartHour)
	assert.Equal(t, 6, cfg.NightEndHour)

	snap = payrollsetting.NewSnapshot([]payrollsetting.PayrollSetting{
		{Key: payrollsetting.KeyStandardWorkHours, Value: "-3", Type: payrollsetting.TypeInteger},
	})
	assert.Equal(t, 8, payroll.ConfigFromSnapshot(snap).StandardWorkHours)
}

func TestCalculate_NonPositiveStandardHoursUsesDefaultThreshold(t *testing.T) {
	cfg := payroll.DefaultConfig()
	cfg.StandardWorkHours = 0

	res := payroll.NewCalculator(cfg).Calculate(payroll.Input{
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		Salary:      salary(salarysetting.RateDaily, "800"),
		Attendance:  []attendance.Attendance{shift(2, 8, 0, 2, 16, 0)},
	})

	_, hasOT := earning(res, payroll.EarningOvertime)
	assert.False(t, hasOT)
	assertDec(t, "0", res.Attendance.UndertimeDeduction)
	assertDec(t, "0", res.Attendance.LateDeduction)
}
