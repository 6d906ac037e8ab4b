package payroll

import (
	"time"

	"hris-payroll/internal/absence"
	"hris-payroll/internal/attendance"
	"hris-payroll/internal/salarysetting"

	"github.com/shopspring/decimal"
)

// Earning, deduction and detail type tags.
const (
	EarningRate         = "rate"
	EarningBasic        = "basic"
	EarningCola         = "cola"
	EarningAllowance    = "allowance"
	EarningHazardPay    = "hazard_pay"
	EarningOvertime     = "overtime"
	EarningNightPremium = "night_premium"

	DeductionSSS        = "sss_prem"
	DeductionPagIbig    = "pag_ibig_prem"
	DeductionPhilHealth = "philhealth"
	DeductionWTax       = "w_tax"

	DetailOvertime     = "ot_reg"
	DetailNightPremium = "night_prem"
)

// Amounts are kept at this many decimal places so the totals add up exactly.
const amountPlaces = 4

type Input struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	Salary      salarysetting.SalarySetting
	Attendance  []attendance.Attendance
	Absences    []absence.Absence
}

type EarningLine struct {
	Type     string
	Amount   decimal.Decimal
	Quantity *decimal.Decimal
}

type DeductionLine struct {
	Type   string
	Amount decimal.Decimal
}

type DetailLine struct {
	Type   string
	Hours  decimal.Decimal
	Rate   decimal.Decimal
	Amount decimal.Decimal
}

type AttendanceDeductionLine struct {
	AbsentDays         decimal.Decimal
	AbsentDeduction    decimal.Decimal
	LateHours          decimal.Decimal
	LateDeduction      decimal.Decimal
	UndertimeHours     decimal.Decimal
	UndertimeDeduction decimal.Decimal
}

func (a AttendanceDeductionLine) Total() decimal.Decimal {
	return a.AbsentDeduction.Add(a.LateDeduction).Add(a.UndertimeDeduction)
}

type Result struct {
	DaysWorked      int
	Earnings        []EarningLine
	Deductions      []DeductionLine
	Details         []DetailLine
	Attendance      AttendanceDeductionLine
	GrossPay        decimal.Decimal
	NetBasic        decimal.Decimal
	TotalDeductions decimal.Decimal
	NetPay          decimal.Decimal
}

// AttendanceDeductionTotal is the sum of absent, late and undertime deductions.
func (r Result) AttendanceDeductionTotal() decimal.Decimal {
	return r.Attendance.Total()
}

// Calculator turns one employee's period inputs into payroll lines. It holds no
// state besides its Config and does no I/O.
type Calculator struct {
	cfg Config
}

func NewCalculator(cfg Config) Calculator {
	return Calculator{cfg: cfg}
}

func round(d decimal.Decimal) decimal.Decimal {
	return d.Round(amountPlaces)
}

// wholeHours truncates the span to whole hours; minutes are dropped.
func wholeHours(from, to time.Time) int64 {
	if !to.After(from) {
		return 0
	}
	return int64(to.Sub(from) / time.Hour)
}

// standardHours is the shift length used both for rate derivation and for
// the overtime and undertime thresholds.
func (c Calculator) standardHours() int64 {
	return int64(positiveInt(c.cfg.StandardWorkHours, DefaultConfig().StandardWorkHours))
}

// rates derives the daily and hourly rate of a salary setting.
func (c Calculator) rates(s salarysetting.SalarySetting) (daily, hourly decimal.Decimal) {
	hours := decimal.NewFromInt(c.standardHours())
	switch s.RateType {
	case salarysetting.RateMonthly:
		daily = s.Rate.Div(c.cfg.WorkDaysPerMonth)
		hourly = daily.Div(hours)
	case salarysetting.RateHourly:
		hourly = s.Rate
		daily = s.Rate.Mul(hours)
	default:
		daily = s.Rate
		hourly = s.Rate.Div(hours)
	}
	return daily, hourly
}

func (c Calculator) Calculate(in Input) Result {
	s := in.Salary
	daily, hourly := c.rates(s)
	stdHours := c.standardHours()
	loc := c.cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	res := Result{DaysWorked: len(in.Attendance)}
	daysWorked := decimal.NewFromInt(int64(res.DaysWorked))

	var (
		totalHours     int64
		lateHours      int64
		undertimeHours int64
		overtimeTotal  decimal.Decimal
		nightTotal     decimal.Decimal
	)
	otRate := hourly.Mul(s.OvertimeRateMultiplier)
	nightRate := hourly.Mul(s.NightPremiumRate)

	for _, a := range in.Attendance {
		if a.TimeIn != nil {
			local := a.TimeIn.In(loc)
			std := time.Date(local.Year(), local.Month(), local.Day(), c.cfg.StandardTimeIn[0], c.cfg.StandardTimeIn[1], 0, 0, loc)
			lateHours += wholeHours(std, local)
		}
		if a.TimeIn == nil || a.TimeOut == nil {
			continue
		}

		worked := wholeHours(*a.TimeIn, *a.TimeOut)
		totalHours += worked

		if ot := worked - stdHours; ot > 0 {
			hours := decimal.NewFromInt(ot)
			amount := round(otRate.Mul(hours))
			res.Details = append(res.Details, DetailLine{Type: DetailOvertime, Hours: hours, Rate: round(otRate), Amount: amount})
			overtimeTotal = overtimeTotal.Add(amount)
		}
		if ut := stdHours - worked; ut > 0 {
			undertimeHours += ut
		}

		startHour := a.TimeIn.In(loc).Hour()
		if worked > 0 && (startHour >= c.cfg.NightStartHour || startHour < c.cfg.NightEndHour) {
			hours := decimal.NewFromInt(worked)
			amount := round(nightRate.Mul(hours))
			res.Details = append(res.Details, DetailLine{Type: DetailNightPremium, Hours: hours, Rate: round(nightRate), Amount: amount})
			nightTotal = nightTotal.Add(amount)
		}
	}

	var basic decimal.Decimal
	switch s.RateType {
	case salarysetting.RateMonthly:
		basic = s.Rate.Div(decimal.NewFromInt(2)).Mul(daysWorked.Div(c.cfg.DaysPerCutoff))
	case salarysetting.RateHourly:
		basic = decimal.NewFromInt(totalHours).Mul(s.Rate)
	default:
		basic = daysWorked.Mul(s.Rate)
	}

	res.Earnings = []EarningLine{
		{Type: EarningRate, Amount: round(s.Rate), Quantity: &daysWorked},
		{Type: EarningBasic, Amount: round(basic)},
		{Type: EarningCola, Amount: round(s.Cola)},
		{Type: EarningAllowance, Amount: round(s.Allowance)},
		{Type: EarningHazardPay, Amount: round(s.HazardPay)},
	}
	if overtimeTotal.IsPositive() {
		res.Earnings = append(res.Earnings, EarningLine{Type: EarningOvertime, Amount: overtimeTotal})
	}
	if nightTotal.IsPositive() {
		res.Earnings = append(res.Earnings, EarningLine{Type: EarningNightPremium, Amount: nightTotal})
	}

	absentDays := decimal.Zero
	for _, ab := range in.Absences {
		absentDays = absentDays.Add(ab.DaysWithin(in.PeriodStart, in.PeriodEnd))
	}
	late := decimal.NewFromInt(lateHours)
	under := decimal.NewFromInt(undertimeHours)
	res.Attendance = AttendanceDeductionLine{
		AbsentDays:         absentDays,
		AbsentDeduction:    round(absentDays.Mul(daily)),
		LateHours:          late,
		LateDeduction:      round(late.Mul(hourly)),
		UndertimeHours:     under,
		UndertimeDeduction: round(under.Mul(hourly)),
	}

	for _, e := range res.Earnings {
		res.GrossPay = res.GrossPay.Add(e.Amount)
	}

	statutory := []DeductionLine{
		{Type: DeductionSSS, Amount: round(SSS(res.GrossPay, c.cfg.SSS))},
		{Type: DeductionPagIbig, Amount: round(PagIbig(res.GrossPay, c.cfg.PagIbig))},
		{Type: DeductionPhilHealth, Amount: round(PhilHealth(res.GrossPay, c.cfg.PhilHealth))},
		{Type: DeductionWTax, Amount: round(WithholdingTax(res.GrossPay))},
	}
	for _, d := range statutory {
		if !d.Amount.IsPositive() {
			continue
		}
		res.Deductions = append(res.Deductions, d)
		res.TotalDeductions = res.TotalDeductions.Add(d.Amount)
	}

	res.NetBasic = res.GrossPay.Sub(res.Attendance.Total())
	res.NetPay = res.NetBasic.Sub(res.TotalDeductions)
	return res
}
