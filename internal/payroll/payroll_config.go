package payroll

import (
	"time"

	"hris-payroll/internal/payrollsetting"

	"github.com/shopspring/decimal"
)

const (
	KeyDaysPerCutoff    = "days_per_cutoff"
	KeyWorkDaysPerMonth = "work_days_per_month"
	KeyNightStartHour   = "night_start_hour"
	KeyNightEndHour     = "night_end_hour"

	KeySSSLowThreshold   = "sss_low_threshold"
	KeySSSHighThreshold  = "sss_high_threshold"
	KeySSSRate           = "sss_rate"
	KeySSSMaxContrib     = "sss_max_contribution"
	KeyPagIbigThreshold  = "pagibig_threshold"
	KeyPagIbigLowRate    = "pagibig_low_rate"
	KeyPagIbigHighRate   = "pagibig_high_rate"
	KeyPhilHealthLow     = "philhealth_low_threshold"
	KeyPhilHealthHigh    = "philhealth_high_threshold"
	KeyPhilHealthFlat    = "philhealth_low_amount"
	KeyPhilHealthRate    = "philhealth_rate"
	KeyPhilHealthMaximum = "philhealth_max"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Config is the immutable set of thresholds and rates one calculation runs with.
type Config struct {
	StandardWorkHours int
	StandardTimeIn    [2]int
	DaysPerCutoff     decimal.Decimal
	WorkDaysPerMonth  decimal.Decimal
	NightStartHour    int
	NightEndHour      int
	Location          *time.Location

	SSS        SSSTable
	PagIbig    PagIbigTable
	PhilHealth PhilHealthTable
}

type SSSTable struct {
	LowThreshold    decimal.Decimal
	HighThreshold   decimal.Decimal
	Rate            decimal.Decimal
	MaxContribution decimal.Decimal
}

type PagIbigTable struct {
	Threshold decimal.Decimal
	LowRate   decimal.Decimal
	HighRate  decimal.Decimal
}

type PhilHealthTable struct {
	LowThreshold  decimal.Decimal
	HighThreshold decimal.Decimal
	LowAmount     decimal.Decimal
	Rate          decimal.Decimal
	Max           decimal.Decimal
}

// DefaultConfig holds the values used when a key is absent from payroll_settings.
func DefaultConfig() Config {
	return Config{
		StandardWorkHours: 8,
		StandardTimeIn:    [2]int{8, 0},
		DaysPerCutoff:     dec("11"),
		WorkDaysPerMonth:  dec("22"),
		NightStartHour:    22,
		NightEndHour:      6,
		Location:          payrollsetting.Manila,
		SSS: SSSTable{
			LowThreshold:    dec("1000"),
			HighThreshold:   dec("30000"),
			Rate:            dec("0.11"),
			MaxContribution: dec("2475"),
		},
		PagIbig: PagIbigTable{
			Threshold: dec("1500"),
			LowRate:   dec("0.01"),
			HighRate:  dec("0.02"),
		},
		PhilHealth: PhilHealthTable{
			LowThreshold:  dec("10000"),
			HighThreshold: dec("70000"),
			LowAmount:     dec("150"),
			Rate:          dec("0.03"),
			Max:           dec("2100"),
		},
	}
}

// ConfigFromSnapshot overlays configured values on DefaultConfig. It never fails.
func ConfigFromSnapshot(s payrollsetting.Snapshot) Config {
	d := DefaultConfig()
	h, m := s.Clock(payrollsetting.KeyStandardTimeIn, "08:00")

	return Config{
		StandardWorkHours: positiveInt(s.Int(payrollsetting.KeyStandardWorkHours, d.StandardWorkHours), d.StandardWorkHours),
		StandardTimeIn:    [2]int{h, m},
		DaysPerCutoff:     positive(s.Decimal(KeyDaysPerCutoff, d.DaysPerCutoff), d.DaysPerCutoff),
		WorkDaysPerMonth:  positive(s.Decimal(KeyWorkDaysPerMonth, d.WorkDaysPerMonth), d.WorkDaysPerMonth),
		NightStartHour:    hourOfDay(s.Int(KeyNightStartHour, d.NightStartHour), d.NightStartHour),
		NightEndHour:      hourOfDay(s.Int(KeyNightEndHour, d.NightEndHour), d.NightEndHour),
		Location:          s.Location(payrollsetting.KeyTimezone),
		SSS: SSSTable{
			LowThreshold:    s.Decimal(KeySSSLowThreshold, d.SSS.LowThreshold),
			HighThreshold:   s.Decimal(KeySSSHighThreshold, d.SSS.HighThreshold),
			Rate:            s.Decimal(KeySSSRate, d.SSS.Rate),
			MaxContribution: s.Decimal(KeySSSMaxContrib, d.SSS.MaxContribution),
		},
		PagIbig: PagIbigTable{
			Threshold: s.Decimal(KeyPagIbigThreshold, d.PagIbig.Threshold),
			LowRate:   s.Decimal(KeyPagIbigLowRate, d.PagIbig.LowRate),
			HighRate:  s.Decimal(KeyPagIbigHighRate, d.PagIbig.HighRate),
		},
		PhilHealth: PhilHealthTable{
			LowThreshold:  s.Decimal(KeyPhilHealthLow, d.PhilHealth.LowThreshold),
			HighThreshold: s.Decimal(KeyPhilHealthHigh, d.PhilHealth.HighThreshold),
			LowAmount:     s.Decimal(KeyPhilHealthFlat, d.PhilHealth.LowAmount),
			Rate:          s.Decimal(KeyPhilHealthRate, d.PhilHealth.Rate),
			Max:           s.Decimal(KeyPhilHealthMaximum, d.PhilHealth.Max),
		},
	}
}

// positive guards divisors.
func positive(v, def decimal.Decimal) decimal.Decimal {
	if !v.IsPositive() {
		return def
	}
	return v
}

func positiveInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func hourOfDay(v, def int) int {
	if v < 0 || v > 23 {
		return def
	}
	return v
}
