package absence_test

import (
	"testing"
	"time"

	"hris-payroll/internal/absence"

	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, "3", absence.DaysBetween(day("2026-03-02"), day("2026-03-04"), false).String())
	assert.Equal(t, "1", absence.DaysBetween(day("2026-03-02"), day("2026-03-02"), false).String())
	assert.Equal(t, "0.5", absence.DaysBetween(day("2026-03-02"), day("2026-03-02"), true).String())
}

func TestAbsence_DaysWithin(t *testing.T) {
	start, end := day("2026-03-01"), day("2026-03-15")

	tests := []struct {
		name string
		a    absence.Absence
		want string
	}{
		{"inside", absence.Absence{FromDate: day("2026-03-03"), ToDate: day("2026-03-04")}, "2"},
		{"starts before", absence.Absence{FromDate: day("2026-02-27"), ToDate: day("2026-03-02")}, "2"},
		{"ends after", absence.Absence{FromDate: day("2026-03-14"), ToDate: day("2026-03-20")}, "2"},
		{"spans whole period", absence.Absence{FromDate: day("2026-02-26"), ToDate: day("2026-03-18")}, "15"},
		{"outside", absence.Absence{FromDate: day("2026-03-16"), ToDate: day("2026-03-18")}, "0"},
		{"partial day", absence.Absence{FromDate: day("2026-03-05"), ToDate: day("2026-03-05"), IsPartialDay: true}, "0.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.DaysWithin(start, end).String())
		})
	}
}
