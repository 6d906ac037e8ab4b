package credit_test

import (
	"testing"

	"hris-payroll/internal/credit"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestCredit_UseThenRefund(t *testing.T) {
	c := credit.Credit{
		TotalCredits:     d("12"),
		UsedCredits:      decimal.Zero,
		RemainingCredits: d("12"),
	}

	c.Use(d("3"))
	assert.True(t, c.UsedCredits.Equal(d("3")))
	assert.True(t, c.RemainingCredits.Equal(d("9")))

	c.Refund(d("3"))
	assert.True(t, c.UsedCredits.Equal(decimal.Zero))
	assert.True(t, c.RemainingCredits.Equal(d("12")))
}

func TestCredit_Bounds(t *testing.T) {
	c := credit.Credit{TotalCredits: d("12"), RemainingCredits: d("12")}

	c.Use(d("15"))
	assert.True(t, c.RemainingCredits.Equal(decimal.Zero), "remaining floors at zero")

	c.Refund(d("20"))
	assert.True(t, c.UsedCredits.Equal(decimal.Zero), "used never negative")
	assert.True(t, c.RemainingCredits.Equal(d("12")), "remaining never above total")

	c.Use(d("0.5"))
	assert.Equal(t, "11.5", c.RemainingCredits.String())
}
