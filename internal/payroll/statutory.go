package payroll

import "github.com/shopspring/decimal"

// SSS premium: a flat rate up to the high threshold, capped at the maximum contribution.
func SSS(gross decimal.Decimal, t SSSTable) decimal.Decimal {
	switch {
	case gross.LessThanOrEqual(t.LowThreshold):
		return gross.Mul(t.Rate)
	case gross.LessThanOrEqual(t.HighThreshold):
		return decimal.Min(gross.Mul(t.Rate), t.MaxContribution)
	default:
		return t.MaxContribution
	}
}

func PagIbig(gross decimal.Decimal, t PagIbigTable) decimal.Decimal {
	if gross.LessThanOrEqual(t.Threshold) {
		return gross.Mul(t.LowRate)
	}
	return gross.Mul(t.HighRate)
}

func PhilHealth(gross decimal.Decimal, t PhilHealthTable) decimal.Decimal {
	switch {
	case gross.LessThanOrEqual(t.LowThreshold):
		return t.LowAmount
	case gross.LessThanOrEqual(t.HighThreshold):
		return decimal.Min(gross.Mul(t.Rate), t.Max)
	default:
		return t.Max
	}
}

// WithholdingTax is not computed yet and always returns zero, so no w_tax line is emitted.
// TODO: apply the BIR semi-monthly withholding table once it is stored in payroll_settings.
func WithholdingTax(gross decimal.Decimal) decimal.Decimal {
	return decimal.Zero
}
