package payroll

import (
	"bytes"
	"fmt"
	"strings"
)

var lineLabels = map[string]string{
	EarningRate:         "Rate",
	EarningBasic:        "Basic pay",
	EarningCola:         "COLA",
	EarningAllowance:    "Allowance",
	EarningHazardPay:    "Hazard pay",
	EarningOvertime:     "Overtime",
	EarningNightPremium: "Night premium",
	DeductionSSS:        "SSS premium",
	DeductionPagIbig:    "Pag-IBIG premium",
	DeductionPhilHealth: "PhilHealth",
	DeductionWTax:       "Withholding tax",
}

func label(t string) string {
	if l, ok := lineLabels[t]; ok {
		return l
	}
	return t
}

func row(name, amount string) string {
	return fmt.Sprintf("%-28s %14s", name, amount)
}

// payslipLines renders the persisted aggregate as fixed-width text lines.
func payslipLines(p Payroll) []string {
	name := p.EmployeeID.String()
	number := ""
	if p.Employee != nil {
		name = p.Employee.FullName
		number = p.Employee.EmployeeNumber
	}

	lines := []string{
		"PAYSLIP",
		"",
		"Employee: " + name,
	}
	if number != "" {
		lines = append(lines, "Employee no.: "+number)
	}
	lines = append(lines,
		fmt.Sprintf("Period: %s to %s (%s cutoff)", p.PeriodStart.Format(dateLayout), p.PeriodEnd.Format(dateLayout), p.CutoffPeriod),
		fmt.Sprintf("Days worked: %d", p.DaysWorked),
		"",
		"EARNINGS",
	)
	for _, e := range p.Earnings {
		lines = append(lines, row(label(e.Type), e.Amount.StringFixed(2)))
	}
	lines = append(lines, row("Gross pay", p.GrossPay.StringFixed(2)), "", "ATTENDANCE")
	if a := p.AttendanceDeduction; a != nil {
		lines = append(lines,
			row("Absent ("+a.AbsentDays.String()+" d)", a.AbsentDeduction.StringFixed(2)),
			row("Late ("+a.LateHours.String()+" h)", a.LateDeduction.StringFixed(2)),
			row("Undertime ("+a.UndertimeHours.String()+" h)", a.UndertimeDeduction.StringFixed(2)),
		)
	}
	lines = append(lines, row("Net basic", p.NetBasic.StringFixed(2)), "", "DEDUCTIONS")
	for _, d := range p.Deductions {
		lines = append(lines, row(label(d.Type), d.Amount.StringFixed(2)))
	}
	lines = append(lines,
		row("Total deductions", p.TotalDeductions.StringFixed(2)),
		"",
		row("NET PAY", p.NetPay.StringFixed(2)),
	)
	return lines
}

// buildPayslipPDF writes a single A4 page of Courier text.
func buildPayslipPDF(lines []string) ([]byte, error) {
	if len(lines) == 0 {
		lines = []string{"Payslip"}
	}

	var content strings.Builder
	content.WriteString("BT\n/F1 10 Tf\n14 TL\n50 800 Td\n")
	for i, line := range lines {
		escaped := pdfEscape(line)
		if i == 0 {
			content.WriteString(fmt.Sprintf("(%s) Tj\n", escaped))
			continue
		}
		content.WriteString(fmt.Sprintf("T* (%s) Tj\n", escaped))
	}
	content.WriteString("ET")

	stream := content.String()
	objects := []string{
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n",
		"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n",
		"3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>\nendobj\n",
		"4 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Courier >>\nendobj\n",
		fmt.Sprintf("5 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", len(stream), stream),
	}

	var out bytes.Buffer
	out.WriteString("%PDF-1.4\n")
	offsets := make([]int, 0, len(objects)+1)
	offsets = append(offsets, 0)
	for _, obj := range objects {
		offsets = append(offsets, out.Len())
		out.WriteString(obj)
	}

	xrefStart := out.Len()
	out.WriteString(fmt.Sprintf("xref\n0 %d\n", len(offsets)))
	out.WriteString("0000000000 65535 f \n")
	for i := 1; i < len(offsets); i++ {
		out.WriteString(fmt.Sprintf("%010d 00000 n \n", offsets[i]))
	}
	out.WriteString(fmt.Sprintf("trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF", len(offsets), xrefStart))

	return out.Bytes(), nil
}

func pdfEscape(v string) string {
	replacer := strings.NewReplacer("\\", "\\\\", "(", "\\(", ")", "\\)")
	return replacer.Replace(v)
}
