package payrollsetting

// Keys shared by attendance capture and the payroll engine.
const (
	KeyTimezone          = "timezone"
	KeyStandardTimeIn    = "standard_time_in"
	KeyLateGraceMinutes  = "late_grace_minutes"
	KeyStandardWorkHours = "standard_work_hours"
)
