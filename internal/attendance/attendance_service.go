package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	attendanceerrors "hris-payroll/internal/attendance/errors"
	"hris-payroll/internal/payrollsetting"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	dateLayout          = "2006-01-02"
	defaultTimeIn       = "08:00"
	defaultGraceMinutes = 15
	defaultSession      = "regular"
)

// SettingsProvider is the slice of payrollsetting.Service attendance depends on.
type SettingsProvider interface {
	Snapshot(ctx context.Context) payrollsetting.Snapshot
}

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	ClockIn(ctx context.Context, companyID, employeeID string, req ClockInRequest) (AttendanceResponse, error)
	ClockOut(ctx context.Context, companyID, employeeID string, req ClockOutRequest) (AttendanceResponse, error)
	Record(ctx context.Context, companyID string, req RecordAttendanceRequest) (AttendanceResponse, error)
	GetAll(ctx context.Context, companyID, actorID string, canReadAll bool) ([]AttendanceResponse, error)
	FindPresentInPeriod(ctx context.Context, companyID, employeeID string, start, end time.Time) ([]Attendance, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	settings SettingsProvider
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(db *sql.DB, repo Repository, settings SettingsProvider, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{db: db, repo: repo, settings: settings, now: time.Now, logger: l}
}

func (s *service) snapshot(ctx context.Context) payrollsetting.Snapshot {
	if s.settings == nil {
		return payrollsetting.NewSnapshot(nil)
	}
	return s.settings.Snapshot(ctx)
}

// localDay is the calendar day of t in loc, expressed as midnight UTC so it
// round-trips through a date column unchanged.
func localDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// statusFor marks the arrival Late when it is after the standard time in plus grace.
func statusFor(at time.Time, snap payrollsetting.Snapshot) string {
	loc := snap.Location(payrollsetting.KeyTimezone)
	hour, minute := snap.Clock(payrollsetting.KeyStandardTimeIn, defaultTimeIn)
	grace := snap.Int(payrollsetting.KeyLateGraceMinutes, defaultGraceMinutes)

	local := at.In(loc)
	cutoff := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc).
		Add(time.Duration(grace) * time.Minute)
	if local.After(cutoff) {
		return StatusLate
	}
	return StatusPresent
}

func parseIDs(companyID, employeeID string) (uuid.UUID, uuid.UUID, error) {
	cid, err := uuid.Parse(companyID)
	if err != nil {
		return uuid.Nil, uuid.Nil, attendanceerrors.ErrInvalidCompanyID
	}
	eid, err := uuid.Parse(employeeID)
	if err != nil {
		return uuid.Nil, uuid.Nil, attendanceerrors.ErrInvalidEmployeeID
	}
	return cid, eid, nil
}

func (s *service) ClockIn(ctx context.Context, companyID, employeeID string, req ClockInRequest) (AttendanceResponse, error) {
	cid, eid, err := parseIDs(companyID, employeeID)
	if err != nil {
		return AttendanceResponse{}, err
	}

	snap := s.snapshot(ctx)
	now := s.now().UTC()
	today := localDay(now, snap.Location(payrollsetting.KeyTimezone))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	existing, err := qtx.FindByEmployeeAndDate(ctx, companyID, employeeID, today)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return AttendanceResponse{}, err
	}
	if existing != nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyClockedIn
	}

	session := req.Session
	if session == "" {
		session = defaultSession
	}

	row := &Attendance{
		ID:             uuid.New(),
		CompanyID:      cid,
		EmployeeID:     eid,
		AttendanceDate: today,
		TimeIn:         &now,
		Status:         statusFor(now, snap),
		Session:        session,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		Source:         SourceManual,
		Notes:          req.Notes,
	}
	if err := qtx.Create(ctx, row); err != nil {
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	s.logger.Info("clock in recorded",
		zap.String("company_id", companyID),
		zap.String("employee_id", employeeID),
		zap.String("status", row.Status),
	)
	return mapToResponse(*row), nil
}

func (s *service) ClockOut(ctx context.Context, companyID, employeeID string, req ClockOutRequest) (AttendanceResponse, error) {
	if _, _, err := parseIDs(companyID, employeeID); err != nil {
		return AttendanceResponse{}, err
	}

	snap := s.snapshot(ctx)
	now := s.now().UTC()
	today := localDay(now, snap.Location(payrollsetting.KeyTimezone))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	row, err := qtx.FindByEmployeeAndDate(ctx, companyID, employeeID, today)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrNotClockedIn
		}
		return AttendanceResponse{}, err
	}
	if row.TimeOut != nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyClockedOut
	}

	row.TimeOut = &now
	if req.BreakTime != nil {
		row.BreakTime = *req.BreakTime
	}
	if req.Latitude != nil {
		row.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		row.Longitude = req.Longitude
	}
	if req.Notes != nil {
		row.Notes = req.Notes
	}

	if err := qtx.Update(ctx, row); err != nil {
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}
	return mapToResponse(*row), nil
}

func parseOptionalTime(v *string) (*time.Time, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *v)
	if err != nil {
		return nil, attendanceerrors.ErrInvalidTime
	}
	t = t.UTC()
	return &t, nil
}

func (s *service) Record(ctx context.Context, companyID string, req RecordAttendanceRequest) (AttendanceResponse, error) {
	cid, eid, err := parseIDs(companyID, req.EmployeeID)
	if err != nil {
		return AttendanceResponse{}, err
	}
	date, err := time.Parse(dateLayout, req.AttendanceDate)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidDate
	}
	timeIn, err := parseOptionalTime(req.TimeIn)
	if err != nil {
		return AttendanceResponse{}, err
	}
	timeOut, err := parseOptionalTime(req.TimeOut)
	if err != nil {
		return AttendanceResponse{}, err
	}
	if timeIn != nil && timeOut != nil && timeOut.Before(*timeIn) {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidTime
	}

	session := req.Session
	if session == "" {
		session = defaultSession
	}
	row := &Attendance{
		ID:             uuid.New(),
		CompanyID:      cid,
		EmployeeID:     eid,
		AttendanceDate: date,
		TimeIn:         timeIn,
		TimeOut:        timeOut,
		BreakTime:      req.BreakTime,
		Status:         req.Status,
		Session:        session,
		Source:         SourceCapture,
		Notes:          req.Notes,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Upsert(ctx, row); err != nil {
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	s.logger.Info("attendance captured",
		zap.String("company_id", companyID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("attendance_date", req.AttendanceDate),
		zap.String("status", req.Status),
	)
	return mapToResponse(*row), nil
}

func (s *service) GetAll(ctx context.Context, companyID, actorID string, canReadAll bool) ([]AttendanceResponse, error) {
	var (
		rows []Attendance
		err  error
	)
	if canReadAll {
		rows, err = s.repo.FindAllByCompany(ctx, companyID)
	} else {
		if _, parseErr := uuid.Parse(actorID); parseErr != nil {
			return nil, attendanceerrors.ErrInvalidEmployeeID
		}
		rows, err = s.repo.FindAllByCompanyAndEmployee(ctx, companyID, actorID)
	}
	if err != nil {
		return nil, err
	}
	res := make([]AttendanceResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

func (s *service) FindPresentInPeriod(ctx context.Context, companyID, employeeID string, start, end time.Time) ([]Attendance, error) {
	return s.repo.FindPresentInPeriod(ctx, companyID, employeeID, start, end)
}
