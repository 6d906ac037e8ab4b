package absence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	absenceerrors "hris-payroll/internal/absence/errors"
	"hris-payroll/internal/approval"
	approvalerrors "hris-payroll/internal/approval/errors"
	"hris-payroll/internal/credit"
	"hris-payroll/internal/employee"
	"hris-payroll/internal/events"
	"hris-payroll/internal/rbac"
	"hris-payroll/internal/shared/dbtx"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	dateLayout = "2006-01-02"
	kind       = "absence"
)

//go:generate mockgen -source=absence_service.go -destination=mock/absence_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, actor approval.Actor, req CreateAbsenceRequest) (AbsenceResponse, error)
	GetAll(ctx context.Context, companyID string, actor approval.Actor) ([]AbsenceResponse, error)
	GetByID(ctx context.Context, companyID, id string) (AbsenceResponse, error)
	Decide(ctx context.Context, companyID string, actor approval.Actor, id string, stage approval.Stage, req DecisionRequest) (AbsenceResponse, error)
	Delete(ctx context.Context, companyID string, actor approval.Actor, id string) error
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees employee.Repository
	credits   credit.Service
	machine   *approval.Machine
	publisher events.Publisher
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	credits credit.Service,
	machine *approval.Machine,
	publisher events.Publisher,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("absence.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("absence.service")
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &service{
		db:        db,
		repo:      repo,
		employees: employees,
		credits:   credits,
		machine:   machine,
		publisher: publisher,
		now:       time.Now,
		logger:    l,
	}
}

func (s *service) Create(ctx context.Context, companyID string, actor approval.Actor, req CreateAbsenceRequest) (AbsenceResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return AbsenceResponse{}, absenceerrors.ErrInvalidCompanyID
	}
	employeeUUID := actor.ID
	if req.EmployeeID != "" {
		if employeeUUID, err = uuid.Parse(req.EmployeeID); err != nil {
			return AbsenceResponse{}, absenceerrors.ErrInvalidEmployeeID
		}
	}
	if actor.Role == rbac.RoleEmployee && employeeUUID != actor.ID {
		return AbsenceResponse{}, absenceerrors.ErrForeignEmployee
	}

	from, to, err := parseRange(req.FromDate, req.ToDate)
	if err != nil {
		return AbsenceResponse{}, err
	}
	if req.IsPartialDay && !from.Equal(to) {
		return AbsenceResponse{}, absenceerrors.ErrPartialDaySpan
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create absence begin tx failed", zap.Error(err))
		return AbsenceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	emp, err := s.employees.WithTx(tx).FindByIDAndCompany(ctx, companyID, employeeUUID.String())
	if err != nil {
		return AbsenceResponse{}, err
	}

	overlap, err := qtx.HasOverlappingPeriod(ctx, companyID, emp.ID.String(), from, to)
	if err != nil {
		return AbsenceResponse{}, err
	}
	if overlap {
		s.logger.Warn("create absence overlap detected",
			zap.String("employee_id", emp.ID.String()),
			zap.String("from_date", req.FromDate),
			zap.String("to_date", req.ToDate),
		)
		return AbsenceResponse{}, absenceerrors.ErrAbsenceOverlap
	}

	a := &Absence{
		ID:           uuid.New(),
		CompanyID:    companyUUID,
		EmployeeID:   emp.ID,
		FromDate:     from,
		ToDate:       to,
		IsPartialDay: req.IsPartialDay,
		Days:         DaysBetween(from, to, req.IsPartialDay),
		Reason:       req.Reason,
		Record:       approval.NewRecord(emp.SupervisorID, emp.HRHandlerID),
		CreatedBy:    actor.ID,
	}

	if err := qtx.Create(ctx, a); err != nil {
		s.logger.Error("create absence persist failed", zap.Error(err))
		return AbsenceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AbsenceResponse{}, err
	}

	a.Employee = emp
	s.logger.Info("create absence success",
		zap.String("absence_id", a.ID.String()),
		zap.String("employee_id", emp.ID.String()),
		zap.String("days", a.Days.String()),
	)

	s.publish(ctx, events.AbsenceRequested{
		RequestRef:    s.ref(a, emp),
		Reason:        a.Reason,
		IsPartialDay:  a.IsPartialDay,
		Status:        a.Status,
		DisplayStatus: a.DisplayStatus(),
	})
	return mapToResponse(*a), nil
}

func (s *service) GetAll(ctx context.Context, companyID string, actor approval.Actor) ([]AbsenceResponse, error) {
	absences, err := s.repo.FindAllByCompany(ctx, companyID, filterFor(actor))
	if err != nil {
		return nil, err
	}
	return mapToListResponse(absences), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (AbsenceResponse, error) {
	a, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AbsenceResponse{}, absenceerrors.ErrAbsenceNotFound
		}
		return AbsenceResponse{}, err
	}
	return mapToResponse(*a), nil
}

func (s *service) Decide(
	ctx context.Context,
	companyID string,
	actor approval.Actor,
	id string,
	stage approval.Stage,
	req DecisionRequest,
) (AbsenceResponse, error) {
	decision, err := approval.ParseDecision(req.Decision)
	if err != nil {
		return AbsenceResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("absence decision begin tx failed", zap.Error(err))
		return AbsenceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	a, err := qtx.FindForUpdate(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AbsenceResponse{}, absenceerrors.ErrAbsenceNotFound
		}
		if dbtx.IsConcurrencyFailure(err) {
			return AbsenceResponse{}, approvalerrors.ErrConcurrencyConflict
		}
		return AbsenceResponse{}, err
	}

	prevVersion := a.Version
	actedAt := s.now().UTC()
	out, err := s.machine.Apply(&a.Record, approval.Action{
		Kind:     kind,
		Stage:    stage,
		Decision: decision,
		Actor:    actor,
		Comments: req.Comments,
		At:       actedAt,
	})
	if err != nil {
		s.logger.Warn("absence decision rejected",
			zap.String("absence_id", id),
			zap.String("display_status", a.DisplayStatus()),
			zap.Error(err),
		)
		return AbsenceResponse{}, err
	}
	a.Version = prevVersion + 1

	n, err := qtx.UpdateDecision(ctx, a, prevVersion)
	if err != nil {
		if dbtx.IsConcurrencyFailure(err) {
			return AbsenceResponse{}, approvalerrors.ErrConcurrencyConflict
		}
		return AbsenceResponse{}, err
	}
	if n == 0 {
		s.logger.Warn("absence decision stale write", zap.String("absence_id", id), zap.Int("version", prevVersion))
		return AbsenceResponse{}, approvalerrors.ErrConcurrencyConflict
	}

	if _, err := s.credits.Apply(ctx, tx, creditKey(a), out.Credit, a.Days); err != nil {
		s.logger.Error("absence decision credit update failed",
			zap.String("absence_id", id),
			zap.String("credit_effect", out.Credit.String()),
			zap.Error(err),
		)
		return AbsenceResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return AbsenceResponse{}, err
	}

	emp, err := s.employees.FindByIDAndCompany(ctx, companyID, a.EmployeeID.String())
	if err != nil {
		s.logger.Warn("absence decision employee lookup failed", zap.String("absence_id", id), zap.Error(err))
		emp = nil
	}
	a.Employee = emp
	s.logger.Info("absence decision success",
		zap.String("absence_id", id),
		zap.String("from", out.From),
		zap.String("to", out.To),
		zap.String("credit_effect", out.Credit.String()),
		zap.Bool("override", out.Override),
	)

	s.publish(ctx, s.decisionEvent(a, emp, stage, decision, actor, actedAt, req.Comments, out))
	return mapToResponse(*a), nil
}

// decisionEvent picks the typed event for a transition. Approvals have their
// own absence events; everything else is a generic status update.
func (s *service) decisionEvent(
	a *Absence,
	emp *employee.Employee,
	stage approval.Stage,
	decision approval.Decision,
	actor approval.Actor,
	at time.Time,
	comments string,
	out approval.Outcome,
) events.Event {
	ref := s.ref(a, emp)
	switch {
	case decision == approval.Approve && stage == approval.StageSupervisor:
		return events.AbsenceSupervisorApproved{
			RequestRef:       ref,
			SupervisorStatus: a.SupervisorStatus,
			HRStatus:         derefStr(a.HRStatus),
			DisplayStatus:    out.To,
			ApprovedBy:       actor.ID.String(),
			ApprovedAt:       at,
			Comments:         optionalStr(comments),
		}
	case decision == approval.Approve && stage == approval.StageHR:
		return events.AbsenceHRApproved{
			RequestRef:    ref,
			HRStatus:      derefStr(a.HRStatus),
			DisplayStatus: out.To,
			ApprovedBy:    actor.ID.String(),
			ApprovedAt:    at,
			Comments:      optionalStr(comments),
			Override:      out.Override,
		}
	default:
		return events.RequestStatusUpdated{
			RequestRef:            ref,
			Stage:                 string(stage),
			Decision:              string(decision),
			Status:                a.Status,
			SupervisorStatus:      a.SupervisorStatus,
			HRStatus:              a.HRStatus,
			DisplayStatus:         out.To,
			PreviousDisplayStatus: out.From,
			ActedBy:               actor.ID.String(),
			ActedAt:               at,
			Comments:              optionalStr(comments),
			CreditEffect:          out.Credit.String(),
			Override:              out.Override,
		}
	}
}

func (s *service) Delete(ctx context.Context, companyID string, actor approval.Actor, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	a, err := qtx.FindForUpdate(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return absenceerrors.ErrAbsenceNotFound
		}
		return err
	}
	if actor.Role == rbac.RoleEmployee && a.EmployeeID != actor.ID {
		return absenceerrors.ErrForeignEmployee
	}
	if !a.IsPendingSupervisor() {
		return absenceerrors.ErrNotDeletable
	}

	if err := qtx.Delete(ctx, companyID, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *service) ref(a *Absence, emp *employee.Employee) events.RequestRef {
	ref := events.RequestRef{
		RequestID:    a.ID.String(),
		RequestKind:  kind,
		CompanyID:    a.CompanyID.String(),
		EmployeeID:   a.EmployeeID.String(),
		SupervisorID: uuidString(a.SupervisorID),
		HRID:         uuidString(a.HRID),
		FromDate:     a.FromDate.Format(dateLayout),
		ToDate:       a.ToDate.Format(dateLayout),
		Days:         a.Days.String(),
		OccurredAt:   s.now().UTC(),
	}
	if emp != nil {
		ref.EmployeeName = emp.FullName
		ref.EmployeeNumber = emp.EmployeeNumber
	}
	return ref
}

func (s *service) publish(ctx context.Context, e events.Event) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.Warn("absence event publish failed",
			zap.String("event_type", string(e.EventName())),
			zap.String("absence_id", e.AggregateID()),
			zap.Error(err),
		)
	}
}

func filterFor(actor approval.Actor) ListFilter {
	id := actor.ID.String()
	switch actor.Role {
	case rbac.RoleAdmin, rbac.RoleSuperAdmin:
		return ListFilter{}
	case rbac.RoleSupervisor:
		return ListFilter{SupervisorID: &id}
	case rbac.RoleHR:
		return ListFilter{HRID: &id}
	default:
		return ListFilter{EmployeeID: &id}
	}
}

func parseRange(fromStr, toStr string) (time.Time, time.Time, error) {
	from, err := time.Parse(dateLayout, fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, absenceerrors.ErrInvalidDateFormat
	}
	to, err := time.Parse(dateLayout, toStr)
	if err != nil {
		return time.Time{}, time.Time{}, absenceerrors.ErrInvalidDateFormat
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, absenceerrors.ErrInvalidDateRange
	}
	return from, to, nil
}

func optionalStr(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func derefStr(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// creditKey charges the ledger year the absence starts in, so a reversal in a
// later year refunds the row that was debited.
func creditKey(a *Absence) credit.Key {
	return credit.Key{
		CompanyID:  a.CompanyID,
		EmployeeID: a.EmployeeID,
		Kind:       credit.KindAbsence,
		Year:       a.FromDate.Year(),
	}
}
