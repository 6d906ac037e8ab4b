package leave

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"hris-payroll/internal/approval"
	approvalerrors "hris-payroll/internal/approval/errors"
	"hris-payroll/internal/credit"
	"hris-payroll/internal/employee"
	"hris-payroll/internal/events"
	leaveerrors "hris-payroll/internal/leave/errors"
	"hris-payroll/internal/rbac"
	"hris-payroll/internal/shared/dbtx"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	dateLayout = "2006-01-02"
	kind       = "leave"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, actor approval.Actor, req CreateLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context, companyID string, actor approval.Actor) ([]LeaveResponse, error)
	GetByID(ctx context.Context, companyID, id string) (LeaveResponse, error)
	Decide(ctx context.Context, companyID string, actor approval.Actor, id string, stage approval.Stage, req DecisionRequest) (LeaveResponse, error)
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
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
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

func (s *service) Create(ctx context.Context, companyID string, actor approval.Actor, req CreateLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("create leave requested",
		zap.String("company_id", companyID),
		zap.String("actor_id", actor.ID.String()),
		zap.String("employee_id", req.EmployeeID),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidCompanyID
	}
	employeeUUID := actor.ID
	if req.EmployeeID != "" {
		if employeeUUID, err = uuid.Parse(req.EmployeeID); err != nil {
			return LeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
		}
	}
	if actor.Role == rbac.RoleEmployee && employeeUUID != actor.ID {
		return LeaveResponse{}, leaveerrors.ErrForeignEmployee
	}

	from, to, err := parseRange(req.FromDate, req.ToDate)
	if err != nil {
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	emp, err := s.employees.WithTx(tx).FindByIDAndCompany(ctx, companyID, employeeUUID.String())
	if err != nil {
		return LeaveResponse{}, err
	}

	overlap, err := qtx.HasOverlappingPeriod(ctx, companyID, emp.ID.String(), from, to)
	if err != nil {
		s.logger.Error("create leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if overlap {
		s.logger.Warn("create leave overlap detected",
			zap.String("employee_id", emp.ID.String()),
			zap.String("from_date", req.FromDate),
			zap.String("to_date", req.ToDate),
		)
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	l := &Leave{
		ID:         uuid.New(),
		CompanyID:  companyUUID,
		EmployeeID: emp.ID,
		LeaveType:  req.LeaveType,
		FromDate:   from,
		ToDate:     to,
		Days:       spanDays(from, to),
		Reason:     req.Reason,
		Record:     approval.NewRecord(emp.SupervisorID, emp.HRHandlerID),
		CreatedBy:  actor.ID,
	}

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	l.Employee = emp
	s.logger.Info("create leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", emp.ID.String()),
		zap.String("days", l.Days.String()),
	)

	s.publish(ctx, events.LeaveRequested{
		RequestRef:    s.ref(l, emp),
		LeaveType:     l.LeaveType,
		Reason:        l.Reason,
		Status:        l.Status,
		DisplayStatus: l.DisplayStatus(),
	})
	return mapToResponse(*l), nil
}

func (s *service) GetAll(ctx context.Context, companyID string, actor approval.Actor) ([]LeaveResponse, error) {
	leaves, err := s.repo.FindAllByCompany(ctx, companyID, filterFor(actor))
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (LeaveResponse, error) {
	l, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	return mapToResponse(*l), nil
}

// Decide applies one approval action. The row is locked for the whole
// transaction and the write is additionally guarded by the version column.
func (s *service) Decide(
	ctx context.Context,
	companyID string,
	actor approval.Actor,
	id string,
	stage approval.Stage,
	req DecisionRequest,
) (LeaveResponse, error) {
	decision, err := approval.ParseDecision(req.Decision)
	if err != nil {
		return LeaveResponse{}, err
	}

	s.logger.Debug("leave decision requested",
		zap.String("leave_id", id),
		zap.String("stage", string(stage)),
		zap.String("decision", string(decision)),
		zap.String("actor_id", actor.ID.String()),
		zap.String("role", actor.Role),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("leave decision begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindForUpdate(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		if dbtx.IsConcurrencyFailure(err) {
			return LeaveResponse{}, approvalerrors.ErrConcurrencyConflict
		}
		return LeaveResponse{}, err
	}

	prevVersion := l.Version
	out, err := s.machine.Apply(&l.Record, approval.Action{
		Kind:     kind,
		Stage:    stage,
		Decision: decision,
		Actor:    actor,
		Comments: req.Comments,
		At:       s.now().UTC(),
	})
	if err != nil {
		s.logger.Warn("leave decision rejected",
			zap.String("leave_id", id),
			zap.String("display_status", l.DisplayStatus()),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	l.Version = prevVersion + 1

	n, err := qtx.UpdateDecision(ctx, l, prevVersion)
	if err != nil {
		if dbtx.IsConcurrencyFailure(err) {
			return LeaveResponse{}, approvalerrors.ErrConcurrencyConflict
		}
		s.logger.Error("leave decision persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	if n == 0 {
		s.logger.Warn("leave decision stale write", zap.String("leave_id", id), zap.Int("version", prevVersion))
		return LeaveResponse{}, approvalerrors.ErrConcurrencyConflict
	}

	if _, err := s.credits.Apply(ctx, tx, creditKey(l), out.Credit, l.Days); err != nil {
		s.logger.Error("leave decision credit update failed",
			zap.String("leave_id", id),
			zap.String("credit_effect", out.Credit.String()),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("leave decision commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	emp, err := s.employees.FindByIDAndCompany(ctx, companyID, l.EmployeeID.String())
	if err != nil {
		s.logger.Warn("leave decision employee lookup failed", zap.String("leave_id", id), zap.Error(err))
		emp = nil
	}
	l.Employee = emp
	s.logger.Info("leave decision success",
		zap.String("leave_id", id),
		zap.String("from", out.From),
		zap.String("to", out.To),
		zap.String("credit_effect", out.Credit.String()),
		zap.Bool("override", out.Override),
	)

	s.publish(ctx, events.RequestStatusUpdated{
		RequestRef:            s.ref(l, emp),
		Stage:                 string(stage),
		Decision:              string(decision),
		Status:                l.Status,
		SupervisorStatus:      l.SupervisorStatus,
		HRStatus:              l.HRStatus,
		DisplayStatus:         out.To,
		PreviousDisplayStatus: out.From,
		ActedBy:               actor.ID.String(),
		ActedAt:               s.now().UTC(),
		Comments:              optionalStr(req.Comments),
		CreditEffect:          out.Credit.String(),
		Override:              out.Override,
	})
	return mapToResponse(*l), nil
}

func (s *service) Delete(ctx context.Context, companyID string, actor approval.Actor, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	l, err := qtx.FindForUpdate(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leaveerrors.ErrLeaveNotFound
		}
		return err
	}
	if actor.Role == rbac.RoleEmployee && l.EmployeeID != actor.ID {
		return leaveerrors.ErrForeignEmployee
	}
	if !l.IsPendingSupervisor() {
		return leaveerrors.ErrNotDeletable
	}

	if err := qtx.Delete(ctx, companyID, id); err != nil {
		return err
	}
	return tx.Commit()
}

// creditKey charges the ledger year the leave starts in, so a reversal in a
// later year refunds the row that was debited.
func creditKey(l *Leave) credit.Key {
	return credit.Key{
		CompanyID:  l.CompanyID,
		EmployeeID: l.EmployeeID,
		Kind:       credit.KindLeave,
		Year:       l.FromDate.Year(),
	}
}

func (s *service) ref(l *Leave, emp *employee.Employee) events.RequestRef {
	ref := events.RequestRef{
		RequestID:    l.ID.String(),
		RequestKind:  kind,
		CompanyID:    l.CompanyID.String(),
		EmployeeID:   l.EmployeeID.String(),
		SupervisorID: uuidString(l.SupervisorID),
		HRID:         uuidString(l.HRID),
		FromDate:     l.FromDate.Format(dateLayout),
		ToDate:       l.ToDate.Format(dateLayout),
		Days:         l.Days.String(),
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
		s.logger.Warn("leave event publish failed",
			zap.String("event_type", string(e.EventName())),
			zap.String("leave_id", e.AggregateID()),
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
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	to, err := time.Parse(dateLayout, toStr)
	if err != nil {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	return from, to, nil
}

func spanDays(from, to time.Time) decimal.Decimal {
	return decimal.NewFromInt(int64(to.Sub(from).Hours()/24) + 1)
}

func optionalStr(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
