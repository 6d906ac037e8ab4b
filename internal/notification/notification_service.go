package notification

import (
	"context"
	"fmt"
	"time"

	"hris-payroll/internal/events"
	notificationerrors "hris-payroll/internal/notification/errors"
	"hris-payroll/internal/rbac"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const defaultListLimit = 100

//go:generate mockgen -source=notification_service.go -destination=mock/notification_service_mock.go -package=mock
type Service interface {
	// Record persists e once per audience channel.
	Record(ctx context.Context, e events.Event) error
	List(ctx context.Context, companyID, actorID, role string, unreadOnly bool) ([]NotificationResponse, error)
	MarkRead(ctx context.Context, companyID, actorID, role, id string) error
}

type service struct {
	repo   Repository
	now    func() time.Time
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	return &service{repo: repo, now: time.Now, logger: l}
}

// ChannelsFor lists the feeds a user reads. Admin roles read the global feed,
// supervisors and HR handlers read their private feed.
func ChannelsFor(role, actorID string) []string {
	switch role {
	case rbac.RoleAdmin, rbac.RoleSuperAdmin:
		return []string{events.ChannelAdmin}
	case rbac.RoleSupervisor:
		return []string{events.SupervisorChannel(actorID)}
	case rbac.RoleHR:
		return []string{events.HRChannel(actorID)}
	default:
		return nil
	}
}

func (s *service) Record(ctx context.Context, e events.Event) error {
	companyID, err := uuid.Parse(e.TenantID())
	if err != nil {
		return notificationerrors.ErrInvalidCompanyID
	}

	payload, err := events.Encode(e)
	if err != nil {
		return err
	}

	occurredAt := s.now().UTC()
	if ref, ok := requestRef(e); ok && !ref.OccurredAt.IsZero() {
		occurredAt = ref.OccurredAt
	}

	title := Title(e)
	audiences := e.Audiences()
	items := make([]Notification, 0, len(audiences))
	for _, ch := range audiences {
		items = append(items, Notification{
			ID:            uuid.New(),
			CompanyID:     companyID,
			Channel:       ch,
			EventType:     string(e.EventName()),
			AggregateType: e.AggregateType(),
			AggregateID:   e.AggregateID(),
			OccurredAt:    occurredAt,
			Title:         title,
			Payload:       datatypes.JSON(payload),
		})
	}

	if err := s.repo.CreateBatch(ctx, items); err != nil {
		s.logger.Error("record notification failed",
			zap.String("event_type", string(e.EventName())),
			zap.String("aggregate_id", e.AggregateID()),
			zap.Error(err),
		)
		return err
	}

	s.logger.Debug("notification recorded",
		zap.String("event_type", string(e.EventName())),
		zap.Strings("channels", audiences),
	)
	return nil
}

func (s *service) List(ctx context.Context, companyID, actorID, role string, unreadOnly bool) ([]NotificationResponse, error) {
	items, err := s.repo.ListByChannels(ctx, companyID, ChannelsFor(role, actorID), unreadOnly, defaultListLimit)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(items), nil
}

func (s *service) MarkRead(ctx context.Context, companyID, actorID, role, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return notificationerrors.ErrInvalidNotificationID
	}

	n, err := s.repo.MarkRead(ctx, companyID, id, ChannelsFor(role, actorID), s.now().UTC())
	if err != nil {
		return err
	}
	if n == 0 {
		return notificationerrors.ErrNotificationNotFound
	}
	return nil
}

// Title renders the one-line summary shown in the feed.
func Title(e events.Event) string {
	ref, _ := requestRef(e)
	who := ref.EmployeeName
	if who == "" {
		who = ref.EmployeeNumber
	}
	if who == "" {
		who = "employee"
	}

	switch v := e.(type) {
	case events.LeaveRequested:
		return fmt.Sprintf("%s filed a %s leave request (%s to %s)", who, v.LeaveType, ref.FromDate, ref.ToDate)
	case events.AbsenceRequested:
		return fmt.Sprintf("%s filed an absence (%s to %s)", who, ref.FromDate, ref.ToDate)
	case events.AbsenceSupervisorApproved:
		return fmt.Sprintf("Absence of %s approved by supervisor, pending HR", who)
	case events.AbsenceHRApproved:
		if v.Override {
			return fmt.Sprintf("Absence of %s approved by HR (override)", who)
		}
		return fmt.Sprintf("Absence of %s approved by HR", who)
	case events.RequestStatusUpdated:
		return fmt.Sprintf("%s request of %s is now %s", v.RequestKind, who, v.DisplayStatus)
	default:
		return string(e.EventName())
	}
}

func requestRef(e events.Event) (events.RequestRef, bool) {
	switch v := e.(type) {
	case events.LeaveRequested:
		return v.RequestRef, true
	case events.AbsenceRequested:
		return v.RequestRef, true
	case events.AbsenceSupervisorApproved:
		return v.RequestRef, true
	case events.AbsenceHRApproved:
		return v.RequestRef, true
	case events.RequestStatusUpdated:
		return v.RequestRef, true
	default:
		return events.RequestRef{}, false
	}
}
