package kafka

import (
	"context"

	"hris-payroll/internal/events"
	"hris-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OutboxPublisher implements events.Publisher by writing an outbox row that
// the worker relays to kafka. It is called after the state change commits,
// so a failure here loses the notification but never the transition.
type OutboxPublisher struct {
	repo   OutboxRepository
	topic  string
	logger *zap.Logger
}

func NewOutboxPublisher(repo OutboxRepository, topic string, logger ...*zap.Logger) *OutboxPublisher {
	l := zap.L().Named("kafka.outbox.publisher")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("kafka.outbox.publisher")
	}
	if topic == "" {
		topic = events.ApprovalTopic
	}
	return &OutboxPublisher{repo: repo, topic: topic, logger: l}
}

func (p *OutboxPublisher) Publish(ctx context.Context, e events.Event) error {
	payload, err := events.Encode(e)
	if err != nil {
		return err
	}

	row := OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		CompanyID:     e.TenantID(),
		AggregateType: e.AggregateType(),
		AggregateID:   e.AggregateID(),
		EventType:     string(e.EventName()),
		Topic:         p.topic,
		Payload:       payload,
		Status:        OutboxStatusPending,
	}
	if err := p.repo.Create(ctx, row); err != nil {
		return err
	}

	p.logger.Debug("event queued",
		zap.String("outbox_id", row.ID),
		zap.String("event_type", row.EventType),
		zap.String("aggregate_id", row.AggregateID),
	)
	return nil
}
