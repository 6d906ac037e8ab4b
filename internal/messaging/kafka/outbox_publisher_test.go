package kafka_test

import (
	"context"
	"errors"
	"testing"

	"hris-payroll/internal/events"
	"hris-payroll/internal/messaging/kafka"
	"hris-payroll/internal/messaging/kafka/mock"
	"hris-payroll/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestOutboxPublisher_Publish(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockOutboxRepository(ctrl)
	pub := kafka.NewOutboxPublisher(repo, "")

	ev := events.LeaveRequested{
		RequestRef: events.RequestRef{RequestID: "leave-1", RequestKind: "leave", CompanyID: "company-1"},
		LeaveType:  "vacation",
	}
	ctx := contextutil.WithRequestID(context.Background(), "req-42")

	repo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, row kafka.OutboxEvent) error {
			assert.NotEmpty(t, row.ID)
			assert.Equal(t, "req-42", row.RequestID)
			assert.Equal(t, "company-1", row.CompanyID)
			assert.Equal(t, "leave", row.AggregateType)
			assert.Equal(t, "leave-1", row.AggregateID)
			assert.Equal(t, string(events.NameLeaveRequested), row.EventType)
			assert.Equal(t, events.ApprovalTopic, row.Topic)
			assert.Equal(t, kafka.OutboxStatusPending, row.Status)

			decoded, err := events.Decode(row.Payload)
			require.NoError(t, err)
			assert.Equal(t, ev.RequestID, decoded.AggregateID())
			return nil
		})

	require.NoError(t, pub.Publish(ctx, ev))
}

func TestOutboxPublisher_PropagatesRepoError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockOutboxRepository(ctrl)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("insert failed"))

	err := kafka.NewOutboxPublisher(repo, "custom.topic").Publish(context.Background(), events.AbsenceRequested{})
	assert.EqualError(t, err, "insert failed")
}

func TestValidateOutboxEvent(t *testing.T) {
	valid := kafka.OutboxEvent{ID: "1", Topic: "t", EventType: "e", Payload: []byte("{}"), Status: kafka.OutboxStatusPending}
	assert.NoError(t, kafka.ValidateOutboxEvent(valid))

	noTopic := valid
	noTopic.Topic = ""
	assert.Error(t, kafka.ValidateOutboxEvent(noTopic))

	badStatus := valid
	badStatus.Status = "queued"
	assert.ErrorContains(t, kafka.ValidateOutboxEvent(badStatus), "invalid outbox status")
}
