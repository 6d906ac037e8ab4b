package consumer

import (
	"context"
	"errors"

	"hris-payroll/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the subset of *kafkago.Reader the consumers need.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// Handler processes one decoded event. Returning ErrRetry leaves the message
// uncommitted, so it is redelivered after the next rebalance or restart. Any
// other error is logged and the message is committed.
type Handler func(ctx context.Context, e events.Event) error

var ErrRetry = errors.New("retry message")

// ConsumeEvents decodes approval events from reader and hands them to handle
// until ctx is done. Undecodable messages are committed and dropped.
func ConsumeEvents(ctx context.Context, reader MessageReader, name string, handle Handler, logger *zap.Logger) {
	if logger == nil {
		logger = zap.L()
	}
	log := logger.Named("kafka.consumer." + name)
	log.Info("consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("consumer stopped")
				return
			}
			log.Error("fetch message failed", zap.Error(err))
			continue
		}

		event, err := events.Decode(msg.Value)
		if err != nil {
			log.Error("decode event failed",
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
			commit(ctx, reader, msg, log)
			continue
		}

		if err := handle(ctx, event); err != nil {
			if errors.Is(err, ErrRetry) {
				log.Warn("event handling deferred",
					zap.String("event_type", string(event.EventName())),
					zap.String("aggregate_id", event.AggregateID()),
					zap.Error(err),
				)
				continue
			}
			log.Error("event handling failed",
				zap.String("event_type", string(event.EventName())),
				zap.String("aggregate_id", event.AggregateID()),
				zap.Error(err),
			)
		}

		commit(ctx, reader, msg, log)
	}
}

func commit(ctx context.Context, reader MessageReader, msg kafkago.Message, log *zap.Logger) {
	if err := reader.CommitMessages(ctx, msg); err != nil {
		log.Error("commit message failed", zap.Int64("offset", msg.Offset), zap.Error(err))
	}
}
