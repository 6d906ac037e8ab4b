package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"hris-payroll/internal/config"
	"hris-payroll/internal/messaging/kafka/consumer"
	"hris-payroll/internal/notification"
	"hris-payroll/internal/shared/connection"

	"go.uber.org/zap"
)

// RunConsumer persists one notification row per audience for every approval
// event on the notification topic.
func RunConsumer(cfg config.Config) error {
	logger := zap.L().Named("app.consumer")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database, cfg.MaxConnectRetries)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if cfg.Kafka.Broker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	notificationService := notification.NewService(notification.NewRepository(gormDB))

	reader := connection.NewKafkaReader(cfg.Kafka.Broker, cfg.Kafka.NotificationTopic, cfg.Kafka.FeedGroupID)
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeEvents(ctx, reader, "feed", notificationService.Record, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
