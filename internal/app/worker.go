package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"hris-payroll/internal/config"
	"hris-payroll/internal/credit"
	"hris-payroll/internal/messaging/kafka"
	"hris-payroll/internal/messaging/kafka/producer"
	"hris-payroll/internal/shared/connection"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// RunWorker relays outbox rows to kafka and runs the yearly credit rollover.
func RunWorker(cfg config.Config) error {
	logger := zap.L().Named("app.worker")

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

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.Kafka.Broker, cfg.MaxConnectRetries)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(sqlDB)
	creditService := credit.NewService(sqlDB, credit.NewRepository(gormDB))

	scheduler := cron.New()
	if _, err := credit.RegisterRolloverJob(scheduler, cfg.CreditRolloverCron, creditService, logger); err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go producer.ProcessOutboxEvents(
		ctx,
		outboxRepo,
		kafkaWriter,
		logger,
		cfg.OutboxPollInterval,
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()

	return nil
}
