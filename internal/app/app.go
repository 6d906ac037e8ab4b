package app

import (
	"context"

	"hris-payroll/internal/config"
	"hris-payroll/internal/messaging/kafka/consumer"
	"hris-payroll/internal/middleware"
	"hris-payroll/internal/notification"
	"hris-payroll/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BuildApp connects the stores, registers every module on router and, when a
// kafka broker is configured, starts feeding the websocket hub. The feeder
// stops when ctx is cancelled.
func BuildApp(ctx context.Context, router *gin.Engine, cfg config.Config) error {
	logger := zap.L().Named("app.api")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database, cfg.MaxConnectRetries)
	if err != nil {
		return err
	}
	logger.Info("database connection established")

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.MaxConnectRetries)
	if err != nil {
		return err
	}
	logger.Info("redis connection established")

	router.Use(middleware.RequestID(), middleware.ContextLogger(zap.L()))

	hub := notification.NewHub()
	go func() {
		<-ctx.Done()
		_ = hub.Close()
	}()

	if cfg.Kafka.Broker != "" {
		reader := connection.NewKafkaReader(cfg.Kafka.Broker, cfg.Kafka.NotificationTopic, cfg.Kafka.HubGroupID)
		go func() {
			defer reader.Close()
			consumer.ConsumeEvents(ctx, reader, "hub", hub.Broadcast, logger)
		}()
	} else {
		logger.Warn("KAFKA_BROKER not set, websocket hub receives no events")
	}

	return registerModules(router, sqlDB, gormDB, redisClient, cfg, hub)
}
