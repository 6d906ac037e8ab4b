package config

import (
	"os"
	"strconv"
	"time"
)

type DatabaseConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	SSLMode  string
}

type KafkaConfig struct {
	Broker            string
	NotificationTopic string
	HubGroupID        string
	FeedGroupID       string
}

type Config struct {
	AppEnv             string
	Port               string
	Database           DatabaseConfig
	RedisAddr          string
	Kafka              KafkaConfig
	JWTSecret          string
	OutboxPollInterval time.Duration
	CreditRolloverCron string
	MaxConnectRetries  int
}

// Load reads configuration from the environment. Call godotenv.Load first
// when a .env file should be honoured.
func Load() Config {
	return Config{
		AppEnv: getEnv("APP_ENV", "development"),
		Port:   getEnv("PORT", "3000"),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "hris_payroll"),
			Port:     getEnv("DB_PORT", "5432"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		Kafka: KafkaConfig{
			Broker:            getEnv("KAFKA_BROKER", ""),
			NotificationTopic: getEnv("NOTIFICATION_TOPIC", "hr.approval.events.v1"),
			HubGroupID:        getEnv("KAFKA_HUB_GROUP_ID", "hris-payroll-hub"),
			FeedGroupID:       getEnv("KAFKA_FEED_GROUP_ID", "hris-payroll-feed"),
		},
		JWTSecret:          getEnv("JWT_SECRET", ""),
		OutboxPollInterval: getEnvDuration("OUTBOX_POLL_INTERVAL", 3*time.Second),
		CreditRolloverCron: getEnv("CREDIT_ROLLOVER_CRON", "0 0 1 1 *"),
		MaxConnectRetries:  getEnvInt("MAX_CONNECT_RETRIES", 5),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

// SecureCookies reports whether auth cookies must carry the Secure flag.
func (c Config) SecureCookies() bool {
	return c.AppEnv == "production"
}
