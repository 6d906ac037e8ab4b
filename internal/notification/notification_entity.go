package notification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Notification is one delivered event on one feed channel. A redelivered
// kafka message hits uq_notification_delivery and is dropped.
type Notification struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID     uuid.UUID      `gorm:"type:uuid;not null;index:idx_notifications_company_channel"`
	Channel       string         `gorm:"type:varchar(80);not null;index:idx_notifications_company_channel;uniqueIndex:uq_notification_delivery"`
	EventType     string         `gorm:"type:varchar(60);not null;uniqueIndex:uq_notification_delivery"`
	AggregateType string         `gorm:"type:varchar(30);not null"`
	AggregateID   string         `gorm:"type:varchar(64);not null;uniqueIndex:uq_notification_delivery"`
	OccurredAt    time.Time      `gorm:"not null;uniqueIndex:uq_notification_delivery"`
	Title         string         `gorm:"type:varchar(255);not null"`
	Payload       datatypes.JSON `gorm:"type:jsonb;not null"`
	ReadAt        *time.Time
	CreatedAt     time.Time
}
