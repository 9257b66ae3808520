package models

import (
	"time"

	"readora/internal/shared/constants"
)

// WebhookEventModel records every processor event ID we have accepted.
// The unique index is the deduplication mechanism: inserting a duplicate
// event ID fails, and the webhook handler acknowledges without re-dispatching.
type WebhookEventModel struct {
	ID         uint   `gorm:"primarykey"`
	EventID    string `gorm:"uniqueIndex;not null;size:64"`
	EventType  string `gorm:"not null;size:64"`
	OccurredAt time.Time
	CreatedAt  time.Time
}

// TableName specifies the table name for GORM
func (WebhookEventModel) TableName() string {
	return constants.TableWebhookEvents
}
