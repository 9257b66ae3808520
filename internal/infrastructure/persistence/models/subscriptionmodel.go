package models

import (
	"time"

	"readora/internal/shared/constants"
)

// SubscriptionModel represents the database persistence model for subscriptions
// This is the anti-corruption layer between domain and database
type SubscriptionModel struct {
	ID uint `gorm:"primarykey"`
	// UserID is the identity provider's user ID. One subscription row per
	// user; provisioning upserts against this index.
	UserID            string `gorm:"uniqueIndex;not null;size:64"`
	ExternalID        string `gorm:"index;size:64;comment:processor subscription ID"`
	PlanTier          string `gorm:"not null;size:20"`
	SessionsRemaining int    `gorm:"not null;default:0"`
	TotalSessions     int    `gorm:"not null;default:0"`
	Status            string `gorm:"not null;size:20;index:idx_status"`
	// ResetDate drives the monthly sweep; indexed together with status so
	// the due-scan stays cheap.
	ResetDate time.Time `gorm:"not null;index:idx_reset_due"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for GORM
func (SubscriptionModel) TableName() string {
	return constants.TableSubscriptions
}
