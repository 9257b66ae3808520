package models

import (
	"time"

	"readora/internal/shared/constants"
)

// ReadingSessionModel records each time a user opened a discussion on a
// passage, newest first. History rows are lightweight and uncapped.
type ReadingSessionModel struct {
	ID         uint      `gorm:"primarykey"`
	UserID     string    `gorm:"not null;size:64;index:idx_user_session,priority:1"`
	PassageSID string    `gorm:"not null;size:50"`
	StartedAt  time.Time `gorm:"not null;index:idx_user_session,priority:2,sort:desc"`
	CreatedAt  time.Time
}

// TableName specifies the table name for GORM
func (ReadingSessionModel) TableName() string {
	return constants.TableReadingSessions
}
