package models

import (
	"time"

	"gorm.io/datatypes"

	"readora/internal/shared/constants"
)

// TranscriptModel represents the database persistence model for discussion
// transcripts. Messages are stored as a JSON document; transcripts are
// append-only and never updated after creation.
type TranscriptModel struct {
	ID              uint           `gorm:"primarykey"`
	SID             string         `gorm:"uniqueIndex;not null;size:50;comment:Stripe-style ID: tr_xxx"`
	UserID          string         `gorm:"not null;size:64;index:idx_user_transcript,priority:1"`
	PassageSID      string         `gorm:"not null;size:50;index:idx_user_transcript,priority:2"`
	CompletionSID   string         `gorm:"size:50;index:idx_completion"`
	Messages        datatypes.JSON `gorm:"not null"`
	DurationSeconds int            `gorm:"not null;default:0"`
	CreatedAt       time.Time
}

// TableName specifies the table name for GORM
func (TranscriptModel) TableName() string {
	return constants.TableTranscripts
}
