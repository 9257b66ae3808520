package models

import (
	"time"

	"readora/internal/shared/constants"
)

// CompletionModel records the first completed discussion per (user, passage).
// The composite unique index makes repeat completions a handled duplicate
// instead of a second row.
type CompletionModel struct {
	ID         uint   `gorm:"primarykey"`
	SID        string `gorm:"uniqueIndex;not null;size:50;comment:Stripe-style ID: cp_xxx"`
	UserID     string `gorm:"not null;size:64;uniqueIndex:idx_user_passage,priority:1"`
	PassageSID string `gorm:"not null;size:50;uniqueIndex:idx_user_passage,priority:2"`
	CreatedAt  time.Time
}

// TableName specifies the table name for GORM
func (CompletionModel) TableName() string {
	return constants.TableCompletions
}
