package models

import (
	"time"

	"readora/internal/shared/constants"
)

// ProgressModel represents the database persistence model for per-user
// reading progress and onboarding state.
type ProgressModel struct {
	ID                  uint   `gorm:"primarykey"`
	UserID              string `gorm:"uniqueIndex;not null;size:64"`
	StudentName         string `gorm:"not null;size:100"`
	GradeLevel          string `gorm:"not null;size:20"`
	ReadingStreak       int    `gorm:"not null;default:0"`
	TotalReadingMinutes int    `gorm:"not null;default:0"`
	LastReadDate        *time.Time
	LastActiveDate      time.Time `gorm:"not null"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// TableName specifies the table name for GORM
func (ProgressModel) TableName() string {
	return constants.TableProgress
}
