package models

import (
	"time"

	"readora/internal/shared/constants"
)

// PassageModel represents the database persistence model for reading passages
type PassageModel struct {
	ID               uint   `gorm:"primarykey"`
	SID              string `gorm:"uniqueIndex;not null;size:50;comment:Stripe-style ID: ps_xxx"`
	Title            string `gorm:"not null;size:200"`
	Content          string `gorm:"not null;type:text"`
	Subject          string `gorm:"size:100;index:idx_subject"`
	GradeLevel       string `gorm:"not null;size:20;index:idx_grade"`
	LessonType       string `gorm:"not null;size:30;index:idx_lesson_type"`
	EstimatedMinutes int    `gorm:"not null;default:10"`
	CreatedBy        string `gorm:"size:64;index:idx_author"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName specifies the table name for GORM
func (PassageModel) TableName() string {
	return constants.TablePassages
}
