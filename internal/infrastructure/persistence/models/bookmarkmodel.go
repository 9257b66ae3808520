package models

import (
	"time"

	"readora/internal/shared/constants"
)

// BookmarkModel represents the database persistence model for passage
// bookmarks. The composite unique index makes Add idempotent.
type BookmarkModel struct {
	ID         uint   `gorm:"primarykey"`
	UserID     string `gorm:"not null;size:64;uniqueIndex:idx_user_bookmark,priority:1"`
	PassageSID string `gorm:"not null;size:50;uniqueIndex:idx_user_bookmark,priority:2"`
	CreatedAt  time.Time
}

// TableName specifies the table name for GORM
func (BookmarkModel) TableName() string {
	return constants.TableBookmarks
}
