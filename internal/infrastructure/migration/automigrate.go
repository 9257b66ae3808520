package migration

import (
	"readora/internal/infrastructure/persistence/models"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.SubscriptionModel{},
		&models.WebhookEventModel{},
		&models.PassageModel{},
		&models.CompletionModel{},
		&models.TranscriptModel{},
		&models.ProgressModel{},
		&models.ReadingSessionModel{},
		&models.BookmarkModel{},
	}
}
