// Package constants centralizes database table names so models and raw
// migrations cannot drift apart silently.
package constants

const (
	TableSubscriptions   = "subscriptions"
	TableWebhookEvents   = "webhook_events"
	TablePassages        = "passages"
	TableCompletions     = "reading_completions"
	TableTranscripts     = "discussion_transcripts"
	TableProgress        = "reading_progress"
	TableReadingSessions = "reading_sessions"
	TableBookmarks       = "passage_bookmarks"
)
