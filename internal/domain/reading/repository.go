package reading

import (
	"context"
	"time"
)

// PassageRepository stores curated reading passages.
type PassageRepository interface {
	Create(ctx context.Context, passage *Passage) error
	GetBySID(ctx context.Context, sid string) (*Passage, error)
	List(ctx context.Context, filter PassageFilter) ([]*Passage, int64, error)
	ListByAuthor(ctx context.Context, userID string) ([]*Passage, error)
}

// CompletionRepository stores first-completion records.
type CompletionRepository interface {
	// CreateIfAbsent inserts the completion unless one already exists for
	// the (user, passage) pair. Returns whether a row was created; a
	// pre-existing row is not an error.
	CreateIfAbsent(ctx context.Context, record *CompletionRecord) (created bool, err error)
	ListByUser(ctx context.Context, userID string) ([]*CompletionRecord, error)
	ListPassageSIDsByUser(ctx context.Context, userID string) ([]string, error)
}

// TranscriptRepository stores discussion transcripts, append-only.
type TranscriptRepository interface {
	Create(ctx context.Context, record *TranscriptRecord) error
	ListByUser(ctx context.Context, userID string) ([]*TranscriptRecord, error)
	ListByPassage(ctx context.Context, userID, passageSID string) ([]*TranscriptRecord, error)
	GetByCompletion(ctx context.Context, userID, completionSID string) (*TranscriptRecord, error)
	// DeleteOwned removes a transcript only when it belongs to the user.
	// Returns whether a row was deleted.
	DeleteOwned(ctx context.Context, userID, transcriptSID string) (bool, error)
}

// ProgressRepository stores per-user reading progress.
type ProgressRepository interface {
	// GetByUserID returns the progress for a user, or nil when absent.
	GetByUserID(ctx context.Context, userID string) (*Progress, error)
	Create(ctx context.Context, progress *Progress) error
	Update(ctx context.Context, progress *Progress) error
	TouchLastActive(ctx context.Context, userID string, now time.Time) error
}

// SessionHistoryRepository records which passages a user opened a discussion
// on, newest first.
type SessionHistoryRepository interface {
	Append(ctx context.Context, userID, passageSID string, now time.Time) error
	RecentPassageSIDs(ctx context.Context, userID string, limit int) ([]string, error)
}

// BookmarkRepository stores per-user passage bookmarks.
type BookmarkRepository interface {
	// Add is idempotent: re-bookmarking an already bookmarked passage is a no-op.
	Add(ctx context.Context, userID, passageSID string) error
	Remove(ctx context.Context, userID, passageSID string) error
	ListPassageSIDs(ctx context.Context, userID string) ([]string, error)
}
