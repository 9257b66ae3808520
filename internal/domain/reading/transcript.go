package reading

import (
	"fmt"
	"time"

	"readora/internal/shared/id"
)

// TranscriptMessage is one turn of a discussion.
type TranscriptMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// TranscriptRecord is the append-only record of one completed discussion.
// Never updated after insert; deletion is an explicit user action only. A user
// may re-discuss a passage, so multiple transcripts can reference the same
// passage while at most one references the completion record.
type TranscriptRecord struct {
	tid             uint
	sid             string
	userID          string
	passageID       string
	completionSID   string
	messages        []TranscriptMessage
	durationSeconds int
	createdAt       time.Time
}

// NewTranscriptRecord creates a transcript for a finished discussion.
// completionSID is empty when the discussion did not accompany a first-time
// completion.
func NewTranscriptRecord(userID, passageID, completionSID string, messages []TranscriptMessage, durationSeconds int, now time.Time) (*TranscriptRecord, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if passageID == "" {
		return nil, fmt.Errorf("passage ID is required")
	}
	if len(messages) == 0 {
		return nil, fmt.Errorf("transcript must contain at least one message")
	}
	if durationSeconds < 0 {
		return nil, fmt.Errorf("duration cannot be negative")
	}

	// Messages arriving without timestamps are stamped at record time.
	stamped := make([]TranscriptMessage, len(messages))
	for i, msg := range messages {
		stamped[i] = msg
		if stamped[i].Timestamp.IsZero() {
			stamped[i].Timestamp = now
		}
	}

	return &TranscriptRecord{
		sid:             id.MustGenerateWithPrefix(id.PrefixTranscript, id.DefaultLength),
		userID:          userID,
		passageID:       passageID,
		completionSID:   completionSID,
		messages:        stamped,
		durationSeconds: durationSeconds,
		createdAt:       now,
	}, nil
}

// ReconstructTranscriptRecord reconstructs a transcript from persistence.
func ReconstructTranscriptRecord(
	tid uint,
	sid, userID, passageID, completionSID string,
	messages []TranscriptMessage,
	durationSeconds int,
	createdAt time.Time,
) *TranscriptRecord {
	return &TranscriptRecord{
		tid:             tid,
		sid:             sid,
		userID:          userID,
		passageID:       passageID,
		completionSID:   completionSID,
		messages:        messages,
		durationSeconds: durationSeconds,
		createdAt:       createdAt,
	}
}

func (t *TranscriptRecord) ID() uint { return t.tid }
func (t *TranscriptRecord) SID() string { return t.sid }
func (t *TranscriptRecord) UserID() string { return t.userID }
func (t *TranscriptRecord) PassageID() string { return t.passageID }
func (t *TranscriptRecord) CompletionSID() string { return t.completionSID }
func (t *TranscriptRecord) Messages() []TranscriptMessage { return t.messages }
func (t *TranscriptRecord) DurationSeconds() int { return t.durationSeconds }
func (t *TranscriptRecord) CreatedAt() time.Time { return t.createdAt }

// SetID sets the record ID (only for persistence layer use).
func (t *TranscriptRecord) SetID(tid uint) error {
	if t.tid != 0 {
		return fmt.Errorf("transcript record ID is already set")
	}
	t.tid = tid
	return nil
}
