package reading

import (
	"fmt"
	"time"

	"readora/internal/shared/id"
)

// CompletionRecord marks the first time a user completed a passage. One row
// per (user, passage) pair, enforced by a uniqueness constraint: a second
// discussion of the same passage must not re-trigger streak or time credit.
type CompletionRecord struct {
	cid         uint
	sid         string
	userID      string
	passageID   string
	completedAt time.Time
}

// NewCompletionRecord creates a completion for a (user, passage) pair.
func NewCompletionRecord(userID, passageID string, completedAt time.Time) (*CompletionRecord, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if passageID == "" {
		return nil, fmt.Errorf("passage ID is required")
	}

	return &CompletionRecord{
		sid:         id.MustGenerateWithPrefix(id.PrefixCompletion, id.DefaultLength),
		userID:      userID,
		passageID:   passageID,
		completedAt: completedAt,
	}, nil
}

// ReconstructCompletionRecord reconstructs a completion from persistence.
func ReconstructCompletionRecord(cid uint, sid, userID, passageID string, completedAt time.Time) *CompletionRecord {
	return &CompletionRecord{
		cid:         cid,
		sid:         sid,
		userID:      userID,
		passageID:   passageID,
		completedAt: completedAt,
	}
}

func (c *CompletionRecord) ID() uint { return c.cid }
func (c *CompletionRecord) SID() string { return c.sid }
func (c *CompletionRecord) UserID() string { return c.userID }
func (c *CompletionRecord) PassageID() string { return c.passageID }
func (c *CompletionRecord) CompletedAt() time.Time { return c.completedAt }

// SetID sets the record ID (only for persistence layer use).
func (c *CompletionRecord) SetID(cid uint) error {
	if c.cid != 0 {
		return fmt.Errorf("completion record ID is already set")
	}
	c.cid = cid
	return nil
}
