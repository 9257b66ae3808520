// Package billing holds the webhook-facing domain contracts: the accepted
// event ledger used for deduplication. Subscription state itself lives in the
// subscription package; billing only tracks which processor events we have
// already acted on.
package billing

import (
	"context"
	"time"
)

// WebhookEvent is one accepted processor notification.
type WebhookEvent struct {
	EventID    string
	EventType  string
	OccurredAt time.Time
}

// WebhookEventRepository is the deduplication ledger. Uniqueness on the
// processor event ID is enforced by the store, not by the caller.
type WebhookEventRepository interface {
	// RecordOnce inserts the event ID. Returns duplicate=true when the event
	// was already recorded; the caller acknowledges without re-dispatching.
	RecordOnce(ctx context.Context, event WebhookEvent) (duplicate bool, err error)
}
