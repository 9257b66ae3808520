package subscription

import (
	"context"
	"time"

	vo "readora/internal/domain/subscription/valueobjects"
)

// DecrementResult is the outcome of an atomic session decrement.
type DecrementResult int

const (
	// DecrementSuccess means one session was consumed.
	DecrementSuccess DecrementResult = iota
	// DecrementInsufficient means the row exists but has no consumable
	// session (exhausted quota or non-active status).
	DecrementInsufficient
	// DecrementAbsent means the user has no subscription row.
	DecrementAbsent
)

func (r DecrementResult) String() string {
	switch r {
	case DecrementSuccess:
		return "success"
	case DecrementInsufficient:
		return "insufficient"
	case DecrementAbsent:
		return "absent"
	default:
		return "unknown"
	}
}

// Repository is the entitlement store. Every mutating operation must execute
// as a single atomic conditional update against the subscription row; webhook
// delivery, session consumption and the reset sweep all race on the same row
// with no other coordination.
type Repository interface {
	// GetByUserID returns the subscription for a user, or nil when absent.
	GetByUserID(ctx context.Context, userID string) (*Subscription, error)

	// UpsertOnProvision creates or fully re-provisions the row keyed on
	// user identity. Re-applying an identical provisioning event must
	// reproduce the same row (structural idempotency).
	UpsertOnProvision(ctx context.Context, sub *Subscription) error

	// UpdatePlan rewrites plan tier and total allowance, leaving
	// sessions_remaining untouched: a mid-cycle plan change only moves the
	// baseline used at the next reset.
	UpdatePlan(ctx context.Context, userID string, tier vo.PlanTier, totalSessions int, externalID string) error

	// UpdateStatus overwrites the billing status only.
	UpdateStatus(ctx context.Context, userID string, status vo.SubscriptionStatus) error

	// TryDecrementSessions consumes one session iff the row is active and
	// sessions_remaining > 0, as one conditional UPDATE. Under any number
	// of concurrent callers at most sessions_remaining decrements succeed
	// and the counter never goes negative.
	TryDecrementSessions(ctx context.Context, userID string) (DecrementResult, error)

	// ResetIfDue restores sessions_remaining to total_sessions and advances
	// reset_date one month from now, iff the row is active and its reset
	// date has elapsed. Returns whether a reset was applied.
	ResetIfDue(ctx context.Context, userID string, now time.Time) (bool, error)

	// ListUserIDsDueForReset pages user IDs of active subscriptions whose
	// reset date has elapsed.
	ListUserIDsDueForReset(ctx context.Context, now time.Time, limit int) ([]string, error)
}
