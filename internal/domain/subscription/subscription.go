package subscription

import (
	"fmt"
	"time"

	vo "readora/internal/domain/subscription/valueobjects"
)

// Subscription represents the subscription aggregate root: one row per user,
// holding the plan tier, the session quota counters and the billing status.
// Rows are never deleted; a cancelled subscription persists for audit and to
// prevent quota abuse via re-signup under the same identity.
type Subscription struct {
	id                uint
	userID            string
	externalID        string
	planTier          vo.PlanTier
	sessionsRemaining int
	totalSessions     int
	status            vo.SubscriptionStatus
	resetDate         time.Time
	createdAt         time.Time
	updatedAt         time.Time
}

// NewSubscription creates a freshly provisioned subscription with a full
// quota and a reset date one month out.
func NewSubscription(userID, externalID string, tier vo.PlanTier, totalSessions int, now time.Time) (*Subscription, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if !vo.ValidTiers[tier] {
		return nil, fmt.Errorf("invalid plan tier: %s", tier)
	}
	if totalSessions <= 0 {
		return nil, fmt.Errorf("total sessions must be positive")
	}

	return &Subscription{
		userID:            userID,
		externalID:        externalID,
		planTier:          tier,
		sessionsRemaining: totalSessions,
		totalSessions:     totalSessions,
		status:            vo.StatusActive,
		resetDate:         NextResetDate(now),
		createdAt:         now,
		updatedAt:         now,
	}, nil
}

// ReconstructSubscription reconstructs a subscription from persistence.
func ReconstructSubscription(
	id uint,
	userID, externalID string,
	tier vo.PlanTier,
	sessionsRemaining, totalSessions int,
	status vo.SubscriptionStatus,
	resetDate, createdAt, updatedAt time.Time,
) (*Subscription, error) {
	if id == 0 {
		return nil, fmt.Errorf("subscription ID cannot be zero")
	}
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if !vo.ValidTiers[tier] {
		return nil, fmt.Errorf("invalid plan tier: %s", tier)
	}
	if !vo.ValidStatuses[status] {
		return nil, fmt.Errorf("invalid subscription status: %s", status)
	}
	if sessionsRemaining < 0 {
		return nil, fmt.Errorf("sessions remaining cannot be negative")
	}

	return &Subscription{
		id:                id,
		userID:            userID,
		externalID:        externalID,
		planTier:          tier,
		sessionsRemaining: sessionsRemaining,
		totalSessions:     totalSessions,
		status:            status,
		resetDate:         resetDate,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
	}, nil
}

// NextResetDate computes the reset date following a provision or reset at the
// given moment: one month from now, not one month from the previous reset
// date. A late sweep therefore shortens one period instead of compounding
// drift across periods.
func NextResetDate(now time.Time) time.Time {
	return now.AddDate(0, 1, 0)
}

// ID returns the subscription ID
func (s *Subscription) ID() uint { return s.id }

// UserID returns the identity-provider user ID
func (s *Subscription) UserID() string { return s.userID }

// ExternalID returns the processor-assigned subscription identifier
func (s *Subscription) ExternalID() string { return s.externalID }

// PlanTier returns the plan tier
func (s *Subscription) PlanTier() vo.PlanTier { return s.planTier }

// SessionsRemaining returns the sessions left in the current period
func (s *Subscription) SessionsRemaining() int { return s.sessionsRemaining }

// TotalSessions returns the allowance at last plan change or reset
func (s *Subscription) TotalSessions() int { return s.totalSessions }

// Status returns the subscription status
func (s *Subscription) Status() vo.SubscriptionStatus { return s.status }

// ResetDate returns when the quota next restores
func (s *Subscription) ResetDate() time.Time { return s.resetDate }

// CreatedAt returns when the subscription was created
func (s *Subscription) CreatedAt() time.Time { return s.createdAt }

// UpdatedAt returns when the subscription was last written
func (s *Subscription) UpdatedAt() time.Time { return s.updatedAt }

// SetID sets the subscription ID (only for persistence layer use).
func (s *Subscription) SetID(id uint) error {
	if s.id != 0 {
		return fmt.Errorf("subscription ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("subscription ID cannot be zero")
	}
	s.id = id
	return nil
}

// CanConsumeSession reports whether a session decrement could succeed right
// now. The store's conditional update remains the sole arbiter under
// concurrency; this is a read-side convenience for paywall prompts.
func (s *Subscription) CanConsumeSession() bool {
	return s.status.CanConsume() && s.sessionsRemaining > 0
}

// IsResetDue reports whether the monthly reset should restore this
// subscription's quota.
func (s *Subscription) IsResetDue(now time.Time) bool {
	return s.status == vo.StatusActive && !s.resetDate.After(now)
}
