package valueobjects

// SubscriptionStatus represents the lifecycle status of a subscription.
// Incoming processor events are authoritative: any status may follow any
// other, so no transition matrix is enforced here.
type SubscriptionStatus string

const (
	StatusActive    SubscriptionStatus = "active"
	StatusCancelled SubscriptionStatus = "cancelled"
	StatusPastDue   SubscriptionStatus = "past_due"
	StatusPaused    SubscriptionStatus = "paused"
)

// ValidStatuses is the set of statuses accepted from persistence.
var ValidStatuses = map[SubscriptionStatus]bool{
	StatusActive:    true,
	StatusCancelled: true,
	StatusPastDue:   true,
	StatusPaused:    true,
}

func (s SubscriptionStatus) String() string {
	return string(s)
}

// CanConsume reports whether sessions may be consumed under this status.
func (s SubscriptionStatus) CanConsume() bool {
	return s == StatusActive
}

// StatusFromProcessor maps the payment processor's status vocabulary to the
// internal enumeration. The processor spells cancellation "canceled".
func StatusFromProcessor(raw string) (SubscriptionStatus, bool) {
	switch raw {
	case "active":
		return StatusActive, true
	case "canceled", "cancelled":
		return StatusCancelled, true
	case "past_due":
		return StatusPastDue, true
	case "paused":
		return StatusPaused, true
	default:
		return "", false
	}
}
