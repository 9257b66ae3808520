package paddle

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types Paddle delivers that we act on. Anything else is acknowledged
// and ignored.
const (
	EventSubscriptionCreated   = "subscription.created"
	EventSubscriptionActivated = "subscription.activated"
	EventSubscriptionUpdated   = "subscription.updated"
	EventSubscriptionCanceled  = "subscription.canceled"
	EventSubscriptionPastDue   = "subscription.past_due"
	EventSubscriptionPaused    = "subscription.paused"
	EventSubscriptionResumed   = "subscription.resumed"
	EventTransactionCompleted  = "transaction.completed"
	EventTransactionFailed     = "transaction.payment_failed"
)

// EventFamily groups event types by how the billing layer reacts to them.
type EventFamily string

const (
	// FamilyProvisioning creates or refreshes a subscription row with a full quota.
	FamilyProvisioning EventFamily = "provisioning"
	// FamilyUpdate re-resolves the plan from the price identifier.
	FamilyUpdate EventFamily = "update"
	// FamilyStatus maps the processor status onto the subscription row.
	FamilyStatus EventFamily = "status"
	// FamilyInformational is logged for audit and never mutates state.
	FamilyInformational EventFamily = "informational"
	// FamilyUnknown covers event types we do not recognize.
	FamilyUnknown EventFamily = "unknown"
)

// Event is a normalized Paddle webhook notification. Data fields are extracted
// from the envelope's nested payload; absent fields stay zero-valued and the
// handlers decide whether they are required.
type Event struct {
	EventID    string
	EventType  string
	OccurredAt time.Time
	Data       EventData
}

// EventData carries the subscription-level fields the billing handlers use.
type EventData struct {
	// SubscriptionID is Paddle's subscription identifier ("sub_..." on their
	// side); stored as the external ID.
	SubscriptionID string
	// UserID is the application user, passed through checkout custom data.
	UserID string
	// Email is the buyer's email from checkout custom data, when present.
	// Used for billing notices only, never for identity.
	Email string
	// Status is Paddle's subscription status vocabulary, e.g. "canceled".
	Status string
	// PriceID identifies the purchased plan; resolved against the catalog.
	PriceID string
}

// Family classifies the event for dispatch.
func (e *Event) Family() EventFamily {
	switch e.EventType {
	case EventSubscriptionCreated, EventSubscriptionActivated:
		return FamilyProvisioning
	case EventSubscriptionUpdated:
		return FamilyUpdate
	case EventSubscriptionCanceled, EventSubscriptionPastDue,
		EventSubscriptionPaused, EventSubscriptionResumed:
		return FamilyStatus
	case EventTransactionCompleted, EventTransactionFailed:
		return FamilyInformational
	default:
		return FamilyUnknown
	}
}

// envelope mirrors the wire shape of a Paddle notification. Only the fields we
// read are declared.
type envelope struct {
	EventID    string       `json:"event_id"`
	EventType  string       `json:"event_type"`
	OccurredAt time.Time    `json:"occurred_at"`
	Data       envelopeData `json:"data"`
}

type envelopeData struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	CustomData struct {
		UserID string `json:"user_id"`
		Email  string `json:"email"`
	} `json:"custom_data"`
	Items []struct {
		Price struct {
			ID string `json:"id"`
		} `json:"price"`
	} `json:"items"`
}

// ParseEvent decodes a verified webhook body into an Event. It fails only on
// malformed JSON or a missing event type; field-level validation belongs to
// the handlers, which know which fields their family requires.
func ParseEvent(body []byte) (*Event, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to parse webhook payload: %w", err)
	}
	if env.EventType == "" {
		return nil, fmt.Errorf("webhook payload missing event_type")
	}

	event := &Event{
		EventID:    env.EventID,
		EventType:  env.EventType,
		OccurredAt: env.OccurredAt,
		Data: EventData{
			SubscriptionID: env.Data.ID,
			UserID:         env.Data.CustomData.UserID,
			Email:          env.Data.CustomData.Email,
			Status:         env.Data.Status,
		},
	}
	if len(env.Data.Items) > 0 {
		event.Data.PriceID = env.Data.Items[0].Price.ID
	}

	return event, nil
}
