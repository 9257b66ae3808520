package paddle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEvent(t *testing.T) {
	body := []byte(`{
		"event_id": "evt_01hv8x9",
		"event_type": "subscription.activated",
		"occurred_at": "2025-03-10T12:00:00Z",
		"data": {
			"id": "sub_01hv8wz",
			"status": "active",
			"custom_data": {"user_id": "user_2abc"},
			"items": [{"price": {"id": "pri_core_monthly"}}]
		}
	}`)

	event, err := ParseEvent(body)
	require.NoError(t, err)

	assert.Equal(t, "evt_01hv8x9", event.EventID)
	assert.Equal(t, EventSubscriptionActivated, event.EventType)
	assert.Equal(t, "sub_01hv8wz", event.Data.SubscriptionID)
	assert.Equal(t, "user_2abc", event.Data.UserID)
	assert.Equal(t, "active", event.Data.Status)
	assert.Equal(t, "pri_core_monthly", event.Data.PriceID)
}

func TestParseEvent_MissingFieldsStayZero(t *testing.T) {
	event, err := ParseEvent([]byte(`{"event_type":"transaction.completed","data":{}}`))
	require.NoError(t, err)

	assert.Empty(t, event.Data.UserID)
	assert.Empty(t, event.Data.PriceID)
}

func TestParseEvent_Invalid(t *testing.T) {
	_, err := ParseEvent([]byte(`not json`))
	assert.Error(t, err)

	_, err = ParseEvent([]byte(`{"data":{}}`))
	assert.Error(t, err)
}

func TestEventFamily(t *testing.T) {
	tests := []struct {
		eventType string
		want      EventFamily
	}{
		{EventSubscriptionCreated, FamilyProvisioning},
		{EventSubscriptionActivated, FamilyProvisioning},
		{EventSubscriptionUpdated, FamilyUpdate},
		{EventSubscriptionCanceled, FamilyStatus},
		{EventSubscriptionPastDue, FamilyStatus},
		{EventSubscriptionPaused, FamilyStatus},
		{EventSubscriptionResumed, FamilyStatus},
		{EventTransactionCompleted, FamilyInformational},
		{EventTransactionFailed, FamilyInformational},
		{"subscription.trialing", FamilyUnknown},
	}

	for _, tc := range tests {
		t.Run(tc.eventType, func(t *testing.T) {
			event := &Event{EventType: tc.eventType}
			assert.Equal(t, tc.want, event.Family())
		})
	}
}
