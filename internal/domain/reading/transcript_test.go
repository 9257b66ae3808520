package reading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readora/internal/shared/id"
)

func TestNewTranscriptRecord_StampsMissingTimestamps(t *testing.T) {
	now := dayAt(2025, 3, 10, 9)
	messages := []TranscriptMessage{
		{Role: RoleAssistant, Content: "What did the fox do?"},
		{Role: RoleUser, Content: "It jumped over the dog.", Timestamp: dayAt(2025, 3, 10, 8)},
	}

	record, err := NewTranscriptRecord("user_1", "ps_abc", "cp_xyz", messages, 120, now)
	require.NoError(t, err)

	assert.True(t, id.HasPrefix(record.SID(), id.PrefixTranscript))
	assert.Equal(t, now, record.Messages()[0].Timestamp)
	assert.Equal(t, dayAt(2025, 3, 10, 8), record.Messages()[1].Timestamp)
	assert.Equal(t, "cp_xyz", record.CompletionSID())
}

func TestNewTranscriptRecord_Validation(t *testing.T) {
	now := dayAt(2025, 3, 10, 9)
	msg := []TranscriptMessage{{Role: RoleUser, Content: "hi"}}

	_, err := NewTranscriptRecord("", "ps_abc", "", msg, 60, now)
	assert.Error(t, err)

	_, err = NewTranscriptRecord("user_1", "", "", msg, 60, now)
	assert.Error(t, err)

	_, err = NewTranscriptRecord("user_1", "ps_abc", "", nil, 60, now)
	assert.Error(t, err)

	_, err = NewTranscriptRecord("user_1", "ps_abc", "", msg, -1, now)
	assert.Error(t, err)
}

func TestNewTranscriptRecord_DoesNotMutateInput(t *testing.T) {
	now := dayAt(2025, 3, 10, 9)
	messages := []TranscriptMessage{{Role: RoleUser, Content: "hi"}}

	_, err := NewTranscriptRecord("user_1", "ps_abc", "", messages, 60, now)
	require.NoError(t, err)

	assert.True(t, messages[0].Timestamp.IsZero())
}
